package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bahikhata/bahikhata/internal/customers"
)

// InterestSnapshotJob records each customer's outstanding balance and
// accrued interest as of the run date, giving the shop a daily paper
// trail it can show a borrower who disputes a figure.
type InterestSnapshotJob struct {
	Customers *customers.Service
	Pool      *pgxpool.Pool
	Logger    *slog.Logger
	clock     func() time.Time
}

// NewInterestSnapshotJob wires dependencies for the snapshot handler.
func NewInterestSnapshotJob(customersSvc *customers.Service, pool *pgxpool.Pool, logger *slog.Logger) *InterestSnapshotJob {
	return &InterestSnapshotJob{
		Customers: customersSvc,
		Pool:      pool,
		Logger:    logger,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Handle processes interest snapshot tasks.
func (j *InterestSnapshotJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Customers == nil {
		return errors.New("interest snapshot: handler not configured")
	}
	if j.Pool == nil {
		return errors.New("interest snapshot: pool not configured")
	}
	var payload InterestSnapshotPayload
	if len(t.Payload()) > 0 {
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}
	}

	asOf := j.now()
	if payload.AsOf != "" {
		parsed, err := time.Parse("2006-01-02", payload.AsOf)
		if err != nil {
			return asynq.SkipRetry
		}
		asOf = parsed
	}

	logger := j.logger().With(slog.String("as_of", asOf.Format("2006-01-02")))
	logger.Info("starting interest snapshot")

	ranked, err := j.Customers.RankedOutstanding(ctx, customers.StatusActive)
	if err != nil {
		logger.Error("list customers with active loans", slog.Any("error", err))
		return err
	}

	recorded := 0
	for _, holder := range ranked {
		summary, err := j.Customers.SummaryAsOf(ctx, holder.HolderID, asOf)
		if err != nil {
			logger.Error("compute summary", slog.Int64("customer_id", holder.HolderID), slog.Any("error", err))
			return err
		}
		if err := j.record(ctx, summary, asOf); err != nil {
			logger.Error("record snapshot", slog.Int64("customer_id", holder.HolderID), slog.Any("error", err))
			return err
		}
		recorded++
	}

	logger.Info("completed interest snapshot", slog.Int("customers", recorded))
	return nil
}

// record upserts so a re-run on the same day refreshes the row instead
// of duplicating it.
func (j *InterestSnapshotJob) record(ctx context.Context, summary *customers.SummaryAsOf, asOf time.Time) error {
	_, err := j.Pool.Exec(ctx, `
		INSERT INTO interest_snapshots (customer_id, as_of, outstanding, accrued_interest, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (customer_id, as_of)
		DO UPDATE SET outstanding = EXCLUDED.outstanding, accrued_interest = EXCLUDED.accrued_interest, created_at = NOW()
	`, summary.CustomerID, asOf, summary.Summary.OutstandingBalance.String(), summary.AccruedInterest.String())
	return err
}

func (j *InterestSnapshotJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskInterestSnapshot))
	}
	return slog.Default().With(slog.String("job", TaskInterestSnapshot))
}

func (j *InterestSnapshotJob) now() time.Time {
	if j.clock != nil {
		return j.clock()
	}
	return time.Now().UTC()
}
