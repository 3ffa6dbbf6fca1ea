package jobs

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/bahikhata/bahikhata/internal/customers"
)

// SummaryWarmupJob rebuilds the ranked outstanding-balance listings so
// the first dashboard hit of the day is served from cache.
type SummaryWarmupJob struct {
	Customers *customers.Service
	Logger    *slog.Logger
	clock     func() time.Time
}

// NewSummaryWarmupJob wires dependencies for the warmup handler.
func NewSummaryWarmupJob(customersSvc *customers.Service, logger *slog.Logger) *SummaryWarmupJob {
	return &SummaryWarmupJob{
		Customers: customersSvc,
		Logger:    logger,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Handle processes summary warmup tasks.
func (j *SummaryWarmupJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Customers == nil {
		return errors.New("summary warmup: handler not configured")
	}

	logger := j.logger()
	logger.Info("starting summary warmup")
	start := j.now()

	warmed := 0
	for _, status := range []customers.StatusFilter{customers.StatusAll, customers.StatusActive} {
		if _, err := j.Customers.RankedOutstanding(ctx, status); err != nil {
			logger.Error("warm ranked outstanding", slog.String("status", string(status)), slog.Any("error", err))
			return err
		}
		warmed++
	}

	logger.Info("completed summary warmup", slog.Int("listings", warmed), slog.Duration("duration", time.Since(start)))
	return nil
}

func (j *SummaryWarmupJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskSummaryWarmup))
	}
	return slog.Default().With(slog.String("job", TaskSummaryWarmup))
}

func (j *SummaryWarmupJob) now() time.Time {
	if j.clock != nil {
		return j.clock()
	}
	return time.Now().UTC()
}
