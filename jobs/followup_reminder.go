package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/bahikhata/bahikhata/internal/enquiries"
)

// FollowupReminderJob surfaces admission enquiries whose follow-up
// date has arrived so staff can ring the guardians.
type FollowupReminderJob struct {
	Enquiries *enquiries.Service
	Logger    *slog.Logger
	clock     func() time.Time
}

// NewFollowupReminderJob wires dependencies for the reminder handler.
func NewFollowupReminderJob(enquiriesSvc *enquiries.Service, logger *slog.Logger) *FollowupReminderJob {
	return &FollowupReminderJob{
		Enquiries: enquiriesSvc,
		Logger:    logger,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Handle processes follow-up reminder tasks.
func (j *FollowupReminderJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Enquiries == nil {
		return errors.New("followup reminder: handler not configured")
	}
	var payload FollowupReminderPayload
	if len(t.Payload()) > 0 {
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}
	}

	due := j.now()
	if payload.Date != "" {
		parsed, err := time.Parse("2006-01-02", payload.Date)
		if err != nil {
			return asynq.SkipRetry
		}
		due = parsed
	}

	logger := j.logger().With(slog.String("due", due.Format("2006-01-02")))
	logger.Info("starting follow-up reminder run")

	pending, err := j.Enquiries.ListDue(ctx, due)
	if err != nil {
		logger.Error("list due enquiries", slog.Any("error", err))
		return err
	}
	for _, enq := range pending {
		logger.Info("enquiry due for follow-up",
			slog.Int64("enquiry_id", enq.ID),
			slog.String("child", enq.ChildName),
			slog.String("guardian", enq.GuardianName),
			slog.String("phone", enq.Phone))
	}

	logger.Info("completed follow-up reminder run", slog.Int("due_count", len(pending)))
	return nil
}

func (j *FollowupReminderJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskFollowupReminder))
	}
	return slog.Default().With(slog.String("job", TaskFollowupReminder))
}

func (j *FollowupReminderJob) now() time.Time {
	if j.clock != nil {
		return j.clock()
	}
	return time.Now().UTC()
}
