// Package jobs contains the background tasks: follow-up reminders,
// summary cache warmup and interest snapshots.
package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskFollowupReminder lists admission enquiries due for contact.
	TaskFollowupReminder = "enquiries:followup_reminder"
	// TaskSummaryWarmup rebuilds the ranked customer summary cache.
	TaskSummaryWarmup = "customers:summary_warmup"
	// TaskInterestSnapshot records accrued interest per customer.
	TaskInterestSnapshot = "loans:interest_snapshot"
)

// FollowupReminderPayload scopes a reminder run. Date is the due
// cutoff in YYYY-MM-DD; empty means today.
type FollowupReminderPayload struct {
	Date string `json:"date,omitempty"`
}

// NewFollowupReminderTask constructs the reminder task.
func NewFollowupReminderTask(payload FollowupReminderPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskFollowupReminder, data), nil
}

// NewSummaryWarmupTask constructs the warmup task.
func NewSummaryWarmupTask() *asynq.Task {
	return asynq.NewTask(TaskSummaryWarmup, nil)
}

// InterestSnapshotPayload scopes a snapshot run. AsOf is the
// reference date in YYYY-MM-DD; empty means today.
type InterestSnapshotPayload struct {
	AsOf string `json:"as_of,omitempty"`
}

// NewInterestSnapshotTask constructs the snapshot task.
func NewInterestSnapshotTask(payload InterestSnapshotPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskInterestSnapshot, data), nil
}
