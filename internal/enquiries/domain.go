// Package enquiries tracks school admission enquiries and their
// follow-up notes.
package enquiries

import "time"

// Status of one enquiry.
type Status string

const (
	StatusPending  Status = "pending"
	StatusAdmitted Status = "admitted"
	StatusDeclined Status = "declined"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusAdmitted, StatusDeclined:
		return true
	}
	return false
}

// StatusFilter narrows enquiry listings; empty means all.
type StatusFilter string

const (
	FilterAll      StatusFilter = ""
	FilterPending  StatusFilter = "pending"
	FilterAdmitted StatusFilter = "admitted"
	FilterDeclined StatusFilter = "declined"
)

// Enquiry model. NextFollowUp is the date the next contact is due,
// maintained from follow-up notes.
type Enquiry struct {
	ID           int64      `json:"id"`
	ChildName    string     `json:"child_name"`
	GuardianName string     `json:"guardian_name"`
	Phone        string     `json:"phone"`
	Grade        string     `json:"grade"`
	Status       Status     `json:"status"`
	NextFollowUp *time.Time `json:"next_follow_up,omitempty"`
	Note         *string    `json:"note,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// FollowUp is one dated contact note on an enquiry.
type FollowUp struct {
	ID        int64      `json:"id"`
	EnquiryID int64      `json:"enquiry_id"`
	Note      string     `json:"note"`
	ContactOn time.Time  `json:"contact_on"`
	NextDue   *time.Time `json:"next_due,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// CreateEnquiryRequest is the create payload.
type CreateEnquiryRequest struct {
	ChildName    string  `json:"child_name" validate:"required,max=200"`
	GuardianName string  `json:"guardian_name" validate:"required,max=200"`
	Phone        string  `json:"phone" validate:"required,max=50"`
	Grade        string  `json:"grade" validate:"required,max=50"`
	Note         *string `json:"note,omitempty"`
}

// AddFollowUpRequest records a contact and optionally schedules the
// next one.
type AddFollowUpRequest struct {
	Note      string     `json:"note" validate:"required"`
	ContactOn time.Time  `json:"contact_on" validate:"required"`
	NextDue   *time.Time `json:"next_due,omitempty"`
}

// UpdateStatusRequest settles the enquiry outcome.
type UpdateStatusRequest struct {
	Status Status `json:"status" validate:"required,oneof=pending admitted declined"`
}

// StatusCount is one row of the per-status overview.
type StatusCount struct {
	Status       Status     `json:"status"`
	Count        int        `json:"count"`
	LastActivity *time.Time `json:"last_activity,omitempty"`
}
