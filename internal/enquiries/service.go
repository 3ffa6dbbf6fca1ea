package enquiries

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/bahikhata/bahikhata/internal/platform/httpx"
)

// RepositoryPort defines data access methods for enquiries.
type RepositoryPort interface {
	Create(ctx context.Context, req CreateEnquiryRequest) (*Enquiry, error)
	Get(ctx context.Context, id int64) (*Enquiry, error)
	List(ctx context.Context, filter StatusFilter) ([]Enquiry, error)
	ListDue(ctx context.Context, due time.Time) ([]Enquiry, error)
	UpdateStatus(ctx context.Context, id int64, status Status) error
	AddFollowUp(ctx context.Context, enquiryID int64, req AddFollowUpRequest) (*FollowUp, error)
	ListFollowUps(ctx context.Context, enquiryID int64) ([]FollowUp, error)
	CountByStatus(ctx context.Context) ([]StatusCount, error)
}

// Service handles enquiry tracking logic.
type Service struct {
	repo     RepositoryPort
	validate *validator.Validate
}

// NewService constructs the service.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo, validate: validator.New()}
}

// Create registers a new enquiry in pending state.
func (s *Service) Create(ctx context.Context, req CreateEnquiryRequest) (*Enquiry, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("enquiries: validate: %w", err)
	}
	return s.repo.Create(ctx, req)
}

// Get fetches one enquiry.
func (s *Service) Get(ctx context.Context, id int64) (*Enquiry, error) {
	return s.repo.Get(ctx, id)
}

// List returns enquiries filtered by status.
func (s *Service) List(ctx context.Context, filter StatusFilter) ([]Enquiry, error) {
	if filter != FilterAll && !Status(filter).Valid() {
		return nil, fmt.Errorf("enquiries: unknown status %q: %w", filter, httpx.ErrValidation)
	}
	return s.repo.List(ctx, filter)
}

// ListDue returns pending enquiries whose follow-up is due on or
// before the given date.
func (s *Service) ListDue(ctx context.Context, due time.Time) ([]Enquiry, error) {
	return s.repo.ListDue(ctx, due)
}

// AddFollowUp records a contact note. A follow-up on a settled
// enquiry is rejected; there is nobody left to call.
func (s *Service) AddFollowUp(ctx context.Context, enquiryID int64, req AddFollowUpRequest) (*FollowUp, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("enquiries: validate: %w", err)
	}
	enquiry, err := s.repo.Get(ctx, enquiryID)
	if err != nil {
		return nil, err
	}
	if enquiry.Status != StatusPending {
		return nil, fmt.Errorf("enquiries: enquiry %d is %s, not pending: %w", enquiryID, enquiry.Status, httpx.ErrConflict)
	}
	return s.repo.AddFollowUp(ctx, enquiryID, req)
}

// ListFollowUps returns the contact history of one enquiry.
func (s *Service) ListFollowUps(ctx context.Context, enquiryID int64) ([]FollowUp, error) {
	if _, err := s.repo.Get(ctx, enquiryID); err != nil {
		return nil, err
	}
	return s.repo.ListFollowUps(ctx, enquiryID)
}

// UpdateStatus settles or reopens an enquiry.
func (s *Service) UpdateStatus(ctx context.Context, id int64, req UpdateStatusRequest) (*Enquiry, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("enquiries: validate: %w", err)
	}
	if err := s.repo.UpdateStatus(ctx, id, req.Status); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, id)
}

// Overview returns the per-status counts with last activity.
func (s *Service) Overview(ctx context.Context) ([]StatusCount, error) {
	return s.repo.CountByStatus(ctx)
}
