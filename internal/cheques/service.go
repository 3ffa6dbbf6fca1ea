package cheques

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/bahikhata/bahikhata/internal/platform/httpx"
)

// RepositoryPort defines data access methods for cheques.
type RepositoryPort interface {
	Create(ctx context.Context, req RegisterChequeRequest) (*Cheque, error)
	Get(ctx context.Context, id int64) (*Cheque, error)
	List(ctx context.Context, filter ListFilter) ([]Cheque, error)
	UpdateStatus(ctx context.Context, id int64, from, to Status) error
}

// Service handles cheque lifecycle logic.
type Service struct {
	repo     RepositoryPort
	validate *validator.Validate
}

// NewService constructs the service.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo, validate: validator.New()}
}

// Register records a new cheque in pending state.
func (s *Service) Register(ctx context.Context, req RegisterChequeRequest) (*Cheque, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("cheques: validate: %w", err)
	}
	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("cheques: amount must be positive: %w", httpx.ErrValidation)
	}
	return s.repo.Create(ctx, req)
}

// Get fetches one cheque.
func (s *Service) Get(ctx context.Context, id int64) (*Cheque, error) {
	return s.repo.Get(ctx, id)
}

// List returns cheques filtered by status.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]Cheque, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, fmt.Errorf("cheques: unknown status %q: %w", filter.Status, httpx.ErrValidation)
	}
	return s.repo.List(ctx, filter)
}

// Transition moves a cheque to its next lifecycle state. Terminal
// cheques and skipped states are rejected.
func (s *Service) Transition(ctx context.Context, id int64, req TransitionRequest) (*Cheque, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("cheques: validate: %w", err)
	}
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !existing.Status.CanTransitionTo(req.Status) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, existing.Status, req.Status)
	}
	if err := s.repo.UpdateStatus(ctx, id, existing.Status, req.Status); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, id)
}
