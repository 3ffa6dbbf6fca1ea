package enquiries

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bahikhata/bahikhata/internal/platform/httpx"
)

// ErrNotFound indicates resource not found.
var ErrNotFound = fmt.Errorf("enquiries: %w", httpx.ErrNotFound)

// Repository provides PostgreSQL backed persistence for enquiries and
// follow-ups.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create inserts an enquiry in pending state.
func (r *Repository) Create(ctx context.Context, req CreateEnquiryRequest) (*Enquiry, error) {
	const query = `
		INSERT INTO enquiries (child_name, guardian_name, phone, grade, status, note, created_at, updated_at)
		VALUES ($1, $2, $3, $4, 'pending', $5, NOW(), NOW())
		RETURNING id, created_at, updated_at`

	e := Enquiry{
		ChildName:    req.ChildName,
		GuardianName: req.GuardianName,
		Phone:        req.Phone,
		Grade:        req.Grade,
		Status:       StatusPending,
		Note:         req.Note,
	}
	err := r.pool.QueryRow(ctx, query,
		req.ChildName, req.GuardianName, req.Phone, req.Grade, req.Note,
	).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("enquiries: create: %w", err)
	}
	return &e, nil
}

// Get fetches one enquiry by id.
func (r *Repository) Get(ctx context.Context, id int64) (*Enquiry, error) {
	const query = `
		SELECT id, child_name, guardian_name, phone, grade, status, next_follow_up, note, created_at, updated_at
		FROM enquiries WHERE id = $1`

	e, err := scanEnquiry(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("enquiries: get %d: %w", id, err)
	}
	return e, nil
}

// List returns enquiries, optionally by status, newest first.
func (r *Repository) List(ctx context.Context, filter StatusFilter) ([]Enquiry, error) {
	query := `
		SELECT id, child_name, guardian_name, phone, grade, status, next_follow_up, note, created_at, updated_at
		FROM enquiries`
	args := []any{}
	if filter != FilterAll {
		query += " WHERE status = $1"
		args = append(args, string(filter))
	}
	query += " ORDER BY created_at DESC, id DESC"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("enquiries: list: %w", err)
	}
	defer rows.Close()

	var out []Enquiry
	for rows.Next() {
		e, err := scanEnquiry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *e)
	}
	return out, rows.Err()
}

// ListDue returns pending enquiries whose next follow-up is due on or
// before the given date.
func (r *Repository) ListDue(ctx context.Context, due time.Time) ([]Enquiry, error) {
	const query = `
		SELECT id, child_name, guardian_name, phone, grade, status, next_follow_up, note, created_at, updated_at
		FROM enquiries
		WHERE status = 'pending' AND next_follow_up IS NOT NULL AND next_follow_up <= $1
		ORDER BY next_follow_up, id`

	rows, err := r.pool.Query(ctx, query, due)
	if err != nil {
		return nil, fmt.Errorf("enquiries: list due: %w", err)
	}
	defer rows.Close()

	var out []Enquiry
	for rows.Next() {
		e, err := scanEnquiry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *e)
	}
	return out, rows.Err()
}

// UpdateStatus sets the enquiry status.
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status Status) error {
	tag, err := r.pool.Exec(ctx,
		"UPDATE enquiries SET status = $1, updated_at = NOW() WHERE id = $2",
		string(status), id)
	if err != nil {
		return fmt.Errorf("enquiries: update status %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// AddFollowUp inserts a follow-up note and rolls the enquiry's next
// due date forward.
func (r *Repository) AddFollowUp(ctx context.Context, enquiryID int64, req AddFollowUpRequest) (*FollowUp, error) {
	const insert = `
		INSERT INTO enquiry_followups (enquiry_id, note, contact_on, next_due, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING id, created_at`

	f := FollowUp{
		EnquiryID: enquiryID,
		Note:      req.Note,
		ContactOn: req.ContactOn,
		NextDue:   req.NextDue,
	}
	err := r.pool.QueryRow(ctx, insert, enquiryID, req.Note, req.ContactOn, req.NextDue).
		Scan(&f.ID, &f.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("enquiries: add follow-up: %w", err)
	}

	_, err = r.pool.Exec(ctx,
		"UPDATE enquiries SET next_follow_up = $1, updated_at = NOW() WHERE id = $2",
		req.NextDue, enquiryID)
	if err != nil {
		return nil, fmt.Errorf("enquiries: roll next follow-up %d: %w", enquiryID, err)
	}
	return &f, nil
}

// ListFollowUps returns the notes of one enquiry, oldest first.
func (r *Repository) ListFollowUps(ctx context.Context, enquiryID int64) ([]FollowUp, error) {
	const query = `
		SELECT id, enquiry_id, note, contact_on, next_due, created_at
		FROM enquiry_followups WHERE enquiry_id = $1
		ORDER BY contact_on, id`

	rows, err := r.pool.Query(ctx, query, enquiryID)
	if err != nil {
		return nil, fmt.Errorf("enquiries: list follow-ups: %w", err)
	}
	defer rows.Close()

	var out []FollowUp
	for rows.Next() {
		var f FollowUp
		if err := rows.Scan(&f.ID, &f.EnquiryID, &f.Note, &f.ContactOn, &f.NextDue, &f.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// CountByStatus returns the per-status totals with the date of the
// most recent activity in each bucket.
func (r *Repository) CountByStatus(ctx context.Context) ([]StatusCount, error) {
	const query = `
		SELECT status, COUNT(*), MAX(updated_at)
		FROM enquiries GROUP BY status ORDER BY status`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("enquiries: count by status: %w", err)
	}
	defer rows.Close()

	var out []StatusCount
	for rows.Next() {
		var c StatusCount
		var status string
		if err := rows.Scan(&status, &c.Count, &c.LastActivity); err != nil {
			return nil, err
		}
		c.Status = Status(status)
		out = append(out, c)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEnquiry(row rowScanner) (*Enquiry, error) {
	var e Enquiry
	var status string
	err := row.Scan(&e.ID, &e.ChildName, &e.GuardianName, &e.Phone, &e.Grade, &status, &e.NextFollowUp, &e.Note, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	e.Status = Status(status)
	return &e, nil
}
