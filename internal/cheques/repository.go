package cheques

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/bahikhata/bahikhata/internal/platform/httpx"
)

var (
	// ErrNotFound indicates resource not found.
	ErrNotFound = fmt.Errorf("cheques: %w", httpx.ErrNotFound)
	// ErrInvalidTransition indicates an illegal lifecycle move.
	ErrInvalidTransition = fmt.Errorf("cheques: invalid status transition: %w", httpx.ErrConflict)
)

// Repository provides PostgreSQL backed persistence for cheques.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create inserts a cheque in pending state.
func (r *Repository) Create(ctx context.Context, req RegisterChequeRequest) (*Cheque, error) {
	const query = `
		INSERT INTO cheques (number, party, bank, direction, amount, cheque_date, status, status_at, note, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, 'pending', NOW(), $7, NOW(), NOW())
		RETURNING id, status_at, created_at, updated_at`

	c := Cheque{
		Number:     req.Number,
		Party:      req.Party,
		Bank:       req.Bank,
		Direction:  req.Direction,
		Amount:     req.Amount,
		ChequeDate: req.ChequeDate,
		Status:     StatusPending,
		Note:       req.Note,
	}
	err := r.pool.QueryRow(ctx, query,
		req.Number, req.Party, req.Bank, string(req.Direction), req.Amount.String(), req.ChequeDate, req.Note,
	).Scan(&c.ID, &c.StatusAt, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("cheques: create: %w", err)
	}
	return &c, nil
}

// Get fetches one cheque by id.
func (r *Repository) Get(ctx context.Context, id int64) (*Cheque, error) {
	const query = `
		SELECT id, number, party, bank, direction, amount::text, cheque_date, status, status_at, note, created_at, updated_at
		FROM cheques WHERE id = $1`

	c, err := scanCheque(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("cheques: get %d: %w", id, err)
	}
	return c, nil
}

// List returns cheques, optionally filtered by status, newest first.
func (r *Repository) List(ctx context.Context, filter ListFilter) ([]Cheque, error) {
	query := `
		SELECT id, number, party, bank, direction, amount::text, cheque_date, status, status_at, note, created_at, updated_at
		FROM cheques`
	args := []any{}
	if filter.Status != "" {
		query += " WHERE status = $1"
		args = append(args, string(filter.Status))
	}
	query += " ORDER BY cheque_date DESC, id DESC"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("cheques: list: %w", err)
	}
	defer rows.Close()

	var out []Cheque
	for rows.Next() {
		c, err := scanCheque(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

// UpdateStatus moves a cheque to the given status. The WHERE clause
// re-checks the current status so a concurrent transition loses
// cleanly instead of double-applying.
func (r *Repository) UpdateStatus(ctx context.Context, id int64, from, to Status) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE cheques SET status = $1, status_at = NOW(), updated_at = NOW()
		WHERE id = $2 AND status = $3`,
		string(to), id, string(from))
	if err != nil {
		return fmt.Errorf("cheques: update status %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrInvalidTransition
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCheque(row rowScanner) (*Cheque, error) {
	var c Cheque
	var direction, amount, status string
	err := row.Scan(&c.ID, &c.Number, &c.Party, &c.Bank, &direction, &amount, &c.ChequeDate, &status, &c.StatusAt, &c.Note, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	c.Direction = Direction(direction)
	c.Status = Status(status)
	if c.Amount, err = decimal.NewFromString(amount); err != nil {
		return nil, fmt.Errorf("cheques: cheque %d amount: %w", c.ID, err)
	}
	return &c, nil
}
