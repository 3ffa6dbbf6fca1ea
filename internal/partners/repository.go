package partners

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/bahikhata/bahikhata/internal/platform/httpx"
)

// ErrNotFound indicates resource not found.
var ErrNotFound = fmt.Errorf("partners: %w", httpx.ErrNotFound)

// Repository provides PostgreSQL backed persistence for partners and
// their capital entries.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// CreatePartner inserts a partner.
func (r *Repository) CreatePartner(ctx context.Context, req CreatePartnerRequest) (*Partner, error) {
	const query = `
		INSERT INTO partners (name, phone, share_pct, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		RETURNING id, created_at, updated_at`

	var share any
	if req.SharePct != nil {
		share = req.SharePct.String()
	}
	p := Partner{Name: req.Name, Phone: req.Phone, SharePct: req.SharePct}
	err := r.pool.QueryRow(ctx, query, req.Name, req.Phone, share).
		Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("partners: create: %w", err)
	}
	return &p, nil
}

// GetPartner fetches one partner by id.
func (r *Repository) GetPartner(ctx context.Context, id int64) (*Partner, error) {
	const query = `
		SELECT id, name, phone, share_pct::text, created_at, updated_at
		FROM partners WHERE id = $1`

	var p Partner
	var share *string
	err := r.pool.QueryRow(ctx, query, id).
		Scan(&p.ID, &p.Name, &p.Phone, &share, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("partners: get %d: %w", id, err)
	}
	if share != nil {
		d, err := decimal.NewFromString(*share)
		if err != nil {
			return nil, fmt.Errorf("partners: partner %d share: %w", id, err)
		}
		p.SharePct = &d
	}
	return &p, nil
}

// ListPartners returns every partner.
func (r *Repository) ListPartners(ctx context.Context) ([]Partner, error) {
	const query = `
		SELECT id, name, phone, share_pct::text, created_at, updated_at
		FROM partners ORDER BY name, id`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("partners: list: %w", err)
	}
	defer rows.Close()

	var out []Partner
	for rows.Next() {
		var p Partner
		var share *string
		if err := rows.Scan(&p.ID, &p.Name, &p.Phone, &share, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		if share != nil {
			d, err := decimal.NewFromString(*share)
			if err != nil {
				return nil, fmt.Errorf("partners: partner %d share: %w", p.ID, err)
			}
			p.SharePct = &d
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// CreateEntry inserts a capital movement, generating its number.
func (r *Repository) CreateEntry(ctx context.Context, partnerID int64, req RecordEntryRequest) (*CapitalEntry, error) {
	// Entry numbers come from the id sequence inside the insert so
	// concurrent entries can never mint the same number.
	const query = `
		INSERT INTO capital_entries (id, partner_id, number, kind, amount, entry_date, note, created_at)
		SELECT seq.nid, $1, 'CAP-' || LPAD(seq.nid::text, 5, '0'), $2, $3, $4, $5, NOW()
		FROM (SELECT nextval(pg_get_serial_sequence('capital_entries', 'id')) AS nid) seq
		RETURNING id, number, created_at`

	e := CapitalEntry{
		PartnerID: partnerID,
		Kind:      req.Kind,
		Amount:    req.Amount,
		EntryDate: req.EntryDate,
		Note:      req.Note,
	}
	err := r.pool.QueryRow(ctx, query,
		partnerID, string(req.Kind), req.Amount.String(), req.EntryDate, req.Note,
	).Scan(&e.ID, &e.Number, &e.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("partners: create entry: %w", err)
	}
	return &e, nil
}

// ListEntries returns every capital entry of one partner in insertion
// order. Same-day ordering downstream depends on this order staying
// stable, so the sort key includes the id.
func (r *Repository) ListEntries(ctx context.Context, partnerID int64) ([]CapitalEntry, error) {
	const query = `
		SELECT id, partner_id, number, kind, amount::text, entry_date, note, created_at
		FROM capital_entries WHERE partner_id = $1
		ORDER BY id`

	rows, err := r.pool.Query(ctx, query, partnerID)
	if err != nil {
		return nil, fmt.Errorf("partners: list entries: %w", err)
	}
	defer rows.Close()

	var out []CapitalEntry
	for rows.Next() {
		var e CapitalEntry
		var kind, amount string
		if err := rows.Scan(&e.ID, &e.PartnerID, &e.Number, &kind, &amount, &e.EntryDate, &e.Note, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.Kind = EntryKind(kind)
		if e.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("partners: entry %d amount: %w", e.ID, err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
