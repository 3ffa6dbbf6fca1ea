package customers

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
var ErrNotFound = fmt.Errorf("customers: %w", httpx.ErrNotFound)

// Repository provides PostgreSQL backed persistence for customers,
// loans and payments. Monetary columns are NUMERIC; they travel as text
// and are parsed into decimals so no precision is lost in transit.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// CreateCustomer inserts a customer.
func (r *Repository) CreateCustomer(ctx context.Context, req CreateCustomerRequest) (*Customer, error) {
	const query = `
		INSERT INTO customers (name, phone, address, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		RETURNING id, created_at, updated_at`

	c := Customer{Name: req.Name, Phone: req.Phone, Address: req.Address, Notes: req.Notes}
	err := r.pool.QueryRow(ctx, query, req.Name, req.Phone, req.Address, req.Notes).
		Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("customers: create: %w", err)
	}
	return &c, nil
}

// GetCustomer fetches one customer by id.
func (r *Repository) GetCustomer(ctx context.Context, id int64) (*Customer, error) {
	const query = `
		SELECT id, name, phone, address, notes, created_at, updated_at
		FROM customers WHERE id = $1`

	var c Customer
	err := r.pool.QueryRow(ctx, query, id).
		Scan(&c.ID, &c.Name, &c.Phone, &c.Address, &c.Notes, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("customers: get %d: %w", id, err)
	}
	return &c, nil
}

// ListCustomers returns a filtered page of customers plus the total.
func (r *Repository) ListCustomers(ctx context.Context, req ListCustomersRequest) ([]Customer, int, error) {
	where := ""
	args := []any{}
	if req.Search != "" {
		where = "WHERE name ILIKE $1 OR phone ILIKE $1"
		args = append(args, "%"+req.Search+"%")
	}

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM customers "+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("customers: count: %w", err)
	}

	perPage := req.PerPage
	if perPage <= 0 {
		perPage = 20
	}
	page := req.Page
	if page <= 0 {
		page = 1
	}
	query := fmt.Sprintf(`
		SELECT id, name, phone, address, notes, created_at, updated_at
		FROM customers %s
		ORDER BY name, id
		LIMIT $%d OFFSET $%d`, where, len(args)+1, len(args)+2)
	args = append(args, perPage, (page-1)*perPage)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("customers: list: %w", err)
	}
	defer rows.Close()

	var out []Customer
	for rows.Next() {
		var c Customer
		if err := rows.Scan(&c.ID, &c.Name, &c.Phone, &c.Address, &c.Notes, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, c)
	}
	return out, total, rows.Err()
}

// CreateLoan inserts a loan, generating its number.
func (r *Repository) CreateLoan(ctx context.Context, customerID int64, req IssueLoanRequest) (*Loan, error) {
	// The number is drawn from the id sequence inside the insert, so
	// concurrent disbursements can never mint the same loan number.
	const query = `
		INSERT INTO loans (id, customer_id, number, principal, rate_pct, scheme, status, issued_on, created_at, updated_at)
		SELECT seq.nid, $1, 'LN-' || LPAD(seq.nid::text, 5, '0'), $2, $3, $4, 'active', $5, NOW(), NOW()
		FROM (SELECT nextval(pg_get_serial_sequence('loans', 'id')) AS nid) seq
		RETURNING id, number, created_at, updated_at`

	scheme := req.Scheme
	if scheme == "" {
		scheme = "monthly"
	}
	l := Loan{
		CustomerID: customerID,
		Principal:  req.Principal,
		RatePct:    req.RatePct,
		Scheme:     schemeFromString(scheme),
		Status:     LoanActive,
		IssuedOn:   req.IssuedOn,
	}
	err := r.pool.QueryRow(ctx, query,
		customerID, req.Principal.String(), req.RatePct.String(), scheme, req.IssuedOn,
	).Scan(&l.ID, &l.Number, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("customers: create loan: %w", err)
	}
	return &l, nil
}

// GetLoan fetches one loan by id.
func (r *Repository) GetLoan(ctx context.Context, id int64) (*Loan, error) {
	const query = `
		SELECT id, customer_id, number, principal::text, rate_pct::text, scheme, status, issued_on, created_at, updated_at
		FROM loans WHERE id = $1`

	l, err := scanLoan(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("customers: get loan %d: %w", id, err)
	}
	return l, nil
}

// ListLoans returns the customer's loans, optionally filtered by status.
func (r *Repository) ListLoans(ctx context.Context, customerID int64, status StatusFilter) ([]Loan, error) {
	query := `
		SELECT id, customer_id, number, principal::text, rate_pct::text, scheme, status, issued_on, created_at, updated_at
		FROM loans WHERE customer_id = $1`
	args := []any{customerID}
	if status != StatusAll {
		query += " AND status = $2"
		args = append(args, string(status))
	}
	query += " ORDER BY issued_on, id"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("customers: list loans: %w", err)
	}
	defer rows.Close()

	var out []Loan
	for rows.Next() {
		l, err := scanLoan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *l)
	}
	return out, rows.Err()
}

// CloseLoan marks a loan closed.
func (r *Repository) CloseLoan(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx,
		"UPDATE loans SET status = 'closed', updated_at = NOW() WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("customers: close loan %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// CreatePayment inserts a repayment, generating its receipt number.
func (r *Repository) CreatePayment(ctx context.Context, customerID int64, req RecordPaymentRequest) (*Payment, error) {
	const query = `
		INSERT INTO payments (id, customer_id, loan_id, number, amount, paid_on, method, note, created_at)
		SELECT seq.nid, $1, $2, 'PMT-' || LPAD(seq.nid::text, 5, '0'), $3, $4, $5, $6, NOW()
		FROM (SELECT nextval(pg_get_serial_sequence('payments', 'id')) AS nid) seq
		RETURNING id, number, created_at`

	p := Payment{
		CustomerID: customerID,
		LoanID:     req.LoanID,
		Amount:     req.Amount,
		PaidOn:     req.PaidOn,
		Method:     req.Method,
		Note:       req.Note,
	}
	err := r.pool.QueryRow(ctx, query,
		customerID, req.LoanID, req.Amount.String(), req.PaidOn, req.Method, req.Note,
	).Scan(&p.ID, &p.Number, &p.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("customers: create payment: %w", err)
	}
	return &p, nil
}

// ListPayments returns every payment of one customer in insertion
// order. Same-day ordering downstream depends on this order staying
// stable, so the sort key includes the id.
func (r *Repository) ListPayments(ctx context.Context, customerID int64) ([]Payment, error) {
	const query = `
		SELECT id, customer_id, loan_id, number, amount::text, paid_on, method, note, created_at
		FROM payments WHERE customer_id = $1
		ORDER BY id`

	rows, err := r.pool.Query(ctx, query, customerID)
	if err != nil {
		return nil, fmt.Errorf("customers: list payments: %w", err)
	}
	defer rows.Close()

	var out []Payment
	for rows.Next() {
		var p Payment
		var amount string
		if err := rows.Scan(&p.ID, &p.CustomerID, &p.LoanID, &p.Number, &amount, &p.PaidOn, &p.Method, &p.Note, &p.CreatedAt); err != nil {
			return nil, err
		}
		if p.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("customers: payment %d amount: %w", p.ID, err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// ListCustomerIDs returns every customer id and name, for rankings.
func (r *Repository) ListCustomerIDs(ctx context.Context) (map[int64]string, error) {
	rows, err := r.pool.Query(ctx, "SELECT id, name FROM customers ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("customers: list ids: %w", err)
	}
	defer rows.Close()

	out := make(map[int64]string)
	for rows.Next() {
		var id int64
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, err
		}
		out[id] = name
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLoan(row rowScanner) (*Loan, error) {
	var l Loan
	var principal, rate, scheme, status string
	err := row.Scan(&l.ID, &l.CustomerID, &l.Number, &principal, &rate, &scheme, &status, &l.IssuedOn, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if l.Principal, err = decimal.NewFromString(principal); err != nil {
		return nil, fmt.Errorf("customers: loan %d principal: %w", l.ID, err)
	}
	if l.RatePct, err = decimal.NewFromString(rate); err != nil {
		return nil, fmt.Errorf("customers: loan %d rate: %w", l.ID, err)
	}
	l.Scheme = schemeFromString(scheme)
	l.Status = LoanStatus(status)
	return &l, nil
}
