package vendors

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/bahikhata/bahikhata/internal/platform/httpx"
)

var (
	// ErrNotFound indicates resource not found.
	ErrNotFound = fmt.Errorf("vendors: %w", httpx.ErrNotFound)
	// ErrDuplicateBill indicates the vendor already has a bill with
	// that number.
	ErrDuplicateBill = fmt.Errorf("vendors: duplicate bill number: %w", httpx.ErrDuplicate)
)

// Repository provides PostgreSQL backed persistence for vendors,
// bills and vendor payments.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// CreateVendor inserts a vendor.
func (r *Repository) CreateVendor(ctx context.Context, req CreateVendorRequest) (*Vendor, error) {
	const query = `
		INSERT INTO vendors (name, phone, city, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		RETURNING id, created_at, updated_at`

	v := Vendor{Name: req.Name, Phone: req.Phone, City: req.City}
	err := r.pool.QueryRow(ctx, query, req.Name, req.Phone, req.City).
		Scan(&v.ID, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("vendors: create: %w", err)
	}
	return &v, nil
}

// GetVendor fetches one vendor by id.
func (r *Repository) GetVendor(ctx context.Context, id int64) (*Vendor, error) {
	const query = `
		SELECT id, name, phone, city, created_at, updated_at
		FROM vendors WHERE id = $1`

	var v Vendor
	err := r.pool.QueryRow(ctx, query, id).
		Scan(&v.ID, &v.Name, &v.Phone, &v.City, &v.CreatedAt, &v.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("vendors: get %d: %w", id, err)
	}
	return &v, nil
}

// ListVendors returns every vendor.
func (r *Repository) ListVendors(ctx context.Context) ([]Vendor, error) {
	const query = `
		SELECT id, name, phone, city, created_at, updated_at
		FROM vendors ORDER BY name, id`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("vendors: list: %w", err)
	}
	defer rows.Close()

	var out []Vendor
	for rows.Next() {
		var v Vendor
		if err := rows.Scan(&v.ID, &v.Name, &v.Phone, &v.City, &v.CreatedAt, &v.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// CreateBill inserts a bill. Bill numbers are unique per vendor; a
// violation of the uq_vendor_bill_number constraint maps to
// ErrDuplicateBill.
func (r *Repository) CreateBill(ctx context.Context, vendorID int64, req RecordBillRequest) (*Bill, error) {
	const query = `
		INSERT INTO vendor_bills (vendor_id, number, amount, bill_date, note, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		RETURNING id, created_at`

	b := Bill{
		VendorID: vendorID,
		Number:   req.Number,
		Amount:   req.Amount,
		BillDate: req.BillDate,
		Note:     req.Note,
	}
	err := r.pool.QueryRow(ctx, query,
		vendorID, req.Number, req.Amount.String(), req.BillDate, req.Note,
	).Scan(&b.ID, &b.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrDuplicateBill
		}
		return nil, fmt.Errorf("vendors: create bill: %w", err)
	}
	return &b, nil
}

// ListBills returns every bill of one vendor in insertion order.
func (r *Repository) ListBills(ctx context.Context, vendorID int64) ([]Bill, error) {
	const query = `
		SELECT id, vendor_id, number, amount::text, bill_date, note, created_at
		FROM vendor_bills WHERE vendor_id = $1
		ORDER BY id`

	rows, err := r.pool.Query(ctx, query, vendorID)
	if err != nil {
		return nil, fmt.Errorf("vendors: list bills: %w", err)
	}
	defer rows.Close()

	var out []Bill
	for rows.Next() {
		var b Bill
		var amount string
		if err := rows.Scan(&b.ID, &b.VendorID, &b.Number, &amount, &b.BillDate, &b.Note, &b.CreatedAt); err != nil {
			return nil, err
		}
		if b.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("vendors: bill %d amount: %w", b.ID, err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// CreatePayment inserts a payment to the vendor, generating its
// voucher number.
func (r *Repository) CreatePayment(ctx context.Context, vendorID int64, req RecordPaymentRequest) (*VendorPayment, error) {
	// Voucher numbers come from the id sequence inside the insert so
	// concurrent payments can never mint the same number.
	const query = `
		INSERT INTO vendor_payments (id, vendor_id, number, amount, paid_on, method, created_at)
		SELECT seq.nid, $1, 'VP-' || LPAD(seq.nid::text, 5, '0'), $2, $3, $4, NOW()
		FROM (SELECT nextval(pg_get_serial_sequence('vendor_payments', 'id')) AS nid) seq
		RETURNING id, number, created_at`

	p := VendorPayment{
		VendorID: vendorID,
		Amount:   req.Amount,
		PaidOn:   req.PaidOn,
		Method:   req.Method,
	}
	err := r.pool.QueryRow(ctx, query,
		vendorID, req.Amount.String(), req.PaidOn, req.Method,
	).Scan(&p.ID, &p.Number, &p.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("vendors: create payment: %w", err)
	}
	return &p, nil
}

// ListPayments returns every payment to one vendor in insertion order.
func (r *Repository) ListPayments(ctx context.Context, vendorID int64) ([]VendorPayment, error) {
	const query = `
		SELECT id, vendor_id, number, amount::text, paid_on, method, created_at
		FROM vendor_payments WHERE vendor_id = $1
		ORDER BY id`

	rows, err := r.pool.Query(ctx, query, vendorID)
	if err != nil {
		return nil, fmt.Errorf("vendors: list payments: %w", err)
	}
	defer rows.Close()

	var out []VendorPayment
	for rows.Next() {
		var p VendorPayment
		var amount string
		if err := rows.Scan(&p.ID, &p.VendorID, &p.Number, &amount, &p.PaidOn, &p.Method, &p.CreatedAt); err != nil {
			return nil, err
		}
		if p.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("vendors: payment %d amount: %w", p.ID, err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// ListVendorIDs returns every vendor id and name, for rankings.
func (r *Repository) ListVendorIDs(ctx context.Context) (map[int64]string, error) {
	rows, err := r.pool.Query(ctx, "SELECT id, name FROM vendors ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("vendors: list ids: %w", err)
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
