package vendors

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/bahikhata/bahikhata/internal/ledger"
	"github.com/bahikhata/bahikhata/internal/platform/httpx"
)

type memoryRepo struct {
	vendors  map[int64]*Vendor
	bills    []Bill
	payments []VendorPayment
	nextID   int64
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{vendors: make(map[int64]*Vendor)}
}

func (r *memoryRepo) CreateVendor(ctx context.Context, req CreateVendorRequest) (*Vendor, error) {
	r.nextID++
	v := &Vendor{ID: r.nextID, Name: req.Name, Phone: req.Phone, City: req.City}
	r.vendors[v.ID] = v
	return v, nil
}

func (r *memoryRepo) GetVendor(ctx context.Context, id int64) (*Vendor, error) {
	v, ok := r.vendors[id]
	if !ok {
		return nil, ErrNotFound
	}
	return v, nil
}

func (r *memoryRepo) ListVendors(ctx context.Context) ([]Vendor, error) {
	var out []Vendor
	for _, v := range r.vendors {
		out = append(out, *v)
	}
	return out, nil
}

func (r *memoryRepo) CreateBill(ctx context.Context, vendorID int64, req RecordBillRequest) (*Bill, error) {
	for _, b := range r.bills {
		if b.VendorID == vendorID && b.Number == req.Number {
			return nil, ErrDuplicateBill
		}
	}
	r.nextID++
	b := Bill{ID: r.nextID, VendorID: vendorID, Number: req.Number, Amount: req.Amount, BillDate: req.BillDate, Note: req.Note}
	r.bills = append(r.bills, b)
	return &b, nil
}

func (r *memoryRepo) ListBills(ctx context.Context, vendorID int64) ([]Bill, error) {
	var out []Bill
	for _, b := range r.bills {
		if b.VendorID == vendorID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *memoryRepo) CreatePayment(ctx context.Context, vendorID int64, req RecordPaymentRequest) (*VendorPayment, error) {
	r.nextID++
	p := VendorPayment{
		ID: r.nextID, VendorID: vendorID,
		Number: fmt.Sprintf("VP-%05d", r.nextID),
		Amount: req.Amount, PaidOn: req.PaidOn, Method: req.Method,
	}
	r.payments = append(r.payments, p)
	return &p, nil
}

func (r *memoryRepo) ListPayments(ctx context.Context, vendorID int64) ([]VendorPayment, error) {
	var out []VendorPayment
	for _, p := range r.payments {
		if p.VendorID == vendorID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *memoryRepo) ListVendorIDs(ctx context.Context) (map[int64]string, error) {
	out := make(map[int64]string)
	for id, v := range r.vendors {
		out[id] = v.Name
	}
	return out, nil
}

func dec(v string) decimal.Decimal {
	d, err := decimal.NewFromString(v)
	if err != nil {
		panic(err)
	}
	return d
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestVendorStatementClampsToZero(t *testing.T) {
	svc := NewService(newMemoryRepo())
	ctx := context.Background()

	vendor, err := svc.Create(ctx, CreateVendorRequest{Name: "Shah Traders"})
	require.NoError(t, err)

	_, err = svc.RecordBill(ctx, vendor.ID, RecordBillRequest{
		Number: "B-101", Amount: dec("800"), BillDate: day(2024, 1, 5),
	})
	require.NoError(t, err)
	// Overpayment: owed never goes negative.
	_, err = svc.RecordPayment(ctx, vendor.ID, RecordPaymentRequest{
		Amount: dec("1000"), PaidOn: day(2024, 1, 20),
	})
	require.NoError(t, err)

	stmt, err := svc.Statement(ctx, vendor.ID, ledger.Window{})
	require.NoError(t, err)
	require.Len(t, stmt.Entries, 2)
	require.True(t, stmt.Entries[1].RunningBalance.Equal(dec("-200")))
	require.True(t, stmt.Summary.OutstandingBalance.IsZero())
}

func TestDuplicateBillNumberRejected(t *testing.T) {
	svc := NewService(newMemoryRepo())
	ctx := context.Background()

	vendor, err := svc.Create(ctx, CreateVendorRequest{Name: "Shah Traders"})
	require.NoError(t, err)

	_, err = svc.RecordBill(ctx, vendor.ID, RecordBillRequest{
		Number: "B-101", Amount: dec("800"), BillDate: day(2024, 1, 5),
	})
	require.NoError(t, err)
	_, err = svc.RecordBill(ctx, vendor.ID, RecordBillRequest{
		Number: "B-101", Amount: dec("900"), BillDate: day(2024, 1, 6),
	})
	require.ErrorIs(t, err, ErrDuplicateBill)
	require.ErrorIs(t, err, httpx.ErrDuplicate)
}

func TestRankedPayables(t *testing.T) {
	svc := NewService(newMemoryRepo())
	ctx := context.Background()

	small, err := svc.Create(ctx, CreateVendorRequest{Name: "Small"})
	require.NoError(t, err)
	big, err := svc.Create(ctx, CreateVendorRequest{Name: "Big"})
	require.NoError(t, err)

	_, err = svc.RecordBill(ctx, small.ID, RecordBillRequest{Number: "S-1", Amount: dec("100"), BillDate: day(2024, 1, 1)})
	require.NoError(t, err)
	_, err = svc.RecordBill(ctx, big.ID, RecordBillRequest{Number: "B-1", Amount: dec("900"), BillDate: day(2024, 1, 1)})
	require.NoError(t, err)

	ranked, err := svc.RankedPayables(ctx)
	require.NoError(t, err)
	require.Len(t, ranked, 2)
	require.Equal(t, big.ID, ranked[0].HolderID)
	require.True(t, ranked[0].Summary.OutstandingBalance.Equal(dec("900")))
}
