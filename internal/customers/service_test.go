package customers

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/bahikhata/bahikhata/internal/ledger"
)

type memoryRepo struct {
	customers     map[int64]*Customer
	loans         map[int64]*Loan
	payments      []Payment
	nextID        int64
	statementHits int
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{
		customers: make(map[int64]*Customer),
		loans:     make(map[int64]*Loan),
	}
}

func (r *memoryRepo) CreateCustomer(ctx context.Context, req CreateCustomerRequest) (*Customer, error) {
	r.nextID++
	c := &Customer{ID: r.nextID, Name: req.Name, Phone: req.Phone, CreatedAt: time.Now(), UpdatedAt: time.Now()}
	r.customers[c.ID] = c
	return c, nil
}

func (r *memoryRepo) GetCustomer(ctx context.Context, id int64) (*Customer, error) {
	c, ok := r.customers[id]
	if !ok {
		return nil, ErrNotFound
	}
	return c, nil
}

func (r *memoryRepo) ListCustomers(ctx context.Context, req ListCustomersRequest) ([]Customer, int, error) {
	var out []Customer
	for _, c := range r.customers {
		out = append(out, *c)
	}
	return out, len(out), nil
}

func (r *memoryRepo) CreateLoan(ctx context.Context, customerID int64, req IssueLoanRequest) (*Loan, error) {
	r.nextID++
	l := &Loan{
		ID:         r.nextID,
		CustomerID: customerID,
		Number:     fmt.Sprintf("LN-%05d", r.nextID),
		Principal:  req.Principal,
		RatePct:    req.RatePct,
		Scheme:     schemeFromString(req.Scheme),
		Status:     LoanActive,
		IssuedOn:   req.IssuedOn,
	}
	r.loans[l.ID] = l
	return l, nil
}

func (r *memoryRepo) GetLoan(ctx context.Context, id int64) (*Loan, error) {
	l, ok := r.loans[id]
	if !ok {
		return nil, ErrNotFound
	}
	return l, nil
}

func (r *memoryRepo) ListLoans(ctx context.Context, customerID int64, status StatusFilter) ([]Loan, error) {
	r.statementHits++
	var out []Loan
	for _, l := range r.loans {
		if l.CustomerID != customerID {
			continue
		}
		if status != StatusAll && LoanStatus(status) != l.Status {
			continue
		}
		out = append(out, *l)
	}
	return out, nil
}

func (r *memoryRepo) CloseLoan(ctx context.Context, id int64) error {
	l, ok := r.loans[id]
	if !ok {
		return ErrNotFound
	}
	l.Status = LoanClosed
	return nil
}

func (r *memoryRepo) CreatePayment(ctx context.Context, customerID int64, req RecordPaymentRequest) (*Payment, error) {
	r.nextID++
	p := Payment{
		ID:         r.nextID,
		CustomerID: customerID,
		LoanID:     req.LoanID,
		Number:     fmt.Sprintf("PMT-%05d", r.nextID),
		Amount:     req.Amount,
		PaidOn:     req.PaidOn,
		Method:     req.Method,
	}
	r.payments = append(r.payments, p)
	return &p, nil
}

func (r *memoryRepo) ListPayments(ctx context.Context, customerID int64) ([]Payment, error) {
	var out []Payment
	for _, p := range r.payments {
		if p.CustomerID == customerID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *memoryRepo) ListCustomerIDs(ctx context.Context) (map[int64]string, error) {
	out := make(map[int64]string)
	for id, c := range r.customers {
		out[id] = c.Name
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

func TestLoanNumbersDeriveFromIDs(t *testing.T) {
	svc, _, customerID := newTestService(t)
	ctx := context.Background()

	first, err := svc.IssueLoan(ctx, customerID, IssueLoanRequest{
		Principal: dec("1000"), IssuedOn: day(2024, 1, 5),
	})
	require.NoError(t, err)
	second, err := svc.IssueLoan(ctx, customerID, IssueLoanRequest{
		Principal: dec("500"), IssuedOn: day(2024, 1, 6),
	})
	require.NoError(t, err)

	require.Equal(t, fmt.Sprintf("LN-%05d", first.ID), first.Number)
	require.Equal(t, fmt.Sprintf("LN-%05d", second.ID), second.Number)
	require.NotEqual(t, first.Number, second.Number)
}

func newTestService(t *testing.T) (*Service, *memoryRepo, int64) {
	t.Helper()
	repo := newMemoryRepo()
	svc := NewService(repo, nil)
	ctx := context.Background()

	customer, err := svc.Create(ctx, CreateCustomerRequest{Name: "Ramesh Traders"})
	require.NoError(t, err)
	return svc, repo, customer.ID
}

func TestStatementReconstruction(t *testing.T) {
	svc, _, customerID := newTestService(t)
	ctx := context.Background()

	loan, err := svc.IssueLoan(ctx, customerID, IssueLoanRequest{
		Principal: dec("1000"), RatePct: dec("2"), Scheme: "monthly", IssuedOn: day(2024, 1, 5),
	})
	require.NoError(t, err)

	_, err = svc.RecordPayment(ctx, customerID, RecordPaymentRequest{
		LoanID: loan.ID, Amount: dec("300"), PaidOn: day(2024, 1, 10),
	})
	require.NoError(t, err)
	_, err = svc.RecordPayment(ctx, customerID, RecordPaymentRequest{
		LoanID: loan.ID, Amount: dec("200"), PaidOn: day(2024, 1, 10),
	})
	require.NoError(t, err)

	stmt, err := svc.Statement(ctx, customerID, ledger.Window{}, StatusAll)
	require.NoError(t, err)
	require.Len(t, stmt.Entries, 3)
	require.True(t, stmt.Entries[0].RunningBalance.Equal(dec("1000")))
	require.True(t, stmt.Entries[1].RunningBalance.Equal(dec("700")))
	require.True(t, stmt.Entries[2].RunningBalance.Equal(dec("500")))
	require.True(t, stmt.Summary.OutstandingBalance.Equal(dec("500")))
	require.Empty(t, stmt.SkippedRecords)
}

func TestStatusFilterExcludesWholeLoans(t *testing.T) {
	svc, _, customerID := newTestService(t)
	ctx := context.Background()

	active, err := svc.IssueLoan(ctx, customerID, IssueLoanRequest{
		Principal: dec("1000"), IssuedOn: day(2024, 1, 5),
	})
	require.NoError(t, err)
	closed, err := svc.IssueLoan(ctx, customerID, IssueLoanRequest{
		Principal: dec("400"), IssuedOn: day(2024, 1, 6),
	})
	require.NoError(t, err)

	_, err = svc.RecordPayment(ctx, customerID, RecordPaymentRequest{
		LoanID: closed.ID, Amount: dec("400"), PaidOn: day(2024, 1, 20),
	})
	require.NoError(t, err)
	require.NoError(t, svc.CloseLoan(ctx, closed.ID))

	stmt, err := svc.Statement(ctx, customerID, ledger.Window{}, StatusActive)
	require.NoError(t, err)
	// The closed loan's disbursement AND its payment are both excluded.
	require.Len(t, stmt.Entries, 1)
	require.Equal(t, active.Number, stmt.Entries[0].Reference)
	require.True(t, stmt.Summary.OutstandingBalance.Equal(dec("1000")))
}

func TestStatementReportsSkippedRecords(t *testing.T) {
	svc, repo, customerID := newTestService(t)
	ctx := context.Background()

	loan, err := svc.IssueLoan(ctx, customerID, IssueLoanRequest{
		Principal: dec("1000"), IssuedOn: day(2024, 1, 5),
	})
	require.NoError(t, err)

	// A stored payment row with no date must be skipped and reported,
	// not silently dropped and not fatal.
	repo.payments = append(repo.payments, Payment{
		ID: 99, CustomerID: customerID, LoanID: loan.ID, Number: "PMT-BAD", Amount: dec("100"),
	})

	stmt, err := svc.Statement(ctx, customerID, ledger.Window{}, StatusAll)
	require.NoError(t, err)
	require.Len(t, stmt.Entries, 1)
	require.Len(t, stmt.SkippedRecords, 1)
	require.Equal(t, "PMT-BAD", stmt.SkippedRecords[0].Reference)
	require.Equal(t, "missing date", stmt.SkippedRecords[0].Reason)
}

func TestStatementCachedUntilWrite(t *testing.T) {
	svc, repo, customerID := newTestService(t)
	ctx := context.Background()

	loan, err := svc.IssueLoan(ctx, customerID, IssueLoanRequest{
		Principal: dec("1000"), IssuedOn: day(2024, 1, 5),
	})
	require.NoError(t, err)

	_, err = svc.Statement(ctx, customerID, ledger.Window{}, StatusAll)
	require.NoError(t, err)
	hits := repo.statementHits

	_, err = svc.Statement(ctx, customerID, ledger.Window{}, StatusAll)
	require.NoError(t, err)
	require.Equal(t, hits, repo.statementHits, "second identical read must come from cache")

	// A write invalidates the statement cache.
	_, err = svc.RecordPayment(ctx, customerID, RecordPaymentRequest{
		LoanID: loan.ID, Amount: dec("100"), PaidOn: day(2024, 2, 1),
	})
	require.NoError(t, err)

	stmt, err := svc.Statement(ctx, customerID, ledger.Window{}, StatusAll)
	require.NoError(t, err)
	require.Greater(t, repo.statementHits, hits)
	require.True(t, stmt.Summary.OutstandingBalance.Equal(dec("900")))
}

func TestSummaryAsOfAccruesInterest(t *testing.T) {
	svc, _, customerID := newTestService(t)
	ctx := context.Background()

	_, err := svc.IssueLoan(ctx, customerID, IssueLoanRequest{
		Principal: dec("10000"), RatePct: dec("2"), Scheme: "daily", IssuedOn: day(2024, 1, 1),
	})
	require.NoError(t, err)

	summary, err := svc.SummaryAsOf(ctx, customerID, day(2024, 1, 16))
	require.NoError(t, err)
	// 2% per month, 15 days: 10000 * 0.02 * 15/30 = 100.
	require.True(t, summary.AccruedInterest.Equal(dec("100")), "got %s", summary.AccruedInterest)
	require.True(t, summary.Summary.OutstandingBalance.Equal(dec("10000")))
}

func TestRankedOutstandingOrdering(t *testing.T) {
	svc, _, firstID := newTestService(t)
	ctx := context.Background()

	second, err := svc.Create(ctx, CreateCustomerRequest{Name: "Suresh Stores"})
	require.NoError(t, err)

	_, err = svc.IssueLoan(ctx, firstID, IssueLoanRequest{Principal: dec("500"), IssuedOn: day(2024, 1, 1)})
	require.NoError(t, err)
	_, err = svc.IssueLoan(ctx, second.ID, IssueLoanRequest{Principal: dec("2000"), IssuedOn: day(2024, 1, 2)})
	require.NoError(t, err)

	ranked, err := svc.RankedOutstanding(ctx, StatusAll)
	require.NoError(t, err)
	require.Len(t, ranked, 2)
	require.Equal(t, second.ID, ranked[0].HolderID)
	require.True(t, ranked[0].Summary.OutstandingBalance.Equal(dec("2000")))
}

func TestPaymentRejectedForForeignLoan(t *testing.T) {
	svc, _, customerID := newTestService(t)
	ctx := context.Background()

	other, err := svc.Create(ctx, CreateCustomerRequest{Name: "Other"})
	require.NoError(t, err)
	loan, err := svc.IssueLoan(ctx, other.ID, IssueLoanRequest{Principal: dec("100"), IssuedOn: day(2024, 1, 1)})
	require.NoError(t, err)

	_, err = svc.RecordPayment(ctx, customerID, RecordPaymentRequest{
		LoanID: loan.ID, Amount: dec("50"), PaidOn: day(2024, 1, 2),
	})
	require.Error(t, err)
}
