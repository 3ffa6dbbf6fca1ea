package vendors

import (
	"context"
	"fmt"
	"strconv"

	"github.com/go-playground/validator/v10"

	"github.com/bahikhata/bahikhata/internal/ledger"
	"github.com/bahikhata/bahikhata/internal/platform/httpx"
	"github.com/bahikhata/bahikhata/internal/shared"
)

// RepositoryPort defines data access methods for vendors.
type RepositoryPort interface {
	CreateVendor(ctx context.Context, req CreateVendorRequest) (*Vendor, error)
	GetVendor(ctx context.Context, id int64) (*Vendor, error)
	ListVendors(ctx context.Context) ([]Vendor, error)
	CreateBill(ctx context.Context, vendorID int64, req RecordBillRequest) (*Bill, error)
	ListBills(ctx context.Context, vendorID int64) ([]Bill, error)
	CreatePayment(ctx context.Context, vendorID int64, req RecordPaymentRequest) (*VendorPayment, error)
	ListPayments(ctx context.Context, vendorID int64) ([]VendorPayment, error)
	ListVendorIDs(ctx context.Context) (map[int64]string, error)
}

// Service handles vendor ledger logic. Vendor statements use owed
// semantics: payments beyond the billed total clamp to zero.
type Service struct {
	repo       RepositoryPort
	validate   *validator.Validate
	statements *ledger.StatementCache
}

// NewService constructs the service.
func NewService(repo RepositoryPort) *Service {
	return &Service{
		repo:       repo,
		validate:   validator.New(),
		statements: ledger.NewStatementCache(ledger.DefaultCacheSize),
	}
}

// Create registers a vendor.
func (s *Service) Create(ctx context.Context, req CreateVendorRequest) (*Vendor, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("vendors: validate: %w", err)
	}
	return s.repo.CreateVendor(ctx, req)
}

// Get fetches one vendor.
func (s *Service) Get(ctx context.Context, id int64) (*Vendor, error) {
	return s.repo.GetVendor(ctx, id)
}

// List returns every vendor.
func (s *Service) List(ctx context.Context) ([]Vendor, error) {
	return s.repo.ListVendors(ctx)
}

// RecordBill registers a vendor bill.
func (s *Service) RecordBill(ctx context.Context, vendorID int64, req RecordBillRequest) (*Bill, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("vendors: validate: %w", err)
	}
	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("vendors: amount must be positive: %w", httpx.ErrValidation)
	}
	if _, err := s.repo.GetVendor(ctx, vendorID); err != nil {
		return nil, err
	}
	bill, err := s.repo.CreateBill(ctx, vendorID, req)
	if err != nil {
		return nil, err
	}
	s.statements.Flush()
	return bill, nil
}

// RecordPayment registers a payment to the vendor.
func (s *Service) RecordPayment(ctx context.Context, vendorID int64, req RecordPaymentRequest) (*VendorPayment, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("vendors: validate: %w", err)
	}
	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("vendors: amount must be positive: %w", httpx.ErrValidation)
	}
	if _, err := s.repo.GetVendor(ctx, vendorID); err != nil {
		return nil, err
	}
	payment, err := s.repo.CreatePayment(ctx, vendorID, req)
	if err != nil {
		return nil, err
	}
	s.statements.Flush()
	return payment, nil
}

// Statement reconstructs a vendor's ledger under an optional window.
func (s *Service) Statement(ctx context.Context, vendorID int64, window ledger.Window) (*Statement, error) {
	key := "vendors:" + strconv.FormatInt(vendorID, 10) + ":" + shared.WindowKey(window)
	if cached, ok := s.statements.Get(key); ok {
		return &Statement{VendorID: vendorID, Entries: cached.Statement, Summary: cached.Summary}, nil
	}

	stmt, err := s.buildStatement(ctx, vendorID, window)
	if err != nil {
		return nil, err
	}
	if len(stmt.SkippedRecords) == 0 {
		s.statements.Put(key, ledger.Result{Statement: stmt.Entries, Summary: stmt.Summary})
	}
	return stmt, nil
}

// RankedPayables summarizes every vendor and orders them by amount
// owed, highest first.
func (s *Service) RankedPayables(ctx context.Context) ([]ledger.HolderSummary, error) {
	names, err := s.repo.ListVendorIDs(ctx)
	if err != nil {
		return nil, err
	}
	summaries := make([]ledger.HolderSummary, 0, len(names))
	for id, name := range names {
		stmt, err := s.buildStatement(ctx, id, ledger.Window{})
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, ledger.HolderSummary{HolderID: id, HolderName: name, Summary: stmt.Summary})
	}
	return ledger.RankByOutstanding(summaries), nil
}

func (s *Service) buildStatement(ctx context.Context, vendorID int64, window ledger.Window) (*Statement, error) {
	if _, err := s.repo.GetVendor(ctx, vendorID); err != nil {
		return nil, err
	}
	bills, err := s.repo.ListBills(ctx, vendorID)
	if err != nil {
		return nil, err
	}
	payments, err := s.repo.ListPayments(ctx, vendorID)
	if err != nil {
		return nil, err
	}

	records := make([]ledger.SourceRecord, 0, len(bills)+len(payments))
	for i := range bills {
		b := bills[i]
		date := b.BillDate
		amount := b.Amount
		records = append(records, ledger.SourceRecord{
			Date:        &date,
			Kind:        ledger.Debit,
			Amount:      &amount,
			Reference:   b.Number,
			Description: "bill",
		})
	}
	for i := range payments {
		p := payments[i]
		date := p.PaidOn
		amount := p.Amount
		desc := "payment made"
		if p.Method != "" {
			desc = desc + " (" + p.Method + ")"
		}
		records = append(records, ledger.SourceRecord{
			Date:        &date,
			Kind:        ledger.Credit,
			Amount:      &amount,
			Reference:   p.Number,
			Description: desc,
		})
	}

	collected, err := ledger.Collect(records, ledger.SkipInvalid)
	if err != nil {
		return nil, err
	}
	res := ledger.Reconstruct(collected.Events, window, ledger.BalanceOwed)
	return &Statement{
		VendorID:       vendorID,
		Entries:        res.Statement,
		Summary:        res.Summary,
		SkippedRecords: collected.Skipped,
	}, nil
}
