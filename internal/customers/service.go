package customers

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"

	"github.com/bahikhata/bahikhata/internal/ledger"
	"github.com/bahikhata/bahikhata/internal/platform/httpx"
	"github.com/bahikhata/bahikhata/internal/shared"
)

// RepositoryPort defines data access methods for customers.
type RepositoryPort interface {
	CreateCustomer(ctx context.Context, req CreateCustomerRequest) (*Customer, error)
	GetCustomer(ctx context.Context, id int64) (*Customer, error)
	ListCustomers(ctx context.Context, req ListCustomersRequest) ([]Customer, int, error)
	CreateLoan(ctx context.Context, customerID int64, req IssueLoanRequest) (*Loan, error)
	GetLoan(ctx context.Context, id int64) (*Loan, error)
	ListLoans(ctx context.Context, customerID int64, status StatusFilter) ([]Loan, error)
	CloseLoan(ctx context.Context, id int64) error
	CreatePayment(ctx context.Context, customerID int64, req RecordPaymentRequest) (*Payment, error)
	ListPayments(ctx context.Context, customerID int64) ([]Payment, error)
	ListCustomerIDs(ctx context.Context) (map[int64]string, error)
}

// Service handles customer business logic. Statement results are
// memoized in a bounded cache owned by the service; cross-customer
// summaries go through the Redis summary cache.
type Service struct {
	repo       RepositoryPort
	validate   *validator.Validate
	statements *ledger.StatementCache
	summaries  *SummaryCache
	group      singleflight.Group
}

// NewService wires the repository with both cache layers. summaries may
// be nil, which disables Redis caching but not correctness.
func NewService(repo RepositoryPort, summaries *SummaryCache) *Service {
	return &Service{
		repo:       repo,
		validate:   validator.New(),
		statements: ledger.NewStatementCache(ledger.DefaultCacheSize),
		summaries:  summaries,
	}
}

// Create registers a new customer.
func (s *Service) Create(ctx context.Context, req CreateCustomerRequest) (*Customer, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("customers: validate: %w", err)
	}
	return s.repo.CreateCustomer(ctx, req)
}

// Get fetches one customer.
func (s *Service) Get(ctx context.Context, id int64) (*Customer, error) {
	return s.repo.GetCustomer(ctx, id)
}

// List returns a customer page.
func (s *Service) List(ctx context.Context, req ListCustomersRequest) ([]Customer, int, error) {
	return s.repo.ListCustomers(ctx, req)
}

// IssueLoan disburses a new loan for a customer.
func (s *Service) IssueLoan(ctx context.Context, customerID int64, req IssueLoanRequest) (*Loan, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("customers: validate: %w", err)
	}
	if !req.Principal.IsPositive() {
		return nil, fmt.Errorf("customers: principal must be positive: %w", httpx.ErrValidation)
	}
	if req.RatePct.IsNegative() {
		return nil, fmt.Errorf("customers: rate must not be negative: %w", httpx.ErrValidation)
	}
	if _, err := s.repo.GetCustomer(ctx, customerID); err != nil {
		return nil, err
	}
	loan, err := s.repo.CreateLoan(ctx, customerID, req)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return loan, nil
}

// CloseLoan marks a loan closed once it is settled.
func (s *Service) CloseLoan(ctx context.Context, loanID int64) error {
	if _, err := s.repo.GetLoan(ctx, loanID); err != nil {
		return err
	}
	if err := s.repo.CloseLoan(ctx, loanID); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

// RecordPayment registers a repayment against a loan.
func (s *Service) RecordPayment(ctx context.Context, customerID int64, req RecordPaymentRequest) (*Payment, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("customers: validate: %w", err)
	}
	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("customers: amount must be positive: %w", httpx.ErrValidation)
	}
	loan, err := s.repo.GetLoan(ctx, req.LoanID)
	if err != nil {
		return nil, err
	}
	if loan.CustomerID != customerID {
		return nil, fmt.Errorf("customers: loan %d does not belong to customer %d: %w", req.LoanID, customerID, httpx.ErrValidation)
	}
	payment, err := s.repo.CreatePayment(ctx, customerID, req)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return payment, nil
}

// Statement reconstructs a customer's ledger. The status filter
// excludes whole loans before events are gathered; the window narrows
// displayed rows and windowed aggregates only. Concurrent identical
// requests share one build via singleflight.
func (s *Service) Statement(ctx context.Context, customerID int64, window ledger.Window, status StatusFilter) (*Statement, error) {
	key := statementKey(customerID, window, status)
	if cached, ok := s.statements.Get(key); ok {
		return s.toStatement(customerID, cached, nil), nil
	}

	built, err, _ := s.group.Do(key, func() (any, error) {
		return s.buildStatement(ctx, customerID, window, status)
	})
	if err != nil {
		return nil, err
	}
	stmt := built.(*Statement)
	if len(stmt.SkippedRecords) == 0 {
		s.statements.Put(key, ledger.Result{Statement: stmt.Entries, Summary: stmt.Summary})
	}
	return stmt, nil
}

// SummaryAsOf returns the lifetime position plus interest accrued per
// active loan at the given reference date. The date is explicit so the
// figure is reproducible.
func (s *Service) SummaryAsOf(ctx context.Context, customerID int64, asOf time.Time) (*SummaryAsOf, error) {
	stmt, err := s.Statement(ctx, customerID, ledger.Window{}, StatusAll)
	if err != nil {
		return nil, err
	}

	loans, err := s.repo.ListLoans(ctx, customerID, StatusActive)
	if err != nil {
		return nil, err
	}
	accrued := decimal.Zero
	for _, loan := range loans {
		accrued = accrued.Add(ledger.Interest(loan.Principal, loan.RatePct, loan.Scheme, loan.IssuedOn, asOf))
	}

	return &SummaryAsOf{
		CustomerID:      customerID,
		AsOf:            asOf,
		Summary:         stmt.Summary,
		AccruedInterest: ledger.Round2(accrued),
	}, nil
}

// RankedOutstanding summarizes every customer and orders them by
// outstanding balance, highest first. The listing is served from the
// Redis summary cache until a write bumps the version.
func (s *Service) RankedOutstanding(ctx context.Context, status StatusFilter) ([]ledger.HolderSummary, error) {
	key, err := s.summaries.Key(ctx, "customers", "ranked", string(status))
	if err != nil {
		return nil, err
	}
	var ranked []ledger.HolderSummary
	err = s.summaries.FetchJSON(ctx, key, &ranked, func(ctx context.Context) (any, error) {
		return s.buildRanking(ctx, status)
	})
	return ranked, err
}

func (s *Service) buildStatement(ctx context.Context, customerID int64, window ledger.Window, status StatusFilter) (*Statement, error) {
	if _, err := s.repo.GetCustomer(ctx, customerID); err != nil {
		return nil, err
	}
	loans, err := s.repo.ListLoans(ctx, customerID, status)
	if err != nil {
		return nil, err
	}
	payments, err := s.repo.ListPayments(ctx, customerID)
	if err != nil {
		return nil, err
	}

	collected, err := ledger.Collect(sourceRecords(loans, payments), ledger.SkipInvalid)
	if err != nil {
		return nil, err
	}
	res := ledger.Reconstruct(collected.Events, window, ledger.BalanceOwed)
	return s.toStatement(customerID, res, collected.Skipped), nil
}

func (s *Service) buildRanking(ctx context.Context, status StatusFilter) ([]ledger.HolderSummary, error) {
	names, err := s.repo.ListCustomerIDs(ctx)
	if err != nil {
		return nil, err
	}
	summaries := make([]ledger.HolderSummary, 0, len(names))
	for id, name := range names {
		stmt, err := s.buildStatement(ctx, id, ledger.Window{}, status)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, ledger.HolderSummary{HolderID: id, HolderName: name, Summary: stmt.Summary})
	}
	return ledger.RankByOutstanding(summaries), nil
}

func (s *Service) toStatement(customerID int64, res ledger.Result, skipped []ledger.SkippedRecord) *Statement {
	return &Statement{
		CustomerID:     customerID,
		Entries:        res.Statement,
		Summary:        res.Summary,
		SkippedRecords: skipped,
	}
}

func (s *Service) invalidate(ctx context.Context) {
	s.statements.Flush()
	_ = s.summaries.Bump(ctx)
}

// sourceRecords flattens loans and payments into collector input.
// Loans come first, then payments in stored order, which preserves the
// observed same-day ordering of the source system.
func sourceRecords(loans []Loan, payments []Payment) []ledger.SourceRecord {
	contributing := make(map[int64]bool, len(loans))
	records := make([]ledger.SourceRecord, 0, len(loans)+len(payments))
	for i := range loans {
		loan := loans[i]
		contributing[loan.ID] = true
		issued := loan.IssuedOn
		principal := loan.Principal
		records = append(records, ledger.SourceRecord{
			Date:        &issued,
			Kind:        ledger.Debit,
			Amount:      &principal,
			Reference:   loan.Number,
			Description: "loan disbursed",
		})
	}
	for i := range payments {
		p := payments[i]
		if !contributing[p.LoanID] {
			continue
		}
		paid := p.PaidOn
		amount := p.Amount
		desc := "payment received"
		if p.Method != "" {
			desc = desc + " (" + p.Method + ")"
		}
		records = append(records, ledger.SourceRecord{
			Date:        &paid,
			Kind:        ledger.Credit,
			Amount:      &amount,
			Reference:   p.Number,
			Description: desc,
		})
	}
	return records
}

func statementKey(customerID int64, window ledger.Window, status StatusFilter) string {
	return "customers:" + strconv.FormatInt(customerID, 10) + ":" + shared.WindowKey(window) + ":" + string(status)
}

func schemeFromString(s string) ledger.InterestScheme {
	if s == string(ledger.InterestDaily) {
		return ledger.InterestDaily
	}
	return ledger.InterestMonthly
}
