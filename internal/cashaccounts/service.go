package cashaccounts

import (
	"context"
	"fmt"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/bahikhata/bahikhata/internal/ledger"
	"github.com/bahikhata/bahikhata/internal/platform/httpx"
	"github.com/bahikhata/bahikhata/internal/shared"
)

// RepositoryPort defines data access methods for cash accounts.
type RepositoryPort interface {
	CreateAccount(ctx context.Context, req CreateAccountRequest) (*Account, error)
	GetAccount(ctx context.Context, id int64) (*Account, error)
	ListAccounts(ctx context.Context) ([]Account, error)
	CreateTransaction(ctx context.Context, accountID int64, req RecordTransactionRequest, reference string) (*Transaction, error)
	CreateTransfer(ctx context.Context, transferID string, req TransferRequest) (*Transfer, error)
	ListTransactions(ctx context.Context, accountID int64) ([]Transaction, error)
}

// Service handles cash account logic.
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

// Create registers an account.
func (s *Service) Create(ctx context.Context, req CreateAccountRequest) (*Account, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("cashaccounts: validate: %w", err)
	}
	return s.repo.CreateAccount(ctx, req)
}

// Get fetches one account.
func (s *Service) Get(ctx context.Context, id int64) (*Account, error) {
	return s.repo.GetAccount(ctx, id)
}

// List returns every account.
func (s *Service) List(ctx context.Context) ([]Account, error) {
	return s.repo.ListAccounts(ctx)
}

// RecordTransaction registers a deposit or withdrawal. Each direct
// movement gets its own generated reference.
func (s *Service) RecordTransaction(ctx context.Context, accountID int64, req RecordTransactionRequest) (*Transaction, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("cashaccounts: validate: %w", err)
	}
	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("cashaccounts: amount must be positive: %w", httpx.ErrValidation)
	}
	if _, err := s.repo.GetAccount(ctx, accountID); err != nil {
		return nil, err
	}
	txn, err := s.repo.CreateTransaction(ctx, accountID, req, uuid.NewString())
	if err != nil {
		return nil, err
	}
	s.statements.Flush()
	return txn, nil
}

// Transfer moves money between two accounts as two explicit legs: a
// withdrawal on the source and a deposit on the destination, written
// atomically and sharing one transfer id. Both legs carry the same
// non-negative amount; direction lives in the kind alone.
func (s *Service) Transfer(ctx context.Context, req TransferRequest) (*Transfer, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("cashaccounts: validate: %w", err)
	}
	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("cashaccounts: amount must be positive: %w", httpx.ErrValidation)
	}
	if req.FromAccountID == req.ToAccountID {
		return nil, fmt.Errorf("cashaccounts: transfer needs two distinct accounts: %w", httpx.ErrValidation)
	}
	if _, err := s.repo.GetAccount(ctx, req.FromAccountID); err != nil {
		return nil, err
	}
	if _, err := s.repo.GetAccount(ctx, req.ToAccountID); err != nil {
		return nil, err
	}

	transfer, err := s.repo.CreateTransfer(ctx, uuid.NewString(), req)
	if err != nil {
		return nil, err
	}
	s.statements.Flush()
	return transfer, nil
}

// Statement reconstructs an account's ledger under an optional
// window. Deposits debit the account, withdrawals credit it, and the
// balance is signed.
func (s *Service) Statement(ctx context.Context, accountID int64, window ledger.Window) (*Statement, error) {
	key := "cash:" + strconv.FormatInt(accountID, 10) + ":" + shared.WindowKey(window)
	if cached, ok := s.statements.Get(key); ok {
		return &Statement{AccountID: accountID, Entries: cached.Statement, Summary: cached.Summary}, nil
	}

	if _, err := s.repo.GetAccount(ctx, accountID); err != nil {
		return nil, err
	}
	txns, err := s.repo.ListTransactions(ctx, accountID)
	if err != nil {
		return nil, err
	}

	records := make([]ledger.SourceRecord, 0, len(txns))
	for i := range txns {
		t := txns[i]
		kind := ledger.Debit
		desc := "deposit"
		if t.Kind == Withdrawal {
			kind = ledger.Credit
			desc = "withdrawal"
		}
		date := t.TxnDate
		amount := t.Amount
		records = append(records, ledger.SourceRecord{
			Date:        &date,
			Kind:        kind,
			Amount:      &amount,
			Reference:   t.Reference,
			Description: desc,
		})
	}

	collected, err := ledger.Collect(records, ledger.SkipInvalid)
	if err != nil {
		return nil, err
	}
	res := ledger.Reconstruct(collected.Events, window, ledger.BalanceNet)
	stmt := &Statement{
		AccountID:      accountID,
		Entries:        res.Statement,
		Summary:        res.Summary,
		SkippedRecords: collected.Skipped,
	}
	if len(stmt.SkippedRecords) == 0 {
		s.statements.Put(key, ledger.Result{Statement: stmt.Entries, Summary: stmt.Summary})
	}
	return stmt, nil
}
