package cashaccounts

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/bahikhata/bahikhata/internal/ledger"
	"github.com/bahikhata/bahikhata/internal/platform/httpx"
)

type memoryRepo struct {
	accounts map[int64]*Account
	txns     []Transaction
	nextID   int64
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{accounts: make(map[int64]*Account)}
}

func (r *memoryRepo) CreateAccount(ctx context.Context, req CreateAccountRequest) (*Account, error) {
	r.nextID++
	a := &Account{ID: r.nextID, Name: req.Name, Bank: req.Bank}
	r.accounts[a.ID] = a
	return a, nil
}

func (r *memoryRepo) GetAccount(ctx context.Context, id int64) (*Account, error) {
	a, ok := r.accounts[id]
	if !ok {
		return nil, ErrNotFound
	}
	return a, nil
}

func (r *memoryRepo) ListAccounts(ctx context.Context) ([]Account, error) {
	var out []Account
	for _, a := range r.accounts {
		out = append(out, *a)
	}
	return out, nil
}

func (r *memoryRepo) CreateTransaction(ctx context.Context, accountID int64, req RecordTransactionRequest, reference string) (*Transaction, error) {
	r.nextID++
	t := Transaction{
		ID: r.nextID, AccountID: accountID, Kind: req.Kind,
		Amount: req.Amount, TxnDate: req.TxnDate, Reference: reference, Note: req.Note,
	}
	r.txns = append(r.txns, t)
	return &t, nil
}

func (r *memoryRepo) CreateTransfer(ctx context.Context, transferID string, req TransferRequest) (*Transfer, error) {
	outLeg, _ := r.CreateTransaction(ctx, req.FromAccountID, RecordTransactionRequest{
		Kind: Withdrawal, Amount: req.Amount, TxnDate: req.TxnDate, Note: req.Note,
	}, transferID)
	inLeg, _ := r.CreateTransaction(ctx, req.ToAccountID, RecordTransactionRequest{
		Kind: Deposit, Amount: req.Amount, TxnDate: req.TxnDate, Note: req.Note,
	}, transferID)
	return &Transfer{TransferID: transferID, Out: *outLeg, In: *inLeg}, nil
}

func (r *memoryRepo) ListTransactions(ctx context.Context, accountID int64) ([]Transaction, error) {
	var out []Transaction
	for _, t := range r.txns {
		if t.AccountID == accountID {
			out = append(out, t)
		}
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

func TestTransferWritesTwoLegs(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)
	ctx := context.Background()

	cash, err := svc.Create(ctx, CreateAccountRequest{Name: "Cash"})
	require.NoError(t, err)
	bank, err := svc.Create(ctx, CreateAccountRequest{Name: "Bank"})
	require.NoError(t, err)

	transfer, err := svc.Transfer(ctx, TransferRequest{
		FromAccountID: cash.ID, ToAccountID: bank.ID,
		Amount: dec("1500"), TxnDate: day(2024, 4, 1),
	})
	require.NoError(t, err)

	require.NotEmpty(t, transfer.TransferID)
	require.Equal(t, transfer.TransferID, transfer.Out.Reference)
	require.Equal(t, transfer.TransferID, transfer.In.Reference)
	require.Equal(t, Withdrawal, transfer.Out.Kind)
	require.Equal(t, Deposit, transfer.In.Kind)
	// Both legs carry the same positive amount; no signed amounts.
	require.True(t, transfer.Out.Amount.Equal(dec("1500")))
	require.True(t, transfer.In.Amount.Equal(dec("1500")))
	require.True(t, transfer.Out.Amount.IsPositive())
}

func TestTransferMovesBalance(t *testing.T) {
	svc := NewService(newMemoryRepo())
	ctx := context.Background()

	cash, err := svc.Create(ctx, CreateAccountRequest{Name: "Cash"})
	require.NoError(t, err)
	bank, err := svc.Create(ctx, CreateAccountRequest{Name: "Bank"})
	require.NoError(t, err)

	_, err = svc.RecordTransaction(ctx, cash.ID, RecordTransactionRequest{
		Kind: Deposit, Amount: dec("5000"), TxnDate: day(2024, 4, 1),
	})
	require.NoError(t, err)
	_, err = svc.Transfer(ctx, TransferRequest{
		FromAccountID: cash.ID, ToAccountID: bank.ID,
		Amount: dec("1500"), TxnDate: day(2024, 4, 2),
	})
	require.NoError(t, err)

	cashStmt, err := svc.Statement(ctx, cash.ID, ledger.Window{})
	require.NoError(t, err)
	require.True(t, cashStmt.Summary.OutstandingBalance.Equal(dec("3500")))

	bankStmt, err := svc.Statement(ctx, bank.ID, ledger.Window{})
	require.NoError(t, err)
	require.True(t, bankStmt.Summary.OutstandingBalance.Equal(dec("1500")))
}

func TestOverdrawnBalanceStaysNegative(t *testing.T) {
	svc := NewService(newMemoryRepo())
	ctx := context.Background()

	acct, err := svc.Create(ctx, CreateAccountRequest{Name: "Current"})
	require.NoError(t, err)

	_, err = svc.RecordTransaction(ctx, acct.ID, RecordTransactionRequest{
		Kind: Withdrawal, Amount: dec("700"), TxnDate: day(2024, 4, 1),
	})
	require.NoError(t, err)

	stmt, err := svc.Statement(ctx, acct.ID, ledger.Window{})
	require.NoError(t, err)
	require.True(t, stmt.Summary.OutstandingBalance.Equal(dec("-700")))
}

func TestTransferValidation(t *testing.T) {
	svc := NewService(newMemoryRepo())
	ctx := context.Background()

	acct, err := svc.Create(ctx, CreateAccountRequest{Name: "Cash"})
	require.NoError(t, err)

	_, err = svc.Transfer(ctx, TransferRequest{
		FromAccountID: acct.ID, ToAccountID: acct.ID,
		Amount: dec("10"), TxnDate: day(2024, 4, 1),
	})
	require.ErrorIs(t, err, httpx.ErrValidation, "same-account transfer must be rejected")

	_, err = svc.Transfer(ctx, TransferRequest{
		FromAccountID: acct.ID, ToAccountID: acct.ID + 99,
		Amount: dec("10"), TxnDate: day(2024, 4, 1),
	})
	require.Error(t, err, "unknown destination must be rejected")
}
