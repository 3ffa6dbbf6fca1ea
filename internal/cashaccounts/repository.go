package cashaccounts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/bahikhata/bahikhata/internal/platform/db"
	"github.com/bahikhata/bahikhata/internal/platform/httpx"
)

// ErrNotFound indicates resource not found.
var ErrNotFound = fmt.Errorf("cashaccounts: %w", httpx.ErrNotFound)

// Repository provides PostgreSQL backed persistence for cash accounts
// and their transactions.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// CreateAccount inserts an account.
func (r *Repository) CreateAccount(ctx context.Context, req CreateAccountRequest) (*Account, error) {
	const query = `
		INSERT INTO cash_accounts (name, bank, created_at, updated_at)
		VALUES ($1, $2, NOW(), NOW())
		RETURNING id, created_at, updated_at`

	a := Account{Name: req.Name, Bank: req.Bank}
	err := r.pool.QueryRow(ctx, query, req.Name, req.Bank).
		Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("cashaccounts: create: %w", err)
	}
	return &a, nil
}

// GetAccount fetches one account by id.
func (r *Repository) GetAccount(ctx context.Context, id int64) (*Account, error) {
	const query = `
		SELECT id, name, bank, created_at, updated_at
		FROM cash_accounts WHERE id = $1`

	var a Account
	err := r.pool.QueryRow(ctx, query, id).
		Scan(&a.ID, &a.Name, &a.Bank, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("cashaccounts: get %d: %w", id, err)
	}
	return &a, nil
}

// ListAccounts returns every account.
func (r *Repository) ListAccounts(ctx context.Context) ([]Account, error) {
	const query = `
		SELECT id, name, bank, created_at, updated_at
		FROM cash_accounts ORDER BY name, id`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("cashaccounts: list: %w", err)
	}
	defer rows.Close()

	var out []Account
	for rows.Next() {
		var a Account
		if err := rows.Scan(&a.ID, &a.Name, &a.Bank, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// CreateTransaction inserts one movement.
func (r *Repository) CreateTransaction(ctx context.Context, accountID int64, req RecordTransactionRequest, reference string) (*Transaction, error) {
	return insertTransaction(ctx, r.pool, accountID, req.Kind, req.Amount, req.TxnDate, reference, req.Note)
}

// CreateTransfer writes both transfer legs atomically: a withdrawal
// leg on the source and a deposit leg on the destination, both keyed
// by the same transfer reference.
func (r *Repository) CreateTransfer(ctx context.Context, transferID string, req TransferRequest) (*Transfer, error) {
	var out Transfer
	out.TransferID = transferID

	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		outLeg, err := insertTransaction(ctx, tx, req.FromAccountID, Withdrawal, req.Amount, req.TxnDate, transferID, req.Note)
		if err != nil {
			return err
		}
		inLeg, err := insertTransaction(ctx, tx, req.ToAccountID, Deposit, req.Amount, req.TxnDate, transferID, req.Note)
		if err != nil {
			return err
		}
		out.Out = *outLeg
		out.In = *inLeg
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ListTransactions returns every movement on one account in insertion
// order. Same-day ordering downstream depends on this order staying
// stable, so the sort key includes the id.
func (r *Repository) ListTransactions(ctx context.Context, accountID int64) ([]Transaction, error) {
	const query = `
		SELECT id, account_id, kind, amount::text, txn_date, reference, note, created_at
		FROM cash_transactions WHERE account_id = $1
		ORDER BY id`

	rows, err := r.pool.Query(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("cashaccounts: list transactions: %w", err)
	}
	defer rows.Close()

	var out []Transaction
	for rows.Next() {
		var t Transaction
		var kind, amount string
		if err := rows.Scan(&t.ID, &t.AccountID, &kind, &amount, &t.TxnDate, &t.Reference, &t.Note, &t.CreatedAt); err != nil {
			return nil, err
		}
		t.Kind = TxnKind(kind)
		if t.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("cashaccounts: transaction %d amount: %w", t.ID, err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

type execQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func insertTransaction(ctx context.Context, q execQuerier, accountID int64, kind TxnKind, amount decimal.Decimal, txnDate time.Time, reference string, note *string) (*Transaction, error) {
	const query = `
		INSERT INTO cash_transactions (account_id, kind, amount, txn_date, reference, note, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		RETURNING id, created_at`

	t := Transaction{
		AccountID: accountID,
		Kind:      kind,
		Amount:    amount,
		TxnDate:   txnDate,
		Reference: reference,
		Note:      note,
	}
	err := q.QueryRow(ctx, query,
		accountID, string(kind), amount.String(), txnDate, reference, note,
	).Scan(&t.ID, &t.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("cashaccounts: insert transaction: %w", err)
	}
	return &t, nil
}
