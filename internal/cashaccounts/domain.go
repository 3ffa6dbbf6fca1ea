// Package cashaccounts tracks the firm's cash and bank accounts:
// deposits, withdrawals, and transfers between accounts.
package cashaccounts

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/bahikhata/bahikhata/internal/ledger"
)

// TxnKind tags a cash movement. Cash accounts are asset accounts:
// deposits debit them (balance up), withdrawals credit them.
type TxnKind string

const (
	Deposit    TxnKind = "deposit"
	Withdrawal TxnKind = "withdrawal"
)

// Account model.
type Account struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Bank      *string   `json:"bank,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Transaction is one stored movement on an account. Transfer legs
// carry the shared transfer id as their reference; the amount is
// always non-negative and the direction lives in Kind alone.
type Transaction struct {
	ID        int64           `json:"id"`
	AccountID int64           `json:"account_id"`
	Kind      TxnKind         `json:"kind"`
	Amount    decimal.Decimal `json:"amount"`
	TxnDate   time.Time       `json:"txn_date"`
	Reference string          `json:"reference"`
	Note      *string         `json:"note,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// CreateAccountRequest is the create payload.
type CreateAccountRequest struct {
	Name string  `json:"name" validate:"required,max=200"`
	Bank *string `json:"bank,omitempty" validate:"omitempty,max=200"`
}

// RecordTransactionRequest registers a deposit or withdrawal.
type RecordTransactionRequest struct {
	Kind    TxnKind         `json:"kind" validate:"required,oneof=deposit withdrawal"`
	Amount  decimal.Decimal `json:"amount" validate:"required"`
	TxnDate time.Time       `json:"txn_date" validate:"required"`
	Note    *string         `json:"note,omitempty"`
}

// TransferRequest moves money between two accounts as two explicit
// legs sharing one transfer id.
type TransferRequest struct {
	FromAccountID int64           `json:"from_account_id" validate:"required,gt=0"`
	ToAccountID   int64           `json:"to_account_id" validate:"required,gt=0"`
	Amount        decimal.Decimal `json:"amount" validate:"required"`
	TxnDate       time.Time       `json:"txn_date" validate:"required"`
	Note          *string         `json:"note,omitempty"`
}

// Transfer is the result of a transfer: both legs plus the shared id.
type Transfer struct {
	TransferID string      `json:"transfer_id"`
	Out        Transaction `json:"out"`
	In         Transaction `json:"in"`
}

// Statement is the reconstructed account ledger. The balance is
// signed and never clamped: an overdrawn account shows negative.
type Statement struct {
	AccountID      int64                   `json:"account_id"`
	Entries        []ledger.StatementEntry `json:"entries"`
	Summary        ledger.AccountSummary   `json:"summary"`
	SkippedRecords []ledger.SkippedRecord  `json:"skipped_records,omitempty"`
}
