// Package customers tracks customers, their loans and repayments, and
// reconstructs customer statements and outstanding summaries.
package customers

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/bahikhata/bahikhata/internal/ledger"
)

// LoanStatus enumerates loan lifecycle states.
type LoanStatus string

const (
	LoanActive LoanStatus = "active"
	LoanClosed LoanStatus = "closed"
)

// StatusFilter narrows which loans contribute events to a statement.
// It operates on whole loans, one level above date filtering: a closed
// loan excluded here contributes neither its disbursement nor its
// payments.
type StatusFilter string

const (
	StatusAll    StatusFilter = ""
	StatusActive StatusFilter = "active"
	StatusClosed StatusFilter = "closed"
)

// Customer model.
type Customer struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Phone     *string   `json:"phone,omitempty"`
	Address   *string   `json:"address,omitempty"`
	Notes     *string   `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Loan model. Principal is disbursed in full on IssuedOn.
type Loan struct {
	ID         int64                 `json:"id"`
	CustomerID int64                 `json:"customer_id"`
	Number     string                `json:"number"`
	Principal  decimal.Decimal       `json:"principal"`
	RatePct    decimal.Decimal       `json:"rate_pct"`
	Scheme     ledger.InterestScheme `json:"scheme"`
	Status     LoanStatus            `json:"status"`
	IssuedOn   time.Time             `json:"issued_on"`
	CreatedAt  time.Time             `json:"created_at"`
	UpdatedAt  time.Time             `json:"updated_at"`
}

// Payment model: a repayment against one loan.
type Payment struct {
	ID         int64           `json:"id"`
	CustomerID int64           `json:"customer_id"`
	LoanID     int64           `json:"loan_id"`
	Number     string          `json:"number"`
	Amount     decimal.Decimal `json:"amount"`
	PaidOn     time.Time       `json:"paid_on"`
	Method     string          `json:"method"`
	Note       *string         `json:"note,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}

// CreateCustomerRequest is the create payload.
type CreateCustomerRequest struct {
	Name    string  `json:"name" validate:"required,max=200"`
	Phone   *string `json:"phone,omitempty" validate:"omitempty,max=50"`
	Address *string `json:"address,omitempty" validate:"omitempty,max=500"`
	Notes   *string `json:"notes,omitempty"`
}

// IssueLoanRequest creates a loan and its disbursement event.
type IssueLoanRequest struct {
	Principal decimal.Decimal `json:"principal" validate:"required"`
	RatePct   decimal.Decimal `json:"rate_pct"`
	Scheme    string          `json:"scheme" validate:"omitempty,oneof=daily monthly"`
	IssuedOn  time.Time       `json:"issued_on" validate:"required"`
}

// RecordPaymentRequest registers a repayment.
type RecordPaymentRequest struct {
	LoanID int64           `json:"loan_id" validate:"required,gt=0"`
	Amount decimal.Decimal `json:"amount" validate:"required"`
	PaidOn time.Time       `json:"paid_on" validate:"required"`
	Method string          `json:"method" validate:"omitempty,max=50"`
	Note   *string         `json:"note,omitempty"`
}

// ListCustomersRequest filters the customer listing.
type ListCustomersRequest struct {
	Search  string
	Page    int
	PerPage int
}

// Statement is the reconstructed customer ledger view. SkippedRecords
// reports stored rows that could not be normalized; the statement is a
// partial result when it is non-zero, never a silent one.
type Statement struct {
	CustomerID     int64                   `json:"customer_id"`
	Entries        []ledger.StatementEntry `json:"entries"`
	Summary        ledger.AccountSummary   `json:"summary"`
	SkippedRecords []ledger.SkippedRecord  `json:"skipped_records,omitempty"`
}

// SummaryAsOf is a point-in-time customer position including accrued
// interest per active loan.
type SummaryAsOf struct {
	CustomerID      int64                 `json:"customer_id"`
	AsOf            time.Time             `json:"as_of"`
	Summary         ledger.AccountSummary `json:"summary"`
	AccruedInterest decimal.Decimal       `json:"accrued_interest"`
}
