// Package ledger reconstructs chronological statements and aggregate
// summaries from dated monetary events. Every function here is pure:
// events in, statement and summary out, no clock reads and no shared
// state between invocations.
package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// Kind classifies the effect of an event on the holder's balance.
type Kind string

const (
	// Debit increases the amount owed (loan disbursement, bill issuance).
	Debit Kind = "DEBIT"
	// Credit decreases the amount owed (payment received).
	Credit Kind = "CREDIT"
)

// BalanceMode selects how the lifetime balance is presented.
type BalanceMode int

const (
	// BalanceOwed clamps negative lifetime balances to zero.
	BalanceOwed BalanceMode = iota
	// BalanceNet preserves negative balances (partner equity).
	BalanceNet
)

// MonetaryEvent is one dated debit or credit against an account holder.
// Amount is always non-negative; the sign of the effect is carried by
// Kind, never by the amount itself.
type MonetaryEvent struct {
	Date        time.Time       `json:"date"`
	Kind        Kind            `json:"kind"`
	Amount      decimal.Decimal `json:"amount"`
	Reference   string          `json:"reference"`
	Description string          `json:"description,omitempty"`
}

// signedEffect returns the amount with the sign implied by Kind.
func (e MonetaryEvent) signedEffect() decimal.Decimal {
	if e.Kind == Credit {
		return e.Amount.Neg()
	}
	return e.Amount
}

// StatementEntry is one reconstructed statement row. RunningBalance is
// the balance after applying this entry, folded in chronological order
// over the holder's full history.
type StatementEntry struct {
	MonetaryEvent
	RunningBalance decimal.Decimal `json:"running_balance"`
}

// AccountSummary aggregates one holder's filtered event set. The
// lifetime totals and OutstandingBalance always cover the full history;
// the windowed figures cover only events inside the requested window.
type AccountSummary struct {
	TotalDebits         decimal.Decimal `json:"total_debits"`
	TotalCredits        decimal.Decimal `json:"total_credits"`
	OutstandingBalance  decimal.Decimal `json:"outstanding_balance"`
	WindowedCreditTotal decimal.Decimal `json:"windowed_credit_total"`
	EventCountInWindow  int             `json:"event_count_in_window"`
	AvgEventAmount      decimal.Decimal `json:"avg_event_amount"`
	LastCreditDate      *time.Time      `json:"last_credit_date,omitempty"`
}

// Result pairs the displayed statement rows with the holder summary.
type Result struct {
	Statement []StatementEntry
	Summary   AccountSummary
}

// Round2 applies the 2-decimal presentation rounding. Internal folds
// keep full precision; call this only at an output boundary.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}
