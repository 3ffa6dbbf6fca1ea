// Package partners tracks partner capital accounts: contributions,
// drawings, and the reconstructed net position of each partner.
package partners

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/bahikhata/bahikhata/internal/ledger"
)

// EntryKind tags a capital movement. Contributions credit the
// partner's account, drawings debit it.
type EntryKind string

const (
	Contribution EntryKind = "contribution"
	Drawing      EntryKind = "drawing"
)

// Partner model.
type Partner struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Phone     *string   `json:"phone,omitempty"`
	SharePct  *decimal.Decimal `json:"share_pct,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CapitalEntry is one stored movement on a partner's account.
type CapitalEntry struct {
	ID        int64           `json:"id"`
	PartnerID int64           `json:"partner_id"`
	Number    string          `json:"number"`
	Kind      EntryKind       `json:"kind"`
	Amount    decimal.Decimal `json:"amount"`
	EntryDate time.Time       `json:"entry_date"`
	Note      *string         `json:"note,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// CreatePartnerRequest is the create payload.
type CreatePartnerRequest struct {
	Name     string           `json:"name" validate:"required,max=200"`
	Phone    *string          `json:"phone,omitempty" validate:"omitempty,max=50"`
	SharePct *decimal.Decimal `json:"share_pct,omitempty"`
}

// RecordEntryRequest registers a contribution or drawing.
type RecordEntryRequest struct {
	Kind      EntryKind       `json:"kind" validate:"required,oneof=contribution drawing"`
	Amount    decimal.Decimal `json:"amount" validate:"required"`
	EntryDate time.Time       `json:"entry_date" validate:"required"`
	Note      *string         `json:"note,omitempty"`
}

// Statement is the reconstructed capital account. The balance is the
// signed amount the partner owes the firm: drawings push it up,
// contributions push it down, and a net contributor's negative
// balance is shown as-is, never clamped.
type Statement struct {
	PartnerID      int64                   `json:"partner_id"`
	Entries        []ledger.StatementEntry `json:"entries"`
	Summary        ledger.AccountSummary   `json:"summary"`
	SkippedRecords []ledger.SkippedRecord  `json:"skipped_records,omitempty"`
}
