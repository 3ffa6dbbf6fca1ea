// Package cheques tracks cheques received and issued through their
// clearing lifecycle.
package cheques

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status is the cheque lifecycle state. The only legal moves are
// pending -> processing and processing -> cleared or bounced; cleared
// and bounced are terminal.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCleared    Status = "cleared"
	StatusBounced    Status = "bounced"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusCleared, StatusBounced:
		return true
	}
	return false
}

// CanTransitionTo reports whether moving from s to next is legal.
func (s Status) CanTransitionTo(next Status) bool {
	switch s {
	case StatusPending:
		return next == StatusProcessing
	case StatusProcessing:
		return next == StatusCleared || next == StatusBounced
	}
	return false
}

// Direction tells whether the cheque was received from a party or
// issued to one.
type Direction string

const (
	Received Direction = "received"
	Issued   Direction = "issued"
)

// Cheque model.
type Cheque struct {
	ID         int64           `json:"id"`
	Number     string          `json:"number"`
	Party      string          `json:"party"`
	Bank       string          `json:"bank"`
	Direction  Direction       `json:"direction"`
	Amount     decimal.Decimal `json:"amount"`
	ChequeDate time.Time       `json:"cheque_date"`
	Status     Status          `json:"status"`
	StatusAt   time.Time       `json:"status_at"`
	Note       *string         `json:"note,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// RegisterChequeRequest records a new cheque, always starting pending.
type RegisterChequeRequest struct {
	Number     string          `json:"number" validate:"required,max=50"`
	Party      string          `json:"party" validate:"required,max=200"`
	Bank       string          `json:"bank" validate:"required,max=200"`
	Direction  Direction       `json:"direction" validate:"required,oneof=received issued"`
	Amount     decimal.Decimal `json:"amount" validate:"required"`
	ChequeDate time.Time       `json:"cheque_date" validate:"required"`
	Note       *string         `json:"note,omitempty"`
}

// TransitionRequest moves a cheque to its next status.
type TransitionRequest struct {
	Status Status `json:"status" validate:"required,oneof=processing cleared bounced"`
}

// ListFilter narrows the cheque listing.
type ListFilter struct {
	Status Status
}
