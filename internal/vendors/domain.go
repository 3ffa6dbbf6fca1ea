// Package vendors tracks mahajan (supplier) ledgers: bills issued by
// a vendor and payments made against them.
package vendors

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/bahikhata/bahikhata/internal/ledger"
)

// Vendor model.
type Vendor struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Phone     *string   `json:"phone,omitempty"`
	City      *string   `json:"city,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Bill is a purchase bill issued by the vendor. The bill number comes
// from the vendor's paper bill and must be unique per vendor.
type Bill struct {
	ID       int64           `json:"id"`
	VendorID int64           `json:"vendor_id"`
	Number   string          `json:"number"`
	Amount   decimal.Decimal `json:"amount"`
	BillDate time.Time       `json:"bill_date"`
	Note     *string         `json:"note,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

// VendorPayment is one payment made to the vendor.
type VendorPayment struct {
	ID       int64           `json:"id"`
	VendorID int64           `json:"vendor_id"`
	Number   string          `json:"number"`
	Amount   decimal.Decimal `json:"amount"`
	PaidOn   time.Time       `json:"paid_on"`
	Method   string          `json:"method"`
	CreatedAt time.Time      `json:"created_at"`
}

// CreateVendorRequest is the create payload.
type CreateVendorRequest struct {
	Name  string  `json:"name" validate:"required,max=200"`
	Phone *string `json:"phone,omitempty" validate:"omitempty,max=50"`
	City  *string `json:"city,omitempty" validate:"omitempty,max=100"`
}

// RecordBillRequest registers a vendor bill.
type RecordBillRequest struct {
	Number   string          `json:"number" validate:"required,max=50"`
	Amount   decimal.Decimal `json:"amount" validate:"required"`
	BillDate time.Time       `json:"bill_date" validate:"required"`
	Note     *string         `json:"note,omitempty"`
}

// RecordPaymentRequest registers a payment to the vendor.
type RecordPaymentRequest struct {
	Amount decimal.Decimal `json:"amount" validate:"required"`
	PaidOn time.Time       `json:"paid_on" validate:"required"`
	Method string          `json:"method" validate:"omitempty,max=50"`
}

// Statement is the reconstructed vendor ledger: bills owed minus
// payments made, clamped at zero.
type Statement struct {
	VendorID       int64                   `json:"vendor_id"`
	Entries        []ledger.StatementEntry `json:"entries"`
	Summary        ledger.AccountSummary   `json:"summary"`
	SkippedRecords []ledger.SkippedRecord  `json:"skipped_records,omitempty"`
}
