package ledger

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ErrInvalidRecord marks a source record that cannot be normalized
// into a MonetaryEvent.
var ErrInvalidRecord = errors.New("ledger: invalid source record")

// CollectPolicy decides what the collector does with invalid records.
type CollectPolicy int

const (
	// SkipInvalid drops invalid records but reports each one; partial
	// results are preferred over failing a whole view.
	SkipInvalid CollectPolicy = iota
	// Strict fails the entire collection on the first invalid record.
	Strict
)

// SourceRecord is the raw shape shared by heterogeneous stored records
// (disbursements, payments, bills) before normalization. Date and
// Amount are pointers because stored rows can genuinely lack them.
type SourceRecord struct {
	Date        *time.Time
	Kind        Kind
	Amount      *decimal.Decimal
	Reference   string
	Description string
}

// SkippedRecord describes one record the collector rejected.
type SkippedRecord struct {
	Index     int
	Reference string
	Reason    string
}

// CollectResult carries the normalized events plus every rejection.
// Callers surface the skip count; silently dropping data is not an
// option under either policy.
type CollectResult struct {
	Events  []MonetaryEvent
	Skipped []SkippedRecord
}

// Collect normalizes source records into MonetaryEvents. Records
// missing a date or amount, carrying a negative amount, or tagged with
// an unknown kind are rejected according to the policy.
func Collect(records []SourceRecord, policy CollectPolicy) (CollectResult, error) {
	result := CollectResult{Events: make([]MonetaryEvent, 0, len(records))}
	for i, rec := range records {
		if reason := validate(rec); reason != "" {
			if policy == Strict {
				return CollectResult{}, fmt.Errorf("%w: record %d (%s): %s", ErrInvalidRecord, i, rec.Reference, reason)
			}
			result.Skipped = append(result.Skipped, SkippedRecord{Index: i, Reference: rec.Reference, Reason: reason})
			continue
		}
		result.Events = append(result.Events, MonetaryEvent{
			Date:        *rec.Date,
			Kind:        rec.Kind,
			Amount:      *rec.Amount,
			Reference:   rec.Reference,
			Description: rec.Description,
		})
	}
	return result, nil
}

func validate(rec SourceRecord) string {
	switch {
	case rec.Date == nil || rec.Date.IsZero():
		return "missing date"
	case rec.Amount == nil:
		return "missing amount"
	case rec.Amount.IsNegative():
		return "negative amount"
	case rec.Kind != Debit && rec.Kind != Credit:
		return "unknown kind"
	}
	return ""
}
