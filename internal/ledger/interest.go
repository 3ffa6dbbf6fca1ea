package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// InterestScheme selects how elapsed time is counted when accruing
// simple interest.
type InterestScheme string

const (
	// InterestDaily accrues pro rata per elapsed day, on a 30-day month.
	InterestDaily InterestScheme = "daily"
	// InterestMonthly accrues per completed 30-day month.
	InterestMonthly InterestScheme = "monthly"
)

var daysPerMonth = decimal.NewFromInt(30)

// Interest computes simple interest on a principal at ratePct percent
// per month, from start until asOf. The reference time is an explicit
// argument so the result is reproducible; nothing here reads the wall
// clock. A start on or after asOf accrues nothing.
func Interest(principal, ratePct decimal.Decimal, scheme InterestScheme, start, asOf time.Time) decimal.Decimal {
	days := elapsedDays(start, asOf)
	if days <= 0 {
		return decimal.Zero
	}
	perMonth := principal.Mul(ratePct).Div(decimal.NewFromInt(100))
	switch scheme {
	case InterestMonthly:
		months := decimal.NewFromInt(int64(days / 30))
		return perMonth.Mul(months)
	default:
		return perMonth.Mul(decimal.NewFromInt(int64(days))).Div(daysPerMonth)
	}
}

func elapsedDays(start, asOf time.Time) int {
	return int(dayOf(asOf).Sub(dayOf(start)) / (24 * time.Hour))
}
