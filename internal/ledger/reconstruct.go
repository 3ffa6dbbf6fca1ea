package ledger

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Reconstruct builds the statement and summary for one account holder.
//
// Events are sorted ascending by date with a stable sort: events on the
// same day keep their relative input order, so repeated runs and
// exports are byte-for-byte reproducible. The running balance is folded
// over the full history regardless of any window; the window only
// selects which rows are returned and which events feed the windowed
// summary figures.
//
// Every event must carry a valid date. That is the collector's contract
// (see Collect); a zero date reaching this fold is a programming error
// and the resulting statement is undefined.
func Reconstruct(events []MonetaryEvent, window Window, mode BalanceMode) Result {
	sorted := make([]MonetaryEvent, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool {
		return dayOf(sorted[i].Date).Before(dayOf(sorted[j].Date))
	})

	balance := decimal.Zero
	summary := AccountSummary{
		TotalDebits:         decimal.Zero,
		TotalCredits:        decimal.Zero,
		WindowedCreditTotal: decimal.Zero,
		AvgEventAmount:      decimal.Zero,
	}
	statement := make([]StatementEntry, 0, len(sorted))

	for _, ev := range sorted {
		balance = balance.Add(ev.signedEffect())
		if ev.Kind == Debit {
			summary.TotalDebits = summary.TotalDebits.Add(ev.Amount)
		} else {
			summary.TotalCredits = summary.TotalCredits.Add(ev.Amount)
		}
		if !window.Contains(ev.Date) {
			continue
		}
		statement = append(statement, StatementEntry{MonetaryEvent: ev, RunningBalance: balance})
		summary.EventCountInWindow++
		if ev.Kind == Credit {
			summary.WindowedCreditTotal = summary.WindowedCreditTotal.Add(ev.Amount)
			if summary.LastCreditDate == nil || dayOf(ev.Date).After(dayOf(*summary.LastCreditDate)) {
				d := ev.Date
				summary.LastCreditDate = &d
			}
		}
	}

	if mode == BalanceOwed && balance.IsNegative() {
		balance = decimal.Zero
	}
	summary.OutstandingBalance = balance
	if summary.EventCountInWindow > 0 {
		summary.AvgEventAmount = summary.WindowedCreditTotal.Div(decimal.NewFromInt(int64(summary.EventCountInWindow)))
	}

	return Result{Statement: statement, Summary: summary}
}
