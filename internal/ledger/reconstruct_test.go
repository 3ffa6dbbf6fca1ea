package ledger

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func amt(v string) decimal.Decimal {
	d, err := decimal.NewFromString(v)
	if err != nil {
		panic(err)
	}
	return d
}

func TestReconstructRunningBalances(t *testing.T) {
	events := []MonetaryEvent{
		{Date: date(2024, 1, 5), Kind: Debit, Amount: amt("1000"), Reference: "LN-1"},
		{Date: date(2024, 1, 10), Kind: Credit, Amount: amt("300"), Reference: "PMT-1"},
		{Date: date(2024, 1, 10), Kind: Credit, Amount: amt("200"), Reference: "PMT-2"},
	}

	res := Reconstruct(events, Window{}, BalanceOwed)
	if len(res.Statement) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(res.Statement))
	}
	want := []string{"1000", "700", "500"}
	for i, w := range want {
		if !res.Statement[i].RunningBalance.Equal(amt(w)) {
			t.Fatalf("entry %d: expected balance %s got %s", i, w, res.Statement[i].RunningBalance)
		}
	}
	// Same-day credits keep insertion order.
	if res.Statement[1].Reference != "PMT-1" || res.Statement[2].Reference != "PMT-2" {
		t.Fatalf("same-day entries reordered: %s, %s", res.Statement[1].Reference, res.Statement[2].Reference)
	}
	if !res.Summary.OutstandingBalance.Equal(amt("500")) {
		t.Fatalf("expected outstanding 500 got %s", res.Summary.OutstandingBalance)
	}
}

func TestReconstructSortsUnorderedInput(t *testing.T) {
	events := []MonetaryEvent{
		{Date: date(2024, 3, 1), Kind: Credit, Amount: amt("50")},
		{Date: date(2024, 1, 1), Kind: Debit, Amount: amt("200")},
		{Date: date(2024, 2, 1), Kind: Debit, Amount: amt("100")},
	}

	res := Reconstruct(events, Window{}, BalanceOwed)
	for i := 1; i < len(res.Statement); i++ {
		if res.Statement[i].Date.Before(res.Statement[i-1].Date) {
			t.Fatalf("statement not sorted at index %d", i)
		}
	}
	prev := decimal.Zero
	for i, entry := range res.Statement {
		expected := prev.Add(entry.signedEffect())
		if !entry.RunningBalance.Equal(expected) {
			t.Fatalf("entry %d: balance %s, expected %s", i, entry.RunningBalance, expected)
		}
		prev = entry.RunningBalance
	}
}

func TestReconstructEmptyInput(t *testing.T) {
	res := Reconstruct(nil, Window{}, BalanceOwed)
	if len(res.Statement) != 0 {
		t.Fatalf("expected empty statement, got %d entries", len(res.Statement))
	}
	s := res.Summary
	if !s.OutstandingBalance.IsZero() || !s.TotalDebits.IsZero() || !s.TotalCredits.IsZero() ||
		!s.WindowedCreditTotal.IsZero() || !s.AvgEventAmount.IsZero() || s.EventCountInWindow != 0 {
		t.Fatalf("expected zero summary, got %+v", s)
	}
	if s.LastCreditDate != nil {
		t.Fatalf("expected no last credit date, got %v", *s.LastCreditDate)
	}
}

func TestWindowNeverAltersLifetimeBalance(t *testing.T) {
	events := []MonetaryEvent{
		{Date: date(2024, 1, 5), Kind: Debit, Amount: amt("1000")},
		{Date: date(2024, 2, 10), Kind: Credit, Amount: amt("400")},
		{Date: date(2024, 3, 15), Kind: Credit, Amount: amt("100")},
	}
	full := Reconstruct(events, Window{}, BalanceOwed)

	from := date(2024, 2, 1)
	to := date(2024, 2, 28)
	windowed := Reconstruct(events, Window{From: &from, To: &to}, BalanceOwed)

	if !windowed.Summary.OutstandingBalance.Equal(full.Summary.OutstandingBalance) {
		t.Fatalf("window changed lifetime balance: %s vs %s",
			windowed.Summary.OutstandingBalance, full.Summary.OutstandingBalance)
	}
	if len(windowed.Statement) != 1 {
		t.Fatalf("expected 1 in-window row, got %d", len(windowed.Statement))
	}
	// The in-window row still carries the lifetime running balance.
	if !windowed.Statement[0].RunningBalance.Equal(amt("600")) {
		t.Fatalf("expected running balance 600, got %s", windowed.Statement[0].RunningBalance)
	}
}

func TestInvertedWindowYieldsEmptyWindow(t *testing.T) {
	events := []MonetaryEvent{
		{Date: date(2024, 1, 5), Kind: Debit, Amount: amt("1000")},
		{Date: date(2024, 1, 10), Kind: Credit, Amount: amt("300")},
	}
	from := date(2024, 2, 1)
	to := date(2024, 1, 1)
	res := Reconstruct(events, Window{From: &from, To: &to}, BalanceOwed)

	if len(res.Statement) != 0 {
		t.Fatalf("inverted window should match nothing, got %d rows", len(res.Statement))
	}
	if res.Summary.EventCountInWindow != 0 || !res.Summary.AvgEventAmount.IsZero() {
		t.Fatalf("expected zero windowed figures, got %+v", res.Summary)
	}
	if !res.Summary.OutstandingBalance.Equal(amt("700")) {
		t.Fatalf("lifetime balance must survive an inverted window, got %s", res.Summary.OutstandingBalance)
	}
}

func TestBalanceModeClamping(t *testing.T) {
	events := []MonetaryEvent{
		{Date: date(2024, 1, 5), Kind: Debit, Amount: amt("100")},
		{Date: date(2024, 1, 6), Kind: Credit, Amount: amt("250")},
	}

	owed := Reconstruct(events, Window{}, BalanceOwed)
	if !owed.Summary.OutstandingBalance.IsZero() {
		t.Fatalf("owed semantics must clamp to zero, got %s", owed.Summary.OutstandingBalance)
	}

	net := Reconstruct(events, Window{}, BalanceNet)
	if !net.Summary.OutstandingBalance.Equal(amt("-150")) {
		t.Fatalf("net semantics must keep the sign, got %s", net.Summary.OutstandingBalance)
	}
}

func TestSummaryWindowedFigures(t *testing.T) {
	events := []MonetaryEvent{
		{Date: date(2024, 1, 5), Kind: Debit, Amount: amt("1000")},
		{Date: date(2024, 1, 20), Kind: Credit, Amount: amt("100")},
		{Date: date(2024, 2, 10), Kind: Credit, Amount: amt("200")},
		{Date: date(2024, 2, 25), Kind: Credit, Amount: amt("300")},
	}
	from := date(2024, 2, 1)
	to := date(2024, 2, 28)
	res := Reconstruct(events, Window{From: &from, To: &to}, BalanceOwed)

	s := res.Summary
	if !s.WindowedCreditTotal.Equal(amt("500")) {
		t.Fatalf("expected windowed credits 500, got %s", s.WindowedCreditTotal)
	}
	if s.EventCountInWindow != 2 {
		t.Fatalf("expected 2 in-window events, got %d", s.EventCountInWindow)
	}
	if !s.AvgEventAmount.Equal(amt("250")) {
		t.Fatalf("expected average 250, got %s", s.AvgEventAmount)
	}
	if s.LastCreditDate == nil || !s.LastCreditDate.Equal(date(2024, 2, 25)) {
		t.Fatalf("expected last credit 2024-02-25, got %v", s.LastCreditDate)
	}
	if !s.TotalDebits.Equal(amt("1000")) || !s.TotalCredits.Equal(amt("600")) {
		t.Fatalf("lifetime totals wrong: D=%s C=%s", s.TotalDebits, s.TotalCredits)
	}
}

func TestReconstructDoesNotMutateInput(t *testing.T) {
	events := []MonetaryEvent{
		{Date: date(2024, 3, 1), Kind: Credit, Amount: amt("50")},
		{Date: date(2024, 1, 1), Kind: Debit, Amount: amt("200")},
	}
	Reconstruct(events, Window{}, BalanceOwed)
	if !events[0].Date.Equal(date(2024, 3, 1)) {
		t.Fatal("input slice was reordered")
	}
}
