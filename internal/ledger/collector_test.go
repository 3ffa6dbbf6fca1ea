package ledger

import (
	"errors"
	"testing"
	"time"
)

func TestCollectNormalizesRecords(t *testing.T) {
	d1 := date(2024, 1, 5)
	d2 := date(2024, 1, 10)
	a1 := amt("1000")
	a2 := amt("300")
	records := []SourceRecord{
		{Date: &d1, Kind: Debit, Amount: &a1, Reference: "LN-1", Description: "loan issued"},
		{Date: &d2, Kind: Credit, Amount: &a2, Reference: "PMT-1"},
	}

	res, err := Collect(records, SkipInvalid)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Events) != 2 || len(res.Skipped) != 0 {
		t.Fatalf("expected 2 events 0 skips, got %d/%d", len(res.Events), len(res.Skipped))
	}
	if res.Events[0].Kind != Debit || !res.Events[0].Amount.Equal(a1) {
		t.Fatalf("first event not normalized: %+v", res.Events[0])
	}
}

func TestCollectSkipsAndReportsInvalidRecords(t *testing.T) {
	d := date(2024, 1, 5)
	good := amt("100")
	negative := amt("-5")
	records := []SourceRecord{
		{Date: &d, Kind: Debit, Amount: &good, Reference: "OK"},
		{Date: nil, Kind: Debit, Amount: &good, Reference: "NO-DATE"},
		{Date: &d, Kind: Debit, Amount: nil, Reference: "NO-AMOUNT"},
		{Date: &d, Kind: Debit, Amount: &negative, Reference: "NEGATIVE"},
		{Date: &d, Kind: Kind("TRANSFER"), Amount: &good, Reference: "BAD-KIND"},
	}

	res, err := Collect(records, SkipInvalid)
	if err != nil {
		t.Fatalf("skip policy must not fail: %v", err)
	}
	if len(res.Events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(res.Events))
	}
	if len(res.Skipped) != 4 {
		t.Fatalf("expected 4 skips, got %d", len(res.Skipped))
	}
	wantReasons := map[string]string{
		"NO-DATE":   "missing date",
		"NO-AMOUNT": "missing amount",
		"NEGATIVE":  "negative amount",
		"BAD-KIND":  "unknown kind",
	}
	for _, sk := range res.Skipped {
		if wantReasons[sk.Reference] != sk.Reason {
			t.Fatalf("record %s: expected reason %q got %q", sk.Reference, wantReasons[sk.Reference], sk.Reason)
		}
	}
}

func TestCollectStrictFailsFast(t *testing.T) {
	a := amt("100")
	records := []SourceRecord{
		{Date: nil, Kind: Debit, Amount: &a, Reference: "NO-DATE"},
	}

	_, err := Collect(records, Strict)
	if !errors.Is(err, ErrInvalidRecord) {
		t.Fatalf("expected ErrInvalidRecord, got %v", err)
	}
}

func TestCollectZeroDateRejected(t *testing.T) {
	var zero time.Time
	a := amt("100")
	res, err := Collect([]SourceRecord{{Date: &zero, Kind: Debit, Amount: &a}}, SkipInvalid)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Events) != 0 || len(res.Skipped) != 1 {
		t.Fatalf("zero date must be rejected, got %d events", len(res.Events))
	}
}
