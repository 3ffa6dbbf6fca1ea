package shared

import (
	"fmt"
	"net/url"
	"time"

	"github.com/bahikhata/bahikhata/internal/ledger"
)

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// ParseDate parses an optional YYYY-MM-DD query value. An empty value
// yields nil without error.
func ParseDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(DateLayout, value)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: want YYYY-MM-DD", value)
	}
	return &t, nil
}

// WindowFromQuery builds a ledger window from the from/to query
// parameters. An inverted range is passed through as-is; the ledger
// treats it as an empty window rather than an error.
func WindowFromQuery(q url.Values) (ledger.Window, error) {
	from, err := ParseDate(q.Get("from"))
	if err != nil {
		return ledger.Window{}, err
	}
	to, err := ParseDate(q.Get("to"))
	if err != nil {
		return ledger.Window{}, err
	}
	return ledger.Window{From: from, To: to}, nil
}

// WindowKey renders a window into a stable cache key fragment. Open
// windows share a single key so lifetime statements hit one slot.
func WindowKey(w ledger.Window) string {
	if w.IsOpen() {
		return "all"
	}
	fromTok, toTok := "-", "-"
	if w.From != nil {
		fromTok = w.From.Format(DateLayout)
	}
	if w.To != nil {
		toTok = w.To.Format(DateLayout)
	}
	return fromTok + ":" + toTok
}
