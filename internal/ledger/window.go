package ledger

import "time"

// Window is an optional inclusive date range. A nil bound is open on
// that side. An inverted window (From after To) matches nothing; user
// supplied ranges are expected to sometimes be inverted, so that is a
// degraded result, never an error.
type Window struct {
	From *time.Time
	To   *time.Time
}

// Contains reports whether the given date falls inside the window.
// Comparison is at day granularity.
func (w Window) Contains(date time.Time) bool {
	if w.From != nil && w.To != nil && dayOf(*w.To).Before(dayOf(*w.From)) {
		return false
	}
	d := dayOf(date)
	if w.From != nil && d.Before(dayOf(*w.From)) {
		return false
	}
	if w.To != nil && d.After(dayOf(*w.To)) {
		return false
	}
	return true
}

// IsOpen reports whether the window has no bounds at all.
func (w Window) IsOpen() bool {
	return w.From == nil && w.To == nil
}

func dayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
