// Package availability determines which calendar days of a room can be
// booked. It is a pure package: callers hand in a snapshot of existing
// reservations and receive a per-day map back. Nothing here touches
// storage, caches or the wall clock, so results are reproducible and the
// package is testable in isolation.
package availability

import (
	"errors"
	"time"
)

// ErrInvalidRange is returned for zero-night or inverted date ranges and
// for inverted resolution windows.
var ErrInvalidRange = errors.New("invalid date range")

// ErrUnknownWindow is returned when a requested range is not fully covered
// by a resolved window. Days outside the window have unknown availability
// and must never be reported as bookable.
var ErrUnknownWindow = errors.New("range outside resolved window")

// DayFormat is the wire format for calendar dates.
const DayFormat = "2006-01-02"

// Day normalizes t to midnight UTC. All comparisons in this package happen
// at day granularity in a single time reference; mixing local and UTC
// normalization would shift night counts across DST boundaries.
func Day(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// DateRange is a half-open pair of calendar days: the Start day is the
// check-in (inclusive) and the End day is the check-out (exclusive).
type DateRange struct {
	Start time.Time
	End   time.Time
}

// NewDateRange normalizes both endpoints to midnight UTC and enforces
// Start < End. Zero-night and inverted pairs are rejected.
func NewDateRange(start, end time.Time) (DateRange, error) {
	s, e := Day(start), Day(end)
	if !s.Before(e) {
		return DateRange{}, ErrInvalidRange
	}
	return DateRange{Start: s, End: e}, nil
}

// Nights returns the number of whole calendar days between Start and End.
func (r DateRange) Nights() int {
	return int(r.End.Sub(r.Start) / (24 * time.Hour))
}
