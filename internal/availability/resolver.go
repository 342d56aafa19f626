package availability

import "time"

// Reservation is the minimal snapshot of a committed booking needed to
// resolve availability. CheckIn is inclusive, CheckOut exclusive. The
// snapshot is supplied by the storage layer; the resolver never fetches.
type Reservation struct {
	RoomID   uint64
	CheckIn  time.Time
	CheckOut time.Time
}

// Map reports, for every day inside a bounded window, whether the day can
// be booked. Days outside the window are unknown, not available. A Map is
// built fresh per query and must not be cached: a stale map could admit a
// double booking.
type Map struct {
	RoomID      uint64
	WindowStart time.Time
	WindowEnd   time.Time
	days        map[time.Time]bool
}

// DayStatus is one calendar entry of a resolved window.
type DayStatus struct {
	Date      string `json:"date"`
	Available bool   `json:"available"`
}

// Resolve builds the availability map for roomID over the window
// [windowStart, windowEnd). A day is unavailable iff some reservation for
// the same room satisfies checkIn <= day < checkOut; the check-out day
// itself stays bookable so the next guest can arrive on the departing
// guest's turnover day. Reservations for other rooms are ignored.
//
// An empty reservation slice means every day in the window is available.
// Callers must not pass an empty slice when the upstream fetch failed;
// a fetch failure has to be surfaced to the client, never silently turned
// into "all available".
func Resolve(roomID uint64, windowStart, windowEnd time.Time, reservations []Reservation) (*Map, error) {
	ws, we := Day(windowStart), Day(windowEnd)
	if we.Before(ws) {
		return nil, ErrInvalidRange
	}
	m := &Map{
		RoomID:      roomID,
		WindowStart: ws,
		WindowEnd:   we,
		days:        make(map[time.Time]bool, int(we.Sub(ws)/(24*time.Hour))),
	}
	for d := ws; d.Before(we); d = d.AddDate(0, 0, 1) {
		m.days[d] = true
	}
	for _, res := range reservations {
		if res.RoomID != roomID {
			continue
		}
		in, out := Day(res.CheckIn), Day(res.CheckOut)
		for d := in; d.Before(out); d = d.AddDate(0, 0, 1) {
			if _, ok := m.days[d]; ok {
				m.days[d] = false
			}
		}
	}
	return m, nil
}

// Available reports whether day d is known to be bookable. Days outside
// the resolved window report false.
func (m *Map) Available(d time.Time) bool {
	return m.days[Day(d)]
}

// Contains reports whether the resolved window fully covers r.
func (m *Map) Contains(r DateRange) bool {
	return !r.Start.Before(m.WindowStart) && !r.End.After(m.WindowEnd)
}

// IsRangeBookable reports whether every night of r is available in m. A
// range that extends past the resolved window fails closed with
// ErrUnknownWindow even when every in-window day is free.
func IsRangeBookable(r DateRange, m *Map) (bool, error) {
	if m == nil || !m.Contains(r) {
		return false, ErrUnknownWindow
	}
	for d := r.Start; d.Before(r.End); d = d.AddDate(0, 0, 1) {
		if !m.days[d] {
			return false, nil
		}
	}
	return true, nil
}

// Days lists the window in calendar order for rendering.
func (m *Map) Days() []DayStatus {
	out := make([]DayStatus, 0, len(m.days))
	for d := m.WindowStart; d.Before(m.WindowEnd); d = d.AddDate(0, 0, 1) {
		out = append(out, DayStatus{Date: d.Format(DayFormat), Available: m.days[d]})
	}
	return out
}
