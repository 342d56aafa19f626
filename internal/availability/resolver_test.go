package availability

import (
	"testing"
	"time"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func mustRange(t *testing.T, start, end time.Time) DateRange {
	t.Helper()
	r, err := NewDateRange(start, end)
	if err != nil {
		t.Fatalf("NewDateRange(%v, %v): %v", start, end, err)
	}
	return r
}

func TestDayNormalization(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*60*60)
	in := time.Date(2024, time.March, 10, 1, 30, 0, 0, loc) // 2024-03-09 22:30 UTC
	got := Day(in)
	want := day(2024, time.March, 9)
	if !got.Equal(want) {
		t.Fatalf("Day(%v) = %v, want %v", in, got, want)
	}
	if got.Hour() != 0 || got.Minute() != 0 || got.Location() != time.UTC {
		t.Fatalf("Day(%v) not normalized to UTC midnight: %v", in, got)
	}
}

func TestNewDateRangeRejectsDegenerate(t *testing.T) {
	cases := []struct {
		name       string
		start, end time.Time
	}{
		{"zero nights", day(2024, time.March, 10), day(2024, time.March, 10)},
		{"inverted", day(2024, time.March, 13), day(2024, time.March, 10)},
		{"same day after normalization", day(2024, time.March, 10).Add(2 * time.Hour), day(2024, time.March, 10).Add(20 * time.Hour)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := NewDateRange(tc.start, tc.end); err != ErrInvalidRange {
				t.Fatalf("NewDateRange error = %v, want ErrInvalidRange", err)
			}
		})
	}
}

func TestNights(t *testing.T) {
	r := mustRange(t, day(2024, time.March, 10), day(2024, time.March, 13))
	if got := r.Nights(); got != 3 {
		t.Fatalf("Nights() = %d, want 3", got)
	}
}

func TestResolveNoReservations(t *testing.T) {
	m, err := Resolve(7, day(2024, time.March, 1), day(2024, time.April, 1), nil)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	for d := day(2024, time.March, 1); d.Before(day(2024, time.April, 1)); d = d.AddDate(0, 0, 1) {
		if !m.Available(d) {
			t.Fatalf("day %v should be available with no reservations", d)
		}
	}
}

func TestResolveTurnoverDay(t *testing.T) {
	res := []Reservation{{RoomID: 7, CheckIn: day(2024, time.March, 10), CheckOut: day(2024, time.March, 13)}}
	m, err := Resolve(7, day(2024, time.March, 1), day(2024, time.April, 1), res)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	for d := day(2024, time.March, 10); d.Before(day(2024, time.March, 13)); d = d.AddDate(0, 0, 1) {
		if m.Available(d) {
			t.Fatalf("occupied day %v reported available", d)
		}
	}
	// The check-out day belongs to the next guest.
	if !m.Available(day(2024, time.March, 13)) {
		t.Fatal("turnover day should be bookable")
	}
	if !m.Available(day(2024, time.March, 9)) {
		t.Fatal("day before check-in should be bookable")
	}
}

func TestResolveOverlappingReservations(t *testing.T) {
	res := []Reservation{
		{RoomID: 7, CheckIn: day(2024, time.March, 10), CheckOut: day(2024, time.March, 15)},
		{RoomID: 7, CheckIn: day(2024, time.March, 12), CheckOut: day(2024, time.March, 18)},
	}
	m, err := Resolve(7, day(2024, time.March, 1), day(2024, time.April, 1), res)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	// 3/10 through 3/17 blocked by one or both reservations.
	for d := day(2024, time.March, 10); d.Before(day(2024, time.March, 18)); d = d.AddDate(0, 0, 1) {
		if m.Available(d) {
			t.Fatalf("day %v should be unavailable", d)
		}
	}
	if !m.Available(day(2024, time.March, 18)) {
		t.Fatal("3/18 onward should be available")
	}
}

func TestResolveIgnoresOtherRooms(t *testing.T) {
	res := []Reservation{{RoomID: 8, CheckIn: day(2024, time.March, 10), CheckOut: day(2024, time.March, 13)}}
	m, err := Resolve(7, day(2024, time.March, 1), day(2024, time.April, 1), res)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if !m.Available(day(2024, time.March, 11)) {
		t.Fatal("reservation for another room must not block this room")
	}
}

func TestResolveClipsReservationToWindow(t *testing.T) {
	res := []Reservation{{RoomID: 7, CheckIn: day(2024, time.February, 25), CheckOut: day(2024, time.March, 3)}}
	m, err := Resolve(7, day(2024, time.March, 1), day(2024, time.March, 10), res)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if m.Available(day(2024, time.March, 1)) || m.Available(day(2024, time.March, 2)) {
		t.Fatal("in-window tail of the reservation should be blocked")
	}
	if !m.Available(day(2024, time.March, 3)) {
		t.Fatal("check-out day should be bookable")
	}
}

func TestResolveInvertedWindow(t *testing.T) {
	if _, err := Resolve(7, day(2024, time.March, 10), day(2024, time.March, 1), nil); err != ErrInvalidRange {
		t.Fatalf("Resolve error = %v, want ErrInvalidRange", err)
	}
}

func TestAvailableOutsideWindow(t *testing.T) {
	m, err := Resolve(7, day(2024, time.March, 1), day(2024, time.March, 10), nil)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	// Unknown is not available.
	if m.Available(day(2024, time.March, 10)) || m.Available(day(2024, time.February, 29)) {
		t.Fatal("days outside the window must not report available")
	}
}

func TestIsRangeBookable(t *testing.T) {
	res := []Reservation{{RoomID: 7, CheckIn: day(2024, time.March, 10), CheckOut: day(2024, time.March, 13)}}
	m, err := Resolve(7, day(2024, time.March, 1), day(2024, time.April, 1), res)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	ok, err := IsRangeBookable(mustRange(t, day(2024, time.March, 13), day(2024, time.March, 16)), m)
	if err != nil || !ok {
		t.Fatalf("range starting on turnover day: ok=%v err=%v, want bookable", ok, err)
	}

	ok, err = IsRangeBookable(mustRange(t, day(2024, time.March, 9), day(2024, time.March, 11)), m)
	if err != nil || ok {
		t.Fatalf("range over occupied day: ok=%v err=%v, want not bookable", ok, err)
	}
}

func TestIsRangeBookableFailsClosedOutsideWindow(t *testing.T) {
	m, err := Resolve(7, day(2024, time.March, 1), day(2024, time.March, 10), nil)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	// Every in-window day is free, yet the range pokes past the window.
	ok, err := IsRangeBookable(mustRange(t, day(2024, time.March, 8), day(2024, time.March, 12)), m)
	if ok {
		t.Fatal("range extending beyond the window must not be bookable")
	}
	if err != ErrUnknownWindow {
		t.Fatalf("error = %v, want ErrUnknownWindow", err)
	}

	ok, err = IsRangeBookable(mustRange(t, day(2024, time.February, 27), day(2024, time.March, 2)), m)
	if ok || err != ErrUnknownWindow {
		t.Fatalf("range starting before window: ok=%v err=%v, want ErrUnknownWindow", ok, err)
	}
}

func TestDaysOrdered(t *testing.T) {
	res := []Reservation{{RoomID: 7, CheckIn: day(2024, time.March, 2), CheckOut: day(2024, time.March, 3)}}
	m, err := Resolve(7, day(2024, time.March, 1), day(2024, time.March, 4), res)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	got := m.Days()
	want := []DayStatus{
		{Date: "2024-03-01", Available: true},
		{Date: "2024-03-02", Available: false},
		{Date: "2024-03-03", Available: true},
	}
	if len(got) != len(want) {
		t.Fatalf("Days() returned %d entries, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Days()[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
}
