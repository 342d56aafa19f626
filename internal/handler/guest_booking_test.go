package handler

import (
	"testing"
	"time"

	"github.com/iliyamo/rental-booking/internal/availability"
)

func bookingDay(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func bookingStay(t *testing.T, start, end time.Time) availability.DateRange {
	t.Helper()
	r, err := availability.NewDateRange(start, end)
	if err != nil {
		t.Fatalf("NewDateRange: %v", err)
	}
	return r
}

func TestStayAvailableEmptySnapshot(t *testing.T) {
	stay := bookingStay(t, bookingDay(2026, time.March, 10), bookingDay(2026, time.March, 13))
	ok, err := stayAvailable(1, stay, nil)
	if err != nil {
		t.Fatalf("stayAvailable: %v", err)
	}
	if !ok {
		t.Error("stay with no reservations reported unavailable")
	}
}

func TestStayAvailableRejectsOverlap(t *testing.T) {
	stay := bookingStay(t, bookingDay(2026, time.March, 10), bookingDay(2026, time.March, 13))
	taken := []availability.Reservation{{
		RoomID:   1,
		CheckIn:  bookingDay(2026, time.March, 12),
		CheckOut: bookingDay(2026, time.March, 15),
	}}
	ok, err := stayAvailable(1, stay, taken)
	if err != nil {
		t.Fatalf("stayAvailable: %v", err)
	}
	if ok {
		t.Error("overlapping stay reported available; it must be rejected before quoting")
	}
}

func TestStayAvailableTurnoverDay(t *testing.T) {
	// Arriving on the previous guest's departure day is allowed.
	stay := bookingStay(t, bookingDay(2026, time.March, 13), bookingDay(2026, time.March, 15))
	taken := []availability.Reservation{{
		RoomID:   1,
		CheckIn:  bookingDay(2026, time.March, 10),
		CheckOut: bookingDay(2026, time.March, 13),
	}}
	ok, err := stayAvailable(1, stay, taken)
	if err != nil {
		t.Fatalf("stayAvailable: %v", err)
	}
	if !ok {
		t.Error("turnover-day stay reported unavailable")
	}
}

func TestStayAvailableIgnoresOtherRooms(t *testing.T) {
	stay := bookingStay(t, bookingDay(2026, time.March, 10), bookingDay(2026, time.March, 13))
	taken := []availability.Reservation{{
		RoomID:   2,
		CheckIn:  bookingDay(2026, time.March, 10),
		CheckOut: bookingDay(2026, time.March, 13),
	}}
	ok, err := stayAvailable(1, stay, taken)
	if err != nil {
		t.Fatalf("stayAvailable: %v", err)
	}
	if !ok {
		t.Error("reservation on another room blocked this stay")
	}
}
