package pricing

import (
	"testing"
	"time"

	"github.com/iliyamo/rental-booking/internal/availability"
)

func stay(t *testing.T, y1 int, m1 time.Month, d1, y2 int, m2 time.Month, d2 int) availability.DateRange {
	t.Helper()
	r, err := availability.NewDateRange(
		time.Date(y1, m1, d1, 0, 0, 0, 0, time.UTC),
		time.Date(y2, m2, d2, 0, 0, 0, 0, time.UTC),
	)
	if err != nil {
		t.Fatalf("NewDateRange: %v", err)
	}
	return r
}

func TestComputeNoFees(t *testing.T) {
	rate := RateCard{NightlyRateCents: 10000, ServiceFeeMode: ServiceFeeNone, Currency: "USD"}
	q, err := Compute(stay(t, 2024, time.March, 10, 2024, time.March, 13), rate)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if q.Nights != 3 {
		t.Fatalf("Nights = %d, want 3", q.Nights)
	}
	if q.SubtotalCents != 30000 || q.TotalCents != 30000 {
		t.Fatalf("subtotal/total = %d/%d, want 30000/30000", q.SubtotalCents, q.TotalCents)
	}
}

func TestComputeCleaningFeeAndTax(t *testing.T) {
	rate := RateCard{
		NightlyRateCents: 8000,
		CleaningFeeCents: 2000,
		ServiceFeeMode:   ServiceFeeNone,
		TaxRateBps:       1000, // 10%
		Currency:         "USD",
	}
	q, err := Compute(stay(t, 2024, time.March, 10, 2024, time.March, 12), rate)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if q.SubtotalCents != 16000 {
		t.Fatalf("subtotal = %d, want 16000", q.SubtotalCents)
	}
	if q.TaxCents != 1600 { // 10% of the 160.00 subtotal; cleaning fee untaxed
		t.Fatalf("tax = %d, want 1600", q.TaxCents)
	}
	if q.TotalCents != 19600 {
		t.Fatalf("total = %d, want 19600", q.TotalCents)
	}
}

func TestComputeServiceFeeFlat(t *testing.T) {
	rate := RateCard{
		NightlyRateCents: 8000,
		ServiceFeeMode:   ServiceFeeFlat,
		ServiceFeeCents:  1500,
		Currency:         "USD",
	}
	q, err := Compute(stay(t, 2024, time.March, 10, 2024, time.March, 12), rate)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if q.ServiceFeeCents != 1500 || q.TotalCents != 17500 {
		t.Fatalf("service/total = %d/%d, want 1500/17500", q.ServiceFeeCents, q.TotalCents)
	}
}

func TestComputeServiceFeePercent(t *testing.T) {
	rate := RateCard{
		NightlyRateCents: 8000,
		ServiceFeeMode:   ServiceFeePercent,
		ServiceFeeBps:    500, // 5% of the nightly subtotal
		TaxRateBps:       1000,
		Currency:         "USD",
	}
	q, err := Compute(stay(t, 2024, time.March, 10, 2024, time.March, 12), rate)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if q.ServiceFeeCents != 800 { // 5% of 160.00
		t.Fatalf("service fee = %d, want 800", q.ServiceFeeCents)
	}
	if q.TaxCents != 1600 { // 10% of the 160.00 subtotal, not of subtotal+service
		t.Fatalf("tax = %d, want 1600", q.TaxCents)
	}
	if q.TotalCents != 18400 {
		t.Fatalf("total = %d, want 18400", q.TotalCents)
	}
}

func TestComputeDepositReportedNotCharged(t *testing.T) {
	rate := RateCard{
		NightlyRateCents:     8000,
		ServiceFeeMode:       ServiceFeeNone,
		SecurityDepositCents: 50000,
		Currency:             "USD",
	}
	q, err := Compute(stay(t, 2024, time.March, 10, 2024, time.March, 12), rate)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if q.SecurityDepositCents != 50000 {
		t.Fatalf("deposit = %d, want 50000", q.SecurityDepositCents)
	}
	if q.TotalCents != 16000 {
		t.Fatalf("total = %d, want 16000 (deposit excluded)", q.TotalCents)
	}
}

func TestComputeZeroNights(t *testing.T) {
	d := time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC)
	rate := RateCard{NightlyRateCents: 8000, ServiceFeeMode: ServiceFeeNone}
	// A well-formed DateRange can't have zero nights; feed one directly.
	if _, err := Compute(availability.DateRange{Start: d, End: d}, rate); err != availability.ErrInvalidRange {
		t.Fatalf("Compute error = %v, want ErrInvalidRange", err)
	}
}

func TestComputeDeterministic(t *testing.T) {
	rate := RateCard{
		NightlyRateCents: 8175,
		CleaningFeeCents: 2500,
		ServiceFeeMode:   ServiceFeePercent,
		ServiceFeeBps:    375,
		TaxRateBps:       825,
		Currency:         "EUR",
	}
	r := stay(t, 2024, time.July, 1, 2024, time.July, 9)
	first, err := Compute(r, rate)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	for i := 0; i < 10; i++ {
		again, err := Compute(r, rate)
		if err != nil {
			t.Fatalf("Compute: %v", err)
		}
		if again != first {
			t.Fatalf("Compute not deterministic: %+v vs %+v", again, first)
		}
	}
}

func TestValidateRejectsMalformedRates(t *testing.T) {
	cases := []struct {
		name string
		rate RateCard
	}{
		{"zero nightly rate", RateCard{NightlyRateCents: 0, ServiceFeeMode: ServiceFeeNone}},
		{"negative nightly rate", RateCard{NightlyRateCents: -100, ServiceFeeMode: ServiceFeeNone}},
		{"negative cleaning fee", RateCard{NightlyRateCents: 8000, CleaningFeeCents: -1, ServiceFeeMode: ServiceFeeNone}},
		{"negative tax", RateCard{NightlyRateCents: 8000, TaxRateBps: -1, ServiceFeeMode: ServiceFeeNone}},
		{"negative deposit", RateCard{NightlyRateCents: 8000, SecurityDepositCents: -1, ServiceFeeMode: ServiceFeeNone}},
		{"unknown mode", RateCard{NightlyRateCents: 8000, ServiceFeeMode: "HOURLY"}},
		{"empty mode", RateCard{NightlyRateCents: 8000}},
		{"flat mode with bps set", RateCard{NightlyRateCents: 8000, ServiceFeeMode: ServiceFeeFlat, ServiceFeeBps: 100}},
		{"percent mode with cents set", RateCard{NightlyRateCents: 8000, ServiceFeeMode: ServiceFeePercent, ServiceFeeCents: 100}},
		{"none mode with fee set", RateCard{NightlyRateCents: 8000, ServiceFeeMode: ServiceFeeNone, ServiceFeeCents: 100}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.rate.Validate(); err != ErrInvalidRoomRate {
				t.Fatalf("Validate error = %v, want ErrInvalidRoomRate", err)
			}
			if _, err := Compute(stay(t, 2024, time.March, 10, 2024, time.March, 12), tc.rate); err != ErrInvalidRoomRate {
				t.Fatalf("Compute error = %v, want ErrInvalidRoomRate", err)
			}
		})
	}
}

func TestApplyBpsRoundsHalfEven(t *testing.T) {
	cases := []struct {
		amount, bps, want int64
	}{
		{16000, 1000, 1600}, // exact
		{125, 100, 1},       // 1.25 -> 1 (below half)
		{375, 100, 4},       // 3.75 -> 4 (above half)
		{176, 100, 2},       // 1.76 -> 2 (above half)
		{250, 100, 2},       // 2.50 -> 2 (tie, stays even)
		{350, 100, 4},       // 3.50 -> 4 (tie, rounds to even)
		{100, 50, 0},        // 0.50 -> 0 (tie, stays even)
		{300, 50, 2},        // 1.50 -> 2 (tie, rounds to even)
		{10000, 0, 0},
	}
	for _, tc := range cases {
		if got := applyBps(tc.amount, tc.bps); got != tc.want {
			t.Errorf("applyBps(%d, %d) = %d, want %d", tc.amount, tc.bps, got, tc.want)
		}
	}
}
