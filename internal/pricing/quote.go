// Package pricing computes the chargeable total of a stay. All monetary
// amounts are integer minor units (cents) and percentages are basis
// points, so no binary floating point ever enters the arithmetic. The
// package is pure: it does not re-check availability, the caller must
// have validated the range first.
package pricing

import (
	"errors"

	"github.com/iliyamo/rental-booking/internal/availability"
)

// ErrInvalidRoomRate is returned when a rate card has a non-positive
// nightly rate or a malformed fee schedule.
var ErrInvalidRoomRate = errors.New("invalid room rate")

// ServiceFeeMode selects how the service fee of a rate card is charged.
// The basis is fixed by room configuration, never inferred from the
// magnitude of a number.
type ServiceFeeMode string

const (
	ServiceFeeNone    ServiceFeeMode = "NONE"
	ServiceFeeFlat    ServiceFeeMode = "FLAT"
	ServiceFeePercent ServiceFeeMode = "PERCENT"
)

// RateCard holds a room's nightly rate and optional fee schedule as
// stored in the rate_cards table. Each fee is independently toggled:
// a zero cleaning fee, a NONE service mode or a zero tax rate simply
// drop that line from the quote.
type RateCard struct {
	RoomID               uint64         `json:"room_id"`
	NightlyRateCents     int64          `json:"nightly_rate_cents"`
	CleaningFeeCents     int64          `json:"cleaning_fee_cents"`
	ServiceFeeMode       ServiceFeeMode `json:"service_fee_mode"`
	ServiceFeeCents      int64          `json:"service_fee_cents"`
	ServiceFeeBps        int64          `json:"service_fee_bps"`
	TaxRateBps           int64          `json:"tax_rate_bps"`
	SecurityDepositCents int64          `json:"security_deposit_cents"`
	Currency             string         `json:"currency"`
}

// Validate checks the rate card invariants: positive nightly rate,
// non-negative fees, and a service-fee value matching the declared mode.
func (rc RateCard) Validate() error {
	if rc.NightlyRateCents <= 0 {
		return ErrInvalidRoomRate
	}
	if rc.CleaningFeeCents < 0 || rc.TaxRateBps < 0 || rc.SecurityDepositCents < 0 {
		return ErrInvalidRoomRate
	}
	switch rc.ServiceFeeMode {
	case ServiceFeeNone:
		if rc.ServiceFeeCents != 0 || rc.ServiceFeeBps != 0 {
			return ErrInvalidRoomRate
		}
	case ServiceFeeFlat:
		if rc.ServiceFeeCents < 0 || rc.ServiceFeeBps != 0 {
			return ErrInvalidRoomRate
		}
	case ServiceFeePercent:
		if rc.ServiceFeeBps < 0 || rc.ServiceFeeCents != 0 {
			return ErrInvalidRoomRate
		}
	default:
		return ErrInvalidRoomRate
	}
	return nil
}

// Quote itemizes the cost of a stay. The security deposit is held, not
// charged: it is reported to the client but excluded from TotalCents.
// A Quote is derived on demand and never persisted; the same range and
// rate card always produce the same Quote.
type Quote struct {
	Nights               int    `json:"nights"`
	SubtotalCents        int64  `json:"subtotal_cents"`
	CleaningFeeCents     int64  `json:"cleaning_fee_cents"`
	ServiceFeeCents      int64  `json:"service_fee_cents"`
	TaxCents             int64  `json:"tax_cents"`
	TotalCents           int64  `json:"total_cents"`
	SecurityDepositCents int64  `json:"security_deposit_cents"`
	Currency             string `json:"currency"`
}

// Compute prices a stay over r at the given rate card. The service fee
// percentage and the tax both apply to the nightly subtotal, rounded
// half-even to the cent; cleaning and service fees are not taxed.
func Compute(r availability.DateRange, rate RateCard) (Quote, error) {
	nights := r.Nights()
	if nights <= 0 {
		return Quote{}, availability.ErrInvalidRange
	}
	if err := rate.Validate(); err != nil {
		return Quote{}, err
	}

	subtotal := int64(nights) * rate.NightlyRateCents

	var service int64
	switch rate.ServiceFeeMode {
	case ServiceFeeFlat:
		service = rate.ServiceFeeCents
	case ServiceFeePercent:
		service = applyBps(subtotal, rate.ServiceFeeBps)
	}

	tax := applyBps(subtotal, rate.TaxRateBps)

	return Quote{
		Nights:               nights,
		SubtotalCents:        subtotal,
		CleaningFeeCents:     rate.CleaningFeeCents,
		ServiceFeeCents:      service,
		TaxCents:             tax,
		TotalCents:           subtotal + rate.CleaningFeeCents + service + tax,
		SecurityDepositCents: rate.SecurityDepositCents,
		Currency:             rate.Currency,
	}, nil
}

// applyBps multiplies an amount in cents by a basis-point rate and rounds
// the result to the nearest cent, ties to even. Inputs are non-negative
// (enforced by Validate).
func applyBps(amountCents, bps int64) int64 {
	n := amountCents * bps
	q, rem := n/10000, n%10000
	switch {
	case rem*2 > 10000:
		q++
	case rem*2 == 10000 && q%2 != 0:
		q++
	}
	return q
}
