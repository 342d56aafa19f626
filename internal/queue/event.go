// Package queue defines message payloads exchanged over the message broker.
package queue

// BookingConfirmedEvent is published when a reservation is successfully
// confirmed. It carries enough context for downstream consumers to log,
// notify, or feed analytics without querying the primary database.
type BookingConfirmedEvent struct {
	BookingID        uint64 `json:"booking_id"`
	ConfirmationCode string `json:"confirmation_code"`
	GuestID          uint64 `json:"guest_id"`
	RoomID           uint64 `json:"room_id"`
	RoomName         string `json:"room_name"`
	PropertyID       uint64 `json:"property_id"`
	PropertyName     string `json:"property_name"`
	City             string `json:"city"`
	CheckIn          string `json:"check_in"`
	CheckOut         string `json:"check_out"`
	Nights           int    `json:"nights"`
	TotalAmountCents int64  `json:"total_amount_cents"`
	Currency         string `json:"currency"`
	ConfirmedAt      string `json:"confirmed_at"`
}
