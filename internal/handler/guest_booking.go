package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/rental-booking/internal/availability"
	"github.com/iliyamo/rental-booking/internal/pricing"
	"github.com/iliyamo/rental-booking/internal/queue"
	"github.com/iliyamo/rental-booking/internal/repository"
	queue_publisher "github.com/iliyamo/rental-booking/internal/service"
)

// GuestHandler serves the authenticated guest endpoints: creating,
// listing and cancelling bookings.
type GuestHandler struct {
	Properties   *repository.PropertyRepo
	Rooms        *repository.RoomRepo
	Reservations *repository.ReservationRepo
}

func NewGuestHandler(p *repository.PropertyRepo, rm *repository.RoomRepo, res *repository.ReservationRepo) *GuestHandler {
	if p == nil || rm == nil || res == nil {
		panic("NewGuestHandler: nil repo")
	}
	return &GuestHandler{Properties: p, Rooms: rm, Reservations: res}
}

type createBookingReq struct {
	CheckIn  string `json:"check_in"`  // YYYY-MM-DD
	CheckOut string `json:"check_out"` // YYYY-MM-DD, exclusive departure day
}

// stayAvailable resolves the reservation snapshot over the requested stay
// and reports whether every night is bookable. The booking flow runs this
// before quoting; the row-locked overlap guard inside the write
// transaction remains the authoritative check.
func stayAvailable(roomID uint64, stay availability.DateRange, reservations []availability.Reservation) (bool, error) {
	m, err := availability.Resolve(roomID, stay.Start, stay.End, reservations)
	if err != nil {
		return false, err
	}
	ok, err := availability.IsRangeBookable(stay, m)
	if err != nil {
		return false, err
	}
	return ok, nil
}

// CreateBooking books a room for [check_in, check_out). The quote is
// computed before the transaction; the transaction then re-checks overlap
// under a row lock, so a conflicting booking that landed after the
// availability snapshot still gets a 409 instead of a double booking.
func (h *GuestHandler) CreateBooking(c echo.Context) error {
	guestID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	roomID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room id"})
	}

	var req createBookingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "check_in and check_out required"})
	}
	checkIn, err := parseDay(req.CheckIn)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid check_in date"})
	}
	checkOut, err := parseDay(req.CheckOut)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid check_out date"})
	}
	stay, err := availability.NewDateRange(checkIn, checkOut)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "check_in must be before check_out"})
	}
	if stay.Start.Before(availability.Day(time.Now().UTC())) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "check_in is in the past"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	room, err := h.Rooms.GetByID(ctx, roomID)
	if err != nil {
		if errors.Is(err, repository.ErrRoomNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	prop, err := h.Properties.GetByID(ctx, room.PropertyID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if !room.IsActive || !prop.IsActive {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
	}

	// Validate against the committed snapshot before quoting. A stay that
	// fails here never reaches the write transaction.
	reservations, err := h.Reservations.FetchForRoom(ctx, room.ID, stay.Start, stay.End)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "availability lookup failed"})
	}
	bookable, err := stayAvailable(room.ID, stay, reservations)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "availability lookup failed"})
	}
	if !bookable {
		return c.JSON(http.StatusConflict, echo.Map{"error": "room not available for these dates"})
	}

	rate, err := h.Rooms.GetRate(ctx, room.ID)
	if err != nil {
		if errors.Is(err, repository.ErrRateNotFound) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "room has no rate configured"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	q, err := pricing.Compute(stay, rate)
	if err != nil {
		if errors.Is(err, pricing.ErrInvalidRoomRate) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "room rate misconfigured"})
		}
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid stay"})
	}

	rec := &repository.ReservationRecord{
		RoomID:           room.ID,
		GuestID:          guestID,
		CheckIn:          stay.Start,
		CheckOut:         stay.End,
		Status:           "CONFIRMED",
		TotalAmountCents: q.TotalCents,
		ConfirmationCode: uuid.NewString(),
	}

	tx, err := h.Reservations.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "begin tx failed"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if err := h.Reservations.CreateTx(ctx, tx, rec); err != nil {
		if errors.Is(err, repository.ErrDateConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "room not available for these dates"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create booking failed"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "commit failed"})
	}
	committed = true

	// Best-effort event. The booking exists either way.
	_ = queue_publisher.PublishBookingConfirmed(ctx, queue.BookingConfirmedEvent{
		BookingID:        rec.ID,
		ConfirmationCode: rec.ConfirmationCode,
		GuestID:          guestID,
		RoomID:           room.ID,
		RoomName:         room.Name,
		PropertyID:       prop.ID,
		PropertyName:     prop.Name,
		City:             prop.City,
		CheckIn:          stay.Start.Format(availability.DayFormat),
		CheckOut:         stay.End.Format(availability.DayFormat),
		Nights:           q.Nights,
		TotalAmountCents: q.TotalCents,
		Currency:         q.Currency,
		ConfirmedAt:      time.Now().UTC().Format(time.RFC3339),
	})

	return c.JSON(http.StatusCreated, echo.Map{
		"booking": echo.Map{
			"id":                rec.ID,
			"room_id":           rec.RoomID,
			"check_in":          stay.Start.Format(availability.DayFormat),
			"check_out":         stay.End.Format(availability.DayFormat),
			"status":            rec.Status,
			"confirmation_code": rec.ConfirmationCode,
		},
		"quote": q,
	})
}

// ListBookings returns every booking of the authenticated guest.
func (h *GuestHandler) ListBookings(c echo.Context) error {
	guestID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	bookings, err := h.Reservations.ListByGuest(ctx, guestID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"bookings": bookings})
}

// GetBooking returns one booking of the authenticated guest.
func (h *GuestHandler) GetBooking(c echo.Context) error {
	guestID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	d, err := h.Reservations.GetByIDForGuest(ctx, id, guestID)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		case errors.Is(err, repository.ErrForbidden):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "not your booking"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"booking": d})
}

// CancelBooking cancels a confirmed future stay. A stay whose check-in day
// has arrived can no longer be cancelled, and cancelling twice is a 409.
// The cancelled nights become bookable again immediately.
func (h *GuestHandler) CancelBooking(c echo.Context) error {
	guestID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	tx, err := h.Reservations.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "begin tx failed"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	checkIn, status, err := h.Reservations.GetInfoForGuestTx(ctx, tx, id, guestID)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		case errors.Is(err, repository.ErrForbidden):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "not your booking"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
		}
	}
	if status != "CONFIRMED" {
		return c.JSON(http.StatusConflict, echo.Map{"error": "booking already cancelled"})
	}
	if !availability.Day(time.Now().UTC()).Before(availability.Day(checkIn)) {
		return c.JSON(http.StatusConflict, echo.Map{"error": "stay already started"})
	}

	if err := h.Reservations.CancelTx(ctx, tx, id); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "booking already cancelled"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "cancel failed"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "commit failed"})
	}
	committed = true

	return c.JSON(http.StatusOK, echo.Map{"id": id, "status": "CANCELLED"})
}
