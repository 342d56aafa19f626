package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/rental-booking/internal/availability"
	"github.com/iliyamo/rental-booking/internal/config"
	"github.com/iliyamo/rental-booking/internal/pricing"
	"github.com/iliyamo/rental-booking/internal/repository"
)

// PublicHandler serves the unauthenticated browse, calendar and quote
// endpoints. Only active properties and rooms are visible here.
type PublicHandler struct {
	Cfg          config.Config
	Properties   *repository.PropertyRepo
	Rooms        *repository.RoomRepo
	Reservations *repository.ReservationRepo
}

func NewPublicHandler(cfg config.Config, p *repository.PropertyRepo, rm *repository.RoomRepo, res *repository.ReservationRepo) *PublicHandler {
	if p == nil || rm == nil || res == nil {
		panic("NewPublicHandler: nil repo")
	}
	return &PublicHandler{Cfg: cfg, Properties: p, Rooms: rm, Reservations: res}
}

type publicProperty struct {
	ID          uint64  `json:"id"`
	Name        string  `json:"name"`
	City        string  `json:"city"`
	Description *string `json:"description,omitempty"`
}

type publicRoom struct {
	ID         uint64 `json:"id"`
	PropertyID uint64 `json:"property_id"`
	Name       string `json:"name"`
	MaxGuests  uint32 `json:"max_guests"`
}

func toPublicProperty(p *repository.Property) publicProperty {
	return publicProperty{ID: p.ID, Name: p.Name, City: p.City, Description: p.Description}
}

func toPublicRoom(rm *repository.Room) publicRoom {
	return publicRoom{ID: rm.ID, PropertyID: rm.PropertyID, Name: rm.Name, MaxGuests: rm.MaxGuests}
}

// GetProperties lists every active property.
func (h *PublicHandler) GetProperties(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	props, err := h.Properties.ListActive(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]publicProperty, 0, len(props))
	for _, p := range props {
		out = append(out, toPublicProperty(p))
	}
	return c.JSON(http.StatusOK, echo.Map{"properties": out})
}

// GetProperty returns one active property with its active rooms.
func (h *PublicHandler) GetProperty(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid property id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	p, err := h.Properties.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrPropertyNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "property not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if !p.IsActive {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "property not found"})
	}

	rooms, err := h.Rooms.ListByProperty(ctx, p.ID, true)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	outRooms := make([]publicRoom, 0, len(rooms))
	for _, rm := range rooms {
		outRooms = append(outRooms, toPublicRoom(rm))
	}
	return c.JSON(http.StatusOK, echo.Map{
		"property": toPublicProperty(p),
		"rooms":    outRooms,
	})
}

// GetPropertyRooms lists the active rooms of an active property.
func (h *PublicHandler) GetPropertyRooms(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid property id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	p, err := h.Properties.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrPropertyNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "property not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if !p.IsActive {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "property not found"})
	}

	rooms, err := h.Rooms.ListByProperty(ctx, p.ID, true)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]publicRoom, 0, len(rooms))
	for _, rm := range rooms {
		out = append(out, toPublicRoom(rm))
	}
	return c.JSON(http.StatusOK, echo.Map{"property_id": p.ID, "rooms": out})
}

// getActiveRoom loads a room and hides inactive rooms or rooms of inactive
// properties behind 404.
func (h *PublicHandler) getActiveRoom(ctx context.Context, c echo.Context) (*repository.Room, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		_ = c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room id"})
		return nil, false
	}
	rm, err := h.Rooms.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrRoomNotFound) {
			_ = c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
		} else {
			_ = c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
		}
		return nil, false
	}
	if !rm.IsActive {
		_ = c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
		return nil, false
	}
	p, err := h.Properties.GetByID(ctx, rm.PropertyID)
	if err != nil || !p.IsActive {
		_ = c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
		return nil, false
	}
	return rm, true
}

// GetRoom returns one bookable room.
func (h *PublicHandler) GetRoom(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	rm, ok := h.getActiveRoom(ctx, c)
	if !ok {
		return nil
	}
	resp := echo.Map{"room": toPublicRoom(rm)}
	if rate, err := h.Rooms.GetRate(ctx, rm.ID); err == nil {
		resp["rate"] = rate
	}
	return c.JSON(http.StatusOK, resp)
}

// GetRoomCalendar resolves the day-by-day availability of a room over a
// window. Optional from/to query params (YYYY-MM-DD, to exclusive) bound
// the window; the default starts today and spans CALENDAR_WINDOW_DAYS.
// A reservation fetch failure is a 500, never an all-available calendar.
func (h *PublicHandler) GetRoomCalendar(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	rm, ok := h.getActiveRoom(ctx, c)
	if !ok {
		return nil
	}

	windowStart := availability.Day(time.Now().UTC())
	windowEnd := windowStart.AddDate(0, 0, h.Cfg.CalendarDays)
	if raw := c.QueryParam("from"); raw != "" {
		d, err := parseDay(raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid from date"})
		}
		windowStart = d
		windowEnd = windowStart.AddDate(0, 0, h.Cfg.CalendarDays)
	}
	if raw := c.QueryParam("to"); raw != "" {
		d, err := parseDay(raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid to date"})
		}
		windowEnd = d
	}
	if !windowStart.Before(windowEnd) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "from must be before to"})
	}

	reservations, err := h.Reservations.FetchForRoom(ctx, rm.ID, windowStart, windowEnd)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "availability lookup failed"})
	}
	m, err := availability.Resolve(rm.ID, windowStart, windowEnd, reservations)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid window"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"room_id":      rm.ID,
		"window_start": m.WindowStart.Format(availability.DayFormat),
		"window_end":   m.WindowEnd.Format(availability.DayFormat),
		"days":         m.Days(),
	})
}

// GetRoomQuote prices a prospective stay without creating anything. The
// range must be fully available; a blocked night is a 409 so the client
// can distinguish "taken" from "malformed request".
func (h *PublicHandler) GetRoomQuote(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	rm, ok := h.getActiveRoom(ctx, c)
	if !ok {
		return nil
	}

	checkIn, err := parseDay(c.QueryParam("check_in"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid check_in date"})
	}
	checkOut, err := parseDay(c.QueryParam("check_out"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid check_out date"})
	}
	stay, err := availability.NewDateRange(checkIn, checkOut)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "check_in must be before check_out"})
	}

	reservations, err := h.Reservations.FetchForRoom(ctx, rm.ID, stay.Start, stay.End)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "availability lookup failed"})
	}
	m, err := availability.Resolve(rm.ID, stay.Start, stay.End, reservations)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid window"})
	}
	bookable, err := availability.IsRangeBookable(stay, m)
	if err != nil || !bookable {
		return c.JSON(http.StatusConflict, echo.Map{"error": "room not available for these dates"})
	}

	rate, err := h.Rooms.GetRate(ctx, rm.ID)
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

	return c.JSON(http.StatusOK, echo.Map{
		"room_id":   rm.ID,
		"check_in":  stay.Start.Format(availability.DayFormat),
		"check_out": stay.End.Format(availability.DayFormat),
		"quote":     q,
	})
}
