package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/rental-booking/internal/pricing"
	"github.com/iliyamo/rental-booking/internal/repository"
)

type roomReq struct {
	Name      string `json:"name"`
	MaxGuests uint32 `json:"max_guests"`
}

func (r *roomReq) normalize() error {
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return errors.New("name required")
	}
	if r.MaxGuests == 0 {
		return errors.New("max_guests must be positive")
	}
	return nil
}

// CreateRoom adds a room to one of the host's properties.
func (h *HostHandler) CreateRoom(c echo.Context) error {
	hostID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	propertyID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid property id"})
	}
	var req roomReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := req.normalize(); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	// Ownership check before touching rooms.
	if _, err := h.Properties.GetByIDAndHost(ctx, propertyID, hostID); err != nil {
		if errors.Is(err, repository.ErrPropertyNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "property not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	rm := &repository.Room{PropertyID: propertyID, Name: req.Name, MaxGuests: req.MaxGuests}
	if err := h.Rooms.Create(ctx, rm); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create room failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"room": rm})
}

// GetRoom returns one room of the host, with its rate card when set.
func (h *HostHandler) GetRoom(c echo.Context) error {
	hostID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	rm, err := h.Rooms.GetByIDForHost(ctx, id, hostID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRoomNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
		case errors.Is(err, repository.ErrForbidden):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "not your room"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
		}
	}
	resp := echo.Map{"room": rm}
	if rate, err := h.Rooms.GetRate(ctx, rm.ID); err == nil {
		resp["rate"] = rate
	}
	return c.JSON(http.StatusOK, resp)
}

// UpdateRoom changes name and capacity.
func (h *HostHandler) UpdateRoom(c echo.Context) error {
	hostID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room id"})
	}
	var req roomReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := req.normalize(); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Rooms.GetByIDForHost(ctx, id, hostID); err != nil {
		switch {
		case errors.Is(err, repository.ErrRoomNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
		case errors.Is(err, repository.ErrForbidden):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "not your room"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
		}
	}
	if err := h.Rooms.Update(ctx, id, req.Name, req.MaxGuests); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	rm, err := h.Rooms.GetByIDForHost(ctx, id, hostID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"room": rm})
}

// DeleteRoom soft-deletes a room so it stops being bookable.
func (h *HostHandler) DeleteRoom(c echo.Context) error {
	hostID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Rooms.GetByIDForHost(ctx, id, hostID); err != nil {
		switch {
		case errors.Is(err, repository.ErrRoomNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
		case errors.Is(err, repository.ErrForbidden):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "not your room"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
		}
	}
	if err := h.Rooms.Deactivate(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "room already inactive"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

type rateReq struct {
	NightlyRateCents     int64  `json:"nightly_rate_cents"`
	CleaningFeeCents     int64  `json:"cleaning_fee_cents"`
	ServiceFeeMode       string `json:"service_fee_mode"`
	ServiceFeeCents      int64  `json:"service_fee_cents"`
	ServiceFeeBps        int64  `json:"service_fee_bps"`
	TaxRateBps           int64  `json:"tax_rate_bps"`
	SecurityDepositCents int64  `json:"security_deposit_cents"`
	Currency             string `json:"currency"`
}

// UpsertRate sets or replaces a room's rate card. The card is validated
// before it is stored so a misconfigured fee schedule can never be booked
// against.
func (h *HostHandler) UpsertRate(c echo.Context) error {
	hostID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room id"})
	}
	var req rateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	mode := pricing.ServiceFeeMode(strings.ToUpper(strings.TrimSpace(req.ServiceFeeMode)))
	if mode == "" {
		mode = pricing.ServiceFeeNone
	}
	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if currency == "" {
		currency = "USD"
	}
	rc := pricing.RateCard{
		RoomID:               id,
		NightlyRateCents:     req.NightlyRateCents,
		CleaningFeeCents:     req.CleaningFeeCents,
		ServiceFeeMode:       mode,
		ServiceFeeCents:      req.ServiceFeeCents,
		ServiceFeeBps:        req.ServiceFeeBps,
		TaxRateBps:           req.TaxRateBps,
		SecurityDepositCents: req.SecurityDepositCents,
		Currency:             currency,
	}
	if err := rc.Validate(); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid rate card"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Rooms.GetByIDForHost(ctx, id, hostID); err != nil {
		switch {
		case errors.Is(err, repository.ErrRoomNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
		case errors.Is(err, repository.ErrForbidden):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "not your room"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
		}
	}
	if err := h.Rooms.UpsertRate(ctx, rc); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save rate failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"rate": rc})
}
