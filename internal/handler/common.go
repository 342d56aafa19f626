package handler

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/rental-booking/internal/availability"
)

// getUserID extracts the user_id stored in echo.Context by the JWT
// middleware and converts it to uint64. JWT numeric claims decode as
// float64, but other middleware may store native integer types.
func getUserID(c echo.Context) (uint64, error) {
	v := c.Get("user_id")
	switch t := v.(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// parseDay parses a calendar date in YYYY-MM-DD form and normalizes it to
// midnight UTC. Empty or malformed input returns an error so callers can
// reject the request instead of guessing.
func parseDay(raw string) (time.Time, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, errors.New("empty date")
	}
	t, err := time.Parse(availability.DayFormat, s)
	if err != nil {
		return time.Time{}, err
	}
	return availability.Day(t), nil
}
