package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/rental-booking/internal/handler"
)

// RegisterPublic registers the unauthenticated browse endpoints: property
// and room listings, availability calendars and quotes. These return
// sanitized data only, so no JWT or role middleware is applied. Optional
// extra middleware (typically the response cache) is applied to the whole
// group.
func RegisterPublic(e *echo.Echo, p *handler.PublicHandler, mw ...echo.MiddlewareFunc) {
	g := e.Group("/v1", mw...)
	g.GET("/properties", p.GetProperties)
	g.GET("/properties/:id", p.GetProperty)
	g.GET("/properties/:id/rooms", p.GetPropertyRooms)
	g.GET("/rooms/:id", p.GetRoom)
	// Day-by-day availability over a window; optional ?from=&to= bounds.
	g.GET("/rooms/:id/calendar", p.GetRoomCalendar)
	// Priced stay for ?check_in=&check_out=, no side effects.
	g.GET("/rooms/:id/quote", p.GetRoomQuote)
}
