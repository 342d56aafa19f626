package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/rental-booking/internal/handler"
	"github.com/iliyamo/rental-booking/internal/middleware"
)

// RegisterHost registers host-scoped endpoints under /v1/host. All routes
// require a valid JWT with the HOST role; ownership of the targeted
// property or room is verified inside the handlers.
func RegisterHost(e *echo.Echo, h *handler.HostHandler, jwtSecret string) {
	g := e.Group(
		"/v1/host",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("HOST"),
	)

	g.POST("/properties", h.CreateProperty)
	g.GET("/properties", h.ListProperties)
	g.GET("/properties/:id", h.GetProperty)
	g.PUT("/properties/:id", h.UpdateProperty)
	g.PATCH("/properties/:id", h.UpdateProperty) // alias for clients that use PATCH
	g.DELETE("/properties/:id", h.DeleteProperty)
	g.GET("/properties/:id/bookings", h.ListPropertyBookings)

	g.POST("/properties/:id/rooms", h.CreateRoom)
	g.GET("/rooms/:id", h.GetRoom)
	g.PUT("/rooms/:id", h.UpdateRoom)
	g.PATCH("/rooms/:id", h.UpdateRoom)
	g.DELETE("/rooms/:id", h.DeleteRoom)
	// Rate cards are upserted as a whole; partial updates are not supported.
	g.PUT("/rooms/:id/rate", h.UpsertRate)
}
