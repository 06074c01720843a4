package router // router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinema-club/internal/handler"
	"github.com/iliyamo/cinema-club/internal/middleware"
	"github.com/iliyamo/cinema-club/internal/model"
)

// Catalog bundles the per-collection catalog handlers.
type Catalog struct {
	Screenings *handler.CatalogHandler[model.ScreeningRow]
	Archive    *handler.CatalogHandler[model.ScreeningRow]
	People     *handler.CatalogHandler[model.Person]
	Venues     *handler.CatalogHandler[model.Venue]
}

// RegisterRoutes registers the health check.
func RegisterRoutes(e *echo.Echo, db handler.Pinger) {
	e.GET("/healthz", handler.Health(db))
}

// RegisterCatalog registers the public read-only catalog under /api. mw
// (the rate limiter, then the response cache) wraps every catalog route.
func RegisterCatalog(e *echo.Echo, h Catalog, mw ...echo.MiddlewareFunc) {
	g := e.Group("/api", mw...)

	g.GET("/screenings", h.Screenings.List)
	g.GET("/screenings/:id", h.Screenings.Get)
	g.GET("/archive", h.Archive.List)
	g.GET("/people", h.People.List)
	g.GET("/people/:id", h.People.Get)
	g.GET("/venues", h.Venues.List)
	g.GET("/venues/:id", h.Venues.Get)
}

// RegisterTickets registers the ticket endpoints. Purchasing and reading
// need a MEMBER or ADMIN token; state changes are ADMIN only. mw runs after
// authentication, so a rate limiter passed here buckets per member.
func RegisterTickets(e *echo.Echo, h *handler.TicketHandler, jwtSecret, jwtIssuer string, mw ...echo.MiddlewareFunc) {
	auth := middleware.JWTAuth(jwtSecret, jwtIssuer)

	chain := func(role ...string) []echo.MiddlewareFunc {
		return append([]echo.MiddlewareFunc{auth, middleware.RequireRole(role...)}, mw...)
	}

	g := e.Group("/api/tickets", chain(middleware.RoleMember, middleware.RoleAdmin)...)
	g.POST("", h.Purchase)
	g.GET("/:id", h.Get)

	admin := e.Group("/api/admin/tickets", chain(middleware.RoleAdmin)...)
	admin.POST("/:id/cancel", h.Cancel)
	admin.POST("/:id/attended", h.MarkAttended)
}
