package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Health is the liveness and readiness check used by load balancers. It
// answers 200 "ok" while the content store responds to a ping and 503
// otherwise.
func Health(db Pinger) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			return errorBody(c, http.StatusServiceUnavailable, "unhealthy", "database unreachable")
		}
		return c.String(http.StatusOK, "ok")
	}
}
