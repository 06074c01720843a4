package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinema-club/internal/catalog"
	"github.com/iliyamo/cinema-club/internal/pricing"
	"github.com/iliyamo/cinema-club/internal/repository"
	"github.com/iliyamo/cinema-club/internal/service"
)

// errInvalidRequest marks a request body or path that could not be parsed
// or failed struct validation.
var errInvalidRequest = errors.New("invalid request")

// errorBody writes the standard {"error", "message"} envelope.
func errorBody(c echo.Context, status int, code, msg string) error {
	return c.JSON(status, echo.Map{"error": code, "message": msg})
}

// respondError maps a domain error onto its HTTP status and error code.
// Server-side failures are logged and answered with a generic message.
func respondError(c echo.Context, log *slog.Logger, err error) error {
	switch {
	case errors.Is(err, catalog.ErrValidation), errors.Is(err, errInvalidRequest):
		return errorBody(c, http.StatusBadRequest, "validation_error", err.Error())
	case errors.Is(err, pricing.ErrInvalidQuantity):
		return errorBody(c, http.StatusBadRequest, "invalid_quantity", err.Error())
	case errors.Is(err, service.ErrNotFound), errors.Is(err, repository.ErrNotFound):
		return errorBody(c, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, service.ErrInvalidTransition):
		return errorBody(c, http.StatusConflict, "invalid_transition", err.Error())
	}

	ctx := c.Request().Context()
	if errors.Is(err, catalog.ErrCatalogUnavailable) {
		log.ErrorContext(ctx, "catalog query failed", "path", c.Path(), "error", err)
		return errorBody(c, http.StatusServiceUnavailable, "catalog_unavailable", "catalog is temporarily unavailable")
	}
	if errors.Is(err, service.ErrPurchaseFailed) {
		log.ErrorContext(ctx, "purchase failed", "error", err)
		return errorBody(c, http.StatusInternalServerError, "purchase_failed", "the purchase could not be completed")
	}
	log.ErrorContext(ctx, "request failed", "path", c.Path(), "error", err)
	return errorBody(c, http.StatusInternalServerError, "internal_error", "internal server error")
}
