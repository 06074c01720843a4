// Package handler exposes the HTTP API: the public catalog listings and
// the authenticated ticket endpoints.
package handler

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinema-club/internal/catalog"
	"github.com/iliyamo/cinema-club/internal/enrich"
)

// CatalogHandler serves the list and detail endpoints of one catalog
// collection. When an extractor and a fetcher are configured every row is
// returned with an "externalData" field.
type CatalogHandler[T any] struct {
	lister  *catalog.Lister[T]
	get     func(ctx context.Context, id uint64) (T, error)
	fanout  *enrich.Fanout
	extract enrich.ExtractFunc[T]
	fetch   enrich.FetchFunc
	log     *slog.Logger
}

// NewCatalogHandler wires a handler for lister. get loads a single row for
// the detail endpoint.
func NewCatalogHandler[T any](lister *catalog.Lister[T], get func(context.Context, uint64) (T, error), log *slog.Logger) *CatalogHandler[T] {
	if log == nil {
		log = slog.Default()
	}
	return &CatalogHandler[T]{lister: lister, get: get, log: log}
}

// WithEnrichment turns on metadata lookups for rows extract yields an id for.
func (h *CatalogHandler[T]) WithEnrichment(f *enrich.Fanout, extract enrich.ExtractFunc[T], fetch enrich.FetchFunc) *CatalogHandler[T] {
	h.fanout, h.extract, h.fetch = f, extract, fetch
	return h
}

func (h *CatalogHandler[T]) enriched() bool { return h.extract != nil && h.fanout != nil }

// List handles GET /api/{entity}.
//
// Query parameters: page, limit, search, sortBy, sortOrder and the
// entity's own filters (venue, format, role, city).
func (h *CatalogHandler[T]) List(c echo.Context) error {
	q, err := parseListQuery(c, h.lister.Entity())
	if err != nil {
		return respondError(c, h.log, err)
	}

	ctx := c.Request().Context()
	res, err := h.lister.List(ctx, q)
	if err != nil {
		return respondError(c, h.log, err)
	}

	if !h.enriched() {
		return c.JSON(http.StatusOK, res)
	}
	rows := enrich.Enrich(ctx, h.fanout, res.Items, h.extract, h.fetch)
	h.markIncomplete(c, rows)
	return c.JSON(http.StatusOK, catalog.PageResult[enrich.EnrichedRow[T]]{
		Items:      rows,
		Pagination: res.Pagination,
	})
}

// Get handles GET /api/{entity}/:id.
func (h *CatalogHandler[T]) Get(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return respondError(c, h.log, &catalog.ValidationError{Field: "id", Reason: "must be a positive integer"})
	}

	ctx := c.Request().Context()
	row, err := h.get(ctx, id)
	if err != nil {
		return respondError(c, h.log, err)
	}

	if !h.enriched() {
		return c.JSON(http.StatusOK, row)
	}
	rows := enrich.Enrich(ctx, h.fanout, []T{row}, h.extract, h.fetch)
	h.markIncomplete(c, rows)
	return c.JSON(http.StatusOK, rows[0])
}

// markIncomplete sets Cache-Control: no-store when a row that has an external
// id came back without data, so a metadata outage is not cached.
func (h *CatalogHandler[T]) markIncomplete(c echo.Context, rows []enrich.EnrichedRow[T]) {
	for _, r := range rows {
		if _, ok := h.extract(r.Row); ok && r.ExternalData == nil {
			c.Response().Header().Set("Cache-Control", "no-store")
			return
		}
	}
}

// parseListQuery reads the list parameters. A page or limit that is present
// but not an integer is rejected; numeric values are clamped later.
func parseListQuery(c echo.Context, entity catalog.EntityType) (catalog.ListQuery, error) {
	page, err := intParam(c, "page")
	if err != nil {
		return catalog.ListQuery{}, err
	}
	limit, err := intParam(c, "limit")
	if err != nil {
		return catalog.ListQuery{}, err
	}

	q := catalog.ListQuery{
		Page:      page,
		Limit:     limit,
		Search:    c.QueryParam("search"),
		SortBy:    c.QueryParam("sortBy"),
		SortOrder: c.QueryParam("sortOrder"),
	}
	for _, key := range catalog.FilterKeys(entity) {
		if v := c.QueryParam(key); v != "" {
			if q.Filters == nil {
				q.Filters = make(map[string]string)
			}
			q.Filters[key] = v
		}
	}
	return q, nil
}

func intParam(c echo.Context, name string) (int, error) {
	raw := strings.TrimSpace(c.QueryParam(name))
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &catalog.ValidationError{Field: name, Reason: fmt.Sprintf("%q is not an integer", raw)}
	}
	return n, nil
}
