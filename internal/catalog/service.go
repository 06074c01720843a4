package catalog

import (
	"context"
	"fmt"
)

// Source is the content store seen through one collection. Count and Fetch
// must interpret the same Filter identically; that is what keeps totalPages
// honest.
type Source[T any] interface {
	Count(ctx context.Context, f Filter) (int64, error)
	Fetch(ctx context.Context, f Filter, s SortClause, w Window) ([]T, error)
}

// Pagination is the metadata half of the list envelope.
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
	HasNext    bool  `json:"hasNext"`
	HasPrev    bool  `json:"hasPrev"`
}

// PageResult is one page of rows plus its pagination metadata.
type PageResult[T any] struct {
	Items      []T        `json:"items"`
	Pagination Pagination `json:"pagination"`
}

// Lister runs the list pipeline for one entity type.
type Lister[T any] struct {
	entity  EntityType
	filters *FilterBuilder
	sorts   SortResolver
	source  Source[T]
}

// NewLister wires a Lister. It fails fast on an unknown entity so a
// misconfigured route never reaches the store.
func NewLister[T any](entity EntityType, filters *FilterBuilder, source Source[T]) (*Lister[T], error) {
	if _, ok := specs[entity]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidFilter, entity)
	}
	if filters == nil {
		filters = NewFilterBuilder(nil)
	}
	return &Lister[T]{entity: entity, filters: filters, source: source}, nil
}

// Entity reports which collection this Lister serves.
func (l *Lister[T]) Entity() EntityType { return l.entity }

// List counts the matching rows, derives the window from that count, and
// fetches the window with the very same filter. A page past the last one is
// answered with no items and no data query. A failure of either store call
// aborts the whole request.
func (l *Lister[T]) List(ctx context.Context, q ListQuery) (*PageResult[T], error) {
	q = q.Normalize()

	filter, err := l.filters.Build(l.entity, q)
	if err != nil {
		return nil, err
	}
	sortClause, err := l.sorts.Resolve(l.entity, q.SortBy, q.SortOrder)
	if err != nil {
		return nil, err
	}

	total, err := l.source.Count(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("%w: count %s: %w", ErrCatalogUnavailable, l.entity, err)
	}

	page := Paginate(q.Page, q.Limit, total)

	items := []T{}
	if page.InRange() && int64(page.Offset) < total {
		rows, err := l.source.Fetch(ctx, filter, sortClause, page.Window())
		if err != nil {
			return nil, fmt.Errorf("%w: fetch %s: %w", ErrCatalogUnavailable, l.entity, err)
		}
		if len(rows) > page.Limit {
			rows = rows[:page.Limit]
		}
		if rows != nil {
			items = rows
		}
	}

	return &PageResult[T]{
		Items: items,
		Pagination: Pagination{
			Page:       page.Number,
			Limit:      page.Limit,
			Total:      total,
			TotalPages: page.TotalPages,
			HasNext:    page.HasNext,
			HasPrev:    page.HasPrev,
		},
	}, nil
}
