package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"

	"github.com/iliyamo/cinema-club/internal/catalog"
	"github.com/iliyamo/cinema-club/internal/pkg/query"
)

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// columns maps the logical catalog fields of one table onto SQL.
//
//	filter – column a predicate on the field compares against.
//	order  – expression the field sorts by; text sorts case-insensitively.
//	id     – primary key, appended to every ORDER BY as the tiebreaker.
type columns struct {
	filter map[string]string
	order  map[string]string
	id     string
}

// source is a catalog.Source over one table (plus its joins). Count and
// Fetch start from the same base statement and the same compiled WHERE
// conditions, so a window is always a slice of what was counted.
type source[T any] struct {
	db       *sql.DB
	entities []catalog.EntityType
	base     *query.Builder
	cols     columns
	scan     func(rowScanner) (T, error)
}

// Count returns the number of rows matching f.
func (s *source[T]) Count(ctx context.Context, f catalog.Filter) (int64, error) {
	conds, err := s.compile(f)
	if err != nil {
		return 0, err
	}
	stmt := s.base.Where(conds...).Count().Build()

	var total int64
	if err := s.db.QueryRowContext(ctx, stmt.SQL, stmt.Args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

// Fetch returns the window w of the rows matching f ordered by sc.
func (s *source[T]) Fetch(ctx context.Context, f catalog.Filter, sc catalog.SortClause, w catalog.Window) ([]T, error) {
	conds, err := s.compile(f)
	if err != nil {
		return nil, err
	}
	expr, ok := s.cols.order[sc.Field]
	if !ok {
		return nil, fmt.Errorf("%w: sort field %q", ErrUnsupportedFilter, sc.Field)
	}
	dir := query.Asc
	if sc.Direction == catalog.Desc {
		dir = query.Desc
	}

	stmt := s.base.Where(conds...).
		OrderBy(expr, dir).
		OrderBy(s.cols.id, query.Asc).
		Limit(int64(w.Limit)).
		Offset(int64(w.Offset)).
		Build()

	rows, err := s.db.QueryContext(ctx, stmt.SQL, stmt.Args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]T, 0, w.Limit)
	for rows.Next() {
		item, err := s.scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// get loads a single row by primary key.
func (s *source[T]) get(ctx context.Context, id uint64) (T, error) {
	stmt := s.base.Where(query.Eq(s.cols.id, id)).Build()
	item, err := s.scan(s.db.QueryRowContext(ctx, stmt.SQL, stmt.Args...))
	if errors.Is(err, sql.ErrNoRows) {
		var zero T
		return zero, ErrNotFound
	}
	return item, err
}

// compile renders the typed predicates of f as SQL conditions. Operands
// always travel as bound arguments.
func (s *source[T]) compile(f catalog.Filter) ([]query.Condition, error) {
	if !slices.Contains(s.entities, f.Entity) {
		return nil, fmt.Errorf("%w: entity %q", ErrUnsupportedFilter, f.Entity)
	}

	conds := make([]query.Condition, 0, len(f.Predicates))
	for _, p := range f.Predicates {
		col, ok := s.cols.filter[p.Field]
		if !ok {
			return nil, fmt.Errorf("%w: field %q", ErrUnsupportedFilter, p.Field)
		}
		switch p.Op {
		case catalog.OpEquals:
			conds = append(conds, query.Eq(lower(col), p.Value))
		case catalog.OpMatchesSubstring:
			term, _ := p.Value.(string)
			conds = append(conds, query.Contains(col, term))
		case catalog.OpInSet:
			vals := make([]any, len(p.Values))
			for i, v := range p.Values {
				vals[i] = v
			}
			conds = append(conds, query.In(lower(col), vals...))
		case catalog.OpBefore:
			conds = append(conds, query.Lt(col, p.Value))
		case catalog.OpAtOrAfter:
			conds = append(conds, query.Gte(col, p.Value))
		default:
			return nil, fmt.Errorf("%w: operator %s", ErrUnsupportedFilter, p.Op)
		}
	}
	return conds, nil
}

func lower(col string) string { return "LOWER(" + col + ")" }
