package catalog

import (
	"fmt"
	"slices"
	"strings"
)

// Direction is an ordering direction.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// SortClause is a whitelisted logical sort key plus direction.
type SortClause struct {
	Field     string
	Direction Direction
}

// SortResolver maps user supplied sort parameters onto the per-entity
// whitelist. It never rejects a stale or hand-edited URL: unknown keys fall
// back to the entity default, unknown directions to the default direction.
type SortResolver struct{}

// Resolve returns the clause for entity. Only an unknown entity is an error.
func (SortResolver) Resolve(entity EntityType, sortBy, sortOrder string) (SortClause, error) {
	spec, ok := specs[entity]
	if !ok {
		return SortClause{}, fmt.Errorf("%w: %q", ErrInvalidFilter, entity)
	}

	field := strings.ToLower(strings.TrimSpace(sortBy))
	if !slices.Contains(spec.sortFields, field) {
		return spec.defaultSort, nil
	}

	dir := Direction(strings.ToLower(strings.TrimSpace(sortOrder)))
	if dir != Asc && dir != Desc {
		dir = spec.defaultSort.Direction
	}
	return SortClause{Field: field, Direction: dir}, nil
}
