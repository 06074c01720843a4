package catalog

import "strings"

// EntityType names one catalog collection sharing the generic list contract.
type EntityType string

const (
	Screenings EntityType = "screenings" // upcoming screenings
	Archive    EntityType = "archive"    // past screenings
	People     EntityType = "people"
	Venues     EntityType = "venues"
)

type filterKind int

const (
	filterEquals filterKind = iota + 1
	filterInSet
)

// entitySpec is the per-entity policy: which field free-text search targets,
// which extra filters are accepted, and which sort keys are whitelisted.
type entitySpec struct {
	searchField string
	filters     map[string]filterKind
	sortFields  []string
	defaultSort SortClause
}

var screeningSpec = entitySpec{
	searchField: "title",
	filters: map[string]filterKind{
		"venue":  filterEquals,
		"format": filterInSet,
	},
	sortFields:  []string{"datetime", "title", "venue", "attendance"},
	defaultSort: SortClause{Field: "datetime", Direction: Desc},
}

var specs = map[EntityType]entitySpec{
	Screenings: screeningSpec,
	Archive:    screeningSpec,
	People: {
		searchField: "name",
		filters:     map[string]filterKind{"role": filterEquals},
		sortFields:  []string{"name", "role"},
		defaultSort: SortClause{Field: "name", Direction: Asc},
	},
	Venues: {
		searchField: "name",
		filters:     map[string]filterKind{"city": filterEquals},
		sortFields:  []string{"name", "city"},
		defaultSort: SortClause{Field: "name", Direction: Asc},
	},
}

// ParseEntity resolves a path segment such as "people" to an EntityType.
func ParseEntity(s string) (EntityType, error) {
	e := EntityType(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := specs[e]; !ok {
		return "", ErrInvalidFilter
	}
	return e, nil
}

// FilterKeys lists the entity-specific query parameters the FilterBuilder
// understands for e. It returns nil for unknown entities.
func FilterKeys(e EntityType) []string {
	spec, ok := specs[e]
	if !ok {
		return nil
	}
	keys := make([]string, 0, len(spec.filters))
	for k := range spec.filters {
		keys = append(keys, k)
	}
	return keys
}
