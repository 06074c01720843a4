package catalog

import (
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/iliyamo/cinema-club/internal/pkg/clock"
)

const (
	maxTermRunes = 100
	maxSetValues = 10
)

// Op is the kind of comparison a Predicate performs.
type Op int

const (
	OpEquals Op = iota + 1
	OpMatchesSubstring
	OpInSet
	OpBefore
	OpAtOrAfter
)

func (o Op) String() string {
	switch o {
	case OpEquals:
		return "equals"
	case OpMatchesSubstring:
		return "matches"
	case OpInSet:
		return "in"
	case OpBefore:
		return "before"
	case OpAtOrAfter:
		return "at_or_after"
	}
	return fmt.Sprintf("op(%d)", int(o))
}

// Predicate is one typed condition on a logical field. Store adapters compile
// it into their own query language and are responsible for escaping operands.
type Predicate struct {
	Field  string
	Op     Op
	Value  any
	Values []string
}

func Equals(field string, value any) Predicate {
	return Predicate{Field: field, Op: OpEquals, Value: value}
}

func MatchesSubstring(field, term string) Predicate {
	return Predicate{Field: field, Op: OpMatchesSubstring, Value: term}
}

func InSet(field string, values []string) Predicate {
	return Predicate{Field: field, Op: OpInSet, Values: values}
}

func Before(field string, t time.Time) Predicate {
	return Predicate{Field: field, Op: OpBefore, Value: t}
}

func AtOrAfter(field string, t time.Time) Predicate {
	return Predicate{Field: field, Op: OpAtOrAfter, Value: t}
}

// Filter is the predicate expression handed verbatim to a Source. Entity is
// the mandatory type predicate; Predicates are ANDed onto it.
type Filter struct {
	Entity     EntityType
	Predicates []Predicate
}

// FilterBuilder turns a normalized ListQuery into a Filter.
type FilterBuilder struct {
	clock clock.Clock
}

// NewFilterBuilder returns a builder that uses c for "now" in the
// upcoming/archive predicates.
func NewFilterBuilder(c clock.Clock) *FilterBuilder {
	if c == nil {
		c = clock.NewRealClock()
	}
	return &FilterBuilder{clock: c}
}

// Build composes the filter for entity. Absent or blank parameters emit no
// predicate; unknown filter keys are ignored.
func (b *FilterBuilder) Build(entity EntityType, q ListQuery) (Filter, error) {
	spec, ok := specs[entity]
	if !ok {
		return Filter{}, fmt.Errorf("%w: %q", ErrInvalidFilter, entity)
	}

	f := Filter{Entity: entity}
	switch entity {
	case Screenings:
		f.Predicates = append(f.Predicates, AtOrAfter("datetime", b.clock.Now()))
	case Archive:
		f.Predicates = append(f.Predicates, Before("datetime", b.clock.Now()))
	}

	if term := sanitizeTerm(q.Search); term != "" {
		f.Predicates = append(f.Predicates, MatchesSubstring(spec.searchField, term))
	}

	// map iteration order is random; sort so the same query always yields
	// the same Filter.
	keys := make([]string, 0, len(q.Filters))
	for k := range q.Filters {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		kind, ok := spec.filters[key]
		if !ok {
			continue
		}
		raw := q.Filters[key]
		switch kind {
		case filterEquals:
			if v := strings.ToLower(sanitizeTerm(raw)); v != "" {
				f.Predicates = append(f.Predicates, Equals(key, v))
			}
		case filterInSet:
			if vs := splitSet(raw); len(vs) > 0 {
				f.Predicates = append(f.Predicates, InSet(key, vs))
			}
		}
	}
	return f, nil
}

// sanitizeTerm trims s, drops control characters and caps its length.
func sanitizeTerm(s string) string {
	s = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
	s = strings.TrimSpace(s)
	if r := []rune(s); len(r) > maxTermRunes {
		s = strings.TrimSpace(string(r[:maxTermRunes]))
	}
	return s
}

// splitSet parses a comma separated list into distinct lower-case values.
func splitSet(raw string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, part := range strings.Split(raw, ",") {
		v := strings.ToLower(sanitizeTerm(part))
		if v == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
		if len(out) == maxSetValues {
			break
		}
	}
	return out
}
