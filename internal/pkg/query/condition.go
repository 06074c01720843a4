package query

import (
	"fmt"
	"strings"
)

// LikeEscape is the escape character used by Contains. It is neither a SQL
// string metacharacter nor a backslash, so the same fragment is valid in both
// MySQL and SQLite.
const LikeEscape = '!'

// Condition represents a WHERE clause condition. Implementations render a SQL
// fragment using positional "?" placeholders and return the arguments in
// placeholder order.
type Condition interface {
	SQL() (string, []any)
}

type compareCondition struct {
	field string
	op    string
	value any
}

// Eq creates a WHERE condition for equality comparison.
// Example: Eq("v.slug", "main-hall") generates "v.slug = ?"
func Eq(field string, value any) Condition {
	return &compareCondition{field: field, op: "=", value: value}
}

// Lt creates a strict less-than comparison.
func Lt(field string, value any) Condition {
	return &compareCondition{field: field, op: "<", value: value}
}

// Gte creates a greater-than-or-equal comparison.
func Gte(field string, value any) Condition {
	return &compareCondition{field: field, op: ">=", value: value}
}

func (c *compareCondition) SQL() (string, []any) {
	return fmt.Sprintf("%s %s ?", c.field, c.op), []any{c.value}
}

type containsCondition struct {
	field string
	value string
}

// Contains creates a case-insensitive substring match. The operand is escaped
// here, at the boundary, so callers can pass user text as-is.
// Example: Contains("s.title", "50%") generates "LOWER(s.title) LIKE ? ESCAPE '!'"
// with the argument "%50!%%".
func Contains(field, value string) Condition {
	return &containsCondition{field: field, value: value}
}

func (c *containsCondition) SQL() (string, []any) {
	pattern := "%" + EscapeLike(strings.ToLower(c.value)) + "%"
	return fmt.Sprintf("LOWER(%s) LIKE ? ESCAPE '%c'", c.field, LikeEscape), []any{pattern}
}

type inCondition struct {
	field  string
	values []any
}

// In creates a set membership condition. An empty set matches nothing.
func In(field string, values ...any) Condition {
	return &inCondition{field: field, values: values}
}

func (c *inCondition) SQL() (string, []any) {
	if len(c.values) == 0 {
		return "1 = 0", nil
	}
	marks := strings.TrimSuffix(strings.Repeat("?, ", len(c.values)), ", ")
	args := make([]any, len(c.values))
	copy(args, c.values)
	return fmt.Sprintf("%s IN (%s)", c.field, marks), args
}

// EscapeLike neutralises LIKE wildcards in s so it only ever matches literally.
func EscapeLike(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch r {
		case LikeEscape, '%', '_':
			b.WriteRune(LikeEscape)
		}
		b.WriteRune(r)
	}
	return b.String()
}
