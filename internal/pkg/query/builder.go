package query

import (
	"fmt"
	"strings"
)

// Direction represents ORDER BY direction.
type Direction int

const (
	// Asc represents ascending order.
	Asc Direction = iota
	// Desc represents descending order.
	Desc
)

// Statement is a rendered query ready for database/sql.
type Statement struct {
	SQL  string
	Args []any
}

type orderTerm struct {
	column    string
	direction Direction
}

// Builder constructs SQL SELECT queries with "?" placeholders.
// Every method returns a new Builder so a base query can be shared between a
// count statement and a data statement without one leaking into the other.
type Builder struct {
	table        string
	joins        []string
	selectCols   []string
	whereClauses []Condition
	orderBy      []orderTerm
	limitVal     int64
	offsetVal    int64
}

// From creates a new Builder for the specified table expression.
func From(table string) *Builder {
	return &Builder{table: table}
}

// Join appends a raw JOIN clause, e.g. "LEFT JOIN venues v ON v.id = s.venue_id".
func (b *Builder) Join(clause string) *Builder {
	nb := b.clone()
	nb.joins = append(nb.joins, clause)
	return nb
}

// Select specifies the columns to retrieve.
func (b *Builder) Select(columns ...string) *Builder {
	nb := b.clone()
	nb.selectCols = append(nb.selectCols, columns...)
	return nb
}

// Where adds a WHERE condition. Multiple calls are combined with AND.
func (b *Builder) Where(conditions ...Condition) *Builder {
	nb := b.clone()
	nb.whereClauses = append(nb.whereClauses, conditions...)
	return nb
}

// OrderBy appends an ordering term. Calling it again adds a secondary key.
func (b *Builder) OrderBy(column string, direction Direction) *Builder {
	nb := b.clone()
	nb.orderBy = append(nb.orderBy, orderTerm{column: column, direction: direction})
	return nb
}

// Limit sets the maximum number of rows to return.
func (b *Builder) Limit(limit int64) *Builder {
	nb := b.clone()
	nb.limitVal = limit
	return nb
}

// Offset sets the number of rows to skip. It only takes effect together with
// a limit.
func (b *Builder) Offset(offset int64) *Builder {
	nb := b.clone()
	nb.offsetVal = offset
	return nb
}

// Count returns a builder that generates COUNT(*) over the same FROM, JOIN and
// WHERE clauses, with ordering and pagination cleared.
func (b *Builder) Count() *Builder {
	nb := b.clone()
	nb.selectCols = []string{"COUNT(*)"}
	nb.orderBy = nil
	nb.limitVal = 0
	nb.offsetVal = 0
	return nb
}

// Build renders the statement.
func (b *Builder) Build() Statement {
	var sql strings.Builder
	var args []any

	sql.WriteString("SELECT ")
	if len(b.selectCols) == 0 {
		sql.WriteString("*")
	} else {
		sql.WriteString(strings.Join(b.selectCols, ", "))
	}

	sql.WriteString(" FROM ")
	sql.WriteString(b.table)

	for _, j := range b.joins {
		sql.WriteString(" ")
		sql.WriteString(j)
	}

	if len(b.whereClauses) > 0 {
		parts := make([]string, 0, len(b.whereClauses))
		for _, c := range b.whereClauses {
			fragment, condArgs := c.SQL()
			parts = append(parts, fragment)
			args = append(args, condArgs...)
		}
		sql.WriteString(" WHERE ")
		sql.WriteString(strings.Join(parts, " AND "))
	}

	if len(b.orderBy) > 0 {
		terms := make([]string, 0, len(b.orderBy))
		for _, t := range b.orderBy {
			dir := "ASC"
			if t.direction == Desc {
				dir = "DESC"
			}
			terms = append(terms, t.column+" "+dir)
		}
		sql.WriteString(" ORDER BY ")
		sql.WriteString(strings.Join(terms, ", "))
	}

	if b.limitVal > 0 {
		sql.WriteString(" LIMIT ?")
		args = append(args, b.limitVal)
		if b.offsetVal > 0 {
			sql.WriteString(" OFFSET ?")
			args = append(args, b.offsetVal)
		}
	}

	return Statement{SQL: sql.String(), Args: args}
}

func (b *Builder) clone() *Builder {
	nb := &Builder{
		table:     b.table,
		limitVal:  b.limitVal,
		offsetVal: b.offsetVal,
	}
	nb.joins = append([]string(nil), b.joins...)
	nb.selectCols = append([]string(nil), b.selectCols...)
	nb.whereClauses = append([]Condition(nil), b.whereClauses...)
	nb.orderBy = append([]orderTerm(nil), b.orderBy...)
	return nb
}

// String returns a human-readable representation for debugging.
func (b *Builder) String() string {
	stmt := b.Build()
	return fmt.Sprintf("SQL: %s\nArgs: %v", stmt.SQL, stmt.Args)
}
