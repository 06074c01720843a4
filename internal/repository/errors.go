// Package repository holds the SQL data access for the catalog and the
// ticketing flow. The sentinel values below let the service and handler
// layers tell failure scenarios apart without inspecting driver errors.
package repository

import "errors"

// ErrNotFound is returned when a lookup by id matches no row.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when a conditional update matched the row but
// its current state did not allow the change, e.g. cancelling a ticket
// that is already cancelled.
var ErrConflict = errors.New("conflict")

// ErrUnsupportedFilter is returned when a catalog filter names an entity or
// field that the source cannot compile into SQL.
var ErrUnsupportedFilter = errors.New("unsupported filter")
