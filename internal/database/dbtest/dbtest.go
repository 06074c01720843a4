// Package dbtest provides an in-memory content store for repository and
// service tests.
package dbtest

import (
	"context"
	"database/sql"
	"testing"

	"github.com/iliyamo/cinema-club/internal/database"

	_ "modernc.org/sqlite"
)

// NewTestDB opens a private in-memory SQLite database with the schema
// applied. The connection pool is pinned to one connection because every
// new connection to ":memory:" would see an empty database.
func NewTestDB(t testing.TB) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	if err := database.Migrate(context.Background(), db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}
