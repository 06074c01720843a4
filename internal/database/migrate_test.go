package database_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iliyamo/cinema-club/internal/database"
	"github.com/iliyamo/cinema-club/internal/database/dbtest"
)

func TestMigrate_Idempotent(t *testing.T) {
	db := dbtest.NewTestDB(t)

	require.NoError(t, database.Migrate(context.Background(), db))

	for _, table := range []string{"venues", "screenings", "people", "members", "tickets"} {
		var n int
		require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM "+table).Scan(&n), table)
		require.Zero(t, n, table)
	}
}
