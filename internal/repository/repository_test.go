package repository

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/iliyamo/cinema-club/internal/database/dbtest"
)

var testNow = time.Date(2026, 3, 1, 18, 0, 0, 0, time.UTC)

func seedVenue(t *testing.T, db *sql.DB, id int, name, slug, city string) {
	t.Helper()
	_, err := db.Exec(`INSERT INTO venues (id, name, slug, city, address) VALUES (?, ?, ?, ?, '')`,
		id, name, slug, city)
	require.NoError(t, err)
}

type screeningSeed struct {
	id         int
	title      string
	startsAt   time.Time
	venueID    any
	format     string
	attendance int
	tmdbID     any
	basePrice  string
}

func seedScreening(t *testing.T, db *sql.DB, s screeningSeed) {
	t.Helper()
	if s.basePrice == "" {
		s.basePrice = "12.50"
	}
	_, err := db.Exec(`INSERT INTO screenings (id, title, slug, starts_at, venue_id, format, attendance, tmdb_id, base_price)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.id, s.title, fmt.Sprintf("screening-%d", s.id), s.startsAt.UTC(), s.venueID, s.format,
		s.attendance, s.tmdbID, s.basePrice)
	require.NoError(t, err)
}

func seedPerson(t *testing.T, db *sql.DB, id int, name, role string) {
	t.Helper()
	_, err := db.Exec(`INSERT INTO people (id, name, role) VALUES (?, ?, ?)`, id, name, role)
	require.NoError(t, err)
}

func seedMember(t *testing.T, db *sql.DB, id int, name, tier string) {
	t.Helper()
	_, err := db.Exec(`INSERT INTO members (id, email, name, tier, created_at) VALUES (?, ?, ?, ?, ?)`,
		id, fmt.Sprintf("member%d@example.org", id), name, tier, testNow)
	require.NoError(t, err)
}

// seedArchive inserts n past screenings titled "Film 01".."Film n", all at
// the given venue, one day apart going back from testNow.
func seedArchive(t *testing.T, db *sql.DB, n int, venueID int) {
	t.Helper()
	for i := 1; i <= n; i++ {
		seedScreening(t, db, screeningSeed{
			id:         i,
			title:      fmt.Sprintf("Film %02d", i),
			startsAt:   testNow.Add(-time.Duration(i) * 24 * time.Hour),
			venueID:    venueID,
			format:     "35mm",
			attendance: i * 3,
		})
	}
}

func newDB(t *testing.T) *sql.DB {
	t.Helper()
	return dbtest.NewTestDB(t)
}

func ctx() context.Context { return context.Background() }
