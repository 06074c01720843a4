package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Screening is a scheduled showing of a film at a venue. The catalog reads
// it through ScreeningRow; the purchase flow reads it whole to obtain the
// base ticket price.
//
// Fields:
//
//	ID         – primary key identifier.
//	Title      – film title as displayed.
//	Slug       – URL-safe key.
//	StartsAt   – when the screening begins (UTC).
//	VenueID    – venue reference (nullable until a venue is assigned).
//	Format     – projection format, e.g. 35mm, 70mm, dcp.
//	Attendance – number of attendees recorded after the screening.
//	TMDBID     – external metadata id of the film (nullable).
//	BasePrice  – undiscounted price of one ticket.
type Screening struct {
	ID         uint64          // screenings.id
	Title      string          // screenings.title
	Slug       string          // screenings.slug
	StartsAt   time.Time       // screenings.starts_at
	VenueID    *uint64         // screenings.venue_id (nullable)
	Format     string          // screenings.format
	Attendance int             // screenings.attendance
	TMDBID     *int64          // screenings.tmdb_id (nullable)
	BasePrice  decimal.Decimal // screenings.base_price
}

// ScreeningRow is the list/detail projection of a screening with its venue
// name followed through the venue reference.
type ScreeningRow struct {
	ID         uint64    `json:"id"`
	Title      string    `json:"title"`
	Slug       string    `json:"slug"`
	Datetime   time.Time `json:"datetime"`
	Format     string    `json:"format"`
	Attendance int       `json:"attendance"`
	Venue      *VenueRef `json:"venue"`
	TMDBID     *int64    `json:"tmdbId,omitempty"`
}

// ExternalID reports the film's metadata id for enrichment.
func (r ScreeningRow) ExternalID() (int64, bool) {
	if r.TMDBID == nil {
		return 0, false
	}
	return *r.TMDBID, true
}
