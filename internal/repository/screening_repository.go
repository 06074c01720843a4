package repository

import (
	"context"      // context for controlling query lifetime
	"database/sql" // sql provides DB abstraction
	"errors"

	"github.com/iliyamo/cinema-club/internal/catalog"
	"github.com/iliyamo/cinema-club/internal/model"
	"github.com/iliyamo/cinema-club/internal/pkg/query"
)

// ScreeningRepo reads screenings. The same table backs both the upcoming
// listing and the archive; the datetime predicate built by the catalog
// layer is what tells them apart.
type ScreeningRepo struct {
	*source[model.ScreeningRow]
	db *sql.DB
}

// NewScreeningRepo returns a ScreeningRepo bound to db.
func NewScreeningRepo(db *sql.DB) *ScreeningRepo {
	return &ScreeningRepo{
		db: db,
		source: &source[model.ScreeningRow]{
			db:       db,
			entities: []catalog.EntityType{catalog.Screenings, catalog.Archive},
			// venue is followed one hop; a screening without a venue still lists
			base: query.From("screenings s").
				Join("LEFT JOIN venues v ON v.id = s.venue_id").
				Select("s.id", "s.title", "s.slug", "s.starts_at", "s.format", "s.attendance",
					"s.tmdb_id", "v.id", "v.name", "v.slug"),
			cols: columns{
				filter: map[string]string{
					"datetime": "s.starts_at",
					"title":    "s.title",
					"venue":    "v.slug",
					"format":   "s.format",
				},
				order: map[string]string{
					"datetime":   "s.starts_at",
					"title":      "LOWER(s.title)",
					"venue":      "LOWER(v.name)",
					"attendance": "s.attendance",
				},
				id: "s.id",
			},
			scan: scanScreeningRow,
		},
	}
}

func scanScreeningRow(sc rowScanner) (model.ScreeningRow, error) {
	var (
		row       model.ScreeningRow
		tmdbID    sql.NullInt64
		venueID   sql.NullInt64
		venueName sql.NullString
		venueSlug sql.NullString
	)
	if err := sc.Scan(&row.ID, &row.Title, &row.Slug, &row.Datetime, &row.Format, &row.Attendance,
		&tmdbID, &venueID, &venueName, &venueSlug); err != nil {
		return row, err
	}
	row.Datetime = row.Datetime.UTC()
	if tmdbID.Valid {
		id := tmdbID.Int64
		row.TMDBID = &id
	}
	if venueID.Valid {
		row.Venue = &model.VenueRef{ID: uint64(venueID.Int64), Name: venueName.String, Slug: venueSlug.String}
	}
	return row, nil
}

// GetRow returns the catalog projection of one screening, past or upcoming.
func (r *ScreeningRepo) GetRow(ctx context.Context, id uint64) (model.ScreeningRow, error) {
	return r.get(ctx, id)
}

// GetByID loads the full screening record including its base price. It
// returns ErrNotFound if no row matches.
func (r *ScreeningRepo) GetByID(ctx context.Context, id uint64) (*model.Screening, error) {
	const q = `SELECT id, title, slug, starts_at, venue_id, format, attendance, tmdb_id, base_price
	           FROM screenings WHERE id = ?`
	var (
		s       model.Screening
		venueID sql.NullInt64
		tmdbID  sql.NullInt64
	)
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&s.ID, &s.Title, &s.Slug, &s.StartsAt, &venueID, &s.Format, &s.Attendance, &tmdbID, &s.BasePrice,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	s.StartsAt = s.StartsAt.UTC()
	if venueID.Valid {
		v := uint64(venueID.Int64)
		s.VenueID = &v
	}
	if tmdbID.Valid {
		t := tmdbID.Int64
		s.TMDBID = &t
	}
	return &s, nil
}
