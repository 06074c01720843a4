package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/cinema-club/internal/catalog"
	"github.com/iliyamo/cinema-club/internal/model"
	"github.com/iliyamo/cinema-club/internal/pkg/query"
)

// VenueRepo reads venues. Only public fields are selected.
type VenueRepo struct {
	*source[model.Venue]
}

// NewVenueRepo constructs a VenueRepo with the provided DB handle.
func NewVenueRepo(db *sql.DB) *VenueRepo {
	return &VenueRepo{source: &source[model.Venue]{
		db:       db,
		entities: []catalog.EntityType{catalog.Venues},
		base:     query.From("venues").Select("id", "name", "slug", "city", "address"),
		cols: columns{
			filter: map[string]string{"name": "name", "city": "city"},
			order:  map[string]string{"name": "LOWER(name)", "city": "LOWER(city)"},
			id:     "id",
		},
		scan: func(sc rowScanner) (model.Venue, error) {
			var v model.Venue
			err := sc.Scan(&v.ID, &v.Name, &v.Slug, &v.City, &v.Address)
			return v, err
		},
	}}
}

// GetByID fetches a venue by its id. It returns ErrNotFound if no row is
// found.
func (r *VenueRepo) GetByID(ctx context.Context, id uint64) (model.Venue, error) {
	return r.get(ctx, id)
}
