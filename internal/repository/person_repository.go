package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/cinema-club/internal/catalog"
	"github.com/iliyamo/cinema-club/internal/model"
	"github.com/iliyamo/cinema-club/internal/pkg/query"
)

// PersonRepo reads the people collection.
type PersonRepo struct {
	*source[model.Person]
}

func NewPersonRepo(db *sql.DB) *PersonRepo {
	return &PersonRepo{source: &source[model.Person]{
		db:       db,
		entities: []catalog.EntityType{catalog.People},
		base:     query.From("people p").Select("p.id", "p.name", "p.role", "p.bio", "p.tmdb_id"),
		cols: columns{
			filter: map[string]string{"name": "p.name", "role": "p.role"},
			order:  map[string]string{"name": "LOWER(p.name)", "role": "LOWER(p.role)"},
			id:     "p.id",
		},
		scan: func(sc rowScanner) (model.Person, error) {
			var (
				p      model.Person
				bio    sql.NullString
				tmdbID sql.NullInt64
			)
			if err := sc.Scan(&p.ID, &p.Name, &p.Role, &bio, &tmdbID); err != nil {
				return p, err
			}
			p.Bio = bio.String
			if tmdbID.Valid {
				id := tmdbID.Int64
				p.TMDBID = &id
			}
			return p, nil
		},
	}}
}

// GetByID returns ErrNotFound if no person has the given id.
func (r *PersonRepo) GetByID(ctx context.Context, id uint64) (model.Person, error) {
	return r.get(ctx, id)
}
