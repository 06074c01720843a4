package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/cinema-club/internal/model"
)

type MemberRepo struct{ DB *sql.DB }

func NewMemberRepo(db *sql.DB) *MemberRepo { return &MemberRepo{DB: db} }

// GetByID fetches a member by id. It returns ErrNotFound if no row is found.
func (r *MemberRepo) GetByID(ctx context.Context, id uint64) (*model.Member, error) {
	var m model.Member
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,email,name,tier,created_at FROM members WHERE id=? LIMIT 1",
		id).Scan(&m.ID, &m.Email, &m.Name, &m.Tier, &m.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &m, nil
}
