package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSortResolver_Whitelisted(t *testing.T) {
	var r SortResolver

	tests := []struct {
		entity EntityType
		by     string
		order  string
		want   SortClause
	}{
		{Screenings, "title", "asc", SortClause{"title", Asc}},
		{Archive, "VENUE", "DESC", SortClause{"venue", Desc}},
		{Screenings, "attendance", "", SortClause{"attendance", Desc}},
		{People, "role", "desc", SortClause{"role", Desc}},
		{Venues, "city", "sideways", SortClause{"city", Asc}},
	}
	for _, tt := range tests {
		got, err := r.Resolve(tt.entity, tt.by, tt.order)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "%s %s %s", tt.entity, tt.by, tt.order)
	}
}

func TestSortResolver_UnknownKeyFallsBackToDefault(t *testing.T) {
	var r SortResolver

	for _, by := range []string{"", "price", "title; DROP TABLE screenings", "s.id"} {
		got, err := r.Resolve(Screenings, by, "asc")
		require.NoError(t, err)
		assert.Equal(t, SortClause{"datetime", Desc}, got)

		got, err = r.Resolve(Archive, by, "asc")
		require.NoError(t, err)
		assert.Equal(t, SortClause{"datetime", Desc}, got)

		got, err = r.Resolve(People, by, "desc")
		require.NoError(t, err)
		assert.Equal(t, SortClause{"name", Asc}, got)

		got, err = r.Resolve(Venues, by, "desc")
		require.NoError(t, err)
		assert.Equal(t, SortClause{"name", Asc}, got)
	}
}

func TestSortResolver_UnknownEntity(t *testing.T) {
	_, err := SortResolver{}.Resolve("films", "title", "asc")
	assert.ErrorIs(t, err, ErrInvalidFilter)
	assert.ErrorIs(t, err, ErrValidation)
}
