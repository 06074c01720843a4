package catalog

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaginate_Properties(t *testing.T) {
	for page := 1; page <= 6; page++ {
		for limit := 1; limit <= MaxLimit; limit++ {
			for _, total := range []int64{0, 1, 11, 12, 13, 25, 49, 50, 51, 137} {
				p := Paginate(page, limit, total)

				wantPages := int((total + int64(limit) - 1) / int64(limit))
				assert.Equal(t, (page-1)*limit, p.Offset)
				assert.Equal(t, wantPages, p.TotalPages)
				assert.Equal(t, page < wantPages, p.HasNext, "page=%d limit=%d total=%d", page, limit, total)
				assert.Equal(t, total > 0 && page > 1, p.HasPrev, "page=%d limit=%d total=%d", page, limit, total)
			}
		}
	}
}

func TestPaginate_EmptyResult(t *testing.T) {
	for _, page := range []int{1, 2, 40} {
		p := Paginate(page, 12, 0)
		assert.Zero(t, p.TotalPages)
		assert.False(t, p.HasNext)
		assert.False(t, p.HasPrev)
	}
}

func TestPaginate_ClampsInputs(t *testing.T) {
	p := Paginate(-3, 0, 10)
	assert.Equal(t, 1, p.Number)
	assert.Equal(t, 0, p.Offset)
	assert.Equal(t, 1, p.Limit)
	assert.Equal(t, 10, p.TotalPages)

	p = Paginate(1, 500, 120)
	assert.Equal(t, MaxLimit, p.Limit)
	assert.Equal(t, 3, p.TotalPages)
}

func TestPaginate_HugePageDoesNotOverflow(t *testing.T) {
	p := Paginate(math.MaxInt, 50, 25)

	assert.Equal(t, math.MaxInt, p.Number)
	assert.GreaterOrEqual(t, p.Offset, 0)
	assert.Zero(t, p.Offset%50)
	assert.Equal(t, 1, p.TotalPages)
	assert.False(t, p.HasNext)
	assert.True(t, p.HasPrev)
	assert.False(t, p.InRange())

	p = Paginate(math.MaxInt/12+1, 12, 25)
	assert.Equal(t, math.MaxInt/12*12, p.Offset)

	assert.True(t, Paginate(3, 12, 25).InRange())
	assert.False(t, Paginate(4, 12, 25).InRange())
}

func TestPaginate_ArchiveScenarioWindow(t *testing.T) {
	p := Paginate(2, 12, 25)

	assert.Equal(t, Window{Offset: 12, Limit: 12}, p.Window())
	assert.Equal(t, 3, p.TotalPages)
	assert.True(t, p.HasNext)
	assert.True(t, p.HasPrev)
}

func TestListQuery_Normalize(t *testing.T) {
	q := ListQuery{}.Normalize()
	assert.Equal(t, 1, q.Page)
	assert.Equal(t, DefaultLimit, q.Limit)

	q = ListQuery{Page: -1, Limit: 99}.Normalize()
	assert.Equal(t, 1, q.Page)
	assert.Equal(t, MaxLimit, q.Limit)

	q = ListQuery{Page: 3, Limit: -5}.Normalize()
	assert.Equal(t, 3, q.Page)
	assert.Equal(t, 1, q.Limit)
}
