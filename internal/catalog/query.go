package catalog

const (
	DefaultLimit = 12
	MaxLimit     = 50
)

// ListQuery is the request-scoped input of a catalog list call.
type ListQuery struct {
	Page      int
	Limit     int
	Search    string
	SortBy    string
	SortOrder string
	Filters   map[string]string
}

// Normalize applies defaults and clamps page and limit into range.
func (q ListQuery) Normalize() ListQuery {
	if q.Page < 1 {
		q.Page = 1
	}
	switch {
	case q.Limit == 0:
		q.Limit = DefaultLimit
	case q.Limit < 1:
		q.Limit = 1
	case q.Limit > MaxLimit:
		q.Limit = MaxLimit
	}
	return q
}
