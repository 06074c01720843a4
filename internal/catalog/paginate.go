package catalog

import "math"

// Window is the offset/limit slice a data query fetches.
type Window struct {
	Offset int
	Limit  int
}

// Page is the arithmetic result of Paginate.
type Page struct {
	Number     int
	Offset     int
	Limit      int
	TotalPages int
	HasNext    bool
	HasPrev    bool
}

// Window returns the slice of the ordered result set this page covers.
func (p Page) Window() Window {
	return Window{Offset: p.Offset, Limit: p.Limit}
}

// Paginate computes the page window. page is clamped to >= 1 and limit to
// [1, MaxLimit], so the offset is never negative and there is no division by
// zero. A page so large that its offset does not fit in an int gets the
// largest representable offset instead. An empty result has no pages and no
// neighbours regardless of page.
func Paginate(page, limit int, total int64) Page {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 1
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	if total < 0 {
		total = 0
	}

	p := Page{
		Number: page,
		Offset: offsetOf(page, limit),
		Limit:  limit,
	}
	if total == 0 {
		return p
	}
	p.TotalPages = int((total + int64(limit) - 1) / int64(limit))
	p.HasNext = page < p.TotalPages
	p.HasPrev = page > 1
	return p
}

// offsetOf returns (page-1)*limit, saturating at the last multiple of limit
// an int can hold. page and limit are already clamped to >= 1.
func offsetOf(page, limit int) int {
	if page-1 > math.MaxInt/limit {
		return math.MaxInt / limit * limit
	}
	return (page - 1) * limit
}

// InRange reports whether the page has rows to fetch.
func (p Page) InRange() bool { return p.Number <= p.TotalPages }
