package service

const (
	DefaultPageSize = 6
	MaxPageSize     = 20
	// MaxPage keeps Offset far from int overflow.
	MaxPage = 1 << 20
)

// Pagination selects one page of a listing. Page is 1-based.
type Pagination struct {
	Page  int
	Limit int
}

// Normalize clamps the page to 1..MaxPage and the limit to 1..MaxPageSize,
// defaulting to DefaultPageSize.
func (p Pagination) Normalize() Pagination {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Page > MaxPage {
		p.Page = MaxPage
	}
	if p.Limit < 1 {
		p.Limit = DefaultPageSize
	}
	if p.Limit > MaxPageSize {
		p.Limit = MaxPageSize
	}
	return p
}

func (p Pagination) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Page is one page of results plus the total size of the listing.
type Page[T any] struct {
	Count      int64
	Results    []T
	Pagination Pagination
}

// HasNext reports whether a page follows this one.
func (p *Page[T]) HasNext() bool {
	return int64(p.Pagination.Page*p.Pagination.Limit) < p.Count
}

// HasPrevious reports whether a page precedes this one.
func (p *Page[T]) HasPrevious() bool {
	return p.Pagination.Page > 1
}
