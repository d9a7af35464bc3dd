package models

const (
	DefaultPageSize    = 12
	MaxPageSize        = 100
	DefaultSuggestions = 10
	MaxSuggestions     = 25
	DefaultFeatured    = 8
	MaxFeatured        = 50
)

// ProductFilter carries every optional catalog filter plus pagination.
// Nil pointers mean "filter not applied"; a search term shorter than two
// characters is treated the same way.
type ProductFilter struct {
	CategoryID *int64
	MinPrice   *float64
	MaxPrice   *float64
	Search     string
	SortBy     string
	SortOrder  string
	Page       int
	Limit      int
}

// Normalize floors the page number, clamps the page size and drops an
// unusably short search term. Safe to call on a zero value.
func (f *ProductFilter) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}

	if f.Limit < 1 {
		f.Limit = DefaultPageSize
	}

	if f.Limit > MaxPageSize {
		f.Limit = MaxPageSize
	}

	if len(f.Search) < 2 {
		f.Search = ""
	}
}

func (f *ProductFilter) Offset() int {
	return (f.Page - 1) * f.Limit
}
