package domain

import (
	"errors"
	"fmt"
)

var ErrUnknownSortKey = errors.New("unknown sort key")

type SortKey string

const (
	SortFeatured  SortKey = "featured"
	SortPriceAsc  SortKey = "price-asc"
	SortPriceDesc SortKey = "price-desc"
	SortRating    SortKey = "rating"
)

// ParseSortKey maps an empty string to [SortFeatured].
func ParseSortKey(s string) (SortKey, error) {
	switch k := SortKey(s); k {
	case "":
		return SortFeatured, nil
	case SortFeatured, SortPriceAsc, SortPriceDesc, SortRating:
		return k, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownSortKey, s)
}

type QueryParams struct {
	Category    string
	BenefitTags []string
	SearchQuery string
	Sort        SortKey
}

// HasActiveFilters reports whether any filter stage narrows the catalog.
// Sorting alone is not a filter.
func (q QueryParams) HasActiveFilters() bool {
	return q.Category != "" || len(q.BenefitTags) != 0 || q.SearchQuery != ""
}

// Reset returns the default parameters.
func (QueryParams) Reset() QueryParams {
	return QueryParams{Sort: SortFeatured}
}
