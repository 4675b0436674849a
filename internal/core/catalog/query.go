package catalog

import (
	"cmp"
	"slices"
	"strings"

	"github.com/niksmo/storefront/internal/core/domain"
)

// Query derives the visible product list. Filters run in a fixed order,
// each narrowing the previous result: category, benefit tags, search.
// The sort is stable, so catalog order breaks ties.
//
// The products slice is never modified.
func Query(products []domain.Product, params domain.QueryParams) []domain.Product {
	visible := cloneProducts(products)

	if params.Category != "" {
		visible = slices.DeleteFunc(visible, func(p domain.Product) bool {
			return p.Category != params.Category
		})
	}

	if len(params.BenefitTags) != 0 {
		visible = slices.DeleteFunc(visible, func(p domain.Product) bool {
			return !hasAnyBenefit(p, params.BenefitTags)
		})
	}

	if params.SearchQuery != "" {
		query := strings.ToLower(params.SearchQuery)
		visible = slices.DeleteFunc(visible, func(p domain.Product) bool {
			return !matchesSearch(p, query)
		})
	}

	slices.SortStableFunc(visible, comparator(params.Sort))
	return visible
}

func hasAnyBenefit(p domain.Product, tags []string) bool {
	for _, tag := range tags {
		if p.HasBenefit(tag) {
			return true
		}
	}
	return false
}

// matchesSearch expects a lower-cased query.
func matchesSearch(p domain.Product, query string) bool {
	if containsFold(p.Name, query) || containsFold(p.Description, query) {
		return true
	}
	for _, b := range p.Benefits {
		if containsFold(b, query) {
			return true
		}
	}
	return p.Sourcing != "" && containsFold(p.Sourcing, query)
}

func containsFold(s, lowerSubstr string) bool {
	return strings.Contains(strings.ToLower(s), lowerSubstr)
}

// comparator falls back to featured order for an unset sort key.
func comparator(key domain.SortKey) func(a, b domain.Product) int {
	switch key {
	case domain.SortPriceAsc:
		return func(a, b domain.Product) int {
			return a.Price.Cmp(b.Price)
		}
	case domain.SortPriceDesc:
		return func(a, b domain.Product) int {
			return b.Price.Cmp(a.Price)
		}
	case domain.SortRating:
		return func(a, b domain.Product) int {
			return cmp.Compare(b.Rating, a.Rating)
		}
	default:
		return func(a, b domain.Product) int {
			return cmp.Compare(featuredRank(a), featuredRank(b))
		}
	}
}

func featuredRank(p domain.Product) int {
	if p.Featured {
		return 0
	}
	return 1
}
