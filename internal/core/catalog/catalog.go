// Package catalog indexes the immutable product collection and derives the
// visible product list for a set of query parameters.
package catalog

import (
	"errors"
	"fmt"
	"slices"

	"github.com/niksmo/storefront/internal/core/domain"
)

const DefaultRelatedLimit = 4

var ErrInvalidCatalog = errors.New("invalid catalog")

// A Catalog is read-only after [New]. Accessors return copies.
type Catalog struct {
	categories []domain.Category
	products   []domain.Product
	byID       map[string]int
	categoryBy map[string]int
}

// New validates the records and builds the catalog.
func New(categories []domain.Category, products []domain.Product) (*Catalog, error) {
	const op = "catalog.New"

	c := &Catalog{
		categories: slices.Clone(categories),
		products:   make([]domain.Product, 0, len(products)),
		byID:       make(map[string]int, len(products)),
		categoryBy: make(map[string]int, len(categories)),
	}

	var errs []error

	for i, cat := range categories {
		if cat.ID == "" {
			errs = append(errs, fmt.Errorf("category #%d: empty id", i))
			continue
		}
		if _, ok := c.categoryBy[cat.ID]; ok {
			errs = append(errs, fmt.Errorf("category %q: duplicate id", cat.ID))
			continue
		}
		c.categoryBy[cat.ID] = i
	}

	for i, p := range products {
		if p.ID == "" {
			errs = append(errs, fmt.Errorf("product #%d: empty id", i))
			continue
		}
		if _, ok := c.byID[p.ID]; ok {
			errs = append(errs, fmt.Errorf("product %q: duplicate id", p.ID))
			continue
		}
		if err := validateProduct(p, c.categoryBy); err != nil {
			errs = append(errs, fmt.Errorf("product %q: %w", p.ID, err))
			continue
		}
		c.byID[p.ID] = len(c.products)
		c.products = append(c.products, p.Clone())
	}

	if len(errs) != 0 {
		return nil, fmt.Errorf(
			"%s: %w: %w", op, ErrInvalidCatalog, errors.Join(errs...),
		)
	}
	return c, nil
}

func validateProduct(p domain.Product, categories map[string]int) error {
	var errs []error
	if p.Price.IsNegative() {
		errs = append(errs, errors.New("negative price"))
	}
	if p.OriginalPrice.Valid && p.OriginalPrice.Decimal.IsNegative() {
		errs = append(errs, errors.New("negative original price"))
	}
	if p.Rating < 0 || p.Rating > 5 {
		errs = append(errs, fmt.Errorf("rating %v out of [0,5]", p.Rating))
	}
	if p.Reviews < 0 {
		errs = append(errs, errors.New("negative reviews count"))
	}
	if _, ok := categories[p.Category]; !ok {
		errs = append(errs, fmt.Errorf("unknown category %q", p.Category))
	}
	return errors.Join(errs...)
}

// Products returns all products in catalog order.
func (c *Catalog) Products() []domain.Product {
	return cloneProducts(c.products)
}

func (c *Catalog) Categories() []domain.Category {
	return slices.Clone(c.categories)
}

func (c *Catalog) Category(id string) (domain.Category, bool) {
	i, ok := c.categoryBy[id]
	if !ok {
		return domain.Category{}, false
	}
	return c.categories[i], true
}

func (c *Catalog) Product(id string) (domain.Product, error) {
	i, ok := c.byID[id]
	if !ok {
		return domain.Product{}, fmt.Errorf("%w: %q", domain.ErrProductNotFound, id)
	}
	return c.products[i].Clone(), nil
}

func (c *Catalog) Len() int {
	return len(c.products)
}

// Featured returns featured products in catalog order.
func (c *Catalog) Featured() []domain.Product {
	var ps []domain.Product
	for _, p := range c.products {
		if p.Featured {
			ps = append(ps, p.Clone())
		}
	}
	return ps
}

// Benefits returns the distinct benefit tags, sorted.
func (c *Catalog) Benefits() []string {
	seen := make(map[string]struct{})
	var tags []string
	for _, p := range c.products {
		for _, b := range p.Benefits {
			if _, ok := seen[b]; ok {
				continue
			}
			seen[b] = struct{}{}
			tags = append(tags, b)
		}
	}
	slices.Sort(tags)
	return tags
}

// Related returns up to limit other products from the same category.
// A non-positive limit means [DefaultRelatedLimit].
func (c *Catalog) Related(id string, limit int) ([]domain.Product, error) {
	p, err := c.Product(id)
	if err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = DefaultRelatedLimit
	}

	var related []domain.Product
	for _, other := range c.products {
		if len(related) == limit {
			break
		}
		if other.ID == p.ID || other.Category != p.Category {
			continue
		}
		related = append(related, other.Clone())
	}
	return related, nil
}

// Query runs the filter and sort pipeline over the catalog.
func (c *Catalog) Query(params domain.QueryParams) []domain.Product {
	return Query(c.products, params)
}

func cloneProducts(ps []domain.Product) []domain.Product {
	out := make([]domain.Product, len(ps))
	for i, p := range ps {
		out[i] = p.Clone()
	}
	return out
}
