package domain

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	ErrProductNotFound       = errors.New("product not found")
	ErrOutOfStock            = errors.New("product is out of stock")
	ErrPopularityUnavailable = errors.New("popularity is unavailable")
)

type (
	Product struct {
		ID               string
		Name             string
		Description      string
		ShortDescription string
		Price            decimal.Decimal
		OriginalPrice    decimal.NullDecimal
		Size             string
		Image            string
		Category         string
		Rating           float64
		Reviews          int
		InStock          bool
		Featured         bool
		Seasonal         bool
		Benefits         []string
		Sourcing         string
	}

	Category struct {
		ID   string
		Name string
	}
)

// HasDiscount reports whether the original price is set and above the price.
func (p Product) HasDiscount() bool {
	return p.OriginalPrice.Valid && p.OriginalPrice.Decimal.GreaterThan(p.Price)
}

func (p Product) Savings() decimal.Decimal {
	if !p.HasDiscount() {
		return decimal.Zero
	}
	return p.OriginalPrice.Decimal.Sub(p.Price)
}

func (p Product) HasBenefit(tag string) bool {
	for _, b := range p.Benefits {
		if b == tag {
			return true
		}
	}
	return false
}

// Snapshot copies the fields a cart line item keeps from the product.
func (p Product) Snapshot() ProductSnapshot {
	return ProductSnapshot{
		ID:    p.ID,
		Name:  p.Name,
		Price: p.Price,
		Image: p.Image,
		Size:  p.Size,
	}
}

// Clone returns a copy that does not share the benefits slice.
func (p Product) Clone() Product {
	if p.Benefits != nil {
		p.Benefits = append([]string(nil), p.Benefits...)
	}
	return p
}

// A ProductDetail is a product with its category and related products.
type ProductDetail struct {
	Product  Product
	Category Category
	Related  []Product
}
