package storage

import (
	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/shopspring/decimal"
)

type (
	content struct {
		Categories []category `json:"categories"`
		Products   []product  `json:"products"`
	}

	category struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}

	product struct {
		ID               string           `json:"id"`
		Name             string           `json:"name"`
		Description      string           `json:"description"`
		ShortDescription string           `json:"shortDescription"`
		Price            decimal.Decimal  `json:"price"`
		OriginalPrice    *decimal.Decimal `json:"originalPrice,omitempty"`
		Size             string           `json:"size"`
		Image            string           `json:"image"`
		Category         string           `json:"category"`
		Rating           float64          `json:"rating"`
		Reviews          int              `json:"reviews"`
		InStock          bool             `json:"inStock"`
		Featured         bool             `json:"featured"`
		Seasonal         bool             `json:"seasonal"`
		Benefits         []string         `json:"benefits,omitempty"`
		Sourcing         string           `json:"sourcing,omitempty"`
	}
)

func (c content) toDomain() ([]domain.Category, []domain.Product) {
	categories := make([]domain.Category, len(c.Categories))
	for i, v := range c.Categories {
		categories[i] = domain.Category{ID: v.ID, Name: v.Name}
	}

	products := make([]domain.Product, len(c.Products))
	for i, v := range c.Products {
		products[i] = v.toDomain()
	}
	return categories, products
}

func (v product) toDomain() domain.Product {
	p := domain.Product{
		ID:               v.ID,
		Name:             v.Name,
		Description:      v.Description,
		ShortDescription: v.ShortDescription,
		Price:            v.Price,
		Size:             v.Size,
		Image:            v.Image,
		Category:         v.Category,
		Rating:           v.Rating,
		Reviews:          v.Reviews,
		InStock:          v.InStock,
		Featured:         v.Featured,
		Seasonal:         v.Seasonal,
		Benefits:         v.Benefits,
		Sourcing:         v.Sourcing,
	}
	if v.OriginalPrice != nil {
		p.OriginalPrice = decimal.NewNullDecimal(*v.OriginalPrice)
	}
	return p
}
