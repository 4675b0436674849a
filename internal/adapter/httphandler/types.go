package httphandler

import (
	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/shopspring/decimal"
)

const pricePlaces = 2

type (
	Category struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}

	Product struct {
		ID               string   `json:"id"`
		Name             string   `json:"name"`
		Description      string   `json:"description"`
		ShortDescription string   `json:"short_description"`
		Price            string   `json:"price"`
		OriginalPrice    string   `json:"original_price,omitempty"`
		HasDiscount      bool     `json:"has_discount"`
		Savings          string   `json:"savings"`
		Size             string   `json:"size"`
		Image            string   `json:"image"`
		Category         string   `json:"category"`
		Rating           float64  `json:"rating"`
		Reviews          int      `json:"reviews"`
		InStock          bool     `json:"in_stock"`
		Featured         bool     `json:"featured"`
		Seasonal         bool     `json:"seasonal"`
		Benefits         []string `json:"benefits"`
		Sourcing         string   `json:"sourcing,omitempty"`
	}

	ProductList struct {
		Products         []Product `json:"products"`
		Count            int       `json:"count"`
		HasActiveFilters bool      `json:"has_active_filters"`
	}

	ProductDetail struct {
		Product  Product   `json:"product"`
		Category Category  `json:"category"`
		Related  []Product `json:"related"`
	}

	Popularity struct {
		ProductID  string `json:"product_id"`
		AddedCount int64  `json:"added_count"`
	}
)

type (
	CartCreated struct {
		CartID string `json:"cart_id"`
	}

	CartLineItem struct {
		ProductID string `json:"product_id"`
		Name      string `json:"name"`
		Price     string `json:"price"`
		Image     string `json:"image"`
		Size      string `json:"size"`
		Quantity  int    `json:"quantity"`
		LineTotal string `json:"line_total"`
	}

	Cart struct {
		CartID                   string         `json:"cart_id"`
		Items                    []CartLineItem `json:"items"`
		ItemCount                int            `json:"item_count"`
		Currency                 string         `json:"currency"`
		Subtotal                 string         `json:"subtotal"`
		Shipping                 string         `json:"shipping"`
		GrandTotal               string         `json:"grand_total"`
		RemainingForFreeShipping string         `json:"remaining_for_free_shipping"`
		FreeShipping             bool           `json:"free_shipping"`
	}

	AddItemRequest struct {
		ProductID string `json:"product_id"`
		Quantity  int    `json:"quantity"`
	}

	UpdateQuantityRequest struct {
		Quantity *int `json:"quantity"`
	}
)

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func formatPrice(d decimal.Decimal) string {
	return d.StringFixed(pricePlaces)
}

func categoryFromDomain(v domain.Category) Category {
	return Category{ID: v.ID, Name: v.Name}
}

func categoriesFromDomain(vs []domain.Category) []Category {
	res := make([]Category, len(vs))
	for i, v := range vs {
		res[i] = categoryFromDomain(v)
	}
	return res
}

func productFromDomain(v domain.Product) Product {
	p := Product{
		ID:               v.ID,
		Name:             v.Name,
		Description:      v.Description,
		ShortDescription: v.ShortDescription,
		Price:            formatPrice(v.Price),
		HasDiscount:      v.HasDiscount(),
		Savings:          formatPrice(v.Savings()),
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
	if v.OriginalPrice.Valid {
		p.OriginalPrice = formatPrice(v.OriginalPrice.Decimal)
	}
	if p.Benefits == nil {
		p.Benefits = []string{}
	}
	return p
}

func productsFromDomain(vs []domain.Product) []Product {
	res := make([]Product, len(vs))
	for i, v := range vs {
		res[i] = productFromDomain(v)
	}
	return res
}

func cartFromDomain(v domain.CartView, currency string) Cart {
	items := make([]CartLineItem, len(v.Items))
	for i, li := range v.Items {
		items[i] = CartLineItem{
			ProductID: li.ID,
			Name:      li.Name,
			Price:     formatPrice(li.Price),
			Image:     li.Image,
			Size:      li.Size,
			Quantity:  li.Quantity,
			LineTotal: formatPrice(li.LineTotal()),
		}
	}

	return Cart{
		CartID:                   v.CartID.String(),
		Items:                    items,
		ItemCount:                v.ItemCount,
		Currency:                 currency,
		Subtotal:                 formatPrice(v.Quote.Subtotal),
		Shipping:                 formatPrice(v.Quote.Shipping),
		GrandTotal:               formatPrice(v.Quote.GrandTotal),
		RemainingForFreeShipping: formatPrice(v.Quote.RemainingForFreeShipping),
		FreeShipping:             v.Quote.FreeShipping,
	}
}
