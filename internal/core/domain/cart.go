package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrCartNotFound     = errors.New("cart not found")
	ErrInvalidQuantity  = errors.New("invalid quantity")
	ErrInvalidCartEvent = errors.New("invalid cart event")
)

// A ProductSnapshot is the product data copied into the cart at add time.
type ProductSnapshot struct {
	ID    string
	Name  string
	Price decimal.Decimal
	Image string
	Size  string
}

type CartLineItem struct {
	ID       string
	Name     string
	Price    decimal.Decimal
	Image    string
	Size     string
	Quantity int
}

func (li CartLineItem) LineTotal() decimal.Decimal {
	return li.Price.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

type CheckoutQuote struct {
	Subtotal                 decimal.Decimal
	Shipping                 decimal.Decimal
	GrandTotal               decimal.Decimal
	RemainingForFreeShipping decimal.Decimal
	FreeShipping             bool
}

// A CartView is a point in time copy of a cart session.
type CartView struct {
	CartID    uuid.UUID
	Items     []CartLineItem
	ItemCount int
	Quote     CheckoutQuote
}

type CartEventKind string

const (
	CartItemAdded       CartEventKind = "item_added"
	CartItemRemoved     CartEventKind = "item_removed"
	CartQuantityUpdated CartEventKind = "quantity_updated"
	CartCleared         CartEventKind = "cart_cleared"
)

func (k CartEventKind) Valid() bool {
	switch k {
	case CartItemAdded, CartItemRemoved, CartQuantityUpdated, CartCleared:
		return true
	}
	return false
}

type CartEvent struct {
	CartID     uuid.UUID
	Kind       CartEventKind
	ProductID  string
	Quantity   int
	UnitPrice  decimal.Decimal
	OccurredAt time.Time
}

// Key returns the partitioning key: product id, or cart id for a cleared cart.
func (e CartEvent) Key() string {
	if e.ProductID == "" {
		return e.CartID.String()
	}
	return e.ProductID
}
