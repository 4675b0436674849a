// Package cart holds the in-memory shopping cart of a single session.
//
// A Store has exactly one logical writer. It does no locking of its own;
// callers sharing a Store between goroutines must serialize access.
package cart

import (
	"math"
	"slices"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/shopspring/decimal"
)

type Store struct {
	items []domain.CartLineItem
}

func NewStore() *Store {
	return &Store{}
}

// AddItem increments the quantity of an existing line item by one or
// appends a new line item with quantity 1. An existing line item keeps the
// snapshot taken when it was first added.
func (s *Store) AddItem(p domain.ProductSnapshot) domain.CartLineItem {
	if i := s.index(p.ID); i != -1 {
		s.items[i].Quantity++
		return s.items[i]
	}

	li := domain.CartLineItem{
		ID:       p.ID,
		Name:     p.Name,
		Price:    p.Price,
		Image:    p.Image,
		Size:     p.Size,
		Quantity: 1,
	}
	s.items = append(s.items, li)
	return li
}

// RemoveItem deletes the line item and reports whether it was present.
func (s *Store) RemoveItem(id string) bool {
	i := s.index(id)
	if i == -1 {
		return false
	}
	s.items = slices.Delete(s.items, i, i+1)
	return true
}

// UpdateQuantity replaces the quantity of a line item. A quantity below 1
// removes the line item. It reports whether the cart changed.
func (s *Store) UpdateQuantity(id string, quantity int) bool {
	if quantity < 1 {
		return s.RemoveItem(id)
	}

	i := s.index(id)
	if i == -1 || s.items[i].Quantity == quantity {
		return false
	}
	s.items[i].Quantity = quantity
	return true
}

// Clear empties the cart and reports whether it held any line items.
func (s *Store) Clear() bool {
	changed := len(s.items) != 0
	s.items = nil
	return changed
}

// Total is the sum of price times quantity, computed on every call.
func (s *Store) Total() decimal.Decimal {
	total := decimal.Zero
	for _, li := range s.items {
		total = total.Add(li.LineTotal())
	}
	return total
}

// Items returns a copy of the line items in insertion order.
func (s *Store) Items() []domain.CartLineItem {
	return slices.Clone(s.items)
}

func (s *Store) Item(id string) (domain.CartLineItem, bool) {
	i := s.index(id)
	if i == -1 {
		return domain.CartLineItem{}, false
	}
	return s.items[i], true
}

// ItemCount is the number of units across all line items. It saturates at
// math.MaxInt.
func (s *Store) ItemCount() int {
	var n int
	for _, li := range s.items {
		if li.Quantity > math.MaxInt-n {
			return math.MaxInt
		}
		n += li.Quantity
	}
	return n
}

func (s *Store) Len() int {
	return len(s.items)
}

func (s *Store) index(id string) int {
	return slices.IndexFunc(s.items, func(li domain.CartLineItem) bool {
		return li.ID == id
	})
}
