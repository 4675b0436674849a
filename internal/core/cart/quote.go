package cart

import (
	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/shopspring/decimal"
)

// A ShippingPolicy charges a flat fee below the free shipping threshold.
type ShippingPolicy struct {
	FreeThreshold decimal.Decimal
	Fee           decimal.Decimal
}

// Quote prices shipping for the subtotal of lineCount line items. An empty
// cart ships for free.
func (p ShippingPolicy) Quote(subtotal decimal.Decimal, lineCount int) domain.CheckoutQuote {
	q := domain.CheckoutQuote{
		Subtotal: subtotal,
		Shipping: decimal.Zero,
	}

	switch {
	case lineCount == 0:
	case subtotal.GreaterThanOrEqual(p.FreeThreshold):
		q.FreeShipping = true
	default:
		q.Shipping = p.Fee
	}

	if lineCount != 0 {
		if rest := p.FreeThreshold.Sub(subtotal); rest.IsPositive() {
			q.RemainingForFreeShipping = rest
		}
	}

	q.GrandTotal = subtotal.Add(q.Shipping)
	return q
}

// Quote prices the current contents of the store.
func (s *Store) Quote(p ShippingPolicy) domain.CheckoutQuote {
	return p.Quote(s.Total(), s.Len())
}
