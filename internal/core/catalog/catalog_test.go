package catalog_test

import (
	"testing"

	"github.com/niksmo/storefront/internal/core/catalog"
	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCategories() []domain.Category {
	return []domain.Category{
		{ID: "essential-oils", Name: "Essential Oils"},
		{ID: "blends", Name: "Blends"},
		{ID: "remedies", Name: "Natural Remedies"},
	}
}

func price(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func testProducts() []domain.Product {
	return []domain.Product{
		{
			ID: "lavender", Name: "Lavender Oil", Category: "essential-oils",
			Description: "Calming lavender from Provence.",
			Price:       price("24.99"), Rating: 4.8, Reviews: 120,
			InStock: true, Featured: true,
			Benefits: []string{"calming", "sleep"},
			Sourcing: "Provence, France",
		},
		{
			ID: "tea-tree", Name: "Melaleuca Oil", Category: "essential-oils",
			Description: "Pure Tea Tree oil for skin care.",
			Price:       price("18.50"), Rating: 4.6, Reviews: 88,
			InStock:  true,
			Benefits: []string{"antiseptic", "skin"},
			Sourcing: "New South Wales, Australia",
		},
		{
			ID: "eucalyptus", Name: "Eucalyptus Oil", Category: "essential-oils",
			Description: "Fresh and clearing.",
			Price:       price("16.00"), Rating: 4.6, Reviews: 40,
			InStock:  false,
			Benefits: []string{"respiratory"},
		},
		{
			ID: "sleep-blend", Name: "Deep Sleep Blend", Category: "blends",
			Description:   "Lavender, chamomile and cedarwood.",
			Price:         price("32.00"),
			OriginalPrice: decimal.NewNullDecimal(price("40.00")),
			Rating:        4.9, Reviews: 64,
			InStock: true, Featured: true,
			Benefits: []string{"calming", "sleep"},
		},
		{
			ID: "balm", Name: "Healing Balm", Category: "remedies",
			Description: "Shea butter balm.",
			Price:       price("12.00"), Rating: 4.2, Reviews: 15,
			InStock:  true,
			Benefits: []string{"skin"},
			Sourcing: "Ghana",
		},
		{
			ID: "peppermint", Name: "Peppermint Oil", Category: "essential-oils",
			Description: "Cooling peppermint.",
			Price:       price("14.00"), Rating: 4.5, Reviews: 50,
			InStock: true, Seasonal: true,
			Benefits: []string{"energy"},
		},
		{
			ID: "frankincense", Name: "Frankincense Oil", Category: "essential-oils",
			Description: "Resinous and grounding.",
			Price:       price("45.00"), Rating: 4.7, Reviews: 30,
			InStock:  true,
			Benefits: []string{"calming"},
		},
	}
}

func newTestCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.New(testCategories(), testProducts())
	require.NoError(t, err)
	return c
}

func ids(ps []domain.Product) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.ID
	}
	return out
}

func TestNew(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		c := newTestCatalog(t)
		assert.Equal(t, 7, c.Len())
		assert.Len(t, c.Categories(), 3)
	})

	t.Run("DuplicateProductID", func(t *testing.T) {
		ps := testProducts()
		ps[1].ID = ps[0].ID
		_, err := catalog.New(testCategories(), ps)
		require.Error(t, err)
		assert.ErrorIs(t, err, catalog.ErrInvalidCatalog)
		assert.ErrorContains(t, err, "duplicate id")
	})

	t.Run("UnknownCategory", func(t *testing.T) {
		ps := testProducts()
		ps[0].Category = "candles"
		_, err := catalog.New(testCategories(), ps)
		require.Error(t, err)
		assert.ErrorIs(t, err, catalog.ErrInvalidCatalog)
		assert.ErrorContains(t, err, `unknown category "candles"`)
	})

	t.Run("JoinsAllProblems", func(t *testing.T) {
		ps := testProducts()
		ps[0].Price = price("-1")
		ps[1].Rating = 5.5
		ps[2].ID = ""
		_, err := catalog.New(testCategories(), ps)
		require.Error(t, err)
		assert.ErrorContains(t, err, "negative price")
		assert.ErrorContains(t, err, "out of [0,5]")
		assert.ErrorContains(t, err, "empty id")
	})
}

func TestCatalogIsReadOnly(t *testing.T) {
	c := newTestCatalog(t)

	ps := c.Products()
	ps[0].Price = price("1.00")
	ps[0].Benefits[0] = "mutated"

	p, err := c.Product("lavender")
	require.NoError(t, err)
	assert.Equal(t, "24.99", p.Price.StringFixed(2))
	assert.Equal(t, []string{"calming", "sleep"}, p.Benefits)
}

func TestCatalogProduct(t *testing.T) {
	c := newTestCatalog(t)

	t.Run("Found", func(t *testing.T) {
		p, err := c.Product("sleep-blend")
		require.NoError(t, err)
		assert.True(t, p.HasDiscount())
		assert.Equal(t, "8.00", p.Savings().StringFixed(2))
	})

	t.Run("NotFound", func(t *testing.T) {
		_, err := c.Product("unknown")
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrProductNotFound)
	})
}

func TestCatalogFeatured(t *testing.T) {
	c := newTestCatalog(t)
	assert.Equal(t, []string{"lavender", "sleep-blend"}, ids(c.Featured()))
}

func TestCatalogBenefits(t *testing.T) {
	c := newTestCatalog(t)
	assert.Equal(t,
		[]string{"antiseptic", "calming", "energy", "respiratory", "skin", "sleep"},
		c.Benefits(),
	)
}

func TestCatalogRelated(t *testing.T) {
	c := newTestCatalog(t)

	t.Run("DefaultLimit", func(t *testing.T) {
		related, err := c.Related("lavender", 0)
		require.NoError(t, err)
		assert.Equal(t,
			[]string{"tea-tree", "eucalyptus", "peppermint", "frankincense"},
			ids(related),
		)
	})

	t.Run("Limit", func(t *testing.T) {
		related, err := c.Related("lavender", 2)
		require.NoError(t, err)
		assert.Equal(t, []string{"tea-tree", "eucalyptus"}, ids(related))
	})

	t.Run("AloneInCategory", func(t *testing.T) {
		related, err := c.Related("balm", 0)
		require.NoError(t, err)
		assert.Empty(t, related)
	})

	t.Run("UnknownProduct", func(t *testing.T) {
		_, err := c.Related("unknown", 0)
		assert.ErrorIs(t, err, domain.ErrProductNotFound)
	})
}
