package httphandler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/niksmo/storefront/internal/adapter/httphandler"
	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	lavender = domain.Product{
		ID:            "lavender-oil",
		Name:          "Lavender Essential Oil",
		Price:         decimal.RequireFromString("24.99"),
		OriginalPrice: decimal.NewNullDecimal(decimal.RequireFromString("29.99")),
		Category:      "essential-oils",
		Rating:        4.8,
		InStock:       true,
		Featured:      true,
		Benefits:      []string{"calming", "sleep"},
	}
	teaTree = domain.Product{
		ID:       "tea-tree-oil",
		Name:     "Tea Tree Oil",
		Price:    decimal.RequireFromString("18"),
		Category: "essential-oils",
		Rating:   4.6,
		InStock:  true,
	}
	oils = domain.Category{ID: "essential-oils", Name: "Essential Oils"}
)

func catalogMux(
	cr *MockCatalogReader, pr *MockPopularityReader,
) *http.ServeMux {
	mux := http.NewServeMux()
	if pr == nil {
		httphandler.RegisterCatalog(mux, cr, nil)
	} else {
		httphandler.RegisterCatalog(mux, cr, pr)
	}
	httphandler.RegisterHealth(mux)
	return mux
}

func serve(h http.Handler, r *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	return w
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(w.Body).Decode(&v))
	return v
}

func TestCatalogHandler(t *testing.T) {
	t.Run("Categories", func(t *testing.T) {
		cr := new(MockCatalogReader)
		cr.On("Categories", mock.Anything).Return([]domain.Category{oils})

		w := serve(catalogMux(cr, nil), httptest.NewRequest(http.MethodGet, "/v1/categories", nil))
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
		assert.Equal(t,
			[]httphandler.Category{{ID: "essential-oils", Name: "Essential Oils"}},
			decodeBody[[]httphandler.Category](t, w),
		)
	})

	t.Run("BenefitsEmpty", func(t *testing.T) {
		cr := new(MockCatalogReader)
		cr.On("Benefits", mock.Anything).Return([]string(nil))

		w := serve(catalogMux(cr, nil), httptest.NewRequest(http.MethodGet, "/v1/benefits", nil))
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `[]`, w.Body.String())
	})

	t.Run("ProductsWithFilters", func(t *testing.T) {
		cr := new(MockCatalogReader)
		params := domain.QueryParams{
			Category:    "essential-oils",
			BenefitTags: []string{"calming", "sleep"},
			SearchQuery: " Oil",
			Sort:        domain.SortPriceAsc,
		}
		cr.On("QueryProducts", mock.Anything, params).
			Return([]domain.Product{teaTree, lavender})

		r := httptest.NewRequest(http.MethodGet,
			"/v1/products?category=essential-oils&benefit=calming&benefit=sleep&q=+Oil&sort=price-asc", nil)
		w := serve(catalogMux(cr, nil), r)
		require.Equal(t, http.StatusOK, w.Code)

		body := decodeBody[httphandler.ProductList](t, w)
		assert.Equal(t, 2, body.Count)
		assert.True(t, body.HasActiveFilters)
		require.Len(t, body.Products, 2)
		assert.Equal(t, "18.00", body.Products[0].Price)
		assert.Empty(t, body.Products[0].OriginalPrice)
		assert.Equal(t, []string{}, body.Products[0].Benefits)
		assert.Equal(t, "24.99", body.Products[1].Price)
		assert.Equal(t, "29.99", body.Products[1].OriginalPrice)
		assert.True(t, body.Products[1].HasDiscount)
		assert.Equal(t, "5.00", body.Products[1].Savings)
		cr.AssertExpectations(t)
	})

	t.Run("ProductsDefaults", func(t *testing.T) {
		cr := new(MockCatalogReader)
		cr.On("QueryProducts", mock.Anything, domain.QueryParams{Sort: domain.SortFeatured}).
			Return([]domain.Product{})

		w := serve(catalogMux(cr, nil), httptest.NewRequest(http.MethodGet, "/v1/products", nil))
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t,
			`{"products": [], "count": 0, "has_active_filters": false}`,
			w.Body.String(),
		)
	})

	t.Run("UnknownSortKey", func(t *testing.T) {
		cr := new(MockCatalogReader)
		w := serve(catalogMux(cr, nil),
			httptest.NewRequest(http.MethodGet, "/v1/products?sort=cheapest", nil))
		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "unknown_sort_key", decodeBody[httphandler.ErrorResponse](t, w).Code)
		cr.AssertNotCalled(t, "QueryProducts", mock.Anything, mock.Anything)
	})

	t.Run("Featured", func(t *testing.T) {
		cr := new(MockCatalogReader)
		cr.On("Featured", mock.Anything).Return([]domain.Product{lavender})

		w := serve(catalogMux(cr, nil),
			httptest.NewRequest(http.MethodGet, "/v1/featured", nil))
		require.Equal(t, http.StatusOK, w.Code)
		body := decodeBody[[]httphandler.Product](t, w)
		require.Len(t, body, 1)
		assert.Equal(t, "lavender-oil", body[0].ID)
	})

	t.Run("ProductDetail", func(t *testing.T) {
		cr := new(MockCatalogReader)
		cr.On("ProductDetail", mock.Anything, "lavender-oil").Return(domain.ProductDetail{
			Product:  lavender,
			Category: oils,
			Related:  []domain.Product{teaTree},
		}, nil)

		w := serve(catalogMux(cr, nil),
			httptest.NewRequest(http.MethodGet, "/v1/products/lavender-oil", nil))
		require.Equal(t, http.StatusOK, w.Code)
		body := decodeBody[httphandler.ProductDetail](t, w)
		assert.Equal(t, "lavender-oil", body.Product.ID)
		assert.Equal(t, "Essential Oils", body.Category.Name)
		require.Len(t, body.Related, 1)
		assert.Equal(t, "tea-tree-oil", body.Related[0].ID)
	})

	t.Run("ProductNamedFeatured", func(t *testing.T) {
		featured := lavender
		featured.ID = "featured"
		cr := new(MockCatalogReader)
		cr.On("ProductDetail", mock.Anything, "featured").
			Return(domain.ProductDetail{Product: featured, Category: oils}, nil)

		w := serve(catalogMux(cr, nil),
			httptest.NewRequest(http.MethodGet, "/v1/products/featured", nil))
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "featured", decodeBody[httphandler.ProductDetail](t, w).Product.ID)
		cr.AssertNotCalled(t, "Featured", mock.Anything)
	})

	t.Run("ProductNotFound", func(t *testing.T) {
		cr := new(MockCatalogReader)
		cr.On("ProductDetail", mock.Anything, "nope").
			Return(domain.ProductDetail{}, domain.ErrProductNotFound)

		w := serve(catalogMux(cr, nil),
			httptest.NewRequest(http.MethodGet, "/v1/products/nope", nil))
		require.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, httphandler.ErrorResponse{
			Error: "product not found", Code: "product_not_found",
		}, decodeBody[httphandler.ErrorResponse](t, w))
	})

	t.Run("PopularityDisabled", func(t *testing.T) {
		cr := new(MockCatalogReader)
		w := serve(catalogMux(cr, nil),
			httptest.NewRequest(http.MethodGet, "/v1/products/lavender-oil/popularity", nil))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Popularity", func(t *testing.T) {
		cr := new(MockCatalogReader)
		pr := new(MockPopularityReader)
		cr.On("ProductDetail", mock.Anything, "lavender-oil").
			Return(domain.ProductDetail{Product: lavender}, nil)
		pr.On("AddedCount", mock.Anything, "lavender-oil").Return(int64(12), nil)

		w := serve(catalogMux(cr, pr),
			httptest.NewRequest(http.MethodGet, "/v1/products/lavender-oil/popularity", nil))
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t,
			`{"product_id": "lavender-oil", "added_count": 12}`, w.Body.String(),
		)
	})

	t.Run("PopularityUnavailable", func(t *testing.T) {
		cr := new(MockCatalogReader)
		pr := new(MockPopularityReader)
		cr.On("ProductDetail", mock.Anything, "lavender-oil").
			Return(domain.ProductDetail{Product: lavender}, nil)
		pr.On("AddedCount", mock.Anything, "lavender-oil").
			Return(int64(0), domain.ErrPopularityUnavailable)

		w := serve(catalogMux(cr, pr),
			httptest.NewRequest(http.MethodGet, "/v1/products/lavender-oil/popularity", nil))
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})

	t.Run("Health", func(t *testing.T) {
		w := serve(catalogMux(new(MockCatalogReader), nil),
			httptest.NewRequest(http.MethodGet, "/healthz", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})
}
