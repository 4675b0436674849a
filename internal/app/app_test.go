package app

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/niksmo/storefront/config"
	"github.com/niksmo/storefront/internal/adapter/httphandler"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() config.Config {
	var cfg config.Config
	cfg.LogLevel = slog.LevelError
	cfg.HTTPServerAddr = "127.0.0.1:0"
	cfg.Catalog.Source = config.SourceFile
	cfg.Catalog.ContentFile = "../../content/products.json"
	cfg.Cart.SessionTTL = 30 * time.Minute
	cfg.Cart.SweepInterval = time.Minute
	cfg.Cart.MaxAddQuantity = 99
	cfg.Pricing.Currency = "USD"
	cfg.Pricing.FreeShippingThreshold = decimal.RequireFromString("50")
	cfg.Pricing.ShippingFee = decimal.RequireFromString("5.99")
	return cfg
}

func serve(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r *http.Request
	if body == "" {
		r = httptest.NewRequest(method, target, nil)
	} else {
		r = httptest.NewRequest(method, target, strings.NewReader(body))
		r.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	return w
}

func TestApp(t *testing.T) {
	t.Run("FileCatalog", func(t *testing.T) {
		app := New(t.Context(), testConfig())
		assert.Equal(t, 8, app.catalog.Len())
		assert.Nil(t, app.broker)
		assert.Nil(t, app.sqldb)
	})

	t.Run("MissingContentFile", func(t *testing.T) {
		cfg := testConfig()
		cfg.Catalog.ContentFile = "./does-not-exist.json"
		assert.Panics(t, func() { New(t.Context(), cfg) })
	})

	t.Run("ServesCartFlow", func(t *testing.T) {
		app := New(t.Context(), testConfig())
		h := app.httpServer.Handler()

		w := serve(t, h, http.MethodGet, "/healthz", "")
		require.Equal(t, http.StatusOK, w.Code)

		w = serve(t, h, http.MethodPost, "/v1/carts", "")
		require.Equal(t, http.StatusCreated, w.Code)

		var created httphandler.CartCreated
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
		require.NotEmpty(t, created.CartID)

		w = serve(t, h, http.MethodPost, "/v1/carts/"+created.CartID+"/items",
			`{"product_id":"lavender-oil","quantity":2}`)
		require.Equal(t, http.StatusOK, w.Code)

		var cart httphandler.Cart
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cart))
		assert.Equal(t, 2, cart.ItemCount)
		assert.Equal(t, "USD", cart.Currency)
		assert.Equal(t, "49.98", cart.Subtotal)
		assert.Equal(t, "5.99", cart.Shipping)
		assert.Equal(t, "55.97", cart.GrandTotal)
		assert.False(t, cart.FreeShipping)
	})

	t.Run("PopularityNotMounted", func(t *testing.T) {
		app := New(t.Context(), testConfig())
		w := serve(t, app.httpServer.Handler(),
			http.MethodGet, "/v1/products/lavender-oil/popularity", "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
