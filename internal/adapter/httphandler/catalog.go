package httphandler

import (
	"log/slog"
	"net/http"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
)

// GET /v1/categories
// GET /v1/benefits
// GET /v1/products?category=&benefit=&q=&sort=
// GET /v1/featured
// GET /v1/products/{productID}
// GET /v1/products/{productID}/popularity (registered with a reader only)

type CatalogHandler struct {
	catalog    port.CatalogReader
	popularity port.PopularityReader
}

// RegisterCatalog mounts the catalog routes. A nil popularity reader leaves
// the popularity route unregistered.
func RegisterCatalog(
	mux *http.ServeMux,
	catalog port.CatalogReader,
	popularity port.PopularityReader,
) {
	h := CatalogHandler{catalog, popularity}
	mux.HandleFunc("GET /v1/categories", h.GetCategories)
	mux.HandleFunc("GET /v1/benefits", h.GetBenefits)
	mux.HandleFunc("GET /v1/products", h.GetProducts)
	mux.HandleFunc("GET /v1/featured", h.GetFeatured)
	mux.HandleFunc("GET /v1/products/{productID}", h.GetProduct)
	if popularity != nil {
		mux.HandleFunc(
			"GET /v1/products/{productID}/popularity", h.GetPopularity,
		)
	}
}

func (h CatalogHandler) GetCategories(w http.ResponseWriter, r *http.Request) {
	const op = "CatalogHandler.GetCategories"
	log := slog.With("op", op)

	vs := h.catalog.Categories(r.Context())
	writeJSON(log, w, http.StatusOK, categoriesFromDomain(vs))
}

func (h CatalogHandler) GetBenefits(w http.ResponseWriter, r *http.Request) {
	const op = "CatalogHandler.GetBenefits"
	log := slog.With("op", op)

	vs := h.catalog.Benefits(r.Context())
	if vs == nil {
		vs = []string{}
	}
	writeJSON(log, w, http.StatusOK, vs)
}

func (h CatalogHandler) GetProducts(w http.ResponseWriter, r *http.Request) {
	const op = "CatalogHandler.GetProducts"
	log := slog.With("op", op)

	params, err := queryParams(r)
	if err != nil {
		writeError(log, w, err)
		return
	}

	vs := h.catalog.QueryProducts(r.Context(), params)
	writeJSON(log, w, http.StatusOK, ProductList{
		Products:         productsFromDomain(vs),
		Count:            len(vs),
		HasActiveFilters: params.HasActiveFilters(),
	})
}

func (h CatalogHandler) GetFeatured(w http.ResponseWriter, r *http.Request) {
	const op = "CatalogHandler.GetFeatured"
	log := slog.With("op", op)

	vs := h.catalog.Featured(r.Context())
	writeJSON(log, w, http.StatusOK, productsFromDomain(vs))
}

func (h CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	const op = "CatalogHandler.GetProduct"
	productID := r.PathValue("productID")
	log := slog.With("op", op, "productID", productID)

	v, err := h.catalog.ProductDetail(r.Context(), productID)
	if err != nil {
		writeError(log, w, err)
		return
	}

	writeJSON(log, w, http.StatusOK, ProductDetail{
		Product:  productFromDomain(v.Product),
		Category: categoryFromDomain(v.Category),
		Related:  productsFromDomain(v.Related),
	})
}

func (h CatalogHandler) GetPopularity(w http.ResponseWriter, r *http.Request) {
	const op = "CatalogHandler.GetPopularity"
	productID := r.PathValue("productID")
	log := slog.With("op", op, "productID", productID)

	// unknown products are 404 rather than a zero count
	if _, err := h.catalog.ProductDetail(r.Context(), productID); err != nil {
		writeError(log, w, err)
		return
	}

	n, err := h.popularity.AddedCount(r.Context(), productID)
	if err != nil {
		writeError(log, w, err)
		return
	}

	writeJSON(log, w, http.StatusOK, Popularity{
		ProductID: productID, AddedCount: n,
	})
}

// queryParams reads the catalog query from the URL. The search text is
// passed through untrimmed.
func queryParams(r *http.Request) (domain.QueryParams, error) {
	q := r.URL.Query()

	sort, err := domain.ParseSortKey(q.Get("sort"))
	if err != nil {
		return domain.QueryParams{}, err
	}

	var benefits []string
	for _, b := range q["benefit"] {
		if b != "" {
			benefits = append(benefits, b)
		}
	}

	return domain.QueryParams{
		Category:    q.Get("category"),
		BenefitTags: benefits,
		SearchQuery: q.Get("q"),
		Sort:        sort,
	}, nil
}
