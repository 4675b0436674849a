package port

import (
	"context"

	"github.com/google/uuid"
	"github.com/niksmo/storefront/internal/core/catalog"
	"github.com/niksmo/storefront/internal/core/domain"
)

type closer interface {
	Close()
}

// Inbound ports.

type CatalogReader interface {
	Categories(context.Context) []domain.Category
	Benefits(context.Context) []string
	Featured(context.Context) []domain.Product
	QueryProducts(context.Context, domain.QueryParams) []domain.Product
	ProductDetail(context.Context, string) (domain.ProductDetail, error)
}

type CartManager interface {
	OpenCart(context.Context) (domain.CartView, error)
	CloseCart(context.Context, uuid.UUID) error
	Cart(context.Context, uuid.UUID) (domain.CartView, error)
	AddToCart(ctx context.Context, cartID uuid.UUID, productID string, quantity int) (domain.CartView, error)
	UpdateQuantity(ctx context.Context, cartID uuid.UUID, productID string, quantity int) (domain.CartView, error)
	RemoveItem(ctx context.Context, cartID uuid.UUID, productID string) (domain.CartView, error)
	ClearCart(context.Context, uuid.UUID) (domain.CartView, error)
}

type PopularityReader interface {
	AddedCount(ctx context.Context, productID string) (int64, error)
}

// Outbound ports.

type CatalogLoader interface {
	LoadCatalog(context.Context) (*catalog.Catalog, error)
}

type CatalogStorage interface {
	StoreCatalog(context.Context, []domain.Category, []domain.Product) error
}

type CartEventsPublisher interface {
	PublishCartEvents(context.Context, ...domain.CartEvent) error
}

type CartEventsProducer interface {
	CartEventsPublisher
	closer
}
