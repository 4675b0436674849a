package httphandler_test

import (
	"context"

	"github.com/google/uuid"
	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/stretchr/testify/mock"
)

type MockCatalogReader struct {
	mock.Mock
}

func (m *MockCatalogReader) Categories(ctx context.Context) []domain.Category {
	return m.Called(ctx).Get(0).([]domain.Category)
}

func (m *MockCatalogReader) Benefits(ctx context.Context) []string {
	return m.Called(ctx).Get(0).([]string)
}

func (m *MockCatalogReader) Featured(ctx context.Context) []domain.Product {
	return m.Called(ctx).Get(0).([]domain.Product)
}

func (m *MockCatalogReader) QueryProducts(
	ctx context.Context, params domain.QueryParams,
) []domain.Product {
	return m.Called(ctx, params).Get(0).([]domain.Product)
}

func (m *MockCatalogReader) ProductDetail(
	ctx context.Context, productID string,
) (domain.ProductDetail, error) {
	args := m.Called(ctx, productID)
	return args.Get(0).(domain.ProductDetail), args.Error(1)
}

type MockCartManager struct {
	mock.Mock
}

func (m *MockCartManager) OpenCart(ctx context.Context) (domain.CartView, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.CartView), args.Error(1)
}

func (m *MockCartManager) CloseCart(ctx context.Context, cartID uuid.UUID) error {
	return m.Called(ctx, cartID).Error(0)
}

func (m *MockCartManager) Cart(
	ctx context.Context, cartID uuid.UUID,
) (domain.CartView, error) {
	args := m.Called(ctx, cartID)
	return args.Get(0).(domain.CartView), args.Error(1)
}

func (m *MockCartManager) AddToCart(
	ctx context.Context, cartID uuid.UUID, productID string, quantity int,
) (domain.CartView, error) {
	args := m.Called(ctx, cartID, productID, quantity)
	return args.Get(0).(domain.CartView), args.Error(1)
}

func (m *MockCartManager) UpdateQuantity(
	ctx context.Context, cartID uuid.UUID, productID string, quantity int,
) (domain.CartView, error) {
	args := m.Called(ctx, cartID, productID, quantity)
	return args.Get(0).(domain.CartView), args.Error(1)
}

func (m *MockCartManager) RemoveItem(
	ctx context.Context, cartID uuid.UUID, productID string,
) (domain.CartView, error) {
	args := m.Called(ctx, cartID, productID)
	return args.Get(0).(domain.CartView), args.Error(1)
}

func (m *MockCartManager) ClearCart(
	ctx context.Context, cartID uuid.UUID,
) (domain.CartView, error) {
	args := m.Called(ctx, cartID)
	return args.Get(0).(domain.CartView), args.Error(1)
}

type MockPopularityReader struct {
	mock.Mock
}

func (m *MockPopularityReader) AddedCount(
	ctx context.Context, productID string,
) (int64, error) {
	args := m.Called(ctx, productID)
	return args.Get(0).(int64), args.Error(1)
}
