package storage

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockSQLDB struct {
	mock.Mock
}

func (m *MockSQLDB) BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error) {
	args := m.Called(ctx, opts)
	return nil, args.Error(0)
}

func (m *MockSQLDB) ExecContext(
	ctx context.Context, query string, args ...any,
) (sql.Result, error) {
	called := m.Called(ctx, query, args)
	return nil, called.Error(0)
}

func (m *MockSQLDB) PingContext(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockSQLDB) PrepareContext(ctx context.Context, query string) (*sql.Stmt, error) {
	args := m.Called(ctx, query)
	return nil, args.Error(0)
}

func (m *MockSQLDB) QueryContext(
	ctx context.Context, query string, args ...any,
) (*sql.Rows, error) {
	called := m.Called(ctx, query)
	return nil, called.Error(0)
}

func TestProductsRepository(t *testing.T) {
	categories := []domain.Category{{ID: "oils", Name: "Essential Oils"}}

	t.Run("StoreCanceledContext", func(t *testing.T) {
		db := new(MockSQLDB)
		ctx, cancel := context.WithCancel(t.Context())
		cancel()

		err := NewProductsRepository(db).StoreCatalog(ctx, categories, nil)
		assert.ErrorIs(t, err, context.Canceled)
		db.AssertNotCalled(t, "BeginTx", mock.Anything, mock.Anything)
	})

	t.Run("StoreBeginFails", func(t *testing.T) {
		errConn := errors.New("connection refused")
		db := new(MockSQLDB)
		db.On("BeginTx", t.Context(), (*sql.TxOptions)(nil)).Return(errConn)

		err := NewProductsRepository(db).StoreCatalog(t.Context(), categories, nil)
		assert.ErrorIs(t, err, errConn)
		db.AssertExpectations(t)
	})

	t.Run("LoadCanceledContext", func(t *testing.T) {
		db := new(MockSQLDB)
		ctx, cancel := context.WithCancel(t.Context())
		cancel()

		_, err := NewProductsRepository(db).LoadCatalog(ctx)
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("LoadQueryFails", func(t *testing.T) {
		errQuery := errors.New("relation \"categories\" does not exist")
		db := new(MockSQLDB)
		db.On("QueryContext", t.Context(), mock.Anything).Return(errQuery)

		_, err := NewProductsRepository(db).LoadCatalog(t.Context())
		assert.ErrorIs(t, err, errQuery)
	})
}

func TestBenefits(t *testing.T) {
	t.Run("NilStoredAsEmptyArray", func(t *testing.T) {
		s, err := marshalBenefits(nil)
		require.NoError(t, err)
		assert.Equal(t, "[]", s)
	})

	t.Run("RoundTrip", func(t *testing.T) {
		in := []string{"Calming", "Sleep support"}
		s, err := marshalBenefits(in)
		require.NoError(t, err)

		out, err := unmarshalBenefits(s)
		require.NoError(t, err)
		assert.Equal(t, in, out)
	})

	t.Run("EmptyArrayLoadedAsNil", func(t *testing.T) {
		out, err := unmarshalBenefits("[]")
		require.NoError(t, err)
		assert.Nil(t, out)
	})

	t.Run("Malformed", func(t *testing.T) {
		_, err := unmarshalBenefits("{")
		assert.Error(t, err)
	})
}

func TestDeleteStale(t *testing.T) {
	categories := []domain.Category{{ID: "oils", Name: "Essential Oils"}}
	products := []domain.Product{{ID: "lavender-oil"}, {ID: "tea-tree-oil"}}

	t.Run("Regular", func(t *testing.T) {
		db := new(MockSQLDB)
		deleteProducts := db.On("ExecContext", t.Context(), deleteStaleProductsQuery,
			[]any{[]string{"lavender-oil", "tea-tree-oil"}}).Return(nil)
		db.On("ExecContext", t.Context(), deleteStaleCategoriesQuery,
			[]any{[]string{"oils"}}).Return(nil).NotBefore(deleteProducts)

		require.NoError(t, deleteStale(t.Context(), db, categories, products))
		db.AssertExpectations(t)
	})

	t.Run("EmptyCatalogDeletesEverything", func(t *testing.T) {
		db := new(MockSQLDB)
		db.On("ExecContext", t.Context(), deleteStaleProductsQuery,
			[]any{[]string{}}).Return(nil)
		db.On("ExecContext", t.Context(), deleteStaleCategoriesQuery,
			[]any{[]string{}}).Return(nil)

		require.NoError(t, deleteStale(t.Context(), db, nil, nil))
		db.AssertExpectations(t)
	})

	t.Run("ProductsDeleteFails", func(t *testing.T) {
		errFK := errors.New("foreign key violation")
		db := new(MockSQLDB)
		db.On("ExecContext", t.Context(), deleteStaleProductsQuery, mock.Anything).
			Return(errFK)

		err := deleteStale(t.Context(), db, categories, products)
		assert.ErrorIs(t, err, errFK)
		db.AssertNotCalled(t, "ExecContext", mock.Anything, deleteStaleCategoriesQuery, mock.Anything)
	})
}
