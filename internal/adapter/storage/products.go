package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/niksmo/storefront/internal/core/catalog"
	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
)

var _ port.CatalogLoader = (*ProductsRepository)(nil)
var _ port.CatalogStorage = (*ProductsRepository)(nil)

// A ProductsRepository keeps the catalog in Postgres. Rows carry a position
// so the catalog order survives the round trip.
type ProductsRepository struct {
	sqldb sqldb
}

func NewProductsRepository(sqldb sqldb) ProductsRepository {
	return ProductsRepository{sqldb}
}

// StoreCatalog upserts categories and products in one transaction.
func (r ProductsRepository) StoreCatalog(
	ctx context.Context, categories []domain.Category, products []domain.Product,
) (storeErr error) {
	const op = "ProductsRepository.StoreCatalog"
	log := slog.With("op", op)

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	tx, err := r.sqldb.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: failed to begin tx: %w", op, err)
	}

	defer func() {
		if storeErr == nil {
			if err := tx.Commit(); err != nil {
				storeErr = fmt.Errorf("%s: failed to commit %w", op, err)
			}
			return
		}

		err := tx.Rollback()
		if err != nil {
			log.Error("failed to rollback tx", "err", err)
		}
	}()

	categoriesQuery := `
		INSERT INTO categories (id, name, position)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			position = EXCLUDED.position;
	`

	for i, c := range categories {
		_, err := tx.ExecContext(ctx, categoriesQuery, c.ID, c.Name, i)
		if err != nil {
			return fmt.Errorf("%s: failed to upsert category %q: %w", op, c.ID, err)
		}
	}

	productsQuery := `
		INSERT INTO products (
			id, position, name, description, short_description,
			price, original_price, size, image, category_id,
			rating, reviews, in_stock, featured, seasonal,
			benefits, sourcing
		)
		VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9,
			$10, $11, $12, $13, $14, $15, $16, $17
		)
		ON CONFLICT (id) DO UPDATE SET
			position = EXCLUDED.position,
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			short_description = EXCLUDED.short_description,
			price = EXCLUDED.price,
			original_price = EXCLUDED.original_price,
			size = EXCLUDED.size,
			image = EXCLUDED.image,
			category_id = EXCLUDED.category_id,
			rating = EXCLUDED.rating,
			reviews = EXCLUDED.reviews,
			in_stock = EXCLUDED.in_stock,
			featured = EXCLUDED.featured,
			seasonal = EXCLUDED.seasonal,
			benefits = EXCLUDED.benefits,
			sourcing = EXCLUDED.sourcing;
	`

	stmt, err := tx.PrepareContext(ctx, productsQuery)
	if err != nil {
		return fmt.Errorf("%s: failed to prepare stmt: %w", op, err)
	}
	defer func() {
		if err := stmt.Close(); err != nil {
			log.Error("failed to close prepared stmt", "err", err)
		}
	}()

	for i, p := range products {
		benefits, err := marshalBenefits(p.Benefits)
		if err != nil {
			return fmt.Errorf("%s: product %q: %w", op, p.ID, err)
		}
		_, err = stmt.ExecContext(ctx,
			p.ID, i, p.Name, p.Description, p.ShortDescription,
			p.Price, p.OriginalPrice, p.Size, p.Image, p.Category,
			p.Rating, p.Reviews, p.InStock, p.Featured, p.Seasonal,
			benefits, p.Sourcing,
		)
		if err != nil {
			return fmt.Errorf("%s: failed to exec: %w", op, err)
		}
	}

	if err := deleteStale(ctx, tx, categories, products); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	log.Info(
		"catalog stored",
		"nCategories", len(categories), "nProducts", len(products),
	)
	return nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// deleteStale removes rows missing from the stored catalog. Products go
// first, they reference categories.
func deleteStale(
	ctx context.Context,
	ex execer,
	categories []domain.Category,
	products []domain.Product,
) error {
	productIDs := make([]string, len(products))
	for i, p := range products {
		productIDs[i] = p.ID
	}

	categoryIDs := make([]string, len(categories))
	for i, c := range categories {
		categoryIDs[i] = c.ID
	}

	_, err := ex.ExecContext(ctx, deleteStaleProductsQuery, productIDs)
	if err != nil {
		return fmt.Errorf("failed to delete stale products: %w", err)
	}

	_, err = ex.ExecContext(ctx, deleteStaleCategoriesQuery, categoryIDs)
	if err != nil {
		return fmt.Errorf("failed to delete stale categories: %w", err)
	}
	return nil
}

const (
	deleteStaleProductsQuery   = `DELETE FROM products WHERE NOT (id = ANY($1));`
	deleteStaleCategoriesQuery = `DELETE FROM categories WHERE NOT (id = ANY($1));`
)

// LoadCatalog reads every category and product and builds the catalog.
func (r ProductsRepository) LoadCatalog(ctx context.Context) (*catalog.Catalog, error) {
	const op = "ProductsRepository.LoadCatalog"
	log := slog.With("op", op)

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	categories, err := r.readCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	products, err := r.readProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if len(products) == 0 {
		return nil, fmt.Errorf("%s: products: %w", op, ErrNotFound)
	}

	c, err := catalog.New(categories, products)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("catalog loaded", "nProducts", c.Len())
	return c, nil
}

func (r ProductsRepository) readCategories(
	ctx context.Context,
) (vs []domain.Category, err error) {
	query := `SELECT id, name FROM categories ORDER BY position ASC, id ASC;`

	rows, err := r.sqldb.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var v domain.Category
		if err := rows.Scan(&v.ID, &v.Name); err != nil {
			return nil, err
		}
		vs = append(vs, v)
	}
	return vs, rows.Err()
}

func (r ProductsRepository) readProducts(
	ctx context.Context,
) (vs []domain.Product, err error) {
	query := `
		SELECT
			id, name, description, short_description,
			price, original_price, size, image, category_id,
			rating, reviews, in_stock, featured, seasonal,
			benefits, sourcing
		FROM products
		ORDER BY position ASC, id ASC;`

	rows, err := r.sqldb.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var v domain.Product
		var benefitsS string
		err := rows.Scan(
			&v.ID, &v.Name, &v.Description, &v.ShortDescription,
			&v.Price, &v.OriginalPrice, &v.Size, &v.Image, &v.Category,
			&v.Rating, &v.Reviews, &v.InStock, &v.Featured, &v.Seasonal,
			&benefitsS, &v.Sourcing,
		)
		if err != nil {
			return nil, err
		}

		v.Benefits, err = unmarshalBenefits(benefitsS)
		if err != nil {
			return nil, fmt.Errorf("product %q: %w", v.ID, err)
		}
		vs = append(vs, v)
	}
	return vs, rows.Err()
}

func marshalBenefits(benefits []string) (string, error) {
	if benefits == nil {
		benefits = []string{}
	}
	b, err := json.Marshal(benefits)
	return string(b), err
}

func unmarshalBenefits(s string) ([]string, error) {
	var benefits []string
	if err := json.Unmarshal([]byte(s), &benefits); err != nil {
		return nil, err
	}
	if len(benefits) == 0 {
		return nil, nil
	}
	return benefits, nil
}
