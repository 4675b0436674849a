package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/niksmo/storefront/internal/core/catalog"
	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
)

var _ port.CatalogLoader = (*FileCatalogLoader)(nil)

// A FileCatalogLoader reads the catalog from the JSON content file.
type FileCatalogLoader struct {
	path string
}

func NewFileCatalogLoader(path string) FileCatalogLoader {
	return FileCatalogLoader{path}
}

func (l FileCatalogLoader) LoadCatalog(ctx context.Context) (*catalog.Catalog, error) {
	const op = "FileCatalogLoader.LoadCatalog"
	log := slog.With("op", op)

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	categories, products, err := ReadContentFile(l.path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	c, err := catalog.New(categories, products)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("catalog loaded", "path", l.path, "nProducts", c.Len())
	return c, nil
}

// ReadContentFile decodes the content file without validating it.
func ReadContentFile(path string) ([]domain.Category, []domain.Product, error) {
	const op = "storage.ReadContentFile"

	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}
	defer f.Close()

	var c content
	dec := json.NewDecoder(f)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&c); err != nil {
		return nil, nil, fmt.Errorf("%s: invalid JSON content: %w", op, err)
	}

	categories, products := c.toDomain()
	return categories, products, nil
}
