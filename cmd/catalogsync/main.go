// Command catalogsync makes the Postgres catalog tables match the JSON
// content file.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/niksmo/storefront/config"
	"github.com/niksmo/storefront/internal/adapter/storage"
	"github.com/niksmo/storefront/internal/core/catalog"
	"github.com/niksmo/storefront/internal/core/port"
	"github.com/niksmo/storefront/pkg/sigctx"
)

func main() {
	sigCtx, stop := sigctx.NotifyContext()
	defer stop()

	cfg := config.Load()
	initLogger(cfg.LogLevel)

	if cfg.Catalog.ContentFile == "" || cfg.Catalog.SQLDB == "" {
		die("catalog.content_file and catalog.sql_db are required")
	}

	start := time.Now()

	sqldb, err := storage.NewSQLDB(sigCtx, cfg.Catalog.SQLDB)
	if err != nil {
		die(err)
	}

	err = syncCatalog(
		sigCtx, cfg.Catalog.ContentFile, storage.NewProductsRepository(sqldb),
	)
	sqldb.Close()
	if err != nil {
		die(err)
	}

	slog.Info(
		"catalog synced",
		"file", cfg.Catalog.ContentFile,
		"took", time.Since(start),
	)
}

// syncCatalog stores the content file only if the service would accept it.
func syncCatalog(
	ctx context.Context, path string, s port.CatalogStorage,
) error {
	const op = "syncCatalog"

	categories, products, err := storage.ReadContentFile(path)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if _, err := catalog.New(categories, products); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.StoreCatalog(ctx, categories, products); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	slog.Info(
		"content stored",
		"nCategories", len(categories),
		"nProducts", len(products),
	)
	return nil
}

func initLogger(level slog.Leveler) {
	opts := &slog.HandlerOptions{Level: level}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, opts)))
}

func die(v any) {
	fmt.Printf("catalogsync: %v\n", v)
	os.Exit(2)
}
