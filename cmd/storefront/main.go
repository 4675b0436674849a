// Command storefront serves the catalog and shopping carts over HTTP.
package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/niksmo/storefront/config"
	"github.com/niksmo/storefront/internal/app"
	"github.com/niksmo/storefront/pkg/sigctx"
)

const closeTimeout = 5 * time.Second

func main() {
	os.Exit(run())
}

func run() (code int) {
	sigCtx, stop := sigctx.NotifyContext()
	defer stop()

	cfg := config.Load()
	cfg.Print()

	defer func() {
		if r := recover(); r != nil {
			slog.Error("failed to start", "err", r)
			code = 1
		}
	}()

	storefront := app.New(sigCtx, cfg)
	storefront.Run(stop)

	<-sigCtx.Done()
	ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
	defer cancel()

	storefront.Close(ctx)
	return 0
}
