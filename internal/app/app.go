package app

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sync"

	"github.com/niksmo/storefront/config"
	"github.com/niksmo/storefront/internal/adapter"
	"github.com/niksmo/storefront/internal/adapter/httphandler"
	"github.com/niksmo/storefront/internal/adapter/kafka"
	"github.com/niksmo/storefront/internal/adapter/storage"
	"github.com/niksmo/storefront/internal/core/cart"
	"github.com/niksmo/storefront/internal/core/catalog"
	"github.com/niksmo/storefront/internal/core/port"
	"github.com/niksmo/storefront/internal/core/service"
	"github.com/niksmo/storefront/pkg/schema"
	"github.com/twmb/franz-go/pkg/sr"
)

type broker struct {
	producer       port.CartEventsProducer
	popularityProc *kafka.PopularityProcessor
	popularityView *kafka.PopularityView
}

type App struct {
	ctx        context.Context
	cfg        config.Config
	sqldb      *storage.SQLDB
	catalog    *catalog.Catalog
	broker     *broker
	service    *service.Service
	httpServer httphandler.HTTPServer
	wg         sync.WaitGroup
}

func New(ctx context.Context, cfg config.Config) *App {
	app := &App{ctx: ctx, cfg: cfg}

	app.initLogger()
	app.initCatalog()
	if cfg.Broker.Enabled {
		app.initBroker()
	}
	app.initCoreService()
	app.initInboundAdapters()

	return app
}

func (app *App) initLogger() {
	opts := &slog.HandlerOptions{Level: app.cfg.LogLevel}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, opts))
	slog.SetDefault(logger)
}

func (app *App) initCatalog() {
	const op = "App.initCatalog"

	var loader port.CatalogLoader
	switch app.cfg.Catalog.Source {
	case config.SourcePostgres:
		sqldb, err := storage.NewSQLDB(app.ctx, app.cfg.Catalog.SQLDB)
		if err != nil {
			app.fallDown(op, err)
		}
		app.sqldb = &sqldb
		loader = storage.NewProductsRepository(sqldb)
	default:
		loader = storage.NewFileCatalogLoader(app.cfg.Catalog.ContentFile)
	}

	c, err := loader.LoadCatalog(app.ctx)
	if err != nil {
		app.fallDown(op, err)
	}
	app.catalog = c
}

func (app *App) initBroker() {
	const op = "App.initBroker"

	ctx := app.ctx
	brokerCfg := app.cfg.Broker
	topic := brokerCfg.Topics.CartEvents
	group := brokerCfg.Consumers.PopularityGroup

	tlsConfig := app.tlsConfig()
	kafka.UseTLS(tlsConfig)

	srOpts := []sr.ClientOpt{sr.URLs(brokerCfg.SchemaRegistryURLs...)}
	if tlsConfig != nil {
		srOpts = append(srOpts, sr.HTTPClient(&http.Client{
			Transport: &http.Transport{TLSClientConfig: tlsConfig},
		}))
	}
	srClient, err := sr.NewClient(srOpts...)
	if err != nil {
		app.fallDown(op, err)
	}

	serde, err := schema.NewSerdeCartEventV1(
		ctx,
		schema.SubjectOpt(topic+"-value"),
		schema.SchemaIdentifierOpt(schema.NewSchemaCreater(srClient)),
	)
	if err != nil {
		app.fallDown(op, err)
	}

	producer, err := kafka.NewCartEventsProducer(
		kafka.ProducerClientOpt(ctx, brokerCfg.SeedBrokers, topic, tlsConfig),
		kafka.ProducerEncoderOpt(serde),
	)
	if err != nil {
		app.fallDown(op, err)
	}

	proc, err := kafka.NewPopularityProcessor(
		brokerCfg.SeedBrokers, topic, group, serde,
	)
	if err != nil {
		app.fallDown(op, err)
	}

	view, err := kafka.NewPopularityView(brokerCfg.SeedBrokers, group)
	if err != nil {
		app.fallDown(op, err)
	}

	app.broker = &broker{
		producer:       producer,
		popularityProc: proc,
		popularityView: view,
	}
}

func (app *App) tlsConfig() *tls.Config {
	const op = "App.tlsConfig"

	files := app.cfg.Broker.TLS
	if !files.Enabled() {
		return nil
	}

	tlsConfig, err := adapter.MakeTLSConfig(
		files.CAFile, files.CertFile, files.KeyFile,
	)
	if err != nil {
		app.fallDown(op, err)
	}
	return tlsConfig
}

func (app *App) initCoreService() {
	var publisher port.CartEventsPublisher
	if app.broker != nil {
		publisher = app.broker.producer
	}

	app.service = service.New(app.catalog, publisher, service.Config{
		SessionTTL:     app.cfg.Cart.SessionTTL,
		SweepInterval:  app.cfg.Cart.SweepInterval,
		MaxAddQuantity: app.cfg.Cart.MaxAddQuantity,
		Shipping: cart.ShippingPolicy{
			FreeThreshold: app.cfg.Pricing.FreeShippingThreshold,
			Fee:           app.cfg.Pricing.ShippingFee,
		},
	})
}

func (app *App) initInboundAdapters() {
	var popularity port.PopularityReader
	if app.broker != nil {
		popularity = app.broker.popularityView
	}

	mux := http.NewServeMux()
	httphandler.RegisterHealth(mux)
	httphandler.RegisterCatalog(mux, app.service, popularity)
	httphandler.RegisterCart(mux, app.service, app.cfg.Pricing.Currency)

	handler := httphandler.LogRequests(httphandler.AllowJSON(mux))
	app.httpServer = httphandler.NewHTTPServer(app.cfg.HTTPServerAddr, handler)
}

// Run starts every component. stopFn is called when any of them stops on
// its own so the process can shut down.
func (app *App) Run(stopFn context.CancelFunc) {
	go app.httpServer.Run(stopFn)

	app.wg.Add(1)
	go func() {
		defer app.wg.Done()
		app.service.Run(app.ctx)
	}()

	if app.broker != nil {
		go app.broker.popularityView.Run(app.ctx, stopFn)

		app.wg.Add(1)
		go app.broker.popularityProc.Run(app.ctx, stopFn, &app.wg)
	}

	slog.Info("application is running", "nProducts", app.catalog.Len())
}

func (app *App) Close(ctx context.Context) {
	slog.Info("application is closing...")

	app.httpServer.Close(ctx)

	if app.broker != nil {
		app.broker.popularityProc.Close()
		app.broker.producer.Close()
	}

	app.wg.Wait()

	if app.sqldb != nil {
		app.sqldb.Close()
	}

	slog.Info("application is closed")
}

func (app *App) fallDown(op string, err error) {
	panic(fmt.Errorf("%s: %w", op, err))
}
