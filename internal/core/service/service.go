package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/niksmo/storefront/internal/core/cart"
	"github.com/niksmo/storefront/internal/core/catalog"
	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
)

var _ port.CatalogReader = (*Service)(nil)
var _ port.CartManager = (*Service)(nil)

const (
	defaultSessionTTL     = 30 * time.Minute
	defaultSweepInterval  = time.Minute
	defaultMaxAddQuantity = 99
)

// A Config tunes cart sessions and pricing. Zero values take defaults.
type Config struct {
	SessionTTL     time.Duration
	SweepInterval  time.Duration
	MaxAddQuantity int
	Shipping       cart.ShippingPolicy
	Clock          func() time.Time
}

func (c *Config) normalize() {
	if c.SessionTTL <= 0 {
		c.SessionTTL = defaultSessionTTL
	}
	if c.SweepInterval <= 0 {
		c.SweepInterval = defaultSweepInterval
	}
	if c.MaxAddQuantity <= 0 {
		c.MaxAddQuantity = defaultMaxAddQuantity
	}
	if c.Clock == nil {
		c.Clock = time.Now
	}
}

type Service struct {
	catalog   *catalog.Catalog
	publisher port.CartEventsPublisher
	sessions  *sessions
	cfg       Config
}

// New returns the storefront service. A nil publisher discards cart events.
func New(
	c *catalog.Catalog, publisher port.CartEventsPublisher, cfg Config,
) *Service {
	const op = "service.New"

	if c == nil {
		panic(fmt.Errorf("%s: catalog is nil", op)) // develop mistake
	}

	if publisher == nil {
		publisher = discardPublisher{}
	}

	cfg.normalize()

	return &Service{
		catalog:   c,
		publisher: publisher,
		sessions:  newSessions(cfg.Clock, cfg.SessionTTL),
		cfg:       cfg,
	}
}

// Run sweeps idle cart sessions until ctx is done.
func (s *Service) Run(ctx context.Context) {
	const op = "Service.Run"
	log := slog.With("op", op)

	ticker := time.NewTicker(s.cfg.SweepInterval)
	defer ticker.Stop()

	log.Info("running")
	for {
		select {
		case <-ctx.Done():
			log.Info("stopped")
			return
		case <-ticker.C:
			if n := s.sessions.sweep(); n != 0 {
				log.Info("idle carts discarded", "nCarts", n)
			}
		}
	}
}

type discardPublisher struct{}

func (discardPublisher) PublishCartEvents(context.Context, ...domain.CartEvent) error {
	return nil
}
