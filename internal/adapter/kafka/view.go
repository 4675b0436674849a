package kafka

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lovoo/goka"
	"github.com/lovoo/goka/codec"
	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
)

var _ port.PopularityReader = (*PopularityView)(nil)

type table interface {
	Run(ctx context.Context) error
	Get(key string) (any, error)
	Recovered() bool
}

// A PopularityView serves the counters of [PopularityProcessor] from a local
// copy of its group table.
type PopularityView struct {
	gv table
}

func NewPopularityView(
	seedBrokers []string, group string, opts ...goka.ViewOption,
) (*PopularityView, error) {
	const op = "NewPopularityView"

	opts = append([]goka.ViewOption{withNonlogViewOpt()}, opts...)
	gv, err := goka.NewView(
		seedBrokers,
		goka.GroupTable(goka.Group(group)),
		new(codec.Int64),
		opts...,
	)
	if err != nil {
		return nil, opErr(err, op)
	}

	return &PopularityView{gv}, nil
}

// Run keeps the view up to date until ctx is done.
func (v *PopularityView) Run(ctx context.Context, stopFn context.CancelFunc) {
	const op = "PopularityView.Run"
	log := slog.With("op", op)

	defer stopFn()

	log.Info("running")
	err := v.gv.Run(ctx)
	if err != nil {
		log.Error("unexpected fail on run", "err", err)
		return
	}
	log.Info("stopped")
}

// AddedCount returns the number of units of the product ever added to a cart.
// A product nobody added yet counts zero.
func (v *PopularityView) AddedCount(
	ctx context.Context, productID string,
) (int64, error) {
	const op = "PopularityView.AddedCount"

	if err := ctx.Err(); err != nil {
		return 0, opErr(err, op)
	}

	if !v.gv.Recovered() {
		return 0, opErr(domain.ErrPopularityUnavailable, op)
	}

	value, err := v.gv.Get(productID)
	if err != nil {
		return 0, opErr(fmt.Errorf("%w: %w", domain.ErrPopularityUnavailable, err), op)
	}

	if value == nil {
		return 0, nil
	}

	count, ok := value.(int64)
	if !ok {
		return 0, opErr(
			fmt.Errorf("%w: %T", ErrInvalidValueType, value), op,
		)
	}
	return count, nil
}
