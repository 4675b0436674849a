package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/niksmo/storefront/internal/core/cart"
	"github.com/niksmo/storefront/internal/core/domain"
)

// mutation changes a store and returns the events describing the change.
type mutation func(*cart.Store) []domain.CartEvent

func (s *Service) OpenCart(ctx context.Context) (domain.CartView, error) {
	const op = "Service.OpenCart"

	if err := ctx.Err(); err != nil {
		return domain.CartView{}, fmt.Errorf("%s: %w", op, err)
	}

	id := s.sessions.open()
	slog.Debug("cart opened", "op", op, "cartID", id)
	return s.Cart(ctx, id)
}

func (s *Service) CloseCart(ctx context.Context, cartID uuid.UUID) error {
	const op = "Service.CloseCart"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if !s.sessions.close(cartID) {
		return fmt.Errorf("%s: %w", op, domain.ErrCartNotFound)
	}
	return nil
}

func (s *Service) Cart(ctx context.Context, cartID uuid.UUID) (domain.CartView, error) {
	const op = "Service.Cart"

	v, err := s.withCart(ctx, cartID, nil)
	if err != nil {
		return domain.CartView{}, fmt.Errorf("%s: %w", op, err)
	}
	return v, nil
}

// AddToCart adds quantity units of an in-stock product. Zero quantity
// means one unit.
func (s *Service) AddToCart(
	ctx context.Context, cartID uuid.UUID, productID string, quantity int,
) (domain.CartView, error) {
	const op = "Service.AddToCart"

	if quantity == 0 {
		quantity = 1
	}
	if quantity < 0 || quantity > s.cfg.MaxAddQuantity {
		return domain.CartView{}, fmt.Errorf(
			"%s: %w: must be between 1 and %d",
			op, domain.ErrInvalidQuantity, s.cfg.MaxAddQuantity,
		)
	}

	p, err := s.catalog.Product(productID)
	if err != nil {
		return domain.CartView{}, fmt.Errorf("%s: %w", op, err)
	}
	if !p.InStock {
		return domain.CartView{}, fmt.Errorf(
			"%s: %w: %q", op, domain.ErrOutOfStock, productID,
		)
	}

	snapshot := p.Snapshot()
	v, err := s.withCart(ctx, cartID, func(st *cart.Store) []domain.CartEvent {
		var li domain.CartLineItem
		for range quantity {
			li = st.AddItem(snapshot)
		}
		return []domain.CartEvent{
			s.event(cartID, domain.CartItemAdded, li.ID, quantity, li),
		}
	})
	if err != nil {
		return domain.CartView{}, fmt.Errorf("%s: %w", op, err)
	}
	return v, nil
}

// UpdateQuantity replaces the quantity of a line item. A quantity below 1
// removes it; an absent line item is left alone.
func (s *Service) UpdateQuantity(
	ctx context.Context, cartID uuid.UUID, productID string, quantity int,
) (domain.CartView, error) {
	const op = "Service.UpdateQuantity"

	v, err := s.withCart(ctx, cartID, func(st *cart.Store) []domain.CartEvent {
		li, ok := st.Item(productID)
		if !ok || !st.UpdateQuantity(productID, quantity) {
			return nil
		}
		if quantity < 1 {
			return []domain.CartEvent{
				s.event(cartID, domain.CartItemRemoved, productID, li.Quantity, li),
			}
		}
		return []domain.CartEvent{
			s.event(cartID, domain.CartQuantityUpdated, productID, quantity, li),
		}
	})
	if err != nil {
		return domain.CartView{}, fmt.Errorf("%s: %w", op, err)
	}
	return v, nil
}

func (s *Service) RemoveItem(
	ctx context.Context, cartID uuid.UUID, productID string,
) (domain.CartView, error) {
	const op = "Service.RemoveItem"

	v, err := s.withCart(ctx, cartID, func(st *cart.Store) []domain.CartEvent {
		li, ok := st.Item(productID)
		if !ok || !st.RemoveItem(productID) {
			return nil
		}
		return []domain.CartEvent{
			s.event(cartID, domain.CartItemRemoved, productID, li.Quantity, li),
		}
	})
	if err != nil {
		return domain.CartView{}, fmt.Errorf("%s: %w", op, err)
	}
	return v, nil
}

func (s *Service) ClearCart(
	ctx context.Context, cartID uuid.UUID,
) (domain.CartView, error) {
	const op = "Service.ClearCart"

	v, err := s.withCart(ctx, cartID, func(st *cart.Store) []domain.CartEvent {
		n := st.ItemCount()
		if !st.Clear() {
			return nil
		}
		e := s.event(cartID, domain.CartCleared, "", n, domain.CartLineItem{})
		return []domain.CartEvent{e}
	})
	if err != nil {
		return domain.CartView{}, fmt.Errorf("%s: %w", op, err)
	}
	return v, nil
}

// withCart applies fn to the session store, snapshots the result and
// publishes the produced events. A nil fn only reads.
func (s *Service) withCart(
	ctx context.Context, cartID uuid.UUID, fn mutation,
) (domain.CartView, error) {
	if err := ctx.Err(); err != nil {
		return domain.CartView{}, err
	}

	sess, ok := s.sessions.get(cartID)
	if !ok {
		return domain.CartView{}, domain.ErrCartNotFound
	}

	sess.mu.Lock()
	var events []domain.CartEvent
	if fn != nil {
		events = fn(sess.store)
	}
	v := s.view(cartID, sess.store)
	sess.mu.Unlock()

	s.publish(ctx, events)
	return v, nil
}

func (s *Service) view(cartID uuid.UUID, st *cart.Store) domain.CartView {
	return domain.CartView{
		CartID:    cartID,
		Items:     st.Items(),
		ItemCount: st.ItemCount(),
		Quote:     st.Quote(s.cfg.Shipping),
	}
}

func (s *Service) event(
	cartID uuid.UUID,
	kind domain.CartEventKind,
	productID string,
	quantity int,
	li domain.CartLineItem,
) domain.CartEvent {
	return domain.CartEvent{
		CartID:     cartID,
		Kind:       kind,
		ProductID:  productID,
		Quantity:   quantity,
		UnitPrice:  li.Price,
		OccurredAt: s.cfg.Clock(),
	}
}

// publish never fails the cart operation that produced the events.
func (s *Service) publish(ctx context.Context, events []domain.CartEvent) {
	const op = "Service.publish"

	if len(events) == 0 {
		return
	}

	err := s.publisher.PublishCartEvents(ctx, events...)
	if err != nil {
		slog.Warn(
			"failed to publish cart events",
			"op", op, "nEvents", len(events), "err", err,
		)
	}
}
