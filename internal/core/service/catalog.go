package service

import (
	"context"
	"fmt"

	"github.com/niksmo/storefront/internal/core/catalog"
	"github.com/niksmo/storefront/internal/core/domain"
)

func (s *Service) Categories(context.Context) []domain.Category {
	return s.catalog.Categories()
}

func (s *Service) Benefits(context.Context) []string {
	return s.catalog.Benefits()
}

func (s *Service) Featured(context.Context) []domain.Product {
	return s.catalog.Featured()
}

func (s *Service) QueryProducts(
	_ context.Context, params domain.QueryParams,
) []domain.Product {
	return s.catalog.Query(params)
}

func (s *Service) ProductDetail(
	ctx context.Context, productID string,
) (domain.ProductDetail, error) {
	const op = "Service.ProductDetail"

	if err := ctx.Err(); err != nil {
		return domain.ProductDetail{}, fmt.Errorf("%s: %w", op, err)
	}

	p, err := s.catalog.Product(productID)
	if err != nil {
		return domain.ProductDetail{}, fmt.Errorf("%s: %w", op, err)
	}

	related, err := s.catalog.Related(productID, catalog.DefaultRelatedLimit)
	if err != nil {
		return domain.ProductDetail{}, fmt.Errorf("%s: %w", op, err)
	}

	category, _ := s.catalog.Category(p.Category)

	return domain.ProductDetail{
		Product:  p,
		Category: category,
		Related:  related,
	}, nil
}
