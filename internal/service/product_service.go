package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/caffeinecoffee/storefront/internal/domain"
	"github.com/caffeinecoffee/storefront/internal/repository"
)

type productService struct {
	repos  *repository.Repositories
	logger *zap.Logger
}

// NewProductService creates a new product service
func NewProductService(repos *repository.Repositories, logger *zap.Logger) *productService {
	return &productService{
		repos:  repos,
		logger: logger,
	}
}

// ListProducts returns the catalog in display order
func (s *productService) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return s.repos.Catalog.List(ctx)
}

// GetProduct returns the product detail for id
func (s *productService) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	return s.repos.Catalog.GetByID(ctx, id)
}

// AddProductToCart looks up productID in the catalog and adds quantity
// of it to cart, so prices always come from the catalog.
func (s *productService) AddProductToCart(ctx context.Context, cart *CartStore, productID string, quantity int) (*domain.Product, error) {
	product, err := s.repos.Catalog.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	if err := cart.AddToCart(ctx, *product, quantity); err != nil {
		return nil, err
	}

	s.logger.Debug("Added to cart",
		zap.String("product_id", product.ID),
		zap.Int("quantity", quantity),
	)
	return product, nil
}
