package service

import (
	"context"
	"log"

	"storefront/internal/domain"
	"storefront/internal/redis"
	"storefront/internal/repository"
)

// CatalogService resolves products for checkout.
type CatalogService struct {
	productRepo repository.ProductRepository
	cache       redis.ProductCacheInterface
}

// NewCatalogService creates a new CatalogService. cache may be nil.
func NewCatalogService(productRepo repository.ProductRepository, cache redis.ProductCacheInterface) *CatalogService {
	return &CatalogService{
		productRepo: productRepo,
		cache:       cache,
	}
}

// GetProduct retrieves a product, reading through the cache.
func (s *CatalogService) GetProduct(ctx context.Context, productID string) (*domain.Product, error) {
	if productID == "" {
		return nil, ErrInvalidProductID
	}

	if s.cache != nil {
		cached, err := s.cache.GetProduct(ctx, productID)
		if err != nil {
			log.Printf("[CATALOG] cache read failed for product %s: %v", productID, err)
		} else if cached != nil {
			return &domain.Product{
				ID:         cached.ID,
				Name:       cached.Name,
				UnitAmount: cached.UnitAmount,
				Currency:   cached.Currency,
				Active:     cached.Active,
			}, nil
		}
	}

	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		_ = s.cache.SetProduct(ctx, &redis.CachedProduct{
			ID:         product.ID,
			Name:       product.Name,
			UnitAmount: product.UnitAmount,
			Currency:   product.Currency,
			Active:     product.Active,
		})
	}

	return product, nil
}

// ListProducts returns the products currently for sale.
func (s *CatalogService) ListProducts(ctx context.Context) ([]*domain.Product, error) {
	return s.productRepo.GetActive(ctx)
}
