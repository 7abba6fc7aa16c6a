package repository

import (
	"context"

	"storefront/internal/domain"
)

// ProductRepository defines the read operations the core needs from the catalog.
type ProductRepository interface {
	// GetByID retrieves a product by ID.
	GetByID(ctx context.Context, id string) (*domain.Product, error)

	// GetActive retrieves all products available for sale.
	GetActive(ctx context.Context) ([]*domain.Product, error)
}
