package repository

import (
	"context"

	"storefront/internal/domain"
)

// AdminRepository defines the persistence operations for admin users.
type AdminRepository interface {
	// Count returns the number of admin users.
	Count(ctx context.Context) (int, error)

	// Create persists a new admin user.
	Create(ctx context.Context, admin *domain.AdminUser) error
}
