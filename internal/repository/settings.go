package repository

import (
	"context"

	"storefront/internal/domain"
)

// SettingsRepository defines the persistence operations for stored
// configuration records.
type SettingsRepository interface {
	// GetPaymentSettings retrieves the active payment settings.
	// Returns ErrNotFound if none have been stored.
	GetPaymentSettings(ctx context.Context) (*domain.PaymentSettings, error)

	// CreatePaymentSettings stores the payment settings record.
	CreatePaymentSettings(ctx context.Context, settings *domain.PaymentSettings) error

	// GetEmailSettings retrieves the email settings.
	// Returns ErrNotFound if none have been stored.
	GetEmailSettings(ctx context.Context) (*domain.EmailSettings, error)

	// CreateEmailSettings stores the email settings record.
	CreateEmailSettings(ctx context.Context, settings *domain.EmailSettings) error
}
