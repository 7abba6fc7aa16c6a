package postgres

import (
	"context"
	"database/sql"
	"errors"

	"storefront/internal/domain"
	"storefront/internal/repository"
)

// SettingsRepository is a PostgreSQL implementation of repository.SettingsRepository.
// Both tables carry a singleton column so at most one row can exist.
type SettingsRepository struct {
	q Querier
}

// NewSettingsRepository creates a new PostgreSQL settings repository.
func NewSettingsRepository(db *sql.DB) *SettingsRepository {
	return &SettingsRepository{q: db}
}

// GetPaymentSettings retrieves the active payment settings.
func (r *SettingsRepository) GetPaymentSettings(ctx context.Context) (*domain.PaymentSettings, error) {
	query := `
		SELECT id, secret_key, publishable_key, created_at
		FROM payment_settings LIMIT 1
	`

	var settings domain.PaymentSettings
	err := r.q.QueryRowContext(ctx, query).Scan(
		&settings.ID,
		&settings.SecretKey,
		&settings.PublishableKey,
		&settings.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return &settings, nil
}

// CreatePaymentSettings stores the payment settings record.
func (r *SettingsRepository) CreatePaymentSettings(ctx context.Context, settings *domain.PaymentSettings) error {
	query := `
		INSERT INTO payment_settings (id, secret_key, publishable_key, created_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.q.ExecContext(ctx, query,
		settings.ID,
		settings.SecretKey,
		settings.PublishableKey,
		settings.CreatedAt,
	)
	if isUniqueViolation(err) {
		return repository.ErrDuplicate
	}

	return err
}

// GetEmailSettings retrieves the email settings.
func (r *SettingsRepository) GetEmailSettings(ctx context.Context) (*domain.EmailSettings, error) {
	query := `
		SELECT id, smtp_host, smtp_port, username, password, sender, recipient
		FROM email_settings LIMIT 1
	`

	var settings domain.EmailSettings
	err := r.q.QueryRowContext(ctx, query).Scan(
		&settings.ID,
		&settings.SMTPHost,
		&settings.SMTPPort,
		&settings.Username,
		&settings.Password,
		&settings.Sender,
		&settings.Recipient,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return &settings, nil
}

// CreateEmailSettings stores the email settings record.
func (r *SettingsRepository) CreateEmailSettings(ctx context.Context, settings *domain.EmailSettings) error {
	query := `
		INSERT INTO email_settings (id, smtp_host, smtp_port, username, password, sender, recipient)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.q.ExecContext(ctx, query,
		settings.ID,
		settings.SMTPHost,
		settings.SMTPPort,
		settings.Username,
		settings.Password,
		settings.Sender,
		settings.Recipient,
	)
	if isUniqueViolation(err) {
		return repository.ErrDuplicate
	}

	return err
}

// Ensure SettingsRepository implements repository.SettingsRepository.
var _ repository.SettingsRepository = (*SettingsRepository)(nil)
