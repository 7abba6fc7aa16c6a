package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"storefront/internal/domain"
	"storefront/internal/repository"
)

// SettingsService gives access to the stored payment processor credentials.
type SettingsService struct {
	settingsRepo repository.SettingsRepository
	defaults     domain.PaymentSettings
}

// NewSettingsService creates a new SettingsService. defaults are the
// environment-provided keys used by SeedPaymentConfig.
func NewSettingsService(settingsRepo repository.SettingsRepository, defaults domain.PaymentSettings) *SettingsService {
	return &SettingsService{
		settingsRepo: settingsRepo,
		defaults:     defaults,
	}
}

// ActivePaymentConfig returns the single payment settings record. It is read
// fresh on every call so admin updates take effect immediately.
func (s *SettingsService) ActivePaymentConfig(ctx context.Context) (*domain.PaymentSettings, error) {
	settings, err := s.settingsRepo.GetPaymentSettings(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotConfigured
		}
		return nil, fmt.Errorf("%w: load payment settings: %v", ErrStorageUnavailable, err)
	}

	if settings.SecretKey == "" {
		return nil, ErrNotConfigured
	}

	return settings, nil
}

// SeedPaymentConfig stores the environment keys when no payment settings
// exist yet. It reports whether a record was created.
func (s *SettingsService) SeedPaymentConfig(ctx context.Context) (bool, error) {
	_, err := s.settingsRepo.GetPaymentSettings(ctx)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return false, err
	}

	if s.defaults.SecretKey == "" {
		log.Printf("[SETTINGS] no payment settings stored and STRIPE_SECRET_KEY is empty; checkout and webhooks are disabled")
		return false, nil
	}

	seeded := s.defaults
	seeded.ID = uuid.New().String()
	seeded.CreatedAt = time.Now().UTC()

	if err := s.settingsRepo.CreatePaymentSettings(ctx, &seeded); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			// Another instance seeded first.
			return false, nil
		}
		return false, err
	}

	log.Printf("[SETTINGS] seeded payment settings from environment")
	return true, nil
}

// EmailConfigProvider memoizes the email settings for the lifetime of the
// process. The first call loads or seeds the record; every later call
// returns the same value without touching storage, even if the stored row
// changes or the first load failed and fell back to environment defaults.
type EmailConfigProvider struct {
	settingsRepo repository.SettingsRepository
	defaults     domain.EmailSettings

	mu     sync.Mutex
	cached *domain.EmailSettings
}

// NewEmailConfigProvider creates a provider that falls back to defaults.
func NewEmailConfigProvider(settingsRepo repository.SettingsRepository, defaults domain.EmailSettings) *EmailConfigProvider {
	return &EmailConfigProvider{
		settingsRepo: settingsRepo,
		defaults:     defaults,
	}
}

// EmailConfig returns the cached email settings, loading them on first use.
// The returned value is shared and must not be modified.
func (p *EmailConfigProvider) EmailConfig(ctx context.Context) *domain.EmailSettings {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cached == nil {
		p.cached = p.load(ctx)
	}
	return p.cached
}

// Reset drops the cached value so the next call loads again.
func (p *EmailConfigProvider) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cached = nil
}

func (p *EmailConfigProvider) load(ctx context.Context) *domain.EmailSettings {
	settings, err := p.settingsRepo.GetEmailSettings(ctx)
	if err == nil {
		return settings
	}

	if errors.Is(err, repository.ErrNotFound) {
		seeded := p.defaults
		seeded.ID = uuid.New().String()
		if err := p.settingsRepo.CreateEmailSettings(ctx, &seeded); err != nil {
			log.Printf("[SETTINGS] failed to persist seeded email settings: %v", err)
		}
		return &seeded
	}

	// Not persisted: the store could not be reached.
	log.Printf("[SETTINGS] failed to load email settings, using environment defaults until restart: %v", err)
	fallback := p.defaults
	return &fallback
}
