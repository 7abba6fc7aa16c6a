package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"storefront/internal/domain"
	"storefront/internal/repository"
)

// MaxItemQuantity caps the quantity of a single line item.
const MaxItemQuantity = 99

// CheckoutURLs are the pages the processor redirects the buyer back to.
type CheckoutURLs struct {
	SuccessURL string
	CancelURL  string
}

// CheckoutService starts hosted checkouts.
type CheckoutService struct {
	orderRepo repository.OrderRepository
	catalog   *CatalogService
	settings  *SettingsService
	processor PaymentProcessor
	urls      CheckoutURLs
}

// NewCheckoutService creates a new CheckoutService.
func NewCheckoutService(
	orderRepo repository.OrderRepository,
	catalog *CatalogService,
	settings *SettingsService,
	processor PaymentProcessor,
	urls CheckoutURLs,
) *CheckoutService {
	return &CheckoutService{
		orderRepo: orderRepo,
		catalog:   catalog,
		settings:  settings,
		processor: processor,
		urls:      urls,
	}
}

// CheckoutItem is a requested product and quantity.
type CheckoutItem struct {
	ProductID string
	Quantity  int64
}

// CheckoutRequest contains the parameters for starting a checkout.
type CheckoutRequest struct {
	Items         []CheckoutItem
	CustomerEmail string
}

// CheckoutResult contains the pending order and where to send the buyer.
type CheckoutResult struct {
	Order       *domain.Order
	RedirectURL string
}

// StartCheckout persists a PENDING order, opens a hosted checkout session
// for it and binds the session id to the order. The order is stored before
// the processor is called so a completion webhook can always find it.
func (s *CheckoutService) StartCheckout(ctx context.Context, req CheckoutRequest) (*CheckoutResult, error) {
	if len(req.Items) == 0 {
		return nil, ErrEmptyCart
	}

	items, currency, err := s.resolveItems(ctx, req.Items)
	if err != nil {
		return nil, err
	}

	settings, err := s.settings.ActivePaymentConfig(ctx)
	if err != nil {
		return nil, err
	}

	var total int64
	for _, item := range items {
		total += item.Subtotal()
	}

	now := time.Now().UTC()
	order := &domain.Order{
		ID:            uuid.New().String(),
		Status:        domain.OrderStatusPending,
		Items:         items,
		TotalAmount:   total,
		Currency:      currency,
		CustomerEmail: strings.TrimSpace(req.CustomerEmail),
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, err
	}

	session, err := s.processor.CreateCheckoutSession(ctx, CheckoutSessionRequest{
		SecretKey:     settings.SecretKey,
		OrderID:       order.ID,
		CustomerEmail: order.CustomerEmail,
		Currency:      order.Currency,
		Items:         order.Items,
		SuccessURL:    s.urls.SuccessURL,
		CancelURL:     s.urls.CancelURL,
	})
	if err != nil {
		s.cancelOrder(ctx, order.ID, "processor error")
		return nil, fmt.Errorf("%w: %v", ErrProcessorUnavailable, err)
	}

	// The unbound order can never be confirmed, so it is cancelled rather
	// than left pending.
	if err := s.orderRepo.AttachSession(ctx, order.ID, session.ID); err != nil {
		s.cancelOrder(ctx, order.ID, "session attach error")
		return nil, fmt.Errorf("%w: attach session %s to order %s: %v", ErrStorageUnavailable, session.ID, order.ID, err)
	}
	order.SessionID = session.ID

	log.Printf("[CHECKOUT] order=%s session=%s total=%d %s", order.ID, session.ID, order.TotalAmount, order.Currency)

	return &CheckoutResult{
		Order:       order,
		RedirectURL: session.URL,
	}, nil
}

// cancelOrder is best effort; the checkout error is what the caller sees.
func (s *CheckoutService) cancelOrder(ctx context.Context, orderID, reason string) {
	if _, err := s.orderRepo.CancelPending(ctx, orderID); err != nil {
		log.Printf("[CHECKOUT] failed to cancel order %s after %s: %v", orderID, reason, err)
	}
}

// resolveItems snapshots catalog prices into line items.
func (s *CheckoutService) resolveItems(ctx context.Context, requested []CheckoutItem) ([]domain.LineItem, string, error) {
	items := make([]domain.LineItem, 0, len(requested))
	var currency string

	for _, r := range requested {
		if r.Quantity <= 0 || r.Quantity > MaxItemQuantity {
			return nil, "", ErrInvalidQuantity
		}

		product, err := s.catalog.GetProduct(ctx, r.ProductID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, "", ErrProductNotFound
			}
			return nil, "", err
		}
		if !product.Active {
			return nil, "", ErrProductNotFound
		}

		if currency == "" {
			currency = strings.ToLower(product.Currency)
		} else if !strings.EqualFold(currency, product.Currency) {
			return nil, "", ErrCurrencyMismatch
		}

		items = append(items, domain.LineItem{
			ProductID:  product.ID,
			Name:       product.Name,
			UnitAmount: product.UnitAmount,
			Quantity:   r.Quantity,
		})
	}

	return items, currency, nil
}
