package tests

import (
	"fmt"
	"time"

	"github.com/stripe/stripe-go/v82/webhook"

	"storefront/internal/domain"
	"storefront/internal/service"
	"storefront/internal/stripe"
)

const (
	testWebhookSecret = "whsec_test_secret"
	testSecretKey     = "sk_test_123"
)

// reconcilerFixture bundles a reconciler with the mocks behind it.
type reconcilerFixture struct {
	orders     *MockOrderRepository
	settings   *MockSettingsRepository
	notifier   *MockNotifier
	reconciler *service.Reconciler
}

func newReconcilerFixture(webhookSecret string) *reconcilerFixture {
	orders := NewMockOrderRepository()
	settings := NewMockSettingsRepository()
	settings.SetPaymentSettings(&domain.PaymentSettings{
		ID:        "settings-1",
		SecretKey: testSecretKey,
	})
	notifier := NewMockNotifier()

	reconciler := service.NewReconciler(
		orders,
		service.NewSettingsService(settings, domain.PaymentSettings{}),
		stripe.NewVerifier(),
		notifier,
		webhookSecret,
	)

	return &reconcilerFixture{
		orders:     orders,
		settings:   settings,
		notifier:   notifier,
		reconciler: reconciler,
	}
}

func pendingOrder(id, sessionID string) *domain.Order {
	now := time.Now().UTC()
	return &domain.Order{
		ID:        id,
		SessionID: sessionID,
		Status:    domain.OrderStatusPending,
		Items: []domain.LineItem{
			{ProductID: "prod-1", Name: "Coffee beans", UnitAmount: 1250, Quantity: 2},
		},
		TotalAmount:   2500,
		Currency:      "usd",
		CustomerEmail: "buyer@example.com",
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// signedEvent renders and signs a Stripe event the way Stripe delivers it.
func signedEvent(eventID, eventType, sessionID, secret string) (payload []byte, header string) {
	raw := fmt.Sprintf(`{
		"id": %q,
		"object": "event",
		"api_version": "2024-06-20",
		"type": %q,
		"data": {"object": {"id": %q, "object": "checkout.session"}}
	}`, eventID, eventType, sessionID)

	return signPayload([]byte(raw), secret)
}

// signPayload signs an arbitrary event body.
func signPayload(raw []byte, secret string) (payload []byte, header string) {
	signed := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload:   raw,
		Secret:    secret,
		Timestamp: time.Now(),
	})
	return signed.Payload, signed.Header
}
