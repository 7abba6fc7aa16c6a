package service

import (
	"context"

	"storefront/internal/domain"
)

// EventCheckoutSessionCompleted is the only event type that reconciles orders.
const EventCheckoutSessionCompleted = "checkout.session.completed"

// CheckoutSessionRequest contains what the processor needs to host a payment page.
type CheckoutSessionRequest struct {
	SecretKey     string
	OrderID       string
	CustomerEmail string
	Currency      string
	Items         []domain.LineItem
	SuccessURL    string
	CancelURL     string
}

// CheckoutSession is a hosted checkout created by the processor.
type CheckoutSession struct {
	ID  string
	URL string
}

// PaymentProcessor is the interface for a hosted-checkout payment processor.
type PaymentProcessor interface {
	CreateCheckoutSession(ctx context.Context, req CheckoutSessionRequest) (*CheckoutSession, error)
}

// WebhookEvent is a processor event whose signature has been verified.
type WebhookEvent struct {
	ID        string
	Type      string
	SessionID string // Set for checkout session events
}

// EventVerifier authenticates and decodes raw webhook payloads. The payload
// passed in must be the exact bytes received; it is both the signed message
// and the document that gets parsed.
type EventVerifier interface {
	VerifyEvent(payload []byte, signature, secret string) (*WebhookEvent, error)
}
