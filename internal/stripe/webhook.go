package stripe

import (
	gostripe "github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"

	"storefront/internal/service"
)

// Verifier checks Stripe-Signature headers and decodes events.
type Verifier struct {
	options webhook.ConstructEventOptions
}

// NewVerifier creates a Verifier with Stripe's default timestamp tolerance.
// Events rendered with a different API version are accepted; only the
// fields read below are relied on.
func NewVerifier() *Verifier {
	return &Verifier{
		options: webhook.ConstructEventOptions{
			IgnoreAPIVersionMismatch: true,
		},
	}
}

// VerifyEvent validates the signature over payload and decodes the event
// from the same bytes.
func (v *Verifier) VerifyEvent(payload []byte, signature, secret string) (*service.WebhookEvent, error) {
	event, err := webhook.ConstructEventWithOptions(payload, signature, secret, v.options)
	if err != nil {
		return nil, err
	}

	result := &service.WebhookEvent{
		ID:   event.ID,
		Type: string(event.Type),
	}

	// A malformed object leaves SessionID empty; the event is still authentic
	// and is acknowledged as a no-op by the reconciler.
	if event.Type == gostripe.EventTypeCheckoutSessionCompleted && event.Data != nil {
		if id, ok := event.Data.Object["id"].(string); ok {
			result.SessionID = id
		}
	}

	return result, nil
}

// Ensure Verifier implements service.EventVerifier.
var _ service.EventVerifier = (*Verifier)(nil)
