package stripe

import (
	"context"
	"fmt"
	"strings"

	gostripe "github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"

	"storefront/internal/service"
)

// Gateway creates hosted checkout sessions with Stripe. The secret key is
// supplied per request because it lives in the payment_settings table and
// may change while the process runs.
type Gateway struct {
	backends *gostripe.Backends
}

// NewGateway creates a Gateway using the default Stripe backends.
func NewGateway() *Gateway {
	return &Gateway{}
}

// NewGatewayWithBackends creates a Gateway that talks to custom backends,
// e.g. stripe-mock in integration environments.
func NewGatewayWithBackends(backends *gostripe.Backends) *Gateway {
	return &Gateway{backends: backends}
}

// CreateCheckoutSession opens a payment-mode checkout session for the order.
func (g *Gateway) CreateCheckoutSession(ctx context.Context, req service.CheckoutSessionRequest) (*service.CheckoutSession, error) {
	sc := &client.API{}
	sc.Init(req.SecretKey, g.backends)

	params := &gostripe.CheckoutSessionParams{
		Mode:              gostripe.String(string(gostripe.CheckoutSessionModePayment)),
		SuccessURL:        gostripe.String(req.SuccessURL),
		CancelURL:         gostripe.String(req.CancelURL),
		ClientReferenceID: gostripe.String(req.OrderID),
	}
	params.Context = ctx
	params.AddMetadata("order_id", req.OrderID)
	params.SetIdempotencyKey("checkout:" + req.OrderID)

	if req.CustomerEmail != "" {
		params.CustomerEmail = gostripe.String(req.CustomerEmail)
	}

	currency := strings.ToLower(req.Currency)
	for _, item := range req.Items {
		params.LineItems = append(params.LineItems, &gostripe.CheckoutSessionLineItemParams{
			Quantity: gostripe.Int64(item.Quantity),
			PriceData: &gostripe.CheckoutSessionLineItemPriceDataParams{
				Currency:   gostripe.String(currency),
				UnitAmount: gostripe.Int64(item.UnitAmount),
				ProductData: &gostripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: gostripe.String(item.Name),
				},
			},
		})
	}

	session, err := sc.CheckoutSessions.New(params)
	if err != nil {
		return nil, fmt.Errorf("stripe: create checkout session: %w", err)
	}

	return &service.CheckoutSession{
		ID:  session.ID,
		URL: session.URL,
	}, nil
}

// Ensure Gateway implements service.PaymentProcessor.
var _ service.PaymentProcessor = (*Gateway)(nil)
