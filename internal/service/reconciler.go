package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"storefront/internal/domain"
	"storefront/internal/repository"
)

// DefaultNotifyTimeout bounds a single confirmation notification.
const DefaultNotifyTimeout = 30 * time.Second

// Outcome describes what a verified webhook did.
type Outcome string

const (
	OutcomeIgnored       Outcome = "IGNORED"         // Event type not reconciled
	OutcomeConfirmed     Outcome = "CONFIRMED"       // Order moved PENDING -> CONFIRMED
	OutcomeOrderNotFound Outcome = "ORDER_NOT_FOUND" // No order for the session
	OutcomeNotPending    Outcome = "NOT_PENDING"     // Redelivery or order in another state
)

// OrderNotifier is notified once per order when it is confirmed.
type OrderNotifier interface {
	NotifyOrderConfirmed(ctx context.Context, order *domain.Order) error
}

// Reconciler applies payment processor webhooks to orders.
type Reconciler struct {
	orderRepo     repository.OrderRepository
	settings      *SettingsService
	verifier      EventVerifier
	notifier      OrderNotifier
	webhookSecret string
	notifyTimeout time.Duration

	wg sync.WaitGroup
}

// NewReconciler creates a new Reconciler. notifier may be nil.
func NewReconciler(
	orderRepo repository.OrderRepository,
	settings *SettingsService,
	verifier EventVerifier,
	notifier OrderNotifier,
	webhookSecret string,
) *Reconciler {
	return &Reconciler{
		orderRepo:     orderRepo,
		settings:      settings,
		verifier:      verifier,
		notifier:      notifier,
		webhookSecret: webhookSecret,
		notifyTimeout: DefaultNotifyTimeout,
	}
}

// HandleWebhook verifies and applies a single webhook delivery.
//
// Only ErrNotConfigured, ErrInvalidSignature and ErrStorageUnavailable are
// returned. Unknown event types, unknown sessions and redeliveries for
// orders that are no longer pending all succeed without side effects, so
// the processor does not retry them.
func (r *Reconciler) HandleWebhook(ctx context.Context, payload []byte, signature string) (Outcome, error) {
	if r.webhookSecret == "" {
		return "", ErrNotConfigured
	}
	if _, err := r.settings.ActivePaymentConfig(ctx); err != nil {
		return "", err
	}

	event, err := r.verifier.VerifyEvent(payload, signature, r.webhookSecret)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	if event.Type != EventCheckoutSessionCompleted {
		log.Printf("[WEBHOOK] event=%s type=%s ignored", event.ID, event.Type)
		return OutcomeIgnored, nil
	}

	if event.SessionID == "" {
		log.Printf("[WEBHOOK] event=%s has no checkout session id", event.ID)
		return OutcomeOrderNotFound, nil
	}

	order, err := r.orderRepo.ConfirmPending(ctx, event.SessionID)
	if err != nil {
		return "", fmt.Errorf("%w: confirm order for session %s: %v", ErrStorageUnavailable, event.SessionID, err)
	}

	if order == nil {
		return r.describeNoop(ctx, event), nil
	}

	log.Printf("[WEBHOOK] event=%s order=%s session=%s confirmed", event.ID, order.ID, order.SessionID)
	r.notifyConfirmed(ctx, order)

	return OutcomeConfirmed, nil
}

// describeNoop classifies a completion event that transitioned nothing.
// The lookup is diagnostic only; its failure does not fail the webhook.
func (r *Reconciler) describeNoop(ctx context.Context, event *WebhookEvent) Outcome {
	existing, err := r.orderRepo.GetBySessionID(ctx, event.SessionID)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		log.Printf("[WEBHOOK] event=%s session=%s has no matching order", event.ID, event.SessionID)
		return OutcomeOrderNotFound
	case err != nil:
		log.Printf("[WEBHOOK] event=%s session=%s not pending (lookup failed: %v)", event.ID, event.SessionID, err)
		return OutcomeNotPending
	default:
		log.Printf("[WEBHOOK] event=%s order=%s already %s", event.ID, existing.ID, existing.Status)
		return OutcomeNotPending
	}
}

// notifyConfirmed sends the confirmation in the background. The webhook
// response does not wait for it and its failure is only logged.
func (r *Reconciler) notifyConfirmed(ctx context.Context, order *domain.Order) {
	if r.notifier == nil {
		return
	}

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		defer func() {
			if rec := recover(); rec != nil {
				log.Printf("[WEBHOOK] notifier panic for order %s: %v", order.ID, rec)
			}
		}()

		notifyCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.notifyTimeout)
		defer cancel()

		if err := r.notifier.NotifyOrderConfirmed(notifyCtx, order); err != nil {
			log.Printf("[WEBHOOK] confirmation notification for order %s failed: %v", order.ID, err)
		}
	}()
}

// Wait blocks until in-flight notifications have finished.
func (r *Reconciler) Wait() {
	r.wg.Wait()
}
