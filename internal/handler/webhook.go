package handler

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"

	"storefront/internal/service"
)

const (
	stripeSignatureHeader = "Stripe-Signature"

	// maxWebhookBytes matches the largest payload Stripe documents sending.
	maxWebhookBytes = 64 << 10
)

// WebhookHandler handles payment processor callbacks.
type WebhookHandler struct {
	reconciler *service.Reconciler
}

// NewWebhookHandler creates a new WebhookHandler.
func NewWebhookHandler(reconciler *service.Reconciler) *WebhookHandler {
	return &WebhookHandler{reconciler: reconciler}
}

// WebhookAck is the acknowledgment returned for every accepted delivery.
type WebhookAck struct {
	Received bool `json:"received"`
}

// HandleStripe handles POST /v1/webhooks/stripe
//
// The body is read once and handed to the reconciler untouched; it is both
// the signed message and the parsed event.
func (h *WebhookHandler) HandleStripe(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxWebhookBytes)

	payload, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "unable to read request body"})
		return
	}

	outcome, err := h.reconciler.HandleWebhook(c.Request.Context(), payload, c.GetHeader(stripeSignatureHeader))
	if err != nil {
		log.Printf("[WEBHOOK] rejected: %v", err)
		noticeError(c, err)
		c.JSON(mapErrorToHTTPStatus(err), ErrorResponse{Error: err.Error()})
		return
	}

	if txn := nrgin.Transaction(c); txn != nil {
		txn.AddAttribute("webhookOutcome", string(outcome))
	}
	respondJSON(c, http.StatusOK, WebhookAck{Received: true})
}
