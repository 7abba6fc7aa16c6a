package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront/internal/service"
)

// CheckoutHandler handles HTTP requests for starting checkouts.
type CheckoutHandler struct {
	checkoutService *service.CheckoutService
}

// NewCheckoutHandler creates a new CheckoutHandler.
func NewCheckoutHandler(checkoutService *service.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{checkoutService: checkoutService}
}

// CheckoutItemRequest is a single cart line in a checkout request.
type CheckoutItemRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int64  `json:"quantity" binding:"required,min=1"`
}

// CreateCheckoutRequest is the HTTP request body for starting a checkout.
type CreateCheckoutRequest struct {
	Items         []CheckoutItemRequest `json:"items" binding:"required,min=1,dive"`
	CustomerEmail string                `json:"customer_email" binding:"omitempty,email"`
}

// CheckoutResponse is the HTTP response for a started checkout.
type CheckoutResponse struct {
	OrderID     string `json:"order_id"`
	SessionID   string `json:"session_id"`
	Status      string `json:"status"`
	TotalAmount int64  `json:"total_amount"`
	Currency    string `json:"currency"`
	RedirectURL string `json:"redirect_url"`
}

// CreateCheckout handles POST /v1/checkout
func (h *CheckoutHandler) CreateCheckout(c *gin.Context) {
	var req CreateCheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	items := make([]service.CheckoutItem, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, service.CheckoutItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}

	result, err := h.checkoutService.StartCheckout(c.Request.Context(), service.CheckoutRequest{
		Items:         items,
		CustomerEmail: req.CustomerEmail,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, CheckoutResponse{
		OrderID:     result.Order.ID,
		SessionID:   result.Order.SessionID,
		Status:      string(result.Order.Status),
		TotalAmount: result.Order.TotalAmount,
		Currency:    result.Order.Currency,
		RedirectURL: result.RedirectURL,
	})
}
