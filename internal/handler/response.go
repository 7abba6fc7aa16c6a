package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"

	"storefront/internal/repository"
	"storefront/internal/service"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondError sends an error response with the appropriate HTTP status code.
func respondError(c *gin.Context, err error) {
	code := mapErrorToHTTPStatus(err)
	if code >= http.StatusInternalServerError {
		noticeError(c, err)
	}
	c.JSON(code, ErrorResponse{Error: err.Error()})
}

// respondJSON sends a JSON response with the given status code.
func respondJSON(c *gin.Context, code int, data any) {
	c.JSON(code, data)
}

// noticeError reports err to the New Relic transaction, if any.
func noticeError(c *gin.Context, err error) {
	if txn := nrgin.Transaction(c); txn != nil {
		txn.NoticeError(err)
	}
}

// mapErrorToHTTPStatus maps service/repository errors to HTTP status codes.
func mapErrorToHTTPStatus(err error) int {
	switch {
	// Not found errors
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound

	// Validation and authenticity errors - Bad Request
	case errors.Is(err, service.ErrNotConfigured),
		errors.Is(err, service.ErrInvalidSignature),
		errors.Is(err, service.ErrEmptyCart),
		errors.Is(err, service.ErrInvalidQuantity),
		errors.Is(err, service.ErrInvalidProductID),
		errors.Is(err, service.ErrInvalidOrderID),
		errors.Is(err, service.ErrCurrencyMismatch):
		return http.StatusBadRequest

	// Business rule errors
	case errors.Is(err, service.ErrProductNotFound):
		return http.StatusUnprocessableEntity

	// Upstream errors
	case errors.Is(err, service.ErrProcessorUnavailable):
		return http.StatusBadGateway

	// Retryable
	case errors.Is(err, service.ErrStorageUnavailable):
		return http.StatusServiceUnavailable

	// Default to internal server error
	default:
		return http.StatusInternalServerError
	}
}
