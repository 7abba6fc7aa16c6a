package service

import "errors"

var (
	// ErrNotConfigured is returned when required payment settings or the
	// webhook secret are missing.
	ErrNotConfigured = errors.New("payment processor not configured")

	// ErrInvalidSignature is returned when a webhook fails authenticity checks.
	ErrInvalidSignature = errors.New("invalid webhook signature")

	// ErrStorageUnavailable is returned when persistent storage cannot be
	// reached. Webhook callers get a retryable status so the processor
	// redelivers later.
	ErrStorageUnavailable = errors.New("storage unavailable")

	// ErrProcessorUnavailable is returned when the payment processor rejects
	// or fails a checkout session request.
	ErrProcessorUnavailable = errors.New("payment processor unavailable")

	// ErrEmptyCart is returned when a checkout has no items.
	ErrEmptyCart = errors.New("cart is empty")

	// ErrInvalidQuantity is returned when a line item quantity is out of range.
	ErrInvalidQuantity = errors.New("invalid quantity")

	// ErrInvalidProductID is returned when product ID is empty.
	ErrInvalidProductID = errors.New("invalid product id")

	// ErrProductNotFound is returned when a product is unknown or not for sale.
	ErrProductNotFound = errors.New("product not available")

	// ErrCurrencyMismatch is returned when a cart mixes currencies.
	ErrCurrencyMismatch = errors.New("cart items use different currencies")

	// ErrInvalidOrderID is returned when order ID is empty.
	ErrInvalidOrderID = errors.New("invalid order id")
)
