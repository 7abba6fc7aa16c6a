package repository

import (
	"context"

	"storefront/internal/domain"
)

// OrderRepository defines the persistence operations for orders.
type OrderRepository interface {
	// Create persists a new order.
	Create(ctx context.Context, order *domain.Order) error

	// GetByID retrieves an order by ID.
	GetByID(ctx context.Context, id string) (*domain.Order, error)

	// GetBySessionID retrieves an order by its checkout session identifier.
	GetBySessionID(ctx context.Context, sessionID string) (*domain.Order, error)

	// AttachSession associates a checkout session with a pending order that
	// has no session yet. Returns ErrNotFound if no such order exists and
	// ErrDuplicate if the session is already bound to another order.
	AttachSession(ctx context.Context, id, sessionID string) error

	// ConfirmPending moves the order for sessionID from PENDING to CONFIRMED
	// in a single conditional write. It returns the updated order, or nil if
	// no pending order matched.
	ConfirmPending(ctx context.Context, sessionID string) (*domain.Order, error)

	// CancelPending moves a PENDING order to CANCELLED. Returns false if the
	// order was not pending.
	CancelPending(ctx context.Context, id string) (bool, error)
}
