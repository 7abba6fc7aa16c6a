package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"storefront/internal/domain"
	"storefront/internal/repository"
)

const orderColumns = `id, session_id, status, items, total_amount, currency, customer_email, created_at, updated_at`

// OrderRepository is a PostgreSQL implementation of repository.OrderRepository.
type OrderRepository struct {
	q Querier
}

// NewOrderRepository creates a new PostgreSQL order repository.
func NewOrderRepository(db *sql.DB) *OrderRepository {
	return &OrderRepository{q: db}
}

// Create persists a new order.
func (r *OrderRepository) Create(ctx context.Context, order *domain.Order) error {
	query := `
		INSERT INTO orders (` + orderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	items, err := json.Marshal(order.Items)
	if err != nil {
		return fmt.Errorf("encode line items: %w", err)
	}

	_, err = r.q.ExecContext(ctx, query,
		order.ID,
		nullString(order.SessionID),
		order.Status,
		string(items),
		order.TotalAmount,
		order.Currency,
		order.CustomerEmail,
		order.CreatedAt,
		order.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return repository.ErrDuplicate
	}

	return err
}

// GetByID retrieves an order by ID.
func (r *OrderRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

	order, err := scanOrder(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return order, nil
}

// GetBySessionID retrieves an order by its checkout session identifier.
func (r *OrderRepository) GetBySessionID(ctx context.Context, sessionID string) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE session_id = $1`

	order, err := scanOrder(r.q.QueryRowContext(ctx, query, sessionID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return order, nil
}

// AttachSession binds a checkout session to a pending order without one.
func (r *OrderRepository) AttachSession(ctx context.Context, id, sessionID string) error {
	query := `
		UPDATE orders SET session_id = $1, updated_at = $2
		WHERE id = $3 AND status = $4 AND session_id IS NULL
	`

	result, err := r.q.ExecContext(ctx, query, sessionID, time.Now().UTC(), id, domain.OrderStatusPending)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicate
		}
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// ConfirmPending transitions the order for sessionID from PENDING to
// CONFIRMED. Concurrent callers race on the row lock; only one sees a row.
func (r *OrderRepository) ConfirmPending(ctx context.Context, sessionID string) (*domain.Order, error) {
	query := `
		UPDATE orders SET status = $1, updated_at = $2
		WHERE session_id = $3 AND status = $4
		RETURNING ` + orderColumns

	order, err := scanOrder(r.q.QueryRowContext(ctx, query,
		domain.OrderStatusConfirmed,
		time.Now().UTC(),
		sessionID,
		domain.OrderStatusPending,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return order, nil
}

// CancelPending transitions a PENDING order to CANCELLED.
func (r *OrderRepository) CancelPending(ctx context.Context, id string) (bool, error) {
	query := `UPDATE orders SET status = $1, updated_at = $2 WHERE id = $3 AND status = $4`

	result, err := r.q.ExecContext(ctx, query,
		domain.OrderStatusCancelled,
		time.Now().UTC(),
		id,
		domain.OrderStatusPending,
	)
	if err != nil {
		return false, err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return rowsAffected > 0, nil
}

func scanOrder(row *sql.Row) (*domain.Order, error) {
	var order domain.Order
	var sessionID sql.NullString
	var items []byte

	err := row.Scan(
		&order.ID,
		&sessionID,
		&order.Status,
		&items,
		&order.TotalAmount,
		&order.Currency,
		&order.CustomerEmail,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if sessionID.Valid {
		order.SessionID = sessionID.String
	}
	if len(items) > 0 {
		if err := json.Unmarshal(items, &order.Items); err != nil {
			return nil, fmt.Errorf("decode line items: %w", err)
		}
	}

	return &order, nil
}

// Ensure OrderRepository implements repository.OrderRepository.
var _ repository.OrderRepository = (*OrderRepository)(nil)
