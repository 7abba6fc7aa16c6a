package postgres

import (
	"context"
	"database/sql"
	"errors"

	"storefront/internal/domain"
	"storefront/internal/repository"
)

// ProductRepository is a PostgreSQL implementation of repository.ProductRepository.
type ProductRepository struct {
	q Querier
}

// NewProductRepository creates a new PostgreSQL product repository.
func NewProductRepository(db *sql.DB) *ProductRepository {
	return &ProductRepository{q: db}
}

// GetByID retrieves a product by ID.
func (r *ProductRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	query := `
		SELECT id, name, unit_amount, currency, active
		FROM products WHERE id = $1
	`

	var product domain.Product
	err := r.q.QueryRowContext(ctx, query, id).Scan(
		&product.ID,
		&product.Name,
		&product.UnitAmount,
		&product.Currency,
		&product.Active,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return &product, nil
}

// GetActive retrieves all products available for sale.
func (r *ProductRepository) GetActive(ctx context.Context) ([]*domain.Product, error) {
	query := `
		SELECT id, name, unit_amount, currency, active
		FROM products WHERE active ORDER BY name LIMIT 500
	`

	rows, err := r.q.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []*domain.Product
	for rows.Next() {
		var product domain.Product
		if err := rows.Scan(
			&product.ID,
			&product.Name,
			&product.UnitAmount,
			&product.Currency,
			&product.Active,
		); err != nil {
			return nil, err
		}
		products = append(products, &product)
	}

	return products, rows.Err()
}

// Ensure ProductRepository implements repository.ProductRepository.
var _ repository.ProductRepository = (*ProductRepository)(nil)
