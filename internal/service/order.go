package service

import (
	"context"

	"storefront/internal/domain"
	"storefront/internal/repository"
)

// OrderService handles order reads.
type OrderService struct {
	orderRepo repository.OrderRepository
}

// NewOrderService creates a new OrderService.
func NewOrderService(orderRepo repository.OrderRepository) *OrderService {
	return &OrderService{orderRepo: orderRepo}
}

// GetOrder retrieves an order by ID. Orders are always read from storage.
func (s *OrderService) GetOrder(ctx context.Context, orderID string) (*domain.Order, error) {
	if orderID == "" {
		return nil, ErrInvalidOrderID
	}

	return s.orderRepo.GetByID(ctx, orderID)
}
