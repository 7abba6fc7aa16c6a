package domain

import "time"

// OrderStatus represents the current status of an order.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusConfirmed OrderStatus = "CONFIRMED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

// LineItem is a product snapshot taken at checkout time.
type LineItem struct {
	ProductID  string `json:"product_id"`
	Name       string `json:"name"`
	UnitAmount int64  `json:"unit_amount"`
	Quantity   int64  `json:"quantity"`
}

// Subtotal returns UnitAmount * Quantity in minor units.
func (li LineItem) Subtotal() int64 {
	return li.UnitAmount * li.Quantity
}

// Order represents a storefront order. SessionID is empty until the
// checkout session has been created with the payment processor.
type Order struct {
	ID            string
	SessionID     string
	Status        OrderStatus
	Items         []LineItem
	TotalAmount   int64 // Minor units (cents)
	Currency      string
	CustomerEmail string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
