package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderItem is one purchased line of an order.
type OrderItem struct {
	Name      string          `json:"name" db:"name"`
	Size      string          `json:"size" db:"size"`
	Color     string          `json:"color" db:"color"`
	Quantity  int             `json:"quantity" db:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice" db:"unit_price"`
}

// Address is where an order ships to.
type Address struct {
	Street     string `json:"street" db:"street"`
	City       string `json:"city" db:"city"`
	PostalCode string `json:"postalCode" db:"postal_code"`
	Country    string `json:"country" db:"country"`
}

// Order is the canonical order shape. Status is only ever changed through
// the orderflow transition table; orders are never deleted by the client.
type Order struct {
	ID              string          `json:"id" db:"id"`
	CustomerID      string          `json:"customerId" db:"customer_id"`
	Status          string          `json:"status" db:"status"`
	Items           []OrderItem     `json:"items"`
	ShippingAddress Address         `json:"shippingAddress"`
	PaymentMethod   string          `json:"paymentMethod" db:"payment_method"`
	PaymentStatus   string          `json:"paymentStatus" db:"payment_status"`
	TotalPrice      decimal.Decimal `json:"totalPrice" db:"total_price"`
	Notes           string          `json:"notes" db:"notes"`
	CreatedAt       time.Time       `json:"createdAt" db:"created_at"`
}

// Order statuses. New orders start as pending (set by checkout).
const (
	OrderStatusPending   = "pending"
	OrderStatusConfirmed = "confirmed"
	OrderStatusShipped   = "shipped"
	OrderStatusDelivered = "delivered"
	OrderStatusCancelled = "cancelled"
)

// Payment statuses
const (
	PaymentStatusUnpaid   = "unpaid"
	PaymentStatusPaid     = "paid"
	PaymentStatusRefunded = "refunded"
)
