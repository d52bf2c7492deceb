package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// The backend has grown several spellings for the same fields over time
// (orders carry `_id`, `orderKey` or `id`; totals arrive as `totalPrice` or
// `amount`). Everything behind this file only ever sees the canonical
// structs; the wire shapes stop here.

// WireProduct is the product shape as the backend serves it.
type WireProduct struct {
	MongoID     string          `json:"_id"`
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Price       decimal.Decimal `json:"price"`
	Image       string          `json:"image"`
	Colors      []ColorVariant  `json:"colors"`
	Sizes       []SizeVariant   `json:"sizes"`
	TotalStock  int             `json:"totalStock"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// WireOrder is the order shape as the backend serves it, with every known
// field-name variant present.
type WireOrder struct {
	MongoID         string          `json:"_id"`
	OrderKey        string          `json:"orderKey"`
	ID              string          `json:"id"`
	CustomerID      string          `json:"customerId"`
	Status          string          `json:"status"`
	Items           []OrderItem     `json:"orderItems"`
	ShippingAddress Address         `json:"shippingAddress"`
	PaymentMethod   string          `json:"paymentMethod"`
	PaymentStatus   string          `json:"paymentStatus"`
	TotalPrice      decimal.Decimal `json:"totalPrice"`
	Amount          decimal.Decimal `json:"amount"`
	Notes           string          `json:"notes"`
	CreatedAt       time.Time       `json:"createdAt"`
}

// NormalizeProduct maps a wire product into the canonical shape. Missing
// variant slices come back as empty, never nil surprises downstream.
func NormalizeProduct(w WireProduct) Product {
	id := w.MongoID
	if id == "" {
		id = w.ID
	}
	p := Product{
		ID:          id,
		Name:        w.Name,
		Description: w.Description,
		Category:    w.Category,
		Price:       w.Price,
		Image:       w.Image,
		Colors:      w.Colors,
		Sizes:       w.Sizes,
		TotalStock:  w.TotalStock,
		CreatedAt:   w.CreatedAt,
	}
	if p.Colors == nil {
		p.Colors = []ColorVariant{}
	}
	if p.Sizes == nil {
		p.Sizes = []SizeVariant{}
	}
	return p
}

// NormalizeOrder maps a wire order into the canonical shape. Identifier
// precedence is _id, then orderKey, then id; the total falls back to the
// legacy amount field when totalPrice is absent.
func NormalizeOrder(w WireOrder) Order {
	id := w.MongoID
	if id == "" {
		id = w.OrderKey
	}
	if id == "" {
		id = w.ID
	}
	total := w.TotalPrice
	if total.IsZero() && !w.Amount.IsZero() {
		total = w.Amount
	}
	o := Order{
		ID:              id,
		CustomerID:      w.CustomerID,
		Status:          w.Status,
		Items:           w.Items,
		ShippingAddress: w.ShippingAddress,
		PaymentMethod:   w.PaymentMethod,
		PaymentStatus:   w.PaymentStatus,
		TotalPrice:      total,
		Notes:           w.Notes,
		CreatedAt:       w.CreatedAt,
	}
	if o.Items == nil {
		o.Items = []OrderItem{}
	}
	return o
}
