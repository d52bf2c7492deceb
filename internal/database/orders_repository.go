package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/matthieukhl/storefront/internal/models"
)

// ErrOrderNotFound is returned when an order is not found.
var ErrOrderNotFound = errors.New("order not found")

// ErrStatusConflict is returned when a status update loses the race: the
// order's status changed between the read and the guarded write.
var ErrStatusConflict = errors.New("order status changed concurrently")

type OrdersRepository struct {
	db *DB
}

func NewOrdersRepository(db *DB) *OrdersRepository {
	return &OrdersRepository{db: db}
}

// GetByID returns one order with its items, or ErrOrderNotFound.
func (r *OrdersRepository) GetByID(ctx context.Context, id string) (*models.Order, error) {
	var o models.Order
	err := r.db.QueryRowContext(ctx, `
		SELECT id, customer_id, status, payment_method, payment_status, total_price,
		       COALESCE(notes, ''), street, city, postal_code, country, created_at
		FROM orders WHERE id = ?`, id).
		Scan(&o.ID, &o.CustomerID, &o.Status, &o.PaymentMethod, &o.PaymentStatus, &o.TotalPrice,
			&o.Notes, &o.ShippingAddress.Street, &o.ShippingAddress.City,
			&o.ShippingAddress.PostalCode, &o.ShippingAddress.Country, &o.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to query order %s: %w", id, err)
	}
	if err := r.loadItems(ctx, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

// GetByCustomer returns the customer's orders, newest first.
func (r *OrdersRepository) GetByCustomer(ctx context.Context, customerID string) ([]models.Order, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, customer_id, status, payment_method, payment_status, total_price,
		       COALESCE(notes, ''), street, city, postal_code, country, created_at
		FROM orders WHERE customer_id = ? ORDER BY created_at DESC`, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders for %s: %w", customerID, err)
	}
	defer rows.Close()

	var orders []models.Order
	for rows.Next() {
		var o models.Order
		if err := rows.Scan(&o.ID, &o.CustomerID, &o.Status, &o.PaymentMethod, &o.PaymentStatus, &o.TotalPrice,
			&o.Notes, &o.ShippingAddress.Street, &o.ShippingAddress.City,
			&o.ShippingAddress.PostalCode, &o.ShippingAddress.Country, &o.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate orders: %w", err)
	}

	for i := range orders {
		if err := r.loadItems(ctx, &orders[i]); err != nil {
			return nil, err
		}
	}
	return orders, nil
}

// UpdateStatus writes the new status guarded by the expected current
// status, so a concurrent admin's change is detected instead of silently
// overwritten. Notes, when non-empty, are appended to the order.
func (r *OrdersRepository) UpdateStatus(ctx context.Context, id, expectedCurrent, newStatus, notes string) error {
	query := `UPDATE orders SET status = ?`
	args := []any{newStatus}
	if notes != "" {
		query += `, notes = CONCAT_WS(CHAR(10), NULLIF(COALESCE(notes, ''), ''), ?)`
		args = append(args, notes)
	}
	query += ` WHERE id = ? AND status = ?`
	args = append(args, id, expectedCurrent)

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update order %s status: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	// MySQL reports zero affected rows for a self-loop that changes
	// nothing; only treat zero as a conflict on a real transition.
	if affected == 0 && expectedCurrent != newStatus {
		var exists int
		if err := r.db.QueryRowContext(ctx, `SELECT 1 FROM orders WHERE id = ?`, id).Scan(&exists); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrOrderNotFound
			}
			return fmt.Errorf("failed to check order %s: %w", id, err)
		}
		return ErrStatusConflict
	}
	return nil
}

func (r *OrdersRepository) loadItems(ctx context.Context, o *models.Order) error {
	o.Items = []models.OrderItem{}

	rows, err := r.db.QueryContext(ctx, `
		SELECT name, size, color, quantity, unit_price FROM order_items
		WHERE order_id = ? ORDER BY id`, o.ID)
	if err != nil {
		return fmt.Errorf("failed to query items for %s: %w", o.ID, err)
	}
	defer rows.Close()
	for rows.Next() {
		var item models.OrderItem
		if err := rows.Scan(&item.Name, &item.Size, &item.Color, &item.Quantity, &item.UnitPrice); err != nil {
			return fmt.Errorf("failed to scan order item: %w", err)
		}
		o.Items = append(o.Items, item)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate order items: %w", err)
	}
	return nil
}
