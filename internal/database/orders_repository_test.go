package database

import (
	"context"
	"database/sql/driver"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matthieukhl/storefront/internal/models"
)

func TestOrdersRepositoryUpdateStatusGuardedWrite(t *testing.T) {
	fake, db := newFakeDB()
	repo := NewOrdersRepository(db)

	require.NoError(t, repo.UpdateStatus(context.Background(), "o-1", models.OrderStatusPending, models.OrderStatusConfirmed, ""))

	recs := fake.execsMatching("UPDATE orders SET")
	require.Len(t, recs, 1)
	assert.Contains(t, recs[0].query, "WHERE id = ? AND status = ?")
	assert.Equal(t, []driver.Value{"confirmed", "o-1", "pending"}, recs[0].args)
}

func TestOrdersRepositoryUpdateStatusConflict(t *testing.T) {
	fake, db := newFakeDB()
	fake.onExec("UPDATE orders SET", 0)
	fake.onQuery("SELECT 1 FROM orders", []driver.Value{int64(1)})
	repo := NewOrdersRepository(db)

	err := repo.UpdateStatus(context.Background(), "o-1", models.OrderStatusPending, models.OrderStatusShipped, "")
	require.ErrorIs(t, err, ErrStatusConflict)
}

func TestOrdersRepositoryUpdateStatusSelfLoop(t *testing.T) {
	fake, db := newFakeDB()
	// MySQL reports zero affected rows when nothing changed.
	fake.onExec("UPDATE orders SET", 0)
	repo := NewOrdersRepository(db)

	err := repo.UpdateStatus(context.Background(), "o-1", models.OrderStatusPending, models.OrderStatusPending, "")
	require.NoError(t, err, "a no-op self-loop is not a conflict")
	assert.Zero(t, fake.queriesMatching("SELECT 1 FROM orders"), "no existence probe for a self-loop")
}

func TestOrdersRepositoryUpdateStatusMissingOrder(t *testing.T) {
	fake, db := newFakeDB()
	fake.onExec("UPDATE orders SET", 0)
	repo := NewOrdersRepository(db)

	err := repo.UpdateStatus(context.Background(), "ghost", models.OrderStatusPending, models.OrderStatusShipped, "")
	require.ErrorIs(t, err, ErrOrderNotFound)
}

func TestOrdersRepositoryUpdateStatusAppendsNotes(t *testing.T) {
	fake, db := newFakeDB()
	repo := NewOrdersRepository(db)

	require.NoError(t, repo.UpdateStatus(context.Background(), "o-1", models.OrderStatusPending, models.OrderStatusCancelled, "refund issued"))

	recs := fake.execsMatching("CONCAT_WS")
	require.Len(t, recs, 1)
	assert.Equal(t, []driver.Value{"cancelled", "refund issued", "o-1", "pending"}, recs[0].args)
}

func TestOrdersRepositoryGetByIDLoadsItems(t *testing.T) {
	fake, db := newFakeDB()
	now := time.Now()
	fake.onQuery("FROM orders WHERE id",
		[]driver.Value{"o-1", "cust-1", "confirmed", "card", "paid", "74.90", "",
			"1 Main St", "Lyon", "69001", "FR", now})
	fake.onQuery("FROM order_items",
		[]driver.Value{"Oversized Hoodie", "M", "Black", int64(1), "49.90"},
		[]driver.Value{"Canvas Tote", "", "", int64(1), "25.00"})
	repo := NewOrdersRepository(db)

	o, err := repo.GetByID(context.Background(), "o-1")
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusConfirmed, o.Status)
	assert.True(t, o.TotalPrice.Equal(decimal.RequireFromString("74.90")))
	assert.Equal(t, "Lyon", o.ShippingAddress.City)
	require.Len(t, o.Items, 2)
	assert.Equal(t, "Canvas Tote", o.Items[1].Name)
}

func TestOrdersRepositoryGetByIDNotFound(t *testing.T) {
	_, db := newFakeDB()
	repo := NewOrdersRepository(db)

	_, err := repo.GetByID(context.Background(), "ghost")
	require.ErrorIs(t, err, ErrOrderNotFound)
}
