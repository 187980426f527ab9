package database

import (
	"context"
	"testing"
	"time"

	"hotelops/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestOrder(t *testing.T, db *DB, id string) *models.Order {
	t.Helper()
	order := &models.Order{
		ID:         id,
		HotelID:    "grand-palms",
		ItemKey:    "club-sandwich",
		Qty:        2,
		PricePaise: 45000,
	}
	require.NoError(t, db.CreateOrder(context.Background(), order))
	return order
}

func TestCreateAndGetOrder(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	ctx := context.Background()

	createTestOrder(t, db, "o-1")

	got, err := db.GetOrder(ctx, "o-1")
	require.NoError(t, err)
	assert.Equal(t, models.OrderPreparing, got.Status)
	assert.Equal(t, int64(2), got.Qty)
	assert.Nil(t, got.ClosedAt)
}

func TestGetOrder_NotFound(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	_, err := db.GetOrder(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestUpdateOrderStatus_TerminalStampsClosedAt(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	ctx := context.Background()

	createTestOrder(t, db, "o-1")

	require.NoError(t, db.UpdateOrderStatus(ctx, "o-1", models.OrderDelivered))

	got, err := db.GetOrder(ctx, "o-1")
	require.NoError(t, err)
	assert.Equal(t, models.OrderDelivered, got.Status)
	require.NotNil(t, got.ClosedAt)
	assert.WithinDuration(t, time.Now(), *got.ClosedAt, 5*time.Second)
}

func TestUpdateOrderStatus_ClosedOrderRefusesAnyTransition(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	ctx := context.Background()

	createTestOrder(t, db, "o-1")
	require.NoError(t, db.UpdateOrderStatus(ctx, "o-1", models.OrderCancelled))

	before, err := db.GetOrder(ctx, "o-1")
	require.NoError(t, err)
	require.NotNil(t, before.ClosedAt)

	// Neither a second terminal transition nor a reopen may pass.
	assert.ErrorIs(t, db.UpdateOrderStatus(ctx, "o-1", models.OrderDelivered), ErrOrderClosed)
	assert.ErrorIs(t, db.UpdateOrderStatus(ctx, "o-1", models.OrderPreparing), ErrOrderClosed)

	after, err := db.GetOrder(ctx, "o-1")
	require.NoError(t, err)
	assert.Equal(t, models.OrderCancelled, after.Status)
	assert.Equal(t, *before.ClosedAt, *after.ClosedAt)
}

func TestUpdateOrderStatus_NonTerminalLeavesClosedAtNull(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	ctx := context.Background()

	createTestOrder(t, db, "o-1")
	require.NoError(t, db.UpdateOrderStatus(ctx, "o-1", models.OrderPreparing))

	got, err := db.GetOrder(ctx, "o-1")
	require.NoError(t, err)
	assert.Nil(t, got.ClosedAt)
}

func TestGetOrdersByHotel(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	createTestOrder(t, db, "o-1")
	createTestOrder(t, db, "o-2")

	orders, err := db.GetOrdersByHotel(context.Background(), "grand-palms", 10)
	require.NoError(t, err)
	assert.Len(t, orders, 2)
}
