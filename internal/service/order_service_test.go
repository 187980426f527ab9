package service

import (
	"context"
	"testing"

	"hotelops/internal/database"
	"hotelops/internal/events"
	"hotelops/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newOrderService(store *mockStore, enq *mockEnqueuer) *OrderService {
	logger := zerolog.Nop()
	var notify domainEnqueuer
	if enq != nil {
		notify = enq
	}
	return NewOrderService(store, events.NewEventBus(), notify, &logger)
}

// domainEnqueuer lets tests pass a typed nil cleanly.
type domainEnqueuer interface {
	Enqueue(ctx context.Context, taskType, refID string, payload interface{}) error
}

func TestCreateOrder_Validation(t *testing.T) {
	svc := newOrderService(new(mockStore), nil)
	ctx := context.Background()

	_, err := svc.CreateOrder(ctx, "", "club-sandwich", 1, 45000)
	assert.ErrorIs(t, err, ErrHotelRequired)

	_, err = svc.CreateOrder(ctx, "grand-palms", "", 1, 45000)
	assert.ErrorIs(t, err, ErrItemKeyRequired)

	_, err = svc.CreateOrder(ctx, "grand-palms", "club-sandwich", 0, 45000)
	assert.ErrorIs(t, err, ErrInvalidQty)
}

func TestCreateOrder_StartsPreparing(t *testing.T) {
	store := new(mockStore)
	svc := newOrderService(store, nil)

	store.On("CreateOrder", mock.Anything, mock.MatchedBy(func(o *models.Order) bool {
		return o.Status == models.OrderPreparing && o.ID != ""
	})).Return(nil)

	order, err := svc.CreateOrder(context.Background(), "grand-palms", "club-sandwich", 2, 45000)
	require.NoError(t, err)
	assert.Equal(t, models.OrderPreparing, order.Status)
	store.AssertExpectations(t)
}

func TestSetOrderStatus_Validation(t *testing.T) {
	svc := newOrderService(new(mockStore), nil)
	ctx := context.Background()

	assert.ErrorIs(t, svc.SetOrderStatus(ctx, "", models.OrderDelivered), ErrIDRequired)
	assert.ErrorIs(t, svc.SetOrderStatus(ctx, "o-1", ""), ErrStatusRequired)
	assert.ErrorIs(t, svc.SetOrderStatus(ctx, "o-1", "shipped"), ErrInvalidStatus)
}

func TestSetOrderStatus_TerminalEnqueuesNotice(t *testing.T) {
	store := new(mockStore)
	enq := new(mockEnqueuer)
	svc := newOrderService(store, enq)

	store.On("UpdateOrderStatus", mock.Anything, "o-1", models.OrderDelivered).Return(nil)
	store.On("GetOrder", mock.Anything, "o-1").Return(&models.Order{
		ID:      "o-1",
		HotelID: "grand-palms",
		ItemKey: "club-sandwich",
		Qty:     2,
		Status:  models.OrderDelivered,
	}, nil)
	enq.On("Enqueue", mock.Anything, "order_status", "o-1", mock.Anything).Return(nil)

	require.NoError(t, svc.SetOrderStatus(context.Background(), "o-1", models.OrderDelivered))
	enq.AssertExpectations(t)
}

func TestSetOrderStatus_NonTerminalSkipsNotice(t *testing.T) {
	store := new(mockStore)
	enq := new(mockEnqueuer)
	svc := newOrderService(store, enq)

	store.On("UpdateOrderStatus", mock.Anything, "o-1", models.OrderPreparing).Return(nil)
	store.On("GetOrder", mock.Anything, "o-1").Return(&models.Order{
		ID:     "o-1",
		Status: models.OrderPreparing,
	}, nil)

	require.NoError(t, svc.SetOrderStatus(context.Background(), "o-1", models.OrderPreparing))
	enq.AssertNotCalled(t, "Enqueue", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSetOrderStatus_ClosedOrderErrorPassesThrough(t *testing.T) {
	store := new(mockStore)
	svc := newOrderService(store, nil)

	store.On("UpdateOrderStatus", mock.Anything, "o-1", models.OrderCancelled).Return(database.ErrOrderClosed)

	err := svc.SetOrderStatus(context.Background(), "o-1", models.OrderCancelled)
	assert.ErrorIs(t, err, database.ErrOrderClosed)
}
