package service

import (
	"context"
	"fmt"
	"time"

	"hotelops/internal/domain"
	"hotelops/internal/events"
	"hotelops/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// OrderService owns the F&B order lifecycle. Terminal transitions stamp
// closed_at; re-entering preparing after a terminal state is rejected by
// the store (closed_at is one-way).
type OrderService struct {
	store    domain.Store
	eventBus domain.EventPublisher
	notify   domain.NotifyEnqueuer
	logger   *zerolog.Logger
	now      func() time.Time
}

func NewOrderService(store domain.Store, eventBus domain.EventPublisher, notify domain.NotifyEnqueuer, logger *zerolog.Logger) *OrderService {
	return &OrderService{
		store:    store,
		eventBus: eventBus,
		notify:   notify,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *OrderService) CreateOrder(ctx context.Context, hotelID, itemKey string, qty, pricePaise int64) (*models.Order, error) {
	if hotelID == "" {
		return nil, ErrHotelRequired
	}
	if itemKey == "" {
		return nil, ErrItemKeyRequired
	}
	if qty <= 0 {
		return nil, ErrInvalidQty
	}

	order := &models.Order{
		ID:         uuid.NewString(),
		HotelID:    hotelID,
		ItemKey:    itemKey,
		Qty:        qty,
		PricePaise: pricePaise,
		Status:     models.OrderPreparing,
		CreatedAt:  s.now(),
	}
	if err := s.store.CreateOrder(ctx, order); err != nil {
		return nil, err
	}

	s.publishOrderEvent(events.EventOrderCreated, order)
	return order, nil
}

func (s *OrderService) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	return s.store.GetOrder(ctx, id)
}

// SetOrderStatus validates then applies the transition. closed_at is
// stamped by the store in the same update for delivered/cancelled.
func (s *OrderService) SetOrderStatus(ctx context.Context, id, status string) error {
	if id == "" {
		return ErrIDRequired
	}
	if status == "" {
		return ErrStatusRequired
	}
	if !models.ValidOrderStatus(status) {
		return ErrInvalidStatus
	}

	if err := s.store.UpdateOrderStatus(ctx, id, status); err != nil {
		return err
	}

	order, err := s.store.GetOrder(ctx, id)
	if err == nil {
		s.publishOrderEvent(events.EventOrderStatusChanged, order)
		if models.IsTerminalOrderStatus(status) {
			s.enqueueStatusNotice(ctx, order)
		}
	}

	return nil
}

func (s *OrderService) GetOrdersByHotel(ctx context.Context, hotelID string, limit int) ([]models.Order, error) {
	if hotelID == "" {
		return nil, ErrHotelRequired
	}
	return s.store.GetOrdersByHotel(ctx, hotelID, limit)
}

func (s *OrderService) publishOrderEvent(eventType string, order *models.Order) {
	if s.eventBus == nil {
		return
	}

	payload := events.OrderEventPayload{
		OrderID:  order.ID,
		HotelID:  order.HotelID,
		ItemKey:  order.ItemKey,
		Qty:      order.Qty,
		Status:   order.Status,
		ClosedAt: order.ClosedAt,
	}

	if err := s.eventBus.PublishJSON(eventType, payload); err != nil {
		s.logger.Error().Err(err).Str("event_type", eventType).Str("order_id", order.ID).Msg("publish event error")
	}
}

func (s *OrderService) enqueueStatusNotice(ctx context.Context, order *models.Order) {
	if s.notify == nil {
		return
	}

	text := fmt.Sprintf("Order %s (%s x%d) is %s.", order.ID, order.ItemKey, order.Qty, order.Status)
	err := s.notify.Enqueue(ctx, "order_status", order.ID, map[string]interface{}{
		"title": "Order update",
		"text":  text,
		"meta":  map[string]string{"hotel_id": order.HotelID, "order_id": order.ID, "status": order.Status},
	})
	if err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID).Msg("notify enqueue error")
	}
}
