package service

import (
	"context"
	"time"

	"hotelops/internal/models"

	"github.com/stretchr/testify/mock"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) GetHotel(ctx context.Context, id string) (*models.Hotel, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Hotel), args.Error(1)
}
func (m *mockStore) CreateOrUpdateHotel(ctx context.Context, hotel *models.Hotel) error {
	return m.Called(ctx, hotel).Error(0)
}
func (m *mockStore) UpsertService(ctx context.Context, service *models.Service) error {
	return m.Called(ctx, service).Error(0)
}
func (m *mockStore) GetServiceSLA(ctx context.Context, hotelID, key string) (int64, error) {
	args := m.Called(ctx, hotelID, key)
	return args.Get(0).(int64), args.Error(1)
}
func (m *mockStore) GetServices(ctx context.Context, hotelID string) ([]models.Service, error) {
	args := m.Called(ctx, hotelID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Service), args.Error(1)
}
func (m *mockStore) DeactivateService(ctx context.Context, hotelID, key string) error {
	return m.Called(ctx, hotelID, key).Error(0)
}
func (m *mockStore) CreateTicket(ctx context.Context, ticket *models.Ticket) error {
	return m.Called(ctx, ticket).Error(0)
}
func (m *mockStore) GetTicket(ctx context.Context, id string) (*models.Ticket, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Ticket), args.Error(1)
}
func (m *mockStore) CloseTicket(ctx context.Context, id string, closedAt time.Time, minutes int64, onTime bool) error {
	return m.Called(ctx, id, closedAt, minutes, onTime).Error(0)
}
func (m *mockStore) GetTicketsByHotel(ctx context.Context, hotelID string, limit int) ([]models.Ticket, error) {
	args := m.Called(ctx, hotelID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Ticket), args.Error(1)
}
func (m *mockStore) GetLateClosureStats(ctx context.Context, since time.Time) ([]models.LateClosureStat, error) {
	args := m.Called(ctx, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.LateClosureStat), args.Error(1)
}
func (m *mockStore) CreateOrder(ctx context.Context, order *models.Order) error {
	return m.Called(ctx, order).Error(0)
}
func (m *mockStore) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}
func (m *mockStore) UpdateOrderStatus(ctx context.Context, id, status string) error {
	return m.Called(ctx, id, status).Error(0)
}
func (m *mockStore) GetOrdersByHotel(ctx context.Context, hotelID string, limit int) ([]models.Order, error) {
	args := m.Called(ctx, hotelID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Order), args.Error(1)
}
func (m *mockStore) GetRewardBalance(ctx context.Context, userID, hotelID string) (int64, error) {
	args := m.Called(ctx, userID, hotelID)
	return args.Get(0).(int64), args.Error(1)
}
func (m *mockStore) AddRewardCredit(ctx context.Context, userID, hotelID string, amountPaise int64) error {
	return m.Called(ctx, userID, hotelID, amountPaise).Error(0)
}
func (m *mockStore) ClaimVoucher(ctx context.Context, userID, hotelID string, amountPaise int64) (*models.Voucher, error) {
	args := m.Called(ctx, userID, hotelID, amountPaise)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Voucher), args.Error(1)
}
func (m *mockStore) GetVouchers(ctx context.Context, userID, hotelID string) ([]models.Voucher, error) {
	args := m.Called(ctx, userID, hotelID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Voucher), args.Error(1)
}
func (m *mockStore) UpsertAIUsage(ctx context.Context, usage *models.AIUsage) error {
	return m.Called(ctx, usage).Error(0)
}
func (m *mockStore) GetAIUsageForMonth(ctx context.Context, month string) ([]models.AIUsage, error) {
	args := m.Called(ctx, month)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.AIUsage), args.Error(1)
}

type mockEnqueuer struct {
	mock.Mock
}

func (m *mockEnqueuer) Enqueue(ctx context.Context, taskType, refID string, payload interface{}) error {
	return m.Called(ctx, taskType, refID, payload).Error(0)
}
