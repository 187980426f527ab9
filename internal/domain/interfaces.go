package domain

import (
	"context"
	"time"

	"hotelops/internal/models"
)

// Store is the persistence boundary the services depend on.
type Store interface {
	GetHotel(ctx context.Context, id string) (*models.Hotel, error)
	CreateOrUpdateHotel(ctx context.Context, hotel *models.Hotel) error

	UpsertService(ctx context.Context, service *models.Service) error
	GetServiceSLA(ctx context.Context, hotelID, key string) (int64, error)
	GetServices(ctx context.Context, hotelID string) ([]models.Service, error)
	DeactivateService(ctx context.Context, hotelID, key string) error

	CreateTicket(ctx context.Context, ticket *models.Ticket) error
	GetTicket(ctx context.Context, id string) (*models.Ticket, error)
	CloseTicket(ctx context.Context, id string, closedAt time.Time, minutes int64, onTime bool) error
	GetTicketsByHotel(ctx context.Context, hotelID string, limit int) ([]models.Ticket, error)
	GetLateClosureStats(ctx context.Context, since time.Time) ([]models.LateClosureStat, error)

	CreateOrder(ctx context.Context, order *models.Order) error
	GetOrder(ctx context.Context, id string) (*models.Order, error)
	UpdateOrderStatus(ctx context.Context, id, status string) error
	GetOrdersByHotel(ctx context.Context, hotelID string, limit int) ([]models.Order, error)

	GetRewardBalance(ctx context.Context, userID, hotelID string) (int64, error)
	AddRewardCredit(ctx context.Context, userID, hotelID string, amountPaise int64) error
	ClaimVoucher(ctx context.Context, userID, hotelID string, amountPaise int64) (*models.Voucher, error)
	GetVouchers(ctx context.Context, userID, hotelID string) ([]models.Voucher, error)

	UpsertAIUsage(ctx context.Context, usage *models.AIUsage) error
	GetAIUsageForMonth(ctx context.Context, month string) ([]models.AIUsage, error)
}

// Notifier delivers one outbound notification, best-effort. Implementations
// must swallow their own transport errors only when the caller asks for it;
// the monitor wraps Notify so a failure never fails a sweep.
type Notifier interface {
	Notify(ctx context.Context, title, text string, meta map[string]string) error
}

// HitCounter is the narrow increment-and-check interface for rate
// limiting: one call counts a hit for key inside the window and reports
// whether the caller is still under the limit.
type HitCounter interface {
	CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

// EventPublisher pushes domain events to in-process subscribers.
type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}

// NotifyEnqueuer hands a guest-facing notification to the dispatch queue.
type NotifyEnqueuer interface {
	Enqueue(ctx context.Context, taskType, refID string, payload interface{}) error
}
