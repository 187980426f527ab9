package events

import (
	"encoding/json"
	"sync"
	"time"
)

const (
	EventTicketCreated      = "ticket_created"
	EventTicketClosed       = "ticket_closed"
	EventOrderCreated       = "order_created"
	EventOrderStatusChanged = "order_status_changed"
	EventVoucherIssued      = "voucher_issued"
)

// TicketEventPayload is the ticket snapshot for event consumers.
type TicketEventPayload struct {
	TicketID       string     `json:"ticket_id"`
	HotelID        string     `json:"hotel_id"`
	ServiceKey     string     `json:"service_key"`
	Room           string     `json:"room"`
	Status         string     `json:"status"`
	MinutesToClose *int64     `json:"minutes_to_close,omitempty"`
	OnTime         *bool      `json:"on_time,omitempty"`
	ClosedAt       *time.Time `json:"closed_at,omitempty"`
}

// OrderEventPayload is the order snapshot for event consumers.
type OrderEventPayload struct {
	OrderID  string     `json:"order_id"`
	HotelID  string     `json:"hotel_id"`
	ItemKey  string     `json:"item_key"`
	Qty      int64      `json:"qty"`
	Status   string     `json:"status"`
	ClosedAt *time.Time `json:"closed_at,omitempty"`
}

// VoucherEventPayload is the voucher snapshot for event consumers.
type VoucherEventPayload struct {
	VoucherID   string    `json:"voucher_id"`
	Code        string    `json:"code"`
	UserID      string    `json:"user_id"`
	HotelID     string    `json:"hotel_id"`
	AmountPaise int64     `json:"amount_paise"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// Event represents a lightweight domain event.
type Event struct {
	ID        int64
	Type      string
	Payload   []byte
	CreatedAt time.Time
	Processed bool
}

// EventHandler reacts to an event.
type EventHandler func(event *Event) error

// EventBus provides in-process pub/sub for events.
type EventBus struct {
	subscribers map[string][]EventHandler
	mu          sync.RWMutex
}

// NewEventBus constructs an empty bus.
func NewEventBus() *EventBus {
	return &EventBus{subscribers: make(map[string][]EventHandler)}
}

// Subscribe registers a handler for a given event type.
func (b *EventBus) Subscribe(eventType string, handler EventHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers[eventType] = append(b.subscribers[eventType], handler)
}

// Publish notifies subscribers of the event type.
func (b *EventBus) Publish(event *Event) {
	b.mu.RLock()
	handlers := append([]EventHandler(nil), b.subscribers[event.Type]...)
	b.mu.RUnlock()

	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	for _, handler := range handlers {
		// Handlers run synchronously; caller decides concurrency model.
		_ = handler(event)
	}
}

// PublishJSON serializes the payload and publishes an event.
func (b *EventBus) PublishJSON(eventType string, payload interface{}) error {
	if b == nil {
		return nil
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	b.Publish(&Event{Type: eventType, Payload: raw, CreatedAt: time.Now()})
	return nil
}
