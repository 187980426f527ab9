package models

import "time"

// Hotel is a property registered on the platform.
type Hotel struct {
	ID        string    `json:"id" yaml:"id"`
	Name      string    `json:"name" yaml:"name"`
	Active    bool      `json:"active" yaml:"active"`
	CreatedAt time.Time `json:"created_at" yaml:"-"`
}

// Service is a per-hotel catalog entry guests can request.
// SLAMinutes is the target closure time for tickets of this service.
type Service struct {
	ID         int64     `json:"id" yaml:"-"`
	HotelID    string    `json:"hotel_id" yaml:"hotel_id"`
	Key        string    `json:"key" yaml:"key"`
	Label      string    `json:"label" yaml:"label"`
	SLAMinutes int64     `json:"sla_minutes" yaml:"sla_minutes"`
	Active     bool      `json:"active" yaml:"active"`
	CreatedAt  time.Time `json:"created_at" yaml:"-"`
	UpdatedAt  time.Time `json:"updated_at" yaml:"-"`
}

// Ticket is a guest service request. MinutesToClose and OnTime are
// stamped exactly once at closure and never recomputed.
type Ticket struct {
	ID             string     `json:"id"`
	HotelID        string     `json:"hotel_id"`
	ServiceKey     string     `json:"service_key"`
	Room           string     `json:"room"`
	Status         string     `json:"status"`
	CreatedAt      time.Time  `json:"created_at"`
	ClosedAt       *time.Time `json:"closed_at,omitempty"`
	MinutesToClose *int64     `json:"minutes_to_close,omitempty"`
	OnTime         *bool      `json:"on_time,omitempty"`
}

// CloseResult is what a close request returns, identical on repeat calls.
type CloseResult struct {
	MinutesToClose int64 `json:"minutes_to_close"`
	OnTime         bool  `json:"on_time"`
}

// Order is an F&B order. ClosedAt is set exactly when the order enters
// a terminal status and is never cleared.
type Order struct {
	ID         string     `json:"id"`
	HotelID    string     `json:"hotel_id"`
	ItemKey    string     `json:"item_key"`
	Qty        int64      `json:"qty"`
	PricePaise int64      `json:"price_paise"`
	Status     string     `json:"status"`
	CreatedAt  time.Time  `json:"created_at"`
	ClosedAt   *time.Time `json:"closed_at,omitempty"`
}

// AIUsage is a per-hotel, per-month token counter maintained by an
// external process; this layer only reads it.
type AIUsage struct {
	HotelID      string `json:"hotel_id"`
	Month        string `json:"month"` // YYYY-MM, UTC
	UsedTokens   int64  `json:"used_tokens"`
	BudgetTokens int64  `json:"budget_tokens"`
}

// Voucher is a property-scoped credit instrument issued against a
// reward balance.
type Voucher struct {
	ID          string    `json:"id"`
	Code        string    `json:"code"`
	UserID      string    `json:"user_id"`
	HotelID     string    `json:"hotel_id"`
	AmountPaise int64     `json:"amount_paise"`
	Status      string    `json:"status"`
	ExpiresAt   time.Time `json:"expires_at"`
	CreatedAt   time.Time `json:"created_at"`
}

// LateClosureStat aggregates closed tickets per hotel over a window.
type LateClosureStat struct {
	HotelID string `json:"hotel_id"`
	Closed  int64  `json:"closed"`
	Late    int64  `json:"late"`
}

// NotifyTask is a queued outbound notification delivery.
type NotifyTask struct {
	ID          int64      `json:"id"`
	TaskType    string     `json:"task_type"`
	RefID       string     `json:"ref_id"`
	Payload     string     `json:"payload"`
	Status      string     `json:"status"`
	RetryCount  int        `json:"retry_count"`
	LastError   string     `json:"last_error"`
	CreatedAt   time.Time  `json:"created_at"`
	ProcessedAt *time.Time `json:"processed_at,omitempty"`
	NextRetryAt *time.Time `json:"next_retry_at,omitempty"`
}
