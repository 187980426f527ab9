package models

const (
	TicketOpen   = "open"
	TicketClosed = "closed"
)

const (
	OrderPreparing = "preparing"
	OrderDelivered = "delivered"
	OrderCancelled = "cancelled"
)

const (
	VoucherActive    = "active"
	VoucherRedeemed  = "redeemed"
	VoucherExpired   = "expired"
	VoucherCancelled = "cancelled"
)

const (
	// DefaultSLAMinutes applies when no active service row matches a ticket.
	DefaultSLAMinutes = 30

	// BudgetAlertPct is the AI token consumption threshold.
	BudgetAlertPct = 80.0

	// LateAlertPct is the late-closure ratio threshold.
	LateAlertPct = 25

	// LateAlertMinClosures is the per-hotel floor below which the sweep
	// never flags late closures.
	LateAlertMinClosures = 10

	// VoucherStepPaise is the claim denomination: whole ₹100 steps.
	VoucherStepPaise = 10000

	// VoucherMinPaise is the minimum claimable amount (₹100).
	VoucherMinPaise = 10000

	// VoucherValidityDays is how long an issued voucher stays active.
	VoucherValidityDays = 90

	// RateLimitHits is the default per-caller request budget.
	RateLimitHits = 60

	// RateLimitWindow is the default rate-limit window in seconds.
	RateLimitWindow = 60

	// WorkerQueueSize is the in-memory notify queue capacity.
	WorkerQueueSize = 128
)

// IsTerminalOrderStatus reports whether a status closes the order.
func IsTerminalOrderStatus(status string) bool {
	return status == OrderDelivered || status == OrderCancelled
}

// ValidOrderStatus reports whether status is one of the order enum values.
func ValidOrderStatus(status string) bool {
	switch status {
	case OrderPreparing, OrderDelivered, OrderCancelled:
		return true
	}
	return false
}
