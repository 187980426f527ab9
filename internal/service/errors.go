package service

import "errors"

// Validation failures, detected before the store is contacted.
var (
	ErrIDRequired         = errors.New("id is required")
	ErrHotelRequired      = errors.New("hotel_id is required")
	ErrServiceKeyRequired = errors.New("service_key is required")
	ErrItemKeyRequired    = errors.New("item_key is required")
	ErrUserRequired       = errors.New("user_id is required")
	ErrStatusRequired     = errors.New("status is required")
	ErrInvalidStatus      = errors.New("status must be preparing, delivered or cancelled")
	ErrInvalidQty         = errors.New("qty must be positive")
	ErrInvalidSLA         = errors.New("sla_minutes must not be negative")

	ErrAmountNotPositive = errors.New("amount must be positive")
	ErrAmountDenomination = errors.New("amount must be a whole multiple of 10000 paise")
	ErrAmountBelowMinimum = errors.New("amount must be at least 10000 paise")
)
