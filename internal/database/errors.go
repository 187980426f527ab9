package database

import "errors"

var (
	ErrHotelNotFound   = errors.New("hotel not found")
	ErrServiceNotFound = errors.New("service not found")
	ErrTicketNotFound  = errors.New("ticket not found")
	ErrOrderNotFound   = errors.New("order not found")
	ErrVoucherNotFound = errors.New("voucher not found")

	// ErrOrderClosed is returned when a status update targets an order
	// that already reached a terminal state.
	ErrOrderClosed = errors.New("order already closed")

	// ErrInsufficientBalance is the store-side rejection of a voucher
	// claim that exceeds the available reward balance.
	ErrInsufficientBalance = errors.New("insufficient reward balance")
)
