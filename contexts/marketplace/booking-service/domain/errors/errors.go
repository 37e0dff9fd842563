package errors

import "errors"

var (
	ErrInvalidRequest             = errors.New("booking: invalid request")
	ErrInvalidPrice               = errors.New("booking: price must be a positive amount")
	ErrBookingNotFound            = errors.New("booking: booking not found")
	ErrProductNotFound            = errors.New("booking: product not found")
	ErrProductUnavailable         = errors.New("booking: product is no longer available")
	ErrBookingAlreadyPaid         = errors.New("booking: booking is already paid")
	ErrBookingAlreadyResolved     = errors.New("booking: booking is already resolved")
	ErrPaymentProviderUnavailable = errors.New("booking: payment provider unavailable")
	ErrIdempotencyKeyRequired     = errors.New("booking: idempotency key required")
	ErrIdempotencyConflict        = errors.New("booking: idempotency key reused with different request")
)
