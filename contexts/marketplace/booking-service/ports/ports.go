package ports

import (
	"context"
	"time"
)

const (
	BookingStatusPending   = "pending"
	BookingStatusCompleted = "completed"
)

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

type Booking struct {
	BookingID       string
	ProductID       string
	ProductName     string
	SellerEmail     string
	BuyerEmail      string
	BuyerName       string
	Phone           string
	MeetingLocation string
	PriceCents      int64
	Status          string
	Paid            bool
	TransactionID   string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type CreateBookingInput struct {
	ProductID       string
	BuyerEmail      string
	BuyerName       string
	Phone           string
	MeetingLocation string
}

type Payment struct {
	PaymentID     string
	BookingID     string
	BuyerEmail    string
	PriceCents    int64
	TransactionID string
	CreatedAt     time.Time
}

type PaymentIntent struct {
	IntentID     string
	ClientSecret string
	AmountCents  int64
	Currency     string
}

// PaymentIntentProvider fronts the external card processor.
type PaymentIntentProvider interface {
	CreateIntent(ctx context.Context, amountCents int64, currency string) (PaymentIntent, error)
}

// Listing is the slice of a catalog product the booking flow needs.
type Listing struct {
	ProductID  string
	Name       string
	OwnerEmail string
	PriceCents int64
	Status     string
	Available  bool
}

// ProductCatalog is the booking-side view of the catalog context. The
// runtime wires it to the catalog application at the composition root.
type ProductCatalog interface {
	GetListing(ctx context.Context, productID string) (Listing, bool, error)
	MarkCompleted(ctx context.Context, productID string) error
}

type IdempotencyRecord struct {
	Key         string
	RequestHash string
	Payload     []byte
	ExpiresAt   time.Time
}

type IdempotencyStore interface {
	Get(ctx context.Context, key string, now time.Time) (IdempotencyRecord, bool, error)
	Put(ctx context.Context, record IdempotencyRecord) error
}

type Repository interface {
	CreateBooking(ctx context.Context, booking Booking) (Booking, error)
	GetBooking(ctx context.Context, bookingID string) (Booking, error)
	ListBookingsByBuyer(ctx context.Context, buyerEmail string) ([]Booking, error)
	// MarkResolved flips a pending booking to completed; a booking that is
	// no longer pending reports ErrBookingAlreadyResolved.
	MarkResolved(ctx context.Context, bookingID string, now time.Time) (Booking, error)
	// CreatePaymentAndMarkPaid records the payment and flips the booking to
	// paid in one transaction.
	CreatePaymentAndMarkPaid(ctx context.Context, payment Payment, now time.Time) (Payment, Booking, error)
}
