package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	domainerrors "phonedeck/contexts/marketplace/booking-service/domain/errors"
	"phonedeck/contexts/marketplace/booking-service/ports"
)

// Store backs the booking service for tests and local runs. It also stands
// in for the catalog and the payment provider so the module works without
// external wiring.
type Store struct {
	mu                sync.RWMutex
	bookingsByID      map[string]ports.Booking
	paymentsByBooking map[string]ports.Payment
	listingsByID      map[string]ports.Listing
	idempotencyByKey  map[string]ports.IdempotencyRecord
	sequence          uint64
}

func NewStore() *Store {
	return &Store{
		bookingsByID:      make(map[string]ports.Booking),
		paymentsByBooking: make(map[string]ports.Payment),
		listingsByID:      make(map[string]ports.Listing),
		idempotencyByKey:  make(map[string]ports.IdempotencyRecord),
	}
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return fmt.Sprintf("bkg_%06d", atomic.AddUint64(&s.sequence, 1)), nil
}

// SeedListing registers a catalog listing the booking flow can book.
func (s *Store) SeedListing(listing ports.Listing) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listingsByID[listing.ProductID] = listing
}

func (s *Store) GetListing(_ context.Context, productID string) (ports.Listing, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	listing, found := s.listingsByID[productID]
	return listing, found, nil
}

func (s *Store) MarkCompleted(_ context.Context, productID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	listing, found := s.listingsByID[productID]
	if !found {
		return domainerrors.ErrProductNotFound
	}
	listing.Available = false
	s.listingsByID[productID] = listing
	return nil
}

// CreateIntent fakes the card processor for local runs.
func (s *Store) CreateIntent(_ context.Context, amountCents int64, currency string) (ports.PaymentIntent, error) {
	n := atomic.AddUint64(&s.sequence, 1)
	intentID := fmt.Sprintf("pi_local_%06d", n)
	return ports.PaymentIntent{
		IntentID:     intentID,
		ClientSecret: fmt.Sprintf("%s_secret_%06d", intentID, n),
		AmountCents:  amountCents,
		Currency:     currency,
	}, nil
}

func (s *Store) CreateBooking(_ context.Context, booking ports.Booking) (ports.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.bookingsByID[booking.BookingID] = booking
	return booking, nil
}

func (s *Store) GetBooking(_ context.Context, bookingID string) (ports.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	booking, found := s.bookingsByID[bookingID]
	if !found {
		return ports.Booking{}, domainerrors.ErrBookingNotFound
	}
	return booking, nil
}

func (s *Store) ListBookingsByBuyer(_ context.Context, buyerEmail string) ([]ports.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]ports.Booking, 0)
	for _, booking := range s.bookingsByID {
		if booking.BuyerEmail == strings.ToLower(buyerEmail) {
			items = append(items, booking)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].BookingID < items[j].BookingID
		}
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	return items, nil
}

func (s *Store) MarkResolved(_ context.Context, bookingID string, now time.Time) (ports.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	booking, found := s.bookingsByID[bookingID]
	if !found {
		return ports.Booking{}, domainerrors.ErrBookingNotFound
	}
	if booking.Status != ports.BookingStatusPending {
		return ports.Booking{}, domainerrors.ErrBookingAlreadyResolved
	}
	booking.Status = ports.BookingStatusCompleted
	booking.UpdatedAt = now
	s.bookingsByID[bookingID] = booking
	return booking, nil
}

func (s *Store) CreatePaymentAndMarkPaid(_ context.Context, payment ports.Payment, now time.Time) (ports.Payment, ports.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	booking, found := s.bookingsByID[payment.BookingID]
	if !found {
		return ports.Payment{}, ports.Booking{}, domainerrors.ErrBookingNotFound
	}
	if booking.Paid {
		return ports.Payment{}, ports.Booking{}, domainerrors.ErrBookingAlreadyPaid
	}
	if _, exists := s.paymentsByBooking[payment.BookingID]; exists {
		return ports.Payment{}, ports.Booking{}, domainerrors.ErrBookingAlreadyPaid
	}

	booking.Paid = true
	booking.TransactionID = payment.TransactionID
	booking.UpdatedAt = now
	s.bookingsByID[payment.BookingID] = booking
	s.paymentsByBooking[payment.BookingID] = payment
	return payment, booking, nil
}

func (s *Store) Get(_ context.Context, key string, now time.Time) (ports.IdempotencyRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, found := s.idempotencyByKey[key]
	if !found || now.After(record.ExpiresAt) {
		return ports.IdempotencyRecord{}, false, nil
	}
	return record, true, nil
}

func (s *Store) Put(_ context.Context, record ports.IdempotencyRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.idempotencyByKey[record.Key] = record
	return nil
}
