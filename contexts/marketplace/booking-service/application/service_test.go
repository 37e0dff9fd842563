package application_test

import (
	"context"
	"errors"
	"testing"

	"phonedeck/contexts/marketplace/booking-service/adapters/memory"
	"phonedeck/contexts/marketplace/booking-service/application"
	domainerrors "phonedeck/contexts/marketplace/booking-service/domain/errors"
	"phonedeck/contexts/marketplace/booking-service/ports"
)

func newService() (application.Service, *memory.Store) {
	store := memory.NewStore()
	store.SeedListing(ports.Listing{
		ProductID:  "prod_000001",
		Name:       "iPhone 12 Pro",
		OwnerEmail: "sam@example.com",
		PriceCents: 45000,
		Status:     "available",
		Available:  true,
	})
	return application.Service{
		Repo:        store,
		Idempotency: store,
		Catalog:     store,
		Payments:    store,
		Clock:       store,
		IDGen:       store,
	}, store
}

func createBooking(t *testing.T, service application.Service, key string) ports.Booking {
	t.Helper()
	booking, err := service.CreateBooking(context.Background(), key, ports.CreateBookingInput{
		ProductID:       "prod_000001",
		BuyerEmail:      "pat@example.com",
		BuyerName:       "Pat",
		Phone:           "01711111111",
		MeetingLocation: "Dhanmondi",
	})
	if err != nil {
		t.Fatalf("create booking failed: %v", err)
	}
	return booking
}

func TestCreateBookingSnapshotsListingPrice(t *testing.T) {
	service, _ := newService()

	booking := createBooking(t, service, "idem-book-1")
	if booking.PriceCents != 45000 {
		t.Fatalf("expected price snapshot 45000, got %d", booking.PriceCents)
	}
	if booking.ProductName != "iPhone 12 Pro" {
		t.Fatalf("expected product name snapshot, got %q", booking.ProductName)
	}
	if booking.SellerEmail != "sam@example.com" {
		t.Fatalf("expected seller email snapshot, got %q", booking.SellerEmail)
	}
	if booking.Status != ports.BookingStatusPending || booking.Paid {
		t.Fatalf("unexpected fresh booking state: %+v", booking)
	}
}

func TestCreateBookingRequiresIdempotencyKey(t *testing.T) {
	service, _ := newService()

	_, err := service.CreateBooking(context.Background(), "", ports.CreateBookingInput{
		ProductID:  "prod_000001",
		BuyerEmail: "pat@example.com",
	})
	if !errors.Is(err, domainerrors.ErrIdempotencyKeyRequired) {
		t.Fatalf("expected ErrIdempotencyKeyRequired, got %v", err)
	}
}

func TestCreateBookingUnknownProduct(t *testing.T) {
	service, _ := newService()

	_, err := service.CreateBooking(context.Background(), "idem-book-x", ports.CreateBookingInput{
		ProductID:  "prod_missing",
		BuyerEmail: "pat@example.com",
	})
	if !errors.Is(err, domainerrors.ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
}

func TestCreateBookingUnavailableProduct(t *testing.T) {
	service, store := newService()
	store.SeedListing(ports.Listing{
		ProductID: "prod_000002",
		Name:      "Pixel 6",
		Available: false,
	})

	_, err := service.CreateBooking(context.Background(), "idem-book-y", ports.CreateBookingInput{
		ProductID:  "prod_000002",
		BuyerEmail: "pat@example.com",
	})
	if !errors.Is(err, domainerrors.ErrProductUnavailable) {
		t.Fatalf("expected ErrProductUnavailable, got %v", err)
	}
}

func TestCreateBookingIdempotencyReplayAndConflict(t *testing.T) {
	service, _ := newService()

	first := createBooking(t, service, "idem-book-replay")
	replay := createBooking(t, service, "idem-book-replay")
	if replay.BookingID != first.BookingID {
		t.Fatalf("expected replay to return booking %q, got %q", first.BookingID, replay.BookingID)
	}

	_, err := service.CreateBooking(context.Background(), "idem-book-replay", ports.CreateBookingInput{
		ProductID:       "prod_000001",
		BuyerEmail:      "pat@example.com",
		MeetingLocation: "Uttara",
	})
	if !errors.Is(err, domainerrors.ErrIdempotencyConflict) {
		t.Fatalf("expected ErrIdempotencyConflict for reused key, got %v", err)
	}
}

func TestResolveBookingRetiresListing(t *testing.T) {
	service, store := newService()
	booking := createBooking(t, service, "idem-book-2")

	resolved, err := service.ResolveBooking(context.Background(), booking.BookingID)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if resolved.Status != ports.BookingStatusCompleted {
		t.Fatalf("expected completed status, got %q", resolved.Status)
	}

	listing, found, err := store.GetListing(context.Background(), booking.ProductID)
	if err != nil || !found {
		t.Fatalf("listing lookup failed: found=%v err=%v", found, err)
	}
	if listing.Available {
		t.Fatalf("expected listing retired after resolution")
	}

	if _, err := service.ResolveBooking(context.Background(), booking.BookingID); !errors.Is(err, domainerrors.ErrBookingAlreadyResolved) {
		t.Fatalf("expected ErrBookingAlreadyResolved, got %v", err)
	}
}

func TestResolveBookingUnknownBooking(t *testing.T) {
	service, _ := newService()

	if _, err := service.ResolveBooking(context.Background(), "bkg_missing"); !errors.Is(err, domainerrors.ErrBookingNotFound) {
		t.Fatalf("expected ErrBookingNotFound, got %v", err)
	}
}

func TestCreatePaymentMarksBookingPaid(t *testing.T) {
	service, _ := newService()
	booking := createBooking(t, service, "idem-book-4")

	payment, err := service.CreatePayment(context.Background(), "idem-pay-1", booking.BookingID, "txn_123")
	if err != nil {
		t.Fatalf("create payment failed: %v", err)
	}
	if payment.PriceCents != booking.PriceCents {
		t.Fatalf("expected payment at booking price, got %d", payment.PriceCents)
	}

	paid, err := service.GetBooking(context.Background(), booking.BookingID)
	if err != nil {
		t.Fatalf("get booking failed: %v", err)
	}
	if !paid.Paid || paid.TransactionID != "txn_123" {
		t.Fatalf("expected paid booking with transaction id, got %+v", paid)
	}

	if _, err := service.CreatePayment(context.Background(), "idem-pay-2", booking.BookingID, "txn_456"); !errors.Is(err, domainerrors.ErrBookingAlreadyPaid) {
		t.Fatalf("expected ErrBookingAlreadyPaid, got %v", err)
	}
}

func TestCreatePaymentIdempotentReplay(t *testing.T) {
	service, _ := newService()
	booking := createBooking(t, service, "idem-book-5")

	first, err := service.CreatePayment(context.Background(), "idem-pay-replay", booking.BookingID, "txn_123")
	if err != nil {
		t.Fatalf("create payment failed: %v", err)
	}
	replay, err := service.CreatePayment(context.Background(), "idem-pay-replay", booking.BookingID, "txn_123")
	if err != nil {
		t.Fatalf("replay failed: %v", err)
	}
	if replay.PaymentID != first.PaymentID {
		t.Fatalf("expected replayed payment %q, got %q", first.PaymentID, replay.PaymentID)
	}
}

func TestCreatePaymentIntentConvertsPriceToCents(t *testing.T) {
	service, _ := newService()

	intent, err := service.CreatePaymentIntent(context.Background(), "49.99")
	if err != nil {
		t.Fatalf("create intent failed: %v", err)
	}
	if intent.AmountCents != 4999 {
		t.Fatalf("expected 4999 cents, got %d", intent.AmountCents)
	}
	if intent.ClientSecret == "" {
		t.Fatalf("expected client secret")
	}
}

func TestCreatePaymentIntentRejectsBadPrice(t *testing.T) {
	service, _ := newService()

	for _, raw := range []string{"", "0", "-10", "banana", "NaN"} {
		if _, err := service.CreatePaymentIntent(context.Background(), raw); !errors.Is(err, domainerrors.ErrInvalidPrice) {
			t.Fatalf("expected ErrInvalidPrice for %q, got %v", raw, err)
		}
	}
}
