package application

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"

	domainerrors "phonedeck/contexts/marketplace/booking-service/domain/errors"
	"phonedeck/contexts/marketplace/booking-service/ports"
)

const defaultCurrency = "usd"

type Service struct {
	Repo           ports.Repository
	Idempotency    ports.IdempotencyStore
	Catalog        ports.ProductCatalog
	Payments       ports.PaymentIntentProvider
	Clock          ports.Clock
	IDGen          ports.IDGenerator
	Logger         *slog.Logger
	IdempotencyTTL time.Duration
}

// CreateBooking snapshots the listing price into the booking so later
// repricing of the product cannot change what the buyer owes.
func (s Service) CreateBooking(
	ctx context.Context,
	idempotencyKey string,
	input ports.CreateBookingInput,
) (ports.Booking, error) {
	var out ports.Booking
	input.ProductID = strings.TrimSpace(input.ProductID)
	input.BuyerEmail = strings.ToLower(strings.TrimSpace(input.BuyerEmail))
	if input.ProductID == "" || input.BuyerEmail == "" {
		return out, domainerrors.ErrInvalidRequest
	}
	if err := s.requireIdempotency(idempotencyKey); err != nil {
		return out, err
	}

	listing, found, err := s.Catalog.GetListing(ctx, input.ProductID)
	if err != nil {
		return out, err
	}
	if !found {
		return out, domainerrors.ErrProductNotFound
	}
	if !listing.Available {
		return out, domainerrors.ErrProductUnavailable
	}

	requestHash := hashStrings("create_booking", input.ProductID, input.BuyerEmail, input.MeetingLocation)
	err = s.runIdempotent(
		ctx,
		strings.TrimSpace(idempotencyKey),
		requestHash,
		func(raw []byte) error { return json.Unmarshal(raw, &out) },
		func() ([]byte, error) {
			bookingID, err := s.IDGen.NewID(ctx)
			if err != nil {
				return nil, err
			}
			now := s.now()
			booking, err := s.Repo.CreateBooking(ctx, ports.Booking{
				BookingID:       bookingID,
				ProductID:       listing.ProductID,
				ProductName:     listing.Name,
				SellerEmail:     strings.ToLower(listing.OwnerEmail),
				BuyerEmail:      input.BuyerEmail,
				BuyerName:       strings.TrimSpace(input.BuyerName),
				Phone:           strings.TrimSpace(input.Phone),
				MeetingLocation: strings.TrimSpace(input.MeetingLocation),
				PriceCents:      listing.PriceCents,
				Status:          ports.BookingStatusPending,
				CreatedAt:       now,
				UpdatedAt:       now,
			})
			if err != nil {
				return nil, err
			}
			resolveLogger(s.Logger).Info("booking created",
				"event", "booking_created",
				"module", "marketplace/booking-service",
				"layer", "application",
				"booking_id", booking.BookingID,
				"product_id", booking.ProductID,
				"buyer_email", booking.BuyerEmail,
			)
			return json.Marshal(booking)
		},
	)
	return out, err
}

func (s Service) GetBooking(ctx context.Context, bookingID string) (ports.Booking, error) {
	if strings.TrimSpace(bookingID) == "" {
		return ports.Booking{}, domainerrors.ErrInvalidRequest
	}
	return s.Repo.GetBooking(ctx, strings.TrimSpace(bookingID))
}

func (s Service) ListOrdersByBuyer(ctx context.Context, buyerEmail string) ([]ports.Booking, error) {
	buyerEmail = strings.ToLower(strings.TrimSpace(buyerEmail))
	if buyerEmail == "" {
		return nil, domainerrors.ErrInvalidRequest
	}
	return s.Repo.ListBookingsByBuyer(ctx, buyerEmail)
}

// ResolveBooking moves a pending booking to completed, then retires the
// product from the catalog. The catalog write is best-effort across stores
// and logged when it fails.
func (s Service) ResolveBooking(ctx context.Context, bookingID string) (ports.Booking, error) {
	bookingID = strings.TrimSpace(bookingID)
	if bookingID == "" {
		return ports.Booking{}, domainerrors.ErrInvalidRequest
	}

	booking, err := s.Repo.MarkResolved(ctx, bookingID, s.now())
	if err != nil {
		return ports.Booking{}, err
	}

	if err := s.Catalog.MarkCompleted(ctx, booking.ProductID); err != nil {
		resolveLogger(s.Logger).Warn("product completion after booking resolution failed",
			"event", "booking_product_completion_failed",
			"module", "marketplace/booking-service",
			"layer", "application",
			"booking_id", booking.BookingID,
			"product_id", booking.ProductID,
			"error", err.Error(),
		)
	}

	resolveLogger(s.Logger).Info("booking resolved",
		"event", "booking_resolved",
		"module", "marketplace/booking-service",
		"layer", "application",
		"booking_id", booking.BookingID,
		"status", booking.Status,
	)
	return booking, nil
}

// CreatePaymentIntent accepts the price as the client sent it (string or
// numeric literal), converts to cents, and asks the provider for a secret.
func (s Service) CreatePaymentIntent(ctx context.Context, rawPrice string) (ports.PaymentIntent, error) {
	amountCents, err := priceToCents(rawPrice)
	if err != nil {
		return ports.PaymentIntent{}, err
	}

	intent, err := s.Payments.CreateIntent(ctx, amountCents, defaultCurrency)
	if err != nil {
		resolveLogger(s.Logger).Error("payment intent creation failed",
			"event", "payment_intent_failed",
			"module", "marketplace/booking-service",
			"layer", "application",
			"amount_cents", amountCents,
			"error", err.Error(),
		)
		return ports.PaymentIntent{}, err
	}

	resolveLogger(s.Logger).Info("payment intent created",
		"event", "payment_intent_created",
		"module", "marketplace/booking-service",
		"layer", "application",
		"intent_id", intent.IntentID,
		"amount_cents", intent.AmountCents,
	)
	return intent, nil
}

// CreatePayment records a settled charge against a booking and marks the
// booking paid in the same transaction.
func (s Service) CreatePayment(
	ctx context.Context,
	idempotencyKey string,
	bookingID string,
	transactionID string,
) (ports.Payment, error) {
	var out ports.Payment
	bookingID = strings.TrimSpace(bookingID)
	transactionID = strings.TrimSpace(transactionID)
	if bookingID == "" || transactionID == "" {
		return out, domainerrors.ErrInvalidRequest
	}
	if err := s.requireIdempotency(idempotencyKey); err != nil {
		return out, err
	}

	requestHash := hashStrings("create_payment", bookingID, transactionID)
	err := s.runIdempotent(
		ctx,
		strings.TrimSpace(idempotencyKey),
		requestHash,
		func(raw []byte) error { return json.Unmarshal(raw, &out) },
		func() ([]byte, error) {
			// The paid guard lives inside the idempotent section so a replay
			// of a settled payment returns the recorded response instead of
			// a conflict.
			booking, err := s.Repo.GetBooking(ctx, bookingID)
			if err != nil {
				return nil, err
			}
			if booking.Paid {
				return nil, domainerrors.ErrBookingAlreadyPaid
			}
			paymentID, err := s.IDGen.NewID(ctx)
			if err != nil {
				return nil, err
			}
			now := s.now()
			payment, _, err := s.Repo.CreatePaymentAndMarkPaid(ctx, ports.Payment{
				PaymentID:     paymentID,
				BookingID:     booking.BookingID,
				BuyerEmail:    booking.BuyerEmail,
				PriceCents:    booking.PriceCents,
				TransactionID: transactionID,
				CreatedAt:     now,
			}, now)
			if err != nil {
				return nil, err
			}
			resolveLogger(s.Logger).Info("payment recorded",
				"event", "payment_recorded",
				"module", "marketplace/booking-service",
				"layer", "application",
				"payment_id", payment.PaymentID,
				"booking_id", payment.BookingID,
			)
			return json.Marshal(payment)
		},
	)
	return out, err
}

func (s Service) now() time.Time {
	if s.Clock == nil {
		return time.Now().UTC()
	}
	return s.Clock.Now().UTC()
}

func (s Service) idempotencyTTL() time.Duration {
	if s.IdempotencyTTL <= 0 {
		return 7 * 24 * time.Hour
	}
	return s.IdempotencyTTL
}

func (s Service) requireIdempotency(key string) error {
	if strings.TrimSpace(key) == "" {
		return domainerrors.ErrIdempotencyKeyRequired
	}
	return nil
}

func (s Service) runIdempotent(
	ctx context.Context,
	key string,
	requestHash string,
	decode func([]byte) error,
	exec func() ([]byte, error),
) error {
	now := s.now()
	record, found, err := s.Idempotency.Get(ctx, key, now)
	if err != nil {
		return err
	}
	if found {
		if record.RequestHash != requestHash {
			return domainerrors.ErrIdempotencyConflict
		}
		return decode(record.Payload)
	}

	payload, err := exec()
	if err != nil {
		return err
	}
	if err := s.Idempotency.Put(ctx, ports.IdempotencyRecord{
		Key:         key,
		RequestHash: requestHash,
		Payload:     payload,
		ExpiresAt:   now.Add(s.idempotencyTTL()),
	}); err != nil {
		return err
	}
	return decode(payload)
}

func priceToCents(rawPrice string) (int64, error) {
	rawPrice = strings.TrimSpace(rawPrice)
	if rawPrice == "" {
		return 0, domainerrors.ErrInvalidPrice
	}
	price, err := strconv.ParseFloat(rawPrice, 64)
	if err != nil || math.IsNaN(price) || math.IsInf(price, 0) {
		return 0, domainerrors.ErrInvalidPrice
	}
	if price <= 0 {
		return 0, domainerrors.ErrInvalidPrice
	}
	return int64(math.Round(price * 100)), nil
}

func hashStrings(values ...string) string {
	sum := sha256.Sum256([]byte(strings.Join(values, "|")))
	return hex.EncodeToString(sum[:])
}
