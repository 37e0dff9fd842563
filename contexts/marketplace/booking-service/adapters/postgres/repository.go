package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	domainerrors "phonedeck/contexts/marketplace/booking-service/domain/errors"
	"phonedeck/contexts/marketplace/booking-service/ports"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		logger: logger,
	}
}

func (r *Repository) CreateBooking(ctx context.Context, booking ports.Booking) (ports.Booking, error) {
	row := bookingModelFromPort(booking)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return ports.Booking{}, err
	}
	return row.toPort(), nil
}

func (r *Repository) GetBooking(ctx context.Context, bookingID string) (ports.Booking, error) {
	var row bookingModel
	err := r.db.WithContext(ctx).
		Where("booking_id = ?", bookingID).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.Booking{}, domainerrors.ErrBookingNotFound
		}
		return ports.Booking{}, err
	}
	return row.toPort(), nil
}

func (r *Repository) ListBookingsByBuyer(ctx context.Context, buyerEmail string) ([]ports.Booking, error) {
	var rows []bookingModel
	if err := r.db.WithContext(ctx).
		Where("buyer_email = ?", strings.ToLower(buyerEmail)).
		Order("created_at DESC").
		Find(&rows).
		Error; err != nil {
		return nil, err
	}
	items := make([]ports.Booking, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toPort())
	}
	return items, nil
}

func (r *Repository) MarkResolved(ctx context.Context, bookingID string, now time.Time) (ports.Booking, error) {
	result := r.db.WithContext(ctx).
		Model(&bookingModel{}).
		Where("booking_id = ? AND status = ?", bookingID, ports.BookingStatusPending).
		Updates(map[string]any{
			"status":     ports.BookingStatusCompleted,
			"updated_at": now.UTC(),
		})
	if result.Error != nil {
		return ports.Booking{}, result.Error
	}
	if result.RowsAffected == 0 {
		booking, err := r.GetBooking(ctx, bookingID)
		if err != nil {
			return ports.Booking{}, err
		}
		if booking.Status != ports.BookingStatusPending {
			return ports.Booking{}, domainerrors.ErrBookingAlreadyResolved
		}
		return ports.Booking{}, domainerrors.ErrBookingNotFound
	}
	return r.GetBooking(ctx, bookingID)
}

func (r *Repository) CreatePaymentAndMarkPaid(ctx context.Context, payment ports.Payment, now time.Time) (ports.Payment, ports.Booking, error) {
	var bookingRow bookingModel
	paymentRow := paymentModelFromPort(payment)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&paymentRow).Error; err != nil {
			if isUniqueViolation(err) {
				return domainerrors.ErrBookingAlreadyPaid
			}
			return err
		}

		result := tx.Model(&bookingModel{}).
			Where("booking_id = ? AND paid = ?", payment.BookingID, false).
			Updates(map[string]any{
				"paid":           true,
				"transaction_id": payment.TransactionID,
				"updated_at":     now.UTC(),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			var exists bookingModel
			if err := tx.Where("booking_id = ?", payment.BookingID).First(&exists).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return domainerrors.ErrBookingNotFound
				}
				return err
			}
			return domainerrors.ErrBookingAlreadyPaid
		}

		return tx.Where("booking_id = ?", payment.BookingID).First(&bookingRow).Error
	})
	if err != nil {
		return ports.Payment{}, ports.Booking{}, err
	}
	return paymentRow.toPort(), bookingRow.toPort(), nil
}

func (r *Repository) Get(ctx context.Context, key string, now time.Time) (ports.IdempotencyRecord, bool, error) {
	var row idempotencyModel
	err := r.db.WithContext(ctx).
		Where("idempotency_key = ? AND expires_at > ?", key, now.UTC()).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.IdempotencyRecord{}, false, nil
		}
		return ports.IdempotencyRecord{}, false, err
	}
	return ports.IdempotencyRecord{
		Key:         row.IdempotencyKey,
		RequestHash: row.RequestHash,
		Payload:     row.Payload,
		ExpiresAt:   row.ExpiresAt.UTC(),
	}, true, nil
}

func (r *Repository) Put(ctx context.Context, record ports.IdempotencyRecord) error {
	row := idempotencyModel{
		IdempotencyKey: record.Key,
		RequestHash:    record.RequestHash,
		Payload:        record.Payload,
		ExpiresAt:      record.ExpiresAt.UTC(),
	}
	err := r.db.WithContext(ctx).Create(&row).Error
	if err != nil && isUniqueViolation(err) {
		return nil
	}
	return err
}

type bookingModel struct {
	BookingID       string    `gorm:"column:booking_id;primaryKey"`
	ProductID       string    `gorm:"column:product_id"`
	ProductName     string    `gorm:"column:product_name"`
	SellerEmail     string    `gorm:"column:seller_email"`
	BuyerEmail      string    `gorm:"column:buyer_email"`
	BuyerName       string    `gorm:"column:buyer_name"`
	Phone           string    `gorm:"column:phone"`
	MeetingLocation string    `gorm:"column:meeting_location"`
	PriceCents      int64     `gorm:"column:price_cents"`
	Status          string    `gorm:"column:status"`
	Paid            bool      `gorm:"column:paid"`
	TransactionID   string    `gorm:"column:transaction_id"`
	CreatedAt       time.Time `gorm:"column:created_at"`
	UpdatedAt       time.Time `gorm:"column:updated_at"`
}

func (bookingModel) TableName() string {
	return "bookings"
}

type paymentModel struct {
	PaymentID     string    `gorm:"column:payment_id;primaryKey"`
	BookingID     string    `gorm:"column:booking_id;uniqueIndex:payments_booking_id_key"`
	BuyerEmail    string    `gorm:"column:buyer_email"`
	PriceCents    int64     `gorm:"column:price_cents"`
	TransactionID string    `gorm:"column:transaction_id"`
	CreatedAt     time.Time `gorm:"column:created_at"`
}

func (paymentModel) TableName() string {
	return "payments"
}

type idempotencyModel struct {
	IdempotencyKey string    `gorm:"column:idempotency_key;primaryKey"`
	RequestHash    string    `gorm:"column:request_hash"`
	Payload        []byte    `gorm:"column:payload"`
	ExpiresAt      time.Time `gorm:"column:expires_at"`
}

func (idempotencyModel) TableName() string {
	return "booking_idempotency_keys"
}

func bookingModelFromPort(booking ports.Booking) bookingModel {
	return bookingModel{
		BookingID:       booking.BookingID,
		ProductID:       booking.ProductID,
		ProductName:     booking.ProductName,
		SellerEmail:     strings.ToLower(booking.SellerEmail),
		BuyerEmail:      strings.ToLower(booking.BuyerEmail),
		BuyerName:       booking.BuyerName,
		Phone:           booking.Phone,
		MeetingLocation: booking.MeetingLocation,
		PriceCents:      booking.PriceCents,
		Status:          booking.Status,
		Paid:            booking.Paid,
		TransactionID:   booking.TransactionID,
		CreatedAt:       booking.CreatedAt.UTC(),
		UpdatedAt:       booking.UpdatedAt.UTC(),
	}
}

func (m bookingModel) toPort() ports.Booking {
	return ports.Booking{
		BookingID:       m.BookingID,
		ProductID:       m.ProductID,
		ProductName:     m.ProductName,
		SellerEmail:     m.SellerEmail,
		BuyerEmail:      m.BuyerEmail,
		BuyerName:       m.BuyerName,
		Phone:           m.Phone,
		MeetingLocation: m.MeetingLocation,
		PriceCents:      m.PriceCents,
		Status:          m.Status,
		Paid:            m.Paid,
		TransactionID:   m.TransactionID,
		CreatedAt:       m.CreatedAt.UTC(),
		UpdatedAt:       m.UpdatedAt.UTC(),
	}
}

func paymentModelFromPort(payment ports.Payment) paymentModel {
	return paymentModel{
		PaymentID:     payment.PaymentID,
		BookingID:     payment.BookingID,
		BuyerEmail:    strings.ToLower(payment.BuyerEmail),
		PriceCents:    payment.PriceCents,
		TransactionID: payment.TransactionID,
		CreatedAt:     payment.CreatedAt.UTC(),
	}
}

func (m paymentModel) toPort() ports.Payment {
	return ports.Payment{
		PaymentID:     m.PaymentID,
		BookingID:     m.BookingID,
		BuyerEmail:    m.BuyerEmail,
		PriceCents:    m.PriceCents,
		TransactionID: m.TransactionID,
		CreatedAt:     m.CreatedAt.UTC(),
	}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
