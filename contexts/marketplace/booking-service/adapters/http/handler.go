package httpadapter

import (
	"context"
	"log/slog"

	"phonedeck/contexts/marketplace/booking-service/application"
	"phonedeck/contexts/marketplace/booking-service/ports"
	httptransport "phonedeck/contexts/marketplace/booking-service/transport/http"
)

// Handler maps HTTP DTOs to application calls.
type Handler struct {
	Service application.Service
	Logger  *slog.Logger
}

func (h Handler) CreateBookingHandler(
	ctx context.Context,
	idempotencyKey string,
	request httptransport.CreateBookingRequest,
) (httptransport.BookingDTO, error) {
	booking, err := h.Service.CreateBooking(ctx, idempotencyKey, ports.CreateBookingInput{
		ProductID:       request.ProductID,
		BuyerEmail:      request.BuyerEmail,
		BuyerName:       request.BuyerName,
		Phone:           request.Phone,
		MeetingLocation: request.MeetingLocation,
	})
	if err != nil {
		return httptransport.BookingDTO{}, err
	}
	return bookingDTO(booking), nil
}

func (h Handler) GetBookingHandler(ctx context.Context, bookingID string) (httptransport.BookingDTO, error) {
	booking, err := h.Service.GetBooking(ctx, bookingID)
	if err != nil {
		return httptransport.BookingDTO{}, err
	}
	return bookingDTO(booking), nil
}

func (h Handler) ListOrdersHandler(ctx context.Context, buyerEmail string) (httptransport.ListBookingsResponse, error) {
	bookings, err := h.Service.ListOrdersByBuyer(ctx, buyerEmail)
	if err != nil {
		return httptransport.ListBookingsResponse{}, err
	}
	items := make([]httptransport.BookingDTO, 0, len(bookings))
	for _, booking := range bookings {
		items = append(items, bookingDTO(booking))
	}
	return httptransport.ListBookingsResponse{Bookings: items}, nil
}

func (h Handler) ResolveBookingHandler(ctx context.Context, bookingID string) (httptransport.BookingDTO, error) {
	booking, err := h.Service.ResolveBooking(ctx, bookingID)
	if err != nil {
		return httptransport.BookingDTO{}, err
	}
	return bookingDTO(booking), nil
}

func (h Handler) CreatePaymentIntentHandler(
	ctx context.Context,
	request httptransport.CreatePaymentIntentRequest,
) (httptransport.CreatePaymentIntentResponse, error) {
	intent, err := h.Service.CreatePaymentIntent(ctx, request.Price.String())
	if err != nil {
		return httptransport.CreatePaymentIntentResponse{}, err
	}
	return httptransport.CreatePaymentIntentResponse{ClientSecret: intent.ClientSecret}, nil
}

func (h Handler) CreatePaymentHandler(
	ctx context.Context,
	idempotencyKey string,
	request httptransport.CreatePaymentRequest,
) (httptransport.PaymentDTO, error) {
	payment, err := h.Service.CreatePayment(ctx, idempotencyKey, request.BookingID, request.TransactionID)
	if err != nil {
		return httptransport.PaymentDTO{}, err
	}
	return httptransport.PaymentDTO{
		PaymentID:     payment.PaymentID,
		BookingID:     payment.BookingID,
		BuyerEmail:    payment.BuyerEmail,
		PriceCents:    payment.PriceCents,
		TransactionID: payment.TransactionID,
		CreatedAt:     payment.CreatedAt,
	}, nil
}

func bookingDTO(booking ports.Booking) httptransport.BookingDTO {
	return httptransport.BookingDTO{
		BookingID:       booking.BookingID,
		ProductID:       booking.ProductID,
		ProductName:     booking.ProductName,
		SellerEmail:     booking.SellerEmail,
		BuyerEmail:      booking.BuyerEmail,
		BuyerName:       booking.BuyerName,
		Phone:           booking.Phone,
		MeetingLocation: booking.MeetingLocation,
		PriceCents:      booking.PriceCents,
		Status:          booking.Status,
		Paid:            booking.Paid,
		TransactionID:   booking.TransactionID,
		CreatedAt:       booking.CreatedAt,
	}
}
