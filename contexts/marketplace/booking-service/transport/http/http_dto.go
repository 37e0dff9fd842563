package httptransport

import (
	"encoding/json"
	"time"
)

type CreateBookingRequest struct {
	ProductID       string `json:"productId"`
	BuyerEmail      string `json:"buyerEmail"`
	BuyerName       string `json:"buyerName,omitempty"`
	Phone           string `json:"phone,omitempty"`
	MeetingLocation string `json:"meetingLocation,omitempty"`
}

type BookingDTO struct {
	BookingID       string    `json:"bookingId"`
	ProductID       string    `json:"productId"`
	ProductName     string    `json:"productName"`
	SellerEmail     string    `json:"sellerEmail"`
	BuyerEmail      string    `json:"buyerEmail"`
	BuyerName       string    `json:"buyerName,omitempty"`
	Phone           string    `json:"phone,omitempty"`
	MeetingLocation string    `json:"meetingLocation,omitempty"`
	PriceCents      int64     `json:"priceCents"`
	Status          string    `json:"status"`
	Paid            bool      `json:"paid"`
	TransactionID   string    `json:"transactionId,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
}

type ListBookingsResponse struct {
	Bookings []BookingDTO `json:"bookings"`
}

// CreatePaymentIntentRequest keeps the price loosely typed: clients send it
// as either a JSON string or a number.
type CreatePaymentIntentRequest struct {
	Price json.Number `json:"price"`
}

type CreatePaymentIntentResponse struct {
	ClientSecret string `json:"clientSecret"`
}

type CreatePaymentRequest struct {
	BookingID     string `json:"bookingId"`
	TransactionID string `json:"transactionId"`
}

type PaymentDTO struct {
	PaymentID     string    `json:"paymentId"`
	BookingID     string    `json:"bookingId"`
	BuyerEmail    string    `json:"buyerEmail"`
	PriceCents    int64     `json:"priceCents"`
	TransactionID string    `json:"transactionId"`
	CreatedAt     time.Time `json:"createdAt"`
}

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
