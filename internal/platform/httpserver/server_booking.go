package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	authzports "phonedeck/contexts/identity-access/authorization-service/ports"
	bookingerrors "phonedeck/contexts/marketplace/booking-service/domain/errors"
	bookinghttp "phonedeck/contexts/marketplace/booking-service/transport/http"
)

func (s *Server) registerBookingRoutes() {
	s.mux.HandleFunc("POST /bookings", s.handleCreateBooking)
	s.mux.HandleFunc("GET /bookings/{bookingId}", s.handleGetBooking)
	s.mux.HandleFunc("PUT /bookings/{bookingId}", s.handleResolveBooking)
	s.mux.HandleFunc("GET /myorders", s.handleListMyOrders)
	s.mux.HandleFunc("POST /create-payment-intent", s.handleCreatePaymentIntent)
	s.mux.HandleFunc("POST /payments", s.handleCreatePayment)
}

func (s *Server) handleCreateBooking(w http.ResponseWriter, r *http.Request) {
	caller, ok := s.authenticate(w, r)
	if !ok {
		return
	}

	var req bookinghttp.CreateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBookingError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	if !s.authorize(w, r, caller, authzports.ActionCreateBooking, authzports.Target{OwnerEmail: req.BuyerEmail}) {
		return
	}

	resp, err := s.booking.Handler.CreateBookingHandler(r.Context(), r.Header.Get("Idempotency-Key"), req)
	if err != nil {
		writeBookingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetBooking(w http.ResponseWriter, r *http.Request) {
	resp, err := s.booking.Handler.GetBookingHandler(r.Context(), r.PathValue("bookingId"))
	if err != nil {
		writeBookingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleResolveBooking(w http.ResponseWriter, r *http.Request) {
	caller, ok := s.authenticate(w, r)
	if !ok {
		return
	}

	bookingID := r.PathValue("bookingId")
	booking, err := s.booking.Service.GetBooking(r.Context(), bookingID)
	if err != nil {
		writeBookingDomainError(w, err)
		return
	}
	if !s.authorize(w, r, caller, authzports.ActionResolveBooking, authzports.Target{OwnerEmail: booking.BuyerEmail}) {
		return
	}

	resp, err := s.booking.Handler.ResolveBookingHandler(r.Context(), bookingID)
	if err != nil {
		writeBookingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListMyOrders(w http.ResponseWriter, r *http.Request) {
	caller, ok := s.authenticate(w, r)
	if !ok {
		return
	}
	email := r.URL.Query().Get("email")
	if !s.authorize(w, r, caller, authzports.ActionListOwnOrders, authzports.Target{OwnerEmail: email}) {
		return
	}

	resp, err := s.booking.Handler.ListOrdersHandler(r.Context(), email)
	if err != nil {
		writeBookingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCreatePaymentIntent(w http.ResponseWriter, r *http.Request) {
	caller, ok := s.authenticate(w, r)
	if !ok {
		return
	}
	if !s.authorize(w, r, caller, authzports.ActionCreatePaymentIntent, authzports.Target{OwnerEmail: caller.Email}) {
		return
	}

	var req bookinghttp.CreatePaymentIntentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBookingError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.booking.Handler.CreatePaymentIntentHandler(r.Context(), req)
	if err != nil {
		writeBookingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCreatePayment(w http.ResponseWriter, r *http.Request) {
	caller, ok := s.authenticate(w, r)
	if !ok {
		return
	}

	var req bookinghttp.CreatePaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBookingError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	booking, err := s.booking.Service.GetBooking(r.Context(), req.BookingID)
	if err != nil {
		writeBookingDomainError(w, err)
		return
	}
	if !s.authorize(w, r, caller, authzports.ActionCreatePayment, authzports.Target{OwnerEmail: booking.BuyerEmail}) {
		return
	}

	resp, err := s.booking.Handler.CreatePaymentHandler(r.Context(), r.Header.Get("Idempotency-Key"), req)
	if err != nil {
		writeBookingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeBookingDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, bookingerrors.ErrInvalidRequest),
		errors.Is(err, bookingerrors.ErrInvalidPrice):
		writeBookingError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, bookingerrors.ErrIdempotencyKeyRequired):
		writeBookingError(w, http.StatusBadRequest, "idempotency_key_required", err.Error())
	case errors.Is(err, bookingerrors.ErrBookingNotFound):
		writeBookingError(w, http.StatusNotFound, "booking_not_found", err.Error())
	case errors.Is(err, bookingerrors.ErrProductNotFound):
		writeBookingError(w, http.StatusNotFound, "product_not_found", err.Error())
	case errors.Is(err, bookingerrors.ErrProductUnavailable):
		writeBookingError(w, http.StatusGone, "product_unavailable", err.Error())
	case errors.Is(err, bookingerrors.ErrBookingAlreadyPaid),
		errors.Is(err, bookingerrors.ErrBookingAlreadyResolved),
		errors.Is(err, bookingerrors.ErrIdempotencyConflict):
		writeBookingError(w, http.StatusConflict, "conflict", err.Error())
	case errors.Is(err, bookingerrors.ErrPaymentProviderUnavailable):
		writeBookingError(w, http.StatusBadGateway, "payment_provider_unavailable", err.Error())
	default:
		writeBookingError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeBookingError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, bookinghttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}
