package httpserver_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"phonedeck/internal/app/bootstrap"
	"phonedeck/internal/platform/httpserver"
)

func newTestServer(t *testing.T) (*httpserver.Server, bootstrap.InMemoryApp) {
	t.Helper()
	return bootstrap.NewInMemoryServer("test-secret", 2*time.Hour, nil)
}

func registerUser(t *testing.T, server *httpserver.Server, email string, role string) {
	t.Helper()
	body := fmt.Sprintf(`{"email":%q,"name":"Test User","role":%q}`, email, role)
	req := httptest.NewRequest(http.MethodPost, "/users", bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	server.Handler().ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("register %s failed: %d body=%s", email, rr.Code, rr.Body.String())
	}
}

func issueToken(t *testing.T, server *httpserver.Server, email string) string {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/jwt?email="+email, nil)
	rr := httptest.NewRecorder()
	server.Handler().ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("issue token for %s failed: %d body=%s", email, rr.Code, rr.Body.String())
	}

	var resp struct {
		AccessToken string `json:"accessToken"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode token response: %v", err)
	}
	if resp.AccessToken == "" {
		t.Fatalf("expected access token for %s", email)
	}
	return resp.AccessToken
}

func TestProtectedRouteRequiresAuthorizationHeader(t *testing.T) {
	server, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/sellers", nil)
	rr := httptest.NewRecorder()
	server.Handler().ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestProtectedRouteRejectsGarbageToken(t *testing.T) {
	server, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/sellers", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rr := httptest.NewRecorder()
	server.Handler().ServeHTTP(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d body=%s", rr.Code, rr.Body.String())
	}

	var resp struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	if resp.Message != "Forbidden Access" {
		t.Fatalf("expected legacy forbidden body, got %q", resp.Message)
	}
}

func TestAdminRouteDeniesNonAdmin(t *testing.T) {
	server, _ := newTestServer(t)
	registerUser(t, server, "pat@example.com", "buyer")
	tokenValue := issueToken(t, server, "pat@example.com")

	req := httptest.NewRequest(http.MethodGet, "/sellers", nil)
	req.Header.Set("Authorization", "Bearer "+tokenValue)
	rr := httptest.NewRecorder()
	server.Handler().ServeHTTP(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-admin, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestAdminRouteAllowsAdmin(t *testing.T) {
	server, app := newTestServer(t)
	registerUser(t, server, "root@example.com", "buyer")
	if _, err := app.Identity.Service.GrantAdmin(context.Background(), "root@example.com"); err != nil {
		t.Fatalf("grant admin failed: %v", err)
	}
	tokenValue := issueToken(t, server, "root@example.com")

	req := httptest.NewRequest(http.MethodGet, "/sellers", nil)
	req.Header.Set("Authorization", "Bearer "+tokenValue)
	rr := httptest.NewRecorder()
	server.Handler().ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestSelfScopedRouteRejectsOtherUsersEmail(t *testing.T) {
	server, _ := newTestServer(t)
	registerUser(t, server, "pat@example.com", "buyer")
	tokenValue := issueToken(t, server, "pat@example.com")

	req := httptest.NewRequest(http.MethodGet, "/myorders?email=other@example.com", nil)
	req.Header.Set("Authorization", "Bearer "+tokenValue)
	rr := httptest.NewRecorder()
	server.Handler().ServeHTTP(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for email mismatch, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestJwtAnswersEmptyTokenForUnknownEmail(t *testing.T) {
	server, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/jwt?email=ghost@example.com", nil)
	rr := httptest.NewRecorder()
	server.Handler().ServeHTTP(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d body=%s", rr.Code, rr.Body.String())
	}
	var resp struct {
		AccessToken string `json:"accessToken"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if resp.AccessToken != "" {
		t.Fatalf("expected empty access token, got %q", resp.AccessToken)
	}
}

func TestDuplicateRegisterAnswersAcknowledgedFalse(t *testing.T) {
	server, _ := newTestServer(t)
	registerUser(t, server, "pat@example.com", "buyer")

	req := httptest.NewRequest(http.MethodPost, "/users", bytes.NewReader([]byte(`{"email":"pat@example.com","role":"buyer"}`)))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	server.Handler().ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 on duplicate register, got %d body=%s", rr.Code, rr.Body.String())
	}
	var resp struct {
		Acknowledged bool   `json:"acknowledged"`
		Message      string `json:"message"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if resp.Acknowledged || resp.Message == "" {
		t.Fatalf("expected acknowledged=false with message, got %+v", resp)
	}
}

func TestCreateProductRequiresSellerRole(t *testing.T) {
	server, _ := newTestServer(t)
	registerUser(t, server, "pat@example.com", "buyer")
	tokenValue := issueToken(t, server, "pat@example.com")

	body := `{"name":"iPhone 12","categoryId":"cat_iphone","priceCents":45000}`
	req := httptest.NewRequest(http.MethodPost, "/products", bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+tokenValue)
	rr := httptest.NewRecorder()
	server.Handler().ServeHTTP(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-seller listing, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestSellerListsProductAndBuyerBooksAndPays(t *testing.T) {
	server, _ := newTestServer(t)
	registerUser(t, server, "sam@example.com", "seller")
	registerUser(t, server, "pat@example.com", "buyer")
	sellerToken := issueToken(t, server, "sam@example.com")
	buyerToken := issueToken(t, server, "pat@example.com")

	listBody := `{"name":"iPhone 12 Pro","categoryId":"cat_iphone","condition":"used","priceCents":45000,"location":"Dhaka"}`
	listReq := httptest.NewRequest(http.MethodPost, "/products", bytes.NewReader([]byte(listBody)))
	listReq.Header.Set("Content-Type", "application/json")
	listReq.Header.Set("Authorization", "Bearer "+sellerToken)
	listRR := httptest.NewRecorder()
	server.Handler().ServeHTTP(listRR, listReq)
	if listRR.Code != http.StatusOK {
		t.Fatalf("create product failed: %d body=%s", listRR.Code, listRR.Body.String())
	}
	var product struct {
		ProductID string `json:"productId"`
	}
	if err := json.Unmarshal(listRR.Body.Bytes(), &product); err != nil {
		t.Fatalf("decode product: %v", err)
	}

	bookBody := fmt.Sprintf(`{"productId":%q,"buyerEmail":"pat@example.com","meetingLocation":"Dhanmondi"}`, product.ProductID)
	bookReq := httptest.NewRequest(http.MethodPost, "/bookings", bytes.NewReader([]byte(bookBody)))
	bookReq.Header.Set("Content-Type", "application/json")
	bookReq.Header.Set("Authorization", "Bearer "+buyerToken)
	bookReq.Header.Set("Idempotency-Key", "book-flow-1")
	bookRR := httptest.NewRecorder()
	server.Handler().ServeHTTP(bookRR, bookReq)
	if bookRR.Code != http.StatusOK {
		t.Fatalf("create booking failed: %d body=%s", bookRR.Code, bookRR.Body.String())
	}
	var booking struct {
		BookingID  string `json:"bookingId"`
		PriceCents int64  `json:"priceCents"`
	}
	if err := json.Unmarshal(bookRR.Body.Bytes(), &booking); err != nil {
		t.Fatalf("decode booking: %v", err)
	}
	if booking.PriceCents != 45000 {
		t.Fatalf("expected price snapshot, got %d", booking.PriceCents)
	}

	payBody := fmt.Sprintf(`{"bookingId":%q,"transactionId":"txn_e2e_1"}`, booking.BookingID)
	payReq := httptest.NewRequest(http.MethodPost, "/payments", bytes.NewReader([]byte(payBody)))
	payReq.Header.Set("Content-Type", "application/json")
	payReq.Header.Set("Authorization", "Bearer "+buyerToken)
	payReq.Header.Set("Idempotency-Key", "pay-flow-1")
	payRR := httptest.NewRecorder()
	server.Handler().ServeHTTP(payRR, payReq)
	if payRR.Code != http.StatusOK {
		t.Fatalf("create payment failed: %d body=%s", payRR.Code, payRR.Body.String())
	}

	getReq := httptest.NewRequest(http.MethodGet, "/bookings/"+booking.BookingID, nil)
	getRR := httptest.NewRecorder()
	server.Handler().ServeHTTP(getRR, getReq)
	if getRR.Code != http.StatusOK {
		t.Fatalf("get booking failed: %d body=%s", getRR.Code, getRR.Body.String())
	}
	var paid struct {
		Paid          bool   `json:"paid"`
		TransactionID string `json:"transactionId"`
	}
	if err := json.Unmarshal(getRR.Body.Bytes(), &paid); err != nil {
		t.Fatalf("decode paid booking: %v", err)
	}
	if !paid.Paid || paid.TransactionID != "txn_e2e_1" {
		t.Fatalf("expected paid booking, got %+v", paid)
	}
}

func TestPaymentReplayWithSameKeyReturnsRecordedResponse(t *testing.T) {
	server, _ := newTestServer(t)
	registerUser(t, server, "sam@example.com", "seller")
	registerUser(t, server, "pat@example.com", "buyer")
	sellerToken := issueToken(t, server, "sam@example.com")
	buyerToken := issueToken(t, server, "pat@example.com")

	listBody := `{"name":"Galaxy S21","categoryId":"cat_samsung","priceCents":52000}`
	listReq := httptest.NewRequest(http.MethodPost, "/products", bytes.NewReader([]byte(listBody)))
	listReq.Header.Set("Content-Type", "application/json")
	listReq.Header.Set("Authorization", "Bearer "+sellerToken)
	listRR := httptest.NewRecorder()
	server.Handler().ServeHTTP(listRR, listReq)
	if listRR.Code != http.StatusOK {
		t.Fatalf("create product failed: %d body=%s", listRR.Code, listRR.Body.String())
	}
	var product struct {
		ProductID string `json:"productId"`
	}
	if err := json.Unmarshal(listRR.Body.Bytes(), &product); err != nil {
		t.Fatalf("decode product: %v", err)
	}

	bookBody := fmt.Sprintf(`{"productId":%q,"buyerEmail":"pat@example.com"}`, product.ProductID)
	bookReq := httptest.NewRequest(http.MethodPost, "/bookings", bytes.NewReader([]byte(bookBody)))
	bookReq.Header.Set("Content-Type", "application/json")
	bookReq.Header.Set("Authorization", "Bearer "+buyerToken)
	bookReq.Header.Set("Idempotency-Key", "book-replay-1")
	bookRR := httptest.NewRecorder()
	server.Handler().ServeHTTP(bookRR, bookReq)
	if bookRR.Code != http.StatusOK {
		t.Fatalf("create booking failed: %d body=%s", bookRR.Code, bookRR.Body.String())
	}
	var booking struct {
		BookingID string `json:"bookingId"`
	}
	if err := json.Unmarshal(bookRR.Body.Bytes(), &booking); err != nil {
		t.Fatalf("decode booking: %v", err)
	}

	payBody := fmt.Sprintf(`{"bookingId":%q,"transactionId":"txn_replay_1"}`, booking.BookingID)
	pay := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/payments", bytes.NewReader([]byte(payBody)))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+buyerToken)
		req.Header.Set("Idempotency-Key", "pay-replay-1")
		rr := httptest.NewRecorder()
		server.Handler().ServeHTTP(rr, req)
		return rr
	}

	firstRR := pay()
	if firstRR.Code != http.StatusOK {
		t.Fatalf("create payment failed: %d body=%s", firstRR.Code, firstRR.Body.String())
	}
	var first struct {
		PaymentID string `json:"paymentId"`
	}
	if err := json.Unmarshal(firstRR.Body.Bytes(), &first); err != nil {
		t.Fatalf("decode payment: %v", err)
	}

	// The booking is paid now; the same key must still answer the recorded
	// payment, not a conflict.
	replayRR := pay()
	if replayRR.Code != http.StatusOK {
		t.Fatalf("payment replay failed: %d body=%s", replayRR.Code, replayRR.Body.String())
	}
	var replay struct {
		PaymentID string `json:"paymentId"`
	}
	if err := json.Unmarshal(replayRR.Body.Bytes(), &replay); err != nil {
		t.Fatalf("decode replayed payment: %v", err)
	}
	if replay.PaymentID != first.PaymentID {
		t.Fatalf("expected replayed payment %q, got %q", first.PaymentID, replay.PaymentID)
	}

	freshReq := httptest.NewRequest(http.MethodPost, "/payments", bytes.NewReader([]byte(payBody)))
	freshReq.Header.Set("Content-Type", "application/json")
	freshReq.Header.Set("Authorization", "Bearer "+buyerToken)
	freshReq.Header.Set("Idempotency-Key", "pay-replay-2")
	freshRR := httptest.NewRecorder()
	server.Handler().ServeHTTP(freshRR, freshReq)
	if freshRR.Code != http.StatusConflict {
		t.Fatalf("expected 409 for second payment under a new key, got %d body=%s", freshRR.Code, freshRR.Body.String())
	}
}

func TestCreatePaymentIntentReturnsClientSecret(t *testing.T) {
	server, _ := newTestServer(t)
	registerUser(t, server, "pat@example.com", "buyer")
	tokenValue := issueToken(t, server, "pat@example.com")

	req := httptest.NewRequest(http.MethodPost, "/create-payment-intent", bytes.NewReader([]byte(`{"price":"49.99"}`)))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+tokenValue)
	rr := httptest.NewRecorder()
	server.Handler().ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("create intent failed: %d body=%s", rr.Code, rr.Body.String())
	}
	var resp struct {
		ClientSecret string `json:"clientSecret"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if resp.ClientSecret == "" {
		t.Fatalf("expected client secret")
	}
}

func TestMissingProductAnswersNotFound(t *testing.T) {
	server, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/products/prod_missing", nil)
	rr := httptest.NewRecorder()
	server.Handler().ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d body=%s", rr.Code, rr.Body.String())
	}
}
