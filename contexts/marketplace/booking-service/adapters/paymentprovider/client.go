package paymentprovider

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	domainerrors "phonedeck/contexts/marketplace/booking-service/domain/errors"
	"phonedeck/contexts/marketplace/booking-service/ports"
)

const defaultTimeout = 10 * time.Second

// Client talks to the card processor's payment-intent endpoint. The
// processor speaks form-encoded requests with a bearer secret.
type Client struct {
	baseURL    string
	secretKey  string
	httpClient *http.Client
	logger     *slog.Logger
}

func NewClient(baseURL string, secretKey string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		secretKey:  secretKey,
		httpClient: &http.Client{Timeout: defaultTimeout},
		logger:     logger,
	}
}

func (c *Client) CreateIntent(ctx context.Context, amountCents int64, currency string) (ports.PaymentIntent, error) {
	form := url.Values{}
	form.Set("amount", strconv.FormatInt(amountCents, 10))
	form.Set("currency", currency)
	form.Set("payment_method_types[]", "card")

	endpoint := c.baseURL + "/v1/payment_intents"
	request, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return ports.PaymentIntent{}, err
	}
	request.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	request.Header.Set("Authorization", "Bearer "+c.secretKey)

	response, err := c.httpClient.Do(request)
	if err != nil {
		return ports.PaymentIntent{}, fmt.Errorf("%w: %v", domainerrors.ErrPaymentProviderUnavailable, err)
	}
	defer response.Body.Close()

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		c.logger.Error("payment provider rejected intent request",
			"event", "payment_provider_rejected",
			"module", "marketplace/booking-service",
			"layer", "adapter",
			"status_code", response.StatusCode,
		)
		return ports.PaymentIntent{}, fmt.Errorf("%w: status %d", domainerrors.ErrPaymentProviderUnavailable, response.StatusCode)
	}

	var body struct {
		ID           string `json:"id"`
		ClientSecret string `json:"client_secret"`
		Amount       int64  `json:"amount"`
		Currency     string `json:"currency"`
	}
	if err := json.NewDecoder(response.Body).Decode(&body); err != nil {
		return ports.PaymentIntent{}, fmt.Errorf("%w: %v", domainerrors.ErrPaymentProviderUnavailable, err)
	}

	return ports.PaymentIntent{
		IntentID:     body.ID,
		ClientSecret: body.ClientSecret,
		AmountCents:  body.Amount,
		Currency:     body.Currency,
	}, nil
}
