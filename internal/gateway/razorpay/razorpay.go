package razorpay

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/viper"

	"github.com/skyquest/booking/internal/service/models/currency"
)

const defaultBaseURL = "https://api.razorpay.com"

// Client talks to the Razorpay Orders API and verifies checkout
// signatures. The key secret never leaves this package.
type Client struct {
	baseURL    string
	keyID      string
	keySecret  string
	httpClient *http.Client
}

// CreateOrderRequest is the order-open request. Amount is in paise.
type CreateOrderRequest struct {
	AmountPaise int64
	Currency    currency.Currency
	Receipt     string
}

// GatewayOrder is the order descriptor returned by the gateway. ID is
// what the browser checkout SDK needs to start a payment.
type GatewayOrder struct {
	ID          string            `json:"id"`
	AmountPaise int64             `json:"amount"`
	Currency    currency.Currency `json:"currency"`
	Receipt     string            `json:"receipt"`
}

// MustNewClient creates a Razorpay client from environment credentials.
// Gateway calls carry an explicit timeout and are never retried: a
// timed-out order-open must not be treated as success.
func MustNewClient() *Client {
	keyID := os.Getenv("RAZORPAY_KEY_ID")
	keySecret := os.Getenv("RAZORPAY_KEY_SECRET")
	if keyID == "" || keySecret == "" {
		panic("RAZORPAY_KEY_ID and RAZORPAY_KEY_SECRET must be set")
	}

	timeoutSeconds := viper.GetInt("gateway.timeout_seconds")
	if timeoutSeconds == 0 {
		timeoutSeconds = 10
	}

	baseURL := viper.GetString("gateway.base_url")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	return &Client{
		baseURL:    baseURL,
		keyID:      keyID,
		keySecret:  keySecret,
		httpClient: &http.Client{Timeout: time.Duration(timeoutSeconds) * time.Second},
	}
}

// NewClient creates a client with explicit parameters, used by tests.
func NewClient(baseURL, keyID, keySecret string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    baseURL,
		keyID:      keyID,
		keySecret:  keySecret,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type createOrderBody struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
}

// CreateOrder opens an order on the gateway for the given amount,
// currency and receipt.
func (c *Client) CreateOrder(ctx context.Context, req CreateOrderRequest) (*GatewayOrder, error) {
	body, err := json.Marshal(createOrderBody{
		Amount:   req.AmountPaise,
		Currency: req.Currency.String(),
		Receipt:  req.Receipt,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode order request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/orders", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build order request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.SetBasicAuth(c.keyID, c.keySecret)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("gateway order create failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

		return nil, fmt.Errorf("gateway order create returned status %d: %s", resp.StatusCode, raw)
	}

	var order GatewayOrder
	if err := json.NewDecoder(resp.Body).Decode(&order); err != nil {
		return nil, fmt.Errorf("failed to decode gateway order: %w", err)
	}

	if order.ID == "" {
		return nil, fmt.Errorf("gateway order create returned empty order id")
	}

	return &order, nil
}

// VerifySignature recomputes the checkout signature Razorpay sends back
// to the browser: HMAC-SHA256 over "<order_id>|<payment_id>" keyed with
// the key secret, hex encoded. Comparison is constant time.
func (c *Client) VerifySignature(gatewayOrderID, gatewayPaymentID, signature string) bool {
	mac := hmac.New(sha256.New, []byte(c.keySecret))
	mac.Write([]byte(gatewayOrderID + "|" + gatewayPaymentID))
	expected := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(signature))
}
