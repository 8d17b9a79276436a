// Package payments talks to the external card-payment processor. The
// processor is opaque to the storefront: we create a payment intent for an
// amount and relay the client secret the frontend needs to complete the
// charge. No processor SDK is used; the API is a single form-encoded POST.
package payments

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shashiranjanraj/camtools/config"
)

// Currency is fixed; the storefront prices everything in dollars.
const Currency = "usd"

// ErrUpstream marks processor failures so handlers can map them to 502.
var ErrUpstream = errors.New("payment processor unavailable")

// Intent is the subset of the processor's payment intent the API relays.
type Intent struct {
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret"`
}

// Client creates payment intents against the processor's HTTP API.
type Client struct {
	baseURL   string
	secretKey string
	http      *http.Client
}

// New builds a client from config (PAYMENT_API_URL, PAYMENT_SECRET_KEY).
func New() *Client {
	return &Client{
		baseURL:   strings.TrimRight(config.PaymentAPIURL(), "/"),
		secretKey: config.PaymentSecretKey(),
		http:      &http.Client{Timeout: 15 * time.Second},
	}
}

// NewWithBase builds a client against an explicit endpoint, used by tests.
func NewWithBase(baseURL, secretKey string) *Client {
	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		secretKey: secretKey,
		http:      &http.Client{Timeout: 15 * time.Second},
	}
}

// CreateIntent requests a card payment intent for priceDollars and returns
// it. The amount is converted to minor units (cents) the way the processor
// expects. Any transport failure, auth failure, or non-2xx response comes
// back wrapped in ErrUpstream.
func (c *Client) CreateIntent(ctx context.Context, priceDollars float64) (*Intent, error) {
	if c.secretKey == "" {
		return nil, fmt.Errorf("%w: secret key not configured", ErrUpstream)
	}

	amount := int64(math.Round(priceDollars * 100))

	form := url.Values{}
	form.Set("amount", strconv.FormatInt(amount, 10))
	form.Set("currency", Currency)
	form.Add("payment_method_types[]", "card")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/v1/payment_intents", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("payments: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", ErrUpstream, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: status %d", ErrUpstream, resp.StatusCode)
	}

	var intent Intent
	if err := json.Unmarshal(body, &intent); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrUpstream, err)
	}
	if intent.ClientSecret == "" {
		return nil, fmt.Errorf("%w: response missing client_secret", ErrUpstream)
	}

	return &intent, nil
}
