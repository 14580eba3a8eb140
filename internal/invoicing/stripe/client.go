// Package stripe is a minimal client for the two corners of the Stripe API
// this service touches: direct charges on connected accounts, and the
// Connect OAuth code exchange used at login.
package stripe

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultAPIBaseURL = "https://api.stripe.com"

	// DefaultTimeout bounds every processor call. A timed-out charge is
	// reported as a failure but may still have executed upstream, so
	// callers must never retry it blindly.
	DefaultTimeout = 30 * time.Second
)

// Client is a minimal Stripe API client for creating charges.
type Client struct {
	httpClient *http.Client
	secretKey  string
	baseURL    string
}

// NewClient constructs a new Stripe client. Pass baseURL "" for the live API.
func NewClient(httpClient *http.Client, secretKey, baseURL string) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	if baseURL == "" {
		baseURL = DefaultAPIBaseURL
	}
	return &Client{
		httpClient: httpClient,
		secretKey:  secretKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

// Error is a failure reported by the processor (declined card, invalid
// token, ...). Network errors and timeouts are returned as plain errors.
type Error struct {
	StatusCode int    `json:"-"`
	Type       string `json:"type"`
	Code       string `json:"code"`
	Message    string `json:"message"`
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("stripe: %s (%s)", e.Message, e.Type)
	}
	return fmt.Sprintf("stripe: request failed with status %d", e.StatusCode)
}

// ChargeParams describes a direct charge on a connected account.
type ChargeParams struct {
	AmountMinor int64  // amount in the currency's minor unit
	Currency    string // lowercase ISO code, e.g. "usd"
	Source      string // one-time-use payment token
	MerchantID  string // connected account receiving the funds
	Description string
}

// Charge is the processor's charge result. Raw preserves the full response
// body for storage alongside the invoice.
type Charge struct {
	ID       string          `json:"id"`
	Amount   int64           `json:"amount"`
	Currency string          `json:"currency"`
	Paid     bool            `json:"paid"`
	Status   string          `json:"status"`
	Raw      json.RawMessage `json:"-"`
}

// CreateCharge executes exactly one charge request. It performs no retries:
// a charge that failed with a timeout may still have gone through, and the
// caller owns that ambiguity.
func (c *Client) CreateCharge(ctx context.Context, p ChargeParams) (Charge, error) {
	form := url.Values{}
	form.Set("amount", strconv.FormatInt(p.AmountMinor, 10))
	form.Set("currency", p.Currency)
	form.Set("source", p.Source)
	if p.Description != "" {
		form.Set("description", p.Description)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/v1/charges", strings.NewReader(form.Encode()))
	if err != nil {
		return Charge{}, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	// Direct charge: attributed to the connected merchant account.
	req.Header.Set("Stripe-Account", p.MerchantID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Charge{}, fmt.Errorf("stripe: charge request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Charge{}, fmt.Errorf("stripe: reading charge response: %w", err)
	}

	if resp.StatusCode >= 300 {
		return Charge{}, parseError(resp.StatusCode, body)
	}

	var charge Charge
	if err := json.Unmarshal(body, &charge); err != nil {
		return Charge{}, fmt.Errorf("stripe: decoding charge response: %w", err)
	}
	charge.Raw = json.RawMessage(body)
	return charge, nil
}

func parseError(status int, body []byte) error {
	var wrapper struct {
		Error Error `json:"error"`
	}
	if err := json.Unmarshal(body, &wrapper); err != nil || wrapper.Error == (Error{}) {
		return &Error{StatusCode: status}
	}
	apiErr := wrapper.Error
	apiErr.StatusCode = status
	return &apiErr
}
