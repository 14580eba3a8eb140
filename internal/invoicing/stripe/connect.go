package stripe

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// DefaultConnectBaseURL is the host for the Connect OAuth endpoints.
const DefaultConnectBaseURL = "https://connect.stripe.com"

// ConnectClient drives the Connect OAuth flow: building the authorize URL
// the browser is sent to, and exchanging the callback code for tokens.
type ConnectClient struct {
	httpClient *http.Client
	clientID   string
	secretKey  string
	baseURL    string
}

// NewConnectClient constructs a Connect OAuth client. Pass baseURL "" for
// the live endpoints.
func NewConnectClient(httpClient *http.Client, clientID, secretKey, baseURL string) *ConnectClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	if baseURL == "" {
		baseURL = DefaultConnectBaseURL
	}
	return &ConnectClient{
		httpClient: httpClient,
		clientID:   clientID,
		secretKey:  secretKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

// AuthorizeURL returns the URL the user is redirected to in order to connect
// their merchant account. state must be an unguessable value verified on the
// callback.
func (c *ConnectClient) AuthorizeURL(state, redirectURI string) string {
	q := url.Values{}
	q.Set("response_type", "code")
	q.Set("client_id", c.clientID)
	q.Set("scope", "read_write")
	q.Set("state", state)
	q.Set("redirect_uri", redirectURI)
	return c.baseURL + "/oauth/authorize?" + q.Encode()
}

// OAuthToken is the result of a successful code exchange. MerchantID is the
// processor's identifier for the connected account and is the key the
// identity bridge upserts on.
type OAuthToken struct {
	MerchantID   string `json:"stripe_user_id"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	Scope        string `json:"scope"`
	Livemode     bool   `json:"livemode"`
}

// ExchangeCode swaps an authorization code from the login callback for the
// merchant identity and OAuth tokens.
func (c *ConnectClient) ExchangeCode(ctx context.Context, code string) (OAuthToken, error) {
	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("code", code)
	form.Set("client_secret", c.secretKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/oauth/token", strings.NewReader(form.Encode()))
	if err != nil {
		return OAuthToken{}, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return OAuthToken{}, fmt.Errorf("stripe: token exchange failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return OAuthToken{}, fmt.Errorf("stripe: reading token response: %w", err)
	}

	if resp.StatusCode >= 300 {
		return OAuthToken{}, parseError(resp.StatusCode, body)
	}

	var token OAuthToken
	if err := json.Unmarshal(body, &token); err != nil {
		return OAuthToken{}, fmt.Errorf("stripe: decoding token response: %w", err)
	}
	if token.MerchantID == "" {
		return OAuthToken{}, fmt.Errorf("stripe: token response missing merchant id")
	}
	return token, nil
}
