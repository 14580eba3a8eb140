package invoicesdk

import "time"

// ============================================================================
// Request Types
// ============================================================================

// SendInvoiceRequest is the body of POST /send-invoice.
// Amount is a decimal string ("50", "19.99"); the server validates it.
type SendInvoiceRequest struct {
	Email  string `json:"email"`
	Amount string `json:"amount"`
}

// PayInvoiceRequest is the body of POST /pay-invoice/{id}. The token is a
// one-time payment token produced by the processor's checkout widget.
type PayInvoiceRequest struct {
	PaymentToken string `json:"payment_token"`
}

// ============================================================================
// Response Types
// ============================================================================

// UserResponse represents a merchant account as returned by the API.
// OAuth access/refresh tokens are never exposed.
type UserResponse struct {
	ID         string    `json:"id"`
	Group      string    `json:"group"`
	APIToken   string    `json:"api_token"`
	MerchantID string    `json:"merchant_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// InvoiceResponse represents an invoice as returned by the API.
// Amount is the decimal string the invoice was created with; AmountMinor is
// the same value in cents, which is what the processor is charged.
type InvoiceResponse struct {
	ID          string    `json:"id"`
	Reference   string    `json:"reference"`
	Email       string    `json:"email"`
	Amount      string    `json:"amount"`
	AmountMinor int64     `json:"amount_minor"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// InvoiceListResponse is the body of GET /v1/invoices and GET /v1/admin/users.
type InvoiceListResponse struct {
	Invoices []InvoiceResponse `json:"invoices"`
}

// UserListResponse is the body of GET /v1/admin/users.
type UserListResponse struct {
	Users []UserResponse `json:"users"`
}

// PaymentResponse is the body of a successful POST /pay-invoice/{id}.
type PaymentResponse struct {
	Message string          `json:"message"`
	Invoice InvoiceResponse `json:"invoice"`
}

// SessionResponse is the body of a successful GET /login/ok. The bearer
// token authenticates subsequent /send-invoice and /v1/invoices calls.
type SessionResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// StatusResponse is the body of GET /status and GET /readyz. Uptime and
// Version are only populated by /status.
type StatusResponse struct {
	Status  string `json:"status"`
	Uptime  string `json:"uptime,omitempty"`
	Version string `json:"version,omitempty"`
}

// ErrorResponse is the wire shape of every API error. Client code should
// use APIError from errors.go instead; this type exists for unmarshaling.
type ErrorResponse struct {
	Code    string `json:"error"`
	Message string `json:"message"`
}
