package invoicesdk

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/sendinvoices/sendinvoices/pkg/httpx"
)

// ============================================================================
// API Error Codes
// ============================================================================

const (
	ErrorCodeInvalidRequest     = "invalid_request"
	ErrorCodeInvalidEmail       = "invalid_email"
	ErrorCodeNotANumber         = "not_a_number"
	ErrorCodeAmountBelowMinimum = "amount_below_minimum"
	ErrorCodeAmountAboveMaximum = "amount_above_maximum"
	ErrorCodeInvoiceNotFound    = "invoice_not_found"
	ErrorCodeInvoicePaid        = "invoice_already_paid"
	ErrorCodeUserNotFound       = "user_not_found"
	ErrorCodeInvalidPayToken    = "invalid_payment_token"
	ErrorCodePaymentGateway     = "payment_gateway_error"
	ErrorCodeUnauthorized       = "unauthorized"
	ErrorCodeForbidden          = "forbidden"
	ErrorCodeServerError        = "server_error"
)

// ============================================================================
// APIError
// ============================================================================

// APIError is the error type shared by the server (to write responses) and
// the SDK client (to represent decoded failures).
type APIError struct {
	// StatusCode is the HTTP status code for this error
	StatusCode int `json:"-"`

	// Code is the machine-readable error code (e.g. "invoice_not_found")
	Code string `json:"error"`

	// Message is the human-readable message shown to end users
	Message string `json:"message"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// WriteError writes this APIError to an HTTP response writer.
func (e *APIError) WriteError(w http.ResponseWriter) {
	httpx.NoCache(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(e.StatusCode)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":   e.Code,
		"message": e.Message,
	})
}

// ============================================================================
// Predefined API Errors
// ============================================================================

var (
	// ErrInvalidRequest is returned when the request body or form cannot
	// be parsed, or a required field is missing.
	ErrInvalidRequest = &APIError{
		StatusCode: http.StatusBadRequest,
		Code:       ErrorCodeInvalidRequest,
		Message:    "The request was malformed",
	}

	// ErrInvalidEmail is returned when the recipient address fails validation.
	ErrInvalidEmail = &APIError{
		StatusCode: http.StatusBadRequest,
		Code:       ErrorCodeInvalidEmail,
		Message:    "Email address was invalid",
	}

	// ErrNotANumber is returned when the amount is not a decimal number.
	ErrNotANumber = &APIError{
		StatusCode: http.StatusBadRequest,
		Code:       ErrorCodeNotANumber,
		Message:    "You did not enter a valid number",
	}

	// ErrAmountBelowMinimum is returned when the amount is under the floor.
	ErrAmountBelowMinimum = &APIError{
		StatusCode: http.StatusBadRequest,
		Code:       ErrorCodeAmountBelowMinimum,
		Message:    "Amount must be at least (1)",
	}

	// ErrAmountAboveMaximum is returned when the amount is over the ceiling.
	ErrAmountAboveMaximum = &APIError{
		StatusCode: http.StatusBadRequest,
		Code:       ErrorCodeAmountAboveMaximum,
		Message:    "Amount must be less than or equal to (10000)",
	}

	// ErrInvoiceNotFound is returned for a missing or malformed invoice id.
	// The two cases are deliberately indistinguishable.
	ErrInvoiceNotFound = &APIError{
		StatusCode: http.StatusNotFound,
		Code:       ErrorCodeInvoiceNotFound,
		Message:    "Invoice does not exist",
	}

	// ErrInvoicePaid is returned when the invoice was already settled.
	ErrInvoicePaid = &APIError{
		StatusCode: http.StatusConflict,
		Code:       ErrorCodeInvoicePaid,
		Message:    "Invoice was already paid, woo hoo!",
	}

	// ErrUserNotFound is returned when no account matches the credentials
	// or the invoice owner no longer exists.
	ErrUserNotFound = &APIError{
		StatusCode: http.StatusNotFound,
		Code:       ErrorCodeUserNotFound,
		Message:    "User does not exist",
	}

	// ErrInvalidPaymentToken is returned when the one-time payment token is
	// missing or blank. The message matches the gateway error on purpose;
	// payers cannot act on the distinction.
	ErrInvalidPaymentToken = &APIError{
		StatusCode: http.StatusBadRequest,
		Code:       ErrorCodeInvalidPayToken,
		Message:    "An issue occurred with our payment gateway, please try again later",
	}

	// ErrPaymentGateway is returned when the processor rejects the charge
	// or the payment token is unusable.
	ErrPaymentGateway = &APIError{
		StatusCode: http.StatusBadGateway,
		Code:       ErrorCodePaymentGateway,
		Message:    "An issue occurred with our payment gateway, please try again later",
	}

	// ErrUnauthorized is returned when authentication is missing or invalid.
	ErrUnauthorized = &APIError{
		StatusCode: http.StatusUnauthorized,
		Code:       ErrorCodeUnauthorized,
		Message:    "Authentication required",
	}

	// ErrForbidden is returned when the account lacks the required group.
	ErrForbidden = &APIError{
		StatusCode: http.StatusForbidden,
		Code:       ErrorCodeForbidden,
		Message:    "You do not have access to this resource",
	}

	// ErrServerError is the fallback for unexpected failures.
	ErrServerError = &APIError{
		StatusCode: http.StatusInternalServerError,
		Code:       ErrorCodeServerError,
		Message:    "Internal server error",
	}
)

// NewAPIError creates an APIError with a custom status, code and message.
func NewAPIError(statusCode int, code, message string) *APIError {
	return &APIError{
		StatusCode: statusCode,
		Code:       code,
		Message:    message,
	}
}

// ============================================================================
// Error Parsing Helpers
// ============================================================================

// parseErrorResponse turns a non-2xx HTTP response into a typed *APIError.
// Returns nil for 2xx responses.
func parseErrorResponse(resp *http.Response, body []byte) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	var errResp ErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Code != "" {
		return &APIError{
			StatusCode: resp.StatusCode,
			Code:       errResp.Code,
			Message:    errResp.Message,
		}
	}

	// Fallback: generic error from the status code alone.
	return &APIError{
		StatusCode: resp.StatusCode,
		Code:       ErrorCodeServerError,
		Message:    fmt.Sprintf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode)),
	}
}
