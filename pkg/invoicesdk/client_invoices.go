package invoicesdk

import (
	"context"
	"net/http"
	"net/url"
)

// SendInvoice creates an invoice and emails it to the recipient. The amount
// is a decimal string; validation happens server-side, so malformed input
// comes back as *APIError ("invalid_email", "not_a_number", ...).
func (c *SDKClient) SendInvoice(
	ctx context.Context,
	sessionToken, email, amount string,
) (*InvoiceResponse, error) {
	req := SendInvoiceRequest{Email: email, Amount: amount}

	var inv InvoiceResponse
	if err := c.doJSON(ctx, http.MethodPost, "/send-invoice", sessionToken, req, &inv, http.StatusCreated); err != nil {
		return nil, err
	}
	return &inv, nil
}

// ListInvoices lists the invoices sent by the session's merchant.
func (c *SDKClient) ListInvoices(ctx context.Context, sessionToken string) ([]InvoiceResponse, error) {
	var out InvoiceListResponse
	if err := c.doJSON(ctx, http.MethodGet, "/v1/invoices", sessionToken, nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return out.Invoices, nil
}

// GetPayableInvoice fetches an invoice for the public payment page.
// Missing, malformed and already-paid invoices come back as *APIError.
func (c *SDKClient) GetPayableInvoice(ctx context.Context, id string) (*InvoiceResponse, error) {
	var inv InvoiceResponse
	path := "/pay-invoice/" + url.PathEscape(id)
	if err := c.doJSON(ctx, http.MethodGet, path, "", nil, &inv, http.StatusOK); err != nil {
		return nil, err
	}
	return &inv, nil
}

// PayInvoice charges an invoice with a one-time payment token. The call is
// not retried on timeout; surface the error to the payer instead.
func (c *SDKClient) PayInvoice(ctx context.Context, id, paymentToken string) (*PaymentResponse, error) {
	req := PayInvoiceRequest{PaymentToken: paymentToken}

	var out PaymentResponse
	path := "/pay-invoice/" + url.PathEscape(id)
	if err := c.doJSON(ctx, http.MethodPost, path, "", req, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}
