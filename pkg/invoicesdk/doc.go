// Package invoicesdk provides a typed Go client for the sendinvoices
// HTTP API, plus the request/response and error types shared between the
// server handlers and client code.
//
// Basic usage:
//
//	client := invoicesdk.NewSDKClient("https://invoices.example.com")
//
//	// Look up the account behind an API token.
//	user, err := client.CurrentUser(ctx, apiToken)
//
//	// Send an invoice on behalf of a logged-in merchant.
//	inv, err := client.SendInvoice(ctx, sessionToken, "client@example.com", "50")
//
//	// Pay an invoice from the public payment page.
//	paid, err := client.PayInvoice(ctx, inv.ID, "tok_visa")
//
// All failures decode into *APIError, so callers can switch on the error
// code:
//
//	var apiErr *invoicesdk.APIError
//	if errors.As(err, &apiErr) && apiErr.Code == invoicesdk.ErrorCodeInvoicePaid {
//		// already settled
//	}
package invoicesdk
