package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/sendinvoices/sendinvoices/internal/invoicing/service"
	"github.com/sendinvoices/sendinvoices/pkg/httpx"
	"github.com/sendinvoices/sendinvoices/pkg/invoicesdk"
)

type PayInvoiceHandler struct {
	InvoiceService *service.InvoiceService
}

// HandleGet returns the invoice behind the public payment page.
//
//	@Summary		Fetch a payable invoice
//	@Description	Returns the invoice if it exists and is still unpaid. A malformed id is indistinguishable from a missing one.
//	@Tags			Payment
//	@Produce		json
//	@Param			id	path		string						true	"Invoice id"
//	@Success		200	{object}	invoicesdk.InvoiceResponse	"The unpaid invoice"
//	@Failure		404	{object}	invoicesdk.ErrorResponse	"Invoice does not exist"
//	@Failure		409	{object}	invoicesdk.ErrorResponse	"Invoice was already paid"
//	@Router			/pay-invoice/{id} [get].
func (h *PayInvoiceHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	inv, err := h.InvoiceService.RetrieveInvoiceForPayment(ctx, r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, toInvoiceResponse(inv))
}

// HandlePost charges the invoice with the payer's one-time token.
//
//	@Summary		Pay an invoice
//	@Description	Charges the card behind the payment token and marks the invoice paid. The charge is never retried.
//	@Tags			Payment
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string						true	"Invoice id"
//	@Param			request	body		invoicesdk.PayInvoiceRequest	true	"One-time payment token"
//	@Success		200		{object}	invoicesdk.PaymentResponse	"Payment confirmation"
//	@Failure		400		{object}	invoicesdk.ErrorResponse	"Missing payment token"
//	@Failure		404		{object}	invoicesdk.ErrorResponse	"Invoice does not exist"
//	@Failure		409		{object}	invoicesdk.ErrorResponse	"Invoice was already paid"
//	@Failure		502		{object}	invoicesdk.ErrorResponse	"Payment gateway failure"
//	@Router			/pay-invoice/{id} [post].
func (h *PayInvoiceHandler) HandlePost(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	inv, err := h.InvoiceService.RetrieveInvoiceForPayment(ctx, r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	token, ok := paymentToken(r)
	if !ok {
		invoicesdk.ErrInvalidRequest.WriteError(w)
		return
	}

	paid, err := h.InvoiceService.ChargeInvoice(ctx, inv, token)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, invoicesdk.PaymentResponse{
		Message: "You successfully paid the invoice, thank you!",
		Invoice: toInvoiceResponse(paid),
	})
}

// paymentToken extracts the one-time token from a JSON body or, for plain
// checkout form posts, a form field.
func paymentToken(r *http.Request) (string, bool) {
	ct := r.Header.Get("Content-Type")
	if strings.HasPrefix(ct, "application/json") {
		var req invoicesdk.PayInvoiceRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return "", false
		}
		return req.PaymentToken, true
	}

	if err := r.ParseForm(); err != nil {
		return "", false
	}
	return r.PostFormValue("payment_token"), true
}
