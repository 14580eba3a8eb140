package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sendinvoices/sendinvoices/internal/invoicing/service"
	"github.com/sendinvoices/sendinvoices/pkg/httpx"
	"github.com/sendinvoices/sendinvoices/pkg/invoicesdk"
	"github.com/sendinvoices/sendinvoices/pkg/slogx"
)

type SendInvoiceHandler struct {
	InvoiceService *service.InvoiceService
	UserService    *service.UserService
}

// ServeHTTP creates an invoice and emails it to the recipient.
//
//	@Summary		Send an invoice
//	@Description	Validates the recipient address and amount, persists an unpaid invoice and emails the payment link.
//	@Tags			Invoices
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		invoicesdk.SendInvoiceRequest	true	"Recipient and amount"
//	@Success		201		{object}	invoicesdk.InvoiceResponse		"The created invoice"
//	@Failure		400		{object}	invoicesdk.ErrorResponse		"Validation failure"
//	@Failure		401		{object}	invoicesdk.ErrorResponse		"Missing or invalid session"
//	@Failure		500		{object}	invoicesdk.ErrorResponse		"Internal server error"
//	@Router			/send-invoice [post].
func (h *SendInvoiceHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	userID := httpx.UserIDFromCtx(ctx)
	if userID == "" {
		invoicesdk.ErrUnauthorized.WriteError(w)
		return
	}

	user, err := h.UserService.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			// Valid session for an account that no longer exists.
			invoicesdk.ErrUserNotFound.WriteError(w)
			return
		}
		log.Warn("failed to load user", "user_id", userID, "err", err)
		invoicesdk.ErrServerError.WriteError(w)
		return
	}

	var req invoicesdk.SendInvoiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		invoicesdk.ErrInvalidRequest.WriteError(w)
		return
	}

	inv, err := h.InvoiceService.CreateInvoice(ctx, user, req.Email, req.Amount)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusCreated, toInvoiceResponse(inv))
}

type ListInvoicesHandler struct {
	InvoiceService *service.InvoiceService
}

// ServeHTTP lists the invoices sent by the authenticated merchant.
//
//	@Summary		List sent invoices
//	@Tags			Invoices
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	invoicesdk.InvoiceListResponse	"Invoices, newest first"
//	@Failure		401	{object}	invoicesdk.ErrorResponse		"Missing or invalid session"
//	@Failure		500	{object}	invoicesdk.ErrorResponse		"Internal server error"
//	@Router			/v1/invoices [get].
func (h *ListInvoicesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	userID := httpx.UserIDFromCtx(ctx)
	if userID == "" {
		invoicesdk.ErrUnauthorized.WriteError(w)
		return
	}

	invoices, err := h.InvoiceService.ListInvoices(ctx, userID)
	if err != nil {
		log.Warn("failed to list invoices", "user_id", userID, "err", err)
		invoicesdk.ErrServerError.WriteError(w)
		return
	}

	out := invoicesdk.InvoiceListResponse{
		Invoices: make([]invoicesdk.InvoiceResponse, 0, len(invoices)),
	}
	for _, inv := range invoices {
		out.Invoices = append(out.Invoices, toInvoiceResponse(inv))
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, out)
}
