package http

import (
	"errors"
	"net/http"

	"github.com/sendinvoices/sendinvoices/internal/invoicing/domain"
	"github.com/sendinvoices/sendinvoices/internal/invoicing/service"
	"github.com/sendinvoices/sendinvoices/internal/invoicing/stripe"
	"github.com/sendinvoices/sendinvoices/pkg/invoicesdk"
)

func toUserResponse(u domain.User) invoicesdk.UserResponse {
	return invoicesdk.UserResponse{
		ID:         u.ID,
		Group:      u.Group,
		APIToken:   u.APIToken,
		MerchantID: u.MerchantID,
		CreatedAt:  u.CreatedAt,
	}
}

func toInvoiceResponse(inv domain.Invoice) invoicesdk.InvoiceResponse {
	return invoicesdk.InvoiceResponse{
		ID:          inv.ID,
		Reference:   inv.Reference,
		Email:       inv.Email,
		Amount:      inv.Amount.String(),
		AmountMinor: inv.AmountMinor,
		Status:      inv.Status,
		CreatedAt:   inv.CreatedAt,
		UpdatedAt:   inv.UpdatedAt,
	}
}

// writeServiceError maps service sentinels onto the API error table.
// Anything unrecognised becomes a 500 so internals never leak.
func writeServiceError(w http.ResponseWriter, err error) {
	var stripeErr *stripe.Error

	switch {
	case errors.Is(err, service.ErrInvalidEmail):
		invoicesdk.ErrInvalidEmail.WriteError(w)
	case errors.Is(err, service.ErrNotANumber):
		invoicesdk.ErrNotANumber.WriteError(w)
	case errors.Is(err, service.ErrAmountBelowMinimum):
		invoicesdk.ErrAmountBelowMinimum.WriteError(w)
	case errors.Is(err, service.ErrAmountAboveMaximum):
		invoicesdk.ErrAmountAboveMaximum.WriteError(w)
	case errors.Is(err, service.ErrInvoiceNotFound):
		invoicesdk.ErrInvoiceNotFound.WriteError(w)
	case errors.Is(err, service.ErrInvoiceAlreadyPaid):
		invoicesdk.ErrInvoicePaid.WriteError(w)
	case errors.Is(err, service.ErrUserNotFound):
		invoicesdk.ErrUserNotFound.WriteError(w)
	case errors.Is(err, service.ErrInvalidPaymentToken):
		invoicesdk.ErrInvalidPaymentToken.WriteError(w)
	case errors.As(err, &stripeErr):
		invoicesdk.ErrPaymentGateway.WriteError(w)
	default:
		invoicesdk.ErrServerError.WriteError(w)
	}
}
