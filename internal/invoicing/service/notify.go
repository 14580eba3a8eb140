package service

import (
	"context"

	"github.com/Rhymond/go-money"

	"github.com/sendinvoices/sendinvoices/internal/invoicing/domain"
	"github.com/sendinvoices/sendinvoices/pkg/slogx"
)

// Notifier receives invoice lifecycle events. Delivery (email to the
// recipient on creation, both parties on payment) hangs off this interface;
// failures to notify never fail the workflow.
type Notifier interface {
	InvoiceCreated(ctx context.Context, inv domain.Invoice)
	InvoicePaid(ctx context.Context, inv domain.Invoice)
}

// LogNotifier records notification intents in the log. It stands in until a
// real mail transport is wired up.
type LogNotifier struct {
	// BaseURL is the public origin used to build payment links.
	BaseURL string
}

func (n *LogNotifier) InvoiceCreated(ctx context.Context, inv domain.Invoice) {
	slogx.FromContext(ctx).Info("notify: invoice sent",
		"invoice_id", inv.ID,
		"recipient", inv.Email,
		"amount", displayAmount(inv),
		"payment_link", n.BaseURL+"/pay-invoice/"+inv.ID,
	)
}

func (n *LogNotifier) InvoicePaid(ctx context.Context, inv domain.Invoice) {
	slogx.FromContext(ctx).Info("notify: invoice paid",
		"invoice_id", inv.ID,
		"recipient", inv.Email,
		"amount", displayAmount(inv),
	)
}

// displayAmount renders the invoice total in its currency, e.g. "$50.00".
func displayAmount(inv domain.Invoice) string {
	return money.New(inv.AmountMinor, money.USD).Display()
}
