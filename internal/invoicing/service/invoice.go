package service

import (
	"context"
	"errors"
	"hash/fnv"
	"net/mail"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/sendinvoices/sendinvoices/internal/invoicing/domain"
	"github.com/sendinvoices/sendinvoices/internal/invoicing/store"
	"github.com/sendinvoices/sendinvoices/internal/invoicing/stripe"
	"github.com/sendinvoices/sendinvoices/pkg/idx"
	"github.com/sendinvoices/sendinvoices/pkg/slogx"
)

// Currency is the single currency invoices are charged in. The minor-unit
// multiplier is fixed at 100.
const Currency = "usd"

var (
	ErrInvalidEmail       = errors.New("email address was invalid")
	ErrNotANumber         = errors.New("amount was not a valid number")
	ErrAmountBelowMinimum = errors.New("amount must be at least 1")
	ErrAmountAboveMaximum = errors.New("amount must be less than or equal to 10000")

	ErrInvoiceNotFound    = errors.New("invoice does not exist")
	ErrInvoiceAlreadyPaid = errors.New("invoice was already paid")

	ErrInvalidPaymentToken = errors.New("invalid payment token")
)

// PaymentProcessor is the outbound charge dependency. The concrete Stripe
// client satisfies it; tests substitute a fake.
type PaymentProcessor interface {
	CreateCharge(ctx context.Context, p stripe.ChargeParams) (stripe.Charge, error)
}

type InvoiceService struct {
	Store     store.Store
	Processor PaymentProcessor
	Notifier  Notifier // optional

	// chargeLocks serializes in-process payment attempts per invoice so at
	// most one processor call is made for a contended invoice. The
	// conditional update in the store remains the cross-process guard.
	chargeLocks [64]sync.Mutex
}

// CreateInvoice validates input and persists a new unpaid invoice owned by
// requester. amount is the raw user-entered decimal string in major units.
// Checks run in a fixed order and the first failure wins.
func (s *InvoiceService) CreateInvoice(
	ctx context.Context,
	requester domain.User,
	recipientEmail string,
	amount string,
) (domain.Invoice, error) {
	log := slogx.FromContext(ctx)

	// 1. Recipient must be a syntactically valid address.
	email, ok := normalizeEmail(recipientEmail)
	if !ok {
		return domain.Invoice{}, ErrInvalidEmail
	}

	// 2. Amount must parse as a decimal number.
	amt, err := decimal.NewFromString(strings.TrimSpace(amount))
	if err != nil {
		return domain.Invoice{}, ErrNotANumber
	}

	// 3,4. Amount bounds in major units.
	if amt.LessThan(domain.MinAmount) {
		return domain.Invoice{}, ErrAmountBelowMinimum
	}
	if amt.GreaterThan(domain.MaxAmount) {
		return domain.Invoice{}, ErrAmountAboveMaximum
	}

	inv := domain.NewInvoice(requester.ID, email, amt)
	if err := s.Store.Invoices().CreateInvoice(ctx, inv); err != nil {
		return domain.Invoice{}, err
	}

	log.Info("invoice created",
		"invoice_id", inv.ID,
		"reference", inv.Reference,
		"amount_minor", inv.AmountMinor,
	)

	if s.Notifier != nil {
		s.Notifier.InvoiceCreated(ctx, inv)
	}
	return inv, nil
}

// RetrieveInvoiceForPayment loads an invoice that is still payable.
// A malformed id and a genuine miss both return ErrInvoiceNotFound so the
// caller cannot probe for invoice existence.
func (s *InvoiceService) RetrieveInvoiceForPayment(ctx context.Context, id string) (domain.Invoice, error) {
	parsed, err := idx.Parse(id)
	if err != nil {
		return domain.Invoice{}, ErrInvoiceNotFound
	}

	inv, err := s.Store.Invoices().GetInvoiceByID(ctx, parsed.String())
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Invoice{}, ErrInvoiceNotFound
		}
		return domain.Invoice{}, err
	}

	if inv.Paid() {
		return domain.Invoice{}, ErrInvoiceAlreadyPaid
	}
	return inv, nil
}

// ChargeInvoice executes the single irreversible operation in the system:
// one charge against the processor for the invoice amount, attributed to the
// owner's merchant account, followed by the unpaid->paid transition.
//
// The processor call is never retried. A timeout is treated as failure even
// though the charge may have executed upstream; retrying could double-charge.
func (s *InvoiceService) ChargeInvoice(
	ctx context.Context,
	inv domain.Invoice,
	paymentToken string,
) (domain.Invoice, error) {
	log := slogx.FromContext(ctx)

	// 1. The invoice owner must still exist; their merchant account
	// receives the funds.
	user, err := s.Store.Users().GetUserByID(ctx, inv.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Invoice{}, ErrUserNotFound
		}
		return domain.Invoice{}, err
	}

	// 2. The one-time payment token must be present.
	if strings.TrimSpace(paymentToken) == "" {
		return domain.Invoice{}, ErrInvalidPaymentToken
	}

	// 3. Serialize attempts on this invoice; whoever holds the lock
	// re-reads the status so the loser never reaches the processor.
	lock := &s.chargeLocks[lockIndex(inv.ID)]
	lock.Lock()
	defer lock.Unlock()

	current, err := s.Store.Invoices().GetInvoiceByID(ctx, inv.ID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Invoice{}, ErrInvoiceNotFound
		}
		return domain.Invoice{}, err
	}
	if current.Paid() {
		return domain.Invoice{}, ErrInvoiceAlreadyPaid
	}

	// 4. Exactly one charge request.
	charge, err := s.Processor.CreateCharge(ctx, stripe.ChargeParams{
		AmountMinor: current.AmountMinor,
		Currency:    Currency,
		Source:      paymentToken,
		MerchantID:  user.MerchantID,
		Description: "Invoice #" + current.Reference,
	})
	if err != nil {
		// Surfaced as-is; the invoice stays unpaid and payable.
		return domain.Invoice{}, err
	}

	// 5. Commit the transition. The store only flips rows still unpaid.
	if err := s.Store.Invoices().MarkInvoicePaid(ctx, current.ID, charge.Raw); err != nil {
		if errors.Is(err, store.ErrConflict) {
			// Another process committed first: the money for THIS charge
			// moved but the record belongs to the winner. Needs manual
			// reconciliation with the processor.
			log.Error("charge succeeded but invoice was already marked paid",
				"invoice_id", current.ID,
				"charge_id", charge.ID,
			)
			return domain.Invoice{}, ErrInvoiceAlreadyPaid
		}
		// Money taken, record still unpaid. Cannot be rolled back from
		// here; flag loudly for manual reconciliation.
		log.Error("charge succeeded but persisting the paid status failed",
			"invoice_id", current.ID,
			"charge_id", charge.ID,
			"err", err,
		)
		return domain.Invoice{}, err
	}

	current.Charge = charge.Raw
	current.Status = domain.StatusPaid

	log.Info("invoice paid",
		"invoice_id", current.ID,
		"reference", current.Reference,
		"charge_id", charge.ID,
	)

	if s.Notifier != nil {
		s.Notifier.InvoicePaid(ctx, current)
	}
	return current, nil
}

// ListInvoices returns the invoices a user has sent, newest first.
func (s *InvoiceService) ListInvoices(ctx context.Context, userID string) ([]domain.Invoice, error) {
	return s.Store.Invoices().ListInvoicesByUser(ctx, userID)
}

// normalizeEmail lower-cases and trims the address, then checks its syntax.
// The stored form is the normalized one. mail.ParseAddress allows dotless
// domains like "a@b", which no deliverable address has, so the domain must
// contain a dot.
func normalizeEmail(email string) (string, bool) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return "", false
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", false
	}
	at := strings.LastIndexByte(email, '@')
	if !strings.Contains(email[at+1:], ".") {
		return "", false
	}
	return email, true
}

func lockIndex(id string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(id))
	return int(h.Sum32() % 64)
}
