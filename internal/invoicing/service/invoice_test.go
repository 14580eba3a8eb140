package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/sendinvoices/sendinvoices/internal/invoicing/domain"
	"github.com/sendinvoices/sendinvoices/internal/invoicing/store"
	"github.com/sendinvoices/sendinvoices/internal/invoicing/store/drivers/sqlite"
	"github.com/sendinvoices/sendinvoices/internal/invoicing/stripe"
	"github.com/sendinvoices/sendinvoices/pkg/idx"
)

// fakeProcessor counts charge calls and optionally fails or stalls, standing
// in for the Stripe API.
type fakeProcessor struct {
	mu    sync.Mutex
	calls int
	err   error
	delay time.Duration
}

func (f *fakeProcessor) CreateCharge(ctx context.Context, p stripe.ChargeParams) (stripe.Charge, error) {
	f.mu.Lock()
	f.calls++
	n := f.calls
	f.mu.Unlock()

	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if f.err != nil {
		return stripe.Charge{}, f.err
	}

	raw := fmt.Sprintf(`{"id":"ch_fake_%d","amount":%d,"currency":%q,"paid":true,"status":"succeeded"}`,
		n, p.AmountMinor, p.Currency)
	return stripe.Charge{
		ID:       fmt.Sprintf("ch_fake_%d", n),
		Amount:   p.AmountMinor,
		Currency: p.Currency,
		Paid:     true,
		Status:   "succeeded",
		Raw:      json.RawMessage(raw),
	}, nil
}

func (f *fakeProcessor) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// brokenPaidStore wraps a real store and forces MarkInvoicePaid to return a
// fixed error, simulating a write that fails after the processor has already
// taken the money.
type brokenPaidStore struct {
	store.Store
	markErr error
}

func (b *brokenPaidStore) Invoices() store.Invoices {
	return &brokenPaidInvoices{Invoices: b.Store.Invoices(), markErr: b.markErr}
}

type brokenPaidInvoices struct {
	store.Invoices
	markErr error
}

func (b *brokenPaidInvoices) MarkInvoicePaid(ctx context.Context, invoiceID string, charge json.RawMessage) error {
	return b.markErr
}

func newTestStore(t *testing.T) store.Store {
	t.Helper()

	s, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.ApplyMigrations())
	return s
}

func newTestUser(t *testing.T, st store.Store, merchantID string) domain.User {
	t.Helper()

	user := domain.NewUser(merchantID)
	require.NoError(t, st.Users().CreateUser(context.Background(), user))
	return user
}

func TestCreateInvoice(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	user := newTestUser(t, st, "acct_create")
	svc := &InvoiceService{Store: st, Processor: &fakeProcessor{}}

	t.Run("persists a complete unpaid invoice", func(t *testing.T) {
		inv, err := svc.CreateInvoice(ctx, user, "a@b.com", "50")
		require.NoError(t, err)

		require.Equal(t, user.ID, inv.UserID)
		require.Equal(t, "a@b.com", inv.Email)
		require.True(t, decimal.RequireFromString("50").Equal(inv.Amount))
		require.EqualValues(t, 5000, inv.AmountMinor)
		require.Equal(t, domain.StatusUnpaid, inv.Status)
		require.Regexp(t, `^[0-9]{5}$`, inv.Reference)
		require.Nil(t, inv.Charge)

		stored, err := st.Invoices().GetInvoiceByID(ctx, inv.ID)
		require.NoError(t, err)
		require.Equal(t, inv.Reference, stored.Reference)
	})

	t.Run("email is trimmed and lower-cased", func(t *testing.T) {
		inv, err := svc.CreateInvoice(ctx, user, "  Alice@Example.COM ", "25")
		require.NoError(t, err)
		require.Equal(t, "alice@example.com", inv.Email)
	})

	t.Run("minor units round in decimal space", func(t *testing.T) {
		inv, err := svc.CreateInvoice(ctx, user, "a@b.com", "19.995")
		require.NoError(t, err)
		require.EqualValues(t, 2000, inv.AmountMinor)
	})

	t.Run("bounds are inclusive", func(t *testing.T) {
		low, err := svc.CreateInvoice(ctx, user, "a@b.com", "1")
		require.NoError(t, err)
		require.EqualValues(t, 100, low.AmountMinor)

		high, err := svc.CreateInvoice(ctx, user, "a@b.com", "10000")
		require.NoError(t, err)
		require.EqualValues(t, 1000000, high.AmountMinor)
	})

	t.Run("validation failures in order, nothing persisted", func(t *testing.T) {
		before, err := svc.ListInvoices(ctx, user.ID)
		require.NoError(t, err)

		cases := []struct {
			name    string
			email   string
			amount  string
			wantErr error
		}{
			{"invalid email", "not-an-email", "50", ErrInvalidEmail},
			{"blank email", "   ", "50", ErrInvalidEmail},
			{"dotless domain", "a@b", "50", ErrInvalidEmail},
			{"email wins over bad amount", "nope", "abc", ErrInvalidEmail},
			{"non-numeric amount", "a@b.com", "fifty", ErrNotANumber},
			{"empty amount", "a@b.com", "", ErrNotANumber},
			{"below minimum", "a@b.com", "0.99", ErrAmountBelowMinimum},
			{"zero", "a@b.com", "0", ErrAmountBelowMinimum},
			{"above maximum", "a@b.com", "10000.01", ErrAmountAboveMaximum},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				_, err := svc.CreateInvoice(ctx, user, tc.email, tc.amount)
				require.ErrorIs(t, err, tc.wantErr)
			})
		}

		after, err := svc.ListInvoices(ctx, user.ID)
		require.NoError(t, err)
		require.Len(t, after, len(before))
	})
}

func TestRetrieveInvoiceForPayment(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	user := newTestUser(t, st, "acct_retrieve")
	svc := &InvoiceService{Store: st, Processor: &fakeProcessor{}}

	inv, err := svc.CreateInvoice(ctx, user, "a@b.com", "50")
	require.NoError(t, err)

	t.Run("returns payable invoice unmodified", func(t *testing.T) {
		got, err := svc.RetrieveInvoiceForPayment(ctx, inv.ID)
		require.NoError(t, err)
		require.Equal(t, inv.ID, got.ID)
		require.Equal(t, domain.StatusUnpaid, got.Status)
	})

	t.Run("malformed id is indistinguishable from a miss", func(t *testing.T) {
		_, err := svc.RetrieveInvoiceForPayment(ctx, "definitely-not-an-id")
		require.ErrorIs(t, err, ErrInvoiceNotFound)

		_, err = svc.RetrieveInvoiceForPayment(ctx, idx.New().String())
		require.ErrorIs(t, err, ErrInvoiceNotFound)
	})

	t.Run("paid invoice is rejected", func(t *testing.T) {
		_, err := svc.ChargeInvoice(ctx, inv, "tok_visa")
		require.NoError(t, err)

		_, err = svc.RetrieveInvoiceForPayment(ctx, inv.ID)
		require.ErrorIs(t, err, ErrInvoiceAlreadyPaid)
	})
}

func TestChargeInvoice(t *testing.T) {
	ctx := context.Background()

	t.Run("missing owner fails before anything else", func(t *testing.T) {
		st := newTestStore(t)
		proc := &fakeProcessor{}
		svc := &InvoiceService{Store: st, Processor: proc}

		orphan := domain.Invoice{ID: idx.New().String(), UserID: idx.New().String()}
		_, err := svc.ChargeInvoice(ctx, orphan, "tok_visa")
		require.ErrorIs(t, err, ErrUserNotFound)
		require.Zero(t, proc.callCount())
	})

	t.Run("blank payment token never reaches the processor", func(t *testing.T) {
		st := newTestStore(t)
		user := newTestUser(t, st, "acct_blank")
		proc := &fakeProcessor{}
		svc := &InvoiceService{Store: st, Processor: proc}

		inv, err := svc.CreateInvoice(ctx, user, "a@b.com", "50")
		require.NoError(t, err)

		for _, token := range []string{"", "   "} {
			_, err = svc.ChargeInvoice(ctx, inv, token)
			require.ErrorIs(t, err, ErrInvalidPaymentToken)
		}
		require.Zero(t, proc.callCount())

		stored, err := st.Invoices().GetInvoiceByID(ctx, inv.ID)
		require.NoError(t, err)
		require.Equal(t, domain.StatusUnpaid, stored.Status)
	})

	t.Run("processor failure leaves the invoice payable", func(t *testing.T) {
		st := newTestStore(t)
		user := newTestUser(t, st, "acct_declined")
		declined := &stripe.Error{StatusCode: 402, Type: "card_error", Code: "card_declined", Message: "Your card was declined."}
		proc := &fakeProcessor{err: declined}
		svc := &InvoiceService{Store: st, Processor: proc}

		inv, err := svc.CreateInvoice(ctx, user, "a@b.com", "50")
		require.NoError(t, err)

		_, err = svc.ChargeInvoice(ctx, inv, "tok_chargeDeclined")
		require.ErrorIs(t, err, declined)

		// Still unpaid, still payable.
		got, err := svc.RetrieveInvoiceForPayment(ctx, inv.ID)
		require.NoError(t, err)
		require.Equal(t, domain.StatusUnpaid, got.Status)
	})

	t.Run("success commits the charge and the transition", func(t *testing.T) {
		st := newTestStore(t)
		user := newTestUser(t, st, "acct_success")
		proc := &fakeProcessor{}
		svc := &InvoiceService{Store: st, Processor: proc}

		inv, err := svc.CreateInvoice(ctx, user, "a@b.com", "50")
		require.NoError(t, err)

		paid, err := svc.ChargeInvoice(ctx, inv, "tok_visa")
		require.NoError(t, err)
		require.Equal(t, domain.StatusPaid, paid.Status)
		require.NotNil(t, paid.Charge)
		require.Equal(t, 1, proc.callCount())

		stored, err := st.Invoices().GetInvoiceByID(ctx, inv.ID)
		require.NoError(t, err)
		require.Equal(t, domain.StatusPaid, stored.Status)
		require.JSONEq(t, string(paid.Charge), string(stored.Charge))
	})

	t.Run("paid invoices stay paid", func(t *testing.T) {
		st := newTestStore(t)
		user := newTestUser(t, st, "acct_monotonic")
		proc := &fakeProcessor{}
		svc := &InvoiceService{Store: st, Processor: proc}

		inv, err := svc.CreateInvoice(ctx, user, "a@b.com", "50")
		require.NoError(t, err)

		_, err = svc.ChargeInvoice(ctx, inv, "tok_visa")
		require.NoError(t, err)

		for range 3 {
			_, err = svc.ChargeInvoice(ctx, inv, "tok_visa")
			require.ErrorIs(t, err, ErrInvoiceAlreadyPaid)
		}
		require.Equal(t, 1, proc.callCount())
	})

	t.Run("persistence failure after a successful charge is surfaced", func(t *testing.T) {
		st := newTestStore(t)
		user := newTestUser(t, st, "acct_commitfail")
		proc := &fakeProcessor{}
		markErr := errors.New("disk I/O error")
		svc := &InvoiceService{Store: &brokenPaidStore{Store: st, markErr: markErr}, Processor: proc}

		inv, err := svc.CreateInvoice(ctx, user, "a@b.com", "50")
		require.NoError(t, err)

		// The charge went through; the failed write must surface and the
		// processor must not be asked again.
		_, err = svc.ChargeInvoice(ctx, inv, "tok_visa")
		require.ErrorIs(t, err, markErr)
		require.Equal(t, 1, proc.callCount())

		stored, err := st.Invoices().GetInvoiceByID(ctx, inv.ID)
		require.NoError(t, err)
		require.Equal(t, domain.StatusUnpaid, stored.Status)
		require.Nil(t, stored.Charge)
	})

	t.Run("losing the commit race reads as already paid", func(t *testing.T) {
		st := newTestStore(t)
		user := newTestUser(t, st, "acct_commitrace")
		proc := &fakeProcessor{}
		svc := &InvoiceService{Store: &brokenPaidStore{Store: st, markErr: store.ErrConflict}, Processor: proc}

		inv, err := svc.CreateInvoice(ctx, user, "a@b.com", "50")
		require.NoError(t, err)

		_, err = svc.ChargeInvoice(ctx, inv, "tok_visa")
		require.ErrorIs(t, err, ErrInvoiceAlreadyPaid)
		require.Equal(t, 1, proc.callCount())
	})

	t.Run("concurrent attempts charge exactly once", func(t *testing.T) {
		st := newTestStore(t)
		user := newTestUser(t, st, "acct_race")
		proc := &fakeProcessor{delay: 20 * time.Millisecond}
		svc := &InvoiceService{Store: st, Processor: proc}

		inv, err := svc.CreateInvoice(ctx, user, "a@b.com", "50")
		require.NoError(t, err)

		errs := make(chan error, 2)
		for range 2 {
			go func() {
				_, err := svc.ChargeInvoice(ctx, inv, "tok_visa")
				errs <- err
			}()
		}

		var succeeded, alreadyPaid int
		for range 2 {
			switch err := <-errs; {
			case err == nil:
				succeeded++
			case errors.Is(err, ErrInvoiceAlreadyPaid):
				alreadyPaid++
			default:
				t.Fatalf("unexpected error: %v", err)
			}
		}

		require.Equal(t, 1, succeeded)
		require.Equal(t, 1, alreadyPaid)
		require.Equal(t, 1, proc.callCount())
	})
}
