package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sendinvoices/sendinvoices/internal/invoicing/domain"
	"github.com/sendinvoices/sendinvoices/internal/invoicing/service"
	"github.com/sendinvoices/sendinvoices/internal/invoicing/store"
	"github.com/sendinvoices/sendinvoices/internal/invoicing/store/drivers/sqlite"
	"github.com/sendinvoices/sendinvoices/internal/invoicing/stripe"
	"github.com/sendinvoices/sendinvoices/pkg/invoicesdk"
	"github.com/sendinvoices/sendinvoices/pkg/jwtx"
)

type fakeProcessor struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (f *fakeProcessor) CreateCharge(ctx context.Context, p stripe.ChargeParams) (stripe.Charge, error) {
	f.mu.Lock()
	f.calls++
	n := f.calls
	f.mu.Unlock()

	if f.err != nil {
		return stripe.Charge{}, f.err
	}
	raw := fmt.Sprintf(`{"id":"ch_test_%d","amount":%d,"paid":true}`, n, p.AmountMinor)
	return stripe.Charge{
		ID:     fmt.Sprintf("ch_test_%d", n),
		Amount: p.AmountMinor,
		Paid:   true,
		Status: "succeeded",
		Raw:    json.RawMessage(raw),
	}, nil
}

type testEnv struct {
	server *httptest.Server
	sdk    *invoicesdk.SDKClient
	store  store.Store
	proc   *fakeProcessor
	signer *jwtx.SessionSigner
}

func newTestEnv(t *testing.T, connectURL string) *testEnv {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	signer := &jwtx.SessionSigner{
		Secret: []byte("test-session-secret"),
		Issuer: "sendinvoices-test",
	}

	proc := &fakeProcessor{}
	connect := stripe.NewConnectClient(nil, "ca_test_client", "sk_test_secret", connectURL)

	router := NewRouter(signer, connect, "http://invoices.test", "test", st, slog.Default())
	router.InvoiceService = &service.InvoiceService{Store: st, Processor: proc}
	router.IdentityService = &service.IdentityService{Store: st}
	router.UserService = &service.UserService{Store: st}
	router.ApplyRoutes()

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return &testEnv{
		server: server,
		sdk:    invoicesdk.NewSDKClient(server.URL),
		store:  st,
		proc:   proc,
		signer: signer,
	}
}

// seedMerchant provisions an account directly and mints a session for it.
func (e *testEnv) seedMerchant(t *testing.T, merchantID string) (domain.User, string) {
	t.Helper()

	user := domain.NewUser(merchantID)
	require.NoError(t, e.store.Users().CreateUser(context.Background(), user))

	session, err := e.signer.Mint(user.ID, user.Group)
	require.NoError(t, err)
	return user, session
}

func TestSystemEndpoints(t *testing.T) {
	env := newTestEnv(t, "")
	ctx := context.Background()

	status, err := env.sdk.GetStatus(ctx)
	require.NoError(t, err)
	require.Equal(t, "online", status.Status)
	require.Equal(t, "test", status.Version)
	require.NotEmpty(t, status.Uptime)

	ready, err := env.sdk.GetReadiness(ctx)
	require.NoError(t, err)
	require.Equal(t, "online", ready.Status)
}

func TestSendInvoiceEndpoint(t *testing.T) {
	env := newTestEnv(t, "")
	ctx := context.Background()
	_, session := env.seedMerchant(t, "acct_send")

	t.Run("rejects missing session", func(t *testing.T) {
		resp, err := http.Post(env.server.URL+"/send-invoice", "application/json", nil)
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		require.Contains(t, resp.Header.Get("WWW-Authenticate"), "Bearer")
	})

	t.Run("creates and returns the invoice", func(t *testing.T) {
		inv, err := env.sdk.SendInvoice(ctx, session, "client@example.com", "50")
		require.NoError(t, err)
		require.Equal(t, "client@example.com", inv.Email)
		require.EqualValues(t, 5000, inv.AmountMinor)
		require.Equal(t, "unpaid", inv.Status)
		require.Regexp(t, `^[0-9]{5}$`, inv.Reference)
	})

	t.Run("maps validation failures to the message table", func(t *testing.T) {
		cases := []struct {
			email, amount, code, message string
		}{
			{"nope", "50", invoicesdk.ErrorCodeInvalidEmail, "Email address was invalid"},
			{"a@b.com", "abc", invoicesdk.ErrorCodeNotANumber, "You did not enter a valid number"},
			{"a@b.com", "0.50", invoicesdk.ErrorCodeAmountBelowMinimum, "Amount must be at least (1)"},
			{"a@b.com", "10001", invoicesdk.ErrorCodeAmountAboveMaximum, "Amount must be less than or equal to (10000)"},
		}
		for _, tc := range cases {
			_, err := env.sdk.SendInvoice(ctx, session, tc.email, tc.amount)
			var apiErr *invoicesdk.APIError
			require.True(t, errors.As(err, &apiErr))
			require.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
			require.Equal(t, tc.code, apiErr.Code)
			require.Equal(t, tc.message, apiErr.Message)
		}
	})

	t.Run("lists only the session's invoices", func(t *testing.T) {
		_, otherSession := env.seedMerchant(t, "acct_other")
		_, err := env.sdk.SendInvoice(ctx, otherSession, "other@example.com", "10")
		require.NoError(t, err)

		invoices, err := env.sdk.ListInvoices(ctx, session)
		require.NoError(t, err)
		require.NotEmpty(t, invoices)
		for _, inv := range invoices {
			require.NotEqual(t, "other@example.com", inv.Email)
		}
	})
}

func TestPayInvoiceEndpoint(t *testing.T) {
	env := newTestEnv(t, "")
	ctx := context.Background()
	_, session := env.seedMerchant(t, "acct_pay")

	inv, err := env.sdk.SendInvoice(ctx, session, "payer@example.com", "50")
	require.NoError(t, err)

	t.Run("missing invoices 404 regardless of id shape", func(t *testing.T) {
		for _, id := range []string{"garbage", "01ARZ3NDEKTSV4RRFFQ69G5FAV"} {
			_, err := env.sdk.GetPayableInvoice(ctx, id)
			var apiErr *invoicesdk.APIError
			require.True(t, errors.As(err, &apiErr))
			require.Equal(t, http.StatusNotFound, apiErr.StatusCode)
			require.Equal(t, "Invoice does not exist", apiErr.Message)
		}
	})

	t.Run("payment page data", func(t *testing.T) {
		got, err := env.sdk.GetPayableInvoice(ctx, inv.ID)
		require.NoError(t, err)
		require.Equal(t, inv.Reference, got.Reference)
		require.Equal(t, "unpaid", got.Status)
	})

	t.Run("blank token is a gateway message, no charge", func(t *testing.T) {
		_, err := env.sdk.PayInvoice(ctx, inv.ID, "")
		var apiErr *invoicesdk.APIError
		require.True(t, errors.As(err, &apiErr))
		require.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
		require.Equal(t, "An issue occurred with our payment gateway, please try again later", apiErr.Message)
		require.Zero(t, env.proc.calls)
	})

	t.Run("successful payment", func(t *testing.T) {
		paid, err := env.sdk.PayInvoice(ctx, inv.ID, "tok_visa")
		require.NoError(t, err)
		require.Equal(t, "You successfully paid the invoice, thank you!", paid.Message)
		require.Equal(t, "paid", paid.Invoice.Status)
		require.Equal(t, 1, env.proc.calls)
	})

	t.Run("second payment conflicts", func(t *testing.T) {
		_, err := env.sdk.PayInvoice(ctx, inv.ID, "tok_visa")
		var apiErr *invoicesdk.APIError
		require.True(t, errors.As(err, &apiErr))
		require.Equal(t, http.StatusConflict, apiErr.StatusCode)
		require.Equal(t, "Invoice was already paid, woo hoo!", apiErr.Message)
		require.Equal(t, 1, env.proc.calls)
	})

	t.Run("form posts work for checkout widgets", func(t *testing.T) {
		fresh, err := env.sdk.SendInvoice(ctx, session, "payer@example.com", "20")
		require.NoError(t, err)

		resp, err := http.PostForm(env.server.URL+"/pay-invoice/"+fresh.ID,
			url.Values{"payment_token": {"tok_visa"}})
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)
	})
}

func TestCurrentUserEndpoint(t *testing.T) {
	env := newTestEnv(t, "")
	ctx := context.Background()
	user, _ := env.seedMerchant(t, "acct_token")

	t.Run("resolves the api token", func(t *testing.T) {
		got, err := env.sdk.CurrentUser(ctx, user.APIToken)
		require.NoError(t, err)
		require.Equal(t, user.ID, got.ID)
		require.Equal(t, "acct_token", got.MerchantID)
	})

	t.Run("unknown token is a 404", func(t *testing.T) {
		_, err := env.sdk.CurrentUser(ctx, "not-a-real-token-000000")
		var apiErr *invoicesdk.APIError
		require.True(t, errors.As(err, &apiErr))
		require.Equal(t, http.StatusNotFound, apiErr.StatusCode)
		require.Equal(t, "User does not exist", apiErr.Message)
	})
}

func TestAdminUsersEndpoint(t *testing.T) {
	env := newTestEnv(t, "")
	ctx := context.Background()
	_, memberSession := env.seedMerchant(t, "acct_member")

	admin := domain.NewUser("acct_admin")
	admin.Group = domain.GroupAdmin
	require.NoError(t, env.store.Users().CreateUser(ctx, admin))
	adminSession, err := env.signer.Mint(admin.ID, admin.Group)
	require.NoError(t, err)

	t.Run("plain merchants are forbidden", func(t *testing.T) {
		_, err := env.sdk.ListUsers(ctx, memberSession)
		var apiErr *invoicesdk.APIError
		require.True(t, errors.As(err, &apiErr))
		require.Equal(t, http.StatusForbidden, apiErr.StatusCode)
	})

	t.Run("admins see every account", func(t *testing.T) {
		users, err := env.sdk.ListUsers(ctx, adminSession)
		require.NoError(t, err)
		require.Len(t, users, 2)
	})
}

func TestLoginFlow(t *testing.T) {
	// Fake Connect provider: answers the code exchange.
	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/oauth/token", r.URL.Path)
		require.NoError(t, r.ParseForm())
		require.Equal(t, "authorization_code", r.PostFormValue("grant_type"))
		require.Equal(t, "code-123", r.PostFormValue("code"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"stripe_user_id":"acct_connected","access_token":"at_1","refresh_token":"rt_1","scope":"read_write"}`))
	}))
	defer provider.Close()

	env := newTestEnv(t, provider.URL)
	ctx := context.Background()

	noRedirect := &http.Client{
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	// Leg one: /login sets the state cookie and redirects to the provider.
	resp, err := noRedirect.Get(env.server.URL + "/login")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusFound, resp.StatusCode)

	location, err := url.Parse(resp.Header.Get("Location"))
	require.NoError(t, err)
	state := location.Query().Get("state")
	require.NotEmpty(t, state)
	require.Equal(t, "ca_test_client", location.Query().Get("client_id"))
	require.Equal(t, "http://invoices.test/login/ok", location.Query().Get("redirect_uri"))

	var stateCookie *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == "connect_state" {
			stateCookie = c
		}
	}
	require.NotNil(t, stateCookie)
	require.Equal(t, state, stateCookie.Value)

	// Leg two: the callback exchanges the code and mints a session.
	req, err := http.NewRequest(http.MethodGet,
		env.server.URL+"/login/ok?code=code-123&state="+url.QueryEscape(state), nil)
	require.NoError(t, err)
	req.AddCookie(stateCookie)

	resp2, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp2.Body.Close()
	require.Equal(t, http.StatusOK, resp2.StatusCode)

	var sessionResp invoicesdk.SessionResponse
	require.NoError(t, json.NewDecoder(resp2.Body).Decode(&sessionResp))
	require.Equal(t, "Bearer", sessionResp.TokenType)
	require.NotEmpty(t, sessionResp.AccessToken)

	// The minted session works against authenticated endpoints.
	invoices, err := env.sdk.ListInvoices(ctx, sessionResp.AccessToken)
	require.NoError(t, err)
	require.Empty(t, invoices)

	// And the account was provisioned with the Connect identity.
	user, err := env.store.Users().GetUserByMerchantID(ctx, "acct_connected")
	require.NoError(t, err)
	require.Equal(t, "at_1", user.AccessToken)

	t.Run("state mismatch is rejected", func(t *testing.T) {
		req, err := http.NewRequest(http.MethodGet,
			env.server.URL+"/login/ok?code=code-123&state=wrong", nil)
		require.NoError(t, err)
		req.AddCookie(stateCookie)

		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}
