package http

import (
	"net/http"
	"time"

	"github.com/sendinvoices/sendinvoices/internal/invoicing/service"
	"github.com/sendinvoices/sendinvoices/internal/invoicing/stripe"
	"github.com/sendinvoices/sendinvoices/pkg/cryptox"
	"github.com/sendinvoices/sendinvoices/pkg/httpx"
	"github.com/sendinvoices/sendinvoices/pkg/invoicesdk"
	"github.com/sendinvoices/sendinvoices/pkg/jwtx"
	"github.com/sendinvoices/sendinvoices/pkg/slogx"
)

const (
	stateCookieName = "connect_state"
	stateCookieTTL  = 10 * time.Minute
)

// LoginHandler drives the Connect OAuth round-trip. HandleStart sends the
// merchant to the provider's consent page; HandleCallback exchanges the
// returned code, provisions the account and mints a session token.
type LoginHandler struct {
	IdentityService *service.IdentityService
	Connect         *stripe.ConnectClient
	Signer          *jwtx.SessionSigner
	BaseURL         string
}

// HandleStart redirects to the Connect authorize page.
//
//	@Summary		Start merchant login
//	@Description	Sets a CSRF state cookie and redirects to the payment provider's consent page.
//	@Tags			Login
//	@Success		302	"Redirect to the provider"
//	@Router			/login [get].
func (h *LoginHandler) HandleStart(w http.ResponseWriter, r *http.Request) {
	state := cryptox.MustGenerateToken(16)

	http.SetCookie(w, &http.Cookie{
		Name:     stateCookieName,
		Value:    state,
		Path:     "/login",
		MaxAge:   int(stateCookieTTL.Seconds()),
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, h.Connect.AuthorizeURL(state, h.BaseURL+"/login/ok"), http.StatusFound)
}

// HandleCallback completes the Connect round-trip.
//
//	@Summary		Complete merchant login
//	@Description	Verifies the state cookie, exchanges the authorization code and returns a session token. First logins provision the account.
//	@Tags			Login
//	@Produce		json
//	@Param			code	query		string						true	"Authorization code"
//	@Param			state	query		string						true	"CSRF state"
//	@Success		200		{object}	invoicesdk.SessionResponse	"Bearer session token"
//	@Failure		400		{object}	invoicesdk.ErrorResponse	"Missing code or state"
//	@Failure		401		{object}	invoicesdk.ErrorResponse	"State mismatch or provider denial"
//	@Failure		500		{object}	invoicesdk.ErrorResponse	"Internal server error"
//	@Router			/login/ok [get].
func (h *LoginHandler) HandleCallback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	// The provider reports denials via an error query param.
	if errCode := r.URL.Query().Get("error"); errCode != "" {
		log.Info("connect login denied", "provider_error", errCode)
		invoicesdk.ErrUnauthorized.WriteError(w)
		return
	}

	cookie, err := r.Cookie(stateCookieName)
	if err != nil || cookie.Value == "" || cookie.Value != r.URL.Query().Get("state") {
		invoicesdk.ErrUnauthorized.WriteError(w)
		return
	}
	clearStateCookie(w)

	code := r.URL.Query().Get("code")
	if code == "" {
		invoicesdk.ErrInvalidRequest.WriteError(w)
		return
	}

	token, err := h.Connect.ExchangeCode(ctx, code)
	if err != nil {
		log.Warn("connect code exchange failed", "err", err)
		invoicesdk.ErrUnauthorized.WriteError(w)
		return
	}

	user, err := h.IdentityService.ResolveOrCreateUser(ctx, token.MerchantID, token.AccessToken, token.RefreshToken)
	if err != nil {
		log.Error("failed to resolve user after login", "merchant_id", token.MerchantID, "err", err)
		invoicesdk.ErrServerError.WriteError(w)
		return
	}

	session, err := h.Signer.Mint(user.ID, user.Group)
	if err != nil {
		log.Error("failed to mint session token", "user_id", user.ID, "err", err)
		invoicesdk.ErrServerError.WriteError(w)
		return
	}

	ttl := h.Signer.TTL
	if ttl <= 0 {
		ttl = jwtx.DefaultSessionTTL
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, invoicesdk.SessionResponse{
		AccessToken: session,
		TokenType:   "Bearer",
		ExpiresIn:   int(ttl.Seconds()),
	})
}

func clearStateCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     stateCookieName,
		Value:    "",
		Path:     "/login",
		MaxAge:   -1,
		HttpOnly: true,
	})
}
