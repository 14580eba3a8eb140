package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/sendinvoices/sendinvoices/internal/invoicing/service"
	"github.com/sendinvoices/sendinvoices/internal/invoicing/store"
	"github.com/sendinvoices/sendinvoices/internal/invoicing/stripe"
	"github.com/sendinvoices/sendinvoices/pkg/httpx"
	"github.com/sendinvoices/sendinvoices/pkg/jwtx"
	"github.com/sendinvoices/sendinvoices/pkg/slogx"

	_ "github.com/sendinvoices/sendinvoices/api/invoicing" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	signer       *jwtx.SessionSigner
	baseURL      string
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store           store.Store
	connect         *stripe.ConnectClient
	InvoiceService  *service.InvoiceService
	IdentityService *service.IdentityService
	UserService     *service.UserService
}

func NewRouter(
	signer *jwtx.SessionSigner,
	connect *stripe.ConnectClient,
	baseURL, buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		signer:       signer,
		connect:      connect,
		baseURL:      baseURL,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerInvoices()
	r.registerPayment()
	r.registerLogin()
	r.registerUsers()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			SendInvoices API
//	@version		0.1.0
//	@description	Create and email invoices, take card payments through Stripe,
//	@description	and onboard merchants with Stripe Connect OAuth.
//
//	@host			localhost:3000
//	@BasePath		/
//
//	@schemes		http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Session token or API token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerInvoices() {
	sendHandler := &SendInvoiceHandler{
		InvoiceService: r.InvoiceService,
		UserService:    r.UserService,
	}
	listHandler := &ListInvoicesHandler{InvoiceService: r.InvoiceService}

	// POST /send-invoice - authenticated merchant action, moderate limit
	r.Mux.Handle("POST /send-invoice",
		httpx.Chain(sendHandler,
			httpx.AuthnMiddleware(r.signer),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)

	// GET /v1/invoices - dashboard listing, high per-user limit
	r.Mux.Handle("GET /v1/invoices",
		httpx.Chain(listHandler,
			httpx.AuthnMiddleware(r.signer),
			httpx.RateLimitByUser(httpx.PublicLimit),
		),
	)
}

func (r *Router) registerPayment() {
	h := &PayInvoiceHandler{InvoiceService: r.InvoiceService}

	// GET /pay-invoice/{id} - public payment page data, moderate limit by IP
	r.Mux.Handle("GET /pay-invoice/{id}",
		httpx.Chain(http.HandlerFunc(h.HandleGet),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)

	// POST /pay-invoice/{id} - the charge itself, strict limit by IP
	r.Mux.Handle("POST /pay-invoice/{id}",
		httpx.Chain(http.HandlerFunc(h.HandlePost),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
}

func (r *Router) registerLogin() {
	h := &LoginHandler{
		IdentityService: r.IdentityService,
		Connect:         r.connect,
		Signer:          r.signer,
		BaseURL:         r.baseURL,
	}

	// Both legs are unauthenticated by nature; strict limit deters abuse
	// of the OAuth round-trip.
	r.Mux.Handle("GET /login",
		httpx.Chain(http.HandlerFunc(h.HandleStart),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("GET /login/ok",
		httpx.Chain(http.HandlerFunc(h.HandleCallback),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
}

func (r *Router) registerUsers() {
	apiHandler := &CurrentUserHandler{UserService: r.UserService}
	adminHandler := &AdminUsersHandler{UserService: r.UserService}

	// GET /v1/users - API token auth handled in the handler itself (the
	// token is an opaque store lookup, not a JWT).
	r.Mux.Handle("GET /v1/users",
		httpx.Chain(apiHandler,
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)

	// GET /v1/admin/users - session auth + admin group
	r.Mux.Handle("GET /v1/admin/users",
		httpx.Chain(adminHandler,
			httpx.AuthnMiddleware(r.signer),
			httpx.RequireGroup("admin"),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /status",
		httpx.Chain(StatusHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.store),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)
}
