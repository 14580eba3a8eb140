package store

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/sendinvoices/sendinvoices/internal/invoicing/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")

	// ErrConflict reports that a conditional update found the row in a
	// different state than required (e.g. marking paid an invoice that is
	// no longer unpaid).
	ErrConflict = errors.New("store: conflict")
)

// Store is the root data access interface. Concrete drivers (sqlite for now)
// implement this. It exposes sub-repositories to keep concerns tidy and
// testable.
type Store interface {
	Users() Users
	Invoices() Invoices

	ApplyMigrations() error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

type Users interface {
	// GetUserByID returns a user by id.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByMerchantID returns the user owning the given processor
	// merchant account. Used by the identity bridge on every login.
	GetUserByMerchantID(ctx context.Context, merchantID string) (domain.User, error)

	// GetUserByAPIToken authenticates inbound API calls.
	GetUserByAPIToken(ctx context.Context, token string) (domain.User, error)

	// CreateUser inserts a new user (id and api token derived by the app).
	// Returns ErrAlreadyExists when the merchant id or api token is taken.
	CreateUser(ctx context.Context, u domain.User) error

	// UpdateOAuthTokens overwrites the stored processor tokens and bumps
	// updated_at. Callers pass the final values; the identity bridge is
	// responsible for not clobbering stored tokens with empty ones.
	UpdateOAuthTokens(ctx context.Context, userID, accessToken, refreshToken string) error

	// ListUsers returns all users, newest first.
	ListUsers(ctx context.Context) ([]domain.User, error)
}

type Invoices interface {
	// GetInvoiceByID returns an invoice by id.
	GetInvoiceByID(ctx context.Context, id string) (domain.Invoice, error)

	// CreateInvoice inserts a new unpaid invoice.
	CreateInvoice(ctx context.Context, inv domain.Invoice) error

	// MarkInvoicePaid performs the unpaid->paid transition as a single
	// conditional update: it only succeeds if the stored status is still
	// unpaid at write time, otherwise it returns ErrConflict. This is what
	// keeps two concurrent payment attempts from both committing.
	MarkInvoicePaid(ctx context.Context, invoiceID string, charge json.RawMessage) error

	// ListInvoicesByUser returns a user's invoices, newest first.
	ListInvoicesByUser(ctx context.Context, userID string) ([]domain.Invoice, error)
}
