package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/sendinvoices/sendinvoices/internal/invoicing/service"
	"github.com/sendinvoices/sendinvoices/pkg/httpx"
	"github.com/sendinvoices/sendinvoices/pkg/invoicesdk"
	"github.com/sendinvoices/sendinvoices/pkg/slogx"
)

type CurrentUserHandler struct {
	UserService *service.UserService
}

// ServeHTTP returns the merchant account behind a Bearer API token.
//
//	@Summary		Look up the current user
//	@Description	Authenticates with the long-lived API token issued at first login.
//	@Tags			Users
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	invoicesdk.UserResponse		"The merchant account"
//	@Failure		401	{object}	invoicesdk.ErrorResponse	"Missing bearer token"
//	@Failure		404	{object}	invoicesdk.ErrorResponse	"User does not exist"
//	@Router			/v1/users [get].
func (h *CurrentUserHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok || strings.TrimSpace(token) == "" {
		invoicesdk.ErrUnauthorized.WriteError(w)
		return
	}

	user, err := h.UserService.GetUserByAPIToken(ctx, strings.TrimSpace(token))
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			invoicesdk.ErrUserNotFound.WriteError(w)
			return
		}
		log.Warn("api token lookup failed", "err", err)
		invoicesdk.ErrServerError.WriteError(w)
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, toUserResponse(user))
}

type AdminUsersHandler struct {
	UserService *service.UserService
}

// ServeHTTP lists every merchant account. Admin only.
//
//	@Summary		List all users
//	@Tags			Admin
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	invoicesdk.UserListResponse	"All merchant accounts"
//	@Failure		401	{object}	invoicesdk.ErrorResponse	"Missing or invalid session"
//	@Failure		403	{object}	invoicesdk.ErrorResponse	"Not an admin"
//	@Failure		500	{object}	invoicesdk.ErrorResponse	"Internal server error"
//	@Router			/v1/admin/users [get].
func (h *AdminUsersHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	users, err := h.UserService.ListUsers(ctx)
	if err != nil {
		log.Warn("failed to list users", "err", err)
		invoicesdk.ErrServerError.WriteError(w)
		return
	}

	out := invoicesdk.UserListResponse{
		Users: make([]invoicesdk.UserResponse, 0, len(users)),
	}
	for _, u := range users {
		out.Users = append(out.Users, toUserResponse(u))
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, out)
}
