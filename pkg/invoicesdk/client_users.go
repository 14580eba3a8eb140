package invoicesdk

import (
	"context"
	"net/http"
)

// CurrentUser looks up the merchant account behind an API token.
// Returns *APIError with code "user_not_found" when the token matches nothing.
func (c *SDKClient) CurrentUser(ctx context.Context, apiToken string) (*UserResponse, error) {
	var user UserResponse
	if err := c.doJSON(ctx, http.MethodGet, "/v1/users", apiToken, nil, &user, http.StatusOK); err != nil {
		return nil, err
	}
	return &user, nil
}

// ListUsers lists every merchant account. Requires an admin session token.
func (c *SDKClient) ListUsers(ctx context.Context, sessionToken string) ([]UserResponse, error) {
	var out UserListResponse
	if err := c.doJSON(ctx, http.MethodGet, "/v1/admin/users", sessionToken, nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return out.Users, nil
}
