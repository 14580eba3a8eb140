package service

import (
	"context"
	"errors"
	"strings"

	"github.com/sendinvoices/sendinvoices/internal/invoicing/domain"
	"github.com/sendinvoices/sendinvoices/internal/invoicing/store"
	"github.com/sendinvoices/sendinvoices/pkg/slogx"
)

var ErrInvalidMerchantID = errors.New("merchant id is required")

// IdentityService bridges the payment processor's identity to local users.
// It is the sole write path for processor OAuth tokens.
type IdentityService struct {
	Store store.Store
}

// ResolveOrCreateUser finds the user owning merchantID, creating one on
// first login. Supplied tokens overwrite stored values; empty tokens leave
// stored values untouched. The call is idempotent with respect to
// merchantID: the unique index in the store guarantees a single user per
// merchant even under concurrent first logins.
func (s *IdentityService) ResolveOrCreateUser(
	ctx context.Context,
	merchantID string,
	accessToken string,
	refreshToken string,
) (domain.User, error) {
	log := slogx.FromContext(ctx)

	merchantID = strings.TrimSpace(merchantID)
	if merchantID == "" {
		return domain.User{}, ErrInvalidMerchantID
	}

	user, err := s.Store.Users().GetUserByMerchantID(ctx, merchantID)
	switch {
	case errors.Is(err, store.ErrNotFound):
		user = domain.NewUser(merchantID)
		if createErr := s.Store.Users().CreateUser(ctx, user); createErr != nil {
			if !errors.Is(createErr, store.ErrAlreadyExists) {
				return domain.User{}, createErr
			}
			// Lost a concurrent first-login race; the other request's
			// record wins.
			user, err = s.Store.Users().GetUserByMerchantID(ctx, merchantID)
			if err != nil {
				return domain.User{}, err
			}
		} else {
			log.Info("user created for merchant", "user_id", user.ID, "merchant_id", merchantID)
		}
	case err != nil:
		return domain.User{}, err
	}

	// Merge tokens: only supplied values overwrite.
	access := user.AccessToken
	if accessToken != "" {
		access = accessToken
	}
	refresh := user.RefreshToken
	if refreshToken != "" {
		refresh = refreshToken
	}

	if access != user.AccessToken || refresh != user.RefreshToken {
		if err := s.Store.Users().UpdateOAuthTokens(ctx, user.ID, access, refresh); err != nil {
			return domain.User{}, err
		}
		user.AccessToken = access
		user.RefreshToken = refresh
	}

	return user, nil
}
