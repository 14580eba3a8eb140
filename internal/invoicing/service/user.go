package service

import (
	"context"
	"errors"

	"github.com/sendinvoices/sendinvoices/internal/invoicing/domain"
	"github.com/sendinvoices/sendinvoices/internal/invoicing/store"
)

var ErrUserNotFound = errors.New("user does not exist")

type UserService struct {
	Store store.Store
}

// GetUserByID fetches a user by id.
func (s *UserService) GetUserByID(ctx context.Context, userID string) (domain.User, error) {
	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return domain.User{}, ErrUserNotFound
	}
	return user, err
}

// GetUserByAPIToken authenticates an inbound API call by its bearer token.
func (s *UserService) GetUserByAPIToken(ctx context.Context, token string) (domain.User, error) {
	if token == "" {
		return domain.User{}, ErrUserNotFound
	}
	user, err := s.Store.Users().GetUserByAPIToken(ctx, token)
	if errors.Is(err, store.ErrNotFound) {
		return domain.User{}, ErrUserNotFound
	}
	return user, err
}

// ListUsers returns every user, newest first. Admin surface only.
func (s *UserService) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.Store.Users().ListUsers(ctx)
}
