package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/sendinvoices/sendinvoices/internal/invoicing/domain"
	"github.com/sendinvoices/sendinvoices/internal/invoicing/store"
)

type usersRepo struct {
	db *sql.DB
}

const userColumns = `id, user_group, api_token, merchant_id, access_token, refresh_token, created_at, updated_at`

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	return scanUser(row)
}

func (r *usersRepo) GetUserByMerchantID(ctx context.Context, merchantID string) (domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE merchant_id = ?`, merchantID)
	return scanUser(row)
}

func (r *usersRepo) GetUserByAPIToken(ctx context.Context, token string) (domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE api_token = ?`, token)
	return scanUser(row)
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, user_group, api_token, merchant_id, access_token, refresh_token, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.Group, u.APIToken, u.MerchantID,
		mapStringNull(u.AccessToken), mapStringNull(u.RefreshToken),
		u.CreatedAt, u.UpdatedAt,
	)
	return mapUniqueViolation(err)
}

func (r *usersRepo) UpdateOAuthTokens(ctx context.Context, userID, accessToken, refreshToken string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET access_token = ?, refresh_token = ?, updated_at = ? WHERE id = ?`,
		mapStringNull(accessToken), mapStringNull(refreshToken), time.Now().UTC(), userID,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *usersRepo) ListUsers(ctx context.Context) ([]domain.User, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (domain.User, error) {
	var (
		u            domain.User
		accessToken  sql.NullString
		refreshToken sql.NullString
	)
	err := row.Scan(
		&u.ID, &u.Group, &u.APIToken, &u.MerchantID,
		&accessToken, &refreshToken,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	u.AccessToken = mapNullString(accessToken)
	u.RefreshToken = mapNullString(refreshToken)
	return u, nil
}

// mapUniqueViolation translates a sqlite unique constraint failure into
// store.ErrAlreadyExists so callers can handle upsert races portably.
func mapUniqueViolation(err error) error {
	if err == nil {
		return nil
	}
	if strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return store.ErrAlreadyExists
	}
	return err
}
