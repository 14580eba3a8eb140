// Package jwtx mints and verifies the HMAC-signed session tokens handed out
// after a successful Connect login. Tokens are short-lived bearer credentials;
// the long-lived credential remains the user's API token.
package jwtx

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultSessionTTL is how long a session token stays valid unless
// configured otherwise.
const DefaultSessionTTL = 24 * time.Hour

var (
	// ErrInvalidToken reports a token that failed signature or claim
	// validation. Callers should not distinguish the cause.
	ErrInvalidToken = errors.New("jwtx: invalid token")
)

// Claims is the validated content of a session token.
type Claims struct {
	Subject   string // user id
	Group     string // user group at mint time
	Issuer    string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Verifier validates a raw token string into Claims.
type Verifier interface {
	Verify(raw string) (Claims, error)
}

// sessionClaims is the wire form of Claims.
type sessionClaims struct {
	jwt.RegisteredClaims

	Group string `json:"grp,omitempty"`
}

// SessionSigner mints and verifies HS256 session tokens.
type SessionSigner struct {
	Secret []byte
	Issuer string
	TTL    time.Duration // falls back to DefaultSessionTTL when zero
}

// Mint returns a signed session token for the given user.
func (s *SessionSigner) Mint(userID, group string) (string, error) {
	if len(s.Secret) == 0 {
		return "", errors.New("jwtx: signer has no secret")
	}

	ttl := s.TTL
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}

	now := time.Now().UTC()
	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    s.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Group: group,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.Secret)
	if err != nil {
		return "", fmt.Errorf("jwtx: failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a raw token. Expiry and issuer are enforced;
// any failure maps to ErrInvalidToken.
func (s *SessionSigner) Verify(raw string) (Claims, error) {
	parsed, err := jwt.ParseWithClaims(raw, &sessionClaims{},
		func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
			}
			return s.Secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.Issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !parsed.Valid {
		return Claims{}, ErrInvalidToken
	}

	sc, ok := parsed.Claims.(*sessionClaims)
	if !ok {
		return Claims{}, ErrInvalidToken
	}

	claims := Claims{
		Subject: sc.Subject,
		Group:   sc.Group,
		Issuer:  sc.Issuer,
	}
	if sc.IssuedAt != nil {
		claims.IssuedAt = sc.IssuedAt.Time
	}
	if sc.ExpiresAt != nil {
		claims.ExpiresAt = sc.ExpiresAt.Time
	}
	return claims, nil
}
