package cryptox

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"math/big"
)

// APITokenLength is the length of user API tokens. Tokens are lowercase
// alphanumeric so they survive case-folding proxies and copy/paste.
const APITokenLength = 24

const apiTokenAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// GenerateToken creates a cryptographically secure random token of the
// specified byte length, returned base64url-encoded without padding.
// Used for one-shot values like OAuth state parameters.
func GenerateToken(size int) (string, error) {
	if size <= 0 {
		return "", fmt.Errorf("token size must be positive, got %d", size)
	}

	buf := make([]byte, size)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate random token: %w", err)
	}

	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// MustGenerateToken is like GenerateToken but panics on error.
// Use this only in contexts where failure is unrecoverable.
func MustGenerateToken(size int) string {
	token, err := GenerateToken(size)
	if err != nil {
		panic(fmt.Sprintf("cryptox: failed to generate token: %v", err))
	}
	return token
}

// GenerateAPIToken returns a random lowercase alphanumeric credential of n
// characters, suitable for long-lived inbound API tokens.
func GenerateAPIToken(n int) (string, error) {
	if n <= 0 {
		return "", fmt.Errorf("token length must be positive, got %d", n)
	}

	out := make([]byte, n)
	max := big.NewInt(int64(len(apiTokenAlphabet)))
	for i := range out {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to generate api token: %w", err)
		}
		out[i] = apiTokenAlphabet[idx.Int64()]
	}

	return string(out), nil
}

// MustGenerateAPIToken is like GenerateAPIToken but panics on error.
func MustGenerateAPIToken(n int) string {
	token, err := GenerateAPIToken(n)
	if err != nil {
		panic(fmt.Sprintf("cryptox: failed to generate api token: %v", err))
	}
	return token
}

// GenerateNumericReference returns a random string of n decimal digits.
// Leading zeros are permitted and the result is not guaranteed unique.
func GenerateNumericReference(n int) (string, error) {
	if n <= 0 {
		return "", fmt.Errorf("reference length must be positive, got %d", n)
	}

	out := make([]byte, n)
	ten := big.NewInt(10)
	for i := range out {
		d, err := rand.Int(rand.Reader, ten)
		if err != nil {
			return "", fmt.Errorf("failed to generate reference: %w", err)
		}
		out[i] = byte('0' + d.Int64())
	}

	return string(out), nil
}

// MustGenerateNumericReference is like GenerateNumericReference but panics on
// error.
func MustGenerateNumericReference(n int) string {
	ref, err := GenerateNumericReference(n)
	if err != nil {
		panic(fmt.Sprintf("cryptox: failed to generate reference: %v", err))
	}
	return ref
}
