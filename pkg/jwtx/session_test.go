package jwtx

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSessionSignerRoundTrip(t *testing.T) {
	t.Parallel()

	signer := &SessionSigner{
		Secret: []byte("test-secret"),
		Issuer: "sendinvoices",
	}

	token, err := signer.Mint("01J0USER", "user")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := signer.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "01J0USER", claims.Subject)
	require.Equal(t, "user", claims.Group)
	require.Equal(t, "sendinvoices", claims.Issuer)
	require.WithinDuration(t, time.Now().Add(DefaultSessionTTL), claims.ExpiresAt, time.Minute)
}

func TestSessionSignerRejectsBadTokens(t *testing.T) {
	t.Parallel()

	signer := &SessionSigner{Secret: []byte("test-secret"), Issuer: "sendinvoices"}

	t.Run("garbage input", func(t *testing.T) {
		_, err := signer.Verify("not.a.token")
		require.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := &SessionSigner{Secret: []byte("other-secret"), Issuer: "sendinvoices"}
		token, err := other.Mint("01J0USER", "user")
		require.NoError(t, err)

		_, err = signer.Verify(token)
		require.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		other := &SessionSigner{Secret: []byte("test-secret"), Issuer: "someone-else"}
		token, err := other.Mint("01J0USER", "user")
		require.NoError(t, err)

		_, err = signer.Verify(token)
		require.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired token", func(t *testing.T) {
		expired := &SessionSigner{
			Secret: []byte("test-secret"),
			Issuer: "sendinvoices",
			TTL:    -time.Minute,
		}
		token, err := expired.Mint("01J0USER", "user")
		require.NoError(t, err)

		_, err = signer.Verify(token)
		require.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestSessionSignerRequiresSecret(t *testing.T) {
	t.Parallel()

	signer := &SessionSigner{Issuer: "sendinvoices"}
	_, err := signer.Mint("01J0USER", "user")
	require.Error(t, err)
}

func TestAdminGroupSurvivesRoundTrip(t *testing.T) {
	t.Parallel()

	signer := &SessionSigner{Secret: []byte("test-secret"), Issuer: "sendinvoices"}

	token, err := signer.Mint("01J0ADMIN", "admin")
	require.NoError(t, err)

	claims, err := signer.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "admin", claims.Group)
}
