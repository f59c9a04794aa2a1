package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/orderdesk/orderdesk/internal/config"
)

func newTestConfig(secret string, ttl time.Duration) config.Config {
	return config.Config{
		Auth: config.Auth{
			TokenSigningSecret: secret,
			TokenIssuer:        "orderdesk",
			TokenTTL:           ttl,
		},
	}
}

func TestNewService_RequiresSecret(t *testing.T) {
	_, err := NewService(newTestConfig("", time.Hour))
	require.Error(t, err)
}

func TestIssueVerify_RoundTrip(t *testing.T) {
	svc, err := NewService(newTestConfig("test-secret", time.Hour))
	require.NoError(t, err)

	signed, err := svc.Issue("LRN000000001")
	require.NoError(t, err)
	require.NotEmpty(t, signed)

	claims, err := svc.Verify(signed)
	require.NoError(t, err)
	require.Equal(t, "LRN000000001", claims.LoginID)
	require.Equal(t, "orderdesk", claims.Issuer)

	remaining := time.Until(claims.ExpiresAt.Time)
	require.Greater(t, remaining, 59*time.Minute)
	require.LessOrEqual(t, remaining, time.Hour)
}

func TestIssue_EmptyLoginID(t *testing.T) {
	svc, err := NewService(newTestConfig("test-secret", time.Hour))
	require.NoError(t, err)

	_, err = svc.Issue("")
	require.Error(t, err)
}

func TestVerify_ExpiredToken(t *testing.T) {
	svc, err := NewService(newTestConfig("test-secret", time.Hour))
	require.NoError(t, err)
	// Same secret, but every token it issues is already past its expiry.
	expired := &Service{secret: svc.secret, issuer: svc.issuer, ttl: -time.Minute}

	signed, err := expired.Issue("LRN000000001")
	require.NoError(t, err)

	_, err = svc.Verify(signed)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_WrongSecret(t *testing.T) {
	issuer, err := NewService(newTestConfig("secret-a", time.Hour))
	require.NoError(t, err)
	verifier, err := NewService(newTestConfig("secret-b", time.Hour))
	require.NoError(t, err)

	signed, err := issuer.Issue("LRN000000001")
	require.NoError(t, err)

	_, err = verifier.Verify(signed)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_Garbage(t *testing.T) {
	svc, err := NewService(newTestConfig("test-secret", time.Hour))
	require.NoError(t, err)

	for _, raw := range []string{"", "garbage", "a.b.c"} {
		_, err := svc.Verify(raw)
		require.ErrorIs(t, err, ErrInvalidToken)
	}
}
