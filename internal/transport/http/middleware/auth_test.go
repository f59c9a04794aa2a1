package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/orderdesk/orderdesk/internal/config"
	"github.com/orderdesk/orderdesk/internal/token"
)

func newTestGate(t *testing.T, ttl time.Duration) (*TokenGate, *token.Service) {
	t.Helper()
	tokens, err := token.NewService(config.Config{
		Auth: config.Auth{
			TokenSigningSecret: "test-secret",
			TokenIssuer:        "orderdesk",
			TokenTTL:           ttl,
		},
	})
	require.NoError(t, err)
	return NewTokenGate(tokens, zap.NewNop()), tokens
}

func serve(gate *TokenGate, authHeader string) (*httptest.ResponseRecorder, bool) {
	e := echo.New()
	reached := false
	e.GET("/api/orders", func(c echo.Context) error {
		reached = true
		return c.NoContent(http.StatusOK)
	}, gate.Require())

	req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
	if authHeader != "" {
		req.Header.Set(echo.HeaderAuthorization, authHeader)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec, reached
}

func TestRequire_MissingHeader(t *testing.T) {
	gate, _ := newTestGate(t, time.Hour)

	rec, reached := serve(gate, "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.False(t, reached)
}

func TestRequire_GarbageToken(t *testing.T) {
	gate, _ := newTestGate(t, time.Hour)

	rec, reached := serve(gate, "not-a-token")
	require.Equal(t, http.StatusForbidden, rec.Code)
	require.False(t, reached)
}

func TestRequire_ExpiredToken(t *testing.T) {
	gate, _ := newTestGate(t, time.Hour)

	claims := token.Claims{
		LoginID: "LRN000000001",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "orderdesk",
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	rec, reached := serve(gate, signed)
	require.Equal(t, http.StatusForbidden, rec.Code)
	require.False(t, reached)
}

func TestRequire_ValidToken(t *testing.T) {
	gate, tokens := newTestGate(t, time.Hour)

	signed, err := tokens.Issue("LRN000000001")
	require.NoError(t, err)

	rec, reached := serve(gate, signed)
	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, reached)
}

func TestRequire_BearerPrefixAccepted(t *testing.T) {
	gate, tokens := newTestGate(t, time.Hour)

	signed, err := tokens.Issue("LRN000000001")
	require.NoError(t, err)

	rec, reached := serve(gate, "Bearer "+signed)
	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, reached)
}

func TestRequire_ClaimsAttachedToContext(t *testing.T) {
	gate, tokens := newTestGate(t, time.Hour)

	signed, err := tokens.Issue("LRN000000001")
	require.NoError(t, err)

	e := echo.New()
	var got *token.Claims
	e.GET("/api/orders", func(c echo.Context) error {
		got, _ = c.Get(ClaimsContextKey).(*token.Claims)
		return c.NoContent(http.StatusOK)
	}, gate.Require())

	req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
	req.Header.Set(echo.HeaderAuthorization, signed)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, got)
	require.Equal(t, "LRN000000001", got.LoginID)
}
