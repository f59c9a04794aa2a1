package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/orderdesk/orderdesk/internal/presentation/http/response"
	"github.com/orderdesk/orderdesk/internal/token"
	"github.com/orderdesk/orderdesk/pkg/errorbank"
)

// ClaimsContextKey is where verified token claims are stored on the echo
// context for downstream handlers.
const ClaimsContextKey = "auth.claims"

// TokenGate rejects requests that do not carry a verifiable bearer token.
type TokenGate struct {
	tokens *token.Service
	logger *zap.Logger
}

// NewTokenGate constructs the auth middleware around the token service.
func NewTokenGate(tokens *token.Service, logger *zap.Logger) *TokenGate {
	return &TokenGate{tokens: tokens, logger: logger}
}

// Require returns middleware enforcing token auth on a route group.
// An absent Authorization header short-circuits with 401; a header that
// fails verification short-circuits with 403. The raw signed token is
// accepted directly; a "Bearer " prefix is tolerated and stripped.
func (g *TokenGate) Require() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := strings.TrimSpace(c.Request().Header.Get(echo.HeaderAuthorization))
			if header == "" {
				return response.New(c).
					WithError(errorbank.Unauthorized("missing authorization token")).
					Build()
			}

			raw := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
			claims, err := g.tokens.Verify(raw)
			if err != nil {
				g.logger.Warn("token rejected", zap.Error(err))
				return response.New(c).
					WithError(errorbank.Forbidden("invalid or expired token")).
					Build()
			}

			c.Set(ClaimsContextKey, claims)
			return next(c)
		}
	}
}
