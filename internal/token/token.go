package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/orderdesk/orderdesk/internal/config"
)

// ErrInvalidToken covers malformed, tampered, and expired tokens alike.
var ErrInvalidToken = errors.New("invalid token")

// Claims is the claim set carried by issued tokens.
type Claims struct {
	LoginID string `json:"loginId"`
	jwt.RegisteredClaims
}

// Service issues and verifies HMAC-SHA256 signed bearer tokens. Tokens are
// stateless; nothing is persisted and issued tokens cannot be revoked
// before they expire.
type Service struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

// NewService builds a token service from the auth configuration.
func NewService(cfg config.Config) (*Service, error) {
	if cfg.Auth.TokenSigningSecret == "" {
		return nil, errors.New("token signing secret is required")
	}

	ttl := cfg.Auth.TokenTTL
	if ttl <= 0 {
		ttl = time.Hour
	}

	return &Service{
		secret: []byte(cfg.Auth.TokenSigningSecret),
		issuer: cfg.Auth.TokenIssuer,
		ttl:    ttl,
	}, nil
}

// Issue signs a token carrying the login id, valid for the configured TTL.
func (s *Service) Issue(loginID string) (string, error) {
	if loginID == "" {
		return "", errors.New("login id is required")
	}

	now := time.Now()
	claims := Claims{
		LoginID: loginID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks signature, structure, and expiry, returning the embedded
// claims on success. Every failure mode collapses into ErrInvalidToken so
// callers cannot accidentally leak why a token was rejected.
func (s *Service) Verify(tokenString string) (*Claims, error) {
	claims := new(Claims)
	parsed, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !parsed.Valid || claims.LoginID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
