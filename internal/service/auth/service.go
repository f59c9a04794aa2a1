package auth

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/orderdesk/orderdesk/internal/config"
	"github.com/orderdesk/orderdesk/internal/entity"
	userrepo "github.com/orderdesk/orderdesk/internal/repository/user"
	"github.com/orderdesk/orderdesk/pkg/errorbank"
)

var serviceTracer = otel.Tracer("github.com/orderdesk/orderdesk/service/auth")

const (
	loginIDLength   = 12
	minSecretLength = 8
)

// invalidCredentials is deliberately identical for unknown login ids and
// wrong secrets so responses cannot be used to enumerate accounts.
const invalidCredentials = "Invalid credentials"

// UserRepository is the credential persistence surface the service needs.
type UserRepository interface {
	FindByLoginID(ctx context.Context, loginID string) (*entity.User, error)
	Create(ctx context.Context, user *entity.User) error
}

// TokenIssuer signs bearer tokens for authenticated users.
type TokenIssuer interface {
	Issue(loginID string) (string, error)
}

// Service implements registration and login on top of the credential store.
type Service struct {
	users      UserRepository
	tokens     TokenIssuer
	bcryptCost int
	logger     *zap.Logger
}

// NewService wires a new auth Service.
func NewService(users UserRepository, tokens TokenIssuer, cfg config.Config, logger *zap.Logger) *Service {
	cost := cfg.Auth.BcryptCost
	if cost < bcrypt.MinCost {
		cost = bcrypt.DefaultCost
	}
	return &Service{
		users:      users,
		tokens:     tokens,
		bcryptCost: cost,
		logger:     logger,
	}
}

// Register validates the credentials, hashes the secret, and persists a new
// user. Validation runs before any store call so a malformed request never
// reaches the database.
func (s *Service) Register(ctx context.Context, loginID, plainSecret string) error {
	ctx, span := serviceTracer.Start(ctx, "AuthService.Register", trace.WithAttributes(attribute.String("user.login_id", loginID)))
	defer span.End()

	if len(loginID) != loginIDLength {
		return errorbank.BadRequest("loginId must be exactly 12 characters")
	}
	if len(plainSecret) < minSecretLength {
		return errorbank.BadRequest("plainSecret must be at least 8 characters")
	}

	if _, err := s.users.FindByLoginID(ctx, loginID); err == nil {
		return errorbank.BadRequest("User already exists")
	} else if !errors.Is(err, userrepo.ErrNotFound) {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, "repository error")
		return errorbank.Internal("failed to register user", errorbank.WithCause(err))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(plainSecret), s.bcryptCost)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, "hash error")
		return errorbank.Internal("failed to hash secret", errorbank.WithCause(err))
	}

	now := time.Now().UTC()
	user := &entity.User{
		LoginID:    loginID,
		SecretHash: string(hash),
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		// The unique index backstops the pre-lookup under concurrent
		// registrations.
		if errors.Is(err, userrepo.ErrConflict) {
			return errorbank.BadRequest("User already exists")
		}
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, "repository error")
		return errorbank.Internal("failed to register user", errorbank.WithCause(err))
	}

	s.logger.Info("user registered", zap.String("login_id", loginID))
	return nil
}

// Login verifies the credentials and returns a signed bearer token. Unknown
// login ids and wrong secrets produce indistinguishable errors.
func (s *Service) Login(ctx context.Context, loginID, plainSecret string) (string, error) {
	ctx, span := serviceTracer.Start(ctx, "AuthService.Login", trace.WithAttributes(attribute.String("user.login_id", loginID)))
	defer span.End()

	user, err := s.users.FindByLoginID(ctx, loginID)
	if err != nil {
		if errors.Is(err, userrepo.ErrNotFound) {
			return "", errorbank.Unauthorized(invalidCredentials)
		}
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, "repository error")
		return "", errorbank.Internal("failed to look up user", errorbank.WithCause(err))
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.SecretHash), []byte(plainSecret)); err != nil {
		return "", errorbank.Unauthorized(invalidCredentials)
	}

	signed, err := s.tokens.Issue(user.LoginID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, "token error")
		return "", errorbank.Internal("failed to issue token", errorbank.WithCause(err))
	}

	s.logger.Info("user logged in", zap.String("login_id", loginID))
	return signed, nil
}
