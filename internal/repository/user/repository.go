package user

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/driver/pgdriver"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/orderdesk/orderdesk/internal/database"
	"github.com/orderdesk/orderdesk/internal/entity"
)

var repoTracer = otel.Tracer("github.com/orderdesk/orderdesk/repository/user")

// ErrNotFound is returned when no user matches the login id.
var ErrNotFound = errors.New("user not found")

// ErrConflict is returned when the login id is already taken. Uniqueness is
// enforced by the database index; this sentinel surfaces the violation.
var ErrConflict = errors.New("login id already exists")

// Repository encapsulates persistence for user credentials.
type Repository struct {
	writer *bun.DB
	reader *bun.DB
}

// NewRepository wires a repository backed by configured database connections.
func NewRepository(conns *database.Connections) *Repository {
	return &Repository{
		writer: conns.Writer,
		reader: conns.Reader,
	}
}

// Create persists a new user record. A unique-constraint violation on
// login_id maps to ErrConflict.
func (r *Repository) Create(ctx context.Context, user *entity.User) error {
	if user == nil {
		return errors.New("nil user")
	}
	ctx, span := repoTracer.Start(ctx, "UserRepository.Create", trace.WithAttributes(attribute.String("user.login_id", user.LoginID)))
	defer span.End()

	_, err := r.writer.NewInsert().Model(user).Exec(ctx)
	if err != nil {
		if isUniqueViolation(err) {
			span.SetStatus(codes.Error, "conflict")
			return ErrConflict
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "insert failed")
		return err
	}
	return nil
}

// FindByLoginID fetches a user by login id. Absence is reported as
// ErrNotFound; callers decide whether that is an error.
func (r *Repository) FindByLoginID(ctx context.Context, loginID string) (*entity.User, error) {
	ctx, span := repoTracer.Start(ctx, "UserRepository.FindByLoginID", trace.WithAttributes(attribute.String("user.login_id", loginID)))
	defer span.End()

	user := new(entity.User)
	err := r.reader.NewSelect().Model(user).Where("login_id = ?", loginID).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		span.SetStatus(codes.Error, "not found")
		return nil, ErrNotFound
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "select failed")
		return nil, err
	}
	return user, nil
}

// isUniqueViolation detects duplicate-key errors across the supported
// drivers: SQLSTATE 23505 for postgres, error 1062 for mysql, and the
// sqlite constraint message.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}

	var pgErr pgdriver.Error
	if errors.As(err, &pgErr) {
		return pgErr.Field('C') == "23505"
	}

	msg := err.Error()
	return strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "Duplicate entry") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}
