package user

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"

	"github.com/orderdesk/orderdesk/internal/database"
	"github.com/orderdesk/orderdesk/internal/entity"
)

func newMockRepo(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	bdb := bun.NewDB(db, pgdialect.New())
	return NewRepository(&database.Connections{Writer: bdb, Reader: bdb}), mock
}

func TestFindByLoginID_Found(t *testing.T) {
	repo, mock := newMockRepo(t)

	now := time.Now().UTC()
	mock.ExpectQuery(`SELECT .+ FROM "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "login_id", "secret_hash", "created_at", "updated_at"}).
			AddRow(int64(1), "LRN000000001", "$2a$10$hash", now, now))

	user, err := repo.FindByLoginID(context.Background(), "LRN000000001")
	require.NoError(t, err)
	require.Equal(t, int64(1), user.ID)
	require.Equal(t, "LRN000000001", user.LoginID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByLoginID_Absent(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`SELECT .+ FROM "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "login_id", "secret_hash", "created_at", "updated_at"}))

	_, err := repo.FindByLoginID(context.Background(), "LRN000000404")
	require.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_Persists(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`INSERT INTO "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(1)))

	now := time.Now().UTC()
	user := &entity.User{LoginID: "LRN000000001", SecretHash: "hash", CreatedAt: now, UpdatedAt: now}
	require.NoError(t, repo.Create(context.Background(), user))
	require.Equal(t, int64(1), user.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_DuplicateLoginID(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`INSERT INTO "users"`).
		WillReturnError(errors.New(`ERROR: duplicate key value violates unique constraint "users_login_id_key"`))

	now := time.Now().UTC()
	user := &entity.User{LoginID: "LRN000000001", SecretHash: "hash", CreatedAt: now, UpdatedAt: now}
	require.ErrorIs(t, repo.Create(context.Background(), user), ErrConflict)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_NilUser(t *testing.T) {
	repo, _ := newMockRepo(t)
	require.Error(t, repo.Create(context.Background(), nil))
}

func TestIsUniqueViolation(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"postgres message", errors.New(`duplicate key value violates unique constraint "users_login_id_key"`), true},
		{"mysql message", errors.New("Error 1062: Duplicate entry 'LRN000000001' for key 'login_id'"), true},
		{"sqlite message", errors.New("UNIQUE constraint failed: users.login_id"), true},
		{"unrelated", errors.New("connection reset"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, isUniqueViolation(tt.err))
		})
	}
}
