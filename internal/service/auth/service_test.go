package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/orderdesk/orderdesk/internal/config"
	"github.com/orderdesk/orderdesk/internal/entity"
	userrepo "github.com/orderdesk/orderdesk/internal/repository/user"
	"github.com/orderdesk/orderdesk/internal/token"
	"github.com/orderdesk/orderdesk/pkg/errorbank"
)

type fakeUserRepo struct {
	users     map[string]*entity.User
	findErr   error
	createErr error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*entity.User)}
}

func (f *fakeUserRepo) FindByLoginID(_ context.Context, loginID string) (*entity.User, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	user, ok := f.users[loginID]
	if !ok {
		return nil, userrepo.ErrNotFound
	}
	return user, nil
}

func (f *fakeUserRepo) Create(_ context.Context, user *entity.User) error {
	if f.createErr != nil {
		return f.createErr
	}
	if _, ok := f.users[user.LoginID]; ok {
		return userrepo.ErrConflict
	}
	user.ID = int64(len(f.users) + 1)
	f.users[user.LoginID] = user
	return nil
}

func testConfig() config.Config {
	return config.Config{
		Auth: config.Auth{
			TokenSigningSecret: "test-secret",
			TokenIssuer:        "orderdesk",
			TokenTTL:           time.Hour,
			BcryptCost:         bcrypt.MinCost,
		},
	}
}

func newTestService(t *testing.T, repo UserRepository) (*Service, *token.Service) {
	t.Helper()
	cfg := testConfig()
	tokens, err := token.NewService(cfg)
	require.NoError(t, err)
	return NewService(repo, tokens, cfg, zap.NewNop()), tokens
}

func TestRegister_Validation(t *testing.T) {
	repo := newFakeUserRepo()
	svc, _ := newTestService(t, repo)

	tests := []struct {
		name        string
		loginID     string
		plainSecret string
		wantMsg     string
	}{
		{"login id too short", "SHORT", "password123", "loginId must be exactly 12 characters"},
		{"login id too long", "LRN0000000012345", "password123", "loginId must be exactly 12 characters"},
		{"secret too short", "LRN000000001", "short", "plainSecret must be at least 8 characters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.Register(context.Background(), tt.loginID, tt.plainSecret)
			require.Error(t, err)
			appErr := errorbank.From(err)
			require.Equal(t, errorbank.KindBadRequest, appErr.Kind())
			require.Equal(t, tt.wantMsg, appErr.Message())
			require.Empty(t, repo.users)
		})
	}
}

func TestRegister_HashesSecret(t *testing.T) {
	repo := newFakeUserRepo()
	svc, _ := newTestService(t, repo)

	err := svc.Register(context.Background(), "LRN000000001", "password123")
	require.NoError(t, err)

	stored := repo.users["LRN000000001"]
	require.NotNil(t, stored)
	require.NotEqual(t, "password123", stored.SecretHash)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.SecretHash), []byte("password123")))
	require.False(t, stored.CreatedAt.IsZero())
}

func TestRegister_Duplicate(t *testing.T) {
	repo := newFakeUserRepo()
	svc, _ := newTestService(t, repo)

	require.NoError(t, svc.Register(context.Background(), "LRN000000001", "password123"))

	err := svc.Register(context.Background(), "LRN000000001", "password123")
	require.Error(t, err)
	appErr := errorbank.From(err)
	require.Equal(t, errorbank.KindBadRequest, appErr.Kind())
	require.Equal(t, "User already exists", appErr.Message())
}

func TestRegister_ConflictFromStore(t *testing.T) {
	// Concurrent registration slips past the pre-lookup and trips the
	// unique index instead; still a 400, not a 500.
	repo := newFakeUserRepo()
	svc, _ := newTestService(t, repo)
	repo.createErr = userrepo.ErrConflict

	err := svc.Register(context.Background(), "LRN000000001", "password123")
	require.Error(t, err)
	require.Equal(t, errorbank.KindBadRequest, errorbank.From(err).Kind())
}

func TestRegister_StoreFailure(t *testing.T) {
	repo := newFakeUserRepo()
	svc, _ := newTestService(t, repo)
	repo.findErr = errors.New("connection reset")

	err := svc.Register(context.Background(), "LRN000000001", "password123")
	require.Error(t, err)
	require.Equal(t, errorbank.KindInternal, errorbank.From(err).Kind())
}

func TestLogin_Success(t *testing.T) {
	repo := newFakeUserRepo()
	svc, tokens := newTestService(t, repo)
	require.NoError(t, svc.Register(context.Background(), "LRN000000001", "password123"))

	signed, err := svc.Login(context.Background(), "LRN000000001", "password123")
	require.NoError(t, err)

	claims, err := tokens.Verify(signed)
	require.NoError(t, err)
	require.Equal(t, "LRN000000001", claims.LoginID)
}

func TestLogin_NoEnumerationLeak(t *testing.T) {
	repo := newFakeUserRepo()
	svc, _ := newTestService(t, repo)
	require.NoError(t, svc.Register(context.Background(), "LRN000000001", "password123"))

	_, wrongSecretErr := svc.Login(context.Background(), "LRN000000001", "wrong-password")
	_, unknownUserErr := svc.Login(context.Background(), "LRN000000999", "password123")

	require.Error(t, wrongSecretErr)
	require.Error(t, unknownUserErr)

	wrong := errorbank.From(wrongSecretErr)
	unknown := errorbank.From(unknownUserErr)
	require.Equal(t, errorbank.KindUnauthorized, wrong.Kind())
	require.Equal(t, errorbank.KindUnauthorized, unknown.Kind())
	require.Equal(t, wrong.Message(), unknown.Message())
}

func TestLogin_StoreFailure(t *testing.T) {
	repo := newFakeUserRepo()
	svc, _ := newTestService(t, repo)
	repo.findErr = errors.New("connection reset")

	_, err := svc.Login(context.Background(), "LRN000000001", "password123")
	require.Error(t, err)
	require.Equal(t, errorbank.KindInternal, errorbank.From(err).Kind())
}
