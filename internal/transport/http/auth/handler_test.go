package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/orderdesk/orderdesk/pkg/errorbank"
)

type stubService struct {
	registerErr error
	loginToken  string
	loginErr    error

	gotLoginID string
	gotSecret  string
}

func (s *stubService) Register(_ context.Context, loginID, plainSecret string) error {
	s.gotLoginID = loginID
	s.gotSecret = plainSecret
	return s.registerErr
}

func (s *stubService) Login(_ context.Context, loginID, plainSecret string) (string, error) {
	s.gotLoginID = loginID
	s.gotSecret = plainSecret
	return s.loginToken, s.loginErr
}

type envelope struct {
	Success bool `json:"success"`
	Data    struct {
		Token   string `json:"token"`
		Message string `json:"message"`
	} `json:"data"`
	Error struct {
		Kind    string `json:"kind"`
		Message string `json:"message"`
	} `json:"error"`
}

func request(svc Service, method, path, body string) *httptest.ResponseRecorder {
	e := echo.New()
	Register(e, NewHandler(svc))

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func TestRegister_Created(t *testing.T) {
	svc := &stubService{}

	rec := request(svc, http.MethodPost, "/api/register", `{"loginId":"LRN000000001","plainSecret":"password123"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	env := decode(t, rec)
	require.True(t, env.Success)
	require.Equal(t, "User registered", env.Data.Message)
	require.Equal(t, "LRN000000001", svc.gotLoginID)
	require.Equal(t, "password123", svc.gotSecret)
}

func TestRegister_Duplicate(t *testing.T) {
	svc := &stubService{registerErr: errorbank.BadRequest("User already exists")}

	rec := request(svc, http.MethodPost, "/api/register", `{"loginId":"LRN000000001","plainSecret":"password123"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	env := decode(t, rec)
	require.False(t, env.Success)
	require.Equal(t, "User already exists", env.Error.Message)
}

func TestRegister_StoreFailure(t *testing.T) {
	svc := &stubService{registerErr: errorbank.Internal("failed to register user")}

	rec := request(svc, http.MethodPost, "/api/register", `{"loginId":"LRN000000001","plainSecret":"password123"}`)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestLogin_ReturnsToken(t *testing.T) {
	svc := &stubService{loginToken: "signed-token"}

	rec := request(svc, http.MethodPost, "/api/login", `{"loginId":"LRN000000001","plainSecret":"password123"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	env := decode(t, rec)
	require.True(t, env.Success)
	require.Equal(t, "signed-token", env.Data.Token)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	svc := &stubService{loginErr: errorbank.Unauthorized("Invalid credentials")}

	rec := request(svc, http.MethodPost, "/api/login", `{"loginId":"LRN000000001","plainSecret":"wrong"}`)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	env := decode(t, rec)
	require.False(t, env.Success)
	require.Equal(t, "Invalid credentials", env.Error.Message)
}
