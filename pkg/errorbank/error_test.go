package errorbank

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
)

func TestStatusCode(t *testing.T) {
	tests := []struct {
		kind Kind
		want int
	}{
		{KindBadRequest, http.StatusBadRequest},
		{KindUnauthorized, http.StatusUnauthorized},
		{KindForbidden, http.StatusForbidden},
		{KindConflict, http.StatusConflict},
		{KindNotFound, http.StatusNotFound},
		{KindUnprocessableEntity, http.StatusUnprocessableEntity},
		{KindInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			require.Equal(t, tt.want, New(tt.kind, "boom").StatusCode())
		})
	}
}

func TestGRPCCode(t *testing.T) {
	require.Equal(t, codes.Unauthenticated, Unauthorized("no token").GRPCCode())
	require.Equal(t, codes.PermissionDenied, Forbidden("bad token").GRPCCode())
	require.Equal(t, codes.NotFound, NotFound("missing").GRPCCode())
	require.Equal(t, codes.Internal, Internal("boom").GRPCCode())
}

func TestFrom(t *testing.T) {
	require.Nil(t, From(nil))

	appErr := BadRequest("nope")
	require.Same(t, appErr, From(appErr))

	cause := errors.New("disk full")
	wrapped := From(cause)
	require.Equal(t, KindInternal, wrapped.Kind())
	require.ErrorIs(t, wrapped, cause)
}

func TestWithCauseAndDetails(t *testing.T) {
	cause := errors.New("row missing")
	err := NotFound("order not found", WithCause(cause), WithDetail("id", 42))

	require.ErrorIs(t, err, cause)
	require.Equal(t, map[string]any{"id": 42}, err.Details())
	require.Contains(t, err.Error(), "order not found")
	require.Contains(t, err.Error(), "row missing")
}
