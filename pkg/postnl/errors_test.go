package postnl_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/parcelwatch/postnl/pkg/postnl"
)

func TestClientError_Error(t *testing.T) {
	err := postnl.NewClientError("login", "INVALID_CREDENTIALS", "provider rejected username/password")
	assert.Equal(t, "postnl login (INVALID_CREDENTIALS): provider rejected username/password", err.Error())
}

func TestClientError_ErrorWithCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := postnl.NewClientError("get_packages", "NETWORK", "inbox request failed").WithCause(cause)
	assert.Contains(t, err.Error(), "inbox request failed")
	assert.Contains(t, err.Error(), "connection refused")
}

func TestClientError_Unwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := postnl.NewClientError("get_packages", "NETWORK", "inbox request failed").WithCause(cause)
	assert.True(t, errors.Is(err, cause))
}

func TestClientError_Is(t *testing.T) {
	err1 := postnl.NewClientError("login", "INVALID_CREDENTIALS", "rejected")
	err2 := postnl.NewClientError("token", "INVALID_CREDENTIALS", "different message")

	// Same code should match
	assert.True(t, errors.Is(err1, err2))
}

func TestClientError_IsNot(t *testing.T) {
	err1 := postnl.NewClientError("login", "INVALID_CREDENTIALS", "rejected")
	err2 := postnl.NewClientError("login", "BLOCKED", "blocked")

	// Different codes should not match
	assert.False(t, errors.Is(err1, err2))
}

func TestClientError_WithStatusCode(t *testing.T) {
	err := postnl.NewClientError("get_packages", "UNAUTHORIZED", "session rejected").WithStatusCode(401)
	assert.Equal(t, 401, err.StatusCode)
}

func TestClientError_SentinelCause(t *testing.T) {
	err := postnl.NewClientError("get_packages", "UNAUTHORIZED", "session rejected").
		WithCause(postnl.ErrUnauthorized)
	assert.True(t, errors.Is(err, postnl.ErrUnauthorized))
}

func TestIsAuthError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"invalid credentials", postnl.ErrInvalidCredentials, true},
		{"unauthorized", postnl.ErrUnauthorized, true},
		{"blocked", postnl.ErrBlocked, true},
		{"not logged in", postnl.ErrNotLoggedIn, true},
		{"decode", postnl.ErrDecode, false},
		{"package not found", postnl.ErrPackageNotFound, false},
		{"plain error", errors.New("boom"), false},
		{
			"wrapped unauthorized",
			postnl.NewClientError("get_packages", "UNAUTHORIZED", "rejected").WithCause(postnl.ErrUnauthorized),
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, postnl.IsAuthError(tt.err))
		})
	}
}
