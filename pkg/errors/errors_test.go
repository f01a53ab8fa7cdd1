package errors_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	pkgerrors "github.com/parceltrack/parceltrack/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	err := pkgerrors.New("test error")
	assert.NotNil(t, err)
	assert.Equal(t, "test error", err.Error())
}

func TestNotFoundError(t *testing.T) {
	t.Run("basic error", func(t *testing.T) {
		err := &pkgerrors.NotFoundError{Resource: "parcel", ID: "p1"}
		assert.Equal(t, "parcel with ID p1 not found", err.Error())
		assert.True(t, errors.Is(err, pkgerrors.ErrNotFound))
	})

	t.Run("wrapped error", func(t *testing.T) {
		base := pkgerrors.NewNotFoundError("notification", "n1")
		wrapped := errors.Join(errors.New("failed"), base)
		assert.True(t, pkgerrors.IsNotFound(wrapped))
	})
}

func TestValidationError(t *testing.T) {
	t.Run("with field", func(t *testing.T) {
		err := pkgerrors.NewValidationError("role", "pilot", "unknown role")
		assert.Equal(t, "validation failed for field role: unknown role", err.Error())
		assert.True(t, pkgerrors.IsValidationError(err))
	})

	t.Run("without field", func(t *testing.T) {
		err := &pkgerrors.ValidationError{Message: "empty session"}
		assert.Equal(t, "validation failed: empty session", err.Error())
	})
}

func TestAPIError(t *testing.T) {
	tests := []struct {
		name   string
		status int
		target error
	}{
		{"unauthorized", http.StatusUnauthorized, pkgerrors.ErrUnauthorized},
		{"not found", http.StatusNotFound, pkgerrors.ErrNotFound},
		{"bad request", http.StatusBadRequest, pkgerrors.ErrInvalidInput},
		{"server error", http.StatusBadGateway, pkgerrors.ErrServerUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := pkgerrors.NewAPIError(http.MethodGet, "/parcels", tt.status, "boom")
			assert.True(t, errors.Is(err, tt.target))
			assert.Contains(t, err.Error(), "GET /parcels")
			assert.Contains(t, err.Error(), fmt.Sprint(tt.status))
		})
	}

	t.Run("unrelated status", func(t *testing.T) {
		err := pkgerrors.NewAPIError("", "/auth/login", http.StatusConflict, "exists")
		assert.False(t, pkgerrors.IsUnauthorized(err))
		assert.False(t, pkgerrors.IsServerUnavailable(err))
		assert.Equal(t, "API error from /auth/login (status 409): exists", err.Error())
	})

	t.Run("errors.As through wrapping", func(t *testing.T) {
		wrapped := fmt.Errorf("mark read: %w", pkgerrors.NewAPIError(http.MethodPatch, "/notifications/1/read", 401, "jwt expired"))
		var apiErr *pkgerrors.APIError
		require.True(t, errors.As(wrapped, &apiErr))
		assert.Equal(t, 401, apiErr.StatusCode)
		assert.True(t, pkgerrors.IsUnauthorized(wrapped))
	})
}

func TestDecodeError(t *testing.T) {
	base := errors.New("missing property 'parcel'")
	err := pkgerrors.NewDecodeError("parcel:delivered", "/parcel", "required", base)

	assert.Equal(t, "decode parcel:delivered at /parcel: required", err.Error())
	assert.True(t, pkgerrors.IsDecode(err))
	assert.ErrorIs(t, err, base)
	assert.Nil(t, pkgerrors.WrapDecode("x", nil))
}

func TestTransportError(t *testing.T) {
	base := errors.New("connection refused")
	err := pkgerrors.WrapTransport("dial", "ws://localhost:5000", base)

	assert.Equal(t, "transport dial ws://localhost:5000: connection refused", err.Error())
	assert.ErrorIs(t, err, base)
	assert.Nil(t, pkgerrors.WrapTransport("dial", "", nil))
}

func TestSessionError(t *testing.T) {
	err := pkgerrors.WrapSession("restore", "user", errors.New("unexpected end of JSON input"))
	assert.True(t, pkgerrors.IsNoSession(err))
	assert.Contains(t, err.Error(), "session restore (user)")
}

func TestWrapHelpers(t *testing.T) {
	base := errors.New("disk full")

	ioErr := pkgerrors.WrapIO("write", "/tmp/state.db", base)
	assert.Contains(t, ioErr.Error(), "IO error during write of /tmp/state.db")
	assert.ErrorIs(t, ioErr, base)

	resErr := pkgerrors.WrapResource("update", "parcel", "p1", base)
	assert.Equal(t, "failed to update parcel p1: disk full", resErr.Error())

	valErr := pkgerrors.WrapValidation("token", base)
	assert.True(t, pkgerrors.IsValidationError(valErr))

	assert.Nil(t, pkgerrors.WrapIO("read", "", nil))
	assert.Nil(t, pkgerrors.WrapResource("fetch", "user", "", nil))
	assert.Nil(t, pkgerrors.WrapValidation("x", nil))
}

func TestTimeoutError(t *testing.T) {
	err := pkgerrors.NewTimeoutError("connect", "10s", "no handshake")
	assert.True(t, pkgerrors.IsTimeout(err))
	assert.Equal(t, "operation connect timed out after 10s: no handshake", err.Error())
}
