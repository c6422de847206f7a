package apierr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKind(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want Kind
	}{
		{"no response is network", Network(errors.New("connection refused")), KindNetwork},
		{"401 is auth", New(http.StatusUnauthorized, "Invalid token"), KindAuth},
		{"403 is forbidden", New(http.StatusForbidden, "Access denied"), KindForbidden},
		{"404 is not found", New(http.StatusNotFound, "Event not found"), KindNotFound},
		{"429 is rate limit", New(http.StatusTooManyRequests, "Too many requests"), KindRateLimit},
		{"500 is server", New(http.StatusInternalServerError, "boom"), KindServer},
		{"503 is server", New(http.StatusServiceUnavailable, "down"), KindServer},
		{"400 with field prefix is validation", New(http.StatusBadRequest, "email: must be valid"), KindValidation},
		{"400 without field prefix is unknown", New(http.StatusBadRequest, "bad request"), KindUnknown},
		{"400 with spaced prefix is unknown", New(http.StatusBadRequest, "the field email: bad"), KindUnknown},
		{"409 plain message is unknown", New(http.StatusConflict, "User already exists"), KindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Kind())
		})
	}
}

func TestErrorMessage(t *testing.T) {
	err := New(http.StatusNotFound, "Event not found")
	assert.Equal(t, "Event not found", err.Error())

	synthesized := FromStatus(http.StatusBadGateway, http.StatusText(http.StatusBadGateway))
	assert.Equal(t, "HTTP 502: Bad Gateway", synthesized.Error())
}

func TestRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"network error retries", Network(errors.New("timeout")), true},
		{"rate limit retries", New(http.StatusTooManyRequests, "slow down"), true},
		{"server error retries", New(http.StatusBadGateway, "bad gateway"), true},
		{"auth failure does not retry", New(http.StatusUnauthorized, "Invalid token"), false},
		{"not found does not retry", New(http.StatusNotFound, "Event not found"), false},
		{"validation does not retry", New(http.StatusBadRequest, "name: required"), false},
		{"plain error does not retry", errors.New("plain"), false},
		{"nil does not retry", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Retryable(tt.err))
		})
	}
}

func TestPredicatesUnwrap(t *testing.T) {
	wrapped := fmt.Errorf("load event: %w", New(http.StatusUnauthorized, "Invalid token"))
	require.True(t, IsAuth(wrapped))
	assert.False(t, IsForbidden(wrapped))
	assert.False(t, IsNotFound(wrapped))

	assert.True(t, IsForbidden(New(http.StatusForbidden, "Access denied")))
	assert.True(t, IsNotFound(New(http.StatusNotFound, "gone")))
	assert.True(t, IsValidation(New(http.StatusBadRequest, "otp: invalid code")))
	assert.True(t, IsRateLimit(New(http.StatusTooManyRequests, "later")))
	assert.False(t, IsAuth(errors.New("plain")))
}
