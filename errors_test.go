package stride

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapTransportError(t *testing.T) {
	t.Run("deadline becomes typed 408", func(t *testing.T) {
		err := wrapTransportError(fmt.Errorf("Get \"x\": %w", context.DeadlineExceeded))
		assert.ErrorIs(t, err, ErrTimeout)
		assert.Equal(t, http.StatusRequestTimeout, err.StatusCode)
		assert.Equal(t, "Request timeout", err.Message)
	})

	t.Run("existing api errors pass through", func(t *testing.T) {
		original := newAPIError(ErrNotFound, 404, "gone", nil)
		assert.Same(t, original, wrapTransportError(original))
	})

	t.Run("anything else is a network error", func(t *testing.T) {
		err := wrapTransportError(errors.New("connection refused"))
		assert.ErrorIs(t, err, ErrNetwork)
		assert.Zero(t, err.StatusCode)
		assert.Contains(t, err.Message, "connection refused")
	})
}

func TestAuthFailureMessageMapping(t *testing.T) {
	expired := authFailure(newAPIError(ErrRequestFailed, 401, "Token expired", nil))
	assert.Equal(t, "Your session has expired. Please log in again.", expired.Message)

	generic := authFailure(newAPIError(ErrRequestFailed, 401, "bad credentials", nil))
	assert.Equal(t, "Authentication failed. Please log in again.", generic.Message)

	assert.ErrorIs(t, expired, ErrAuthFailed)
	assert.ErrorIs(t, generic, ErrAuthFailed)
}

func TestErrorMessageParsing(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		body        string
		status      int
		want        string
	}{
		{"json error field", "application/json", `{"error":"no such run"}`, 404, "no such run"},
		{"json message field", "application/json; charset=utf-8", `{"message":"try later"}`, 503, "try later"},
		{"json garbage falls back to text", "application/json", `{{{`, 500, "{{{"},
		{"plain text", "text/plain", "upstream exploded", 502, "upstream exploded"},
		{"empty body synthesizes", "text/plain", "", 503, "request failed with status 503 Service Unavailable"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, errorMessage(tc.contentType, []byte(tc.body), tc.status))
		})
	}
}

func TestAPIErrorTaxonomy(t *testing.T) {
	err := newAPIError(ErrPermissionDenied, 403, "denied", []byte(`{"error":"denied"}`))

	assert.ErrorIs(t, err, ErrPermissionDenied)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.Equal(t, "denied", err.Error())

	var apiErr *APIError
	assert.ErrorAs(t, fmt.Errorf("wrapped: %w", err), &apiErr)
	assert.Equal(t, 403, apiErr.StatusCode)
}
