package stride

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	// ErrUnauthenticated is returned when a request requires a credential
	// and none is stored. No network call is made.
	ErrUnauthenticated = errors.New("authentication required")

	// ErrAuthFailed is returned when the server rejected the credential and
	// the refresh attempt failed or was exhausted. Stored credentials are
	// cleared as a side effect.
	ErrAuthFailed = errors.New("authentication failed")

	// ErrPermissionDenied is returned for 403 responses.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrNotFound is returned for 404 responses.
	ErrNotFound = errors.New("resource not found")

	// ErrInvalidInput is returned for 422 responses.
	ErrInvalidInput = errors.New("invalid input")

	// ErrServer is returned for 5xx responses that survived the retry budget.
	ErrServer = errors.New("server error")

	// ErrTimeout is returned when an attempt exceeded its deadline.
	ErrTimeout = errors.New("request timeout")

	// ErrNetwork is returned for connectivity-level failures with no HTTP
	// response.
	ErrNetwork = errors.New("network error")

	// ErrRequestFailed is the fallback kind for other non-2xx responses.
	ErrRequestFailed = errors.New("request failed")
)

// User-facing messages. The orchestrator guarantees Message is already
// suitable for direct display wherever one of these is derivable.
const (
	msgNoToken          = "Authentication required but no token available"
	msgTimeout          = "Request timeout"
	msgSessionExpired   = "Your session has expired. Please log in again."
	msgAuthFailed       = "Authentication failed. Please log in again."
	msgPermissionDenied = "You do not have permission to perform this action."
	msgNotFound         = "The requested resource was not found."
	msgInvalidInput     = "The provided input is invalid."
	msgTooManyRequests  = "Too many requests. Please try again later."
	msgServerError      = "Something went wrong on the server. Please try again later."
)

// APIError is the single error type raised by the client. Retry and refresh
// are exhausted internally; callers branch on it with errors.Is against the
// sentinel errors above, or inspect StatusCode and Body directly.
type APIError struct {
	// Message is humanized for display when a mapping is known, otherwise
	// it carries the raw server message.
	Message string

	// StatusCode is the HTTP status of the final response, or zero when the
	// failure happened below HTTP.
	StatusCode int

	// Body is the raw response body of the final attempt, if any.
	Body []byte

	kind error
}

func (e *APIError) Error() string { return e.Message }

// Unwrap exposes the taxonomy sentinel so errors.Is works.
func (e *APIError) Unwrap() error { return e.kind }

func newAPIError(kind error, status int, message string, body []byte) *APIError {
	return &APIError{Message: message, StatusCode: status, Body: body, kind: kind}
}

// wrapTransportError classifies an error raised by the transport itself
// rather than carried in an HTTP response. An expired attempt deadline
// becomes a typed 408; everything else is a network-level failure.
func wrapTransportError(err error) *APIError {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return newAPIError(ErrTimeout, http.StatusRequestTimeout, msgTimeout, nil)
	}
	return newAPIError(ErrNetwork, 0, "network error: "+err.Error(), nil)
}

// authFailure maps a terminal 401 to its user-facing form. A server message
// mentioning expiry becomes the session-expired message, anything else the
// generic one.
func authFailure(cause *APIError) *APIError {
	msg := msgAuthFailed
	if strings.Contains(strings.ToLower(cause.Message), "expire") {
		msg = msgSessionExpired
	}
	return newAPIError(ErrAuthFailed, cause.StatusCode, msg, cause.Body)
}

// humanize maps a terminal non-auth failure onto the error taxonomy with a
// display-ready message where one is derivable.
func humanize(cause *APIError) *APIError {
	switch {
	case cause.StatusCode == http.StatusForbidden:
		return newAPIError(ErrPermissionDenied, cause.StatusCode, msgPermissionDenied, cause.Body)
	case cause.StatusCode == http.StatusNotFound:
		return newAPIError(ErrNotFound, cause.StatusCode, msgNotFound, cause.Body)
	case cause.StatusCode == http.StatusUnprocessableEntity:
		msg := cause.Message
		if msg == "" {
			msg = msgInvalidInput
		}
		return newAPIError(ErrInvalidInput, cause.StatusCode, msg, cause.Body)
	case cause.StatusCode == http.StatusTooManyRequests:
		return newAPIError(ErrServer, cause.StatusCode, msgTooManyRequests, cause.Body)
	case cause.StatusCode >= http.StatusInternalServerError:
		return newAPIError(ErrServer, cause.StatusCode, msgServerError, cause.Body)
	default:
		return cause
	}
}

// errorMessage extracts a message from an error response body, best-effort.
// JSON bodies are probed for the conventional error/message fields, plain
// text is passed through, and anything else is synthesized from the status.
func errorMessage(contentType string, body []byte, status int) string {
	if strings.Contains(contentType, "json") {
		var envelope struct {
			Error   string `json:"error"`
			Message string `json:"message"`
		}
		if err := json.Unmarshal(body, &envelope); err == nil {
			if envelope.Error != "" {
				return envelope.Error
			}
			if envelope.Message != "" {
				return envelope.Message
			}
		}
	}
	if text := strings.TrimSpace(string(body)); text != "" && len(text) <= 512 {
		return text
	}
	return fmt.Sprintf("request failed with status %d %s", status, http.StatusText(status))
}
