package core

// AuthEvent describes an authentication state change observed by the
// transport layer. It is the payload of authentication-failed events and is
// what cross-instance publishers put on the wire.
type AuthEvent struct {
	// StatusCode is the HTTP status that triggered the event, when the
	// trigger was an HTTP response. Zero otherwise.
	StatusCode int `json:"status_code,omitempty"`

	// Message is a human-readable description of what happened.
	Message string `json:"message"`

	// Target is the request path that triggered the event.
	Target string `json:"target"`
}
