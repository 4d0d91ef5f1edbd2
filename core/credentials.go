package core

// Credentials is an access/refresh token pair issued by the Stride backend.
// Both tokens are opaque to the client; either both are present or both are
// absent, never one without the other.
type Credentials struct {
	AccessToken  string
	RefreshToken string
}

// IsZero reports whether no credentials are held.
func (c Credentials) IsZero() bool {
	return c.AccessToken == "" && c.RefreshToken == ""
}
