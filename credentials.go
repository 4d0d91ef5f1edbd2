package stride

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/striderun/stride-go/core"
)

// refreshLeeway is how close to its exp claim an access token may get before
// the client refreshes it ahead of the request instead of waiting for a 401.
const refreshLeeway = 30 * time.Second

// SetCredentials stores a new token pair, typically after login or
// registration. Both tokens are persisted together.
func (c *Client) SetCredentials(ctx context.Context, access, refresh string) error {
	return c.store.SetCredentials(ctx, core.Credentials{
		AccessToken:  access,
		RefreshToken: refresh,
	})
}

// ClearCredentials removes the stored pair, typically on logout.
func (c *Client) ClearCredentials(ctx context.Context) error {
	return c.store.ClearCredentials(ctx)
}

// AccessToken returns the stored access token, or the empty string when no
// credentials are held.
func (c *Client) AccessToken(ctx context.Context) (string, error) {
	creds, err := c.store.Credentials(ctx)
	if errors.Is(err, core.ErrNoCredentials) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return creds.AccessToken, nil
}

// credential reads the access token for a request, tolerating an empty
// store. Store failures are logged and treated as no credential; the
// requiresAuth check in the orchestrator decides what that means.
func (c *Client) credential(ctx context.Context) string {
	creds, err := c.store.Credentials(ctx)
	switch {
	case err == nil:
		return creds.AccessToken
	case errors.Is(err, core.ErrNoCredentials):
		return ""
	default:
		c.log.Warn("failed to read credentials", zap.Error(err))
		return ""
	}
}

// nearExpiry reports whether token is a JWT whose exp claim falls within the
// refresh leeway. Opaque tokens and tokens without exp report false, so the
// pre-flight refresh only kicks in where expiry is actually knowable.
func nearExpiry(token string, now time.Time) bool {
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return false
	}
	if claims.ExpiresAt == nil {
		return false
	}
	return claims.ExpiresAt.Time.Sub(now) < refreshLeeway
}
