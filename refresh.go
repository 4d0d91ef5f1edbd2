package stride

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/striderun/stride-go/core"
)

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type refreshResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// refreshCredentials renews the token pair, collapsing concurrent callers
// into a single network call whose outcome they all share. A concurrent
// refresh against a rotating-refresh-token server would invalidate one of
// the two new pairs and log the user out spuriously, so the single-flight
// guarantee here is a correctness property, not an optimization.
//
// It reports whether a fresh pair is now in the store and never returns an
// error: every failure path clears the stored credentials and publishes
// authentication-failed, so the orchestrator's control flow stays linear.
func (c *Client) refreshCredentials(ctx context.Context, target string) bool {
	renewed, _, _ := c.refreshGroup.Do("refresh", func() (interface{}, error) {
		// Detached from the triggering request so one canceled caller
		// cannot poison the outcome shared by the others.
		return c.doRefresh(context.WithoutCancel(ctx), target), nil
	})
	return renewed.(bool)
}

func (c *Client) doRefresh(ctx context.Context, target string) bool {
	ctx, cancel := context.WithTimeout(ctx, c.defaults.timeout)
	defer cancel()

	creds, err := c.store.Credentials(ctx)
	if err != nil || creds.RefreshToken == "" {
		c.failAuth(ctx, core.AuthEvent{Message: "no refresh token available", Target: target})
		return false
	}

	payload, err := json.Marshal(refreshRequest{RefreshToken: creds.RefreshToken})
	if err != nil {
		c.log.Error("failed to encode refresh request", zap.Error(err))
		c.failAuth(ctx, core.AuthEvent{Message: "token refresh failed", Target: target})
		return false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+c.refreshPath, bytes.NewReader(payload))
	if err != nil {
		c.log.Error("failed to create refresh request", zap.Error(err))
		c.failAuth(ctx, core.AuthEvent{Message: "token refresh failed", Target: target})
		return false
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Error("token refresh failed", zap.Error(err), zap.String("target", target))
		c.failAuth(ctx, core.AuthEvent{Message: "token refresh failed", Target: target})
		return false
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		c.log.Error("failed to read refresh response", zap.Error(err))
		c.failAuth(ctx, core.AuthEvent{Message: "token refresh failed", Target: target})
		return false
	}

	if resp.StatusCode != http.StatusOK {
		c.log.Warn("refresh rejected",
			zap.Int("status", resp.StatusCode),
			zap.String("target", target))
		c.failAuth(ctx, core.AuthEvent{
			StatusCode: resp.StatusCode,
			Message:    "failed to refresh token",
			Target:     target,
		})
		return false
	}

	var renewed refreshResponse
	if err := json.Unmarshal(raw, &renewed); err != nil || renewed.AccessToken == "" {
		c.log.Error("invalid refresh response", zap.Error(err))
		c.failAuth(ctx, core.AuthEvent{Message: "token refresh failed", Target: target})
		return false
	}

	// Servers that do not rotate refresh tokens omit the field; keep the
	// one we already hold.
	if renewed.RefreshToken == "" {
		renewed.RefreshToken = creds.RefreshToken
	}

	if err := c.store.SetCredentials(ctx, core.Credentials{
		AccessToken:  renewed.AccessToken,
		RefreshToken: renewed.RefreshToken,
	}); err != nil {
		c.log.Error("failed to persist refreshed credentials", zap.Error(err))
		c.failAuth(ctx, core.AuthEvent{Message: "token refresh failed", Target: target})
		return false
	}

	c.bus.Publish(EventTokenRefreshed, core.AuthEvent{Target: target})
	return true
}

// failAuth ends the session: stored credentials are cleared and the failure
// is published so session hooks can react.
func (c *Client) failAuth(ctx context.Context, event core.AuthEvent) {
	if err := c.store.ClearCredentials(ctx); err != nil {
		c.log.Warn("failed to clear credentials", zap.Error(err))
	}
	c.bus.Publish(EventAuthFailed, event)
}
