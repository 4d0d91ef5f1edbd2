// Package stride is the client SDK for the Stride running tracker API.
//
// Its core is a resilient authenticated transport: every call gets bearer
// credentials attached from a pluggable store, transparent single-flight
// token renewal on 401, exponential-backoff retries on transient failures,
// per-attempt deadlines, and a stable error taxonomy. Callers observe
// exactly one settled result per logical request.
package stride

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/striderun/stride-go/core"
	"github.com/striderun/stride-go/ports"
)

const (
	defaultRefreshPath = "/auth/refresh"
	defaultAuthPrefix  = "/auth"
	defaultUserAgent   = "stride-go"
)

// Client is the resilient authenticated API client. It owns the refresh
// single-flight state and the event bus as private fields, so independent
// clients (e.g. in tests) never share session state.
type Client struct {
	baseURL     string
	httpClient  Doer
	store       ports.CredentialStore
	bus         *Bus
	policy      RetryPolicy
	log         *zap.Logger
	userAgent   string
	refreshPath string
	authPrefix  string
	defaults    requestOptions

	refreshGroup singleflight.Group
}

// Response is the envelope returned on a successful outcome.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Decode unmarshals the JSON body into v. A 204 or otherwise empty body
// leaves v untouched.
func (r *Response) Decode(v interface{}) error {
	if len(r.Body) == 0 {
		return nil
	}
	return json.Unmarshal(r.Body, v)
}

// NewClient creates a client for the API at baseURL, persisting credentials
// in store.
func NewClient(baseURL string, store ports.CredentialStore, opts ...Option) *Client {
	c := &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		httpClient:  &http.Client{},
		store:       store,
		bus:         NewBus(),
		log:         zap.NewNop(),
		userAgent:   defaultUserAgent,
		refreshPath: defaultRefreshPath,
		authPrefix:  defaultAuthPrefix,
		defaults: requestOptions{
			timeout:      DefaultTimeout,
			retries:      DefaultRetries,
			retryDelay:   DefaultRetryDelay,
			requiresAuth: true,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Events returns the auth event bus for subscription.
func (c *Client) Events() *Bus {
	return c.bus
}

// Do issues a request against path and resolves to exactly one settled
// result. Authorization failures trigger at most one refresh-then-retry,
// transient failures are retried with exponential backoff up to the budget,
// and the final error is typed and humanized.
func (c *Client) Do(ctx context.Context, method, path string, body interface{}, opts ...RequestOption) (*Response, error) {
	ro := c.defaults
	ro.header = http.Header{}
	ro.query = url.Values{}
	for _, opt := range opts {
		opt(&ro)
	}

	payload, contentType, err := encodeBody(body)
	if err != nil {
		return nil, newAPIError(ErrInvalidInput, 0, "failed to encode request body: "+err.Error(), nil)
	}

	var token string
	if !ro.skipAuth {
		token = c.credential(ctx)
		if token == "" && ro.requiresAuth {
			return nil, newAPIError(ErrUnauthenticated, http.StatusUnauthorized, msgNoToken, nil)
		}
		if token != "" && nearExpiry(token, time.Now()) {
			// Renew ahead of the request rather than burning an attempt
			// on a guaranteed 401. Only possible for JWT access tokens.
			if c.refreshCredentials(ctx, path) {
				token = c.credential(ctx)
			} else if ro.requiresAuth {
				return nil, newAPIError(ErrAuthFailed, http.StatusUnauthorized, msgSessionExpired, nil)
			} else {
				token = ""
			}
		}
	}

	attempt := 0
	retriesUsed := 0
	authRetried := false
	isAuth := c.isAuthTarget(path)

	for {
		resp, err := c.attempt(ctx, method, path, token, payload, contentType, ro)
		if err == nil {
			return resp, nil
		}
		apiErr := wrapTransportError(err)

		if apiErr.StatusCode == http.StatusUnauthorized {
			if attempt == 0 && !authRetried && !isAuth {
				authRetried = true
				if c.refreshCredentials(ctx, path) {
					token = c.credential(ctx)
					attempt++
					continue
				}
				// Credentials already cleared and authentication-failed
				// already published by the coordinator.
				return nil, authFailure(apiErr)
			}
			// A renewed credential was rejected, or the auth endpoint
			// itself said no. No further refresh attempts.
			c.failAuth(ctx, core.AuthEvent{
				StatusCode: apiErr.StatusCode,
				Message:    apiErr.Message,
				Target:     path,
			})
			return nil, authFailure(apiErr)
		}

		retryable := apiErr.StatusCode == 0 || c.policy.Retryable(apiErr.StatusCode)
		if retryable && retriesUsed < ro.retries {
			delay := c.policy.Delay(ro.retryDelay, uint(retriesUsed))
			c.log.Debug("retrying request",
				zap.String("method", method),
				zap.String("path", path),
				zap.Int("status", apiErr.StatusCode),
				zap.Duration("delay", delay))
			select {
			case <-ctx.Done():
				return nil, wrapTransportError(ctx.Err())
			case <-time.After(delay):
			}
			retriesUsed++
			attempt++
			continue
		}

		return nil, humanize(apiErr)
	}
}

// Get issues a GET request.
func (c *Client) Get(ctx context.Context, path string, opts ...RequestOption) (*Response, error) {
	return c.Do(ctx, http.MethodGet, path, nil, opts...)
}

// Post issues a POST request with the given body.
func (c *Client) Post(ctx context.Context, path string, body interface{}, opts ...RequestOption) (*Response, error) {
	return c.Do(ctx, http.MethodPost, path, body, opts...)
}

// Put issues a PUT request with the given body.
func (c *Client) Put(ctx context.Context, path string, body interface{}, opts ...RequestOption) (*Response, error) {
	return c.Do(ctx, http.MethodPut, path, body, opts...)
}

// Patch issues a PATCH request with the given body.
func (c *Client) Patch(ctx context.Context, path string, body interface{}, opts ...RequestOption) (*Response, error) {
	return c.Do(ctx, http.MethodPatch, path, body, opts...)
}

// Delete issues a DELETE request.
func (c *Client) Delete(ctx context.Context, path string, opts ...RequestOption) (*Response, error) {
	return c.Do(ctx, http.MethodDelete, path, nil, opts...)
}

// attempt performs one guarded transport call. The deadline covers the whole
// attempt including body read; because the context cancels the underlying
// call, a timed-out attempt cannot deliver a late result.
func (c *Client) attempt(ctx context.Context, method, path, token string, payload []byte, contentType string, ro requestOptions) (*Response, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, ro.timeout)
	defer cancel()

	target := c.baseURL + path
	if len(ro.query) > 0 {
		target += "?" + ro.query.Encode()
	}

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(attemptCtx, method, target, body)
	if err != nil {
		return nil, newAPIError(ErrNetwork, 0, "failed to create request: "+err.Error(), nil)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", uuid.NewString())
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	for key, values := range ro.header {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, wrapTransportError(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, wrapTransportError(err)
	}

	if resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices {
		if resp.StatusCode == http.StatusNoContent {
			raw = nil
		}
		return &Response{StatusCode: resp.StatusCode, Header: resp.Header, Body: raw}, nil
	}

	msg := errorMessage(resp.Header.Get("Content-Type"), raw, resp.StatusCode)
	return nil, newAPIError(ErrRequestFailed, resp.StatusCode, msg, raw)
}

func (c *Client) isAuthTarget(path string) bool {
	return strings.HasPrefix(path, c.authPrefix)
}

// encodeBody serializes a request body. Structured values become JSON;
// []byte and io.Reader pass through with no forced content type so the
// transport (or the caller's own header) can set one, e.g. for multipart
// uploads. Readers are buffered up front so retries can replay the body.
func encodeBody(body interface{}) ([]byte, string, error) {
	switch b := body.(type) {
	case nil:
		return nil, "", nil
	case []byte:
		return b, "", nil
	case io.Reader:
		raw, err := io.ReadAll(b)
		return raw, "", err
	case url.Values:
		return []byte(b.Encode()), "application/x-www-form-urlencoded", nil
	default:
		raw, err := json.Marshal(body)
		return raw, "application/json", err
	}
}

var _ Requester = (*Client)(nil)
