package stride

import (
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
)

// Option configures a Client at construction time.
type Option func(*Client)

// WithHTTPClient replaces the underlying transport. Anything satisfying Doer
// works, including *http.Client.
func WithHTTPClient(d Doer) Option {
	return func(c *Client) { c.httpClient = d }
}

// WithLogger sets the diagnostic logger. Logging never affects control flow.
func WithLogger(log *zap.Logger) Option {
	return func(c *Client) { c.log = log }
}

// WithBus replaces the auth event bus, e.g. to share one bus between several
// clients.
func WithBus(bus *Bus) Option {
	return func(c *Client) { c.bus = bus }
}

// WithTimeout sets the default per-attempt deadline.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.defaults.timeout = d }
}

// WithRetries sets the default retry budget: the number of additional
// attempts permitted after the first.
func WithRetries(n int) Option {
	return func(c *Client) { c.defaults.retries = n }
}

// WithRetryDelay sets the default base backoff unit.
func WithRetryDelay(d time.Duration) Option {
	return func(c *Client) { c.defaults.retryDelay = d }
}

// WithUserAgent sets the User-Agent header on outgoing requests.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// WithRefreshPath overrides the token renewal endpoint, default
// "/auth/refresh".
func WithRefreshPath(path string) Option {
	return func(c *Client) { c.refreshPath = path }
}

// WithAuthPrefix overrides the path prefix identifying authentication
// endpoints, default "/auth". A 401 from such an endpoint never triggers a
// refresh.
func WithAuthPrefix(prefix string) Option {
	return func(c *Client) { c.authPrefix = prefix }
}

// requestOptions is the per-request configuration. It is fixed once the
// first attempt begins; only the Authorization header value may change
// between attempts.
type requestOptions struct {
	timeout      time.Duration
	retries      int
	retryDelay   time.Duration
	requiresAuth bool
	skipAuth     bool
	header       http.Header
	query        url.Values
}

// RequestOption adjusts a single request.
type RequestOption func(*requestOptions)

// RequestTimeout bounds the latency of each attempt of this request.
func RequestTimeout(d time.Duration) RequestOption {
	return func(o *requestOptions) { o.timeout = d }
}

// Retries sets the retry budget for this request.
func Retries(n int) RequestOption {
	return func(o *requestOptions) { o.retries = n }
}

// RetryDelay sets the base backoff unit for this request.
func RetryDelay(d time.Duration) RequestOption {
	return func(o *requestOptions) { o.retryDelay = d }
}

// SkipAuth bypasses credential attachment entirely, for login and
// registration calls.
func SkipAuth() RequestOption {
	return func(o *requestOptions) { o.skipAuth = true }
}

// OptionalAuth attaches a credential when one is stored but lets the request
// proceed without one.
func OptionalAuth() RequestOption {
	return func(o *requestOptions) { o.requiresAuth = false }
}

// Header adds a request header. Caller headers are merged over the defaults.
func Header(key, value string) RequestOption {
	return func(o *requestOptions) { o.header.Add(key, value) }
}

// Query adds a query-string parameter.
func Query(key, value string) RequestOption {
	return func(o *requestOptions) { o.query.Add(key, value) }
}
