package stride

import (
	"context"
	"net/http"
)

// Doer is the transport primitive the client issues calls through.
// *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Requester is the request surface the typed API packages build on. *Client
// implements it; tests substitute fakes.
type Requester interface {
	// Do issues a request and resolves to exactly one settled result: a
	// response envelope or an *APIError. Retry and refresh happen inside.
	Do(ctx context.Context, method, path string, body interface{}, opts ...RequestOption) (*Response, error)

	Get(ctx context.Context, path string, opts ...RequestOption) (*Response, error)
	Post(ctx context.Context, path string, body interface{}, opts ...RequestOption) (*Response, error)
	Put(ctx context.Context, path string, body interface{}, opts ...RequestOption) (*Response, error)
	Patch(ctx context.Context, path string, body interface{}, opts ...RequestOption) (*Response, error)
	Delete(ctx context.Context, path string, opts ...RequestOption) (*Response, error)
}
