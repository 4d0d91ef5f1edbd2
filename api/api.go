// Package api is the typed resource surface of the Stride client. It is
// deliberately thin plumbing over the transport client: every call funnels
// through the resilient request orchestrator, so retry, token renewal, and
// error humanization come for free.
package api

import (
	"context"

	stride "github.com/striderun/stride-go"
)

// Transport is what the typed services need from the underlying client.
// *stride.Client satisfies it.
type Transport interface {
	stride.Requester

	SetCredentials(ctx context.Context, access, refresh string) error
	ClearCredentials(ctx context.Context) error
}

// Client groups the typed resource services.
type Client struct {
	Auth  *AuthService
	Runs  *RunService
	Goals *GoalService
	Races *RaceService
	Stats *StatsService
}

// New creates the typed API surface over a transport client.
func New(t Transport) *Client {
	return &Client{
		Auth:  &AuthService{t: t},
		Runs:  &RunService{t: t},
		Goals: &GoalService{t: t},
		Races: &RaceService{t: t},
		Stats: &StatsService{t: t},
	}
}
