package ports

import (
	"context"

	"github.com/striderun/stride-go/core"
)

// EventPublisher publishes auth events to notify other instances
type EventPublisher interface {
	PublishAuthFailed(ctx context.Context, event core.AuthEvent) error
	PublishTokenRefreshed(ctx context.Context) error
}
