package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"

	"github.com/striderun/stride-go/core"
	"github.com/striderun/stride-go/ports"
)

const (
	// AuthFailedTopic carries session-ended events to other instances.
	AuthFailedTopic = "stride.auth.failed"

	// TokenRefreshedTopic signals that the credential pair was renewed.
	TokenRefreshedTopic = "stride.auth.refreshed"
)

// WatermillPublisher implements the EventPublisher interface using Watermill
type WatermillPublisher struct {
	publisher message.Publisher
}

// NewWatermillPublisher creates a new Watermill publisher
func NewWatermillPublisher(publisher message.Publisher) ports.EventPublisher {
	return &WatermillPublisher{publisher: publisher}
}

// PublishAuthFailed publishes a session-ended event
func (p *WatermillPublisher) PublishAuthFailed(ctx context.Context, event core.AuthEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := message.NewMessage(uuid.NewString(), payload)
	msg.SetContext(ctx)

	if err := p.publisher.Publish(AuthFailedTopic, msg); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	return nil
}

// PublishTokenRefreshed publishes a credential renewal event
func (p *WatermillPublisher) PublishTokenRefreshed(ctx context.Context) error {
	msg := message.NewMessage(uuid.NewString(), nil)
	msg.SetContext(ctx)

	if err := p.publisher.Publish(TokenRefreshedTopic, msg); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	return nil
}
