package events

import (
	"context"

	"go.uber.org/zap"

	stride "github.com/striderun/stride-go"
	"github.com/striderun/stride-go/core"
	"github.com/striderun/stride-go/ports"
)

// Forward bridges a client's in-process event bus onto a cross-instance
// publisher, so every process sharing a session (e.g. a Redis-backed
// credential store) learns when it was renewed or ended. Publish failures
// are logged and dropped; the local bus delivery has already happened.
//
// The returned function detaches the bridge.
func Forward(bus *stride.Bus, publisher ports.EventPublisher, log *zap.Logger) func() {
	unsubFailed := bus.Subscribe(stride.EventAuthFailed, func(event core.AuthEvent) {
		if err := publisher.PublishAuthFailed(context.Background(), event); err != nil {
			log.Warn("failed to forward auth event", zap.Error(err))
		}
	})
	unsubRefreshed := bus.Subscribe(stride.EventTokenRefreshed, func(core.AuthEvent) {
		if err := publisher.PublishTokenRefreshed(context.Background()); err != nil {
			log.Warn("failed to forward refresh event", zap.Error(err))
		}
	})

	return func() {
		unsubFailed()
		unsubRefreshed()
	}
}
