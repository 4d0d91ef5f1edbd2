package stride

import (
	"sync"

	"github.com/striderun/stride-go/core"
)

// EventKind identifies an auth event category on the Bus.
type EventKind string

const (
	// EventTokenRefreshed is published after a successful credential refresh.
	EventTokenRefreshed EventKind = "token-refreshed"

	// EventAuthFailed is published when the session ended: a refresh failed,
	// no refresh token was available, or the server rejected a renewed
	// credential.
	EventAuthFailed EventKind = "authentication-failed"
)

// Handler receives published auth events.
type Handler func(event core.AuthEvent)

// Bus is the in-process publish/subscribe channel between the transport
// layer and application state (session hooks, UI stores). Delivery is
// synchronous and in registration order; there is no buffering, so a handler
// registered after a publish never sees that publish.
//
// The bus is the only way the transport layer signals that the session was
// renewed or ended, keeping it free of dependencies on application state.
type Bus struct {
	mu     sync.Mutex
	nextID uint64
	subs   map[EventKind][]subscription
}

type subscription struct {
	id uint64
	fn Handler
}

// NewBus creates an empty event bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[EventKind][]subscription)}
}

// Subscribe registers fn for the given kind and returns its unsubscribe
// function. Calling it more than once is harmless.
func (b *Bus) Subscribe(kind EventKind, fn Handler) (unsubscribe func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.subs[kind] = append(b.subs[kind], subscription{id: id, fn: fn})

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		subs := b.subs[kind]
		for i, s := range subs {
			if s.id == id {
				b.subs[kind] = append(subs[:i:i], subs[i+1:]...)
				return
			}
		}
	}
}

// Publish delivers event to every handler currently registered for kind, in
// registration order. Handlers run outside the bus lock, so they may
// subscribe, unsubscribe, or publish again.
func (b *Bus) Publish(kind EventKind, event core.AuthEvent) {
	b.mu.Lock()
	subs := make([]subscription, len(b.subs[kind]))
	copy(subs, b.subs[kind])
	b.mu.Unlock()

	for _, s := range subs {
		s.fn(event)
	}
}
