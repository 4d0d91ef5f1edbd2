package store

import (
	"context"
	"sync"

	"github.com/striderun/stride-go/core"
	"github.com/striderun/stride-go/ports"
)

// MemoryStore is an in-memory implementation of the CredentialStore
// interface. It is the default for tests and short-lived processes; nothing
// survives a restart.
type MemoryStore struct {
	mu    sync.RWMutex
	creds core.Credentials
	held  bool
}

// NewMemoryStore creates a new in-memory store
func NewMemoryStore() ports.CredentialStore {
	return &MemoryStore{}
}

// Credentials returns the stored pair
func (s *MemoryStore) Credentials(ctx context.Context) (core.Credentials, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.held {
		return core.Credentials{}, core.ErrNoCredentials
	}
	return s.creds, nil
}

// SetCredentials stores both tokens
func (s *MemoryStore) SetCredentials(ctx context.Context, creds core.Credentials) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.creds = creds
	s.held = true
	return nil
}

// ClearCredentials removes the pair
func (s *MemoryStore) ClearCredentials(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.creds = core.Credentials{}
	s.held = false
	return nil
}
