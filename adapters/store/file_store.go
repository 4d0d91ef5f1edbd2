package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/striderun/stride-go/core"
	"github.com/striderun/stride-go/ports"
)

// FileStore persists credentials in a JSON file, for CLI-style clients that
// keep a session across invocations. Writes go through a temp file and an
// atomic rename so a crash never leaves a partial pair on disk.
type FileStore struct {
	mu   sync.Mutex
	path string
}

type fileDocument struct {
	AccessToken  string `json:"access_token,omitempty"`
	RefreshToken string `json:"refresh_token,omitempty"`

	// LegacyToken is the single token written by pre-2.x clients. It is
	// migrated into the access slot on first read.
	LegacyToken string `json:"token,omitempty"`
}

// NewFileStore creates a file-backed store at path
func NewFileStore(path string) ports.CredentialStore {
	return &FileStore{path: path}
}

// Credentials returns the stored pair, migrating a legacy single-token
// value into the access slot on first read.
func (s *FileStore) Credentials(ctx context.Context) (core.Credentials, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return core.Credentials{}, err
	}

	if doc.LegacyToken != "" {
		if doc.AccessToken == "" {
			doc.AccessToken = doc.LegacyToken
		}
		doc.LegacyToken = ""
		if err := s.write(doc); err != nil {
			return core.Credentials{}, fmt.Errorf("failed to migrate legacy token: %w", err)
		}
	}

	creds := core.Credentials{
		AccessToken:  doc.AccessToken,
		RefreshToken: doc.RefreshToken,
	}
	if creds.IsZero() {
		return core.Credentials{}, core.ErrNoCredentials
	}
	return creds, nil
}

// SetCredentials stores both tokens atomically
func (s *FileStore) SetCredentials(ctx context.Context, creds core.Credentials) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.write(fileDocument{
		AccessToken:  creds.AccessToken,
		RefreshToken: creds.RefreshToken,
	})
}

// ClearCredentials removes the pair and any legacy value
func (s *FileStore) ClearCredentials(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to clear credentials: %w", err)
	}
	return nil
}

func (s *FileStore) load() (fileDocument, error) {
	var doc fileDocument

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return doc, core.ErrNoCredentials
	}
	if err != nil {
		return doc, fmt.Errorf("failed to read credentials: %w", err)
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return doc, fmt.Errorf("failed to parse credential file: %w", err)
	}
	return doc, nil
}

func (s *FileStore) write(doc fileDocument) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}
