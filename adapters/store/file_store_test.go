package store

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/striderun/stride-go/core"
)

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tokens.json")
	s := NewFileStore(path)
	ctx := context.Background()

	_, err := s.Credentials(ctx)
	assert.ErrorIs(t, err, core.ErrNoCredentials)

	require.NoError(t, s.SetCredentials(ctx, core.Credentials{AccessToken: "a", RefreshToken: "r"}))

	creds, err := s.Credentials(ctx)
	require.NoError(t, err)
	assert.Equal(t, "a", creds.AccessToken)
	assert.Equal(t, "r", creds.RefreshToken)

	require.NoError(t, s.ClearCredentials(ctx))
	_, err = s.Credentials(ctx)
	assert.ErrorIs(t, err, core.ErrNoCredentials)

	// Clearing an already-clear store is fine.
	require.NoError(t, s.ClearCredentials(ctx))
}

func TestFileStorePermissions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tokens.json")
	s := NewFileStore(path)

	require.NoError(t, s.SetCredentials(context.Background(), core.Credentials{AccessToken: "a", RefreshToken: "r"}))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestFileStoreMigratesLegacyToken(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tokens.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"token":"legacy-access"}`), 0o600))

	s := NewFileStore(path)
	ctx := context.Background()

	creds, err := s.Credentials(ctx)
	require.NoError(t, err)
	assert.Equal(t, "legacy-access", creds.AccessToken)
	assert.Empty(t, creds.RefreshToken)

	// The migration rewrites the file: the legacy key is gone for good.
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var doc map[string]string
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.NotContains(t, doc, "token")
	assert.Equal(t, "legacy-access", doc["access_token"])

	// A second read is a plain read, not another migration.
	again, err := s.Credentials(ctx)
	require.NoError(t, err)
	assert.Equal(t, creds, again)
}

func TestFileStoreLegacyTokenDoesNotClobberNewPair(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tokens.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"access_token":"a","refresh_token":"r","token":"stale-legacy"}`), 0o600))

	s := NewFileStore(path)

	creds, err := s.Credentials(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "a", creds.AccessToken)
	assert.Equal(t, "r", creds.RefreshToken)
}
