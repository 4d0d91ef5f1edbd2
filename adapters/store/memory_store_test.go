package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/striderun/stride-go/core"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	s := NewMemoryStore()
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
}

func TestMemoryStoreOverwrite(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.SetCredentials(ctx, core.Credentials{AccessToken: "a1", RefreshToken: "r1"}))
	require.NoError(t, s.SetCredentials(ctx, core.Credentials{AccessToken: "a2", RefreshToken: "r2"}))

	creds, err := s.Credentials(ctx)
	require.NoError(t, err)
	assert.Equal(t, core.Credentials{AccessToken: "a2", RefreshToken: "r2"}, creds)
}
