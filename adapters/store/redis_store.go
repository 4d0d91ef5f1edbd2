package store

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/striderun/stride-go/core"
	"github.com/striderun/stride-go/ports"
)

const (
	accessKey  = "access_token"
	refreshKey = "refresh_token"

	// legacyKey held the single token of pre-2.x clients. It is migrated
	// into the access slot on first read and removed.
	legacyKey = "token"
)

// RedisStore is a Redis implementation of the CredentialStore interface,
// for clients whose session must survive process restarts or be shared
// between instances.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore creates a new Redis store
func NewRedisStore(client *redis.Client) ports.CredentialStore {
	return &RedisStore{
		client: client,
		prefix: "stride:",
	}
}

// Credentials returns the stored pair, migrating a legacy single-token
// value into the access slot on first read.
func (s *RedisStore) Credentials(ctx context.Context) (core.Credentials, error) {
	values, err := s.client.MGet(ctx, s.prefix+accessKey, s.prefix+refreshKey, s.prefix+legacyKey).Result()
	if err != nil {
		return core.Credentials{}, fmt.Errorf("failed to read credentials: %w", err)
	}

	creds := core.Credentials{
		AccessToken:  asString(values[0]),
		RefreshToken: asString(values[1]),
	}

	if legacy := asString(values[2]); legacy != "" {
		if creds.AccessToken == "" {
			creds.AccessToken = legacy
			if err := s.client.Set(ctx, s.prefix+accessKey, legacy, 0).Err(); err != nil {
				return core.Credentials{}, fmt.Errorf("failed to migrate legacy token: %w", err)
			}
		}
		if err := s.client.Del(ctx, s.prefix+legacyKey).Err(); err != nil {
			return core.Credentials{}, fmt.Errorf("failed to remove legacy token: %w", err)
		}
	}

	if creds.IsZero() {
		return core.Credentials{}, core.ErrNoCredentials
	}
	return creds, nil
}

// SetCredentials stores both tokens in a single pipelined write
func (s *RedisStore) SetCredentials(ctx context.Context, creds core.Credentials) error {
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.prefix+accessKey, creds.AccessToken, 0)
		pipe.Set(ctx, s.prefix+refreshKey, creds.RefreshToken, 0)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to store credentials: %w", err)
	}
	return nil
}

// ClearCredentials removes the pair and any legacy value
func (s *RedisStore) ClearCredentials(ctx context.Context) error {
	if err := s.client.Del(ctx, s.prefix+accessKey, s.prefix+refreshKey, s.prefix+legacyKey).Err(); err != nil {
		return fmt.Errorf("failed to clear credentials: %w", err)
	}
	return nil
}

func asString(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}
