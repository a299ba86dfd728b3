package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// brokenStore fails every call, standing in for an unreachable redis.
type brokenStore struct{}

func (brokenStore) RevokeToken(ctx context.Context, tokenID string, until time.Time) error {
	return errors.New("connection refused")
}

func (brokenStore) IsTokenRevoked(ctx context.Context, tokenID string) (bool, error) {
	return false, errors.New("connection refused")
}

func (brokenStore) CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	return false, errors.New("connection refused")
}

func TestFailover_PrimaryHealthy(t *testing.T) {
	logger := zerolog.Nop()
	primary := NewMemorySessionStore()
	fallback := NewMemorySessionStore()
	store := NewFailoverSessionStore(primary, fallback, &logger)

	ctx := context.Background()
	require.NoError(t, store.RevokeToken(ctx, "jti", time.Now().Add(time.Hour)))

	revoked, err := store.IsTokenRevoked(ctx, "jti")
	require.NoError(t, err)
	assert.True(t, revoked)

	// The revocation is mirrored so a later primary outage still denies it.
	revoked, err = fallback.IsTokenRevoked(ctx, "jti")
	require.NoError(t, err)
	assert.True(t, revoked)
}

func TestFailover_FallsBackOnError(t *testing.T) {
	logger := zerolog.Nop()
	fallback := NewMemorySessionStore()
	store := NewFailoverSessionStore(brokenStore{}, fallback, &logger)

	ctx := context.Background()
	require.NoError(t, store.RevokeToken(ctx, "jti", time.Now().Add(time.Hour)))
	assert.True(t, store.isDown.Load())

	revoked, err := store.IsTokenRevoked(ctx, "jti")
	require.NoError(t, err)
	assert.True(t, revoked)

	allowed, err := store.CheckRateLimit(ctx, "ip", 1, time.Minute)
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestFailover_RecoversAfterProbeWindow(t *testing.T) {
	logger := zerolog.Nop()
	primary := NewMemorySessionStore()
	fallback := NewMemorySessionStore()
	store := NewFailoverSessionStore(primary, fallback, &logger)

	store.isDown.Store(true)
	store.lastCheck.Store(time.Now().Add(-2 * time.Minute).UnixNano())

	ctx := context.Background()
	require.NoError(t, store.RevokeToken(ctx, "jti", time.Now().Add(time.Hour)))
	assert.False(t, store.isDown.Load())

	revoked, err := primary.IsTokenRevoked(ctx, "jti")
	require.NoError(t, err)
	assert.True(t, revoked)
}
