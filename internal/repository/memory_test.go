package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemorySessionStore_RevokeToken(t *testing.T) {
	store := NewMemorySessionStore()
	ctx := context.Background()

	revoked, err := store.IsTokenRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, store.RevokeToken(ctx, "jti-1", time.Now().Add(time.Hour)))

	revoked, err = store.IsTokenRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)
}

func TestMemorySessionStore_ExpiredRevocation(t *testing.T) {
	store := NewMemorySessionStore()
	ctx := context.Background()

	// A revocation whose deadline already passed never denies.
	require.NoError(t, store.RevokeToken(ctx, "jti-old", time.Now().Add(-time.Second)))
	revoked, err := store.IsTokenRevoked(ctx, "jti-old")
	require.NoError(t, err)
	assert.False(t, revoked)

	// One stored directly with a past deadline is dropped on read.
	store.revoked.Store("jti-stale", time.Now().Add(-time.Second))
	revoked, err = store.IsTokenRevoked(ctx, "jti-stale")
	require.NoError(t, err)
	assert.False(t, revoked)
	_, ok := store.revoked.Load("jti-stale")
	assert.False(t, ok)
}

func TestMemorySessionStore_RateLimit(t *testing.T) {
	store := NewMemorySessionStore()
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		allowed, err := store.CheckRateLimit(ctx, "ip", 2, time.Minute)
		require.NoError(t, err)
		assert.True(t, allowed)
	}

	allowed, err := store.CheckRateLimit(ctx, "ip", 2, time.Minute)
	require.NoError(t, err)
	assert.False(t, allowed)

	allowed, err = store.CheckRateLimit(ctx, "other", 2, time.Minute)
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestMemorySessionStore_RateLimitConcurrent(t *testing.T) {
	store := NewMemorySessionStore()
	ctx := context.Background()

	const workers = 20
	allowedCount := make(chan bool, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			allowed, err := store.CheckRateLimit(ctx, "ip", 5, time.Minute)
			assert.NoError(t, err)
			allowedCount <- allowed
		}()
	}
	wg.Wait()
	close(allowedCount)

	var granted int
	for allowed := range allowedCount {
		if allowed {
			granted++
		}
	}
	assert.Equal(t, 5, granted)
}
