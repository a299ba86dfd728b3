package repository

import (
	"context"
	"sync"
	"time"
)

// MemorySessionStore is the single-process fallback when Redis is absent.
// Revocations are lost on restart, which only shortens a token's denied
// window to its natural expiry.
type MemorySessionStore struct {
	revoked    sync.Map // tokenID -> expiry time.Time
	rateLimits sync.Map
}

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{}
}

func (r *MemorySessionStore) RevokeToken(ctx context.Context, tokenID string, until time.Time) error {
	if time.Now().After(until) {
		return nil
	}
	r.revoked.Store(tokenID, until)
	return nil
}

func (r *MemorySessionStore) IsTokenRevoked(ctx context.Context, tokenID string) (bool, error) {
	val, ok := r.revoked.Load(tokenID)
	if !ok {
		return false, nil
	}
	until := val.(time.Time)
	if time.Now().After(until) {
		r.revoked.Delete(tokenID)
		return false, nil
	}
	return true, nil
}

type rateLimitEntry struct {
	mu        sync.Mutex
	count     int
	expiresAt time.Time
}

func (r *MemorySessionStore) CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	now := time.Now()
	val, _ := r.rateLimits.LoadOrStore(key, &rateLimitEntry{})
	entry := val.(*rateLimitEntry)

	entry.mu.Lock()
	defer entry.mu.Unlock()

	if now.After(entry.expiresAt) {
		entry.count = 1
		entry.expiresAt = now.Add(window)
	} else {
		entry.count++
	}

	return entry.count <= limit, nil
}
