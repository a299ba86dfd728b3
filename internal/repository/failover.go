package repository

import (
	"context"
	"sync/atomic"
	"time"

	"kovaidetail/internal/domain"

	"github.com/rs/zerolog"
)

// FailoverSessionStore prefers the primary (Redis) store and degrades to the
// fallback (memory) when the primary errors, probing for recovery once a
// minute.
type FailoverSessionStore struct {
	primary   domain.SessionStore
	fallback  domain.SessionStore
	logger    *zerolog.Logger
	isDown    atomic.Bool
	lastCheck atomic.Int64 // unix nanos of the last failed probe
}

func NewFailoverSessionStore(primary, fallback domain.SessionStore, logger *zerolog.Logger) *FailoverSessionStore {
	return &FailoverSessionStore{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

func (r *FailoverSessionStore) markDown(err error) {
	r.logger.Error().Err(err).Msg("primary session store failed, falling back to memory")
	r.isDown.Store(true)
	r.lastCheck.Store(time.Now().UnixNano())
}

func (r *FailoverSessionStore) shouldProbe() bool {
	return time.Since(time.Unix(0, r.lastCheck.Load())) > time.Minute
}

func (r *FailoverSessionStore) RevokeToken(ctx context.Context, tokenID string, until time.Time) error {
	if !r.isDown.Load() || r.shouldProbe() {
		err := r.primary.RevokeToken(ctx, tokenID, until)
		if err == nil {
			r.isDown.Store(false)
			// Mirror into the fallback so a later redis outage still denies it.
			_ = r.fallback.RevokeToken(ctx, tokenID, until)
			return nil
		}
		r.markDown(err)
	}
	return r.fallback.RevokeToken(ctx, tokenID, until)
}

func (r *FailoverSessionStore) IsTokenRevoked(ctx context.Context, tokenID string) (bool, error) {
	if !r.isDown.Load() || r.shouldProbe() {
		revoked, err := r.primary.IsTokenRevoked(ctx, tokenID)
		if err == nil {
			r.isDown.Store(false)
			return revoked, nil
		}
		r.markDown(err)
	}
	return r.fallback.IsTokenRevoked(ctx, tokenID)
}

func (r *FailoverSessionStore) CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	if !r.isDown.Load() || r.shouldProbe() {
		allowed, err := r.primary.CheckRateLimit(ctx, key, limit, window)
		if err == nil {
			r.isDown.Store(false)
			return allowed, nil
		}
		r.markDown(err)
	}
	return r.fallback.CheckRateLimit(ctx, key, limit, window)
}
