package repository

import (
	"context"
	"sync/atomic"
	"time"

	"hotelops/internal/domain"

	"github.com/rs/zerolog"
)

// FailoverHitCounter prefers the redis counter and falls back to the
// memory counter while redis is down, re-probing once a minute.
type FailoverHitCounter struct {
	primary   domain.HitCounter
	fallback  domain.HitCounter
	logger    *zerolog.Logger
	isDown    atomic.Bool
	lastCheck atomic.Int64 // unix nanos of the last failed probe
}

func NewFailoverHitCounter(primary, fallback domain.HitCounter, logger *zerolog.Logger) *FailoverHitCounter {
	return &FailoverHitCounter{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

func (r *FailoverHitCounter) CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	if !r.isDown.Load() {
		allowed, err := r.primary.CheckRateLimit(ctx, key, limit, window)
		if err == nil {
			return allowed, nil
		}
		r.logger.Error().Err(err).Msg("primary hit counter failed, falling back to memory")
		r.isDown.Store(true)
		r.lastCheck.Store(time.Now().UnixNano())
	}

	// Try to recover after a minute.
	if r.isDown.Load() && time.Since(time.Unix(0, r.lastCheck.Load())) > time.Minute {
		allowed, err := r.primary.CheckRateLimit(ctx, key, limit, window)
		if err == nil {
			r.isDown.Store(false)
			return allowed, nil
		}
		r.lastCheck.Store(time.Now().UnixNano())
	}

	return r.fallback.CheckRateLimit(ctx, key, limit, window)
}
