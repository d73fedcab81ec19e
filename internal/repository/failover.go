package repository

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"shareit/internal/domain"
	"shareit/internal/models"
)

// FailoverProjectionCache serves from the primary cache and switches to the
// fallback when the primary errors. The primary is retried after a minute.
type FailoverProjectionCache struct {
	primary   domain.ProjectionCache
	fallback  domain.ProjectionCache
	logger    *zerolog.Logger
	isDown    atomic.Bool
	mu        sync.Mutex
	lastCheck time.Time
}

func NewFailoverProjectionCache(primary, fallback domain.ProjectionCache, logger *zerolog.Logger) *FailoverProjectionCache {
	return &FailoverProjectionCache{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

// usePrimary reports whether the primary should be tried for this call.
func (r *FailoverProjectionCache) usePrimary() bool {
	if !r.isDown.Load() {
		return true
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if time.Since(r.lastCheck) > time.Minute {
		r.lastCheck = time.Now()
		return true
	}
	return false
}

func (r *FailoverProjectionCache) markDown(err error) {
	r.logger.Error().Err(err).Msg("Primary projection cache failed, falling back to memory")
	r.isDown.Store(true)
	r.mu.Lock()
	r.lastCheck = time.Now()
	r.mu.Unlock()
}

func (r *FailoverProjectionCache) GetUser(ctx context.Context, id int64) (*models.UserSimple, error) {
	if r.usePrimary() {
		user, err := r.primary.GetUser(ctx, id)
		if err == nil {
			r.isDown.Store(false)
			return user, nil
		}
		r.markDown(err)
	}
	return r.fallback.GetUser(ctx, id)
}

func (r *FailoverProjectionCache) SetUser(ctx context.Context, user *models.UserSimple) error {
	if r.usePrimary() {
		err := r.primary.SetUser(ctx, user)
		if err == nil {
			r.isDown.Store(false)
			return nil
		}
		r.markDown(err)
	}
	return r.fallback.SetUser(ctx, user)
}

func (r *FailoverProjectionCache) InvalidateUser(ctx context.Context, id int64) error {
	if r.usePrimary() {
		err := r.primary.InvalidateUser(ctx, id)
		if err == nil {
			r.isDown.Store(false)
			return r.fallback.InvalidateUser(ctx, id)
		}
		r.markDown(err)
	}
	return r.fallback.InvalidateUser(ctx, id)
}

func (r *FailoverProjectionCache) GetItem(ctx context.Context, id int64) (*models.ItemSimple, error) {
	if r.usePrimary() {
		item, err := r.primary.GetItem(ctx, id)
		if err == nil {
			r.isDown.Store(false)
			return item, nil
		}
		r.markDown(err)
	}
	return r.fallback.GetItem(ctx, id)
}

func (r *FailoverProjectionCache) SetItem(ctx context.Context, item *models.ItemSimple) error {
	if r.usePrimary() {
		err := r.primary.SetItem(ctx, item)
		if err == nil {
			r.isDown.Store(false)
			return nil
		}
		r.markDown(err)
	}
	return r.fallback.SetItem(ctx, item)
}

func (r *FailoverProjectionCache) InvalidateItem(ctx context.Context, id int64) error {
	if r.usePrimary() {
		err := r.primary.InvalidateItem(ctx, id)
		if err == nil {
			r.isDown.Store(false)
			return r.fallback.InvalidateItem(ctx, id)
		}
		r.markDown(err)
	}
	return r.fallback.InvalidateItem(ctx, id)
}
