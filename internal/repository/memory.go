package repository

import (
	"context"
	"sync"
	"time"

	"shareit/internal/models"
)

// MemoryProjectionCache is the in-process fallback used when Redis is down
// or not configured.
type MemoryProjectionCache struct {
	users sync.Map
	items sync.Map
	ttl   time.Duration
}

type memoryEntry struct {
	value     interface{}
	expiresAt time.Time
}

func NewMemoryProjectionCache(ttl time.Duration) *MemoryProjectionCache {
	return &MemoryProjectionCache{
		ttl: ttl,
	}
}

func (r *MemoryProjectionCache) GetUser(ctx context.Context, id int64) (*models.UserSimple, error) {
	val, ok := r.load(&r.users, id)
	if !ok {
		return nil, nil
	}
	return val.(*models.UserSimple), nil
}

func (r *MemoryProjectionCache) SetUser(ctx context.Context, user *models.UserSimple) error {
	r.store(&r.users, user.ID, user)
	return nil
}

func (r *MemoryProjectionCache) InvalidateUser(ctx context.Context, id int64) error {
	r.users.Delete(id)
	return nil
}

func (r *MemoryProjectionCache) GetItem(ctx context.Context, id int64) (*models.ItemSimple, error) {
	val, ok := r.load(&r.items, id)
	if !ok {
		return nil, nil
	}
	return val.(*models.ItemSimple), nil
}

func (r *MemoryProjectionCache) SetItem(ctx context.Context, item *models.ItemSimple) error {
	r.store(&r.items, item.ID, item)
	return nil
}

func (r *MemoryProjectionCache) InvalidateItem(ctx context.Context, id int64) error {
	r.items.Delete(id)
	return nil
}

func (r *MemoryProjectionCache) load(m *sync.Map, id int64) (interface{}, bool) {
	val, ok := m.Load(id)
	if !ok {
		return nil, false
	}
	entry := val.(*memoryEntry)
	if r.ttl > 0 && time.Now().After(entry.expiresAt) {
		m.Delete(id)
		return nil, false
	}
	return entry.value, true
}

func (r *MemoryProjectionCache) store(m *sync.Map, id int64, value interface{}) {
	m.Store(id, &memoryEntry{
		value:     value,
		expiresAt: time.Now().Add(r.ttl),
	})
}
