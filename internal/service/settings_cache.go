package service

import (
	"context"
	"sync"
	"time"

	"github.com/mbruno/notekeep-website/internal/domain"
	"github.com/mbruno/notekeep-website/internal/repository"
)

// SettingsCacheTTL bounds how stale a process-local copy of the settings
// singleton may get. In a horizontally scaled deployment each instance may
// serve a value up to this old.
const SettingsCacheTTL = 5 * time.Minute

// SettingsCache is a read-through cache over the settings singleton. A
// refresh replaces the cached value wholesale; concurrent refreshes are
// harmless because every refresh produces an interchangeable value and the
// last write wins.
type SettingsCache struct {
	repo repository.SettingsRepository
	ttl  time.Duration

	// Clock is swapped in tests to drive TTL expiry deterministically.
	Clock func() time.Time

	mu       sync.RWMutex
	value    *domain.GlobalSettings
	loadedAt time.Time
}

func NewSettingsCache(repo repository.SettingsRepository, ttl time.Duration) *SettingsCache {
	if ttl <= 0 {
		ttl = SettingsCacheTTL
	}
	return &SettingsCache{
		repo:  repo,
		ttl:   ttl,
		Clock: time.Now,
	}
}

// Get returns the cached settings, re-reading the store when the cache is
// empty, stale, or force is set. Returns (nil, nil) when no settings row has
// been seeded yet.
func (c *SettingsCache) Get(ctx context.Context, force bool) (*domain.GlobalSettings, error) {
	now := c.Clock()

	if !force {
		c.mu.RLock()
		value, loadedAt := c.value, c.loadedAt
		c.mu.RUnlock()
		if value != nil && now.Sub(loadedAt) < c.ttl {
			return value, nil
		}
	}

	settings, err := c.repo.Get(ctx)
	if err != nil {
		return nil, err
	}
	if settings == nil {
		return nil, nil
	}

	c.mu.Lock()
	c.value = settings
	c.loadedAt = now
	c.mu.Unlock()

	return settings, nil
}

// Clear empties the cache; the next Get re-reads the store.
func (c *SettingsCache) Clear() {
	c.mu.Lock()
	c.value = nil
	c.loadedAt = time.Time{}
	c.mu.Unlock()
}
