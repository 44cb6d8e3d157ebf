package users

import (
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

const (
	defaultProfileCacheSize = 10000
	defaultProfileCacheTTL  = 5 * time.Minute
)

// ProfileCache holds recently projected profiles. Profiles change rarely and
// every listing attaches them, so a short TTL keeps list queries cheap.
type ProfileCache struct {
	lru *expirable.LRU[uuid.UUID, Profile]
}

// NewProfileCache creates a cache. Non-positive size or ttl use the defaults.
func NewProfileCache(size int, ttl time.Duration) *ProfileCache {
	if size <= 0 {
		size = defaultProfileCacheSize
	}
	if ttl <= 0 {
		ttl = defaultProfileCacheTTL
	}
	return &ProfileCache{lru: expirable.NewLRU[uuid.UUID, Profile](size, nil, ttl)}
}

// Get returns a cached profile
func (c *ProfileCache) Get(id uuid.UUID) (Profile, bool) {
	if c == nil {
		return Profile{}, false
	}
	return c.lru.Get(id)
}

// Add caches p
func (c *ProfileCache) Add(p Profile) {
	if c == nil {
		return
	}
	c.lru.Add(p.ID, p)
}

// Len returns the number of cached profiles
func (c *ProfileCache) Len() int {
	if c == nil {
		return 0
	}
	return c.lru.Len()
}
