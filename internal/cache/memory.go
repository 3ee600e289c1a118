// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Memory is an in-memory Cache with per-entry TTL.
type Memory struct {
	cache *gocache.Cache
}

// NewMemory creates a memory cache. Entries default to defaultTTL and
// expired entries are purged every cleanupInterval.
func NewMemory(defaultTTL, cleanupInterval time.Duration) *Memory {
	return &Memory{cache: gocache.New(defaultTTL, cleanupInterval)}
}

// Get retrieves a cached response body.
func (m *Memory) Get(key string) ([]byte, bool) {
	if v, ok := m.cache.Get(key); ok {
		return v.([]byte), true
	}
	return nil, false
}

// Set stores a response body with the given TTL.
func (m *Memory) Set(key string, value []byte, ttl time.Duration) {
	m.cache.Set(key, value, ttl)
}
