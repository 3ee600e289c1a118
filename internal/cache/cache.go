// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package cache provides an in-process cache for raw API responses so
// repeated lookups within one invocation do not re-fetch.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache stores raw response bodies keyed by request URL.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration)
}

// Key derives a cache key from a request URL.
func Key(url string) string {
	sum := sha256.Sum256([]byte(url))
	return "citescope:v1:" + hex.EncodeToString(sum[:])
}

// None is a Cache that stores nothing, used when caching is disabled.
type None struct{}

func (None) Get(string) ([]byte, bool)         { return nil, false }
func (None) Set(string, []byte, time.Duration) {}
