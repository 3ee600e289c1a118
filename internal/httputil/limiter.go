// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"context"
	"net/url"
	"sync"

	"golang.org/x/time/rate"
)

// HostLimiter rate-limits requests per API host. Each host gets its own
// token bucket so throttling on one API never slows the other.
type HostLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	perSec   rate.Limit
	burst    int
}

// NewHostLimiter creates a limiter allowing requestsPerSecond per host.
// Burst below 1 is raised to 1.
func NewHostLimiter(requestsPerSecond float64, burst int) *HostLimiter {
	if burst < 1 {
		burst = 1
	}
	return &HostLimiter{
		limiters: make(map[string]*rate.Limiter),
		perSec:   rate.Limit(requestsPerSecond),
		burst:    burst,
	}
}

// Wait blocks until a request to rawURL's host is allowed, or the context
// is cancelled.
func (l *HostLimiter) Wait(ctx context.Context, rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return err
	}
	return l.limiter(u.Host).Wait(ctx)
}

func (l *HostLimiter) limiter(host string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	lim, ok := l.limiters[host]
	if !ok {
		lim = rate.NewLimiter(l.perSec, l.burst)
		l.limiters[host] = lim
	}
	return lim
}
