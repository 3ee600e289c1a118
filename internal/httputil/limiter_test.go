// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHostLimiter_SeparateBuckets(t *testing.T) {
	l := NewHostLimiter(1, 1)

	ctx := context.Background()

	// First request to each host consumes that host's only token and
	// must not block.
	start := time.Now()
	require.NoError(t, l.Wait(ctx, "https://api.openalex.org/works"))
	require.NoError(t, l.Wait(ctx, "https://api.semanticscholar.org/graph/v1/paper"))
	assert.Less(t, time.Since(start), 500*time.Millisecond)
}

func TestHostLimiter_BlocksSameHost(t *testing.T) {
	l := NewHostLimiter(1000, 1)

	ctx := context.Background()
	require.NoError(t, l.Wait(ctx, "https://api.openalex.org/works"))

	// Bucket is empty; the second call waits for a refill (~1ms at
	// 1000/s), proving requests to one host are serialized.
	start := time.Now()
	require.NoError(t, l.Wait(ctx, "https://api.openalex.org/authors"))
	assert.Greater(t, time.Since(start), time.Duration(0))
}

func TestHostLimiter_CancelledContext(t *testing.T) {
	l := NewHostLimiter(0.001, 1)

	ctx := context.Background()
	require.NoError(t, l.Wait(ctx, "https://api.openalex.org/works"))

	cancelled, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.Error(t, l.Wait(cancelled, "https://api.openalex.org/works"))
}

func TestHostLimiter_BadURL(t *testing.T) {
	l := NewHostLimiter(1, 1)
	assert.Error(t, l.Wait(context.Background(), "://not-a-url"))
}
