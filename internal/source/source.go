// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package source queries the bibliographic APIs (OpenAlex, Semantic
// Scholar) and normalizes their payloads into the uniform citation-record
// shape the classifier consumes. Each provider implements Client per the
// Strategy pattern; identifiers never cross a provider boundary.
package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pdiddy/citescope/internal/cache"
	"github.com/pdiddy/citescope/internal/httputil"
	"github.com/pdiddy/citescope/pkg/types"
)

// ErrMalformedRecord marks a raw API item missing its required fields
// (citing-work identifier or author list). Callers skip the item and
// continue the batch.
var ErrMalformedRecord = errors.New("malformed record")

// ErrResearcherNotFound marks an author query that resolved to no
// candidates. It is terminal for one provider only.
var ErrResearcherNotFound = errors.New("researcher not found")

// Candidate is one possible researcher match returned by an author search.
type Candidate struct {
	// ID is the provider-native author identifier.
	ID string `json:"id" yaml:"id"`

	// Name is the author display name.
	Name string `json:"name" yaml:"name"`

	// Affiliation is the author's institution, "Unknown" when the
	// provider has none on file.
	Affiliation string `json:"affiliation" yaml:"affiliation"`

	// CitationCount is the provider's total citation count for the author.
	CitationCount int `json:"citation_count" yaml:"citation_count"`

	Source types.Source `json:"source" yaml:"source"`
}

// FetchOptions bounds a citation fetch.
type FetchOptions struct {
	// Limit is the number of the researcher's most-cited works to gather
	// citations for. Zero means the default of 100.
	Limit int
}

const defaultWorkLimit = 100

func (o FetchOptions) limit() int {
	if o.Limit <= 0 {
		return defaultWorkLimit
	}
	return o.Limit
}

// CitationSet is everything one provider contributes to an analysis run:
// the resolved researcher identity (with co-author set), the normalized
// citing records, and fetch bookkeeping.
type CitationSet struct {
	Researcher    types.ResearcherIdentity
	AnalyzedWorks int
	Records       []types.CitationRecord

	// Skipped counts raw items dropped as malformed.
	Skipped int
}

// Client fetches citation data from one provider.
type Client interface {
	// Source returns the provider this client queries.
	Source() types.Source

	// ResolveResearcher searches the provider for authors matching the
	// query. It returns ErrResearcherNotFound when nothing matches.
	ResolveResearcher(ctx context.Context, query string) ([]Candidate, error)

	// Citations gathers the researcher's authored works, derives the
	// co-author set, and returns the normalized records of every work
	// citing the analyzed subset.
	Citations(ctx context.Context, researcher Candidate, opts FetchOptions) (*CitationSet, error)
}

// doer issues GET requests with rate limiting, 429 retry, and response
// caching, shared by both provider clients.
type doer struct {
	client    *http.Client
	limiter   *httputil.HostLimiter
	cache     cache.Cache
	ttl       time.Duration
	userAgent string
	header    http.Header
}

func newDoer(cfg types.SourceConfig, cacheCfg types.CacheConfig, header http.Header) *doer {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	perSec := cfg.RequestsPerSecond
	if perSec <= 0 {
		perSec = 5
	}
	ttl := cacheCfg.TTL
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	var c cache.Cache = cache.None{}
	if !cacheCfg.Disabled {
		c = cache.NewMemory(ttl, ttl)
	}
	return &doer{
		client:    &http.Client{Timeout: timeout},
		limiter:   httputil.NewHostLimiter(perSec, 2),
		cache:     c,
		ttl:       ttl,
		userAgent: cfg.UserAgent,
		header:    header,
	}
}

// getJSON fetches reqURL and decodes the body into v. Responses are served
// from the cache when present and stored on success.
func (d *doer) getJSON(ctx context.Context, reqURL string, v any) error {
	key := cache.Key(reqURL)
	if body, ok := d.cache.Get(key); ok {
		return json.Unmarshal(body, v)
	}

	if err := d.limiter.Wait(ctx, reqURL); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if d.userAgent != "" {
		req.Header.Set("User-Agent", d.userAgent)
	}
	for k, vals := range d.header {
		for _, val := range vals {
			req.Header.Add(k, val)
		}
	}

	resp, err := httputil.DoWithRetry(ctx, d.client, req, 0)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP %d from %s", resp.StatusCode, req.URL.Host)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	d.cache.Set(key, body, d.ttl)
	return json.Unmarshal(body, v)
}

// coauthorSet collects every author ID appearing across the researcher's
// authored works, excluding the researcher's own ID.
func coauthorSet(works [][]types.Author, selfID string) map[string]bool {
	set := make(map[string]bool)
	for _, authors := range works {
		for _, a := range authors {
			if a.ID != "" && a.ID != selfID {
				set[a.ID] = true
			}
		}
	}
	return set
}
