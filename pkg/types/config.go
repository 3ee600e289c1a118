// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by the source clients.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "citescope/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// SourceConfig holds settings for the bibliographic API clients.
type SourceConfig struct {
	HTTPConfig `yaml:",inline"`

	// OpenAlexEmail is sent as the mailto parameter for access to the
	// OpenAlex polite pool.
	OpenAlexEmail string `json:"openalex_email,omitempty" yaml:"openalex_email,omitempty"`

	// SemanticScholarAPIKey is an optional API key for higher rate limits.
	SemanticScholarAPIKey string `json:"semantic_scholar_api_key,omitempty" yaml:"semantic_scholar_api_key,omitempty"`

	// RequestsPerSecond caps the request rate per API host (default 5).
	RequestsPerSecond float64 `json:"requests_per_second" yaml:"requests_per_second"`

	// MaxWorksPages caps cursor pagination when listing a researcher's
	// authored works (default 25 pages of 200, i.e. 5000 works).
	MaxWorksPages int `json:"max_works_pages" yaml:"max_works_pages"`
}

// ExploreConfig holds settings for the analysis pipeline.
type ExploreConfig struct {
	// Limit is the number of a researcher's most-cited works to analyze
	// (default 100).
	Limit int `json:"limit" yaml:"limit"`

	// TopAuthors is the citing-author table cutoff (default 50).
	TopAuthors int `json:"top_authors" yaml:"top_authors"`

	// ExcludeSelf drops self-citations from listings and the author
	// rollup. Group counts still report them.
	ExcludeSelf bool `json:"exclude_self" yaml:"exclude_self"`
}

// CacheConfig holds settings for the in-process API response cache.
type CacheConfig struct {
	// TTL is how long a cached response stays valid (default 15m).
	TTL time.Duration `json:"ttl" yaml:"ttl"`

	// Disabled turns response caching off entirely.
	Disabled bool `json:"disabled" yaml:"disabled"`
}

// ArchiveConfig holds settings for the run archive.
type ArchiveConfig struct {
	// Dir is the directory holding the archive database (default
	// ".citescope").
	Dir string `json:"dir" yaml:"dir"`
}

// Config groups all component configurations.
type Config struct {
	Source  SourceConfig  `json:"source" yaml:"source"`
	Explore ExploreConfig `json:"explore" yaml:"explore"`
	Cache   CacheConfig   `json:"cache" yaml:"cache"`
	Archive ArchiveConfig `json:"archive" yaml:"archive"`
}
