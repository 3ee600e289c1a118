// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/viper"

	"github.com/pdiddy/citescope/internal/source"
	"github.com/pdiddy/citescope/pkg/types"
)

// loadConfig assembles the full configuration from the config file and
// environment, filling credentials from .secrets/ when the file has none.
func loadConfig() types.Config {
	var cfg types.Config

	cfg.Source.Timeout = viper.GetDuration("source.timeout")
	cfg.Source.UserAgent = viper.GetString("source.user_agent")
	if cfg.Source.UserAgent == "" {
		cfg.Source.UserAgent = "citescope/" + version
	}
	cfg.Source.RequestsPerSecond = viper.GetFloat64("source.requests_per_second")
	cfg.Source.MaxWorksPages = viper.GetInt("source.max_works_pages")
	cfg.Source.OpenAlexEmail = secretDefault("openalex-email", viper.GetString("source.openalex_email"))
	cfg.Source.SemanticScholarAPIKey = secretDefault("semantic-scholar-api-key", viper.GetString("source.semantic_scholar_api_key"))

	cfg.Explore.Limit = viper.GetInt("explore.limit")
	cfg.Explore.TopAuthors = viper.GetInt("explore.top_authors")
	cfg.Explore.ExcludeSelf = viper.GetBool("explore.exclude_self")

	cfg.Cache.TTL = viper.GetDuration("cache.ttl")
	cfg.Cache.Disabled = viper.GetBool("cache.disabled")

	cfg.Archive.Dir = viper.GetString("archive.dir")

	return cfg
}

// buildClients constructs the provider clients, restricted to want when
// non-empty.
func buildClients(cfg types.Config, want []types.Source) []source.Client {
	enabled := make(map[types.Source]bool)
	for _, s := range want {
		enabled[s] = true
	}

	var clients []source.Client
	for _, s := range types.Sources() {
		if len(want) > 0 && !enabled[s] {
			continue
		}
		switch s {
		case types.SourceOpenAlex:
			clients = append(clients, source.NewOpenAlex(cfg.Source, cfg.Cache))
		case types.SourceSemanticScholar:
			clients = append(clients, source.NewSemanticScholar(cfg.Source, cfg.Cache))
		}
	}
	return clients
}
