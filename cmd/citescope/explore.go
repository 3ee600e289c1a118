// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/citescope/internal/archive"
	"github.com/pdiddy/citescope/internal/explore"
	"github.com/pdiddy/citescope/pkg/types"
)

var exploreCmd = &cobra.Command{
	Use:   "explore",
	Short: "Classify and compare a researcher's citations",
	Long: `Explore runs the analysis pipeline: it resolves the researcher in each
source, gathers the works citing their most-cited papers, classifies every
citing work as self / collaborator / independent, and renders a per-source
comparison.

Give the researcher by name (--researcher, first match per source) or pin
exact profiles with --openalex-id and --s2-id from "citescope authors".`,
	RunE: runExplore,
}

func runExplore(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()

	req, err := exploreRequest(cmd, cfg.Explore)
	if err != nil {
		return err
	}

	sources, err := sourcesFromFlag(cmd)
	if err != nil {
		return err
	}
	clients := buildClients(cfg, sources)

	report, err := explore.Explore(context.Background(), req, clients, os.Stderr)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		if err := explore.FormatJSON(report, os.Stdout); err != nil {
			return err
		}
	} else {
		explore.FormatTable(report, os.Stdout)
	}

	if save, _ := cmd.Flags().GetBool("save"); save && len(report.Sources) > 0 {
		store, err := archive.Open(cfg.Archive)
		if err != nil {
			return err
		}
		defer store.Close()

		ids, err := store.SaveReport(context.Background(), report)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Saved run(s) %v\n", ids)
	}

	if len(report.Sources) == 0 {
		return fmt.Errorf("all sources failed")
	}
	return nil
}

// exploreRequest builds the pipeline request from flags, with config
// values as fallbacks.
func exploreRequest(cmd *cobra.Command, cfg types.ExploreConfig) (explore.Request, error) {
	query, _ := cmd.Flags().GetString("researcher")
	oaID, _ := cmd.Flags().GetString("openalex-id")
	s2ID, _ := cmd.Flags().GetString("s2-id")

	req := explore.Request{
		Query: query,
		IDs:   map[types.Source]string{},
	}
	if oaID != "" {
		req.IDs[types.SourceOpenAlex] = oaID
	}
	if s2ID != "" {
		req.IDs[types.SourceSemanticScholar] = s2ID
	}
	if req.IsEmpty() {
		return explore.Request{}, fmt.Errorf("provide --researcher, --openalex-id, or --s2-id")
	}

	req.Limit, _ = cmd.Flags().GetInt("limit")
	if req.Limit == 0 {
		req.Limit = cfg.Limit
	}
	req.TopAuthors, _ = cmd.Flags().GetInt("top-authors")
	if req.TopAuthors == 0 {
		req.TopAuthors = cfg.TopAuthors
	}
	if cmd.Flags().Changed("exclude-self") {
		req.ExcludeSelf, _ = cmd.Flags().GetBool("exclude-self")
	} else {
		req.ExcludeSelf = cfg.ExcludeSelf
	}
	return req, nil
}

func init() {
	exploreCmd.Flags().String("researcher", "", "researcher name to resolve in each source")
	exploreCmd.Flags().String("openalex-id", "", "OpenAlex author ID (skips the author search)")
	exploreCmd.Flags().String("s2-id", "", "Semantic Scholar author ID (skips the author search)")
	exploreCmd.Flags().String("source", "all", "sources to analyze (openalex, semantic_scholar, all)")
	exploreCmd.Flags().Int("limit", 0, "analyze the researcher's N most-cited works (default 100)")
	exploreCmd.Flags().Int("top-authors", 0, "citing-author table cutoff (default 50)")
	exploreCmd.Flags().Bool("exclude-self", false, "drop self-citations from listings and the author table")
	exploreCmd.Flags().Bool("json", false, "output the report as JSON")
	exploreCmd.Flags().Bool("save", false, "archive the run for later inspection")

	rootCmd.AddCommand(exploreCmd)
}
