// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/citescope/internal/source"
	"github.com/pdiddy/citescope/pkg/types"
)

var authorsCmd = &cobra.Command{
	Use:   "authors <name>",
	Short: "Find a researcher's profile in each source",
	Long: `Authors searches OpenAlex and Semantic Scholar for researcher profiles
matching a name. Pick the right match per source and pass its ID to
"explore" via --openalex-id / --s2-id; the two sources use unrelated
identifier spaces, so each needs its own.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAuthors,
}

func runAuthors(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")
	cfg := loadConfig()

	sources, err := sourcesFromFlag(cmd)
	if err != nil {
		return err
	}
	clients := buildClients(cfg, sources)

	jsonOutput, _ := cmd.Flags().GetBool("json")
	ctx := context.Background()

	type sourceCandidates struct {
		Source     types.Source       `json:"source"`
		Candidates []source.Candidate `json:"candidates,omitempty"`
		Error      string             `json:"error,omitempty"`
	}

	var out []sourceCandidates
	found := false
	for _, c := range clients {
		candidates, err := c.ResolveResearcher(ctx, query)
		sc := sourceCandidates{Source: c.Source(), Candidates: candidates}
		if err != nil {
			if !errors.Is(err, source.ErrResearcherNotFound) {
				fmt.Fprintf(os.Stderr, "warning: %v\n", err)
			}
			sc.Error = err.Error()
		} else {
			found = true
		}
		out = append(out, sc)
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(out); err != nil {
			return err
		}
	} else {
		for _, sc := range out {
			fmt.Printf("%s:\n", sc.Source)
			if len(sc.Candidates) == 0 {
				fmt.Println("  no matches")
				continue
			}
			for _, c := range sc.Candidates {
				fmt.Printf("  %-14s  %s (%s) - %d citations\n",
					c.ID, c.Name, c.Affiliation, c.CitationCount)
			}
		}
	}

	if !found {
		return fmt.Errorf("no profile found for %q in any source", query)
	}
	return nil
}

// sourcesFromFlag parses the --source flag into a provider list; empty or
// "all" means every provider.
func sourcesFromFlag(cmd *cobra.Command) ([]types.Source, error) {
	raw, _ := cmd.Flags().GetString("source")
	if raw == "" || raw == "all" {
		return nil, nil
	}
	var sources []types.Source
	for _, part := range strings.Split(raw, ",") {
		s, ok := types.ParseSource(strings.TrimSpace(part))
		if !ok {
			return nil, fmt.Errorf("unknown source %q (use openalex, semantic_scholar, or all)", part)
		}
		sources = append(sources, s)
	}
	return sources, nil
}

func init() {
	authorsCmd.Flags().String("source", "all", "sources to search (openalex, semantic_scholar, all)")
	authorsCmd.Flags().Bool("json", false, "output candidates as JSON")

	rootCmd.AddCommand(authorsCmd)
}
