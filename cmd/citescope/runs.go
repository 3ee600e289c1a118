// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/citescope/internal/archive"
	"github.com/pdiddy/citescope/internal/explore"
	"github.com/pdiddy/citescope/pkg/types"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Inspect archived analysis runs",
	Long: `Runs manages the local archive of saved analyses ("explore --save").
Use subcommands to list archived runs, re-render one, or export it as YAML.`,
}

// --- list subcommand ---

var runsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List archived runs, newest first",
	RunE:  runRunsList,
}

func runRunsList(cmd *cobra.Command, args []string) error {
	store, err := archive.Open(loadConfig().Archive)
	if err != nil {
		return err
	}
	defer store.Close()

	runs, err := store.ListRuns(context.Background())
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("No archived runs.")
		return nil
	}

	fmt.Printf("%-4s  %-16s  %-16s  %-24s  %-5s  %-6s  %-6s  %s\n",
		"ID", "Date", "Source", "Researcher", "Works", "Self", "Collab", "Indep")
	fmt.Println(strings.Repeat("-", 100))
	for _, r := range runs {
		fmt.Printf("%-4d  %-16s  %-16s  %-24s  %-5d  %-6d  %-6d  %d\n",
			r.ID, r.CreatedAt.Format("2006-01-02 15:04"), r.Source,
			r.ResearcherName, r.AnalyzedWorks,
			r.SelfCount, r.CollaboratorCount, r.IndependentCount)
	}
	return nil
}

// --- show subcommand ---

var runsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Re-render one archived run",
	Args:  cobra.ExactArgs(1),
	RunE:  runRunsShow,
}

func runRunsShow(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid run id %q", args[0])
	}

	store, err := archive.Open(loadConfig().Archive)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := context.Background()

	if classFlag, _ := cmd.Flags().GetString("class"); classFlag != "" {
		class := types.Classification(classFlag)
		records, err := store.Records(ctx, id, class)
		if err != nil {
			return err
		}
		for _, r := range records {
			fmt.Printf("%-70s  %-4d  %s\n", r.Title, r.Year, r.Link)
		}
		return nil
	}

	sr, err := store.GetRun(ctx, id)
	if err != nil {
		return err
	}

	report := types.Report{Sources: []types.SourceReport{sr}}
	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		return explore.FormatJSON(report, os.Stdout)
	}
	explore.FormatTable(report, os.Stdout)
	return nil
}

// --- export subcommand ---

var runsExportCmd = &cobra.Command{
	Use:   "export <id>",
	Short: "Export one archived run as YAML",
	Args:  cobra.ExactArgs(1),
	RunE:  runRunsExport,
}

func runRunsExport(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid run id %q", args[0])
	}

	store, err := archive.Open(loadConfig().Archive)
	if err != nil {
		return err
	}
	defer store.Close()

	out := os.Stdout
	if path, _ := cmd.Flags().GetString("output"); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}
	return store.ExportYAML(context.Background(), id, out)
}

func init() {
	runsShowCmd.Flags().Bool("json", false, "output the run as JSON")
	runsShowCmd.Flags().String("class", "", "list only records with this classification (self, collaborator, independent)")
	runsExportCmd.Flags().String("output", "", "write YAML to a file instead of stdout")

	runsCmd.AddCommand(runsListCmd)
	runsCmd.AddCommand(runsShowCmd)
	runsCmd.AddCommand(runsExportCmd)
	rootCmd.AddCommand(runsCmd)
}
