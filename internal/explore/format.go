// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package explore

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/pdiddy/citescope/pkg/types"
)

// listingCap bounds how many member records print per group in table
// output. JSON output always carries the full lists.
const listingCap = 15

// FormatTable writes the comparison report as human-readable sections,
// one per source, to w.
func FormatTable(report types.Report, w io.Writer) {
	for i, sr := range report.Sources {
		if i > 0 {
			fmt.Fprintln(w)
		}
		formatSource(sr, w)
	}

	if len(report.Sources) == 0 && len(report.SourceErrors) == 0 {
		fmt.Fprintln(w, "No results.")
	}
	for _, e := range report.SourceErrors {
		fmt.Fprintf(w, "failed: %s\n", e)
	}
}

func formatSource(sr types.SourceReport, w io.Writer) {
	fmt.Fprintf(w, "=== %s ===\n", sourceLabel(sr.Source))
	fmt.Fprintf(w, "Researcher: %s (%s), %d known co-authors\n",
		sr.Researcher.Name, sr.Researcher.ID, len(sr.Researcher.Coauthors))

	total := sr.TotalRecords()
	fmt.Fprintf(w, "Analyzed works: %d   Citing works: %d   Density: %.1f\n",
		sr.AnalyzedWorks, total, sr.CitationDensity())

	for _, c := range types.Classifications() {
		n := sr.Count(c)
		pct := 0.0
		if total > 0 {
			pct = float64(n) / float64(total) * 100
		}
		fmt.Fprintf(w, "  %-14s %6d  (%5.1f%%)\n", classLabel(c)+":", n, pct)
	}
	if sr.Skipped > 0 {
		fmt.Fprintf(w, "  (%d malformed items skipped)\n", sr.Skipped)
	}

	for _, g := range sr.Groups {
		if len(g.Records) == 0 {
			continue
		}
		fmt.Fprintf(w, "\n%s citations:\n", classLabel(g.Class))
		for i, r := range g.Records {
			if i == listingCap {
				fmt.Fprintf(w, "  ... and %d more\n", len(g.Records)-listingCap)
				break
			}
			fmt.Fprintf(w, "  %-70s  %-4s  %s\n", truncate(title(r), 70), year(r), r.Link)
		}
	}

	if len(sr.TopAuthors) > 0 {
		fmt.Fprintf(w, "\nTop citing authors:\n")
		fmt.Fprintf(w, "  %-4s  %-30s  %-9s  %-12s  %s\n", "Rank", "Author", "Citations", "Relation", "Profile")
		fmt.Fprintf(w, "  %s\n", strings.Repeat("-", 90))
		for i, a := range sr.TopAuthors {
			fmt.Fprintf(w, "  %-4d  %-30s  %-9d  %-12s  %s\n",
				i+1, truncate(a.Name, 30), a.Citations, classLabel(a.Class), a.ProfileURL)
		}
	}
}

// FormatJSON writes the full report as indented JSON to w.
func FormatJSON(report types.Report, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

func sourceLabel(s types.Source) string {
	switch s {
	case types.SourceOpenAlex:
		return "OpenAlex"
	case types.SourceSemanticScholar:
		return "Semantic Scholar"
	default:
		return string(s)
	}
}

func classLabel(c types.Classification) string {
	switch c {
	case types.ClassSelf:
		return "Self"
	case types.ClassCollaborator:
		return "Collaborator"
	case types.ClassIndependent:
		return "Independent"
	default:
		return string(c)
	}
}

func title(r types.ClassifiedRecord) string {
	if r.Title != "" {
		return r.Title
	}
	return r.ID
}

func year(r types.ClassifiedRecord) string {
	if r.Year == 0 {
		return ""
	}
	return fmt.Sprintf("%d", r.Year)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
