// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Group is one (source, classification) bucket of the aggregated output.
// Groups are always emitted in the fixed enumeration order, including
// zero-count buckets, so the rendered comparison is stable across runs.
type Group struct {
	Source Source         `json:"source" yaml:"source"`
	Class  Classification `json:"classification" yaml:"classification"`
	Count  int            `json:"count" yaml:"count"`

	// Records lists the group members in input order.
	Records []ClassifiedRecord `json:"records" yaml:"records"`
}

// AuthorStat is one row of the citing-author rollup: how many classified
// records an author appears on, and how that author relates to the
// researcher.
type AuthorStat struct {
	ID        string         `json:"id" yaml:"id"`
	Name      string         `json:"name" yaml:"name"`
	Citations int            `json:"citations" yaml:"citations"`
	Class     Classification `json:"classification" yaml:"classification"`

	// ProfileURL links to the author's page at the source.
	ProfileURL string `json:"profile_url,omitempty" yaml:"profile_url,omitempty"`
}

// SourceReport is the complete analysis result for one provider.
type SourceReport struct {
	Source Source `json:"source" yaml:"source"`

	// Researcher is the resolved identity the records were classified
	// against.
	Researcher ResearcherIdentity `json:"researcher" yaml:"researcher"`

	// AnalyzedWorks is the number of the researcher's authored works the
	// citing set was gathered from (after the top-N cut).
	AnalyzedWorks int `json:"analyzed_works" yaml:"analyzed_works"`

	// Skipped counts raw API items dropped as malformed during
	// normalization.
	Skipped int `json:"skipped,omitempty" yaml:"skipped,omitempty"`

	// Groups holds one bucket per classification, in fixed order.
	Groups []Group `json:"groups" yaml:"groups"`

	// TopAuthors is the citing-author rollup, most citations first.
	TopAuthors []AuthorStat `json:"top_authors" yaml:"top_authors"`
}

// TotalRecords returns the number of classified records across all groups.
func (r SourceReport) TotalRecords() int {
	n := 0
	for _, g := range r.Groups {
		n += g.Count
	}
	return n
}

// Count returns the record count for one classification, zero when the
// group is absent.
func (r SourceReport) Count(c Classification) int {
	for _, g := range r.Groups {
		if g.Class == c {
			return g.Count
		}
	}
	return 0
}

// CitationDensity returns citing records per analyzed work, zero when no
// works were analyzed.
func (r SourceReport) CitationDensity() float64 {
	if r.AnalyzedWorks == 0 {
		return 0
	}
	return float64(r.TotalRecords()) / float64(r.AnalyzedWorks)
}

// Report is the full comparison across providers. Sources appear in the
// fixed enumeration order; a provider whose pipeline failed is absent from
// Sources and recorded in SourceErrors instead.
type Report struct {
	Query string `json:"query,omitempty" yaml:"query,omitempty"`

	Sources []SourceReport `json:"sources" yaml:"sources"`

	// SourceErrors lists per-provider failures ("openalex: ...") that did
	// not stop the other provider's pipeline.
	SourceErrors []string `json:"source_errors,omitempty" yaml:"source_errors,omitempty"`
}
