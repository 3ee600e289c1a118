// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package explore runs the citation analysis pipeline: resolve the
// researcher in each source, gather citing works, classify them, and
// aggregate the results into a comparison report. The two sources run
// concurrently and share no state; one source failing never stops the
// other.
package explore

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/pdiddy/citescope/internal/classify"
	"github.com/pdiddy/citescope/internal/source"
	"github.com/pdiddy/citescope/pkg/types"
)

// Request holds the parameters for one analysis run.
type Request struct {
	// Query is the researcher name to resolve. Ignored for a source
	// whose ID is given explicitly.
	Query string

	// IDs maps a source to a pre-resolved researcher identifier,
	// skipping the author search for that source.
	IDs map[types.Source]string

	// Limit is the number of most-cited authored works to analyze
	// (zero: 100).
	Limit int

	// TopAuthors is the citing-author rollup cutoff (zero: 50).
	TopAuthors int

	// ExcludeSelf drops self-citations from listings and the rollup.
	// Group counts still include them.
	ExcludeSelf bool
}

// IsEmpty reports whether the request identifies no researcher at all.
func (r Request) IsEmpty() bool {
	return r.Query == "" && len(r.IDs) == 0
}

// Explore fans the request out to all clients concurrently and collects
// one SourceReport per provider. Provider failures are reported in
// Report.SourceErrors and as warnings on w; they do not abort the run.
func Explore(ctx context.Context, req Request, clients []source.Client, w io.Writer) (types.Report, error) {
	if req.IsEmpty() {
		return types.Report{}, fmt.Errorf("no researcher given: provide a name query or a source ID")
	}
	if len(clients) == 0 {
		return types.Report{}, fmt.Errorf("no sources configured")
	}

	type sourceResult struct {
		report types.SourceReport
		err    error
		name   types.Source
	}

	ch := make(chan sourceResult, len(clients))
	var wg sync.WaitGroup

	for _, c := range clients {
		wg.Add(1)
		go func(c source.Client) {
			defer wg.Done()
			report, err := exploreSource(ctx, req, c)
			ch <- sourceResult{report: report, err: err, name: c.Source()}
		}(c)
	}

	go func() {
		wg.Wait()
		close(ch)
	}()

	report := types.Report{Query: req.Query}
	for sr := range ch {
		if sr.err != nil {
			msg := fmt.Sprintf("%s: %v", sr.name, sr.err)
			report.SourceErrors = append(report.SourceErrors, msg)
			fmt.Fprintf(w, "warning: source %s failed: %v\n", sr.name, sr.err)
			continue
		}
		report.Sources = append(report.Sources, sr.report)
	}

	order := make(map[types.Source]int)
	for i, s := range types.Sources() {
		order[s] = i
	}
	sort.Slice(report.Sources, func(i, j int) bool {
		return order[report.Sources[i].Source] < order[report.Sources[j].Source]
	})
	sort.Strings(report.SourceErrors)

	return report, nil
}

// exploreSource runs the full pipeline for one provider.
func exploreSource(ctx context.Context, req Request, c source.Client) (types.SourceReport, error) {
	researcher, err := resolve(ctx, req, c)
	if err != nil {
		return types.SourceReport{}, err
	}

	set, err := c.Citations(ctx, researcher, source.FetchOptions{Limit: req.Limit})
	if err != nil {
		return types.SourceReport{}, err
	}

	classified := classify.ClassifyAll(set.Records, set.Researcher)
	groups := classify.Aggregate(classified, c.Source())

	// Presentation filter only: the self bucket keeps its count but
	// lists no members.
	if req.ExcludeSelf {
		for i := range groups {
			if groups[i].Class == types.ClassSelf {
				groups[i].Records = nil
			}
		}
	}

	rollup := classify.AuthorRollup(classified, set.Researcher, classify.RollupOptions{
		TopN:        req.TopAuthors,
		ExcludeSelf: req.ExcludeSelf,
		ProfileURL:  profileURL(c.Source()),
	})

	return types.SourceReport{
		Source:        c.Source(),
		Researcher:    set.Researcher,
		AnalyzedWorks: set.AnalyzedWorks,
		Skipped:       set.Skipped,
		Groups:        groups,
		TopAuthors:    rollup,
	}, nil
}

// resolve picks the researcher candidate for one provider: the explicit
// ID when given, otherwise the top author-search match.
func resolve(ctx context.Context, req Request, c source.Client) (source.Candidate, error) {
	if id, ok := req.IDs[c.Source()]; ok && id != "" {
		return source.Candidate{ID: id, Name: req.Query, Source: c.Source()}, nil
	}
	if req.Query == "" {
		return source.Candidate{}, fmt.Errorf("no ID given for %s and no name query to resolve", c.Source())
	}

	candidates, err := c.ResolveResearcher(ctx, req.Query)
	if err != nil {
		return source.Candidate{}, err
	}
	return candidates[0], nil
}

func profileURL(s types.Source) func(string) string {
	switch s {
	case types.SourceOpenAlex:
		return source.OpenAlexProfileURL
	case types.SourceSemanticScholar:
		return source.SemanticProfileURL
	default:
		return nil
	}
}
