// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package classify

import (
	"sort"

	"github.com/pdiddy/citescope/pkg/types"
)

// RollupOptions controls the citing-author rollup.
type RollupOptions struct {
	// TopN cuts the rollup to the N most frequent citing authors. Zero
	// means the default of 50.
	TopN int

	// ExcludeSelf drops the researcher's own row.
	ExcludeSelf bool

	// ProfileURL maps an author ID to a browser URL for the source.
	// Optional.
	ProfileURL func(id string) string
}

const defaultTopN = 50

// AuthorRollup counts, per citing author, how many classified records the
// author appears on, labels each author by the classification rules
// (self, co-author, independent), and returns the TopN rows ordered by
// count descending. Ties break by author ID so the output is
// deterministic.
func AuthorRollup(records []types.ClassifiedRecord, researcher types.ResearcherIdentity, opts RollupOptions) []types.AuthorStat {
	topN := opts.TopN
	if topN <= 0 {
		topN = defaultTopN
	}

	byID := make(map[string]*types.AuthorStat)
	for _, r := range records {
		for _, a := range r.Authors {
			if opts.ExcludeSelf && a.ID == researcher.ID {
				continue
			}
			stat, ok := byID[a.ID]
			if !ok {
				stat = &types.AuthorStat{
					ID:    a.ID,
					Name:  a.Name,
					Class: authorClass(a.ID, researcher),
				}
				if opts.ProfileURL != nil {
					stat.ProfileURL = opts.ProfileURL(a.ID)
				}
				byID[a.ID] = stat
			}
			stat.Citations++
		}
	}

	stats := make([]types.AuthorStat, 0, len(byID))
	for _, s := range byID {
		stats = append(stats, *s)
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Citations != stats[j].Citations {
			return stats[i].Citations > stats[j].Citations
		}
		return stats[i].ID < stats[j].ID
	})
	if len(stats) > topN {
		stats = stats[:topN]
	}
	return stats
}

func authorClass(id string, researcher types.ResearcherIdentity) types.Classification {
	switch {
	case id == researcher.ID:
		return types.ClassSelf
	case researcher.IsCoauthor(id):
		return types.ClassCollaborator
	default:
		return types.ClassIndependent
	}
}
