// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package classify

import "github.com/pdiddy/citescope/pkg/types"

// Aggregate groups classified records by (source, classification). Every
// source in sources gets a bucket for each classification in the fixed
// order Self, Collaborator, Independent, including zero-count buckets, so
// empty input still yields a complete, all-zero grouping. Sources not
// listed but present in the records are appended in enumeration order.
//
// The grouping is a partition: each record lands in exactly one bucket,
// in input order.
func Aggregate(records []types.ClassifiedRecord, sources ...types.Source) []types.Group {
	wanted := make(map[types.Source]bool, len(sources))
	for _, s := range sources {
		wanted[s] = true
	}
	for _, r := range records {
		wanted[r.Source] = true
	}

	var groups []types.Group
	index := make(map[types.Source]map[types.Classification]int)
	for _, s := range types.Sources() {
		if !wanted[s] {
			continue
		}
		index[s] = make(map[types.Classification]int)
		for _, c := range types.Classifications() {
			index[s][c] = len(groups)
			groups = append(groups, types.Group{Source: s, Class: c})
		}
	}

	for _, r := range records {
		i := index[r.Source][r.Classification]
		groups[i].Count++
		groups[i].Records = append(groups[i].Records, r)
	}
	return groups
}
