// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package classify

import (
	"reflect"
	"testing"

	"github.com/pdiddy/citescope/pkg/types"
)

func testResearcher() types.ResearcherIdentity {
	return types.ResearcherIdentity{
		ID:        "R1",
		Name:      "Dr. R. One",
		Source:    types.SourceOpenAlex,
		Coauthors: map[string]bool{"A2": true},
	}
}

func record(id string, authorIDs ...string) types.CitationRecord {
	r := types.CitationRecord{ID: id, Source: types.SourceOpenAlex}
	for _, a := range authorIDs {
		r.Authors = append(r.Authors, types.Author{ID: a, Name: "Author " + a})
	}
	return r
}

// --- Classify ---

func TestClassify(t *testing.T) {
	researcher := testResearcher()

	tests := []struct {
		name   string
		record types.CitationRecord
		want   types.Classification
	}{
		{"self citation", record("W1", "R1", "B3"), types.ClassSelf},
		{"collaborator citation", record("W2", "A2", "B3"), types.ClassCollaborator},
		{"independent citation", record("W3", "B3", "C4"), types.ClassIndependent},
		{"empty author list is independent", record("W4"), types.ClassIndependent},
		{"self wins over collaborator", record("W5", "A2", "R1"), types.ClassSelf},
		{"self as sole author", record("W6", "R1"), types.ClassSelf},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.record, researcher); got != tt.want {
				t.Errorf("Classify() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestClassifyNoCoauthors(t *testing.T) {
	researcher := types.ResearcherIdentity{ID: "R1", Source: types.SourceSemanticScholar}

	if got := Classify(record("W1", "A2", "B3"), researcher); got != types.ClassIndependent {
		t.Errorf("without a co-author set classification = %q, want independent", got)
	}
	if got := Classify(record("W2", "R1"), researcher); got != types.ClassSelf {
		t.Errorf("self match should not need a co-author set, got %q", got)
	}
}

func TestClassifyIsPure(t *testing.T) {
	researcher := testResearcher()
	r := record("W1", "A2", "B3")

	first := Classify(r, researcher)
	for i := 0; i < 5; i++ {
		if got := Classify(r, researcher); got != first {
			t.Fatalf("classification changed between calls: %q then %q", first, got)
		}
	}
}

// --- Aggregate ---

func TestAggregateScenario(t *testing.T) {
	researcher := testResearcher()
	records := []types.CitationRecord{
		record("W1", "R1", "B3"),
		record("W2", "A2", "B3"),
		record("W3", "B3", "C4"),
		record("W4"),
	}

	groups := Aggregate(ClassifyAll(records, researcher), types.SourceOpenAlex)

	wantCounts := map[types.Classification]int{
		types.ClassSelf:         1,
		types.ClassCollaborator: 1,
		types.ClassIndependent:  2,
	}
	if len(groups) != 3 {
		t.Fatalf("got %d groups, want 3", len(groups))
	}
	for _, g := range groups {
		if g.Count != wantCounts[g.Class] {
			t.Errorf("%s count = %d, want %d", g.Class, g.Count, wantCounts[g.Class])
		}
		if len(g.Records) != g.Count {
			t.Errorf("%s member list length %d != count %d", g.Class, len(g.Records), g.Count)
		}
	}
}

func TestAggregateFixedOrder(t *testing.T) {
	groups := Aggregate(nil, types.SourceOpenAlex, types.SourceSemanticScholar)

	want := []struct {
		source types.Source
		class  types.Classification
	}{
		{types.SourceOpenAlex, types.ClassSelf},
		{types.SourceOpenAlex, types.ClassCollaborator},
		{types.SourceOpenAlex, types.ClassIndependent},
		{types.SourceSemanticScholar, types.ClassSelf},
		{types.SourceSemanticScholar, types.ClassCollaborator},
		{types.SourceSemanticScholar, types.ClassIndependent},
	}
	if len(groups) != len(want) {
		t.Fatalf("got %d groups, want %d", len(groups), len(want))
	}
	for i, g := range groups {
		if g.Source != want[i].source || g.Class != want[i].class {
			t.Errorf("group %d = (%s, %s), want (%s, %s)", i, g.Source, g.Class, want[i].source, want[i].class)
		}
		if g.Count != 0 || len(g.Records) != 0 {
			t.Errorf("empty input produced non-empty group %d", i)
		}
	}
}

func TestAggregateIsPartition(t *testing.T) {
	researcher := testResearcher()
	records := []types.CitationRecord{
		record("W1", "R1"),
		record("W2", "A2"),
		record("W3", "X9"),
		record("W4", "A2", "R1"),
		record("W5"),
	}

	groups := Aggregate(ClassifyAll(records, researcher), types.SourceOpenAlex)

	seen := make(map[string]int)
	total := 0
	for _, g := range groups {
		total += len(g.Records)
		for _, r := range g.Records {
			seen[r.ID]++
		}
	}
	if total != len(records) {
		t.Errorf("groups hold %d records, want %d", total, len(records))
	}
	for _, r := range records {
		if seen[r.ID] != 1 {
			t.Errorf("record %s appears %d times, want exactly once", r.ID, seen[r.ID])
		}
	}
}

func TestPipelineIdempotent(t *testing.T) {
	researcher := testResearcher()
	records := []types.CitationRecord{
		record("W1", "R1", "B3"),
		record("W2", "A2"),
		record("W3", "C4"),
	}

	run := func() []types.Group {
		return Aggregate(ClassifyAll(records, researcher), types.SourceOpenAlex)
	}
	if !reflect.DeepEqual(run(), run()) {
		t.Error("re-running classification + aggregation changed the output")
	}
}
