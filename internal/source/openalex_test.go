// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/pdiddy/citescope/pkg/types"
)

func testSourceCfg() types.SourceConfig {
	return types.SourceConfig{
		HTTPConfig: types.HTTPConfig{
			UserAgent: "citescope-test/0.1",
		},
		OpenAlexEmail:     "test@example.com",
		RequestsPerSecond: 1000,
	}
}

func withOpenAlexServer(t *testing.T, handler http.HandlerFunc) *OpenAlex {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	old := openAlexAPIBase
	openAlexAPIBase = ts.URL
	t.Cleanup(func() { openAlexAPIBase = old })

	return NewOpenAlex(testSourceCfg(), types.CacheConfig{})
}

// --- trimOpenAlexID ---

func TestTrimOpenAlexID(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"https://openalex.org/A5023888391", "A5023888391"},
		{"A5023888391", "A5023888391"},
		{"https://openalex.org/W2741809807", "W2741809807"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := trimOpenAlexID(tt.in); got != tt.want {
			t.Errorf("trimOpenAlexID(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

// --- normalizeOpenAlexWork ---

func TestNormalizeOpenAlexWork(t *testing.T) {
	authorships := func(ids ...string) *[]oaAuthorship {
		var as []oaAuthorship
		for _, id := range ids {
			as = append(as, oaAuthorship{Author: oaWorkAuthor{ID: id, DisplayName: "N " + id}})
		}
		if as == nil {
			as = []oaAuthorship{}
		}
		return &as
	}

	t.Run("full record", func(t *testing.T) {
		record, err := normalizeOpenAlexWork(oaWork{
			ID:              "https://openalex.org/W1",
			Title:           "A Paper",
			PublicationYear: 2021,
			Authorships:     authorships("https://openalex.org/A1", "A2"),
		})
		if err != nil {
			t.Fatal(err)
		}
		if record.ID != "W1" || record.Year != 2021 || record.Source != types.SourceOpenAlex {
			t.Errorf("record = %+v", record)
		}
		if len(record.Authors) != 2 || record.Authors[0].ID != "A1" || record.Authors[1].ID != "A2" {
			t.Errorf("authors not normalized: %+v", record.Authors)
		}
		if record.Link != "https://openalex.org/W1" {
			t.Errorf("link = %q", record.Link)
		}
	})

	t.Run("missing id is malformed", func(t *testing.T) {
		_, err := normalizeOpenAlexWork(oaWork{Authorships: authorships("A1")})
		if !errors.Is(err, ErrMalformedRecord) {
			t.Errorf("err = %v, want ErrMalformedRecord", err)
		}
	})

	t.Run("absent authorships is malformed", func(t *testing.T) {
		_, err := normalizeOpenAlexWork(oaWork{ID: "W1"})
		if !errors.Is(err, ErrMalformedRecord) {
			t.Errorf("err = %v, want ErrMalformedRecord", err)
		}
	})

	t.Run("empty authorships is a valid record", func(t *testing.T) {
		record, err := normalizeOpenAlexWork(oaWork{ID: "W1", Authorships: authorships()})
		if err != nil {
			t.Fatal(err)
		}
		if len(record.Authors) != 0 {
			t.Errorf("authors = %+v, want none", record.Authors)
		}
	})

	t.Run("authors without id are dropped", func(t *testing.T) {
		as := []oaAuthorship{
			{Author: oaWorkAuthor{ID: "", DisplayName: "Anonymous"}},
			{Author: oaWorkAuthor{ID: "A1", DisplayName: "Named"}},
		}
		record, err := normalizeOpenAlexWork(oaWork{ID: "W1", Authorships: &as})
		if err != nil {
			t.Fatal(err)
		}
		if len(record.Authors) != 1 || record.Authors[0].ID != "A1" {
			t.Errorf("authors = %+v", record.Authors)
		}
	})
}

// --- ResolveResearcher ---

const sampleOpenAlexAuthorsJSON = `{
  "results": [
    {
      "id": "https://openalex.org/A1",
      "display_name": "Ada Lovelace",
      "cited_by_count": 900,
      "last_known_institution": {"display_name": "Analytical Engine Institute"}
    },
    {
      "id": "https://openalex.org/A2",
      "display_name": "Ada L.",
      "cited_by_count": 12,
      "affiliations": [{"institution": {"display_name": "Somewhere"}}]
    },
    {
      "id": "https://openalex.org/A3",
      "display_name": "A. Lovelace",
      "cited_by_count": 3
    }
  ]
}`

func TestOpenAlexResolveResearcher(t *testing.T) {
	var gotPath, gotQuery string
	c := withOpenAlexServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query().Get("search")
		fmt.Fprint(w, sampleOpenAlexAuthorsJSON)
	})

	candidates, err := c.ResolveResearcher(context.Background(), "Ada Lovelace")
	if err != nil {
		t.Fatal(err)
	}

	if gotPath != "/authors" || gotQuery != "Ada Lovelace" {
		t.Errorf("request = %s?search=%s", gotPath, gotQuery)
	}
	if len(candidates) != 3 {
		t.Fatalf("got %d candidates, want 3", len(candidates))
	}
	if candidates[0].ID != "A1" {
		t.Errorf("ID not trimmed: %q", candidates[0].ID)
	}
	if candidates[0].Affiliation != "Analytical Engine Institute" {
		t.Errorf("affiliation = %q", candidates[0].Affiliation)
	}
	if candidates[1].Affiliation != "Somewhere" {
		t.Errorf("affiliation fallback = %q", candidates[1].Affiliation)
	}
	if candidates[2].Affiliation != "Unknown" {
		t.Errorf("missing affiliation = %q, want Unknown", candidates[2].Affiliation)
	}
}

func TestOpenAlexResolveResearcherNotFound(t *testing.T) {
	c := withOpenAlexServer(t, func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"results": []}`)
	})

	_, err := c.ResolveResearcher(context.Background(), "Nobody At All")
	if !errors.Is(err, ErrResearcherNotFound) {
		t.Errorf("err = %v, want ErrResearcherNotFound", err)
	}
}

func TestOpenAlexResolveResearcherHTTPError(t *testing.T) {
	c := withOpenAlexServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := c.ResolveResearcher(context.Background(), "x")
	if err == nil || !strings.Contains(err.Error(), "503") {
		t.Errorf("err = %v, want HTTP 503", err)
	}
}

// --- Citations ---

// openAlexFixture serves an author's works and the works citing them.
func openAlexFixture(t *testing.T) http.HandlerFunc {
	t.Helper()

	authoredPage1 := `{
	  "meta": {"next_cursor": "page2"},
	  "results": [
	    {"id": "https://openalex.org/W10", "title": "First", "cited_by_count": 50,
	     "authorships": [{"author": {"id": "https://openalex.org/R1", "display_name": "Self"}},
	                     {"author": {"id": "https://openalex.org/A2", "display_name": "Friend"}}]}
	  ]
	}`
	authoredPage2 := `{
	  "meta": {"next_cursor": null},
	  "results": [
	    {"id": "https://openalex.org/W11", "title": "Second", "cited_by_count": 80,
	     "authorships": [{"author": {"id": "https://openalex.org/R1", "display_name": "Self"}},
	                     {"author": {"id": "https://openalex.org/A7", "display_name": "Other Friend"}}]}
	  ]
	}`
	citing := `{
	  "meta": {"next_cursor": null},
	  "results": [
	    {"id": "https://openalex.org/W100", "title": "Cites both", "publication_year": 2023,
	     "authorships": [{"author": {"id": "https://openalex.org/R1", "display_name": "Self"}}]},
	    {"id": "https://openalex.org/W101", "title": "Friendly cite", "publication_year": 2024,
	     "authorships": [{"author": {"id": "https://openalex.org/A2", "display_name": "Friend"}}]},
	    {"id": "https://openalex.org/W102", "title": "Stranger cite",
	     "authorships": [{"author": {"id": "https://openalex.org/B9", "display_name": "Stranger"}}]},
	    {"id": "https://openalex.org/W103", "title": "Broken cite"},
	    {"title": "No id at all", "authorships": []}
	  ]
	}`

	return func(w http.ResponseWriter, r *http.Request) {
		filter := r.URL.Query().Get("filter")
		switch {
		case strings.HasPrefix(filter, "author.id:"):
			if r.URL.Query().Get("cursor") == "page2" {
				fmt.Fprint(w, authoredPage2)
			} else {
				fmt.Fprint(w, authoredPage1)
			}
		case strings.HasPrefix(filter, "cites:"):
			fmt.Fprint(w, citing)
		default:
			t.Errorf("unexpected filter %q", filter)
			http.Error(w, "bad filter", http.StatusBadRequest)
		}
	}
}

func TestOpenAlexCitations(t *testing.T) {
	c := withOpenAlexServer(t, openAlexFixture(t))

	set, err := c.Citations(context.Background(),
		Candidate{ID: "https://openalex.org/R1", Name: "Self", Source: types.SourceOpenAlex},
		FetchOptions{Limit: 10})
	if err != nil {
		t.Fatal(err)
	}

	if set.Researcher.ID != "R1" {
		t.Errorf("researcher ID = %q, want trimmed R1", set.Researcher.ID)
	}
	if set.AnalyzedWorks != 2 {
		t.Errorf("analyzed works = %d, want 2", set.AnalyzedWorks)
	}

	// Co-authors come from both pages of the works list, never the self ID.
	want := map[string]bool{"A2": true, "A7": true}
	if len(set.Researcher.Coauthors) != len(want) {
		t.Errorf("coauthors = %v, want %v", set.Researcher.Coauthors, want)
	}
	for id := range want {
		if !set.Researcher.Coauthors[id] {
			t.Errorf("coauthor %s missing", id)
		}
	}
	if set.Researcher.Coauthors["R1"] {
		t.Error("self ID leaked into the co-author set")
	}

	// W103 has no authorships and the last item no ID: both skipped.
	if set.Skipped != 2 {
		t.Errorf("skipped = %d, want 2", set.Skipped)
	}
	if len(set.Records) != 3 {
		t.Fatalf("got %d records, want 3: %+v", len(set.Records), set.Records)
	}
	for _, r := range set.Records {
		if strings.HasPrefix(r.ID, "https://") {
			t.Errorf("record ID not trimmed: %q", r.ID)
		}
		if r.Source != types.SourceOpenAlex {
			t.Errorf("record source = %q", r.Source)
		}
	}
}

func TestOpenAlexCitationsLimit(t *testing.T) {
	c := withOpenAlexServer(t, openAlexFixture(t))

	set, err := c.Citations(context.Background(),
		Candidate{ID: "R1", Source: types.SourceOpenAlex}, FetchOptions{Limit: 1})
	if err != nil {
		t.Fatal(err)
	}
	// Only the most-cited work (W11, 80 citations) is analyzed.
	if set.AnalyzedWorks != 1 {
		t.Errorf("analyzed works = %d, want 1", set.AnalyzedWorks)
	}
	// The co-author set still uses the full works list.
	if !set.Researcher.Coauthors["A2"] || !set.Researcher.Coauthors["A7"] {
		t.Errorf("coauthors = %v", set.Researcher.Coauthors)
	}
}

func TestOpenAlexCitationsChunksAndDedups(t *testing.T) {
	var citesCalls int32
	works := `{"meta": {"next_cursor": null}, "results": [`
	for i := 0; i < openAlexCitesChunk+1; i++ {
		if i > 0 {
			works += ","
		}
		works += fmt.Sprintf(
			`{"id": "https://openalex.org/W%d", "cited_by_count": 1, "authorships": []}`, i)
	}
	works += `]}`

	// Every chunk returns the same citing work: it must appear once.
	citing := `{"meta": {"next_cursor": null}, "results": [
	  {"id": "https://openalex.org/W900", "title": "Repeat", "authorships": []}
	]}`

	c := withOpenAlexServer(t, func(w http.ResponseWriter, r *http.Request) {
		filter := r.URL.Query().Get("filter")
		if strings.HasPrefix(filter, "cites:") {
			atomic.AddInt32(&citesCalls, 1)
			if n := strings.Count(filter, "|") + 1; n > openAlexCitesChunk {
				t.Errorf("chunk carries %d IDs, cap is %d", n, openAlexCitesChunk)
			}
			fmt.Fprint(w, citing)
			return
		}
		fmt.Fprint(w, works)
	})

	set, err := c.Citations(context.Background(),
		Candidate{ID: "R1", Source: types.SourceOpenAlex}, FetchOptions{Limit: 200})
	if err != nil {
		t.Fatal(err)
	}
	if got := atomic.LoadInt32(&citesCalls); got != 2 {
		t.Errorf("cites queries = %d, want 2 (26 IDs in chunks of 25)", got)
	}
	if len(set.Records) != 1 {
		t.Errorf("got %d records, want 1 after dedup", len(set.Records))
	}
}

func TestOpenAlexCachesResponses(t *testing.T) {
	var calls int32
	c := withOpenAlexServer(t, func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		fmt.Fprint(w, sampleOpenAlexAuthorsJSON)
	})

	for i := 0; i < 3; i++ {
		if _, err := c.ResolveResearcher(context.Background(), "Ada Lovelace"); err != nil {
			t.Fatal(err)
		}
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("server saw %d calls, want 1 (cache hit)", got)
	}
}
