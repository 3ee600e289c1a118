// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sort"

	"github.com/pdiddy/citescope/pkg/types"
)

// semanticAPIBase is the Semantic Scholar Graph API root. Declared as a
// var so tests can substitute an httptest server.
var semanticAPIBase = "https://api.semanticscholar.org/graph/v1"

const (
	semanticSearchFields = "name,affiliations,citationCount,hIndex"
	semanticPaperFields  = "paperId,title,year,citationCount,authors,citations.paperId,citations.title,citations.year,citations.authors"

	// semanticFetchCap bounds the papers request regardless of the
	// analysis limit.
	semanticFetchCap = 500

	semanticProfileBase = "https://www.semanticscholar.org/author/"
	semanticPaperBase   = "https://www.semanticscholar.org/paper/"
)

// SemanticScholar queries the Semantic Scholar Graph API. Citing works
// arrive embedded in the author's papers response, so one request covers
// both the co-author derivation and the citation records.
type SemanticScholar struct {
	d *doer
}

// NewSemanticScholar creates a Semantic Scholar client. An API key lifts
// the shared unauthenticated rate limit.
func NewSemanticScholar(cfg types.SourceConfig, cacheCfg types.CacheConfig) *SemanticScholar {
	var header http.Header
	if cfg.SemanticScholarAPIKey != "" {
		header = http.Header{"X-Api-Key": {cfg.SemanticScholarAPIKey}}
	}
	return &SemanticScholar{d: newDoer(cfg, cacheCfg, header)}
}

// Source returns the provider identifier.
func (c *SemanticScholar) Source() types.Source { return types.SourceSemanticScholar }

// ResolveResearcher searches Semantic Scholar authors by name. Candidates
// are ordered by citation count, most-cited first.
func (c *SemanticScholar) ResolveResearcher(ctx context.Context, query string) ([]Candidate, error) {
	params := url.Values{
		"query":  {query},
		"fields": {semanticSearchFields},
		"limit":  {"10"},
	}

	var ar s2AuthorsResponse
	if err := c.d.getJSON(ctx, semanticAPIBase+"/author/search?"+params.Encode(), &ar); err != nil {
		return nil, fmt.Errorf("Semantic Scholar author search: %w", err)
	}
	if len(ar.Data) == 0 {
		return nil, fmt.Errorf("semantic_scholar: %q: %w", query, ErrResearcherNotFound)
	}

	candidates := make([]Candidate, 0, len(ar.Data))
	for _, a := range ar.Data {
		affiliation := "Unknown"
		if len(a.Affiliations) > 0 && a.Affiliations[0] != "" {
			affiliation = a.Affiliations[0]
		}
		candidates = append(candidates, Candidate{
			ID:            a.AuthorID,
			Name:          a.Name,
			Affiliation:   affiliation,
			CitationCount: a.CitationCount,
			Source:        types.SourceSemanticScholar,
		})
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].CitationCount > candidates[j].CitationCount
	})
	return candidates, nil
}

// Citations fetches the researcher's papers with embedded citing works,
// derives the co-author set from the full paper list, and normalizes the
// citations of the top-cited subset.
func (c *SemanticScholar) Citations(ctx context.Context, researcher Candidate, opts FetchOptions) (*CitationSet, error) {
	limit := opts.limit()
	fetch := limit * 5
	if fetch > semanticFetchCap {
		fetch = semanticFetchCap
	}

	params := url.Values{
		"fields": {semanticPaperFields},
		"limit":  {fmt.Sprintf("%d", fetch)},
	}

	var pr s2PapersResponse
	reqURL := semanticAPIBase + "/author/" + url.PathEscape(researcher.ID) + "/papers?" + params.Encode()
	if err := c.d.getJSON(ctx, reqURL, &pr); err != nil {
		return nil, fmt.Errorf("Semantic Scholar papers query: %w", err)
	}

	var authorLists [][]types.Author
	for _, p := range pr.Data {
		authorLists = append(authorLists, s2Authors(p.Authors))
	}

	papers := pr.Data
	sort.SliceStable(papers, func(i, j int) bool {
		return papers[i].CitationCount > papers[j].CitationCount
	})
	if len(papers) > limit {
		papers = papers[:limit]
	}

	set := &CitationSet{
		Researcher: types.ResearcherIdentity{
			ID:        researcher.ID,
			Name:      researcher.Name,
			Source:    types.SourceSemanticScholar,
			Coauthors: coauthorSet(authorLists, researcher.ID),
		},
		AnalyzedWorks: len(papers),
	}

	seen := make(map[string]bool)
	for _, p := range papers {
		for _, citation := range p.Citations {
			record, err := normalizeSemanticCitation(citation)
			if err != nil {
				set.Skipped++
				continue
			}
			// A work citing several of the researcher's papers is
			// embedded under each of them; count it once.
			if seen[record.ID] {
				continue
			}
			seen[record.ID] = true
			set.Records = append(set.Records, record)
		}
	}
	return set, nil
}

// normalizeSemanticCitation converts a raw embedded citation into the
// uniform citation-record shape. A missing paper ID or absent authors
// field makes the item malformed; an empty authors array does not.
func normalizeSemanticCitation(p s2Paper) (types.CitationRecord, error) {
	if p.PaperID == "" {
		return types.CitationRecord{}, fmt.Errorf("semantic scholar citation without paperId: %w", ErrMalformedRecord)
	}
	if p.Authors == nil {
		return types.CitationRecord{}, fmt.Errorf("semantic scholar citation %s without authors: %w", p.PaperID, ErrMalformedRecord)
	}
	return types.CitationRecord{
		ID:      p.PaperID,
		Title:   p.Title,
		Year:    p.Year,
		Authors: s2Authors(p.Authors),
		Source:  types.SourceSemanticScholar,
		Link:    semanticPaperBase + p.PaperID,
	}, nil
}

func s2Authors(raw *[]s2Author) []types.Author {
	if raw == nil {
		return nil
	}
	var authors []types.Author
	for _, a := range *raw {
		// Authors without an ID cannot be matched; drop them.
		if a.AuthorID == "" {
			continue
		}
		authors = append(authors, types.Author{ID: a.AuthorID, Name: a.Name})
	}
	return authors
}

// SemanticProfileURL returns the browser URL for an author ID.
func SemanticProfileURL(authorID string) string {
	if authorID == "" {
		return ""
	}
	return semanticProfileBase + authorID
}

// Semantic Scholar API JSON structures.
type s2AuthorsResponse struct {
	Data []s2SearchAuthor `json:"data"`
}

type s2SearchAuthor struct {
	AuthorID      string   `json:"authorId"`
	Name          string   `json:"name"`
	Affiliations  []string `json:"affiliations"`
	CitationCount int      `json:"citationCount"`
	HIndex        int      `json:"hIndex"`
}

type s2PapersResponse struct {
	Data []s2Paper `json:"data"`
}

type s2Paper struct {
	PaperID       string `json:"paperId"`
	Title         string `json:"title"`
	Year          int    `json:"year"`
	CitationCount int    `json:"citationCount"`

	// Pointer distinguishes an absent authors field (malformed) from a
	// present-but-empty author list (a valid, independent record).
	Authors *[]s2Author `json:"authors"`

	Citations []s2Paper `json:"citations"`
}

type s2Author struct {
	AuthorID string `json:"authorId"`
	Name     string `json:"name"`
}
