// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/pdiddy/citescope/pkg/types"
)

// openAlexAPIBase is the OpenAlex API root. Declared as a var so tests can
// substitute an httptest server.
var openAlexAPIBase = "https://api.openalex.org"

const (
	// openAlexPageSize is the per-page value for cursor pagination.
	openAlexPageSize = 200

	// openAlexCitesChunk is how many work IDs fit in one cites: filter.
	openAlexCitesChunk = 25

	openAlexIDPrefix = "https://openalex.org/"
)

// OpenAlex queries the OpenAlex API. Supplying an email joins the polite
// pool, which gets a faster rate limit.
type OpenAlex struct {
	d        *doer
	email    string
	maxPages int
}

// NewOpenAlex creates an OpenAlex client.
func NewOpenAlex(cfg types.SourceConfig, cacheCfg types.CacheConfig) *OpenAlex {
	maxPages := cfg.MaxWorksPages
	if maxPages <= 0 {
		maxPages = 25
	}
	return &OpenAlex{
		d:        newDoer(cfg, cacheCfg, nil),
		email:    cfg.OpenAlexEmail,
		maxPages: maxPages,
	}
}

// Source returns the provider identifier.
func (c *OpenAlex) Source() types.Source { return types.SourceOpenAlex }

// ResolveResearcher searches OpenAlex authors by name.
func (c *OpenAlex) ResolveResearcher(ctx context.Context, query string) ([]Candidate, error) {
	params := url.Values{"search": {query}}
	if c.email != "" {
		params.Set("mailto", c.email)
	}

	var ar oaAuthorsResponse
	if err := c.d.getJSON(ctx, openAlexAPIBase+"/authors?"+params.Encode(), &ar); err != nil {
		return nil, fmt.Errorf("OpenAlex author search: %w", err)
	}
	if len(ar.Results) == 0 {
		return nil, fmt.Errorf("openalex: %q: %w", query, ErrResearcherNotFound)
	}

	candidates := make([]Candidate, 0, len(ar.Results))
	for _, a := range ar.Results {
		candidates = append(candidates, Candidate{
			ID:            trimOpenAlexID(a.ID),
			Name:          a.DisplayName,
			Affiliation:   a.affiliation(),
			CitationCount: a.CitedByCount,
			Source:        types.SourceOpenAlex,
		})
	}
	return candidates, nil
}

// Citations gathers the researcher's works, derives the co-author set from
// the full works list, and fetches every work citing the top-cited subset.
func (c *OpenAlex) Citations(ctx context.Context, researcher Candidate, opts FetchOptions) (*CitationSet, error) {
	selfID := trimOpenAlexID(researcher.ID)

	works, err := c.authorWorks(ctx, selfID)
	if err != nil {
		return nil, err
	}

	// Co-authors come from the complete works list, not just the
	// analyzed subset.
	var authorLists [][]types.Author
	for _, w := range works {
		authorLists = append(authorLists, w.authors())
	}

	sort.SliceStable(works, func(i, j int) bool {
		return works[i].CitedByCount > works[j].CitedByCount
	})
	if limit := opts.limit(); len(works) > limit {
		works = works[:limit]
	}

	set := &CitationSet{
		Researcher: types.ResearcherIdentity{
			ID:        selfID,
			Name:      researcher.Name,
			Source:    types.SourceOpenAlex,
			Coauthors: coauthorSet(authorLists, selfID),
		},
		AnalyzedWorks: len(works),
	}

	workIDs := make([]string, 0, len(works))
	for _, w := range works {
		if id := trimOpenAlexID(w.ID); id != "" {
			workIDs = append(workIDs, id)
		}
	}

	seen := make(map[string]bool)
	for start := 0; start < len(workIDs); start += openAlexCitesChunk {
		end := start + openAlexCitesChunk
		if end > len(workIDs) {
			end = len(workIDs)
		}
		citing, err := c.citingWorks(ctx, workIDs[start:end])
		if err != nil {
			return nil, err
		}
		for _, w := range citing {
			record, err := normalizeOpenAlexWork(w)
			if err != nil {
				set.Skipped++
				continue
			}
			// A work citing papers in different chunks shows up in
			// each chunk's response; count it once.
			if seen[record.ID] {
				continue
			}
			seen[record.ID] = true
			set.Records = append(set.Records, record)
		}
	}
	return set, nil
}

// authorWorks pages through all works authored by authorID.
func (c *OpenAlex) authorWorks(ctx context.Context, authorID string) ([]oaWork, error) {
	return c.pagedWorks(ctx, "author.id:"+authorID)
}

// citingWorks pages through all works citing any of the given work IDs.
func (c *OpenAlex) citingWorks(ctx context.Context, workIDs []string) ([]oaWork, error) {
	return c.pagedWorks(ctx, "cites:"+strings.Join(workIDs, "|"))
}

func (c *OpenAlex) pagedWorks(ctx context.Context, filter string) ([]oaWork, error) {
	cursor := "*"
	var all []oaWork

	for page := 0; page < c.maxPages && cursor != ""; page++ {
		params := url.Values{
			"filter":   {filter},
			"per-page": {fmt.Sprintf("%d", openAlexPageSize)},
			"cursor":   {cursor},
		}
		if c.email != "" {
			params.Set("mailto", c.email)
		}

		var wr oaWorksResponse
		if err := c.d.getJSON(ctx, openAlexAPIBase+"/works?"+params.Encode(), &wr); err != nil {
			return nil, fmt.Errorf("OpenAlex works query: %w", err)
		}
		if len(wr.Results) == 0 {
			break
		}
		all = append(all, wr.Results...)
		cursor = wr.Meta.NextCursor
	}
	return all, nil
}

// normalizeOpenAlexWork converts a raw OpenAlex work into the uniform
// citation-record shape. A missing work ID or absent authorships field
// makes the item malformed; an empty authorships array does not.
func normalizeOpenAlexWork(w oaWork) (types.CitationRecord, error) {
	id := trimOpenAlexID(w.ID)
	if id == "" {
		return types.CitationRecord{}, fmt.Errorf("openalex work without id: %w", ErrMalformedRecord)
	}
	if w.Authorships == nil {
		return types.CitationRecord{}, fmt.Errorf("openalex work %s without authorships: %w", id, ErrMalformedRecord)
	}
	return types.CitationRecord{
		ID:      id,
		Title:   w.Title,
		Year:    w.PublicationYear,
		Authors: w.authors(),
		Source:  types.SourceOpenAlex,
		Link:    openAlexIDPrefix + id,
	}, nil
}

// trimOpenAlexID strips the URL prefix OpenAlex puts on entity IDs, so
// "https://openalex.org/A123" and "A123" compare equal.
func trimOpenAlexID(id string) string {
	return strings.TrimPrefix(id, openAlexIDPrefix)
}

// OpenAlexProfileURL returns the browser URL for an author ID.
func OpenAlexProfileURL(authorID string) string {
	if authorID == "" {
		return ""
	}
	return openAlexIDPrefix + trimOpenAlexID(authorID)
}

// OpenAlex API JSON structures.
type oaAuthorsResponse struct {
	Results []oaAuthor `json:"results"`
}

type oaAuthor struct {
	ID                   string          `json:"id"`
	DisplayName          string          `json:"display_name"`
	CitedByCount         int             `json:"cited_by_count"`
	LastKnownInstitution *oaInstitution  `json:"last_known_institution"`
	Affiliations         []oaAffiliation `json:"affiliations"`
}

func (a oaAuthor) affiliation() string {
	if a.LastKnownInstitution != nil && a.LastKnownInstitution.DisplayName != "" {
		return a.LastKnownInstitution.DisplayName
	}
	if len(a.Affiliations) > 0 && a.Affiliations[0].Institution.DisplayName != "" {
		return a.Affiliations[0].Institution.DisplayName
	}
	return "Unknown"
}

type oaInstitution struct {
	DisplayName string `json:"display_name"`
}

type oaAffiliation struct {
	Institution oaInstitution `json:"institution"`
}

type oaWorksResponse struct {
	Meta    oaMeta   `json:"meta"`
	Results []oaWork `json:"results"`
}

type oaMeta struct {
	Count      int    `json:"count"`
	NextCursor string `json:"next_cursor"`
}

type oaWork struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	PublicationYear int    `json:"publication_year"`
	CitedByCount    int    `json:"cited_by_count"`

	// Pointer distinguishes an absent authorships field (malformed) from
	// a present-but-empty author list (a valid, independent record).
	Authorships *[]oaAuthorship `json:"authorships"`
}

func (w oaWork) authors() []types.Author {
	if w.Authorships == nil {
		return nil
	}
	var authors []types.Author
	for _, as := range *w.Authorships {
		// Authors without an ID cannot be matched; drop them.
		if as.Author.ID == "" {
			continue
		}
		authors = append(authors, types.Author{
			ID:   trimOpenAlexID(as.Author.ID),
			Name: as.Author.DisplayName,
		})
	}
	return authors
}

type oaAuthorship struct {
	Author oaWorkAuthor `json:"author"`
}

type oaWorkAuthor struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}
