// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the citescope pipeline.
package types

// Source identifies a bibliographic data provider.
type Source string

const (
	SourceOpenAlex        Source = "openalex"
	SourceSemanticScholar Source = "semantic_scholar"
)

// Sources returns all providers in their fixed presentation order.
func Sources() []Source {
	return []Source{SourceOpenAlex, SourceSemanticScholar}
}

// ParseSource maps a user-supplied string to a Source. It accepts the
// canonical names plus the short aliases used on the command line.
func ParseSource(s string) (Source, bool) {
	switch s {
	case "openalex", "oa":
		return SourceOpenAlex, true
	case "semantic_scholar", "semanticscholar", "s2":
		return SourceSemanticScholar, true
	default:
		return "", false
	}
}

// Classification labels a citing work's relationship to the researcher.
type Classification string

const (
	// ClassSelf marks a citing work the researcher co-authored.
	ClassSelf Classification = "self"

	// ClassCollaborator marks a citing work authored by one of the
	// researcher's known co-authors (and not by the researcher).
	ClassCollaborator Classification = "collaborator"

	// ClassIndependent marks a citing work with no author overlap with
	// the researcher or their co-authors.
	ClassIndependent Classification = "independent"
)

// Classifications returns all labels in their fixed presentation order.
func Classifications() []Classification {
	return []Classification{ClassSelf, ClassCollaborator, ClassIndependent}
}

// Author is one author of a citing work, in the ID space of its source.
type Author struct {
	// ID is the source-native author identifier (OpenAlex "A...." short
	// form, or a Semantic Scholar numeric author ID as a string).
	ID string `json:"id" yaml:"id"`

	// Name is the author display name as returned by the source.
	Name string `json:"name" yaml:"name"`
}

// ResearcherIdentity is the subject of an analysis run: the researcher's
// canonical identifier in one source plus the co-author set derived from
// their authored works. Built once per run and never mutated afterwards.
type ResearcherIdentity struct {
	// ID is the researcher's source-native identifier.
	ID string `json:"id" yaml:"id"`

	// Name is the researcher's display name.
	Name string `json:"name" yaml:"name"`

	// Source is the provider the identifier belongs to. Identifiers are
	// never compared across sources.
	Source Source `json:"source" yaml:"source"`

	// Coauthors holds the IDs of everyone who has co-authored a work
	// with the researcher, excluding the researcher's own ID.
	Coauthors map[string]bool `json:"coauthors" yaml:"coauthors"`
}

// IsCoauthor reports whether id belongs to the researcher's co-author set.
func (r ResearcherIdentity) IsCoauthor(id string) bool {
	return r.Coauthors[id]
}

// CitationRecord is one work that cites the researcher, normalized from a
// raw API item into the uniform shape the classifier consumes.
type CitationRecord struct {
	// ID is the source-native identifier of the citing work.
	ID string `json:"id" yaml:"id"`

	// Title is the citing work's title.
	Title string `json:"title" yaml:"title"`

	// Year is the publication year, zero when the source omits it.
	Year int `json:"year,omitempty" yaml:"year,omitempty"`

	// Authors lists the citing work's authors in source order.
	Authors []Author `json:"authors" yaml:"authors"`

	// Source identifies the provider the record came from.
	Source Source `json:"source" yaml:"source"`

	// Link is a browser URL for the citing work, empty when unknown.
	Link string `json:"link,omitempty" yaml:"link,omitempty"`
}

// ClassifiedRecord pairs a CitationRecord with its classification.
type ClassifiedRecord struct {
	CitationRecord `yaml:",inline"`

	Classification Classification `json:"classification" yaml:"classification"`
}
