// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package classify labels citing works by their relationship to the
// researcher and aggregates the labeled records for presentation. All
// functions here are pure: classification depends only on the record and
// the researcher identity, never on ordering or prior calls.
package classify

import "github.com/pdiddy/citescope/pkg/types"

// Classify assigns a citing work its relationship label:
//
//  1. the researcher is among the authors → Self,
//  2. otherwise any author is a known co-author → Collaborator,
//  3. otherwise → Independent.
//
// Self wins over Collaborator when both hold. A record with no authors is
// Independent: no match is possible.
func Classify(r types.CitationRecord, researcher types.ResearcherIdentity) types.Classification {
	collaborator := false
	for _, a := range r.Authors {
		if a.ID == researcher.ID {
			return types.ClassSelf
		}
		if researcher.IsCoauthor(a.ID) {
			collaborator = true
		}
	}
	if collaborator {
		return types.ClassCollaborator
	}
	return types.ClassIndependent
}

// ClassifyAll labels every record, preserving input order.
func ClassifyAll(records []types.CitationRecord, researcher types.ResearcherIdentity) []types.ClassifiedRecord {
	classified := make([]types.ClassifiedRecord, 0, len(records))
	for _, r := range records {
		classified = append(classified, types.ClassifiedRecord{
			CitationRecord: r,
			Classification: Classify(r, researcher),
		})
	}
	return classified
}
