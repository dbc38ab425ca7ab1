// Package rag holds the structured retrieval backends: a semantic-triple
// index and an importance-ranked insight list. Both operate on immutable
// data loaded once at process start; their search functions are pure.
package rag

import (
	"strings"

	"github.com/inkwell-ai/inkwell/internal/domain"
	"github.com/samber/lo"
)

// TripleIndex answers substring queries over a fixed set of semantic
// triples. Matches keep load order; there is no further ranking.
type TripleIndex struct {
	triples     []domain.SemanticTriple
	ownSubjects map[string]struct{}
}

// NewTripleIndex validates and indexes the given triples. ownSubjects are
// subjects whose triples always match, regardless of the query.
func NewTripleIndex(triples []domain.SemanticTriple, ownSubjects []string) (*TripleIndex, error) {
	for i := range triples {
		if err := domain.ValidateTriple(&triples[i]); err != nil {
			return nil, err
		}
	}

	own := make(map[string]struct{}, len(ownSubjects))
	for _, s := range ownSubjects {
		own[strings.ToLower(s)] = struct{}{}
	}

	return &TripleIndex{triples: triples, ownSubjects: own}, nil
}

// Search returns the triples whose subject, object, or context contains
// the topic (case-insensitive), or whose subject is an own entity.
func (idx *TripleIndex) Search(topic string) []domain.SemanticTriple {
	needle := strings.ToLower(strings.TrimSpace(topic))
	if needle == "" {
		return nil
	}

	return lo.Filter(idx.triples, func(t domain.SemanticTriple, _ int) bool {
		if _, own := idx.ownSubjects[strings.ToLower(t.Subject)]; own {
			return true
		}
		return strings.Contains(strings.ToLower(t.Subject), needle) ||
			strings.Contains(strings.ToLower(t.Object), needle) ||
			strings.Contains(strings.ToLower(t.Context), needle)
	})
}

// Len returns the number of indexed triples.
func (idx *TripleIndex) Len() int {
	return len(idx.triples)
}
