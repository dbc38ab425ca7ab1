package rag

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	"github.com/inkwell-ai/inkwell/internal/domain"
)

//go:embed data/triples.json
var defaultTriplesJSON []byte

//go:embed data/insights.json
var defaultInsightsJSON []byte

type tripleDocument struct {
	OwnSubjects []string `json:"ownSubjects"`
	Triples     []struct {
		Subject   string `json:"subject"`
		Predicate string `json:"predicate"`
		Object    string `json:"object"`
		Context   string `json:"context,omitempty"`
	} `json:"triples"`
}

type insightRecord struct {
	ID         string `json:"id"`
	Content    string `json:"content"`
	Category   string `json:"category"`
	Importance int    `json:"importance"`
}

// LoadTripleIndex builds a TripleIndex from the JSON file at path, or from
// the embedded default data set when path is empty.
func LoadTripleIndex(path string) (*TripleIndex, error) {
	raw := defaultTriplesJSON
	if path != "" {
		var err error
		raw, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read triples file: %w", err)
		}
	}

	var doc tripleDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse triples: %w", err)
	}

	triples := make([]domain.SemanticTriple, 0, len(doc.Triples))
	for _, t := range doc.Triples {
		triples = append(triples, domain.SemanticTriple{
			Subject:   t.Subject,
			Predicate: t.Predicate,
			Object:    t.Object,
			Context:   t.Context,
		})
	}

	return NewTripleIndex(triples, doc.OwnSubjects)
}

// LoadInsightList builds an InsightList from the JSON file at path, or
// from the embedded default data set when path is empty.
func LoadInsightList(path string) (*InsightList, error) {
	raw := defaultInsightsJSON
	if path != "" {
		var err error
		raw, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read insights file: %w", err)
		}
	}

	var records []insightRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("failed to parse insights: %w", err)
	}

	insights := make([]domain.IndustryInsight, 0, len(records))
	for _, r := range records {
		insights = append(insights, domain.IndustryInsight{
			ID:         r.ID,
			Content:    r.Content,
			Category:   r.Category,
			Importance: r.Importance,
		})
	}

	return NewInsightList(insights)
}
