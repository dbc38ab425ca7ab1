package domain

// RetrievalSource identifies which backend produced a retrieval result.
type RetrievalSource string

const (
	SourceVector   RetrievalSource = "vector"
	SourceTriples  RetrievalSource = "triples"
	SourceInsights RetrievalSource = "insights"
)

// ScoredEntry pairs a stored entry with its similarity score for one query.
type ScoredEntry struct {
	Entry KnowledgeEntry
	Score float64
}

// EvidenceItem is one piece of retrieved evidence with its source-local score.
type EvidenceItem struct {
	Text     string
	Score    float64
	Category string
	EntryID  string
}

// RetrievalResult holds the ordered matches from a single backend.
type RetrievalResult struct {
	Source RetrievalSource
	Items  []EvidenceItem
}

// ContextItem is one merged evidence line with its originating source.
type ContextItem struct {
	Source RetrievalSource
	Text   string
	Score  float64
}

// MergedContext is the ordered, deduplicated, budget-bounded evidence set
// handed to the prompt composer.
type MergedContext struct {
	Items []ContextItem
	// Sources lists the backends that contributed at least one item,
	// in priority order.
	Sources []RetrievalSource
}

// CharLen returns the total character length of all merged evidence text.
func (m *MergedContext) CharLen() int {
	total := 0
	for _, item := range m.Items {
		total += len(item.Text)
	}
	return total
}

// BySource returns the merged items produced by the given source,
// preserving merge order.
func (m *MergedContext) BySource(source RetrievalSource) []ContextItem {
	var items []ContextItem
	for _, item := range m.Items {
		if item.Source == source {
			items = append(items, item)
		}
	}
	return items
}
