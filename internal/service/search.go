package service

import (
	"context"
	"strings"

	"github.com/inkwell-ai/inkwell/internal/domain"
	"github.com/inkwell-ai/inkwell/internal/telemetry"
)

const defaultSnippetMaxChars = 220

// SearchInput describes one similarity-search call.
type SearchInput struct {
	Query            string
	Threshold        float64 // 0 uses the configured default
	TopK             int     // 0 uses the configured default
	Category         string
	IncludeDeepLinks bool
}

// SearchResultItem is one scored match shaped for the query surface.
type SearchResultItem struct {
	ID       string
	Title    string
	Snippet  string
	Category string
	Score    float64
	Link     string
}

// SearchOutput wraps search results with their count.
type SearchOutput struct {
	Results     []*SearchResultItem
	ResultCount int
}

// SearchService exposes vector similarity search over the collection.
type SearchService struct {
	embedding EmbeddingClient
	store     VectorSearcher
	cfg       RetrievalConfig
}

// NewSearchService creates a SearchService instance
func NewSearchService(embedding EmbeddingClient, store VectorSearcher, cfg RetrievalConfig) *SearchService {
	return &SearchService{embedding: embedding, store: store, cfg: cfg.withDefaults()}
}

// Search embeds the query and returns matches above the threshold.
func (s *SearchService) Search(ctx context.Context, input SearchInput) (*SearchOutput, error) {
	ctx, span := telemetry.StartSpan(ctx, "SearchService.Search", telemetry.SpanAttributes{
		Operation: "search",
	})
	defer span.End()

	query := strings.TrimSpace(input.Query)
	if query == "" {
		return nil, domain.ErrEmptyQuery
	}

	threshold := input.Threshold
	if threshold <= 0 {
		threshold = s.cfg.Threshold
	}
	if threshold > 1 {
		return nil, domain.ErrInvalidThreshold
	}
	topK := input.TopK
	if topK <= 0 {
		topK = s.cfg.TopK
	}

	embedding, err := s.embedding.GenerateEmbedding(ctx, query)
	if err != nil {
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeEmbeddingFailure, "failed to embed query", err)
	}

	matches, err := s.store.Search(ctx, embedding, threshold, topK, input.Category)
	if err != nil {
		return nil, err
	}

	results := make([]*SearchResultItem, 0, len(matches))
	for _, m := range matches {
		item := &SearchResultItem{
			ID:       m.Entry.ID,
			Title:    m.Entry.Title,
			Snippet:  makeSnippet(m.Entry.Content),
			Category: m.Entry.Category,
			Score:    m.Score,
		}
		if input.IncludeDeepLinks {
			item.Link = m.Entry.Metadata["link"]
		}
		results = append(results, item)
	}

	return &SearchOutput{Results: results, ResultCount: len(results)}, nil
}

func makeSnippet(content string) string {
	if content == "" {
		return ""
	}
	clean := strings.Join(strings.Fields(content), " ")
	if len(clean) <= defaultSnippetMaxChars {
		return clean
	}
	return clean[:defaultSnippetMaxChars-3] + "..."
}
