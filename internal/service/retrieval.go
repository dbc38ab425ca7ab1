package service

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/inkwell-ai/inkwell/internal/domain"
	"github.com/inkwell-ai/inkwell/internal/telemetry"
	"golang.org/x/sync/errgroup"
)

const (
	defaultThreshold      = 0.75
	defaultTopK           = 10
	defaultEvidenceBudget = 4000
	defaultSourceTimeout  = 5 * time.Second

	// nearDupOverlap is the token-set Jaccard overlap at which two
	// evidence texts are treated as the same content.
	nearDupOverlap = 0.85
)

// EmbeddingClient defines the interface for generating embeddings
type EmbeddingClient interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
}

// VectorSearcher defines the vector-store search operation
type VectorSearcher interface {
	Search(ctx context.Context, embedding []float32, threshold float64, topK int, category string) ([]*domain.ScoredEntry, error)
}

// TripleSearcher defines the semantic-triple backend
type TripleSearcher interface {
	Search(topic string) []domain.SemanticTriple
}

// InsightSearcher defines the insight-list backend
type InsightSearcher interface {
	Search(topic string) []domain.IndustryInsight
}

// RetrievalConfig tunes the orchestrator. Zero values use defaults.
type RetrievalConfig struct {
	Threshold      float64
	TopK           int
	EvidenceBudget int
	SourceTimeout  time.Duration
}

func (c RetrievalConfig) withDefaults() RetrievalConfig {
	if c.Threshold <= 0 {
		c.Threshold = defaultThreshold
	}
	if c.TopK <= 0 {
		c.TopK = defaultTopK
	}
	if c.EvidenceBudget <= 0 {
		c.EvidenceBudget = defaultEvidenceBudget
	}
	if c.SourceTimeout <= 0 {
		c.SourceTimeout = defaultSourceTimeout
	}
	return c
}

// RetrieveOptions adjusts a single retrieval call.
type RetrieveOptions struct {
	Threshold float64 // 0 uses the configured default
	TopK      int     // 0 uses the configured default
	Category  string  // optional category filter for the vector source
}

// RetrievalService fans a topic query out to the vector store and both
// structured backends concurrently, then merges whatever subset succeeded
// under the evidence budget. A single unavailable source is dropped from
// the merge; the call only fails when every source does.
type RetrievalService struct {
	embedding EmbeddingClient
	store     VectorSearcher
	triples   TripleSearcher
	insights  InsightSearcher
	cfg       RetrievalConfig
}

// NewRetrievalService creates a RetrievalService instance
func NewRetrievalService(
	embedding EmbeddingClient,
	store VectorSearcher,
	triples TripleSearcher,
	insights InsightSearcher,
	cfg RetrievalConfig,
) *RetrievalService {
	return &RetrievalService{
		embedding: embedding,
		store:     store,
		triples:   triples,
		insights:  insights,
		cfg:       cfg.withDefaults(),
	}
}

// Retrieve gathers evidence for the topic from all three sources.
func (s *RetrievalService) Retrieve(ctx context.Context, topic string, opts RetrieveOptions) (*domain.MergedContext, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return nil, domain.ErrEmptyTopic
	}

	ctx, span := telemetry.StartSpan(ctx, "RetrievalService.Retrieve", telemetry.SpanAttributes{
		Topic:     topic,
		Operation: "retrieve",
	})
	defer span.End()

	threshold := opts.Threshold
	if threshold <= 0 {
		threshold = s.cfg.Threshold
	}
	topK := opts.TopK
	if topK <= 0 {
		topK = s.cfg.TopK
	}

	var (
		vectorResult  *domain.RetrievalResult
		tripleResult  *domain.RetrievalResult
		insightResult *domain.RetrievalResult
		vectorErr     error
		tripleErr     error
		insightErr    error
	)

	// Each source gets its own deadline; a slow or failing source never
	// cancels the others.
	var g errgroup.Group

	g.Go(func() error {
		sctx, cancel := context.WithTimeout(ctx, s.cfg.SourceTimeout)
		defer cancel()
		vectorResult, vectorErr = s.searchVector(sctx, topic, threshold, topK, opts.Category)
		return nil
	})

	g.Go(func() error {
		sctx, cancel := context.WithTimeout(ctx, s.cfg.SourceTimeout)
		defer cancel()
		tripleResult, tripleErr = s.searchTriples(sctx, topic)
		return nil
	})

	g.Go(func() error {
		sctx, cancel := context.WithTimeout(ctx, s.cfg.SourceTimeout)
		defer cancel()
		insightResult, insightErr = s.searchInsights(sctx, topic)
		return nil
	})

	_ = g.Wait()

	var results []*domain.RetrievalResult
	for _, pair := range []struct {
		result *domain.RetrievalResult
		err    error
	}{
		{vectorResult, vectorErr},
		{tripleResult, tripleErr},
		{insightResult, insightErr},
	} {
		if pair.err != nil {
			log.Printf("retrieval source %s unavailable: %v", sourceName(pair.result), pair.err)
			continue
		}
		results = append(results, pair.result)
	}

	if len(results) == 0 {
		return nil, domain.ErrAllSourcesUnavailable
	}

	return mergeResults(results, s.cfg.EvidenceBudget), nil
}

func (s *RetrievalService) searchVector(ctx context.Context, topic string, threshold float64, topK int, category string) (*domain.RetrievalResult, error) {
	embedding, err := s.embedding.GenerateEmbedding(ctx, topic)
	if err != nil {
		return &domain.RetrievalResult{Source: domain.SourceVector}, err
	}

	matches, err := s.store.Search(ctx, embedding, threshold, topK, category)
	if err != nil {
		return &domain.RetrievalResult{Source: domain.SourceVector}, err
	}

	items := make([]domain.EvidenceItem, 0, len(matches))
	for _, m := range matches {
		items = append(items, domain.EvidenceItem{
			Text:     m.Entry.Title + ": " + m.Entry.Content,
			Score:    m.Score,
			Category: m.Entry.Category,
			EntryID:  m.Entry.ID,
		})
	}

	return &domain.RetrievalResult{Source: domain.SourceVector, Items: items}, nil
}

// searchTriples runs the synchronous triple index under the source
// deadline so a cancelled parent context is still honored.
func (s *RetrievalService) searchTriples(ctx context.Context, topic string) (*domain.RetrievalResult, error) {
	if err := ctx.Err(); err != nil {
		return &domain.RetrievalResult{Source: domain.SourceTriples}, err
	}

	triples := s.triples.Search(topic)
	items := make([]domain.EvidenceItem, 0, len(triples))
	for i, t := range triples {
		text := t.Subject + " " + t.Predicate + " " + t.Object
		if t.Context != "" {
			text += " (" + t.Context + ")"
		}
		items = append(items, domain.EvidenceItem{
			Text:  text,
			Score: rankScore(i),
		})
	}

	return &domain.RetrievalResult{Source: domain.SourceTriples, Items: items}, nil
}

func (s *RetrievalService) searchInsights(ctx context.Context, topic string) (*domain.RetrievalResult, error) {
	if err := ctx.Err(); err != nil {
		return &domain.RetrievalResult{Source: domain.SourceInsights}, err
	}

	insights := s.insights.Search(topic)
	items := make([]domain.EvidenceItem, 0, len(insights))
	for i, ins := range insights {
		items = append(items, domain.EvidenceItem{
			Text:     ins.Content,
			Score:    rankScore(i),
			Category: ins.Category,
			EntryID:  ins.ID,
		})
	}

	return &domain.RetrievalResult{Source: domain.SourceInsights, Items: items}, nil
}

// rankScore derives a score from a zero-based rank position.
func rankScore(rank int) float64 {
	return 1.0 / float64(rank+1)
}

func sourceName(r *domain.RetrievalResult) domain.RetrievalSource {
	if r == nil {
		return "unknown"
	}
	return r.Source
}

// mergeResults combines per-source results into one bounded context.
// Ordering is source priority first (results arrive in priority order),
// then the source's own ranking. The merge stops at the first item that
// would exceed the budget; near-duplicate text keeps the higher-priority
// occurrence.
func mergeResults(results []*domain.RetrievalResult, budget int) *domain.MergedContext {
	merged := &domain.MergedContext{}
	contributed := map[domain.RetrievalSource]bool{}
	total := 0

	for _, r := range results {
		for _, item := range r.Items {
			if isNearDuplicate(merged.Items, item.Text) {
				continue
			}
			if total+len(item.Text) > budget {
				merged.Sources = orderedSources(results, contributed)
				return merged
			}

			merged.Items = append(merged.Items, domain.ContextItem{
				Source: r.Source,
				Text:   item.Text,
				Score:  item.Score,
			})
			contributed[r.Source] = true
			total += len(item.Text)
		}
	}

	merged.Sources = orderedSources(results, contributed)
	return merged
}

func orderedSources(results []*domain.RetrievalResult, contributed map[domain.RetrievalSource]bool) []domain.RetrievalSource {
	var sources []domain.RetrievalSource
	for _, r := range results {
		if contributed[r.Source] {
			sources = append(sources, r.Source)
		}
	}
	return sources
}

func isNearDuplicate(items []domain.ContextItem, text string) bool {
	for _, existing := range items {
		if textOverlap(existing.Text, text) >= nearDupOverlap {
			return true
		}
	}
	return false
}

// textOverlap computes Jaccard overlap over lowercase word sets, with
// full containment treated as identity.
func textOverlap(a, b string) float64 {
	setA := wordSet(a)
	setB := wordSet(b)
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}

	intersection := 0
	for w := range setA {
		if _, ok := setB[w]; ok {
			intersection++
		}
	}

	if intersection == len(setA) || intersection == len(setB) {
		return 1
	}

	union := len(setA) + len(setB) - intersection
	return float64(intersection) / float64(union)
}

func wordSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, w := range strings.Fields(strings.ToLower(s)) {
		set[strings.Trim(w, ".,;:!?()\"'")] = struct{}{}
	}
	return set
}
