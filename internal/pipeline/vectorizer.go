// Package pipeline drives batch vectorization of the knowledge corpus.
package pipeline

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/inkwell-ai/inkwell/internal/domain"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

const (
	defaultConcurrency = 4
	defaultEmbedRate   = 5 // embedding calls per second
)

// EmbeddingClient defines the interface for generating embeddings
type EmbeddingClient interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
}

// EntryStore defines the vector-store operations the pipeline needs
type EntryStore interface {
	Upsert(ctx context.Context, e *domain.KnowledgeEntry) error
	ListHashes(ctx context.Context) (map[string]string, error)
}

// Vectorizer embeds and stores corpus entries with bounded concurrency.
// Per-entry failures are collected into the job result, never escalated
// to abort the batch.
type Vectorizer struct {
	client      EmbeddingClient
	store       EntryStore
	concurrency int
	limiter     *rate.Limiter
}

// Config tunes a Vectorizer. Zero values use defaults.
type Config struct {
	Concurrency   int
	RatePerSecond float64
}

// NewVectorizer creates a Vectorizer with the given dependencies.
func NewVectorizer(client EmbeddingClient, store EntryStore, cfg Config) *Vectorizer {
	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}
	perSecond := cfg.RatePerSecond
	if perSecond <= 0 {
		perSecond = defaultEmbedRate
	}

	return &Vectorizer{
		client:      client,
		store:       store,
		concurrency: concurrency,
		limiter:     rate.NewLimiter(rate.Limit(perSecond), 1),
	}
}

// Vectorize embeds and upserts every entry in the batch. Entries whose
// stored content hash is unchanged are skipped, making repeated runs
// idempotent and cheap.
func (v *Vectorizer) Vectorize(ctx context.Context, entries []*domain.KnowledgeEntry) (*domain.VectorizationJobResult, error) {
	start := time.Now()

	existing, err := v.store.ListHashes(ctx)
	if err != nil {
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodePersistence, "failed to read stored content hashes", err)
	}

	result := &domain.VectorizationJobResult{}
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(v.concurrency)

	for _, entry := range entries {
		if hash, ok := existing[entry.ID]; ok && hash == entry.ContentHash() {
			result.SkippedCount++
			continue
		}

		g.Go(func() error {
			if err := v.processEntry(gctx, entry); err != nil {
				mu.Lock()
				result.Errors = append(result.Errors, *err)
				mu.Unlock()
				return nil
			}

			mu.Lock()
			result.ProcessedCount++
			mu.Unlock()
			return nil
		})
	}

	// Workers never return errors; failures are aggregated above.
	_ = g.Wait()

	result.ProcessingTime = time.Since(start)
	log.Printf("vectorization finished: processed=%d skipped=%d failed=%d in %v",
		result.ProcessedCount, result.SkippedCount, len(result.Errors), result.ProcessingTime.Round(time.Millisecond))

	return result, nil
}

// processEntry walks one entry through embedding and storing. The
// returned ItemError carries the stage the entry failed in.
func (v *Vectorizer) processEntry(ctx context.Context, entry *domain.KnowledgeEntry) *domain.ItemError {
	if err := v.limiter.Wait(ctx); err != nil {
		return &domain.ItemError{EntryID: entry.ID, Stage: domain.EntryStateEmbedding, Message: err.Error()}
	}

	embedding, err := v.client.GenerateEmbedding(ctx, entry.EmbedText())
	if err != nil {
		return &domain.ItemError{EntryID: entry.ID, Stage: domain.EntryStateEmbedding, Message: err.Error()}
	}
	entry.Embedding = embedding

	if err := v.store.Upsert(ctx, entry); err != nil {
		return &domain.ItemError{EntryID: entry.ID, Stage: domain.EntryStateStoring, Message: err.Error()}
	}

	return nil
}
