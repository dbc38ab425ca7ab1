package service

import (
	"context"

	"github.com/inkwell-ai/inkwell/internal/domain"
)

// CorpusSource yields the knowledge corpus for one reindex run.
type CorpusSource interface {
	Load(ctx context.Context) ([]*domain.KnowledgeEntry, error)
}

// Vectorizer defines the batch vectorization dependency
type Vectorizer interface {
	Vectorize(ctx context.Context, entries []*domain.KnowledgeEntry) (*domain.VectorizationJobResult, error)
}

// ReindexService runs full corpus vectorization: load the corpus, embed
// and upsert every changed entry.
type ReindexService struct {
	source     CorpusSource
	vectorizer Vectorizer
}

// NewReindexService creates a ReindexService instance
func NewReindexService(source CorpusSource, vectorizer Vectorizer) *ReindexService {
	return &ReindexService{source: source, vectorizer: vectorizer}
}

// Reindex loads the corpus and vectorizes it. Per-entry failures are
// reported inside the job result; only a failure to load the corpus or
// reach the store aborts the run.
func (s *ReindexService) Reindex(ctx context.Context) (*domain.VectorizationJobResult, error) {
	entries, err := s.source.Load(ctx)
	if err != nil {
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeInternalError, "failed to load corpus", err)
	}

	return s.vectorizer.Vectorize(ctx, entries)
}
