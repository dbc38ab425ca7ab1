package jobs

import (
	"context"
	"log"

	"github.com/inkwell-ai/inkwell/internal/domain"
)

// ReindexService defines the interface for running corpus vectorization
type ReindexService interface {
	Reindex(ctx context.Context) (*domain.VectorizationJobResult, error)
}

// ReindexWorker keeps the vector store converged on the corpus by
// periodically re-running vectorization. Unchanged entries are skipped
// by the pipeline, so idle runs are cheap.
type ReindexWorker struct {
	service ReindexService
}

// NewReindexWorker creates a new ReindexWorker instance
func NewReindexWorker(service ReindexService) *ReindexWorker {
	return &ReindexWorker{service: service}
}

// ProcessJobs implements the JobProcessor interface
func (w *ReindexWorker) ProcessJobs(ctx context.Context) error {
	result, err := w.service.Reindex(ctx)
	if err != nil {
		return err
	}

	if result.ProcessedCount > 0 || len(result.Errors) > 0 {
		log.Printf("periodic reindex: processed=%d skipped=%d failed=%d",
			result.ProcessedCount, result.SkippedCount, len(result.Errors))
	}

	for _, itemErr := range result.Errors {
		log.Printf("reindex entry %s failed at %s: %s", itemErr.EntryID, itemErr.Stage, itemErr.Message)
	}

	return nil
}
