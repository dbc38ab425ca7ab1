package domain

import "time"

// EntryState tracks a single entry through the vectorization pipeline.
type EntryState string

const (
	EntryStatePending   EntryState = "pending"
	EntryStateEmbedding EntryState = "embedding"
	EntryStateStoring   EntryState = "storing"
	EntryStateDone      EntryState = "done"
	EntryStateFailed    EntryState = "failed"
)

// ItemError records one per-entry failure inside a batch. Batch failures
// are aggregated, never escalated to abort the run.
type ItemError struct {
	EntryID string
	Stage   EntryState
	Message string
}

// VectorizationJobResult summarizes one pipeline run.
type VectorizationJobResult struct {
	ProcessedCount int
	SkippedCount   int
	Errors         []ItemError
	ProcessingTime time.Duration
}

// StoreStats holds aggregate counts over the vector collection.
type StoreStats struct {
	TotalCount      int
	CountByCategory map[string]int
	CountByCluster  map[string]int
}
