package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/inkwell-ai/inkwell/internal/api"
	"github.com/inkwell-ai/inkwell/internal/domain"
	"github.com/inkwell-ai/inkwell/internal/service"
)

// maxErrorSample caps how many per-entry failures a reindex response carries.
const maxErrorSample = 5

type SearchService interface {
	Search(ctx context.Context, input service.SearchInput) (*service.SearchOutput, error)
}

type ReindexService interface {
	Reindex(ctx context.Context) (*domain.VectorizationJobResult, error)
}

type StatsProvider interface {
	Stats(ctx context.Context) (*domain.StoreStats, error)
}

// RetrievalHandler serves the search, stats, and reindex endpoints.
type RetrievalHandler struct {
	search  SearchService
	reindex ReindexService
	stats   StatsProvider
}

func NewRetrievalHandler(search SearchService, reindex ReindexService, stats StatsProvider) *RetrievalHandler {
	return &RetrievalHandler{search: search, reindex: reindex, stats: stats}
}

type SearchRequest struct {
	Query            string  `json:"query"`
	Threshold        float64 `json:"threshold,omitempty"`
	Count            int     `json:"count,omitempty"`
	Category         string  `json:"category,omitempty"`
	IncludeDeepLinks bool    `json:"include_deep_links,omitempty"`
}

type SearchResultResponse struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	Snippet  string  `json:"snippet,omitempty"`
	Category string  `json:"category,omitempty"`
	Score    float64 `json:"score"`
	Link     string  `json:"link,omitempty"`
}

type SearchResponse struct {
	Results     []*SearchResultResponse `json:"results"`
	ResultCount int                     `json:"result_count"`
}

// Search handles POST /search
func (h *RetrievalHandler) Search(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	output, err := h.search.Search(r.Context(), service.SearchInput{
		Query:            req.Query,
		Threshold:        req.Threshold,
		TopK:             req.Count,
		Category:         req.Category,
		IncludeDeepLinks: req.IncludeDeepLinks,
	})
	if err != nil {
		api.HandleError(w, err)
		return
	}

	results := make([]*SearchResultResponse, 0, len(output.Results))
	for _, item := range output.Results {
		results = append(results, &SearchResultResponse{
			ID:       item.ID,
			Title:    item.Title,
			Snippet:  item.Snippet,
			Category: item.Category,
			Score:    item.Score,
			Link:     item.Link,
		})
	}

	api.Success(w, http.StatusOK, SearchResponse{Results: results, ResultCount: output.ResultCount})
}

type StatsResponse struct {
	TotalCount      int            `json:"total_count"`
	CountByCategory map[string]int `json:"count_by_category"`
	CountByCluster  map[string]int `json:"count_by_cluster"`
}

// Stats handles GET /stats
func (h *RetrievalHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.stats.Stats(r.Context())
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, StatsResponse{
		TotalCount:      stats.TotalCount,
		CountByCategory: stats.CountByCategory,
		CountByCluster:  stats.CountByCluster,
	})
}

type ReindexResponse struct {
	ProcessedCount   int      `json:"processed_count"`
	SkippedCount     int      `json:"skipped_count"`
	ProcessingTimeMS int64    `json:"processing_time_ms"`
	ErrorsCount      int      `json:"errors_count"`
	Errors           []string `json:"errors,omitempty"`
}

// Reindex handles POST /reindex
func (h *RetrievalHandler) Reindex(w http.ResponseWriter, r *http.Request) {
	result, err := h.reindex.Reindex(r.Context())
	if err != nil {
		api.HandleError(w, err)
		return
	}

	sample := make([]string, 0, maxErrorSample)
	for i, itemErr := range result.Errors {
		if i >= maxErrorSample {
			break
		}
		sample = append(sample, fmt.Sprintf("%s (%s): %s", itemErr.EntryID, itemErr.Stage, itemErr.Message))
	}

	api.Success(w, http.StatusOK, ReindexResponse{
		ProcessedCount:   result.ProcessedCount,
		SkippedCount:     result.SkippedCount,
		ProcessingTimeMS: result.ProcessingTime.Milliseconds(),
		ErrorsCount:      len(result.Errors),
		Errors:           sample,
	})
}
