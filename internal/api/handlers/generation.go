package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/inkwell-ai/inkwell/internal/api"
	"github.com/inkwell-ai/inkwell/internal/domain"
	"github.com/inkwell-ai/inkwell/internal/service"
)

type GenerationService interface {
	Generate(ctx context.Context, req domain.GenerationRequest) (*service.GenerationResult, error)
}

// GenerationHandler serves the content generation endpoint.
type GenerationHandler struct {
	generation GenerationService
}

func NewGenerationHandler(generation GenerationService) *GenerationHandler {
	return &GenerationHandler{generation: generation}
}

type GenerateRequest struct {
	Topic       string `json:"topic"`
	ContentType string `json:"content_type,omitempty"`
	Length      string `json:"length,omitempty"`
	Tone        string `json:"tone,omitempty"`
	Audience    string `json:"audience,omitempty"`
}

type SourceSummaryResponse struct {
	Source    string   `json:"source"`
	DataCount int      `json:"data_count"`
	Insights  []string `json:"insights,omitempty"`
}

type GenerateResponse struct {
	GeneratedContent string                   `json:"generated_content"`
	Sources          []*SourceSummaryResponse `json:"sources"`
	Metadata         map[string]interface{}   `json:"metadata,omitempty"`
}

// Generate handles POST /generate
func (h *GenerationHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	genReq := domain.GenerationRequest{
		Topic:          req.Topic,
		TargetAudience: req.Audience,
		ContentType:    domain.ContentType(req.ContentType),
		Length:         domain.ContentLength(req.Length),
		Tone:           domain.Tone(req.Tone),
	}

	result, err := h.generation.Generate(r.Context(), genReq)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	sources := make([]*SourceSummaryResponse, 0, len(result.Sources))
	for _, src := range result.Sources {
		sources = append(sources, &SourceSummaryResponse{
			Source:    string(src.Source),
			DataCount: src.DataCount,
			Insights:  src.Insights,
		})
	}

	api.Success(w, http.StatusOK, GenerateResponse{
		GeneratedContent: result.GeneratedContent,
		Sources:          sources,
		Metadata:         result.Metadata,
	})
}
