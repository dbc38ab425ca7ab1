package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/inkwell-ai/inkwell/internal/domain"
	"github.com/inkwell-ai/inkwell/internal/service"
)

// MockGenerationService is a mock for the GenerationService interface
type MockGenerationService struct {
	mock.Mock
}

func (m *MockGenerationService) Generate(ctx context.Context, req domain.GenerationRequest) (*service.GenerationResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.GenerationResult), args.Error(1)
}

func TestGenerationHandler_Generate_Success(t *testing.T) {
	mockGen := new(MockGenerationService)
	handler := NewGenerationHandler(mockGen)

	expected := domain.GenerationRequest{
		Topic:          "pricing strategy",
		TargetAudience: "startup founders",
		ContentType:    domain.ContentTypeBlog,
		Length:         domain.LengthShort,
		Tone:           domain.ToneProfessional,
	}
	result := &service.GenerationResult{
		GeneratedContent: "Pricing strategy starts with value, not cost.",
		Sources: []service.SourceSummary{
			{Source: domain.SourceVector, DataCount: 3, Insights: []string{"Pricing Guide: value-based tiers..."}},
		},
		Metadata: map[string]any{"token_count": float64(12)},
	}
	mockGen.On("Generate", mock.Anything, expected).Return(result, nil)

	body := strings.NewReader(`{"topic": "pricing strategy", "content_type": "blog", "length": "short", "tone": "professional", "audience": "startup founders"}`)
	req := httptest.NewRequest(http.MethodPost, "/generate", body)
	rec := httptest.NewRecorder()

	handler.Generate(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp GenerateResponse
	decodeData(t, rec, &resp)
	assert.Equal(t, "Pricing strategy starts with value, not cost.", resp.GeneratedContent)
	assert.Len(t, resp.Sources, 1)
	assert.Equal(t, "vector", resp.Sources[0].Source)
	assert.Equal(t, 3, resp.Sources[0].DataCount)
	mockGen.AssertExpectations(t)
}

func TestGenerationHandler_Generate_InvalidBody(t *testing.T) {
	mockGen := new(MockGenerationService)
	handler := NewGenerationHandler(mockGen)

	req := httptest.NewRequest(http.MethodPost, "/generate", strings.NewReader("{broken"))
	rec := httptest.NewRecorder()

	handler.Generate(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	mockGen.AssertNotCalled(t, "Generate")
}

func TestGenerationHandler_Generate_ValidationError(t *testing.T) {
	mockGen := new(MockGenerationService)
	handler := NewGenerationHandler(mockGen)

	mockGen.On("Generate", mock.Anything, mock.Anything).Return(nil, domain.ErrEmptyTopic)

	req := httptest.NewRequest(http.MethodPost, "/generate", strings.NewReader(`{"topic": ""}`))
	rec := httptest.NewRecorder()

	handler.Generate(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGenerationHandler_Generate_AllSourcesDown(t *testing.T) {
	mockGen := new(MockGenerationService)
	handler := NewGenerationHandler(mockGen)

	mockGen.On("Generate", mock.Anything, mock.Anything).Return(nil, domain.ErrAllSourcesUnavailable)

	req := httptest.NewRequest(http.MethodPost, "/generate", strings.NewReader(`{"topic": "pricing"}`))
	rec := httptest.NewRecorder()

	handler.Generate(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestGenerationHandler_Generate_UpstreamFailure(t *testing.T) {
	mockGen := new(MockGenerationService)
	handler := NewGenerationHandler(mockGen)

	mockGen.On("Generate", mock.Anything, mock.Anything).Return(nil, domain.ErrUpstreamGeneration)

	req := httptest.NewRequest(http.MethodPost, "/generate", strings.NewReader(`{"topic": "pricing"}`))
	rec := httptest.NewRecorder()

	handler.Generate(rec, req)

	assert.Equal(t, http.StatusBadGateway, rec.Code)

	var resp struct {
		Error string `json:"error"`
	}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp.Error, "upstream generation call failed")
}
