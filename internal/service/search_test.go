package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/inkwell-ai/inkwell/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestSearchService_Search_Success(t *testing.T) {
	mockEmbedding := new(MockEmbeddingClient)
	mockStore := new(MockVectorSearcher)
	svc := NewSearchService(mockEmbedding, mockStore, RetrievalConfig{})

	embedding := make([]float32, 1536)
	entry := scoredEntry("pricing", "Pricing Guide", "Value-based pricing beats cost-plus for most SaaS products.", 0.88)
	entry.Entry.Category = "pricing"

	mockEmbedding.On("GenerateEmbedding", mock.Anything, "pricing advice").Return(embedding, nil)
	mockStore.On("Search", mock.Anything, embedding, 0.75, 10, "").Return([]*domain.ScoredEntry{entry}, nil)

	output, err := svc.Search(context.Background(), SearchInput{Query: "pricing advice"})

	require.NoError(t, err)
	assert.Equal(t, 1, output.ResultCount)
	result := output.Results[0]
	assert.Equal(t, "pricing", result.ID)
	assert.Equal(t, "Pricing Guide", result.Title)
	assert.Equal(t, "pricing", result.Category)
	assert.Equal(t, 0.88, result.Score)
	assert.Empty(t, result.Link)
}

func TestSearchService_Search_EmptyQuery(t *testing.T) {
	svc := NewSearchService(new(MockEmbeddingClient), new(MockVectorSearcher), RetrievalConfig{})

	_, err := svc.Search(context.Background(), SearchInput{Query: "  "})

	assert.Equal(t, domain.ErrEmptyQuery, err)
}

func TestSearchService_Search_InvalidThreshold(t *testing.T) {
	svc := NewSearchService(new(MockEmbeddingClient), new(MockVectorSearcher), RetrievalConfig{})

	_, err := svc.Search(context.Background(), SearchInput{Query: "pricing", Threshold: 1.5})

	assert.Equal(t, domain.ErrInvalidThreshold, err)
}

func TestSearchService_Search_EmbeddingFailure(t *testing.T) {
	mockEmbedding := new(MockEmbeddingClient)
	mockStore := new(MockVectorSearcher)
	svc := NewSearchService(mockEmbedding, mockStore, RetrievalConfig{})

	mockEmbedding.On("GenerateEmbedding", mock.Anything, mock.Anything).Return(nil, errors.New("api down"))

	_, err := svc.Search(context.Background(), SearchInput{Query: "pricing"})

	require.Error(t, err)
	var domainErr *domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.ErrCodeEmbeddingFailure, domainErr.Code)
	mockStore.AssertNotCalled(t, "Search")
}

func TestSearchService_Search_CustomThresholdAndCategory(t *testing.T) {
	mockEmbedding := new(MockEmbeddingClient)
	mockStore := new(MockVectorSearcher)
	svc := NewSearchService(mockEmbedding, mockStore, RetrievalConfig{})

	embedding := make([]float32, 1536)
	mockEmbedding.On("GenerateEmbedding", mock.Anything, mock.Anything).Return(embedding, nil)
	mockStore.On("Search", mock.Anything, embedding, 0.85, 5, "pricing").Return([]*domain.ScoredEntry{}, nil)

	output, err := svc.Search(context.Background(), SearchInput{
		Query:     "pricing",
		Threshold: 0.85,
		TopK:      5,
		Category:  "pricing",
	})

	require.NoError(t, err)
	assert.Equal(t, 0, output.ResultCount)
	mockStore.AssertExpectations(t)
}

func TestSearchService_Search_DeepLinks(t *testing.T) {
	mockEmbedding := new(MockEmbeddingClient)
	mockStore := new(MockVectorSearcher)
	svc := NewSearchService(mockEmbedding, mockStore, RetrievalConfig{})

	embedding := make([]float32, 1536)
	entry := scoredEntry("pricing", "Pricing Guide", "Content.", 0.9)
	entry.Entry.Metadata = map[string]string{"link": "https://example.com/pricing"}

	mockEmbedding.On("GenerateEmbedding", mock.Anything, mock.Anything).Return(embedding, nil)
	mockStore.On("Search", mock.Anything, embedding, 0.75, 10, "").Return([]*domain.ScoredEntry{entry}, nil)

	output, err := svc.Search(context.Background(), SearchInput{Query: "pricing", IncludeDeepLinks: true})

	require.NoError(t, err)
	assert.Equal(t, "https://example.com/pricing", output.Results[0].Link)
}

func TestMakeSnippet(t *testing.T) {
	assert.Equal(t, "", makeSnippet(""))
	assert.Equal(t, "short content", makeSnippet("short   content"))

	long := strings.Repeat("word ", 100)
	snippet := makeSnippet(long)
	assert.Len(t, snippet, defaultSnippetMaxChars)
	assert.True(t, strings.HasSuffix(snippet, "..."))
}
