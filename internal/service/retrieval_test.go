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

// MockEmbeddingClient mocks the embedding client
type MockEmbeddingClient struct {
	mock.Mock
}

func (m *MockEmbeddingClient) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	args := m.Called(ctx, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]float32), args.Error(1)
}

// MockVectorSearcher mocks the vector store
type MockVectorSearcher struct {
	mock.Mock
}

func (m *MockVectorSearcher) Search(ctx context.Context, embedding []float32, threshold float64, topK int, category string) ([]*domain.ScoredEntry, error) {
	args := m.Called(ctx, embedding, threshold, topK, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ScoredEntry), args.Error(1)
}

// MockTripleSearcher mocks the triple index
type MockTripleSearcher struct {
	mock.Mock
}

func (m *MockTripleSearcher) Search(topic string) []domain.SemanticTriple {
	args := m.Called(topic)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]domain.SemanticTriple)
}

// MockInsightSearcher mocks the insight list
type MockInsightSearcher struct {
	mock.Mock
}

func (m *MockInsightSearcher) Search(topic string) []domain.IndustryInsight {
	args := m.Called(topic)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]domain.IndustryInsight)
}

func newTestRetrievalService(
	embedding *MockEmbeddingClient,
	store *MockVectorSearcher,
	triples *MockTripleSearcher,
	insights *MockInsightSearcher,
	cfg RetrievalConfig,
) *RetrievalService {
	return NewRetrievalService(embedding, store, triples, insights, cfg)
}

func scoredEntry(id, title, content string, score float64) *domain.ScoredEntry {
	return &domain.ScoredEntry{
		Entry: domain.KnowledgeEntry{ID: id, Type: domain.EntryTypeArticle, Title: title, Content: content},
		Score: score,
	}
}

func TestRetrievalService_Retrieve_AllSourcesContribute(t *testing.T) {
	mockEmbedding := new(MockEmbeddingClient)
	mockStore := new(MockVectorSearcher)
	mockTriples := new(MockTripleSearcher)
	mockInsights := new(MockInsightSearcher)
	svc := newTestRetrievalService(mockEmbedding, mockStore, mockTriples, mockInsights, RetrievalConfig{})

	embedding := make([]float32, 1536)
	mockEmbedding.On("GenerateEmbedding", mock.Anything, "pricing strategy").Return(embedding, nil)
	mockStore.On("Search", mock.Anything, embedding, 0.75, 10, "").Return([]*domain.ScoredEntry{
		scoredEntry("pricing", "Pricing Guide", "Value-based pricing beats cost-plus.", 0.91),
	}, nil)
	mockTriples.On("Search", "pricing strategy").Return([]domain.SemanticTriple{
		{Subject: "Value pricing", Predicate: "increases", Object: "margins"},
	})
	mockInsights.On("Search", "pricing strategy").Return([]domain.IndustryInsight{
		{ID: "ins-1", Content: "SaaS pricing pages convert better with three tiers.", Importance: 4},
	})

	merged, err := svc.Retrieve(context.Background(), "pricing strategy", RetrieveOptions{})

	require.NoError(t, err)
	require.Len(t, merged.Items, 3)
	assert.Equal(t, []domain.RetrievalSource{domain.SourceVector, domain.SourceTriples, domain.SourceInsights}, merged.Sources)
	assert.Equal(t, domain.SourceVector, merged.Items[0].Source)
	assert.Contains(t, merged.Items[0].Text, "Pricing Guide: ")
}

func TestRetrievalService_Retrieve_FailedSourceIsDropped(t *testing.T) {
	mockEmbedding := new(MockEmbeddingClient)
	mockStore := new(MockVectorSearcher)
	mockTriples := new(MockTripleSearcher)
	mockInsights := new(MockInsightSearcher)
	svc := newTestRetrievalService(mockEmbedding, mockStore, mockTriples, mockInsights, RetrievalConfig{})

	mockEmbedding.On("GenerateEmbedding", mock.Anything, mock.Anything).Return(nil, errors.New("embedding api down"))
	mockTriples.On("Search", "pricing").Return([]domain.SemanticTriple{
		{Subject: "Value pricing", Predicate: "increases", Object: "margins"},
	})
	mockInsights.On("Search", "pricing").Return(nil)

	merged, err := svc.Retrieve(context.Background(), "pricing", RetrieveOptions{})

	require.NoError(t, err)
	require.Len(t, merged.Items, 1)
	assert.Equal(t, domain.SourceTriples, merged.Items[0].Source)
	mockStore.AssertNotCalled(t, "Search")
}

func TestRetrievalService_Retrieve_AllSourcesUnavailable(t *testing.T) {
	mockEmbedding := new(MockEmbeddingClient)
	mockStore := new(MockVectorSearcher)
	mockTriples := new(MockTripleSearcher)
	mockInsights := new(MockInsightSearcher)
	svc := newTestRetrievalService(mockEmbedding, mockStore, mockTriples, mockInsights, RetrievalConfig{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	mockEmbedding.On("GenerateEmbedding", mock.Anything, mock.Anything).Return(nil, context.Canceled)

	_, err := svc.Retrieve(ctx, "pricing", RetrieveOptions{})

	assert.Equal(t, domain.ErrAllSourcesUnavailable, err)
}

func TestRetrievalService_Retrieve_EmptyTopic(t *testing.T) {
	svc := newTestRetrievalService(new(MockEmbeddingClient), new(MockVectorSearcher), new(MockTripleSearcher), new(MockInsightSearcher), RetrievalConfig{})

	_, err := svc.Retrieve(context.Background(), "   ", RetrieveOptions{})

	assert.Equal(t, domain.ErrEmptyTopic, err)
}

func TestRetrievalService_Retrieve_OverridesThresholdAndTopK(t *testing.T) {
	mockEmbedding := new(MockEmbeddingClient)
	mockStore := new(MockVectorSearcher)
	mockTriples := new(MockTripleSearcher)
	mockInsights := new(MockInsightSearcher)
	svc := newTestRetrievalService(mockEmbedding, mockStore, mockTriples, mockInsights, RetrievalConfig{})

	embedding := make([]float32, 1536)
	mockEmbedding.On("GenerateEmbedding", mock.Anything, mock.Anything).Return(embedding, nil)
	mockStore.On("Search", mock.Anything, embedding, 0.9, 3, "pricing").Return([]*domain.ScoredEntry{}, nil)
	mockTriples.On("Search", mock.Anything).Return(nil)
	mockInsights.On("Search", mock.Anything).Return(nil)

	_, err := svc.Retrieve(context.Background(), "pricing", RetrieveOptions{Threshold: 0.9, TopK: 3, Category: "pricing"})

	require.NoError(t, err)
	mockStore.AssertExpectations(t)
}

func TestMergeResults_StopsAtBudget(t *testing.T) {
	results := []*domain.RetrievalResult{
		{Source: domain.SourceVector, Items: []domain.EvidenceItem{
			{Text: strings.Repeat("a", 50), Score: 0.9},
			{Text: strings.Repeat("b", 50), Score: 0.8},
			{Text: strings.Repeat("c", 50), Score: 0.7},
		}},
	}

	merged := mergeResults(results, 110)

	require.Len(t, merged.Items, 2)
	assert.Equal(t, 100, merged.CharLen())
}

func TestMergeResults_DeduplicatesAcrossSources(t *testing.T) {
	text := "value based pricing increases margins for software companies"
	results := []*domain.RetrievalResult{
		{Source: domain.SourceVector, Items: []domain.EvidenceItem{{Text: text, Score: 0.9}}},
		{Source: domain.SourceTriples, Items: []domain.EvidenceItem{{Text: text, Score: 1.0}}},
	}

	merged := mergeResults(results, 4000)

	require.Len(t, merged.Items, 1)
	assert.Equal(t, domain.SourceVector, merged.Items[0].Source)
	assert.Equal(t, []domain.RetrievalSource{domain.SourceVector}, merged.Sources)
}

func TestMergeResults_DuplicateDoesNotConsumeBudget(t *testing.T) {
	long := strings.Repeat("pricing strategy advice for startups ", 10)
	results := []*domain.RetrievalResult{
		{Source: domain.SourceVector, Items: []domain.EvidenceItem{{Text: long, Score: 0.9}}},
		{Source: domain.SourceTriples, Items: []domain.EvidenceItem{
			{Text: long, Score: 1.0},
			{Text: "short unique fact", Score: 0.5},
		}},
	}

	merged := mergeResults(results, len(long)+30)

	require.Len(t, merged.Items, 2)
	assert.Equal(t, "short unique fact", merged.Items[1].Text)
}

func TestMergeResults_PriorityOrderPreserved(t *testing.T) {
	results := []*domain.RetrievalResult{
		{Source: domain.SourceVector, Items: []domain.EvidenceItem{{Text: "vector one", Score: 0.9}}},
		{Source: domain.SourceTriples, Items: []domain.EvidenceItem{{Text: "triple fact", Score: 1.0}}},
		{Source: domain.SourceInsights, Items: []domain.EvidenceItem{{Text: "insight line", Score: 1.0}}},
	}

	merged := mergeResults(results, 4000)

	require.Len(t, merged.Items, 3)
	assert.Equal(t, domain.SourceVector, merged.Items[0].Source)
	assert.Equal(t, domain.SourceTriples, merged.Items[1].Source)
	assert.Equal(t, domain.SourceInsights, merged.Items[2].Source)
}

func TestTextOverlap(t *testing.T) {
	assert.Equal(t, 1.0, textOverlap("pricing strategy guide", "pricing strategy guide"))
	assert.Equal(t, 1.0, textOverlap("pricing strategy", "pricing strategy guide for startups"))
	assert.Equal(t, 0.0, textOverlap("", "pricing"))
	assert.Less(t, textOverlap("pricing strategy guide", "kubernetes cluster networking"), 0.1)
}

func TestRankScore(t *testing.T) {
	assert.Equal(t, 1.0, rankScore(0))
	assert.Equal(t, 0.5, rankScore(1))
	assert.InDelta(t, 0.333, rankScore(2), 0.001)
}
