package pipeline

import (
	"context"
	"errors"
	"fmt"
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

// MockEntryStore mocks the vector store
type MockEntryStore struct {
	mock.Mock
}

func (m *MockEntryStore) Upsert(ctx context.Context, e *domain.KnowledgeEntry) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

func (m *MockEntryStore) ListHashes(ctx context.Context) (map[string]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]string), args.Error(1)
}

func makeEntries(count int) []*domain.KnowledgeEntry {
	entries := make([]*domain.KnowledgeEntry, 0, count)
	for i := 0; i < count; i++ {
		entries = append(entries, domain.NewKnowledgeEntry(
			fmt.Sprintf("entry-%03d", i),
			domain.EntryTypeArticle,
			fmt.Sprintf("Title %d", i),
			fmt.Sprintf("Content for entry %d.", i),
			"general",
		))
	}
	return entries
}

func fastConfig() Config {
	return Config{Concurrency: 8, RatePerSecond: 10000}
}

func TestVectorizer_Vectorize_AllSucceed(t *testing.T) {
	mockClient := new(MockEmbeddingClient)
	mockStore := new(MockEntryStore)
	vectorizer := NewVectorizer(mockClient, mockStore, fastConfig())

	ctx := context.Background()
	entries := makeEntries(5)
	embedding := make([]float32, 1536)

	mockStore.On("ListHashes", ctx).Return(map[string]string{}, nil)
	mockClient.On("GenerateEmbedding", mock.Anything, mock.Anything).Return(embedding, nil)
	mockStore.On("Upsert", mock.Anything, mock.Anything).Return(nil)

	result, err := vectorizer.Vectorize(ctx, entries)

	require.NoError(t, err)
	assert.Equal(t, 5, result.ProcessedCount)
	assert.Equal(t, 0, result.SkippedCount)
	assert.Empty(t, result.Errors)
	mockStore.AssertExpectations(t)
}

func TestVectorizer_Vectorize_PartialFailuresDoNotAbortBatch(t *testing.T) {
	mockClient := new(MockEmbeddingClient)
	mockStore := new(MockEntryStore)
	vectorizer := NewVectorizer(mockClient, mockStore, fastConfig())

	ctx := context.Background()
	entries := makeEntries(102)
	embedding := make([]float32, 1536)
	apiErr := errors.New("rate limit exceeded")

	mockStore.On("ListHashes", ctx).Return(map[string]string{}, nil)
	mockClient.On("GenerateEmbedding", mock.Anything, entries[10].EmbedText()).Return(nil, apiErr)
	mockClient.On("GenerateEmbedding", mock.Anything, entries[50].EmbedText()).Return(nil, apiErr)
	mockClient.On("GenerateEmbedding", mock.Anything, mock.Anything).Return(embedding, nil)
	mockStore.On("Upsert", mock.Anything, mock.Anything).Return(nil)

	result, err := vectorizer.Vectorize(ctx, entries)

	require.NoError(t, err)
	assert.Equal(t, 100, result.ProcessedCount)
	assert.Len(t, result.Errors, 2)
	for _, itemErr := range result.Errors {
		assert.Equal(t, domain.EntryStateEmbedding, itemErr.Stage)
		assert.Contains(t, itemErr.Message, "rate limit")
	}
}

func TestVectorizer_Vectorize_SkipsUnchangedEntries(t *testing.T) {
	mockClient := new(MockEmbeddingClient)
	mockStore := new(MockEntryStore)
	vectorizer := NewVectorizer(mockClient, mockStore, fastConfig())

	ctx := context.Background()
	entries := makeEntries(3)
	embedding := make([]float32, 1536)

	stored := map[string]string{
		entries[0].ID: entries[0].ContentHash(),
		entries[1].ID: "stale-hash",
	}

	mockStore.On("ListHashes", ctx).Return(stored, nil)
	mockClient.On("GenerateEmbedding", mock.Anything, mock.Anything).Return(embedding, nil)
	mockStore.On("Upsert", mock.Anything, mock.Anything).Return(nil)

	result, err := vectorizer.Vectorize(ctx, entries)

	require.NoError(t, err)
	assert.Equal(t, 2, result.ProcessedCount)
	assert.Equal(t, 1, result.SkippedCount)
	mockClient.AssertNumberOfCalls(t, "GenerateEmbedding", 2)
}

func TestVectorizer_Vectorize_StoreFailureRecordedAtStoringStage(t *testing.T) {
	mockClient := new(MockEmbeddingClient)
	mockStore := new(MockEntryStore)
	vectorizer := NewVectorizer(mockClient, mockStore, fastConfig())

	ctx := context.Background()
	entries := makeEntries(1)
	embedding := make([]float32, 1536)

	mockStore.On("ListHashes", ctx).Return(map[string]string{}, nil)
	mockClient.On("GenerateEmbedding", mock.Anything, mock.Anything).Return(embedding, nil)
	mockStore.On("Upsert", mock.Anything, mock.Anything).Return(errors.New("connection reset"))

	result, err := vectorizer.Vectorize(ctx, entries)

	require.NoError(t, err)
	assert.Equal(t, 0, result.ProcessedCount)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, domain.EntryStateStoring, result.Errors[0].Stage)
}

func TestVectorizer_Vectorize_HashListingFailureAborts(t *testing.T) {
	mockClient := new(MockEmbeddingClient)
	mockStore := new(MockEntryStore)
	vectorizer := NewVectorizer(mockClient, mockStore, fastConfig())

	ctx := context.Background()

	mockStore.On("ListHashes", ctx).Return(nil, errors.New("database down"))

	_, err := vectorizer.Vectorize(ctx, makeEntries(2))

	require.Error(t, err)
	var domainErr *domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.ErrCodePersistence, domainErr.Code)
	mockClient.AssertNotCalled(t, "GenerateEmbedding")
}

func TestVectorizer_Vectorize_EmptyBatch(t *testing.T) {
	mockClient := new(MockEmbeddingClient)
	mockStore := new(MockEntryStore)
	vectorizer := NewVectorizer(mockClient, mockStore, fastConfig())

	ctx := context.Background()
	mockStore.On("ListHashes", ctx).Return(map[string]string{}, nil)

	result, err := vectorizer.Vectorize(ctx, nil)

	require.NoError(t, err)
	assert.Equal(t, 0, result.ProcessedCount)
	assert.Equal(t, 0, result.SkippedCount)
}
