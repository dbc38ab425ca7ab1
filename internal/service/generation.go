package service

import (
	"context"
	"time"

	"github.com/inkwell-ai/inkwell/internal/domain"
	"github.com/inkwell-ai/inkwell/internal/telemetry"
	"github.com/pkoukk/tiktoken-go"
	"github.com/samber/lo"
)

const (
	generationTemperature = 0.7

	// promptEncoding is the tokenizer used to size prompts; matches the
	// GPT-4-class chat models.
	promptEncoding = "cl100k_base"
)

var lengthMaxTokens = map[domain.ContentLength]int{
	domain.LengthShort:  500,
	domain.LengthMedium: 1200,
	domain.LengthLong:   2400,
}

// CompletionClient defines the interface for the generation capability
type CompletionClient interface {
	Complete(ctx context.Context, prompt string, maxTokens int, temperature float32) (string, error)
}

// Retriever defines the evidence-gathering dependency
type Retriever interface {
	Retrieve(ctx context.Context, topic string, opts RetrieveOptions) (*domain.MergedContext, error)
}

// SourceSummary reports one source's contribution to a generation call.
type SourceSummary struct {
	Source    domain.RetrievalSource
	DataCount int
	Insights  []string
}

// GenerationResult is the full output of one generation call.
type GenerationResult struct {
	GeneratedContent string
	Sources          []SourceSummary
	Metadata         map[string]any
}

// GenerationService retrieves evidence, composes the prompt, and drives
// the external completion call.
type GenerationService struct {
	retriever  Retriever
	completion CompletionClient
}

// NewGenerationService creates a GenerationService instance
func NewGenerationService(retriever Retriever, completion CompletionClient) *GenerationService {
	return &GenerationService{retriever: retriever, completion: completion}
}

// Generate produces content for the request. Invalid requests are
// rejected before any retrieval work; retrieval and upstream failures
// surface as typed domain errors.
func (s *GenerationService) Generate(ctx context.Context, req domain.GenerationRequest) (*GenerationResult, error) {
	req.ApplyDefaults()
	if err := domain.ValidateGenerationRequest(&req); err != nil {
		return nil, err
	}

	ctx, span := telemetry.StartSpan(ctx, "GenerationService.Generate", telemetry.SpanAttributes{
		Topic:     req.Topic,
		Operation: "generate",
	})
	defer span.End()

	merged, err := s.retriever.Retrieve(ctx, req.Topic, RetrieveOptions{})
	if err != nil {
		return nil, err
	}

	prompt := ComposePrompt(merged, req)

	text, err := s.completion.Complete(ctx, prompt, lengthMaxTokens[req.Length], generationTemperature)
	if err != nil {
		span.SetError(err)
		return nil, err
	}

	return &GenerationResult{
		GeneratedContent: text,
		Sources:          summarizeSources(merged),
		Metadata: map[string]any{
			"contentType":  string(req.ContentType),
			"length":       string(req.Length),
			"tone":         string(req.Tone),
			"promptTokens": countTokens(prompt),
			"evidenceLen":  merged.CharLen(),
			"generatedAt":  time.Now().UTC().Format(time.RFC3339),
		},
	}, nil
}

// summarizeSources reports, per contributing source, how many evidence
// items it supplied and a short sample of them.
func summarizeSources(merged *domain.MergedContext) []SourceSummary {
	summaries := make([]SourceSummary, 0, len(merged.Sources))
	for _, source := range merged.Sources {
		items := merged.BySource(source)
		sample := lo.Map(lo.Slice(items, 0, 2), func(item domain.ContextItem, _ int) string {
			return makeSnippet(item.Text)
		})
		summaries = append(summaries, SourceSummary{
			Source:    source,
			DataCount: len(items),
			Insights:  sample,
		})
	}
	return summaries
}

// countTokens estimates prompt size; falls back to a character heuristic
// if the encoding is unavailable.
func countTokens(prompt string) int {
	enc, err := tiktoken.GetEncoding(promptEncoding)
	if err != nil {
		return len(prompt) / 4
	}
	return len(enc.Encode(prompt, nil, nil))
}
