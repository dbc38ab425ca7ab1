package openai

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/inkwell-ai/inkwell/internal/domain"
	openai "github.com/sashabaranov/go-openai"
)

const (
	// DefaultChatModel is the OpenAI model used for text generation
	DefaultChatModel = openai.GPT4oMini

	// minCompletionChars is the shortest response treated as usable text.
	minCompletionChars = 20

	retryBackoff = 2 * time.Second
)

// CompletionAPI defines the interface for the chat completion call
type CompletionAPI interface {
	CreateCompletion(ctx context.Context, prompt string, maxTokens int, temperature float32) (string, error)
}

// CompletionClient drives the external generation capability. One retry
// with backoff is allowed on transient upstream errors; everything else
// surfaces as a typed domain error.
type CompletionClient struct {
	api CompletionAPI
}

type chatAdapter struct {
	client *openai.Client
	model  string
}

func (a *chatAdapter) CreateCompletion(ctx context.Context, prompt string, maxTokens int, temperature float32) (string, error) {
	resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: a.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		MaxTokens:   maxTokens,
		Temperature: temperature,
	})
	if err != nil {
		return "", err
	}

	if len(resp.Choices) == 0 {
		return "", nil
	}

	return resp.Choices[0].Message.Content, nil
}

// NewCompletionClient creates a CompletionClient backed by the OpenAI API.
func NewCompletionClient(apiKey, model string) *CompletionClient {
	if model == "" {
		model = DefaultChatModel
	}
	return &CompletionClient{
		api: &chatAdapter{client: openai.NewClient(apiKey), model: model},
	}
}

// NewCompletionClientWithAPI creates a CompletionClient with a custom API implementation.
func NewCompletionClientWithAPI(api CompletionAPI) *CompletionClient {
	return &CompletionClient{api: api}
}

// Complete calls the generation capability and validates its output.
func (c *CompletionClient) Complete(ctx context.Context, prompt string, maxTokens int, temperature float32) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", ErrEmptyText
	}

	text, err := c.api.CreateCompletion(ctx, prompt, maxTokens, temperature)
	if err != nil && isTransient(err) {
		select {
		case <-ctx.Done():
			return "", domain.NewDomainErrorWithCause(domain.ErrCodeUpstreamFailure, "generation call cancelled", ctx.Err())
		case <-time.After(retryBackoff):
		}
		text, err = c.api.CreateCompletion(ctx, prompt, maxTokens, temperature)
	}
	if err != nil {
		return "", domain.NewDomainErrorWithCause(domain.ErrCodeUpstreamFailure, "upstream generation call failed", err)
	}

	if len(strings.TrimSpace(text)) < minCompletionChars {
		return "", domain.ErrEmptyGeneration
	}

	return text, nil
}

// isTransient reports whether an upstream error is worth one retry:
// rate limiting or 5xx-class server errors.
func isTransient(err error) bool {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode == 429 || apiErr.HTTPStatusCode >= 500
	}
	return false
}
