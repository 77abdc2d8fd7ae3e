// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// OpenAIBackend calls the OpenAI Chat Completions API.
type OpenAIBackend struct {
	client openai.Client
}

// NewOpenAIBackend builds a backend authenticated with apiKey.
func NewOpenAIBackend(apiKey string) *OpenAIBackend {
	return &OpenAIBackend{client: openai.NewClient(option.WithAPIKey(apiKey))}
}

// Complete sends the prompt as a single user message and returns the
// response text.
func (b *OpenAIBackend) Complete(ctx context.Context, req Request) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(req.Model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(req.Prompt),
		},
		MaxTokens:   openai.Int(int64(req.MaxTokens)),
		Temperature: openai.Float(0.7),
	}
	if req.WebSearch {
		params.WebSearchOptions = openai.ChatCompletionNewParamsWebSearchOptions{}
	}

	resp, err := b.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", classifyOpenAIError(req.Model, err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai response carried no choices")
	}
	content := resp.Choices[0].Message.Content
	if strings.TrimSpace(content) == "" {
		return "", fmt.Errorf("openai response carried no usable text content")
	}
	return content, nil
}

// classifyOpenAIError maps OpenAI SDK failures onto the caller taxonomy.
// Quota exhaustion arrives as a 429 with an insufficient_quota code, so it
// is distinguished from plain rate limiting by message inspection.
func classifyOpenAIError(model string, err error) error {
	msg := strings.ToLower(err.Error())

	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.StatusCode == http.StatusTooManyRequests && strings.Contains(msg, "quota"):
			return fmt.Errorf("%w: %v", ErrQuotaExhausted, err)
		case apiErr.StatusCode == http.StatusTooManyRequests:
			return &RateLimitError{Err: err}
		case apiErr.StatusCode == http.StatusNotFound:
			return &ModelUnavailableError{Model: model, Err: err}
		}
	}

	switch {
	case strings.Contains(msg, "insufficient_quota"):
		return fmt.Errorf("%w: %v", ErrQuotaExhausted, err)
	case strings.Contains(msg, "rate limit"), strings.Contains(msg, "429"):
		return &RateLimitError{Err: err}
	case strings.Contains(msg, "model") && (strings.Contains(msg, "not found") || strings.Contains(msg, "invalid")):
		return &ModelUnavailableError{Model: model, Err: err}
	}
	return err
}
