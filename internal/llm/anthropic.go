// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// AnthropicBackend calls the Anthropic Messages API. The web search tool
// declaration is not wired for this provider; requests carry text only.
type AnthropicBackend struct {
	client anthropic.Client
}

// NewAnthropicBackend builds a backend authenticated with apiKey.
func NewAnthropicBackend(apiKey string) *AnthropicBackend {
	return &AnthropicBackend{client: anthropic.NewClient(option.WithAPIKey(apiKey))}
}

// Complete sends the prompt as a single user message and returns the
// concatenated text blocks of the response.
func (b *AnthropicBackend) Complete(ctx context.Context, req Request) (string, error) {
	resp, err := b.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(req.Model),
		MaxTokens: int64(req.MaxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.Prompt)),
		},
	})
	if err != nil {
		return "", classifyAnthropicError(req.Model, err)
	}

	var sb strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	if strings.TrimSpace(sb.String()) == "" {
		return "", fmt.Errorf("anthropic response carried no usable text content")
	}
	return sb.String(), nil
}

// classifyAnthropicError maps Anthropic SDK failures onto the caller taxonomy.
func classifyAnthropicError(model string, err error) error {
	msg := strings.ToLower(err.Error())

	var apiErr *anthropic.Error
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
	case strings.Contains(msg, "rate limit"), strings.Contains(msg, "429"):
		return &RateLimitError{Err: err}
	case strings.Contains(msg, "model") && strings.Contains(msg, "not found"):
		return &ModelUnavailableError{Model: model, Err: err}
	}
	return err
}
