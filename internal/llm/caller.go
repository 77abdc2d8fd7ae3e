// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/pdiddy/company-story/pkg/types"
)

const (
	defaultMaxRetries = 3
	defaultRetryDelay = 5 * time.Second
)

// Response is a successful model call. Model records which identifier
// actually answered, which differs from the request when a fallback was used.
type Response struct {
	Content string
	Model   string
}

// Caller wraps a Backend with the retry and fallback policy:
//
//   - rate limiting is retried with linear backoff (RetryDelay × attempt
//     number) up to MaxRetries total attempts;
//   - quota exhaustion fails immediately, never retried;
//   - a rejected model identifier triggers one pass through FallbackModels,
//     each tried once with the web search option dropped;
//   - every other failure is fatal on the first occurrence.
type Caller struct {
	Backend        Backend
	MaxRetries     int
	RetryDelay     time.Duration
	FallbackModels []string

	// Out receives progress diagnostics; nil discards them.
	Out io.Writer
}

// Call invokes the backend under the retry policy.
func (c *Caller) Call(ctx context.Context, req Request) (Response, error) {
	maxRetries := c.MaxRetries
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}
	delay := c.RetryDelay
	if delay <= 0 {
		delay = defaultRetryDelay
	}
	out := c.Out
	if out == nil {
		out = io.Discard
	}

	for attempt := 0; attempt < maxRetries; attempt++ {
		content, err := c.Backend.Complete(ctx, req)
		if err == nil {
			return Response{Content: content, Model: req.Model}, nil
		}

		if errors.Is(err, ErrQuotaExhausted) {
			return Response{}, err
		}

		var rateLimited *RateLimitError
		if errors.As(err, &rateLimited) {
			if attempt == maxRetries-1 {
				return Response{}, fmt.Errorf("max retries (%d) exceeded, still rate limited: %w", maxRetries, err)
			}
			wait := delay * time.Duration(attempt+1)
			fmt.Fprintf(out, "rate limited, retrying in %v (attempt %d/%d)\n", wait, attempt+1, maxRetries)
			select {
			case <-ctx.Done():
				return Response{}, ctx.Err()
			case <-time.After(wait):
			}
			continue
		}

		var unavailable *ModelUnavailableError
		if errors.As(err, &unavailable) {
			return c.callFallbacks(ctx, req, err, out)
		}

		return Response{}, err
	}

	return Response{}, fmt.Errorf("max retries (%d) exceeded", maxRetries)
}

// callFallbacks tries each fallback model once, in order. Fallback attempts
// drop the web search option since the substitute model may not support it.
func (c *Caller) callFallbacks(ctx context.Context, req Request, cause error, out io.Writer) (Response, error) {
	models := c.FallbackModels
	if len(models) == 0 {
		models = types.DefaultFallbackModels
	}

	fmt.Fprintf(out, "model %s unavailable, trying fallback models\n", req.Model)

	lastErr := cause
	for _, model := range models {
		fallback := req
		fallback.Model = model
		fallback.WebSearch = false

		content, err := c.Backend.Complete(ctx, fallback)
		if err == nil {
			fmt.Fprintf(out, "using fallback model %s\n", model)
			return Response{Content: content, Model: model}, nil
		}
		lastErr = err
	}

	return Response{}, fmt.Errorf("all fallback models failed: %w", lastErr)
}
