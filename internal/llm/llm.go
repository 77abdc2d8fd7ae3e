// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package llm calls a generative model API behind a retry-and-fallback
// policy. Backends translate provider SDK failures into a small taxonomy
// (rate limited, quota exhausted, model unavailable) so the caller can
// branch without knowing the provider.
package llm

import "context"

// Request is one model invocation: a single user-role prompt with a token
// budget and an optional web search tool declaration.
type Request struct {
	Model     string
	Prompt    string
	MaxTokens int

	// WebSearch requests the provider's web search tool when supported.
	WebSearch bool
}

// Backend abstracts a provider API so tests can supply a mock. A successful
// call returns non-empty text; a response with no usable text content (for
// example a tool invocation with no text) is an error.
type Backend interface {
	Complete(ctx context.Context, req Request) (string, error)
}
