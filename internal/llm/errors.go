// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"errors"
	"fmt"
)

// ErrQuotaExhausted signals an account quota failure. Retrying cannot help
// and would only waste further quota, so the caller fails immediately.
var ErrQuotaExhausted = errors.New("api quota exhausted")

// RateLimitError signals a rate-limiting response. The caller retries these
// with linear backoff up to its attempt cap.
type RateLimitError struct {
	Err error
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limited: %v", e.Err)
}

func (e *RateLimitError) Unwrap() error { return e.Err }

// ModelUnavailableError signals that the requested model identifier was
// rejected. The caller walks its fallback model list before giving up.
type ModelUnavailableError struct {
	Model string
	Err   error
}

func (e *ModelUnavailableError) Error() string {
	return fmt.Sprintf("model %q unavailable: %v", e.Model, e.Err)
}

func (e *ModelUnavailableError) Unwrap() error { return e.Err }
