// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedBackend returns canned results per call, in order. Calls beyond
// the script reuse the last entry.
type scriptedBackend struct {
	script   []func(req Request) (string, error)
	requests []Request
}

func (b *scriptedBackend) Complete(_ context.Context, req Request) (string, error) {
	b.requests = append(b.requests, req)
	idx := len(b.requests) - 1
	if idx >= len(b.script) {
		idx = len(b.script) - 1
	}
	return b.script[idx](req)
}

func ok(content string) func(Request) (string, error) {
	return func(Request) (string, error) { return content, nil }
}

func fail(err error) func(Request) (string, error) {
	return func(Request) (string, error) { return "", err }
}

func testCaller(b Backend) *Caller {
	return &Caller{
		Backend:        b,
		MaxRetries:     3,
		RetryDelay:     time.Millisecond,
		FallbackModels: []string{"fb-one", "fb-two"},
	}
}

func TestCallSuccessFirstAttempt(t *testing.T) {
	backend := &scriptedBackend{script: []func(Request) (string, error){ok("hello")}}

	resp, err := testCaller(backend).Call(context.Background(), Request{Model: "m1", Prompt: "p"})
	require.NoError(t, err)
	assert.Equal(t, "hello", resp.Content)
	assert.Equal(t, "m1", resp.Model)
	assert.Len(t, backend.requests, 1)
}

func TestCallRetriesRateLimitThenSucceeds(t *testing.T) {
	backend := &scriptedBackend{script: []func(Request) (string, error){
		fail(&RateLimitError{Err: errors.New("429")}),
		ok("recovered"),
	}}

	resp, err := testCaller(backend).Call(context.Background(), Request{Model: "m1"})
	require.NoError(t, err)
	assert.Equal(t, "recovered", resp.Content)
	assert.Len(t, backend.requests, 2)
}

// With MaxRetries=3, three consecutive rate limits must exhaust the budget
// before a fourth attempt happens, even though it would succeed.
func TestCallRateLimitExhaustsAttemptBudget(t *testing.T) {
	backend := &scriptedBackend{script: []func(Request) (string, error){
		fail(&RateLimitError{Err: errors.New("429")}),
		fail(&RateLimitError{Err: errors.New("429")}),
		fail(&RateLimitError{Err: errors.New("429")}),
		ok("too late"),
	}}

	_, err := testCaller(backend).Call(context.Background(), Request{Model: "m1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "max retries (3) exceeded")
	assert.Len(t, backend.requests, 3)

	var rateLimited *RateLimitError
	assert.ErrorAs(t, err, &rateLimited)
}

func TestCallQuotaExhaustedNeverRetried(t *testing.T) {
	backend := &scriptedBackend{script: []func(Request) (string, error){
		fail(fmt.Errorf("%w: billing", ErrQuotaExhausted)),
	}}

	_, err := testCaller(backend).Call(context.Background(), Request{Model: "m1"})
	require.ErrorIs(t, err, ErrQuotaExhausted)
	assert.Len(t, backend.requests, 1)
}

func TestCallModelUnavailableUsesFirstWorkingFallback(t *testing.T) {
	backend := &scriptedBackend{script: []func(Request) (string, error){
		fail(&ModelUnavailableError{Model: "m1", Err: errors.New("404")}),
		ok("from fallback"),
	}}

	resp, err := testCaller(backend).Call(context.Background(), Request{Model: "m1", WebSearch: true})
	require.NoError(t, err)
	assert.Equal(t, "from fallback", resp.Content)
	assert.Equal(t, "fb-one", resp.Model)

	require.Len(t, backend.requests, 2)
	assert.True(t, backend.requests[0].WebSearch)
	// Fallback attempts drop the web search option.
	assert.Equal(t, "fb-one", backend.requests[1].Model)
	assert.False(t, backend.requests[1].WebSearch)
}

func TestCallModelUnavailableExhaustsFallbacks(t *testing.T) {
	backend := &scriptedBackend{script: []func(Request) (string, error){
		fail(&ModelUnavailableError{Model: "m1", Err: errors.New("404")}),
		fail(errors.New("fb-one refused")),
		fail(errors.New("fb-two refused")),
	}}

	_, err := testCaller(backend).Call(context.Background(), Request{Model: "m1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "all fallback models failed")
	assert.Contains(t, err.Error(), "fb-two refused")
	assert.Len(t, backend.requests, 3)
}

func TestCallOtherErrorsAreFatalImmediately(t *testing.T) {
	backend := &scriptedBackend{script: []func(Request) (string, error){
		fail(errors.New("boom")),
	}}

	_, err := testCaller(backend).Call(context.Background(), Request{Model: "m1"})
	require.EqualError(t, err, "boom")
	assert.Len(t, backend.requests, 1)
}

func TestCallContextCancelledDuringBackoff(t *testing.T) {
	backend := &scriptedBackend{script: []func(Request) (string, error){
		fail(&RateLimitError{Err: errors.New("429")}),
	}}
	caller := testCaller(backend)
	caller.RetryDelay = 500 * time.Millisecond

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := caller.Call(ctx, Request{Model: "m1"})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
