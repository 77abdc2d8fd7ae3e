// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package story orchestrates company story generation: a cached,
// schema-validated fact pack first, then a narrative article grounded in
// it. Generation is strictly two sequential model calls per invocation.
package story

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/pdiddy/company-story/internal/article"
	"github.com/pdiddy/company-story/internal/cache"
	"github.com/pdiddy/company-story/internal/extract"
	"github.com/pdiddy/company-story/internal/factpack"
	"github.com/pdiddy/company-story/internal/history"
	"github.com/pdiddy/company-story/internal/identity"
	"github.com/pdiddy/company-story/internal/llm"
	"github.com/pdiddy/company-story/pkg/types"
)

// now is the generation clock, keyed into cache paths. Tests substitute a
// fixed time.
var now = time.Now

// Meta describes how a fact pack was obtained.
type Meta struct {
	// CacheHit reports whether the pack came from the cache.
	CacheHit bool

	// Model is the model that produced the pack; empty on a cache hit.
	Model string
}

// Generator runs the two-stage generation flow.
type Generator struct {
	Caller *llm.Caller
	Cache  cache.Store

	// History is the optional run ledger; nil disables recording.
	History *history.Store

	Config types.GeneratorConfig

	// Out receives progress diagnostics; nil discards them.
	Out io.Writer
}

func (g *Generator) out() io.Writer {
	if g.Out == nil {
		return io.Discard
	}
	return g.Out
}

// GenerateFactPack returns a validated fact pack for the company input,
// from cache when a same-day entry exists, otherwise from a fresh model
// call run through extraction and the validation/repair pipeline.
func (g *Generator) GenerateFactPack(ctx context.Context, companyInput string) (*types.FactPack, Meta, error) {
	identifier := identity.Identifier(companyInput)
	key := identity.Key(identifier, now())

	if g.Config.UseCache {
		if pack, ok := g.Cache.Load(key); ok {
			fmt.Fprintf(g.out(), "loaded fact pack from cache: %s\n", g.Cache.Path(key))
			return pack, Meta{CacheHit: true}, nil
		}
	}

	fmt.Fprintf(g.out(), "generating fact pack for %s\n", identifier)

	prompt, err := renderFactPackPrompt(companyInput, now().Format("2006-01-02"), g.Config.MarketDays)
	if err != nil {
		return nil, Meta{}, fmt.Errorf("rendering fact pack prompt: %w", err)
	}

	resp, err := g.Caller.Call(ctx, llm.Request{
		Model:     g.Config.API.Model,
		Prompt:    prompt,
		MaxTokens: g.Config.API.MaxOutputTokens,
		WebSearch: g.Config.EnableWebSearch,
	})
	if err != nil {
		return nil, Meta{}, fmt.Errorf("generating fact pack: %w", err)
	}

	payload := extract.JSONPayload(resp.Content)
	pack, err := factpack.Build(payload, factpack.BuildOptions{WebSearchEnabled: g.Config.EnableWebSearch})
	if err != nil {
		return nil, Meta{Model: resp.Model}, fmt.Errorf("validating fact pack: %w", err)
	}

	if g.Config.UseCache {
		if err := g.Cache.Save(key, pack); err != nil {
			fmt.Fprintf(g.out(), "warning: could not cache fact pack: %v\n", err)
		} else {
			fmt.Fprintf(g.out(), "cached fact pack: %s\n", g.Cache.Path(key))
		}
	}

	return pack, Meta{Model: resp.Model}, nil
}

// GenerateArticle turns a validated fact pack into a Markdown article. The
// article call carries no web search tool; the pack is the sole source of
// facts. The result always ends with a sources section.
func (g *Generator) GenerateArticle(ctx context.Context, pack *types.FactPack) (string, error) {
	fmt.Fprintln(g.out(), "generating article")

	packJSON, err := json.MarshalIndent(pack, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling fact pack: %w", err)
	}

	prompt, err := renderWriterPrompt(string(packJSON))
	if err != nil {
		return "", fmt.Errorf("rendering writer prompt: %w", err)
	}

	resp, err := g.Caller.Call(ctx, llm.Request{
		Model:     g.Config.API.Model,
		Prompt:    prompt,
		MaxTokens: g.Config.API.MaxOutputTokens,
	})
	if err != nil {
		return "", fmt.Errorf("generating article: %w", err)
	}

	return article.EnsureSources(resp.Content, pack.Sources), nil
}

// Generate runs the full flow and records the run in the history ledger.
func (g *Generator) Generate(ctx context.Context, companyInput string) (string, *types.FactPack, error) {
	start := now()
	identifier := identity.Identifier(companyInput)

	pack, meta, err := g.GenerateFactPack(ctx, companyInput)
	if err != nil {
		g.record(ctx, identifier, meta, history.StatusFailed, start)
		return "", nil, err
	}

	markdown, err := g.GenerateArticle(ctx, pack)
	if err != nil {
		g.record(ctx, identifier, meta, history.StatusFailed, start)
		return "", nil, err
	}

	g.record(ctx, identifier, meta, history.StatusOK, start)
	return markdown, pack, nil
}

// record appends the run to the ledger. Ledger failures are warnings only.
func (g *Generator) record(ctx context.Context, identifier string, meta Meta, status string, start time.Time) {
	if g.History == nil {
		return
	}
	model := meta.Model
	if model == "" && !meta.CacheHit {
		model = g.Config.API.Model
	}
	err := g.History.Record(ctx, history.Run{
		Identifier: identifier,
		Date:       start.Format("2006-01-02"),
		Provider:   string(g.Config.API.Provider),
		Model:      model,
		CacheHit:   meta.CacheHit,
		Status:     status,
		DurationMS: time.Since(start).Milliseconds(),
	})
	if err != nil {
		fmt.Fprintf(g.out(), "warning: could not record run: %v\n", err)
	}
}
