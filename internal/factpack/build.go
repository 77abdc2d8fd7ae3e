// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package factpack

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/pdiddy/company-story/pkg/types"
)

// requiredSections are the top-level keys every payload must carry, checked
// in order; the first absent one is reported.
var requiredSections = []string{"company", "business", "financials", "valuation", "sources"}

// now is the construction clock. Tests substitute a fixed time.
var now = time.Now

// BuildOptions carries the caller-side settings applied during construction.
type BuildOptions struct {
	// WebSearchEnabled is the generator's web search setting. It is
	// authoritative: the payload's own flag is always overwritten.
	WebSearchEnabled bool
}

// Build converts an extracted JSON string into a validated fact pack. It
// applies a staged pipeline, each stage running only when the previous one
// failed:
//
//  1. structural pre-check: JSON parse, then presence of the required
//     top-level sections;
//  2. strict construction and validation;
//  3. soft repair: defaults for absent optional collections, then revalidate;
//  4. padding repair: when the only remaining failures are under-length
//     news, risks, or timeline lists, append marked synthetic entries up to
//     the minimum and revalidate once;
//  5. terminal failure carrying the last violations.
func Build(payload string, opts BuildOptions) (*types.FactPack, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal([]byte(payload), &raw); err != nil {
		return nil, &MalformedPayloadError{Err: err}
	}
	for _, section := range requiredSections {
		if _, ok := raw[section]; !ok {
			return nil, &MissingSectionError{Section: section}
		}
	}

	var pack types.FactPack
	if err := json.Unmarshal([]byte(payload), &pack); err != nil {
		return nil, &SchemaError{Violations: []Violation{decodeViolation(err)}}
	}

	pack.WebSearchEnabled = opts.WebSearchEnabled
	if pack.GeneratedAt == "" {
		pack.GeneratedAt = now().Format(time.RFC3339)
	}

	violations := Validate(&pack)
	if len(violations) == 0 {
		return &pack, nil
	}

	softRepair(&pack)
	violations = Validate(&pack)
	if len(violations) == 0 {
		return &pack, nil
	}

	if paddableOnly(violations) {
		pad(&pack)
		violations = Validate(&pack)
		if len(violations) == 0 {
			return &pack, nil
		}
	}

	return nil, &SchemaError{Violations: violations}
}

// decodeViolation maps a JSON decode failure onto a violation. Type
// mismatches keep the offending field path.
func decodeViolation(err error) Violation {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return Violation{Path: typeErr.Field, Rule: RuleType, Value: typeErr.Value}
	}
	return Violation{Rule: RuleType, Value: err.Error()}
}

// softRepair injects safe defaults for optional collections the payload
// omitted. It never touches financial figures.
func softRepair(p *types.FactPack) {
	if p.Sources == nil {
		p.Sources = []types.Source{}
	}
	if p.SearchKeywords == nil {
		p.SearchKeywords = []string{}
	}
}

// paddableOnly reports whether every violation is an under-length failure
// on one of the lists padding is allowed to grow.
func paddableOnly(vs []Violation) bool {
	for _, v := range vs {
		if v.Rule != RuleMinLength {
			return false
		}
		switch v.Path {
		case "news_30_90d", "risks", "timeline":
		default:
			return false
		}
	}
	return true
}

// pad appends synthetic placeholder entries until each under-length list
// reaches its minimum. Placeholders are marked so reviewers can tell
// low-confidence sections from genuine data.
func pad(p *types.FactPack) {
	for len(p.News) < newsMin {
		p.News = append(p.News, types.NewsItem{
			Title:     "Insufficient data",
			Summary:   "The model produced fewer news items than required.",
			Impact:    "Verify against primary sources before relying on this section.",
			Synthetic: true,
		})
	}
	for len(p.Risks) < risksMin {
		p.Risks = append(p.Risks, types.Risk{
			RiskName:    "Insufficient data",
			Description: "The model produced fewer risk entries than required.",
			Synthetic:   true,
		})
	}
	for len(p.Timeline) < timelineMin {
		p.Timeline = append(p.Timeline, types.TimelineEvent{
			Date:         "unknown",
			Event:        "Insufficient data",
			Significance: "The model produced fewer timeline events than required.",
			Synthetic:    true,
		})
	}
}
