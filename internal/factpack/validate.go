// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package factpack validates model-produced fact packs and repairs the
// failure modes that show up in practice: missing optional collections and
// under-length lists. Real financial data is never fabricated; padding
// entries are explicitly marked synthetic.
package factpack

import (
	"fmt"

	"github.com/pdiddy/company-story/pkg/types"
)

// Cardinality bounds enforced on fact pack lists. Over-length news and
// risks are clamped to the head of the list; an over-length timeline is
// rejected outright.
const (
	timelineMin = 5
	timelineMax = 7
	newsMin     = 3
	newsMax     = 10
	risksMin    = 3
	risksMax    = 8
)

// Rule names reported in violations.
const (
	RuleRequired  = "required"
	RuleMinLength = "min_length"
	RuleMaxLength = "max_length"
	RulePositive  = "positive"
	RuleUnique    = "unique"
	RuleType      = "type"
)

// Violation describes one failed constraint: the field path, the rule that
// failed, and the offending value.
type Violation struct {
	Path  string
	Rule  string
	Value any
}

func (v Violation) String() string {
	return fmt.Sprintf("%s: %s (%v)", v.Path, v.Rule, v.Value)
}

// Validate checks a fact pack against the schema constraints and returns
// every violation found. It first applies the safety clamps: news beyond
// 10 entries and risks beyond 8 are truncated to the head of the list.
// The pack is assumed to be ranked by importance before this point.
func Validate(p *types.FactPack) []Violation {
	if len(p.News) > newsMax {
		p.News = p.News[:newsMax]
	}
	if len(p.Risks) > risksMax {
		p.Risks = p.Risks[:risksMax]
	}

	var vs []Violation

	if p.Company.FullName == "" {
		vs = append(vs, Violation{Path: "company.full_name", Rule: RuleRequired, Value: ""})
	}

	if len(p.Timeline) < timelineMin {
		vs = append(vs, Violation{Path: "timeline", Rule: RuleMinLength, Value: len(p.Timeline)})
	} else if len(p.Timeline) > timelineMax {
		vs = append(vs, Violation{Path: "timeline", Rule: RuleMaxLength, Value: len(p.Timeline)})
	}
	for i, ev := range p.Timeline {
		if ev.Date == "" {
			vs = append(vs, Violation{Path: fmt.Sprintf("timeline[%d].date", i), Rule: RuleRequired, Value: ""})
		}
		if ev.Event == "" {
			vs = append(vs, Violation{Path: fmt.Sprintf("timeline[%d].event", i), Rule: RuleRequired, Value: ""})
		}
		if ev.Significance == "" {
			vs = append(vs, Violation{Path: fmt.Sprintf("timeline[%d].significance", i), Rule: RuleRequired, Value: ""})
		}
	}

	if len(p.News) < newsMin {
		vs = append(vs, Violation{Path: "news_30_90d", Rule: RuleMinLength, Value: len(p.News)})
	}
	for i, n := range p.News {
		if n.Title == "" {
			vs = append(vs, Violation{Path: fmt.Sprintf("news_30_90d[%d].title", i), Rule: RuleRequired, Value: ""})
		}
		if n.Summary == "" {
			vs = append(vs, Violation{Path: fmt.Sprintf("news_30_90d[%d].summary", i), Rule: RuleRequired, Value: ""})
		}
		if n.Impact == "" {
			vs = append(vs, Violation{Path: fmt.Sprintf("news_30_90d[%d].impact", i), Rule: RuleRequired, Value: ""})
		}
	}

	if len(p.Risks) < risksMin {
		vs = append(vs, Violation{Path: "risks", Rule: RuleMinLength, Value: len(p.Risks)})
	}
	for i, r := range p.Risks {
		if r.RiskName == "" {
			vs = append(vs, Violation{Path: fmt.Sprintf("risks[%d].risk_name", i), Rule: RuleRequired, Value: ""})
		}
		if r.Description == "" {
			vs = append(vs, Violation{Path: fmt.Sprintf("risks[%d].description", i), Rule: RuleRequired, Value: ""})
		}
	}

	seen := make(map[int]bool, len(p.Sources))
	for i, s := range p.Sources {
		if s.ID <= 0 {
			vs = append(vs, Violation{Path: fmt.Sprintf("sources[%d].id", i), Rule: RulePositive, Value: s.ID})
		} else if seen[s.ID] {
			vs = append(vs, Violation{Path: fmt.Sprintf("sources[%d].id", i), Rule: RuleUnique, Value: s.ID})
		}
		seen[s.ID] = true
		if s.Title == "" {
			vs = append(vs, Violation{Path: fmt.Sprintf("sources[%d].title", i), Rule: RuleRequired, Value: ""})
		}
		if s.URL == "" {
			vs = append(vs, Violation{Path: fmt.Sprintf("sources[%d].url", i), Rule: RuleRequired, Value: ""})
		}
		if s.AccessedDate == "" {
			vs = append(vs, Violation{Path: fmt.Sprintf("sources[%d].accessed_date", i), Rule: RuleRequired, Value: ""})
		}
	}

	return vs
}
