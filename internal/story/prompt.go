// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package story

import (
	"bytes"
	"text/template"
)

// factPackSchema is the simplified record shape embedded in the fact pack
// prompt so the model knows the exact JSON to produce.
const factPackSchema = `{
  "company": {
    "full_name": "string",
    "ticker": "string | null",
    "exchange": "string | null",
    "headquarters": "string | null",
    "founded_year": "integer | null",
    "founders": ["string"],
    "ceo": "string | null",
    "ceo_as_of": "string | null"
  },
  "business": {
    "main_business_lines": ["string"],
    "revenue_structure": {},
    "products": ["string"],
    "customers": "string | null",
    "channels": ["string"]
  },
  "timeline": [
    {"date": "string", "event": "string", "significance": "string"}
  ],
  "financials": {
    "revenue": [{"metric_name": "string", "value": "number", "unit": "string", "fiscal_year": "string", "period_end": "string", "basis": "string", "source_id": "integer"}],
    "gross_profit": [],
    "operating_income": [],
    "net_income": [],
    "eps": [],
    "cash": [],
    "debt": [],
    "operating_cash_flow": [],
    "revenue_composition": {}
  },
  "valuation": {
    "market_cap": "number | null",
    "market_cap_date": "string | null",
    "pe_ratio": "number | null",
    "pe_ratio_date": "string | null",
    "key_metrics": {},
    "note": "string | null",
    "source_id": "integer | null"
  },
  "news_30_90d": [
    {"date": "string | null", "title": "string", "summary": "string", "impact": "string", "source_id": "integer | null"}
  ],
  "risks": [
    {"risk_name": "string", "description": "string", "severity": "string | null"}
  ],
  "competitors": [
    {"name": "string", "category": "string", "description": "string"}
  ],
  "sources": [
    {"id": "integer", "title": "string", "url": "string", "publisher": "string", "published_date": "string | null", "accessed_date": "string", "used_for": ["string"]}
  ],
  "web_search_enabled": "boolean",
  "search_keywords": ["string"]
}`

// factPackPromptTmpl asks the model for a complete fact pack as pure JSON.
var factPackPromptTmpl = template.Must(template.New("factpack").Parse(`You are a financial research assistant. Compile a fact pack about the company "{{.CompanyInput}}" as of {{.TodayDate}}.

Requirements:
- timeline: 5 to 7 key milestones in the company's history, each with a date, what happened, and why it matters.
- financials: reported figures for the last 3 to 5 fiscal years where available. Every figure must carry its unit, fiscal year, accounting basis (GAAP or Non-GAAP), and a source_id. Never invent numbers; omit a metric rather than guessing it.
- valuation: current market cap and P/E ratio with their dates, or a note explaining why they are unavailable.
- news_30_90d: 5 to 10 significant news items from the last {{.MarketDays}} days, each with a one-line summary and its expected impact.
- risks: 5 to 8 named risks or challenges with descriptions.
- competitors: at least 4 competitive categories with 2 to 5 companies each.
- sources: every source you used, numbered from 1, with title, url, publisher, dates, and the fields it supports. Reference sources elsewhere via source_id.
- search_keywords: if you could not verify facts with live search, suggest queries a reader should run.

Respond with a single JSON object matching this schema exactly. Do not include any text outside the JSON object.

{{.Schema}}
`))

// writerPromptTmpl asks the model to turn a fact pack into a narrative
// article with inline citations.
var writerPromptTmpl = template.Must(template.New("writer").Parse(`You are a financial writer. Using only the fact pack below, write a Markdown article telling this company's story: origins, how the business works, financial trajectory, current valuation, recent developments, risks, and competitive position.

Rules:
- Use only facts present in the fact pack; do not add outside knowledge.
- Cite facts inline with their source number in the form [#1].
- Flag any section backed by entries marked "synthetic" as low-confidence.
- End the article with a "## Sources" section listing every source as: [#id] title — publisher — date — url.

Fact pack:
{{.FactPackJSON}}
`))

// renderFactPackPrompt fills the fact pack prompt template.
func renderFactPackPrompt(companyInput, todayDate string, marketDays int) (string, error) {
	var buf bytes.Buffer
	err := factPackPromptTmpl.Execute(&buf, struct {
		CompanyInput string
		TodayDate    string
		MarketDays   int
		Schema       string
	}{companyInput, todayDate, marketDays, factPackSchema})
	return buf.String(), err
}

// renderWriterPrompt fills the writer prompt template.
func renderWriterPrompt(factPackJSON string) (string, error) {
	var buf bytes.Buffer
	err := writerPromptTmpl.Execute(&buf, struct{ FactPackJSON string }{factPackJSON})
	return buf.String(), err
}
