// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Source is a citable reference. Other fact pack fields point at it through
// their source_id, so IDs must be positive and unique within a pack.
type Source struct {
	// ID is the citation number referenced elsewhere in the pack.
	ID int `json:"id" yaml:"id"`

	// Title is the source title.
	Title string `json:"title" yaml:"title"`

	// URL is the source location.
	URL string `json:"url" yaml:"url"`

	// Publisher is the publishing site or organization.
	Publisher string `json:"publisher" yaml:"publisher"`

	// PublishedDate is the publication date (YYYY-MM-DD), when known.
	PublishedDate string `json:"published_date,omitempty" yaml:"published_date,omitempty"`

	// AccessedDate is the date the source was read (YYYY-MM-DD).
	AccessedDate string `json:"accessed_date" yaml:"accessed_date"`

	// UsedFor lists the fact pack fields this source supports.
	UsedFor []string `json:"used_for" yaml:"used_for"`
}

// CompanyInfo holds basic company facts.
type CompanyInfo struct {
	FullName    string   `json:"full_name" yaml:"full_name"`
	Ticker      string   `json:"ticker,omitempty" yaml:"ticker,omitempty"`
	Exchange    string   `json:"exchange,omitempty" yaml:"exchange,omitempty"`
	HQ          string   `json:"headquarters,omitempty" yaml:"headquarters,omitempty"`
	FoundedYear int      `json:"founded_year,omitempty" yaml:"founded_year,omitempty"`
	Founders    []string `json:"founders" yaml:"founders"`
	CEO         string   `json:"ceo,omitempty" yaml:"ceo,omitempty"`
	CEOAsOf     string   `json:"ceo_as_of,omitempty" yaml:"ceo_as_of,omitempty"`
}

// BusinessInfo describes what the company sells and to whom.
type BusinessInfo struct {
	MainBusinessLines []string       `json:"main_business_lines" yaml:"main_business_lines"`
	RevenueStructure  map[string]any `json:"revenue_structure" yaml:"revenue_structure"`
	Products          []string       `json:"products" yaml:"products"`
	Customers         string         `json:"customers,omitempty" yaml:"customers,omitempty"`
	Channels          []string       `json:"channels" yaml:"channels"`
}

// TimelineEvent is one milestone in the company's history.
type TimelineEvent struct {
	// Date is the event date (YYYY-MM-DD or YYYY).
	Date string `json:"date" yaml:"date"`

	// Event describes what happened.
	Event string `json:"event" yaml:"event"`

	// Significance explains why the event matters.
	Significance string `json:"significance" yaml:"significance"`

	// Synthetic marks placeholder entries injected by padding repair.
	Synthetic bool `json:"synthetic,omitempty" yaml:"synthetic,omitempty"`
}

// FinancialMetric is a single reported financial figure with provenance.
type FinancialMetric struct {
	MetricName string  `json:"metric_name" yaml:"metric_name"`
	Value      float64 `json:"value" yaml:"value"`
	Unit       string  `json:"unit" yaml:"unit"`
	FiscalYear string  `json:"fiscal_year,omitempty" yaml:"fiscal_year,omitempty"`
	PeriodEnd  string  `json:"period_end,omitempty" yaml:"period_end,omitempty"`

	// Basis is the accounting basis (GAAP or Non-GAAP).
	Basis string `json:"basis" yaml:"basis"`

	// SourceID references a Source in the pack's sources list.
	SourceID int `json:"source_id,omitempty" yaml:"source_id,omitempty"`
}

// Financials groups reported metrics by statement line.
type Financials struct {
	Revenue            []FinancialMetric `json:"revenue" yaml:"revenue"`
	GrossProfit        []FinancialMetric `json:"gross_profit" yaml:"gross_profit"`
	OperatingIncome    []FinancialMetric `json:"operating_income" yaml:"operating_income"`
	NetIncome          []FinancialMetric `json:"net_income" yaml:"net_income"`
	EPS                []FinancialMetric `json:"eps" yaml:"eps"`
	Cash               []FinancialMetric `json:"cash" yaml:"cash"`
	Debt               []FinancialMetric `json:"debt" yaml:"debt"`
	OperatingCashFlow  []FinancialMetric `json:"operating_cash_flow" yaml:"operating_cash_flow"`
	RevenueComposition map[string]any    `json:"revenue_composition" yaml:"revenue_composition"`
}

// Valuation holds market valuation figures, all optional.
type Valuation struct {
	MarketCap     *float64       `json:"market_cap" yaml:"market_cap"`
	MarketCapDate string         `json:"market_cap_date,omitempty" yaml:"market_cap_date,omitempty"`
	PERatio       *float64       `json:"pe_ratio" yaml:"pe_ratio"`
	PERatioDate   string         `json:"pe_ratio_date,omitempty" yaml:"pe_ratio_date,omitempty"`
	KeyMetrics    map[string]any `json:"key_metrics" yaml:"key_metrics"`
	Note          string         `json:"note,omitempty" yaml:"note,omitempty"`
	SourceID      int            `json:"source_id,omitempty" yaml:"source_id,omitempty"`
}

// NewsItem is one recent news item inside the market window.
type NewsItem struct {
	Date     string `json:"date,omitempty" yaml:"date,omitempty"`
	Title    string `json:"title" yaml:"title"`
	Summary  string `json:"summary" yaml:"summary"`
	Impact   string `json:"impact" yaml:"impact"`
	SourceID int    `json:"source_id,omitempty" yaml:"source_id,omitempty"`

	// Synthetic marks placeholder entries injected by padding repair.
	Synthetic bool `json:"synthetic,omitempty" yaml:"synthetic,omitempty"`
}

// Risk is one named risk or challenge.
type Risk struct {
	RiskName    string `json:"risk_name" yaml:"risk_name"`
	Description string `json:"description" yaml:"description"`
	Severity    string `json:"severity,omitempty" yaml:"severity,omitempty"`

	// Synthetic marks placeholder entries injected by padding repair.
	Synthetic bool `json:"synthetic,omitempty" yaml:"synthetic,omitempty"`
}

// Competitor is one competing company or substitute.
type Competitor struct {
	Name        string `json:"name" yaml:"name"`
	Category    string `json:"category" yaml:"category"`
	Description string `json:"description" yaml:"description"`
}

// FactPack is the validated record of company facts that drives article
// generation. It is built once from a model response (or reloaded from
// cache) and never updated in place.
//
// Cardinality rules: timeline holds 5-7 events, news_30_90d at least 3
// items (clamped to 10), risks at least 3 (clamped to 8). Competitors are
// unconstrained at this layer.
type FactPack struct {
	Company    CompanyInfo     `json:"company" yaml:"company"`
	Business   BusinessInfo    `json:"business" yaml:"business"`
	Timeline   []TimelineEvent `json:"timeline" yaml:"timeline"`
	Financials Financials      `json:"financials" yaml:"financials"`
	Valuation  Valuation       `json:"valuation" yaml:"valuation"`
	News       []NewsItem      `json:"news_30_90d" yaml:"news_30_90d"`
	Risks      []Risk          `json:"risks" yaml:"risks"`

	Competitors []Competitor `json:"competitors" yaml:"competitors"`
	Sources     []Source     `json:"sources" yaml:"sources"`

	// GeneratedAt is the construction timestamp (RFC 3339).
	GeneratedAt string `json:"generated_at" yaml:"generated_at"`

	// WebSearchEnabled records whether live search backed this pack. The
	// generator's own setting is authoritative, never the model payload.
	WebSearchEnabled bool `json:"web_search_enabled" yaml:"web_search_enabled"`

	// SearchKeywords suggests queries for manual verification when live
	// search was unavailable.
	SearchKeywords []string `json:"search_keywords" yaml:"search_keywords"`
}
