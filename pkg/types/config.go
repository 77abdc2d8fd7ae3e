package types

import "time"

// Provider identifies the model API provider.
type Provider string

const (
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
)

// APIConfig holds settings for the model API caller.
type APIConfig struct {
	// Provider selects the backend: openai or anthropic.
	Provider Provider `json:"provider" yaml:"provider"`

	// Model is the model identifier (e.g. "gpt-4o").
	Model string `json:"model" yaml:"model"`

	// APIKey is the authentication key for the API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// MaxOutputTokens is the response token budget (default 16000).
	MaxOutputTokens int `json:"max_output_tokens" yaml:"max_output_tokens"`

	// MaxRetries is the total number of attempts under rate limiting
	// (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`

	// RetryDelay is the base backoff delay; attempt n waits
	// RetryDelay × (n+1) (default 5s).
	RetryDelay time.Duration `json:"retry_delay" yaml:"retry_delay"`

	// FallbackModels is the ordered list of models tried once each when
	// the configured model is rejected.
	FallbackModels []string `json:"fallback_models" yaml:"fallback_models"`
}

// GeneratorConfig holds settings for the company story generator.
type GeneratorConfig struct {
	API APIConfig `json:"api" yaml:"api"`

	// EnableWebSearch requests a live web search tool on fact pack calls.
	EnableWebSearch bool `json:"enable_web_search" yaml:"enable_web_search"`

	// MarketDays is the news window in days (default 90).
	MarketDays int `json:"market_days" yaml:"market_days"`

	// UseCache enables the date-keyed fact pack cache.
	UseCache bool `json:"use_cache" yaml:"use_cache"`

	// CacheDir is the cache directory (default "cache").
	CacheDir string `json:"cache_dir" yaml:"cache_dir"`

	// OutputDir is the directory for rendered articles (default "output").
	OutputDir string `json:"output_dir" yaml:"output_dir"`
}

// DefaultFallbackModels is the built-in fallback order used when the
// configured list is empty. Tests substitute a short deterministic list.
var DefaultFallbackModels = []string{"gpt-4o", "gpt-4-turbo", "gpt-4", "gpt-3.5-turbo"}
