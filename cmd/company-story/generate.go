// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/company-story/internal/article"
	"github.com/pdiddy/company-story/internal/cache"
	"github.com/pdiddy/company-story/internal/history"
	"github.com/pdiddy/company-story/internal/identity"
	"github.com/pdiddy/company-story/internal/llm"
	"github.com/pdiddy/company-story/internal/story"
	"github.com/pdiddy/company-story/pkg/types"
)

const (
	defaultModel           = "gpt-4o"
	defaultProvider        = "openai"
	defaultMarketDays      = 90
	defaultMaxOutputTokens = 16000
	defaultCacheDir        = "cache"
	defaultOutputDir       = "output"
)

var generateCmd = &cobra.Command{
	Use:   "generate [company]",
	Short: "Generate a fact pack and a cited company story",
	Long: `Generate compiles a fact pack about the company (a name or a ticker
symbol), validates it against the fact-pack schema, caches it for the day,
and writes a Markdown article grounded in the pack. Outputs land in the
output directory: the article, a sources JSON file, and a CSL-YAML
bibliography.`,
	Args: cobra.ExactArgs(1),
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().Bool("no-web", false, "disable the web search tool on the fact pack call")
	generateCmd.Flags().Bool("no-cache", false, "skip the fact pack cache entirely")
	generateCmd.Flags().Int("market-days", defaultMarketDays, "news window in days for the fact pack")
	generateCmd.Flags().Int("max-output-tokens", defaultMaxOutputTokens, "maximum output tokens per model call")
	generateCmd.Flags().String("model", defaultModel, "model identifier")
	generateCmd.Flags().String("provider", defaultProvider, "model API provider: openai or anthropic")
	generateCmd.Flags().String("api-key", "", "API key (overrides env and .secrets/)")
	generateCmd.Flags().String("cache-dir", defaultCacheDir, "directory for cached fact packs")
	generateCmd.Flags().String("output-dir", defaultOutputDir, "directory for generated articles")

	rootCmd.AddCommand(generateCmd)
}

// stringSetting resolves a string flag against the viper config: an
// explicitly set flag wins, then a config value, then the flag default.
func stringSetting(cmd *cobra.Command, name string) string {
	v, _ := cmd.Flags().GetString(name)
	if !cmd.Flags().Changed(name) && viper.IsSet(name) {
		return viper.GetString(name)
	}
	return v
}

func intSetting(cmd *cobra.Command, name string) int {
	v, _ := cmd.Flags().GetInt(name)
	if !cmd.Flags().Changed(name) && viper.IsSet(name) {
		return viper.GetInt(name)
	}
	return v
}

// resolveAPIKey picks the key for the provider: flag, then the provider's
// environment variable, then .secrets/.
func resolveAPIKey(flagKey string, provider types.Provider) string {
	if flagKey != "" {
		return flagKey
	}
	switch provider {
	case types.ProviderOpenAI:
		if v := os.Getenv("OPENAI_API_KEY"); v != "" {
			return v
		}
		return secretDefault("openai-api-key", "")
	case types.ProviderAnthropic:
		if v := os.Getenv("ANTHROPIC_API_KEY"); v != "" {
			return v
		}
		return secretDefault("anthropic-api-key", "")
	}
	return ""
}

func buildBackend(provider types.Provider, apiKey string) (llm.Backend, error) {
	switch provider {
	case types.ProviderOpenAI:
		return llm.NewOpenAIBackend(apiKey), nil
	case types.ProviderAnthropic:
		return llm.NewAnthropicBackend(apiKey), nil
	}
	return nil, fmt.Errorf("unknown provider %q (want openai or anthropic)", provider)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	companyInput := args[0]

	noWeb, _ := cmd.Flags().GetBool("no-web")
	noCache, _ := cmd.Flags().GetBool("no-cache")
	flagKey, _ := cmd.Flags().GetString("api-key")

	provider := types.Provider(stringSetting(cmd, "provider"))
	apiKey := resolveAPIKey(flagKey, provider)
	if apiKey == "" {
		return fmt.Errorf("no API key for provider %s: use --api-key, the provider's environment variable, or a .secrets/ key file", provider)
	}

	cfg := types.GeneratorConfig{
		API: types.APIConfig{
			Provider:        provider,
			Model:           stringSetting(cmd, "model"),
			APIKey:          apiKey,
			MaxOutputTokens: intSetting(cmd, "max-output-tokens"),
			MaxRetries:      3,
			RetryDelay:      5 * time.Second,
		},
		EnableWebSearch: !noWeb,
		MarketDays:      intSetting(cmd, "market-days"),
		UseCache:        !noCache,
		CacheDir:        stringSetting(cmd, "cache-dir"),
		OutputDir:       stringSetting(cmd, "output-dir"),
	}

	backend, err := buildBackend(cfg.API.Provider, cfg.API.APIKey)
	if err != nil {
		return err
	}

	ledger, err := history.Open(cfg.CacheDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: run history disabled: %v\n", err)
		ledger = nil
	} else {
		defer ledger.Close()
	}

	gen := &story.Generator{
		Caller: &llm.Caller{
			Backend:        backend,
			MaxRetries:     cfg.API.MaxRetries,
			RetryDelay:     cfg.API.RetryDelay,
			FallbackModels: cfg.API.FallbackModels,
			Out:            os.Stdout,
		},
		Cache:   cache.NewStore(cfg.CacheDir, os.Stderr),
		History: ledger,
		Config:  cfg,
		Out:     os.Stdout,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	markdown, pack, err := gen.Generate(ctx, companyInput)
	if err != nil {
		return err
	}

	identifier := identity.Identifier(companyInput)
	key := identity.Key(identifier, time.Now())

	mdPath, sourcesPath, err := article.WriteOutputs(cfg.OutputDir, identifier, key, markdown, pack)
	if err != nil {
		return err
	}
	cslPath, err := article.WriteCSL(cfg.OutputDir, key, pack.Sources)
	if err != nil {
		return err
	}

	fmt.Printf("wrote article: %s\n", mdPath)
	fmt.Printf("wrote sources: %s\n", sourcesPath)
	fmt.Printf("wrote bibliography: %s\n", cslPath)
	return nil
}
