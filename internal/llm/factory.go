package llm

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ppiankov/hyperion/internal/model"
	"go.uber.org/zap"
)

// NewProvider creates a new LLM provider based on configuration
func NewProvider(ctx context.Context, config Config) (Provider, error) {
	provider := strings.ToLower(config.Provider)

	switch provider {
	case "gemini", "google":
		return NewGeminiProvider(ctx, config)

	case "compat", "openai-compatible":
		return NewCompatProvider(config)

	case "openai":
		return NewOpenAIProvider(config)

	case "anthropic", "claude":
		return NewAnthropicProvider(config)

	case "ollama":
		return NewOllamaProvider(config)

	case "static", "offline":
		return NewStaticProvider(), nil

	case "":
		// No provider configured - return nil (disabled)
		return nil, nil

	default:
		return nil, fmt.Errorf("unknown LLM provider: %s (supported: gemini, compat, openai, anthropic, ollama, static)", config.Provider)
	}
}

// ConfigFromModel converts one chain entry plus shared HTTP settings to llm.Config
func ConfigFromModel(pc model.ProviderConfig, cfg model.PipelineConfig) Config {
	// The HTTP client timeout is a backstop; each call carries its own
	// stage deadline, so use the longest one.
	timeout := cfg.Timeouts.Polish
	for _, t := range []time.Duration{cfg.Timeouts.Enrichment, cfg.Timeouts.Section, cfg.Timeouts.Outline} {
		if t > timeout {
			timeout = t
		}
	}

	c := Config{
		Provider:   pc.Name,
		Model:      pc.Model,
		APIKey:     pc.APIKey,
		BaseURL:    pc.BaseURL,
		Timeout:    int(timeout.Seconds()),
		MaxTokens:  pc.MaxTokens,
		HTTPProxy:  cfg.HTTP.HTTPProxy,
		HTTPSProxy: cfg.HTTP.HTTPSProxy,
		NoProxy:    cfg.HTTP.NoProxy,
	}
	applyEnv(&c)
	return c
}

// applyEnv fills credentials the config file left empty
func applyEnv(c *Config) {
	keyVars := map[string][]string{
		"gemini":    {"GEMINI_API_KEY", "GOOGLE_API_KEY"},
		"google":    {"GEMINI_API_KEY", "GOOGLE_API_KEY"},
		"openai":    {"OPENAI_API_KEY"},
		"anthropic": {"ANTHROPIC_API_KEY"},
		"claude":    {"ANTHROPIC_API_KEY"},
		"compat":    {"COMPAT_API_KEY"},
	}
	if c.APIKey == "" {
		for _, v := range keyVars[strings.ToLower(c.Provider)] {
			if key := os.Getenv(v); key != "" {
				c.APIKey = key
				break
			}
		}
	}

	switch strings.ToLower(c.Provider) {
	case "ollama":
		if c.BaseURL == "" {
			c.BaseURL = os.Getenv("OLLAMA_BASE_URL")
		}
	case "compat":
		if c.BaseURL == "" {
			c.BaseURL = os.Getenv("COMPAT_BASE_URL")
		}
	}
}

// NewChainFromConfig builds the provider chain in configured order.
// Entries that cannot be constructed (usually a missing API key) are
// skipped with a warning; an empty chain is still a valid Backend that
// always fails, so every stage falls back.
func NewChainFromConfig(ctx context.Context, cfg model.PipelineConfig, logger *zap.Logger) *Chain {
	if logger == nil {
		logger = zap.NewNop()
	}

	var providers []Provider
	for _, pc := range cfg.LLM.Providers {
		p, err := NewProvider(ctx, ConfigFromModel(pc, cfg))
		if err != nil {
			logger.Warn("skipping LLM provider", zap.String("provider", pc.Name), zap.Error(err))
			continue
		}
		if p == nil {
			continue
		}
		providers = append(providers, p)
	}

	chain := NewChain(logger, providers...)
	logger.Info("LLM chain ready", zap.Strings("providers", chain.Names()))
	return chain
}
