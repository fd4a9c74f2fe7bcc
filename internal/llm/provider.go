package llm

import (
	"context"
	"errors"
)

// Backend is the single generative-text dependency every stage receives
type Backend interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// BackendFunc adapts a plain function to Backend
type BackendFunc func(ctx context.Context, prompt string) (string, error)

// Generate calls f
func (f BackendFunc) Generate(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

// Provider defines the interface for LLM providers
type Provider interface {
	// Name returns the provider name
	Name() string

	// Complete sends one prompt and returns the model's text
	Complete(ctx context.Context, req Request) (*Response, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// Request contains the input for one completion
type Request struct {
	// Prompt is the user message
	Prompt string

	// System overrides DefaultSystemPrompt when set
	System string

	// Model is the specific model to use (provider-specific)
	Model string

	// MaxTokens limits the response length
	MaxTokens int
}

// Response contains the provider's output
type Response struct {
	// Text is the generated text, trimmed
	Text string

	// Model is the model that generated the response
	Model string

	// TokensUsed tracks token consumption
	TokensUsed int
}

// Config holds LLM provider configuration
type Config struct {
	// Provider name: "gemini", "compat", "openai", "anthropic", "ollama", "static"
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for hosted providers
	APIKey string

	// BaseURL for custom endpoints (Ollama, OpenAI-compatible gateways)
	BaseURL string

	// Timeout for API requests
	Timeout int // seconds

	// MaxTokens for response generation
	MaxTokens int

	// Proxy settings
	HTTPProxy  string
	HTTPSProxy string
	NoProxy    string
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Provider:  "", // Disabled by default
		Timeout:   120,
		MaxTokens: 2048,
	}
}

// DefaultSystemPrompt frames every call as Indonesian travel writing
const DefaultSystemPrompt = "You are an experienced Indonesian travel writer. Write in natural Bahasa Indonesia, " +
	"stay factual, and follow the requested output format exactly."

var (
	// ErrEmptyResponse is returned when a provider answers with no text
	ErrEmptyResponse = errors.New("empty response")

	// ErrNoProviders is returned by a chain with nothing configured
	ErrNoProviders = errors.New("no LLM providers configured")
)

func systemPrompt(req Request) string {
	if req.System != "" {
		return req.System
	}
	return DefaultSystemPrompt
}

func maxTokens(req Request, cfg Config) int {
	if req.MaxTokens > 0 {
		return req.MaxTokens
	}
	if cfg.MaxTokens > 0 {
		return cfg.MaxTokens
	}
	return 2048
}
