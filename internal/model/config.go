package model

import "time"

// PipelineConfig carries every tunable of a run. It is passed to the
// pipeline constructor; no stage reads configuration from anywhere else.
type PipelineConfig struct {
	HTTP         HTTPConfig        `yaml:"http" json:"http"`
	LLM          LLMConfig         `yaml:"llm" json:"llm"`
	Research     ResearchConfig    `yaml:"research" json:"research"`
	Writing      WritingConfig     `yaml:"writing" json:"writing"`
	Timeouts     TimeoutConfig     `yaml:"timeouts" json:"timeouts"`
	Cache        CacheConfig       `yaml:"cache" json:"cache"`
	RateLimiting RateLimitConfig   `yaml:"rate_limiting" json:"rate_limiting"`
	Content      ContentConfig     `yaml:"content" json:"content"`
	Concurrency  ConcurrencyConfig `yaml:"concurrency" json:"concurrency"`
}

// HTTPConfig controls outbound page fetches
type HTTPConfig struct {
	UserAgent     string `yaml:"user_agent" json:"user_agent"`
	MaxBodyBytes  int64  `yaml:"max_body_bytes" json:"max_body_bytes"`
	MaxRedirects  int    `yaml:"max_redirects" json:"max_redirects"`
	RespectRobots bool   `yaml:"respect_robots" json:"respect_robots"`
	HTTPProxy     string `yaml:"http_proxy,omitempty" json:"http_proxy,omitempty"`
	HTTPSProxy    string `yaml:"https_proxy,omitempty" json:"https_proxy,omitempty"`
	NoProxy       string `yaml:"no_proxy,omitempty" json:"no_proxy,omitempty"`
}

// ProviderConfig configures one entry of the generative provider chain
type ProviderConfig struct {
	Name      string `yaml:"name" json:"name"` // gemini, compat, openai, anthropic, ollama, static
	Model     string `yaml:"model,omitempty" json:"model,omitempty"`
	APIKey    string `yaml:"api_key,omitempty" json:"-"`
	BaseURL   string `yaml:"base_url,omitempty" json:"base_url,omitempty"`
	MaxTokens int    `yaml:"max_tokens,omitempty" json:"max_tokens,omitempty"`
}

// LLMConfig lists providers in the order they are tried
type LLMConfig struct {
	Providers []ProviderConfig `yaml:"providers" json:"providers"`
}

// ResearchConfig bounds the research stage
type ResearchConfig struct {
	MaxSources       int      `yaml:"max_sources" json:"max_sources"`
	MinSourceChars   int      `yaml:"min_source_chars" json:"min_source_chars"`
	MinUsableSources int      `yaml:"min_usable_sources" json:"min_usable_sources"`
	MaxQueries       int      `yaml:"max_queries" json:"max_queries"`
	ExcerptChars     int      `yaml:"excerpt_chars" json:"excerpt_chars"`
	Engines          []string `yaml:"engines" json:"engines"` // duckduckgo, bing
}

// WritingConfig controls length, rewriting and brand handling
type WritingConfig struct {
	MinWords        int     `yaml:"min_words" json:"min_words"`
	SpinIntensity   float64 `yaml:"spin_intensity" json:"spin_intensity"`     // 0-1 per-word trigger probability
	ProtectedWindow int     `yaml:"protected_window" json:"protected_window"` // chars
	NumericWindow   int     `yaml:"numeric_window" json:"numeric_window"`     // chars
	BrandName       string  `yaml:"brand_name" json:"brand_name"`
	SiteURL         string  `yaml:"site_url" json:"site_url"`
	PolishEnabled   bool    `yaml:"polish_enabled" json:"polish_enabled"`
	PolishMaxChars  int     `yaml:"polish_max_chars" json:"polish_max_chars"`
	Seed            int64   `yaml:"seed" json:"seed"` // 0 picks a time-based seed
}

// TimeoutConfig holds per-call timeouts
type TimeoutConfig struct {
	Fetch      time.Duration `yaml:"fetch" json:"fetch"`
	Outline    time.Duration `yaml:"outline" json:"outline"`
	Section    time.Duration `yaml:"section" json:"section"`
	Enrichment time.Duration `yaml:"enrichment" json:"enrichment"`
	Polish     time.Duration `yaml:"polish" json:"polish"`
	Search     time.Duration `yaml:"search" json:"search"`
}

// CacheConfig controls the fetched-page cache
type CacheConfig struct {
	Enabled bool          `yaml:"enabled" json:"enabled"`
	TTL     time.Duration `yaml:"ttl" json:"ttl"`
	Dir     string        `yaml:"dir,omitempty" json:"dir,omitempty"` // Empty keeps the cache in memory only
}

// RateLimitConfig paces source fetches
type RateLimitConfig struct {
	RequestsPerSecond float64       `yaml:"requests_per_second" json:"requests_per_second"`
	Burst             int           `yaml:"burst" json:"burst"`
	FetchDelay        time.Duration `yaml:"fetch_delay" json:"fetch_delay"`
}

// ContentConfig points at the index of already-published articles
type ContentConfig struct {
	IndexPath string `yaml:"index_path,omitempty" json:"index_path,omitempty"` // SQLite file; empty disables related links
}

// ConcurrencyConfig is used only by the batch runner
type ConcurrencyConfig struct {
	Workers int `yaml:"workers" json:"workers"`
}

// DefaultConfig returns a configuration that works offline-first
func DefaultConfig() PipelineConfig {
	return PipelineConfig{
		HTTP: HTTPConfig{
			UserAgent:     "Hyperion/0.1 (+https://sekali.id)",
			MaxBodyBytes:  5 * 1024 * 1024,
			MaxRedirects:  3,
			RespectRobots: true,
		},
		LLM: LLMConfig{
			Providers: []ProviderConfig{
				{Name: "gemini", Model: "gemini-2.0-flash"},
				{Name: "openai", Model: "gpt-4o-mini"},
			},
		},
		Research: ResearchConfig{
			MaxSources:       15,
			MinSourceChars:   200,
			MinUsableSources: 3,
			MaxQueries:       8,
			ExcerptChars:     3000,
			Engines:          []string{"duckduckgo", "bing"},
		},
		Writing: WritingConfig{
			MinWords:        1000,
			SpinIntensity:   0.3,
			ProtectedWindow: 30,
			NumericWindow:   12,
			BrandName:       "Sekali.id",
			SiteURL:         "https://sekali.id",
			PolishEnabled:   true,
			PolishMaxChars:  30000,
		},
		Timeouts: TimeoutConfig{
			Fetch:      10 * time.Second,
			Outline:    60 * time.Second,
			Section:    90 * time.Second,
			Enrichment: 120 * time.Second,
			Polish:     120 * time.Second,
			Search:     5 * time.Second,
		},
		Cache: CacheConfig{
			Enabled: true,
			TTL:     24 * time.Hour,
		},
		RateLimiting: RateLimitConfig{
			RequestsPerSecond: 1.0,
			Burst:             2,
			FetchDelay:        time.Second,
		},
		Concurrency: ConcurrencyConfig{
			Workers: 2,
		},
	}
}
