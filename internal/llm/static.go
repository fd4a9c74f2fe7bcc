package llm

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// Rule maps a prompt fragment to a canned answer
type Rule struct {
	Contains string
	Text     string
	Err      error
}

// StaticProvider answers from a fixed rule list. With no rules it always
// returns ErrEmptyResponse, which drives every stage onto its data-driven
// fallback: that is what --offline runs use.
type StaticProvider struct {
	Rules   []Rule
	Default string

	mu      sync.Mutex
	prompts []string
}

// NewStaticProvider creates a static provider
func NewStaticProvider(rules ...Rule) *StaticProvider {
	return &StaticProvider{Rules: rules}
}

// Name returns the provider name
func (p *StaticProvider) Name() string {
	return "static"
}

// IsAvailable is always true
func (p *StaticProvider) IsAvailable(ctx context.Context) bool {
	return true
}

// Complete returns the first matching rule's text
func (p *StaticProvider) Complete(ctx context.Context, req Request) (*Response, error) {
	p.mu.Lock()
	p.prompts = append(p.prompts, req.Prompt)
	p.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	text := p.Default
	for _, r := range p.Rules {
		if strings.Contains(req.Prompt, r.Contains) {
			if r.Err != nil {
				return nil, r.Err
			}
			text = r.Text
			break
		}
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("static: %w", ErrEmptyResponse)
	}
	return &Response{Text: text, Model: "static", TokensUsed: len(text) / 4}, nil
}

// Prompts returns every prompt received so far
func (p *StaticProvider) Prompts() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.prompts...)
}
