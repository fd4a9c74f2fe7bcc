package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// CompatProvider talks to any OpenAI-compatible chat endpoint (OpenRouter,
// Groq, DeepSeek, vLLM, LM Studio)
type CompatProvider struct {
	client openai.Client
	config Config
}

// NewCompatProvider creates a provider for an OpenAI-compatible endpoint
func NewCompatProvider(config Config) (*CompatProvider, error) {
	if config.BaseURL == "" {
		return nil, fmt.Errorf("compat provider requires a base URL")
	}
	if config.Model == "" {
		return nil, fmt.Errorf("compat provider requires a model")
	}

	opts := []option.RequestOption{
		option.WithBaseURL(config.BaseURL),
		option.WithMaxRetries(0),
		option.WithHTTPClient(newHTTPClient(config)),
	}
	if config.APIKey != "" {
		opts = append(opts, option.WithAPIKey(config.APIKey))
	}

	return &CompatProvider{
		client: openai.NewClient(opts...),
		config: config,
	}, nil
}

// Name returns the provider name
func (p *CompatProvider) Name() string {
	return "compat"
}

// IsAvailable lists models on the endpoint
func (p *CompatProvider) IsAvailable(ctx context.Context) bool {
	_, err := p.client.Models.List(ctx)
	return err == nil
}

// Complete generates text through the chat completions route
func (p *CompatProvider) Complete(ctx context.Context, req Request) (*Response, error) {
	model := req.Model
	if model == "" {
		model = p.config.Model
	}

	resp, err := p.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt(req)),
			openai.UserMessage(req.Prompt),
		},
		MaxTokens:   openai.Int(int64(maxTokens(req, p.config))),
		Temperature: openai.Float(0.7),
	})
	if err != nil {
		return nil, fmt.Errorf("compat API error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("compat: empty choices: %w", ErrEmptyResponse)
	}

	return &Response{
		Text:       strings.TrimSpace(resp.Choices[0].Message.Content),
		Model:      resp.Model,
		TokensUsed: int(resp.Usage.TotalTokens),
	}, nil
}
