package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

const ollamaDefaultURL = "http://localhost:11434"

// ErrNoModel is returned by providers that have no sensible default model
var ErrNoModel = errors.New("model must be set")

// OllamaProvider calls a local Ollama daemon's generate endpoint
type OllamaProvider struct {
	api    *jsonEndpoint
	config Config
}

type ollamaGenerate struct {
	Model   string         `json:"model"`
	Prompt  string         `json:"prompt"`
	System  string         `json:"system,omitempty"`
	Stream  bool           `json:"stream"`
	Options map[string]any `json:"options,omitempty"`
}

type ollamaAnswer struct {
	Model           string `json:"model"`
	Response        string `json:"response"`
	Done            bool   `json:"done"`
	PromptEvalCount int    `json:"prompt_eval_count,omitempty"`
	EvalCount       int    `json:"eval_count,omitempty"`
}

func describeOllamaError(body []byte) string {
	var e struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(body, &e) != nil {
		return ""
	}
	return e.Error
}

// NewOllamaProvider never fails; a missing model surfaces on the first call
func NewOllamaProvider(config Config) (*OllamaProvider, error) {
	base := config.BaseURL
	if base == "" {
		base = ollamaDefaultURL
	}
	return &OllamaProvider{
		api: &jsonEndpoint{
			provider: "ollama",
			baseURL:  base,
			client:   newHTTPClient(config),
			describe: describeOllamaError,
		},
		config: config,
	}, nil
}

func (p *OllamaProvider) Name() string { return "ollama" }

// IsAvailable lists local models to confirm the daemon is up
func (p *OllamaProvider) IsAvailable(ctx context.Context) bool {
	if err := p.api.get(ctx, "/api/tags"); err != nil {
		zap.L().Debug("provider unavailable",
			zap.String("provider", p.Name()),
			zap.String("url", p.api.baseURL),
			zap.Error(err))
		return false
	}
	return true
}

func (p *OllamaProvider) Complete(ctx context.Context, req Request) (*Response, error) {
	model := req.Model
	if model == "" {
		model = p.config.Model
	}
	if model == "" {
		return nil, fmt.Errorf("ollama: %w (e.g. llama3.1:8b, qwen2.5)", ErrNoModel)
	}

	var answer ollamaAnswer
	err := p.api.post(ctx, "/api/generate", ollamaGenerate{
		Model:  model,
		Prompt: req.Prompt,
		System: systemPrompt(req),
		Options: map[string]any{
			"temperature": 0.7,
			"num_predict": maxTokens(req, p.config),
		},
	}, &answer)
	if err != nil {
		return nil, err
	}

	text := strings.TrimSpace(answer.Response)
	if text == "" {
		return nil, fmt.Errorf("ollama: %w", ErrEmptyResponse)
	}
	return &Response{
		Text:       text,
		Model:      answer.Model,
		TokensUsed: answer.PromptEvalCount + answer.EvalCount,
	}, nil
}
