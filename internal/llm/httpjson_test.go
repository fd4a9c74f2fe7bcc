package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serve(t *testing.T, h http.HandlerFunc) string {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return srv.URL
}

func TestStatusError_Retryable(t *testing.T) {
	tests := []struct {
		status int
		want   bool
	}{
		{http.StatusTooManyRequests, true},
		{http.StatusBadGateway, true},
		{http.StatusUnauthorized, false},
		{http.StatusNotFound, false},
	}
	for _, tt := range tests {
		err := &StatusError{Provider: "x", Status: tt.status}
		assert.Equal(t, tt.want, err.Retryable(), "status %d", tt.status)
	}
}

func TestAnthropicProvider_Complete(t *testing.T) {
	url := serve(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "sk-test", r.Header.Get("x-api-key"))
		assert.Equal(t, anthropicVersion, r.Header.Get("anthropic-version"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req anthropicRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "Anda pemandu wisata.", req.System)
		assert.Equal(t, anthropicDefaultModel, req.Model)
		require.Len(t, req.Messages, 1)
		assert.Equal(t, "Ceritakan Pantai Sanur", req.Messages[0].Content)

		_, _ = w.Write([]byte(`{"model":"claude-test","content":[` +
			`{"type":"text","text":"Sanur tenang. "},` +
			`{"type":"tool_use","text":"ignored"},` +
			`{"type":"text","text":"Cocok untuk keluarga."}],` +
			`"usage":{"input_tokens":12,"output_tokens":8}}`))
	})

	p, err := NewAnthropicProvider(Config{APIKey: "sk-test", BaseURL: url + "/", Timeout: 5})
	require.NoError(t, err)

	resp, err := p.Complete(context.Background(), Request{Prompt: "Ceritakan Pantai Sanur", System: "Anda pemandu wisata."})
	require.NoError(t, err)
	assert.Equal(t, "Sanur tenang. Cocok untuk keluarga.", resp.Text)
	assert.Equal(t, "claude-test", resp.Model)
	assert.Equal(t, 20, resp.TokensUsed)
}

func TestAnthropicProvider_Errors(t *testing.T) {
	_, err := NewAnthropicProvider(Config{})
	assert.Error(t, err)

	limited := serve(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"type":"error","error":{"type":"rate_limit_error","message":"slow down"}}`))
	})
	p, err := NewAnthropicProvider(Config{APIKey: "k", BaseURL: limited, Timeout: 5})
	require.NoError(t, err)

	_, err = p.Complete(context.Background(), Request{Prompt: "x"})
	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusTooManyRequests, statusErr.Status)
	assert.Equal(t, "rate_limit_error: slow down", statusErr.Message)
	assert.True(t, statusErr.Retryable())
	assert.False(t, p.IsAvailable(context.Background()))

	empty := serve(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"content":[]}`))
	})
	p, _ = NewAnthropicProvider(Config{APIKey: "k", BaseURL: empty, Timeout: 5})
	_, err = p.Complete(context.Background(), Request{Prompt: "x"})
	assert.ErrorIs(t, err, ErrEmptyResponse)
}

func TestOllamaProvider_Complete(t *testing.T) {
	url := serve(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/generate", r.URL.Path)

		var req ollamaGenerate
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.False(t, req.Stream)
		assert.Equal(t, DefaultSystemPrompt, req.System)
		assert.EqualValues(t, 256, req.Options["num_predict"])

		_ = json.NewEncoder(w).Encode(ollamaAnswer{
			Model:           req.Model,
			Response:        "  Danau Toba luas sekali. ",
			Done:            true,
			PromptEvalCount: 4,
			EvalCount:       9,
		})
	})

	p, err := NewOllamaProvider(Config{BaseURL: url, Model: "qwen2.5", Timeout: 5})
	require.NoError(t, err)

	resp, err := p.Complete(context.Background(), Request{Prompt: "Danau Toba", MaxTokens: 256})
	require.NoError(t, err)
	assert.Equal(t, "Danau Toba luas sekali.", resp.Text)
	assert.Equal(t, "qwen2.5", resp.Model)
	assert.Equal(t, 13, resp.TokensUsed)
}

func TestOllamaProvider_Errors(t *testing.T) {
	url := serve(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"model 'missing' not found"}`))
	})

	p, _ := NewOllamaProvider(Config{BaseURL: url, Model: "missing", Timeout: 5})
	_, err := p.Complete(context.Background(), Request{Prompt: "x"})
	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, "model 'missing' not found", statusErr.Message)
	assert.False(t, statusErr.Retryable())

	noModel, _ := NewOllamaProvider(Config{BaseURL: url})
	_, err = noModel.Complete(context.Background(), Request{Prompt: "x"})
	assert.True(t, errors.Is(err, ErrNoModel))
}

func TestOllamaProvider_IsAvailable(t *testing.T) {
	url := serve(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/tags" && r.Method == http.MethodGet {
			_, _ = w.Write([]byte(`{"models":[]}`))
			return
		}
		w.WriteHeader(http.StatusNotFound)
	})

	p, _ := NewOllamaProvider(Config{BaseURL: url, Timeout: 5})
	assert.True(t, p.IsAvailable(context.Background()))

	down, _ := NewOllamaProvider(Config{BaseURL: "http://127.0.0.1:1", Timeout: 1})
	assert.False(t, down.IsAvailable(context.Background()))
}

func TestJSONEndpoint_RawBodyWhenUndescribed(t *testing.T) {
	url := serve(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("  upstream down \n"))
	})

	e := &jsonEndpoint{provider: "gw", baseURL: url, client: http.DefaultClient}
	err := e.post(context.Background(), "/x", map[string]string{"a": "b"}, nil)

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, "gw: HTTP 503: upstream down", err.Error())
}
