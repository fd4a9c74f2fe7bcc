package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/ppiankov/hyperion/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// mockProvider implements Provider for testing
type mockProvider struct {
	name  string
	text  string
	err   error
	calls int
}

func (m *mockProvider) Name() string { return m.name }

func (m *mockProvider) Complete(ctx context.Context, req Request) (*Response, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return &Response{Text: m.text, Model: m.name}, nil
}

func (m *mockProvider) IsAvailable(ctx context.Context) bool { return m.err == nil }

func TestChain_FirstSuccessWins(t *testing.T) {
	first := &mockProvider{name: "gemini", text: "dari gemini"}
	second := &mockProvider{name: "openai", text: "dari openai"}

	out, err := NewChain(nil, first, second).Generate(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Equal(t, "dari gemini", out)
	assert.Equal(t, 0, second.calls)
}

func TestChain_FallsThroughErrorsAndEmpty(t *testing.T) {
	failing := &mockProvider{name: "gemini", err: errors.New("quota exceeded")}
	empty := &mockProvider{name: "compat", text: "   "}
	working := &mockProvider{name: "openai", text: " hasil "}

	out, err := NewChain(nil, failing, empty, working).Generate(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Equal(t, "hasil", out)
	assert.Equal(t, 1, failing.calls)
	assert.Equal(t, 1, empty.calls)
}

func TestChain_AllFailJoinsErrors(t *testing.T) {
	quota := errors.New("quota exceeded")
	chain := NewChain(nil,
		&mockProvider{name: "gemini", err: quota},
		&mockProvider{name: "openai", text: ""},
	)

	_, err := chain.Generate(context.Background(), "prompt")
	require.Error(t, err)
	assert.ErrorIs(t, err, quota)
	assert.ErrorIs(t, err, ErrEmptyResponse)
	assert.Contains(t, err.Error(), "gemini:")
	assert.Contains(t, err.Error(), "openai:")
}

func TestChain_LogsConfigErrorsLouder(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	unauthorized := &mockProvider{name: "openai", err: &StatusError{Provider: "openai", Status: 401, Message: "invalid key"}}
	overloaded := &mockProvider{name: "gemini", err: &StatusError{Provider: "gemini", Status: 503}}
	ok := &mockProvider{name: "ollama", text: "selesai"}

	out, err := NewChain(zap.New(core), unauthorized, overloaded, ok).Generate(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Equal(t, "selesai", out)

	failed := logs.FilterMessage("provider failed").AllUntimed()
	require.Len(t, failed, 2)
	assert.Equal(t, zapcore.ErrorLevel, failed[0].Level)
	assert.Equal(t, zapcore.WarnLevel, failed[1].Level)
	assert.Equal(t, 1, logs.FilterMessage("provider answered").Len())
}

func TestChain_Empty(t *testing.T) {
	_, err := NewChain(nil).Generate(context.Background(), "prompt")
	assert.ErrorIs(t, err, ErrNoProviders)
}

func TestChain_SkipsNilProviders(t *testing.T) {
	chain := NewChain(nil, nil, &mockProvider{name: "static", text: "ok"})
	assert.Equal(t, []string{"static"}, chain.Names())
	assert.Equal(t, 1, chain.Len())
}

func TestChain_StopsOnCancelledContext(t *testing.T) {
	p := &mockProvider{name: "gemini", text: "x"}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewChain(nil, p).Generate(ctx, "prompt")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, p.calls)
}

func TestStaticProvider_Rules(t *testing.T) {
	boom := errors.New("scripted failure")
	p := NewStaticProvider(
		Rule{Contains: "TITLE:", Text: "TITLE: Kuta"},
		Rule{Contains: "[[SUMMARY]]", Err: boom},
	)
	p.Default = "default text"

	resp, err := p.Complete(context.Background(), Request{Prompt: "Use TITLE: lines"})
	require.NoError(t, err)
	assert.Equal(t, "TITLE: Kuta", resp.Text)

	_, err = p.Complete(context.Background(), Request{Prompt: "[[SUMMARY]] please"})
	assert.ErrorIs(t, err, boom)

	resp, err = p.Complete(context.Background(), Request{Prompt: "anything"})
	require.NoError(t, err)
	assert.Equal(t, "default text", resp.Text)

	assert.Len(t, p.Prompts(), 3)
}

func TestStaticProvider_EmptyByDefault(t *testing.T) {
	_, err := NewStaticProvider().Complete(context.Background(), Request{Prompt: "x"})
	assert.ErrorIs(t, err, ErrEmptyResponse)
}

func TestBackendFunc(t *testing.T) {
	var b Backend = BackendFunc(func(ctx context.Context, prompt string) (string, error) {
		return "echo " + prompt, nil
	})
	out, err := b.Generate(context.Background(), "hi")
	require.NoError(t, err)
	assert.Equal(t, "echo hi", out)
}

func TestNewProvider(t *testing.T) {
	ctx := context.Background()

	p, err := NewProvider(ctx, Config{Provider: ""})
	assert.NoError(t, err)
	assert.Nil(t, p)

	p, err = NewProvider(ctx, Config{Provider: "offline"})
	require.NoError(t, err)
	assert.Equal(t, "static", p.Name())

	p, err = NewProvider(ctx, Config{Provider: "Ollama", Model: "qwen2.5"})
	require.NoError(t, err)
	assert.Equal(t, "ollama", p.Name())

	_, err = NewProvider(ctx, Config{Provider: "anthropic"})
	assert.Error(t, err)

	_, err = NewProvider(ctx, Config{Provider: "watson"})
	assert.ErrorContains(t, err, "unknown LLM provider")
}

func TestConfigFromModel_EnvAndTimeout(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "env-key")
	t.Setenv("OLLAMA_BASE_URL", "http://gpu-box:11434")

	cfg := model.DefaultConfig()
	cfg.HTTP.HTTPProxy = "http://proxy:3128"

	c := ConfigFromModel(model.ProviderConfig{Name: "anthropic"}, cfg)
	assert.Equal(t, "env-key", c.APIKey)
	assert.Equal(t, 120, c.Timeout)
	assert.Equal(t, "http://proxy:3128", c.HTTPProxy)

	c = ConfigFromModel(model.ProviderConfig{Name: "anthropic", APIKey: "file-key"}, cfg)
	assert.Equal(t, "file-key", c.APIKey)

	c = ConfigFromModel(model.ProviderConfig{Name: "ollama"}, cfg)
	assert.Equal(t, "http://gpu-box:11434", c.BaseURL)
}

func TestNewChainFromConfig_SkipsUnconstructable(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("GOOGLE_API_KEY", "")

	cfg := model.DefaultConfig()
	cfg.LLM.Providers = []model.ProviderConfig{
		{Name: "openai"}, // no key
		{Name: "static"},
	}

	chain := NewChainFromConfig(context.Background(), cfg, nil)
	assert.Equal(t, []string{"static"}, chain.Names())
}
