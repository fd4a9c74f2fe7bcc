package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ppiankov/hyperion/internal/util"
)

// maxErrorBody caps how much of a failed response ends up in an error
const maxErrorBody = 512

// StatusError is a non-2xx answer from a provider endpoint
type StatusError struct {
	Provider string
	Status   int
	Message  string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: HTTP %d: %s", e.Provider, e.Status, e.Message)
}

// Retryable reports whether another provider (or a later attempt) may succeed
func (e *StatusError) Retryable() bool {
	return e.Status == http.StatusTooManyRequests || e.Status >= 500
}

// jsonEndpoint posts JSON bodies to one provider base URL
type jsonEndpoint struct {
	provider string
	baseURL  string
	header   http.Header
	client   *http.Client

	// describe extracts a readable message from an error body; nil keeps the raw body
	describe func(body []byte) string
}

func newHTTPClient(config Config) *http.Client {
	return &http.Client{
		Timeout: timeoutOf(config),
		Transport: &http.Transport{
			Proxy: util.NewProxyFunc(config.HTTPProxy, config.HTTPSProxy, config.NoProxy),
		},
	}
}

func timeoutOf(config Config) time.Duration {
	if config.Timeout <= 0 {
		return 120 * time.Second
	}
	return time.Duration(config.Timeout) * time.Second
}

func (e *jsonEndpoint) url(path string) string {
	return strings.TrimSuffix(e.baseURL, "/") + path
}

// post sends in as JSON to path and decodes a 200 answer into out
func (e *jsonEndpoint) post(ctx context.Context, path string, in, out any) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("encode %s request: %w", e.provider, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.url(path), bytes.NewReader(payload))
	if err != nil {
		return err
	}
	for k, vs := range e.header {
		req.Header[k] = vs
	}
	req.Header.Set("Content-Type", "application/json")

	return e.do(req, out)
}

// get issues a GET and discards the body; used for liveness probes
func (e *jsonEndpoint) get(ctx context.Context, path string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.url(path), nil)
	if err != nil {
		return err
	}
	for k, vs := range e.header {
		req.Header[k] = vs
	}
	return e.do(req, nil)
}

func (e *jsonEndpoint) do(req *http.Request, out any) error {
	resp, err := e.client.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		msg := strings.TrimSpace(string(body))
		if e.describe != nil {
			if d := e.describe(body); d != "" {
				msg = d
			}
		}
		return &StatusError{Provider: e.provider, Status: resp.StatusCode, Message: msg}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", e.provider, err)
	}
	return nil
}
