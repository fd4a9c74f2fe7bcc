package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Chain is a Backend that tries providers in order. An error or an empty
// answer moves on to the next provider; when all fail the errors are joined.
type Chain struct {
	providers []Provider
	logger    *zap.Logger
}

// NewChain builds a chain. A nil logger disables logging.
func NewChain(logger *zap.Logger, providers ...Provider) *Chain {
	if logger == nil {
		logger = zap.NewNop()
	}
	var ps []Provider
	for _, p := range providers {
		if p != nil {
			ps = append(ps, p)
		}
	}
	return &Chain{providers: ps, logger: logger}
}

// Generate implements Backend
func (c *Chain) Generate(ctx context.Context, prompt string) (string, error) {
	if len(c.providers) == 0 {
		return "", ErrNoProviders
	}

	var errs []error
	for _, p := range c.providers {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}

		start := time.Now()
		resp, err := p.Complete(ctx, Request{Prompt: prompt})
		if err == nil && (resp == nil || strings.TrimSpace(resp.Text) == "") {
			err = ErrEmptyResponse
		}
		if err != nil {
			level := zap.WarnLevel
			// Rejected keys and bad requests fail every call until the config is fixed
			var status *StatusError
			if errors.As(err, &status) && !status.Retryable() {
				level = zap.ErrorLevel
			}
			c.logger.Log(level, "provider failed",
				zap.String("provider", p.Name()),
				zap.Duration("elapsed", time.Since(start)),
				zap.Error(err))
			errs = append(errs, fmt.Errorf("%s: %w", p.Name(), err))
			continue
		}

		c.logger.Debug("provider answered",
			zap.String("provider", p.Name()),
			zap.String("model", resp.Model),
			zap.Int("tokens", resp.TokensUsed),
			zap.Duration("elapsed", time.Since(start)))
		return strings.TrimSpace(resp.Text), nil
	}

	return "", errors.Join(errs...)
}

// Names lists the providers in order
func (c *Chain) Names() []string {
	names := make([]string, len(c.providers))
	for i, p := range c.providers {
		names[i] = p.Name()
	}
	return names
}

// Len returns the number of providers
func (c *Chain) Len() int {
	return len(c.providers)
}
