// Package resolve implements the generate → synthesize → fallback ladder
// shared by every stage that needs a piece of text.
package resolve

import (
	"context"
	"errors"

	"github.com/ppiankov/hyperion/internal/htmltext"
)

// Tier identifies which strategy produced a value
type Tier string

const (
	TierGenerated   Tier = "generated"
	TierSynthesized Tier = "synthesized"
	TierFallback    Tier = "fallback"
)

// ErrRejected is recorded when a generated value fails its acceptance check
var ErrRejected = errors.New("generated output rejected")

// Resolver tries Generate first, then Synthesize, then Fallback.
// Any of the three may be nil; Fallback nil yields the zero value.
type Resolver[T any] struct {
	// Generate calls an external generator
	Generate func(ctx context.Context) (T, error)

	// Accept decides whether a generated value is usable (nil accepts all)
	Accept func(T) bool

	// Synthesize builds a value from data already at hand; ok=false when
	// there is nothing real to build from
	Synthesize func() (T, bool)

	// Fallback is the last resort and always succeeds
	Fallback func() T
}

// Result is the resolved value plus how it was obtained
type Result[T any] struct {
	Value T
	Tier  Tier

	// Err is the reason the generate tier was skipped, nil when it succeeded
	Err error
}

// Resolve walks the tiers in order and returns the first acceptable value
func (r Resolver[T]) Resolve(ctx context.Context) Result[T] {
	var genErr error

	if r.Generate != nil {
		v, err := r.Generate(ctx)
		switch {
		case err != nil:
			genErr = err
		case r.Accept != nil && !r.Accept(v):
			genErr = ErrRejected
		default:
			return Result[T]{Value: v, Tier: TierGenerated}
		}
	}

	if r.Synthesize != nil {
		if v, ok := r.Synthesize(); ok {
			return Result[T]{Value: v, Tier: TierSynthesized, Err: genErr}
		}
	}

	var zero T
	if r.Fallback != nil {
		zero = r.Fallback()
	}
	return Result[T]{Value: zero, Tier: TierFallback, Err: genErr}
}

// MinTextLength accepts HTML or plain text whose visible text is longer
// than n runes
func MinTextLength(n int) func(string) bool {
	return func(s string) bool {
		return htmltext.TextLength(s) > n
	}
}
