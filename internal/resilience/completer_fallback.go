package resilience

import (
	"context"

	"github.com/verseforge/parodist/internal/completer"
)

// CompleterFallback implements [completer.Completer] with automatic failover
// across multiple LLM backends. Each backend has its own circuit breaker; when
// the primary fails or its breaker is open, the next healthy fallback is tried.
type CompleterFallback struct {
	group *FallbackGroup[completer.Completer]
}

// Compile-time interface assertion.
var _ completer.Completer = (*CompleterFallback)(nil)

// NewCompleterFallback creates a [CompleterFallback] with primary as the
// preferred backend.
func NewCompleterFallback(primary completer.Completer, primaryName string, cfg FallbackConfig) *CompleterFallback {
	return &CompleterFallback{
		group: NewFallbackGroup(primary, primaryName, cfg),
	}
}

// AddFallback registers an additional completer as a fallback.
func (f *CompleterFallback) AddFallback(name string, c completer.Completer) {
	f.group.AddFallback(name, c)
}

// Verify checks the first healthy backend. If the primary fails verification,
// subsequent fallbacks are tried.
func (f *CompleterFallback) Verify(ctx context.Context) error {
	return f.group.Execute(func(c completer.Completer) error {
		return c.Verify(ctx)
	})
}

// Complete sends the prompt pair to the first healthy backend and returns its
// response. If the primary fails, subsequent fallbacks are tried in order.
func (f *CompleterFallback) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	return ExecuteWithResult(f.group, func(c completer.Completer) (string, error) {
		return c.Complete(ctx, systemPrompt, userPrompt)
	})
}
