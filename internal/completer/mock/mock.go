// Package mock provides a test double for the completer.Completer interface.
//
// Use Completer in unit tests to verify that the parody engine sends the
// prompts it should and to feed controlled responses without a live
// completion backend. All fields are safe to set before calling any method;
// mutating them during a concurrent call is the caller's responsibility.
//
// Example:
//
//	c := &mock.Completer{CompleteResponse: "shine on, you crazy rocket"}
//	out, err := c.Complete(ctx, "system", "user")
package mock

import (
	"context"
	"sync"

	"github.com/verseforge/parodist/internal/completer"
)

// VerifyCall records a single invocation of Verify.
type VerifyCall struct {
	Ctx context.Context
}

// CompleteCall records a single invocation of Complete.
type CompleteCall struct {
	Ctx          context.Context
	SystemPrompt string
	UserPrompt   string
}

// Completer is a mock implementation of completer.Completer.
// Zero values for response fields cause methods to return zero values and
// nil errors. Set the Err fields to inject errors.
type Completer struct {
	mu sync.Mutex

	// --- Configurable responses ---

	// VerifyErr, if non-nil, is returned by Verify.
	VerifyErr error

	// CompleteResponse is returned by Complete.
	CompleteResponse string

	// CompleteErr, if non-nil, is returned as the error from Complete
	// instead of CompleteResponse.
	CompleteErr error

	// CompleteFunc, if set, overrides CompleteResponse/CompleteErr and is
	// invoked directly, allowing tests to vary the response per call (e.g.
	// simulating convergence across refinement passes).
	CompleteFunc func(ctx context.Context, systemPrompt, userPrompt string) (string, error)

	// --- Call records (read after test) ---

	// VerifyCalls records every invocation of Verify in order.
	VerifyCalls []VerifyCall

	// CompleteCalls records every invocation of Complete in order.
	CompleteCalls []CompleteCall
}

// Verify records the call and returns VerifyErr.
func (c *Completer) Verify(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.VerifyCalls = append(c.VerifyCalls, VerifyCall{Ctx: ctx})
	return c.VerifyErr
}

// Complete records the call and returns CompleteResponse, CompleteErr,
// unless CompleteFunc is set, in which case it delegates to that instead.
func (c *Completer) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	c.mu.Lock()
	c.CompleteCalls = append(c.CompleteCalls, CompleteCall{Ctx: ctx, SystemPrompt: systemPrompt, UserPrompt: userPrompt})
	fn := c.CompleteFunc
	resp, err := c.CompleteResponse, c.CompleteErr
	c.mu.Unlock()

	if fn != nil {
		return fn(ctx, systemPrompt, userPrompt)
	}
	return resp, err
}

// Reset clears all recorded calls. Thread-safe.
func (c *Completer) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.VerifyCalls = nil
	c.CompleteCalls = nil
}

// Ensure Completer implements completer.Completer at compile time.
var _ completer.Completer = (*Completer)(nil)
