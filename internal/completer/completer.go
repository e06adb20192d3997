// Package completer defines the narrow abstraction the parody engine uses
// to talk to a text-generation backend, independent of any specific model
// SDK.
//
// A [Completer] supports exactly two operations: checking that the backend
// is reachable and configured, and completing a single prompt into a single
// line of text. This is deliberately narrower than a general chat/tool-calling
// LLM provider interface — the engine never needs streaming, tool calls, or
// multi-turn history, because every prompt promptbuilder produces is already
// a complete, self-contained request.
//
// Implementors must be safe for concurrent use and must propagate context
// cancellation promptly.
package completer

import (
	"context"
	"errors"
	"fmt"
)

// Completer generates text completions for fully-formed prompts.
type Completer interface {
	// Verify reports whether the backend is reachable and ready to serve
	// Complete calls (e.g., credentials valid, model available, connection
	// healthy). Called once during engine startup and may be called again
	// by health checks.
	Verify(ctx context.Context) error

	// Complete sends systemPrompt and userPrompt to the backend and returns
	// its full text response. Implementations must not block past ctx's
	// deadline or cancellation.
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Kind classifies the failure modes a [Completer] can report, so the
// parody engine can decide whether a failure is worth retrying, falling
// back, or surfacing immediately.
type Kind int

const (
	// KindUnavailable means the backend could not be reached at all (DNS,
	// connection refused, process not running).
	KindUnavailable Kind = iota

	// KindModelMissing means the backend was reached but the configured
	// model is not available on it.
	KindModelMissing

	// KindTransportError means a request was sent but failed in transit
	// (network error, malformed HTTP response, connection reset).
	KindTransportError

	// KindTimeout means the request exceeded its deadline before a
	// response was received.
	KindTimeout

	// KindMalformed means a response was received but could not be
	// interpreted as a text completion (empty body, unexpected schema).
	KindMalformed
)

func (k Kind) String() string {
	switch k {
	case KindUnavailable:
		return "unavailable"
	case KindModelMissing:
		return "model_missing"
	case KindTransportError:
		return "transport_error"
	case KindTimeout:
		return "timeout"
	case KindMalformed:
		return "malformed"
	default:
		return "unknown"
	}
}

// Error is the error type every [Completer] implementation should return
// for a failed Verify or Complete call, so callers can branch on Kind
// without depending on any backend-specific error type.
type Error struct {
	Kind    Kind
	Backend string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("completer(%s): %s: %v", e.Backend, e.Kind, e.Err)
	}
	return fmt.Sprintf("completer(%s): %s", e.Backend, e.Kind)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError builds a [*Error], suitable for use with errors.As by callers
// that need to branch on Kind.
func NewError(backend string, kind Kind, err error) *Error {
	return &Error{Backend: backend, Kind: kind, Err: err}
}

// KindOf reports the [Kind] of err if it is (or wraps) a [*Error], and
// whether such an error was found.
func KindOf(err error) (Kind, bool) {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Kind, true
	}
	return 0, false
}
