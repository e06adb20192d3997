package resilience

import (
	"context"
	"errors"
	"testing"

	completermock "github.com/verseforge/parodist/internal/completer/mock"
)

func TestCompleterFallback_Complete_PrimarySuccess(t *testing.T) {
	primary := &completermock.Completer{CompleteResponse: "hello from primary"}
	secondary := &completermock.Completer{CompleteResponse: "hello from secondary"}

	fb := NewCompleterFallback(primary, "primary", FallbackConfig{
		CircuitBreaker: CircuitBreakerConfig{MaxFailures: 3},
	})
	fb.AddFallback("secondary", secondary)

	resp, err := fb.Complete(context.Background(), "sys", "user")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp != "hello from primary" {
		t.Fatalf("content = %q, want 'hello from primary'", resp)
	}
	if len(primary.CompleteCalls) != 1 {
		t.Fatalf("primary called %d times, want 1", len(primary.CompleteCalls))
	}
	if len(secondary.CompleteCalls) != 0 {
		t.Fatalf("secondary called %d times, want 0", len(secondary.CompleteCalls))
	}
}

func TestCompleterFallback_Complete_Failover(t *testing.T) {
	primary := &completermock.Completer{CompleteErr: errors.New("primary down")}
	secondary := &completermock.Completer{CompleteResponse: "hello from secondary"}

	fb := NewCompleterFallback(primary, "primary", FallbackConfig{
		CircuitBreaker: CircuitBreakerConfig{MaxFailures: 3},
	})
	fb.AddFallback("secondary", secondary)

	resp, err := fb.Complete(context.Background(), "sys", "user")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp != "hello from secondary" {
		t.Fatalf("content = %q, want 'hello from secondary'", resp)
	}
}

func TestCompleterFallback_Complete_AllFail(t *testing.T) {
	primary := &completermock.Completer{CompleteErr: errors.New("primary down")}
	secondary := &completermock.Completer{CompleteErr: errors.New("secondary down")}

	fb := NewCompleterFallback(primary, "primary", FallbackConfig{
		CircuitBreaker: CircuitBreakerConfig{MaxFailures: 3},
	})
	fb.AddFallback("secondary", secondary)

	_, err := fb.Complete(context.Background(), "sys", "user")
	if !errors.Is(err, ErrAllFailed) {
		t.Fatalf("err = %v, want ErrAllFailed", err)
	}
}

func TestCompleterFallback_Verify_Failover(t *testing.T) {
	primary := &completermock.Completer{VerifyErr: errors.New("primary unreachable")}
	secondary := &completermock.Completer{}

	fb := NewCompleterFallback(primary, "primary", FallbackConfig{
		CircuitBreaker: CircuitBreakerConfig{MaxFailures: 3},
	})
	fb.AddFallback("secondary", secondary)

	if err := fb.Verify(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(secondary.VerifyCalls) != 1 {
		t.Fatalf("secondary verify called %d times, want 1", len(secondary.VerifyCalls))
	}
}

func TestCompleterFallback_OpensCircuitAfterRepeatedFailure(t *testing.T) {
	primary := &completermock.Completer{CompleteErr: errors.New("primary down")}
	secondary := &completermock.Completer{CompleteResponse: "ok"}

	fb := NewCompleterFallback(primary, "primary", FallbackConfig{
		CircuitBreaker: CircuitBreakerConfig{MaxFailures: 1},
	})
	fb.AddFallback("secondary", secondary)

	for i := 0; i < 3; i++ {
		if _, err := fb.Complete(context.Background(), "sys", "user"); err != nil {
			t.Fatalf("call %d: unexpected error: %v", i, err)
		}
	}
	if len(primary.CompleteCalls) != 1 {
		t.Fatalf("primary called %d times after breaker opened, want 1", len(primary.CompleteCalls))
	}
	if len(secondary.CompleteCalls) != 3 {
		t.Fatalf("secondary called %d times, want 3", len(secondary.CompleteCalls))
	}
}
