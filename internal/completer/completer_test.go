package completer

import (
	"errors"
	"testing"
)

func TestError_Error(t *testing.T) {
	err := NewError("ollama", KindTimeout, errors.New("context deadline exceeded"))
	want := "completer(ollama): timeout: context deadline exceeded"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestError_ErrorNoWrapped(t *testing.T) {
	err := NewError("ollama", KindUnavailable, nil)
	want := "completer(ollama): unavailable"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestError_Unwrap(t *testing.T) {
	inner := errors.New("boom")
	err := NewError("anthropic", KindTransportError, inner)
	if !errors.Is(err, inner) {
		t.Error("expected errors.Is to see through to the wrapped error")
	}
}

func TestKindOf(t *testing.T) {
	err := NewError("openai", KindModelMissing, nil)
	kind, ok := KindOf(err)
	if !ok || kind != KindModelMissing {
		t.Errorf("KindOf = (%v, %v), want (%v, true)", kind, ok, KindModelMissing)
	}

	_, ok = KindOf(errors.New("not a completer error"))
	if ok {
		t.Error("expected KindOf to report false for a non-completer error")
	}
}

func TestKind_String(t *testing.T) {
	cases := map[Kind]string{
		KindUnavailable:    "unavailable",
		KindModelMissing:   "model_missing",
		KindTransportError: "transport_error",
		KindTimeout:        "timeout",
		KindMalformed:      "malformed",
	}
	for k, want := range cases {
		if got := k.String(); got != want {
			t.Errorf("Kind(%d).String() = %q, want %q", k, got, want)
		}
	}
}
