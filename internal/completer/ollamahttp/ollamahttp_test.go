package ollamahttp

import (
	"errors"
	"testing"

	"github.com/verseforge/parodist/internal/completer"
)

func TestNew_RejectsEmptyModel(t *testing.T) {
	if _, err := New("", ""); err == nil {
		t.Error("expected error for empty model")
	}
}

func TestNew_DefaultsBaseURL(t *testing.T) {
	c, err := New("", "llama3.1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.model != "llama3.1" {
		t.Errorf("model = %q, want %q", c.model, "llama3.1")
	}
}

func TestNew_RejectsInvalidBaseURL(t *testing.T) {
	if _, err := New("://not-a-url", "llama3.1"); err == nil {
		t.Error("expected error for invalid base URL")
	}
}

func TestClassifyError(t *testing.T) {
	cases := map[string]completer.Kind{
		"model \"llama3.1\" not found, try pulling it first": completer.KindModelMissing,
		"dial tcp 127.0.0.1:11434: connect: connection refused": completer.KindUnavailable,
		"context deadline exceeded":                             completer.KindTimeout,
		"unexpected status code 500":                            completer.KindTransportError,
	}
	for msg, want := range cases {
		if got := classifyError(errors.New(msg)); got != want {
			t.Errorf("classifyError(%q) = %v, want %v", msg, got, want)
		}
	}
}
