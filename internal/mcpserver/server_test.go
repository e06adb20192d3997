package mcpserver

import (
	"context"
	"testing"

	"github.com/verseforge/parodist/internal/completer/mock"
	"github.com/verseforge/parodist/internal/config"
	"github.com/verseforge/parodist/internal/parody"
)

func TestServer_Reload_SwapsBackendForSubsequentCalls(t *testing.T) {
	before := &mock.Completer{CompleteResponse: "before line"}
	s := New(parody.New(before), before, nil, config.GenerationConfig{})

	if _, _, err := s.generateParody(context.Background(), nil, GenerateParodyInput{Lyrics: "Hello world"}); err != nil {
		t.Fatalf("unexpected error before reload: %v", err)
	}
	if len(before.CompleteCalls) == 0 {
		t.Fatal("expected the pre-reload backend to receive a call")
	}
	callsBeforeReload := len(before.CompleteCalls)

	after := &mock.Completer{CompleteResponse: "after line"}
	if previous := s.Reload(parody.New(after), after, nil); previous != nil {
		t.Fatalf("expected nil previous cache, got %+v", previous)
	}

	if _, _, err := s.generateParody(context.Background(), nil, GenerateParodyInput{Lyrics: "Hello world"}); err != nil {
		t.Fatalf("unexpected error after reload: %v", err)
	}
	if len(after.CompleteCalls) == 0 {
		t.Fatal("expected the post-reload backend to receive a call")
	}
	if len(before.CompleteCalls) != callsBeforeReload {
		t.Errorf("pre-reload backend received %d calls after reload, want %d (no further calls)", len(before.CompleteCalls), callsBeforeReload)
	}
}

func TestServer_Reload_ReturnsPreviousCache(t *testing.T) {
	c := &mock.Completer{CompleteResponse: "line"}
	s := New(parody.New(c), c, nil, config.GenerationConfig{})

	if previous := s.Reload(parody.New(c), c, nil); previous != nil {
		t.Fatalf("expected nil previous cache on first reload, got %+v", previous)
	}
}
