package parody

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/verseforge/parodist/internal/completer/mock"
)

func TestEngine_Generate_BlankLinePreservation(t *testing.T) {
	c := &mock.Completer{CompleteResponse: "Goodbye moon tonight"}
	e := New(c)

	out, err := e.Generate(context.Background(), []string{"Hello world", "", "Another line"}, nil, RunOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 3 {
		t.Fatalf("len(out) = %d, want 3", len(out))
	}
	if out[1] != "" {
		t.Errorf("blank input line produced non-empty output: %q", out[1])
	}
	if out[0] == "" || out[2] == "" {
		t.Errorf("non-blank input lines produced empty output: %q, %q", out[0], out[2])
	}
}

func TestEngine_Generate_EmptyInput(t *testing.T) {
	c := &mock.Completer{}
	e := New(c)

	_, err := e.Generate(context.Background(), []string{"", "   "}, nil, RunOptions{})
	var ee *EngineError
	if !errors.As(err, &ee) || ee.Kind != KindEmptyInput {
		t.Fatalf("err = %v, want EngineError{Kind: KindEmptyInput}", err)
	}
}

func TestEngine_Generate_VerifyFailureAborts(t *testing.T) {
	c := &mock.Completer{VerifyErr: errors.New("backend down")}
	e := New(c)

	_, err := e.Generate(context.Background(), []string{"Hello world"}, nil, RunOptions{})
	var ee *EngineError
	if !errors.As(err, &ee) || ee.Kind != KindCompleterFailed || ee.LineIndex != -1 {
		t.Fatalf("err = %v, want EngineError{Kind: KindCompleterFailed, LineIndex: -1}", err)
	}
	if len(c.CompleteCalls) != 0 {
		t.Errorf("expected no Complete calls after Verify failure, got %d", len(c.CompleteCalls))
	}
}

func TestEngine_Generate_InitialGenerationFailureAborts(t *testing.T) {
	c := &mock.Completer{CompleteErr: errors.New("model unavailable")}
	e := New(c)

	_, err := e.Generate(context.Background(), []string{"Hello world"}, nil, RunOptions{})
	var ee *EngineError
	if !errors.As(err, &ee) || ee.Kind != KindCompleterFailed || ee.LineIndex != 0 {
		t.Fatalf("err = %v, want EngineError{Kind: KindCompleterFailed, LineIndex: 0}", err)
	}
}

func TestEngine_Generate_RefinementFailureIsNoOp(t *testing.T) {
	c := &mock.Completer{
		CompleteFunc: func(_ context.Context, systemPrompt, _ string) (string, error) {
			if strings.Contains(systemPrompt, "revising") {
				return "", errors.New("refinement backend hiccup")
			}
			return "Goodbye moon tonight", nil
		},
	}
	e := New(c)

	out, err := e.Generate(context.Background(), []string{"Hello world"}, nil, RunOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out[0] == "" {
		t.Error("expected non-empty output despite refinement failures")
	}
}

func TestEngine_Generate_Deterministic(t *testing.T) {
	lines := []string{"Hello world", "Goodnight moon"}

	c1 := &mock.Completer{CompleteResponse: "Goodbye moon tonight"}
	out1, err := New(c1).Generate(context.Background(), lines, nil, RunOptions{})
	if err != nil {
		t.Fatalf("run 1: unexpected error: %v", err)
	}

	c2 := &mock.Completer{CompleteResponse: "Goodbye moon tonight"}
	out2, err := New(c2).Generate(context.Background(), lines, nil, RunOptions{})
	if err != nil {
		t.Fatalf("run 2: unexpected error: %v", err)
	}

	if len(out1) != len(out2) {
		t.Fatalf("output lengths differ: %d vs %d", len(out1), len(out2))
	}
	for i := range out1 {
		if out1[i] != out2[i] {
			t.Errorf("line %d differs: %q vs %q", i, out1[i], out2[i])
		}
	}
}

func TestEngine_Generate_CancelledAborts(t *testing.T) {
	c := &mock.Completer{CompleteResponse: "Goodbye moon tonight"}
	e := New(c)

	cancel := make(chan struct{})
	close(cancel)

	_, err := e.Generate(context.Background(), []string{"Hello world"}, nil, RunOptions{Cancel: cancel})
	var ee *EngineError
	if !errors.As(err, &ee) || ee.Kind != KindCancelled {
		t.Fatalf("err = %v, want EngineError{Kind: KindCancelled}", err)
	}
}

func TestEngine_Generate_ProgressCallback(t *testing.T) {
	c := &mock.Completer{CompleteResponse: "Goodbye moon tonight"}
	e := New(c)

	var calls [][2]int
	_, err := e.Generate(context.Background(), []string{"Hello world", "", "Another line"}, nil, RunOptions{
		Progress: func(current, total int) {
			calls = append(calls, [2]int{current, total})
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(calls) != 3 {
		t.Fatalf("progress calls = %d, want 3", len(calls))
	}
	if calls[2][0] != 3 || calls[2][1] != 3 {
		t.Errorf("last progress call = %v, want [3 3]", calls[2])
	}
}
