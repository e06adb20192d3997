// Package anyllm adapts github.com/mozilla-ai/any-llm-go, a unified
// multi-provider completion library, to the [completer.Completer]
// interface — giving the parody engine a single backend implementation
// that can be pointed at OpenAI, Anthropic, Gemini, Ollama, DeepSeek,
// Mistral, Groq, or a local llama.cpp/llamafile server by name.
package anyllm

import (
	"context"
	"fmt"
	"strings"

	anyllmlib "github.com/mozilla-ai/any-llm-go"
	"github.com/mozilla-ai/any-llm-go/providers/anthropic"
	"github.com/mozilla-ai/any-llm-go/providers/deepseek"
	"github.com/mozilla-ai/any-llm-go/providers/gemini"
	"github.com/mozilla-ai/any-llm-go/providers/groq"
	"github.com/mozilla-ai/any-llm-go/providers/llamacpp"
	"github.com/mozilla-ai/any-llm-go/providers/llamafile"
	"github.com/mozilla-ai/any-llm-go/providers/mistral"
	"github.com/mozilla-ai/any-llm-go/providers/ollama"
	anyllmoai "github.com/mozilla-ai/any-llm-go/providers/openai"

	"github.com/verseforge/parodist/internal/completer"
)

// Completer implements completer.Completer by wrapping an any-llm-go
// provider backend.
type Completer struct {
	backend  anyllmlib.Provider
	model    string
	provider string
}

// New creates a Completer backed by the given any-llm-go provider name.
//
// providerName is one of: "openai", "anthropic", "gemini", "ollama",
// "deepseek", "mistral", "groq", "llamacpp", "llamafile". model is the
// specific model to request. opts are any-llm-go configuration options
// (e.g. anyllmlib.WithAPIKey, anyllmlib.WithBaseURL); without an API key
// option the backend falls back to the provider's usual environment
// variable (OPENAI_API_KEY, ANTHROPIC_API_KEY, etc.).
func New(providerName, model string, opts ...anyllmlib.Option) (*Completer, error) {
	if providerName == "" {
		return nil, fmt.Errorf("anyllm: providerName must not be empty")
	}
	if model == "" {
		return nil, fmt.Errorf("anyllm: model must not be empty")
	}

	backend, err := createBackend(providerName, opts...)
	if err != nil {
		return nil, fmt.Errorf("anyllm: create %q backend: %w", providerName, err)
	}

	return &Completer{backend: backend, model: model, provider: providerName}, nil
}

func createBackend(providerName string, opts ...anyllmlib.Option) (anyllmlib.Provider, error) {
	switch strings.ToLower(providerName) {
	case "openai":
		return anyllmoai.New(opts...)
	case "anthropic":
		return anthropic.New(opts...)
	case "gemini":
		return gemini.New(opts...)
	case "ollama":
		return ollama.New(opts...)
	case "deepseek":
		return deepseek.New(opts...)
	case "mistral":
		return mistral.New(opts...)
	case "groq":
		return groq.New(opts...)
	case "llamacpp":
		return llamacpp.New(opts...)
	case "llamafile":
		return llamafile.New(opts...)
	default:
		return nil, fmt.Errorf("unsupported provider %q; supported: openai, anthropic, gemini, ollama, deepseek, mistral, groq, llamacpp, llamafile", providerName)
	}
}

// Verify sends a minimal completion request to confirm the backend is
// reachable and the configured model exists.
func (c *Completer) Verify(ctx context.Context) error {
	_, err := c.backend.Completion(ctx, anyllmlib.CompletionParams{
		Model: c.model,
		Messages: []anyllmlib.Message{
			{Role: "user", Content: "ping"},
		},
		MaxTokens: intPtr(1),
	})
	if err != nil {
		return completer.NewError(c.provider, classifyError(err), err)
	}
	return nil
}

// Complete sends systemPrompt and userPrompt as a single-turn request and
// returns the backend's text response.
func (c *Completer) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	var messages []anyllmlib.Message
	if systemPrompt != "" {
		messages = append(messages, anyllmlib.Message{Role: anyllmlib.RoleSystem, Content: systemPrompt})
	}
	messages = append(messages, anyllmlib.Message{Role: "user", Content: userPrompt})

	resp, err := c.backend.Completion(ctx, anyllmlib.CompletionParams{
		Model:    c.model,
		Messages: messages,
	})
	if err != nil {
		return "", completer.NewError(c.provider, classifyError(err), err)
	}
	if len(resp.Choices) == 0 {
		return "", completer.NewError(c.provider, completer.KindMalformed, fmt.Errorf("empty choices in response"))
	}

	content := resp.Choices[0].Message.ContentString()
	if content == "" {
		return "", completer.NewError(c.provider, completer.KindMalformed, fmt.Errorf("empty completion content"))
	}
	return content, nil
}

// classifyError maps a raw any-llm-go error to a completer.Kind on a
// best-effort basis using the error text, since any-llm-go does not expose
// a typed error hierarchy across all its backend implementations.
func classifyError(err error) completer.Kind {
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "deadline") || strings.Contains(msg, "timeout"):
		return completer.KindTimeout
	case strings.Contains(msg, "model") && (strings.Contains(msg, "not found") || strings.Contains(msg, "unknown")):
		return completer.KindModelMissing
	case strings.Contains(msg, "connection") || strings.Contains(msg, "no such host") || strings.Contains(msg, "refused"):
		return completer.KindUnavailable
	default:
		return completer.KindTransportError
	}
}

func intPtr(n int) *int {
	return &n
}
