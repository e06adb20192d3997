package main

import (
	"fmt"

	anyllmlib "github.com/mozilla-ai/any-llm-go"

	"github.com/verseforge/parodist/internal/completer"
	"github.com/verseforge/parodist/internal/completer/anthropic"
	"github.com/verseforge/parodist/internal/completer/anyllm"
	"github.com/verseforge/parodist/internal/completer/mock"
	"github.com/verseforge/parodist/internal/completer/ollamahttp"
	"github.com/verseforge/parodist/internal/completer/openaicompat"
	"github.com/verseforge/parodist/internal/config"
)

// registerBuiltinBackends wires every shipped completer backend into reg
// under the name its [config.ProviderEntry.Name] is expected to carry.
func registerBuiltinBackends(reg *config.Registry) {
	reg.Register("openai", newOpenAI)
	reg.Register("anthropic", newAnthropic)
	reg.Register("ollama", newOllama)
	reg.Register("anyllm", newAnyLLM)
	reg.Register("mock", newMock)
}

func newOpenAI(entry config.ProviderEntry) (completer.Completer, error) {
	var opts []openaicompat.Option
	if entry.BaseURL != "" {
		opts = append(opts, openaicompat.WithBaseURL(entry.BaseURL))
	}
	return openaicompat.New(entry.APIKey, entry.Model, opts...)
}

func newAnthropic(entry config.ProviderEntry) (completer.Completer, error) {
	var opts []anthropic.Option
	if entry.BaseURL != "" {
		opts = append(opts, anthropic.WithBaseURL(entry.BaseURL))
	}
	return anthropic.New(entry.APIKey, entry.Model, opts...)
}

func newOllama(entry config.ProviderEntry) (completer.Completer, error) {
	return ollamahttp.New(entry.BaseURL, entry.Model)
}

// newAnyLLM builds a completer on top of any-llm-go. The underlying provider
// name (one of the identifiers any-llm-go recognises — "gemini", "groq",
// "deepseek", "mistral", "llamacpp", "llamafile", or a reassertion of
// "openai"/"anthropic"/"ollama") is read from entry.Options["provider"],
// since the any-llm-go provider space is broader than Parodist's own
// built-in backend names.
func newAnyLLM(entry config.ProviderEntry) (completer.Completer, error) {
	provider, _ := entry.Options["provider"].(string)
	if provider == "" {
		return nil, fmt.Errorf("anyllm backend %q: options.provider is required", entry.Name)
	}

	var opts []anyllmlib.Option
	if entry.APIKey != "" {
		opts = append(opts, anyllmlib.WithAPIKey(entry.APIKey))
	}
	if entry.BaseURL != "" {
		opts = append(opts, anyllmlib.WithBaseURL(entry.BaseURL))
	}

	return anyllm.New(provider, entry.Model, opts...)
}

func newMock(config.ProviderEntry) (completer.Completer, error) {
	return &mock.Completer{CompleteResponse: "mock completion"}, nil
}
