// Package ollamahttp implements completer.Completer against a local Ollama
// daemon (https://ollama.com) using Ollama's own client library.
//
// Example usage:
//
//	c, err := ollamahttp.New("", "llama3.1")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	line, err := c.Complete(ctx, "You write parody lyrics.", "Rewrite: Roar")
package ollamahttp

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/ollama/ollama/api"

	"github.com/verseforge/parodist/internal/completer"
)

// DefaultBaseURL is the default address of a locally running Ollama daemon.
const DefaultBaseURL = "http://127.0.0.1:11434"

const backendName = "ollama"

// Completer implements completer.Completer against a local Ollama daemon.
//
// Completer is safe for concurrent use; the underlying *api.Client is itself
// safe for concurrent use.
type Completer struct {
	client *api.Client
	model  string
}

// New constructs a Completer. baseURL is the address of the Ollama daemon;
// if empty, DefaultBaseURL is used. model must name a model already pulled
// on that daemon (Verify does not pull it automatically).
func New(baseURL, model string) (*Completer, error) {
	if model == "" {
		return nil, fmt.Errorf("ollamahttp: model must not be empty")
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	baseURL = strings.TrimRight(baseURL, "/")

	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("ollamahttp: parse base URL: %w", err)
	}

	return &Completer{
		client: api.NewClient(u, http.DefaultClient),
		model:  model,
	}, nil
}

// Verify confirms the daemon is reachable and the configured model is
// present among those it has pulled.
func (c *Completer) Verify(ctx context.Context) error {
	list, err := c.client.List(ctx)
	if err != nil {
		return completer.NewError(backendName, completer.KindUnavailable, err)
	}
	for _, m := range list.Models {
		if m.Name == c.model || m.Model == c.model {
			return nil
		}
	}
	return completer.NewError(backendName, completer.KindModelMissing,
		fmt.Errorf("model %q not found on daemon", c.model))
}

// Complete sends systemPrompt and userPrompt as a single, non-streaming
// generate request and returns the full response text.
func (c *Completer) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	stream := false
	var out strings.Builder

	req := &api.GenerateRequest{
		Model:  c.model,
		Prompt: userPrompt,
		System: systemPrompt,
		Stream: &stream,
	}

	err := c.client.Generate(ctx, req, func(resp api.GenerateResponse) error {
		out.WriteString(resp.Response)
		return nil
	})
	if err != nil {
		return "", completer.NewError(backendName, classifyError(err), err)
	}

	text := out.String()
	if text == "" {
		return "", completer.NewError(backendName, completer.KindMalformed, fmt.Errorf("empty generation response"))
	}
	return text, nil
}

// classifyError maps a raw ollama client error to a completer.Kind on a
// best-effort basis using the error text, since the client does not expose
// a typed error hierarchy for transport versus model-not-found failures.
func classifyError(err error) completer.Kind {
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "not found"):
		return completer.KindModelMissing
	case strings.Contains(msg, "connection") || strings.Contains(msg, "no such host") || strings.Contains(msg, "refused"):
		return completer.KindUnavailable
	case strings.Contains(msg, "deadline") || strings.Contains(msg, "timeout"):
		return completer.KindTimeout
	default:
		return completer.KindTransportError
	}
}
