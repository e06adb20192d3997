// Package openaicompat implements completer.Completer using the OpenAI
// chat completions API, suitable for OpenAI itself or any OpenAI-compatible
// endpoint reachable via a custom base URL (local gateways, proxies, other
// vendors that mirror the API shape).
package openaicompat

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	oai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/packages/param"
	"github.com/openai/openai-go/shared"

	"github.com/verseforge/parodist/internal/completer"
)

const backendName = "openai"

// Completer implements completer.Completer using the OpenAI API.
type Completer struct {
	client oai.Client
	model  string
}

// config holds optional configuration for a Completer.
type config struct {
	baseURL string
	timeout time.Duration
}

// Option is a functional option for Completer.
type Option func(*config)

// WithBaseURL overrides the default OpenAI API base URL, for
// OpenAI-compatible endpoints.
func WithBaseURL(url string) Option {
	return func(c *config) {
		c.baseURL = url
	}
}

// WithTimeout sets a per-request HTTP timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *config) {
		c.timeout = d
	}
}

// New constructs a Completer. apiKey and model must both be non-empty.
func New(apiKey, model string, opts ...Option) (*Completer, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openaicompat: apiKey must not be empty")
	}
	if model == "" {
		return nil, fmt.Errorf("openaicompat: model must not be empty")
	}

	cfg := &config{}
	for _, o := range opts {
		o(cfg)
	}

	reqOpts := []option.RequestOption{
		option.WithAPIKey(apiKey),
	}
	if cfg.baseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(cfg.baseURL))
	}
	if cfg.timeout > 0 {
		reqOpts = append(reqOpts, option.WithHTTPClient(&http.Client{Timeout: cfg.timeout}))
	}

	return &Completer{client: oai.NewClient(reqOpts...), model: model}, nil
}

// Verify sends a minimal chat completion request to confirm the API key and
// model are valid.
func (c *Completer) Verify(ctx context.Context) error {
	_, err := c.client.Chat.Completions.New(ctx, oai.ChatCompletionNewParams{
		Model:     shared.ChatModel(c.model),
		Messages:  []oai.ChatCompletionMessageParamUnion{oai.UserMessage("ping")},
		MaxTokens: param.NewOpt(int64(1)),
	})
	if err != nil {
		return completer.NewError(backendName, classifyError(err), err)
	}
	return nil
}

// Complete sends systemPrompt and userPrompt as a single chat completion
// request and returns the model's reply text.
func (c *Completer) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	var messages []oai.ChatCompletionMessageParamUnion
	if systemPrompt != "" {
		messages = append(messages, oai.SystemMessage(systemPrompt))
	}
	messages = append(messages, oai.UserMessage(userPrompt))

	resp, err := c.client.Chat.Completions.New(ctx, oai.ChatCompletionNewParams{
		Model:    shared.ChatModel(c.model),
		Messages: messages,
	})
	if err != nil {
		return "", completer.NewError(backendName, classifyError(err), err)
	}
	if len(resp.Choices) == 0 {
		return "", completer.NewError(backendName, completer.KindMalformed, fmt.Errorf("empty choices in response"))
	}

	content := resp.Choices[0].Message.Content
	if content == "" {
		return "", completer.NewError(backendName, completer.KindMalformed, fmt.Errorf("empty completion content"))
	}
	return content, nil
}

// classifyError maps a raw openai-go error to a completer.Kind on a
// best-effort basis using the error text.
func classifyError(err error) completer.Kind {
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "deadline") || strings.Contains(msg, "timeout") || strings.Contains(msg, "timed out"):
		return completer.KindTimeout
	case strings.Contains(msg, "model") && (strings.Contains(msg, "does not exist") || strings.Contains(msg, "not found")):
		return completer.KindModelMissing
	case strings.Contains(msg, "connection") || strings.Contains(msg, "no such host") || strings.Contains(msg, "refused"):
		return completer.KindUnavailable
	default:
		return completer.KindTransportError
	}
}
