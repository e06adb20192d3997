// Package anthropic implements completer.Completer using the Anthropic
// Messages API.
package anthropic

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/verseforge/parodist/internal/completer"
)

const backendName = "anthropic"

// defaultMaxTokens is the output token cap sent with every request; a
// single parody line never needs more.
const defaultMaxTokens = 512

// Completer implements completer.Completer using the Anthropic API.
type Completer struct {
	client anthropic.Client
	model  anthropic.Model
}

// config holds optional configuration for a Completer.
type config struct {
	baseURL string
	timeout time.Duration
}

// Option is a functional option for Completer.
type Option func(*config)

// WithBaseURL overrides the default Anthropic API base URL.
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
		return nil, fmt.Errorf("anthropic: apiKey must not be empty")
	}
	if model == "" {
		return nil, fmt.Errorf("anthropic: model must not be empty")
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

	return &Completer{
		client: anthropic.NewClient(reqOpts...),
		model:  anthropic.Model(model),
	}, nil
}

// Verify sends a minimal message request to confirm the API key and model
// are valid.
func (c *Completer) Verify(ctx context.Context) error {
	_, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     c.model,
		MaxTokens: 1,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock("ping")),
		},
	})
	if err != nil {
		return completer.NewError(backendName, classifyError(err), err)
	}
	return nil
}

// Complete sends systemPrompt and userPrompt as a single message request
// and returns the model's reply text.
func (c *Completer) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	params := anthropic.MessageNewParams{
		Model:     c.model,
		MaxTokens: defaultMaxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userPrompt)),
		},
	}
	if systemPrompt != "" {
		params.System = []anthropic.TextBlockParam{{Text: systemPrompt}}
	}

	resp, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return "", completer.NewError(backendName, classifyError(err), err)
	}
	if len(resp.Content) == 0 {
		return "", completer.NewError(backendName, completer.KindMalformed, fmt.Errorf("empty content blocks in response"))
	}

	var sb strings.Builder
	for _, block := range resp.Content {
		sb.WriteString(block.Text)
	}
	text := sb.String()
	if text == "" {
		return "", completer.NewError(backendName, completer.KindMalformed, fmt.Errorf("empty completion content"))
	}
	return text, nil
}

// classifyError maps a raw anthropic-sdk-go error to a completer.Kind on a
// best-effort basis using the error text.
func classifyError(err error) completer.Kind {
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "deadline") || strings.Contains(msg, "timeout") || strings.Contains(msg, "timed out"):
		return completer.KindTimeout
	case strings.Contains(msg, "model") && (strings.Contains(msg, "not found") || strings.Contains(msg, "invalid")):
		return completer.KindModelMissing
	case strings.Contains(msg, "connection") || strings.Contains(msg, "no such host") || strings.Contains(msg, "refused"):
		return completer.KindUnavailable
	default:
		return completer.KindTransportError
	}
}
