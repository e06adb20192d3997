package mcpserver

import (
	"context"
	"log/slog"
	"strings"
	"time"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/verseforge/parodist/internal/keywordgen"
	"github.com/verseforge/parodist/internal/keywordstore"
	"github.com/verseforge/parodist/internal/parody"
	"github.com/verseforge/parodist/internal/promptbuilder"
)

// GenerateParodyInput is the input schema for the generate_parody tool.
type GenerateParodyInput struct {
	// Lyrics holds the original song, one line per newline. Blank lines are
	// preserved verbatim in the output.
	Lyrics string `json:"lyrics" jsonschema:"the original lyrics, one line per newline"`

	// Keywords maps a theme keyword to the text the parody should draw on.
	// Order is not significant for tool callers; entries are inserted into
	// the prompt in map iteration order.
	Keywords map[string]string `json:"keywords,omitempty" jsonschema:"thematic keyword to definition map guiding the rewrite"`

	// RefinementPasses overrides the number of punctuation refinement
	// passes. Zero uses the engine default.
	RefinementPasses int `json:"refinement_passes,omitempty" jsonschema:"number of refinement passes to apply, 0 for the default"`
}

// GenerateParodyOutput is the output schema for the generate_parody tool.
type GenerateParodyOutput struct {
	// Lines holds the generated parody, positionally aligned with the input.
	Lines []string `json:"lines"`
}

func (s *Server) generateParody(ctx context.Context, _ *mcpsdk.CallToolRequest, in GenerateParodyInput) (*mcpsdk.CallToolResult, GenerateParodyOutput, error) {
	start := time.Now()
	status := "ok"
	defer func() {
		s.metrics.RecordToolCall(ctx, "generate_parody", status)
		s.metrics.ToolExecutionDuration.Record(ctx, time.Since(start).Seconds())
	}()

	lines := strings.Split(in.Lyrics, "\n")

	kw := promptbuilder.NewKeywordMap()
	for k, v := range in.Keywords {
		kw.Set(k, v)
	}

	engine, _, _ := s.snapshot()
	out, err := engine.Generate(ctx, lines, kw, parody.RunOptions{
		RefinementPasses: in.RefinementPasses,
	})
	if err != nil {
		status = "error"
		return &mcpsdk.CallToolResult{
			IsError: true,
			Content: []mcpsdk.Content{&mcpsdk.TextContent{Text: err.Error()}},
		}, GenerateParodyOutput{}, nil
	}

	return nil, GenerateParodyOutput{Lines: out}, nil
}

// GenerateKeywordsInput is the input schema for the generate_keywords tool.
type GenerateKeywordsInput struct {
	// Subjects is the free-text thematic subject list to expand.
	Subjects []string `json:"subjects" jsonschema:"thematic subjects to expand into keywords"`

	// Count is the number of keyword:definition entries to produce.
	Count int `json:"count" jsonschema:"number of keyword entries to generate, 1-100"`
}

// GenerateKeywordsOutput is the output schema for the generate_keywords tool.
type GenerateKeywordsOutput struct {
	// Keywords maps each generated keyword to its definition.
	Keywords map[string]string `json:"keywords"`
}

func (s *Server) generateKeywords(ctx context.Context, _ *mcpsdk.CallToolRequest, in GenerateKeywordsInput) (*mcpsdk.CallToolResult, GenerateKeywordsOutput, error) {
	start := time.Now()
	status := "ok"
	defer func() {
		s.metrics.RecordToolCall(ctx, "generate_keywords", status)
		s.metrics.ToolExecutionDuration.Record(ctx, time.Since(start).Seconds())
	}()

	_, backend, cache := s.snapshot()

	count := in.Count
	if count == 0 {
		count = s.gen.DefaultKeywordCount
	}

	var cacheKey string
	if cache != nil {
		cacheKey = keywordstore.Key(in.Subjects, count)
		if cached, ok, err := cache.Get(ctx, cacheKey); err == nil && ok {
			return nil, GenerateKeywordsOutput{Keywords: toPlainMap(cached)}, nil
		}
	}

	m, err := keywordgen.Generate(ctx, backend, in.Subjects, count)
	if err != nil {
		status = "error"
		return &mcpsdk.CallToolResult{
			IsError: true,
			Content: []mcpsdk.Content{&mcpsdk.TextContent{Text: err.Error()}},
		}, GenerateKeywordsOutput{}, nil
	}

	if cache != nil {
		if err := cache.Put(ctx, cacheKey, m); err != nil {
			slog.Default().Warn("mcpserver: failed to populate keyword cache", "error", err)
		}
	}

	return nil, GenerateKeywordsOutput{Keywords: toPlainMap(m)}, nil
}

// toPlainMap flattens an ordered [promptbuilder.KeywordMap] into a plain map
// for JSON tool output, where insertion order carries no meaning.
func toPlainMap(m promptbuilder.KeywordMap) map[string]string {
	out := make(map[string]string, m.Len())
	for pair := m.Oldest(); pair != nil; pair = pair.Next() {
		out[pair.Key] = pair.Value
	}
	return out
}
