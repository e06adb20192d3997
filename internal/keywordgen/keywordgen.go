// Package keywordgen produces a thematic keyword-to-definition map from a
// list of free-text subjects, via a single [completer.Completer] call.
package keywordgen

import (
	"context"
	"fmt"
	"strings"

	"github.com/verseforge/parodist/internal/completer"
	"github.com/verseforge/parodist/internal/promptbuilder"
)

// ErrEmptyResult is returned by [Generate] when the completer's response
// parsed into an empty map.
var ErrEmptyResult = fmt.Errorf("keywordgen: parsed keyword map is empty")

const systemPromptTemplate = `You generate a thematic vocabulary for songwriting.

Given a list of subjects, produce exactly %d keyword entries that capture the theme.

Rules:
- Each line must be in the form "keyword: definition".
- keyword is 1-3 words; definition is a single sentence.
- Respond with ONLY the %d lines, no numbering, no commentary.`

// BuildPrompt renders the deterministic prompt pair for a keyword-generation
// request over subjects, asking for exactly count entries.
func BuildPrompt(subjects []string, count int) (system, user string) {
	system = fmt.Sprintf(systemPromptTemplate, count, count)
	user = "Subjects: " + strings.Join(subjects, ", ")
	return system, user
}

// Generate asks c for exactly count keyword:definition pairs themed around
// subjects, and parses the response into a [promptbuilder.KeywordMap].
// subjects must be non-empty (after trimming); count must be in 1..100.
//
// Returns [ErrEmptyResult] when the completer's response parses to no
// entries at all.
func Generate(ctx context.Context, c completer.Completer, subjects []string, count int) (promptbuilder.KeywordMap, error) {
	trimmed := make([]string, 0, len(subjects))
	for _, s := range subjects {
		if t := strings.TrimSpace(s); t != "" {
			trimmed = append(trimmed, t)
		}
	}
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("keywordgen: subjects must not be empty")
	}
	if count < 1 || count > 100 {
		return nil, fmt.Errorf("keywordgen: count must be between 1 and 100, got %d", count)
	}

	sys, user := BuildPrompt(trimmed, count)
	raw, err := c.Complete(ctx, sys, user)
	if err != nil {
		return nil, fmt.Errorf("keywordgen: complete: %w", err)
	}

	result := ParseResponse(raw)
	if result.Len() == 0 {
		return nil, ErrEmptyResult
	}
	return result, nil
}

// ParseResponse parses raw completer output into a [promptbuilder.KeywordMap]:
// split on line breaks, trim each line, split at the first ':', trim both
// sides and strip one layer of surrounding quotes from key and value,
// discard empty keys or values, and let later duplicate keys win.
func ParseResponse(raw string) promptbuilder.KeywordMap {
	m := promptbuilder.NewKeywordMap()

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		idx := strings.Index(line, ":")
		if idx < 0 {
			continue
		}

		key := unquote(strings.TrimSpace(line[:idx]))
		val := unquote(strings.TrimSpace(line[idx+1:]))
		if key == "" || val == "" {
			continue
		}

		m.Set(key, val)
	}

	return m
}

// unquote strips one layer of surrounding double or single quotes from s, if
// present.
func unquote(s string) string {
	if len(s) >= 2 {
		if (strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`)) ||
			(strings.HasPrefix(s, "'") && strings.HasSuffix(s, "'")) {
			return s[1 : len(s)-1]
		}
	}
	return s
}
