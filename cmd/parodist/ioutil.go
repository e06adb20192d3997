package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/verseforge/parodist/internal/keywordgen"
	"github.com/verseforge/parodist/internal/promptbuilder"
)

// readLyrics reads a UTF-8 lyrics file into its logical lines. Each source
// line is trimmed of leading/trailing whitespace on ingest; blank lines are
// preserved as structural separators.
func readLyrics(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read lyrics %q: %w", path, err)
	}

	raw := strings.Split(strings.ReplaceAll(string(data), "\r\n", "\n"), "\n")
	lines := make([]string, len(raw))
	for i, l := range raw {
		lines[i] = strings.TrimSpace(l)
	}
	return lines, nil
}

// readKeywords reads a UTF-8 keywords file ("keyword: definition" per line,
// blank lines ignored) into a [promptbuilder.KeywordMap], using the same
// parsing rule as [keywordgen.ParseResponse].
func readKeywords(path string) (promptbuilder.KeywordMap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read keywords %q: %w", path, err)
	}
	return keywordgen.ParseResponse(string(data)), nil
}

// writeLines joins lines with "\n" and writes them to path (or stdout when
// path is empty).
func writeLines(path string, lines []string) error {
	out := strings.Join(lines, "\n")
	if path == "" {
		_, err := fmt.Println(out)
		return err
	}
	if err := os.WriteFile(path, []byte(out), 0o644); err != nil {
		return fmt.Errorf("write output %q: %w", path, err)
	}
	return nil
}

// writeKeywords renders m as "keyword: definition" lines, in insertion
// order, and writes them to path (or stdout when path is empty).
func writeKeywords(path string, m promptbuilder.KeywordMap) error {
	var sb strings.Builder
	for pair := m.Oldest(); pair != nil; pair = pair.Next() {
		sb.WriteString(pair.Key)
		sb.WriteString(": ")
		sb.WriteString(pair.Value)
		sb.WriteByte('\n')
	}
	out := strings.TrimRight(sb.String(), "\n")

	if path == "" {
		_, err := fmt.Println(out)
		return err
	}
	if err := os.WriteFile(path, []byte(out), 0o644); err != nil {
		return fmt.Errorf("write output %q: %w", path, err)
	}
	return nil
}
