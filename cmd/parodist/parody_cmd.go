package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/verseforge/parodist/internal/parody"
)

// runParody implements the "parody" subcommand: it reads a lyrics file and a
// keywords file, runs the generation-then-refinement pipeline over them, and
// writes the resulting parody.
func runParody(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("parody", flag.ContinueOnError)
	lyricsPath := fs.String("lyrics", "", "path to the original lyrics file (required)")
	keywordsPath := fs.String("keywords", "", "path to the keyword:definition file (required)")
	outPath := fs.String("out", "", "path to write the parody to (default: stdout)")
	configPath := fs.String("config", "", "path to a YAML config file (default: mock backend)")
	passes := fs.Int("refinement-passes", 0, "punctuation refinement passes (0 selects the default)")
	backendName := fs.String("backend", "", "label attached to completer metrics/spans")
	jsonLogs := fs.Bool("json-logs", false, "emit logs as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *lyricsPath == "" || *keywordsPath == "" {
		return fmt.Errorf("parody: -lyrics and -keywords are required")
	}

	cfg, err := loadConfigOrDefault(*configPath)
	if err != nil {
		return fmt.Errorf("parody: %w", err)
	}
	logger := withRunID(newLogger(cfg.Server.LogLevel, *jsonLogs))

	shutdown, err := initObservability(ctx, "parodist")
	if err != nil {
		return fmt.Errorf("parody: %w", err)
	}
	defer shutdown(context.Background())

	originalLines, err := readLyrics(*lyricsPath)
	if err != nil {
		return fmt.Errorf("parody: %w", err)
	}
	keywords, err := readKeywords(*keywordsPath)
	if err != nil {
		return fmt.Errorf("parody: %w", err)
	}

	c, err := buildCompleter(cfg)
	if err != nil {
		return fmt.Errorf("parody: build completer: %w", err)
	}

	tag := *backendName
	if tag == "" {
		tag = cfg.Completer.Name
	}
	engine := parody.New(c, parody.WithLogger(logger), parody.WithBackendName(tag))

	refinementPasses := *passes
	if refinementPasses == 0 {
		refinementPasses = cfg.Generation.RefinementPasses
	}

	total := len(originalLines)
	result, err := engine.Generate(ctx, originalLines, keywords, parody.RunOptions{
		RefinementPasses: refinementPasses,
		Progress: func(current, total int) {
			logger.Debug("line committed", "current", current, "total", total)
		},
	})
	if err != nil {
		return fmt.Errorf("parody: %w", err)
	}

	logger.Info("parody generated", "lines", total)
	return writeLines(*outPath, result)
}
