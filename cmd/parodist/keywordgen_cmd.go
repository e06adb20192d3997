package main

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/verseforge/parodist/internal/keywordgen"
	"github.com/verseforge/parodist/internal/keywordstore"
)

// runKeywordGen implements the "keyword-gen" subcommand: it expands a
// comma-separated list of subjects into a keyword:definition map, optionally
// consulting a PostgreSQL-backed cache before calling the completer.
func runKeywordGen(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("keyword-gen", flag.ContinueOnError)
	subjectsFlag := fs.String("subjects", "", "comma-separated list of subjects (required)")
	count := fs.Int("count", 10, "number of keyword:definition entries to generate")
	outPath := fs.String("out", "", "path to write the keyword map to (default: stdout)")
	configPath := fs.String("config", "", "path to a YAML config file (default: mock backend)")
	jsonLogs := fs.Bool("json-logs", false, "emit logs as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if strings.TrimSpace(*subjectsFlag) == "" {
		return fmt.Errorf("keyword-gen: -subjects is required")
	}

	var subjects []string
	for _, s := range strings.Split(*subjectsFlag, ",") {
		if t := strings.TrimSpace(s); t != "" {
			subjects = append(subjects, t)
		}
	}

	cfg, err := loadConfigOrDefault(*configPath)
	if err != nil {
		return fmt.Errorf("keyword-gen: %w", err)
	}
	logger := withRunID(newLogger(cfg.Server.LogLevel, *jsonLogs))

	var store *keywordstore.Store
	if cfg.Keywords.PostgresDSN != "" {
		store, err = keywordstore.NewStore(ctx, cfg.Keywords.PostgresDSN)
		if err != nil {
			return fmt.Errorf("keyword-gen: keyword cache: %w", err)
		}
		defer store.Close()
	}

	cacheKey := keywordstore.Key(subjects, *count)
	if store != nil {
		if cached, ok, err := store.Get(ctx, cacheKey); err != nil {
			logger.Warn("keyword cache lookup failed", "error", err)
		} else if ok {
			logger.Info("keyword cache hit", "subjects", subjects, "count", *count)
			return writeKeywords(*outPath, cached)
		}
	}

	c, err := buildCompleter(cfg)
	if err != nil {
		return fmt.Errorf("keyword-gen: build completer: %w", err)
	}
	if err := c.Verify(ctx); err != nil {
		return fmt.Errorf("keyword-gen: %w", err)
	}

	result, err := keywordgen.Generate(ctx, c, subjects, *count)
	if err != nil {
		return fmt.Errorf("keyword-gen: %w", err)
	}

	if store != nil {
		if err := store.Put(ctx, cacheKey, result); err != nil {
			logger.Warn("keyword cache write failed", "error", err)
		}
	}

	logger.Info("keywords generated", "subjects", subjects, "count", result.Len())
	return writeKeywords(*outPath, result)
}
