package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/antzucaro/matchr"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/verseforge/parodist/internal/config"
	"github.com/verseforge/parodist/internal/parody"
)

// songResult is the diagnostic outcome of benchmarking a single (lyrics,
// keywords) pair.
type songResult struct {
	name       string
	duration   time.Duration
	lineCount  int
	similarity float64
	err        error
}

// runBenchmark implements the "benchmark" subcommand: it discovers
// (lyrics, keywords) file pairs in a directory and runs the parody pipeline
// over each one, bounded by a concurrency limit, reporting per-song timing
// and a diagnostic structural-similarity score against the source lyrics.
func runBenchmark(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("benchmark", flag.ContinueOnError)
	dir := fs.String("dir", "", "directory of *.lyrics.txt/*.keywords.txt pairs (required)")
	configPath := fs.String("config", "", "path to a YAML config file (default: mock backend)")
	concurrency := fs.Int64("concurrency", 4, "maximum number of songs processed concurrently")
	jsonLogs := fs.Bool("json-logs", false, "emit logs as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *dir == "" {
		return fmt.Errorf("benchmark: -dir is required")
	}
	if *concurrency < 1 {
		return fmt.Errorf("benchmark: -concurrency must be >= 1")
	}

	cfg, err := loadConfigOrDefault(*configPath)
	if err != nil {
		return fmt.Errorf("benchmark: %w", err)
	}
	logger := withRunID(newLogger(cfg.Server.LogLevel, *jsonLogs))

	shutdown, err := initObservability(ctx, "parodist")
	if err != nil {
		return fmt.Errorf("benchmark: %w", err)
	}
	defer shutdown(context.Background())

	pairs, err := discoverPairs(*dir)
	if err != nil {
		return fmt.Errorf("benchmark: %w", err)
	}
	if len(pairs) == 0 {
		return fmt.Errorf("benchmark: no *.lyrics.txt/*.keywords.txt pairs found in %q", *dir)
	}

	sem := semaphore.NewWeighted(*concurrency)
	eg, egCtx := errgroup.WithContext(ctx)

	results := make([]songResult, len(pairs))
	var mu sync.Mutex

	for i, p := range pairs {
		i, p := i, p
		eg.Go(func() error {
			if err := sem.Acquire(egCtx, 1); err != nil {
				return err
			}
			defer sem.Release(1)

			res := benchmarkOne(egCtx, cfg, logger, p)
			mu.Lock()
			results[i] = res
			mu.Unlock()
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return fmt.Errorf("benchmark: %w", err)
	}

	printBenchmarkReport(results)
	return nil
}

// songPair names a discovered lyrics/keywords file pair.
type songPair struct {
	name         string
	lyricsPath   string
	keywordsPath string
}

// discoverPairs finds every "<name>.lyrics.txt" file in dir that has a
// matching "<name>.keywords.txt" sibling, sorted by name.
func discoverPairs(dir string) ([]songPair, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir %q: %w", dir, err)
	}

	var pairs []songPair
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		const suffix = ".lyrics.txt"
		if !strings.HasSuffix(name, suffix) {
			continue
		}
		base := strings.TrimSuffix(name, suffix)
		keywordsPath := filepath.Join(dir, base+".keywords.txt")
		if _, err := os.Stat(keywordsPath); err != nil {
			continue
		}
		pairs = append(pairs, songPair{
			name:         base,
			lyricsPath:   filepath.Join(dir, name),
			keywordsPath: keywordsPath,
		})
	}

	sort.Slice(pairs, func(i, j int) bool { return pairs[i].name < pairs[j].name })
	return pairs, nil
}

// benchmarkOne runs the parody pipeline over a single song pair, never
// returning an error — failures are captured in the result so one bad song
// does not abort the whole batch.
func benchmarkOne(ctx context.Context, cfg *config.Config, logger *slog.Logger, p songPair) songResult {
	res := songResult{name: p.name}

	lines, err := readLyrics(p.lyricsPath)
	if err != nil {
		res.err = err
		return res
	}
	keywords, err := readKeywords(p.keywordsPath)
	if err != nil {
		res.err = err
		return res
	}

	c, err := buildCompleter(cfg)
	if err != nil {
		res.err = fmt.Errorf("build completer: %w", err)
		return res
	}

	engine := parody.New(c, parody.WithLogger(logger), parody.WithBackendName(cfg.Completer.Name))

	start := time.Now()
	generated, err := engine.Generate(ctx, lines, keywords, parody.RunOptions{
		RefinementPasses: cfg.Generation.RefinementPasses,
	})
	res.duration = time.Since(start)
	if err != nil {
		res.err = err
		return res
	}

	res.lineCount = len(generated)
	res.similarity = averageSimilarity(lines, generated)
	return res
}

// averageSimilarity returns the mean Jaro-Winkler similarity between each
// pair of positionally-aligned non-blank lines. It is a diagnostic signal
// only: a low score does not mean the parody failed validation, since
// wholesale content replacement while preserving prosody is the point.
func averageSimilarity(original, generated []string) float64 {
	var total float64
	var n int
	for i := range original {
		if i >= len(generated) {
			break
		}
		a, b := strings.TrimSpace(original[i]), strings.TrimSpace(generated[i])
		if a == "" || b == "" {
			continue
		}
		total += matchr.JaroWinkler(a, b, false)
		n++
	}
	if n == 0 {
		return 0
	}
	return total / float64(n)
}

// printBenchmarkReport writes a plain-text summary table to stdout.
func printBenchmarkReport(results []songResult) {
	var ok, failed int
	var totalDuration time.Duration

	fmt.Printf("%-24s %-10s %8s %6s %10s\n", "SONG", "STATUS", "DURATION", "LINES", "SIMILARITY")
	for _, r := range results {
		if r.err != nil {
			failed++
			fmt.Printf("%-24s %-10s %8s %6s %10s  (%v)\n", r.name, "FAILED", "-", "-", "-", r.err)
			continue
		}
		ok++
		totalDuration += r.duration
		fmt.Printf("%-24s %-10s %8s %6d %10.3f\n", r.name, "OK", r.duration.Round(time.Millisecond), r.lineCount, r.similarity)
	}

	fmt.Printf("\n%d succeeded, %d failed, total duration %s\n", ok, failed, totalDuration.Round(time.Millisecond))
}
