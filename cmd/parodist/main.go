// Command parodist converts a song's lyrics into a thematic parody that
// preserves its prosodic shape, and generates thematic keyword vocabularies
// to feed that process.
//
// It exposes four subcommands: "parody" runs the generation-then-refinement
// pipeline over a lyrics file; "keyword-gen" expands a list of subjects into
// a keyword:definition map; "benchmark" runs "parody" over a directory of
// (lyrics, keywords) pairs concurrently and reports diagnostic timing and
// structural-similarity statistics; "serve" runs the generation pipeline
// behind an MCP tool server, hot-reloading its completer backend and
// keyword cache whenever the config file backing it changes. None of these
// commands are part of the core contract; they are thin orchestrators
// around the packages in internal/parody, internal/keywordgen,
// internal/promptbuilder, and internal/mcpserver.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"

	"github.com/verseforge/parodist/internal/completer"
	"github.com/verseforge/parodist/internal/config"
	"github.com/verseforge/parodist/internal/observe"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 {
		usage()
		return 2
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cmd, rest := args[0], args[1:]
	var err error
	switch cmd {
	case "parody":
		err = runParody(ctx, rest)
	case "keyword-gen":
		err = runKeywordGen(ctx, rest)
	case "benchmark":
		err = runBenchmark(ctx, rest)
	case "serve":
		err = runServe(ctx, rest)
	case "-h", "-help", "--help", "help":
		usage()
		return 0
	default:
		fmt.Fprintf(os.Stderr, "parodist: unknown command %q\n", cmd)
		usage()
		return 2
	}

	if err != nil {
		if errors.Is(err, context.Canceled) {
			slog.Warn("run cancelled")
			return 1
		}
		fmt.Fprintf(os.Stderr, "parodist: %v\n", err)
		return 1
	}
	return 0
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: parodist <command> [flags]

commands:
  parody       rewrite a lyrics file into a thematic parody
  keyword-gen  expand subjects into a keyword:definition map
  benchmark    run parody generation over a directory of song pairs
  serve        run the MCP tool server (requires mcp.enabled in -config)

run "parodist <command> -h" for command-specific flags`)
}

// newLogger builds the process-wide slog handler from the configured level,
// installs it as the default, and returns it.
func newLogger(level config.LogLevel, jsonLogs bool) *slog.Logger {
	var lvl slog.Level
	switch level {
	case config.LogDebug:
		lvl = slog.LevelDebug
	case config.LogWarn:
		lvl = slog.LevelWarn
	case config.LogError:
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: lvl}
	var h slog.Handler
	if jsonLogs {
		h = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		h = slog.NewTextHandler(os.Stderr, opts)
	}
	logger := slog.New(h)
	slog.SetDefault(logger)
	return logger
}

// withRunID attaches a fresh per-invocation correlation ID to logger, so
// every log line from a single CLI run can be grepped out of a shared
// log stream.
func withRunID(logger *slog.Logger) *slog.Logger {
	return logger.With(slog.String("run_id", uuid.NewString()))
}

// loadConfigOrDefault loads the YAML config at path, or returns a bare
// mock-backend config when path is empty — useful for quick local trials
// without a config file.
func loadConfigOrDefault(path string) (*config.Config, error) {
	if path == "" {
		return &config.Config{Completer: config.ProviderEntry{Name: "mock"}}, nil
	}
	return config.Load(path)
}

// buildCompleter constructs the configured completer backend, wrapped in a
// [resilience.CompleterFallback] when fallbacks are configured.
func buildCompleter(cfg *config.Config) (completer.Completer, error) {
	reg := config.NewRegistry()
	registerBuiltinBackends(reg)

	if len(cfg.Fallbacks) == 0 {
		return reg.Create(cfg.Completer)
	}
	return reg.CreateFallbackChain(cfg.Completer, cfg.Fallbacks)
}

// initObservability wires the OTel SDK providers (Prometheus metrics
// exporter, trace provider) as the global providers, returning a shutdown
// function the caller must defer.
func initObservability(ctx context.Context, serviceVersion string) (func(context.Context) error, error) {
	return observe.InitProvider(ctx, observe.ProviderConfig{
		ServiceName:    "parodist",
		ServiceVersion: serviceVersion,
	})
}
