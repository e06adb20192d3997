package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"sync"

	"github.com/verseforge/parodist/internal/completer"
	"github.com/verseforge/parodist/internal/config"
	"github.com/verseforge/parodist/internal/keywordstore"
	"github.com/verseforge/parodist/internal/mcpserver"
	"github.com/verseforge/parodist/internal/parody"
)

// runServe implements the "serve" subcommand: it starts the MCP server
// exposing generate_parody/generate_keywords as tools, running until ctx is
// cancelled. When -config is given, the config file is watched for changes
// and the server's completer backend, engine, and keyword cache are
// reloaded in place on every valid edit, so a long-running server never
// needs restarting to pick up a new backend or DSN.
func runServe(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	configPath := fs.String("config", "", "path to a YAML config file (required; must set mcp.enabled)")
	watchInterval := fs.Duration("watch-interval", 0, "config file poll interval (0 selects the watcher default)")
	jsonLogs := fs.Bool("json-logs", false, "emit logs as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *configPath == "" {
		return fmt.Errorf("serve: -config is required")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("serve: %w", err)
	}
	if !cfg.MCP.Enabled {
		return fmt.Errorf("serve: mcp.enabled is false in %s", *configPath)
	}
	logger := withRunID(newLogger(cfg.Server.LogLevel, *jsonLogs))

	shutdown, err := initObservability(ctx, "parodist")
	if err != nil {
		return fmt.Errorf("serve: %w", err)
	}
	defer shutdown(context.Background())

	engine, backend, cache, err := buildServeDeps(ctx, cfg)
	if err != nil {
		return fmt.Errorf("serve: %w", err)
	}

	srv := mcpserver.New(engine, backend, cache, cfg.Generation)

	// owned tracks whichever keyword-cache pool is currently live, so the
	// deferred cleanup below closes the one actually in use at shutdown, not
	// necessarily the one built above, since a config reload may have
	// replaced it in the meantime.
	var ownedMu sync.Mutex
	owned := cache
	defer func() {
		ownedMu.Lock()
		defer ownedMu.Unlock()
		if owned != nil {
			owned.Close()
		}
	}()

	var watcherOpts []config.WatcherOption
	if *watchInterval > 0 {
		watcherOpts = append(watcherOpts, config.WithInterval(*watchInterval))
	}
	watcher, err := config.NewWatcher(*configPath, func(_, newCfg *config.Config) {
		newCache, ok := reloadServer(ctx, logger, srv, newCfg)
		if !ok {
			return
		}
		ownedMu.Lock()
		owned = newCache
		ownedMu.Unlock()
	}, watcherOpts...)
	if err != nil {
		return fmt.Errorf("serve: config watcher: %w", err)
	}
	defer watcher.Stop()

	mcpCfg := cfg.MCP
	if mcpCfg.Transport == "" {
		mcpCfg.Transport = config.MCPTransportStdio
	}

	logger.Info("mcp server starting", "transport", mcpCfg.Transport, "listen_addr", mcpCfg.ListenAddr)
	if err := srv.Run(ctx, mcpCfg); err != nil {
		return fmt.Errorf("serve: %w", err)
	}
	logger.Info("mcp server stopped")
	return nil
}

// buildServeDeps constructs the completer backend, parody engine, and
// optional keyword cache a freshly (re)loaded config describes.
func buildServeDeps(ctx context.Context, cfg *config.Config) (*parody.Engine, completer.Completer, *keywordstore.Store, error) {
	backend, err := buildCompleter(cfg)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("build completer: %w", err)
	}

	var cache *keywordstore.Store
	if cfg.Keywords.PostgresDSN != "" {
		cache, err = keywordstore.NewStore(ctx, cfg.Keywords.PostgresDSN)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("keyword cache: %w", err)
		}
	}

	tag := cfg.Completer.Name
	engine := parody.New(backend, parody.WithBackendName(tag))
	return engine, backend, cache, nil
}

// reloadServer rebuilds the completer/engine/cache triple from newCfg and
// hands it to srv, closing whichever keyword cache pool srv was using
// before. A rebuild failure is logged and the server keeps serving the
// previous triple, matching [config.Watcher]'s own "keep the last good
// config" behavior on a load/validation error. On success it reports the
// new cache (nil if caching is now disabled) so the caller can track which
// pool needs closing at shutdown.
func reloadServer(ctx context.Context, logger *slog.Logger, srv *mcpserver.Server, newCfg *config.Config) (newCache *keywordstore.Store, ok bool) {
	engine, backend, cache, err := buildServeDeps(ctx, newCfg)
	if err != nil {
		logger.Warn("serve: config reload failed, keeping previous backend", "error", err)
		return nil, false
	}
	if previous := srv.Reload(engine, backend, cache); previous != nil && previous != cache {
		previous.Close()
	}
	logger.Info("serve: reloaded completer backend", "backend", newCfg.Completer.Name)
	return cache, true
}
