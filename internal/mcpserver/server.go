// Package mcpserver exposes Parodist's parody and keyword generation
// pipelines as Model Context Protocol tools, so an external MCP client (an
// LLM host, an IDE assistant, another agent) can drive generation without
// linking against the engine packages directly.
//
// [Server] wraps the official MCP Go SDK server
// (github.com/modelcontextprotocol/go-sdk/mcp) and registers two tools:
//
//   - generate_parody: runs the full generation-then-refinement pipeline
//     over a block of original lyrics.
//   - generate_keywords: expands a thematic subject list into a
//     keyword:definition map, consulting the keyword cache first when one
//     is configured.
//
// Both transports named by [config.MCPTransport] are supported: stdio for
// single-client subprocess use, and streamable HTTP for long-lived,
// multi-client deployments.
package mcpserver

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/verseforge/parodist/internal/completer"
	"github.com/verseforge/parodist/internal/config"
	"github.com/verseforge/parodist/internal/keywordstore"
	"github.com/verseforge/parodist/internal/observe"
	"github.com/verseforge/parodist/internal/parody"
)

const serverName = "parodist"

// serverVersion is the MCP implementation version advertised to clients.
const serverVersion = "1.0.0"

// Server adapts a [parody.Engine] and keyword generation backend to the MCP
// tool-calling protocol.
//
// The engine/backend/cache triple can be swapped at runtime via [Server.Reload],
// for example when a [config.Watcher] observes a config file change while Run
// is serving requests, so a long-lived server picks up a new completer
// backend or keyword cache without a restart. Tool handlers read the triple
// under mu, so a reload never races an in-flight tool call.
type Server struct {
	mcp *mcpsdk.Server

	mu      sync.RWMutex
	engine  *parody.Engine
	backend completer.Completer
	cache   *keywordstore.Store // nil when the keyword cache is not configured

	gen     config.GenerationConfig
	metrics *observe.Metrics
}

// New constructs a Server. backend is used both by engine (for parody
// generation) and directly for keyword generation; cache may be nil, in
// which case keyword generation always calls the backend.
func New(engine *parody.Engine, backend completer.Completer, cache *keywordstore.Store, gen config.GenerationConfig) *Server {
	s := &Server{
		engine:  engine,
		backend: backend,
		cache:   cache,
		gen:     gen,
		metrics: observe.DefaultMetrics(),
	}

	s.mcp = mcpsdk.NewServer(&mcpsdk.Implementation{
		Name:    serverName,
		Version: serverVersion,
	}, nil)

	mcpsdk.AddTool(s.mcp, &mcpsdk.Tool{
		Name:        "generate_parody",
		Description: "Generate a thematic parody of the given lyrics, preserving syllable counts, rhyme scheme, and punctuation/capitalization shape.",
	}, s.generateParody)

	mcpsdk.AddTool(s.mcp, &mcpsdk.Tool{
		Name:        "generate_keywords",
		Description: "Expand a list of thematic subjects into a keyword:definition map suitable for guiding parody generation.",
	}, s.generateKeywords)

	return s
}

// Reload swaps the engine, backend, and cache a running Server serves tool
// calls through, and returns the previous cache (or nil) so the caller can
// release its connection pool. Any in-flight tool call finishes against the
// triple it started with; every call issued after Reload returns sees the
// new one. cache may be nil to disable the keyword cache.
func (s *Server) Reload(engine *parody.Engine, backend completer.Completer, cache *keywordstore.Store) (previousCache *keywordstore.Store) {
	s.mu.Lock()
	defer s.mu.Unlock()
	previousCache = s.cache
	s.engine = engine
	s.backend = backend
	s.cache = cache
	return previousCache
}

// snapshot returns the engine/backend/cache triple currently in effect.
func (s *Server) snapshot() (*parody.Engine, completer.Completer, *keywordstore.Store) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.engine, s.backend, s.cache
}

// Run serves the MCP protocol over the transport named by cfg.Transport
// until ctx is cancelled (stdio) or an unrecoverable listener error occurs
// (streamable-http).
func (s *Server) Run(ctx context.Context, cfg config.MCPConfig) error {
	switch cfg.Transport {
	case config.MCPTransportStdio:
		return s.mcp.Run(ctx, &mcpsdk.StdioTransport{})

	case config.MCPTransportStreamableHTTP:
		handler := mcpsdk.NewStreamableHTTPHandler(func(*http.Request) *mcpsdk.Server {
			return s.mcp
		}, nil)
		srv := &http.Server{Addr: cfg.ListenAddr, Handler: observe.Middleware(s.metrics)(handler)}

		errCh := make(chan error, 1)
		go func() { errCh <- srv.ListenAndServe() }()

		select {
		case <-ctx.Done():
			return srv.Shutdown(context.Background())
		case err := <-errCh:
			if err != nil && err != http.ErrServerClosed {
				return fmt.Errorf("mcpserver: streamable-http listener: %w", err)
			}
			return nil
		}

	default:
		return fmt.Errorf("mcpserver: unsupported transport %q", cfg.Transport)
	}
}
