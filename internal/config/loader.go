package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"

	"gopkg.in/yaml.v3"
)

// ValidBackendNames lists known completer backend names.
// Used by [Validate] to warn about unrecognised backend names.
var ValidBackendNames = []string{"openai", "anthropic", "ollama", "anyllm", "mock"}

// Load reads the YAML configuration file at path and returns a validated [Config].
// It is a convenience wrapper around [LoadFromReader] and [Validate].
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open %q: %w", path, err)
	}
	defer f.Close()

	cfg, err := LoadFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("config: parse %q: %w", path, err)
	}
	return cfg, nil
}

// LoadFromReader decodes a YAML config from r and validates the result.
// Useful in tests where configs are constructed from string literals.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := &Config{}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && err != io.EOF {
		return nil, fmt.Errorf("config: decode yaml: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that cfg contains a coherent set of values.
// It returns a joined error listing all validation failures found.
func Validate(cfg *Config) error {
	var errs []error

	// Server
	if cfg.Server.LogLevel != "" && !cfg.Server.LogLevel.IsValid() {
		errs = append(errs, fmt.Errorf("server.log_level %q is invalid; valid values: debug, info, warn, error", cfg.Server.LogLevel))
	}

	// Completer backend is required — the engine cannot run without one.
	if cfg.Completer.Name == "" {
		errs = append(errs, errors.New("completer.name is required"))
	} else {
		validateBackendName(cfg.Completer.Name)
	}

	// Fallback backends must each carry a name.
	fbNamesSeen := make(map[string]int, len(cfg.Fallbacks))
	for i, fb := range cfg.Fallbacks {
		prefix := fmt.Sprintf("fallbacks[%d]", i)
		if fb.Name == "" {
			errs = append(errs, fmt.Errorf("%s.name is required", prefix))
			continue
		}
		validateBackendName(fb.Name)
		if prev, ok := fbNamesSeen[fb.Name]; ok {
			errs = append(errs, fmt.Errorf("%s.name %q is a duplicate of fallbacks[%d]", prefix, fb.Name, prev))
		}
		fbNamesSeen[fb.Name] = i
	}

	if cfg.Generation.RefinementPasses < 0 {
		errs = append(errs, fmt.Errorf("generation.refinement_passes must not be negative, got %d", cfg.Generation.RefinementPasses))
	}
	if cfg.Generation.DefaultKeywordCount < 0 || cfg.Generation.DefaultKeywordCount > 100 {
		errs = append(errs, fmt.Errorf("generation.default_keyword_count must be between 0 and 100, got %d", cfg.Generation.DefaultKeywordCount))
	}

	// Keyword cache availability — caching is opt-in, not required.
	if cfg.Keywords.PostgresDSN == "" {
		slog.Debug("keyword_cache.postgres_dsn is empty; keyword generation will not be cached")
	}

	// MCP
	if cfg.MCP.Enabled {
		if cfg.MCP.Transport != "" && !cfg.MCP.Transport.IsValid() {
			errs = append(errs, fmt.Errorf("mcp.transport %q is invalid; valid values: stdio, streamable-http", cfg.MCP.Transport))
		}
		if cfg.MCP.Transport == MCPTransportStreamableHTTP && cfg.MCP.ListenAddr == "" {
			errs = append(errs, errors.New("mcp.listen_addr is required when mcp.transport is streamable-http"))
		}
	}

	return errors.Join(errs...)
}

// validateBackendName logs a warning if name is not found in
// [ValidBackendNames] — it may still be a valid third-party backend
// registered at runtime, so this is advisory only.
func validateBackendName(name string) {
	if slices.Contains(ValidBackendNames, name) {
		return
	}
	slog.Warn("unknown completer backend name — may be a typo or third-party backend",
		"name", name,
		"known", ValidBackendNames,
	)
}
