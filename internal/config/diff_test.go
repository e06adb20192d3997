package config_test

import (
	"testing"

	"github.com/verseforge/parodist/internal/config"
)

func TestDiff_NoChanges(t *testing.T) {
	t.Parallel()
	cfg := &config.Config{
		Server:     config.ServerConfig{LogLevel: config.LogInfo},
		Completer:  config.ProviderEntry{Name: "openai", Model: "gpt-4o"},
		Generation: config.GenerationConfig{RefinementPasses: 2},
	}
	d := config.Diff(cfg, cfg)
	if d.LogLevelChanged {
		t.Error("expected LogLevelChanged=false for identical configs")
	}
	if d.CompleterChanged {
		t.Error("expected CompleterChanged=false for identical configs")
	}
	if d.FallbacksChanged {
		t.Error("expected FallbacksChanged=false for identical configs")
	}
	if d.GenerationChanged {
		t.Error("expected GenerationChanged=false for identical configs")
	}
}

func TestDiff_LogLevelChanged(t *testing.T) {
	t.Parallel()
	old := &config.Config{Server: config.ServerConfig{LogLevel: config.LogInfo}}
	new := &config.Config{Server: config.ServerConfig{LogLevel: config.LogDebug}}

	d := config.Diff(old, new)
	if !d.LogLevelChanged {
		t.Error("expected LogLevelChanged=true")
	}
	if d.NewLogLevel != config.LogDebug {
		t.Errorf("expected NewLogLevel=debug, got %q", d.NewLogLevel)
	}
}

func TestDiff_CompleterChanged(t *testing.T) {
	t.Parallel()
	old := &config.Config{Completer: config.ProviderEntry{Name: "openai", Model: "gpt-4o"}}
	new := &config.Config{Completer: config.ProviderEntry{Name: "openai", Model: "gpt-4o-mini"}}

	d := config.Diff(old, new)
	if !d.CompleterChanged {
		t.Error("expected CompleterChanged=true")
	}
	if d.NewCompleter.Model != "gpt-4o-mini" {
		t.Errorf("expected NewCompleter.Model=gpt-4o-mini, got %q", d.NewCompleter.Model)
	}
}

func TestDiff_FallbacksChanged(t *testing.T) {
	t.Parallel()
	old := &config.Config{Fallbacks: []config.ProviderEntry{{Name: "ollama"}}}
	new := &config.Config{Fallbacks: []config.ProviderEntry{{Name: "anthropic"}}}

	d := config.Diff(old, new)
	if !d.FallbacksChanged {
		t.Error("expected FallbacksChanged=true")
	}
}

func TestDiff_FallbacksAddedOrRemoved(t *testing.T) {
	t.Parallel()
	old := &config.Config{Fallbacks: []config.ProviderEntry{{Name: "ollama"}}}
	new := &config.Config{Fallbacks: []config.ProviderEntry{{Name: "ollama"}, {Name: "anthropic"}}}

	d := config.Diff(old, new)
	if !d.FallbacksChanged {
		t.Error("expected FallbacksChanged=true")
	}
}

func TestDiff_GenerationChanged(t *testing.T) {
	t.Parallel()
	old := &config.Config{Generation: config.GenerationConfig{RefinementPasses: 2}}
	new := &config.Config{Generation: config.GenerationConfig{RefinementPasses: 3}}

	d := config.Diff(old, new)
	if !d.GenerationChanged {
		t.Error("expected GenerationChanged=true")
	}
	if d.NewGeneration.RefinementPasses != 3 {
		t.Errorf("expected NewGeneration.RefinementPasses=3, got %d", d.NewGeneration.RefinementPasses)
	}
}

func TestDiff_MultipleChanges(t *testing.T) {
	t.Parallel()
	old := &config.Config{
		Server:    config.ServerConfig{LogLevel: config.LogInfo},
		Completer: config.ProviderEntry{Name: "openai"},
	}
	new := &config.Config{
		Server:    config.ServerConfig{LogLevel: config.LogWarn},
		Completer: config.ProviderEntry{Name: "anthropic"},
	}

	d := config.Diff(old, new)
	if !d.LogLevelChanged {
		t.Error("expected LogLevelChanged=true")
	}
	if !d.CompleterChanged {
		t.Error("expected CompleterChanged=true")
	}
}
