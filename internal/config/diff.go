package config


// ConfigDiff describes what changed between two configs.
// Only fields that can be safely hot-reloaded are tracked. An MCP transport
// or listen address change still requires a process restart and is
// intentionally not tracked here.
type ConfigDiff struct {
	LogLevelChanged bool
	NewLogLevel     LogLevel

	CompleterChanged bool
	NewCompleter     ProviderEntry

	FallbacksChanged bool

	GenerationChanged bool
	NewGeneration     GenerationConfig
}

// Diff compares old and new configs and returns what changed.
func Diff(old, new *Config) ConfigDiff {
	d := ConfigDiff{}

	if old.Server.LogLevel != new.Server.LogLevel {
		d.LogLevelChanged = true
		d.NewLogLevel = new.Server.LogLevel
	}

	if !equalProviderEntry(old.Completer, new.Completer) {
		d.CompleterChanged = true
		d.NewCompleter = new.Completer
	}

	if !equalFallbacks(old.Fallbacks, new.Fallbacks) {
		d.FallbacksChanged = true
	}

	if old.Generation != new.Generation {
		d.GenerationChanged = true
		d.NewGeneration = new.Generation
	}

	return d
}

// equalProviderEntry compares the scalar fields of a ProviderEntry. Options
// is deliberately excluded — its values come straight out of YAML and are
// not guaranteed to be comparable with ==.
func equalProviderEntry(a, b ProviderEntry) bool {
	return a.Name == b.Name && a.APIKey == b.APIKey && a.BaseURL == b.BaseURL && a.Model == b.Model
}

func equalFallbacks(a, b []ProviderEntry) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !equalProviderEntry(a[i], b[i]) {
			return false
		}
	}
	return true
}
