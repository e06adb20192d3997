package config

import (
	"errors"
	"fmt"
	"sync"

	"github.com/verseforge/parodist/internal/completer"
	"github.com/verseforge/parodist/internal/resilience"
)

// ErrProviderNotRegistered is returned by [Registry.Create] when no factory
// has been registered under the requested backend name.
var ErrProviderNotRegistered = errors.New("config: completer backend not registered")

// Registry maps completer backend names to their constructor functions.
// It is safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	backend map[string]func(ProviderEntry) (completer.Completer, error)
}

// NewRegistry returns an empty, ready-to-use [Registry].
func NewRegistry() *Registry {
	return &Registry{
		backend: make(map[string]func(ProviderEntry) (completer.Completer, error)),
	}
}

// Register registers a completer backend factory under name.
// Subsequent calls with the same name overwrite the previous registration.
func (r *Registry) Register(name string, factory func(ProviderEntry) (completer.Completer, error)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.backend[name] = factory
}

// Create instantiates a [completer.Completer] using the factory registered
// under entry.Name. Returns [ErrProviderNotRegistered] if no factory has
// been registered for that name.
func (r *Registry) Create(entry ProviderEntry) (completer.Completer, error) {
	r.mu.RLock()
	factory, ok := r.backend[entry.Name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrProviderNotRegistered, entry.Name)
	}
	return factory(entry)
}

// CreateFallbackChain builds primary and each of fallbacks via [Registry.Create]
// and wires them into a [resilience.CompleterFallback] with default circuit
// breaker settings, primary first. Returns an error if primary or any
// fallback fails to construct.
func (r *Registry) CreateFallbackChain(primary ProviderEntry, fallbacks []ProviderEntry) (*resilience.CompleterFallback, error) {
	primaryCompleter, err := r.Create(primary)
	if err != nil {
		return nil, fmt.Errorf("config: primary completer %q: %w", primary.Name, err)
	}

	chain := resilience.NewCompleterFallback(primaryCompleter, primary.Name, resilience.FallbackConfig{})
	for _, fb := range fallbacks {
		c, err := r.Create(fb)
		if err != nil {
			return nil, fmt.Errorf("config: fallback completer %q: %w", fb.Name, err)
		}
		chain.AddFallback(fb.Name, c)
	}
	return chain, nil
}
