package provider

import (
	"fmt"
	"sort"
	"sync"

	crewerrors "github.com/felixgeelhaar/crewgen/internal/errors"
)

// Factory builds a client from configuration.
type Factory func(cfg Config) (CompletionClient, error)

// Registry maps provider names to factories.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry returns a registry holding the built-in providers.
func NewRegistry() *Registry {
	r := &Registry{factories: make(map[string]Factory)}
	r.factories[NameOpenAI] = func(cfg Config) (CompletionClient, error) {
		return asClient(NewOpenAI(cfg))
	}
	r.factories[NameAnthropic] = func(cfg Config) (CompletionClient, error) {
		return asClient(NewAnthropic(cfg))
	}
	r.factories[NameScripted] = func(cfg Config) (CompletionClient, error) {
		if cfg.ScriptPath == "" {
			return nil, crewerrors.New(crewerrors.ErrCodeProviderConfig, "scripted provider needs a script file").
				WithSuggestion("Pass --script <file> or set provider.script in crewgen.yaml")
		}
		return asClient(LoadScript(cfg.ScriptPath))
	}
	return r
}

// asClient keeps a typed nil pointer out of the interface.
func asClient[C CompletionClient](c C, err error) (CompletionClient, error) {
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Register adds a factory under name.
func (r *Registry) Register(name string, f Factory) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[name]; exists {
		return fmt.Errorf("provider %s already registered", name)
	}
	r.factories[name] = f
	return nil
}

// New builds the client named by cfg.Name.
func (r *Registry) New(cfg Config) (CompletionClient, error) {
	r.mu.RLock()
	f, ok := r.factories[cfg.Name]
	r.mu.RUnlock()

	if !ok {
		return nil, crewerrors.NewProviderNotFoundError(cfg.Name)
	}
	return f(cfg)
}

// Names lists registered providers in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

var defaultRegistry = NewRegistry()

// New builds a client from the built-in registry.
func New(cfg Config) (CompletionClient, error) {
	return defaultRegistry.New(cfg)
}
