package strategy

import (
	"fmt"
	"sort"
	"sync"
)

// Greedy defends, every strategy interval, the undefended nodes closest to the fire
const Greedy = "greedy"

// Strategy describes a containment strategy the simulation engine can run
type Strategy struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
}

// Registry manages the strategies offered to the user
type Registry struct {
	mu         sync.RWMutex
	strategies map[string]Strategy
}

// NewRegistry creates a new, empty strategy registry
func NewRegistry() *Registry {
	return &Registry{
		strategies: make(map[string]Strategy),
	}
}

// Register adds a strategy to the registry
func (r *Registry) Register(s Strategy) error {
	if s.Name == "" {
		return fmt.Errorf("strategy name must not be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.strategies[s.Name]; exists {
		return fmt.Errorf("strategy %s already registered", s.Name)
	}

	r.strategies[s.Name] = s
	return nil
}

// Get returns the strategy registered under name
func (r *Registry) Get(name string) (Strategy, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, exists := r.strategies[name]
	if !exists {
		return Strategy{}, fmt.Errorf("strategy %s not found", name)
	}

	return s, nil
}

// Names returns all registered strategy names in sorted order
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.strategies))
	for name := range r.strategies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// List returns all registered strategies sorted by name
func (r *Registry) List() []Strategy {
	names := r.Names()

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Strategy, 0, len(names))
	for _, name := range names {
		out = append(out, r.strategies[name])
	}
	return out
}

// DefaultRegistry holds the strategies the engine currently accepts
var DefaultRegistry = func() *Registry {
	r := NewRegistry()
	_ = r.Register(Strategy{
		Name:        Greedy,
		Description: "Defend the undefended nodes nearest to the burning front",
	})
	return r
}()
