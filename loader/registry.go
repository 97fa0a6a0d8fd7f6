package loader

import (
	"sort"
	"sync"

	"github.com/librescoot/tinyfsm"
)

// Registry maps hook names used in definition files to their implementations.
type Registry struct {
	mu    sync.RWMutex
	hooks map[string]tinyfsm.Hook
}

// NewRegistry creates a new empty registry.
func NewRegistry() *Registry {
	return &Registry{
		hooks: make(map[string]tinyfsm.Hook),
	}
}

// Register adds a hook to the registry.
// If a hook with the same name exists, it is overwritten.
func (r *Registry) Register(name string, fn tinyfsm.Hook) *Registry {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hooks[name] = fn
	return r
}

// Lookup returns the hook registered under name.
func (r *Registry) Lookup(name string) (tinyfsm.Hook, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.hooks[name]
	return fn, ok
}

// Names returns the registered hook names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.hooks))
	for name := range r.hooks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
