package registry

import (
	"fmt"
	"sort"
	"sync"
)

// Registration pairs a module's schema with its factory. Internal
// pseudo-modules have a nil Factory.
type Registration struct {
	Def     ModuleDef
	Factory Factory
}

// Registry is a process-wide, append-only name → Registration map (spec
// §4.3). Registration happens at library-load time, both for the core's
// built-in modules and for any dynamically loaded plugin (package
// pluginloader); reads during integration never mutate it.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]Registration
}

// New returns an empty Registry.
func New() *Registry {
	return &Registry{entries: make(map[string]Registration)}
}

// Register adds def/factory under def.Name. Returns an error if the name
// is already registered (duplicate registration, spec §7 PluginError).
func (r *Registry) Register(def ModuleDef, factory Factory) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.entries[def.Name]; exists {
		return fmt.Errorf("registry: module %q already registered", def.Name)
	}
	if !def.Internal && factory == nil {
		return fmt.Errorf("registry: module %q is not internal but has no factory", def.Name)
	}
	r.entries[def.Name] = Registration{Def: def, Factory: factory}
	return nil
}

// Lookup returns the registration for name.
func (r *Registry) Lookup(name string) (Registration, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	reg, ok := r.entries[name]
	return reg, ok
}

// Names returns all registered module type names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.entries))
	for n := range r.entries {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
