// Package pluginloader implements the Plugin Loader (spec §4.8, C8):
// given a path, it loads a dynamic library with deferred symbol
// resolution and records the handle for the process lifetime, letting
// the loaded image self-register module factories into the shared
// Registry. Go's plugin.Open (-buildmode=plugin .so files) is the one
// honest divergence from dlopen/shared-object semantics a Go rewrite
// must make here; see DESIGN.md.
package pluginloader

import (
	"plugin"
	"sync"

	"github.com/momemta/momemta-go/internal/merr"
	"github.com/momemta/momemta-go/registry"
)

// RegisterSymbol is the exported symbol every loadable plugin must
// provide: a func(*registry.Registry) error that registers its own
// module factories, mirroring self-registration of factory singletons
// during image initialisation (spec §4.8).
const RegisterSymbol = "Register"

// Loader records every shared object opened so far; unloading is not
// supported during a run (spec §4.8).
type Loader struct {
	mu     sync.Mutex
	loaded map[string]*plugin.Plugin
}

// New returns an empty Loader.
func New() *Loader {
	return &Loader{loaded: map[string]*plugin.Plugin{}}
}

// Load opens the shared object at path and invokes its RegisterSymbol
// function against reg. Loading the same path twice is a no-op, since
// the Registry is itself append-only and a second registration attempt
// would only fail as a duplicate.
func (l *Loader) Load(path string, reg *registry.Registry) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.loaded[path]; ok {
		return nil
	}

	p, err := plugin.Open(path)
	if err != nil {
		return &merr.PluginError{Path: path, Reason: err.Error()}
	}

	sym, err := p.Lookup(RegisterSymbol)
	if err != nil {
		return &merr.PluginError{Path: path, Reason: err.Error()}
	}

	register, ok := sym.(func(*registry.Registry) error)
	if !ok {
		return &merr.PluginError{Path: path, Reason: "Register symbol does not have signature func(*registry.Registry) error"}
	}

	if err := register(reg); err != nil {
		return &merr.PluginError{Path: path, Reason: err.Error()}
	}

	l.loaded[path] = p
	return nil
}

// Loaded returns the paths loaded so far, in no particular order.
func (l *Loader) Loaded() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	paths := make([]string, 0, len(l.loaded))
	for path := range l.loaded {
		paths = append(paths, path)
	}
	return paths
}
