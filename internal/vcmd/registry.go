package vcmd

import (
	"strings"
	"sync"
	"sync/atomic"
)

// Registry is a named mapping from lowercase command name to handler
// descriptor, grounded on the teacher's ProcessManager.processes map +
// sync.RWMutex pattern (internal/infrastructure/processmgr/process_manager.go),
// generalized from "id -> managed OS process" to "name -> handler".
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]Descriptor
	disabled atomic.Bool
}

// NewRegistry returns an empty registry. Use Default() for one
// pre-populated with the built-in set (spec.md §4.3).
func NewRegistry() *Registry {
	return &Registry{handlers: make(map[string]Descriptor)}
}

// Register adds or replaces the handler for name (case-insensitive).
func (r *Registry) Register(name string, d Descriptor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[strings.ToLower(name)] = d
}

// Unregister removes name. No-op if absent.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.handlers, strings.ToLower(name))
}

// Lookup returns the handler for name, or false when absent or while
// the registry is globally disabled (DisableAll).
func (r *Registry) Lookup(name string) (Descriptor, bool) {
	if r.disabled.Load() {
		return Descriptor{}, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.handlers[strings.ToLower(name)]
	return d, ok
}

// List returns every registered name.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		out = append(out, name)
	}
	return out
}

// EnableAll re-enables virtual dispatch after DisableAll.
func (r *Registry) EnableAll() { r.disabled.Store(false) }

// DisableAll makes Lookup always report "not found", forcing the
// interpreter to spawn real processes for every command name.
func (r *Registry) DisableAll() { r.disabled.Store(true) }
