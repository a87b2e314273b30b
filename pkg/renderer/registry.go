package renderer

import (
	"sort"
	"sync"
)

// Registry stores explicitly registered renderers by type name.
// Registrations always take priority over discovered or addressed renderers.
type Registry struct {
	mu        sync.RWMutex
	renderers map[string]Renderer
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{renderers: make(map[string]Renderer)}
}

// Register installs a renderer for the given type name.
// Registering the same name again replaces the previous entry.
func (r *Registry) Register(typeName string, renderer Renderer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.renderers[typeName] = renderer
}

// Get retrieves the renderer registered for the type name.
func (r *Registry) Get(typeName string) (Renderer, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	renderer, ok := r.renderers[typeName]
	return renderer, ok
}

// Has reports whether a renderer is registered for the type name.
func (r *Registry) Has(typeName string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.renderers[typeName]
	return ok
}

// List returns the registered type names, sorted.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.renderers))
	for name := range r.renderers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
