package renderer

import "sync"

// Resolver finds a renderer for a type name by trying the three lookup tiers
// in fixed priority order: explicit registration, discovered plugins, dynamic
// address.
//
// Plugin discovery runs at most once per Resolver instance; the discovered
// set is memoized for the resolver's remaining lifetime. Create a fresh
// Resolver to pick up newly installed plugins.
type Resolver struct {
	registry *Registry
	discover DiscoverFunc

	once       sync.Once
	discovered map[string]Renderer
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithDiscovery replaces the plugin discovery source.
// Tests use this to inject a deterministic set of discovered renderers.
func WithDiscovery(fn DiscoverFunc) ResolverOption {
	return func(r *Resolver) { r.discover = fn }
}

// NewResolver creates a resolver backed by the given registry.
// By default plugins are discovered from [PluginDir].
func NewResolver(registry *Registry, opts ...ResolverOption) *Resolver {
	if registry == nil {
		registry = NewRegistry()
	}
	r := &Resolver{
		registry: registry,
		discover: func() map[string]Renderer { return DiscoverPlugins(PluginDir()) },
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Registry returns the explicit-registration tier.
func (r *Resolver) Registry() *Registry {
	return r.registry
}

// Resolve finds a renderer for the type name. It returns ok=false when no
// tier yields a hit and the name is not a dynamic address; callers are
// expected to raise a resolution error naming the figure id. A dynamic
// address that fails to load returns the load error.
func (r *Resolver) Resolve(typeName string) (Renderer, bool, error) {
	if renderer, ok := r.registry.Get(typeName); ok {
		return renderer, true, nil
	}
	if renderer, ok := r.plugins()[typeName]; ok {
		return renderer, true, nil
	}
	if IsAddress(typeName) {
		renderer, err := LoadAddress(typeName)
		if err != nil {
			return nil, false, err
		}
		return renderer, true, nil
	}
	return nil, false, nil
}

// plugins returns the memoized discovered set, running discovery on first use.
func (r *Resolver) plugins() map[string]Renderer {
	r.once.Do(func() {
		r.discovered = r.discover()
	})
	return r.discovered
}
