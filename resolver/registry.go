package resolver

import (
	"fmt"
	"sync"
)

// Registry is a name -> Resolver lookup table, grounded on
// magicschema.Config's Registry field (a name-keyed map of pluggable
// behavior populated at construction time and consulted during a walk).
// Registry is safe for concurrent use: register_resolver (spec §4.5(c))
// can run while resolution is in flight on other goroutines.
type Registry struct {
	mu        sync.RWMutex
	resolvers map[string]Resolver
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{resolvers: make(map[string]Resolver)}
}

// NewDefaultRegistry returns a Registry pre-populated with holoconf's
// built-in resolvers (spec §4.2): env, ref, file, http, https, json, yaml,
// split.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register("env", ResolverFunc(Env))
	r.Register("ref", ResolverFunc(Ref))
	r.Register("file", ResolverFunc(File))
	r.Register("http", ResolverFunc(HTTP))
	r.Register("https", ResolverFunc(HTTPS))
	r.Register("json", ResolverFunc(JSON))
	r.Register("yaml", ResolverFunc(YAML))
	r.Register("split", ResolverFunc(Split))

	return r
}

// Register adds or overwrites the resolver registered under name.
func (r *Registry) Register(name string, res Resolver) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.resolvers[name] = res
}

// Lookup returns the resolver registered under name.
func (r *Registry) Lookup(name string) (Resolver, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	res, ok := r.resolvers[name]

	return res, ok
}

// Clone returns a shallow copy of r, suitable for an Options override that
// should inherit the defaults plus caller-supplied additions without
// mutating a shared default registry.
func (r *Registry) Clone() *Registry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := NewRegistry()
	for name, res := range r.resolvers {
		out.resolvers[name] = res
	}

	return out
}

func errUnknownResolver(name string) error {
	return fmt.Errorf("unknown resolver %q", name)
}
