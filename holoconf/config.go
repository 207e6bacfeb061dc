// Package holoconf is the access façade: the programmatic surface an
// application uses to load, merge, query, export, and validate a
// hierarchical configuration tree whose scalar strings may embed
// interpolation expressions (spec §1, §4.5, §6). It wires together
// package value (the tree), package merge (the deep-merge algebra),
// package engine (lazy cycle-detecting resolution), package serialize
// (sensitivity-aware export), and package schema (JSON Schema hooks)
// behind one Config type, the same way magicschema.Config wires
// together its annotator Registry and Generator behind one entry point
// in the teacher repository.
package holoconf

import (
	"fmt"
	"os"

	"github.com/rfestag/holoconf/engine"
	"github.com/rfestag/holoconf/herr"
	"github.com/rfestag/holoconf/merge"
	"github.com/rfestag/holoconf/resolver"
	"github.com/rfestag/holoconf/value"
)

// Config holds a merged Value Tree plus everything needed to resolve paths
// against it (spec §3 "Config": root tree, resolution cache, allow-list,
// registry).
type Config struct {
	root    *value.Value
	engine  *engine.Engine
	opts    *Options
	sources []string
}

// Spec pairs a source path with whether a load failure there is tolerated
// (spec §4.4 "Optional files").
type Spec struct {
	Path     string
	Optional bool
}

func newConfig(root *value.Value, opts *Options, sources []string) *Config {
	if opts == nil {
		opts = NewOptions()
	}

	opts.Resolve()

	e := engine.New(root, opts.Registry)
	e.SetFileRoots(opts.FileRoots)
	e.SetHTTPConfig(opts.HTTP)

	return &Config{root: root, engine: e, opts: opts, sources: sources}
}

// Loads parses text (YAML or JSON) as a single source tree, using basePath
// as the origin tag for relative file-resolver lookups, and opts (nil for
// defaults).
func Loads(text []byte, basePath string, opts *Options) (*Config, error) {
	if basePath == "" {
		basePath = "<loads>"
	}

	root, err := value.LoadYAML(text, basePath)
	if err != nil {
		return nil, err
	}

	return newConfig(root, opts, []string{basePath}), nil
}

// Load reads and parses a single file at path.
func Load(path string, opts *Options) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", herr.ErrPathNotFound, err)
	}

	root, err := value.LoadYAML(data, path)
	if err != nil {
		return nil, err
	}

	return newConfig(root, opts, []string{path}), nil
}

// LoadMerged reads every file in paths, in order, and folds them with
// [merge.Merge] (spec §4.4 "fold left").
func LoadMerged(paths []string, opts *Options) (*Config, error) {
	specs := make([]Spec, len(paths))
	for i, p := range paths {
		specs[i] = Spec{Path: p}
	}

	return LoadMergedWithSpecs(specs, opts)
}

// LoadMergedWithSpecs is [LoadMerged] with per-file optionality: a Spec
// whose Optional is true and whose file fails to load is silently skipped;
// any other load failure is fatal (spec §4.4 "Optional files").
func LoadMergedWithSpecs(specs []Spec, opts *Options) (*Config, error) {
	var (
		trees   []*value.Value
		sources []string
	)

	for _, s := range specs {
		data, err := os.ReadFile(s.Path)
		if err != nil {
			if s.Optional {
				continue
			}

			return nil, fmt.Errorf("%w: %w", herr.ErrPathNotFound, err)
		}

		tree, err := value.LoadYAML(data, s.Path)
		if err != nil {
			if s.Optional {
				continue
			}

			return nil, err
		}

		trees = append(trees, tree)
		sources = append(sources, s.Path)
	}

	root := merge.Merge(trees...)

	return newConfig(root, opts, sources), nil
}

// Merge folds other's tree on top of c's (spec §4.4), replacing c's root
// with the merged result and clearing the resolution cache (spec §3
// invariant 6 "cleared on any mutation").
func (c *Config) Merge(other *Config) {
	c.root = merge.Merge(c.root, other.root)
	c.sources = append(append([]string(nil), c.sources...), other.sources...)

	e := engine.New(c.root, c.opts.Registry)
	e.SetFileRoots(c.opts.FileRoots)
	e.SetHTTPConfig(c.opts.HTTP)
	c.engine = e
}

// ClearCache drops every memoized resolution (spec §4.3(f)).
func (c *Config) ClearCache() {
	c.engine.ClearCache()
}

// RegisterResolver adds or replaces a resolver under name. With force
// false, registering over any name already in the registry (built-in or
// not) is a no-op that reports the conflict (spec §6 "register_resolver(name, resolver,
// force=false)").
func (c *Config) RegisterResolver(name string, res resolver.Resolver, force bool) error {
	if !force {
		if _, exists := c.opts.Registry.Lookup(name); exists {
			return fmt.Errorf("%w: resolver %q is already registered (pass force=true to replace it)", herr.ErrResolver, name)
		}
	}

	c.opts.Registry.Register(name, res)
	c.ClearCache()

	return nil
}
