// Package resolver implements holoconf's resolver vocabulary: the named
// functions a "${NAME:BODY, kwarg=...}" Call dispatches to. Package engine
// drives resolution; package resolver only knows how to turn already-
// resolved arguments into a [value.Value].
package resolver

import (
	"context"
	"fmt"

	"github.com/rfestag/holoconf/herr"
	"github.com/rfestag/holoconf/value"
)

// Engine is the subset of the resolution engine a resolver needs: the
// ability to resolve another path in the same tree, relative to the path
// currently being resolved (used by the ref resolver). Implemented by
// package engine's *Engine.
type Engine interface {
	Resolve(ctx context.Context, fromPath, path string) (*value.Value, error)
}

// Context carries the call-site information a resolver needs beyond its
// arguments: where in the tree the call lives, and how to reach back into
// the engine for path-based resolvers.
type Context struct {
	Engine Engine

	// Path is the canonical path of the scalar being resolved, e.g.
	// "database.host". Used by the ref resolver to make relative paths
	// absolute, and by diagnostics.
	Path string

	// SourceDir is the directory of the file that defined the current
	// value, used by the file resolver to resolve relative filenames.
	SourceDir string

	extra map[any]any
}

// Args are a Call's already-resolved arguments: positional as an ordered
// slice, keyword as a map plus the order kwargs were written in (so
// resolvers that care about order, or that echo kwargs in errors, can).
type Args struct {
	Positional []*value.Value
	Keyword    map[string]*value.Value
	Order      []string
}

// Get returns the i'th positional argument, or nil if absent.
func (a Args) Get(i int) *value.Value {
	if i < 0 || i >= len(a.Positional) {
		return nil
	}

	return a.Positional[i]
}

// String coerces the i'th positional argument to a string, erroring if it
// is missing or not a scalar that Native().(string) friendly coercion
// supports.
func (a Args) String(i int, path string) (string, error) {
	v := a.Get(i)
	if v == nil {
		return "", &herr.TypeCoercionError{Path: path, From: "missing", To: "string"}
	}

	return scalarToString(v, path)
}

// Kwarg returns a keyword argument by name.
func (a Args) Kwarg(name string) (*value.Value, bool) {
	v, ok := a.Keyword[name]

	return v, ok
}

// KwargString returns a keyword argument coerced to string, and whether it
// was present.
func (a Args) KwargString(name, path string) (string, bool, error) {
	v, ok := a.Keyword[name]
	if !ok {
		return "", false, nil
	}

	s, err := scalarToString(v, path)

	return s, true, err
}

func scalarToString(v *value.Value, path string) (string, error) {
	switch v.Kind {
	case value.KindString:
		return v.Str, nil
	case value.KindInt:
		return fmt.Sprintf("%d", v.Int), nil
	case value.KindFloat:
		return fmt.Sprintf("%g", v.Float), nil
	case value.KindBool:
		return fmt.Sprintf("%t", v.Bool), nil
	case value.KindNull:
		return "", nil
	default:
		return "", &herr.TypeCoercionError{Path: path, From: v.Kind.String(), To: "string"}
	}
}

// Resolver is one named resolver function (spec §4.2).
type Resolver interface {
	Resolve(ctx context.Context, rc *Context, args Args) (*value.Value, error)
}

// ResolverFunc adapts a plain function to the Resolver interface.
type ResolverFunc func(ctx context.Context, rc *Context, args Args) (*value.Value, error)

// Resolve calls f.
func (f ResolverFunc) Resolve(ctx context.Context, rc *Context, args Args) (*value.Value, error) {
	return f(ctx, rc, args)
}
