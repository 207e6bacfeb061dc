// Package engine implements holoconf's lazy, cycle-detecting resolution
// engine (spec §4.3): turning a canonical path into a fully-evaluated
// [value.Value] by walking the raw tree, parsing and evaluating
// interpolation templates on demand, and memoizing completed resolutions.
package engine

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/rfestag/holoconf/herr"
	"github.com/rfestag/holoconf/resolver"
	"github.com/rfestag/holoconf/template"
	"github.com/rfestag/holoconf/value"
)

// Engine lazily resolves paths against a fixed root tree. It is safe for
// concurrent use: resolutions on independent goroutines each carry their
// own resolution stack (see stack.go) and share only the RWMutex-guarded
// caches.
type Engine struct {
	root     *value.Value
	registry *resolver.Registry

	fileRoots resolver.FileRoots
	httpCfg   *resolver.HTTPConfig

	cacheMu sync.RWMutex
	cache   map[string]*value.Value

	tmplMu    sync.RWMutex
	tmplCache map[*value.Value]template.Template
}

// New returns an Engine resolving against root using reg for dispatch.
func New(root *value.Value, reg *resolver.Registry) *Engine {
	return &Engine{
		root:      root,
		registry:  reg,
		cache:     make(map[string]*value.Value),
		tmplCache: make(map[*value.Value]template.Template),
	}
}

// SetFileRoots restricts the file resolver to the given directories.
func (e *Engine) SetFileRoots(roots resolver.FileRoots) { e.fileRoots = roots }

// SetHTTPConfig configures the http/https resolvers.
func (e *Engine) SetHTTPConfig(cfg *resolver.HTTPConfig) { e.httpCfg = cfg }

// ClearCache drops every memoized resolution (spec §4.3(f) "cleared on
// merge and on explicit clear_cache()").
func (e *Engine) ClearCache() {
	e.cacheMu.Lock()
	defer e.cacheMu.Unlock()

	e.cache = make(map[string]*value.Value)
}

// Resolve implements resolver.Engine: it canonicalizes path against
// fromPath and resolves the result. This is the entry point the ref
// resolver calls back into.
func (e *Engine) Resolve(ctx context.Context, fromPath, path string) (*value.Value, error) {
	canonical, err := Canonicalize(fromPath, path)
	if err != nil {
		return nil, err
	}

	return e.resolve(ctx, canonical)
}

// Get resolves a top-level, already-absolute path (the façade's entry
// point).
func (e *Engine) Get(ctx context.Context, path string) (*value.Value, error) {
	return e.resolve(ctx, path)
}

// ResolveAll walks the whole tree, resolving every String node and
// propagating ancestor Sensitive flags down to their descendants, and
// returns the fully-resolved copy. Used by the façade's to_dict/yaml/json
// with resolve=true (spec §6).
func (e *Engine) ResolveAll(ctx context.Context) (*value.Value, error) {
	return e.resolveTree(ctx, e.root, "", false)
}

func (e *Engine) resolveTree(
	ctx context.Context,
	node *value.Value,
	path string,
	ancestorSensitive bool,
) (*value.Value, error) {
	switch node.Kind {
	case value.KindMapping:
		out := value.NewMapping(node.Origin)
		sens := ancestorSensitive || node.Sensitive

		for _, k := range node.Map.Keys() {
			child, _ := node.Map.Get(k)

			childPath := k
			if path != "" {
				childPath = path + "." + k
			}

			rv, err := e.resolveTree(ctx, child, childPath, sens)
			if err != nil {
				return nil, err
			}

			out.Map.Set(k, rv)
		}

		out.Sensitive = node.Sensitive

		return out, nil

	case value.KindSequence:
		sens := ancestorSensitive || node.Sensitive
		elems := make([]*value.Value, len(node.Seq))

		for i, child := range node.Seq {
			rv, err := e.resolveTree(ctx, child, fmt.Sprintf("%s[%d]", path, i), sens)
			if err != nil {
				return nil, err
			}

			elems[i] = rv
		}

		out := value.NewSequence(elems, node.Origin)
		out.Sensitive = node.Sensitive

		return out, nil

	case value.KindString:
		return e.resolve(ctx, path)

	default:
		if ancestorSensitive && !node.Sensitive {
			out := node.Clone()
			out.Sensitive = true

			return out, nil
		}

		return node, nil
	}
}

func (e *Engine) resolve(ctx context.Context, path string) (*value.Value, error) {
	e.cacheMu.RLock()
	if v, ok := e.cache[path]; ok {
		e.cacheMu.RUnlock()

		return v, nil
	}
	e.cacheMu.RUnlock()

	if onStack(ctx, path) {
		stack := append(stackFrom(ctx), path) //nolint:gocritic // snapshot for the error, not reused

		return nil, &herr.CircularReferenceError{Path: path, Stack: stack}
	}

	ctx = pushStack(ctx, path)

	node, sourceDir, ancestorSensitive, err := e.lookup(path)
	if err != nil {
		return nil, err
	}

	resolved, err := e.resolveNode(ctx, path, node, sourceDir, ancestorSensitive)
	if err != nil {
		return nil, err
	}

	e.cacheMu.Lock()
	e.cache[path] = resolved
	e.cacheMu.Unlock()

	return resolved, nil
}

// lookup walks the raw tree to the node at path, returning also the
// directory of the file that defined it (for the file resolver's relative
// paths) and whether any ancestor mapping/sequence along the way was
// marked Sensitive (spec §4.3(c) sensitivity propagation to descendants).
func (e *Engine) lookup(path string) (node *value.Value, sourceDir string, ancestorSensitive bool, err error) {
	segs, err := Segments(path)
	if err != nil {
		return nil, "", false, err
	}

	cur := e.root

	for _, seg := range segs {
		if cur == nil || cur.Kind != value.KindMapping {
			return nil, "", false, &herr.NotFoundError{Path: path}
		}

		if cur.Sensitive {
			ancestorSensitive = true
		}

		next, ok := cur.Map.Get(seg.Key)
		if !ok {
			return nil, "", false, &herr.NotFoundError{Path: path}
		}

		cur = next

		if seg.HasIndex {
			if cur.Sensitive {
				ancestorSensitive = true
			}

			if cur.Kind != value.KindSequence || seg.Index < 0 || seg.Index >= len(cur.Seq) {
				return nil, "", false, &herr.NotFoundError{Path: path}
			}

			cur = cur.Seq[seg.Index]
		}
	}

	if cur == nil {
		return nil, "", false, &herr.NotFoundError{Path: path}
	}

	dir := "."
	if cur.Origin != "" {
		dir = filepath.Dir(cur.Origin)
	}

	return cur, dir, ancestorSensitive, nil
}

func (e *Engine) resolveNode(
	ctx context.Context,
	path string,
	node *value.Value,
	sourceDir string,
	ancestorSensitive bool,
) (*value.Value, error) {
	if node.Kind != value.KindString {
		// spec §4.3(a): non-string (or collection) nodes are returned
		// as-is but still recorded in the cache.
		if ancestorSensitive && !node.Sensitive {
			out := node.Clone()
			out.Sensitive = true

			return out, nil
		}

		return node, nil
	}

	tmpl, err := e.parsedTemplate(node)
	if err != nil {
		return nil, err
	}

	return e.evalTemplate(ctx, path, tmpl, sourceDir, node.Sensitive || ancestorSensitive)
}

func (e *Engine) parsedTemplate(node *value.Value) (template.Template, error) {
	e.tmplMu.RLock()
	t, ok := e.tmplCache[node]
	e.tmplMu.RUnlock()

	if ok {
		return t, nil
	}

	parsed, err := template.Parse(node.Str)
	if err != nil {
		var pe *template.ParseError
		if ok := errorsAsParseError(err, &pe); ok {
			return nil, &herr.ParseError{Path: node.Origin, Raw: pe.Raw, Message: pe.Message, Column: pe.Column}
		}

		return nil, fmt.Errorf("%w: %s", herr.ErrParse, err)
	}

	e.tmplMu.Lock()
	e.tmplCache[node] = parsed
	e.tmplMu.Unlock()

	return parsed, nil
}

func errorsAsParseError(err error, target **template.ParseError) bool {
	pe, ok := err.(*template.ParseError)
	if ok {
		*target = pe
	}

	return ok
}

// evalTemplate evaluates tmpl, the body of the string node at path.
// baseSensitive seeds the result's sensitivity (spec §4.3(c)): the node's
// own flag, ORed with any ancestor collection's.
func (e *Engine) evalTemplate(
	ctx context.Context,
	path string,
	tmpl template.Template,
	sourceDir string,
	baseSensitive bool,
) (*value.Value, error) {
	if lit, ok := tmpl.Literal(); ok {
		v := value.NewString(lit, path)
		v.Sensitive = baseSensitive

		return v, nil
	}

	if call, ok := tmpl.SingleCall(); ok {
		return e.evalCall(ctx, path, call, sourceDir, baseSensitive)
	}

	var sb strings.Builder

	sensitive := baseSensitive

	for _, seg := range tmpl {
		if !seg.IsCall {
			sb.WriteString(seg.Literal)

			continue
		}

		v, err := e.evalCall(ctx, path, seg.Call, sourceDir, false)
		if err != nil {
			return nil, err
		}

		if v.Sensitive {
			sensitive = true
		}

		s, err := stringify(v, path)
		if err != nil {
			return nil, err
		}

		sb.WriteString(s)
	}

	out := value.NewString(sb.String(), path)
	out.Sensitive = sensitive

	return out, nil
}

// evalCall dispatches one Call: its argument templates are resolved first
// (in declaration order), then the named resolver is invoked (spec
// §4.3(b)). Short-circuiting default semantics are spec §4.3(e).
func (e *Engine) evalCall(
	ctx context.Context,
	path string,
	call *template.Call,
	sourceDir string,
	baseSensitive bool,
) (*value.Value, error) {
	res, ok := e.registry.Lookup(call.Resolver)
	if !ok {
		return nil, &herr.ResolverError{
			Resolver: call.Resolver,
			Path:     path,
			Cause:    fmt.Errorf("no resolver registered under this name"),
		}
	}

	args, argsSensitive, argsErr := e.evalArgs(ctx, path, call, sourceDir)

	var (
		result     *value.Value
		resolveErr error
	)

	if argsErr == nil {
		rc := (&resolver.Context{Engine: e, Path: path, SourceDir: sourceDir}).WithRoots(e.fileRoots)
		if e.httpCfg != nil {
			rc = rc.WithHTTPConfig(e.httpCfg)
		}

		result, resolveErr = res.Resolve(ctx, rc, args)
	}

	// spec §4.3(b): any argument-evaluation failure is short-circuited by
	// a default kwarg unconditionally. spec §4.3(e): the resolver's own
	// outcome only falls back to default on NotFound or a successful Null.
	if call.HasDefault {
		switch {
		case argsErr != nil:
			return e.evalTemplate(ctx, path, call.Keyword["default"], sourceDir, false)
		case resolveErr != nil:
			if _, ok := resolveErr.(*herr.NotFoundError); ok { //nolint:errorlint // concrete sentinel check by design
				return e.evalTemplate(ctx, path, call.Keyword["default"], sourceDir, false)
			}
		case result.Kind == value.KindNull:
			return e.evalTemplate(ctx, path, call.Keyword["default"], sourceDir, false)
		}
	}

	if argsErr != nil {
		return nil, argsErr
	}

	if resolveErr != nil {
		return nil, resolveErr
	}

	sensitive := baseSensitive || argsSensitive || result.Sensitive

	if sensTmpl, ok := call.Keyword["sensitive"]; ok {
		sv, serr := e.evalTemplate(ctx, path, sensTmpl, sourceDir, false)
		if serr != nil {
			return nil, serr
		}

		switch sv.Kind {
		case value.KindBool:
			sensitive = sv.Bool
		case value.KindString:
			if b, perr := strconv.ParseBool(sv.Str); perr == nil {
				sensitive = b
			}
		}
	}

	if sensitive == result.Sensitive {
		return result, nil
	}

	out := result.Clone()
	out.Sensitive = sensitive

	return out, nil
}

func (e *Engine) evalArgs(
	ctx context.Context,
	path string,
	call *template.Call,
	sourceDir string,
) (resolver.Args, bool, error) {
	args := resolver.Args{Keyword: map[string]*value.Value{}}
	sensitive := false

	for _, posTmpl := range call.Positional {
		v, err := e.evalTemplate(ctx, path, posTmpl, sourceDir, false)
		if err != nil {
			return args, sensitive, err
		}

		if v.Sensitive {
			sensitive = true
		}

		args.Positional = append(args.Positional, v)
	}

	for _, k := range call.KeywordOrder {
		if k == "default" || k == "sensitive" {
			continue
		}

		args.Order = append(args.Order, k)

		v, err := e.evalTemplate(ctx, path, call.Keyword[k], sourceDir, false)
		if err != nil {
			return args, sensitive, err
		}

		if v.Sensitive {
			sensitive = true
		}

		args.Keyword[k] = v
	}

	return args, sensitive, nil
}

func stringify(v *value.Value, path string) (string, error) {
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
