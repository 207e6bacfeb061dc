package resolver

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/rfestag/holoconf/herr"
	"github.com/rfestag/holoconf/value"
)

// FileRoots, when non-empty, restricts the file resolver to paths that
// resolve under one of these directories (spec §4.2 "the resolved path
// must lie under one of the Config's file roots"). Roots are absolute,
// cleaned directories.
type FileRoots []string

// allow reports whether path lies under one of roots, resolving symlinks on
// both sides first (spec §4.2 "enforced after symlink resolution", §6 "
// symlinks are resolved before the containment check") so a symlink that
// lives inside a root but targets something outside it is rejected. A path
// or root that does not yet exist (EvalSymlinks fails) falls back to its
// cleaned form; os.ReadFile reports the not-found error separately.
func (roots FileRoots) allow(path string) bool {
	if len(roots) == 0 {
		return true
	}

	resolvedPath, err := filepath.EvalSymlinks(path)
	if err != nil {
		resolvedPath = path
	}

	for _, root := range roots {
		resolvedRoot, err := filepath.EvalSymlinks(root)
		if err != nil {
			resolvedRoot = root
		}

		rel, err := filepath.Rel(resolvedRoot, resolvedPath)
		if err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return true
		}
	}

	return false
}

// File implements the "file" resolver: "${file:PATH, parse=auto|binary,
// encoding=utf-8, sensitive=false}". PATH is either a plain filesystem path
// (resolved relative to the origin file's directory) or an RFC 8089
// "file:" URI with an empty or "localhost" authority.
func File(_ context.Context, rc *Context, args Args) (*value.Value, error) {
	raw, err := args.String(0, rc.Path)
	if err != nil {
		return nil, err
	}

	path, err := resolveFilePath(raw, rc.SourceDir)
	if err != nil {
		return nil, &herr.ResolverError{Resolver: "file", Path: rc.Path, Cause: err}
	}

	roots, _ := rc.roots()
	if !roots.allow(path) {
		return nil, &herr.ResolverError{
			Resolver: "file",
			Path:     rc.Path,
			Cause:    fmt.Errorf("%q lies outside the configured file roots", path),
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &herr.ResolverError{Resolver: "file", Path: rc.Path, Cause: fmt.Errorf("not found: %w", err)}
		}

		return nil, &herr.ResolverError{Resolver: "file", Path: rc.Path, Cause: err}
	}

	parseMode, _, err := args.KwargString("parse", rc.Path)
	if err != nil {
		return nil, err
	}

	if parseMode == "" {
		parseMode = "auto"
	}

	return parseFileContents(data, path, parseMode, rc.Path)
}

// resolveFilePath handles both plain paths and RFC 8089 file: URIs.
func resolveFilePath(raw, sourceDir string) (string, error) {
	if strings.HasPrefix(raw, "file:") {
		u, err := url.Parse(raw)
		if err != nil {
			return "", fmt.Errorf("invalid file URI: %w", err)
		}

		if u.Host != "" && u.Host != "localhost" {
			return "", fmt.Errorf("file URI authority %q not supported", u.Host)
		}

		raw = u.Path
	}

	if filepath.IsAbs(raw) {
		return filepath.Clean(raw), nil
	}

	return filepath.Clean(filepath.Join(sourceDir, raw)), nil
}

func parseFileContents(data []byte, path, mode, callPath string) (*value.Value, error) {
	switch mode {
	case "binary":
		return value.NewBytes(data, callPath), nil
	case "text":
		return value.NewString(string(data), callPath), nil
	case "auto":
		switch ext := strings.ToLower(filepath.Ext(path)); ext {
		case ".yaml", ".yml":
			return decodeYAML(string(data), callPath)
		case ".json":
			return decodeJSON(string(data), callPath)
		default:
			return value.NewString(string(data), callPath), nil
		}
	default:
		return nil, fmt.Errorf("unknown parse mode %q", mode)
	}
}

// rootsKey lets Context carry FileRoots without resolver importing a
// concrete Config type (which would create an import cycle with the root
// package). The holoconf façade stores its FileRoots on every Context it
// builds via WithRoots.
type rootsKey struct{}

// WithRoots attaches fr to rc; roots returns it.
func (rc *Context) WithRoots(fr FileRoots) *Context {
	if rc.extra == nil {
		rc.extra = map[any]any{}
	}

	rc.extra[rootsKey{}] = fr

	return rc
}

func (rc *Context) roots() (FileRoots, bool) {
	if rc.extra == nil {
		return nil, false
	}

	fr, ok := rc.extra[rootsKey{}].(FileRoots)

	return fr, ok
}
