package resolver

import (
	"context"

	"github.com/rfestag/holoconf/value"
)

// Ref implements the "ref" resolver: "${ref:PATH}" and its bare-path
// shorthand "${PATH}" both land here. PATH may be absolute (no leading
// dot), or relative ("." is the current node's siblings, ".." its
// grandparent's, and so on); canonicalization against the call site is the
// engine's job (spec §9 Open Question 3), so Ref only forwards the raw
// path string and the call-site path.
func Ref(ctx context.Context, rc *Context, args Args) (*value.Value, error) {
	path, err := args.String(0, rc.Path)
	if err != nil {
		return nil, err
	}

	v, err := rc.Engine.Resolve(ctx, rc.Path, path)
	if err != nil {
		return nil, err
	}

	return v, nil
}
