package resolver

import (
	"context"
	"os"

	"github.com/rfestag/holoconf/herr"
	"github.com/rfestag/holoconf/value"
)

// Env implements the "env" resolver: "${env:NAME}" reads an environment
// variable. An unset variable reports NotFound rather than resolving to
// Null, so the two "default=" triggers on the surrounding Call (a failed
// lookup vs. a successful but Null result) stay distinct; the engine's
// HasDefault handling already masks a NotFoundError with the default kwarg
// when one is present.
func Env(_ context.Context, rc *Context, args Args) (*value.Value, error) {
	name, err := args.String(0, rc.Path)
	if err != nil {
		return nil, err
	}

	v, ok := os.LookupEnv(name)
	if !ok {
		return nil, &herr.NotFoundError{Path: rc.Path}
	}

	return value.NewString(v, rc.Path), nil
}
