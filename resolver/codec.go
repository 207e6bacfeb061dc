package resolver

import (
	"context"

	"github.com/rfestag/holoconf/herr"
	"github.com/rfestag/holoconf/value"
)

// JSON implements the "json" resolver: "${json:TEXT}" parses TEXT as JSON
// into a structured Value. The parsed tree inherits TEXT's sensitivity
// unless overridden by an explicit sensitive kwarg (spec §4.2 "inherit
// sensitivity from the input value").
func JSON(_ context.Context, rc *Context, args Args) (*value.Value, error) {
	arg := args.Get(0)
	if arg == nil {
		return nil, &herr.TypeCoercionError{Path: rc.Path, From: "missing", To: "string"}
	}

	text, err := scalarToString(arg, rc.Path)
	if err != nil {
		return nil, err
	}

	v, err := decodeJSON(text, rc.Path)
	if err != nil {
		return nil, &herr.ResolverError{Resolver: "json", Path: rc.Path, Cause: err}
	}

	v.Sensitive = v.Sensitive || arg.Sensitive

	return v, nil
}

// YAML implements the "yaml" resolver: "${yaml:TEXT}" parses TEXT as YAML,
// taking only its first document.
func YAML(_ context.Context, rc *Context, args Args) (*value.Value, error) {
	arg := args.Get(0)
	if arg == nil {
		return nil, &herr.TypeCoercionError{Path: rc.Path, From: "missing", To: "string"}
	}

	text, err := scalarToString(arg, rc.Path)
	if err != nil {
		return nil, err
	}

	v, err := decodeYAML(text, rc.Path)
	if err != nil {
		return nil, &herr.ResolverError{Resolver: "yaml", Path: rc.Path, Cause: err}
	}

	v.Sensitive = v.Sensitive || arg.Sensitive

	return v, nil
}

func decodeJSON(text, origin string) (*value.Value, error) {
	return value.LoadJSON([]byte(text), origin)
}

func decodeYAML(text, origin string) (*value.Value, error) {
	return value.LoadYAML([]byte(text), origin)
}
