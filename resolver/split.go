package resolver

import (
	"context"
	"strconv"
	"strings"

	"github.com/rfestag/holoconf/herr"
	"github.com/rfestag/holoconf/value"
)

// Split implements the "split" resolver: "${split:TEXT, delim=",",
// trim=true, skip_empty=false, limit?}" yields a Sequence of String values.
func Split(_ context.Context, rc *Context, args Args) (*value.Value, error) {
	arg := args.Get(0)
	if arg == nil {
		return nil, &herr.TypeCoercionError{Path: rc.Path, From: "missing", To: "string"}
	}

	text, err := scalarToString(arg, rc.Path)
	if err != nil {
		return nil, err
	}

	delim, ok, err := args.KwargString("delim", rc.Path)
	if err != nil {
		return nil, err
	}

	if !ok {
		delim = ","
	}

	trim, err := boolKwarg(args, "trim", true, rc.Path)
	if err != nil {
		return nil, err
	}

	skipEmpty, err := boolKwarg(args, "skip_empty", false, rc.Path)
	if err != nil {
		return nil, err
	}

	limit := -1

	if limitStr, ok, err := args.KwargString("limit", rc.Path); err != nil {
		return nil, err
	} else if ok {
		n, convErr := strconv.Atoi(limitStr)
		if convErr != nil {
			return nil, &herr.TypeCoercionError{Path: rc.Path, From: "string", To: "integer"}
		}

		limit = n + 1
	}

	if text == "" {
		return value.NewSequence(nil, rc.Path), nil
	}

	var parts []string
	if limit > 0 {
		parts = strings.SplitN(text, delim, limit)
	} else {
		parts = strings.Split(text, delim)
	}

	elems := make([]*value.Value, 0, len(parts))

	for _, p := range parts {
		if trim {
			p = strings.TrimSpace(p)
		}

		if skipEmpty && p == "" {
			continue
		}

		elems = append(elems, value.NewString(p, rc.Path))
	}

	seq := value.NewSequence(elems, rc.Path)
	seq.Sensitive = arg.Sensitive

	return seq, nil
}

func boolKwarg(args Args, name string, def bool, path string) (bool, error) {
	s, ok, err := args.KwargString(name, path)
	if err != nil {
		return false, err
	}

	if !ok {
		return def, nil
	}

	b, err := strconv.ParseBool(s)
	if err != nil {
		return false, &herr.TypeCoercionError{Path: path, From: "string", To: "bool"}
	}

	return b, nil
}
