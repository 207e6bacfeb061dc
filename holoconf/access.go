package holoconf

import (
	"context"
	"strconv"
	"strings"

	"github.com/rfestag/holoconf/engine"
	"github.com/rfestag/holoconf/herr"
	"github.com/rfestag/holoconf/value"
)

// Get resolves path, triggering lazy evaluation of any interpolation it or
// its ancestors reach (spec §4.5).
func (c *Config) Get(ctx context.Context, path string) (*value.Value, error) {
	return c.engine.Get(ctx, path)
}

// GetRaw returns the node at path without resolving it (spec §4.5
// "get_raw returns the node prior to resolution").
func (c *Config) GetRaw(path string) (*value.Value, error) {
	segs, err := engine.Segments(path)
	if err != nil {
		return nil, err
	}

	cur := c.root

	for _, seg := range segs {
		if cur == nil || cur.Kind != value.KindMapping {
			return nil, &herr.NotFoundError{Path: path}
		}

		next, ok := cur.Map.Get(seg.Key)
		if !ok {
			return nil, &herr.NotFoundError{Path: path}
		}

		cur = next

		if seg.HasIndex {
			if cur.Kind != value.KindSequence || seg.Index < 0 || seg.Index >= len(cur.Seq) {
				return nil, &herr.NotFoundError{Path: path}
			}

			cur = cur.Seq[seg.Index]
		}
	}

	return cur, nil
}

// Has reports whether a Value exists at path, without resolving it (spec
// §4.5).
func (c *Config) Has(path string) bool {
	_, err := c.GetRaw(path)

	return err == nil
}

// GetString resolves path and coerces the result to string: any scalar
// formats to its canonical textual form; collections and Bytes are
// rejected (spec §4.5 "get_string").
func (c *Config) GetString(ctx context.Context, path string) (string, error) {
	v, err := c.Get(ctx, path)
	if err != nil {
		return "", err
	}

	switch v.Kind {
	case value.KindString:
		return v.Str, nil
	case value.KindInt:
		return strconv.FormatInt(v.Int, 10), nil
	case value.KindFloat:
		return strconv.FormatFloat(v.Float, 'g', -1, 64), nil
	case value.KindBool:
		return strconv.FormatBool(v.Bool), nil
	case value.KindNull:
		return "", nil
	default:
		return "", &herr.TypeCoercionError{Path: path, From: v.Kind.String(), To: "string"}
	}
}

// GetInt resolves path and coerces the result to int64: accepts Integer,
// or a String that parses as a signed integer; rejects Float, Bool, and
// non-numeric strings (spec §4.5 "get_int").
func (c *Config) GetInt(ctx context.Context, path string) (int64, error) {
	v, err := c.Get(ctx, path)
	if err != nil {
		return 0, err
	}

	switch v.Kind {
	case value.KindInt:
		return v.Int, nil
	case value.KindString:
		n, perr := strconv.ParseInt(strings.TrimSpace(v.Str), 10, 64)
		if perr != nil {
			return 0, &herr.TypeCoercionError{Path: path, From: "string", To: "integer"}
		}

		return n, nil
	default:
		return 0, &herr.TypeCoercionError{Path: path, From: v.Kind.String(), To: "integer"}
	}
}

// GetFloat resolves path and coerces the result to float64: accepts Float
// or Integer (widening), or a parseable String (spec §4.5 "get_float").
func (c *Config) GetFloat(ctx context.Context, path string) (float64, error) {
	v, err := c.Get(ctx, path)
	if err != nil {
		return 0, err
	}

	switch v.Kind {
	case value.KindFloat:
		return v.Float, nil
	case value.KindInt:
		return float64(v.Int), nil
	case value.KindString:
		f, perr := strconv.ParseFloat(strings.TrimSpace(v.Str), 64)
		if perr != nil {
			return 0, &herr.TypeCoercionError{Path: path, From: "string", To: "float"}
		}

		return f, nil
	default:
		return 0, &herr.TypeCoercionError{Path: path, From: v.Kind.String(), To: "float"}
	}
}

// GetBool resolves path and coerces the result to bool: accepts Bool, or a
// String strictly equal case-insensitively to "true"/"false"; nothing else
// coerces (spec §4.5 "get_bool").
func (c *Config) GetBool(ctx context.Context, path string) (bool, error) {
	v, err := c.Get(ctx, path)
	if err != nil {
		return false, err
	}

	switch v.Kind {
	case value.KindBool:
		return v.Bool, nil
	case value.KindString:
		switch strings.ToLower(v.Str) {
		case "true":
			return true, nil
		case "false":
			return false, nil
		default:
			return false, &herr.TypeCoercionError{Path: path, From: "string", To: "bool"}
		}
	default:
		return false, &herr.TypeCoercionError{Path: path, From: v.Kind.String(), To: "bool"}
	}
}
