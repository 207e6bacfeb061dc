// Package serialize renders a [value.Value] tree to YAML, JSON, or plain
// Go values, independently along two axes (spec §4.6): whether sensitive
// nodes are redacted, and Bytes nodes base64-encoded for textual formats.
// Both YAML and JSON preserve Mapping insertion order. YAML output uses
// github.com/goccy/go-yaml (the teacher's own dependency, reused for
// marshaling where the teacher uses it for parsing); JSON output walks the
// same ordered shape by hand, using standard library encoding/json
// (mirroring the teacher's own use of stdlib JSON in
// magicschema/helpers.go) only to marshal individual scalar leaves.
package serialize

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"

	yaml "github.com/goccy/go-yaml"

	"github.com/rfestag/holoconf/value"
)

// Redacted is the placeholder substituted for a Sensitive node's content
// when redaction is requested.
const Redacted = "[REDACTED]"

// Options controls how a tree is rendered.
type Options struct {
	// Redact replaces the content of any Sensitive node with [Redacted].
	Redact bool
}

// Native converts v to plain Go values (map[string]any, []any, and
// scalars) suitable for JSON marshaling, applying opts along the way.
// Bytes nodes become base64-encoded strings, since JSON has no native
// binary scalar. Mapping order is not preserved here, since map[string]any
// has none; use [Ordered] where order must survive (YAML output).
func Native(v *value.Value, opts Options) any {
	if v == nil {
		return nil
	}

	if opts.Redact && v.Sensitive {
		return Redacted
	}

	switch v.Kind {
	case value.KindBytes:
		return base64.StdEncoding.EncodeToString(v.Bytes)
	case value.KindSequence:
		out := make([]any, len(v.Seq))
		for i, e := range v.Seq {
			out[i] = Native(e, opts)
		}

		return out
	case value.KindMapping:
		out := make(map[string]any, v.Map.Len())
		for _, k := range v.Map.Keys() {
			child, _ := v.Map.Get(k)
			out[k] = Native(child, opts)
		}

		return out
	default:
		return v.Native()
	}
}

// Ordered converts v the same way [Native] does, except Mapping nodes
// become a yaml.MapSlice instead of a map[string]any so that insertion
// order survives encoding (spec §3 invariant 1, §4.6 "key order is
// preserved on export").
func Ordered(v *value.Value, opts Options) any {
	if v == nil {
		return nil
	}

	if opts.Redact && v.Sensitive {
		return Redacted
	}

	switch v.Kind {
	case value.KindBytes:
		return base64.StdEncoding.EncodeToString(v.Bytes)
	case value.KindSequence:
		out := make([]any, len(v.Seq))
		for i, e := range v.Seq {
			out[i] = Ordered(e, opts)
		}

		return out
	case value.KindMapping:
		out := make(yaml.MapSlice, 0, v.Map.Len())
		for _, k := range v.Map.Keys() {
			child, _ := v.Map.Get(k)
			out = append(out, yaml.MapItem{Key: k, Value: Ordered(child, opts)})
		}

		return out
	default:
		return v.Native()
	}
}

// JSON renders v as indented JSON, preserving Mapping insertion order (spec
// §4.6 "YAML and JSON emitters preserve Mapping insertion order"; spec §3
// invariant 1). encoding/json always sorts map[string]any keys, so this
// walks the same yaml.MapSlice shape [Ordered] builds and writes object
// members in that order itself, delegating only scalar leaves to
// encoding/json for correct escaping and number formatting.
func JSON(v *value.Value, opts Options) ([]byte, error) {
	var buf bytes.Buffer

	if err := encodeOrderedJSON(&buf, Ordered(v, opts), "", "  "); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func encodeOrderedJSON(buf *bytes.Buffer, v any, prefix, indent string) error {
	switch val := v.(type) {
	case yaml.MapSlice:
		return encodeOrderedJSONMap(buf, val, prefix, indent)
	case []any:
		return encodeOrderedJSONArray(buf, val, prefix, indent)
	default:
		b, err := json.Marshal(val)
		if err != nil {
			return err
		}

		buf.Write(b)

		return nil
	}
}

func encodeOrderedJSONMap(buf *bytes.Buffer, m yaml.MapSlice, prefix, indent string) error {
	if len(m) == 0 {
		buf.WriteString("{}")

		return nil
	}

	childPrefix := prefix + indent

	buf.WriteString("{\n")

	for i, item := range m {
		buf.WriteString(childPrefix)

		key, ok := item.Key.(string)
		if !ok {
			key = fmt.Sprint(item.Key)
		}

		keyBytes, err := json.Marshal(key)
		if err != nil {
			return err
		}

		buf.Write(keyBytes)
		buf.WriteString(": ")

		if err := encodeOrderedJSON(buf, item.Value, childPrefix, indent); err != nil {
			return err
		}

		if i < len(m)-1 {
			buf.WriteByte(',')
		}

		buf.WriteByte('\n')
	}

	buf.WriteString(prefix)
	buf.WriteByte('}')

	return nil
}

func encodeOrderedJSONArray(buf *bytes.Buffer, arr []any, prefix, indent string) error {
	if len(arr) == 0 {
		buf.WriteString("[]")

		return nil
	}

	childPrefix := prefix + indent

	buf.WriteString("[\n")

	for i, e := range arr {
		buf.WriteString(childPrefix)

		if err := encodeOrderedJSON(buf, e, childPrefix, indent); err != nil {
			return err
		}

		if i < len(arr)-1 {
			buf.WriteByte(',')
		}

		buf.WriteByte('\n')
	}

	buf.WriteString(prefix)
	buf.WriteByte(']')

	return nil
}

// YAML renders v as YAML, preserving mapping key order via [Ordered].
func YAML(v *value.Value, opts Options) ([]byte, error) {
	return yaml.Marshal(Ordered(v, opts))
}
