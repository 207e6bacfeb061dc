// Package value implements holoconf's in-memory configuration tree: a
// tagged union ([Value]) with an insertion-ordered mapping variant
// ([Mapping]), plus the out-of-band sensitivity and origin attributes that
// travel with every node through merge and serialization.
package value

import "fmt"

// Kind identifies which variant of [Value] is populated.
type Kind int

// Value kinds, one per tagged-union variant.
const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindSequence
	KindMapping
	KindBytes
)

// String returns the lowercase kind name, used in error messages.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "integer"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindSequence:
		return "sequence"
	case KindMapping:
		return "mapping"
	case KindBytes:
		return "bytes"
	}

	return "unknown"
}

// Value is a tagged union over the holoconf data model (spec §3). Exactly
// one of the Kind-specific fields is meaningful for a given Kind.
//
// Sensitive and Origin are out-of-band attributes carried on the node
// itself, not on the key that points to it. A Mapping or Sequence node may
// be marked Sensitive, in which case every descendant inherits it during
// resolution (see package engine).
type Value struct {
	Map       *Mapping
	Str       string
	Origin    string
	Bytes     []byte
	Seq       []*Value
	Float     float64
	Int       int64
	Kind      Kind
	Bool      bool
	Sensitive bool
}

// Null returns a Null value with the given origin.
func Null(origin string) *Value { return &Value{Kind: KindNull, Origin: origin} }

// NewBool returns a Bool value with the given origin.
func NewBool(b bool, origin string) *Value {
	return &Value{Kind: KindBool, Bool: b, Origin: origin}
}

// NewInt returns an Integer value with the given origin.
func NewInt(i int64, origin string) *Value {
	return &Value{Kind: KindInt, Int: i, Origin: origin}
}

// NewFloat returns a Float value with the given origin.
func NewFloat(f float64, origin string) *Value {
	return &Value{Kind: KindFloat, Float: f, Origin: origin}
}

// NewString returns a String value with the given origin.
func NewString(s, origin string) *Value {
	return &Value{Kind: KindString, Str: s, Origin: origin}
}

// NewBytes returns a Bytes value with the given origin.
func NewBytes(b []byte, origin string) *Value {
	return &Value{Kind: KindBytes, Bytes: b, Origin: origin}
}

// NewSequence returns a Sequence value wrapping elems.
func NewSequence(elems []*Value, origin string) *Value {
	return &Value{Kind: KindSequence, Seq: elems, Origin: origin}
}

// NewMapping returns a Mapping value wrapping an empty [Mapping].
func NewMapping(origin string) *Value {
	return &Value{Kind: KindMapping, Map: NewMappingTable(), Origin: origin}
}

// IsScalar reports whether v is Null, Bool, Integer, Float, or String.
func (v *Value) IsScalar() bool {
	switch v.Kind {
	case KindNull, KindBool, KindInt, KindFloat, KindString:
		return true
	default:
		return false
	}
}

// Clone returns a deep copy of v.
func (v *Value) Clone() *Value {
	if v == nil {
		return nil
	}

	out := &Value{
		Kind:      v.Kind,
		Bool:      v.Bool,
		Int:       v.Int,
		Float:     v.Float,
		Str:       v.Str,
		Origin:    v.Origin,
		Sensitive: v.Sensitive,
	}

	if v.Bytes != nil {
		out.Bytes = append([]byte(nil), v.Bytes...)
	}

	if v.Seq != nil {
		out.Seq = make([]*Value, len(v.Seq))
		for i, e := range v.Seq {
			out.Seq[i] = e.Clone()
		}
	}

	if v.Map != nil {
		out.Map = v.Map.Clone()
	}

	return out
}

// Native converts v into plain Go values (map[string]any, []any, string,
// int64, float64, bool, nil, []byte) suitable for JSON/YAML marshaling or
// for handing to language-binding layers (spec §4.2 "Resolver authors...").
func (v *Value) Native() any {
	if v == nil {
		return nil
	}

	switch v.Kind {
	case KindNull:
		return nil
	case KindBool:
		return v.Bool
	case KindInt:
		return v.Int
	case KindFloat:
		return v.Float
	case KindString:
		return v.Str
	case KindBytes:
		return v.Bytes
	case KindSequence:
		out := make([]any, len(v.Seq))
		for i, e := range v.Seq {
			out[i] = e.Native()
		}

		return out
	case KindMapping:
		out := make(map[string]any, v.Map.Len())
		for _, k := range v.Map.Keys() {
			val, _ := v.Map.Get(k)
			out[k] = val.Native()
		}

		return out
	default:
		return nil
	}
}

// String formats a scalar Value for diagnostics; it does not implement the
// façade's get_string coercion rules (see package holoconf).
func (v *Value) String() string {
	switch v.Kind {
	case KindNull:
		return "null"
	case KindBool:
		return fmt.Sprintf("%t", v.Bool)
	case KindInt:
		return fmt.Sprintf("%d", v.Int)
	case KindFloat:
		return fmt.Sprintf("%g", v.Float)
	case KindString:
		return v.Str
	case KindBytes:
		return fmt.Sprintf("<%d bytes>", len(v.Bytes))
	case KindSequence:
		return fmt.Sprintf("<sequence len=%d>", len(v.Seq))
	case KindMapping:
		return fmt.Sprintf("<mapping len=%d>", v.Map.Len())
	default:
		return "<unknown>"
	}
}
