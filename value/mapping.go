package value

import "fmt"

// Mapping is an insertion-ordered map from string key to *Value. Holoconf
// requires insertion order to survive merge and serialization (spec §3
// invariant 1, §4.4 "Ordering"), which rules out a plain Go map; Mapping
// pairs a slice of keys with an index for O(1) lookup, the same shape
// [jsonschema.Schema.PropertyOrder] plays alongside
// [jsonschema.Schema.Properties] in the teacher repository.
type Mapping struct {
	index map[string]int
	keys  []string
	vals  []*Value
}

// NewMappingTable returns an empty [Mapping].
func NewMappingTable() *Mapping {
	return &Mapping{index: make(map[string]int)}
}

// Len returns the number of entries.
func (m *Mapping) Len() int {
	if m == nil {
		return 0
	}

	return len(m.keys)
}

// Keys returns the keys in insertion order. The returned slice must not be
// mutated by the caller.
func (m *Mapping) Keys() []string {
	if m == nil {
		return nil
	}

	return m.keys
}

// Get returns the value for key and whether it was present.
func (m *Mapping) Get(key string) (*Value, bool) {
	if m == nil {
		return nil, false
	}

	i, ok := m.index[key]
	if !ok {
		return nil, false
	}

	return m.vals[i], true
}

// Set inserts or overwrites key with v. Overwriting an existing key keeps
// its original position (spec §4.4 "keys present in base retain their
// positions"); a new key is appended.
func (m *Mapping) Set(key string, v *Value) {
	if i, ok := m.index[key]; ok {
		m.vals[i] = v

		return
	}

	m.index[key] = len(m.keys)
	m.keys = append(m.keys, key)
	m.vals = append(m.vals, v)
}

// Delete removes key if present, compacting the order slice.
func (m *Mapping) Delete(key string) {
	i, ok := m.index[key]
	if !ok {
		return
	}

	m.keys = append(m.keys[:i], m.keys[i+1:]...)
	m.vals = append(m.vals[:i], m.vals[i+1:]...)
	delete(m.index, key)

	for k, idx := range m.index {
		if idx > i {
			m.index[k] = idx - 1
		}
	}
}

// SetUnique inserts key with v, returning an error if key is already
// present. Used by the YAML/JSON loader to enforce spec §3 invariant 1
// ("duplicate keys prohibited").
func (m *Mapping) SetUnique(key string, v *Value) error {
	if _, ok := m.index[key]; ok {
		return fmt.Errorf("duplicate key %q", key)
	}

	m.Set(key, v)

	return nil
}

// Clone returns a deep copy, preserving order.
func (m *Mapping) Clone() *Mapping {
	if m == nil {
		return nil
	}

	out := &Mapping{
		index: make(map[string]int, len(m.index)),
		keys:  append([]string(nil), m.keys...),
		vals:  make([]*Value, len(m.vals)),
	}

	for k, i := range m.index {
		out.index[k] = i
	}

	for i, v := range m.vals {
		out.vals[i] = v.Clone()
	}

	return out
}
