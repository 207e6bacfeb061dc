// Package merge implements holoconf's deep-merge algebra over raw (pre-
// resolution) [value.Value] trees (spec §4.4).
package merge

import "github.com/rfestag/holoconf/value"

// Merge folds trees left to right: each tree overlays the accumulated
// result of the ones before it. With zero trees it returns Null; with one,
// a clone of it.
func Merge(trees ...*value.Value) *value.Value {
	if len(trees) == 0 {
		return value.Null("")
	}

	acc := trees[0].Clone()
	for _, overlay := range trees[1:] {
		acc = mergeOne(acc, overlay)
	}

	return acc
}

// mergeOne merges overlay onto base (spec §4.4):
//   - both Mappings: recurse key by key, preserving base's key order and
//     appending overlay-only keys at the end;
//   - a key present in overlay with a Null value deletes that key from
//     the result;
//   - anything else: overlay replaces base wholesale (this includes
//     Sequences — arrays are never concatenated, only replaced).
//
// The merged node's Origin is overlay's, reflecting "most recent write
// wins" provenance.
func mergeOne(base, overlay *value.Value) *value.Value {
	if overlay == nil {
		return base
	}

	if base == nil || base.Kind != value.KindMapping || overlay.Kind != value.KindMapping {
		return overlay.Clone()
	}

	out := value.NewMapping(overlay.Origin)

	for _, k := range base.Map.Keys() {
		v, _ := base.Map.Get(k)
		out.Map.Set(k, v)
	}

	for _, k := range overlay.Map.Keys() {
		ov, _ := overlay.Map.Get(k)

		if ov.Kind == value.KindNull {
			out.Map.Delete(k)

			continue
		}

		if bv, ok := out.Map.Get(k); ok {
			out.Map.Set(k, mergeOne(bv, ov))

			continue
		}

		out.Map.Set(k, ov.Clone())
	}

	return out
}
