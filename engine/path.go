package engine

import (
	"strconv"
	"strings"

	"github.com/rfestag/holoconf/herr"
)

// Canonicalize resolves relPath against fromPath, the canonical path of the
// node containing the reference (spec §4.3(a) "normalizes leading dots
// against a caller-supplied context path").
//
// relPath with no leading dot is already absolute and returned unchanged.
// Each leading dot pops one segment off fromPath before the remainder of
// relPath (if any) is appended; a relPath with more leading dots than
// fromPath has segments is a parse error (spec §9 Open Question 3).
func Canonicalize(fromPath, relPath string) (string, error) {
	if relPath == "" || relPath[0] != '.' {
		return relPath, nil
	}

	dots := 0
	for dots < len(relPath) && relPath[dots] == '.' {
		dots++
	}

	rest := relPath[dots:]

	base := splitPath(fromPath)
	if dots > len(base) {
		return "", &herr.ParseError{
			Path:    fromPath,
			Raw:     relPath,
			Message: "relative path has more leading dots than the current depth",
		}
	}

	base = base[:len(base)-dots]

	if rest == "" {
		return strings.Join(base, "."), nil
	}

	return strings.Join(append(base, splitPath(rest)...), "."), nil
}

func splitPath(p string) []string {
	if p == "" {
		return nil
	}

	return strings.Split(p, ".")
}

// Segment is one step of a canonical path: a mapping key, optionally
// followed by a sequence index (e.g. "servers[0]" is Key:"servers",
// HasIndex:true, Index:0).
type Segment struct {
	Key      string
	Index    int
	HasIndex bool
}

// Segments splits a canonical path into its traversal steps.
func Segments(path string) ([]Segment, error) {
	parts := splitPath(path)
	segs := make([]Segment, 0, len(parts))

	for _, part := range parts {
		key := part
		idx := -1
		hasIdx := false

		if i := strings.IndexByte(part, '['); i >= 0 {
			if !strings.HasSuffix(part, "]") {
				return nil, &herr.ParseError{Raw: path, Message: "malformed array index in path"}
			}

			key = part[:i]

			n, err := strconv.Atoi(part[i+1 : len(part)-1])
			if err != nil {
				return nil, &herr.ParseError{Raw: path, Message: "non-integer array index in path"}
			}

			idx, hasIdx = n, true
		}

		segs = append(segs, Segment{Key: key, Index: idx, HasIndex: hasIdx})
	}

	return segs, nil
}
