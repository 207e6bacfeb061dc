package value

import (
	"fmt"

	"github.com/goccy/go-yaml/ast"
	"github.com/goccy/go-yaml/parser"
)

// LoadYAML parses a YAML document into a [Value] tree, grounded on
// magicschema/generator.go's walkNode/walkMapping/walkSequence AST walk and
// buildAnchorMap/resolveAliases anchor handling — the same traversal, aimed
// at building a data tree instead of inferring a JSON Schema from one.
//
// Duplicate mapping keys are rejected (spec §3 invariant 1). origin is
// stamped on every node produced from this document.
func LoadYAML(data []byte, origin string) (*Value, error) {
	file, err := parser.ParseBytes(data, parser.ParseComments)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", origin, err)
	}

	if len(file.Docs) == 0 || file.Docs[0].Body == nil {
		return Null(origin), nil
	}

	anchors := buildAnchorMap(file.Docs[0].Body)

	return walkNode(file.Docs[0].Body, origin, anchors)
}

// LoadJSON parses a JSON document into a [Value] tree. JSON is a strict
// subset of YAML, so the YAML loader's parser already accepts it (spec §6
// "YAML is used [for JSON] since it's a strict superset").
func LoadJSON(data []byte, origin string) (*Value, error) {
	return LoadYAML(data, origin)
}

func buildAnchorMap(node ast.Node) map[string]ast.Node {
	anchors := make(map[string]ast.Node)
	ast.Walk(&anchorVisitor{anchors: anchors}, node)

	return anchors
}

type anchorVisitor struct {
	anchors map[string]ast.Node
}

func (v *anchorVisitor) Visit(node ast.Node) ast.Visitor {
	if anchor, ok := node.(*ast.AnchorNode); ok {
		v.anchors[anchor.Name.String()] = anchor.Value
	}

	return v
}

func resolveAliases(node ast.Node, anchors map[string]ast.Node) ast.Node {
	alias, ok := node.(*ast.AliasNode)
	if !ok {
		return node
	}

	if resolved, found := anchors[alias.Value.String()]; found {
		return resolved
	}

	return node
}

func unwrapNode(node ast.Node) ast.Node {
	for {
		switch n := node.(type) {
		case *ast.TagNode:
			node = n.Value
		case *ast.AnchorNode:
			node = n.Value
		default:
			return node
		}
	}
}

func walkNode(node ast.Node, origin string, anchors map[string]ast.Node) (*Value, error) {
	node = unwrapNode(resolveAliases(node, anchors))
	if node == nil {
		return Null(origin), nil
	}

	switch n := node.(type) {
	case *ast.NullNode:
		return Null(origin), nil
	case *ast.BoolNode:
		return NewBool(n.Value, origin), nil
	case *ast.IntegerNode:
		return NewInt(toInt64(n.Value), origin), nil
	case *ast.FloatNode:
		return NewFloat(n.Value, origin), nil
	case *ast.InfinityNode:
		return NewFloat(n.Value, origin), nil
	case *ast.NanNode:
		return NewFloat(0, origin), nil
	case *ast.StringNode:
		return NewString(n.Value, origin), nil
	case *ast.LiteralNode:
		if n.Value == nil {
			return NewString("", origin), nil
		}

		return NewString(n.Value.Value, origin), nil
	case *ast.MappingNode:
		return walkMapping(n.Values, origin, anchors)
	case *ast.MappingValueNode:
		return walkMapping([]*ast.MappingValueNode{n}, origin, anchors)
	case *ast.SequenceNode:
		return walkSequence(n, origin, anchors)
	default:
		return NewString(node.String(), origin), nil
	}
}

func walkMapping(values []*ast.MappingValueNode, origin string, anchors map[string]ast.Node) (*Value, error) {
	m := NewMapping(origin)
	fromMerge := map[string]bool{}

	for _, mvn := range values {
		if _, ok := mvn.Key.(*ast.MergeKeyNode); ok {
			n := m.Map.Len()
			if err := mergeInto(m, mvn, origin, anchors); err != nil {
				return nil, err
			}

			for _, k := range m.Map.Keys()[n:] {
				fromMerge[k] = true
			}

			continue
		}

		key := mvn.Key.String()

		val, err := walkNode(mvn.Value, origin, anchors)
		if err != nil {
			return nil, err
		}

		if fromMerge[key] {
			delete(fromMerge, key)
			m.Map.Set(key, val)

			continue
		}

		if err := m.Map.SetUnique(key, val); err != nil {
			return nil, fmt.Errorf("%s: %w", origin, err)
		}
	}

	return m, nil
}

// mergeInto handles YAML's "<<" merge key by appending the merged mapping's
// keys that m does not already hold, after m's existing keys. Keys written
// explicitly in the mapping win over merged ones whether they come before
// or after the merge key (walkMapping overwrites a merged key in place),
// matching YAML merge key semantics.
func mergeInto(m *Value, mvn *ast.MappingValueNode, origin string, anchors map[string]ast.Node) error {
	source := unwrapNode(resolveAliases(mvn.Value, anchors))

	var sources []*ast.MappingNode

	switch mv := source.(type) {
	case *ast.MappingNode:
		sources = []*ast.MappingNode{mv}
	case *ast.SequenceNode:
		for _, elem := range mv.Values {
			resolved := unwrapNode(resolveAliases(elem, anchors))
			if mn, ok := resolved.(*ast.MappingNode); ok {
				sources = append(sources, mn)
			}
		}
	}

	for _, mn := range sources {
		merged, err := walkMapping(mn.Values, origin, anchors)
		if err != nil {
			return err
		}

		for _, k := range merged.Map.Keys() {
			if _, exists := m.Map.Get(k); exists {
				continue
			}

			v, _ := merged.Map.Get(k)
			m.Map.Set(k, v)
		}
	}

	return nil
}

func walkSequence(seq *ast.SequenceNode, origin string, anchors map[string]ast.Node) (*Value, error) {
	elems := make([]*Value, len(seq.Values))

	for i, e := range seq.Values {
		v, err := walkNode(e, origin, anchors)
		if err != nil {
			return nil, err
		}

		elems[i] = v
	}

	return NewSequence(elems, origin), nil
}

func toInt64(v any) int64 {
	switch n := v.(type) {
	case int64:
		return n
	case int:
		return int64(n)
	case uint64:
		return int64(n)
	default:
		return 0
	}
}
