package holoconf

import (
	"context"

	"github.com/rfestag/holoconf/serialize"
	"github.com/rfestag/holoconf/value"
)

// ExportOptions controls a tree export (spec §4.6): whether interpolations
// are resolved first, and whether Sensitive nodes are redacted.
type ExportOptions struct {
	Resolve bool
	Redact  bool
}

func (c *Config) tree(ctx context.Context, resolve bool) (*value.Value, error) {
	if !resolve {
		return c.root, nil
	}

	return c.engine.ResolveAll(ctx)
}

// ToDict exports the tree as plain Go values (spec §6 "to_dict").
func (c *Config) ToDict(ctx context.Context, opts ExportOptions) (any, error) {
	tree, err := c.tree(ctx, opts.Resolve)
	if err != nil {
		return nil, err
	}

	return serialize.Native(tree, serialize.Options{Redact: opts.Redact}), nil
}

// ToYAML exports the tree as YAML, preserving mapping key order (spec §6
// "to_yaml"; spec §8 "to_yaml(resolve=false) -> loads yields a
// structurally equal tree").
func (c *Config) ToYAML(ctx context.Context, opts ExportOptions) ([]byte, error) {
	tree, err := c.tree(ctx, opts.Resolve)
	if err != nil {
		return nil, err
	}

	return serialize.YAML(tree, serialize.Options{Redact: opts.Redact})
}

// ToJSON exports the tree as indented JSON (spec §6 "to_json"; spec §8
// "leaves marked sensitive never emit their value as anything but
// [REDACTED]").
func (c *Config) ToJSON(ctx context.Context, opts ExportOptions) ([]byte, error) {
	tree, err := c.tree(ctx, opts.Resolve)
	if err != nil {
		return nil, err
	}

	return serialize.JSON(tree, serialize.Options{Redact: opts.Redact})
}
