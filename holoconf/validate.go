package holoconf

import (
	"context"

	"github.com/google/jsonschema-go/jsonschema"

	"github.com/rfestag/holoconf/herr"
	"github.com/rfestag/holoconf/schema"
)

// ValidateRaw checks the tree's raw, pre-resolution shape against sch
// (spec §6 "validate_raw(schema)"; spec §4.7(a) "structural validation").
func (c *Config) ValidateRaw(sch *jsonschema.Resolved) error {
	return schema.ValidateRaw(sch, c.root)
}

// Validate resolves the whole tree and checks it against sch with full
// JSON Schema semantics, reporting only the first violation (spec §6
// "validate(schema)"; spec §4.7(b) "typed validation").
func (c *Config) Validate(ctx context.Context, sch *jsonschema.Resolved) error {
	resolved, err := c.engine.ResolveAll(ctx)
	if err != nil {
		return err
	}

	err = schema.Validate(sch, resolved)
	if err == nil {
		return nil
	}

	var ve *herr.ValidationError
	if errAs(err, &ve) && len(ve.Errors) > 1 {
		return &herr.ValidationError{Path: ve.Path, Errors: ve.Errors[:1]}
	}

	return err
}

// ValidateCollect is [Config.Validate], except every violation is
// reported rather than only the first (spec §6 "validate_collect(schema)";
// spec §4.7(c) "aggregates all violations").
func (c *Config) ValidateCollect(ctx context.Context, sch *jsonschema.Resolved) error {
	resolved, err := c.engine.ResolveAll(ctx)
	if err != nil {
		return err
	}

	return schema.Validate(sch, resolved)
}

func errAs(err error, target **herr.ValidationError) bool {
	ve, ok := err.(*herr.ValidationError)
	if ok {
		*target = ve
	}

	return ok
}
