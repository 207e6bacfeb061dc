// Package schema validates a holoconf tree against a JSON Schema document,
// in two modes (spec §4.7): structural validation of the raw, pre-
// resolution tree (where unresolved interpolation strings are checked as
// the literal strings they are, so they satisfy string-typed constraints
// but not number, boolean or integer ones; see [ValidateRaw]), and typed
// validation of
// the fully resolved tree (full JSON Schema semantics, no exceptions).
//
// Both modes reuse github.com/google/jsonschema-go, the same schema
// library the teacher depends on for schema *generation*
// (magicschema.Generator.Generate); here it is used for the complementary
// operation, validation.
package schema

import (
	"context"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"

	"github.com/rfestag/holoconf/herr"
	"github.com/rfestag/holoconf/serialize"
	"github.com/rfestag/holoconf/value"
)

// Compile resolves raw into a [*jsonschema.Resolved], the form
// [Validate]/[ValidateRaw] require. Compilation happens once per schema;
// callers validating many trees against the same schema should cache the
// result.
func Compile(raw *jsonschema.Schema) (*jsonschema.Resolved, error) {
	resolved, err := raw.Resolve(nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", herr.ErrValidation, err)
	}

	return resolved, nil
}

// Validate checks the fully resolved instance against schema with full
// JSON Schema semantics (spec §4.7(b) "typed validation"). Callers
// normally pass the result of a prior engine.ResolveAll.
func Validate(schema *jsonschema.Resolved, instance *value.Value) error {
	native := serialize.Native(instance, serialize.Options{})

	if err := schema.Validate(native); err != nil {
		return &herr.ValidationError{Errors: flatten(err)}
	}

	return nil
}

// flatten walks a validation error's Unwrap() []error chain (the Go 1.20
// multi-wrap idiom jsonschema-go's own ValidationError uses to report
// every failed constraint, not just the first) into one message per leaf
// cause.
func flatten(err error) []string {
	if err == nil {
		return nil
	}

	if u, ok := err.(interface{ Unwrap() []error }); ok {
		var out []string

		for _, e := range u.Unwrap() {
			out = append(out, flatten(e)...)
		}

		return out
	}

	return []string{err.Error()}
}

// ValidateRaw checks the raw, pre-resolution tree against schema (spec
// §4.7(a) "structural validation"). Shape constraints — Required,
// AdditionalProperties, MinItems/MaxItems, and so on — are enforced
// exactly as in [Validate], since an unresolved Call still occupies its
// key or array slot. An unresolved interpolation string is left as the
// literal "${...}" text rather than coerced to its eventual resolved
// type, so schemas that constrain an interpolated field with "type:
// string" (the common case, since a Call's result is substituted into a
// YAML string scalar before resolution) validate cleanly; a schema that
// instead types that field as number/boolean/integer will reject the
// unresolved placeholder here and only validate once the value has been
// resolved, via [Validate].
func ValidateRaw(schema *jsonschema.Resolved, instance *value.Value) error {
	native := serialize.Native(instance, serialize.Options{})

	if err := schema.Validate(native); err != nil {
		return &herr.ValidationError{Errors: flatten(err)}
	}

	return nil
}

// ValidateCollect runs fn (either [Validate] or [ValidateRaw]) against
// every tree in instances, aggregating every failure into a single
// *herr.ValidationError rather than stopping at the first (spec §4.7(c)
// "validate_collect aggregates all violations").
func ValidateCollect(
	_ context.Context,
	schema *jsonschema.Resolved,
	instances []*value.Value,
	fn func(*jsonschema.Resolved, *value.Value) error,
) error {
	var errs []string

	for i, inst := range instances {
		if err := fn(schema, inst); err != nil {
			errs = append(errs, fmt.Sprintf("instance %d: %s", i, err))
		}
	}

	if len(errs) == 0 {
		return nil
	}

	return &herr.ValidationError{Errors: errs}
}
