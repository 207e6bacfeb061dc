// Package herr defines holoconf's structured error taxonomy. Each error
// type wraps one of the exported sentinels so callers can use either
// errors.Is against a sentinel for coarse-grained handling, or errors.As
// against the concrete type for the structured fields (path, column,
// resolver name) a CLI or caller might want to report.
package herr

import (
	"errors"
	"fmt"
)

// Sentinels for the error categories of spec.md §7. There is no separate
// I/O sentinel: failures to read a config or schema file wrap
// ErrPathNotFound, and failures inside the file and http resolvers wrap
// ErrResolver.
var (
	ErrParse             = errors.New("interpolation parse error")
	ErrPathNotFound      = errors.New("path not found")
	ErrCircularReference = errors.New("circular reference")
	ErrValidation        = errors.New("validation failed")
	ErrTypeCoercion      = errors.New("type coercion failed")
	ErrResolver          = errors.New("resolver error")
)

// ParseError reports a malformed path or interpolation expression.
type ParseError struct {
	Path    string
	Raw     string
	Message string
	Column  int
}

func (e *ParseError) Error() string {
	if e.Column > 0 {
		return fmt.Sprintf("%s: %s at column %d (in %q)", ErrParse, e.Message, e.Column, e.Raw)
	}

	return fmt.Sprintf("%s: %s", ErrParse, e.Message)
}

func (e *ParseError) Unwrap() error { return ErrParse }

// NotFoundError reports that a canonical path has no value in the tree.
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s: %q", ErrPathNotFound, e.Path)
}

func (e *NotFoundError) Unwrap() error { return ErrPathNotFound }

// ResolverError reports a failure from a named resolver, wrapping the
// resolver's own error as Cause.
type ResolverError struct {
	Resolver string
	Path     string
	Cause    error
}

func (e *ResolverError) Error() string {
	return fmt.Sprintf("%s %q (at %q): %v", ErrResolver, e.Resolver, e.Path, e.Cause)
}

func (e *ResolverError) Unwrap() []error { return []error{ErrResolver, e.Cause} }

// CircularReferenceError reports a cycle discovered during resolution. Stack
// is the call path from the root of the current resolution to Path, in
// resolution order.
type CircularReferenceError struct {
	Path  string
	Stack []string
}

func (e *CircularReferenceError) Error() string {
	return fmt.Sprintf("%s: %q (via %v)", ErrCircularReference, e.Path, e.Stack)
}

func (e *CircularReferenceError) Unwrap() error { return ErrCircularReference }

// ValidationError reports one or more schema validation failures. Errors
// holds one message per failed constraint; len(Errors) > 1 only when
// produced by a ValidateCollect-style aggregation.
type ValidationError struct {
	Path   string
	Errors []string
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("%s at %q: %s", ErrValidation, e.Path, e.Errors[0])
	}

	return fmt.Sprintf("%s at %q: %d errors (%v)", ErrValidation, e.Path, len(e.Errors), e.Errors)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// TypeCoercionError reports a failed conversion between the resolved Value
// kind and a requested Go type or schema type.
type TypeCoercionError struct {
	Path string
	From string
	To   string
}

func (e *TypeCoercionError) Error() string {
	return fmt.Sprintf("%s: %q is %s, want %s", ErrTypeCoercion, e.Path, e.From, e.To)
}

func (e *TypeCoercionError) Unwrap() error { return ErrTypeCoercion }
