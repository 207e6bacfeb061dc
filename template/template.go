// Package template implements holoconf's interpolation grammar: parsing a
// scalar string's "${...}" expressions into a [Template] of literal and
// [Call] segments (spec §4.1), ready for lazy evaluation by package engine.
package template

import "fmt"

// Template is the parsed form of a scalar string: an ordered list of
// literal-text and Call segments.
type Template []Segment

// Segment is either a literal string or a Call. Exactly one of Literal's
// zero value and IsCall distinguishes the two; callers should use IsCall.
type Segment struct {
	Call    *Call
	Literal string
	IsCall  bool
}

// Call is one "${...}" expression: a resolver name, its already-templated
// positional and keyword arguments, and whether a "default" kwarg was
// supplied (spec §3 "Call: a 4-tuple").
type Call struct {
	Keyword      map[string]Template
	Resolver     string
	Positional   []Template
	KeywordOrder []string
	HasDefault   bool
}

// Literal reports whether t is a single literal segment with no calls, and
// returns its text. Used by the engine to avoid resolver dispatch entirely
// for plain scalars that happen to have been run through Parse.
func (t Template) Literal() (string, bool) {
	if len(t) == 0 {
		return "", true
	}

	if len(t) == 1 && !t[0].IsCall {
		return t[0].Literal, true
	}

	return "", false
}

// SingleCall reports whether t consists of exactly one Call segment with no
// surrounding literal text, and returns it. Spec §4.3(b): "If the template
// consists of a single Call segment ... the Call's value is used verbatim".
func (t Template) SingleCall() (*Call, bool) {
	if len(t) == 1 && t[0].IsCall {
		return t[0].Call, true
	}

	return nil, false
}

// ParseError reports a malformed interpolation template, with the rune
// column (1-based) at which the problem was detected (spec §7 "Parse...
// carries line/column when available"; templates are single-line scalars,
// so only a column is meaningful).
type ParseError struct {
	Raw     string
	Message string
	Column  int
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("interpolation parse error at column %d: %s (in %q)", e.Column, e.Message, e.Raw)
}
