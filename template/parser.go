package template

import (
	"strings"
	"unicode"
)

// Parse compiles raw into a [Template] (spec §4.1). It is a hand-written
// recursive-descent scanner rather than a regular expression: the grammar
// requires tracking brace depth across nested "${...}" expressions inside
// argument values, which a single regex cannot express.
func Parse(raw string) (Template, error) {
	p := &parser{src: []rune(raw), raw: raw}

	segs, _, err := p.parseSegments(false)
	if err != nil {
		return nil, err
	}

	return Template(segs), nil
}

type parser struct {
	raw string
	src []rune
	pos int
}

func (p *parser) peek() rune {
	if p.pos >= len(p.src) {
		return 0
	}

	return p.src[p.pos]
}

func (p *parser) peekAt(i int) rune {
	if i >= len(p.src) {
		return 0
	}

	return p.src[i]
}

func (p *parser) atEOF() bool { return p.pos >= len(p.src) }

func (p *parser) errorf(msg string) *ParseError {
	return &ParseError{Raw: p.raw, Message: msg, Column: p.pos + 1}
}

func (p *parser) expect(r rune) error {
	if p.peek() != r {
		if p.atEOF() {
			return p.errorf("unexpected end of input, expected '" + string(r) + "' (mismatched ${)")
		}

		return p.errorf("expected '" + string(r) + "'")
	}

	p.pos++

	return nil
}

// parseSegments scans literal text and Call segments until EOF (inArgs ==
// false) or an unescaped ',' or '}' at the current nesting level (inArgs ==
// true); in the latter case the terminator rune is returned but not
// consumed.
func (p *parser) parseSegments(inArgs bool) ([]Segment, rune, error) {
	var (
		segs []Segment
		lit  strings.Builder
	)

	flush := func() {
		if lit.Len() > 0 {
			segs = append(segs, Segment{Literal: lit.String()})
			lit.Reset()
		}
	}

	for {
		if p.atEOF() {
			if inArgs {
				return nil, 0, p.errorf("unexpected end of input, unmatched ${")
			}

			flush()

			return segs, 0, nil
		}

		r := p.peek()

		switch {
		case r == '\\' && p.peekAt(p.pos+1) == '$' && p.peekAt(p.pos+2) == '{':
			lit.WriteString("${")
			p.pos += 3

		case r == '\\' && p.peekAt(p.pos+1) == '\\':
			lit.WriteByte('\\')
			p.pos += 2

		case r == '\\':
			lit.WriteRune('\\')
			p.pos++

		case r == '$' && p.peekAt(p.pos+1) == '{':
			flush()
			p.pos += 2

			call, err := p.parseCall()
			if err != nil {
				return nil, 0, err
			}

			segs = append(segs, Segment{IsCall: true, Call: call})

		case inArgs && (r == ',' || r == '}'):
			flush()

			return segs, r, nil

		default:
			lit.WriteRune(r)
			p.pos++
		}
	}
}

// parseCall parses one EXPR, with the leading "${" already consumed. It
// consumes the matching closing "}" before returning.
func (p *parser) parseCall() (*Call, error) {
	if p.peek() == '}' {
		return nil, p.errorf("empty interpolation expression")
	}

	dotStart := p.pos
	for p.peek() == '.' {
		p.pos++
	}

	dots := p.pos - dotStart

	ident := p.scanIdent()

	if dots == 0 && ident != "" && p.peek() == ':' {
		p.pos++

		args, err := p.parseArgs()
		if err != nil {
			return nil, err
		}

		if err := p.expect('}'); err != nil {
			return nil, err
		}

		return &Call{
			Resolver:     ident,
			Positional:   args.positional,
			Keyword:      args.keyword,
			KeywordOrder: args.order,
			HasDefault:   args.hasDefault,
		}, nil
	}

	return p.parseBarePath(dots, ident)
}

// parseBarePath parses the self-reference shorthand (spec §4.1 shape 1),
// given the leading dot count and first identifier already scanned.
func (p *parser) parseBarePath(dots int, ident string) (*Call, error) {
	if ident == "" {
		return nil, p.errorf("invalid path expression")
	}

	var path strings.Builder

	path.WriteString(strings.Repeat(".", dots))
	path.WriteString(ident)

pathLoop:
	for {
		switch p.peek() {
		case '.':
			p.pos++

			start := p.pos
			seg := p.scanIdent()

			if seg == "" {
				p.pos = start

				return nil, p.errorf("expected identifier after '.'")
			}

			path.WriteByte('.')
			path.WriteString(seg)

		case '[':
			p.pos++

			start := p.pos
			for unicode.IsDigit(p.peek()) {
				p.pos++
			}

			if p.pos == start {
				return nil, p.errorf("expected integer array index")
			}

			idx := string(p.src[start:p.pos])

			if err := p.expect(']'); err != nil {
				return nil, err
			}

			path.WriteByte('[')
			path.WriteString(idx)
			path.WriteByte(']')

		default:
			break pathLoop
		}
	}

	call := &Call{
		Resolver:   "ref",
		Positional: []Template{{{Literal: path.String()}}},
		Keyword:    map[string]Template{},
	}

	if p.peek() == ',' {
		p.pos++

		args, err := p.parseArgs()
		if err != nil {
			return nil, err
		}

		if len(args.positional) > 0 {
			return nil, p.errorf("bare path reference does not accept positional arguments")
		}

		for _, k := range args.order {
			call.KeywordOrder = append(call.KeywordOrder, k)
			call.Keyword[k] = args.keyword[k]
		}

		call.HasDefault = args.hasDefault
	}

	if err := p.expect('}'); err != nil {
		return nil, err
	}

	return call, nil
}

type argList struct {
	keyword    map[string]Template
	positional []Template
	order      []string
	hasDefault bool
}

// parseArgs parses a comma-separated argument list up to (but not
// including) the call's closing '}'. Positional arguments after a keyword
// argument are a parse error (spec §4.1).
func (p *parser) parseArgs() (argList, error) {
	result := argList{keyword: map[string]Template{}}

	if p.peek() == '}' {
		return result, nil
	}

	seenKeyword := false

	for {
		key, isKeyword, err := p.tryKeywordName()
		if err != nil {
			return result, err
		}

		if isKeyword {
			seenKeyword = true

			segs, _, err := p.parseSegments(true)
			if err != nil {
				return result, err
			}

			if _, exists := result.keyword[key]; !exists {
				result.order = append(result.order, key)
			}

			result.keyword[key] = Template(segs)
			if key == "default" {
				result.hasDefault = true
			}
		} else {
			if seenKeyword {
				return result, p.errorf("positional argument after keyword argument")
			}

			segs, _, err := p.parseSegments(true)
			if err != nil {
				return result, err
			}

			result.positional = append(result.positional, Template(segs))
		}

		if p.peek() == ',' {
			p.pos++

			continue
		}

		break
	}

	return result, nil
}

// tryKeywordName looks ahead from the current position for "IDENT=" with
// no intervening whitespace. It never leaves p.pos advanced when it
// reports isKeyword == false. Whitespace before the identifier or between
// the identifier and '=' is a parse error rather than silently falling
// back to positional (spec §4.1 "leading/trailing whitespace around
// keyword argument names is rejected").
func (p *parser) tryKeywordName() (key string, isKeyword bool, err error) {
	start := p.pos
	for start < len(p.src) && (p.src[start] == ' ' || p.src[start] == '\t') {
		start++
	}

	end := start
	for end < len(p.src) && isIdentCont(p.src[end]) {
		end++
	}

	if end == start {
		return "", false, nil
	}

	if end < len(p.src) && p.src[end] == '=' {
		if start > p.pos {
			return "", false, p.errorf("whitespace not allowed around keyword argument name")
		}

		p.pos = end + 1

		return string(p.src[start:end]), true, nil
	}

	j := end
	for j < len(p.src) && (p.src[j] == ' ' || p.src[j] == '\t') {
		j++
	}

	if j > end && j < len(p.src) && p.src[j] == '=' {
		p.pos = j

		return "", false, p.errorf("whitespace not allowed around keyword argument name")
	}

	return "", false, nil
}

func (p *parser) scanIdent() string {
	if !isIdentStart(p.peek()) {
		return ""
	}

	start := p.pos
	p.pos++

	for isIdentCont(p.peek()) {
		p.pos++
	}

	return string(p.src[start:p.pos])
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentCont(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
