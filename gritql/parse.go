package gritql

import (
	"fmt"
	"strings"
)

// parsePattern parses GritQL surface syntax: a bare node-kind identifier
// optionally followed by `where { ... }`, per spec.md §4.8.1. This is a
// small hand-written recursive-descent parser over the already-validated
// (balanced) source text, in the same spirit as the bespoke FSH parser.
func parsePattern(source string) (*Pattern, error) {
	src := strings.TrimSpace(source)
	vars := map[string]bool{}

	nodeName, rest := splitFirstToken(src)
	if nodeName == "" {
		return nil, fmt.Errorf("empty pattern")
	}

	rest = strings.TrimSpace(rest)
	if rest == "" {
		return &Pattern{NodeName: nodeName, Vars: vars}, nil
	}

	if !strings.HasPrefix(rest, "where") {
		return nil, fmt.Errorf("expected 'where' clause, got %q", rest)
	}
	rest = strings.TrimSpace(strings.TrimPrefix(rest, "where"))
	if !strings.HasPrefix(rest, "{") || !strings.HasSuffix(rest, "}") {
		return nil, fmt.Errorf("where clause must be wrapped in {}")
	}
	body := strings.TrimSpace(rest[1 : len(rest)-1])

	p := &tokenParser{input: body}
	expr, err := p.parseOr(vars)
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos != len(p.input) {
		return nil, fmt.Errorf("unexpected trailing input %q", p.input[p.pos:])
	}
	return &Pattern{NodeName: nodeName, Predicate: expr, Vars: vars}, nil
}

func splitFirstToken(s string) (string, string) {
	s = strings.TrimSpace(s)
	i := 0
	for i < len(s) && !isSpaceByte(s[i]) {
		i++
	}
	return s[:i], s[i:]
}

func isSpaceByte(b byte) bool { return b == ' ' || b == '\t' || b == '\n' || b == '\r' }

// tokenParser is a minimal recursive-descent parser over the `where{}`
// predicate body, implementing `or` (lowest precedence), then `and`, then
// `not`/atoms, per spec.md §4.8.1's listed operators.
type tokenParser struct {
	input string
	pos   int
}

func (p *tokenParser) skipSpace() {
	for p.pos < len(p.input) && isSpaceByte(p.input[p.pos]) {
		p.pos++
	}
}

func (p *tokenParser) peekWord(word string) bool {
	p.skipSpace()
	if strings.HasPrefix(p.input[p.pos:], word) {
		after := p.pos + len(word)
		if after == len(p.input) || isSpaceByte(p.input[after]) || p.input[after] == '(' {
			return true
		}
	}
	return false
}

func (p *tokenParser) consumeWord(word string) {
	p.skipSpace()
	p.pos += len(word)
}

func (p *tokenParser) parseOr(vars map[string]bool) (Expr, error) {
	left, err := p.parseAnd(vars)
	if err != nil {
		return nil, err
	}
	for {
		if p.peekWord("or") {
			p.consumeWord("or")
			right, err := p.parseAnd(vars)
			if err != nil {
				return nil, err
			}
			left = Or{Left: left, Right: right}
			continue
		}
		return left, nil
	}
}

func (p *tokenParser) parseAnd(vars map[string]bool) (Expr, error) {
	left, err := p.parseUnary(vars)
	if err != nil {
		return nil, err
	}
	for {
		if p.peekWord("and") {
			p.consumeWord("and")
			right, err := p.parseUnary(vars)
			if err != nil {
				return nil, err
			}
			left = And{Left: left, Right: right}
			continue
		}
		return left, nil
	}
}

func (p *tokenParser) parseUnary(vars map[string]bool) (Expr, error) {
	if p.peekWord("not") {
		p.consumeWord("not")
		inner, err := p.parseAtom(vars)
		if err != nil {
			return nil, err
		}
		return Not{Inner: inner}, nil
	}
	return p.parseAtom(vars)
}

func (p *tokenParser) parseAtom(vars map[string]bool) (Expr, error) {
	p.skipSpace()
	if p.pos < len(p.input) && p.input[p.pos] == '(' {
		p.pos++
		expr, err := p.parseOr(vars)
		if err != nil {
			return nil, err
		}
		p.skipSpace()
		if p.pos >= len(p.input) || p.input[p.pos] != ')' {
			return nil, fmt.Errorf("expected ')'")
		}
		p.pos++
		return expr, nil
	}

	term := p.readTerm()
	if term == "" {
		return nil, fmt.Errorf("expected predicate term")
	}
	if strings.HasPrefix(term, "$") {
		vars[term] = true
	}

	p.skipSpace()
	switch {
	case strings.HasPrefix(p.input[p.pos:], "=="):
		p.pos += 2
		val := p.readLiteral()
		return Equality{Field: term, Value: val}, nil
	case strings.HasPrefix(p.input[p.pos:], "<:"):
		p.pos += 2
		val := p.readLiteral()
		val = strings.TrimPrefix(val, "r")
		val = strings.Trim(val, "\"")
		return RegexMatch{Field: term, Pattern: val}, nil
	case p.peekWord("contains"):
		p.consumeWord("contains")
		val := p.readLiteral()
		return Contains{Field: term, Value: val}, nil
	case strings.HasPrefix(term, "(") || (strings.HasSuffix(term, ")") && !strings.Contains(term, "(")):
		return nil, fmt.Errorf("malformed function call %q", term)
	}

	if idx := strings.IndexByte(term, '('); idx >= 0 && strings.HasSuffix(term, ")") {
		name := term[:idx]
		argsRaw := term[idx+1 : len(term)-1]
		var args []string
		if strings.TrimSpace(argsRaw) != "" {
			for _, a := range strings.Split(argsRaw, ",") {
				a = strings.TrimSpace(a)
				if strings.HasPrefix(a, "$") {
					vars[a] = true
				}
				args = append(args, a)
			}
		}
		return FuncCall{Name: name, Args: args}, nil
	}

	return FieldExists{Field: term}, nil
}

// readTerm reads a bare identifier, $var, or func(...) call up to the next
// operator or whitespace-delimited keyword.
func (p *tokenParser) readTerm() string {
	p.skipSpace()
	start := p.pos
	depth := 0
	for p.pos < len(p.input) {
		c := p.input[p.pos]
		if c == '(' {
			depth++
		}
		if c == ')' {
			if depth == 0 {
				break
			}
			depth--
			p.pos++
			continue
		}
		if depth == 0 && (isSpaceByte(c) || c == '=' || c == '<') {
			break
		}
		p.pos++
	}
	return p.input[start:p.pos]
}

func (p *tokenParser) readLiteral() string {
	p.skipSpace()
	start := p.pos
	for p.pos < len(p.input) && !isSpaceByte(p.input[p.pos]) {
		p.pos++
	}
	lit := p.input[start:p.pos]
	return strings.Trim(lit, "\"")
}
