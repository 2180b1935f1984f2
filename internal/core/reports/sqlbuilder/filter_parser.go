package sqlbuilder

import (
	"strings"
)

type tokenKind int

const (
	tokPredicate tokenKind = iota
	tokAnd
	tokOr
	tokOpen
	tokClose
)

type token struct {
	kind tokenKind
	text string
}

// ParseFilter parses a filter expression such as
//
//	(currency=USD&state!=ERRORED)|name~'John Doe'
//
// into a boolean tree. '&' binds tighter than '|'. The tree is returned as written;
// use Canonicalize (or CombineFilters) to get the deterministic form.
func ParseFilter(input string) (Node, error) {
	tokens, err := tokenize(input)
	if err != nil {
		return nil, err
	}
	if len(tokens) == 0 {
		return nil, filterError(input, "", "empty expression")
	}

	p := &filterParser{input: input, tokens: tokens}
	node, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if p.pos < len(p.tokens) {
		return nil, filterError(input, p.tokens[p.pos].text, "unexpected token")
	}
	return node, nil
}

func tokenize(input string) ([]token, error) {
	var tokens []token
	i := 0
	for i < len(input) {
		switch c := input[i]; c {
		case ' ', '\t', '\n', '\r':
			i++
		case '&':
			tokens = append(tokens, token{kind: tokAnd, text: "&"})
			i++
		case '|':
			tokens = append(tokens, token{kind: tokOr, text: "|"})
			i++
		case '(':
			tokens = append(tokens, token{kind: tokOpen, text: "("})
			i++
		case ')':
			tokens = append(tokens, token{kind: tokClose, text: ")"})
			i++
		default:
			start := i
			quoted := false
		scan:
			for i < len(input) {
				switch input[i] {
				case '\'':
					quoted = !quoted
				case '&', '|', '(', ')':
					if !quoted {
						break scan
					}
				}
				i++
			}
			if quoted {
				return nil, filterError(input, input[start:], "unterminated quote")
			}
			tokens = append(tokens, token{kind: tokPredicate, text: strings.TrimSpace(input[start:i])})
		}
	}
	return tokens, nil
}

type filterParser struct {
	input  string
	tokens []token
	pos    int
}

func (p *filterParser) peek(kind tokenKind) bool {
	return p.pos < len(p.tokens) && p.tokens[p.pos].kind == kind
}

func (p *filterParser) parseOr() (Node, error) {
	first, err := p.parseAnd()
	if err != nil {
		return nil, err
	}

	children := []Node{first}
	for p.peek(tokOr) {
		p.pos++
		next, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		children = append(children, next)
	}

	if len(children) == 1 {
		return first, nil
	}
	return Or{Children: children}, nil
}

func (p *filterParser) parseAnd() (Node, error) {
	first, err := p.parseFactor()
	if err != nil {
		return nil, err
	}

	children := []Node{first}
	for p.peek(tokAnd) {
		p.pos++
		next, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		children = append(children, next)
	}

	if len(children) == 1 {
		return first, nil
	}
	return And{Children: children}, nil
}

func (p *filterParser) parseFactor() (Node, error) {
	if p.pos >= len(p.tokens) {
		return nil, filterError(p.input, "", "unexpected end of expression")
	}

	tok := p.tokens[p.pos]
	switch tok.kind {
	case tokOpen:
		p.pos++
		node, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if !p.peek(tokClose) {
			return nil, filterError(p.input, "(", "missing closing parenthesis")
		}
		p.pos++
		return node, nil

	case tokPredicate:
		p.pos++
		return parsePredicate(p.input, tok.text)

	default:
		return nil, filterError(p.input, tok.text, "unexpected token")
	}
}

// operatorChars may not start an unquoted value, so "<>" is not read as "<" followed by ">..."
const operatorChars = "=!~<>"

func parsePredicate(input, text string) (Predicate, error) {
	idx := strings.IndexAny(text, operatorChars)
	if idx < 0 {
		return Predicate{}, filterError(input, text, "missing operator")
	}

	column := strings.TrimSpace(text[:idx])
	if column == "" {
		return Predicate{}, filterError(input, text, "missing column")
	}
	if !IsIdentifier(column) {
		return Predicate{}, filterError(input, column, "invalid column name")
	}

	rest := text[idx:]
	var op Operator
	for _, candidate := range operators {
		if strings.HasPrefix(rest, string(candidate)) {
			op = candidate
			break
		}
	}
	if op == "" {
		return Predicate{}, filterError(input, rest[:1], "unknown operator")
	}

	raw := strings.TrimSpace(rest[len(op):])
	if raw != "" && strings.ContainsRune(operatorChars, rune(raw[0])) {
		return Predicate{}, filterError(input, string(op)+raw[:1], "unknown operator")
	}
	value, quoted := unquote(raw)
	if value == "" && !quoted {
		return Predicate{}, filterError(input, text, "missing value")
	}

	return Predicate{Column: column, Operator: op, Value: value}, nil
}

func unquote(value string) (string, bool) {
	if len(value) >= 2 && value[0] == '\'' && value[len(value)-1] == '\'' {
		return strings.ReplaceAll(value[1:len(value)-1], "''", "'"), true
	}
	return value, false
}
