// SPDX-License-Identifier: Apache-2.0

// Package parser implements the filter engine's schema-aware
// recursive-descent front end: a hand-written parser (not a
// parser-combinator library) because the surface grammar requires exact
// single-character lookahead and a fixed longest-match operator table
// that a general combinator library does not make easy to pin down.
package parser

import (
	"strconv"
	"unicode"
	"unicode/utf8"

	"github.com/exprfilter/exprfilter/ast"
	"github.com/exprfilter/exprfilter/ferr"
	"github.com/exprfilter/exprfilter/schema"
	"github.com/exprfilter/exprfilter/value"
)

// operator is one entry in the longest-match operator table.
type operator struct {
	text string
	op   ast.CompareOp
}

// operatorTable is tried in order; earlier entries shadow shorter
// prefixes of later ones. "not in" must precede "in", "<="/">="/"=="/"!="
// must precede "<"/">"/"eq"/"ne", and "strict wildcard" must precede
// "wildcard" so the longer token always wins.
var operatorTable = []operator{
	{"==", ast.Eq},
	{"eq", ast.Eq},
	{"!=", ast.Neq},
	{"ne", ast.Neq},
	{"<=", ast.Lte},
	{"le", ast.Lte},
	{">=", ast.Gte},
	{"ge", ast.Gte},
	{"<", ast.Lt},
	{"lt", ast.Lt},
	{">", ast.Gt},
	{"gt", ast.Gt},
	{"not in", ast.NotIn},
	{"in", ast.In},
	{"matches", ast.Matches},
	{"strict wildcard", ast.StrictWildcard},
	{"wildcard", ast.Wildcard},
	{"contains", ast.Contains},
}

// Parser is a pure recursive-descent cursor over a source string; it
// never looks ahead more than one rune plus a string-prefix check. The
// schema is carried only so Parse's signature matches compile(...) —
// parsing decisions never consult it. Field-vs-literal resolution is
// the Compiler's job.
type Parser struct {
	input string
	pos   int
}

// Parse parses text into an expression tree. sch is accepted for
// signature symmetry with Compile but is never consulted.
func Parse(text string, sch *schema.Schema) (ast.Node, error) {
	p := &Parser{input: text}
	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	p.skipWhitespace()
	if p.pos < len(p.input) {
		return nil, ferr.ParseError(p.pos, "unexpected input")
	}
	return expr, nil
}

func (p *Parser) parseExpr() (ast.Node, error) {
	return p.parseOr()
}

func (p *Parser) parseOr() (ast.Node, error) {
	p.skipWhitespace()
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for {
		p.skipWhitespace()
		if !p.consumeKeyword("||") && !p.consumeKeyword("or") {
			break
		}
		p.skipWhitespace()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &ast.LogicalExpr{Op: ast.Or, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseAnd() (ast.Node, error) {
	p.skipWhitespace()
	left, err := p.parseNot()
	if err != nil {
		return nil, err
	}
	for {
		p.skipWhitespace()
		if !p.consumeKeyword("&&") && !p.consumeKeyword("and") {
			break
		}
		p.skipWhitespace()
		right, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		left = &ast.LogicalExpr{Op: ast.And, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseNot() (ast.Node, error) {
	p.skipWhitespace()
	if p.consumeKeyword("not") {
		child, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		return &ast.Not{Child: child}, nil
	}
	return p.parseComparison()
}

// parseExprOrValue implements primary's documented backtracking: try
// literal, then identifier, then a full nested expression, in that
// order, resetting the cursor between attempts. An identifier immediately
// followed by '(' is left to the nested-expression attempt, which parses
// it as a function call.
func (p *Parser) parseExprOrValue() (ast.Node, error) {
	p.skipWhitespace()
	start := p.pos

	if lit, err := p.parseLiteral(); err == nil {
		return &ast.ValueNode{Value: lit}, nil
	}
	p.pos = start

	if ident, err := p.parseIdentifier(); err == nil && p.peek() != '(' {
		return &ast.ValueNode{Value: value.NewBytes([]byte(ident))}, nil
	}
	p.pos = start

	if expr, err := p.parseExpr(); err == nil {
		return expr, nil
	}

	return nil, ferr.ParseError(p.pos, "expected expression or value")
}

func (p *Parser) parseComparison() (ast.Node, error) {
	p.skipWhitespace()

	left, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}

	p.skipWhitespace()
	if op, ok := p.parseOperator(); ok {
		p.skipWhitespace()
		var right ast.Node
		if p.peek() == '{' {
			list, err := p.parseListLiteral()
			if err != nil {
				return nil, err
			}
			right = &ast.ValueNode{Value: value.NewArray(list)}
		} else {
			right, err = p.parseExprOrValue()
			if err != nil {
				return nil, err
			}
		}
		return &ast.Comparison{Left: left, Op: op, Right: right}, nil
	}
	return left, nil
}

// parsePrimary handles "(" expr ")", identifier/function-call, and "{"
// list literal — the primary production of the grammar.
func (p *Parser) parsePrimary() (ast.Node, error) {
	if p.peek() == '(' {
		p.consumeRune()
		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		p.skipWhitespace()
		if !p.consumeKeyword(")") {
			return nil, ferr.ParseError(p.pos, "expected ')'")
		}
		return inner, nil
	}

	if p.peek() == '{' {
		list, err := p.parseListLiteral()
		if err != nil {
			return nil, err
		}
		return &ast.List{Values: list}, nil
	}

	ident, err := p.parseIdentifier()
	if err != nil {
		return nil, err
	}

	p.skipWhitespace()
	if p.peek() == '(' {
		p.consumeRune()
		args, err := p.parseArgList()
		if err != nil {
			return nil, err
		}
		if !p.consumeKeyword(")") {
			return nil, ferr.ParseError(p.pos, "expected ')' after function call")
		}
		return &ast.FunctionCall{Name: ident, Args: args}, nil
	}

	return &ast.ValueNode{Value: value.NewBytes([]byte(ident))}, nil
}

func (p *Parser) parseArgList() ([]ast.Node, error) {
	var args []ast.Node
	p.skipWhitespace()
	if p.peek() == ')' {
		return args, nil
	}
	for {
		start := p.pos
		var arg ast.Node
		if ident, err := p.parseIdentifier(); err == nil && p.peek() != '(' {
			arg = &ast.ValueNode{Value: value.NewBytes([]byte(ident))}
		} else {
			p.pos = start
			a, err := p.parseExprOrValue()
			if err != nil {
				return nil, err
			}
			arg = a
		}
		args = append(args, arg)
		p.skipWhitespace()
		if p.peek() == ',' {
			p.consumeRune()
			p.skipWhitespace()
			continue
		}
		break
	}
	return args, nil
}

func (p *Parser) parseIdentifier() (string, error) {
	p.skipWhitespace()
	start := p.pos
	end := p.pos
	for i, r := range p.input[p.pos:] {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '.' {
			end = p.pos + i + utf8.RuneLen(r)
		} else {
			break
		}
	}
	if end > start {
		p.pos = end
		return p.input[start:end], nil
	}
	return "", ferr.ParseError(p.pos, "expected identifier")
}

func (p *Parser) parseOperator() (ast.CompareOp, bool) {
	p.skipWhitespace()
	for _, o := range operatorTable {
		if hasPrefixAt(p.input, p.pos, o.text) {
			p.pos += len(o.text)
			return o.op, true
		}
	}
	return 0, false
}

func (p *Parser) parseLiteral() (value.Value, error) {
	p.skipWhitespace()
	c := p.peek()
	switch {
	case c == '"':
		return p.parseStringLiteral()
	case c >= '0' && c <= '9', c == '-':
		return p.parseIntLiteral()
	case hasPrefixAt(p.input, p.pos, "true"):
		p.pos += 4
		return value.NewBool(true), nil
	case hasPrefixAt(p.input, p.pos, "false"):
		p.pos += 5
		return value.NewBool(false), nil
	}
	return value.Value{}, ferr.ParseError(p.pos, "expected literal")
}

// parseStringLiteral reads a double-quoted literal with no escape
// processing: a backslash is an ordinary byte, and the string ends at
// the very next '"'.
func (p *Parser) parseStringLiteral() (value.Value, error) {
	p.skipWhitespace()
	if p.peek() != '"' {
		return value.Value{}, ferr.ParseError(p.pos, "expected '\"'")
	}
	p.consumeRune()
	start := p.pos
	for p.peek() != 0 && p.peek() != '"' {
		p.consumeRune()
	}
	if p.peek() != '"' {
		return value.Value{}, ferr.ParseError(p.pos, "unterminated string literal")
	}
	s := p.input[start:p.pos]
	p.consumeRune()
	return value.NewBytes([]byte(s)), nil
}

func (p *Parser) parseIntLiteral() (value.Value, error) {
	p.skipWhitespace()
	start := p.pos
	if p.peek() == '-' {
		p.consumeRune()
	}
	for p.peek() >= '0' && p.peek() <= '9' {
		p.consumeRune()
	}
	if p.pos > start {
		n, err := strconv.ParseInt(p.input[start:p.pos], 10, 64)
		if err != nil {
			return value.Value{}, ferr.ParseError(start, "invalid integer literal")
		}
		return value.NewInt(n), nil
	}
	return value.Value{}, ferr.ParseError(p.pos, "expected integer literal")
}

// parseListLiteral reads a `{ ... }` whitespace-separated literal
// sequence.
func (p *Parser) parseListLiteral() ([]value.Value, error) {
	if !p.consumeKeyword("{") {
		return nil, ferr.ParseError(p.pos, "expected '{'")
	}
	var items []value.Value
	for {
		p.skipWhitespace()
		if p.peek() == '}' {
			p.consumeRune()
			break
		}
		if p.peek() == 0 {
			return nil, ferr.ParseError(p.pos, "unterminated list literal")
		}
		item, err := p.parseLiteral()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
		p.skipWhitespace()
	}
	return items, nil
}

func (p *Parser) skipWhitespace() {
	for {
		r := p.peek()
		if r == 0 || !unicode.IsSpace(r) {
			break
		}
		p.consumeRune()
	}
}

// consumeKeyword consumes s as a literal prefix match with no trailing
// word-boundary check, matching the original's deliberately loose
// keyword matching (see the greedy-identifier design note).
func (p *Parser) consumeKeyword(s string) bool {
	if hasPrefixAt(p.input, p.pos, s) {
		p.pos += len(s)
		return true
	}
	return false
}

func (p *Parser) consumeRune() rune {
	r, size := utf8.DecodeRuneInString(p.input[p.pos:])
	if size == 0 {
		return 0
	}
	p.pos += size
	return r
}

// peek returns the rune at the cursor, or 0 at end of input.
func (p *Parser) peek() rune {
	if p.pos >= len(p.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(p.input[p.pos:])
	return r
}

func hasPrefixAt(s string, pos int, prefix string) bool {
	if pos+len(prefix) > len(s) {
		return false
	}
	return s[pos:pos+len(prefix)] == prefix
}
