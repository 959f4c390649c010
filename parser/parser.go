// Package parser verifies that a SIMPLE token stream has valid grammatical
// shape. It produces no tree: its only output is a diagnostic list and a
// pass/fail flag.
package parser

import (
	"strconv"

	"github.com/avelino/simplec/diag"
	"github.com/avelino/simplec/token"
)

// Parser is a pure shape validator over a token stream.
type Parser struct {
	tokens []token.Token
	pos    int

	errors       *diag.List
	lastLine     int
	sawEnd       bool
}

// New creates a Parser over tokens. tokens is expected to end with an EOF
// token, as produced by lexer.TokenizeAll.
func New(tokens []token.Token) *Parser {
	return &Parser{tokens: tokens, errors: &diag.List{}}
}

// Errors returns the diagnostics accumulated during Parse.
func (p *Parser) Errors() *diag.List {
	return p.errors
}

func (p *Parser) cur() token.Token {
	if p.pos >= len(p.tokens) {
		return token.Token{Type: token.EOF}
	}
	return p.tokens[p.pos]
}

func (p *Parser) advance() token.Token {
	t := p.cur()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return t
}

func (p *Parser) atEOF() bool {
	return p.cur().Type == token.EOF
}

// Parse validates the whole program and reports whether it parsed without
// diagnostics.
func (p *Parser) Parse() bool {
	for !p.atEOF() {
		if p.cur().Type == token.KeywordEnd {
			p.advance()
			p.sawEnd = true
			break
		}
		p.parseStatement()
		if p.sawEnd {
			break
		}
	}
	if !p.sawEnd {
		p.errors.Addf(diag.Parser, diag.MissingEnd, p.lastLine,
			"end expected after line %d", p.lastLine)
	}
	return !p.errors.HadErrors()
}

func (p *Parser) parseStatement() {
	if p.cur().Type != token.LineNumber {
		p.errors.Addf(diag.Parser, diag.UnexpectedToken, p.lastLine,
			"expected line number, got %s %q", p.cur().Type, p.cur().Literal)
		p.advance()
		return
	}
	lineTok := p.advance()
	if n, err := strconv.Atoi(lineTok.Literal); err == nil {
		p.lastLine = n
	}
	p.parseStmtBody()
}

func (p *Parser) parseStmtBody() {
	switch p.cur().Type {
	case token.KeywordInput:
		p.advance()
		p.expect(token.Identifier, "identifier")
	case token.KeywordLet:
		p.advance()
		p.expect(token.Identifier, "identifier")
		if p.cur().Type == token.Assign {
			p.advance()
			p.parseExpr()
		}
		// A let without '=' does not abort: the expression clause simply
		// does not execute.
	case token.KeywordPrint:
		p.advance()
		p.expect(token.Identifier, "identifier")
	case token.KeywordIf:
		p.advance()
		p.parseExpr()
		p.expectComparison()
		p.parseExpr()
		p.expect(token.KeywordGoto, "'goto'")
		p.expect(token.Number, "number")
	case token.KeywordGoto:
		p.advance()
		p.expect(token.Number, "number")
	case token.Comment:
		p.advance()
	case token.KeywordEnd:
		p.advance()
		p.sawEnd = true
	default:
		p.errors.Addf(diag.Parser, diag.UnexpectedToken, p.lastLine,
			"unexpected token %s %q at start of statement body", p.cur().Type, p.cur().Literal)
		p.advance()
	}
}

// parseExpr consumes `factor (operator factor)?`.
func (p *Parser) parseExpr() {
	p.parseFactor()
	if p.cur().Type == token.Operator {
		p.advance()
		p.parseFactor()
	}
}

func (p *Parser) parseFactor() {
	switch p.cur().Type {
	case token.Identifier, token.Number:
		p.advance()
	default:
		p.errors.Addf(diag.Parser, diag.UnexpectedToken, p.lastLine,
			"expected identifier or number, got %s %q", p.cur().Type, p.cur().Literal)
		p.advance()
	}
}

func (p *Parser) expect(t token.Type, what string) {
	if p.cur().Type != t {
		p.errors.Addf(diag.Parser, diag.UnexpectedToken, p.lastLine,
			"expected %s, got %s %q", what, p.cur().Type, p.cur().Literal)
		p.advance()
		return
	}
	p.advance()
}

func (p *Parser) expectComparison() {
	if p.cur().Type != token.Comparison {
		p.errors.Addf(diag.Parser, diag.UnexpectedToken, p.lastLine,
			"expected comparison operator, got %s %q", p.cur().Type, p.cur().Literal)
		p.advance()
		return
	}
	p.advance()
}
