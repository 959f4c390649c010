// Package semantic re-traverses a SIMPLE token stream to enforce the rules
// that cannot be checked by grammatical shape alone: line ordering, symbol
// introduction, jump-target validity, and division by zero.
package semantic

import (
	"strconv"

	"github.com/avelino/simplec/diag"
	"github.com/avelino/simplec/token"
)

// Analyzer walks a token stream twice: once to collect the valid-line set,
// once to check the four semantic rules.
type Analyzer struct {
	tokens []token.Token
	pos    int

	errors   *diag.List
	validLines map[int]bool
	symbols    *SymbolTable

	lastLine int
	seenLine map[int]bool
}

// New creates an Analyzer over tokens, as produced by lexer.TokenizeAll.
func New(tokens []token.Token) *Analyzer {
	return &Analyzer{
		tokens:     tokens,
		errors:     &diag.List{},
		validLines: make(map[int]bool),
		symbols:    NewSymbolTable(),
		seenLine:   make(map[int]bool),
	}
}

// Errors returns the diagnostics accumulated during Analyze.
func (a *Analyzer) Errors() *diag.List { return a.errors }

// Symbols returns the symbol table built during Analyze.
func (a *Analyzer) Symbols() *SymbolTable { return a.symbols }

func (a *Analyzer) cur() token.Token {
	if a.pos >= len(a.tokens) {
		return token.Token{Type: token.EOF}
	}
	return a.tokens[a.pos]
}

func (a *Analyzer) advance() token.Token {
	t := a.cur()
	if a.pos < len(a.tokens) {
		a.pos++
	}
	return t
}

func (a *Analyzer) atEOF() bool { return a.cur().Type == token.EOF }

// Analyze runs both passes and reports whether it found no diagnostics.
func (a *Analyzer) Analyze() bool {
	a.collectValidLines()
	a.pos = 0
	for !a.atEOF() {
		if a.cur().Type == token.KeywordEnd {
			break
		}
		a.analyzeStatement()
	}
	return !a.errors.HadErrors()
}

// collectValidLines performs the first pass: every line-number token is a
// candidate jump target, regardless of what the line contains.
func (a *Analyzer) collectValidLines() {
	for _, t := range a.tokens {
		if t.Type == token.LineNumber {
			if n, err := strconv.Atoi(t.Literal); err == nil {
				a.validLines[n] = true
			}
		}
	}
}

func (a *Analyzer) analyzeStatement() {
	if a.cur().Type != token.LineNumber {
		a.advance()
		return
	}
	lineTok := a.advance()
	n, err := strconv.Atoi(lineTok.Literal)
	if err != nil {
		return
	}
	a.checkLineOrdering(n)
	a.lastLine = n

	switch a.cur().Type {
	case token.KeywordInput:
		a.advance()
		if id := a.identifierLiteral(); id != 0 {
			a.symbols.Define(id)
		}
	case token.KeywordLet:
		a.analyzeLet(n)
	case token.KeywordPrint:
		a.advance()
		a.checkInitializedIdentifier(n)
	case token.KeywordIf:
		a.advance()
		a.analyzeExpr(n)
		a.advanceIfComparison()
		a.analyzeExpr(n)
		a.analyzeGotoTail(n)
	case token.KeywordGoto:
		a.advance()
		a.analyzeGotoNumber(n)
	case token.Comment:
		a.advance()
	default:
		a.advance()
	}
}

func (a *Analyzer) checkLineOrdering(n int) {
	if a.seenLine[n] {
		a.errors.Addf(diag.Semantic, diag.DuplicateLine, n,
			"line %d is a duplicate label", n)
		return
	}
	a.seenLine[n] = true
	if n <= a.lastLine && a.lastLine != 0 {
		a.errors.Addf(diag.Semantic, diag.LineOutOfOrder, n,
			"line %d is out of order (previous label was %d)", n, a.lastLine)
	}
}

// identifierLiteral consumes and returns the current token's single-letter
// identifier, or 0 if the current token is not an identifier.
func (a *Analyzer) identifierLiteral() rune {
	t := a.cur()
	if t.Type != token.Identifier || len(t.Literal) != 1 {
		a.advance()
		return 0
	}
	a.advance()
	return rune(t.Literal[0])
}

func (a *Analyzer) checkInitializedIdentifier(line int) {
	t := a.cur()
	if t.Type != token.Identifier || len(t.Literal) != 1 {
		a.advance()
		return
	}
	name := rune(t.Literal[0])
	a.advance()
	if !a.symbols.Has(name) {
		a.errors.Addf(diag.Semantic, diag.UninitializedVar, line,
			"variable %q used before being initialized", string(name))
	}
}

// analyzeLet handles `let identifier [ '=' expr ]`. The right-hand side
// (when present) is checked for uninitialized references before the
// left-hand identifier is recorded as introduced, so `let v = v` on a
// fresh v is rejected rather than silently accepted.
func (a *Analyzer) analyzeLet(line int) {
	a.advance() // 'let'
	lhsTok := a.cur()
	var lhs rune
	if lhsTok.Type == token.Identifier && len(lhsTok.Literal) == 1 {
		lhs = rune(lhsTok.Literal[0])
	}
	a.advance()

	if a.cur().Type == token.Assign {
		a.advance()
		a.analyzeExpr(line)
	}

	if lhs != 0 {
		a.symbols.Define(lhs)
	}
}

// analyzeExpr handles `factor (operator factor)?`, checking identifier
// initialization and literal divide-by-zero.
func (a *Analyzer) analyzeExpr(line int) {
	left := a.analyzeFactor(line)
	if a.cur().Type == token.Operator {
		op := a.advance()
		right := a.analyzeFactor(line)
		if op.Literal == "/" && right.isZeroLiteral() {
			a.errors.Addf(diag.Semantic, diag.DivideByZero, line,
				"division by literal zero")
		}
		_ = left
	}
}

type factorInfo struct {
	isLiteral bool
	literal   string
}

func (f factorInfo) isZeroLiteral() bool {
	return f.isLiteral && f.literal == "0"
}

func (a *Analyzer) analyzeFactor(line int) factorInfo {
	t := a.cur()
	switch t.Type {
	case token.Identifier:
		a.checkInitializedIdentifier(line)
		return factorInfo{}
	case token.Number:
		a.advance()
		return factorInfo{isLiteral: true, literal: t.Literal}
	default:
		a.advance()
		return factorInfo{}
	}
}

func (a *Analyzer) advanceIfComparison() {
	if a.cur().Type == token.Comparison {
		a.advance()
	}
}

func (a *Analyzer) analyzeGotoTail(line int) {
	if a.cur().Type == token.KeywordGoto {
		a.advance()
	}
	a.analyzeGotoNumber(line)
}

func (a *Analyzer) analyzeGotoNumber(line int) {
	t := a.cur()
	if t.Type != token.Number {
		a.advance()
		return
	}
	a.advance()
	target, err := strconv.Atoi(t.Literal)
	if err != nil {
		return
	}
	if target <= 0 {
		a.errors.Addf(diag.Semantic, diag.NonPositiveJumpTarget, line,
			"jump target %d must be strictly positive", target)
		return
	}
	if !a.validLines[target] {
		a.errors.Addf(diag.Semantic, diag.UnknownJumpTarget, line,
			"jump target %d does not match any line in the program", target)
	}
}
