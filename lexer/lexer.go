// Package lexer segments SIMPLE source text into a token stream.
package lexer

import (
	"strconv"
	"unicode"

	"github.com/avelino/simplec/diag"
	"github.com/avelino/simplec/token"
)

// Lexer tokenizes SIMPLE source code.
type Lexer struct {
	input string
	pos   int
	ch    rune

	line          int
	column        int
	tokensOnLine  int // tokens already emitted for the current physical line
	lastLineLabel int // most recently seen line-number literal, for diagnostics

	errors *diag.List
}

// New creates a Lexer over input.
func New(input string) *Lexer {
	l := &Lexer{
		input:  input,
		line:   1,
		column: 0,
		errors: &diag.List{},
	}
	l.readChar()
	return l
}

func (l *Lexer) readChar() {
	if l.pos >= len(l.input) {
		l.ch = 0
	} else {
		l.ch = rune(l.input[l.pos])
	}
	l.pos++
	l.column++
}

func (l *Lexer) peekChar() rune {
	if l.pos >= len(l.input) {
		return 0
	}
	return rune(l.input[l.pos])
}

func (l *Lexer) currentPos() token.Position {
	return token.Position{Line: l.line, Column: l.column}
}

// Errors returns the diagnostics accumulated so far.
func (l *Lexer) Errors() *diag.List {
	return l.errors
}

func (l *Lexer) skipWhitespaceExceptNewline() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\r' {
		l.readChar()
	}
}

func (l *Lexer) newline() {
	l.line++
	l.column = 0
	l.tokensOnLine = 0
	l.readChar()
}

func isIdentifierLetter(ch rune) bool {
	return ch >= 'a' && ch <= 'z'
}

func isDigit(ch rune) bool {
	return unicode.IsDigit(ch)
}

func (l *Lexer) readDigits() string {
	start := l.pos - 1
	for isDigit(l.ch) {
		l.readChar()
	}
	return l.input[start : l.pos-1]
}

// NextToken consumes and returns the next token, or a token.EOF token once
// the input is exhausted.
func (l *Lexer) NextToken() token.Token {
	for {
		l.skipWhitespaceExceptNewline()
		if l.ch != '\n' {
			break
		}
		l.newline()
	}

	if l.ch == 0 {
		return token.Token{Type: token.EOF, Literal: "", Pos: l.currentPos()}
	}

	pos := l.currentPos()

	// 1. line-number: only the first token on this physical line.
	if l.tokensOnLine == 0 && isDigit(l.ch) {
		lit := l.readDigits()
		l.tokensOnLine++
		if n, err := strconv.Atoi(lit); err == nil {
			l.lastLineLabel = n
		}
		return token.Token{Type: token.LineNumber, Literal: lit, Pos: pos}
	}

	// 2/5. keyword or identifier: lowercase letters.
	if isIdentifierLetter(l.ch) {
		return l.readWordToken(pos)
	}

	// 6. number (signed decimal), in expression position.
	if isDigit(l.ch) || (l.ch == '-' && isDigit(l.peekChar())) {
		return l.readNumberToken(pos)
	}

	// 8. comparison, tried before assignment so >=, <=, ==, != are not split.
	if tok, ok := l.tryComparison(pos); ok {
		l.tokensOnLine++
		return tok
	}

	switch l.ch {
	case '+', '-', '*', '/', '%':
		lit := string(l.ch)
		l.readChar()
		l.tokensOnLine++
		return token.Token{Type: token.Operator, Literal: lit, Pos: pos}
	case '=':
		l.readChar()
		l.tokensOnLine++
		return token.Token{Type: token.Assign, Literal: "=", Pos: pos}
	}

	// Unrecognized character: report and discard, then resume.
	l.errors.Addf(diag.Lexer, diag.InvalidCharacter, l.lastLineLabel,
		"unexpected character %q", l.ch)
	l.readChar()
	return l.NextToken()
}

// wordLiterals are matched against the remaining input as literal prefixes,
// longest/most-specific concerns aside: none of them is itself a prefix of
// another, so trying them in any fixed order is safe.
var wordLiterals = []string{"input", "let", "print", "goto", "if", "end", "rem"}

// readWordToken classifies the word starting at the lexer's current
// position as one of the six keywords, a `rem` comment, or a single-letter
// identifier. Unlike a maximal-munch scan, a keyword or `rem` is matched as
// a literal prefix of the remaining input and only that prefix is
// consumed — mirroring the unanchored `re.match` priority rule of §4.1:
// `leta` tokenizes as `let` followed by the identifier `a`, and `remark`
// tokenizes as a comment starting at `rem` that swallows the rest of the
// line, exactly as gluing extra letters onto a keyword or `rem` does in
// the reference lexer.
func (l *Lexer) readWordToken(pos token.Position) token.Token {
	for _, word := range wordLiterals {
		if !l.matchLiteral(word) {
			continue
		}
		l.tokensOnLine++
		if word == "rem" {
			for l.ch != '\n' && l.ch != 0 {
				l.readChar()
			}
			return token.Token{Type: token.Comment, Literal: "COMMENT", Pos: pos}
		}
		kw, _ := token.LookupKeyword(word)
		return token.Token{Type: kw, Literal: word, Pos: pos}
	}

	// Not a keyword or `rem`: a single lowercase-letter identifier. Only
	// one letter is consumed; a second letter glued on with no separator
	// starts its own identifier token on the next call.
	lit := string(l.ch)
	l.readChar()
	l.tokensOnLine++
	return token.Token{Type: token.Identifier, Literal: lit, Pos: pos}
}

// peekAt returns the rune i positions ahead of the lexer's current
// character (i == 0 is l.ch itself), without consuming any input.
func (l *Lexer) peekAt(i int) rune {
	idx := l.pos - 1 + i
	if idx < 0 || idx >= len(l.input) {
		return 0
	}
	return rune(l.input[idx])
}

// matchLiteral reports whether word occurs literally starting at the
// lexer's current position and, if so, consumes exactly those characters.
// It leaves the lexer untouched on a non-match.
func (l *Lexer) matchLiteral(word string) bool {
	for i := 0; i < len(word); i++ {
		if l.peekAt(i) != rune(word[i]) {
			return false
		}
	}
	for i := 0; i < len(word); i++ {
		l.readChar()
	}
	return true
}

func (l *Lexer) readNumberToken(pos token.Position) token.Token {
	start := l.pos - 1
	if l.ch == '-' {
		l.readChar()
	}
	for isDigit(l.ch) {
		l.readChar()
	}
	l.tokensOnLine++
	return token.Token{Type: token.Number, Literal: l.input[start : l.pos-1], Pos: pos}
}

func (l *Lexer) tryComparison(pos token.Position) (token.Token, bool) {
	two := string(l.ch) + string(l.peekChar())
	switch two {
	case ">=", "<=", "==", "!=":
		l.readChar()
		l.readChar()
		return token.Token{Type: token.Comparison, Literal: two, Pos: pos}, true
	}
	switch l.ch {
	case '>', '<':
		lit := string(l.ch)
		l.readChar()
		return token.Token{Type: token.Comparison, Literal: lit, Pos: pos}, true
	}
	return token.Token{}, false
}

// TokenizeAll runs the lexer to completion and returns every token,
// including the trailing EOF.
func (l *Lexer) TokenizeAll() []token.Token {
	var out []token.Token
	for {
		tok := l.NextToken()
		out = append(out, tok)
		if tok.Type == token.EOF {
			break
		}
	}
	return out
}
