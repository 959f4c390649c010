// Package codegen walks a SIMPLE token stream and emits SML words,
// folding fully-known expressions at compile time and back-patching
// symbolic operand slots into final memory addresses once the program's
// shape is known.
package codegen

import (
	"strconv"

	"github.com/avelino/simplec/diag"
	"github.com/avelino/simplec/sml"
	"github.com/avelino/simplec/token"
)

// varInfo tracks one variable's statically-known value, if any.
type varInfo struct {
	known bool
	value int
}

// Generator emits SML words for a SIMPLE token stream.
type Generator struct {
	tokens []token.Token
	pos    int

	words []sml.Word

	vars     map[rune]*varInfo
	varOrder []rune

	consts []int

	equivLines map[int]int

	accumVar  rune
	accumSet  bool

	errors *diag.List
}

// New creates a Generator over tokens, as produced by lexer.TokenizeAll.
func New(tokens []token.Token) *Generator {
	return &Generator{
		tokens:     tokens,
		vars:       make(map[rune]*varInfo),
		equivLines: make(map[int]int),
		errors:     &diag.List{},
	}
}

// Errors returns the diagnostics accumulated during Generate.
func (g *Generator) Errors() *diag.List { return g.errors }

// Result is the fully resolved output of a code generation pass.
type Result struct {
	Words      []string
	Consts     []int
	Vars       []rune
	VarValues  map[rune]int // only entries with a statically-known final value
	VarAddr    map[rune]int
	ConstAddr  []int // constant pool index -> resolved address
	EquivLines map[int]int
}

func (g *Generator) cur() token.Token {
	if g.pos >= len(g.tokens) {
		return token.Token{Type: token.EOF}
	}
	return g.tokens[g.pos]
}

func (g *Generator) advance() token.Token {
	t := g.cur()
	if g.pos < len(g.tokens) {
		g.pos++
	}
	return t
}

func (g *Generator) atEOF() bool { return g.cur().Type == token.EOF }

func (g *Generator) ensureVar(name rune) *varInfo {
	v, ok := g.vars[name]
	if !ok {
		v = &varInfo{}
		g.vars[name] = v
		g.varOrder = append(g.varOrder, name)
	}
	return v
}

func (g *Generator) emit(w sml.Word) {
	g.words = append(g.words, w)
}

func (g *Generator) invalidateAccum() {
	g.accumSet = false
	g.accumVar = 0
}

// Generate runs the full code generation pass and returns the resolved
// result.
func (g *Generator) Generate() *Result {
	for !g.atEOF() {
		if g.cur().Type != token.LineNumber {
			g.advance()
			continue
		}
		lineTok := g.advance()
		line, err := strconv.Atoi(lineTok.Literal)
		if err != nil {
			continue
		}
		g.equivLines[line] = len(g.words)

		switch g.cur().Type {
		case token.KeywordInput:
			g.genInput()
		case token.KeywordLet:
			g.genLet(line)
		case token.KeywordPrint:
			g.genPrint()
		case token.KeywordIf:
			g.genIf(line)
		case token.KeywordGoto:
			g.genGoto(line)
		case token.KeywordEnd:
			g.advance()
			g.genEnd()
			return g.backpatch()
		case token.Comment:
			g.advance()
		default:
			g.advance()
		}
	}
	return g.backpatch()
}

func (g *Generator) genInput() {
	g.advance() // 'input'
	t := g.advance()
	if t.Type != token.Identifier || len(t.Literal) != 1 {
		return
	}
	name := rune(t.Literal[0])
	v := g.ensureVar(name)
	v.known = false
	g.emit(sml.InstructionWord(sml.Read, sml.VarOperand(name)))
	g.invalidateAccum()
}

func (g *Generator) genPrint() {
	g.advance() // 'print'
	t := g.advance()
	if t.Type != token.Identifier || len(t.Literal) != 1 {
		return
	}
	name := rune(t.Literal[0])
	g.ensureVar(name)
	g.emit(sml.InstructionWord(sml.Write, sml.VarOperand(name)))
}

func (g *Generator) genGoto(line int) {
	g.advance() // 'goto'
	t := g.advance()
	if t.Type != token.Number {
		return
	}
	target, err := strconv.Atoi(t.Literal)
	if err != nil {
		return
	}
	g.emit(sml.InstructionWord(sml.Branch, sml.LineOperand(target)))
	g.invalidateAccum()
	_ = line
}

// operand describes one factor of an expression as seen by codegen: either
// a literal value or a variable name, with its statically-known value if
// one is tracked.
type operand struct {
	isLiteral bool
	literal   int
	name      rune
	known     bool
	value     int
}

func (g *Generator) readOperand() operand {
	t := g.advance()
	switch t.Type {
	case token.Number:
		n, _ := strconv.Atoi(t.Literal)
		return operand{isLiteral: true, literal: n}
	case token.Identifier:
		name := rune(t.Literal[0])
		v := g.ensureVar(name)
		return operand{name: name, known: v.known, value: v.value}
	}
	return operand{}
}

func (o operand) isKnown() bool {
	return o.isLiteral || o.known
}

func (o operand) knownValue() int {
	if o.isLiteral {
		return o.literal
	}
	return o.value
}

// loadOperand emits (or elides) the LOAD needed to bring o into the
// accumulator, used by both `let` runtime arithmetic and `if` comparisons.
func (g *Generator) loadOperand(o operand) {
	if o.isLiteral {
		idx := len(g.consts)
		g.consts = append(g.consts, o.literal)
		g.emit(sml.InstructionWord(sml.Load, sml.ConstOperand(idx)))
		g.invalidateAccum()
		return
	}
	if g.accumSet && g.accumVar == o.name {
		return
	}
	g.emit(sml.InstructionWord(sml.Load, sml.VarOperand(o.name)))
	g.accumSet = true
	g.accumVar = o.name
}

// arithOperand emits the arithmetic instruction for op against o, without
// touching the accumulator-tracking hint (the caller invalidates it once
// the whole statement completes).
func (g *Generator) arithOperand(opcode sml.Opcode, o operand) {
	if o.isLiteral {
		idx := len(g.consts)
		g.consts = append(g.consts, o.literal)
		g.emit(sml.InstructionWord(opcode, sml.ConstOperand(idx)))
		return
	}
	g.emit(sml.InstructionWord(opcode, sml.VarOperand(o.name)))
}

func arithOpcodeFor(op string) sml.Opcode {
	switch op {
	case "+":
		return sml.Add
	case "-":
		return sml.Sub
	case "*":
		return sml.Mul
	case "/":
		return sml.Div
	case "%":
		return sml.Mod
	}
	return sml.Add
}

func calculate(a int, op string, b int) int {
	switch op {
	case "+":
		return a + b
	case "-":
		return a - b
	case "*":
		return a * b
	case "/":
		return a / b // Go's / already truncates toward zero for ints.
	case "%":
		return a % b // Go's % already follows the sign of the dividend.
	}
	return 0
}

// isZeroDivision reports whether op divides by a right operand that folds
// to zero. The semantic analyzer only catches a literal `0` divisor
// (§4.3 rule 4); a divisor that is a variable statically known to hold 0
// (e.g. `let z = 0` followed by `let r = n / z`) only becomes apparent once
// codegen resolves its folded value, so calculate must never be reached
// with such an operand.
func isZeroDivision(op string, b int) bool {
	return (op == "/" || op == "%") && b == 0
}

func (g *Generator) genLet(line int) {
	g.advance() // 'let'
	lhsTok := g.advance()
	if lhsTok.Type != token.Identifier || len(lhsTok.Literal) != 1 {
		return
	}
	lhs := rune(lhsTok.Literal[0])
	dest := g.ensureVar(lhs)

	if g.cur().Type != token.Assign {
		return
	}
	g.advance() // '='

	a := g.readOperand()

	if g.cur().Type != token.Operator {
		// Single-operand assignment.
		if a.isKnown() {
			dest.known = true
			dest.value = a.knownValue()
			return
		}
		g.loadOperand(a)
		g.emit(sml.InstructionWord(sml.Store, sml.VarOperand(lhs)))
		dest.known = false
		g.accumSet = true
		g.accumVar = a.name
		return
	}

	opTok := g.advance()
	b := g.readOperand()

	if a.isKnown() && b.isKnown() {
		if isZeroDivision(opTok.Literal, b.knownValue()) {
			g.errors.Addf(diag.Codegen, diag.DivideByZero, line,
				"division by a right operand that folds to zero")
			dest.known = false
			return
		}
		dest.known = true
		dest.value = calculate(a.knownValue(), opTok.Literal, b.knownValue())
		return
	}

	g.loadOperand(a)
	g.arithOperand(arithOpcodeFor(opTok.Literal), b)
	g.emit(sml.InstructionWord(sml.Store, sml.VarOperand(lhs)))
	dest.known = false
	g.invalidateAccum()
}

func (g *Generator) genEnd() {
	g.emit(sml.InstructionWord(sml.Halt, sml.FinalOperand(0)))
}
