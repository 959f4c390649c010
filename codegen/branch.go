package codegen

import (
	"strconv"

	"github.com/avelino/simplec/sml"
	"github.com/avelino/simplec/token"
)

// genIf emits the compare-and-branch sequence for
// `if a cmp b goto M`. SML exposes only BRANCHNEG (accumulator < 0) and
// BRANCHZERO (accumulator == 0) as conditional primitives, so most
// comparisons need a short sequence of internal skip branches; the skip
// targets are always the address immediately following the sequence and
// are resolved immediately, never deferred to the line-equivalence
// back-patch.
func (g *Generator) genIf(line int) {
	g.advance() // 'if'
	a := g.readOperand()
	cmpTok := g.advance() // comparison operator
	b := g.readOperand()

	if g.cur().Type != token.KeywordGoto {
		return
	}
	g.advance() // 'goto'
	targetTok := g.advance()
	target, err := strconv.Atoi(targetTok.Literal)
	if err != nil {
		return
	}

	g.loadOperand(a)
	g.arithOperand(sml.Sub, b)
	g.invalidateAccum()

	start := len(g.words)
	switch cmpTok.Literal {
	case "==":
		g.emit(sml.InstructionWord(sml.BranchZero, sml.LineOperand(target)))
	case "!=":
		g.emit(sml.InstructionWord(sml.BranchZero, sml.FinalOperand(start+2)))
		g.emit(sml.InstructionWord(sml.Branch, sml.LineOperand(target)))
	case "<":
		g.emit(sml.InstructionWord(sml.BranchNeg, sml.LineOperand(target)))
	case "<=":
		g.emit(sml.InstructionWord(sml.BranchNeg, sml.LineOperand(target)))
		g.emit(sml.InstructionWord(sml.BranchZero, sml.LineOperand(target)))
	case ">":
		g.emit(sml.InstructionWord(sml.BranchNeg, sml.FinalOperand(start+3)))
		g.emit(sml.InstructionWord(sml.BranchZero, sml.FinalOperand(start+3)))
		g.emit(sml.InstructionWord(sml.Branch, sml.LineOperand(target)))
	case ">=":
		g.emit(sml.InstructionWord(sml.BranchNeg, sml.FinalOperand(start+2)))
		g.emit(sml.InstructionWord(sml.Branch, sml.LineOperand(target)))
	}
	_ = line
}
