package codegen

import (
	"github.com/avelino/simplec/diag"
	"github.com/avelino/simplec/sml"
)

// backpatch lays out the constant pool and the variable data section after
// the HALT word, then resolves every pending operand in the buffer to a
// final 2-digit address. It mirrors the original two-phase layout: append
// a data word, then scan the whole buffer rewriting every reference to it.
func (g *Generator) backpatch() *Result {
	constAddr := make([]int, len(g.consts))
	for i, value := range g.consts {
		g.words = append(g.words, sml.DataWord(value))
		addr := len(g.words) - 1
		constAddr[i] = addr
		g.resolveOperand(func(op sml.Operand) bool {
			return op.Kind == sml.PendingConst && op.Index == i
		}, addr)
	}

	varValues := make(map[rune]int)
	varAddr := make(map[rune]int)
	for _, name := range g.varOrder {
		info := g.vars[name]
		value := sml.UninitializedSentinel
		if info.known {
			value = info.value
			varValues[name] = value
		}
		g.words = append(g.words, sml.DataWord(value))
		addr := len(g.words) - 1
		varAddr[name] = addr
		g.resolveOperand(func(op sml.Operand) bool {
			return op.Kind == sml.PendingVar && op.Name == name
		}, addr)
	}

	for i, w := range g.words {
		if w.IsData || w.Operand.Kind != sml.PendingLine {
			continue
		}
		addr, ok := g.equivLines[w.Operand.Line]
		if !ok {
			g.errors.Addf(diag.Codegen, diag.UnknownJumpTarget, w.Operand.Line,
				"branch target line %d has no recorded address", w.Operand.Line)
			g.words[i].Operand = sml.FinalOperand(-1)
			continue
		}
		g.words[i].Operand = sml.FinalOperand(addr)
	}

	if len(g.words) > sml.MemorySize {
		g.errors.Addf(diag.Codegen, diag.AddressOverflow, 0,
			"program requires %d words, exceeding the %d-word memory", len(g.words), sml.MemorySize)
	}

	rendered := make([]string, len(g.words))
	for i, w := range g.words {
		rendered[i] = renderWordSafely(w)
	}

	return &Result{
		Words:      rendered,
		Consts:     g.consts,
		Vars:       g.varOrder,
		VarValues:  varValues,
		VarAddr:    varAddr,
		ConstAddr:  constAddr,
		EquivLines: g.equivLines,
	}
}

// resolveOperand rewrites every instruction operand matching pred to a
// resolved address, leaving data words untouched.
func (g *Generator) resolveOperand(pred func(sml.Operand) bool, addr int) {
	for i, w := range g.words {
		if w.IsData || !pred(w.Operand) {
			continue
		}
		g.words[i].Operand = sml.FinalOperand(addr)
	}
}

// renderWordSafely renders a word, substituting a diagnostic marker rather
// than panicking if an operand was somehow left unresolved (reachable only
// when compile_despite_errors lets codegen run over a program the earlier
// stages already rejected).
func renderWordSafely(w sml.Word) (s string) {
	defer func() {
		if recover() != nil {
			s = "+9999"
		}
	}()
	return w.Render()
}
