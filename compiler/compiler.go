// Package compiler wires the lexer, parser, semantic analyzer, and code
// generator into the single entry point a host calls to compile a SIMPLE
// source string.
package compiler

import (
	"github.com/avelino/simplec/codegen"
	"github.com/avelino/simplec/config"
	"github.com/avelino/simplec/diag"
	"github.com/avelino/simplec/lexer"
	"github.com/avelino/simplec/parser"
	"github.com/avelino/simplec/semantic"
	"github.com/avelino/simplec/token"
)

// Result is everything a caller needs after a compilation: the emitted
// word sequence (nil if codegen did not run), every diagnostic raised by
// any stage that ran, and the resolution data a debug dump can render.
type Result struct {
	Words       []string
	Diagnostics *diag.List
	Inoperante  bool // codegen ran despite earlier-stage errors

	Tokens     []token.Token
	Consts     []int
	ConstAddr  []int
	Vars       []rune
	VarValues  map[rune]int
	VarAddr    map[rune]int
	EquivLines map[int]int
}

// Compile runs the full pipeline over source under cfg. Every stage reads
// the same token slice with its own cursor; no stage mutates the slice or
// another stage's output.
func Compile(source string, cfg config.Config) *Result {
	diagnostics := &diag.List{}

	lex := lexer.New(source)
	tokens := lex.TokenizeAll()
	diagnostics.Merge(lex.Errors())

	p := parser.New(tokens)
	p.Parse()
	diagnostics.Merge(p.Errors())

	a := semantic.New(tokens)
	a.Analyze()
	diagnostics.Merge(a.Errors())

	result := &Result{
		Diagnostics: diagnostics,
		Tokens:      tokens,
	}

	if diagnostics.HadErrors() && !cfg.CompileDespiteErrors {
		return result
	}
	// Codegen runs below: either there were no diagnostics, or
	// compile_despite_errors explicitly allows it to run anyway.
	if diagnostics.HadErrors() {
		result.Inoperante = true
	}

	gen := codegen.New(tokens)
	genResult := gen.Generate()
	diagnostics.Merge(gen.Errors())

	result.Words = genResult.Words
	result.Consts = genResult.Consts
	result.ConstAddr = genResult.ConstAddr
	result.Vars = genResult.Vars
	result.VarValues = genResult.VarValues
	result.VarAddr = genResult.VarAddr
	result.EquivLines = genResult.EquivLines

	return result
}
