// Package diag defines the structured diagnostic sink shared by every
// compilation stage.
package diag

import (
	"fmt"
	"strings"
)

// Stage identifies which pipeline stage raised a Diagnostic.
type Stage string

const (
	Lexer    Stage = "lexer"
	Parser   Stage = "parser"
	Semantic Stage = "semantic"
	Codegen  Stage = "codegen"
)

// Kind is one entry from the closed error taxonomy.
type Kind string

const (
	InvalidCharacter      Kind = "invalid-character"
	UnexpectedToken       Kind = "unexpected-token"
	MissingEnd            Kind = "missing-end"
	LineOutOfOrder        Kind = "line-out-of-order"
	DuplicateLine         Kind = "duplicate-line"
	UninitializedVar      Kind = "uninitialized-variable"
	UnknownJumpTarget     Kind = "unknown-jump-target"
	NonPositiveJumpTarget Kind = "non-positive-jump-target"
	DivideByZero          Kind = "divide-by-zero"
	AddressOverflow       Kind = "address-overflow"
)

// Diagnostic is a single reported problem.
type Diagnostic struct {
	Stage   Stage
	Kind    Kind
	Line    int
	Message string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s:%s at line %d: %s", d.Stage, d.Kind, d.Line, d.Message)
}

// New builds a Diagnostic.
func New(stage Stage, kind Kind, line int, message string) Diagnostic {
	return Diagnostic{Stage: stage, Kind: kind, Line: line, Message: message}
}

// List accumulates diagnostics from one or more stages, in report order.
type List struct {
	entries []Diagnostic
}

// Add appends a diagnostic to the list.
func (l *List) Add(d Diagnostic) {
	l.entries = append(l.entries, d)
}

// Addf builds and appends a diagnostic in one call.
func (l *List) Addf(stage Stage, kind Kind, line int, format string, args ...any) {
	l.Add(New(stage, kind, line, fmt.Sprintf(format, args...)))
}

// All returns every diagnostic recorded so far, in report order.
func (l *List) All() []Diagnostic {
	return l.entries
}

// HadErrors reports whether any diagnostic has been recorded.
func (l *List) HadErrors() bool {
	return len(l.entries) > 0
}

// Merge appends every entry of other to l, preserving order.
func (l *List) Merge(other *List) {
	if other == nil {
		return
	}
	l.entries = append(l.entries, other.entries...)
}

// String renders every diagnostic, one per line.
func (l *List) String() string {
	var b strings.Builder
	for _, d := range l.entries {
		b.WriteString(d.String())
		b.WriteByte('\n')
	}
	return b.String()
}
