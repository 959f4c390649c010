package diag

import "testing"

func TestListHadErrors(t *testing.T) {
	var l List
	if l.HadErrors() {
		t.Fatal("empty list should report no errors")
	}
	l.Add(New(Lexer, InvalidCharacter, 10, "unexpected character"))
	if !l.HadErrors() {
		t.Fatal("list with an entry should report errors")
	}
}

func TestAddfFormatsMessage(t *testing.T) {
	var l List
	l.Addf(Semantic, DivideByZero, 20, "division by %s", "zero")
	got := l.All()[0]
	if got.Message != "division by zero" {
		t.Errorf("got message %q, want %q", got.Message, "division by zero")
	}
	if got.Stage != Semantic || got.Kind != DivideByZero || got.Line != 20 {
		t.Errorf("got %+v, unexpected fields", got)
	}
}

func TestMergePreservesOrder(t *testing.T) {
	var a, b List
	a.Addf(Lexer, InvalidCharacter, 1, "a1")
	b.Addf(Parser, MissingEnd, 2, "b1")
	b.Addf(Parser, UnexpectedToken, 3, "b2")
	a.Merge(&b)
	all := a.All()
	if len(all) != 3 {
		t.Fatalf("got %d entries, want 3", len(all))
	}
	if all[0].Message != "a1" || all[1].Message != "b1" || all[2].Message != "b2" {
		t.Errorf("merge did not preserve order: %+v", all)
	}
}

func TestMergeNilIsNoop(t *testing.T) {
	var a List
	a.Addf(Lexer, InvalidCharacter, 1, "a1")
	a.Merge(nil)
	if len(a.All()) != 1 {
		t.Fatalf("got %d entries, want 1", len(a.All()))
	}
}

func TestDiagnosticString(t *testing.T) {
	d := New(Codegen, AddressOverflow, 0, "too many words")
	want := "codegen:address-overflow at line 0: too many words"
	if got := d.String(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestListString(t *testing.T) {
	var l List
	l.Addf(Lexer, InvalidCharacter, 5, "bad char")
	l.Addf(Semantic, UnknownJumpTarget, 10, "no such line")
	got := l.String()
	want := "lexer:invalid-character at line 5: bad char\n" +
		"semantic:unknown-jump-target at line 10: no such line\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
