package lexer

import (
	"testing"

	"github.com/avelino/simplec/token"
)

func TestNextTokenBasicStatement(t *testing.T) {
	input := "10 let x = 2\n"
	want := []token.Type{
		token.LineNumber, token.KeywordLet, token.Identifier,
		token.Assign, token.Number, token.EOF,
	}

	l := New(input)
	for i, wantType := range want {
		tok := l.NextToken()
		if tok.Type != wantType {
			t.Errorf("token %d: got %s, want %s", i, tok.Type, wantType)
		}
	}
}

func TestComparisonNotSplitByAssign(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"20 if a >= b goto 99\n", ">="},
		{"20 if a <= b goto 99\n", "<="},
		{"20 if a == b goto 99\n", "=="},
		{"20 if a != b goto 99\n", "!="},
	}
	for _, c := range cases {
		t.Run(c.want, func(t *testing.T) {
			l := New(c.input)
			var cmp token.Token
			for {
				tok := l.NextToken()
				if tok.Type == token.EOF {
					break
				}
				if tok.Type == token.Comparison {
					cmp = tok
				}
			}
			if cmp.Literal != c.want {
				t.Errorf("got comparison %q, want %q", cmp.Literal, c.want)
			}
		})
	}
}

func TestLineNumberOnlyFirstOnLine(t *testing.T) {
	// The second "10" is an expression-position number literal, not a
	// second line-number token.
	l := New("10 let x = 10\n")
	var kinds []token.Type
	for {
		tok := l.NextToken()
		kinds = append(kinds, tok.Type)
		if tok.Type == token.EOF {
			break
		}
	}
	want := []token.Type{
		token.LineNumber, token.KeywordLet, token.Identifier,
		token.Assign, token.Number, token.EOF,
	}
	if len(kinds) != len(want) {
		t.Fatalf("got %d tokens, want %d: %v", len(kinds), len(want), kinds)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Errorf("token %d: got %s, want %s", i, kinds[i], want[i])
		}
	}
}

func TestNegativeNumberLiteral(t *testing.T) {
	l := New("10 let x = -42\n")
	var nums []string
	for {
		tok := l.NextToken()
		if tok.Type == token.Number {
			nums = append(nums, tok.Literal)
		}
		if tok.Type == token.EOF {
			break
		}
	}
	if len(nums) != 1 || nums[0] != "-42" {
		t.Errorf("got numbers %v, want [-42]", nums)
	}
}

func TestCommentCollapsesToSingleToken(t *testing.T) {
	l := New("10 rem this is a comment\n20 end\n")
	tok := l.NextToken() // line number
	if tok.Type != token.LineNumber {
		t.Fatalf("expected line number, got %s", tok.Type)
	}
	tok = l.NextToken()
	if tok.Type != token.Comment || tok.Literal != "COMMENT" {
		t.Errorf("got %v, want Comment(COMMENT)", tok)
	}
}

func TestInvalidCharacterRecovers(t *testing.T) {
	l := New("10 let x = 2 $\n20 end\n")
	toks := l.TokenizeAll()
	if !l.Errors().HadErrors() {
		t.Fatal("expected a lexer diagnostic for '$'")
	}
	last := toks[len(toks)-1]
	if last.Type != token.EOF {
		t.Errorf("tokenization should still reach EOF, got %v", last)
	}
}

func TestKeywordPrefixMatchesBeforeIdentifier(t *testing.T) {
	// "leta" must tokenize as the keyword "let" followed by a separate
	// one-letter identifier "a", not as a single multi-letter identifier
	// (which maximal-munch scanning would produce and then silently drop).
	l := New("10 leta = 2\n")
	l.NextToken() // line number
	kw := l.NextToken()
	if kw.Type != token.KeywordLet || kw.Literal != "let" {
		t.Fatalf("got %v, want KeywordLet(let)", kw)
	}
	id := l.NextToken()
	if id.Type != token.Identifier || id.Literal != "a" {
		t.Fatalf("got %v, want Identifier(a)", id)
	}
}

func TestRemPrefixSwallowsRestOfLineEvenWhenGlued(t *testing.T) {
	// "remark" must tokenize as a single comment starting at "rem", matching
	// the unanchored-prefix behavior of §4.1, not as a dropped identifier.
	l := New("10 remark this line is a comment\n20 end\n")
	l.NextToken() // line number
	tok := l.NextToken()
	if tok.Type != token.Comment || tok.Literal != "COMMENT" {
		t.Fatalf("got %v, want Comment(COMMENT)", tok)
	}
	tok = l.NextToken()
	if tok.Type != token.LineNumber {
		t.Fatalf("expected next line's line number, got %v", tok)
	}
}

func TestIfPrefixMatchesBeforeIdentifier(t *testing.T) {
	l := New("10 iffoo\n")
	l.NextToken() // line number
	kw := l.NextToken()
	if kw.Type != token.KeywordIf || kw.Literal != "if" {
		t.Fatalf("got %v, want KeywordIf(if)", kw)
	}
	id := l.NextToken()
	if id.Type != token.Identifier || id.Literal != "f" {
		t.Fatalf("got %v, want Identifier(f)", id)
	}
	id = l.NextToken()
	if id.Type != token.Identifier || id.Literal != "o" {
		t.Fatalf("got %v, want Identifier(o)", id)
	}
	id = l.NextToken()
	if id.Type != token.Identifier || id.Literal != "o" {
		t.Fatalf("got %v, want Identifier(o)", id)
	}
}

func TestBlankLineEmitsNothing(t *testing.T) {
	l := New("10 end\n\n   \n")
	toks := l.TokenizeAll()
	if len(toks) != 3 { // LineNumber, KeywordEnd, EOF
		t.Errorf("got %d tokens, want 3: %v", len(toks), toks)
	}
}
