package lexer

import (
	"testing"

	"golox/internal/diagnostics"
	"golox/internal/token"
)

func scanTypes(t *testing.T, src string) []token.Type {
	t.Helper()
	diag := &diagnostics.Bag{}
	toks := New([]byte(src), diag).Scan()
	if diag.HasErrors() {
		t.Fatalf("Scan(%q) reported unexpected errors: %v", src, diag.Errors)
	}
	types := make([]token.Type, len(toks))
	for i, tok := range toks {
		types[i] = tok.Type
	}
	return types
}

func TestScanOperators(t *testing.T) {
	got := scanTypes(t, "==/=*+>-<!=<=>=!!")
	want := []token.Type{
		token.EQUAL_EQUAL, token.SLASH, token.EQUAL, token.STAR, token.PLUS,
		token.GREATER, token.MINUS, token.LESS, token.BANG_EQUAL,
		token.LESS_EQUAL, token.GREATER_EQUAL, token.BANG, token.BANG,
		token.EOF,
	}
	if len(got) != len(want) {
		t.Fatalf("Scan produced %d tokens, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestScanPunctuation(t *testing.T) {
	got := scanTypes(t, "(){}**;+!=<=")
	want := []token.Type{
		token.LEFT_PAREN, token.RIGHT_PAREN, token.LEFT_BRACE, token.RIGHT_BRACE,
		token.STAR, token.STAR, token.SEMICOLON, token.PLUS, token.BANG_EQUAL,
		token.LESS_EQUAL, token.EOF,
	}
	if len(got) != len(want) {
		t.Fatalf("Scan produced %d tokens, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestScanStringLiteral(t *testing.T) {
	diag := &diagnostics.Bag{}
	toks := New([]byte(`"hello world"`), diag).Scan()
	if diag.HasErrors() {
		t.Fatalf("unexpected errors: %v", diag.Errors)
	}
	if len(toks) != 2 || toks[0].Type != token.STRING {
		t.Fatalf("got %v, want a single STRING token followed by EOF", toks)
	}
	if got, want := toks[0].Lexeme(), `"hello world"`; got != want {
		t.Errorf("Lexeme() = %q, want %q (quotes included)", got, want)
	}
}

func TestScanUnterminatedString(t *testing.T) {
	diag := &diagnostics.Bag{}
	New([]byte(`"oops`), diag).Scan()
	if !diag.HasErrors() {
		t.Fatal("expected an UnterminatedString diagnostic, got none")
	}
	if diag.Errors[0].Kind != diagnostics.UnterminatedString {
		t.Errorf("Kind = %v, want UnterminatedString", diag.Errors[0].Kind)
	}
}

func TestScanNumberLiteral(t *testing.T) {
	diag := &diagnostics.Bag{}
	toks := New([]byte("123.45"), diag).Scan()
	if diag.HasErrors() {
		t.Fatalf("unexpected errors: %v", diag.Errors)
	}
	if toks[0].Type != token.NUMBER || toks[0].Lexeme() != "123.45" {
		t.Errorf("got %v, want NUMBER \"123.45\"", toks[0])
	}
}

func TestScanTrailingDotIsNotPartOfNumber(t *testing.T) {
	diag := &diagnostics.Bag{}
	toks := New([]byte("123."), diag).Scan()
	if toks[0].Lexeme() != "123" || toks[1].Type != token.DOT {
		t.Errorf("got %v, want NUMBER \"123\" then DOT", toks)
	}
}

func TestScanIdentifierAndKeywords(t *testing.T) {
	diag := &diagnostics.Bag{}
	toks := New([]byte("orchid or fun"), diag).Scan()
	if diag.HasErrors() {
		t.Fatalf("unexpected errors: %v", diag.Errors)
	}
	want := []token.Type{token.IDENTIFIER, token.OR, token.FUN, token.EOF}
	for i, w := range want {
		if toks[i].Type != w {
			t.Errorf("token[%d] = %v, want %v", i, toks[i].Type, w)
		}
	}
}

func TestScanLineComment(t *testing.T) {
	diag := &diagnostics.Bag{}
	toks := New([]byte("1 // a comment\n2"), diag).Scan()
	if diag.HasErrors() {
		t.Fatalf("unexpected errors: %v", diag.Errors)
	}
	if len(toks) != 3 || toks[0].Type != token.NUMBER || toks[1].Type != token.NUMBER {
		t.Errorf("got %v, want two NUMBER tokens around the comment", toks)
	}
	if toks[1].Pos.Line != 2 {
		t.Errorf("line after comment = %d, want 2", toks[1].Pos.Line)
	}
}

func TestScanUnexpectedCharacter(t *testing.T) {
	diag := &diagnostics.Bag{}
	New([]byte("@"), diag).Scan()
	if !diag.HasErrors() {
		t.Fatal("expected an UnexpectedCharacter diagnostic, got none")
	}
	if diag.Errors[0].Kind != diagnostics.UnexpectedCharacter {
		t.Errorf("Kind = %v, want UnexpectedCharacter", diag.Errors[0].Kind)
	}
}

func TestScanAlwaysTerminatesWithEOF(t *testing.T) {
	diag := &diagnostics.Bag{}
	toks := New([]byte(""), diag).Scan()
	if len(toks) != 1 || toks[0].Type != token.EOF {
		t.Errorf("Scan(\"\") = %v, want a single EOF token", toks)
	}
}
