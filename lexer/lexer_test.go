package lexer

import "testing"

func tokenTypes(t *testing.T, src string) []TokenType {
	t.Helper()
	toks, err := New(src).Tokenize()
	if err != nil {
		t.Fatalf("Tokenize(%q) failed: %v", src, err)
	}
	types := make([]TokenType, len(toks))
	for i, tok := range toks {
		types[i] = tok.Type
	}
	return types
}

func TestTokenizeArithmeticExpression(t *testing.T) {
	got := tokenTypes(t, "1 + 2 * 3")
	want := []TokenType{INT, PLUS, INT, STAR, INT, NEWLINE, EOF}
	assertTypes(t, got, want)
}

func TestTokenizeKeywordsNotNames(t *testing.T) {
	toks, err := New("if x and not y").Tokenize()
	if err != nil {
		t.Fatalf("Tokenize failed: %v", err)
	}
	want := []TokenType{KwIf, NAME, KwAnd, KwNot, NAME, NEWLINE, EOF}
	got := make([]TokenType, len(toks))
	for i, tok := range toks {
		got[i] = tok.Type
	}
	assertTypes(t, got, want)
}

func TestTokenizeDefLambdaClassAreReservedKeywords(t *testing.T) {
	// def/lambda/class must tokenize as keywords (not NAME) even though the
	// parser never builds statements out of them.
	got := tokenTypes(t, "def lambda class")
	want := []TokenType{KwDef, KwLambda, KwClass, NEWLINE, EOF}
	assertTypes(t, got, want)
}

func TestTokenizeIndentDedent(t *testing.T) {
	src := "if x:\n    y\nz\n"
	got := tokenTypes(t, src)
	want := []TokenType{KwIf, NAME, COLON, NEWLINE, INDENT, NAME, NEWLINE, DEDENT, NAME, NEWLINE, EOF}
	assertTypes(t, got, want)
}

func TestTokenizeStringLiteral(t *testing.T) {
	toks, err := New(`"hello"`).Tokenize()
	if err != nil {
		t.Fatalf("Tokenize failed: %v", err)
	}
	if toks[0].Type != STRING {
		t.Fatalf("expected STRING token, got %v", toks[0].Type)
	}
	if toks[0].Text != "hello" {
		t.Errorf("expected token text %q, got %q", "hello", toks[0].Text)
	}
}

func TestTokenizeUnterminatedStringIsLexError(t *testing.T) {
	_, err := New(`"unterminated`).Tokenize()
	if err == nil {
		t.Fatal("expected an error for an unterminated string literal")
	}
}

func TestTokenizeCompoundOperators(t *testing.T) {
	got := tokenTypes(t, "x += 1")
	want := []TokenType{NAME, PLUSEQ, INT, NEWLINE, EOF}
	assertTypes(t, got, want)
}

func assertTypes(t *testing.T, got, want []TokenType) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("token count mismatch: got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token[%d] = %v, want %v (full: got=%v want=%v)", i, got[i], want[i], got, want)
		}
	}
}
