package parser

import (
	"bytes"
	"reflect"
	"strconv"
	"testing"

	"github.com/cmdneo/tree_lox/diag"
	"github.com/cmdneo/tree_lox/token"
	"github.com/cmdneo/tree_lox/value"
)

func scan(t *testing.T, src string) ([]token.Token, string) {
	t.Helper()
	var out bytes.Buffer
	s := NewScanner(src, diag.NewHandler(&out, false, false))

	tokens := make([]token.Token, 0)
	for {
		tok := s.NextToken()
		tokens = append(tokens, tok)
		if tok.Kind == token.END_OF_FILE {
			return tokens, out.String()
		}
	}
}

func kinds(tokens []token.Token) []token.TokenKind {
	out := make([]token.TokenKind, 0, len(tokens))
	for _, tok := range tokens {
		out = append(out, tok.Kind)
	}
	return out
}

func TestScannerOperators(t *testing.T) {
	tokens, errs := scan(t, "(){},.-+; / * ?: ! != = == < <= > >=")
	if errs != "" {
		t.Fatalf("unexpected errors: %v", errs)
	}

	want := []token.TokenKind{
		token.LEFT_PAREN, token.RIGHT_PAREN, token.LEFT_BRACE, token.RIGHT_BRACE,
		token.COMMA, token.DOT, token.MINUS, token.PLUS, token.SEMICOLON,
		token.SLASH, token.STAR, token.QUESTION, token.COLON,
		token.BANG, token.BANG_EQUAL, token.EQUAL, token.EQUAL_EQUAL,
		token.LESS, token.LESS_EQUAL, token.GREATER, token.GREATER_EQUAL,
		token.END_OF_FILE,
	}
	if got := kinds(tokens); !reflect.DeepEqual(got, want) {
		t.Fatalf("\nwant: %v\ngot:  %v", want, got)
	}
}

func TestScannerKeywordsAndIdentifiers(t *testing.T) {
	tokens, _ := scan(t, "var _x1 = nil; class classy fun funny this super")

	want := []token.TokenKind{
		token.VAR, token.IDENTIFIER, token.EQUAL, token.NIL, token.SEMICOLON,
		token.CLASS, token.IDENTIFIER, token.FUN, token.IDENTIFIER,
		token.THIS, token.SUPER, token.END_OF_FILE,
	}
	if got := kinds(tokens); !reflect.DeepEqual(got, want) {
		t.Fatalf("\nwant: %v\ngot:  %v", want, got)
	}
	if tokens[1].Lexeme != "_x1" {
		t.Errorf("identifier lexeme = %q", tokens[1].Lexeme)
	}
}

func TestScannerLiterals(t *testing.T) {
	tokens, _ := scan(t, `12 3.25 "hi there" 7.`)

	if tokens[0].Literal != value.Number(12) {
		t.Errorf("12 scanned as %#v", tokens[0].Literal)
	}
	if tokens[1].Literal != value.Number(3.25) {
		t.Errorf("3.25 scanned as %#v", tokens[1].Literal)
	}
	if tokens[2].Literal != value.String("hi there") {
		t.Errorf("string scanned as %#v", tokens[2].Literal)
	}
	// A trailing '.' is not part of the number.
	if tokens[3].Lexeme != "7" || tokens[4].Kind != token.DOT {
		t.Errorf("7. scanned as %v, %v", tokens[3], tokens[4])
	}
}

func TestScannerCommentsAndLines(t *testing.T) {
	src := "// line comment\n" +
		"a /* block\n" +
		"comment */ b\n" +
		"/* one */ /* two */ c"
	tokens, errs := scan(t, src)
	if errs != "" {
		t.Fatalf("unexpected errors: %v", errs)
	}

	want := []struct {
		lexeme string
		line   int
	}{{"a", 2}, {"b", 3}, {"c", 4}}

	if len(tokens) != len(want)+1 {
		t.Fatalf("got %v tokens: %v", len(tokens), tokens)
	}
	for i, w := range want {
		if tokens[i].Lexeme != w.lexeme || tokens[i].Line != w.line {
			t.Errorf("token %v = %q on line %v, want %q on line %v",
				i, tokens[i].Lexeme, tokens[i].Line, w.lexeme, w.line)
		}
	}
}

func TestScannerBlockCommentsDoNotNest(t *testing.T) {
	tokens, _ := scan(t, "/* a /* b */ c */")

	want := []token.TokenKind{token.IDENTIFIER, token.STAR, token.SLASH, token.END_OF_FILE}
	if got := kinds(tokens); !reflect.DeepEqual(got, want) {
		t.Fatalf("\nwant: %v\ngot:  %v", want, got)
	}
}

func TestScannerReportsAllBadCharacters(t *testing.T) {
	tokens, errs := scan(t, "a @ b\n# c")

	want := "[line 1] Error: Unexpected character.\n" +
		"[line 2] Error: Unexpected character.\n"
	if errs != want {
		t.Fatalf("errors = %q, want %q", errs, want)
	}

	wantKinds := []token.TokenKind{
		token.IDENTIFIER, token.IDENTIFIER, token.IDENTIFIER, token.END_OF_FILE,
	}
	if got := kinds(tokens); !reflect.DeepEqual(got, wantKinds) {
		t.Fatalf("\nwant: %v\ngot:  %v", wantKinds, got)
	}
}

func TestScannerMultiByteCharacterReportedOnce(t *testing.T) {
	tokens, errs := scan(t, "print \"é\"; é;\n日本")

	want := "[line 1] Error: Unexpected character.\n" +
		"[line 2] Error: Unexpected character.\n" +
		"[line 2] Error: Unexpected character.\n"
	if errs != want {
		t.Fatalf("errors = %q, want %q", errs, want)
	}

	// Strings may hold any character.
	if tokens[1].Literal != value.String("é") {
		t.Errorf("string scanned as %#v", tokens[1].Literal)
	}
	wantKinds := []token.TokenKind{
		token.PRINT, token.STRING, token.SEMICOLON, token.SEMICOLON, token.END_OF_FILE,
	}
	if got := kinds(tokens); !reflect.DeepEqual(got, wantKinds) {
		t.Fatalf("\nwant: %v\ngot:  %v", wantKinds, got)
	}
}

func TestScannerUnterminatedString(t *testing.T) {
	tokens, errs := scan(t, "print \"oops\nmore")

	if errs != "[line 2] Error: Unterminated string.\n" {
		t.Fatalf("errors = %q", errs)
	}

	want := []token.TokenKind{token.PRINT, token.END_OF_FILE}
	if got := kinds(tokens); !reflect.DeepEqual(got, want) {
		t.Fatalf("\nwant: %v\ngot:  %v", want, got)
	}
}

// Regenerating source from a number literal and scanning it again yields the
// same number.
func TestNumberLiteralRoundTrip(t *testing.T) {
	sources := []string{"0", "7", "1.5", "123.456", "0.001", "98765432.125", "3.0", "10.50"}

	for _, src := range sources {
		first, _ := scan(t, src)
		n := first[0].Literal.(value.Number)

		again, errs := scan(t, n.String())
		if errs != "" {
			t.Fatalf("rescanning %q: %v", n.String(), errs)
		}
		if again[0].Literal != n {
			t.Errorf("%q -> %v -> %v", src, n, again[0].Literal)
		}

		want, _ := strconv.ParseFloat(src, 64)
		if float64(n) != want {
			t.Errorf("%q scanned as %v", src, float64(n))
		}
	}
}
