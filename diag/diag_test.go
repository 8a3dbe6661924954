package diag

import (
	"bytes"
	"testing"

	"github.com/cmdneo/tree_lox/token"
)

func TestErrorFormat(t *testing.T) {
	tests := []struct {
		err  *Error
		want string
	}{
		{AtLine(3, "Unexpected character."), "[line 3] Error: Unexpected character."},
		{
			AtToken(token.Token{Kind: token.END_OF_FILE, Line: 7}, "Expect expression."),
			"[line 7] Error at end: Expect expression.",
		},
		{
			AtToken(token.Token{Kind: token.IDENTIFIER, Lexeme: "foo", Line: 2}, "Oops."),
			"[line 2] Error at 'foo': Oops.",
		},
	}

	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("Error() = %q, want %q", got, tt.want)
		}
	}
}

func TestRuntimeErrorFormat(t *testing.T) {
	err := NewRuntimeError(token.Token{Kind: token.SLASH, Lexeme: "/", Line: 4}, "Division by %v.", "zero")

	if got, want := err.Error(), "[line 4] Division by zero."; got != want {
		t.Fatalf("Error() = %q, want %q", got, want)
	}
}

func TestHandlerFlags(t *testing.T) {
	var buf bytes.Buffer
	h := NewHandler(&buf, false, false)

	if h.HadError() || h.HadRuntimeError() {
		t.Fatal("fresh handler has error flags set")
	}

	h.Report(AtLine(1, "a"))
	if !h.HadError() || h.HadRuntimeError() {
		t.Fatal("static error must only set the static flag")
	}

	h.ReportRuntime(NewRuntimeError(token.Token{Line: 2}, "b"))
	if !h.HadRuntimeError() {
		t.Fatal("runtime error flag not set")
	}

	want := "[line 1] Error: a\n[line 2] b\n"
	if buf.String() != want {
		t.Fatalf("output = %q, want %q", buf.String(), want)
	}

	h.Reset()
	if h.HadError() || h.HadRuntimeError() {
		t.Fatal("Reset did not clear the flags")
	}
}

func TestHandlerTrace(t *testing.T) {
	var buf bytes.Buffer
	h := NewHandler(&buf, false, true)

	err := NewRuntimeError(token.Token{Line: 5}, "boom")
	err.Trace = []Frame{{Function: "inner", Line: 5}, {Function: "<script>", Line: 9}}
	h.ReportRuntime(err)

	want := "[line 5] boom\n" +
		"    0: [line 5] in inner\n" +
		"    1: [line 9] in <script>\n"
	if buf.String() != want {
		t.Fatalf("output = %q, want %q", buf.String(), want)
	}
}
