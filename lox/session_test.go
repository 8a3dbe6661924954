package lox

import (
	"bytes"
	"errors"
	"testing"

	"github.com/cmdneo/tree_lox/interpreter"
)

type golden struct {
	name   string
	src    string
	stdout string
	stderr string

	hadError        bool
	hadRuntimeError bool
}

func newTestSession(trace bool) (*Session, *bytes.Buffer, *bytes.Buffer) {
	var out, errs bytes.Buffer
	s := NewSession(Options{Out: &out, Err: &errs, Trace: trace, MaxDepth: 200})
	return s, &out, &errs
}

func check(t *testing.T, tt golden) {
	t.Helper()
	s, out, errs := newTestSession(false)

	if err := s.Run(tt.src); err != nil {
		t.Fatalf("%v: fatal error %v", tt.name, err)
	}
	if out.String() != tt.stdout {
		t.Errorf("%v: stdout\n got: %q\nwant: %q", tt.name, out.String(), tt.stdout)
	}
	if errs.String() != tt.stderr {
		t.Errorf("%v: stderr\n got: %q\nwant: %q", tt.name, errs.String(), tt.stderr)
	}
	if s.HadError() != tt.hadError || s.HadRuntimeError() != tt.hadRuntimeError {
		t.Errorf("%v: flags = (%v, %v), want (%v, %v)", tt.name,
			s.HadError(), s.HadRuntimeError(), tt.hadError, tt.hadRuntimeError)
	}
}

func TestGoldenPrograms(t *testing.T) {
	tests := []golden{
		{
			name:   "arithmetic",
			src:    `print 1 + 1; print "a" + "b"; print "n=" + 1; print 3.5;`,
			stdout: "2\nab\nn=1\n3.5\n",
		},
		{
			name:   "block scoping",
			src:    `var a = "outer"; { var a = "inner"; print a; } print a;`,
			stdout: "inner\nouter\n",
		},
		{
			name: "closure counter",
			src: `fun makeCounter() { var i = 0; fun inc(){ i = i + 1; return i; } return inc; }
var c = makeCounter(); print c(); print c();`,
			stdout: "1\n2\n",
		},
		{
			name:   "global self reference",
			src:    "var a = 1; var a = a; print a;",
			stdout: "1\n",
		},
		{
			name:     "local self reference",
			src:      "{ var a = a; }",
			stderr:   "[line 1] Error at 'a': Can't read local variable in its own initializer.\n",
			hadError: true,
		},
		{
			name: "super dispatch",
			src: `class A { greet(){ print "A"; } }
class B < A { greet(){ super.greet(); print "B"; } }
B().greet();`,
			stdout: "A\nB\n",
		},
		{
			name:            "division by zero halts the unit",
			src:             "print 1; print 1/0; print 2;",
			stdout:          "1\n",
			stderr:          "[line 1] Division by zero.\n",
			hadRuntimeError: true,
		},
		{
			name:            "call a non-callable",
			src:             `"x"();`,
			stderr:          "[line 1] Can only call functions and classes.\n",
			hadRuntimeError: true,
		},
		{
			name:            "arity mismatch",
			src:             "fun f(a, b) {}\nf(1);",
			stderr:          "[line 2] Expected 2 arguments but got 1.\n",
			hadRuntimeError: true,
		},
		{
			name: "parse errors stop execution",
			// Resolution is skipped too, the misplaced return is not reported.
			src:      "print 1;\nprint (;\nreturn 2;",
			stderr:   "[line 2] Error at ';': Expect expression.\n",
			hadError: true,
		},
		{
			name:     "resolver errors stop execution",
			src:      "print 1; return 2;",
			stderr:   "[line 1] Error at 'return': Can't return from top-level code.\n",
			hadError: true,
		},
		{
			name: "natives",
			src: `class A {} class B < A {}
var b = B();
setattr(b, "f", 3);
print getattr(b, "f") + 1;
print isinstance(b, A);
print str(2) + str(nil);
print clock() > 0;`,
			stdout: "4\ntrue\n2nil\ntrue\n",
		},
	}

	for _, tt := range tests {
		check(t, tt)
	}
}

func TestDefinitionsPersistAndFlagsReset(t *testing.T) {
	s, out, _ := newTestSession(false)

	s.Run("var a = 1;")
	s.Run("print nope;")
	if !s.HadRuntimeError() {
		t.Fatal("runtime error not flagged")
	}

	s.Run("print a;")
	if s.HadRuntimeError() || s.HadError() {
		t.Fatal("flags not reset between runs")
	}

	// Closures made by earlier runs keep their bindings.
	s.Run("fun f() { var x = 2; fun g() { return x; } return g; } var g = f();")
	s.Run("print g();")

	if out.String() != "1\n2\n" {
		t.Fatalf("output = %q", out.String())
	}
}

func TestRuntimeTrace(t *testing.T) {
	s, _, errs := newTestSession(true)

	s.Run("fun f() {\n  return -nil;\n}\nf();")

	want := "[line 2] Operand 'nil' must be a number.\n" +
		"    0: [line 2] in f\n" +
		"    1: [line 4] in <script>\n"
	if errs.String() != want {
		t.Fatalf("got:\n%v\nwant:\n%v", errs.String(), want)
	}
}

func TestStackOverflowIsReturned(t *testing.T) {
	s, _, _ := newTestSession(false)

	err := s.Run("fun f(n) { return f(n + 1); } f(0);")
	if !errors.Is(err, interpreter.ErrStackOverflow) {
		t.Fatalf("got %v", err)
	}
	if s.HadRuntimeError() {
		t.Fatalf("stack overflow reported as a runtime error")
	}
}

func TestParse(t *testing.T) {
	s, _, errs := newTestSession(false)

	stmts, ok := s.Parse("print 1; var x = 2;")
	if !ok || len(stmts) != 2 {
		t.Fatalf("parsed %v statements, ok = %v", len(stmts), ok)
	}

	if _, ok := s.Parse("print"); ok || errs.Len() == 0 {
		t.Fatalf("missing expression not reported")
	}
}
