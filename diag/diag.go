// Package diag formats and reports the diagnostics produced while running a
// script: static errors found by the scanner, parser and resolver, and runtime
// errors raised by the interpreter.
package diag

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/cmdneo/tree_lox/token"
)

// A static (lexical, syntax or resolution) error.
type Error struct {
	Line    int
	Where   string // "", " at end" or " at 'lexeme'"
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("[line %v] Error%v: %v", e.Line, e.Where, e.Message)
}

func AtLine(line int, message string) *Error {
	return &Error{Line: line, Message: message}
}

func AtToken(tok token.Token, message string) *Error {
	where := " at '" + tok.Lexeme + "'"
	if tok.Kind == token.END_OF_FILE {
		where = " at end"
	}

	return &Error{Line: tok.Line, Where: where, Message: message}
}

// A call frame active when a runtime error unwound through it.
type Frame struct {
	Function string
	Line     int
}

type RuntimeError struct {
	Token   token.Token
	Message string
	// Innermost frame first.
	Trace []Frame
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("[line %v] %v", e.Token.Line, e.Message)
}

func NewRuntimeError(tok token.Token, format string, args ...any) *RuntimeError {
	return &RuntimeError{Token: tok, Message: fmt.Sprintf(format, args...)}
}

type Reporter interface {
	Report(err *Error)
}

// Handler writes diagnostics and remembers which kind of error has been seen
// since the last Reset.
type Handler struct {
	out       io.Writer
	paint     *color.Color
	showTrace bool

	hadError        bool
	hadRuntimeError bool
}

func NewHandler(out io.Writer, useColor, showTrace bool) *Handler {
	paint := color.New(color.FgRed, color.Bold)
	if useColor {
		paint.EnableColor()
	} else {
		paint.DisableColor()
	}

	return &Handler{out: out, paint: paint, showTrace: showTrace}
}

func (h *Handler) Report(err *Error) {
	h.hadError = true
	h.paint.Fprintln(h.out, err.Error())
}

func (h *Handler) ReportRuntime(err *RuntimeError) {
	h.hadRuntimeError = true
	h.paint.Fprintln(h.out, err.Error())

	if !h.showTrace {
		return
	}
	for i, frame := range err.Trace {
		fmt.Fprintf(h.out, "%5v: [line %v] in %v\n", i, frame.Line, frame.Function)
	}
}

func (h *Handler) HadError() bool        { return h.hadError }
func (h *Handler) HadRuntimeError() bool { return h.hadRuntimeError }

func (h *Handler) Reset() {
	h.hadError = false
	h.hadRuntimeError = false
}
