// Package lox ties the scanner, parser, resolver and interpreter together into
// a session that runs source text.
package lox

import (
	"errors"
	"io"
	"log/slog"

	"github.com/cmdneo/tree_lox/ast"
	"github.com/cmdneo/tree_lox/diag"
	"github.com/cmdneo/tree_lox/interpreter"
	"github.com/cmdneo/tree_lox/parser"
	"github.com/cmdneo/tree_lox/resolver"
)

type Options struct {
	// Program output of print statements.
	Out io.Writer
	// Diagnostics.
	Err io.Writer

	Color bool
	// Print call frames of runtime errors.
	Trace    bool
	MaxDepth int
	Logger   *slog.Logger
}

// Session keeps the global environment alive between runs, definitions made
// by one run are visible to the next.
type Session struct {
	interp  *interpreter.Interpreter
	handler *diag.Handler
	logger  *slog.Logger
}

func NewSession(opts Options) *Session {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Session{
		interp:  interpreter.New(opts.Out, opts.MaxDepth, logger),
		handler: diag.NewHandler(opts.Err, opts.Color, opts.Trace),
		logger:  logger,
	}
}

// Runs the source. Static and runtime errors are reported and recorded in the
// error flags, which are reset on each run. The returned error is non-nil only
// for fatal conditions.
func (s *Session) Run(source string) error {
	s.handler.Reset()

	stmts, ok := s.Parse(source)
	if !ok {
		return nil
	}

	r := resolver.New(s.handler)
	bindings := r.Resolve(stmts)
	s.logger.Debug("resolved", "bindings", len(bindings), "ok", !r.HadError())
	if r.HadError() {
		return nil
	}

	s.interp.AddBindings(bindings)
	err := s.interp.Interpret(stmts)

	var rerr *diag.RuntimeError
	if errors.As(err, &rerr) {
		s.logger.Debug("runtime error", "line", rerr.Token.Line, "frames", len(rerr.Trace))
		s.handler.ReportRuntime(rerr)
		return nil
	}
	return err
}

// Parses the source reporting any errors, the flag is false if there were any.
func (s *Session) Parse(source string) ([]ast.Stmt, bool) {
	p := parser.NewParser(source, s.handler)
	stmts := p.Parse()
	s.logger.Debug("parsed", "statements", len(stmts), "ok", !p.HadError())

	return stmts, !p.HadError()
}

func (s *Session) HadError() bool {
	return s.handler.HadError()
}

func (s *Session) HadRuntimeError() bool {
	return s.handler.HadRuntimeError()
}
