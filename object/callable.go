// Package object holds the runtime object model: environments, functions,
// classes, instances and native functions.
package object

import (
	"github.com/cmdneo/tree_lox/ast"
	"github.com/cmdneo/tree_lox/value"
)

// Functions, classes and natives can be called.
type Callable interface {
	value.Value
	Arity() int
	// Arity is verified by the caller. A non-nil error is a failure inside a
	// native function which the caller reports at the call site.
	Call(ex Executor, args []value.Value) (value.Value, error)
}

// Executor runs function bodies, it is implemented by the interpreter.
type Executor interface {
	// Executes the statements in env and reports whether a return statement
	// completed them, along with the returned value.
	ExecuteBody(body []ast.Stmt, env *Environment) (value.Value, bool)
}
