package object

import (
	"fmt"

	"github.com/cmdneo/tree_lox/ast"
	"github.com/cmdneo/tree_lox/value"
)

type Function struct {
	Declaration *ast.Function
	Closure     *Environment
	IsInit      bool // Is class constructor?
}

// Implement the value.Value interface
// --------------------------------------------------------
func (*Function) LoxValue() {}

func (f *Function) String() string {
	return fmt.Sprintf("<fn %v>", f.Declaration.Name.Lexeme)
}

// --------------------------------------------------------

func NewFunction(decl *ast.Function, closure *Environment, isInit bool) *Function {
	return &Function{
		Declaration: decl,
		Closure:     closure,
		IsInit:      isInit,
	}
}

func (f *Function) Name() string {
	return f.Declaration.Name.Lexeme
}

func (f *Function) Arity() int {
	return len(f.Declaration.Params)
}

// Creates a new function bound to the instance.
func (f *Function) Bind(instance *Instance) *Function {
	// Put the instance in a new scope enclosed by the scope which
	// previously enclosed the function's scope, making it a bound method.
	env := NewEnvironment(f.Closure)
	env.Define("this", instance)

	return NewFunction(f.Declaration, env, f.IsInit)
}

func (f *Function) Call(ex Executor, args []value.Value) (value.Value, error) {
	env := NewEnvironment(f.Closure)
	for i, param := range f.Declaration.Params {
		env.Define(param.Lexeme, args[i])
	}

	result, returned := ex.ExecuteBody(f.Declaration.Body, env)

	// A constructor always yields the instance, even on an early return.
	if f.IsInit {
		return f.Closure.GetAt(0, "this"), nil
	}
	if !returned || result == nil {
		return value.Nil{}, nil
	}
	return result, nil
}
