package object

import "github.com/cmdneo/tree_lox/value"

// Environment maps names to values for one scope. Closures keep a reference
// to the environment they were created in, so it outlives the block or call
// that made it.
type Environment struct {
	enclosing *Environment
	values    map[string]value.Value
}

const initialEnvSize int = 4

func NewEnvironment(enclosing *Environment) *Environment {
	return &Environment{
		enclosing: enclosing,
		values:    make(map[string]value.Value, initialEnvSize),
	}
}

func (e *Environment) Enclosing() *Environment {
	return e.enclosing
}

// Defines or redefines the name in this scope.
func (e *Environment) Define(name string, v value.Value) {
	e.values[name] = v
}

// Looks the name up in this scope and then in each enclosing one.
func (e *Environment) Get(name string) (value.Value, bool) {
	for env := e; env != nil; env = env.enclosing {
		if v, ok := env.values[name]; ok {
			return v, true
		}
	}
	return nil, false
}

// Assigns to the nearest existing binding of name.
// Returns false if the name is not bound anywhere in the chain.
func (e *Environment) Assign(name string, v value.Value) bool {
	for env := e; env != nil; env = env.enclosing {
		if _, ok := env.values[name]; ok {
			env.values[name] = v
			return true
		}
	}
	return false
}

// Return the value stored in the distance number of enclosing scopes away.
// The variable being accessed must exist in that scope.
func (e *Environment) GetAt(distance int, name string) value.Value {
	return e.ancestor(distance).values[name]
}

// Assign to the variable stored in the distance number of enclosing scopes
// away.
func (e *Environment) AssignAt(distance int, name string, v value.Value) {
	e.ancestor(distance).values[name] = v
}

func (e *Environment) ancestor(distance int) *Environment {
	ret := e

	for i := 0; i < distance; i++ {
		ret = ret.enclosing
	}

	return ret
}
