package ast

// Outcome of executing a statement. A ControlReturn unwinds enclosing blocks
// and loops until the function call that runs the body; the returned value is
// held by the executor.
type ControlKind uint8

const (
	ControlNormal ControlKind = iota
	ControlReturn
)
