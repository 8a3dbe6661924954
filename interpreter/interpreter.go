// Package interpreter evaluates resolved syntax trees.
package interpreter

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/edwingeng/deque"

	"github.com/cmdneo/tree_lox/ast"
	"github.com/cmdneo/tree_lox/diag"
	"github.com/cmdneo/tree_lox/object"
	"github.com/cmdneo/tree_lox/token"
	"github.com/cmdneo/tree_lox/value"
)

// Returned by Interpret when the call depth exceeds the configured maximum.
// It is fatal and is not reported as a runtime error.
var ErrStackOverflow = errors.New("stack overflow")

const DefaultMaxDepth = 10000

// The top-level implicit function is named '<script>'.
const scriptFrame = "<script>"

type Interpreter struct {
	globals *object.Environment
	// Environment of the code being executed.
	env *object.Environment
	// Scope distances of resolved expressions, globals are absent.
	locals map[ast.Expr]int

	out    io.Writer
	logger *slog.Logger

	// Names of the functions we are currently inside, innermost at the back.
	frames   deque.Deque
	maxDepth int

	// Value carried by the return statement being executed.
	returnValue value.Value
}

func New(out io.Writer, maxDepth int, logger *slog.Logger) *Interpreter {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	globals := object.NewEnvironment(nil)
	for _, native := range object.Natives {
		globals.Define(native.Name, native)
	}

	i := &Interpreter{
		globals:  globals,
		env:      globals,
		locals:   make(map[ast.Expr]int),
		out:      out,
		logger:   logger,
		maxDepth: maxDepth,
	}
	i.resetFrames()
	return i
}

// Adds resolved scope distances, earlier ones are kept since closures created
// by previous runs still refer to their nodes.
func (i *Interpreter) AddBindings(bindings map[ast.Expr]int) {
	for expr, distance := range bindings {
		i.locals[expr] = distance
	}
}

// Executes the statements in the global environment. A runtime error stops
// execution and is returned as a *diag.RuntimeError, the globals defined
// before it stay.
func (i *Interpreter) Interpret(statements []ast.Stmt) (err error) {
	defer func() {
		switch r := recover().(type) {
		case nil:
		case *diag.RuntimeError:
			err = r
		case error:
			if !errors.Is(r, ErrStackOverflow) {
				panic(r)
			}
			err = r
		default:
			panic(r)
		}
	}()

	// Discard the environments and frames left due to any error in the
	// code executed before.
	i.env = i.globals
	i.returnValue = nil
	i.resetFrames()

	for _, stmt := range statements {
		i.execute(stmt)
	}
	return nil
}

// Runs a function body in env, implements object.Executor.
func (i *Interpreter) ExecuteBody(body []ast.Stmt, env *object.Environment) (value.Value, bool) {
	if i.executeBlock(body, env) == ast.ControlReturn {
		result := i.returnValue
		i.returnValue = nil
		return result, true
	}
	return nil, false
}

// Statement executors
// --------------------------------------------------------
func (i *Interpreter) VisitBlockStmt(s *ast.Block) ast.ControlKind {
	return i.executeBlock(s.Statements, object.NewEnvironment(i.env))
}

func (i *Interpreter) VisitExpressionStmt(s *ast.Expression) ast.ControlKind {
	i.evaluate(s.Expression)
	return ast.ControlNormal
}

func (i *Interpreter) VisitPrintStmt(s *ast.Print) ast.ControlKind {
	fmt.Fprintln(i.out, i.evaluate(s.Expression).String())
	return ast.ControlNormal
}

func (i *Interpreter) VisitReturnStmt(s *ast.Return) ast.ControlKind {
	var result value.Value = value.Nil{}
	if s.Value != nil {
		result = i.evaluate(s.Value)
	}

	i.returnValue = result
	return ast.ControlReturn
}

func (i *Interpreter) VisitIfStmt(s *ast.If) ast.ControlKind {
	if value.Truthy(i.evaluate(s.Condition)) {
		return i.execute(s.ThenBranch)
	} else if s.ElseBranch != nil {
		return i.execute(s.ElseBranch)
	}
	return ast.ControlNormal
}

func (i *Interpreter) VisitWhileStmt(s *ast.While) ast.ControlKind {
	for value.Truthy(i.evaluate(s.Condition)) {
		if i.execute(s.Body) == ast.ControlReturn {
			return ast.ControlReturn
		}
	}
	return ast.ControlNormal
}

func (i *Interpreter) VisitVarStmt(s *ast.Var) ast.ControlKind {
	var val value.Value = value.Nil{}
	if s.Initializer != nil {
		val = i.evaluate(s.Initializer)
	}

	i.env.Define(s.Name.Lexeme, val)
	return ast.ControlNormal
}

func (i *Interpreter) VisitFunctionStmt(s *ast.Function) ast.ControlKind {
	fun := object.NewFunction(s, i.env, false)
	i.env.Define(s.Name.Lexeme, fun)
	return ast.ControlNormal
}

func (i *Interpreter) VisitClassStmt(s *ast.Class) ast.ControlKind {
	var superclass *object.Class
	if s.Superclass != nil {
		class, ok := i.evaluate(s.Superclass).(*object.Class)
		if !ok {
			panic(i.makeError(s.Superclass.Name, "Superclass must be a class."))
		}
		superclass = class
	}

	i.env.Define(s.Name.Lexeme, value.Nil{})

	// Methods of a subclass close over an extra scope holding 'super'.
	if superclass != nil {
		i.env = object.NewEnvironment(i.env)
		i.env.Define("super", superclass)
	}

	methods := make(map[string]*object.Function, len(s.Methods))
	for _, method := range s.Methods {
		isInit := method.Name.Lexeme == "init"
		methods[method.Name.Lexeme] = object.NewFunction(method, i.env, isInit)
	}

	class := object.NewClass(s.Name.Lexeme, superclass, methods)

	if superclass != nil {
		i.env = i.env.Enclosing()
	}

	i.env.Assign(s.Name.Lexeme, class)
	return ast.ControlNormal
}

// Expression evaluators
// --------------------------------------------------------
func (i *Interpreter) VisitAssignExpr(e *ast.Assign) any {
	val := i.evaluate(e.Value)

	if distance, ok := i.locals[e]; ok {
		i.env.AssignAt(distance, e.Name.Lexeme, val)
	} else if !i.globals.Assign(e.Name.Lexeme, val) {
		panic(i.makeError(e.Name, "Undefined variable '%v'.", e.Name.Lexeme))
	}

	return val
}

// All three operands are evaluated before one is selected.
func (i *Interpreter) VisitTernaryExpr(e *ast.Ternary) any {
	cond := i.evaluate(e.Left)
	middle := i.evaluate(e.Middle)
	right := i.evaluate(e.Right)

	if value.Truthy(cond) {
		return middle
	}
	return right
}

func (i *Interpreter) VisitLogicalExpr(e *ast.Logical) any {
	left := i.evaluate(e.Left)

	// Return the value of the expression which determines the truth value of
	// the logical expression and not a boolean.
	switch e.Operator.Kind {
	case token.OR:
		if value.Truthy(left) {
			return left
		}

	case token.AND:
		if !value.Truthy(left) {
			return left
		}

	default:
		panic("Invalid operator in logical expression.")
	}

	return i.evaluate(e.Right)
}

func (i *Interpreter) VisitBinaryExpr(e *ast.Binary) any {
	left := i.evaluate(e.Left)
	right := i.evaluate(e.Right)

	var op func(value.Value, value.Value) (value.Value, bool)

	switch e.Operator.Kind {
	case token.EQUAL_EQUAL:
		return value.Boolean(value.EqualTo(left, right))
	case token.BANG_EQUAL:
		return value.Boolean(!value.EqualTo(left, right))

	case token.PLUS:
		result, ok := value.Add(left, right)
		if !ok {
			panic(i.makeError(e.Operator,
				"Operands (%v, %v) must be numbers or strings.", left, right))
		}
		return result

	case token.SLASH:
		result, ok := value.Div(left, right)
		if !ok {
			panic(i.numbersError(e.Operator, left, right))
		}
		if value.IsZero(right) {
			panic(i.makeError(e.Operator, "Division by zero."))
		}
		return result

	case token.MINUS:
		op = value.Sub
	case token.STAR:
		op = value.Mul
	case token.GREATER:
		op = value.Greater
	case token.GREATER_EQUAL:
		op = value.GreaterEqual
	case token.LESS:
		op = value.Less
	case token.LESS_EQUAL:
		op = value.LessEqual

	default:
		panic("Invalid operator token in binary expression.")
	}

	result, ok := op(left, right)
	if !ok {
		panic(i.numbersError(e.Operator, left, right))
	}
	return result
}

func (i *Interpreter) VisitUnaryExpr(e *ast.Unary) any {
	right := i.evaluate(e.Right)

	switch e.Operator.Kind {
	case token.BANG:
		return value.Boolean(!value.Truthy(right))

	case token.MINUS:
		result, ok := value.Neg(right)
		if !ok {
			panic(i.makeError(e.Operator, "Operand '%v' must be a number.", right))
		}
		return result

	default:
		panic("Invalid operator token in unary expression.")
	}
}

func (i *Interpreter) VisitCallExpr(e *ast.Call) any {
	callee := i.evaluate(e.Callee)

	// Arguments are evaluated left to right before the callee is checked.
	args := make([]value.Value, 0, len(e.Arguments))
	for _, arg := range e.Arguments {
		args = append(args, i.evaluate(arg))
	}

	fun, ok := callee.(object.Callable)
	if !ok {
		panic(i.makeError(e.Paren, "Can only call functions and classes."))
	}

	if fun.Arity() != len(args) {
		panic(i.makeError(e.Paren,
			"Expected %v arguments but got %v.", fun.Arity(), len(args)))
	}

	result, err := i.call(fun, e.Paren, args)
	if err != nil {
		panic(i.makeError(e.Paren, "%v", err))
	}
	return result
}

func (i *Interpreter) VisitGetExpr(e *ast.Get) any {
	instance, ok := i.evaluate(e.Object).(*object.Instance)
	if !ok {
		panic(i.makeError(e.Name, "Only instances have properties."))
	}

	if v, ok := instance.Get(e.Name.Lexeme); ok {
		return v
	}
	panic(i.makeError(e.Name, "Undefined property '%v'.", e.Name.Lexeme))
}

func (i *Interpreter) VisitSetExpr(e *ast.Set) any {
	instance, ok := i.evaluate(e.Object).(*object.Instance)
	if !ok {
		panic(i.makeError(e.Name, "Only instances have fields."))
	}

	val := i.evaluate(e.Value)
	instance.Set(e.Name.Lexeme, val)
	return val
}

func (i *Interpreter) VisitSuperExpr(e *ast.Super) any {
	// 'this' is always one scope inside the scope holding 'super'.
	distance := i.locals[e]
	superclass := i.env.GetAt(distance, "super").(*object.Class)
	instance := i.env.GetAt(distance-1, "this").(*object.Instance)

	method := superclass.FindMethod(e.Method.Lexeme)
	if method == nil {
		panic(i.makeError(e.Method, "Undefined property '%v'.", e.Method.Lexeme))
	}
	return method.Bind(instance)
}

func (i *Interpreter) VisitThisExpr(e *ast.This) any {
	return i.lookUpVariable(e.Keyword, e)
}

func (i *Interpreter) VisitGroupingExpr(e *ast.Grouping) any {
	return i.evaluate(e.Expression)
}

func (i *Interpreter) VisitLiteralExpr(e *ast.Literal) any {
	return e.Value
}

func (i *Interpreter) VisitVariableExpr(e *ast.Variable) any {
	return i.lookUpVariable(e.Name, e)
}

// Error reporting methods
// --------------------------------------------------------

// Makes a runtime error located in the function currently executing.
// Call sites append to its trace while it unwinds.
func (i *Interpreter) makeError(tok token.Token, format string, args ...any) *diag.RuntimeError {
	err := diag.NewRuntimeError(tok, format, args...)
	err.Trace = append(err.Trace, diag.Frame{Function: i.currentFrame(), Line: tok.Line})
	return err
}

func (i *Interpreter) numbersError(op token.Token, left, right value.Value) *diag.RuntimeError {
	return i.makeError(op, "Operands (%v, %v) must be numbers.", left, right)
}

// Utility methods
// --------------------------------------------------------
func (i *Interpreter) execute(s ast.Stmt) ast.ControlKind {
	return s.Accept(i)
}

func (i *Interpreter) evaluate(e ast.Expr) value.Value {
	return e.Accept(i).(value.Value)
}

func (i *Interpreter) executeBlock(statements []ast.Stmt, env *object.Environment) ast.ControlKind {
	// Use supplied environment to execute code and later restore the old one.
	oldEnv := i.env
	i.env = env
	defer func() {
		i.env = oldEnv
	}()

	for _, stmt := range statements {
		if i.execute(stmt) == ast.ControlReturn {
			return ast.ControlReturn
		}
	}
	return ast.ControlNormal
}

func (i *Interpreter) lookUpVariable(name token.Token, e ast.Expr) value.Value {
	if distance, ok := i.locals[e]; ok {
		return i.env.GetAt(distance, name.Lexeme)
	}

	if v, ok := i.globals.Get(name.Lexeme); ok {
		return v
	}
	panic(i.makeError(name, "Undefined variable '%v'.", name.Lexeme))
}

// Calls fun with a new frame pushed. A runtime error unwinding through the
// call gets the call site added to its trace.
func (i *Interpreter) call(fun object.Callable, paren token.Token, args []value.Value) (value.Value, error) {
	if i.frames.Len() > i.maxDepth {
		panic(ErrStackOverflow)
	}

	name := frameName(fun)
	i.frames.PushBack(name)
	i.logger.Debug("call", "function", name, "line", paren.Line, "depth", i.frames.Len()-1)

	defer func() {
		i.frames.PopBack()

		switch r := recover().(type) {
		case nil:
			i.logger.Debug("return", "function", name)
		case *diag.RuntimeError:
			// Print the call site(line and caller) of the function.
			r.Trace = append(r.Trace, diag.Frame{Function: i.currentFrame(), Line: paren.Line})
			panic(r) // re-throw the error
		default:
			panic(r)
		}
	}()

	return fun.Call(i, args)
}

func (i *Interpreter) currentFrame() string {
	return i.frames.Back().(string)
}

func (i *Interpreter) resetFrames() {
	i.frames = deque.NewDeque()
	i.frames.PushBack(scriptFrame)
}

func frameName(fun object.Callable) string {
	switch f := fun.(type) {
	case *object.Function:
		return f.Name()
	case *object.Class:
		return f.Name
	case *object.Native:
		return f.Name
	default:
		return fun.String()
	}
}
