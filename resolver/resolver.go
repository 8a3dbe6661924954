// Package resolver performs the static pass run between parsing and execution.
// It computes, for every reference to a local variable, how many scopes out
// the variable lives, and reports misuse of declarations, 'this', 'super' and
// 'return'.
package resolver

import (
	"github.com/cmdneo/tree_lox/ast"
	"github.com/cmdneo/tree_lox/diag"
	"github.com/cmdneo/tree_lox/token"
	"github.com/cmdneo/tree_lox/util"
)

// Scope distance of each resolved expression, keyed by the node itself.
// 0 is the innermost scope. Expressions not present refer to globals.
type Bindings map[ast.Expr]int

type Resolver struct {
	reporter diag.Reporter
	bindings Bindings

	// Innermost scope last. Globals are not tracked.
	scopes []scope
	// Current class type
	currentClass classKind
	// Current function type
	currentFunction functionKind

	hadError bool
}

func New(reporter diag.Reporter) *Resolver {
	return &Resolver{
		reporter:        reporter,
		bindings:        make(Bindings),
		scopes:          make([]scope, 0, 8),
		currentClass:    kindNoClass,
		currentFunction: kindNoFunction,
	}
}

// Resolves the statements and returns the bindings found so far, the result
// must not be executed if HadError reports true.
func (r *Resolver) Resolve(stmts []ast.Stmt) Bindings {
	r.resolveStmts(stmts)
	return r.bindings
}

func (r *Resolver) HadError() bool {
	return r.hadError
}

// Statements
// --------------------------------------------------------
func (r *Resolver) VisitBlockStmt(s *ast.Block) ast.ControlKind {
	r.pushScope()
	r.resolveStmts(s.Statements)
	r.popScope()
	return ast.ControlNormal
}

func (r *Resolver) VisitExpressionStmt(s *ast.Expression) ast.ControlKind {
	r.resolveExpr(s.Expression)
	return ast.ControlNormal
}

func (r *Resolver) VisitPrintStmt(s *ast.Print) ast.ControlKind {
	r.resolveExpr(s.Expression)
	return ast.ControlNormal
}

func (r *Resolver) VisitReturnStmt(s *ast.Return) ast.ControlKind {
	if r.currentFunction == kindNoFunction {
		r.error(s.Keyword, "Can't return from top-level code.")
	}

	if s.Value != nil {
		if r.currentFunction == kindInitializer {
			r.error(s.Keyword, "Can't return a value from an initializer.")
		}
		r.resolveExpr(s.Value)
	}

	return ast.ControlNormal
}

func (r *Resolver) VisitIfStmt(s *ast.If) ast.ControlKind {
	r.resolveExpr(s.Condition)
	r.resolveStmt(s.ThenBranch)
	if s.ElseBranch != nil {
		r.resolveStmt(s.ElseBranch)
	}
	return ast.ControlNormal
}

func (r *Resolver) VisitWhileStmt(s *ast.While) ast.ControlKind {
	r.resolveExpr(s.Condition)
	r.resolveStmt(s.Body)
	return ast.ControlNormal
}

func (r *Resolver) VisitVarStmt(s *ast.Var) ast.ControlKind {
	r.declare(s.Name)
	if s.Initializer != nil {
		r.resolveExpr(s.Initializer)
	}
	// A variable is defined only after its initialization is complete.
	r.define(s.Name)
	return ast.ControlNormal
}

func (r *Resolver) VisitFunctionStmt(s *ast.Function) ast.ControlKind {
	// A function can refer to itself inside it.
	r.declare(s.Name)
	r.define(s.Name)

	r.resolveFunction(s, kindFunction)
	return ast.ControlNormal
}

func (r *Resolver) VisitClassStmt(s *ast.Class) ast.ControlKind {
	// Track if inside a class.
	oldClass := r.currentClass
	r.currentClass = kindClass
	defer func() { r.currentClass = oldClass }()

	r.declare(s.Name)
	r.define(s.Name)

	if s.Superclass != nil {
		if s.Superclass.Name.Lexeme == s.Name.Lexeme {
			r.error(s.Superclass.Name, "A class can't inherit from itself.")
		}

		r.currentClass = kindSubclass
		r.resolveExpr(s.Superclass)

		// 'super' lives in a scope enclosing the scope holding 'this'.
		r.pushScope()
		util.Last(r.scopes).define("super")
		defer r.popScope()
	}

	// 'this' lives in a scope enclosing each method's scope.
	r.pushScope()
	util.Last(r.scopes).define("this")
	defer r.popScope()

	for _, method := range s.Methods {
		kind := kindMethod
		if method.Name.Lexeme == "init" {
			kind = kindInitializer
		}
		r.resolveFunction(method, kind)
	}

	return ast.ControlNormal
}

// Expressions
// --------------------------------------------------------
func (r *Resolver) VisitAssignExpr(e *ast.Assign) any {
	r.resolveExpr(e.Value)
	r.resolveLocal(e, e.Name)
	return nil
}

func (r *Resolver) VisitTernaryExpr(e *ast.Ternary) any {
	r.resolveExpr(e.Left)
	r.resolveExpr(e.Middle)
	r.resolveExpr(e.Right)
	return nil
}

func (r *Resolver) VisitLogicalExpr(e *ast.Logical) any {
	r.resolveExpr(e.Left)
	r.resolveExpr(e.Right)
	return nil
}

func (r *Resolver) VisitBinaryExpr(e *ast.Binary) any {
	r.resolveExpr(e.Left)
	r.resolveExpr(e.Right)
	return nil
}

func (r *Resolver) VisitUnaryExpr(e *ast.Unary) any {
	r.resolveExpr(e.Right)
	return nil
}

func (r *Resolver) VisitCallExpr(e *ast.Call) any {
	r.resolveExpr(e.Callee)
	for _, arg := range e.Arguments {
		r.resolveExpr(arg)
	}
	return nil
}

// Properties are looked up dynamically, only the object is resolved.
func (r *Resolver) VisitGetExpr(e *ast.Get) any {
	r.resolveExpr(e.Object)
	return nil
}

func (r *Resolver) VisitSetExpr(e *ast.Set) any {
	r.resolveExpr(e.Value)
	r.resolveExpr(e.Object)
	return nil
}

func (r *Resolver) VisitSuperExpr(e *ast.Super) any {
	switch r.currentClass {
	case kindNoClass:
		r.error(e.Keyword, "Can't use 'super' outside of a class.")
	case kindClass:
		r.error(e.Keyword, "Can't use 'super' in a class with no superclass.")
	}

	r.resolveLocal(e, e.Keyword)
	return nil
}

func (r *Resolver) VisitThisExpr(e *ast.This) any {
	if r.currentClass == kindNoClass {
		r.error(e.Keyword, "Can't use 'this' outside of a class.")
		return nil
	}

	r.resolveLocal(e, e.Keyword)
	return nil
}

func (r *Resolver) VisitGroupingExpr(e *ast.Grouping) any {
	r.resolveExpr(e.Expression)
	return nil
}

func (r *Resolver) VisitLiteralExpr(e *ast.Literal) any {
	return nil
}

func (r *Resolver) VisitVariableExpr(e *ast.Variable) any {
	if len(r.scopes) > 0 {
		present, defined := util.Last(r.scopes).lookup(e.Name.Lexeme)
		if present && !defined {
			r.error(e.Name, "Can't read local variable in its own initializer.")
		}
	}

	r.resolveLocal(e, e.Name)
	return nil
}

// Helpers
// --------------------------------------------------------
func (r *Resolver) resolveStmts(stmts []ast.Stmt) {
	for _, s := range stmts {
		r.resolveStmt(s)
	}
}

func (r *Resolver) resolveStmt(s ast.Stmt) {
	s.Accept(r)
}

func (r *Resolver) resolveExpr(e ast.Expr) {
	e.Accept(r)
}

// Parameters live in a fresh scope, the body shares it.
func (r *Resolver) resolveFunction(fun *ast.Function, kind functionKind) {
	// Track if inside a function.
	oldFunction := r.currentFunction
	r.currentFunction = kind
	defer func() { r.currentFunction = oldFunction }()

	r.pushScope()
	defer r.popScope()

	for _, param := range fun.Params {
		r.declare(param)
		r.define(param)
	}
	r.resolveStmts(fun.Body)
}

// Records the distance from the innermost scope to the one declaring name.
// Names not found are left for the global environment.
func (r *Resolver) resolveLocal(e ast.Expr, name token.Token) {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		if present, _ := r.scopes[i].lookup(name.Lexeme); present {
			r.bindings[e] = len(r.scopes) - 1 - i
			return
		}
	}
}

// Variable and scope management
// --------------------------------------------------------
func (r *Resolver) pushScope() {
	r.scopes = append(r.scopes, newScope())
}

func (r *Resolver) popScope() {
	util.Pop(&r.scopes)
}

// Declares the name in the current scope. Redeclaring a local in the same
// scope is an error, globals can be redeclared freely.
func (r *Resolver) declare(name token.Token) {
	if len(r.scopes) == 0 {
		return
	}

	s := *util.Last(r.scopes)
	if present, _ := s.lookup(name.Lexeme); present {
		r.error(name, "Already a variable with this name in this scope.")
	}
	s.declare(name.Lexeme)
}

func (r *Resolver) define(name token.Token) {
	if len(r.scopes) == 0 {
		return
	}

	util.Last(r.scopes).define(name.Lexeme)
}

func (r *Resolver) error(tok token.Token, message string) {
	r.hadError = true
	if r.reporter != nil {
		r.reporter.Report(diag.AtToken(tok, message))
	}
}
