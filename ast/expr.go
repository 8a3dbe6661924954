package ast

import (
	"github.com/cmdneo/tree_lox/token"
	"github.com/cmdneo/tree_lox/value"
)

// Expressions are always handled through pointers, the resolver records scope
// distances keyed by the node itself so identity matters.
type Expr interface {
	Accept(ExprVisitor) any
}

type ExprVisitor interface {
	VisitAssignExpr(e *Assign) any
	VisitTernaryExpr(e *Ternary) any
	VisitLogicalExpr(e *Logical) any
	VisitBinaryExpr(e *Binary) any
	VisitUnaryExpr(e *Unary) any
	VisitCallExpr(e *Call) any
	VisitGetExpr(e *Get) any
	VisitSetExpr(e *Set) any
	VisitSuperExpr(e *Super) any
	VisitThisExpr(e *This) any
	VisitGroupingExpr(e *Grouping) any
	VisitLiteralExpr(e *Literal) any
	VisitVariableExpr(e *Variable) any
}

type Assign struct {
	Name  token.Token
	Value Expr
}

// left ? middle : right
type Ternary struct {
	Left     Expr
	Question token.Token
	Middle   Expr
	Colon    token.Token
	Right    Expr
}

// Short-circuiting 'and' and 'or'.
type Logical struct {
	Left     Expr
	Operator token.Token
	Right    Expr
}

type Binary struct {
	Left     Expr
	Operator token.Token
	Right    Expr
}

type Unary struct {
	Operator token.Token
	Right    Expr
}

type Call struct {
	Callee    Expr
	Paren     token.Token // Closing paren, used for error locations.
	Arguments []Expr
}

type Get struct {
	Object Expr
	Name   token.Token
}

type Set struct {
	Object Expr
	Name   token.Token
	Value  Expr
}

// super, this, grouping, variable and literal are primary expressions.

type Super struct {
	Keyword token.Token
	Method  token.Token
}

type This struct {
	Keyword token.Token
}

type Grouping struct {
	Expression Expr
}

type Variable struct {
	Name token.Token
}

type Literal struct {
	Value value.Value
}

func (e *Assign) Accept(v ExprVisitor) any   { return v.VisitAssignExpr(e) }
func (e *Ternary) Accept(v ExprVisitor) any  { return v.VisitTernaryExpr(e) }
func (e *Logical) Accept(v ExprVisitor) any  { return v.VisitLogicalExpr(e) }
func (e *Binary) Accept(v ExprVisitor) any   { return v.VisitBinaryExpr(e) }
func (e *Unary) Accept(v ExprVisitor) any    { return v.VisitUnaryExpr(e) }
func (e *Call) Accept(v ExprVisitor) any     { return v.VisitCallExpr(e) }
func (e *Get) Accept(v ExprVisitor) any      { return v.VisitGetExpr(e) }
func (e *Set) Accept(v ExprVisitor) any      { return v.VisitSetExpr(e) }
func (e *Super) Accept(v ExprVisitor) any    { return v.VisitSuperExpr(e) }
func (e *This) Accept(v ExprVisitor) any     { return v.VisitThisExpr(e) }
func (e *Grouping) Accept(v ExprVisitor) any { return v.VisitGroupingExpr(e) }
func (e *Literal) Accept(v ExprVisitor) any  { return v.VisitLiteralExpr(e) }
func (e *Variable) Accept(v ExprVisitor) any { return v.VisitVariableExpr(e) }
