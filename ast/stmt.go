package ast

import (
	"github.com/cmdneo/tree_lox/token"
)

type Stmt interface {
	Accept(StmtVisitor) ControlKind
}

type StmtVisitor interface {
	VisitBlockStmt(s *Block) ControlKind
	VisitExpressionStmt(s *Expression) ControlKind
	VisitPrintStmt(s *Print) ControlKind
	VisitReturnStmt(s *Return) ControlKind
	VisitIfStmt(s *If) ControlKind
	VisitWhileStmt(s *While) ControlKind
	VisitVarStmt(s *Var) ControlKind
	VisitFunctionStmt(s *Function) ControlKind
	VisitClassStmt(s *Class) ControlKind
}

type Block struct {
	Statements []Stmt
}

type Expression struct {
	Expression Expr
}

type Print struct {
	Expression Expr
}

type Return struct {
	Keyword token.Token
	Value   Expr // Can be nil
}

type If struct {
	Condition  Expr
	ThenBranch Stmt
	ElseBranch Stmt // Can be nil
}

// 'for' loops are desugared into a while loop by the parser:
//
//	{ initializer; while (condition) { body; increment; } }
type While struct {
	Condition Expr
	Body      Stmt
}

type Var struct {
	Name        token.Token
	Initializer Expr // Can be nil
}

type Function struct {
	Name   token.Token
	Params []token.Token
	Body   []Stmt
}

type Class struct {
	Name       token.Token
	Superclass *Variable // Can be nil
	Methods    []*Function
}

func (s *Block) Accept(v StmtVisitor) ControlKind      { return v.VisitBlockStmt(s) }
func (s *Expression) Accept(v StmtVisitor) ControlKind { return v.VisitExpressionStmt(s) }
func (s *Print) Accept(v StmtVisitor) ControlKind      { return v.VisitPrintStmt(s) }
func (s *Return) Accept(v StmtVisitor) ControlKind     { return v.VisitReturnStmt(s) }
func (s *If) Accept(v StmtVisitor) ControlKind         { return v.VisitIfStmt(s) }
func (s *While) Accept(v StmtVisitor) ControlKind      { return v.VisitWhileStmt(s) }
func (s *Var) Accept(v StmtVisitor) ControlKind        { return v.VisitVarStmt(s) }
func (s *Function) Accept(v StmtVisitor) ControlKind   { return v.VisitFunctionStmt(s) }
func (s *Class) Accept(v StmtVisitor) ControlKind      { return v.VisitClassStmt(s) }

// Makes a block from a list of statements, nil statements are skipped.
func NewBlock(statements ...Stmt) *Block {
	stmts := make([]Stmt, 0, len(statements))
	for _, s := range statements {
		if s != nil {
			stmts = append(stmts, s)
		}
	}
	return &Block{Statements: stmts}
}
