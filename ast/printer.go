package ast

import (
	"strconv"
	"strings"

	"github.com/cmdneo/tree_lox/value"
)

// Printer renders the syntax tree in a parenthesized prefix form, one
// statement per line with nested statements indented. Debugging aid only.
type Printer struct {
	lines []string
	depth int
}

func PrintExpr(e Expr) string {
	return (&Printer{}).expr(e)
}

func PrintStmts(stmts []Stmt) string {
	p := &Printer{}
	for _, s := range stmts {
		s.Accept(p)
	}
	return strings.Join(p.lines, "\n")
}

// Statements
// --------------------------------------------------------
func (p *Printer) VisitBlockStmt(s *Block) ControlKind {
	p.nested("(block", func() { p.stmts(s.Statements) })
	return ControlNormal
}

func (p *Printer) VisitExpressionStmt(s *Expression) ControlKind {
	p.line("(expr " + p.expr(s.Expression) + ")")
	return ControlNormal
}

func (p *Printer) VisitPrintStmt(s *Print) ControlKind {
	p.line("(print " + p.expr(s.Expression) + ")")
	return ControlNormal
}

func (p *Printer) VisitReturnStmt(s *Return) ControlKind {
	if s.Value == nil {
		p.line("(return)")
	} else {
		p.line("(return " + p.expr(s.Value) + ")")
	}
	return ControlNormal
}

func (p *Printer) VisitIfStmt(s *If) ControlKind {
	p.nested("(if "+p.expr(s.Condition), func() {
		s.ThenBranch.Accept(p)
		if s.ElseBranch != nil {
			p.nested("(else", func() { s.ElseBranch.Accept(p) })
		}
	})
	return ControlNormal
}

func (p *Printer) VisitWhileStmt(s *While) ControlKind {
	p.nested("(while "+p.expr(s.Condition), func() { s.Body.Accept(p) })
	return ControlNormal
}

func (p *Printer) VisitVarStmt(s *Var) ControlKind {
	if s.Initializer == nil {
		p.line("(var " + s.Name.Lexeme + ")")
	} else {
		p.line("(var " + s.Name.Lexeme + " " + p.expr(s.Initializer) + ")")
	}
	return ControlNormal
}

func (p *Printer) VisitFunctionStmt(s *Function) ControlKind {
	params := make([]string, len(s.Params))
	for i, param := range s.Params {
		params[i] = param.Lexeme
	}

	header := "(fun " + s.Name.Lexeme + " (" + strings.Join(params, " ") + ")"
	p.nested(header, func() { p.stmts(s.Body) })
	return ControlNormal
}

func (p *Printer) VisitClassStmt(s *Class) ControlKind {
	header := "(class " + s.Name.Lexeme
	if s.Superclass != nil {
		header += " < " + s.Superclass.Name.Lexeme
	}

	p.nested(header, func() {
		for _, method := range s.Methods {
			method.Accept(p)
		}
	})
	return ControlNormal
}

// Expressions
// --------------------------------------------------------
func (p *Printer) VisitAssignExpr(e *Assign) any {
	return parens("=", e.Name.Lexeme, p.expr(e.Value))
}

func (p *Printer) VisitTernaryExpr(e *Ternary) any {
	return parens("?:", p.expr(e.Left), p.expr(e.Middle), p.expr(e.Right))
}

func (p *Printer) VisitLogicalExpr(e *Logical) any {
	return parens(e.Operator.Lexeme, p.expr(e.Left), p.expr(e.Right))
}

func (p *Printer) VisitBinaryExpr(e *Binary) any {
	return parens(e.Operator.Lexeme, p.expr(e.Left), p.expr(e.Right))
}

func (p *Printer) VisitUnaryExpr(e *Unary) any {
	return parens(e.Operator.Lexeme, p.expr(e.Right))
}

func (p *Printer) VisitCallExpr(e *Call) any {
	frags := []string{"call", p.expr(e.Callee)}
	for _, arg := range e.Arguments {
		frags = append(frags, p.expr(arg))
	}
	return parens(frags...)
}

func (p *Printer) VisitGetExpr(e *Get) any {
	return parens("get", p.expr(e.Object), e.Name.Lexeme)
}

func (p *Printer) VisitSetExpr(e *Set) any {
	return parens("set", p.expr(e.Object), e.Name.Lexeme, p.expr(e.Value))
}

func (p *Printer) VisitSuperExpr(e *Super) any {
	return "super." + e.Method.Lexeme
}

func (p *Printer) VisitThisExpr(e *This) any {
	return "this"
}

func (p *Printer) VisitGroupingExpr(e *Grouping) any {
	return parens("group", p.expr(e.Expression))
}

func (p *Printer) VisitLiteralExpr(e *Literal) any {
	switch v := e.Value.(type) {
	case nil:
		return "nil"
	case value.String:
		return strconv.Quote(string(v))
	default:
		return v.String()
	}
}

func (p *Printer) VisitVariableExpr(e *Variable) any {
	return e.Name.Lexeme
}

// Helpers
// --------------------------------------------------------
func (p *Printer) expr(e Expr) string {
	return e.Accept(p).(string)
}

func (p *Printer) stmts(stmts []Stmt) {
	for _, s := range stmts {
		s.Accept(p)
	}
}

func (p *Printer) line(s string) {
	p.lines = append(p.lines, strings.Repeat("  ", p.depth)+s)
}

// Writes the header, then the body one level deeper, and closes the paren on
// the last line written.
func (p *Printer) nested(header string, body func()) {
	p.line(header)
	p.depth++
	body()
	p.depth--
	p.lines[len(p.lines)-1] += ")"
}

func parens(frags ...string) string {
	return "(" + strings.Join(frags, " ") + ")"
}
