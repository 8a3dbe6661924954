package parser

import (
	"errors"
	"fmt"

	"github.com/cmdneo/tree_lox/ast"
	"github.com/cmdneo/tree_lox/diag"
	"github.com/cmdneo/tree_lox/token"
	"github.com/cmdneo/tree_lox/value"
)

const MAX_CALL_PARAMS = 255

type Parser struct {
	scn      *Scanner
	previous token.Token
	current  token.Token

	reporter diag.Reporter
	// Was any syntax error detected while parsing.
	hadError bool
}

// Returned by a production which could not make sense of the input, the
// error itself has already been reported.
var errSyntax = errors.New("syntax error")

func NewParser(source string, reporter diag.Reporter) *Parser {
	return &Parser{scn: NewScanner(source, reporter), reporter: reporter}
}

// Parses the whole program. Declarations which failed to parse are dropped and
// parsing resumes at the next statement boundary, so the result holds every
// statement that could be parsed. Check HadError before running it.
func (p *Parser) Parse() []ast.Stmt {
	// Prime the parser: take in first token.
	p.advance()

	stmts := make([]ast.Stmt, 0)
	for !p.check(token.END_OF_FILE) {
		if stmt := p.declaration(); stmt != nil {
			stmts = append(stmts, stmt)
		}
	}

	return stmts
}

// True if the scanner or the parser reported an error.
func (p *Parser) HadError() bool {
	return p.hadError || p.scn.HadError()
}

// Statement parsing methods
// --------------------------------------------------------

// Parse failures stop here: the parser synchronizes and nil is returned.
func (p *Parser) declaration() ast.Stmt {
	var stmt ast.Stmt
	var err error

	switch {
	case p.match(token.CLASS):
		stmt, err = p.classDeclaration()
	case p.match(token.FUN):
		stmt, err = p.function("function")
	case p.match(token.VAR):
		stmt, err = p.varDeclaration()
	default:
		stmt, err = p.statement()
	}

	if err != nil {
		p.synchronize()
		return nil
	}
	return stmt
}

func (p *Parser) classDeclaration() (ast.Stmt, error) {
	name, err := p.consume(token.IDENTIFIER, "Expect class name.")
	if err != nil {
		return nil, err
	}

	var superclass *ast.Variable
	if p.match(token.LESS) {
		sname, err := p.consume(token.IDENTIFIER, "Expect superclass name.")
		if err != nil {
			return nil, err
		}
		superclass = &ast.Variable{Name: sname}
	}

	if _, err := p.consume(token.LEFT_BRACE, "Expect '{' before class body."); err != nil {
		return nil, err
	}

	methods := make([]*ast.Function, 0)
	for !p.check(token.RIGHT_BRACE) && !p.check(token.END_OF_FILE) {
		method, err := p.function("method")
		if err != nil {
			return nil, err
		}
		methods = append(methods, method)
	}

	if _, err := p.consume(token.RIGHT_BRACE, "Expect '}' after class body."); err != nil {
		return nil, err
	}

	return &ast.Class{Name: name, Superclass: superclass, Methods: methods}, nil
}

// Parses functions and methods, kind is only used in error messages.
func (p *Parser) function(kind string) (*ast.Function, error) {
	name, err := p.consume(token.IDENTIFIER, "Expect "+kind+" name.")
	if err != nil {
		return nil, err
	}

	// Parse paramaters: '(' parameters? ')'
	if _, err := p.consume(token.LEFT_PAREN, "Expect '(' after "+kind+" name."); err != nil {
		return nil, err
	}

	params := make([]token.Token, 0)
	if !p.check(token.RIGHT_PAREN) {
		for {
			if len(params) >= MAX_CALL_PARAMS {
				// Continue after the error as the syntax is well formed.
				p.errorAt(p.current, fmt.Sprintf(
					"Can't have more than %v parameters.", MAX_CALL_PARAMS,
				))
			}

			param, err := p.consume(token.IDENTIFIER, "Expect parameter name.")
			if err != nil {
				return nil, err
			}
			params = append(params, param)

			if !p.match(token.COMMA) {
				break
			}
		}
	}
	if _, err := p.consume(token.RIGHT_PAREN, "Expect ')' after parameters."); err != nil {
		return nil, err
	}

	if _, err := p.consume(token.LEFT_BRACE, "Expect '{' before "+kind+" body."); err != nil {
		return nil, err
	}
	body, err := p.bareBlock()
	if err != nil {
		return nil, err
	}

	return &ast.Function{Name: name, Params: params, Body: body}, nil
}

func (p *Parser) varDeclaration() (ast.Stmt, error) {
	name, err := p.consume(token.IDENTIFIER, "Expect variable name.")
	if err != nil {
		return nil, err
	}

	var initializer ast.Expr
	if p.match(token.EQUAL) {
		if initializer, err = p.expression(); err != nil {
			return nil, err
		}
	}

	if _, err := p.consume(token.SEMICOLON, "Expect ';' after variable declaration."); err != nil {
		return nil, err
	}
	return &ast.Var{Name: name, Initializer: initializer}, nil
}

func (p *Parser) statement() (ast.Stmt, error) {
	switch {
	case p.match(token.PRINT):
		return p.printStatement()
	case p.match(token.RETURN):
		return p.returnStatement()

	case p.match(token.IF):
		return p.ifStatement()
	case p.match(token.WHILE):
		return p.whileStatement()
	case p.match(token.FOR):
		return p.forStatement()

	case p.match(token.LEFT_BRACE):
		stmts, err := p.bareBlock()
		if err != nil {
			return nil, err
		}
		return &ast.Block{Statements: stmts}, nil

	default:
		return p.expressionStatement()
	}
}

func (p *Parser) printStatement() (ast.Stmt, error) {
	expr, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.SEMICOLON, "Expect ';' after value."); err != nil {
		return nil, err
	}

	return &ast.Print{Expression: expr}, nil
}

func (p *Parser) returnStatement() (ast.Stmt, error) {
	keyword := p.previous
	var result ast.Expr // A return with no expression returns nil.

	if !p.check(token.SEMICOLON) {
		var err error
		if result, err = p.expression(); err != nil {
			return nil, err
		}
	}

	if _, err := p.consume(token.SEMICOLON, "Expect ';' after return value."); err != nil {
		return nil, err
	}
	return &ast.Return{Keyword: keyword, Value: result}, nil
}

func (p *Parser) ifStatement() (ast.Stmt, error) {
	condition, err := p.parenthesized("if")
	if err != nil {
		return nil, err
	}

	thenBranch, err := p.statement()
	if err != nil {
		return nil, err
	}

	var elseBranch ast.Stmt
	if p.match(token.ELSE) {
		if elseBranch, err = p.statement(); err != nil {
			return nil, err
		}
	}

	return &ast.If{
		Condition:  condition,
		ThenBranch: thenBranch,
		ElseBranch: elseBranch,
	}, nil
}

func (p *Parser) whileStatement() (ast.Stmt, error) {
	condition, err := p.parenthesized("while")
	if err != nil {
		return nil, err
	}

	body, err := p.statement()
	if err != nil {
		return nil, err
	}

	return &ast.While{Condition: condition, Body: body}, nil
}

// A 'for' loop is desugared into a while loop as:
//
//	{ initializer; while (condition) { body; increment; } }
//
// A missing condition is the literal true.
func (p *Parser) forStatement() (ast.Stmt, error) {
	if _, err := p.consume(token.LEFT_PAREN, "Expect '(' after 'for'."); err != nil {
		return nil, err
	}

	var initializer ast.Stmt
	var err error
	switch {
	case p.match(token.SEMICOLON):
	case p.match(token.VAR):
		initializer, err = p.varDeclaration()
	default:
		initializer, err = p.expressionStatement()
	}
	if err != nil {
		return nil, err
	}

	condition := ast.Expr(&ast.Literal{Value: value.Boolean(true)})
	if !p.check(token.SEMICOLON) {
		if condition, err = p.expression(); err != nil {
			return nil, err
		}
	}
	if _, err := p.consume(token.SEMICOLON, "Expect ';' after loop condition."); err != nil {
		return nil, err
	}

	var increment ast.Stmt
	if !p.check(token.RIGHT_PAREN) {
		expr, err := p.expression()
		if err != nil {
			return nil, err
		}
		increment = &ast.Expression{Expression: expr}
	}
	if _, err := p.consume(token.RIGHT_PAREN, "Expect ')' after for clauses."); err != nil {
		return nil, err
	}

	body, err := p.statement()
	if err != nil {
		return nil, err
	}

	loop := &ast.While{Condition: condition, Body: ast.NewBlock(body, increment)}
	return ast.NewBlock(initializer, loop), nil
}

func (p *Parser) expressionStatement() (ast.Stmt, error) {
	expr, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.SEMICOLON, "Expect ';' after expression."); err != nil {
		return nil, err
	}

	return &ast.Expression{Expression: expr}, nil
}

// Expression parsing methods
// --------------------------------------------------------
func (p *Parser) expression() (ast.Expr, error) {
	return p.assignment()
}

func (p *Parser) assignment() (ast.Expr, error) {
	// Since the '=' can be any number of tokens ahead, parse the LHS first
	// and then check for equal sign and verify that the target is valid.
	expr, err := p.logicOr()
	if err != nil {
		return nil, err
	}

	if p.match(token.EQUAL) {
		equals := p.previous
		rhs, err := p.assignment()
		if err != nil {
			return nil, err
		}

		switch target := expr.(type) {
		case *ast.Variable:
			return &ast.Assign{Name: target.Name, Value: rhs}, nil
		case *ast.Get:
			// A property access on the left side becomes a Set.
			return &ast.Set{Object: target.Object, Name: target.Name, Value: rhs}, nil
		default:
			// Continue after the error as the syntax is well formed.
			p.errorAt(equals, "Invalid assignment target.")
		}
	}

	return expr, nil
}

// Helper for parsing left-associative binary expressions, build makes the node.
func (p *Parser) binaryLeft(
	next func() (ast.Expr, error),
	build func(left ast.Expr, op token.Token, right ast.Expr) ast.Expr,
	matches ...token.TokenKind,
) (ast.Expr, error) {
	left, err := next()
	if err != nil {
		return nil, err
	}

	for p.matchAny(matches...) {
		op := p.previous
		right, err := next()
		if err != nil {
			return nil, err
		}

		left = build(left, op, right)
	}

	return left, nil
}

func newBinary(left ast.Expr, op token.Token, right ast.Expr) ast.Expr {
	return &ast.Binary{Left: left, Operator: op, Right: right}
}

func newLogical(left ast.Expr, op token.Token, right ast.Expr) ast.Expr {
	return &ast.Logical{Left: left, Operator: op, Right: right}
}

func (p *Parser) logicOr() (ast.Expr, error) {
	return p.binaryLeft(p.logicAnd, newLogical, token.OR)
}

func (p *Parser) logicAnd() (ast.Expr, error) {
	return p.binaryLeft(p.equality, newLogical, token.AND)
}

// The ternary conditional hangs off the equality level: once the equality
// chain is built, each '?' takes a comparison for each branch.
func (p *Parser) equality() (ast.Expr, error) {
	expr, err := p.binaryLeft(p.comparison, newBinary,
		token.EQUAL_EQUAL, token.BANG_EQUAL)
	if err != nil {
		return nil, err
	}

	for p.match(token.QUESTION) {
		question := p.previous
		middle, err := p.comparison()
		if err != nil {
			return nil, err
		}

		colon, err := p.consume(token.COLON, "Expect ':' after expression.")
		if err != nil {
			return nil, err
		}

		right, err := p.comparison()
		if err != nil {
			return nil, err
		}

		expr = &ast.Ternary{
			Left:     expr,
			Question: question,
			Middle:   middle,
			Colon:    colon,
			Right:    right,
		}
	}

	return expr, nil
}

func (p *Parser) comparison() (ast.Expr, error) {
	return p.binaryLeft(p.term, newBinary,
		token.LESS, token.LESS_EQUAL, token.GREATER, token.GREATER_EQUAL)
}

func (p *Parser) term() (ast.Expr, error) {
	return p.binaryLeft(p.factor, newBinary, token.PLUS, token.MINUS)
}

func (p *Parser) factor() (ast.Expr, error) {
	return p.binaryLeft(p.unary, newBinary, token.STAR, token.SLASH)
}

func (p *Parser) unary() (ast.Expr, error) {
	if p.matchAny(token.BANG, token.MINUS) {
		op := p.previous
		right, err := p.unary()
		if err != nil {
			return nil, err
		}
		return &ast.Unary{Operator: op, Right: right}, nil
	}

	return p.call()
}

// Calls and property accesses are both left-associative: f()(x).g
func (p *Parser) call() (ast.Expr, error) {
	expr, err := p.primary()
	if err != nil {
		return nil, err
	}

	for {
		switch {
		case p.match(token.DOT):
			name, err := p.consume(token.IDENTIFIER, "Expect property name after '.'.")
			if err != nil {
				return nil, err
			}
			expr = &ast.Get{Object: expr, Name: name}

		case p.match(token.LEFT_PAREN):
			if expr, err = p.finishCall(expr); err != nil {
				return nil, err
			}

		default:
			return expr, nil
		}
	}
}

func (p *Parser) primary() (ast.Expr, error) {
	switch {
	case p.match(token.FALSE):
		return &ast.Literal{Value: value.Boolean(false)}, nil
	case p.match(token.TRUE):
		return &ast.Literal{Value: value.Boolean(true)}, nil
	case p.match(token.NIL):
		return &ast.Literal{Value: value.Nil{}}, nil

	case p.matchAny(token.NUMBER, token.STRING):
		return &ast.Literal{Value: p.previous.Literal}, nil

	case p.match(token.THIS):
		return &ast.This{Keyword: p.previous}, nil

	case p.match(token.SUPER):
		keyword := p.previous
		if _, err := p.consume(token.DOT, "Expect '.' after 'super'."); err != nil {
			return nil, err
		}
		method, err := p.consume(token.IDENTIFIER, "Expect superclass method name.")
		if err != nil {
			return nil, err
		}
		return &ast.Super{Keyword: keyword, Method: method}, nil

	case p.match(token.IDENTIFIER):
		return &ast.Variable{Name: p.previous}, nil

	case p.match(token.LEFT_PAREN):
		expr, err := p.expression()
		if err != nil {
			return nil, err
		}
		if _, err := p.consume(token.RIGHT_PAREN, "Expect ')' after expression."); err != nil {
			return nil, err
		}
		return &ast.Grouping{Expression: expr}, nil
	}

	return nil, p.fail(p.current, "Expect expression.")
}

// Parsing helpers
// --------------------------------------------------------

// Parses: declaration* '}', the '{' must already be consumed.
func (p *Parser) bareBlock() ([]ast.Stmt, error) {
	stmts := make([]ast.Stmt, 0)

	for !p.check(token.RIGHT_BRACE) && !p.check(token.END_OF_FILE) {
		if stmt := p.declaration(); stmt != nil {
			stmts = append(stmts, stmt)
		}
	}

	if _, err := p.consume(token.RIGHT_BRACE, "Expect '}' after block."); err != nil {
		return nil, err
	}
	return stmts, nil
}

// Parses: '(' expression ')' after the keyword.
func (p *Parser) parenthesized(keyword string) (ast.Expr, error) {
	if _, err := p.consume(token.LEFT_PAREN, "Expect '(' after '"+keyword+"'."); err != nil {
		return nil, err
	}
	condition, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.RIGHT_PAREN, "Expect ')' after condition."); err != nil {
		return nil, err
	}
	return condition, nil
}

// Parses call arguments: (expr (',' expr)*)? ')'
func (p *Parser) finishCall(callee ast.Expr) (ast.Expr, error) {
	args := make([]ast.Expr, 0)

	if !p.check(token.RIGHT_PAREN) {
		for {
			if len(args) >= MAX_CALL_PARAMS {
				// Continue after the error as the syntax is well formed.
				p.errorAt(p.current, fmt.Sprintf(
					"Can't have more than %v arguments.", MAX_CALL_PARAMS,
				))
			}

			arg, err := p.expression()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)

			if !p.match(token.COMMA) {
				break
			}
		}
	}

	paren, err := p.consume(token.RIGHT_PAREN, "Expect ')' after arguments.")
	if err != nil {
		return nil, err
	}
	return &ast.Call{Callee: callee, Paren: paren, Arguments: args}, nil
}

// Error reporting and recovery methods
// --------------------------------------------------------

// Reports an error without aborting the current production.
func (p *Parser) errorAt(tok token.Token, message string) {
	p.hadError = true
	if p.reporter != nil {
		p.reporter.Report(diag.AtToken(tok, message))
	}
}

// Reports an error and returns it, the caller must abandon the production.
func (p *Parser) fail(tok token.Token, message string) error {
	p.errorAt(tok, message)
	return errSyntax
}

// Discard tokens after malformed syntax until something which looks like the
// start of a new statement, to avoid cascading errors.
func (p *Parser) synchronize() {
	// Discard the token on which the error happened.
	p.advance()

	for !p.check(token.END_OF_FILE) {
		if p.previous.Kind == token.SEMICOLON {
			return
		}

		switch p.current.Kind {
		case token.CLASS, token.FUN, token.VAR, token.FOR, token.IF,
			token.WHILE, token.PRINT, token.RETURN:
			return
		}

		p.advance()
	}
}

// Parser token matching and processing methods
// --------------------------------------------------------
func (p *Parser) consume(kind token.TokenKind, message string) (token.Token, error) {
	if p.check(kind) {
		return p.advance(), nil
	}

	return token.Token{}, p.fail(p.current, message)
}

func (p *Parser) matchAny(kinds ...token.TokenKind) bool {
	for _, kind := range kinds {
		if p.match(kind) {
			return true
		}
	}

	return false
}

func (p *Parser) match(kind token.TokenKind) bool {
	if p.check(kind) {
		p.advance()
		return true
	}

	return false
}

func (p *Parser) check(kind token.TokenKind) bool {
	return p.current.Kind == kind
}

func (p *Parser) advance() token.Token {
	p.previous = p.current
	p.current = p.scn.NextToken()
	return p.previous
}
