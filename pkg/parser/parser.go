// Package parser builds the ast.StatementList the compiler core
// consumes, from the flat token stream produced by pkg/lexer. It sits
// outside the compiler core proper: its only contract with the core is
// that if/for conditions are always a top-level relational ast.BinaryOp.
package parser

import (
	"fmt"
	"strconv"

	"github.com/triadc/triadc/pkg/ast"
	"github.com/triadc/triadc/pkg/lexer"
)

// Error is a syntax error with the offending token's position.
type Error struct {
	Message string
	Line    int
	Column  int
}

func (e *Error) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Line, e.Column, e.Message)
}

// Parser is a recursive-descent parser over a fixed token slice.
type Parser struct {
	tokens []lexer.Token
	pos    int
}

// Parse tokenizes and parses src in one call, returning the root
// statement list.
func Parse(src string) (*ast.StatementList, error) {
	toks, err := lexer.New(src).Tokenize()
	if err != nil {
		return nil, err
	}
	return New(toks).ParseProgram()
}

// New returns a Parser over an already-lexed token stream.
func New(tokens []lexer.Token) *Parser {
	return &Parser{tokens: tokens}
}

func (p *Parser) cur() lexer.Token  { return p.tokens[p.pos] }
func (p *Parser) peekAt(n int) lexer.Token {
	if p.pos+n >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[p.pos+n]
}

func (p *Parser) advance() lexer.Token {
	t := p.tokens[p.pos]
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	return t
}

func (p *Parser) expect(k lexer.Kind, lit string) (lexer.Token, error) {
	t := p.cur()
	if t.Kind != k {
		return t, &Error{Message: fmt.Sprintf("expected %q, got %q", lit, t.Lit), Line: t.Line, Column: t.Column}
	}
	return p.advance(), nil
}

// ParseProgram parses a top-level sequence of statements up to EOF.
func (p *Parser) ParseProgram() (*ast.StatementList, error) {
	list, err := p.parseStatementList(func(t lexer.Token) bool { return t.Kind == lexer.EOF })
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (p *Parser) parseStatementList(isEnd func(lexer.Token) bool) (*ast.StatementList, error) {
	list := &ast.StatementList{}
	for !isEnd(p.cur()) {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		list.Statements = append(list.Statements, stmt)
	}
	return list, nil
}

func (p *Parser) parseStatement() (ast.Stmt, error) {
	t := p.cur()
	switch {
	case t.Kind == lexer.Keyword && t.Lit == "int":
		return p.parseDeclaration()
	case t.Kind == lexer.Keyword && t.Lit == "if":
		return p.parseIf()
	case t.Kind == lexer.Keyword && t.Lit == "for":
		return p.parseFor()
	case t.Kind == lexer.LBrace:
		return p.parseBlock()
	case t.Kind == lexer.Ident && (p.peekAt(1).Kind == lexer.Increment || p.peekAt(1).Kind == lexer.Decrement):
		return p.parsePostIncrement()
	case t.Kind == lexer.Increment || t.Kind == lexer.Decrement:
		return p.parsePreIncrement()
	case t.Kind == lexer.Ident:
		return p.parseAssignment()
	default:
		return nil, &Error{Message: fmt.Sprintf("unexpected token %q", t.Lit), Line: t.Line, Column: t.Column}
	}
}

func (p *Parser) parseDeclaration() (ast.Stmt, error) {
	p.advance() // "int"
	name, err := p.expect(lexer.Ident, "identifier")
	if err != nil {
		return nil, err
	}
	decl := &ast.Declaration{Type: "int", Name: name.Lit}
	if p.cur().Kind == lexer.Assign {
		p.advance()
		init, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		decl.Init = init
	}
	if _, err := p.expect(lexer.Semicolon, ";"); err != nil {
		return nil, err
	}
	return decl, nil
}

func (p *Parser) parseAssignment() (ast.Stmt, error) {
	name, err := p.expect(lexer.Ident, "identifier")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.Assign, "="); err != nil {
		return nil, err
	}
	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.Semicolon, ";"); err != nil {
		return nil, err
	}
	return &ast.Assignment{Name: name.Lit, Expr: expr}, nil
}

func (p *Parser) parsePostIncrement() (ast.Stmt, error) {
	name := p.advance()
	opTok := p.advance()
	if _, err := p.expect(lexer.Semicolon, ";"); err != nil {
		return nil, err
	}
	return &ast.IncrementStatement{Name: name.Lit, Op: incOp(opTok)}, nil
}

func (p *Parser) parsePreIncrement() (ast.Stmt, error) {
	opTok := p.advance()
	name, err := p.expect(lexer.Ident, "identifier")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.Semicolon, ";"); err != nil {
		return nil, err
	}
	return &ast.IncrementStatement{Name: name.Lit, Op: incOp(opTok)}, nil
}

func incOp(t lexer.Token) ast.IncOp {
	if t.Kind == lexer.Increment {
		return ast.Incr
	}
	return ast.Decr
}

func (p *Parser) parseBlock() (*ast.Block, error) {
	if _, err := p.expect(lexer.LBrace, "{"); err != nil {
		return nil, err
	}
	body, err := p.parseStatementList(func(t lexer.Token) bool { return t.Kind == lexer.RBrace })
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.RBrace, "}"); err != nil {
		return nil, err
	}
	return &ast.Block{Body: body}, nil
}

// parseCondition parses a parenthesized relational expression, the
// invariant if/for rely on.
func (p *Parser) parseCondition() (ast.Expr, error) {
	if _, err := p.expect(lexer.LParen, "("); err != nil {
		return nil, err
	}
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	opTok := p.cur()
	op, ok := relOp(opTok)
	if !ok {
		return nil, &Error{Message: "if/for condition must be a relational expression", Line: opTok.Line, Column: opTok.Column}
	}
	p.advance()
	right, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.RParen, ")"); err != nil {
		return nil, err
	}
	return &ast.BinaryOp{Op: op, Left: left, Right: right}, nil
}

func relOp(t lexer.Token) (ast.BinOp, bool) {
	switch t.Kind {
	case lexer.Lt:
		return ast.Lt, true
	case lexer.Le:
		return ast.Le, true
	case lexer.Gt:
		return ast.Gt, true
	case lexer.Ge:
		return ast.Ge, true
	case lexer.EqEq:
		return ast.Eq, true
	case lexer.NotEq:
		return ast.Ne, true
	}
	return "", false
}

func (p *Parser) parseIf() (ast.Stmt, error) {
	p.advance() // "if"
	cond, err := p.parseCondition()
	if err != nil {
		return nil, err
	}
	then, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	stmt := &ast.IfStatement{Cond: cond, Then: then}
	if p.cur().Kind == lexer.Keyword && p.cur().Lit == "else" {
		p.advance()
		elseStmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmt.Else = elseStmt
	}
	return stmt, nil
}

func (p *Parser) parseFor() (ast.Stmt, error) {
	p.advance() // "for"
	if _, err := p.expect(lexer.LParen, "("); err != nil {
		return nil, err
	}

	init, err := p.parseStatement()
	if err != nil {
		return nil, err
	}

	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	opTok := p.cur()
	op, ok := relOp(opTok)
	if !ok {
		return nil, &Error{Message: "for condition must be a relational expression", Line: opTok.Line, Column: opTok.Column}
	}
	p.advance()
	right, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	cond := &ast.BinaryOp{Op: op, Left: left, Right: right}
	if _, err := p.expect(lexer.Semicolon, ";"); err != nil {
		return nil, err
	}

	step, err := p.parseStepStatement()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.RParen, ")"); err != nil {
		return nil, err
	}

	body, err := p.parseStatement()
	if err != nil {
		return nil, err
	}

	return &ast.ForStatement{Init: init, Cond: cond, Step: step, Body: body}, nil
}

// parseStepStatement parses the step clause of a for loop, which has
// no trailing semicolon of its own (the enclosing "for (...)" owns the
// closing paren instead).
func (p *Parser) parseStepStatement() (ast.Stmt, error) {
	t := p.cur()
	switch {
	case t.Kind == lexer.Ident && (p.peekAt(1).Kind == lexer.Increment || p.peekAt(1).Kind == lexer.Decrement):
		name := p.advance()
		opTok := p.advance()
		return &ast.IncrementStatement{Name: name.Lit, Op: incOp(opTok)}, nil
	case t.Kind == lexer.Increment || t.Kind == lexer.Decrement:
		opTok := p.advance()
		name, err := p.expect(lexer.Ident, "identifier")
		if err != nil {
			return nil, err
		}
		return &ast.IncrementStatement{Name: name.Lit, Op: incOp(opTok)}, nil
	case t.Kind == lexer.Ident:
		name := p.advance()
		if _, err := p.expect(lexer.Assign, "="); err != nil {
			return nil, err
		}
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		return &ast.Assignment{Name: name.Lit, Expr: expr}, nil
	default:
		return nil, &Error{Message: fmt.Sprintf("unexpected token %q in for-step", t.Lit), Line: t.Line, Column: t.Column}
	}
}

// parseExpr parses the additive-level grammar used outside of
// relational positions (assignments, initializers, step exprs).
func (p *Parser) parseExpr() (ast.Expr, error) {
	return p.parseAdditive()
}

func (p *Parser) parseAdditive() (ast.Expr, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for p.cur().Kind == lexer.Plus || p.cur().Kind == lexer.Minus {
		opTok := p.advance()
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		op := ast.Add
		if opTok.Kind == lexer.Minus {
			op = ast.Sub
		}
		left = &ast.BinaryOp{Op: op, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseTerm() (ast.Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.cur().Kind == lexer.Star || p.cur().Kind == lexer.Slash {
		opTok := p.advance()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		op := ast.Mul
		if opTok.Kind == lexer.Slash {
			op = ast.Div
		}
		left = &ast.BinaryOp{Op: op, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseUnary() (ast.Expr, error) {
	t := p.cur()
	if t.Kind == lexer.Minus || t.Kind == lexer.Bang {
		p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		op := ast.Neg
		if t.Kind == lexer.Bang {
			op = ast.Not
		}
		return &ast.UnaryOp{Op: op, Operand: operand}, nil
	}
	return p.parsePrimary()
}

func (p *Parser) parsePrimary() (ast.Expr, error) {
	t := p.cur()
	switch t.Kind {
	case lexer.Number:
		p.advance()
		v, _ := strconv.ParseFloat(t.Lit, 64)
		return &ast.Number{Value: v}, nil
	case lexer.Ident:
		p.advance()
		return &ast.Identifier{Name: t.Lit}, nil
	case lexer.LParen:
		p.advance()
		expr, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.RParen, ")"); err != nil {
			return nil, err
		}
		return expr, nil
	default:
		return nil, &Error{Message: fmt.Sprintf("unexpected token %q in expression", t.Lit), Line: t.Line, Column: t.Column}
	}
}
