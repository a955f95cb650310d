package parser

import (
	"github.com/mna/sixc/lang/ast"
	"github.com/mna/sixc/lang/token"
)

// parseVarDefRest finishes a variable definition once TYPE NAME has already
// been consumed by parseFuncOrVarDef: either "TYPE NAME;" or
// "TYPE NAME = EXPR;", per spec.md §4.2.
func (p *parser) parseVarDefRest(typ, name string, ln int) ast.Node {
	var init ast.Expr
	if p.at("=") {
		p.advance()
		init = p.parseExpression(sentinelPrecedence)
	}
	p.expect(";")
	return &ast.VarDefStmt{Type: typ, Name: name, Init: init, Ln: ln}
}

// parseStatement handles every statement form that does not begin with a
// TYPE NAME declaration pair: return, if/else-if/else, while, inline asm
// (already dispatched in parseNextNode), and bare expression statements
// (assignment or call).
func (p *parser) parseStatement() ast.Node {
	switch {
	case p.at("return"):
		return p.parseReturn()
	case p.at("if"):
		return p.parseIf()
	case p.at("while"):
		return p.parseWhile()
	case p.cur.Kind == token.IDENT:
		return p.parseExprStmt()
	default:
		p.errorf("unexpected token %q", p.cur.String())
		panic(errPanicMode)
	}
}

func (p *parser) parseReturn() ast.Node {
	ln := p.cur.Line
	p.expect("return")
	var val ast.Expr
	if !p.at(";") {
		val = p.parseExpression(sentinelPrecedence)
	}
	p.expect(";")
	return &ast.ReturnStmt{Value: val, Ln: ln}
}

func (p *parser) parseExprStmt() ast.Node {
	ln := p.cur.Line
	x := p.parseExpression(sentinelPrecedence)
	p.expect(";")
	return &ast.ExprStmt{X: x, Ln: ln}
}

func (p *parser) parseBlockBody() ast.Node {
	ln := p.cur.Line
	p.expect("{")
	var body []ast.Node
	for !p.at("}") && p.cur.Kind != token.EOF {
		body = append(body, p.parseNextNode())
	}
	p.expect("}")
	return &ast.Block{Body: body, Ln: ln}
}

func (p *parser) parseIf() ast.Node {
	ln := p.cur.Line
	p.expect("if")
	p.expect("(")
	cond := p.parseExpression(sentinelPrecedence)
	p.expect(")")
	body := p.parseBlockBody()

	stmt := &ast.ControlStmt{Kind: ast.If, Cond: cond, Body: body, Ln: ln}
	stmt.Connected = p.parseElseChain()
	return stmt
}

// parseElseChain handles zero or more "else if (...) { ... }" links followed
// by an optional trailing "else { ... }", chaining them through Connected
// per spec.md §3's ControlStmt design.
func (p *parser) parseElseChain() ast.Node {
	if !p.at("else") {
		return nil
	}
	ln := p.cur.Line
	p.expect("else")

	if p.at("if") {
		p.expect("if")
		p.expect("(")
		cond := p.parseExpression(sentinelPrecedence)
		p.expect(")")
		body := p.parseBlockBody()
		stmt := &ast.ControlStmt{Kind: ast.ElseIf, Cond: cond, Body: body, Ln: ln}
		stmt.Connected = p.parseElseChain()
		return stmt
	}

	body := p.parseBlockBody()
	return &ast.ControlStmt{Kind: ast.Else, Body: body, Ln: ln}
}

func (p *parser) parseWhile() ast.Node {
	ln := p.cur.Line
	p.expect("while")
	p.expect("(")
	cond := p.parseExpression(sentinelPrecedence)
	p.expect(")")
	body := p.parseBlockBody()
	return &ast.ControlStmt{Kind: ast.While, Cond: cond, Body: body, Ln: ln}
}
