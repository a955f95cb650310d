package parser

import (
	"strconv"

	"github.com/mna/sixc/lang/ast"
	"github.com/mna/sixc/lang/token"
)

// parseExpression is the precedence-climbing loop, directly modeled on the
// teacher's lang/parser/expr.go parseSubExpr: it reads one unary/primary
// term, then repeatedly folds in binary operators whose precedence binds
// tighter than outerPrec (or equal, for the right-associative assignment
// operator), recursing on the right-hand side with that operator's own
// precedence as the new outer bound.
func (p *parser) parseExpression(outerPrec int) ast.Expr {
	left := p.parseUnary()

	for {
		op, info, ok := p.peekBinaryOp()
		if !ok {
			break
		}
		if info.Precedence > outerPrec {
			break
		}
		if info.Precedence == outerPrec && !info.RightAssoc {
			break
		}
		ln := p.cur.Line
		p.advance()
		right := p.parseExpression(info.Precedence)
		left = &ast.BinaryOp{Op: op, Left: left, Right: right, Ln: ln}
	}
	return left
}

func (p *parser) peekBinaryOp() (string, opInfo, bool) {
	if p.cur.Kind != token.OPERATOR {
		return "", opInfo{}, false
	}
	info, ok := binaryOps[p.cur.Lit]
	return p.cur.Lit, info, ok
}

// parseUnary handles an optional unary-prefix operator, a primary
// expression, and an optional unary-postfix operator, per spec.md §4.2's
// unary operator tables.
func (p *parser) parseUnary() ast.Expr {
	if p.cur.Kind == token.OPERATOR {
		if info, ok := unaryPrefixOps[p.cur.Lit]; ok {
			op := p.cur.Lit
			ln := p.cur.Line
			p.advance()
			operand := p.parseExpression(info.Precedence)
			return &ast.UnaryOp{Op: op, Operand: operand, Ln: ln}
		}
	}

	x := p.parsePrimary()

	if p.cur.Kind == token.OPERATOR {
		if _, ok := unaryPostfixOps[p.cur.Lit]; ok {
			op := p.cur.Lit
			p.advance()
			return &ast.UnaryOp{Op: op, Operand: x, Postfix: true, Ln: x.Line()}
		}
	}
	return x
}

// parsePrimary parses a literal, a parenthesized expression, a bare
// identifier, or a function call.
func (p *parser) parsePrimary() ast.Expr {
	ln := p.cur.Line

	switch p.cur.Kind {
	case token.INT:
		t := p.cur
		p.advance()
		return &ast.Literal{Tok: ast.LiteralToken{Kind: ast.IntLit, Lit: t.Lit, Int: t.Int}, Ln: ln}

	case token.FLOAT:
		t := p.cur
		p.advance()
		return &ast.Literal{Tok: ast.LiteralToken{Kind: ast.FloatLit, Lit: t.Lit, Flt: t.Flt}, Ln: ln}

	case token.BOOL:
		t := p.cur
		p.advance()
		return &ast.Literal{Tok: ast.LiteralToken{Kind: ast.BoolLit, Lit: t.Lit}, Ln: ln}

	case token.STRING:
		t := p.cur
		p.advance()
		return &ast.Literal{Tok: ast.LiteralToken{Kind: ast.StringLit, Lit: t.Lit}, Ln: ln}

	case token.IDENT:
		name := p.cur.Lit
		p.advance()
		if p.at("(") {
			return p.parseCallRest(name, ln)
		}
		return &ast.Identifier{Name: name, Ln: ln}

	case token.OPERATOR:
		if p.cur.Lit == "(" {
			p.advance()
			x := p.parseExpression(sentinelPrecedence)
			p.expect(")")
			return x
		}
	}

	p.errorf("unexpected token %q in expression", p.cur.String())
	panic(errPanicMode)
}

func (p *parser) parseCallRest(name string, ln int) ast.Expr {
	p.expect("(")
	var args []ast.Expr
	for !p.at(")") {
		if len(args) > 0 {
			p.expect(",")
		}
		args = append(args, p.parseExpression(binaryOps["="].Precedence-1))
	}
	p.expect(")")
	return &ast.Call{Func: name, Args: args, Ln: ln}
}

// parseIntLit is a small helper kept for callers (e.g. tests) that need to
// build an integer literal expression directly from text, matching how
// lang/scanner already parses the lexeme into Token.Int.
func parseIntLit(lit string) (int64, error) {
	return strconv.ParseInt(lit, 0, 64)
}
