package analyser

import "github.com/mna/sixc/lang/ast"

// visitExpr dispatches over the closed Expr node set, per spec.md §4.3's
// "Expression visiting" rules.
func (a *Analyser) visitExpr(e ast.Expr) {
	switch x := e.(type) {
	case *ast.BinaryOp:
		a.visitBinaryOp(x)
	case *ast.UnaryOp:
		// Reserved; no type effect in the current core (spec.md §4.3), but
		// still descend so nested identifiers resolve.
		a.visitExpr(x.Operand)
	case *ast.Literal:
		a.visitLiteral(x)
	case *ast.Identifier:
		a.visitIdentifier(x)
	case *ast.Call:
		a.visitCall(x)
	default:
		a.errorf(e.Line(), "expression expected, found %T", e)
	}
}

func (a *Analyser) visitBinaryOp(b *ast.BinaryOp) {
	a.visitExpr(b.Left)
	a.visitExpr(b.Right)
	leftType := valueTypeOf(b.Left)
	rightType := valueTypeOf(b.Right)
	if leftType != rightType {
		a.errorf(b.Ln, "type mismatch: %q vs %q in binary %q", leftType, rightType, b.Op)
		return
	}
	b.ValueType = leftType
}

func (a *Analyser) visitLiteral(l *ast.Literal) {
	switch l.Tok.Kind {
	case ast.IntLit:
		l.ValueType = "uint8_t"
	default:
		a.errorf(l.Ln, "only integer literals are supported in this type system")
	}
}

func (a *Analyser) visitIdentifier(id *ast.Identifier) {
	sym := a.cur.lookup(id.Name, SetVariable|SetFuncParam)
	if sym == nil {
		a.errorf(id.Ln, "undeclared identifier %q", id.Name)
		return
	}
	id.Name = sym.UniqueName
	if sym.Kind == KindVariable {
		id.Kind = ast.VarIdent
	} else {
		id.Kind = ast.ParamIdent
	}
	id.ValueType = sym.TypeName
}

func (a *Analyser) visitCall(c *ast.Call) {
	for _, arg := range c.Args {
		a.visitExpr(arg)
	}

	callee := a.cur.lookup(c.Func, SetFunction)
	if callee == nil {
		a.errorf(c.Ln, "call to undeclared function %q", c.Func)
		return
	}
	c.Func = callee.UniqueName
	c.ValueType = callee.TypeName

	if callee.Child == nil {
		return
	}
	var params []*Symbol
	for _, sym := range callee.Child.Symbols {
		if sym.Kind == KindFuncParam {
			params = append(params, sym)
		}
	}
	if len(params) != len(c.Args) {
		a.errorf(c.Ln, "function %q expects %d argument(s), got %d", callee.SourceName, len(params), len(c.Args))
		return
	}
	for i, arg := range c.Args {
		argType := valueTypeOf(arg)
		if argType != params[i].TypeName {
			a.errorf(c.Ln, "argument %d to %q: type mismatch %q vs %q", i+1, callee.SourceName, argType, params[i].TypeName)
		}
	}
}

// valueTypeOf extracts the ValueType field the analyser has already filled
// in on any Expr node, without needing a method on the ast.Expr interface
// itself (ast deliberately carries no analyser-specific accessor).
func valueTypeOf(e ast.Expr) string {
	switch x := e.(type) {
	case *ast.BinaryOp:
		return x.ValueType
	case *ast.UnaryOp:
		return x.ValueType
	case *ast.Literal:
		return x.ValueType
	case *ast.Identifier:
		return x.ValueType
	case *ast.Call:
		return x.ValueType
	default:
		return ""
	}
}
