package analyser

import "github.com/mna/sixc/lang/ast"

func (a *Analyser) visitStmt(n ast.Node) {
	switch s := n.(type) {
	case *ast.VarDefStmt:
		a.visitVarDef(s)
	case *ast.ReturnStmt:
		a.visitReturn(s)
	case *ast.ExprStmt:
		a.visitExpr(s.X)
	case *ast.ControlStmt:
		a.visitControl(s)
	case *ast.InlineAsmStmt:
		a.visitInlineAsm(s)
	case *ast.Block:
		for _, c := range s.Body {
			a.visitStmt(c)
		}
	case *ast.StructDef, *ast.FuncDef:
		a.visitTopLevel(n)
	default:
		a.errorf(n.Line(), "statement expected, found %T", n)
	}
}

// visitReturn requires the enclosing scope's owning symbol to be a
// Function, and records that function's unique name on the node, per
// spec.md §4.3.
func (a *Analyser) visitReturn(r *ast.ReturnStmt) {
	if a.cur.Owner == nil || a.cur.Owner.Kind != KindFunction {
		a.errorf(r.Ln, "return statement outside a function")
	} else {
		r.FuncName = a.cur.Owner.UniqueName
	}
	if r.Value != nil {
		a.visitExpr(r.Value)
	}
}

func (a *Analyser) visitControl(c *ast.ControlStmt) {
	if c.Cond != nil {
		a.visitExpr(c.Cond)
	}
	a.visitStmt(c.Body)
	if c.Connected != nil {
		a.visitStmt(c.Connected)
	}
}

// visitInlineAsm attempts to resolve operand1 as a Variable symbol; if it
// names one, the operand is rewritten to the unique name so codegen can
// look it up in the symbol table, per spec.md §4.3. Any other operand form
// (immediate, hex literal, bare register) is left untouched for codegen to
// interpret.
func (a *Analyser) visitInlineAsm(s *ast.InlineAsmStmt) {
	sym := a.cur.lookup(s.Operand1, SetVariable)
	if sym != nil {
		s.Operand1 = sym.UniqueName
	}
}
