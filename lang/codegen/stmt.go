package codegen

import (
	"github.com/mna/sixc/lang/ast"
	"github.com/mna/sixc/lang/opcode"
)

// lowerStmt lowers one statement or nested declaration, per spec.md §4.4.
func (g *gen) lowerStmt(n ast.Node) {
	switch n := n.(type) {
	case *ast.VarDefStmt:
		g.lowerVarDef(n)
	case *ast.ReturnStmt:
		g.lowerReturn(n)
	case *ast.ExprStmt:
		g.lowerExpr(n.X)
	case *ast.ControlStmt:
		g.lowerControl(n)
	case *ast.InlineAsmStmt:
		g.lowerInlineAsm(n)
	case *ast.Block:
		for _, c := range n.Body {
			g.lowerStmt(c)
		}
	case *ast.FuncDef, *ast.StructDef:
		g.lowerTopLevel(n)
	default:
		g.errorf(n.Line(), "unsupported statement in code generation")
	}
}

// lowerReturn evaluates the return expression (if any), records its operand
// against the enclosing function's unique name for a later Call to pick up,
// then emits RTS.
func (g *gen) lowerReturn(r *ast.ReturnStmt) {
	if r.Value == nil {
		g.returnOperand[r.FuncName] = Operand{Kind: None}
	} else {
		g.returnOperand[r.FuncName] = g.lowerExpr(r.Value)
	}
	if _, err := g.em.Emit("RTS", opcode.Implied, 0); err != nil {
		g.errorf(r.Ln, "%s", err)
	}
	g.cache = registerCache{}
}

// lowerControl dispatches to the if/else-if/else chain lowering or the
// while loop lowering, per spec.md §4.4.
func (g *gen) lowerControl(c *ast.ControlStmt) {
	switch c.Kind {
	case ast.While:
		g.lowerWhile(c)
	case ast.If:
		g.lowerIfChain(c)
	default:
		g.errorf(c.Ln, "internal error: control statement reached outside its chain")
	}
}

// lowerIfChain lowers an if, and any chained else-if/else branches. Each
// conditional branch is: evaluate condition, BEQ past the body (and, for
// every branch but the last, a trailing JMP to the chain's end); the chain
// end is patched once every branch's extent is known.
func (g *gen) lowerIfChain(first *ast.ControlStmt) {
	var jmpOperandOffsets []int

	var node ast.Node = first
	for node != nil {
		cur, ok := node.(*ast.ControlStmt)
		if !ok {
			g.errorf(node.Line(), "internal error: malformed if/else chain")
			return
		}
		if cur.Kind == ast.Else {
			g.lowerStmt(cur.Body)
			node = cur.Connected
			continue
		}

		cond := g.lowerExpr(cur.Cond)
		if err := g.load(regA, cond); err != nil {
			g.errorf(cur.Ln, "%s", err)
			return
		}
		branchStart, err := g.em.Emit("BEQ", opcode.Relative, 0)
		if err != nil {
			g.errorf(cur.Ln, "%s", err)
			return
		}
		g.cache = registerCache{}
		g.lowerStmt(cur.Body)

		if cur.Connected != nil {
			jmpStart, err := g.emitCodeJump("JMP", 0)
			if err != nil {
				g.errorf(cur.Ln, "%s", err)
				return
			}
			jmpOperandOffsets = append(jmpOperandOffsets, jmpStart+1)
		}

		if err := g.patchBranch(branchStart, g.em.Pos()); err != nil {
			g.errorf(cur.Ln, "%s", err)
			return
		}
		g.cache = registerCache{}
		node = cur.Connected
	}

	end := uint16(g.em.Pos())
	for _, off := range jmpOperandOffsets {
		if err := g.patchAbsolute(off, end); err != nil {
			g.errorf(first.Ln, "%s", err)
			return
		}
	}
}

// lowerWhile lowers a loop: evaluate condition, BEQ past the body, emit the
// body, JMP back to the condition, then patch BEQ to land just after the
// JMP.
func (g *gen) lowerWhile(c *ast.ControlStmt) {
	start := g.em.Pos()
	cond := g.lowerExpr(c.Cond)
	if err := g.load(regA, cond); err != nil {
		g.errorf(c.Ln, "%s", err)
		return
	}
	branchStart, err := g.em.Emit("BEQ", opcode.Relative, 0)
	if err != nil {
		g.errorf(c.Ln, "%s", err)
		return
	}
	g.cache = registerCache{}
	g.lowerStmt(c.Body)
	if _, err := g.emitCodeJump("JMP", uint16(start)); err != nil {
		g.errorf(c.Ln, "%s", err)
		return
	}
	if err := g.patchBranch(branchStart, g.em.Pos()); err != nil {
		g.errorf(c.Ln, "%s", err)
		return
	}
	g.cache = registerCache{}
}
