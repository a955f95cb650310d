package codegen

import (
	"fmt"

	"github.com/mna/sixc/lang/analyser"
	"github.com/mna/sixc/lang/ast"
	"github.com/mna/sixc/lang/opcode"
)

// lowerExpr evaluates e and returns the Operand describing where its value
// now lives, per spec.md §4.4's per-expression-shape lowering rules.
func (g *gen) lowerExpr(e ast.Expr) Operand {
	switch e := e.(type) {
	case *ast.Literal:
		return g.lowerLiteral(e)
	case *ast.Identifier:
		return g.lowerIdentifier(e)
	case *ast.Call:
		return g.lowerCall(e)
	case *ast.BinaryOp:
		return g.lowerBinaryOp(e)
	case *ast.UnaryOp:
		g.errorf(e.Ln, "unsupported expression form (unary operators are not lowered in this core)")
		return Operand{}
	default:
		g.errorf(e.Line(), "unsupported expression form in code generation")
		return Operand{}
	}
}

func (g *gen) lowerLiteral(l *ast.Literal) Operand {
	if l.Tok.Kind != ast.IntLit {
		g.errorf(l.Ln, "internal error: non-integer literal reached code generation")
		return Operand{}
	}
	return Operand{Kind: Value, Value: uint8(l.Tok.Int)}
}

func (g *gen) lowerIdentifier(id *ast.Identifier) Operand {
	sym, ok := g.table[id.Name]
	if !ok {
		g.errorf(id.Ln, "internal error: identifier %q missing from symbol table", id.Name)
		return Operand{}
	}
	if sym.AddrKind == analyser.AddrUnset {
		addr, err := g.alloc.alloc(sizeOfType(sym.TypeName))
		if err != nil {
			g.errorf(id.Ln, "%s", err)
			return Operand{}
		}
		sym.Address = addr
		sym.AddrKind = analyser.AddrAbsolute
	}
	return Operand{Kind: DataAddress, Symbol: sym}
}

// funcParams returns the callee's parameter symbols, in declaration order,
// per the ordering allSymbols already preserves in the callee's child scope.
func funcParams(callee *analyser.Symbol) []*analyser.Symbol {
	var out []*analyser.Symbol
	if callee.Child == nil {
		return out
	}
	for _, s := range callee.Child.Symbols {
		if s.Kind == analyser.KindFuncParam {
			out = append(out, s)
		}
	}
	return out
}

// lowerCall evaluates each argument and copies it into the callee's
// parameter addresses, emits the call, and returns the callee's recorded
// return-value operand, per spec.md §4.4's function-call lowering rule.
func (g *gen) lowerCall(c *ast.Call) Operand {
	callee, ok := g.table[c.Func]
	if !ok {
		g.errorf(c.Ln, "internal error: callee %q missing from symbol table", c.Func)
		return Operand{}
	}
	params := funcParams(callee)
	for i, arg := range c.Args {
		val := g.lowerExpr(arg)
		if i >= len(params) {
			continue // arity already checked by the analyser; defensive only
		}
		p := params[i]
		g.storeOperand(c.Ln, regA, val, Operand{Kind: DataAddress, Symbol: p})
	}

	if callee.AddrKind == analyser.AddrRelative {
		if _, err := g.emitCodeJump("JSR", callee.Address); err != nil {
			g.errorf(c.Ln, "%s", err)
		}
	} else {
		start, err := g.em.Emit("JSR", opcode.Absolute, 0)
		if err != nil {
			g.errorf(c.Ln, "%s", err)
		} else {
			g.symbolReferences = append(g.symbolReferences, SymbolReference{Offset: start + 1, Name: callee.UniqueName})
		}
	}
	g.cache = registerCache{}

	if callee.TypeName == "void" {
		return Operand{Kind: None}
	}
	if op, ok := g.returnOperand[callee.UniqueName]; ok {
		return op
	}
	return Operand{Kind: None}
}

// lowerBinaryOp lowers +, -, == and != per spec.md §4.4; = is handled
// separately since its left operand must be an assignable identifier.
func (g *gen) lowerBinaryOp(b *ast.BinaryOp) Operand {
	if b.Op == "=" {
		return g.lowerAssign(b)
	}

	left := g.lowerExpr(b.Left)
	right := g.lowerExpr(b.Right)

	switch b.Op {
	case "+", "-":
		return g.lowerArith(b, left, right)
	case "==", "!=":
		return g.lowerCompare(b, left, right)
	default:
		g.errorf(b.Ln, "unsupported operator %q in code generation", b.Op)
		return Operand{}
	}
}

func (g *gen) lowerAssign(b *ast.BinaryOp) Operand {
	id, ok := b.Left.(*ast.Identifier)
	if !ok {
		g.errorf(b.Ln, "left-hand side of assignment must be an identifier")
		return Operand{}
	}
	target := g.lowerIdentifier(id)
	val := g.lowerExpr(b.Right)
	g.storeOperand(b.Ln, regA, val, target)
	return target
}

func (g *gen) lowerArith(b *ast.BinaryOp, left, right Operand) Operand {
	if err := g.load(regA, left); err != nil {
		g.errorf(b.Ln, "%s", err)
		return Operand{}
	}
	mode, value, err := operandAddressing(right)
	if err != nil {
		g.errorf(b.Ln, "%s", err)
		return Operand{}
	}
	mnemonic := "ADC"
	flag := "CLC"
	if b.Op == "-" {
		mnemonic = "SBC"
		flag = "SEC"
	}
	if _, err := g.em.Emit(flag, opcode.Implied, 0); err != nil {
		g.errorf(b.Ln, "%s", err)
		return Operand{}
	}
	if _, err := g.em.Emit(mnemonic, mode, value); err != nil {
		g.errorf(b.Ln, "%s", err)
		return Operand{}
	}
	g.cache.invalidate(right)
	g.cache.invalidateReg(regA) // result is newly computed; no operand names it yet
	return g.storeToTemp(b.Ln, regA)
}

func (g *gen) lowerCompare(b *ast.BinaryOp, left, right Operand) Operand {
	if err := g.load(regA, left); err != nil {
		g.errorf(b.Ln, "%s", err)
		return Operand{}
	}
	mode, value, err := operandAddressing(right)
	if err != nil {
		g.errorf(b.Ln, "%s", err)
		return Operand{}
	}
	if _, err := g.em.Emit("CMP", mode, value); err != nil {
		g.errorf(b.Ln, "%s", err)
		return Operand{}
	}
	branchMnemonic := "BEQ"
	if b.Op == "!=" {
		branchMnemonic = "BNE"
	}
	branchStart, err := g.em.Emit(branchMnemonic, opcode.Relative, 0)
	if err != nil {
		g.errorf(b.Ln, "%s", err)
		return Operand{}
	}
	if _, err := g.em.Emit("LDA", opcode.Immediate, 0); err != nil {
		g.errorf(b.Ln, "%s", err)
		return Operand{}
	}
	jmpStart, err := g.emitCodeJump("JMP", 0)
	if err != nil {
		g.errorf(b.Ln, "%s", err)
		return Operand{}
	}
	trueLabel := g.em.Pos()
	if err := g.patchBranch(branchStart, trueLabel); err != nil {
		g.errorf(b.Ln, "%s", err)
		return Operand{}
	}
	if _, err := g.em.Emit("LDA", opcode.Immediate, 1); err != nil {
		g.errorf(b.Ln, "%s", err)
		return Operand{}
	}
	endLabel := g.em.Pos()
	if err := g.patchAbsolute(jmpStart+1, uint16(endLabel)); err != nil {
		g.errorf(b.Ln, "%s", err)
		return Operand{}
	}
	g.cache = registerCache{}
	return g.storeToTemp(b.Ln, regA)
}

func (g *gen) storeToTemp(ln int, r reg) Operand {
	addr, err := g.alloc.alloc(1)
	if err != nil {
		g.errorf(ln, "%s", err)
		return Operand{}
	}
	temp := Operand{Kind: DataAddress, Addr: addr}
	if err := g.store(r, temp); err != nil {
		g.errorf(ln, "%s", err)
		return Operand{}
	}
	return temp
}

// operandAddressing resolves the (AddrMode, value) pair an Operand lowers
// to for any single-operand instruction (load, compare, arithmetic).
func operandAddressing(op Operand) (opcode.AddrMode, uint16, error) {
	switch op.Kind {
	case Value:
		return opcode.Immediate, uint16(op.Value), nil
	case DataAddress:
		addr := op.resolvedAddr()
		if addr < 0x0100 {
			return opcode.ZeroPage, addr, nil
		}
		return opcode.Absolute, addr, nil
	case CodeAddress:
		return 0, 0, fmt.Errorf("codegen: a code address cannot be used as a value operand")
	default:
		return 0, 0, fmt.Errorf("codegen: expression has no value (void)")
	}
}

// load puts op's value into register r, skipping emission if the register
// cache already shows r holding this exact operand, per spec.md §4.4.
func (g *gen) load(r reg, op Operand) error {
	if cur, ok := g.cache.get(r); ok && cur == op {
		return nil
	}
	mode, value, err := operandAddressing(op)
	if err != nil {
		return err
	}
	if _, err := g.em.Emit(r.loadMnemonic(), mode, value); err != nil {
		return err
	}
	g.cache.set(r, op)
	return nil
}

// store writes register r into target's address, invalidating any other
// register's cache entry that named target (its mirrored memory just
// changed), then records target as r's new cached operand.
func (g *gen) store(r reg, target Operand) error {
	addr := target.resolvedAddr()
	mode := opcode.Absolute
	if addr < 0x0100 {
		mode = opcode.ZeroPage
	}
	if _, err := g.em.Emit(r.storeMnemonic(), mode, addr); err != nil {
		return err
	}
	g.cache.invalidate(target)
	g.cache.set(r, target)
	return nil
}

// storeOperand loads val into r (unless already cached) then stores it to
// target, reporting any failure against line ln.
func (g *gen) storeOperand(ln int, r reg, val, target Operand) {
	if err := g.load(r, val); err != nil {
		g.errorf(ln, "%s", err)
		return
	}
	if err := g.store(r, target); err != nil {
		g.errorf(ln, "%s", err)
	}
}

// emitCodeJump emits an absolute-mode JMP/JSR to a code address and records
// the operand offset for unit-base relocation, per spec.md §4.4's
// relativeAddresses rule: every code-address operand needs the unit's base
// address added once it is known at link time.
func (g *gen) emitCodeJump(mnemonic string, target uint16) (int, error) {
	start, err := g.em.Emit(mnemonic, opcode.Absolute, target)
	if err != nil {
		return 0, err
	}
	g.relativeAddresses = append(g.relativeAddresses, start+1)
	return start, nil
}

// patchBranch fixes up a reserved Relative-mode branch at branchStart with
// the two's-complement displacement to target, erroring if it overflows a
// signed 8-bit range. This replaces the sign-magnitude displacement bug the
// redesign notes in spec.md §9 call out, with standard two's-complement
// relative addressing.
func (g *gen) patchBranch(branchStart, target int) error {
	disp := target - (branchStart + 2)
	if disp < -128 || disp > 127 {
		return fmt.Errorf("codegen: branch displacement %d out of range at offset %d", disp, branchStart)
	}
	return g.em.EmitDataAtPos(branchStart+1, []byte{byte(int8(disp))})
}

// patchAbsolute fixes up a reserved 2-byte little-endian absolute operand.
func (g *gen) patchAbsolute(offset int, target uint16) error {
	return g.em.EmitDataAtPos(offset, []byte{byte(target), byte(target >> 8)})
}
