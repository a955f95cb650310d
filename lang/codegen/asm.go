package codegen

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mna/sixc/lang/analyser"
	"github.com/mna/sixc/lang/ast"
	"github.com/mna/sixc/lang/opcode"
)

// lowerInlineAsm lowers a single __asm statement, per spec.md §4.2/§4.4:
// resolve operand1 against a known symbol, an immediate (#...) literal, a
// hex literal ($...), or a bare accumulator reference; operand2, when "x"
// or "y", selects the indexed addressing variant.
func (g *gen) lowerInlineAsm(s *ast.InlineAsmStmt) {
	mnemonic := strings.ToUpper(s.Mnemonic)

	if s.Operand1 == "" {
		if _, err := g.em.Emit(mnemonic, opcode.Implied, 0); err != nil {
			g.errorf(s.Ln, "%s", err)
		}
		return
	}

	mode, value, err := g.resolveAsmOperand(s.Operand1)
	if err != nil {
		g.errorf(s.Ln, "%s", err)
		return
	}
	mode = indexAsmMode(mode, s.Operand2)

	if _, err := g.em.Emit(mnemonic, mode, value); err != nil {
		g.errorf(s.Ln, "%s", err)
	}
}

// resolveAsmOperand resolves one inline-assembly operand's text to an
// addressing mode and value: a known symbol name (the analyser already
// rewrote variable references to their unique name), a bare "A" for the
// accumulator, an immediate "#..." literal, or a "$..." hex literal. The
// zero-page/absolute split for a "$..." literal is decided by the digit
// count of its hex text (two digits or fewer is zero page), matching the
// addressing heuristic this operand syntax has always used.
func (g *gen) resolveAsmOperand(text string) (opcode.AddrMode, uint16, error) {
	if sym, ok := g.table[text]; ok {
		if sym.AddrKind == analyser.AddrUnset {
			addr, err := g.alloc.alloc(sizeOfType(sym.TypeName))
			if err != nil {
				return 0, 0, err
			}
			sym.Address = addr
			sym.AddrKind = analyser.AddrAbsolute
		}
		if sym.Address < 0x0100 {
			return opcode.ZeroPage, sym.Address, nil
		}
		return opcode.Absolute, sym.Address, nil
	}

	if strings.EqualFold(text, "A") {
		return opcode.Accumulator, 0, nil
	}

	if strings.HasPrefix(text, "#") {
		v, err := parseAsmNumber(text[1:])
		if err != nil {
			return 0, 0, fmt.Errorf("codegen: invalid immediate operand %q: %w", text, err)
		}
		return opcode.Immediate, v, nil
	}

	if strings.HasPrefix(text, "$") {
		digits := text[1:]
		v, err := strconv.ParseUint(digits, 16, 16)
		if err != nil {
			return 0, 0, fmt.Errorf("codegen: invalid hex operand %q: %w", text, err)
		}
		if len(digits) <= 2 {
			return opcode.ZeroPage, uint16(v), nil
		}
		return opcode.Absolute, uint16(v), nil
	}

	return 0, 0, fmt.Errorf("codegen: unresolved inline-assembly operand %q", text)
}

func parseAsmNumber(text string) (uint16, error) {
	if strings.HasPrefix(text, "$") {
		v, err := strconv.ParseUint(text[1:], 16, 16)
		return uint16(v), err
	}
	v, err := strconv.ParseUint(text, 10, 16)
	return uint16(v), err
}

func indexAsmMode(mode opcode.AddrMode, operand2 string) opcode.AddrMode {
	switch strings.ToLower(operand2) {
	case "x":
		switch mode {
		case opcode.ZeroPage:
			return opcode.ZeroPageX
		case opcode.Absolute:
			return opcode.AbsoluteX
		case opcode.Indirect:
			return opcode.IndirectX
		}
	case "y":
		switch mode {
		case opcode.ZeroPage:
			return opcode.ZeroPageY
		case opcode.Absolute:
			return opcode.AbsoluteY
		case opcode.Indirect:
			return opcode.IndirectY
		}
	}
	return mode
}
