// Package dis disassembles a linked ROM image back into 6502 mnemonics,
// using lang/opcode's reverse (byte -> mnemonic, mode) map — spec.md
// §4.6's "reverse map for disassembly" made concrete, per SPEC_FULL.md's
// supplemented sixdis companion tool.
package dis

import (
	"fmt"

	"github.com/mna/sixc/lang/opcode"
)

// Instruction is one decoded 6502 instruction: its address, mnemonic,
// addressing mode, any operand bytes and the raw encoded bytes it came
// from.
type Instruction struct {
	Addr     uint16
	Mnemonic string
	Mode     opcode.AddrMode
	Operand  uint16 // meaningful only when Mode.Width() > 0
	Raw      []byte
}

// String renders an Instruction the way a hand assembler listing would:
// address, raw bytes, then the mnemonic with an operand formatted for its
// addressing mode.
func (in Instruction) String() string {
	var operand string
	switch in.Mode {
	case opcode.Implied, opcode.Accumulator:
		operand = ""
	case opcode.Immediate:
		operand = fmt.Sprintf(" #$%02X", in.Operand)
	case opcode.ZeroPage:
		operand = fmt.Sprintf(" $%02X", in.Operand)
	case opcode.ZeroPageX:
		operand = fmt.Sprintf(" $%02X,X", in.Operand)
	case opcode.ZeroPageY:
		operand = fmt.Sprintf(" $%02X,Y", in.Operand)
	case opcode.Absolute:
		operand = fmt.Sprintf(" $%04X", in.Operand)
	case opcode.AbsoluteX:
		operand = fmt.Sprintf(" $%04X,X", in.Operand)
	case opcode.AbsoluteY:
		operand = fmt.Sprintf(" $%04X,Y", in.Operand)
	case opcode.Indirect:
		operand = fmt.Sprintf(" ($%04X)", in.Operand)
	case opcode.IndirectX:
		operand = fmt.Sprintf(" ($%02X,X)", in.Operand)
	case opcode.IndirectY:
		operand = fmt.Sprintf(" ($%02X),Y", in.Operand)
	case opcode.Relative:
		target := in.Addr + uint16(len(in.Raw)) + uint16(int8(in.Operand))
		operand = fmt.Sprintf(" $%04X", target)
	}
	return fmt.Sprintf("%04X: %-8s %s%s", in.Addr, rawHex(in.Raw), in.Mnemonic, operand)
}

func rawHex(raw []byte) string {
	s := ""
	for _, b := range raw {
		s += fmt.Sprintf("%02X ", b)
	}
	return s
}

// Decode decodes a single instruction from code starting at offset off,
// where addr is the CPU address code[off] is mapped to (per lang/link's
// file-offset-equals-CPU-address convention above the iNES header).
// It returns the decoded instruction and the offset immediately past it.
func Decode(code []byte, off int, addr uint16) (Instruction, int, error) {
	if off < 0 || off >= len(code) {
		return Instruction{}, off, fmt.Errorf("dis: offset %d out of range", off)
	}
	b := code[off]
	mnemonic, mode, ok := opcode.Reverse(b)
	if !ok {
		return Instruction{}, off + 1, fmt.Errorf("dis: unknown opcode byte 0x%02X at $%04X", b, addr)
	}
	width := mode.Width()
	if off+1+width > len(code) {
		return Instruction{}, off + 1, fmt.Errorf("dis: truncated operand for %s at $%04X", mnemonic, addr)
	}
	raw := code[off : off+1+width]
	var operand uint16
	switch width {
	case 1:
		operand = uint16(raw[1])
	case 2:
		operand = uint16(raw[1]) | uint16(raw[2])<<8
	}
	return Instruction{Addr: addr, Mnemonic: mnemonic, Mode: mode, Operand: operand, Raw: raw}, off + 1 + width, nil
}

// Range disassembles code[0:len(code)] sequentially, treating code[0] as
// CPU address base, stopping either when the whole slice is consumed or
// the first undecodable byte is hit (returned as the trailing error, with
// every instruction decoded up to that point still returned).
func Range(code []byte, base uint16) ([]Instruction, error) {
	var out []Instruction
	off := 0
	for off < len(code) {
		in, next, err := Decode(code, off, base+uint16(off))
		if err != nil {
			return out, err
		}
		out = append(out, in)
		off = next
	}
	return out, nil
}
