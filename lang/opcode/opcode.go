// Package opcode implements the bidirectional (mnemonic, addressing mode)
// <-> opcode byte map described in spec.md §4.6: "a static bidirectional
// map populated once... its content is the 6502 ISA; it is illustrative
// rather than state."
//
// Grounded on github.com/mna/nenuphar/lang/compiler/opcode.go's enum +
// array-by-index name table + reverse map built once via a func literal,
// adapted here to a two-key (mnemonic, mode) table instead of the
// teacher's single bytecode opcode enum, and populated with the real 6502
// instruction set instead of the teacher's stack-machine one. Per spec.md
// §9's redesign guidance ("global mutable opcode map: model as an
// immutable table built once at startup... and passed by reference"), the
// table is built once into package-level maps and never mutated after
// init.
package opcode

import "fmt"

// AddrMode is a 6502 addressing mode, per spec.md §4.5.
type AddrMode int

const (
	Implied AddrMode = iota
	Accumulator
	Immediate
	ZeroPage
	ZeroPageX
	ZeroPageY
	Absolute
	AbsoluteX
	AbsoluteY
	Indirect
	IndirectX
	IndirectY
	// Relative is the signed 8-bit branch displacement used by the
	// conditional-branch mnemonics (BEQ, BNE, ...). spec.md §4.5 does not
	// name it among the addressing modes it lists, but spec.md §4.4's branch
	// lowering rules require it; it is added here to give BEQ/BNE/etc. a
	// home in this table instead of special-casing them outside it.
	Relative
)

var modeNames = [...]string{
	Implied:     "implied",
	Accumulator: "accumulator",
	Immediate:   "immediate",
	ZeroPage:    "zeropage",
	ZeroPageX:   "zeropage,x",
	ZeroPageY:   "zeropage,y",
	Absolute:    "absolute",
	AbsoluteX:   "absolute,x",
	AbsoluteY:   "absolute,y",
	Indirect:    "indirect",
	IndirectX:   "(indirect,x)",
	IndirectY:   "(indirect),y",
	Relative:    "relative",
}

func (m AddrMode) String() string {
	if int(m) >= 0 && int(m) < len(modeNames) && modeNames[m] != "" {
		return modeNames[m]
	}
	return "invalid addressing mode"
}

// Width is the number of operand bytes an instruction in this mode carries,
// per spec.md §4.5's width-by-mode list.
func (m AddrMode) Width() int {
	switch m {
	case Implied, Accumulator:
		return 0
	case Immediate, ZeroPage, ZeroPageX, ZeroPageY, IndirectX, IndirectY, Relative:
		return 1
	case Absolute, AbsoluteX, AbsoluteY, Indirect:
		return 2
	default:
		return 0
	}
}

type key struct {
	Mnemonic string
	Mode     AddrMode
}

type entry struct {
	Mnemonic string
	Mode     AddrMode
	Byte     byte
}

// table is the illustrative subset of the 6502 ISA this compiler targets:
// load/store, arithmetic, compare, logical, shift/rotate, increment/
// decrement, register transfer, stack, jump/call/return, conditional
// branch, flag, and no-op/break instructions — enough to cover every
// lowering rule in spec.md §4.4 plus inline assembly's common operands.
var table = []entry{
	{"LDA", Immediate, 0xA9}, {"LDA", ZeroPage, 0xA5}, {"LDA", ZeroPageX, 0xB5},
	{"LDA", Absolute, 0xAD}, {"LDA", AbsoluteX, 0xBD}, {"LDA", AbsoluteY, 0xB9},
	{"LDA", IndirectX, 0xA1}, {"LDA", IndirectY, 0xB1},

	{"LDX", Immediate, 0xA2}, {"LDX", ZeroPage, 0xA6}, {"LDX", ZeroPageY, 0xB6},
	{"LDX", Absolute, 0xAE}, {"LDX", AbsoluteY, 0xBE},

	{"LDY", Immediate, 0xA0}, {"LDY", ZeroPage, 0xA4}, {"LDY", ZeroPageX, 0xB4},
	{"LDY", Absolute, 0xAC}, {"LDY", AbsoluteX, 0xBC},

	{"STA", ZeroPage, 0x85}, {"STA", ZeroPageX, 0x95}, {"STA", Absolute, 0x8D},
	{"STA", AbsoluteX, 0x9D}, {"STA", AbsoluteY, 0x99},
	{"STA", IndirectX, 0x81}, {"STA", IndirectY, 0x91},

	{"STX", ZeroPage, 0x86}, {"STX", ZeroPageY, 0x96}, {"STX", Absolute, 0x8E},
	{"STY", ZeroPage, 0x84}, {"STY", ZeroPageX, 0x94}, {"STY", Absolute, 0x8C},

	{"ADC", Immediate, 0x69}, {"ADC", ZeroPage, 0x65}, {"ADC", ZeroPageX, 0x75},
	{"ADC", Absolute, 0x6D}, {"ADC", AbsoluteX, 0x7D}, {"ADC", AbsoluteY, 0x79},
	{"ADC", IndirectX, 0x61}, {"ADC", IndirectY, 0x71},

	{"SBC", Immediate, 0xE9}, {"SBC", ZeroPage, 0xE5}, {"SBC", ZeroPageX, 0xF5},
	{"SBC", Absolute, 0xED}, {"SBC", AbsoluteX, 0xFD}, {"SBC", AbsoluteY, 0xF9},
	{"SBC", IndirectX, 0xE1}, {"SBC", IndirectY, 0xF1},

	{"CMP", Immediate, 0xC9}, {"CMP", ZeroPage, 0xC5}, {"CMP", ZeroPageX, 0xD5},
	{"CMP", Absolute, 0xCD}, {"CMP", AbsoluteX, 0xDD}, {"CMP", AbsoluteY, 0xD9},
	{"CMP", IndirectX, 0xC1}, {"CMP", IndirectY, 0xD1},

	{"CPX", Immediate, 0xE0}, {"CPX", ZeroPage, 0xE4}, {"CPX", Absolute, 0xEC},
	{"CPY", Immediate, 0xC0}, {"CPY", ZeroPage, 0xC4}, {"CPY", Absolute, 0xCC},

	{"AND", Immediate, 0x29}, {"AND", ZeroPage, 0x25}, {"AND", ZeroPageX, 0x35},
	{"AND", Absolute, 0x2D}, {"AND", AbsoluteX, 0x3D}, {"AND", AbsoluteY, 0x39},
	{"AND", IndirectX, 0x21}, {"AND", IndirectY, 0x31},

	{"ORA", Immediate, 0x09}, {"ORA", ZeroPage, 0x05}, {"ORA", ZeroPageX, 0x15},
	{"ORA", Absolute, 0x0D}, {"ORA", AbsoluteX, 0x1D}, {"ORA", AbsoluteY, 0x19},
	{"ORA", IndirectX, 0x01}, {"ORA", IndirectY, 0x11},

	{"EOR", Immediate, 0x49}, {"EOR", ZeroPage, 0x45}, {"EOR", ZeroPageX, 0x55},
	{"EOR", Absolute, 0x4D}, {"EOR", AbsoluteX, 0x5D}, {"EOR", AbsoluteY, 0x59},
	{"EOR", IndirectX, 0x41}, {"EOR", IndirectY, 0x51},

	{"ASL", Accumulator, 0x0A}, {"ASL", ZeroPage, 0x06}, {"ASL", ZeroPageX, 0x16},
	{"ASL", Absolute, 0x0E}, {"ASL", AbsoluteX, 0x1E},

	{"LSR", Accumulator, 0x4A}, {"LSR", ZeroPage, 0x46}, {"LSR", ZeroPageX, 0x56},
	{"LSR", Absolute, 0x4E}, {"LSR", AbsoluteX, 0x5E},

	{"ROL", Accumulator, 0x2A}, {"ROL", ZeroPage, 0x26}, {"ROL", ZeroPageX, 0x36},
	{"ROL", Absolute, 0x2E}, {"ROL", AbsoluteX, 0x3E},

	{"ROR", Accumulator, 0x6A}, {"ROR", ZeroPage, 0x66}, {"ROR", ZeroPageX, 0x76},
	{"ROR", Absolute, 0x6E}, {"ROR", AbsoluteX, 0x7E},

	{"INC", ZeroPage, 0xE6}, {"INC", ZeroPageX, 0xF6}, {"INC", Absolute, 0xEE}, {"INC", AbsoluteX, 0xFE},
	{"DEC", ZeroPage, 0xC6}, {"DEC", ZeroPageX, 0xD6}, {"DEC", Absolute, 0xCE}, {"DEC", AbsoluteX, 0xDE},

	{"INX", Implied, 0xE8}, {"INY", Implied, 0xC8}, {"DEX", Implied, 0xCA}, {"DEY", Implied, 0x88},
	{"TAX", Implied, 0xAA}, {"TAY", Implied, 0xA8}, {"TXA", Implied, 0x8A}, {"TYA", Implied, 0x98},
	{"TXS", Implied, 0x9A}, {"TSX", Implied, 0xBA},
	{"PHA", Implied, 0x48}, {"PLA", Implied, 0x68}, {"PHP", Implied, 0x08}, {"PLP", Implied, 0x28},

	{"JMP", Absolute, 0x4C}, {"JMP", Indirect, 0x6C},
	{"JSR", Absolute, 0x20}, {"RTS", Implied, 0x60}, {"RTI", Implied, 0x40},

	{"BEQ", Relative, 0xF0}, {"BNE", Relative, 0xD0},
	{"BCC", Relative, 0x90}, {"BCS", Relative, 0xB0},
	{"BPL", Relative, 0x10}, {"BMI", Relative, 0x30},
	{"BVC", Relative, 0x50}, {"BVS", Relative, 0x70},

	{"CLC", Implied, 0x18}, {"SEC", Implied, 0x38},
	{"CLI", Implied, 0x58}, {"SEI", Implied, 0x78},
	{"CLV", Implied, 0xB8}, {"CLD", Implied, 0xD8}, {"SED", Implied, 0xF8},

	{"BIT", ZeroPage, 0x24}, {"BIT", Absolute, 0x2C},

	{"NOP", Implied, 0xEA}, {"BRK", Implied, 0x00},
}

var forward = func() map[key]byte {
	m := make(map[key]byte, len(table))
	for _, e := range table {
		m[key{e.Mnemonic, e.Mode}] = e.Byte
	}
	return m
}()

var reverse = func() map[byte]entry {
	m := make(map[byte]entry, len(table))
	for _, e := range table {
		m[e.Byte] = e
	}
	return m
}()

// Lookup returns the opcode byte for mnemonic in addressing mode mode.
// per spec.md §4.6, "missing combinations return a lookup failure."
func Lookup(mnemonic string, mode AddrMode) (byte, error) {
	b, ok := forward[key{mnemonic, mode}]
	if !ok {
		return 0, fmt.Errorf("opcode: no encoding for %s in %s addressing mode", mnemonic, mode)
	}
	return b, nil
}

// Reverse returns the mnemonic and addressing mode that produced opcode
// byte b, for use by a disassembler.
func Reverse(b byte) (mnemonic string, mode AddrMode, ok bool) {
	e, found := reverse[b]
	if !found {
		return "", Implied, false
	}
	return e.Mnemonic, e.Mode, true
}
