// Package emit implements the per-unit byte emitter described in spec.md
// §4.5: a fixed 64 KiB buffer, a movable write cursor, and instruction
// emission driven by lang/opcode's (mnemonic, addressing mode) table.
//
// Grounded on github.com/mna/nenuphar/lang/compiler/asm.go's mutable
// instruction-buffer idiom (a byte slice plus a cursor, with helpers to
// patch bytes already written without disturbing later emission), adapted
// from the teacher's variable-length bytecode encoding to the 6502's
// fixed 1/2/3-byte instruction encoding.
package emit

import (
	"fmt"

	"github.com/mna/sixc/lang/opcode"
)

// Size is the fixed buffer size every Emitter owns, per spec.md §4.5 and
// §5 ("the Emitter's 64 KiB buffer is sized once at construction and never
// reallocated").
const Size = 1 << 16

// Emitter owns a 64 KiB byte buffer filled with 0xFF and a write cursor.
// Per spec.md §5, it is never used from more than one goroutine and never
// reallocated.
type Emitter struct {
	buf [Size]byte
	pos int
}

// New returns a ready-to-use Emitter with every byte initialized to 0xFF,
// per spec.md §4.5.
func New() *Emitter {
	e := &Emitter{}
	for i := range e.buf {
		e.buf[i] = 0xFF
	}
	return e
}

// Pos returns the current write cursor.
func (e *Emitter) Pos() int { return e.pos }

// Bytes returns the full underlying buffer. Callers must not retain it past
// the Emitter's use in further emission, since subsequent writes mutate it
// in place.
func (e *Emitter) Bytes() []byte { return e.buf[:] }

// Emit looks up the opcode byte for (mnemonic, mode), writes it at the
// cursor, then writes mode.Width() operand bytes (little-endian) from
// value, advances the cursor past the whole instruction, and returns the
// offset the instruction started at. Per spec.md §4.4's relocation rule,
// callers needing the operand's own offset use the returned start offset
// plus 1 (the opcode byte is always exactly one byte).
func (e *Emitter) Emit(mnemonic string, mode opcode.AddrMode, value uint16) (int, error) {
	b, err := opcode.Lookup(mnemonic, mode)
	if err != nil {
		return 0, err
	}
	start := e.pos
	if start+1+mode.Width() > Size {
		return 0, fmt.Errorf("emit: %s %s overflows the 64 KiB buffer at offset %d", mnemonic, mode, start)
	}
	e.buf[e.pos] = b
	e.pos++
	switch mode.Width() {
	case 1:
		e.buf[e.pos] = byte(value)
		e.pos++
	case 2:
		e.buf[e.pos] = byte(value)
		e.buf[e.pos+1] = byte(value >> 8)
		e.pos += 2
	}
	return start, nil
}

// SkipBytes advances the cursor by n bytes without writing, reserving space
// to be filled in later via EmitDataAtPos — used by codegen to reserve a
// branch displacement byte before its target address is known.
func (e *Emitter) SkipBytes(n int) (int, error) {
	start := e.pos
	if start+n > Size {
		return 0, fmt.Errorf("emit: skipping %d bytes overflows the 64 KiB buffer at offset %d", n, start)
	}
	e.pos += n
	return start, nil
}

// EmitData writes data at the cursor, advances past it, and returns the
// start offset.
func (e *Emitter) EmitData(data []byte) (int, error) {
	start := e.pos
	if start+len(data) > Size {
		return 0, fmt.Errorf("emit: writing %d data bytes overflows the 64 KiB buffer at offset %d", len(data), start)
	}
	copy(e.buf[e.pos:], data)
	e.pos += len(data)
	return start, nil
}

// EmitDataAtPos writes data at an arbitrary offset without disturbing the
// cursor, used for post-hoc patching (branch displacements, relocation
// targets once known).
func (e *Emitter) EmitDataAtPos(pos int, data []byte) error {
	if pos < 0 || pos+len(data) > Size {
		return fmt.Errorf("emit: patch of %d bytes at offset %d overflows the 64 KiB buffer", len(data), pos)
	}
	copy(e.buf[pos:], data)
	return nil
}

// SetWritePos moves the cursor directly, used when codegen needs to resume
// emission at a previously reserved offset.
func (e *Emitter) SetWritePos(pos int) error {
	if pos < 0 || pos > Size {
		return fmt.Errorf("emit: write position %d out of range", pos)
	}
	e.pos = pos
	return nil
}
