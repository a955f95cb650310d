package dis_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mna/sixc/internal/dis"
	"github.com/mna/sixc/lang/opcode"
)

func opByte(t *testing.T, mnemonic string, mode opcode.AddrMode) byte {
	t.Helper()
	b, err := opcode.Lookup(mnemonic, mode)
	require.NoError(t, err)
	return b
}

func TestDecodeImplied(t *testing.T) {
	code := []byte{opByte(t, "SEI", opcode.Implied)}
	in, next, err := dis.Decode(code, 0, 0xC000)
	require.NoError(t, err)
	require.Equal(t, 1, next)
	require.Equal(t, "SEI", in.Mnemonic)
	require.Equal(t, uint16(0xC000), in.Addr)
}

func TestDecodeImmediate(t *testing.T) {
	code := []byte{opByte(t, "LDX", opcode.Immediate), 0xFF}
	in, next, err := dis.Decode(code, 0, 0xC000)
	require.NoError(t, err)
	require.Equal(t, 2, next)
	require.Equal(t, uint16(0xFF), in.Operand)
	require.Contains(t, in.String(), "#$FF")
}

func TestDecodeAbsolute(t *testing.T) {
	code := []byte{opByte(t, "JMP", opcode.Absolute), 0x00, 0xC0}
	in, next, err := dis.Decode(code, 0, 0xC000)
	require.NoError(t, err)
	require.Equal(t, 3, next)
	require.Equal(t, uint16(0xC000), in.Operand)
	require.Contains(t, in.String(), "$C000")
}

func TestDecodeUnknownOpcode(t *testing.T) {
	code := []byte{0xFF}
	_, _, err := dis.Decode(code, 0, 0xC000)
	require.Error(t, err)
}

func TestRangeDisassemblesBootstrap(t *testing.T) {
	code := []byte{
		opByte(t, "SEI", opcode.Implied),
		opByte(t, "CLD", opcode.Implied),
		opByte(t, "LDX", opcode.Immediate), 0xFF,
		opByte(t, "TXS", opcode.Implied),
		opByte(t, "JMP", opcode.Absolute), 0x00, 0xC0,
	}
	ins, err := dis.Range(code, 0xFFF0)
	require.NoError(t, err)
	require.Len(t, ins, 5)
	require.Equal(t, "JMP", ins[4].Mnemonic)
	require.Equal(t, uint16(0xC000), ins[4].Operand)
}

func TestRangeStopsAtTruncatedOperand(t *testing.T) {
	code := []byte{opByte(t, "LDX", opcode.Immediate)}
	ins, err := dis.Range(code, 0xC000)
	require.Error(t, err)
	require.Empty(t, ins)
}
