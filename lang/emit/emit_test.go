package emit

import (
	"testing"

	"github.com/mna/sixc/lang/opcode"
	"github.com/stretchr/testify/require"
)

func TestEmitInitializesWithFF(t *testing.T) {
	e := New()
	require.Equal(t, byte(0xFF), e.Bytes()[0])
	require.Equal(t, byte(0xFF), e.Bytes()[Size-1])
}

func TestEmitWritesOpcodeAndOperand(t *testing.T) {
	e := New()
	start, err := e.Emit("LDA", opcode.Immediate, 5)
	require.NoError(t, err)
	require.Equal(t, 0, start)
	require.Equal(t, byte(0xA9), e.Bytes()[0])
	require.Equal(t, byte(5), e.Bytes()[1])
	require.Equal(t, 2, e.Pos())
}

func TestEmitAbsoluteIsLittleEndian(t *testing.T) {
	e := New()
	_, err := e.Emit("JSR", opcode.Absolute, 0xC001)
	require.NoError(t, err)
	require.Equal(t, byte(0x20), e.Bytes()[0])
	require.Equal(t, byte(0x01), e.Bytes()[1])
	require.Equal(t, byte(0xC0), e.Bytes()[2])
	require.Equal(t, 3, e.Pos())
}

func TestSkipBytesAndPatch(t *testing.T) {
	e := New()
	_, _ = e.Emit("BEQ", opcode.Relative, 0)
	reserved, err := e.SkipBytes(0) // displacement byte already reserved by Emit above
	require.NoError(t, err)
	require.Equal(t, 2, reserved)

	require.NoError(t, e.EmitDataAtPos(1, []byte{0x05}))
	require.Equal(t, byte(0x05), e.Bytes()[1])
}

func TestEmitDataAtPosDoesNotMoveCursor(t *testing.T) {
	e := New()
	_, _ = e.Emit("NOP", opcode.Implied, 0)
	before := e.Pos()
	require.NoError(t, e.EmitDataAtPos(0, []byte{0xEA}))
	require.Equal(t, before, e.Pos())
}

func TestSetWritePos(t *testing.T) {
	e := New()
	require.NoError(t, e.SetWritePos(100))
	require.Equal(t, 100, e.Pos())
}

func TestEmitUnknownEncodingFails(t *testing.T) {
	e := New()
	_, err := e.Emit("JSR", opcode.Immediate, 0)
	require.Error(t, err)
}
