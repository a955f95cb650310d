package codegen

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDataAllocatorJumpsPastStackPage(t *testing.T) {
	var a dataAllocator
	a.next = 0x0100
	addr, err := a.alloc(1)
	require.NoError(t, err)
	require.Equal(t, uint16(0x0200), addr)
}

func TestDataAllocatorRelocatesStraddlingAllocation(t *testing.T) {
	var a dataAllocator
	a.next = 0x00FF
	addr, err := a.alloc(2) // a 2-byte value at 0xFF would occupy 0xFF and 0x100
	require.NoError(t, err)
	require.Equal(t, uint16(0x0200), addr)
}

func TestDataAllocatorSingleByteAtLastZeroPageAddressStaysThere(t *testing.T) {
	var a dataAllocator
	a.next = 0x00FF
	addr, err := a.alloc(1)
	require.NoError(t, err)
	require.Equal(t, uint16(0x00FF), addr)
}

func TestDataAllocatorExhaustionIsError(t *testing.T) {
	var a dataAllocator
	a.next = 0x07FF
	_, err := a.alloc(2)
	require.Error(t, err)
}

func TestRegisterCacheSkipsRedundantLoad(t *testing.T) {
	var c registerCache
	op := Operand{Kind: Value, Value: 5}
	_, ok := c.get(regA)
	require.False(t, ok)
	c.set(regA, op)
	got, ok := c.get(regA)
	require.True(t, ok)
	require.Equal(t, op, got)
}

func TestRegisterCacheInvalidateOnMatchingStore(t *testing.T) {
	var c registerCache
	target := Operand{Kind: DataAddress, Addr: 0x10}
	c.set(regA, target)
	c.invalidate(target)
	_, ok := c.get(regA)
	require.False(t, ok)
}
