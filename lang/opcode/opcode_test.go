package opcode

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLookupKnownEncodings(t *testing.T) {
	b, err := Lookup("LDA", Immediate)
	require.NoError(t, err)
	require.EqualValues(t, 0xA9, b)

	b, err = Lookup("JSR", Absolute)
	require.NoError(t, err)
	require.EqualValues(t, 0x20, b)

	b, err = Lookup("RTS", Implied)
	require.NoError(t, err)
	require.EqualValues(t, 0x60, b)
}

func TestLookupMissingCombinationFails(t *testing.T) {
	_, err := Lookup("JSR", Immediate)
	require.Error(t, err)
}

func TestReverseRoundTrip(t *testing.T) {
	b, err := Lookup("STA", AbsoluteX)
	require.NoError(t, err)
	mnemonic, mode, ok := Reverse(b)
	require.True(t, ok)
	require.Equal(t, "STA", mnemonic)
	require.Equal(t, AbsoluteX, mode)
}

func TestWidths(t *testing.T) {
	require.Equal(t, 0, Implied.Width())
	require.Equal(t, 1, Immediate.Width())
	require.Equal(t, 1, Relative.Width())
	require.Equal(t, 2, Absolute.Width())
}
