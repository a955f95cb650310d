package unit

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestBuildSourceSucceeds covers a well-formed unit passing through every
// pipeline stage to a codegen Result.
func TestBuildSourceSucceeds(t *testing.T) {
	res, err := BuildSource("main.6c", ".", `
void main() { uint8_t x; x = 1; }
`)
	require.NoError(t, err)
	require.NotNil(t, res.Code)
	require.NotEmpty(t, res.Code.Object)
}

// TestBuildSourcePreprocessesConditionals covers spec.md §8's #ifdef
// scenario: a disabled branch contributes nothing to the parsed unit.
func TestBuildSourcePreprocessesConditionals(t *testing.T) {
	res, err := BuildSource("main.6c", ".", `
#ifdef FEATURE
void main() { uint8_t x; x = 1; }
#else
void main() { uint8_t x; x = 2; }
#endif
`)
	require.NoError(t, err)
	require.Contains(t, res.Code.Object, byte(2))
}

// TestBuildReportsParseErrorsWithoutPanicking covers a malformed unit: the
// pipeline must abort this unit via a diagnosed error, not a panic.
func TestBuildReportsParseErrorsWithoutPanicking(t *testing.T) {
	_, err := BuildSource("bad.6c", ".", `void main() { `)
	require.Error(t, err)
}

// TestBuildReportsAnalyserErrors covers an unresolvable identifier, which
// must abort the unit at the analyser stage rather than reach codegen.
func TestBuildReportsAnalyserErrors(t *testing.T) {
	_, err := BuildSource("bad.6c", ".", `
void main() { x = 1; }
`)
	require.Error(t, err)
}
