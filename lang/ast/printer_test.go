package ast_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mna/sixc/lang/ast"
	"github.com/mna/sixc/lang/parser"
	"github.com/mna/sixc/lang/scanner"
)

func mustParse(t *testing.T, file, src string) *ast.Block {
	t.Helper()
	toks, err := scanner.ScanFile(src)
	require.NoError(t, err)
	block, err := parser.ParseFile(file, toks)
	require.NoError(t, err)
	return block
}

// TestPrintRoundTripsControlFlow covers the round-trip property spec.md
// §8 requires: printing a parsed program and re-parsing the result must
// reproduce a structurally equal tree. This exercises if/else-if/else and
// while bodies specifically, since a *Block reaching the default case
// would silently degrade their bodies to "/* unknown stmt */" comments
// instead of the statements they actually contain.
func TestPrintRoundTripsControlFlow(t *testing.T) {
	src := `
void main() {
  uint8_t x;
  if (x == 1) {
    x = 2;
  } else if (x == 3) {
    x = 4;
  } else {
    x = 5;
  }
  while (x == 0) {
    x = 1;
  }
}
`
	block := mustParse(t, "a.6c", src)
	printed := ast.Print(block)

	require.NotContains(t, printed, "unknown stmt")
	require.Contains(t, printed, "x = 2;")
	require.Contains(t, printed, "x = 4;")
	require.Contains(t, printed, "x = 5;")
	require.Contains(t, printed, "x = 1;")

	reparsed := mustParse(t, "a.6c", printed)
	reprinted := ast.Print(reparsed)
	require.Equal(t, printed, reprinted)
}

func TestPrintFuncAndStructPrototypes(t *testing.T) {
	block := mustParse(t, "a.6c", `
struct point;
void f();
void main() { }
`)
	printed := ast.Print(block)
	require.Contains(t, printed, "struct point;")
	require.Contains(t, printed, "void f();")
	require.Contains(t, printed, "void main() {\n}\n")
}
