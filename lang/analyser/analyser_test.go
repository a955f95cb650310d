package analyser

import (
	"testing"

	"github.com/mna/sixc/lang/ast"
	"github.com/mna/sixc/lang/parser"
	"github.com/mna/sixc/lang/scanner"
	"github.com/stretchr/testify/require"
)

func mustAnalyse(t *testing.T, src string) (*ast.Block, SymbolTable) {
	t.Helper()
	toks, err := scanner.ScanFile(src)
	require.NoError(t, err)
	block, err := parser.ParseFile("test.6c", toks)
	require.NoError(t, err)
	table, err := Analyse("test.6c", block)
	require.NoError(t, err)
	return block, table
}

func TestAnalyseScenarioA(t *testing.T) {
	_, table := mustAnalyse(t, `
uint8_t add(uint8_t a, uint8_t b) { return a + b; }
void main() { uint8_t x; x = add(2, 3); }
`)
	for _, name := range []string{"_add", "_add_a", "_add_b", "_main", "_main_x"} {
		_, ok := table[name]
		require.Truef(t, ok, "expected symbol %q", name)
	}
}

func TestAnalyseRewritesIdentifiersToUniqueNames(t *testing.T) {
	block, _ := mustAnalyse(t, `
uint8_t add(uint8_t a, uint8_t b) { return a + b; }
`)
	fn := block.Body[0].(*ast.FuncDef)
	require.Equal(t, "_add", fn.Name)
	require.Equal(t, "_add_a", fn.Params[0].Name)
	require.Equal(t, "_add_b", fn.Params[1].Name)

	ret := fn.Body[0].(*ast.ReturnStmt)
	require.Equal(t, "_add", ret.FuncName)
	bin := ret.Value.(*ast.BinaryOp)
	require.Equal(t, "uint8_t", bin.ValueType)
	left := bin.Left.(*ast.Identifier)
	require.Equal(t, "_add_a", left.Name)
	require.Equal(t, ast.ParamIdent, left.Kind)
}

func TestAnalyseUndeclaredIdentifierIsError(t *testing.T) {
	toks, err := scanner.ScanFile("void f() { return ghost; }")
	require.NoError(t, err)
	block, err := parser.ParseFile("t.6c", toks)
	require.NoError(t, err)
	_, err = Analyse("t.6c", block)
	require.Error(t, err)
}

func TestAnalyseTypeMismatchIsError(t *testing.T) {
	toks, err := scanner.ScanFile(`
bool flag;
void f() { uint8_t x; x = flag; }
`)
	require.NoError(t, err)
	block, err := parser.ParseFile("t.6c", toks)
	require.NoError(t, err)
	_, err = Analyse("t.6c", block)
	require.Error(t, err)
}

func TestAnalyseReturnOutsideFunctionIsError(t *testing.T) {
	toks, err := scanner.ScanFile("uint8_t x;")
	require.NoError(t, err)
	block, err := parser.ParseFile("t.6c", toks)
	require.NoError(t, err)
	block.Body = append(block.Body, &ast.ReturnStmt{Ln: 1})
	_, err = Analyse("t.6c", block)
	require.Error(t, err)
}
