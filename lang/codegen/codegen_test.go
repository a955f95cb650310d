package codegen

import (
	"testing"

	"github.com/mna/sixc/lang/analyser"
	"github.com/mna/sixc/lang/ast"
	"github.com/mna/sixc/lang/emit"
	"github.com/mna/sixc/lang/opcode"
	"github.com/mna/sixc/lang/parser"
	"github.com/mna/sixc/lang/scanner"
	"github.com/stretchr/testify/require"
)

func mustGenerate(t *testing.T, src string) *Result {
	t.Helper()
	toks, err := scanner.ScanFile(src)
	require.NoError(t, err)
	block, err := parser.ParseFile("test.6c", toks)
	require.NoError(t, err)
	table, err := analyser.Analyse("test.6c", block)
	require.NoError(t, err)
	res, err := Generate("test.6c", block, table)
	require.NoError(t, err)
	return res
}

// TestGenerateArithmeticAndReturn covers spec.md §8 Scenario A: a function
// computing a+b, called from main, result stored to a local.
func TestGenerateArithmeticAndReturn(t *testing.T) {
	res := mustGenerate(t, `
uint8_t add(uint8_t a, uint8_t b) { return a + b; }
void main() { uint8_t x; x = add(2, 3); }
`)
	require.NotEmpty(t, res.Object)
	require.Contains(t, res.Object, byte(0x65)) // ADC zeropage (both operands are locals)
	require.Contains(t, res.Object, byte(0x60)) // RTS

	add := res.Symbols["_add"]
	require.Equal(t, analyser.AddrRelative, add.AddrKind)
	require.Greater(t, add.Size, 0)
}

// TestGenerateConditionalEmitsBranch covers spec.md §8 Scenario B: an
// equality comparison lowered through CMP + BEQ/BNE.
func TestGenerateConditionalEmitsBranch(t *testing.T) {
	res := mustGenerate(t, `
void f() {
	uint8_t x;
	x = 1;
	if (x == 1) {
		x = 2;
	} else {
		x = 3;
	}
}
`)
	require.Contains(t, res.Object, byte(0xC9)) // CMP immediate
	require.Contains(t, res.Object, byte(0xF0)) // BEQ
}

// TestGenerateWhileLoopBranchesBackward exercises the while-loop lowering's
// backward JMP and relocation entry.
func TestGenerateWhileLoopBranchesBackward(t *testing.T) {
	res := mustGenerate(t, `
void f() {
	uint8_t x;
	x = 0;
	while (x == 0) {
		x = 1;
	}
}
`)
	require.Contains(t, res.Object, byte(0x4C)) // JMP absolute
	require.NotEmpty(t, res.RelativeAddresses)
}

// TestGenerateCallToUndefinedPrototypeRecordsSymbolReference covers a
// forward declaration resolved only at link time (spec.md §8 Scenario E's
// cross-unit call shape, exercised here within one unit via a prototype).
func TestGenerateCallToUndefinedPrototypeRecordsSymbolReference(t *testing.T) {
	res := mustGenerate(t, `
void helper();
void main() { helper(); }
`)
	require.Len(t, res.SymbolReferences, 1)
	require.Equal(t, "_helper", res.SymbolReferences[0].Name)
}

// TestGenerateForwardCallWithinUnitFindsAllocatedParams ensures a call to a
// function defined later in the same unit (reached via an earlier
// prototype) stores its arguments into real, final parameter addresses
// rather than address zero.
func TestGenerateForwardCallWithinUnitFindsAllocatedParams(t *testing.T) {
	res := mustGenerate(t, `
void callee(uint8_t v);
void main() { callee(5); }
void callee(uint8_t v) { v = v; }
`)
	callee := res.Symbols["_callee"]
	param := res.Symbols["_callee_v"]
	require.Equal(t, analyser.AddrAbsolute, param.AddrKind)
	require.NotZero(t, callee.Size)
}

// TestGenerateInlineAsmResolvesVariableOperand covers spec.md §8 Scenario D:
// an __asm statement referencing a declared variable by name.
func TestGenerateInlineAsmResolvesVariableOperand(t *testing.T) {
	res := mustGenerate(t, `
uint8_t counter;
void f() {
	__asm INC counter;
}
`)
	require.Contains(t, res.Object, byte(0xE6)) // INC zeropage
}

// TestGenerateVariableCrossingZeroPageBoundary covers spec.md §8's boundary
// test: a variable whose allocation would land in the stack page
// (0x0100-0x01FF) once the zero page is used up is placed at 0x0200 instead.
func TestGenerateVariableCrossingZeroPageBoundary(t *testing.T) {
	toks, err := scanner.ScanFile(`uint8_t x;`)
	require.NoError(t, err)
	block, err := parser.ParseFile("t.6c", toks)
	require.NoError(t, err)
	table, err := analyser.Analyse("t.6c", block)
	require.NoError(t, err)

	g := &gen{file: "t.6c", em: emit.New(), table: table, returnOperand: map[string]Operand{}}
	g.alloc.next = 0x0100 // cursor already inside the stack page
	g.lowerVarDef(block.Body[0].(*ast.VarDefStmt))
	require.Equal(t, uint16(0x0200), table["_x"].Address)
}

// TestGenerateBranchDisplacementOverflowIsError covers the redesign-flagged
// displacement check: a body too large to fit in a signed 8-bit branch is
// reported as an error rather than silently wrapping.
func TestGenerateBranchDisplacementOverflowIsError(t *testing.T) {
	g := &gen{file: "t.6c", em: emit.New(), table: analyser.SymbolTable{}, returnOperand: map[string]Operand{}}
	branchStart, err := g.em.Emit("BEQ", opcode.Relative, 0)
	require.NoError(t, err)
	err = g.patchBranch(branchStart, branchStart+2+200)
	require.Error(t, err)
}
