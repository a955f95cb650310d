package parser

import (
	"testing"

	"github.com/mna/sixc/lang/ast"
	"github.com/mna/sixc/lang/scanner"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, src string) *ast.Block {
	t.Helper()
	toks, err := scanner.ScanFile(src)
	require.NoError(t, err)
	block, err := ParseFile("test.6c", toks)
	require.NoError(t, err)
	return block
}

func TestParseVarDef(t *testing.T) {
	block := mustParse(t, "uint8_t counter = 5;")
	require.Len(t, block.Body, 1)
	v, ok := block.Body[0].(*ast.VarDefStmt)
	require.True(t, ok)
	require.Equal(t, "uint8_t", v.Type)
	require.Equal(t, "counter", v.Name)
	lit, ok := v.Init.(*ast.Literal)
	require.True(t, ok)
	require.EqualValues(t, 5, lit.Tok.Int)
}

func TestParseFuncDef(t *testing.T) {
	block := mustParse(t, `
uint8_t add(uint8_t a, uint8_t b) {
  return a + b;
}
`)
	require.Len(t, block.Body, 1)
	fn, ok := block.Body[0].(*ast.FuncDef)
	require.True(t, ok)
	require.Equal(t, "add", fn.Name)
	require.Len(t, fn.Params, 2)
	require.Len(t, fn.Body, 1)
	ret, ok := fn.Body[0].(*ast.ReturnStmt)
	require.True(t, ok)
	bin, ok := ret.Value.(*ast.BinaryOp)
	require.True(t, ok)
	require.Equal(t, "+", bin.Op)
}

func TestParseIfElseChain(t *testing.T) {
	block := mustParse(t, `
void check(uint8_t x) {
  if (x == 1) {
    x = 2;
  } else if (x == 2) {
    x = 3;
  } else {
    x = 0;
  }
}
`)
	fn := block.Body[0].(*ast.FuncDef)
	ctrl, ok := fn.Body[0].(*ast.ControlStmt)
	require.True(t, ok)
	require.Equal(t, ast.If, ctrl.Kind)
	require.NotNil(t, ctrl.Connected)
	elseIf, ok := ctrl.Connected.(*ast.ControlStmt)
	require.True(t, ok)
	require.Equal(t, ast.ElseIf, elseIf.Kind)
	require.NotNil(t, elseIf.Connected)
	elseBranch, ok := elseIf.Connected.(*ast.ControlStmt)
	require.True(t, ok)
	require.Equal(t, ast.Else, elseBranch.Kind)
	require.Nil(t, elseBranch.Connected)
}

func TestParseWhileAndCall(t *testing.T) {
	block := mustParse(t, `
void loop() {
  while (running) {
    tick();
  }
}
`)
	fn := block.Body[0].(*ast.FuncDef)
	ctrl, ok := fn.Body[0].(*ast.ControlStmt)
	require.True(t, ok)
	require.Equal(t, ast.While, ctrl.Kind)
	body := ctrl.Body.(*ast.Block)
	require.Len(t, body.Body, 1)
	expr, ok := body.Body[0].(*ast.ExprStmt)
	require.True(t, ok)
	call, ok := expr.X.(*ast.Call)
	require.True(t, ok)
	require.Equal(t, "tick", call.Func)
}

func TestParseAssignmentPrecedence(t *testing.T) {
	block := mustParse(t, "void f() { x = 1 + 2 * 3; }")
	fn := block.Body[0].(*ast.FuncDef)
	expr := fn.Body[0].(*ast.ExprStmt)
	assign := expr.X.(*ast.BinaryOp)
	require.Equal(t, "=", assign.Op)
	rhs := assign.Right.(*ast.BinaryOp)
	require.Equal(t, "+", rhs.Op)
	mul := rhs.Right.(*ast.BinaryOp)
	require.Equal(t, "*", mul.Op)
}

func TestParseInlineAsm(t *testing.T) {
	block := mustParse(t, "void f() { __asm LDA #5; __asm STA $0200; }")
	fn := block.Body[0].(*ast.FuncDef)
	require.Len(t, fn.Body, 2)
	a1 := fn.Body[0].(*ast.InlineAsmStmt)
	require.Equal(t, "LDA", a1.Mnemonic)
	require.Equal(t, "#5", a1.Operand1)
}

func TestParseStructDef(t *testing.T) {
	block := mustParse(t, `
struct Point {
  uint8_t x;
  uint8_t y;
};
`)
	sd := block.Body[0].(*ast.StructDef)
	require.Equal(t, "Point", sd.Name)
	require.Len(t, sd.Body, 2)
}

func TestParseSyntaxErrorAbandonsUnit(t *testing.T) {
	toks, err := scanner.ScanFile("uint8_t x = ;")
	require.NoError(t, err)
	_, err = ParseFile("bad.6c", toks)
	require.Error(t, err)
}
