package maincmd_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/mna/mainer"
	"github.com/stretchr/testify/require"

	"github.com/mna/sixc/internal/maincmd"
)

func writeFile(t *testing.T, dir, name, src string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	return path
}

func newStdio() (mainer.Stdio, *bytes.Buffer, *bytes.Buffer) {
	var out, errb bytes.Buffer
	return mainer.Stdio{Stdout: &out, Stderr: &errb}, &out, &errb
}

func TestTokenize(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.6c", "void main() { }")

	c := &maincmd.Cmd{}
	stdio, out, errb := newStdio()
	err := c.Tokenize(context.Background(), stdio, []string{path})
	require.NoError(t, err)
	require.Empty(t, errb.String())
	require.Contains(t, out.String(), "identifier")
	require.Contains(t, out.String(), `"void"`)
}

func TestPreprocessExpandsConditionals(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.6c", "#ifdef FEATURE\nvoid f() {}\n#else\nvoid g() {}\n#endif\n")

	c := &maincmd.Cmd{}
	stdio, out, errb := newStdio()
	err := c.Preprocess(context.Background(), stdio, []string{path})
	require.NoError(t, err)
	require.Empty(t, errb.String())
	require.Contains(t, out.String(), "g")
	require.NotContains(t, out.String(), "\"f\"")
}

func TestParsePrintsReconstructedSource(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.6c", "void main() { uint8_t x; x = 1; }")

	c := &maincmd.Cmd{}
	stdio, out, errb := newStdio()
	err := c.Parse(context.Background(), stdio, []string{path})
	require.NoError(t, err)
	require.Empty(t, errb.String())
	require.Contains(t, out.String(), "void main()")
	require.Contains(t, out.String(), "x = 1;")
}

func TestParseReportsSyntaxErrors(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.6c", "void main() { ")

	c := &maincmd.Cmd{}
	stdio, _, errb := newStdio()
	err := c.Parse(context.Background(), stdio, []string{path})
	require.Error(t, err)
	require.NotEmpty(t, errb.String())
}

func TestAnalysePrintsSymbolTable(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.6c", "void main() { uint8_t x; x = 1; }")

	c := &maincmd.Cmd{}
	stdio, out, errb := newStdio()
	err := c.Analyse(context.Background(), stdio, []string{path})
	require.NoError(t, err)
	require.Empty(t, errb.String())
	require.Contains(t, out.String(), "function")
	require.Contains(t, out.String(), "variable")
}

func TestBuildLinksMultipleUnitsToROM(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.6c", "void f() {}\n")
	writeFile(t, dir, "b.6c", "void f();\nvoid main() { f(); }\n")
	out := filepath.Join(dir, "out.nes")

	c := &maincmd.Cmd{Output: out, ConfigPath: filepath.Join(dir, "missing.yaml")}
	stdio, _, errb := newStdio()
	err := c.Build(context.Background(), stdio, []string{
		filepath.Join(dir, "a.6c"),
		filepath.Join(dir, "b.6c"),
	})
	require.NoError(t, err, errb.String())

	rom, err := os.ReadFile(out)
	require.NoError(t, err)
	require.Len(t, rom, 1<<16)
	require.Equal(t, []byte("NES\x1a"), rom[:4])
}

func TestBuildRejectsMissingMain(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.6c", "void f() {}\n")
	out := filepath.Join(dir, "out.nes")

	c := &maincmd.Cmd{Output: out, ConfigPath: filepath.Join(dir, "missing.yaml")}
	stdio, _, _ := newStdio()
	err := c.Build(context.Background(), stdio, []string{filepath.Join(dir, "a.6c")})
	require.Error(t, err)
}

func TestValidateRequiresCommandAndFiles(t *testing.T) {
	c := &maincmd.Cmd{}
	require.Error(t, c.Validate())

	c = &maincmd.Cmd{}
	c.SetArgs([]string{"tokenize"})
	require.Error(t, c.Validate())

	c = &maincmd.Cmd{}
	c.SetArgs([]string{"tokenize", "a.6c"})
	require.NoError(t, c.Validate())
	require.Equal(t, "sixc.yaml", c.ConfigPath)
}

func TestValidateRequiresOutputForBuild(t *testing.T) {
	c := &maincmd.Cmd{}
	c.SetArgs([]string{"build", "a.6c"})
	require.Error(t, c.Validate())

	c = &maincmd.Cmd{Output: "out.nes"}
	c.SetArgs([]string{"build", "a.6c"})
	require.NoError(t, c.Validate())
}

func TestValidateRejectsUnknownCommand(t *testing.T) {
	c := &maincmd.Cmd{}
	c.SetArgs([]string{"frobnicate", "a.6c"})
	require.Error(t, c.Validate())
}
