package maincmd

import (
	"context"
	"fmt"

	"github.com/mna/mainer"
	"github.com/mna/sixc/lang/ast"
	"github.com/mna/sixc/lang/parser"
)

// Parse runs the scanner, preprocessor and parser over each file and
// prints the resulting AST via ast.Print. The teacher's equivalent
// (internal/maincmd/parse.go) walks an ast.Printer type tied to
// nenuphar's richer node set; this language's smaller grammar already has
// a round-trip printer in lang/ast, so Parse reuses it directly instead of
// introducing a second AST-dumping format.
func (c *Cmd) Parse(ctx context.Context, stdio mainer.Stdio, args []string) error {
	var failed bool
	for _, path := range args {
		toks, err := scanAndPreprocess(path)
		if err != nil {
			fmt.Fprintf(stdio.Stderr, "%s: %s\n", path, err)
			failed = true
			continue
		}
		block, err := parser.ParseFile(path, toks)
		if err != nil {
			fmt.Fprintf(stdio.Stderr, "%s\n", err)
			failed = true
			continue
		}
		fmt.Fprintf(stdio.Stdout, "// %s\n%s", path, ast.Print(block))
	}
	if failed {
		return fmt.Errorf("parse: one or more files failed")
	}
	return nil
}
