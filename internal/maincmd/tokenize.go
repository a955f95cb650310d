package maincmd

import (
	"context"
	"fmt"
	"os"

	"github.com/mna/mainer"
	"github.com/mna/sixc/lang/scanner"
)

// Tokenize runs the scanner over each file and prints its token stream,
// grounded on the teacher's Cmd.Tokenize/TokenizeFiles.
func (c *Cmd) Tokenize(ctx context.Context, stdio mainer.Stdio, args []string) error {
	var failed bool
	for _, path := range args {
		b, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintln(stdio.Stderr, err)
			failed = true
			continue
		}
		toks, err := scanner.ScanFile(string(b))
		if err != nil {
			fmt.Fprintf(stdio.Stderr, "%s: %s\n", path, err)
			failed = true
			continue
		}
		for _, tok := range toks.All() {
			fmt.Fprintf(stdio.Stdout, "%s:%d: %s", path, tok.Line, tok.Kind)
			if lit := tok.String(); lit != "" {
				fmt.Fprintf(stdio.Stdout, " %q", lit)
			}
			fmt.Fprintln(stdio.Stdout)
		}
	}
	if failed {
		return fmt.Errorf("tokenize: one or more files failed")
	}
	return nil
}
