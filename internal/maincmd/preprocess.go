package maincmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mna/mainer"
	"github.com/mna/sixc/lang/preprocess"
	"github.com/mna/sixc/lang/scanner"
	"github.com/mna/sixc/lang/source"
	"github.com/mna/sixc/lang/token"
)

// Preprocess runs the scanner and preprocessor over each file and prints
// the resulting token stream, per spec.md §4.1.
func (c *Cmd) Preprocess(ctx context.Context, stdio mainer.Stdio, args []string) error {
	var failed bool
	for _, path := range args {
		toks, err := scanAndPreprocess(path)
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
		return fmt.Errorf("preprocess: one or more files failed")
	}
	return nil
}

// scanAndPreprocess tokenizes path and runs it through the preprocessor,
// rooted at its own directory for #include resolution.
func scanAndPreprocess(path string) (*token.Stream, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	toks, err := scanner.ScanFile(string(b))
	if err != nil {
		return nil, err
	}
	pp := preprocess.New(source.DiskLoader{}, filepath.Dir(path))
	return pp.Process(toks)
}
