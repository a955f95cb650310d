package maincmd

import (
	"context"
	"fmt"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/mna/mainer"
	"github.com/mna/sixc/lang/analyser"
	"github.com/mna/sixc/lang/parser"
)

// Analyse runs the scanner, preprocessor, parser and analyser over each
// file and prints the resulting symbol table, one line per symbol, sorted
// by unique name so the output is deterministic across runs regardless of
// the analyser's internal map iteration order.
func (c *Cmd) Analyse(ctx context.Context, stdio mainer.Stdio, args []string) error {
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
		table, err := analyser.Analyse(path, block)
		if err != nil {
			fmt.Fprintf(stdio.Stderr, "%s\n", err)
			failed = true
			continue
		}
		fmt.Fprintf(stdio.Stdout, "%s:\n", path)
		names := maps.Keys(table)
		slices.Sort(names)
		for _, name := range names {
			sym := table[name]
			fmt.Fprintf(stdio.Stdout, "  %-24s %-12s type=%s addr=%s:%#04x\n",
				name, sym.Kind, sym.TypeName, addrKindString(sym.AddrKind), sym.Address)
		}
	}
	if failed {
		return fmt.Errorf("analyse: one or more files failed")
	}
	return nil
}

func addrKindString(k analyser.AddrKind) string {
	switch k {
	case analyser.AddrAbsolute:
		return "absolute"
	case analyser.AddrRelative:
		return "relative"
	default:
		return "unset"
	}
}
