package maincmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mna/mainer"
	"github.com/mna/sixc/lang/codegen"
	"github.com/mna/sixc/lang/link"
	"github.com/mna/sixc/lang/unit"
)

// Build runs the full tokenize/preprocess/parse/analyse/codegen pipeline
// over every file and links the resulting object code into a single iNES
// ROM image, written to c.Output. It loads its iNES mapper-flag override
// from c.ConfigPath, the three-layer configuration lang/unit's sibling
// packages don't otherwise see.
func (c *Cmd) Build(ctx context.Context, stdio mainer.Stdio, args []string) error {
	cfg, err := LoadConfig(c.ConfigPath)
	if err != nil {
		return fmt.Errorf("build: %w", err)
	}

	// Units are built and handed to link.Link in the same order they were
	// given on the command line, per spec.md §5's "units are processed
	// serially in input order" — this loop is already fully sequential, so
	// preserving args' order is enough to make a build deterministic across
	// runs; re-sorting it would only disagree with that documented order
	// for no determinism gain.
	code := make([]*codegen.Result, 0, len(args))
	for _, path := range args {
		dir := filepath.Dir(path)
		b, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("build: %w", err)
		}
		res, err := unit.BuildSource(path, dir, string(b))
		if err != nil {
			return fmt.Errorf("build: %s: %w", path, err)
		}
		code = append(code, res.Code)
		if cfg.Verbose {
			fmt.Fprintf(stdio.Stdout, "built %s: %d bytes of object code\n", path, len(res.Code.Object))
		}
	}

	rom, err := link.Link(code, link.Options{MapperFlags: cfg.MapperFlag})
	if err != nil {
		return fmt.Errorf("build: %w", err)
	}

	if cfg.Verbose {
		for _, path := range args {
			fmt.Fprintf(stdio.Stdout, "linked %s\n", path)
		}
	}

	if err := os.WriteFile(c.Output, rom, 0o644); err != nil {
		return fmt.Errorf("build: writing %s: %w", c.Output, err)
	}
	fmt.Fprintf(stdio.Stdout, "wrote %s (%d bytes)\n", c.Output, len(rom))
	return nil
}
