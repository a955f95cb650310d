// Package unit drives one translation unit through the full pipeline —
// scan, preprocess, parse, analyse, generate — and is the boundary spec.md
// §7 calls "abort the failed unit": any stage's diagnostics stop the
// pipeline for this unit alone, and any unexpected panic from a lower
// layer is recovered here rather than taking the whole build down.
//
// Grounded on the teacher's lang/parser/parser.go and chunk.go: the
// errPanicMode sentinel panicked by parser.expect and recovered one level
// up by parser.parse/parseStmt, turning an aborted parse into a BadStmt or
// an aggregated error instead of a crash. This package generalizes that
// same shape from "one statement" to "one whole unit's pipeline".
package unit

import (
	"fmt"

	"github.com/mna/sixc/lang/analyser"
	"github.com/mna/sixc/lang/codegen"
	"github.com/mna/sixc/lang/diag"
	"github.com/mna/sixc/lang/parser"
	"github.com/mna/sixc/lang/preprocess"
	"github.com/mna/sixc/lang/scanner"
	"github.com/mna/sixc/lang/source"
	"github.com/mna/sixc/lang/token"
)

// Result is everything a successfully built unit produced, ready to be
// handed to lang/link alongside every other unit's Result.
type Result struct {
	File  string
	Code  *codegen.Result
	Diags *diag.List
}

// Build runs one translation unit — named file, with pre-tokenized source
// toks and the directory #include should resolve relative to — through
// every stage of the pipeline, per spec.md §4's pass ordering.
//
// Build never panics: any panic escaping a pipeline stage (an internal
// invariant violation lower layers did not expect to recover from
// themselves) is caught here, recorded as an Exception-severity
// diagnostic, and returned as this unit's failure, much as parser.parse
// recovers errPanicMode into an error that abandons the unit rather than
// letting one malformed statement crash the process.
func Build(file string, toks *token.Stream, dir string) (res *Result, err error) {
	diags := &diag.List{}

	defer func() {
		if r := recover(); r != nil {
			diags.Addf(diag.Exception, file, 0, "internal error: %v", r)
			res, err = nil, diags.Err()
		}
	}()

	pp := preprocess.New(source.DiskLoader{}, dir)
	processed, ppErr := pp.Process(toks)
	if ppErr != nil {
		diags.Addf(diag.Error, file, lineOf(ppErr), "%s", ppErr)
		return nil, diags.Err()
	}

	block, parseErr := parser.ParseFile(file, processed)
	if parseErr != nil {
		return nil, parseErr
	}

	table, analyseErr := analyser.Analyse(file, block)
	if analyseErr != nil {
		return nil, analyseErr
	}

	code, genErr := codegen.Generate(file, block, table)
	if genErr != nil {
		return nil, genErr
	}

	return &Result{File: file, Code: code, Diags: diags}, nil
}

// BuildSource is a convenience entry point for a top-level unit not yet
// tokenized: it scans src itself before handing off to Build. dir is the
// directory #include directives inside src resolve relative to.
func BuildSource(file, dir, src string) (*Result, error) {
	toks, err := scanner.ScanFile(src)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", file, err)
	}
	return Build(file, toks, dir)
}

// lineOf extracts the source line from a preprocess.Error, falling back to
// 0 for any other error shape.
func lineOf(err error) int {
	if pe, ok := err.(*preprocess.Error); ok {
		return pe.Line
	}
	return 0
}
