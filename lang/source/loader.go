// Package source wires the driver's file I/O to the tokenizer and
// preprocessor. It is the "external collaborator" layer spec.md §1 excludes
// from the core: reading bytes off disk and turning them into a
// token.Stream.
package source

import (
	"os"
	"path/filepath"

	"github.com/mna/sixc/lang/scanner"
	"github.com/mna/sixc/lang/token"
)

// DiskLoader implements preprocess.Loader by reading files relative to a
// directory and tokenizing them with lang/scanner.
type DiskLoader struct{}

// Load reads and tokenizes the file named path, resolved relative to dir.
func (DiskLoader) Load(dir, path string) (*token.Stream, string, error) {
	full := path
	if !filepath.IsAbs(path) {
		full = filepath.Join(dir, path)
	}
	b, err := os.ReadFile(full)
	if err != nil {
		return nil, "", err
	}
	toks, err := scanner.ScanFile(string(b))
	if err != nil {
		return nil, "", err
	}
	return toks, filepath.Dir(full), nil
}

// ReadAndScan reads and tokenizes a top-level translation unit, returning
// its token stream and the directory to resolve its own #include
// directives against.
func ReadAndScan(path string) (toks *token.Stream, dir string, err error) {
	return DiskLoader{}.Load(".", path)
}
