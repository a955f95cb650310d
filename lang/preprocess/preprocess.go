// Package preprocess implements the textual preprocessor described in
// spec.md §4.1: conditional inclusion (#ifdef/#ifndef/#else/#endif), object
// macro substitution (#define), and file inclusion (#include), all resolved
// before the parser ever sees a token.
package preprocess

import (
	"fmt"

	"github.com/mna/sixc/lang/token"
)

// Loader resolves and tokenizes an included file. It is the external
// collaborator spec.md §1 excludes from the core: file I/O and the
// tokenizer live outside this package, this interface is the seam between
// them and the preprocessor.
type Loader interface {
	// Load reads and tokenizes the file at path (resolved relative to dir)
	// and returns its token stream plus the directory that further nested
	// #include directives inside it should resolve against.
	Load(dir, path string) (toks *token.Stream, newDir string, err error)
}

// Error is a preprocessor-stage failure: a malformed directive, an
// unterminated conditional, or a missing include file. It aborts the unit
// per spec.md §4.1 "report and abort this unit".
type Error struct {
	Line int
	Msg  string
}

func (e *Error) Error() string { return fmt.Sprintf("line %d: %s", e.Line, e.Msg) }

type condScope struct {
	ignore     bool // true if this scope or any enclosing one is suppressing output
	sawElse    bool
	selfIgnore bool // the condition's own truth value, before considering the parent
}

// Preprocessor consumes a token stream in place and produces a new one, per
// spec.md §4.1.
type Preprocessor struct {
	loader   Loader
	dir      string // directory of the file currently being processed, for #include resolution
	dirStack []string
	defines  map[string]token.Token
	scopes   []condScope
}

// New creates a Preprocessor. dir is the directory of the top-level file
// being processed (used to resolve its own #include directives).
func New(loader Loader, dir string) *Preprocessor {
	return &Preprocessor{
		loader:  loader,
		dir:     dir,
		defines: make(map[string]token.Token),
	}
}

// currentlyIgnored reports whether output is currently suppressed by an
// enclosing or current conditional scope.
func (p *Preprocessor) currentlyIgnored() bool {
	if len(p.scopes) == 0 {
		return false
	}
	return p.scopes[len(p.scopes)-1].ignore
}

// Process runs the preprocessor over in and returns the resulting token
// stream, ready for the parser. Newline tokens are dropped from the output
// per spec.md §4.1.
func (p *Preprocessor) Process(in *token.Stream) (*token.Stream, error) {
	var out []token.Token

	for {
		tok := in.Next()
		switch tok.Kind {
		case token.EOF:
			if len(p.scopes) != 0 {
				return nil, &Error{Line: tok.Line, Msg: "unterminated #ifdef/#ifndef"}
			}
			out = append(out, tok)
			return token.NewStream(out), nil

		case token.NEWLINE:
			continue // dropped from the output, per spec.md §4.1

		case token.DIRECTIVE:
			if err := p.directive(tok, in, &out); err != nil {
				return nil, err
			}

		case token.IDENT:
			if p.currentlyIgnored() {
				continue
			}
			if def, ok := p.defines[tok.Lit]; ok {
				out = append(out, token.Token{Kind: def.Kind, Lit: def.Lit, Int: def.Int, Flt: def.Flt, Line: tok.Line})
			} else {
				out = append(out, tok)
			}

		default:
			if p.currentlyIgnored() {
				continue
			}
			out = append(out, tok)
		}
	}
}

func (p *Preprocessor) directive(tok token.Token, in *token.Stream, out *[]token.Token) error {
	switch tok.Lit {
	case "#define":
		return p.define(tok, in)
	case "#ifdef":
		return p.ifdef(tok, in, false)
	case "#ifndef":
		return p.ifdef(tok, in, true)
	case "#else":
		return p.elseDirective(tok)
	case "#endif":
		return p.endif(tok)
	case "#include":
		return p.include(tok, in, out)
	case popDirSentinel:
		if n := len(p.dirStack); n > 0 {
			p.dir = p.dirStack[n-1]
			p.dirStack = p.dirStack[:n-1]
		}
		return nil
	default:
		return &Error{Line: tok.Line, Msg: fmt.Sprintf("unrecognized preprocessor directive %q", tok.Lit)}
	}
}

func (p *Preprocessor) define(tok token.Token, in *token.Stream) error {
	name := in.Next()
	if name.Kind != token.IDENT {
		return &Error{Line: tok.Line, Msg: "#define requires a name"}
	}
	val := in.Next()
	if val.Kind == token.NEWLINE || val.Kind == token.EOF {
		return &Error{Line: tok.Line, Msg: "#define requires a value"}
	}
	if !p.currentlyIgnored() {
		p.defines[name.Lit] = val
	}
	// consume to end of logical line
	for in.Peek().Kind != token.NEWLINE && in.Peek().Kind != token.EOF {
		in.Next()
	}
	return nil
}

func (p *Preprocessor) ifdef(tok token.Token, in *token.Stream, invert bool) error {
	name := in.Next()
	if name.Kind != token.IDENT {
		return &Error{Line: tok.Line, Msg: tok.Lit + " requires a name"}
	}
	_, defined := p.defines[name.Lit]
	self := defined
	if invert {
		self = !defined
	}
	parentIgnores := p.currentlyIgnored()
	p.scopes = append(p.scopes, condScope{
		ignore:     parentIgnores || !self,
		selfIgnore: !self,
	})
	return nil
}

func (p *Preprocessor) elseDirective(tok token.Token) error {
	if len(p.scopes) == 0 {
		return &Error{Line: tok.Line, Msg: "#else without matching #ifdef/#ifndef"}
	}
	top := &p.scopes[len(p.scopes)-1]
	if top.sawElse {
		return &Error{Line: tok.Line, Msg: "multiple #else for the same conditional"}
	}
	top.sawElse = true
	top.selfIgnore = !top.selfIgnore

	var parentIgnores bool
	if len(p.scopes) > 1 {
		parentIgnores = p.scopes[len(p.scopes)-2].ignore
	}
	top.ignore = parentIgnores || top.selfIgnore
	return nil
}

func (p *Preprocessor) endif(tok token.Token) error {
	if len(p.scopes) == 0 {
		return &Error{Line: tok.Line, Msg: "#endif without matching #ifdef/#ifndef"}
	}
	p.scopes = p.scopes[:len(p.scopes)-1]
	return nil
}

func (p *Preprocessor) include(tok token.Token, in *token.Stream, out *[]token.Token) error {
	path := in.Next()
	if path.Kind != token.STRING {
		return &Error{Line: tok.Line, Msg: "#include requires a quoted path"}
	}
	if p.currentlyIgnored() {
		// per spec.md §8 boundary behaviour: an #include inside an ignored
		// conditional scope does not load the file.
		return nil
	}
	if p.loader == nil {
		return &Error{Line: tok.Line, Msg: "#include is not supported without a file loader"}
	}

	toks, newDir, err := p.loader.Load(p.dir, path.Lit)
	if err != nil {
		return &Error{Line: tok.Line, Msg: fmt.Sprintf("cannot include %q: %s", path.Lit, err)}
	}

	// splice the included file's tokens (minus its own EOF) directly into
	// the input stream, so nested directives and macros inside it are
	// processed as if they appeared at this point in the current file.
	inner := toks.All()
	if n := len(inner); n > 0 && inner[n-1].Kind == token.EOF {
		inner = inner[:n-1]
	}
	// nested includes resolve against the included file's own directory.
	// Splice flattens everything into one stream, so the end of the included
	// tokens is marked by a sentinel placed right after them: reaching it
	// pops the directory stack and restores ours.
	p.dirStack = append(p.dirStack, p.dir)
	p.dir = newDir
	in.Splice(append(inner, token.Token{Kind: token.DIRECTIVE, Lit: popDirSentinel}))
	return nil
}

const popDirSentinel = "#__pop_include_dir"
