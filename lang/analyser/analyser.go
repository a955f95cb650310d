package analyser

import (
	"github.com/mna/sixc/lang/ast"
	"github.com/mna/sixc/lang/diag"
)

// SymbolTable is the flat, per-unit mapping from unique name to Symbol that
// spec.md §4.3 says is published after traversal completes. Duplicates are
// impossible by construction (every unique name is minted from exactly one
// scope position); Analyse asserts this rather than silently overwriting.
type SymbolTable map[string]*Symbol

// Analyser walks a single translation unit's AST, in the style of the
// teacher's lang/resolver.resolver: a current-scope pointer threaded
// through a recursive descent, with diagnostics accumulated rather than
// raised immediately (spec.md §4.3's "best-effort beyond the first error").
type Analyser struct {
	file  string
	root  *Scope
	cur   *Scope
	diags diag.List

	// defined records the function symbols whose body has been visited, so a
	// prototype followed by its definition is not taken for a redefinition.
	defined map[*Symbol]bool
}

// Analyse runs semantic analysis over block, rewriting it in place, and
// returns the finished per-unit symbol table. The error return aggregates
// every diagnostic of Error severity or above; a non-nil error means the
// unit must not proceed to code generation (spec.md §7).
func Analyse(file string, block *ast.Block) (SymbolTable, error) {
	a := &Analyser{file: file, root: NewRootScope()}
	a.cur = a.root

	for _, n := range block.Body {
		a.visitTopLevel(n)
	}

	table := make(SymbolTable)
	for _, sym := range allSymbols(a.root) {
		if sym.Kind == KindBuiltInType {
			continue
		}
		if _, dup := table[sym.UniqueName]; dup {
			// Unreachable by construction (spec.md §4.3): every unique name is
			// minted from exactly one scope position. Reported without a line,
			// since Symbol carries none in spec.md §3's data model.
			a.errorf(0, "internal error: duplicate unique name %q", sym.UniqueName)
			continue
		}
		table[sym.UniqueName] = sym
	}

	return table, a.diags.Err()
}

func (a *Analyser) errorf(line int, format string, args ...any) {
	a.diags.Addf(diag.Error, a.file, line, format, args...)
}

func (a *Analyser) visitTopLevel(n ast.Node) {
	switch s := n.(type) {
	case *ast.StructDef:
		a.visitStructDef(s)
	case *ast.FuncDef:
		a.visitFuncDef(s)
	case *ast.VarDefStmt:
		a.visitVarDef(s)
	default:
		a.errorf(n.Line(), "declaration expected at file scope, found %T", n)
	}
}

// resolveTypeName resolves a declared type name to the unique name
// codegen should use: builtins pass through unchanged, struct types
// resolve to their unique name, per spec.md §4.3 point 2.
func (a *Analyser) resolveTypeName(name string, line int) string {
	sym := a.cur.lookup(name, SetBuiltInType|SetStruct)
	if sym == nil {
		a.errorf(line, "undeclared type %q", name)
		return name
	}
	return sym.UniqueName
}

func (a *Analyser) visitStructDef(s *ast.StructDef) {
	sym := a.cur.lookup(s.Name, SetStruct)
	if sym == nil {
		sym = &Symbol{
			Kind:       KindStruct,
			SourceName: s.Name,
			UniqueName: a.cur.uniqueNameFor(s.Name),
		}
		sym.TypeName = sym.UniqueName
		a.cur.declareLocal(sym)
	} else if sym.Child != nil && s.Body != nil {
		a.errorf(s.Ln, "redefinition of struct %q", s.Name)
	}
	s.Name = sym.UniqueName

	if s.Body == nil {
		return // forward declaration only
	}

	childScope := &Scope{Owner: sym, Parent: a.cur, Qualified: sym.UniqueName}
	if sym.Child == nil {
		sym.Child = childScope
	}
	outer := a.cur
	a.cur = sym.Child
	for _, n := range s.Body {
		a.visitTopLevel(n)
	}
	a.cur = outer
}

// funcCanBeDeclaredHere enforces spec.md §4.3's "a function can only be
// declared inside a struct or namespace scope": the current scope must be
// file scope (Owner == nil) or owned by a Struct/Namespace symbol, not a
// Function.
func (a *Analyser) funcCanBeDeclaredHere() bool {
	return a.cur.Owner == nil || a.cur.Owner.Kind == KindStruct || a.cur.Owner.Kind == KindNamespace
}

func (a *Analyser) visitFuncDef(f *ast.FuncDef) {
	if !a.funcCanBeDeclaredHere() {
		a.errorf(f.Ln, "function %q cannot be declared inside a function", f.Name)
	}

	sym := a.cur.lookup(f.Name, SetFunction)
	if sym == nil {
		sym = &Symbol{
			Kind:       KindFunction,
			SourceName: f.Name,
			UniqueName: a.cur.uniqueNameFor(f.Name),
		}
		a.cur.declareLocal(sym)
	} else if a.defined[sym] && f.Body != nil {
		a.errorf(f.Ln, "redefinition of function %q", f.Name)
	}
	if f.Body != nil {
		if a.defined == nil {
			a.defined = make(map[*Symbol]bool)
		}
		a.defined[sym] = true
	}
	sym.TypeName = a.resolveTypeName(f.RetType, f.Ln)
	f.Name = sym.UniqueName
	f.RetType = sym.TypeName

	childScope := sym.Child
	if childScope == nil {
		childScope = &Scope{Owner: sym, Parent: a.cur, Qualified: sym.UniqueName}
		sym.Child = childScope
	}

	outer := a.cur
	a.cur = childScope
	for _, p := range f.Params {
		a.visitParam(p)
	}
	for _, n := range f.Body {
		a.visitStmt(n)
	}
	a.cur = outer
}

func (a *Analyser) visitParam(p *ast.Param) {
	psym := a.cur.lookup(p.Name, SetFuncParam)
	if psym == nil {
		psym = &Symbol{
			Kind:       KindFuncParam,
			SourceName: p.Name,
			UniqueName: a.cur.uniqueNameFor(p.Name),
			AddrKind:   AddrAbsolute, // spec.md §9 open question: absolute RAM slots
		}
		a.cur.declareLocal(psym)
	}
	psym.TypeName = a.resolveTypeName(p.Type, p.Ln)
	p.Name = psym.UniqueName
	p.Type = psym.TypeName
}

func (a *Analyser) visitVarDef(v *ast.VarDefStmt) {
	sym := a.cur.lookup(v.Name, SetVariable)
	if sym == nil {
		sym = &Symbol{
			Kind:       KindVariable,
			SourceName: v.Name,
			UniqueName: a.cur.uniqueNameFor(v.Name),
		}
		a.cur.declareLocal(sym)
	}
	sym.TypeName = a.resolveTypeName(v.Type, v.Ln)
	v.Name = sym.UniqueName
	v.Type = sym.TypeName

	if v.Init != nil {
		a.visitExpr(v.Init)
	}
}
