package codegen

import (
	"errors"

	"github.com/mna/sixc/lang/analyser"
	"github.com/mna/sixc/lang/ast"
	"github.com/mna/sixc/lang/diag"
	"github.com/mna/sixc/lang/emit"
	"github.com/mna/sixc/lang/opcode"
)

var errDataExhausted = errors.New("codegen: data allocator exhausted at 0x0800")

// SymbolReference is a byte offset into a unit's object code whose final
// 16-bit target is not known until link time, paired with the unique name
// of the symbol that resolves it, per spec.md §4.4/§4.7.
type SymbolReference struct {
	Offset int
	Name   string
}

// Result is everything lang/link needs from one compiled translation unit:
// its trimmed object code, the two relocation lists spec.md §4.4 describes,
// and the unit's own symbol table (with every Function/Variable/FuncParam
// this unit defines now carrying a concrete AddrKind and Address; functions
// only prototyped here keep AddrUnset).
type Result struct {
	Object            []byte
	RelativeAddresses []int
	SymbolReferences  []SymbolReference
	Symbols           analyser.SymbolTable
}

// gen holds the whole-unit code generation state, one per translation unit.
// Grounded on the teacher's pcomp (whole-program compile state threaded
// through per-function sub-state), adapted here to a single flat struct
// since this language has no nested closures or free variables to track.
type gen struct {
	file  string
	em    *emit.Emitter
	table analyser.SymbolTable
	alloc dataAllocator
	cache registerCache
	diags diag.List

	relativeAddresses []int
	symbolReferences  []SymbolReference

	// returnOperand records, per enclosing function unique name, the operand
	// the most recent return statement wrote its value to. Per spec.md §9's
	// decided open question, this is implemented exactly as the minimal
	// non-reentrant table the source describes: one slot per function name,
	// last writer wins. Recursion or re-entrant calls will see a stale
	// operand; this core language has no recursion.
	returnOperand map[string]Operand
}

// Generate lowers an analysed translation unit to machine code, returning
// the object code and relocation records lang/link needs to place and patch
// it, per spec.md §4.4.
func Generate(file string, block *ast.Block, table analyser.SymbolTable) (*Result, error) {
	g := &gen{
		file:          file,
		em:            emit.New(),
		table:         table,
		returnOperand: make(map[string]Operand),
	}
	// Parameters are allocated RAM slots before any function body is
	// emitted, so a call that forward-references a function defined later
	// in this same unit (reached through an earlier prototype) still finds
	// real addresses to store its arguments into.
	g.prepassAllocParams(block.Body)
	for _, n := range block.Body {
		g.lowerTopLevel(n)
	}
	if err := g.diags.Err(); err != nil {
		return nil, err
	}
	return &Result{
		Object:            append([]byte(nil), g.em.Bytes()[:g.em.Pos()]...),
		RelativeAddresses: g.relativeAddresses,
		SymbolReferences:  g.symbolReferences,
		Symbols:           table,
	}, nil
}

func (g *gen) errorf(line int, format string, args ...any) {
	g.diags.Addf(diag.Error, g.file, line, format, args...)
}

func (g *gen) lowerTopLevel(n ast.Node) {
	switch n := n.(type) {
	case *ast.StructDef:
		// Struct layout carries no run-time representation in this minimal
		// language; nothing to emit.
	case *ast.FuncDef:
		g.lowerFuncDef(n)
	case *ast.VarDefStmt:
		g.lowerVarDef(n)
	default:
		g.errorf(n.Line(), "unsupported top-level node in code generation")
	}
}

// prepassAllocParams walks every struct/function nesting looking for
// function definitions (prototypes with no body are skipped; they have
// nothing to allocate) and hands each parameter a RAM slot, before any
// code is emitted.
func (g *gen) prepassAllocParams(nodes []ast.Node) {
	for _, n := range nodes {
		switch n := n.(type) {
		case *ast.StructDef:
			g.prepassAllocParams(n.Body)
		case *ast.FuncDef:
			if n.Body == nil {
				continue
			}
			for _, p := range n.Params {
				psym, ok := g.table[p.Name]
				if !ok {
					g.errorf(p.Ln, "internal error: parameter %q missing from symbol table", p.Name)
					continue
				}
				addr, err := g.alloc.alloc(sizeOfType(psym.TypeName))
				if err != nil {
					g.errorf(p.Ln, "%s", err)
					continue
				}
				psym.Address = addr
				psym.AddrKind = analyser.AddrAbsolute
			}
		}
	}
}

func sizeOfType(name string) int {
	if name == "void" {
		return 0
	}
	return 1
}

// lowerFuncDef lays out one function's body, per spec.md §4.4's "function
// body layout" rule: record the function symbol's address as the current
// emitter position, emit the body, append an implicit RTS for void
// functions, and record the emitted byte span as the symbol's size.
// Parameters already hold their RAM addresses from prepassAllocParams.
func (g *gen) lowerFuncDef(f *ast.FuncDef) {
	if f.Body == nil {
		return // declaration-only prototype; nothing to emit in this unit
	}
	sym, ok := g.table[f.Name]
	if !ok {
		g.errorf(f.Ln, "internal error: function %q missing from symbol table", f.Name)
		return
	}
	sym.Address = uint16(g.em.Pos())
	sym.AddrKind = analyser.AddrRelative
	start := g.em.Pos()

	g.cache = registerCache{}
	for _, n := range f.Body {
		g.lowerStmt(n)
	}

	if sym.TypeName == "void" {
		if _, err := g.em.Emit("RTS", opcode.Implied, 0); err != nil {
			g.errorf(f.Ln, "%s", err)
		}
	}
	sym.Size = g.em.Pos() - start
}

// lowerVarDef allocates storage for a file- or function-scope variable and,
// if present, lowers its initializer.
func (g *gen) lowerVarDef(v *ast.VarDefStmt) {
	sym, ok := g.table[v.Name]
	if !ok {
		g.errorf(v.Ln, "internal error: variable %q missing from symbol table", v.Name)
		return
	}
	if sym.AddrKind == analyser.AddrUnset {
		addr, err := g.alloc.alloc(sizeOfType(sym.TypeName))
		if err != nil {
			g.errorf(v.Ln, "%s", err)
			return
		}
		sym.Address = addr
		sym.AddrKind = analyser.AddrAbsolute
		sym.Size = sizeOfType(sym.TypeName)
	}
	if v.Init == nil {
		return
	}
	val := g.lowerExpr(v.Init)
	target := Operand{Kind: DataAddress, Symbol: sym}
	g.storeOperand(v.Ln, regA, val, target)
}
