// Package analyser implements the semantic analysis pass described in
// spec.md §4.3: it walks the AST built by lang/parser, builds a tree of
// scoped symbol tables, renames identifiers in place to globally-unique
// names, and enforces the minimal type system (uint8_t-only arithmetic).
//
// Grounded on github.com/mna/nenuphar/lang/resolver's bind/use/block
// structure (a current-scope pointer threaded through a recursive descent
// over the AST, with names resolved against a chain of scopes), generalized
// from the teacher's single flat function scope to the scope tree (file →
// struct/function) spec.md §3 requires.
package analyser

// SymKind classifies what a Symbol denotes, per spec.md §3.
type SymKind int

const (
	KindNamespace SymKind = iota
	KindVariable
	KindFunction
	KindStruct
	KindFuncParam
	KindBuiltInType
)

func (k SymKind) String() string {
	switch k {
	case KindNamespace:
		return "namespace"
	case KindVariable:
		return "variable"
	case KindFunction:
		return "function"
	case KindStruct:
		return "struct"
	case KindFuncParam:
		return "parameter"
	case KindBuiltInType:
		return "built-in type"
	default:
		return "unknown symbol kind"
	}
}

// AddrKind classifies how a Symbol's Address field should be interpreted,
// per spec.md §3 and the open question in spec.md §9 about FuncParam
// addressing: this implementation settles that question by always using
// Absolute for FuncParams, matching the "latest version" spec.md §9 directs
// implementers to follow.
type AddrKind int

const (
	AddrUnset AddrKind = iota
	AddrAbsolute
	AddrRelative
)

// KindSet is a bitmask of SymKind values, used to restrict a scope-chain
// lookup to one or more kinds (spec.md §4.3's "restricted by symbol kind").
type KindSet uint8

const (
	SetNamespace KindSet = 1 << iota
	SetVariable
	SetFunction
	SetStruct
	SetFuncParam
	SetBuiltInType

	SetAll = SetNamespace | SetVariable | SetFunction | SetStruct | SetFuncParam | SetBuiltInType
)

func setFor(k SymKind) KindSet {
	switch k {
	case KindNamespace:
		return SetNamespace
	case KindVariable:
		return SetVariable
	case KindFunction:
		return SetFunction
	case KindStruct:
		return SetStruct
	case KindFuncParam:
		return SetFuncParam
	case KindBuiltInType:
		return SetBuiltInType
	default:
		return 0
	}
}

func (s KindSet) has(k SymKind) bool { return s&setFor(k) != 0 }

// Symbol is one entry in a Scope, per spec.md §3's Symbol data model.
type Symbol struct {
	Kind       SymKind
	SourceName string
	UniqueName string
	TypeName   string
	Child      *Scope // Struct: set once its body is visited; Function: set at its first declaration, prototype or not
	Size       int
	AddrKind   AddrKind
	Address    uint16
}

// Scope is a SymbolList per spec.md §3: an ordered sequence of symbols plus
// a pointer to the owning symbol (nil for file scope) and the parent scope.
// Symbols is a slice rather than a head/tail linked list, per spec.md §9's
// redesign guidance.
type Scope struct {
	Owner     *Symbol // the Struct/Function Symbol this scope belongs to, nil at file scope
	Parent    *Scope
	Qualified string // this scope's unique-name prefix, used to mint child unique names
	Symbols   []*Symbol
}

// NewRootScope returns an empty file-level scope pre-populated with the
// language's built-in types. Built-in type names pass through unique-name
// resolution unchanged, per spec.md §4.3 point 2 ("builtins pass through").
func NewRootScope() *Scope {
	root := &Scope{Qualified: ""}
	for _, name := range []string{"uint8_t", "void", "bool"} {
		root.Symbols = append(root.Symbols, &Symbol{
			Kind:       KindBuiltInType,
			SourceName: name,
			UniqueName: name,
			TypeName:   name,
		})
	}
	return root
}

// lookup walks the scope chain from s toward the root, returning the first
// symbol named sourceName whose kind is in mask.
func (s *Scope) lookup(sourceName string, mask KindSet) *Symbol {
	for sc := s; sc != nil; sc = sc.Parent {
		for _, sym := range sc.Symbols {
			if sym.SourceName == sourceName && mask.has(sym.Kind) {
				return sym
			}
		}
	}
	return nil
}

// uniqueNameFor mints the unique name a new symbol declared directly in s
// would receive, per spec.md §3's invariant:
// "parent_scope_unique_name + '_' + source_name".
func (s *Scope) uniqueNameFor(sourceName string) string {
	return s.Qualified + "_" + sourceName
}

// declareLocal appends a new symbol to s's own symbol list (not the chain).
// Callers must already have confirmed the name is not present anywhere in
// the chain.
func (s *Scope) declareLocal(sym *Symbol) {
	s.Symbols = append(s.Symbols, sym)
}

// allSymbols returns every symbol reachable from root, including those
// nested in struct/function child scopes, in declaration order. Used to
// publish the flat per-unit symbol table spec.md §4.3 calls for.
func allSymbols(root *Scope) []*Symbol {
	var out []*Symbol
	var walk func(sc *Scope)
	walk = func(sc *Scope) {
		for _, sym := range sc.Symbols {
			out = append(out, sym)
			if sym.Child != nil {
				walk(sym.Child)
			}
		}
	}
	walk(root)
	return out
}
