// Package token defines the lexical tokens consumed by the preprocessor and
// parser, each carrying the source line diagnostics are reported against,
// and the Stream they are read from.
package token

// Kind identifies the lexical category of a Token.
type Kind int8

//nolint:revive
const (
	ILLEGAL Kind = iota
	EOF

	IDENT  // x, counter, _add_a
	INT    // 123
	FLOAT  // 1.23
	BOOL   // true, false
	STRING // "path/to/file.h" (only meaningful inside #include)

	OPERATOR  // + - * / = == != < > <= >= ! & | ( ) { } [ ] , . ; :
	DIRECTIVE // #define, #ifdef, #ifndef, #else, #endif, #include
	NEWLINE   // retained by the raw scanner, dropped by the preprocessor

	maxKind
)

var kindNames = [...]string{
	ILLEGAL:   "illegal token",
	EOF:       "end of file",
	IDENT:     "identifier",
	INT:       "int literal",
	FLOAT:     "float literal",
	BOOL:      "bool literal",
	STRING:    "string literal",
	OPERATOR:  "operator",
	DIRECTIVE: "preprocessor directive",
	NEWLINE:   "newline",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "invalid kind"
}

// Token is a single lexical token. Tokens are values: they carry no
// identity and are copied freely as the preprocessor splices and rewrites
// the stream.
type Token struct {
	Kind Kind
	Lit  string // textual lexeme, exactly as it appeared in source
	Int  int64
	Flt  float64
	Line int // 1-based source line number
}

// Is reports whether the token is an OPERATOR, DIRECTIVE or IDENT whose
// lexeme equals lit. It is the common way the parser and preprocessor compare a
// token against punctuation or a keyword without allocating.
func (t Token) Is(lit string) bool {
	return (t.Kind == OPERATOR || t.Kind == DIRECTIVE || t.Kind == IDENT) && t.Lit == lit
}

func (t Token) String() string {
	if t.Lit != "" {
		return t.Lit
	}
	return t.Kind.String()
}
