// Package parser implements the recursive-descent parser with Pratt-style
// precedence climbing described in spec.md §4.2. It consumes the token
// stream produced by lang/preprocess and builds the AST defined in
// lang/ast.
//
// Structurally adapted from github.com/mna/nenuphar/lang/parser: a small
// parser struct holding the current token plus a lookahead buffer, an
// errPanicMode-style panic/recover for unrecoverable syntax errors (here,
// recovered once in parse, around the whole parseNextNode loop, rather than
// per-statement, since
// spec.md §4.2 abandons the whole unit on an unrecoverable parse error), and
// three operator-precedence tables driving expression parsing.
package parser

import (
	"errors"

	"github.com/mna/sixc/lang/ast"
	"github.com/mna/sixc/lang/diag"
	"github.com/mna/sixc/lang/token"
)

// sentinelPrecedence is the outermost precedence spec.md §4.2 calls for:
// "The outermost call uses precedence 999 as sentinel so every operator is
// accepted."
const sentinelPrecedence = 999

// opInfo describes one operator's binding strength. Per spec.md §4.2,
// numerically smaller precedence binds tighter.
type opInfo struct {
	Precedence int
	RightAssoc bool
}

var unaryPrefixOps = map[string]opInfo{
	"-": {Precedence: 1},
	"!": {Precedence: 1},
}

var unaryPostfixOps = map[string]opInfo{
	"++": {Precedence: 1},
	"--": {Precedence: 1},
}

var binaryOps = map[string]opInfo{
	"*": {Precedence: 2}, "/": {Precedence: 2},
	"+": {Precedence: 3}, "-": {Precedence: 3},
	"<": {Precedence: 5}, ">": {Precedence: 5}, "<=": {Precedence: 5}, ">=": {Precedence: 5},
	"==": {Precedence: 6}, "!=": {Precedence: 6},
	"&": {Precedence: 7},
	"|": {Precedence: 8},
	"=": {Precedence: 10, RightAssoc: true},
}

// errPanicMode is the sentinel value parser.expect panics with on an
// unrecoverable syntax error, mirroring the teacher's lang/parser.
var errPanicMode = errors.New("sixc/parser: panic mode")

type parser struct {
	file   string
	stream *token.Stream
	cur    token.Token
	diags  diag.List
}

// ParseFile parses a fully preprocessed token stream into a top-level
// Block. Per spec.md §4.2, "Entry Parse loops ParseNextNode until the
// stream ends". The returned error, if non-nil, aggregates every syntax
// diagnostic recorded before the unit was abandoned.
func ParseFile(file string, toks *token.Stream) (*ast.Block, error) {
	p := &parser{file: file, stream: toks}
	p.advance()

	block := &ast.Block{}
	err := p.parse(block)
	if err != nil {
		return block, err
	}
	return block, p.diags.Err()
}

func (p *parser) parse(block *ast.Block) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if r == errPanicMode {
				err = p.diags.Err()
				if err == nil {
					err = errors.New("sixc/parser: unit abandoned after a syntax error")
				}
				return
			}
			panic(r)
		}
	}()

	for p.cur.Kind != token.EOF {
		n := p.parseNextNode()
		if n == nil {
			break
		}
		block.Body = append(block.Body, n)
	}
	return nil
}

func (p *parser) advance() {
	p.cur = p.stream.Next()
}

func (p *parser) at(lit string) bool { return p.cur.Is(lit) }

func (p *parser) peekAt(offset int, lit string) bool {
	return p.stream.PeekAt(offset - 1).Is(lit)
}

// expect consumes the current token if it matches lit, otherwise it records
// a syntax error and panics with errPanicMode, aborting the unit per
// spec.md §4.2.
func (p *parser) expect(lit string) token.Token {
	if !p.at(lit) {
		p.errorf("expected %q, found %q", lit, p.cur.String())
		panic(errPanicMode)
	}
	t := p.cur
	p.advance()
	return t
}

func (p *parser) expectIdent() token.Token {
	if p.cur.Kind != token.IDENT {
		p.errorf("expected an identifier, found %q", p.cur.String())
		panic(errPanicMode)
	}
	t := p.cur
	p.advance()
	return t
}

func (p *parser) errorf(format string, args ...any) {
	p.diags.Addf(diag.Error, p.file, p.cur.Line, format, args...)
}

// ParseNextNode implements spec.md §4.2's top-level dispatch: it tries, in
// order, inline assembly, struct definitions, function definitions, then
// statements. An unrecognised identifier is an error.
func (p *parser) parseNextNode() ast.Node {
	switch {
	case p.cur.Kind == token.EOF:
		return nil

	case p.at("__asm"):
		return p.parseInlineAsm()

	case p.at("struct"):
		return p.parseStructDef()

	case p.at("return"), p.at("if"), p.at("else"), p.at("while"):
		return p.parseStatement()

	case p.cur.Kind == token.IDENT && p.looksLikeFuncOrVarDef():
		return p.parseFuncOrVarDef()

	default:
		return p.parseStatement()
	}
}

// looksLikeFuncOrVarDef reports whether the current identifier is followed
// by a second identifier (TYPE NAME): such a pair starts a function or
// variable declaration, and parseFuncOrVarDef tells the two apart by the
// token after NAME. Anything else starting with a bare identifier is a
// statement.
func (p *parser) looksLikeFuncOrVarDef() bool {
	return p.stream.Peek().Kind == token.IDENT
}

func (p *parser) parseFuncOrVarDef() ast.Node {
	typ := p.expectIdent()
	name := p.expectIdent()

	if p.at("(") {
		return p.parseFuncDefRest(typ.Lit, name.Lit, typ.Line)
	}
	return p.parseVarDefRest(typ.Lit, name.Lit, typ.Line)
}

func (p *parser) parseStructDef() ast.Node {
	ln := p.cur.Line
	p.expect("struct")
	name := p.expectIdent()

	if p.at(";") {
		p.advance()
		return &ast.StructDef{Name: name.Lit, Ln: ln}
	}

	p.expect("{")
	body := []ast.Node{} // non-nil even when empty: nil marks a forward declaration
	for !p.at("}") && p.cur.Kind != token.EOF {
		body = append(body, p.parseNextNode())
	}
	p.expect("}")
	p.expect(";")
	return &ast.StructDef{Name: name.Lit, Body: body, Ln: ln}
}

func (p *parser) parseFuncDefRest(retType, name string, ln int) ast.Node {
	p.expect("(")
	var params []*ast.Param
	for !p.at(")") {
		if len(params) > 0 {
			p.expect(",")
		}
		pt := p.expectIdent()
		pn := p.expectIdent()
		params = append(params, &ast.Param{Type: pt.Lit, Name: pn.Lit, Ln: pt.Line})
	}
	p.expect(")")

	if p.at(";") {
		p.advance()
		return &ast.FuncDef{RetType: retType, Name: name, Params: params, Ln: ln}
	}

	p.expect("{")
	body := []ast.Node{} // non-nil even when empty: nil marks a prototype
	for !p.at("}") && p.cur.Kind != token.EOF {
		body = append(body, p.parseNextNode())
	}
	p.expect("}")
	return &ast.FuncDef{RetType: retType, Name: name, Params: params, Body: body, Ln: ln}
}

func (p *parser) parseInlineAsm() ast.Node {
	ln := p.cur.Line
	p.expect("__asm")
	mnemonic := p.expectIdent()

	var op1, op2 string
	if !p.at(";") {
		op1 = p.asmOperand()
		if p.at(",") {
			p.advance()
			op2 = p.asmOperand()
		}
	}
	p.expect(";")
	return &ast.InlineAsmStmt{Mnemonic: mnemonic.Lit, Operand1: op1, Operand2: op2, Ln: ln}
}

// asmOperand consumes a single inline-assembly operand token sequence and
// returns its raw textual form (e.g. "note", "#5", "$C000", "x"). The
// leading '#' and '$' sigils are themselves OPERATOR/DIRECTIVE tokens in our
// lexical surface, so they are stitched back onto the following
// literal/identifier.
func (p *parser) asmOperand() string {
	if p.at("#") || p.at("$") {
		sigil := p.cur.String()
		p.advance()
		rest := p.cur
		p.advance()
		return sigil + rest.String()
	}
	t := p.cur
	p.advance()
	return t.String()
}

