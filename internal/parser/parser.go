// Package parser turns a stream of located tokens into a located abstract
// syntax tree, following the Definition of Standard ML's grammar. It is a
// recursive-descent parser with a Pratt-style precedence-climbing layer for
// infix expressions and patterns, driven by a fixity table that is mutated
// by infix/infixr/nonfix declarations and lexically scoped around
// let/local/struct/sig bodies.
package parser

import (
	"github.com/funvibe/smlfront/internal/ast"
	"github.com/funvibe/smlfront/internal/diagnostics"
	"github.com/funvibe/smlfront/internal/loc"
	"github.com/funvibe/smlfront/internal/strtab"
	"github.com/funvibe/smlfront/internal/token"
)

// MaxRecursionDepth bounds expression/pattern/type descent so a pathological
// or adversarial input fails with a diagnostic instead of exhausting the
// goroutine stack.
const MaxRecursionDepth = 2000

// TokenStream is the positional token source a Parser consumes. internal/
// lexer.Lexer satisfies this directly; tests can supply a canned slice.
type TokenStream interface {
	Get(i int) (loc.Located[token.Token], bool)
	LastLoc() (loc.Loc, bool)
}

// OpInfo is the fixity status of one identifier: its binding precedence and
// associativity. An identifier absent from Parser.ops is nonfix.
type OpInfo struct {
	Prec  int
	Assoc ast.Assoc
}

// Parser holds the token cursor, the live fixity table, and accumulated
// diagnostics for one parse.
type Parser struct {
	interner *strtab.Table
	stream   TokenStream

	pos     int
	curTok  loc.Located[token.Token]
	peekTok loc.Located[token.Token]
	lastLoc loc.Loc

	ops map[strtab.StrId]OpInfo

	errs   []*diagnostics.DiagnosticError
	errSet map[string]bool
	failed bool

	depth int
}

// New returns a Parser positioned at the first token of stream, with the
// Basis fixities already seeded into the operator table.
func New(stream TokenStream, interner *strtab.Table) *Parser {
	p := &Parser{
		interner: interner,
		stream:   stream,
		ops:      initialOps(),
		errSet:   map[string]bool{},
	}
	p.curTok = p.getAt(0)
	p.peekTok = p.getAt(1)
	p.lastLoc = p.curTok.Pos
	return p
}

// initialOps seeds the Basis fixities: `::` infixr 5, the relational and
// equality operators infix 4, `:=` infix 3, `* / div mod` infix 7, `+ -`
// infix 6.
func initialOps() map[strtab.StrId]OpInfo {
	return map[strtab.StrId]OpInfo{
		strtab.Cons:   {Prec: 5, Assoc: ast.AssocRight},
		strtab.Eq:     {Prec: 4, Assoc: ast.AssocLeft},
		strtab.Lt:     {Prec: 4, Assoc: ast.AssocLeft},
		strtab.Gt:     {Prec: 4, Assoc: ast.AssocLeft},
		strtab.Le:     {Prec: 4, Assoc: ast.AssocLeft},
		strtab.Ge:     {Prec: 4, Assoc: ast.AssocLeft},
		strtab.Assign: {Prec: 3, Assoc: ast.AssocLeft},
		strtab.Div:    {Prec: 7, Assoc: ast.AssocLeft},
		strtab.Mod:    {Prec: 7, Assoc: ast.AssocLeft},
		strtab.Star:   {Prec: 7, Assoc: ast.AssocLeft},
		strtab.Slash:  {Prec: 7, Assoc: ast.AssocLeft},
		strtab.Plus:   {Prec: 6, Assoc: ast.AssocLeft},
		strtab.Minus:  {Prec: 6, Assoc: ast.AssocLeft},
	}
}

// snapshotOps copies the live fixity table so it can be restored after a
// lexically-scoped body (let/local/struct/sig) that must not leak its own
// infix/infixr/nonfix declarations to its surroundings.
func (p *Parser) snapshotOps() map[strtab.StrId]OpInfo {
	out := make(map[strtab.StrId]OpInfo, len(p.ops))
	for k, v := range p.ops {
		out[k] = v
	}
	return out
}

func (p *Parser) restoreOps(saved map[strtab.StrId]OpInfo) {
	p.ops = saved
}

func (p *Parser) getAt(i int) loc.Located[token.Token] {
	if lt, ok := p.stream.Get(i); ok {
		return lt
	}
	if last, ok := p.stream.LastLoc(); ok {
		return loc.Wrap(last, token.Token{Type: token.EOF})
	}
	return loc.Located[token.Token]{Val: token.Token{Type: token.EOF}}
}

func (p *Parser) nextToken() {
	p.pos++
	p.curTok = p.peekTok
	p.peekTok = p.getAt(p.pos + 1)
	p.lastLoc = p.curTok.Pos
}

func (p *Parser) cur() token.Token      { return p.curTok.Val }
func (p *Parser) curPos() loc.Loc       { return p.curTok.Pos }
func (p *Parser) peekVal() token.Token  { return p.peekTok.Val }
func (p *Parser) peekPos() loc.Loc      { return p.peekTok.Pos }
func (p *Parser) curTokenIs(tt token.TokenType) bool  { return p.cur().Type == tt }
func (p *Parser) peekTokenIs(tt token.TokenType) bool { return p.peekVal().Type == tt }

// expectPeek advances past the next token if it has type tt, recording
// ExpectedButFound otherwise.
func (p *Parser) expectPeek(tt token.TokenType) bool {
	if p.peekTokenIs(tt) {
		p.nextToken()
		return true
	}
	p.errExpectedButFound(p.peekPos(), string(tt), describeTok(p.peekVal()))
	return false
}

// isDot reports whether t is the lexer's synthetic "." qualifier-separator
// token (an IDENT with no interned Id, distinguished from a real identifier
// by its literal lexeme).
func isDot(t token.Token) bool {
	return t.Type == token.IDENT && t.Lexeme == "."
}

// ParseProgram parses an entire compilation unit: a sequence of top-level
// declarations, optionally `;`-separated, until end of input. The parser
// commits eagerly: the first top declaration that fails aborts the whole
// parse and reports the one diagnostic that caused it, rather than
// resynchronizing past the failure to keep collecting more. The sole
// exception to "no resynchronization" anywhere in this parser is the
// `fun`-clause paren-infix-head lookahead, which backtracks via
// recover.go's speculative before committing to any tokens.
func (p *Parser) ParseProgram() ([]ast.TopDec, *diagnostics.DiagnosticError) {
	var decs []ast.TopDec
	for !p.curTokenIs(token.EOF) {
		if p.curTokenIs(token.SEMI) {
			p.nextToken()
			continue
		}
		td := p.parseTopDec()
		if td == nil || p.failed {
			return nil, p.lastError()
		}
		decs = append(decs, td)
		if _, ok := td.(*ast.StrDecTopDec); ok {
			// The structure-level list already stopped on the token that
			// follows it (";", "signature", "functor" or end of input).
			continue
		}
		if p.peekTokenIs(token.SEMI) {
			p.nextToken()
		}
		p.nextToken()
	}
	return decs, nil
}

// lastError returns the diagnostic that caused the current production to
// fail. Every code path that aborts a parse records its diagnostic via
// addError immediately before returning nil, so the most recently recorded
// entry is always the one responsible (speculative attempts that are
// backtracked never reach p.errs in the first place).
func (p *Parser) lastError() *diagnostics.DiagnosticError {
	if len(p.errs) == 0 {
		return diagnostics.InternalError(p.curPos(), "parse failed with no recorded diagnostic")
	}
	return p.errs[len(p.errs)-1]
}

// Errors returns every diagnostic raised while parsing.
func (p *Parser) Errors() []*diagnostics.DiagnosticError { return p.errs }

// enterRecursion bumps the descent counter and reports whether the caller
// should bail out because MaxRecursionDepth was exceeded.
func (p *Parser) enterRecursion() (exit func(), tooDeep bool) {
	p.depth++
	if p.depth > MaxRecursionDepth {
		p.depth--
		return func() {}, true
	}
	return func() { p.depth-- }, false
}
