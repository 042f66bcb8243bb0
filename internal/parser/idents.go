package parser

import (
	"strconv"

	"github.com/funvibe/smlfront/internal/ast"
	"github.com/funvibe/smlfront/internal/diagnostics"
	"github.com/funvibe/smlfront/internal/loc"
	"github.com/funvibe/smlfront/internal/strtab"
	"github.com/funvibe/smlfront/internal/token"
)

// describeTok renders a token for an "expected X but found Y" message.
func describeTok(t token.Token) string {
	if t.Type == token.EOF {
		return "end of input"
	}
	return t.String()
}

func (p *Parser) name(id strtab.StrId) string {
	if s, ok := p.interner.TryLookup(id); ok {
		return s
	}
	return "?"
}

func (p *Parser) errExpectedButFound(pos loc.Loc, expected, found string) {
	p.addError(diagnostics.NewParserError(pos, diagnostics.ErrExpectedButFound, expected, found))
}

func (p *Parser) errUnsupported(pos loc.Loc, feature string) {
	p.addError(diagnostics.NewParserError(pos, diagnostics.ErrParserUnsupported, feature))
}

func (p *Parser) addError(e *diagnostics.DiagnosticError) {
	key := e.Pos.String() + string(e.Code)
	if e.Code != diagnostics.ErrParserUnsupported {
		p.failed = true
	}
	if p.errSet[key] {
		return
	}
	p.errSet[key] = true
	p.errs = append(p.errs, e)
}

// label interns the decimal spelling of a positional tuple label (1-based).
func (p *Parser) label(n int) strtab.StrId {
	return p.interner.Intern(strconv.Itoa(n))
}

// isVidAtomTok reports whether t can start a bare value identifier atom:
// an alphanumeric/symbolic identifier, or `=` used as an identifier.
func isVidAtomTok(t token.Token) bool {
	if t.Type == token.EQUALS {
		return true
	}
	return t.Type == token.IDENT && t.Lexeme != "."
}

// curVidId returns the StrId the current token denotes as a bare vid atom.
func (p *Parser) curVidId() (strtab.StrId, bool) {
	switch p.cur().Type {
	case token.EQUALS:
		return strtab.Eq, true
	case token.IDENT:
		if p.cur().Lexeme == "." {
			return 0, false
		}
		return p.cur().Id, true
	default:
		return 0, false
	}
}

// parseLongId parses a possibly-qualified identifier, given that curTok is
// already positioned on its first (or only) component. Only the final
// component of a qualified path may be symbolic; this parser does not
// special-case a symbolic final component beyond accepting any IDENT there,
// since the lexer does not distinguish qualification context.
func (p *Parser) parseLongId() ast.LongId {
	start := p.curPos()
	id, _ := p.curVidId()
	idPos := p.curPos()
	var strs []strtab.StrId
	for p.peekTokenIs(token.IDENT) && p.peekVal().Lexeme == "." {
		strs = append(strs, id)
		p.nextToken() // move onto the "." token
		p.nextToken() // move onto the next component
		id, _ = p.curVidId()
		idPos = p.curPos()
	}
	return ast.LongId{Strs: strs, Id: id, Pos: loc.Span(start, idPos)}
}

// internTyVar interns a type variable's lexeme (the lexer does not intern
// TYVAR tokens itself, since type variables never need cross-reference by
// StrId outside of a single declaration's scope).
func (p *Parser) internTyVar(t token.Token) strtab.StrId {
	return p.interner.Intern(t.Lexeme)
}

// parseLabel parses a record/tuple field label: an alphanumeric identifier,
// a symbolic identifier, or a positive decimal numeral.
func (p *Parser) parseLabel() (strtab.StrId, loc.Loc) {
	pos := p.curPos()
	switch p.cur().Type {
	case token.IDENT:
		if p.cur().Lexeme == "." {
			p.errExpectedButFound(pos, "label", describeTok(p.cur()))
			return 0, pos
		}
		return p.cur().Id, pos
	case token.INT:
		if n, ok := p.cur().Lit.(int64); ok && n > 0 {
			return p.interner.Intern(strconv.FormatInt(n, 10)), pos
		}
		p.errExpectedButFound(pos, "positive numeric label", describeTok(p.cur()))
		return 0, pos
	default:
		p.errExpectedButFound(pos, "label", describeTok(p.cur()))
		return 0, pos
	}
}

// peekInfixOp reports the fixity of the identifier at peekTok, if any. Only
// an unqualified bare identifier can ever be infix.
func (p *Parser) peekInfixOp() (strtab.StrId, OpInfo, bool) {
	t := p.peekVal()
	if t.Type != token.IDENT || t.Lexeme == "." {
		return 0, OpInfo{}, false
	}
	info, ok := p.ops[t.Id]
	return t.Id, info, ok
}

// peekIsCurrentInfix reports whether the next token is an identifier that
// currently has infix status, meaning an application chain must stop there
// and let the infix-climbing layer consume it instead.
func (p *Parser) peekIsCurrentInfix() bool {
	_, _, ok := p.peekInfixOp()
	return ok
}
