package parser

import (
	"github.com/funvibe/smlfront/internal/ast"
	"github.com/funvibe/smlfront/internal/diagnostics"
	"github.com/funvibe/smlfront/internal/loc"
	"github.com/funvibe/smlfront/internal/strtab"
	"github.com/funvibe/smlfront/internal/token"
)

// parseFunDec parses `fun [tyvarseq] fvalbind (and fvalbind)*`. Each
// fvalbind is a run of `|`-separated clauses naming the same function; an
// `and` starts a new function. A leading tyvarseq is recognized and
// ignored beyond reporting it Unsupported, matching the val declaration's
// treatment of explicit quantification.
func (p *Parser) parseFunDec() ast.Dec {
	start := p.curPos()
	p.nextToken() // move past "fun" to tyvarseq/first clause head
	if p.curTokenIs(token.TYVAR) {
		tvStart := p.curPos()
		for p.curTokenIs(token.TYVAR) {
			p.nextToken()
		}
		p.errUnsupported(tvStart, "explicit type variable sequence on fun")
	}
	var binds []ast.FValBind
	for {
		b := p.parseFValBind()
		if b == nil {
			break
		}
		binds = append(binds, *b)
		if p.peekTokenIs(token.AND) {
			p.nextToken()
			p.nextToken()
			continue
		}
		break
	}
	return &ast.FunDec{Binds: binds, Pos: loc.Span(start, p.lastLoc)}
}

// parseFValBind parses a `|`-separated run of clauses that must all name
// the same function; a mismatch is reported but parsing continues with the
// first clause's name, since that is more useful to a reader than aborting
// the whole binding.
func (p *Parser) parseFValBind() *ast.FValBind {
	start := p.curPos()
	var clauses []ast.FClause
	var name strtab.StrId
	arity := 0
	named := false
	for {
		clause, clauseName, clauseArity := p.parseFClause()
		if clause == nil {
			break
		}
		if !named {
			name, arity, named = clauseName, clauseArity, true
		} else if clauseName != name {
			p.addError(diagnostics.NewParserError(clause.Pos, diagnostics.ErrFunDecNameMismatch, p.name(name), p.name(clauseName)))
		}
		clauses = append(clauses, *clause)
		if p.peekTokenIs(token.BAR) {
			p.nextToken()
			p.nextToken()
			continue
		}
		break
	}
	if len(clauses) == 0 {
		return nil
	}
	return &ast.FValBind{Name: name, Arity: arity, Clauses: clauses, Pos: loc.Span(start, p.lastLoc)}
}

// parseFClause parses one function clause in any of its four surface
// forms and returns it alongside the function name and arity it declares,
// so the caller can check consistency across a `|`-separated run:
//
//	[op] vid atpat+ [: ty] = exp                    (prefix form)
//	atpat1 vid atpat2 [: ty] = exp                  (bare infix form)
//	( atpat1 vid atpat2 ) atpat* [: ty] = exp       (parenthesized infix head, curried)
func (p *Parser) parseFClause() (*ast.FClause, strtab.StrId, int) {
	start := p.curPos()
	var name strtab.StrId
	var pats []ast.Pat
	switch {
	case p.curTokenIs(token.LPAREN):
		if n, ps, ok := p.tryParseParenInfixHead(); ok {
			name, pats = n, ps
			for p.startsAtomicPat(p.peekVal()) && !p.peekIsCurrentInfix() {
				p.nextToken()
				a := p.parseAtomicPat()
				if a == nil {
					break
				}
				pats = append(pats, a)
			}
		} else {
			a1 := p.parseAtomicPat()
			if a1 == nil {
				return nil, 0, 0
			}
			name, pats = p.finishClauseHeadAfterFirstAtom(a1)
		}
	case p.curTokenIs(token.OP):
		p.nextToken() // move past "op" to the function name
		id := p.parseLongId()
		name = id.Id
		for p.startsAtomicPat(p.peekVal()) && !p.peekIsCurrentInfix() {
			p.nextToken()
			a := p.parseAtomicPat()
			if a == nil {
				break
			}
			pats = append(pats, a)
		}
	default:
		a1 := p.parseAtomicPat()
		if a1 == nil {
			return nil, 0, 0
		}
		name, pats = p.finishClauseHeadAfterFirstAtom(a1)
	}
	if len(pats) == 0 {
		p.errExpectedButFound(p.curPos(), "function clause arguments", describeTok(p.cur()))
		return nil, 0, 0
	}
	var result ast.Ty
	if p.peekTokenIs(token.COLON) {
		p.nextToken()
		p.nextToken()
		result = p.parseType()
	}
	if !p.expectPeek(token.EQUALS) {
		return nil, 0, 0
	}
	p.nextToken()
	body := p.parseExp()
	if body == nil {
		return nil, 0, 0
	}
	return &ast.FClause{Pats: pats, Result: result, Exp: body, Pos: loc.Span(start, body.GetLoc())}, name, len(pats)
}

// finishClauseHeadAfterFirstAtom disambiguates, having already parsed one
// atomic pattern a1, between the bare infix form (a1 is the first
// argument, followed by a currently-infix vid and a second argument) and
// the prefix form (a1 must itself reduce to a bare nonfix-use vid naming
// the function, followed by zero or more further arguments).
func (p *Parser) finishClauseHeadAfterFirstAtom(a1 ast.Pat) (strtab.StrId, []ast.Pat) {
	if id, _, ok := p.peekInfixOp(); ok {
		opPos := p.peekPos()
		p.nextToken() // move onto the infix vid
		p.nextToken() // move onto the second argument
		a2 := p.parseAtomicPat()
		if a2 == nil {
			return id, []ast.Pat{a1}
		}
		_ = opPos
		return id, []ast.Pat{a1, a2}
	}
	vid, ok := a1.(*ast.VidPat)
	if !ok {
		p.errExpectedButFound(a1.GetLoc(), "function name", "pattern")
		return 0, nil
	}
	var pats []ast.Pat
	for p.startsAtomicPat(p.peekVal()) && !p.peekIsCurrentInfix() {
		p.nextToken()
		a := p.parseAtomicPat()
		if a == nil {
			break
		}
		pats = append(pats, a)
	}
	return vid.Id.Id, pats
}

// tryParseParenInfixHead speculatively parses `( atpat1 vid atpat2 )` where
// vid currently has infix status, the only shape a clause head starting
// with "(" can have beyond an ordinary parenthesized first argument
// pattern. On failure it leaves the cursor untouched.
func (p *Parser) tryParseParenInfixHead() (strtab.StrId, []ast.Pat, bool) {
	var name strtab.StrId
	var pats []ast.Pat
	ok := p.speculative(func() bool {
		if !p.curTokenIs(token.LPAREN) {
			return false
		}
		p.nextToken() // move onto atpat1
		a1 := p.parseAtomicPat()
		if a1 == nil {
			return false
		}
		t := p.peekVal()
		if t.Type != token.IDENT || t.Lexeme == "." {
			return false
		}
		info, isInfix := p.ops[t.Id]
		if !isInfix {
			return false
		}
		_ = info
		vidId := t.Id
		p.nextToken() // move onto the vid
		p.nextToken() // move onto atpat2
		a2 := p.parseAtomicPat()
		if a2 == nil {
			return false
		}
		if !p.peekTokenIs(token.RPAREN) {
			return false
		}
		p.nextToken() // consume ")"
		name = vidId
		pats = []ast.Pat{a1, a2}
		return true
	})
	return name, pats, ok
}
