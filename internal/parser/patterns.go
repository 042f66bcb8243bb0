package parser

import (
	"github.com/funvibe/smlfront/internal/ast"
	"github.com/funvibe/smlfront/internal/diagnostics"
	"github.com/funvibe/smlfront/internal/loc"
	"github.com/funvibe/smlfront/internal/strtab"
	"github.com/funvibe/smlfront/internal/token"
)

// parsePat parses a full pattern: infix/application chain, optional `: ty`
// ascription, optional `as` layering.
func (p *Parser) parsePat() ast.Pat {
	exit, tooDeep := p.enterRecursion()
	defer exit()
	if tooDeep {
		p.errUnsupported(p.curPos(), "pattern nested too deeply")
		return nil
	}
	left := p.parseInfixPat(0)
	if left == nil {
		return nil
	}
	if p.peekTokenIs(token.COLON) {
		p.nextToken()
		p.nextToken()
		ty := p.parseType()
		if ty != nil {
			left = &ast.TypedPat{Pat: left, Ty: ty, Pos: loc.Span(left.GetLoc(), ty.GetLoc())}
		}
	}
	if p.peekTokenIs(token.AS) {
		return p.parseLayeredPat(left)
	}
	return left
}

func (p *Parser) parseLayeredPat(left ast.Pat) ast.Pat {
	var vid strtab.StrId
	var op bool
	var ty ast.Ty
	switch v := left.(type) {
	case *ast.VidPat:
		vid, op = v.Id.Id, v.Op
	case *ast.TypedPat:
		if inner, ok := v.Pat.(*ast.VidPat); ok {
			vid, op = inner.Id.Id, inner.Op
			ty = v.Ty
		} else {
			p.errExpectedButFound(left.GetLoc(), "variable before 'as'", "pattern")
		}
	default:
		p.errExpectedButFound(left.GetLoc(), "variable before 'as'", "pattern")
	}
	start := left.GetLoc()
	p.nextToken() // move onto "as"
	p.nextToken() // move onto the inner pattern
	inner := p.parsePat()
	if inner == nil {
		return left
	}
	return &ast.LayeredPat{Op: op, Id: vid, Ty: ty, Pat: inner, Pos: loc.Span(start, inner.GetLoc())}
}

// parseInfixPat climbs the fixity table, desugaring `pat1 vid pat2` to
// ConPat{Id: vid, Arg: RecordPat{1: pat1, 2: pat2}} per Appendix A.
func (p *Parser) parseInfixPat(minPrec int) ast.Pat {
	left := p.parseAppPat()
	if left == nil {
		return nil
	}
	for {
		id, info, ok := p.peekInfixOp()
		if !ok || info.Prec < minPrec {
			break
		}
		opPos := p.peekPos()
		p.nextToken() // move onto the operator
		nextMin := info.Prec + 1
		if info.Assoc == ast.AssocRight {
			nextMin = info.Prec
		}
		p.nextToken() // move onto the right operand
		right := p.parseInfixPat(nextMin)
		if right == nil {
			return left
		}
		if nid, ninfo, ok2 := p.peekInfixOp(); ok2 && ninfo.Prec == info.Prec && ninfo.Assoc != info.Assoc {
			p.addError(diagnostics.NewParserError(p.peekPos(), diagnostics.ErrSameFixityDiffAssoc, p.name(id), p.name(nid)))
		}
		left = &ast.ConPat{
			Id: ast.LongId{Id: id, Pos: opPos},
			Arg: &ast.RecordPat{Fields: []ast.PatRow{
				{Label: p.label(1), Pat: left, Pos: opPos},
				{Label: p.label(2), Pat: right, Pos: opPos},
			}, Pos: opPos},
			Pos: loc.Span(left.GetLoc(), right.GetLoc()),
		}
	}
	return left
}

// parseAppPat parses `[op] vid atpat` constructor application via
// juxtaposition, restricted to exactly one argument pattern (unlike
// expression application, patterns do not curry).
func (p *Parser) parseAppPat() ast.Pat {
	left := p.parseAtomicPat()
	if left == nil {
		return nil
	}
	if vid, ok := left.(*ast.VidPat); ok && p.startsAtomicPat(p.peekVal()) && !p.peekIsCurrentInfix() {
		p.nextToken()
		arg := p.parseAtomicPat()
		if arg == nil {
			return vid
		}
		return &ast.ConPat{Op: vid.Op, Id: vid.Id, Arg: arg, Pos: loc.Span(vid.Pos, arg.GetLoc())}
	}
	return left
}

func (p *Parser) startsAtomicPat(t token.Token) bool {
	switch t.Type {
	case token.INT, token.WORD, token.REAL, token.STRING, token.CHAR,
		token.OP, token.LPAREN, token.LBRACKET, token.LBRACE:
		return true
	case token.IDENT:
		return t.Lexeme != "."
	default:
		return false
	}
}

func (p *Parser) parseAtomicPat() ast.Pat {
	switch p.cur().Type {
	case token.IDENT:
		if p.cur().Lexeme == "." {
			p.errExpectedButFound(p.curPos(), "pattern", describeTok(p.cur()))
			return nil
		}
		if p.cur().Lexeme == "_" {
			return &ast.WildcardPat{Pos: p.curPos()}
		}
		return p.parseVidPatNoOp()
	case token.EQUALS:
		return p.parseVidPatNoOp()
	case token.OP:
		return p.parseVidPatOp()
	case token.INT:
		return &ast.SConPat{Kind: ast.SConInt, Lit: p.cur().Lit, Pos: p.curPos()}
	case token.WORD:
		return &ast.SConPat{Kind: ast.SConWord, Lit: p.cur().Lit, Pos: p.curPos()}
	case token.REAL:
		pos := p.curPos()
		p.addError(diagnostics.NewParserError(pos, diagnostics.ErrRealPat))
		return &ast.SConPat{Kind: ast.SConReal, Lit: p.cur().Lit, Pos: pos}
	case token.STRING:
		return &ast.SConPat{Kind: ast.SConString, Lit: p.cur().Lit, Pos: p.curPos()}
	case token.CHAR:
		return &ast.SConPat{Kind: ast.SConChar, Lit: p.cur().Lit, Pos: p.curPos()}
	case token.LBRACE:
		return p.parseRecordPat()
	case token.LPAREN:
		return p.parseParenPat()
	case token.LBRACKET:
		return p.parseListPat()
	default:
		p.errExpectedButFound(p.curPos(), "pattern", describeTok(p.cur()))
		return nil
	}
}

func (p *Parser) parseVidPatNoOp() ast.Pat {
	start := p.curPos()
	if p.cur().Type == token.EQUALS {
		return &ast.VidPat{Id: ast.LongId{Id: strtab.Eq, Pos: start}, Pos: start}
	}
	id := p.parseLongId()
	if _, ok := p.ops[id.Id]; ok && !id.Qualified() {
		p.addError(diagnostics.NewParserError(start, diagnostics.ErrInfixWithoutOp, p.name(id.Id)))
	}
	return &ast.VidPat{Id: id, Pos: loc.Span(start, id.Pos)}
}

func (p *Parser) parseVidPatOp() ast.Pat {
	start := p.curPos()
	p.nextToken() // move past "op" to the vid
	if p.cur().Type == token.EQUALS {
		return &ast.VidPat{Op: true, Id: ast.LongId{Id: strtab.Eq, Pos: p.curPos()}, Pos: loc.Span(start, p.curPos())}
	}
	id := p.parseLongId()
	return &ast.VidPat{Op: true, Id: id, Pos: loc.Span(start, id.Pos)}
}

// parseRecordPat parses `{ patrow }`, where patrow may end in a flex `...`
// marker, tracked on RecordPat.Flex.
func (p *Parser) parseRecordPat() ast.Pat {
	start := p.curPos()
	p.nextToken() // move past "{" to first row, "...", or "}"
	var fields []ast.PatRow
	flex := false
	if p.curTokenIs(token.RBRACE) {
		return &ast.RecordPat{Fields: fields, Pos: loc.Span(start, p.curPos())}
	}
	for {
		if p.curTokenIs(token.DOTDOTDOT) {
			flex = true
			break
		}
		label, labelPos := p.parseLabel()
		var fieldPat ast.Pat
		if p.peekTokenIs(token.EQUALS) {
			p.nextToken()
			p.nextToken()
			fieldPat = p.parsePat()
		} else {
			// Punned field: `{x, y}` abbreviates `{x = x, y = y}`, possibly
			// with a type ascription or `as`-layering on the pun variable.
			fieldPat = &ast.VidPat{Id: ast.LongId{Id: label, Pos: labelPos}, Pos: labelPos}
			if p.peekTokenIs(token.COLON) {
				p.nextToken()
				p.nextToken()
				ty := p.parseType()
				if ty != nil {
					fieldPat = &ast.TypedPat{Pat: fieldPat, Ty: ty, Pos: loc.Span(labelPos, ty.GetLoc())}
				}
			}
			if p.peekTokenIs(token.AS) {
				fieldPat = p.parseLayeredPat(fieldPat)
			}
		}
		if fieldPat == nil {
			return nil
		}
		fields = append(fields, ast.PatRow{Label: label, Pat: fieldPat, Pos: loc.Span(labelPos, fieldPat.GetLoc())})
		if p.peekTokenIs(token.COMMA) {
			p.nextToken()
			p.nextToken()
			continue
		}
		break
	}
	if !p.expectPeek(token.RBRACE) {
		return nil
	}
	return &ast.RecordPat{Fields: fields, Flex: flex, Pos: loc.Span(start, p.curPos())}
}

// parseParenPat parses `()`, `(pat)`, or the tuple sugar `(pat1, ..., patn)`.
func (p *Parser) parseParenPat() ast.Pat {
	start := p.curPos()
	p.nextToken() // move past "(" to first pattern or ")"
	if p.curTokenIs(token.RPAREN) {
		return &ast.RecordPat{Fields: nil, Pos: loc.Span(start, p.curPos())}
	}
	first := p.parsePat()
	if first == nil {
		return nil
	}
	if p.peekTokenIs(token.COMMA) {
		fields := []ast.PatRow{{Label: p.label(1), Pat: first, Pos: first.GetLoc()}}
		n := 2
		for p.peekTokenIs(token.COMMA) {
			p.nextToken()
			p.nextToken()
			pt := p.parsePat()
			if pt == nil {
				break
			}
			fields = append(fields, ast.PatRow{Label: p.label(n), Pat: pt, Pos: pt.GetLoc()})
			n++
		}
		if !p.expectPeek(token.RPAREN) {
			return nil
		}
		return &ast.RecordPat{Fields: fields, Pos: loc.Span(start, p.curPos())}
	}
	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	return first
}

// parseListPat desugars `[p1, ..., pn]` to a right-nested `::` chain ending
// in `nil`, mirroring the expression-level list sugar.
func (p *Parser) parseListPat() ast.Pat {
	start := p.curPos()
	p.nextToken() // move past "[" to first pattern or "]"
	var elems []ast.Pat
	if !p.curTokenIs(token.RBRACKET) {
		for {
			e := p.parsePat()
			if e == nil {
				break
			}
			elems = append(elems, e)
			if p.peekTokenIs(token.COMMA) {
				p.nextToken()
				p.nextToken()
				continue
			}
			break
		}
		if !p.expectPeek(token.RBRACKET) {
			return nil
		}
	}
	end := p.curPos()
	var result ast.Pat = &ast.VidPat{Id: ast.LongId{Id: strtab.Nil, Pos: end}, Pos: end}
	for i := len(elems) - 1; i >= 0; i-- {
		consPos := elems[i].GetLoc()
		result = &ast.ConPat{
			Id: ast.LongId{Id: strtab.Cons, Pos: consPos},
			Arg: &ast.RecordPat{Fields: []ast.PatRow{
				{Label: p.label(1), Pat: elems[i], Pos: consPos},
				{Label: p.label(2), Pat: result, Pos: result.GetLoc()},
			}, Pos: consPos},
			Pos: loc.Span(start, end),
		}
	}
	return result
}
