package parser

import (
	"github.com/funvibe/smlfront/internal/ast"
	"github.com/funvibe/smlfront/internal/loc"
	"github.com/funvibe/smlfront/internal/strtab"
	"github.com/funvibe/smlfront/internal/token"
)

// parseType parses a type expression at the loosest level: the three-level
// ladder ArrowTy (loosest, right-associative) > tuple "*" (left-associative,
// desugared to a RecordTy with labels 1..n) > ConTy application (tightest,
// left-associative postfix tycon juxtaposition).
func (p *Parser) parseType() ast.Ty {
	exit, tooDeep := p.enterRecursion()
	defer exit()
	if tooDeep {
		p.errUnsupported(p.curPos(), "type nested too deeply")
		return nil
	}
	return p.parseArrowTy()
}

func (p *Parser) parseArrowTy() ast.Ty {
	left := p.parseTupleTy()
	if left == nil {
		return nil
	}
	if p.peekTokenIs(token.ARROW) {
		p.nextToken()
		p.nextToken()
		right := p.parseArrowTy()
		if right == nil {
			return left
		}
		return &ast.ArrowTy{Dom: left, Ran: right, Pos: loc.Span(left.GetLoc(), right.GetLoc())}
	}
	return left
}

func (p *Parser) parseTupleTy() ast.Ty {
	first := p.parseAppTy()
	if first == nil {
		return nil
	}
	if !p.peekIsStar() {
		return first
	}
	fields := []ast.TyRow{{Label: p.label(1), Ty: first, Pos: first.GetLoc()}}
	n := 2
	for p.peekIsStar() {
		p.nextToken() // move onto "*"
		p.nextToken() // move onto next atomic type
		t := p.parseAppTy()
		if t == nil {
			break
		}
		fields = append(fields, ast.TyRow{Label: p.label(n), Ty: t, Pos: t.GetLoc()})
		n++
	}
	return &ast.RecordTy{Fields: fields, Pos: loc.Span(first.GetLoc(), fields[len(fields)-1].Ty.GetLoc())}
}

func (p *Parser) peekIsStar() bool {
	t := p.peekVal()
	return t.Type == token.IDENT && t.Id == strtab.Star
}

// parseAppTy parses an atomic type (or parenthesized type sequence)
// followed by zero or more postfix type-constructor applications,
// left-associative: `int list array` is `(int list) array`.
func (p *Parser) parseAppTy() ast.Ty {
	single, seq := p.parseAtomicTyOrSeq()
	var cur ast.Ty
	if seq != nil {
		start := seq[0].GetLoc()
		if !(p.peekVal().Type == token.IDENT && p.peekVal().Lexeme != ".") {
			p.errExpectedButFound(p.peekPos(), "type constructor", describeTok(p.peekVal()))
			return nil
		}
		p.nextToken()
		id := p.parseLongId()
		cur = &ast.ConTy{Args: seq, Id: id, Pos: loc.Span(start, id.Pos)}
	} else {
		cur = single
	}
	if cur == nil {
		return nil
	}
	for p.peekVal().Type == token.IDENT && p.peekVal().Lexeme != "." && p.peekVal().Id != strtab.Star {
		p.nextToken()
		id := p.parseLongId()
		cur = &ast.ConTy{Args: []ast.Ty{cur}, Id: id, Pos: loc.Span(cur.GetLoc(), id.Pos)}
	}
	return cur
}

// parseAtomicTyOrSeq parses one atomic type, or (for a parenthesized,
// comma-separated, multi-element group) the raw sequence of argument types
// to be applied to the type constructor that must follow.
func (p *Parser) parseAtomicTyOrSeq() (single ast.Ty, seq []ast.Ty) {
	switch p.cur().Type {
	case token.TYVAR:
		return &ast.TyVarTy{Id: p.internTyVar(p.cur()), Equality: p.cur().Equality, Pos: p.curPos()}, nil
	case token.LBRACE:
		return p.parseRecordTy(), nil
	case token.LPAREN:
		p.nextToken() // move past "(" to first type
		first := p.parseType()
		if first == nil {
			return nil, nil
		}
		if p.peekTokenIs(token.COMMA) {
			tys := []ast.Ty{first}
			for p.peekTokenIs(token.COMMA) {
				p.nextToken()
				p.nextToken()
				t := p.parseType()
				if t == nil {
					break
				}
				tys = append(tys, t)
			}
			if !p.expectPeek(token.RPAREN) {
				return nil, nil
			}
			return nil, tys
		}
		if !p.expectPeek(token.RPAREN) {
			return nil, nil
		}
		return first, nil
	case token.IDENT:
		if p.cur().Lexeme == "." {
			p.errExpectedButFound(p.curPos(), "type", describeTok(p.cur()))
			return nil, nil
		}
		id := p.parseLongId()
		return &ast.ConTy{Args: nil, Id: id, Pos: id.Pos}, nil
	default:
		p.errExpectedButFound(p.curPos(), "type", describeTok(p.cur()))
		return nil, nil
	}
}

func (p *Parser) parseRecordTy() ast.Ty {
	start := p.curPos()
	p.nextToken() // move past "{" to first label or "}"
	var fields []ast.TyRow
	if p.curTokenIs(token.RBRACE) {
		return &ast.RecordTy{Fields: fields, Pos: loc.Span(start, p.curPos())}
	}
	for {
		label, labelPos := p.parseLabel()
		if !p.expectPeek(token.COLON) {
			return nil
		}
		p.nextToken()
		ty := p.parseType()
		if ty == nil {
			return nil
		}
		fields = append(fields, ast.TyRow{Label: label, Ty: ty, Pos: loc.Span(labelPos, ty.GetLoc())})
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
	return &ast.RecordTy{Fields: fields, Pos: loc.Span(start, p.curPos())}
}
