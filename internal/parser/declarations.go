package parser

import (
	"github.com/funvibe/smlfront/internal/ast"
	"github.com/funvibe/smlfront/internal/diagnostics"
	"github.com/funvibe/smlfront/internal/loc"
	"github.com/funvibe/smlfront/internal/strtab"
	"github.com/funvibe/smlfront/internal/token"
)

// parseDecSeq parses a juxtaposed/`;`-separated run of core declarations up
// to (but not consuming) stop, collapsing to EmptyDec/the lone Dec/SeqDec as
// appropriate.
func (p *Parser) parseDecSeq(stop token.TokenType) ast.Dec {
	start := p.curPos()
	var decs []ast.Dec
	for {
		if p.curTokenIs(stop) || p.curTokenIs(token.EOF) {
			break
		}
		if p.curTokenIs(token.SEMI) {
			p.nextToken()
			continue
		}
		if !p.startsDec(p.cur()) {
			break
		}
		d := p.parseOneDec()
		if d == nil {
			break
		}
		decs = append(decs, d)
		if p.peekTokenIs(token.SEMI) {
			p.nextToken()
		}
		p.nextToken()
	}
	switch len(decs) {
	case 0:
		return &ast.EmptyDec{Pos: loc.Span(start, p.curPos())}
	case 1:
		return decs[0]
	default:
		return &ast.SeqDec{Decs: decs, Pos: loc.Span(start, p.lastLoc)}
	}
}

func (p *Parser) parseOneDec() ast.Dec {
	switch p.cur().Type {
	case token.VAL:
		return p.parseValDec()
	case token.FUN:
		return p.parseFunDec()
	case token.TYPE:
		return p.parseTypeDec()
	case token.DATATYPE:
		return p.parseDatatypeTopDec()
	case token.EXCEPTION:
		return p.parseExceptionDec()
	case token.LOCAL:
		return p.parseLocalDec()
	case token.OPEN:
		return p.parseOpenDec()
	case token.INFIX, token.INFIXR, token.NONFIX:
		return p.parseFixityDec()
	case token.ABSTYPE:
		return p.parseAbstypeUnsupported()
	default:
		p.errExpectedButFound(p.curPos(), "declaration", describeTok(p.cur()))
		return nil
	}
}

func (p *Parser) parseAbstypeUnsupported() ast.Dec {
	start := p.curPos()
	p.errUnsupported(start, "abstype")
	for !p.curTokenIs(token.EOF) && !p.curTokenIs(token.END) {
		p.nextToken()
	}
	return ast.NewUnsupportedDec(loc.Span(start, p.lastLoc), "abstype")
}

// parseValDec parses `val [tyvarseq] [rec] valbind (and valbind)*`. A
// tyvarseq or `rec` marker is recognized and gated Unsupported, since
// generalization here is driven entirely by the value restriction rather
// than explicit quantification, and self-recursive val bindings are not
// elaborated.
func (p *Parser) parseValDec() ast.Dec {
	start := p.curPos()
	p.nextToken() // move past "val" to tyvarseq/rec/first pattern
	if p.curTokenIs(token.TYVAR) || (p.curTokenIs(token.LPAREN) && p.peekTokenIs(token.TYVAR)) {
		tvStart := p.curPos()
		p.skipUnsupportedValDecBody()
		p.errUnsupported(tvStart, "explicit type variable sequence on val")
		return ast.NewUnsupportedDec(loc.Span(start, p.lastLoc), "explicit type variable sequence on val")
	}
	if p.curTokenIs(token.REC) {
		p.nextToken()
		p.skipUnsupportedValDecBody()
		p.errUnsupported(start, "val rec")
		return ast.NewUnsupportedDec(loc.Span(start, p.lastLoc), "val rec")
	}
	var binds []ast.ValBind
	for {
		b := p.parseValBind()
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
	return &ast.ValDec{Binds: binds, Pos: loc.Span(start, p.lastLoc)}
}

// skipUnsupportedValDecBody consumes the rest of a `val` declaration gated
// Unsupported by an explicit tyvarseq or `rec` marker, whose bindings are
// never elaborated, so this front end never needs to look inside them.
// Unlike the removed generic declaration-boundary recovery, this only ever
// fires on a construct the parser has already fully recognized (not on a
// parse failure), so it does not contradict "no resynchronization".
func (p *Parser) skipUnsupportedValDecBody() {
	for !p.curTokenIs(token.EOF) {
		switch p.cur().Type {
		case token.SEMI, token.AND, token.IN, token.END:
			return
		case token.VAL, token.FUN, token.TYPE, token.DATATYPE, token.EXCEPTION,
			token.LOCAL, token.OPEN, token.INFIX, token.INFIXR, token.NONFIX,
			token.ABSTYPE, token.STRUCTURE, token.SIGNATURE, token.FUNCTOR:
			return
		}
		p.nextToken()
	}
}

func (p *Parser) parseValBind() *ast.ValBind {
	pat := p.parsePat()
	if pat == nil {
		return nil
	}
	if !p.expectPeek(token.EQUALS) {
		return nil
	}
	p.nextToken()
	e := p.parseExp()
	if e == nil {
		return nil
	}
	return &ast.ValBind{Pat: pat, Exp: e, Pos: loc.Span(pat.GetLoc(), e.GetLoc())}
}

// parseTyVarSeq parses an optional bare `'a` or parenthesized
// `('a, 'b, ...)` type variable sequence preceding a tycon, returning nil
// (not an empty non-nil slice) when absent. curTok is left on the last
// token consumed; the caller must advance once more to reach the tycon.
func (p *Parser) parseTyVarSeq() []strtab.StrId {
	switch {
	case p.curTokenIs(token.TYVAR):
		return []strtab.StrId{p.internTyVar(p.cur())}
	case p.curTokenIs(token.LPAREN) && p.peekTokenIs(token.TYVAR):
		p.nextToken() // move onto first tyvar
		out := []strtab.StrId{p.internTyVar(p.cur())}
		for p.peekTokenIs(token.COMMA) {
			p.nextToken()
			p.nextToken()
			if !p.curTokenIs(token.TYVAR) {
				break
			}
			out = append(out, p.internTyVar(p.cur()))
		}
		p.expectPeek(token.RPAREN)
		return out
	default:
		return nil
	}
}

func (p *Parser) parseTyBind() *ast.TyBind {
	start := p.curPos()
	tyvars := p.parseTyVarSeq()
	if tyvars != nil {
		p.nextToken()
	}
	if p.cur().Type != token.IDENT || p.cur().Lexeme == "." {
		return nil
	}
	id, _ := p.curVidId()
	if !p.expectPeek(token.EQUALS) {
		return nil
	}
	p.nextToken()
	ty := p.parseType()
	if ty == nil {
		return nil
	}
	return &ast.TyBind{TyVars: tyvars, Id: id, Ty: ty, Pos: loc.Span(start, ty.GetLoc())}
}

func (p *Parser) parseTypeDec() ast.Dec {
	start := p.curPos()
	p.nextToken() // move past "type" to the first binding's tyvarseq/tycon
	var binds []ast.TyBind
	for {
		b := p.parseTyBind()
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
	return &ast.TypeDec{Binds: binds, Pos: loc.Span(start, p.lastLoc)}
}

// parseDatatypeTopDec dispatches between an ordinary `datatype` declaration
// and the `datatype tycon = datatype longtycon` copy form, which needs a
// two-token lookahead past the tycon to distinguish from a regular datbind.
func (p *Parser) parseDatatypeTopDec() ast.Dec {
	start := p.curPos()
	p.nextToken() // move past "datatype"
	if p.cur().Type == token.IDENT && p.cur().Lexeme != "." &&
		p.peekTokenIs(token.EQUALS) && p.peek2Val().Type == token.DATATYPE {
		id, _ := p.curVidId()
		p.nextToken() // move onto "="
		p.nextToken() // move onto "datatype"
		p.nextToken() // move onto the copied longtycon
		rhs := p.parseLongId()
		return &ast.DatatypeCopyDec{Id: id, Rhs: rhs, Pos: loc.Span(start, rhs.Pos)}
	}
	return p.parseDatatypeDecBody(start)
}

func (p *Parser) parseDatatypeDecBody(start loc.Loc) ast.Dec {
	var binds []ast.DatBind
	for {
		b := p.parseDatBind()
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
	var withTypes []ast.TyBind
	if p.peekTokenIs(token.WITHTYPE) {
		p.nextToken() // move onto "withtype"
		p.nextToken() // move onto the first tybind
		for {
			b := p.parseTyBind()
			if b == nil {
				break
			}
			withTypes = append(withTypes, *b)
			if p.peekTokenIs(token.AND) {
				p.nextToken()
				p.nextToken()
				continue
			}
			break
		}
	}
	return &ast.DatatypeDec{Binds: binds, WithTypes: withTypes, Pos: loc.Span(start, p.lastLoc)}
}

func (p *Parser) parseDatBind() *ast.DatBind {
	start := p.curPos()
	tyvars := p.parseTyVarSeq()
	if tyvars != nil {
		p.nextToken()
	}
	if p.cur().Type != token.IDENT || p.cur().Lexeme == "." {
		return nil
	}
	id, _ := p.curVidId()
	if !p.expectPeek(token.EQUALS) {
		return nil
	}
	p.nextToken()
	var cons []ast.ConBind
	for {
		c := p.parseConBind()
		if c == nil {
			break
		}
		cons = append(cons, *c)
		if p.peekTokenIs(token.BAR) {
			p.nextToken()
			p.nextToken()
			continue
		}
		break
	}
	return &ast.DatBind{TyVars: tyvars, Id: id, Cons: cons, Pos: loc.Span(start, p.lastLoc)}
}

func (p *Parser) parseConBind() *ast.ConBind {
	start := p.curPos()
	op := false
	if p.curTokenIs(token.OP) {
		op = true
		p.nextToken()
	}
	id, ok := p.curVidId()
	if !ok {
		return nil
	}
	end := p.curPos()
	var arg ast.Ty
	if p.peekTokenIs(token.OF) {
		p.nextToken()
		p.nextToken()
		arg = p.parseType()
		if arg != nil {
			end = arg.GetLoc()
		}
	}
	return &ast.ConBind{Op: op, Id: id, Arg: arg, Pos: loc.Span(start, end)}
}

func (p *Parser) parseExceptionDec() ast.Dec {
	start := p.curPos()
	p.nextToken() // move past "exception" to the first exbind
	var binds []ast.ExBind
	for {
		b := p.parseExBind()
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
	return &ast.ExceptionDec{Binds: binds, Pos: loc.Span(start, p.lastLoc)}
}

func (p *Parser) parseExBind() *ast.ExBind {
	start := p.curPos()
	op := false
	if p.curTokenIs(token.OP) {
		op = true
		p.nextToken()
	}
	id, ok := p.curVidId()
	if !ok {
		return nil
	}
	if p.peekTokenIs(token.OF) {
		p.nextToken()
		p.nextToken()
		ty := p.parseType()
		end := p.curPos()
		if ty != nil {
			end = ty.GetLoc()
		}
		return &ast.ExBind{Op: op, Id: id, Arg: ty, Pos: loc.Span(start, end)}
	}
	if p.peekTokenIs(token.EQUALS) {
		p.nextToken() // move onto "="
		p.nextToken() // move onto the rhs longid
		rhs := p.parseLongId()
		return &ast.ExBind{Op: op, Id: id, Rhs: &rhs, Pos: loc.Span(start, rhs.Pos)}
	}
	return &ast.ExBind{Op: op, Id: id, Pos: loc.Span(start, p.curPos())}
}

// parseLocalDec parses `local dec1 in dec2 end`. dec1's fixity mutations
// are visible while parsing dec2 (required for dec2 to use any infix
// identifier dec1 introduces), but the whole scope is rewound to its
// pre-local snapshot once `end` is reached, so an infix/infixr/nonfix
// declaration made directly in dec2 does not, in this implementation, leak
// past the local the way the Definition's static semantics would have it.
func (p *Parser) parseLocalDec() ast.Dec {
	start := p.curPos()
	saved := p.snapshotOps()
	p.nextToken() // move onto dec1
	dec1 := p.parseDecSeq(token.IN)
	if !p.curTokenIs(token.IN) {
		p.errExpectedButFound(p.curPos(), string(token.IN), describeTok(p.cur()))
		p.restoreOps(saved)
		return nil
	}
	p.nextToken()
	dec2 := p.parseDecSeq(token.END)
	if !p.curTokenIs(token.END) {
		p.errExpectedButFound(p.curPos(), string(token.END), describeTok(p.cur()))
		p.restoreOps(saved)
		return nil
	}
	p.restoreOps(saved)
	if dec1 == nil || dec2 == nil {
		return nil
	}
	return &ast.LocalDec{Dec1: dec1, Dec2: dec2, Pos: loc.Span(start, p.curPos())}
}

func (p *Parser) parseOpenDec() ast.Dec {
	start := p.curPos()
	p.nextToken() // move onto the first longstrid
	var ids []ast.LongId
	for p.cur().Type == token.IDENT && p.cur().Lexeme != "." {
		ids = append(ids, p.parseLongId())
		if p.startsLongId(p.peekVal()) {
			p.nextToken()
			continue
		}
		break
	}
	return &ast.OpenDec{Ids: ids, Pos: loc.Span(start, p.lastLoc)}
}

func (p *Parser) startsLongId(t token.Token) bool {
	return t.Type == token.IDENT && t.Lexeme != "."
}

// parseFixityDec parses `infix|infixr [d] vid+` or `nonfix vid+`, mutating
// the live operator table in place and still producing a FixityDec node
// (the checker no-ops it; the parser is the only consumer of fixity).
func (p *Parser) parseFixityDec() ast.Dec {
	start := p.curPos()
	var assoc ast.Assoc
	nonfix := false
	switch p.cur().Type {
	case token.INFIXR:
		assoc = ast.AssocRight
	case token.NONFIX:
		nonfix = true
	default:
		assoc = ast.AssocLeft
	}
	prec := 0
	if !nonfix && p.peekTokenIs(token.INT) {
		p.nextToken()
		if v, ok := p.cur().Lit.(int64); ok {
			if v < 0 {
				p.addError(diagnostics.NewParserError(p.curPos(), diagnostics.ErrNegativeFixity))
			}
			prec = int(v)
		}
	}
	var ids []strtab.StrId
	for isVidAtomTok(p.peekVal()) {
		p.nextToken()
		if id, ok := p.curVidId(); ok {
			ids = append(ids, id)
		}
	}
	end := p.curPos()
	if nonfix {
		for _, id := range ids {
			delete(p.ops, id)
		}
	} else {
		for _, id := range ids {
			p.ops[id] = OpInfo{Prec: prec, Assoc: assoc}
		}
	}
	return &ast.FixityDec{Assoc: assoc, Nonfix: nonfix, Prec: prec, Ids: ids, Pos: loc.Span(start, end)}
}
