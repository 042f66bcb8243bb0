package parser

import (
	"github.com/funvibe/smlfront/internal/ast"
	"github.com/funvibe/smlfront/internal/loc"
	"github.com/funvibe/smlfront/internal/token"
)

// parseTopDec parses one top-level declaration: a structure-declaration
// sequence (the common case), a signature declaration, or a functor
// declaration (recognized syntactically and gated Unsupported, since
// functors are out of scope for this front end).
func (p *Parser) parseTopDec() ast.TopDec {
	switch p.cur().Type {
	case token.SIGNATURE:
		return p.parseSigDecTopDec()
	case token.FUNCTOR:
		return p.parseFunctorUnsupported()
	default:
		if p.startsStrDec(p.cur()) {
			start := p.curPos()
			decs := p.parseStrDecList(token.SEMI, token.SIGNATURE, token.FUNCTOR)
			if p.failed {
				return nil
			}
			dec := collapseStrDecs(decs, start, p.lastLoc)
			return &ast.StrDecTopDec{Dec: dec, Pos: loc.Span(start, p.lastLoc)}
		}
		p.errExpectedButFound(p.curPos(), "declaration", describeTok(p.cur()))
		return nil
	}
}

// parseFunctorUnsupported consumes an entire `functor ... end`-or-simpler
// declaration without elaborating it, tracking struct/sig/let...end
// nesting depth so a functor body containing those constructs doesn't
// fool the recovery into stopping early.
func (p *Parser) parseFunctorUnsupported() ast.TopDec {
	start := p.curPos()
	depth := 0
	for !p.curTokenIs(token.EOF) {
		switch p.cur().Type {
		case token.STRUCT, token.SIG, token.LET:
			depth++
		case token.END:
			depth--
		}
		if depth <= 0 {
			switch p.peekVal().Type {
			case token.SEMI, token.STRUCTURE, token.SIGNATURE, token.FUNCTOR, token.EOF:
				goto done
			}
		}
		p.nextToken()
	}
done:
	p.errUnsupported(start, "functor declaration")
	return ast.NewUnsupportedTopDec(loc.Span(start, p.curPos()), "functor declaration")
}

func (p *Parser) parseSigDecTopDec() ast.TopDec {
	start := p.curPos()
	p.nextToken() // move onto the first sigid
	var binds []ast.SigBind
	for {
		b := p.parseSigBind()
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
	return &ast.SigDecTopDec{Binds: binds, Pos: loc.Span(start, p.lastLoc)}
}

func (p *Parser) parseSigBind() *ast.SigBind {
	start := p.curPos()
	if p.cur().Type != token.IDENT || p.cur().Lexeme == "." {
		return nil
	}
	id, _ := p.curVidId()
	if !p.expectPeek(token.EQUALS) {
		return nil
	}
	p.nextToken()
	sig := p.parseSigExp()
	if sig == nil {
		return nil
	}
	return &ast.SigBind{Id: id, Sig: sig, Pos: loc.Span(start, sig.GetLoc())}
}

// parseSigExp parses `sig spec end` or a bound signature identifier,
// possibly followed by a `where type` clause. `where type` is recognized
// but not elaborated (the resulting signature would need type-realization
// substitution this checker does not implement), so it is skipped and
// reported Unsupported.
func (p *Parser) parseSigExp() ast.SigExp {
	switch p.cur().Type {
	case token.SIG:
		return p.parseSigExpLit()
	case token.IDENT:
		if p.cur().Lexeme == "." {
			p.errExpectedButFound(p.curPos(), "signature expression", describeTok(p.cur()))
			return nil
		}
		start := p.curPos()
		id, _ := p.curVidId()
		if p.peekTokenIs(token.WHERE) {
			p.nextToken() // move onto "where"
			p.skipWhereClause()
			end := p.curPos()
			p.errUnsupported(loc.Span(start, end), "where type")
			return ast.NewUnsupportedSigExp(loc.Span(start, end), "where type")
		}
		return &ast.SigIdExp{Id: id, Pos: start}
	default:
		p.errExpectedButFound(p.curPos(), "signature expression", describeTok(p.cur()))
		return nil
	}
}

// skipWhereClause consumes one or more `where type tyvarseq longtycon = ty`
// clauses chained with `and`, leaving curTok on the last token consumed.
func (p *Parser) skipWhereClause() {
	if !p.expectPeek(token.TYPE) {
		return
	}
	for {
		p.nextToken() // move onto tyvarseq/tycon
		if p.curTokenIs(token.TYVAR) || (p.curTokenIs(token.LPAREN) && p.peekTokenIs(token.TYVAR)) {
			if p.parseTyVarSeq() != nil {
				p.nextToken()
			}
		}
		p.parseLongId()
		if !p.expectPeek(token.EQUALS) {
			return
		}
		p.nextToken()
		p.parseType()
		if p.peekTokenIs(token.AND) && p.peek2Val().Type == token.TYPE {
			p.nextToken() // move onto "and"
			p.nextToken() // move onto "type"
			continue
		}
		return
	}
}

func (p *Parser) parseSigExpLit() ast.SigExp {
	start := p.curPos()
	saved := p.snapshotOps()
	p.nextToken() // move past "sig"
	specs := p.parseSpecList(token.END)
	if !p.curTokenIs(token.END) {
		p.errExpectedButFound(p.curPos(), string(token.END), describeTok(p.cur()))
		p.restoreOps(saved)
		return nil
	}
	p.restoreOps(saved)
	return &ast.SigExpLit{Specs: specs, Pos: loc.Span(start, p.curPos())}
}

// parseSpecList parses the body of a signature: a run of specifications,
// each of which may internally bind several `and`-chained items.
func (p *Parser) parseSpecList(stop token.TokenType) []ast.Spec {
	var specs []ast.Spec
	for {
		if p.curTokenIs(stop) || p.curTokenIs(token.EOF) {
			break
		}
		if p.curTokenIs(token.SEMI) {
			p.nextToken()
			continue
		}
		switch p.cur().Type {
		case token.VAL:
			specs = append(specs, p.parseValDescGroup()...)
		case token.TYPE:
			specs = append(specs, p.parseTypeDescGroup()...)
		case token.DATATYPE:
			specs = append(specs, p.parseDatatypeDesc())
		case token.EXCEPTION:
			specs = append(specs, p.parseExceptionDescGroup()...)
		case token.STRUCTURE:
			specs = append(specs, p.parseStructureDescGroup()...)
		case token.INCLUDE:
			specs = append(specs, p.parseIncludeUnsupported())
		case token.SHARING:
			specs = append(specs, p.parseSharingUnsupported())
		default:
			return specs
		}
		if p.peekTokenIs(token.SEMI) {
			p.nextToken()
		}
		p.nextToken()
	}
	return specs
}

func (p *Parser) parseValDescGroup() []ast.Spec {
	var out []ast.Spec
	p.nextToken() // move past "val" to the first vid
	for {
		d := p.parseOneValDesc()
		if d == nil {
			break
		}
		out = append(out, d)
		if p.peekTokenIs(token.AND) {
			p.nextToken()
			p.nextToken()
			continue
		}
		break
	}
	return out
}

func (p *Parser) parseOneValDesc() *ast.ValDesc {
	start := p.curPos()
	if !isVidAtomTok(p.cur()) {
		return nil
	}
	id, _ := p.curVidId()
	if !p.expectPeek(token.COLON) {
		return nil
	}
	p.nextToken()
	ty := p.parseType()
	if ty == nil {
		return nil
	}
	return &ast.ValDesc{Id: id, Ty: ty, Pos: loc.Span(start, ty.GetLoc())}
}

func (p *Parser) parseTypeDescGroup() []ast.Spec {
	var out []ast.Spec
	p.nextToken() // move past "type" to tyvarseq/tycon
	for {
		d := p.parseOneTypeDesc()
		if d == nil {
			break
		}
		out = append(out, d)
		if p.peekTokenIs(token.AND) {
			p.nextToken()
			p.nextToken()
			continue
		}
		break
	}
	return out
}

func (p *Parser) parseOneTypeDesc() *ast.TypeDesc {
	start := p.curPos()
	tyvars := p.parseTyVarSeq()
	if tyvars != nil {
		p.nextToken()
	}
	if p.cur().Type != token.IDENT || p.cur().Lexeme == "." {
		return nil
	}
	id, _ := p.curVidId()
	return &ast.TypeDesc{TyVars: tyvars, Id: id, Pos: loc.Span(start, p.curPos())}
}

func (p *Parser) parseDatatypeDesc() ast.Spec {
	start := p.curPos()
	p.nextToken() // move past "datatype"
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
	return &ast.DatatypeDesc{Binds: binds, Pos: loc.Span(start, p.lastLoc)}
}

func (p *Parser) parseExceptionDescGroup() []ast.Spec {
	var out []ast.Spec
	p.nextToken() // move past "exception" to the first vid
	for {
		d := p.parseOneExceptionDesc()
		if d == nil {
			break
		}
		out = append(out, d)
		if p.peekTokenIs(token.AND) {
			p.nextToken()
			p.nextToken()
			continue
		}
		break
	}
	return out
}

func (p *Parser) parseOneExceptionDesc() *ast.ExceptionDesc {
	start := p.curPos()
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
	return &ast.ExceptionDesc{Id: id, Arg: arg, Pos: loc.Span(start, end)}
}

func (p *Parser) parseStructureDescGroup() []ast.Spec {
	var out []ast.Spec
	p.nextToken() // move past "structure" to the first strid
	for {
		d := p.parseOneStructureDesc()
		if d == nil {
			break
		}
		out = append(out, d)
		if p.peekTokenIs(token.AND) {
			p.nextToken()
			p.nextToken()
			continue
		}
		break
	}
	return out
}

func (p *Parser) parseOneStructureDesc() *ast.StructureDesc {
	start := p.curPos()
	if p.cur().Type != token.IDENT || p.cur().Lexeme == "." {
		return nil
	}
	id, _ := p.curVidId()
	if !p.expectPeek(token.COLON) {
		return nil
	}
	p.nextToken()
	sig := p.parseSigExp()
	if sig == nil {
		return nil
	}
	return &ast.StructureDesc{Id: id, Sig: sig, Pos: loc.Span(start, sig.GetLoc())}
}

// parseIncludeUnsupported and parseSharingUnsupported recognize their
// keywords and skip to the next specification boundary without
// elaborating: `include` would require copying another signature's specs
// wholesale, and `sharing type` would require unifying generative type
// names across structures, neither of which this checker implements.
func (p *Parser) parseIncludeUnsupported() ast.Spec {
	start := p.curPos()
	p.skipToSpecBoundary()
	end := loc.Span(start, p.curPos())
	p.errUnsupported(end, "include")
	return ast.NewUnsupportedSpec(end, "include")
}

func (p *Parser) parseSharingUnsupported() ast.Spec {
	start := p.curPos()
	p.skipToSpecBoundary()
	end := loc.Span(start, p.curPos())
	p.errUnsupported(end, "sharing")
	return ast.NewUnsupportedSpec(end, "sharing")
}

func (p *Parser) skipToSpecBoundary() {
	for !p.curTokenIs(token.EOF) {
		switch p.peekVal().Type {
		case token.SEMI, token.END, token.VAL, token.TYPE, token.DATATYPE,
			token.EXCEPTION, token.STRUCTURE, token.INCLUDE, token.SHARING, token.EOF:
			return
		}
		p.nextToken()
	}
}

// --- structure-level declarations ---

func (p *Parser) startsStrDec(t token.Token) bool {
	if p.startsDec(t) {
		return true
	}
	switch t.Type {
	case token.STRUCTURE, token.LOCAL, token.OPEN:
		return true
	default:
		return false
	}
}

// parseStrDecList parses a run of structure-level declarations, stopping
// at EOF or any of the given stop token types (checked on curTok, so
// callers that need to stop at "in"/"end" pass those directly).
func (p *Parser) parseStrDecList(stops ...token.TokenType) []ast.StrDec {
	var decs []ast.StrDec
	for {
		if p.curTokenIs(token.EOF) {
			break
		}
		stopped := false
		for _, s := range stops {
			if p.curTokenIs(s) {
				stopped = true
				break
			}
		}
		if stopped {
			break
		}
		if p.curTokenIs(token.SEMI) {
			p.nextToken()
			continue
		}
		if !p.startsStrDec(p.cur()) {
			break
		}
		d := p.parseStrDec()
		if d == nil {
			break
		}
		decs = append(decs, d)
		if p.peekTokenIs(token.SEMI) {
			p.nextToken()
		}
		p.nextToken()
	}
	return decs
}

func collapseStrDecs(decs []ast.StrDec, start, end loc.Loc) ast.StrDec {
	switch len(decs) {
	case 0:
		return &ast.EmptyStrDec{Pos: loc.Span(start, end)}
	case 1:
		return decs[0]
	default:
		return &ast.SeqStrDec{Decs: decs, Pos: loc.Span(start, end)}
	}
}

func (p *Parser) parseStrDecSeq(stops ...token.TokenType) ast.StrDec {
	start := p.curPos()
	decs := p.parseStrDecList(stops...)
	return collapseStrDecs(decs, start, p.lastLoc)
}

func (p *Parser) parseStrDec() ast.StrDec {
	switch p.cur().Type {
	case token.STRUCTURE:
		return p.parseStructureDec()
	case token.LOCAL:
		return p.parseLocalStrDec()
	case token.OPEN:
		return p.parseOpenStrDec()
	default:
		if p.startsDec(p.cur()) {
			start := p.curPos()
			d := p.parseOneDec()
			if d == nil {
				return nil
			}
			return &ast.CoreDecStrDec{Dec: d, Pos: loc.Span(start, d.GetLoc())}
		}
		p.errExpectedButFound(p.curPos(), "declaration", describeTok(p.cur()))
		return nil
	}
}

func (p *Parser) parseStructureDec() ast.StrDec {
	start := p.curPos()
	p.nextToken() // move onto the first strid
	var binds []ast.StrBind
	for {
		b := p.parseStrBind()
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
	return &ast.StructureDec{Binds: binds, Pos: loc.Span(start, p.lastLoc)}
}

func (p *Parser) parseStrBind() *ast.StrBind {
	start := p.curPos()
	if p.cur().Type != token.IDENT || p.cur().Lexeme == "." {
		return nil
	}
	id, _ := p.curVidId()
	ascribed := false
	if p.peekTokenIs(token.COLON) || p.peekTokenIs(token.COLONGT) {
		ascribed = true
		p.nextToken() // move onto ":" or ":>"
		p.nextToken() // move onto the sigexp
		p.parseSigExp()
	}
	if !p.expectPeek(token.EQUALS) {
		return nil
	}
	p.nextToken()
	exp := p.parseStrExp()
	if exp == nil {
		return nil
	}
	if ascribed {
		p.errUnsupported(exp.GetLoc(), "signature ascription")
		exp = ast.NewUnsupportedStrExp(exp.GetLoc(), "signature ascription")
	}
	return &ast.StrBind{Id: id, Exp: exp, Pos: loc.Span(start, exp.GetLoc())}
}

func (p *Parser) parseLocalStrDec() ast.StrDec {
	start := p.curPos()
	saved := p.snapshotOps()
	p.nextToken() // move onto dec1
	d1 := p.parseStrDecSeq(token.IN)
	if !p.curTokenIs(token.IN) {
		p.errExpectedButFound(p.curPos(), string(token.IN), describeTok(p.cur()))
		p.restoreOps(saved)
		return nil
	}
	p.nextToken()
	d2 := p.parseStrDecSeq(token.END)
	if !p.curTokenIs(token.END) {
		p.errExpectedButFound(p.curPos(), string(token.END), describeTok(p.cur()))
		p.restoreOps(saved)
		return nil
	}
	p.restoreOps(saved)
	if d1 == nil || d2 == nil {
		return nil
	}
	return &ast.LocalStrDec{Dec1: d1, Dec2: d2, Pos: loc.Span(start, p.curPos())}
}

func (p *Parser) parseOpenStrDec() ast.StrDec {
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
	return &ast.OpenStrDec{Ids: ids, Pos: loc.Span(start, p.lastLoc)}
}

// --- structure expressions ---

func (p *Parser) parseStrExp() ast.StrExp {
	switch p.cur().Type {
	case token.STRUCT:
		return p.parseStructExp()
	case token.LET:
		return p.parseLetStrExp()
	case token.IDENT:
		if p.cur().Lexeme == "." {
			p.errExpectedButFound(p.curPos(), "structure expression", describeTok(p.cur()))
			return nil
		}
		start := p.curPos()
		id := p.parseLongId()
		if p.peekTokenIs(token.LPAREN) {
			return p.skipFunctorApplication(start)
		}
		return &ast.StrIdExp{Id: id, Pos: loc.Span(start, id.Pos)}
	default:
		p.errExpectedButFound(p.curPos(), "structure expression", describeTok(p.cur()))
		return nil
	}
}

// skipFunctorApplication consumes `( strexp )` or `( strdec )` following a
// functor identifier without elaborating it, balancing parens so nested
// structure/let expressions inside the argument don't confuse recovery.
func (p *Parser) skipFunctorApplication(start loc.Loc) ast.StrExp {
	p.nextToken() // move onto "("
	depth := 1
	p.nextToken()
	for depth > 0 && !p.curTokenIs(token.EOF) {
		switch p.cur().Type {
		case token.LPAREN:
			depth++
		case token.RPAREN:
			depth--
		}
		if depth == 0 {
			break
		}
		p.nextToken()
	}
	end := p.curPos()
	p.errUnsupported(loc.Span(start, end), "functor application")
	return ast.NewUnsupportedStrExp(loc.Span(start, end), "functor application")
}

func (p *Parser) parseStructExp() ast.StrExp {
	start := p.curPos()
	saved := p.snapshotOps()
	p.nextToken() // move past "struct"
	body := p.parseStrDecList(token.END)
	if !p.curTokenIs(token.END) {
		p.errExpectedButFound(p.curPos(), string(token.END), describeTok(p.cur()))
		p.restoreOps(saved)
		return nil
	}
	p.restoreOps(saved)
	return &ast.StructExp{Body: body, Pos: loc.Span(start, p.curPos())}
}

func (p *Parser) parseLetStrExp() ast.StrExp {
	start := p.curPos()
	saved := p.snapshotOps()
	p.nextToken() // move onto dec
	dec := p.parseStrDecSeq(token.IN)
	if !p.curTokenIs(token.IN) {
		p.errExpectedButFound(p.curPos(), string(token.IN), describeTok(p.cur()))
		p.restoreOps(saved)
		return nil
	}
	p.nextToken()
	body := p.parseStrExp()
	if !p.expectPeek(token.END) {
		p.restoreOps(saved)
		return nil
	}
	p.restoreOps(saved)
	if dec == nil || body == nil {
		return nil
	}
	return &ast.LetStrExp{Dec: dec, Body: body, Pos: loc.Span(start, p.curPos())}
}
