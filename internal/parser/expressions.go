package parser

import (
	"github.com/funvibe/smlfront/internal/ast"
	"github.com/funvibe/smlfront/internal/diagnostics"
	"github.com/funvibe/smlfront/internal/loc"
	"github.com/funvibe/smlfront/internal/strtab"
	"github.com/funvibe/smlfront/internal/token"
)

// parseExp parses a full expression. if/case/fn/raise/while are distinct
// top-level productions in the Definition's grammar, not atomic
// expressions: they may only occur as the whole of an exp, never as a bare
// application argument (parenthesize to use one there).
func (p *Parser) parseExp() ast.Exp {
	exit, tooDeep := p.enterRecursion()
	defer exit()
	if tooDeep {
		p.errUnsupported(p.curPos(), "expression nested too deeply")
		return nil
	}
	switch p.cur().Type {
	case token.IF:
		return p.parseIfExp()
	case token.CASE:
		return p.parseCaseExp()
	case token.FN:
		return p.parseFnExp()
	case token.RAISE:
		return p.parseRaiseExp()
	case token.WHILE:
		return p.parseWhileUnsupported()
	default:
		return p.parseHandleExp()
	}
}

func (p *Parser) parseHandleExp() ast.Exp {
	e := p.parseTypedExp()
	if e == nil {
		return nil
	}
	for p.peekTokenIs(token.HANDLE) {
		start := e.GetLoc()
		p.nextToken() // move onto "handle"
		p.nextToken() // move onto the first pattern of the match
		rules := p.parseMatch()
		e = &ast.HandleExp{Exp: e, Rules: rules, Pos: loc.Span(start, p.lastLoc)}
	}
	return e
}

func (p *Parser) parseTypedExp() ast.Exp {
	e := p.parseOrElseExp()
	if e == nil {
		return nil
	}
	if p.peekTokenIs(token.COLON) {
		p.nextToken()
		p.nextToken()
		ty := p.parseType()
		if ty != nil {
			e = &ast.TypedExp{Exp: e, Ty: ty, Pos: loc.Span(e.GetLoc(), ty.GetLoc())}
		}
	}
	return e
}

func (p *Parser) parseOrElseExp() ast.Exp {
	left := p.parseAndAlsoExp()
	for left != nil && p.peekTokenIs(token.ORELSE) {
		p.nextToken()
		p.nextToken()
		right := p.parseAndAlsoExp()
		if right == nil {
			return left
		}
		left = &ast.OrelseExp{L: left, R: right, Pos: loc.Span(left.GetLoc(), right.GetLoc())}
	}
	return left
}

func (p *Parser) parseAndAlsoExp() ast.Exp {
	left := p.parseInfixExp(0)
	for left != nil && p.peekTokenIs(token.ANDALSO) {
		p.nextToken()
		p.nextToken()
		right := p.parseInfixExp(0)
		if right == nil {
			return left
		}
		left = &ast.AndalsoExp{L: left, R: right, Pos: loc.Span(left.GetLoc(), right.GetLoc())}
	}
	return left
}

// parseInfixExp climbs the fixity table, desugaring `e1 vid e2` to
// AppExp{Fun: vid, Arg: {1: e1, 2: e2}} per Appendix A.
func (p *Parser) parseInfixExp(minPrec int) ast.Exp {
	left := p.parseAppExp()
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
		right := p.parseInfixExp(nextMin)
		if right == nil {
			return left
		}
		if nid, ninfo, ok2 := p.peekInfixOp(); ok2 && ninfo.Prec == info.Prec && ninfo.Assoc != info.Assoc {
			p.addError(diagnostics.NewParserError(p.peekPos(), diagnostics.ErrSameFixityDiffAssoc, p.name(id), p.name(nid)))
		}
		left = &ast.AppExp{
			Fun: &ast.VidExp{Id: ast.LongId{Id: id, Pos: opPos}, Pos: opPos},
			Arg: &ast.RecordExp{Fields: []ast.ExpRow{
				{Label: p.label(1), Exp: left, Pos: opPos},
				{Label: p.label(2), Exp: right, Pos: opPos},
			}, Pos: opPos},
			Pos: loc.Span(left.GetLoc(), right.GetLoc()),
		}
	}
	return left
}

// parseAppExp parses a chain of atomic expressions as left-associative
// application, stopping before an identifier currently holding infix
// status (that belongs to parseInfixExp instead).
func (p *Parser) parseAppExp() ast.Exp {
	left := p.parseAtomicExp()
	if left == nil {
		return nil
	}
	for p.startsAtomicExp(p.peekVal()) && !p.peekIsCurrentInfix() {
		p.nextToken()
		arg := p.parseAtomicExp()
		if arg == nil {
			return left
		}
		left = &ast.AppExp{Fun: left, Arg: arg, Pos: loc.Span(left.GetLoc(), arg.GetLoc())}
	}
	return left
}

func (p *Parser) startsAtomicExp(t token.Token) bool {
	switch t.Type {
	case token.INT, token.WORD, token.REAL, token.STRING, token.CHAR,
		token.OP, token.LPAREN, token.LBRACKET, token.LBRACE, token.LET, token.HASH:
		return true
	case token.IDENT:
		return t.Lexeme != "."
	default:
		return false
	}
}

func (p *Parser) parseAtomicExp() ast.Exp {
	switch p.cur().Type {
	case token.INT:
		return &ast.SConExp{Kind: ast.SConInt, Lit: p.cur().Lit, Pos: p.curPos()}
	case token.WORD:
		return &ast.SConExp{Kind: ast.SConWord, Lit: p.cur().Lit, Pos: p.curPos()}
	case token.REAL:
		return &ast.SConExp{Kind: ast.SConReal, Lit: p.cur().Lit, Pos: p.curPos()}
	case token.STRING:
		return &ast.SConExp{Kind: ast.SConString, Lit: p.cur().Lit, Pos: p.curPos()}
	case token.CHAR:
		return &ast.SConExp{Kind: ast.SConChar, Lit: p.cur().Lit, Pos: p.curPos()}
	case token.OP:
		return p.parseVidExpOp()
	case token.IDENT:
		if p.cur().Lexeme == "." {
			p.errExpectedButFound(p.curPos(), "expression", describeTok(p.cur()))
			return nil
		}
		return p.parseVidExpNoOp()
	case token.EQUALS:
		return p.parseVidExpNoOp()
	case token.HASH:
		return p.parseSelectorUnsupported()
	case token.LBRACE:
		return p.parseRecordExp()
	case token.LPAREN:
		return p.parseParenExp()
	case token.LBRACKET:
		return p.parseListExp()
	case token.LET:
		return p.parseLetExp()
	default:
		p.errExpectedButFound(p.curPos(), "expression", describeTok(p.cur()))
		return nil
	}
}

func (p *Parser) parseVidExpNoOp() ast.Exp {
	start := p.curPos()
	if p.cur().Type == token.EQUALS {
		return &ast.VidExp{Id: ast.LongId{Id: strtab.Eq, Pos: start}, Pos: start}
	}
	id := p.parseLongId()
	if _, ok := p.ops[id.Id]; ok && !id.Qualified() {
		p.addError(diagnostics.NewParserError(start, diagnostics.ErrInfixWithoutOp, p.name(id.Id)))
	}
	return &ast.VidExp{Id: id, Pos: loc.Span(start, id.Pos)}
}

func (p *Parser) parseVidExpOp() ast.Exp {
	start := p.curPos()
	p.nextToken() // move past "op" to the vid
	if p.cur().Type == token.EQUALS {
		return &ast.VidExp{Op: true, Id: ast.LongId{Id: strtab.Eq, Pos: p.curPos()}, Pos: loc.Span(start, p.curPos())}
	}
	id := p.parseLongId()
	return &ast.VidExp{Op: true, Id: id, Pos: loc.Span(start, id.Pos)}
}

// parseSelectorUnsupported recognizes `#lab` record selectors syntactically
// and reports them as an unsupported expression form; #lab applied to a
// first-class anonymous function is out of scope of this front end.
func (p *Parser) parseSelectorUnsupported() ast.Exp {
	start := p.curPos()
	p.nextToken() // move past "#" to the label
	_, labelPos := p.parseLabel()
	p.errUnsupported(loc.Span(start, labelPos), "record selector")
	return ast.NewUnsupportedExp(loc.Span(start, labelPos), "record selector")
}

func (p *Parser) parseWhileUnsupported() ast.Exp {
	start := p.curPos()
	p.errUnsupported(start, "while loop")
	// Skip tokens through the matching "do"-body to recover a usable cursor
	// position; the checker never sees the skipped sub-expressions.
	depth := 0
	for !p.curTokenIs(token.EOF) {
		switch p.cur().Type {
		case token.WHILE, token.IF, token.CASE, token.LET:
			depth++
		case token.END:
			depth--
		case token.DO:
			if depth <= 1 {
				p.nextToken()
				_ = p.parseExp()
				return ast.NewUnsupportedExp(loc.Span(start, p.lastLoc), "while loop")
			}
		}
		p.nextToken()
	}
	return ast.NewUnsupportedExp(loc.Span(start, p.lastLoc), "while loop")
}

func (p *Parser) parseRecordExp() ast.Exp {
	start := p.curPos()
	p.nextToken() // move past "{" to first label or "}"
	var fields []ast.ExpRow
	if p.curTokenIs(token.RBRACE) {
		return &ast.RecordExp{Fields: fields, Pos: loc.Span(start, p.curPos())}
	}
	for {
		label, labelPos := p.parseLabel()
		if !p.expectPeek(token.EQUALS) {
			return nil
		}
		p.nextToken()
		e := p.parseExp()
		if e == nil {
			return nil
		}
		fields = append(fields, ast.ExpRow{Label: label, Exp: e, Pos: loc.Span(labelPos, e.GetLoc())})
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
	return &ast.RecordExp{Fields: fields, Pos: loc.Span(start, p.curPos())}
}

// parseParenExp parses `()`, `(exp)`, the tuple sugar `(e1, ..., en)`, and
// the sequencing form `(e1; e2; ...; en)`.
func (p *Parser) parseParenExp() ast.Exp {
	start := p.curPos()
	p.nextToken() // move past "(" to first token inside or ")"
	if p.curTokenIs(token.RPAREN) {
		return &ast.RecordExp{Fields: nil, Pos: loc.Span(start, p.curPos())}
	}
	first := p.parseExp()
	if first == nil {
		return nil
	}
	if p.peekTokenIs(token.COMMA) {
		fields := []ast.ExpRow{{Label: p.label(1), Exp: first, Pos: first.GetLoc()}}
		n := 2
		for p.peekTokenIs(token.COMMA) {
			p.nextToken()
			p.nextToken()
			e := p.parseExp()
			if e == nil {
				break
			}
			fields = append(fields, ast.ExpRow{Label: p.label(n), Exp: e, Pos: e.GetLoc()})
			n++
		}
		if !p.expectPeek(token.RPAREN) {
			return nil
		}
		return &ast.RecordExp{Fields: fields, Pos: loc.Span(start, p.curPos())}
	}
	if p.peekTokenIs(token.SEMI) {
		exps := []ast.Exp{first}
		for p.peekTokenIs(token.SEMI) {
			p.nextToken()
			p.nextToken()
			e := p.parseExp()
			if e == nil {
				break
			}
			exps = append(exps, e)
		}
		if !p.expectPeek(token.RPAREN) {
			return nil
		}
		return &ast.SeqExp{Exps: exps, Pos: loc.Span(start, p.curPos())}
	}
	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	return first
}

// parseListExp desugars `[e1, ..., en]` to a right-nested `::` application
// chain ending in `nil`.
func (p *Parser) parseListExp() ast.Exp {
	start := p.curPos()
	p.nextToken() // move past "[" to first expression or "]"
	var elems []ast.Exp
	if !p.curTokenIs(token.RBRACKET) {
		for {
			e := p.parseExp()
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
	var result ast.Exp = &ast.VidExp{Id: ast.LongId{Id: strtab.Nil, Pos: end}, Pos: end}
	for i := len(elems) - 1; i >= 0; i-- {
		consPos := elems[i].GetLoc()
		result = &ast.AppExp{
			Fun: &ast.VidExp{Id: ast.LongId{Id: strtab.Cons, Pos: consPos}, Pos: consPos},
			Arg: &ast.RecordExp{Fields: []ast.ExpRow{
				{Label: p.label(1), Exp: elems[i], Pos: consPos},
				{Label: p.label(2), Exp: result, Pos: result.GetLoc()},
			}, Pos: consPos},
			Pos: loc.Span(start, end),
		}
	}
	return result
}

// parseExpSeq parses a `;`-separated expression sequence inside a context
// (let-body) that does not itself use parentheses to delimit it.
func (p *Parser) parseExpSeq() ast.Exp {
	start := p.curPos()
	first := p.parseExp()
	if first == nil {
		return nil
	}
	if !p.peekTokenIs(token.SEMI) {
		return first
	}
	exps := []ast.Exp{first}
	for p.peekTokenIs(token.SEMI) {
		p.nextToken()
		p.nextToken()
		e := p.parseExp()
		if e == nil {
			break
		}
		exps = append(exps, e)
	}
	return &ast.SeqExp{Exps: exps, Pos: loc.Span(start, p.lastLoc)}
}

func (p *Parser) parseLetExp() ast.Exp {
	start := p.curPos()
	saved := p.snapshotOps()
	p.nextToken() // move past "let" to the first declaration token
	dec := p.parseDecSeq(token.IN)
	if !p.curTokenIs(token.IN) {
		p.errExpectedButFound(p.curPos(), string(token.IN), describeTok(p.cur()))
		p.restoreOps(saved)
		return nil
	}
	p.nextToken()
	body := p.parseExpSeq()
	if !p.expectPeek(token.END) {
		p.restoreOps(saved)
		return nil
	}
	p.restoreOps(saved)
	if dec == nil || body == nil {
		return nil
	}
	return &ast.LetExp{Dec: dec, Body: body, Pos: loc.Span(start, p.curPos())}
}

func (p *Parser) parseIfExp() ast.Exp {
	start := p.curPos()
	p.nextToken() // move onto the condition
	cond := p.parseExp()
	if !p.expectPeek(token.THEN) {
		return nil
	}
	p.nextToken()
	thenE := p.parseExp()
	if !p.expectPeek(token.ELSE) {
		return nil
	}
	p.nextToken()
	elseE := p.parseExp()
	if cond == nil || thenE == nil || elseE == nil {
		return nil
	}
	return &ast.IfExp{Cond: cond, Then: thenE, Else: elseE, Pos: loc.Span(start, elseE.GetLoc())}
}

func (p *Parser) parseCaseExp() ast.Exp {
	start := p.curPos()
	p.nextToken() // move onto the scrutinee
	e := p.parseExp()
	if e == nil {
		return nil
	}
	if !p.expectPeek(token.OF) {
		return nil
	}
	p.nextToken()
	rules := p.parseMatch()
	return &ast.CaseExp{Exp: e, Rules: rules, Pos: loc.Span(start, p.lastLoc)}
}

func (p *Parser) parseFnExp() ast.Exp {
	start := p.curPos()
	p.nextToken() // move onto the first pattern of the match
	rules := p.parseMatch()
	return &ast.FnExp{Rules: rules, Pos: loc.Span(start, p.lastLoc)}
}

func (p *Parser) parseRaiseExp() ast.Exp {
	start := p.curPos()
	p.nextToken() // move onto the exception value
	e := p.parseExp()
	if e == nil {
		return nil
	}
	return &ast.RaiseExp{Exp: e, Pos: loc.Span(start, e.GetLoc())}
}

// parseMatch parses `pat1 => exp1 | pat2 => exp2 | ...`, curTok already
// positioned at the first pattern.
func (p *Parser) parseMatch() []ast.MatchRule {
	var rules []ast.MatchRule
	for {
		pat := p.parsePat()
		if pat == nil {
			break
		}
		if !p.expectPeek(token.DARROW) {
			break
		}
		p.nextToken()
		e := p.parseExp()
		if e == nil {
			break
		}
		rules = append(rules, ast.MatchRule{Pat: pat, Exp: e, Pos: loc.Span(pat.GetLoc(), e.GetLoc())})
		if p.peekTokenIs(token.BAR) {
			p.nextToken()
			p.nextToken()
			continue
		}
		break
	}
	return rules
}
