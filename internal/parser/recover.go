package parser

import (
	"github.com/funvibe/smlfront/internal/loc"
	"github.com/funvibe/smlfront/internal/token"
)

// checkpoint captures enough of the cursor to backtrack a failed
// speculative parse (used for the fun-clause parenthesized-infix-head
// lookahead, the only construct in this grammar that needs it).
type checkpoint struct {
	pos     int
	curTok  loc.Located[token.Token]
	peekTok loc.Located[token.Token]
	lastLoc loc.Loc
}

func (p *Parser) save() checkpoint {
	return checkpoint{pos: p.pos, curTok: p.curTok, peekTok: p.peekTok, lastLoc: p.lastLoc}
}

func (p *Parser) restore(c checkpoint) {
	p.pos, p.curTok, p.peekTok, p.lastLoc = c.pos, c.curTok, c.peekTok, c.lastLoc
}

// peek2Val looks two tokens ahead of curTok without moving the cursor.
func (p *Parser) peek2Val() token.Token {
	return p.getAt(p.pos + 2).Val
}

// speculative runs fn with diagnostics (and failure state) redirected to a
// scratch slice. If fn reports success the scratch diagnostics are kept and
// the cursor stays where fn left it; otherwise the cursor is rewound and the
// diagnostics are discarded, as if the attempt never happened. This is the
// one place in the parser that backtracks past consumed tokens, since the
// paren-infix-head form of a fun clause shares a prefix with the ordinary
// prefix form.
func (p *Parser) speculative(fn func() bool) bool {
	cp := p.save()
	savedErrs, savedSet, savedFailed := p.errs, p.errSet, p.failed
	p.errs = nil
	p.errSet = map[string]bool{}
	p.failed = false
	ok := fn()
	scratchErrs := p.errs
	p.errs, p.errSet, p.failed = savedErrs, savedSet, savedFailed
	if ok {
		for _, e := range scratchErrs {
			p.addError(e)
		}
	} else {
		p.restore(cp)
	}
	return ok
}

func (p *Parser) startsDec(t token.Token) bool {
	switch t.Type {
	case token.VAL, token.FUN, token.TYPE, token.DATATYPE, token.EXCEPTION,
		token.LOCAL, token.OPEN, token.INFIX, token.INFIXR, token.NONFIX,
		token.ABSTYPE:
		return true
	default:
		return false
	}
}
