package checker

import (
	"github.com/funvibe/smlfront/internal/ast"
	"github.com/funvibe/smlfront/internal/diagnostics"
	"github.com/funvibe/smlfront/internal/loc"
	"github.com/funvibe/smlfront/internal/statics"
	"github.com/funvibe/smlfront/internal/typesystem"
)

// ckExp elaborates an expression against cx, returning its type. Errors are
// recorded on c and a fresh unconstrained variable is returned in their
// place so elaboration of the surrounding context can continue.
func (c *Checker) ckExp(cx statics.Cx, exp ast.Exp) typesystem.Ty {
	switch e := exp.(type) {
	case *ast.SConExp:
		return c.sconTy(e.Kind)

	case *ast.VidExp:
		return c.ckVidExp(cx, e)

	case *ast.RecordExp:
		fields := make(map[string]typesystem.Ty, len(e.Fields))
		seen := map[string]bool{}
		for _, row := range e.Fields {
			label := c.name(row.Label)
			if seen[label] {
				c.addError(diagnostics.NewCheckerError(row.Pos, diagnostics.ErrDuplicateLabel, label))
				continue
			}
			seen[label] = true
			fields[label] = c.ckExp(cx, row.Exp)
		}
		return &typesystem.Record{Fields: fields}

	case *ast.AppExp:
		funTy := c.ckExp(cx, e.Fun)
		argTy := c.ckExp(cx, e.Arg)
		ranTv := c.State.FreshTyVar()
		if !c.unify(e.Pos, funTy, &typesystem.Arrow{Dom: argTy, Ran: ranTv}) {
			return c.errTy()
		}
		return ranTv

	case *ast.TypedExp:
		ty := c.ckExp(cx, e.Exp)
		annot := c.ckTy(cx, e.Ty)
		c.unify(e.Pos, ty, annot)
		return annot

	case *ast.AndalsoExp:
		bo := c.State.Syms.BoolTy()
		c.unify(e.Pos, c.ckExp(cx, e.L), bo)
		c.unify(e.Pos, c.ckExp(cx, e.R), bo)
		return bo

	case *ast.OrelseExp:
		bo := c.State.Syms.BoolTy()
		c.unify(e.Pos, c.ckExp(cx, e.L), bo)
		c.unify(e.Pos, c.ckExp(cx, e.R), bo)
		return bo

	case *ast.HandleExp:
		bodyTy := c.ckExp(cx, e.Exp)
		exnTy := c.State.Syms.ExnTy()
		resultTys := make([]typesystem.Ty, 0, len(e.Rules))
		pats := make([]ast.Pat, 0, len(e.Rules))
		for _, rule := range e.Rules {
			patTy, bound, _ := c.ckPat(cx, rule.Pat)
			c.unify(rule.Pos, patTy, exnTy)
			ruleCx := cx.WithEnv(statics.Extend(cx.Env, statics.Env{Val: bound, Ty: statics.TyEnv{}, Str: statics.StrEnv{}}))
			resultTys = append(resultTys, c.ckExp(ruleCx, rule.Exp))
			pats = append(pats, rule.Pat)
		}
		c.checkExhaustive(cx, e.Pos, pats, false)
		for _, rt := range resultTys {
			c.unify(e.Pos, bodyTy, rt)
		}
		return bodyTy

	case *ast.RaiseExp:
		c.unify(e.Pos, c.ckExp(cx, e.Exp), c.State.Syms.ExnTy())
		return c.State.FreshTyVar()

	case *ast.IfExp:
		c.unify(e.Pos, c.ckExp(cx, e.Cond), c.State.Syms.BoolTy())
		thenTy := c.ckExp(cx, e.Then)
		elseTy := c.ckExp(cx, e.Else)
		c.unify(e.Pos, thenTy, elseTy)
		return thenTy

	case *ast.CaseExp:
		scrutTy := c.ckExp(cx, e.Exp)
		return c.ckMatch(cx, e.Pos, scrutTy, e.Rules, true)

	case *ast.FnExp:
		argTv := c.State.FreshTyVar()
		ranTy := c.ckMatch(cx, e.Pos, argTv, e.Rules, true)
		return &typesystem.Arrow{Dom: argTv, Ran: ranTy}

	case *ast.LetExp:
		letCx, newNames, ok := c.ckLetDec(cx, e.Dec)
		if !ok {
			return c.errTy()
		}
		bodyTy := c.ckExp(letCx, e.Body)
		if c.tyNamesEscape(bodyTy, newNames) {
			c.addError(diagnostics.NewCheckerError(e.Pos, diagnostics.ErrTyNameEscape, bodyTy.String()))
		}
		return bodyTy

	case *ast.SeqExp:
		var last typesystem.Ty = c.errTy()
		for _, sub := range e.Exps {
			last = c.ckExp(cx, sub)
		}
		return last

	case *ast.UnsupportedExp:
		c.addError(diagnostics.NewCheckerError(e.Pos, diagnostics.ErrCheckerUnsupported, e.Feature))
		return c.errTy()

	default:
		return c.errTy()
	}
}

// ckVidExp resolves a value/constructor reference, instantiating its
// scheme and propagating any overload constraint onto the fresh variable.
func (c *Checker) ckVidExp(cx statics.Cx, e *ast.VidExp) typesystem.Ty {
	vi, ok := c.resolveVal(cx.Env, e.Id)
	if !ok {
		c.addError(diagnostics.NewCheckerError(e.Pos, diagnostics.ErrUndefined, c.longName(e.Id)))
		return c.errTy()
	}
	return c.instantiate(vi)
}

// ckMatch elaborates a `fn`/`case` match: every rule's pattern against
// scrutTy, every rule's body unified together, plus exhaustiveness/
// unreachability diagnostics.
func (c *Checker) ckMatch(cx statics.Cx, pos loc.Loc, scrutTy typesystem.Ty, rules []ast.MatchRule, requireExhaustive bool) typesystem.Ty {
	resultTv := c.State.FreshTyVar()
	pats := make([]ast.Pat, 0, len(rules))
	for _, rule := range rules {
		patTy, bound, _ := c.ckPat(cx, rule.Pat)
		c.unify(rule.Pos, scrutTy, patTy)
		ruleCx := cx.WithEnv(statics.Extend(cx.Env, statics.Env{Val: bound, Ty: statics.TyEnv{}, Str: statics.StrEnv{}}))
		bodyTy := c.ckExp(ruleCx, rule.Exp)
		c.unify(rule.Pos, resultTv, bodyTy)
		pats = append(pats, rule.Pat)
	}
	c.checkExhaustive(cx, pos, pats, requireExhaustive)
	return resultTv
}
