package checker

import (
	"fmt"

	"github.com/funvibe/smlfront/internal/ast"
	"github.com/funvibe/smlfront/internal/diagnostics"
	"github.com/funvibe/smlfront/internal/exhaustive"
	"github.com/funvibe/smlfront/internal/statics"
	"github.com/funvibe/smlfront/internal/typesystem"
)

// ckPat elaborates a pattern against cx, returning its type, the value
// environment of variables it binds, and whether elaboration succeeded
// without error. Constructor/exception identifiers are resolved against
// cx.Env by IdStatus, not by any syntactic marker — the same VidPat shape
// covers both a fresh variable binding and a nullary constructor
// reference, exactly as the Definition's ck_pat does.
func (c *Checker) ckPat(cx statics.Cx, pat ast.Pat) (typesystem.Ty, statics.ValEnv, bool) {
	switch p := pat.(type) {
	case *ast.WildcardPat:
		return c.State.FreshTyVar(), statics.ValEnv{}, true

	case *ast.SConPat:
		if p.Kind == ast.SConReal {
			c.addError(diagnostics.NewCheckerError(p.Pos, diagnostics.ErrRealPat))
			return c.errTy(), statics.ValEnv{}, false
		}
		return c.sconTy(p.Kind), statics.ValEnv{}, true

	case *ast.VidPat:
		return c.ckVidPat(cx, p)

	case *ast.RecordPat:
		return c.ckRecordPat(cx, p)

	case *ast.ConPat:
		return c.ckConPat(cx, p)

	case *ast.TypedPat:
		ty, bound, ok := c.ckPat(cx, p.Pat)
		annot := c.ckTy(cx, p.Ty)
		if !c.unify(p.Pos, ty, annot) {
			ok = false
		}
		return annot, bound, ok

	case *ast.LayeredPat:
		return c.ckLayeredPat(cx, p)

	case *ast.UnsupportedPat:
		c.addError(diagnostics.NewCheckerError(p.Pos, diagnostics.ErrCheckerUnsupported, p.Feature))
		return c.errTy(), statics.ValEnv{}, false

	default:
		return c.errTy(), statics.ValEnv{}, false
	}
}

// ckVidPat resolves a bare or qualified identifier pattern. A qualified
// reference must already denote a constructor or exception; an
// unqualified reference that happens to be bound with Ctor/Exn status in
// the environment is a constructor reference (e.g. `true`, `nil`),
// otherwise it introduces a fresh variable binding.
func (c *Checker) ckVidPat(cx statics.Cx, p *ast.VidPat) (typesystem.Ty, statics.ValEnv, bool) {
	if p.Id.Qualified() {
		vi, ok := c.resolveVal(cx.Env, p.Id)
		if !ok {
			c.addError(diagnostics.NewCheckerError(p.Pos, diagnostics.ErrUndefined, c.longName(p.Id)))
			return c.errTy(), statics.ValEnv{}, false
		}
		if vi.Status == statics.StatusVal {
			c.addError(diagnostics.NewCheckerError(p.Pos, diagnostics.ErrExnWrongIdStatus, c.longName(p.Id)))
			return c.errTy(), statics.ValEnv{}, false
		}
		return c.instantiate(vi), statics.ValEnv{}, true
	}
	if vi, ok := cx.Env.Val[p.Id.Id]; ok && vi.Status != statics.StatusVal {
		return c.instantiate(vi), statics.ValEnv{}, true
	}
	tv := c.State.FreshTyVar()
	return tv, statics.ValEnv{p.Id.Id: {Status: statics.StatusVal, Scheme: typesystem.Mono(tv)}}, true
}

// ckRecordPat elaborates a (possibly tuple-sugared, possibly flexible)
// record pattern. A flexible pattern's type is a FlexRecord demanding
// exactly the written fields, with Rest standing for whatever the
// eventual concrete record type adds.
func (c *Checker) ckRecordPat(cx statics.Cx, p *ast.RecordPat) (typesystem.Ty, statics.ValEnv, bool) {
	fields := make(map[string]typesystem.Ty, len(p.Fields))
	bound := statics.ValEnv{}
	ok := true
	seen := map[string]bool{}
	for _, row := range p.Fields {
		label := c.name(row.Label)
		if seen[label] {
			c.addError(diagnostics.NewCheckerError(row.Pos, diagnostics.ErrDuplicateLabel, label))
			ok = false
			continue
		}
		seen[label] = true
		ty, rowBound, rok := c.ckPat(cx, row.Pat)
		if !rok {
			ok = false
		}
		fields[label] = ty
		for k, v := range rowBound {
			bound[k] = v
		}
	}
	if p.Flex {
		rest := c.State.FreshTyVar()
		return &typesystem.FlexRecord{Fields: fields, Rest: rest.Id}, bound, ok
	}
	return &typesystem.Record{Fields: fields}, bound, ok
}

// ckConPat elaborates a constructor application pattern, requiring id to
// resolve to a Ctor/Exn-status identifier whose type is a function type.
func (c *Checker) ckConPat(cx statics.Cx, p *ast.ConPat) (typesystem.Ty, statics.ValEnv, bool) {
	vi, found := c.resolveVal(cx.Env, p.Id)
	if !found {
		c.addError(diagnostics.NewCheckerError(p.Pos, diagnostics.ErrUndefined, c.longName(p.Id)))
		_, bound, _ := c.ckPat(cx, p.Arg)
		return c.errTy(), bound, false
	}
	if vi.Status == statics.StatusVal {
		c.addError(diagnostics.NewCheckerError(p.Pos, diagnostics.ErrExnWrongIdStatus, c.longName(p.Id)))
		_, bound, _ := c.ckPat(cx, p.Arg)
		return c.errTy(), bound, false
	}
	ctorTy := c.instantiate(vi)
	arrow, isArrow := ctorTy.(*typesystem.Arrow)
	if !isArrow {
		c.addError(diagnostics.NewCheckerError(p.Pos, diagnostics.ErrPatNotArrow, ctorTy.String()))
		_, bound, _ := c.ckPat(cx, p.Arg)
		return c.errTy(), bound, false
	}
	argTy, bound, ok := c.ckPat(cx, p.Arg)
	if !c.unify(p.Pos, arrow.Dom, argTy) {
		ok = false
	}
	return arrow.Ran, bound, ok
}

// ckLayeredPat elaborates `[op] vid [: ty] as pat`.
func (c *Checker) ckLayeredPat(cx statics.Cx, p *ast.LayeredPat) (typesystem.Ty, statics.ValEnv, bool) {
	inner, bound, ok := c.ckPat(cx, p.Pat)
	ty := inner
	if p.Ty != nil {
		annot := c.ckTy(cx, p.Ty)
		if !c.unify(p.Pos, inner, annot) {
			ok = false
		}
		ty = annot
	}
	if c.forbiddenRebind(p.Id) {
		c.addError(diagnostics.NewCheckerError(p.Pos, diagnostics.ErrForbiddenBinding, c.name(p.Id)))
		ok = false
	}
	out := statics.ValEnv{}
	for k, v := range bound {
		out[k] = v
	}
	out[p.Id] = statics.ValInfo{Status: statics.StatusVal, Scheme: typesystem.Mono(ty)}
	return ty, out, ok
}

// elabPatShape reduces a source pattern to the simplified shape the
// exhaustiveness checker operates over, resolving constructor identifiers
// against cx.Env along the way. It is independent of ckPat's own type
// elaboration (and safe to call even when ckPat reported an error) since
// it only needs the pattern's syntactic constructor/literal/record shape.
func (c *Checker) elabPatShape(cx statics.Cx, pat ast.Pat) exhaustive.Pat {
	switch p := pat.(type) {
	case *ast.WildcardPat:
		return exhaustive.Pat{Kind: exhaustive.Wildcard}

	case *ast.SConPat:
		return exhaustive.Pat{Kind: exhaustive.Literal, Name: sconLiteralKey(p)}

	case *ast.VidPat:
		if !p.Id.Qualified() {
			if vi, ok := cx.Env.Val[p.Id.Id]; ok && vi.Status != statics.StatusVal {
				return exhaustive.Pat{Kind: exhaustive.Ctor, Sym: c.ctorSym(cx.Env, p.Id), Name: c.name(p.Id.Id)}
			}
		} else if vi, ok := c.resolveVal(cx.Env, p.Id); ok && vi.Status != statics.StatusVal {
			return exhaustive.Pat{Kind: exhaustive.Ctor, Sym: c.ctorSym(cx.Env, p.Id), Name: c.name(p.Id.Id)}
		}
		return exhaustive.Pat{Kind: exhaustive.Wildcard}

	case *ast.RecordPat:
		args := make([]exhaustive.Pat, 0, len(p.Fields))
		for _, row := range p.Fields {
			args = append(args, c.elabPatShape(cx, row.Pat))
		}
		return exhaustive.Pat{Kind: exhaustive.Record, Args: args}

	case *ast.ConPat:
		return exhaustive.Pat{
			Kind: exhaustive.Ctor,
			Sym:  c.ctorSym(cx.Env, p.Id),
			Name: c.name(p.Id.Id),
			Args: []exhaustive.Pat{c.elabPatShape(cx, p.Arg)},
		}

	case *ast.TypedPat:
		return c.elabPatShape(cx, p.Pat)

	case *ast.LayeredPat:
		return c.elabPatShape(cx, p.Pat)

	default:
		return exhaustive.Pat{Kind: exhaustive.Wildcard}
	}
}

func sconLiteralKey(p *ast.SConPat) string {
	return fmt.Sprintf("%d:%v", p.Kind, p.Lit)
}
