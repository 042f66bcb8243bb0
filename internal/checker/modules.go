package checker

import (
	"github.com/funvibe/smlfront/internal/ast"
	"github.com/funvibe/smlfront/internal/diagnostics"
	"github.com/funvibe/smlfront/internal/statics"
	"github.com/funvibe/smlfront/internal/strtab"
	"github.com/funvibe/smlfront/internal/typesystem"
)

// ckTopDec elaborates one top-level declaration: a core/structure
// declaration sequence (the overwhelmingly common case) or a signature
// declaration, which only grows the Basis's SigEnv. Functor declarations
// are recognized by the parser but never reach here as anything but an
// UnsupportedTopDec.
func (c *Checker) ckTopDec(basis statics.Basis, td ast.TopDec) (statics.Basis, bool) {
	switch t := td.(type) {
	case *ast.StrDecTopDec:
		cx := statics.ToCx(basis)
		env, ok := c.ckStrDec(cx, basis.SigEnv, t.Dec)
		if !ok {
			return basis, false
		}
		return basis.WithEnv(env), true

	case *ast.SigDecTopDec:
		// Every sigbind in one `signature ... and ...` is elaborated
		// against the Basis as it stood before any of them — siblings do
		// not see each other, matching the Definition's simultaneous (not
		// recursive) signature bindings.
		additions := statics.SigEnv{}
		ok := true
		for _, sb := range t.Binds {
			cx := statics.ToCx(basis)
			sig, sok := c.ckSigExp(cx, basis.SigEnv, sb.Sig)
			if !sok {
				ok = false
				continue
			}
			additions[sb.Id] = sig
		}
		if !ok {
			return basis, false
		}
		newSigEnv := make(statics.SigEnv, len(basis.SigEnv)+len(additions))
		for k, v := range basis.SigEnv {
			newSigEnv[k] = v
		}
		for k, v := range additions {
			newSigEnv[k] = v
		}
		return statics.Basis{Env: basis.Env, SigEnv: newSigEnv, TyNames: basis.TyNames}, true

	case *ast.UnsupportedTopDec:
		c.addError(diagnostics.NewCheckerError(t.Pos, diagnostics.ErrCheckerUnsupported, t.Feature))
		return basis, false

	default:
		return basis, false
	}
}

// ckStrDec elaborates one structure-level declaration. sigEnv is threaded
// through (rather than folded into Cx) since it only changes between top
// declarations, at a SigDecTopDec — never while elaborating one.
func (c *Checker) ckStrDec(cx statics.Cx, sigEnv statics.SigEnv, sd ast.StrDec) (statics.Env, bool) {
	switch d := sd.(type) {
	case *ast.CoreDecStrDec:
		return c.ckDec(cx, d.Dec)

	case *ast.StructureDec:
		out := statics.NewEnv()
		ok := true
		for _, b := range d.Binds {
			e, sok := c.ckStrExp(cx, sigEnv, b.Exp)
			if !sok {
				ok = false
				continue
			}
			out = statics.Extend(out, statics.Env{Val: statics.ValEnv{}, Ty: statics.TyEnv{}, Str: statics.StrEnv{b.Id: e}})
		}
		return out, ok

	case *ast.LocalStrDec:
		env1, ok1 := c.ckStrDec(cx, sigEnv, d.Dec1)
		if !ok1 {
			return statics.NewEnv(), false
		}
		cx2 := cx.WithEnv(statics.Extend(cx.Env, env1))
		return c.ckStrDec(cx2, sigEnv, d.Dec2)

	case *ast.OpenStrDec:
		ok := true
		out := statics.NewEnv()
		for _, id := range d.Ids {
			e, found := c.resolveStrId(cx.Env, id)
			if !found {
				c.addError(diagnostics.NewCheckerError(id.Pos, diagnostics.ErrUndefined, c.longName(id)))
				ok = false
				continue
			}
			out = statics.Extend(out, e)
		}
		return out, ok

	case *ast.SeqStrDec:
		ok := true
		acc := statics.NewEnv()
		curCx := cx
		for _, sub := range d.Decs {
			env, subOk := c.ckStrDec(curCx, sigEnv, sub)
			if !subOk {
				ok = false
			}
			acc = statics.Extend(acc, env)
			curCx = curCx.WithEnv(statics.Extend(curCx.Env, env))
		}
		return acc, ok

	case *ast.EmptyStrDec:
		return statics.NewEnv(), true

	case *ast.UnsupportedStrDec:
		c.addError(diagnostics.NewCheckerError(d.Pos, diagnostics.ErrCheckerUnsupported, d.Feature))
		return statics.NewEnv(), false

	default:
		return statics.NewEnv(), false
	}
}

// ckStrExp elaborates a structure expression to the environment it
// denotes. Signature ascription (`strexp :> sigexp` / `strexp : sigexp`)
// and functor application are recognized by the parser but only ever
// reach here as UnsupportedStrExp.
func (c *Checker) ckStrExp(cx statics.Cx, sigEnv statics.SigEnv, se ast.StrExp) (statics.Env, bool) {
	switch e := se.(type) {
	case *ast.StrIdExp:
		env, ok := c.resolveStrId(cx.Env, e.Id)
		if !ok {
			c.addError(diagnostics.NewCheckerError(e.Pos, diagnostics.ErrUndefined, c.longName(e.Id)))
			return statics.NewEnv(), false
		}
		return env, true

	case *ast.StructExp:
		out := statics.NewEnv()
		ok := true
		curCx := cx
		for _, sub := range e.Body {
			env, subOk := c.ckStrDec(curCx, sigEnv, sub)
			if !subOk {
				ok = false
			}
			out = statics.Extend(out, env)
			curCx = curCx.WithEnv(statics.Extend(curCx.Env, env))
		}
		return out, ok

	case *ast.LetStrExp:
		env1, ok1 := c.ckStrDec(cx, sigEnv, e.Dec)
		if !ok1 {
			return statics.NewEnv(), false
		}
		cx2 := cx.WithEnv(statics.Extend(cx.Env, env1))
		return c.ckStrExp(cx2, sigEnv, e.Body)

	case *ast.UnsupportedStrExp:
		c.addError(diagnostics.NewCheckerError(e.Pos, diagnostics.ErrCheckerUnsupported, e.Feature))
		return statics.NewEnv(), false

	default:
		return statics.NewEnv(), false
	}
}

// ckSigExp elaborates a signature expression to a Sig: the environment it
// describes plus the set of type names generative relative to cx's Basis.
// `where type`-refined signatures are recognized but only reach here as
// UnsupportedSigExp.
func (c *Checker) ckSigExp(cx statics.Cx, sigEnv statics.SigEnv, se ast.SigExp) (statics.Sig, bool) {
	switch s := se.(type) {
	case *ast.SigIdExp:
		sig, ok := sigEnv[s.Id]
		if !ok {
			c.addError(diagnostics.NewCheckerError(s.Pos, diagnostics.ErrUndefined, c.name(s.Id)))
			return statics.Sig{}, false
		}
		return sig, true

	case *ast.SigExpLit:
		env := statics.NewEnv()
		ok := true
		curCx := cx
		for _, spec := range s.Specs {
			specEnv, sok := c.ckSpec(curCx, sigEnv, spec)
			if !sok {
				ok = false
			}
			merged, mErr := statics.MaybeExtend(env, specEnv, spec.GetLoc())
			if mErr != nil {
				c.addError(mErr)
				ok = false
			} else {
				env = merged
			}
			curCx = curCx.WithEnv(statics.Extend(curCx.Env, specEnv))
		}
		newNames := map[typesystem.Sym]bool{}
		for sym := range statics.EnvTyNames(env) {
			if !cx.TyNames[sym] {
				newNames[sym] = true
			}
		}
		return statics.Sig{Env: env, NewTyNames: newNames}, ok

	case *ast.UnsupportedSigExp:
		c.addError(diagnostics.NewCheckerError(s.Pos, diagnostics.ErrCheckerUnsupported, s.Feature))
		return statics.Sig{}, false

	default:
		return statics.Sig{}, false
	}
}

// ckSpec elaborates one specification inside a signature body. `sharing`
// and `include` specifications are recognized but only reach here as
// UnsupportedSpec.
func (c *Checker) ckSpec(cx statics.Cx, sigEnv statics.SigEnv, spec ast.Spec) (statics.Env, bool) {
	switch s := spec.(type) {
	case *ast.ValDesc:
		return c.ckValDesc(cx, s)

	case *ast.TypeDesc:
		return c.ckTypeDesc(s)

	case *ast.DatatypeDesc:
		return c.ckDatatypeDec(cx, &ast.DatatypeDec{Binds: s.Binds, Pos: s.Pos})

	case *ast.ExceptionDesc:
		return c.ckExceptionDesc(cx, s)

	case *ast.StructureDesc:
		sig, ok := c.ckSigExp(cx, sigEnv, s.Sig)
		if !ok {
			return statics.NewEnv(), false
		}
		return statics.Env{Val: statics.ValEnv{}, Ty: statics.TyEnv{}, Str: statics.StrEnv{s.Id: sig.Env}}, true

	case *ast.SeqSpec:
		ok := true
		env := statics.NewEnv()
		curCx := cx
		for _, sub := range s.Specs {
			subEnv, sok := c.ckSpec(curCx, sigEnv, sub)
			if !sok {
				ok = false
			}
			merged, mErr := statics.MaybeExtend(env, subEnv, sub.GetLoc())
			if mErr != nil {
				c.addError(mErr)
				ok = false
			} else {
				env = merged
			}
			curCx = curCx.WithEnv(statics.Extend(curCx.Env, subEnv))
		}
		return env, ok

	case *ast.EmptySpec:
		return statics.NewEnv(), true

	case *ast.UnsupportedSpec:
		c.addError(diagnostics.NewCheckerError(s.Pos, diagnostics.ErrCheckerUnsupported, s.Feature))
		return statics.NewEnv(), false

	default:
		return statics.NewEnv(), false
	}
}

// ckValDesc elaborates `val vid : ty` inside a signature body: every type
// variable written in ty is implicitly universally quantified.
func (c *Checker) ckValDesc(cx statics.Cx, s *ast.ValDesc) (statics.Env, bool) {
	var tvIds []strtab.StrId
	collectTyVars(s.Ty, map[strtab.StrId]bool{}, &tvIds)
	vars := make(map[strtab.StrId]typesystem.TyVarId, len(tvIds))
	schemeVars := make([]typesystem.TyVarId, len(tvIds))
	for i, tv := range tvIds {
		id := c.State.FreshTyVarId()
		vars[tv] = id
		schemeVars[i] = id
	}
	ty := c.ckTy(cx.WithTyVars(vars), s.Ty)
	sch := typesystem.TyScheme{Vars: schemeVars, Ty: ty}
	return statics.Env{Val: statics.ValEnv{s.Id: {Status: statics.StatusVal, Scheme: sch}}, Ty: statics.TyEnv{}, Str: statics.StrEnv{}}, true
}

// ckTypeDesc elaborates `type tyvarseq tycon`, an opaque type description:
// it mints a fresh Sym but specifies no constructors and no abbreviation,
// exactly like the built-in ground types in statics.Initial.
func (c *Checker) ckTypeDesc(s *ast.TypeDesc) (statics.Env, bool) {
	sym := c.State.FreshSym()
	ti := statics.TyInfo{Sym: sym, Arity: len(s.TyVars), Datatype: true, Ctors: statics.ValEnv{}}
	return statics.Env{Val: statics.ValEnv{}, Ty: statics.TyEnv{s.Id: ti}, Str: statics.StrEnv{}}, true
}

// ckExceptionDesc elaborates `exception vid [of ty]` inside a signature
// body.
func (c *Checker) ckExceptionDesc(cx statics.Cx, s *ast.ExceptionDesc) (statics.Env, bool) {
	exnTy := c.State.Syms.ExnTy()
	ty := typesystem.Ty(exnTy)
	if s.Arg != nil {
		ty = &typesystem.Arrow{Dom: c.ckTy(cx, s.Arg), Ran: exnTy}
	}
	vi := statics.ValInfo{Status: statics.StatusExn, Scheme: typesystem.Mono(ty)}
	return statics.Env{Val: statics.ValEnv{s.Id: vi}, Ty: statics.TyEnv{}, Str: statics.StrEnv{}}, true
}

// collectTyVars appends every distinct TyVarTy identifier occurring in ty,
// in order of first occurrence, to *out.
func collectTyVars(ty ast.Ty, seen map[strtab.StrId]bool, out *[]strtab.StrId) {
	switch t := ty.(type) {
	case *ast.TyVarTy:
		if !seen[t.Id] {
			seen[t.Id] = true
			*out = append(*out, t.Id)
		}
	case *ast.RecordTy:
		for _, row := range t.Fields {
			collectTyVars(row.Ty, seen, out)
		}
	case *ast.ArrowTy:
		collectTyVars(t.Dom, seen, out)
		collectTyVars(t.Ran, seen, out)
	case *ast.ConTy:
		for _, a := range t.Args {
			collectTyVars(a, seen, out)
		}
	}
}
