package checker

import (
	"github.com/funvibe/smlfront/internal/ast"
	"github.com/funvibe/smlfront/internal/diagnostics"
	"github.com/funvibe/smlfront/internal/exhaustive"
	"github.com/funvibe/smlfront/internal/statics"
	"github.com/funvibe/smlfront/internal/strtab"
	"github.com/funvibe/smlfront/internal/typesystem"
)

// ckDec elaborates one core declaration against cx, returning the
// environment of new bindings it introduces (not yet merged into cx) and
// whether elaboration succeeded.
func (c *Checker) ckDec(cx statics.Cx, dec ast.Dec) (statics.Env, bool) {
	switch d := dec.(type) {
	case *ast.ValDec:
		return c.ckValDec(cx, d)
	case *ast.FunDec:
		return c.ckFunDec(cx, d)
	case *ast.TypeDec:
		return c.ckTypeDec(cx, d)
	case *ast.DatatypeDec:
		return c.ckDatatypeDec(cx, d)
	case *ast.DatatypeCopyDec:
		return c.ckDatatypeCopyDec(cx, d)
	case *ast.ExceptionDec:
		return c.ckExceptionDec(cx, d)
	case *ast.LocalDec:
		return c.ckLocalDec(cx, d)
	case *ast.OpenDec:
		return c.ckOpenDec(cx, d)
	case *ast.SeqDec:
		return c.ckSeqDec(cx, d)
	case *ast.FixityDec:
		// Fixity is resolved entirely during parsing; by the time the
		// checker sees a program, infix application has already been
		// rewritten into ordinary AppExp nodes.
		return statics.NewEnv(), true
	case *ast.EmptyDec:
		return statics.NewEnv(), true
	case *ast.UnsupportedDec:
		c.addError(diagnostics.NewCheckerError(d.Pos, diagnostics.ErrCheckerUnsupported, d.Feature))
		return statics.NewEnv(), false
	default:
		return statics.NewEnv(), false
	}
}

// ckLetDec elaborates dec for use as the bound declaration of a `let`
// expression, returning an extended Cx along with the set of type names
// dec introduced that were not already in scope (for the scope-escape
// check the let expression's caller performs on the result type).
func (c *Checker) ckLetDec(cx statics.Cx, dec ast.Dec) (statics.Cx, map[typesystem.Sym]bool, bool) {
	newEnv, ok := c.ckDec(cx, dec)
	if !ok {
		return cx, nil, false
	}
	merged := statics.Extend(cx.Env, newEnv)
	newNames := map[typesystem.Sym]bool{}
	for s := range statics.EnvTyNames(merged) {
		if !cx.TyNames[s] {
			newNames[s] = true
		}
	}
	letCx := cx.WithEnv(merged)
	allNames := make(map[typesystem.Sym]bool, len(cx.TyNames)+len(newNames))
	for s := range cx.TyNames {
		allNames[s] = true
	}
	for s := range newNames {
		allNames[s] = true
	}
	letCx.TyNames = allNames
	return letCx, newNames, true
}

func patsOf(binds []ast.ValBind) []ast.Pat {
	out := make([]ast.Pat, len(binds))
	for i, b := range binds {
		out[i] = b.Pat
	}
	return out
}

// ckValDec elaborates `val valbind (and valbind)*`: every binding's
// right-hand side is elaborated under the outer context (bindings in the
// same val dec are not mutually recursive — that needs `fun`), then its
// pattern generalized or not per the value restriction.
func (c *Checker) ckValDec(cx statics.Cx, d *ast.ValDec) (statics.Env, bool) {
	ok := true
	out := statics.ValEnv{}
	for _, b := range d.Binds {
		expansive := c.isExpansive(cx, b.Exp)
		expTy := c.ckExp(cx, b.Exp)
		patTy, bound, pok := c.ckPat(cx, b.Pat)
		if !pok {
			ok = false
		}
		if !c.unify(b.Pos, patTy, expTy) {
			ok = false
		}
		for id, vi := range bound {
			ty := typesystem.Apply(vi.Scheme.Ty, c.State.Subst)
			out[id] = statics.ValInfo{Status: statics.StatusVal, Scheme: c.generalize(cx, ty, expansive)}
		}
	}
	c.checkExhaustive(cx, d.Pos, patsOf(d.Binds), true)
	return statics.Env{Val: out, Ty: statics.TyEnv{}, Str: statics.StrEnv{}}, ok
}

// ckFunDec elaborates `fun fvalbind (and fvalbind)*`. Every named function
// in the "and"-group is pre-registered with a fresh placeholder type so
// its clauses (and its siblings' clauses) may call it recursively, then
// each clause's curried pattern/body type is unified against that
// placeholder, and finally every function's type is generalized.
func (c *Checker) ckFunDec(cx statics.Cx, d *ast.FunDec) (statics.Env, bool) {
	ok := true
	placeholders := make(map[strtab.StrId]*typesystem.Var, len(d.Binds))
	newVal := statics.ValEnv{}
	for _, fb := range d.Binds {
		if c.forbiddenRebind(fb.Name) {
			c.addError(diagnostics.NewCheckerError(fb.Pos, diagnostics.ErrForbiddenBinding, c.name(fb.Name)))
			ok = false
		}
		tv := c.State.FreshTyVar()
		placeholders[fb.Name] = tv
		newVal[fb.Name] = statics.ValInfo{Status: statics.StatusVal, Scheme: typesystem.Mono(tv)}
	}
	recCx := cx.WithEnv(statics.Extend(cx.Env, statics.Env{Val: newVal, Ty: statics.TyEnv{}, Str: statics.StrEnv{}}))

	for _, fb := range d.Binds {
		if len(fb.Clauses) == 0 {
			continue
		}
		arity := len(fb.Clauses[0].Pats)
		clauseTy := typesystem.Ty(placeholders[fb.Name])
		shapes := make([]exhaustive.Pat, 0, len(fb.Clauses))
		for _, clause := range fb.Clauses {
			if len(clause.Pats) != arity {
				c.addError(diagnostics.NewCheckerError(clause.Pos, diagnostics.ErrFunDecWrongNumPats))
				ok = false
				continue
			}
			argTys := make([]typesystem.Ty, arity)
			bound := statics.ValEnv{}
			shapeArgs := make([]exhaustive.Pat, arity)
			for i, p := range clause.Pats {
				pty, pbound, pok := c.ckPat(recCx, p)
				if !pok {
					ok = false
				}
				argTys[i] = pty
				for k, v := range pbound {
					bound[k] = v
				}
				shapeArgs[i] = c.elabPatShape(recCx, p)
			}
			shapes = append(shapes, exhaustive.Pat{Kind: exhaustive.Record, Args: shapeArgs})
			clauseCx := recCx.WithEnv(statics.Extend(recCx.Env, statics.Env{Val: bound, Ty: statics.TyEnv{}, Str: statics.StrEnv{}}))
			bodyTy := c.ckExp(clauseCx, clause.Exp)
			if clause.Result != nil {
				annot := c.ckTy(clauseCx, clause.Result)
				if !c.unify(clause.Pos, bodyTy, annot) {
					ok = false
				}
			}
			if !c.unify(clause.Pos, clauseTy, buildCurriedArrow(argTys, bodyTy)) {
				ok = false
			}
		}
		result := exhaustive.Check(shapes, c.ctorCompletion(recCx))
		if !result.Exhaustive {
			c.addError(diagnostics.NewCheckerError(fb.Pos, diagnostics.ErrNonExhaustiveMatch))
		}
		for _, idx := range result.Unreachable {
			c.addError(diagnostics.NewCheckerError(fb.Clauses[idx].Pos, diagnostics.ErrUnreachableArm))
		}
	}

	out := statics.ValEnv{}
	for _, fb := range d.Binds {
		ty := typesystem.Apply(placeholders[fb.Name], c.State.Subst)
		out[fb.Name] = statics.ValInfo{Status: statics.StatusVal, Scheme: c.generalize(cx, ty, false)}
	}
	return statics.Env{Val: out, Ty: statics.TyEnv{}, Str: statics.StrEnv{}}, ok
}

func buildCurriedArrow(argTys []typesystem.Ty, result typesystem.Ty) typesystem.Ty {
	t := result
	for i := len(argTys) - 1; i >= 0; i-- {
		t = &typesystem.Arrow{Dom: argTys[i], Ran: t}
	}
	return t
}

// ckTypeDec elaborates `type tybind (and tybind)*`: each clause binds a
// type abbreviation, expanded on demand by TyInfo.Expand.
func (c *Checker) ckTypeDec(cx statics.Cx, d *ast.TypeDec) (statics.Env, bool) {
	ok := true
	out := statics.TyEnv{}
	for _, b := range d.Binds {
		if len(b.TyVars) > 0 {
			c.addError(diagnostics.NewCheckerError(b.Pos, diagnostics.ErrCheckerUnsupported, "type variables"))
			ok = false
			continue
		}
		body := c.ckTy(cx.WithTyVars(map[strtab.StrId]typesystem.TyVarId{}), b.Ty)
		out[b.Id] = statics.TyInfo{Arity: 0, Datatype: false, AliasParams: nil, AliasBody: body}
	}
	return statics.Env{Val: statics.ValEnv{}, Ty: out, Str: statics.StrEnv{}}, ok
}

func tyVarArgs(params []typesystem.TyVarId) []typesystem.Ty {
	out := make([]typesystem.Ty, len(params))
	for i, p := range params {
		out[i] = &typesystem.Var{Id: p}
	}
	return out
}

// ckDatatypeDec elaborates `datatype datbind (and datbind)* [withtype ...]`
// in two phases: first every datatype in the "and"-group gets a fresh Sym
// and an (as yet empty) placeholder TyInfo, so constructor argument types
// can mention any datatype in the group (including the one being
// defined, for direct recursion); then each group member's constructors
// are elaborated against that placeholder environment and the real Ctors
// map is written back in.
func (c *Checker) ckDatatypeDec(cx statics.Cx, d *ast.DatatypeDec) (statics.Env, bool) {
	ok := true
	for _, b := range d.Binds {
		if len(b.TyVars) > 0 {
			c.addError(diagnostics.NewCheckerError(b.Pos, diagnostics.ErrCheckerUnsupported, "type variables"))
			ok = false
		}
	}
	for _, wb := range d.WithTypes {
		if len(wb.TyVars) > 0 {
			c.addError(diagnostics.NewCheckerError(wb.Pos, diagnostics.ErrCheckerUnsupported, "type variables"))
			ok = false
		}
	}
	if !ok {
		return statics.NewEnv(), false
	}

	tyOut := statics.TyEnv{}
	tyVarsByBind := make([]map[strtab.StrId]typesystem.TyVarId, len(d.Binds))
	paramsByBind := make([][]typesystem.TyVarId, len(d.Binds))

	for i, b := range d.Binds {
		vars := map[strtab.StrId]typesystem.TyVarId{}
		tyVarsByBind[i] = vars
		paramsByBind[i] = nil
		tyOut[b.Id] = statics.TyInfo{Sym: c.State.FreshSym(), Arity: 0, Datatype: true, Ctors: statics.ValEnv{}}
	}
	placeholderCx := cx.WithEnv(statics.Extend(cx.Env, statics.Env{Val: statics.ValEnv{}, Ty: tyOut, Str: statics.StrEnv{}}))

	valOut := statics.ValEnv{}
	for i, b := range d.Binds {
		bodyCx := placeholderCx.WithTyVars(tyVarsByBind[i])
		ti := tyOut[b.Id]
		resultTy := &typesystem.Ctor{Sym: ti.Sym, Name: c.name(b.Id), Args: tyVarArgs(paramsByBind[i])}
		ctorEnv := statics.ValEnv{}
		for _, cb := range b.Cons {
			if c.forbiddenRebind(cb.Id) {
				c.addError(diagnostics.NewCheckerError(cb.Pos, diagnostics.ErrForbiddenBinding, c.name(cb.Id)))
				ok = false
				continue
			}
			var ctorTy typesystem.Ty = resultTy
			if cb.Arg != nil {
				ctorTy = &typesystem.Arrow{Dom: c.ckTy(bodyCx, cb.Arg), Ran: resultTy}
			}
			ctorEnv[cb.Id] = statics.ValInfo{Status: statics.StatusCtor, Scheme: c.generalize(cx, ctorTy, false)}
		}
		ti.Ctors = ctorEnv
		tyOut[b.Id] = ti
		for k, v := range ctorEnv {
			valOut[k] = v
		}
	}

	for _, wb := range d.WithTypes {
		body := c.ckTy(placeholderCx.WithTyVars(map[strtab.StrId]typesystem.TyVarId{}), wb.Ty)
		tyOut[wb.Id] = statics.TyInfo{Arity: 0, Datatype: false, AliasParams: nil, AliasBody: body}
	}

	return statics.Env{Val: valOut, Ty: tyOut, Str: statics.StrEnv{}}, ok
}

// ckDatatypeCopyDec elaborates `datatype tycon = datatype longtycon`: a
// fresh name bound to the same Sym and constructors as an existing
// datatype (not a fresh, incompatible type).
func (c *Checker) ckDatatypeCopyDec(cx statics.Cx, d *ast.DatatypeCopyDec) (statics.Env, bool) {
	ti, ok := c.resolveTy(cx.Env, d.Rhs)
	if !ok || !ti.Datatype {
		c.addError(diagnostics.NewCheckerError(d.Pos, diagnostics.ErrDatatypeCopyNotDatatype, c.longName(d.Rhs)))
		return statics.NewEnv(), false
	}
	return statics.Env{Val: ti.Ctors, Ty: statics.TyEnv{d.Id: ti}, Str: statics.StrEnv{}}, true
}

// ckExceptionDec elaborates `exception exbind (and exbind)*`: a fresh
// exception constructor, or (via `= longvid`) a renaming of an existing
// one that must itself have exception status.
func (c *Checker) ckExceptionDec(cx statics.Cx, d *ast.ExceptionDec) (statics.Env, bool) {
	ok := true
	out := statics.ValEnv{}
	exnTy := c.State.Syms.ExnTy()
	for _, b := range d.Binds {
		if c.forbiddenRebind(b.Id) {
			c.addError(diagnostics.NewCheckerError(b.Pos, diagnostics.ErrForbiddenBinding, c.name(b.Id)))
			ok = false
			continue
		}
		if b.Rhs != nil {
			vi, found := c.resolveVal(cx.Env, *b.Rhs)
			if !found || vi.Status != statics.StatusExn {
				c.addError(diagnostics.NewCheckerError(b.Pos, diagnostics.ErrExnWrongIdStatus, c.longName(*b.Rhs)))
				ok = false
				continue
			}
			out[b.Id] = vi
			continue
		}
		ty := typesystem.Ty(exnTy)
		if b.Arg != nil {
			ty = &typesystem.Arrow{Dom: c.ckTy(cx, b.Arg), Ran: exnTy}
		}
		out[b.Id] = statics.ValInfo{Status: statics.StatusExn, Scheme: typesystem.Mono(ty)}
	}
	return statics.Env{Val: out, Ty: statics.TyEnv{}, Str: statics.StrEnv{}}, ok
}

// ckLocalDec elaborates `local dec1 in dec2 end`: dec1's bindings are
// visible while elaborating dec2 but are not themselves exported.
func (c *Checker) ckLocalDec(cx statics.Cx, d *ast.LocalDec) (statics.Env, bool) {
	env1, ok1 := c.ckDec(cx, d.Dec1)
	if !ok1 {
		return statics.NewEnv(), false
	}
	cx2 := cx.WithEnv(statics.Extend(cx.Env, env1))
	return c.ckDec(cx2, d.Dec2)
}

// ckOpenDec elaborates `open longstrid+`, merging every named structure's
// environment into the result (later structures shadow earlier ones).
func (c *Checker) ckOpenDec(cx statics.Cx, d *ast.OpenDec) (statics.Env, bool) {
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
}

// ckSeqDec elaborates a declaration sequence: each member sees every
// earlier member's bindings, and later bindings may shadow earlier ones.
func (c *Checker) ckSeqDec(cx statics.Cx, d *ast.SeqDec) (statics.Env, bool) {
	ok := true
	acc := statics.NewEnv()
	curCx := cx
	for _, sub := range d.Decs {
		env, subOk := c.ckDec(curCx, sub)
		if !subOk {
			ok = false
		}
		acc = statics.Extend(acc, env)
		curCx = curCx.WithEnv(statics.Extend(curCx.Env, env))
	}
	return acc, ok
}

// isExpansive is the Definition's syntactic classification of "is not a
// value": everything is expansive except special constants, variable/
// constructor references, fn expressions, records of non-expansive
// expressions, type-annotated non-expansive expressions, and applications
// of a value constructor (other than ref, which allocates) to a
// non-expansive argument.
func (c *Checker) isExpansive(cx statics.Cx, exp ast.Exp) bool {
	switch e := exp.(type) {
	case *ast.SConExp:
		return false
	case *ast.VidExp:
		return false
	case *ast.FnExp:
		return false
	case *ast.RecordExp:
		for _, row := range e.Fields {
			if c.isExpansive(cx, row.Exp) {
				return true
			}
		}
		return false
	case *ast.TypedExp:
		return c.isExpansive(cx, e.Exp)
	case *ast.AppExp:
		id, isCtor := c.ctorHeadId(cx, e.Fun)
		if !isCtor || id == strtab.Ref {
			return true
		}
		return c.isExpansive(cx, e.Arg)
	default:
		return true
	}
}

// ctorHeadId reports whether exp is a bare reference to a Ctor/Exn-status
// identifier and, if so, its unqualified name.
func (c *Checker) ctorHeadId(cx statics.Cx, exp ast.Exp) (strtab.StrId, bool) {
	v, ok := exp.(*ast.VidExp)
	if !ok {
		return 0, false
	}
	vi, found := c.resolveVal(cx.Env, v.Id)
	if !found || vi.Status == statics.StatusVal {
		return 0, false
	}
	return v.Id.Id, true
}
