// Package checker elaborates a parsed program against the Definition's
// static semantics: expression/pattern typing, declaration elaboration,
// and per-top-declaration overload resolution.
package checker

import (
	"fmt"
	"sort"

	"github.com/funvibe/smlfront/internal/ast"
	"github.com/funvibe/smlfront/internal/diagnostics"
	"github.com/funvibe/smlfront/internal/exhaustive"
	"github.com/funvibe/smlfront/internal/loc"
	"github.com/funvibe/smlfront/internal/statics"
	"github.com/funvibe/smlfront/internal/strtab"
	"github.com/funvibe/smlfront/internal/typesystem"
)

// Checker holds the mutable state of one compilation: the interner, the
// single statics.State (substitution, fresh-variable/Sym counters,
// pending overload constraints), and the growing, deduplicated set of
// diagnostics. It mirrors the shape of a source-language analyzer's
// internal walker — mutable fields plus addError/Errors —
// but its top-level entry point snapshots and restores the Basis around
// each top declaration, since a failing declaration must not leave
// partial bindings behind.
type Checker struct {
	Interner *strtab.Table
	State    *statics.State

	errorSet map[string]bool
	errs     []*diagnostics.DiagnosticError
}

// New returns a Checker with a fresh State and the initial Basis seeded
// from interner (so builtin identifiers like "::" line up with the
// interner's reserved StrIds).
func New(interner *strtab.Table) (*Checker, statics.Basis) {
	state := statics.NewState()
	basis := statics.Initial(state, interner)
	return &Checker{Interner: interner, State: state, errorSet: map[string]bool{}}, basis
}

func (c *Checker) addError(e *diagnostics.DiagnosticError) {
	key := fmt.Sprintf("%d:%d:%s", e.Pos.Line, e.Pos.Col, e.Code)
	if c.errorSet[key] {
		return
	}
	c.errorSet[key] = true
	c.errs = append(c.errs, e)
}

// Errors returns every diagnostic collected so far, sorted by position.
func (c *Checker) Errors() []*diagnostics.DiagnosticError {
	out := make([]*diagnostics.DiagnosticError, len(c.errs))
	copy(out, c.errs)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Pos.Line != out[j].Pos.Line {
			return out[i].Pos.Line < out[j].Pos.Line
		}
		return out[i].Pos.Col < out[j].Pos.Col
	})
	return out
}

// CheckProgram elaborates every top declaration of prog in source order
// against basis, returning the final Basis and every diagnostic raised
// along the way. A top declaration that raises an error leaves the Basis
// exactly as it was before that declaration; later top declarations are
// still attempted.
func (c *Checker) CheckProgram(basis statics.Basis, prog *ast.Program) statics.Basis {
	for _, td := range prog.Decs {
		if next, ok := c.checkTopDec(basis, td); ok {
			basis = next
		}
	}
	return basis
}

// checkTopDec elaborates one top declaration and, on success, runs the
// end-of-top-declaration overload resolution pass over every constraint
// introduced while elaborating it.
func (c *Checker) checkTopDec(basis statics.Basis, td ast.TopDec) (statics.Basis, bool) {
	before := len(c.errs)
	next, ok := c.ckTopDec(basis, td)
	if !ok || len(c.errs) > before {
		return basis, false
	}
	c.resolveOverloads(td.GetLoc())
	return next, true
}

// resolveOverloads defaults every still-pending overload-class constraint
// to the first candidate ground type (in the order its
// class's Candidates lists them) that unifies without error, committing that binding to
// the global substitution. This runs once per top declaration, matching
// the reference elaborator's end-of-declaration resolution loop.
func (c *Checker) resolveOverloads(pos loc.Loc) {
	pending := c.State.Overload
	c.State.Overload = map[typesystem.TyVarId]typesystem.OverloadClass{}
	ids := make([]typesystem.TyVarId, 0, len(pending))
	for id := range pending {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		class := pending[id]
		resolved := false
		for _, cand := range class.Candidates(&c.State.Syms) {
			trial := make(typesystem.Subst, len(c.State.Subst))
			for k, v := range c.State.Subst {
				trial[k] = v
			}
			if err := typesystem.Unify(trial, &typesystem.Var{Id: id}, cand, pos); err == nil {
				c.State.Subst = trial
				resolved = true
				break
			}
		}
		if !resolved {
			c.addError(diagnostics.NewCheckerError(pos, diagnostics.ErrNoSuitableOverload, (&typesystem.Var{Id: id}).String()))
		}
	}
}

// instantiate instantiates vi's scheme with fresh variables, registering
// any overload-class constraints the scheme carried onto the fresh
// variables in c.State.Overload.
func (c *Checker) instantiate(vi statics.ValInfo) typesystem.Ty {
	t, renaming := typesystem.Instantiate(vi.Scheme, c.State.FreshTyVarId)
	for old, cls := range vi.Scheme.Overload {
		c.State.Overload[renaming[old]] = cls
	}
	return t
}

// generalize closes over ty's free variables not free in cx's environment,
// honoring the value restriction (expansive suppresses generalization
// entirely).
func (c *Checker) generalize(cx statics.Cx, ty typesystem.Ty, expansive bool) typesystem.TyScheme {
	envFree := statics.EnvFreeTyVars(cx.Env, c.State.Subst)
	return typesystem.Generalize(ty, c.State.Subst, envFree, c.State.Overload, expansive)
}

// unify is a thin wrapper recording any unification failure as a
// diagnostic and reporting success/failure as a bool, so call sites read
// `if !c.unify(...) { return errTy }` instead of threading errors by hand.
func (c *Checker) unify(pos loc.Loc, t1, t2 typesystem.Ty) bool {
	if err := typesystem.Unify(c.State.Subst, t1, t2, pos); err != nil {
		c.addError(err)
		return false
	}
	return true
}

// errTy returns a fresh, unconstrained type variable to stand in for the
// type of an ill-typed expression, so elaboration of the surrounding
// context can continue without cascading a single error into dozens.
func (c *Checker) errTy() typesystem.Ty {
	return c.State.FreshTyVar()
}

// name renders a StrId for diagnostics.
func (c *Checker) name(id strtab.StrId) string {
	s, ok := c.Interner.TryLookup(id)
	if !ok {
		return "?"
	}
	return s
}

func (c *Checker) longName(l ast.LongId) string {
	out := ""
	for _, s := range l.Strs {
		out += c.name(s) + "."
	}
	return out + c.name(l.Id)
}

// forbiddenRebind is the Definition's ck_binding check: these identifiers
// denote fixed constructors of the initial basis and may never be rebound
// by val, fun, or exception.
func (c *Checker) forbiddenRebind(id strtab.StrId) bool {
	switch id {
	case strtab.True, strtab.False, strtab.Nil, strtab.Cons, strtab.Ref:
		return true
	}
	return false
}

// checkExhaustive runs the match-usefulness analysis on rules typed at
// scrutTy, reporting NonExhaustiveMatch / UnreachableArm as appropriate.
// requireExhaustive is false for `handle`, where the Definition does not
// require exhaustiveness, and true for ordinary case/fn/fun matches.
func (c *Checker) checkExhaustive(cx statics.Cx, pos loc.Loc, pats []ast.Pat, requireExhaustive bool) {
	matrix := make([]exhaustive.Pat, len(pats))
	for i, p := range pats {
		matrix[i] = c.elabPatShape(cx, p)
	}
	result := exhaustive.Check(matrix, c.ctorCompletion(cx))
	if requireExhaustive && !result.Exhaustive {
		c.addError(diagnostics.NewCheckerError(pos, diagnostics.ErrNonExhaustiveMatch))
	}
	for _, idx := range result.Unreachable {
		c.addError(diagnostics.NewCheckerError(pats[idx].GetLoc(), diagnostics.ErrUnreachableArm))
	}
}

// ctorCompletion gives the exhaustiveness checker a way to ask "what are
// all the constructors of the datatype this constructor belongs to", by
// looking the constructor's result type up in cx.Env. It is threaded
// through as a closure rather than handing exhaustive the whole Env type,
// keeping internal/exhaustive free of a dependency on internal/statics.
func (c *Checker) ctorCompletion(cx statics.Cx) exhaustive.Completion {
	return func(sym typesystem.Sym) []exhaustive.Sibling {
		return c.siblingCtors(cx.Env, sym)
	}
}

func (c *Checker) siblingCtors(e statics.Env, sym typesystem.Sym) []exhaustive.Sibling {
	for _, ti := range e.Ty {
		if !ti.Datatype || ti.Sym != sym {
			continue
		}
		out := make([]exhaustive.Sibling, 0, len(ti.Ctors))
		for id, vi := range ti.Ctors {
			arity := 0
			if _, ok := vi.Scheme.Ty.(*typesystem.Arrow); ok {
				arity = 1
			}
			out = append(out, exhaustive.Sibling{Sym: ti.Sym, Name: c.name(id), Arity: arity})
		}
		sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
		return out
	}
	for _, sub := range e.Str {
		if out := c.siblingCtors(sub, sym); out != nil {
			return out
		}
	}
	return nil
}
