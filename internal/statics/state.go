package statics

import "github.com/funvibe/smlfront/internal/typesystem"

// State is the single mutable object threaded by pointer through one
// compilation: the global substitution, the set of pending overload
// constraints, and the counters that hand out fresh type variables and
// fresh nominal Syms. Exactly one State exists per compilation, matching
// the Definition's single global unification state.
type State struct {
	Subst    typesystem.Subst
	Overload map[typesystem.TyVarId]typesystem.OverloadClass

	// Expansive marks, among the variables currently free in a
	// not-yet-generalized type, which ones must not be generalized
	// because they were introduced while elaborating an expansive
	// (non-syntactic-value) expression. Nothing reads it and MarkExpansive
	// has no callers; the checker applies the value restriction through
	// the expansive flag it passes to generalize.
	Expansive map[typesystem.TyVarId]bool

	Syms typesystem.BuiltinSyms

	nextTyVar typesystem.TyVarId
	nextSym   typesystem.Sym
}

// NewState returns a fresh State with zeroed counters and no built-in
// Syms; Initial (in builtins.go) mints those and builds the starting Basis.
func NewState() *State {
	return &State{
		Subst:     typesystem.Subst{},
		Overload:  map[typesystem.TyVarId]typesystem.OverloadClass{},
		Expansive: map[typesystem.TyVarId]bool{},
	}
}

// FreshTyVar mints a new, globally unique type variable.
func (s *State) FreshTyVar() *typesystem.Var {
	id := s.nextTyVar
	s.nextTyVar++
	return &typesystem.Var{Id: id}
}

// FreshTyVarId is FreshTyVar without the *Var wrapper, for call sites that
// just need the id (e.g. Instantiate's fresh callback).
func (s *State) FreshTyVarId() typesystem.TyVarId {
	return s.FreshTyVar().Id
}

// FreshSym mints a new, globally unique nominal type-constructor identity.
func (s *State) FreshSym() typesystem.Sym {
	id := s.nextSym
	s.nextSym++
	return id
}

// MarkExpansive records that tv must not be generalized.
func (s *State) MarkExpansive(tv typesystem.TyVarId) {
	s.Expansive[tv] = true
}

// EnvFreeTyVars computes the free type variables of every scheme's type in
// env (ignoring the scheme's own quantified variables), used by
// Generalize's caller to know what NOT to generalize.
func EnvFreeTyVars(e Env, s typesystem.Subst) map[typesystem.TyVarId]bool {
	out := map[typesystem.TyVarId]bool{}
	for _, vi := range e.Val {
		bound := map[typesystem.TyVarId]bool{}
		for _, v := range vi.Scheme.Vars {
			bound[v] = true
		}
		for id := range typesystem.FreeTyVars(vi.Scheme.Ty, s) {
			if !bound[id] {
				out[id] = true
			}
		}
	}
	for _, sub := range e.Str {
		for id := range EnvFreeTyVars(sub, s) {
			out[id] = true
		}
	}
	return out
}
