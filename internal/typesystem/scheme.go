package typesystem

// TyScheme is a let-bound identifier's type: a type with zero or more of
// its free type variables universally quantified. Overload records, for
// each quantified variable, the literal class it was constrained to (if
// any) so that instantiation can propagate the constraint onto the fresh
// copy.
type TyScheme struct {
	Vars     []TyVarId
	Ty       Ty
	Overload map[TyVarId]OverloadClass
}

// Mono wraps a type with no quantified variables — the scheme assigned to
// an expansive (value-restricted) binding, or to anything that is not
// let-bound at all.
func Mono(t Ty) TyScheme {
	return TyScheme{Ty: t}
}

// Generalize closes over every free variable of t (after applying s) that
// does not also occur free in the enclosing environment, unless expansive
// is true, in which case nothing is generalized (the value restriction).
func Generalize(t Ty, s Subst, envFree map[TyVarId]bool, overload map[TyVarId]OverloadClass, expansive bool) TyScheme {
	if expansive {
		return Mono(Apply(t, s))
	}
	tFree := FreeTyVars(t, s)
	var vars []TyVarId
	sc := make(map[TyVarId]OverloadClass)
	for id := range tFree {
		if envFree[id] {
			continue
		}
		vars = append(vars, id)
		if cls, ok := overload[id]; ok {
			sc[id] = cls
		}
	}
	return TyScheme{Vars: vars, Ty: Apply(t, s), Overload: sc}
}

// Instantiate replaces every quantified variable of sch with a fresh one
// (produced by calling fresh once per quantified variable) and returns the
// instantiated type along with the old->new variable renaming, so the
// caller can copy over any overload-class constraint onto the fresh
// variable.
func Instantiate(sch TyScheme, fresh func() TyVarId) (Ty, map[TyVarId]TyVarId) {
	renaming := make(map[TyVarId]TyVarId, len(sch.Vars))
	s := Subst{}
	for _, old := range sch.Vars {
		fv := fresh()
		renaming[old] = fv
		s[old] = &Var{Id: fv}
	}
	return Apply(sch.Ty, s), renaming
}
