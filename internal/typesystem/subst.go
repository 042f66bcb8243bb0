package typesystem

// Subst is the global substitution: an append-only map from type-variable
// id to the type it has been bound to. Entries are never mutated once set,
// only added (statics.State owns the one Subst for a compilation) and
// applying it is lazy — Apply chases chains of bound variables to their
// representative type without writing the result back.
type Subst map[TyVarId]Ty

// Apply resolves t through s as far as it currently goes: bound type
// variables are replaced by their binding (recursively, since a binding
// may itself mention other bound variables), everything else is rebuilt
// structurally.
func Apply(t Ty, s Subst) Ty {
	switch t := t.(type) {
	case *Var:
		if bound, ok := s[t.Id]; ok {
			return Apply(bound, s)
		}
		return t
	case *Arrow:
		return &Arrow{Dom: Apply(t.Dom, s), Ran: Apply(t.Ran, s)}
	case *Record:
		fields := make(map[string]Ty, len(t.Fields))
		for l, ft := range t.Fields {
			fields[l] = Apply(ft, s)
		}
		return &Record{Fields: fields}
	case *Ctor:
		args := make([]Ty, len(t.Args))
		for i, a := range t.Args {
			args[i] = Apply(a, s)
		}
		return &Ctor{Sym: t.Sym, Name: t.Name, Args: args}
	case *FlexRecord:
		fields := make(map[string]Ty, len(t.Fields))
		for l, ft := range t.Fields {
			fields[l] = Apply(ft, s)
		}
		if bound, ok := s[t.Rest]; ok {
			// Once Rest resolves to a concrete record, merge it with the
			// fields this FlexRecord itself demanded.
			if rec, ok := Apply(bound, s).(*Record); ok {
				for l, ft := range rec.Fields {
					fields[l] = ft
				}
				return &Record{Fields: fields}
			}
		}
		return &FlexRecord{Fields: fields, Rest: t.Rest}
	default:
		return t
	}
}

// FreeTyVars returns the set of unresolved type variables occurring in t
// after applying s.
func FreeTyVars(t Ty, s Subst) map[TyVarId]bool {
	out := make(map[TyVarId]bool)
	freeTyVarsInto(Apply(t, s), out)
	return out
}

func freeTyVarsInto(t Ty, out map[TyVarId]bool) {
	switch t := t.(type) {
	case *Var:
		out[t.Id] = true
	case *Arrow:
		freeTyVarsInto(t.Dom, out)
		freeTyVarsInto(t.Ran, out)
	case *Record:
		for _, ft := range t.Fields {
			freeTyVarsInto(ft, out)
		}
	case *Ctor:
		for _, a := range t.Args {
			freeTyVarsInto(a, out)
		}
	case *FlexRecord:
		for _, ft := range t.Fields {
			freeTyVarsInto(ft, out)
		}
		out[t.Rest] = true
	}
}

// occurs reports whether id occurs free in t (after applying s), used by
// the unifier's occurs check.
func occurs(id TyVarId, t Ty, s Subst) bool {
	return FreeTyVars(t, s)[id]
}
