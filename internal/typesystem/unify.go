package typesystem

import (
	"github.com/funvibe/smlfront/internal/diagnostics"
	"github.com/funvibe/smlfront/internal/loc"
)

// Unify attempts to make t1 and t2 equal by extending subst in place
// (subst is a map, so bindings persist in the caller's copy — this is the
// "one global substitution" of the Definition, not a local unifier
// result). It performs first-order unification with an occurs check; there
// is no row polymorphism, so two record types unify only when their label
// sets match exactly.
func Unify(subst Subst, t1, t2 Ty, pos loc.Loc) *diagnostics.DiagnosticError {
	t1 = Apply(t1, subst)
	t2 = Apply(t2, subst)

	if v1, ok := t1.(*Var); ok {
		if v2, ok := t2.(*Var); ok && v1.Id == v2.Id {
			return nil
		}
		return bind(subst, v1.Id, t2, pos)
	}
	if v2, ok := t2.(*Var); ok {
		return bind(subst, v2.Id, t1, pos)
	}

	if f1, ok := t1.(*FlexRecord); ok {
		return unifyFlex(subst, f1, t2, pos)
	}
	if f2, ok := t2.(*FlexRecord); ok {
		return unifyFlex(subst, f2, t1, pos)
	}

	switch a := t1.(type) {
	case *Arrow:
		b, ok := t2.(*Arrow)
		if !ok {
			return headMismatch(t1, t2, pos)
		}
		if err := Unify(subst, a.Dom, b.Dom, pos); err != nil {
			return err
		}
		return Unify(subst, a.Ran, b.Ran, pos)
	case *Record:
		b, ok := t2.(*Record)
		if !ok {
			return headMismatch(t1, t2, pos)
		}
		if len(a.Fields) != len(b.Fields) {
			return diagnostics.NewCheckerError(pos, diagnostics.ErrRowMismatch, a.String(), b.String())
		}
		for label, fa := range a.Fields {
			fb, ok := b.Fields[label]
			if !ok {
				return diagnostics.NewCheckerError(pos, diagnostics.ErrRowMismatch, a.String(), b.String())
			}
			if err := Unify(subst, fa, fb, pos); err != nil {
				return err
			}
		}
		return nil
	case *Ctor:
		b, ok := t2.(*Ctor)
		if !ok || a.Sym != b.Sym || len(a.Args) != len(b.Args) {
			return headMismatch(t1, t2, pos)
		}
		for i := range a.Args {
			if err := Unify(subst, a.Args[i], b.Args[i], pos); err != nil {
				return err
			}
		}
		return nil
	default:
		return headMismatch(t1, t2, pos)
	}
}

// unifyFlex unifies a flexible record (flex) against other, which has
// already been Applied. Against a closed Record, every demanded field must
// be present and Rest binds to whatever fields are left over. Against
// another FlexRecord, this is only an approximation of true row
// polymorphism: overlapping fields unify, the demanded-field sets union,
// and the two Rest variables are collapsed onto one rather than both
// pointing at a freshly-synthesized shared tail.
func unifyFlex(subst Subst, flex *FlexRecord, other Ty, pos loc.Loc) *diagnostics.DiagnosticError {
	switch b := other.(type) {
	case *Record:
		for label, ft := range flex.Fields {
			fb, ok := b.Fields[label]
			if !ok {
				return diagnostics.NewCheckerError(pos, diagnostics.ErrRowMismatch, flex.String(), b.String())
			}
			if err := Unify(subst, ft, fb, pos); err != nil {
				return err
			}
		}
		rest := make(map[string]Ty)
		for label, fb := range b.Fields {
			if _, ok := flex.Fields[label]; !ok {
				rest[label] = fb
			}
		}
		return bind(subst, flex.Rest, &Record{Fields: rest}, pos)
	case *FlexRecord:
		for label, ft := range flex.Fields {
			if fb, ok := b.Fields[label]; ok {
				if err := Unify(subst, ft, fb, pos); err != nil {
					return err
				}
			}
		}
		if flex.Rest == b.Rest {
			return nil
		}
		return bind(subst, b.Rest, &Var{Id: flex.Rest}, pos)
	default:
		return headMismatch(flex, other, pos)
	}
}

func headMismatch(t1, t2 Ty, pos loc.Loc) *diagnostics.DiagnosticError {
	return diagnostics.NewCheckerError(pos, diagnostics.ErrHeadMismatch, t1.String(), t2.String())
}

func bind(subst Subst, id TyVarId, t Ty, pos loc.Loc) *diagnostics.DiagnosticError {
	if v, ok := t.(*Var); ok && v.Id == id {
		return nil
	}
	if occurs(id, t, subst) {
		return diagnostics.NewCheckerError(pos, diagnostics.ErrCircularTy, (&Var{Id: id}).String(), t.String())
	}
	subst[id] = t
	return nil
}
