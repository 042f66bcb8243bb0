package typesystem_test

import (
	"testing"

	"github.com/funvibe/smlfront/internal/diagnostics"
	"github.com/funvibe/smlfront/internal/loc"
	"github.com/funvibe/smlfront/internal/typesystem"
)

func freshSym() typesystem.Sym { return typesystem.Sym(1) }

func intTy() typesystem.Ty {
	return &typesystem.Ctor{Sym: freshSym(), Name: "int"}
}

func boolTy() typesystem.Ty {
	return &typesystem.Ctor{Sym: typesystem.Sym(2), Name: "bool"}
}

func TestUnifyVarWithConcreteType(t *testing.T) {
	subst := typesystem.Subst{}
	v := &typesystem.Var{Id: 1}
	if err := typesystem.Unify(subst, v, intTy(), loc.Loc{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := typesystem.Apply(v, subst)
	if got.String() != intTy().String() {
		t.Fatalf("expected v to resolve to int, got %s", got.String())
	}
}

func TestUnifySameVarIsNoop(t *testing.T) {
	subst := typesystem.Subst{}
	v := &typesystem.Var{Id: 1}
	if err := typesystem.Unify(subst, v, v, loc.Loc{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(subst) != 0 {
		t.Fatalf("expected no binding to be recorded, got %v", subst)
	}
}

func TestUnifyOccursCheckRejectsCircularBinding(t *testing.T) {
	subst := typesystem.Subst{}
	v := &typesystem.Var{Id: 1}
	circular := &typesystem.Arrow{Dom: v, Ran: intTy()}
	err := typesystem.Unify(subst, v, circular, loc.Loc{})
	if err == nil {
		t.Fatalf("expected an occurs-check error")
	}
	if err.Code != diagnostics.ErrCircularTy {
		t.Fatalf("expected %s, got %s", diagnostics.ErrCircularTy, err.Code)
	}
}

func TestUnifyArrowTypesUnifyDomAndRan(t *testing.T) {
	subst := typesystem.Subst{}
	v1, v2 := &typesystem.Var{Id: 1}, &typesystem.Var{Id: 2}
	a1 := &typesystem.Arrow{Dom: v1, Ran: v2}
	a2 := &typesystem.Arrow{Dom: intTy(), Ran: boolTy()}
	if err := typesystem.Unify(subst, a1, a2, loc.Loc{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if typesystem.Apply(v1, subst).String() != intTy().String() {
		t.Errorf("expected v1 to resolve to int")
	}
	if typesystem.Apply(v2, subst).String() != boolTy().String() {
		t.Errorf("expected v2 to resolve to bool")
	}
}

func TestUnifyCtorHeadMismatch(t *testing.T) {
	subst := typesystem.Subst{}
	err := typesystem.Unify(subst, intTy(), boolTy(), loc.Loc{})
	if err == nil {
		t.Fatalf("expected a head mismatch error")
	}
	if err.Code != diagnostics.ErrHeadMismatch {
		t.Fatalf("expected %s, got %s", diagnostics.ErrHeadMismatch, err.Code)
	}
}

func TestUnifyCtorDifferentSymsMismatch(t *testing.T) {
	subst := typesystem.Subst{}
	c1 := &typesystem.Ctor{Sym: typesystem.Sym(10), Name: "t", Args: []typesystem.Ty{intTy()}}
	c2 := &typesystem.Ctor{Sym: typesystem.Sym(11), Name: "t", Args: []typesystem.Ty{intTy()}}
	err := typesystem.Unify(subst, c1, c2, loc.Loc{})
	if err == nil || err.Code != diagnostics.ErrHeadMismatch {
		t.Fatalf("expected head mismatch for distinct Syms, got %v", err)
	}
}

func TestUnifyRecordTypesRequireIdenticalLabels(t *testing.T) {
	subst := typesystem.Subst{}
	r1 := &typesystem.Record{Fields: map[string]typesystem.Ty{"a": intTy()}}
	r2 := &typesystem.Record{Fields: map[string]typesystem.Ty{"b": intTy()}}
	err := typesystem.Unify(subst, r1, r2, loc.Loc{})
	if err == nil || err.Code != diagnostics.ErrRowMismatch {
		t.Fatalf("expected row mismatch, got %v", err)
	}
}

func TestUnifyRecordTypesUnifyMatchingFields(t *testing.T) {
	subst := typesystem.Subst{}
	v := &typesystem.Var{Id: 1}
	r1 := &typesystem.Record{Fields: map[string]typesystem.Ty{"1": v, "2": boolTy()}}
	r2 := &typesystem.Record{Fields: map[string]typesystem.Ty{"1": intTy(), "2": boolTy()}}
	if err := typesystem.Unify(subst, r1, r2, loc.Loc{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if typesystem.Apply(v, subst).String() != intTy().String() {
		t.Errorf("expected v to resolve to int")
	}
}

func TestUnifyFlexRecordAgainstClosedRecordBindsRest(t *testing.T) {
	subst := typesystem.Subst{}
	flex := &typesystem.FlexRecord{Fields: map[string]typesystem.Ty{"x": intTy()}, Rest: 7}
	closed := &typesystem.Record{Fields: map[string]typesystem.Ty{"x": intTy(), "y": boolTy()}}
	if err := typesystem.Unify(subst, flex, closed, loc.Loc{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rest, ok := subst[7]
	if !ok {
		t.Fatalf("expected Rest tyvar to be bound")
	}
	rec, ok := rest.(*typesystem.Record)
	if !ok {
		t.Fatalf("expected Rest to bind to a closed record, got %T", rest)
	}
	if _, ok := rec.Fields["y"]; !ok {
		t.Errorf("expected leftover field y to appear in Rest's binding")
	}
	if _, ok := rec.Fields["x"]; ok {
		t.Errorf("did not expect demanded field x to appear in Rest's binding")
	}
}

func TestUnifyFlexRecordMissingFieldFails(t *testing.T) {
	subst := typesystem.Subst{}
	flex := &typesystem.FlexRecord{Fields: map[string]typesystem.Ty{"z": intTy()}, Rest: 7}
	closed := &typesystem.Record{Fields: map[string]typesystem.Ty{"x": intTy()}}
	err := typesystem.Unify(subst, flex, closed, loc.Loc{})
	if err == nil || err.Code != diagnostics.ErrRowMismatch {
		t.Fatalf("expected row mismatch for missing demanded field, got %v", err)
	}
}

func TestApplyChasesChainedBindings(t *testing.T) {
	subst := typesystem.Subst{}
	v1, v2 := &typesystem.Var{Id: 1}, &typesystem.Var{Id: 2}
	subst[1] = v2
	subst[2] = intTy()
	if got := typesystem.Apply(v1, subst); got.String() != intTy().String() {
		t.Fatalf("expected chained resolution to int, got %s", got.String())
	}
}

func TestFreeTyVarsFindsUnresolvedVariables(t *testing.T) {
	subst := typesystem.Subst{}
	v1, v2 := &typesystem.Var{Id: 1}, &typesystem.Var{Id: 2}
	subst[1] = intTy()
	arrow := &typesystem.Arrow{Dom: v1, Ran: v2}
	free := typesystem.FreeTyVars(arrow, subst)
	if free[1] {
		t.Errorf("v1 is bound, should not be free")
	}
	if !free[2] {
		t.Errorf("v2 is unbound, should be free")
	}
}

func TestTupleTyAndUnitTyString(t *testing.T) {
	tup := typesystem.TupleTy([]typesystem.Ty{intTy(), boolTy()})
	if tup.String() != "(int * bool)" {
		t.Errorf("expected tuple rendering, got %s", tup.String())
	}
	if typesystem.UnitTy().String() != "()" {
		t.Errorf("expected unit record to render as (), got %s", typesystem.UnitTy().String())
	}
}
