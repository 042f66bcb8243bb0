package statics

import (
	"github.com/funvibe/smlfront/internal/strtab"
	"github.com/funvibe/smlfront/internal/typesystem"
)

// Initial builds the starting Basis: the ground types (int, word, real,
// string, char, bool, unit, exn), the parametric builtins (list, ref), and
// the initial value environment's constructors and overloaded arithmetic
// operators. interner must be the same Table the lexer/parser use, so
// that e.g. strtab.Cons lines up with the "::" this Basis binds.
func Initial(state *State, interner *strtab.Table) Basis {
	syms := typesystem.BuiltinSyms{
		Int:    state.FreshSym(),
		Word:   state.FreshSym(),
		Real:   state.FreshSym(),
		String: state.FreshSym(),
		Char:   state.FreshSym(),
		Bool:   state.FreshSym(),
		List:   state.FreshSym(),
		Unit:   state.FreshSym(),
		Exn:    state.FreshSym(),
		RefSym: state.FreshSym(),
	}
	state.Syms = syms

	ty := TyEnv{
		interner.Intern("int"):    {Sym: syms.Int, Arity: 0, Datatype: true, Ctors: ValEnv{}},
		interner.Intern("word"):   {Sym: syms.Word, Arity: 0, Datatype: true, Ctors: ValEnv{}},
		interner.Intern("real"):   {Sym: syms.Real, Arity: 0, Datatype: true, Ctors: ValEnv{}},
		interner.Intern("string"): {Sym: syms.String, Arity: 0, Datatype: true, Ctors: ValEnv{}},
		interner.Intern("char"):   {Sym: syms.Char, Arity: 0, Datatype: true, Ctors: ValEnv{}},
		interner.Intern("exn"):    {Sym: syms.Exn, Arity: 0, Datatype: true, Ctors: ValEnv{}},
		interner.Intern("unit"):   {Sym: syms.Unit, Arity: 0, Datatype: false, AliasBody: typesystem.UnitTy()},
	}

	a := state.FreshTyVar()
	listValEnv := ValEnv{
		strtab.Nil:  {Status: StatusCtor, Scheme: typesystem.TyScheme{Vars: []typesystem.TyVarId{a.Id}, Ty: syms.ListTy(a)}},
	}
	a2 := state.FreshTyVar()
	listValEnv[strtab.Cons] = ValInfo{
		Status: StatusCtor,
		Scheme: typesystem.TyScheme{Vars: []typesystem.TyVarId{a2.Id}, Ty: &typesystem.Arrow{
			Dom: typesystem.TupleTy([]typesystem.Ty{a2, syms.ListTy(a2)}),
			Ran: syms.ListTy(a2),
		}},
	}
	ty[interner.Intern("list")] = TyInfo{Sym: syms.List, Arity: 1, Datatype: true, Ctors: listValEnv}

	a3 := state.FreshTyVar()
	refValEnv := ValEnv{
		strtab.Ref: {Status: StatusCtor, Scheme: typesystem.TyScheme{Vars: []typesystem.TyVarId{a3.Id}, Ty: &typesystem.Arrow{Dom: a3, Ran: syms.RefTy(a3)}}},
	}
	ty[interner.Intern("ref")] = TyInfo{Sym: syms.RefSym, Arity: 1, Datatype: true, Ctors: refValEnv}

	boolValEnv := ValEnv{
		strtab.True:  {Status: StatusCtor, Scheme: typesystem.Mono(syms.BoolTy())},
		strtab.False: {Status: StatusCtor, Scheme: typesystem.Mono(syms.BoolTy())},
	}
	ty[interner.Intern("bool")] = TyInfo{Sym: syms.Bool, Arity: 0, Datatype: true, Ctors: boolValEnv}

	val := ValEnv{}
	for k, v := range listValEnv {
		val[k] = v
	}
	for k, v := range refValEnv {
		val[k] = v
	}
	for k, v := range boolValEnv {
		val[k] = v
	}

	val[strtab.Plus] = overloadedBinop(state, typesystem.ClassInt)
	val[strtab.Minus] = overloadedBinop(state, typesystem.ClassInt)
	val[strtab.Star] = overloadedBinop(state, typesystem.ClassInt)
	val[strtab.Div] = overloadedBinop(state, typesystem.ClassInt)
	val[strtab.Mod] = overloadedBinop(state, typesystem.ClassInt)
	val[strtab.Slash] = overloadedBinop(state, typesystem.ClassReal)
	val[strtab.Lt] = overloadedCompare(state, syms)
	val[strtab.Gt] = overloadedCompare(state, syms)
	val[strtab.Le] = overloadedCompare(state, syms)
	val[strtab.Ge] = overloadedCompare(state, syms)

	assignTv := state.FreshTyVar()
	val[strtab.Assign] = ValInfo{
		Status: StatusVal,
		Scheme: typesystem.TyScheme{Vars: []typesystem.TyVarId{assignTv.Id}, Ty: &typesystem.Arrow{
			Dom: typesystem.TupleTy([]typesystem.Ty{syms.RefTy(assignTv), assignTv}),
			Ran: syms.UnitTy(),
		}},
	}

	env := Env{Val: val, Ty: ty, Str: StrEnv{}}
	return Basis{Env: env, SigEnv: SigEnv{}, TyNames: EnvTyNames(env)}
}

func overloadedBinop(state *State, class typesystem.OverloadClass) ValInfo {
	tv := state.FreshTyVar()
	sch := typesystem.TyScheme{
		Vars:     []typesystem.TyVarId{tv.Id},
		Ty:       &typesystem.Arrow{Dom: typesystem.TupleTy([]typesystem.Ty{tv, tv}), Ran: tv},
		Overload: map[typesystem.TyVarId]typesystem.OverloadClass{tv.Id: class},
	}
	return ValInfo{Status: StatusVal, Scheme: sch}
}

func overloadedCompare(state *State, syms typesystem.BuiltinSyms) ValInfo {
	tv := state.FreshTyVar()
	sch := typesystem.TyScheme{
		Vars:     []typesystem.TyVarId{tv.Id},
		Ty:       &typesystem.Arrow{Dom: typesystem.TupleTy([]typesystem.Ty{tv, tv}), Ran: syms.BoolTy()},
		Overload: map[typesystem.TyVarId]typesystem.OverloadClass{tv.Id: typesystem.ClassInt},
	}
	return ValInfo{Status: StatusVal, Scheme: sch}
}
