package statics

import "github.com/funvibe/smlfront/internal/typesystem"

// TyInfo is what the environment knows about one type constructor: either
// a nominal datatype (with its constructors' ValEnv) or a type
// abbreviation (`type t = ...`), each with a fixed arity.
type TyInfo struct {
	Sym      typesystem.Sym
	Arity    int
	Datatype bool

	// Valid when Datatype is true: the constructors introduced by this
	// datatype, keyed by constructor name.
	Ctors ValEnv

	// Valid when Datatype is false: expanding the abbreviation binds each
	// AliasParams[i] to the i'th argument type and applies the resulting
	// substitution to AliasBody.
	AliasParams []typesystem.TyVarId
	AliasBody   typesystem.Ty
}

// Expand applies a type abbreviation to concrete argument types. Callers
// must check !Datatype first; expanding a datatype's "definition" makes no
// sense since it has none.
func (ti TyInfo) Expand(args []typesystem.Ty) typesystem.Ty {
	s := typesystem.Subst{}
	for i, p := range ti.AliasParams {
		if i < len(args) {
			s[p] = args[i]
		}
	}
	return typesystem.Apply(ti.AliasBody, s)
}
