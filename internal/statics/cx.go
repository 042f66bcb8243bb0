package statics

import (
	"github.com/funvibe/smlfront/internal/strtab"
	"github.com/funvibe/smlfront/internal/typesystem"
)

// Cx is the elaboration context: a Basis's Env plus the bound type
// variables currently in scope (from an enclosing tyvarseq on a type or
// datatype binding) and the set of type names visible for the purposes of
// the scope-escape check performed at `let`.
type Cx struct {
	Env     Env
	TyVars  map[strtab.StrId]typesystem.TyVarId
	TyNames map[typesystem.Sym]bool
}

// ToCx builds the initial elaboration context for one top declaration
// from the current Basis, with no type variables bound yet.
func ToCx(b Basis) Cx {
	return Cx{Env: b.Env, TyVars: map[strtab.StrId]typesystem.TyVarId{}, TyNames: b.TyNames}
}

// WithTyVars returns a Cx identical to cx but with additional type
// variables bound (as used when entering a type or datatype binding's
// tyvarseq).
func (cx Cx) WithTyVars(vars map[strtab.StrId]typesystem.TyVarId) Cx {
	out := Cx{Env: cx.Env, TyNames: cx.TyNames, TyVars: make(map[strtab.StrId]typesystem.TyVarId, len(cx.TyVars)+len(vars))}
	for k, v := range cx.TyVars {
		out.TyVars[k] = v
	}
	for k, v := range vars {
		out.TyVars[k] = v
	}
	return out
}

// WithEnv returns a Cx identical to cx but with its Env replaced.
func (cx Cx) WithEnv(e Env) Cx {
	return Cx{Env: e, TyVars: cx.TyVars, TyNames: cx.TyNames}
}
