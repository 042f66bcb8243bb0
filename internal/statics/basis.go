package statics

import (
	"github.com/funvibe/smlfront/internal/strtab"
	"github.com/funvibe/smlfront/internal/typesystem"
)

// Sig is a signature's meaning: the environment it describes, plus the
// set of type names that are "new" relative to the Basis the signature
// expression was elaborated in (env_to_sig's ty_names(env) \ bs.ty_names).
// NewTyNames is recorded but not consulted when the signature is later
// referred to by name; no clash between two Sigs' names is checked.
type Sig struct {
	Env        Env
	NewTyNames map[typesystem.Sym]bool
}

// SigEnv maps signature identifiers to their meaning.
type SigEnv map[strtab.StrId]Sig

// Basis is the top-level semantic object a compilation accumulates: an
// environment, a signature environment, and the set of type names
// currently in scope (used by the `let`-expression
// escape check, and by signature elaboration's generativity check).
type Basis struct {
	Env     Env
	SigEnv  SigEnv
	TyNames map[typesystem.Sym]bool
}

// NewBasis returns an empty Basis (callers normally start from
// statics.Initial instead, which seeds the built-in types and values).
func NewBasis() Basis {
	return Basis{Env: NewEnv(), SigEnv: SigEnv{}, TyNames: map[typesystem.Sym]bool{}}
}

// Clone returns a copy of b whose Env/SigEnv/TyNames can be mutated
// without affecting b. Used to snapshot the Basis before elaborating a
// top declaration, so a failing declaration can be rolled back to leave no
// partial bindings (see checker.CheckTopDec).
func (b Basis) Clone() Basis {
	names := make(map[typesystem.Sym]bool, len(b.TyNames))
	for s := range b.TyNames {
		names[s] = true
	}
	sigEnv := make(SigEnv, len(b.SigEnv))
	for k, v := range b.SigEnv {
		sigEnv[k] = v
	}
	return Basis{Env: b.Env.Clone(), SigEnv: sigEnv, TyNames: names}
}

// WithEnv returns a Basis identical to b but with Env merged (shadowing)
// with extra, and TyNames grown by any new Syms extra's type environment
// introduces.
func (b Basis) WithEnv(extra Env) Basis {
	out := b
	out.Env = Extend(b.Env, extra)
	out.TyNames = unionTyNames(b.TyNames, extra)
	return out
}

func unionTyNames(names map[typesystem.Sym]bool, e Env) map[typesystem.Sym]bool {
	out := make(map[typesystem.Sym]bool, len(names))
	for s := range names {
		out[s] = true
	}
	addEnvTyNames(e, out)
	return out
}

func addEnvTyNames(e Env, out map[typesystem.Sym]bool) {
	for _, ti := range e.Ty {
		out[ti.Sym] = true
	}
	for _, sub := range e.Str {
		addEnvTyNames(sub, out)
	}
}

// EnvTyNames computes ty_names(env): every Sym mentioned by a type
// constructor anywhere in env, recursively through nested structures.
func EnvTyNames(e Env) map[typesystem.Sym]bool {
	out := map[typesystem.Sym]bool{}
	addEnvTyNames(e, out)
	return out
}
