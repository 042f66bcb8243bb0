package statics

import (
	"github.com/funvibe/smlfront/internal/diagnostics"
	"github.com/funvibe/smlfront/internal/loc"
	"github.com/funvibe/smlfront/internal/strtab"
)

// ValEnv maps value identifiers to what is known about them.
type ValEnv map[strtab.StrId]ValInfo

// TyEnv maps type constructors to what is known about them.
type TyEnv map[strtab.StrId]TyInfo

// StrEnv maps structure identifiers to the environment they bind.
type StrEnv map[strtab.StrId]Env

// Env is one Val/Ty/Str environment triple, the Definition's "Env".
type Env struct {
	Val ValEnv
	Ty  TyEnv
	Str StrEnv
}

// NewEnv returns an empty environment.
func NewEnv() Env {
	return Env{Val: ValEnv{}, Ty: TyEnv{}, Str: StrEnv{}}
}

// Extend computes e1 O+ e2: the union of both environments, with e2's
// bindings shadowing e1's on any name collision. This is the permissive
// merge used for declaration sequences (Dec::Seq, StrDec::Seq), where
// rebinding a name is ordinary shadowing, not an error.
func Extend(e1, e2 Env) Env {
	out := Env{Val: ValEnv{}, Ty: TyEnv{}, Str: StrEnv{}}
	for k, v := range e1.Val {
		out.Val[k] = v
	}
	for k, v := range e2.Val {
		out.Val[k] = v
	}
	for k, v := range e1.Ty {
		out.Ty[k] = v
	}
	for k, v := range e2.Ty {
		out.Ty[k] = v
	}
	for k, v := range e1.Str {
		out.Str[k] = v
	}
	for k, v := range e2.Str {
		out.Str[k] = v
	}
	return out
}

// MaybeExtend computes the same union as Extend but, matching the
// Definition's treatment of specification sequences (Spec::Seq), fails if
// e2 would rebind any name already present in e1 — a signature body may
// not re-specify the same identifier twice.
func MaybeExtend(e1, e2 Env, pos loc.Loc) (Env, *diagnostics.DiagnosticError) {
	for k := range e2.Val {
		if _, ok := e1.Val[k]; ok {
			return Env{}, diagnostics.NewCheckerError(pos, diagnostics.ErrRedefined, "value")
		}
	}
	for k := range e2.Ty {
		if _, ok := e1.Ty[k]; ok {
			return Env{}, diagnostics.NewCheckerError(pos, diagnostics.ErrRedefined, "type")
		}
	}
	for k := range e2.Str {
		if _, ok := e1.Str[k]; ok {
			return Env{}, diagnostics.NewCheckerError(pos, diagnostics.ErrRedefined, "structure")
		}
	}
	return Extend(e1, e2), nil
}

// Clone returns a deep-enough copy of e so that mutating the copy's maps
// never affects e. Value/type/structure entries are small value types, so
// a shallow per-map copy suffices.
func (e Env) Clone() Env {
	out := Env{Val: make(ValEnv, len(e.Val)), Ty: make(TyEnv, len(e.Ty)), Str: make(StrEnv, len(e.Str))}
	for k, v := range e.Val {
		out.Val[k] = v
	}
	for k, v := range e.Ty {
		out.Ty[k] = v
	}
	for k, v := range e.Str {
		out.Str[k] = v
	}
	return out
}
