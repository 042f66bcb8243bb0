package checker

import (
	"github.com/funvibe/smlfront/internal/ast"
	"github.com/funvibe/smlfront/internal/statics"
	"github.com/funvibe/smlfront/internal/typesystem"
)

// walkStrs walks id's qualifying structure path, if any, returning the
// environment it lands in.
func walkStrs(e statics.Env, id ast.LongId) (statics.Env, bool) {
	env := e
	for _, s := range id.Strs {
		sub, ok := env.Str[s]
		if !ok {
			return statics.Env{}, false
		}
		env = sub
	}
	return env, true
}

// resolveVal resolves id (qualified or not) to a ValInfo in e.
func (c *Checker) resolveVal(e statics.Env, id ast.LongId) (statics.ValInfo, bool) {
	env, ok := walkStrs(e, id)
	if !ok {
		return statics.ValInfo{}, false
	}
	vi, ok := env.Val[id.Id]
	return vi, ok
}

// resolveTy resolves id to a TyInfo in e.
func (c *Checker) resolveTy(e statics.Env, id ast.LongId) (statics.TyInfo, bool) {
	env, ok := walkStrs(e, id)
	if !ok {
		return statics.TyInfo{}, false
	}
	ti, ok := env.Ty[id.Id]
	return ti, ok
}

// resolveStrId resolves id to a bound structure environment in e.
func (c *Checker) resolveStrId(e statics.Env, id ast.LongId) (statics.Env, bool) {
	env, ok := walkStrs(e, id)
	if !ok {
		return statics.Env{}, false
	}
	sub, ok := env.Str[id.Id]
	return sub, ok
}

// ctorSym finds the Sym of the datatype that owns the constructor named by
// id, searching env directly (after navigating id's qualifying path).
// Returns 0, the zero Sym, if id does not name a known constructor. 0 is
// also the first Sym State.FreshSym hands out (the built-in int, which has
// no constructors), so callers only use this to key a Completion lookup,
// never to compare against a specific datatype.
func (c *Checker) ctorSym(e statics.Env, id ast.LongId) typesystem.Sym {
	env, ok := walkStrs(e, id)
	if !ok {
		return 0
	}
	for _, ti := range env.Ty {
		if !ti.Datatype {
			continue
		}
		if _, ok := ti.Ctors[id.Id]; ok {
			return ti.Sym
		}
	}
	return 0
}
