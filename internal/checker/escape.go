package checker

import "github.com/funvibe/smlfront/internal/typesystem"

// tyNamesEscape reports whether t, once the global substitution is
// applied, mentions any Sym in newNames — the scope-escape check run at
// a `let` expression (a `local` declaration is not checked): a type name generated by
// the local declaration must not appear in the type of the result
// expression, since that name goes out of scope once the let ends.
func (c *Checker) tyNamesEscape(t typesystem.Ty, newNames map[typesystem.Sym]bool) bool {
	if len(newNames) == 0 {
		return false
	}
	return mentionsAny(typesystem.Apply(t, c.State.Subst), newNames)
}

func mentionsAny(t typesystem.Ty, names map[typesystem.Sym]bool) bool {
	switch t := t.(type) {
	case *typesystem.Ctor:
		if names[t.Sym] {
			return true
		}
		for _, a := range t.Args {
			if mentionsAny(a, names) {
				return true
			}
		}
		return false
	case *typesystem.Arrow:
		return mentionsAny(t.Dom, names) || mentionsAny(t.Ran, names)
	case *typesystem.Record:
		for _, ft := range t.Fields {
			if mentionsAny(ft, names) {
				return true
			}
		}
		return false
	case *typesystem.FlexRecord:
		for _, ft := range t.Fields {
			if mentionsAny(ft, names) {
				return true
			}
		}
		return false
	default:
		return false
	}
}
