// Package typesystem implements the Definition's semantic types: simple
// (monomorphic) types, type variables, nominal type constructors, and the
// global substitution and unification over them.
package typesystem

import (
	"fmt"
	"sort"
	"strings"
)

// TyVarId names one unification variable. Fresh ids are minted by
// statics.State so that identity, not structure, distinguishes variables.
type TyVarId int

// Sym is the nominal identity of one type constructor: every datatype
// (and the handful of built-in constructors) gets a fresh Sym when bound,
// so that two textually identical declarations in different scopes never
// unify with each other (generativity).
type Sym int

// Ty is a Standard ML simple type: a type variable, a record, a function
// type, or an application of a nominal type constructor to argument
// types. There is no polymorphism at this level — that lives one layer up,
// in TyScheme.
type Ty interface {
	tyNode()
	String() string
}

// Var is an as-yet-unresolved type variable.
type Var struct {
	Id TyVarId
}

func (*Var) tyNode() {}
func (v *Var) String() string { return fmt.Sprintf("'t%d", v.Id) }

// Record is an ordered-label record type. Standard ML has no row
// polymorphism: two record types unify only when their label sets are
// identical.
type Record struct {
	Fields map[string]Ty
}

func (*Record) tyNode() {}

func (r *Record) String() string {
	labels := sortedLabels(r.Fields)
	if isTupleLabels(labels) {
		parts := make([]string, len(labels))
		for i, l := range labels {
			parts[i] = r.Fields[l].String()
		}
		return "(" + strings.Join(parts, " * ") + ")"
	}
	parts := make([]string, len(labels))
	for i, l := range labels {
		parts[i] = l + ":" + r.Fields[l].String()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func sortedLabels(fields map[string]Ty) []string {
	out := make([]string, 0, len(fields))
	for l := range fields {
		out = append(out, l)
	}
	sort.Strings(out)
	return out
}

// isTupleLabels reports whether labels are exactly "1".."n", the Appendix
// A encoding of a tuple.
func isTupleLabels(labels []string) bool {
	for i, l := range labels {
		if l != fmt.Sprintf("%d", i+1) {
			return false
		}
	}
	return len(labels) != 1
}

// FlexRecord is an as-yet-incompletely-known record type: it demands at
// least Fields, with Rest standing for whatever additional fields the
// eventual concrete record type turns out to have. It only ever appears
// as the type of a flexible record pattern (`{x = 1, ...}`) before
// unification pins Rest down to a closed Record.
type FlexRecord struct {
	Fields map[string]Ty
	Rest   TyVarId
}

func (*FlexRecord) tyNode() {}

func (f *FlexRecord) String() string {
	labels := sortedLabels(f.Fields)
	parts := make([]string, len(labels))
	for i, l := range labels {
		parts[i] = l + ":" + f.Fields[l].String()
	}
	return "{" + strings.Join(parts, ", ") + ", ...}"
}

// Arrow is a function type.
type Arrow struct {
	Dom, Ran Ty
}

func (*Arrow) tyNode() {}
func (a *Arrow) String() string { return a.Dom.String() + " -> " + a.Ran.String() }

// Ctor applies a nominal type constructor (identified by Sym) to zero or
// more argument types. Name is carried only for diagnostics; equality of
// two Ctors is decided by Sym, never by Name.
type Ctor struct {
	Sym  Sym
	Name string
	Args []Ty
}

func (*Ctor) tyNode() {}

func (c *Ctor) String() string {
	if len(c.Args) == 0 {
		return c.Name
	}
	if len(c.Args) == 1 {
		return c.Args[0].String() + " " + c.Name
	}
	parts := make([]string, len(c.Args))
	for i, a := range c.Args {
		parts[i] = a.String()
	}
	return "(" + strings.Join(parts, ", ") + ") " + c.Name
}

// TupleTy builds the record-type encoding of a tuple of n >= 2 types.
func TupleTy(tys []Ty) Ty {
	fields := make(map[string]Ty, len(tys))
	for i, t := range tys {
		fields[fmt.Sprintf("%d", i+1)] = t
	}
	return &Record{Fields: fields}
}

// UnitTy is the empty record, the type of ().
func UnitTy() Ty { return &Record{Fields: map[string]Ty{}} }
