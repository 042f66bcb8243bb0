// Package ast defines the located abstract syntax of Standard ML core and
// module-level declarations, as produced by internal/parser and consumed by
// internal/checker.
package ast

import (
	"github.com/funvibe/smlfront/internal/loc"
	"github.com/funvibe/smlfront/internal/strtab"
)

// Node is implemented by every AST node.
type Node interface {
	GetLoc() loc.Loc
}

// LongId is a possibly-qualified identifier: zero or more structure
// identifiers followed by the identifier itself, e.g. List.Extra.map.
type LongId struct {
	Strs []strtab.StrId
	Id   strtab.StrId
	Pos  loc.Loc
}

// Qualified reports whether this is a dotted path rather than a bare id.
func (l LongId) Qualified() bool { return len(l.Strs) > 0 }

// SConKind classifies a special constant.
type SConKind int

const (
	SConInt SConKind = iota
	SConWord
	SConReal
	SConString
	SConChar
)

// Exp is the family of core-language expressions.
type Exp interface {
	Node
	expNode()
}

// Pat is the family of core-language patterns.
type Pat interface {
	Node
	patNode()
}

// Ty is the family of core-language type expressions.
type Ty interface {
	Node
	tyNode()
}

// Dec is the family of core declarations (val/fun/type/datatype/...).
type Dec interface {
	Node
	decNode()
}

// StrExp is the family of structure expressions.
type StrExp interface {
	Node
	strExpNode()
}

// StrDec is the family of structure-level declarations.
type StrDec interface {
	Node
	strDecNode()
}

// SigExp is the family of signature expressions.
type SigExp interface {
	Node
	sigExpNode()
}

// Spec is the family of specifications inside a signature body.
type Spec interface {
	Node
	specNode()
}

// TopDec is the family of top-level declarations (a program is a sequence
// of these).
type TopDec interface {
	Node
	topDecNode()
}

// Program is the root of a parsed compilation unit.
type Program struct {
	Decs []TopDec
	Pos  loc.Loc
}

func (p *Program) GetLoc() loc.Loc { return p.Pos }

// unsupportedBase factors the common fields of every "this construct is
// recognized but not elaborated" placeholder node.
type unsupportedBase struct {
	Feature string
	Pos     loc.Loc
}

func (u unsupportedBase) GetLoc() loc.Loc { return u.Pos }

// UnsupportedExp stands in for a syntactically valid but unelaborated
// expression form (e.g. while loops, record selectors).
type UnsupportedExp struct{ unsupportedBase }

func (*UnsupportedExp) expNode() {}

// NewUnsupportedExp builds an UnsupportedExp for feature at pos.
func NewUnsupportedExp(pos loc.Loc, feature string) *UnsupportedExp {
	return &UnsupportedExp{unsupportedBase{Feature: feature, Pos: pos}}
}

// UnsupportedPat stands in for an unelaborated pattern form.
type UnsupportedPat struct{ unsupportedBase }

func (*UnsupportedPat) patNode() {}

func NewUnsupportedPat(pos loc.Loc, feature string) *UnsupportedPat {
	return &UnsupportedPat{unsupportedBase{Feature: feature, Pos: pos}}
}

// UnsupportedDec stands in for an unelaborated declaration form (abstype,
// val rec, type variables on val/fun).
type UnsupportedDec struct{ unsupportedBase }

func (*UnsupportedDec) decNode() {}

func NewUnsupportedDec(pos loc.Loc, feature string) *UnsupportedDec {
	return &UnsupportedDec{unsupportedBase{Feature: feature, Pos: pos}}
}

// UnsupportedStrDec stands in for an unelaborated structure-level
// declaration (functor-dependent forms).
type UnsupportedStrDec struct{ unsupportedBase }

func (*UnsupportedStrDec) strDecNode() {}

func NewUnsupportedStrDec(pos loc.Loc, feature string) *UnsupportedStrDec {
	return &UnsupportedStrDec{unsupportedBase{Feature: feature, Pos: pos}}
}

// UnsupportedStrExp stands in for signature ascription / functor
// application, which are not elaborated.
type UnsupportedStrExp struct{ unsupportedBase }

func (*UnsupportedStrExp) strExpNode() {}

func NewUnsupportedStrExp(pos loc.Loc, feature string) *UnsupportedStrExp {
	return &UnsupportedStrExp{unsupportedBase{Feature: feature, Pos: pos}}
}

// UnsupportedSigExp stands in for `where type`-modified signatures.
type UnsupportedSigExp struct{ unsupportedBase }

func (*UnsupportedSigExp) sigExpNode() {}

func NewUnsupportedSigExp(pos loc.Loc, feature string) *UnsupportedSigExp {
	return &UnsupportedSigExp{unsupportedBase{Feature: feature, Pos: pos}}
}

// UnsupportedSpec stands in for `sharing` and `include` specifications.
type UnsupportedSpec struct{ unsupportedBase }

func (*UnsupportedSpec) specNode() {}

func NewUnsupportedSpec(pos loc.Loc, feature string) *UnsupportedSpec {
	return &UnsupportedSpec{unsupportedBase{Feature: feature, Pos: pos}}
}

// UnsupportedTopDec stands in for functor declarations.
type UnsupportedTopDec struct{ unsupportedBase }

func (*UnsupportedTopDec) topDecNode() {}

func NewUnsupportedTopDec(pos loc.Loc, feature string) *UnsupportedTopDec {
	return &UnsupportedTopDec{unsupportedBase{Feature: feature, Pos: pos}}
}
