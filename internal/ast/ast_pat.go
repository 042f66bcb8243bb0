package ast

import (
	"github.com/funvibe/smlfront/internal/loc"
	"github.com/funvibe/smlfront/internal/strtab"
)

// WildcardPat is `_`.
type WildcardPat struct{ Pos loc.Loc }

func (*WildcardPat) patNode()          {}
func (p *WildcardPat) GetLoc() loc.Loc { return p.Pos }

// SConPat is a special-constant pattern. A real literal still gets a
// node here; the parser reports RealPat on it (and the checker reports
// RealPat for any real constant pattern it is given), per the Definition
// (real equality has no sensible pattern semantics).
type SConPat struct {
	Kind SConKind
	Lit  any
	Pos  loc.Loc
}

func (*SConPat) patNode()          {}
func (p *SConPat) GetLoc() loc.Loc { return p.Pos }

// VidPat is a variable-or-nullary-constructor pattern; which it is is
// resolved against the environment by the checker.
type VidPat struct {
	Op bool
	Id LongId
	Pos loc.Loc
}

func (*VidPat) patNode()          {}
func (p *VidPat) GetLoc() loc.Loc { return p.Pos }

// PatRow is one label/pattern pair of a record pattern.
type PatRow struct {
	Label strtab.StrId
	Pat   Pat
	Pos   loc.Loc
}

// RecordPat is a (possibly tuple-sugared) record pattern. Flex marks a
// trailing `...` wildcard-rest row.
type RecordPat struct {
	Fields []PatRow
	Flex   bool
	Pos    loc.Loc
}

func (*RecordPat) patNode()          {}
func (p *RecordPat) GetLoc() loc.Loc { return p.Pos }

// ConPat applies a value constructor to an argument pattern.
type ConPat struct {
	Op  bool
	Id  LongId
	Arg Pat
	Pos loc.Loc
}

func (*ConPat) patNode()          {}
func (p *ConPat) GetLoc() loc.Loc { return p.Pos }

// TypedPat is `pat : ty`.
type TypedPat struct {
	Pat Pat
	Ty  Ty
	Pos loc.Loc
}

func (*TypedPat) patNode()          {}
func (p *TypedPat) GetLoc() loc.Loc { return p.Pos }

// LayeredPat is `[op] vid [: ty] as pat`.
type LayeredPat struct {
	Op  bool
	Id  strtab.StrId
	Ty  Ty // nil if no type annotation
	Pat Pat
	Pos loc.Loc
}

func (*LayeredPat) patNode()          {}
func (p *LayeredPat) GetLoc() loc.Loc { return p.Pos }
