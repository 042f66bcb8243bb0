package ast

import (
	"github.com/funvibe/smlfront/internal/loc"
	"github.com/funvibe/smlfront/internal/strtab"
)

// TyVarTy is a type variable occurrence, e.g. 'a or ''a.
type TyVarTy struct {
	Id       strtab.StrId
	Equality bool
	Pos      loc.Loc
}

func (*TyVarTy) tyNode()          {}
func (t *TyVarTy) GetLoc() loc.Loc { return t.Pos }

// TyRow is one label/type pair of a record type.
type TyRow struct {
	Label strtab.StrId
	Ty    Ty
	Pos   loc.Loc
}

// RecordTy is a (possibly tuple-sugared) record type.
type RecordTy struct {
	Fields []TyRow
	Pos    loc.Loc
}

func (*RecordTy) tyNode()          {}
func (t *RecordTy) GetLoc() loc.Loc { return t.Pos }

// ArrowTy is `ty -> ty`, right-associative.
type ArrowTy struct {
	Dom, Ran Ty
	Pos      loc.Loc
}

func (*ArrowTy) tyNode()          {}
func (t *ArrowTy) GetLoc() loc.Loc { return t.Pos }

// ConTy applies a (possibly qualified) type constructor to zero or more
// argument types, e.g. `int list` is ConTy{Args: [int], Id: list}.
type ConTy struct {
	Args []Ty
	Id   LongId
	Pos  loc.Loc
}

func (*ConTy) tyNode()          {}
func (t *ConTy) GetLoc() loc.Loc { return t.Pos }
