package ast

import (
	"github.com/funvibe/smlfront/internal/loc"
	"github.com/funvibe/smlfront/internal/strtab"
)

// ValBind is one `pat = exp` clause of a val declaration.
type ValBind struct {
	Pat Pat
	Exp Exp
	Pos loc.Loc
}

// ValDec is `val valbind (and valbind)*`. Bare (non-`rec`) val bindings are
// fully elaborated; `val rec` is gated Unsupported by the parser.
type ValDec struct {
	Binds []ValBind
	Pos   loc.Loc
}

func (*ValDec) decNode()          {}
func (d *ValDec) GetLoc() loc.Loc { return d.Pos }

// FClause is one clause of one function name's fun binding:
// `name atpat1 ... atpatn [: ty] = exp`, already stripped of its
// syntactic sugar for infix/curried notation (§4.E of the design).
type FClause struct {
	Pats   []Pat
	Result Ty // nil if no result-type annotation
	Exp    Exp
	Pos    loc.Loc
}

// FValBind is all clauses naming one function.
type FValBind struct {
	Name    strtab.StrId
	Arity   int
	Clauses []FClause
	Pos     loc.Loc
}

// FunDec is `fun fvalbind (and fvalbind)*`.
type FunDec struct {
	Binds []FValBind
	Pos   loc.Loc
}

func (*FunDec) decNode()          {}
func (d *FunDec) GetLoc() loc.Loc { return d.Pos }

// TyBind is one `tyvarseq tycon = ty` clause of a type declaration.
type TyBind struct {
	TyVars []strtab.StrId
	Id     strtab.StrId
	Ty     Ty
	Pos    loc.Loc
}

// TypeDec is `type tybind (and tybind)*`.
type TypeDec struct {
	Binds []TyBind
	Pos   loc.Loc
}

func (*TypeDec) decNode()          {}
func (d *TypeDec) GetLoc() loc.Loc { return d.Pos }

// ConBind is one constructor of a datatype binding.
type ConBind struct {
	Op  bool
	Id  strtab.StrId
	Arg Ty // nil for a nullary constructor
	Pos loc.Loc
}

// DatBind is one `tyvarseq tycon = conbind (| conbind)*` clause.
type DatBind struct {
	TyVars []strtab.StrId
	Id     strtab.StrId
	Cons   []ConBind
	Pos    loc.Loc
}

// DatatypeDec is `datatype datbind (and datbind)* [withtype tybind (and tybind)*]`.
type DatatypeDec struct {
	Binds     []DatBind
	WithTypes []TyBind
	Pos       loc.Loc
}

func (*DatatypeDec) decNode()          {}
func (d *DatatypeDec) GetLoc() loc.Loc { return d.Pos }

// DatatypeCopyDec is `datatype tycon = datatype longtycon`.
type DatatypeCopyDec struct {
	Id  strtab.StrId
	Rhs LongId
	Pos loc.Loc
}

func (*DatatypeCopyDec) decNode()          {}
func (d *DatatypeCopyDec) GetLoc() loc.Loc { return d.Pos }

// ExBind is one clause of an exception declaration: either a fresh
// exception (Arg nil for nullary) or an exception copy (Rhs non-nil).
type ExBind struct {
	Op  bool
	Id  strtab.StrId
	Arg Ty
	Rhs *LongId
	Pos loc.Loc
}

// ExceptionDec is `exception exbind (and exbind)*`.
type ExceptionDec struct {
	Binds []ExBind
	Pos   loc.Loc
}

func (*ExceptionDec) decNode()          {}
func (d *ExceptionDec) GetLoc() loc.Loc { return d.Pos }

// LocalDec is `local dec1 in dec2 end`.
type LocalDec struct {
	Dec1, Dec2 Dec
	Pos        loc.Loc
}

func (*LocalDec) decNode()          {}
func (d *LocalDec) GetLoc() loc.Loc { return d.Pos }

// OpenDec is `open longstrid+`.
type OpenDec struct {
	Ids []LongId
	Pos loc.Loc
}

func (*OpenDec) decNode()          {}
func (d *OpenDec) GetLoc() loc.Loc { return d.Pos }

// SeqDec is a `;`-separated (or merely juxtaposed) declaration sequence.
// Later bindings may shadow earlier ones within the same sequence.
type SeqDec struct {
	Decs []Dec
	Pos  loc.Loc
}

func (*SeqDec) decNode()          {}
func (d *SeqDec) GetLoc() loc.Loc { return d.Pos }

// EmptyDec is the empty declaration (e.g. a stray `;`).
type EmptyDec struct{ Pos loc.Loc }

func (*EmptyDec) decNode()          {}
func (d *EmptyDec) GetLoc() loc.Loc { return d.Pos }

// Assoc is the associativity of a user-declared infix identifier.
type Assoc int

const (
	AssocLeft Assoc = iota
	AssocRight
)

// FixityDec is `infix|infixr [d] vid+` or `nonfix vid+`.
type FixityDec struct {
	Assoc    Assoc
	Nonfix   bool
	Prec     int
	Ids      []strtab.StrId
	Pos      loc.Loc
}

func (*FixityDec) decNode()          {}
func (d *FixityDec) GetLoc() loc.Loc { return d.Pos }
