package ast

import (
	"github.com/funvibe/smlfront/internal/loc"
	"github.com/funvibe/smlfront/internal/strtab"
)

// StrIdExp references a previously-bound structure by name.
type StrIdExp struct {
	Id  LongId
	Pos loc.Loc
}

func (*StrIdExp) strExpNode()       {}
func (e *StrIdExp) GetLoc() loc.Loc { return e.Pos }

// StructExp is `struct strdec end`.
type StructExp struct {
	Body []StrDec
	Pos  loc.Loc
}

func (*StructExp) strExpNode()       {}
func (e *StructExp) GetLoc() loc.Loc { return e.Pos }

// LetStrExp is `let strdec in strexp end`.
type LetStrExp struct {
	Dec  StrDec
	Body StrExp
	Pos  loc.Loc
}

func (*LetStrExp) strExpNode()       {}
func (e *LetStrExp) GetLoc() loc.Loc { return e.Pos }

// CoreDecStrDec wraps a core declaration occurring directly in a structure
// body.
type CoreDecStrDec struct {
	Dec Dec
	Pos loc.Loc
}

func (*CoreDecStrDec) strDecNode()     {}
func (d *CoreDecStrDec) GetLoc() loc.Loc { return d.Pos }

// StrBind is one `strid = strexp` clause of a structure declaration.
type StrBind struct {
	Id  strtab.StrId
	Exp StrExp
	Pos loc.Loc
}

// StructureDec is `structure strbind (and strbind)*`.
type StructureDec struct {
	Binds []StrBind
	Pos   loc.Loc
}

func (*StructureDec) strDecNode()       {}
func (d *StructureDec) GetLoc() loc.Loc { return d.Pos }

// LocalStrDec is `local strdec1 in strdec2 end` at structure level.
type LocalStrDec struct {
	Dec1, Dec2 StrDec
	Pos        loc.Loc
}

func (*LocalStrDec) strDecNode()       {}
func (d *LocalStrDec) GetLoc() loc.Loc { return d.Pos }

// OpenStrDec is `open longstrid+` at structure level.
type OpenStrDec struct {
	Ids []LongId
	Pos loc.Loc
}

func (*OpenStrDec) strDecNode()       {}
func (d *OpenStrDec) GetLoc() loc.Loc { return d.Pos }

// SeqStrDec is a juxtaposed/`;`-separated structure-declaration sequence.
type SeqStrDec struct {
	Decs []StrDec
	Pos  loc.Loc
}

func (*SeqStrDec) strDecNode()       {}
func (d *SeqStrDec) GetLoc() loc.Loc { return d.Pos }

// EmptyStrDec is the empty structure-level declaration.
type EmptyStrDec struct{ Pos loc.Loc }

func (*EmptyStrDec) strDecNode()       {}
func (d *EmptyStrDec) GetLoc() loc.Loc { return d.Pos }

// SigIdExp references a previously-bound signature by name.
type SigIdExp struct {
	Id  strtab.StrId
	Pos loc.Loc
}

func (*SigIdExp) sigExpNode()       {}
func (e *SigIdExp) GetLoc() loc.Loc { return e.Pos }

// SigExpLit is `sig spec end`.
type SigExpLit struct {
	Specs []Spec
	Pos   loc.Loc
}

func (*SigExpLit) sigExpNode()       {}
func (e *SigExpLit) GetLoc() loc.Loc { return e.Pos }

// ValDesc is `val vid : ty` inside a signature body.
type ValDesc struct {
	Id  strtab.StrId
	Ty  Ty
	Pos loc.Loc
}

func (*ValDesc) specNode()        {}
func (s *ValDesc) GetLoc() loc.Loc { return s.Pos }

// TypeDesc is `type tyvarseq tycon` (an opaque type description; no `=`).
type TypeDesc struct {
	TyVars []strtab.StrId
	Id     strtab.StrId
	Pos    loc.Loc
}

func (*TypeDesc) specNode()        {}
func (s *TypeDesc) GetLoc() loc.Loc { return s.Pos }

// DatatypeDesc is a `datatype` specification; it binds both the type name
// and its constructors, like DatatypeDec.
type DatatypeDesc struct {
	Binds []DatBind
	Pos   loc.Loc
}

func (*DatatypeDesc) specNode()        {}
func (s *DatatypeDesc) GetLoc() loc.Loc { return s.Pos }

// ExceptionDesc is `exception vid [of ty]` inside a signature body.
type ExceptionDesc struct {
	Id  strtab.StrId
	Arg Ty
	Pos loc.Loc
}

func (*ExceptionDesc) specNode()        {}
func (s *ExceptionDesc) GetLoc() loc.Loc { return s.Pos }

// StructureDesc is `structure strid : sigexp` inside a signature body.
type StructureDesc struct {
	Id  strtab.StrId
	Sig SigExp
	Pos loc.Loc
}

func (*StructureDesc) specNode()        {}
func (s *StructureDesc) GetLoc() loc.Loc { return s.Pos }

// SeqSpec is a juxtaposed specification sequence. Unlike SeqDec, rebinding
// an identifier already specified earlier in the same sequence is an error
// (the spec-level `maybe_extend`, as opposed to the declaration-level
// shadowing-permissive `extend`).
type SeqSpec struct {
	Specs []Spec
	Pos   loc.Loc
}

func (*SeqSpec) specNode()        {}
func (s *SeqSpec) GetLoc() loc.Loc { return s.Pos }

// EmptySpec is the empty specification.
type EmptySpec struct{ Pos loc.Loc }

func (*EmptySpec) specNode()        {}
func (s *EmptySpec) GetLoc() loc.Loc { return s.Pos }

// StrDecTopDec wraps a top-level structure-level declaration sequence (the
// common case: a program is mostly a sequence of core declarations and
// structure bindings).
type StrDecTopDec struct {
	Dec StrDec
	Pos loc.Loc
}

func (*StrDecTopDec) topDecNode()       {}
func (d *StrDecTopDec) GetLoc() loc.Loc { return d.Pos }

// SigBind is one `sigid = sigexp` clause of a signature declaration.
type SigBind struct {
	Id  strtab.StrId
	Sig SigExp
	Pos loc.Loc
}

// SigDecTopDec is `signature sigbind (and sigbind)*`.
type SigDecTopDec struct {
	Binds []SigBind
	Pos   loc.Loc
}

func (*SigDecTopDec) topDecNode()       {}
func (d *SigDecTopDec) GetLoc() loc.Loc { return d.Pos }
