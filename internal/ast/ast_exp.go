package ast

import (
	"github.com/funvibe/smlfront/internal/loc"
	"github.com/funvibe/smlfront/internal/strtab"
)

// SConExp is a special constant literal.
type SConExp struct {
	Kind SConKind
	Lit  any
	Pos  loc.Loc
}

func (*SConExp) expNode()         {}
func (e *SConExp) GetLoc() loc.Loc { return e.Pos }

// VidExp references a value identifier or constructor, possibly qualified
// and/or op-prefixed. Which it is (variable, constructor, exception) is
// resolved by the checker against the environment, not by the parser.
type VidExp struct {
	Op bool
	Id LongId
	Pos loc.Loc
}

func (*VidExp) expNode()          {}
func (e *VidExp) GetLoc() loc.Loc { return e.Pos }

// ExpRow is one label/expression pair of a record expression. Tuples are
// desugared by the parser into a Record whose labels are "1".."n".
type ExpRow struct {
	Label strtab.StrId
	Exp   Exp
	Pos   loc.Loc
}

// RecordExp is a (possibly tuple-sugared) record expression.
type RecordExp struct {
	Fields []ExpRow
	Pos    loc.Loc
}

func (*RecordExp) expNode()          {}
func (e *RecordExp) GetLoc() loc.Loc { return e.Pos }

// AppExp is function application, left-associative by construction.
type AppExp struct {
	Fun Exp
	Arg Exp
	Pos loc.Loc
}

func (*AppExp) expNode()          {}
func (e *AppExp) GetLoc() loc.Loc { return e.Pos }

// TypedExp is `exp : ty`.
type TypedExp struct {
	Exp Exp
	Ty  Ty
	Pos loc.Loc
}

func (*TypedExp) expNode()          {}
func (e *TypedExp) GetLoc() loc.Loc { return e.Pos }

// AndalsoExp / OrelseExp are the two short-circuiting primitives (not
// ordinary infix applications, per the Definition).
type AndalsoExp struct {
	L, R Exp
	Pos  loc.Loc
}

func (*AndalsoExp) expNode()          {}
func (e *AndalsoExp) GetLoc() loc.Loc { return e.Pos }

type OrelseExp struct {
	L, R Exp
	Pos  loc.Loc
}

func (*OrelseExp) expNode()          {}
func (e *OrelseExp) GetLoc() loc.Loc { return e.Pos }

// MatchRule is one `pat => exp` arm of a match.
type MatchRule struct {
	Pat Pat
	Exp Exp
	Pos loc.Loc
}

// HandleExp is `exp handle match`.
type HandleExp struct {
	Exp   Exp
	Rules []MatchRule
	Pos   loc.Loc
}

func (*HandleExp) expNode()          {}
func (e *HandleExp) GetLoc() loc.Loc { return e.Pos }

// RaiseExp is `raise exp`.
type RaiseExp struct {
	Exp Exp
	Pos loc.Loc
}

func (*RaiseExp) expNode()          {}
func (e *RaiseExp) GetLoc() loc.Loc { return e.Pos }

// IfExp is `if exp then exp else exp`.
type IfExp struct {
	Cond, Then, Else Exp
	Pos              loc.Loc
}

func (*IfExp) expNode()          {}
func (e *IfExp) GetLoc() loc.Loc { return e.Pos }

// CaseExp is `case exp of match`.
type CaseExp struct {
	Exp   Exp
	Rules []MatchRule
	Pos   loc.Loc
}

func (*CaseExp) expNode()          {}
func (e *CaseExp) GetLoc() loc.Loc { return e.Pos }

// FnExp is `fn match`.
type FnExp struct {
	Rules []MatchRule
	Pos   loc.Loc
}

func (*FnExp) expNode()          {}
func (e *FnExp) GetLoc() loc.Loc { return e.Pos }

// LetExp is `let dec in exp end`; a `;`-separated body is represented with
// SeqExp.
type LetExp struct {
	Dec  Dec
	Body Exp
	Pos  loc.Loc
}

func (*LetExp) expNode()          {}
func (e *LetExp) GetLoc() loc.Loc { return e.Pos }

// SeqExp is `(exp1; exp2; ...; expn)`, n >= 2. Every sub-expression is
// elaborated; only the last constrains the overall type.
type SeqExp struct {
	Exps []Exp
	Pos  loc.Loc
}

func (*SeqExp) expNode()          {}
func (e *SeqExp) GetLoc() loc.Loc { return e.Pos }
