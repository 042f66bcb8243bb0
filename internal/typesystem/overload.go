package typesystem

// OverloadClass is one of the Definition's five built-in overloaded
// literal classes. A type variable constrained by a class may only ever
// be resolved (by unification or by end-of-declaration defaulting) to one
// of that class's member types.
type OverloadClass int

const (
	ClassInt OverloadClass = iota
	ClassWord
	ClassReal
	ClassString
	ClassChar
)

// DefaultOrder lists the overload classes in the Definition's default
// order (Appendix E). End-of-declaration resolution does not read it:
// each pending variable tries the Candidates of its own class, in order.
var DefaultOrder = []OverloadClass{ClassInt, ClassWord, ClassReal, ClassString, ClassChar}

// Candidates returns the concrete ground types, in trial order, that a
// type variable of this class may default to. Only ClassInt has more than
// one candidate (int, then word, as the Definition's "int" literal class
// actually ranges over int and word).
func (c OverloadClass) Candidates(syms *BuiltinSyms) []Ty {
	switch c {
	case ClassInt:
		return []Ty{syms.IntTy(), syms.WordTy()}
	case ClassWord:
		return []Ty{syms.WordTy()}
	case ClassReal:
		return []Ty{syms.RealTy()}
	case ClassString:
		return []Ty{syms.StringTy()}
	case ClassChar:
		return []Ty{syms.CharTy()}
	default:
		return nil
	}
}

// BuiltinSyms gives overload defaulting access to the nominal Syms of the
// built-in ground types without importing the statics package (which
// itself imports typesystem), avoiding an import cycle.
type BuiltinSyms struct {
	Int, Word, Real, String, Char, Bool, List, Unit, Exn, RefSym Sym
}

func (b *BuiltinSyms) IntTy() Ty    { return &Ctor{Sym: b.Int, Name: "int"} }
func (b *BuiltinSyms) WordTy() Ty   { return &Ctor{Sym: b.Word, Name: "word"} }
func (b *BuiltinSyms) RealTy() Ty   { return &Ctor{Sym: b.Real, Name: "real"} }
func (b *BuiltinSyms) StringTy() Ty { return &Ctor{Sym: b.String, Name: "string"} }
func (b *BuiltinSyms) CharTy() Ty   { return &Ctor{Sym: b.Char, Name: "char"} }
func (b *BuiltinSyms) BoolTy() Ty   { return &Ctor{Sym: b.Bool, Name: "bool"} }
func (b *BuiltinSyms) UnitTy() Ty   { return UnitTy() }
func (b *BuiltinSyms) ExnTy() Ty    { return &Ctor{Sym: b.Exn, Name: "exn"} }
func (b *BuiltinSyms) ListTy(elem Ty) Ty {
	return &Ctor{Sym: b.List, Name: "list", Args: []Ty{elem}}
}
func (b *BuiltinSyms) RefTy(elem Ty) Ty {
	return &Ctor{Sym: b.RefSym, Name: "ref", Args: []Ty{elem}}
}
