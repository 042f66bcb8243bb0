package checker

import (
	"github.com/funvibe/smlfront/internal/ast"
	"github.com/funvibe/smlfront/internal/diagnostics"
	"github.com/funvibe/smlfront/internal/statics"
	"github.com/funvibe/smlfront/internal/typesystem"
)

// ckTy elaborates a syntactic type expression into a semantic Ty, resolving
// type variables against cx.TyVars (binding any not already present — a
// stray tyvar outside a tyvarseq still gets a consistent fresh variable
// for every occurrence within the same elaboration) and type constructors
// against cx.Env.Ty, expanding abbreviations as it goes.
func (c *Checker) ckTy(cx statics.Cx, ty ast.Ty) typesystem.Ty {
	switch t := ty.(type) {
	case *ast.TyVarTy:
		if id, ok := cx.TyVars[t.Id]; ok {
			return &typesystem.Var{Id: id}
		}
		fresh := c.State.FreshTyVar()
		cx.TyVars[t.Id] = fresh.Id
		return fresh
	case *ast.RecordTy:
		fields := make(map[string]typesystem.Ty, len(t.Fields))
		seen := map[string]bool{}
		for _, row := range t.Fields {
			label := c.name(row.Label)
			if seen[label] {
				c.addError(diagnostics.NewCheckerError(row.Pos, diagnostics.ErrDuplicateLabel, label))
				continue
			}
			seen[label] = true
			fields[label] = c.ckTy(cx, row.Ty)
		}
		return &typesystem.Record{Fields: fields}
	case *ast.ArrowTy:
		return &typesystem.Arrow{Dom: c.ckTy(cx, t.Dom), Ran: c.ckTy(cx, t.Ran)}
	case *ast.ConTy:
		args := make([]typesystem.Ty, len(t.Args))
		for i, a := range t.Args {
			args[i] = c.ckTy(cx, a)
		}
		ti, ok := c.resolveTy(cx.Env, t.Id)
		if !ok {
			c.addError(diagnostics.NewCheckerError(t.Pos, diagnostics.ErrUndefined, c.longName(t.Id)))
			return c.errTy()
		}
		if len(args) != ti.Arity {
			c.addError(diagnostics.NewCheckerError(t.Pos, diagnostics.ErrCheckerUnsupported, "wrong number of type arguments to "+c.longName(t.Id)))
			return c.errTy()
		}
		if ti.Datatype {
			return &typesystem.Ctor{Sym: ti.Sym, Name: c.name(t.Id.Id), Args: args}
		}
		return ti.Expand(args)
	default:
		c.addError(diagnostics.NewCheckerError(ty.GetLoc(), diagnostics.ErrCheckerUnsupported, "type expression"))
		return c.errTy()
	}
}

// sconTy gives the type of a special-constant literal of kind. A decimal
// literal is not pinned to int: it gets a fresh variable constrained to
// ClassInt, so it can still unify with word (or default to int at the end
// of the top declaration if nothing else settles it), matching how the
// overloaded arithmetic and relational operators are typed.
func (c *Checker) sconTy(kind ast.SConKind) typesystem.Ty {
	syms := c.State.Syms
	switch kind {
	case ast.SConInt:
		tv := c.State.FreshTyVar()
		c.State.Overload[tv.Id] = typesystem.ClassInt
		return tv
	case ast.SConWord:
		return syms.WordTy()
	case ast.SConReal:
		return syms.RealTy()
	case ast.SConString:
		return syms.StringTy()
	default:
		return syms.CharTy()
	}
}
