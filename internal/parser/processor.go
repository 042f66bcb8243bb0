package parser

import (
	"github.com/funvibe/smlfront/internal/ast"
	"github.com/funvibe/smlfront/internal/diagnostics"
	"github.com/funvibe/smlfront/internal/loc"
	"github.com/funvibe/smlfront/internal/pipeline"
)

// ParserProcessor is the second pipeline stage: it turns ctx.TokenStream
// into ctx.AstRoot, sharing ctx.Interner with the lexer stage that
// produced the stream. A failed parse leaves ctx.AstRoot nil; the one
// diagnostic responsible is still reported through ctx.Errors.
type ParserProcessor struct{}

func (pp *ParserProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if ctx.TokenStream == nil {
		ctx.AddErrors([]*diagnostics.DiagnosticError{
			diagnostics.InternalError(loc.Loc{}, "parser: token stream is nil"),
		})
		return ctx
	}
	p := New(ctx.TokenStream, ctx.Interner)
	decs, err := p.ParseProgram()
	if err != nil {
		ctx.AddErrors(p.Errors())
		return ctx
	}
	pos := loc.Loc{}
	if len(decs) > 0 {
		pos = loc.Span(decs[0].GetLoc(), decs[len(decs)-1].GetLoc())
	}
	ctx.AstRoot = &ast.Program{Decs: decs, Pos: pos}
	ctx.AddErrors(p.Errors())
	return ctx
}
