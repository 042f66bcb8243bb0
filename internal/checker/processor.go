package checker

import (
	"github.com/funvibe/smlfront/internal/diagnostics"
	"github.com/funvibe/smlfront/internal/loc"
	"github.com/funvibe/smlfront/internal/pipeline"
)

// CheckerProcessor is the third pipeline stage: it elaborates ctx.AstRoot
// against ctx.Basis (seeding the initial Basis on first use) and reports
// the resulting Basis back onto the context.
type CheckerProcessor struct{}

func (cp *CheckerProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if ctx.AstRoot == nil {
		ctx.AddErrors([]*diagnostics.DiagnosticError{
			diagnostics.InternalError(loc.Loc{}, "checker: AST root is nil"),
		})
		return ctx
	}
	c, initial := New(ctx.Interner)
	basis := initial
	if ctx.BasisSet {
		basis = ctx.Basis
	}
	ctx.Basis = c.CheckProgram(basis, ctx.AstRoot)
	ctx.BasisSet = true
	ctx.AddErrors(c.Errors())
	return ctx
}
