package pipeline

import (
	"github.com/funvibe/smlfront/internal/ast"
	"github.com/funvibe/smlfront/internal/diagnostics"
	"github.com/funvibe/smlfront/internal/statics"
	"github.com/funvibe/smlfront/internal/strtab"
)

// PipelineContext holds all the data passed between pipeline stages: the
// raw source, the lexer's token stream, the parsed AST, and the Basis the
// checker stage produces. BasisSet distinguishes "not yet checked" from
// "checked against an empty Basis" (a zero-value statics.Basis has nil
// maps, which Clone/WithEnv don't tolerate).
type PipelineContext struct {
	SourceCode string
	FilePath   string

	Interner *strtab.Table

	TokenStream TokenStream
	AstRoot     *ast.Program

	Basis    statics.Basis
	BasisSet bool

	Errors []*diagnostics.DiagnosticError
}

// NewPipelineContext creates a context over a fresh interner with no
// token stream, AST, or Basis yet populated.
func NewPipelineContext(source string) *PipelineContext {
	return &PipelineContext{
		SourceCode: source,
		Interner:   strtab.NewTable(),
		Errors:     []*diagnostics.DiagnosticError{},
	}
}

// AddErrors appends stage errors and back-fills their file path, mirroring
// how each stage's own collector never knows the context's FilePath.
func (ctx *PipelineContext) AddErrors(errs []*diagnostics.DiagnosticError) {
	for _, e := range errs {
		if e.File == "" {
			e.File = ctx.FilePath
		}
		ctx.Errors = append(ctx.Errors, e)
	}
}
