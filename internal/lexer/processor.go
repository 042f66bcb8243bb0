package lexer

import (
	"github.com/funvibe/smlfront/internal/pipeline"
)

// LexerProcessor is the first pipeline stage: it scans ctx.SourceCode into
// a token stream using ctx.Interner, so every later stage sees identifiers
// through the same strtab.Table.
type LexerProcessor struct{}

func (lp *LexerProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	l := New(ctx.SourceCode, ctx.Interner)
	ctx.TokenStream = l
	ctx.AddErrors(l.Errors())
	return ctx
}
