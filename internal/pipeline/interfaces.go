package pipeline

import (
	"github.com/funvibe/smlfront/internal/loc"
	"github.com/funvibe/smlfront/internal/token"
)

// Processor is any stage that can consume and advance a PipelineContext.
type Processor interface {
	Process(ctx *PipelineContext) *PipelineContext
}

// TokenStream is the buffered-token contract a lexer hands to the parser:
// random-access by index rather than a consume-only Next/Peek pair, since
// the parser's speculative fun-clause lookahead needs to rewind.
type TokenStream interface {
	Get(i int) (loc.Located[token.Token], bool)
	LastLoc() (loc.Loc, bool)
}
