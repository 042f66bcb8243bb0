// Package pipeline chains the lexer, parser, and checker stages behind a
// common Processor interface so a driver can run "lex then parse then
// check" (or stop early once a stage reports no token stream / no AST)
// without each stage importing the others directly.
package pipeline

// Pipeline represents a sequence of processing stages.
type Pipeline struct {
	processors []Processor
}

// New builds a Pipeline from an ordered list of stages.
func New(processors ...Processor) *Pipeline {
	return &Pipeline{processors: processors}
}

// Run threads ctx through every stage in order, continuing even after a
// stage reports errors so later stages (and their own diagnostics) still
// run where possible.
func (p *Pipeline) Run(ctx *PipelineContext) *PipelineContext {
	for _, proc := range p.processors {
		ctx = proc.Process(ctx)
	}
	return ctx
}
