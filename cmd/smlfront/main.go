// Command smlfront parses and statically checks a Standard ML source file,
// printing any diagnostics the parser or checker raised.
package main

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/funvibe/smlfront/internal/checker"
	"github.com/funvibe/smlfront/internal/config"
	"github.com/funvibe/smlfront/internal/diagnostics"
	"github.com/funvibe/smlfront/internal/lexer"
	"github.com/funvibe/smlfront/internal/parser"
	"github.com/funvibe/smlfront/internal/pipeline"
)

func colorEnabled() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if os.Getenv("TERM") == "dumb" {
		return false
	}
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}

func printDiagnostics(errs []error, color bool) {
	const (
		red   = "\x1b[31m"
		reset = "\x1b[0m"
	)
	for _, e := range errs {
		if color {
			fmt.Fprintf(os.Stderr, "%s%s%s\n", red, e.Error(), reset)
		} else {
			fmt.Fprintln(os.Stderr, e.Error())
		}
	}
}

func run(path string) int {
	opts, err := config.Load("smlfront.yaml")
	if err != nil {
		fmt.Fprintf(os.Stderr, "smlfront: reading config: %v\n", err)
		return 1
	}

	src, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "smlfront: %v\n", err)
		return 1
	}

	ctx := pipeline.NewPipelineContext(string(src))
	ctx.FilePath = path

	pl := pipeline.New(&lexer.LexerProcessor{}, &parser.ParserProcessor{}, &checker.CheckerProcessor{})
	ctx = pl.Run(ctx)

	errs := ctx.Errors
	if opts.MaxErrors > 0 && len(errs) > opts.MaxErrors {
		errs = errs[:opts.MaxErrors]
	}

	asErrors := make([]error, len(errs))
	unsupported := 0
	for i, e := range errs {
		asErrors[i] = e
		if e.Code == diagnostics.ErrParserUnsupported || e.Code == diagnostics.ErrCheckerUnsupported {
			unsupported++
		}
	}
	printDiagnostics(asErrors, colorEnabled())

	if len(errs) == 0 {
		return 0
	}
	if opts.StrictUnsupported || unsupported < len(errs) {
		return 1
	}
	return 0
}

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: smlfront <file.sml>")
		os.Exit(2)
	}
	os.Exit(run(os.Args[1]))
}
