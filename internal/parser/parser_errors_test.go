package parser_test

import (
	"strings"
	"testing"

	"github.com/funvibe/smlfront/internal/diagnostics"
	"github.com/funvibe/smlfront/internal/lexer"
	"github.com/funvibe/smlfront/internal/parser"
	"github.com/funvibe/smlfront/internal/pipeline"
)

// parseWithErrors runs the lexer and parser stages and returns whatever
// diagnostics either one raised.
func parseWithErrors(input string) []*diagnostics.DiagnosticError {
	ctx := pipeline.NewPipelineContext(input)
	ctx = (&lexer.LexerProcessor{}).Process(ctx)
	ctx = (&parser.ParserProcessor{}).Process(ctx)
	return ctx.Errors
}

func expectError(t *testing.T, input string, code diagnostics.ErrorCode) *diagnostics.DiagnosticError {
	t.Helper()
	errs := parseWithErrors(input)
	for _, e := range errs {
		if e.Code == code {
			return e
		}
	}
	var msgs []string
	for _, e := range errs {
		msgs = append(msgs, e.Error())
	}
	t.Fatalf("expected error %s, got:\n%s\ninput: %s", code, strings.Join(msgs, "\n"), input)
	return nil
}

func expectNoErrors(t *testing.T, input string) {
	t.Helper()
	errs := parseWithErrors(input)
	if len(errs) > 0 {
		var msgs []string
		for _, e := range errs {
			msgs = append(msgs, e.Error())
		}
		t.Fatalf("expected no errors, got:\n%s\ninput: %s", strings.Join(msgs, "\n"), input)
	}
}

func TestValAndFunDecsParseCleanly(t *testing.T) {
	expectNoErrors(t, "val x = 1")
	expectNoErrors(t, "val (x, y) = (1, 2)")
	expectNoErrors(t, "fun f x = x + 1")
	expectNoErrors(t, "fun f (x, y) = x + y")
	expectNoErrors(t, "fun map f [] = [] | map f (x :: xs) = f x :: map f xs")
}

func TestInfixFunClauseForms(t *testing.T) {
	expectNoErrors(t, "infix 6 ++\nfun (a ++ b) = a")
	expectNoErrors(t, "infix 6 ++\nfun a ++ b = a")
}

func TestDatatypeAndException(t *testing.T) {
	// The parser itself places no gate on a datatype's tyvarseq; the
	// 'a option / 'a tree forms parse cleanly here and are rejected
	// later, at the checker stage (see checker_test.go).
	expectNoErrors(t, "datatype 'a option = NONE | SOME of 'a")
	expectNoErrors(t, "exception Foo of int")
	expectNoErrors(t, "datatype color = Red | Green | Blue")
}

func TestLocalAndStructure(t *testing.T) {
	expectNoErrors(t, "local val x = 1 in val y = x + 1 end")
	expectNoErrors(t, "structure S = struct val x = 1 end")
	expectNoErrors(t, "signature SIG = sig val x : int end")
	expectError(t, "structure S : SIG = struct val x = 1 end", diagnostics.ErrParserUnsupported)
}

func TestFixityRedeclaration(t *testing.T) {
	expectNoErrors(t, "infix 7 +++\nval y = 1 +++ 2")
	expectNoErrors(t, "infixr 5 ::: \nval y = 1 ::: 2 ::: nil")
	expectNoErrors(t, "nonfix +\nval y = + (1, 2)")
}

func TestCaseFnHandleIfWhile(t *testing.T) {
	expectNoErrors(t, "val y = case 1 of 0 => true | _ => false")
	expectNoErrors(t, "val f = fn x => x + 1")
	expectNoErrors(t, "val y = (raise Fail) handle Fail => 1")
	expectNoErrors(t, "val y = if true then 1 else 2")
	expectError(t, "val y = while true do ()", diagnostics.ErrParserUnsupported)
}

func TestUnsupportedConstructsAreGatedNotFatal(t *testing.T) {
	expectError(t, "val y = while true do ()", diagnostics.ErrParserUnsupported)
	expectError(t, "abstype t = T with val x = 1 end", diagnostics.ErrParserUnsupported)
	expectError(t, "val y = #x r", diagnostics.ErrParserUnsupported)
	expectError(t, "functor F (X : SIG) = struct end", diagnostics.ErrParserUnsupported)
	expectError(t, "structure S : SIG = struct val x = 1 end", diagnostics.ErrParserUnsupported)
	expectError(t, "signature SIG = sig include SIG2 end", diagnostics.ErrParserUnsupported)
}

func TestSameFixityDifferentAssociativityIsRejected(t *testing.T) {
	expectError(t, "infix 6 <+>\ninfixr 6 <->\nval y = 1 <+> 2 <-> 3", diagnostics.ErrSameFixityDiffAssoc)
}

func TestFunClauseNameMismatchIsReported(t *testing.T) {
	expectError(t, "fun f x = x | g y = y", diagnostics.ErrFunDecNameMismatch)
}

func TestRealLiteralPatternIsRejected(t *testing.T) {
	expectError(t, "val f = fn 3.14 => 1 | _ => 0", diagnostics.ErrRealPat)
}

func TestExpectedButFoundOnMalformedValDec(t *testing.T) {
	expectError(t, "val = 1", diagnostics.ErrExpectedButFound)
}
