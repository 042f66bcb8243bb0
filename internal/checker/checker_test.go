package checker_test

import (
	"strings"
	"testing"

	"github.com/funvibe/smlfront/internal/checker"
	"github.com/funvibe/smlfront/internal/diagnostics"
	"github.com/funvibe/smlfront/internal/lexer"
	"github.com/funvibe/smlfront/internal/parser"
	"github.com/funvibe/smlfront/internal/pipeline"
)

// checkSource runs the full lexer/parser/checker pipeline over src and
// returns whatever diagnostics any stage raised.
func checkSource(src string) []*diagnostics.DiagnosticError {
	ctx := pipeline.NewPipelineContext(src)
	ctx = (&lexer.LexerProcessor{}).Process(ctx)
	ctx = (&parser.ParserProcessor{}).Process(ctx)
	ctx = (&checker.CheckerProcessor{}).Process(ctx)
	return ctx.Errors
}

func requireNoErrors(t *testing.T, src string) {
	t.Helper()
	errs := checkSource(src)
	if len(errs) > 0 {
		var msgs []string
		for _, e := range errs {
			msgs = append(msgs, e.Error())
		}
		t.Fatalf("expected no errors, got:\n%s\nsource: %s", strings.Join(msgs, "\n"), src)
	}
}

func requireError(t *testing.T, src string, code diagnostics.ErrorCode) {
	t.Helper()
	errs := checkSource(src)
	for _, e := range errs {
		if e.Code == code {
			return
		}
	}
	var msgs []string
	for _, e := range errs {
		msgs = append(msgs, e.Error())
	}
	t.Fatalf("expected error %s, got:\n%s\nsource: %s", code, strings.Join(msgs, "\n"), src)
}

func TestSimpleValDecsCheckCleanly(t *testing.T) {
	requireNoErrors(t, "val x = 1")
	requireNoErrors(t, "val x : int = 1")
	requireNoErrors(t, "val (x, y) = (1, true)")
	requireNoErrors(t, "val f = fn x => x + 1")
}

func TestLetPolymorphismGeneralizesNonExpansiveBindings(t *testing.T) {
	requireNoErrors(t, `
		val id = fn x => x
		val a = id 1
		val b = id true
	`)
}

func TestValueRestrictionSuppressesGeneralizationOfExpansiveBindings(t *testing.T) {
	requireNoErrors(t, `
		fun pair x = (x, x)
		val p = pair 1
	`)
}

func TestUndefinedIdentifierIsReported(t *testing.T) {
	requireError(t, "val x = y", diagnostics.ErrUndefined)
}

func TestTypeMismatchIsReported(t *testing.T) {
	requireError(t, "val x : int = true", diagnostics.ErrHeadMismatch)
	requireError(t, "val f = fn x => x + true", diagnostics.ErrNoSuitableOverload)
}

func TestForbiddenRebindingIsReported(t *testing.T) {
	requireError(t, "fun true x = x", diagnostics.ErrForbiddenBinding)
	requireError(t, "datatype t = nil", diagnostics.ErrForbiddenBinding)
}

func TestFunctionDeclarationsTypecheck(t *testing.T) {
	requireNoErrors(t, "fun f x = x + 1")
	requireNoErrors(t, "fun fact 0 = 1 | fact n = n * fact (n - 1)")
	requireNoErrors(t, `
		datatype intopt = NONE | SOME of int
		fun getOrElse (SOME x) d = x | getOrElse NONE d = d
	`)
}

func TestDatatypeConstructorsElaborate(t *testing.T) {
	requireNoErrors(t, `
		datatype color = Red | Green | Blue
		val c = Red
	`)
	requireNoErrors(t, `
		datatype tree = Leaf | Node of tree * int * tree
		val t = Node (Leaf, 1, Leaf)
	`)
}

func TestTypeVariablesAreGatedUnsupported(t *testing.T) {
	requireError(t, "datatype 'a option = NONE | SOME of 'a", diagnostics.ErrCheckerUnsupported)
	requireError(t, "datatype 'a tree = Leaf | Node of 'a tree * 'a * 'a tree", diagnostics.ErrCheckerUnsupported)
	requireError(t, "type 'a pair = 'a * 'a", diagnostics.ErrCheckerUnsupported)
}

func TestExceptionDeclarationAndRaise(t *testing.T) {
	requireNoErrors(t, `
		exception Fail of string
		val x = (raise Fail "boom") handle Fail msg => 0
	`)
}

func TestNonExhaustiveMatchIsReported(t *testing.T) {
	requireError(t, `
		datatype intopt = NONE | SOME of int
		val f = fn (SOME x) => x
	`, diagnostics.ErrNonExhaustiveMatch)
}

func TestExhaustiveMatchRaisesNoWarning(t *testing.T) {
	requireNoErrors(t, `
		datatype intopt = NONE | SOME of int
		val f = fn (SOME x) => x | NONE => 0
	`)
}

func TestUnreachableMatchArmIsReported(t *testing.T) {
	requireError(t, `
		val f = fn (x : int) => (case x of
			_ => 0
			| 1 => 1)
	`, diagnostics.ErrUnreachableArm)
}

func TestRecordAndTupleBindings(t *testing.T) {
	requireNoErrors(t, "val r = {x = 1, y = true}")
	requireNoErrors(t, "val (a, b, c) = (1, true, \"s\")")
}

func TestRecordRowMismatchIsReported(t *testing.T) {
	requireError(t, `
		fun getX {x = x} = x
		val y = getX {z = 1}
	`, diagnostics.ErrRowMismatch)
}

func TestLocalAndStructureScopingElaborate(t *testing.T) {
	requireNoErrors(t, "local val x = 1 in val y = x + 1 end")
	requireNoErrors(t, "structure S = struct val x = 1 end")
}

func TestOverloadedLiteralsDefaultToIntOrReal(t *testing.T) {
	requireNoErrors(t, "val x = 1 + 2")
	requireNoErrors(t, "val x = 1.0 + 2.0")
}

func TestRebindingDatatypeNameShadowsEarlierBinding(t *testing.T) {
	requireNoErrors(t, `
		datatype t = A
		datatype t = B
	`)
}

func TestSignatureAscriptionIsGatedUnsupported(t *testing.T) {
	requireError(t, "structure S : SIG = struct val x = 1 end", diagnostics.ErrParserUnsupported)
}
