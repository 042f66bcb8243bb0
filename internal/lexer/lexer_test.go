package lexer_test

import (
	"testing"

	"github.com/funvibe/smlfront/internal/lexer"
	"github.com/funvibe/smlfront/internal/strtab"
	"github.com/funvibe/smlfront/internal/token"
)

// scan runs the lexer over input and returns its tokens (excluding the
// trailing EOF) alongside the interner it used.
func scan(t *testing.T, input string) ([]token.Token, *strtab.Table) {
	t.Helper()
	interner := strtab.NewTable()
	l := lexer.New(input, interner)
	if errs := l.Errors(); len(errs) > 0 {
		t.Fatalf("unexpected lexer errors for %q: %v", input, errs)
	}
	var toks []token.Token
	for i := 0; i < l.Len(); i++ {
		tok, ok := l.Get(i)
		if !ok {
			t.Fatalf("Get(%d) reported missing token within Len()", i)
		}
		if tok.Val.Type == token.EOF {
			break
		}
		toks = append(toks, tok.Val)
	}
	return toks, interner
}

func assertTypes(t *testing.T, toks []token.Token, want ...token.TokenType) {
	t.Helper()
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens %v, want %d of type %v", len(toks), toks, len(want), want)
	}
	for i, tt := range want {
		if toks[i].Type != tt {
			t.Errorf("token %d: got %s, want %s", i, toks[i].Type, tt)
		}
	}
}

func TestKeywordsAndIdents(t *testing.T) {
	toks, _ := scan(t, "val x = y")
	assertTypes(t, toks, token.VAL, token.IDENT, token.EQUALS, token.IDENT)
	if toks[1].Lexeme != "x" || toks[3].Lexeme != "y" {
		t.Errorf("unexpected lexemes: %q, %q", toks[1].Lexeme, toks[3].Lexeme)
	}
}

func TestSymbolicIdentifiersAreNotSplit(t *testing.T) {
	toks, _ := scan(t, "a <> b")
	assertTypes(t, toks, token.IDENT, token.IDENT, token.IDENT)
	if toks[1].Lexeme != "<>" || toks[1].IdentKind != token.Symbolic {
		t.Fatalf("expected a single symbolic identifier \"<>\", got %+v", toks[1])
	}
}

func TestReservedSymbolsGetDedicatedTokenTypes(t *testing.T) {
	toks, _ := scan(t, "= : :> -> => | #")
	assertTypes(t, toks, token.EQUALS, token.COLON, token.COLONGT, token.ARROW, token.DARROW, token.BAR, token.HASH)
}

func TestQualifiedLongIdentifierDotIsPlainIdent(t *testing.T) {
	toks, _ := scan(t, "Foo.Bar.baz")
	assertTypes(t, toks, token.IDENT, token.IDENT, token.IDENT, token.IDENT, token.IDENT)
	if toks[1].Lexeme != "." || toks[1].IdentKind != token.NotIdent {
		t.Fatalf("expected bare dot separator, got %+v", toks[1])
	}
}

func TestTypeVariable(t *testing.T) {
	toks, _ := scan(t, "'a ''b")
	assertTypes(t, toks, token.TYVAR, token.TYVAR)
	if toks[0].Equality {
		t.Errorf("'a should not be an equality type variable")
	}
	if !toks[1].Equality {
		t.Errorf("''b should be an equality type variable")
	}
}

func TestIntWordAndRealLiterals(t *testing.T) {
	toks, _ := scan(t, "123 ~45 0w7 3.14")
	assertTypes(t, toks, token.INT, token.INT, token.WORD, token.REAL)
	if toks[1].Lit.(int64) != -45 {
		t.Errorf("expected ~45 to lex as -45, got %v", toks[1].Lit)
	}
}

func TestStringAndCharLiterals(t *testing.T) {
	toks, _ := scan(t, `"hi\n" #"x"`)
	assertTypes(t, toks, token.STRING, token.CHAR)
	if toks[0].Lit.(string) != "hi\n" {
		t.Errorf("expected escaped newline, got %q", toks[0].Lit)
	}
}

func TestNestedComments(t *testing.T) {
	toks, _ := scan(t, "val (* outer (* inner *) still outer *) x = 1")
	assertTypes(t, toks, token.VAL, token.IDENT, token.EQUALS, token.INT)
}

func TestInternerSharedAcrossIdenticalSpellings(t *testing.T) {
	toks, interner := scan(t, "val f = f")
	id1 := toks[1].Id
	id2 := toks[3].Id
	if id1 != id2 {
		t.Fatalf("expected the two occurrences of \"f\" to share one StrId, got %d and %d", id1, id2)
	}
	if name, ok := interner.TryLookup(id1); !ok || name != "f" {
		t.Fatalf("TryLookup(%d) = %q, %v, want \"f\", true", id1, name, ok)
	}
}

func TestReservedOperatorsInternToStableIds(t *testing.T) {
	toks, interner := scan(t, "+ - * / ::")
	assertTypes(t, toks, token.IDENT, token.IDENT, token.IDENT, token.IDENT, token.IDENT)
	if toks[0].Id != strtab.Plus || toks[1].Id != strtab.Minus || toks[2].Id != strtab.Star ||
		toks[3].Id != strtab.Slash || toks[4].Id != strtab.Cons {
		t.Fatalf("expected reserved operator StrIds to line up with strtab constants")
	}
	_ = interner
}

func TestIllegalCharacterIsReportedAndDoesNotPanic(t *testing.T) {
	interner := strtab.NewTable()
	l := lexer.New("val x = § ", interner)
	if len(l.Errors()) == 0 {
		t.Fatalf("expected an error for the illegal section-sign character")
	}
}
