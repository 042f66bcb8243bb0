// Package token defines the lexical tokens of Standard ML.
package token

import (
	"fmt"

	"github.com/funvibe/smlfront/internal/strtab"
)

// TokenType classifies a Token.
type TokenType string

const (
	ILLEGAL TokenType = "ILLEGAL"
	EOF     TokenType = "EOF"

	// Identifiers and literals.
	IDENT    TokenType = "IDENT"    // alphanumeric or symbolic identifier
	TYVAR    TokenType = "TYVAR"    // 'a, ''a
	INT      TokenType = "INT"
	WORD     TokenType = "WORD"
	REAL     TokenType = "REAL"
	STRING   TokenType = "STRING"
	CHAR     TokenType = "CHAR"

	// Punctuation.
	LPAREN   TokenType = "("
	RPAREN   TokenType = ")"
	LBRACKET TokenType = "["
	RBRACKET TokenType = "]"
	LBRACE   TokenType = "{"
	RBRACE   TokenType = "}"
	COMMA    TokenType = ","
	SEMI     TokenType = ";"
	DOTDOTDOT TokenType = "..."
	HASH     TokenType = "#"
	COLON    TokenType = ":"
	COLONGT  TokenType = ":>"
	ARROW    TokenType = "->"
	DARROW   TokenType = "=>"
	BAR      TokenType = "|"
	EQUALS   TokenType = "="

	// Keywords.
	ABSTYPE   TokenType = "abstype"
	AND       TokenType = "and"
	ANDALSO   TokenType = "andalso"
	AS        TokenType = "as"
	CASE      TokenType = "case"
	DATATYPE  TokenType = "datatype"
	DO        TokenType = "do"
	ELSE      TokenType = "else"
	END       TokenType = "end"
	EXCEPTION TokenType = "exception"
	FN        TokenType = "fn"
	FUN       TokenType = "fun"
	FUNCTOR   TokenType = "functor"
	HANDLE    TokenType = "handle"
	IF        TokenType = "if"
	IN        TokenType = "in"
	INFIX     TokenType = "infix"
	INFIXR    TokenType = "infixr"
	LET       TokenType = "let"
	LOCAL     TokenType = "local"
	NONFIX    TokenType = "nonfix"
	OF        TokenType = "of"
	OP        TokenType = "op"
	OPEN      TokenType = "open"
	ORELSE    TokenType = "orelse"
	RAISE     TokenType = "raise"
	REC       TokenType = "rec"
	SIG       TokenType = "sig"
	SIGNATURE TokenType = "signature"
	STRUCT    TokenType = "struct"
	STRUCTURE TokenType = "structure"
	THEN      TokenType = "then"
	TYPE      TokenType = "type"
	VAL       TokenType = "val"
	WITH      TokenType = "with"
	WITHTYPE  TokenType = "withtype"
	WHILE     TokenType = "while"
	INCLUDE   TokenType = "include"
	SHARING   TokenType = "sharing"
	WHERE     TokenType = "where"
)

var keywords = map[string]TokenType{
	"abstype": ABSTYPE, "and": AND, "andalso": ANDALSO, "as": AS,
	"case": CASE, "datatype": DATATYPE, "do": DO, "else": ELSE, "end": END,
	"exception": EXCEPTION, "fn": FN, "fun": FUN, "functor": FUNCTOR,
	"handle": HANDLE, "if": IF, "in": IN, "infix": INFIX, "infixr": INFIXR,
	"let": LET, "local": LOCAL, "nonfix": NONFIX, "of": OF, "op": OP,
	"open": OPEN, "orelse": ORELSE, "raise": RAISE, "rec": REC, "sig": SIG,
	"signature": SIGNATURE, "struct": STRUCT, "structure": STRUCTURE,
	"then": THEN, "type": TYPE, "val": VAL, "with": WITH,
	"withtype": WITHTYPE, "while": WHILE, "include": INCLUDE,
	"sharing": SHARING, "where": WHERE,
}

// Lookup returns the keyword TokenType for an alphanumeric spelling, or
// IDENT if it is not a reserved word.
func Lookup(s string) TokenType {
	if t, ok := keywords[s]; ok {
		return t
	}
	return IDENT
}

// IdentKind distinguishes the two lexical classes of SML identifiers.
type IdentKind int

const (
	NotIdent IdentKind = iota
	AlphaNum
	Symbolic
)

// Token is one lexeme with its classification and (for identifiers) its
// interned handle.
type Token struct {
	Type         TokenType
	Lexeme       string
	Id           strtab.StrId // valid only when IdentKind != NotIdent
	IdentKind    IdentKind
	Equality     bool // true for ''a type variables
	NumLabelHint bool // lexeme could also be parsed as a numeric record label
	Lit          any  // int64, string, rune, or a *big.Float-free decimal string for REAL
}

func (t Token) String() string {
	if t.Lexeme != "" {
		return fmt.Sprintf("%s(%q)", t.Type, t.Lexeme)
	}
	return string(t.Type)
}
