// Package lexer tokenizes monty source text: the scanning half of the
// parser front end (ast/parser are its sibling packages), using a
// table-driven token scanner generalized to a Python-shaped
// expression/statement subset.
package lexer

type TokenType int

const (
	EOF TokenType = iota
	NEWLINE
	INDENT
	DEDENT

	NAME
	INT
	FLOAT
	STRING
	BYTES

	// Keywords
	KwAnd
	KwOr
	KwNot
	KwIn
	KwIs
	KwIf
	KwElif
	KwElse
	KwWhile
	KwFor
	KwBreak
	KwContinue
	KwReturn
	KwDef
	KwPass
	KwTry
	KwExcept
	KwFinally
	KwRaise
	KwAssert
	KwWith
	KwAs
	KwImport
	KwFrom
	KwNone
	KwTrue
	KwFalse
	KwNonlocal
	KwGlobal
	KwLambda
	KwClass

	// Operators / punctuation
	PLUS
	MINUS
	STAR
	DOUBLESTAR
	SLASH
	DOUBLESLASH
	PERCENT
	AMP
	PIPE
	CARET
	TILDE
	LSHIFT
	RSHIFT
	LPAREN
	RPAREN
	LBRACKET
	RBRACKET
	LBRACE
	RBRACE
	COMMA
	COLON
	DOT
	ASSIGN
	PLUSEQ
	MINUSEQ
	STAREQ
	SLASHEQ
	PERCENTEQ
	EQ
	NE
	LT
	LE
	GT
	GE
	SEMI
	ARROW
)

var keywords = map[string]TokenType{
	"and": KwAnd, "or": KwOr, "not": KwNot, "in": KwIn, "is": KwIs,
	"if": KwIf, "elif": KwElif, "else": KwElse,
	"while": KwWhile, "for": KwFor, "break": KwBreak, "continue": KwContinue,
	"return": KwReturn, "def": KwDef, "pass": KwPass,
	"try": KwTry, "except": KwExcept, "finally": KwFinally,
	"raise": KwRaise, "assert": KwAssert, "with": KwWith, "as": KwAs,
	"import": KwImport, "from": KwFrom,
	"None": KwNone, "True": KwTrue, "False": KwFalse,
	"nonlocal": KwNonlocal, "global": KwGlobal, "lambda": KwLambda, "class": KwClass,
}

type Token struct {
	Type TokenType
	Text string
	Line int
}
