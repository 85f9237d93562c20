package syntax

import "plcc/report"

// Token represents a single lexical token.
type Token struct {
	// The kind of the token.  This must be one of the enumerated token kinds.
	Kind int

	// The string value of the token.  Keywords are upper-cased; all other
	// tokens hold their source text.
	Value string

	// The text span over which the token exists.
	Span *report.TextSpan
}

// Enumeration of token kinds.
const (
	TOK_NOT = iota
	TOK_REFTO

	TOK_PLUS
	TOK_MINUS
	TOK_STAR
	TOK_DIV

	TOK_LPAREN
	TOK_RPAREN
	TOK_COMMA
	TOK_RANGETO

	TOK_IDENT
	TOK_INTLIT
	TOK_REALLIT
	TOK_BOOLLIT

	TOK_EOF
)
