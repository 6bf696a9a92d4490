package syntax

import (
	"fmt"

	"github.com/lqd-lang/liquid/report"
)

// Token represents a single lexical token.  Tokens do not copy their text out
// of the source: use Text to retrieve it.
type Token struct {
	// The kind of the token.  This must be one of the enumerated token kinds.
	Kind int

	// The text span over which the token exists.
	Span *report.TextSpan
}

// Text returns the source text of the token.
func (t *Token) Text(src string) string {
	return src[t.Span.Start:t.Span.End]
}

// Structural returns whether the token is visible to the parser.  Whitespace,
// line breaks and comments are not.
func (t *Token) Structural() bool {
	return t.Kind != TOK_SPACE && t.Kind != TOK_NEWLINE && t.Kind != TOK_COMMENT
}

// Enumeration of token kinds.
const (
	TOK_FN = iota
	TOK_LET
	TOK_EXTERN
	TOK_IF
	TOK_ELSE
	TOK_WHILE
	TOK_FOR
	TOK_TRUE
	TOK_FALSE
	TOK_NULL
	TOK_UNDEFINED

	TOK_PLUS
	TOK_MINUS
	TOK_STAR
	TOK_DIV

	TOK_EQ
	TOK_LT
	TOK_GT
	TOK_LTEQ
	TOK_GTEQ

	TOK_ASSIGN
	TOK_ARROW

	TOK_LPAREN
	TOK_RPAREN
	TOK_LBRACE
	TOK_RBRACE
	TOK_LBRACKET
	TOK_RBRACKET
	TOK_COMMA
	TOK_SEMI
	TOK_COLON

	TOK_IDENT
	TOK_NUMLIT

	TOK_SPACE
	TOK_NEWLINE
	TOK_COMMENT

	TOK_EOF
)

var tokenKindNames = [...]string{
	TOK_FN:        "fn",
	TOK_LET:       "let",
	TOK_EXTERN:    "extern",
	TOK_IF:        "if",
	TOK_ELSE:      "else",
	TOK_WHILE:     "while",
	TOK_FOR:       "for",
	TOK_TRUE:      "true",
	TOK_FALSE:     "false",
	TOK_NULL:      "null",
	TOK_UNDEFINED: "undefined",
	TOK_PLUS:      "+",
	TOK_MINUS:     "-",
	TOK_STAR:      "*",
	TOK_DIV:       "/",
	TOK_EQ:        "==",
	TOK_LT:        "<",
	TOK_GT:        ">",
	TOK_LTEQ:      "<=",
	TOK_GTEQ:      ">=",
	TOK_ASSIGN:    "=",
	TOK_ARROW:     "->",
	TOK_LPAREN:    "(",
	TOK_RPAREN:    ")",
	TOK_LBRACE:    "{",
	TOK_RBRACE:    "}",
	TOK_LBRACKET:  "[",
	TOK_RBRACKET:  "]",
	TOK_COMMA:     ",",
	TOK_SEMI:      ";",
	TOK_COLON:     ":",
	TOK_IDENT:     "identifier",
	TOK_NUMLIT:    "number",
	TOK_SPACE:     "space",
	TOK_NEWLINE:   "newline",
	TOK_COMMENT:   "comment",
	TOK_EOF:       "end of file",
}

// TokenKindName returns a human readable name for a token kind.
func TokenKindName(kind int) string {
	if 0 <= kind && kind < len(tokenKindNames) {
		return tokenKindNames[kind]
	}

	return fmt.Sprintf("token(%d)", kind)
}
