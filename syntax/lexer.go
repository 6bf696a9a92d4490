package syntax

import (
	"unicode/utf8"

	"github.com/lqd-lang/liquid/report"
)

// Lexer is responsible for tokenizing a source text.  Tokens are produced
// lazily, one per call to NextToken, and the lexer can be restarted from the
// beginning of the source with Reset.
type Lexer struct {
	src string

	// pos is the offset of the next byte to be lexed and start is the offset of
	// the first byte of the token being lexed.
	pos, start int

	// trivia indicates whether non-structural tokens are returned.
	trivia bool
}

// NewLexer creates a new lexer for the given source text which only returns
// structural tokens.
func NewLexer(src string) *Lexer {
	return &Lexer{src: src}
}

// NewTriviaLexer creates a new lexer which returns every token including
// whitespace, line breaks and comments.
func NewTriviaLexer(src string) *Lexer {
	return &Lexer{src: src, trivia: true}
}

// Reset moves the lexer back to the beginning of the source.
func (l *Lexer) Reset() {
	l.pos = 0
	l.start = 0
}

// NextToken retrieves the next token from the source. If the source has ended,
// this will be an EOF token: once the end is reached, every subsequent call
// returns EOF as well.
func (l *Lexer) NextToken() (*Token, error) {
	for {
		tok, err := l.lexToken()
		if err != nil {
			return nil, err
		}

		if l.trivia || tok.Structural() {
			return tok, nil
		}
	}
}

// Tokenize lexes the whole source, returning every token up to and including
// the EOF token.
func (l *Lexer) Tokenize() ([]*Token, error) {
	l.Reset()

	var toks []*Token
	for {
		tok, err := l.NextToken()
		if err != nil {
			return nil, err
		}

		toks = append(toks, tok)

		if tok.Kind == TOK_EOF {
			return toks, nil
		}
	}
}

// lexToken lexes the next token of any kind.
func (l *Lexer) lexToken() (*Token, error) {
	l.mark()

	c, ok := l.peek()
	if !ok {
		return l.makeToken(TOK_EOF), nil
	}

	switch {
	case c == ' ' || c == '\t' || c == '\v' || c == '\f':
		return l.lexRun(TOK_SPACE, isSpace), nil
	case c == '\n' || c == '\r':
		return l.lexRun(TOK_NEWLINE, isLineBreak), nil
	case c == '/':
		return l.lexCommentOrDiv(), nil
	case isDecimalDigit(c):
		return l.lexNumericLit(), nil
	case isFirstIdentChar(c):
		return l.lexIdentOrKeyword(), nil
	default:
		return l.lexPunctOrOper()
	}
}

// lexRun lexes a run of bytes all matching pred.
func (l *Lexer) lexRun(kind int, pred func(byte) bool) *Token {
	for c, ok := l.peek(); ok && pred(c); c, ok = l.peek() {
		l.eat()
	}

	return l.makeToken(kind)
}

// -----------------------------------------------------------------------------

// symbolPatterns maps symbol strings (patterns) to their punctuation/operator
// token kind.
var symbolPatterns = map[string]int{
	"+": TOK_PLUS,
	"-": TOK_MINUS,
	"*": TOK_STAR,
	// Division operator is handled with comment logic.

	"==": TOK_EQ,
	"<":  TOK_LT,
	"<=": TOK_LTEQ,
	">":  TOK_GT,
	">=": TOK_GTEQ,

	"=":  TOK_ASSIGN,
	"->": TOK_ARROW,

	"(": TOK_LPAREN,
	")": TOK_RPAREN,
	"{": TOK_LBRACE,
	"}": TOK_RBRACE,
	"[": TOK_LBRACKET,
	"]": TOK_RBRACKET,
	",": TOK_COMMA,
	";": TOK_SEMI,
	":": TOK_COLON,
}

// lexPunctOrOper lexes a punctuation or operator symbol.  The longest matching
// symbol is always chosen.
func (l *Lexer) lexPunctOrOper() (*Token, error) {
	kind, ok := symbolPatterns[l.src[l.pos:l.pos+1]]
	if !ok {
		r, size := utf8.DecodeRuneInString(l.src[l.pos:])
		return nil, report.Raise(
			report.KindLexical,
			report.NewSpan(l.pos, l.pos+size),
			"unexpected character `%c` at offset %d",
			r,
			l.pos,
		)
	}

	l.eat()

	for l.pos < len(l.src) {
		if _kind, ok := symbolPatterns[l.src[l.start:l.pos+1]]; ok {
			l.eat()
			kind = _kind
		} else {
			break
		}
	}

	return l.makeToken(kind), nil
}

// -----------------------------------------------------------------------------

// keywordPatterns maps keyword strings (patterns) to their keyword token kind.
var keywordPatterns = map[string]int{
	"fn":     TOK_FN,
	"let":    TOK_LET,
	"extern": TOK_EXTERN,

	"if":    TOK_IF,
	"else":  TOK_ELSE,
	"while": TOK_WHILE,
	"for":   TOK_FOR,

	"true":      TOK_TRUE,
	"false":     TOK_FALSE,
	"null":      TOK_NULL,
	"undefined": TOK_UNDEFINED,
}

// lexIdentOrKeyword lexes an identifier or a keyword.
func (l *Lexer) lexIdentOrKeyword() *Token {
	l.eat()

	for c, ok := l.peek(); ok && (isFirstIdentChar(c) || isDecimalDigit(c)); c, ok = l.peek() {
		l.eat()
	}

	if kind, ok := keywordPatterns[l.src[l.start:l.pos]]; ok {
		return l.makeToken(kind)
	}

	return l.makeToken(TOK_IDENT)
}

// -----------------------------------------------------------------------------

// lexNumericLit lexes a numeric literal.
//
//	number = ('0' | nonzero {digit}) ['.' digit {digit}] [('e'|'E') ['+'|'-'] digit {digit}]
//
// A leading zero is a complete integer part by itself.  The fraction and
// exponent are only consumed if they are well-formed: otherwise the literal
// ends before them.
func (l *Lexer) lexNumericLit() *Token {
	if c, _ := l.eat(); c != '0' {
		l.eatDigits()
	}

	// fraction
	if c, ok := l.peekAt(0); ok && c == '.' {
		if d, ok := l.peekAt(1); ok && isDecimalDigit(d) {
			l.eat()
			l.eatDigits()
		}
	}

	// exponent
	if c, ok := l.peekAt(0); ok && (c == 'e' || c == 'E') {
		n := 1
		if sign, ok := l.peekAt(1); ok && (sign == '+' || sign == '-') {
			n = 2
		}

		if d, ok := l.peekAt(n); ok && isDecimalDigit(d) {
			l.pos += n
			l.eatDigits()
		}
	}

	return l.makeToken(TOK_NUMLIT)
}

// eatDigits consumes a run of decimal digits.
func (l *Lexer) eatDigits() {
	for c, ok := l.peek(); ok && isDecimalDigit(c); c, ok = l.peek() {
		l.eat()
	}
}

// -----------------------------------------------------------------------------

// lexCommentOrDiv lexes a line comment or a division token.
func (l *Lexer) lexCommentOrDiv() *Token {
	l.eat()

	if c, ok := l.peek(); !ok || c != '/' {
		return l.makeToken(TOK_DIV)
	}

	for c, ok := l.peek(); ok && !isLineBreak(c); c, ok = l.peek() {
		l.eat()
	}

	return l.makeToken(TOK_COMMENT)
}

// -----------------------------------------------------------------------------

// mark sets the start of the token being lexed to the current position.
func (l *Lexer) mark() {
	l.start = l.pos
}

// makeToken produces a new token of the given kind spanning from the marked
// start to the current position.
func (l *Lexer) makeToken(kind int) *Token {
	return &Token{
		Kind: kind,
		Span: report.NewSpan(l.start, l.pos),
	}
}

// eat moves the lexer forward one byte.  It returns false at the end of the
// source.
func (l *Lexer) eat() (byte, bool) {
	if l.pos >= len(l.src) {
		return 0, false
	}

	c := l.src[l.pos]
	l.pos++
	return c, true
}

// peek returns the next byte in the source without moving the lexer forward.
func (l *Lexer) peek() (byte, bool) {
	return l.peekAt(0)
}

// peekAt returns the byte n bytes ahead of the lexer's position.
func (l *Lexer) peekAt(n int) (byte, bool) {
	if l.pos+n >= len(l.src) {
		return 0, false
	}

	return l.src[l.pos+n], true
}

// -----------------------------------------------------------------------------

// isDecimalDigit returns whether c is a decimal digit.
func isDecimalDigit(c byte) bool {
	return '0' <= c && c <= '9'
}

// isFirstIdentChar returns whether c could be the first byte of an identifier.
func isFirstIdentChar(c byte) bool {
	return 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || c == '_' || c == '$'
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\v' || c == '\f'
}

func isLineBreak(c byte) bool {
	return c == '\n' || c == '\r'
}
