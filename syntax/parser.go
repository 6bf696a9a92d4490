package syntax

import (
	"errors"

	"github.com/lqd-lang/liquid/ast"
	"github.com/lqd-lang/liquid/report"
)

// NOTE: All parsing functions (that are not utility/API functions) are
// commented with the EBNF notation of the grammar they parse.

// Parser is the parser for an lqd source text.  It is a recursive descent
// parser which produces a concrete syntax tree.  All parsing functions assume
// that they begin with the parser centered on the first token of their
// production and must consume all tokens (including the last) of their
// production, leaving the parser on the next token.  The first error
// encountered aborts the parse: there is no error recovery.
type Parser struct {
	// src is the source text being parsed.
	src string

	// lexer is the Lexer this parser is using to lex the source text.
	lexer *Lexer

	// tok is the current token the parser is positioned on.
	tok *Token
}

// NewParser creates a new parser for the given source text.
func NewParser(src string) *Parser {
	return &Parser{
		src:   src,
		lexer: NewLexer(src),
	}
}

// Parse parses a source text into a single root node.
func Parse(src string) (*ast.Node, error) {
	return NewParser(src).Parse()
}

// Parse parses the source text and returns the root of the syntax tree.
func (p *Parser) Parse() (*ast.Node, error) {
	// move the parser onto the first token
	if err := p.next(); err != nil {
		return nil, err
	}

	return p.parseFile()
}

// IsIncomplete returns whether err is a syntax error caused by the source
// ending too early: ie. more input could make the source parse.
func IsIncomplete(err error, src string) bool {
	var cerr *report.CompileError
	if !errors.As(err, &cerr) || cerr.Kind != report.KindSyntax || cerr.Span == nil {
		return false
	}

	return cerr.Span.Start >= len(src)
}

// -----------------------------------------------------------------------------

// next moves the parser forward one token.
func (p *Parser) next() error {
	tok, err := p.lexer.NextToken()
	if err != nil {
		return err
	}

	p.tok = tok
	return nil
}

// got returns true if the parser is on a token of a given kind.
func (p *Parser) got(kind int) bool {
	return p.tok.Kind == kind
}

// gotOneOf returns if the parser's current token kind is one of given kinds.
func (p *Parser) gotOneOf(kinds ...int) bool {
	for _, kind := range kinds {
		if p.tok.Kind == kind {
			return true
		}
	}

	return false
}

// assert checks if the parser is on a token of a given kind and rejects the
// token if not.
func (p *Parser) assert(kind int) error {
	if p.got(kind) {
		return nil
	}

	return p.reject()
}

// assertAndNext performs an assert operation and moves the parser forward.
func (p *Parser) assertAndNext(kind int) error {
	if err := p.assert(kind); err != nil {
		return err
	}

	return p.next()
}

// leaf asserts that the parser is on a token of the given kind, creates a leaf
// node over it and moves the parser forward.
func (p *Parser) leaf(tokKind int, nodeKind ast.NodeKind) (*ast.Node, error) {
	if err := p.assert(tokKind); err != nil {
		return nil, err
	}

	n := ast.NewLeaf(nodeKind, p.tok.Span.Start, p.tok.Span.End)
	return n, p.next()
}

// -----------------------------------------------------------------------------

// reject returns an unexpected token error on the current token.
func (p *Parser) reject() error {
	if p.got(TOK_EOF) {
		return report.Raise(report.KindSyntax, p.tok.Span, "unexpected end of file")
	}

	return report.Raise(report.KindSyntax, p.tok.Span, "unexpected token: `%s`", p.tok.Text(p.src))
}

// rejectWithMsg rejects the current token with a specific message.
func (p *Parser) rejectWithMsg(msg string, a ...interface{}) error {
	return report.Raise(report.KindSyntax, p.tok.Span, msg, a...)
}
