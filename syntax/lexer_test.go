package syntax

import (
	"errors"
	"testing"

	"github.com/lqd-lang/liquid/report"
	"github.com/nalgeon/be"
)

func lexKinds(t *testing.T, l *Lexer) []int {
	t.Helper()

	toks, err := l.Tokenize()
	be.Err(t, err, nil)

	kinds := make([]int, len(toks))
	for i, tok := range toks {
		kinds[i] = tok.Kind
	}

	return kinds
}

func TestLexStructural(t *testing.T) {
	src := "fn main(x: int) -> void { let y = x <= 10; // done\n}"

	got := lexKinds(t, NewLexer(src))
	want := []int{
		TOK_FN, TOK_IDENT, TOK_LPAREN, TOK_IDENT, TOK_COLON, TOK_IDENT, TOK_RPAREN,
		TOK_ARROW, TOK_IDENT, TOK_LBRACE, TOK_LET, TOK_IDENT, TOK_ASSIGN, TOK_IDENT,
		TOK_LTEQ, TOK_NUMLIT, TOK_SEMI, TOK_RBRACE, TOK_EOF,
	}
	be.Equal(t, got, want)
}

func TestLexTriviaCoversInput(t *testing.T) {
	src := "fn  a\r\n// note\n\t-> $b_1 == 0.5e+3"

	toks, err := NewTriviaLexer(src).Tokenize()
	be.Err(t, err, nil)

	// tokens cover the input without gaps
	offset := 0
	for _, tok := range toks {
		be.Equal(t, tok.Span.Start, offset)
		offset = tok.Span.End
	}
	be.Equal(t, offset, len(src))

	var kinds []int
	var texts []string
	for _, tok := range toks {
		kinds = append(kinds, tok.Kind)
		texts = append(texts, tok.Text(src))
	}

	be.Equal(t, kinds, []int{
		TOK_FN, TOK_SPACE, TOK_IDENT, TOK_NEWLINE, TOK_COMMENT, TOK_NEWLINE,
		TOK_SPACE, TOK_ARROW, TOK_SPACE, TOK_IDENT, TOK_SPACE, TOK_EQ, TOK_SPACE,
		TOK_NUMLIT, TOK_EOF,
	})
	be.Equal(t, texts[4], "// note")
	be.Equal(t, texts[9], "$b_1")
	be.Equal(t, texts[13], "0.5e+3")
}

func TestLexKeywordsAfterIdentifiers(t *testing.T) {
	src := "if iffy else while for true false null undefined extern letter"

	got := lexKinds(t, NewLexer(src))
	be.Equal(t, got, []int{
		TOK_IF, TOK_IDENT, TOK_ELSE, TOK_WHILE, TOK_FOR, TOK_TRUE, TOK_FALSE,
		TOK_NULL, TOK_UNDEFINED, TOK_EXTERN, TOK_IDENT, TOK_EOF,
	})
}

func TestLexLongestMatch(t *testing.T) {
	got := lexKinds(t, NewLexer("-> - > >= > = == = <= < / * + ,[]"))
	be.Equal(t, got, []int{
		TOK_ARROW, TOK_MINUS, TOK_GT, TOK_GTEQ, TOK_GT, TOK_ASSIGN, TOK_EQ,
		TOK_ASSIGN, TOK_LTEQ, TOK_LT, TOK_DIV, TOK_STAR, TOK_PLUS, TOK_COMMA,
		TOK_LBRACKET, TOK_RBRACKET, TOK_EOF,
	})
}

func TestLexNumbers(t *testing.T) {
	tests := []struct {
		src   string
		texts []string
	}{
		{"0", []string{"0"}},
		{"1234567890", []string{"1234567890"}},
		{"007", []string{"0", "0", "7"}},
		{"1.25", []string{"1.25"}},
		{"3e10", []string{"3e10"}},
		{"4E-2", []string{"4E-2"}},
		{"6e", []string{"6", "e"}},
	}

	for _, test := range tests {
		t.Run(test.src, func(t *testing.T) {
			l := NewLexer(test.src)

			var texts []string
			for {
				tok, err := l.NextToken()
				be.Err(t, err, nil)

				if tok.Kind == TOK_EOF {
					break
				}

				texts = append(texts, tok.Text(test.src))
			}

			be.Equal(t, texts, test.texts)
		})
	}
}

func TestLexUnknownCharacter(t *testing.T) {
	l := NewLexer("fn a -> int { 1 # 2 }")

	var err error
	for err == nil {
		var tok *Token
		tok, err = l.NextToken()
		if err == nil && tok.Kind == TOK_EOF {
			t.Fatal("expected a lexical error")
		}
	}

	var cerr *report.CompileError
	be.True(t, asCompileError(err, &cerr))
	be.Equal(t, cerr.Kind, report.KindLexical)
	be.Equal(t, *cerr.Span, report.TextSpan{Start: 16, End: 17})
	be.Err(t, err, "offset 16")
}

func TestLexDanglingFraction(t *testing.T) {
	l := NewLexer("5.")

	tok, err := l.NextToken()
	be.Err(t, err, nil)
	be.Equal(t, tok.Kind, TOK_NUMLIT)
	be.Equal(t, *tok.Span, report.TextSpan{Start: 0, End: 1})

	_, err = l.NextToken()
	be.Err(t, err, "unexpected character `.` at offset 1")
}

func asCompileError(err error, target **report.CompileError) bool {
	return errors.As(err, target)
}

func TestLexResetAndEOF(t *testing.T) {
	l := NewLexer("x")

	first, err := l.NextToken()
	be.Err(t, err, nil)
	be.Equal(t, first.Kind, TOK_IDENT)

	for i := 0; i < 3; i++ {
		tok, err := l.NextToken()
		be.Err(t, err, nil)
		be.Equal(t, tok.Kind, TOK_EOF)
		be.Equal(t, *tok.Span, report.TextSpan{Start: 1, End: 1})
	}

	l.Reset()
	again, err := l.NextToken()
	be.Err(t, err, nil)
	be.Equal(t, *again.Span, *first.Span)
}
