package report

import (
	"errors"
	"fmt"
	"testing"

	"github.com/nalgeon/be"
)

func TestSourcePosition(t *testing.T) {
	src := NewSource("pos.lqd", "fn a\n\tb\n\nc")

	be.Equal(t, src.Position(0), Position{Line: 0, Col: 0})
	be.Equal(t, src.Position(3), Position{Line: 0, Col: 3})
	be.Equal(t, src.Position(5), Position{Line: 1, Col: 0})
	be.Equal(t, src.Position(6), Position{Line: 1, Col: 1})
	be.Equal(t, src.Position(8), Position{Line: 2, Col: 0})
	be.Equal(t, src.Position(9), Position{Line: 3, Col: 0})
	be.Equal(t, src.Position(100), Position{Line: 3, Col: 1})

	be.Equal(t, src.Line(1), "\tb")
	be.Equal(t, src.Line(2), "")
	be.Equal(t, src.Line(7), "")
	be.Equal(t, src.Slice(NewSpan(0, 4)), "fn a")
}

func TestExcerptSingleLine(t *testing.T) {
	src := NewSource("main.lqd", "fn main -> void { f(true) }")

	got := Excerpt(src, NewSpan(20, 24), "this should be a int")
	want := "" +
		"1 | fn main -> void { f(true) }\n" +
		"  |                     ^^^^ this should be a int\n"
	be.Equal(t, got, want)
}

func TestExcerptTrimsIndentAndSpansLines(t *testing.T) {
	src := NewSource("main.lqd", "fn main -> int {\n    1 +\n    2\n}")

	// `1 +\n    2`
	got := Excerpt(src, NewSpan(21, 30), "")
	want := "" +
		"2 | 1 +\n" +
		"  | ^^^\n" +
		"3 | 2\n" +
		"  | ^\n"
	be.Equal(t, got, want)
}

func TestExcerptEmptySpan(t *testing.T) {
	src := NewSource("main.lqd", "fn main")

	got := Excerpt(src, NewSpan(7, 7), "")
	want := "" +
		"1 | fn main\n" +
		"  |        ^\n"
	be.Equal(t, got, want)
}

func TestFormatError(t *testing.T) {
	src := NewSource("main.lqd", "fn main -> void {\n  x\n}")

	err := Raise(KindName, NewSpan(20, 21), "variable `%s` does not exist", "x")
	be.Equal(t, WithSource(err, src), error(err))
	be.Equal(t, FormatError(err), ""+
		"main.lqd:2:3: error: variable `x` does not exist\n"+
		"2 | x\n"+
		"  | ^\n")

	noSpan := WithSource(Raise(KindName, nil, "missing main function"), src)
	be.Equal(t, FormatError(noSpan), "main.lqd: error: missing main function\n")

	be.Equal(t, FormatError(errors.New("boom")), "error: boom\n")
}

func TestCompileErrorKinds(t *testing.T) {
	ice := RaiseICE(nil, "even-length operator chain")
	be.Equal(t, ice.Error(), "internal compiler error: even-length operator chain")
	be.True(t, IsInternal(fmt.Errorf("lowering: %w", ice)))

	kind, ok := KindOf(Raise(KindArity, nil, "expected 0 args, found 1"))
	be.True(t, ok)
	be.Equal(t, kind, KindArity)

	_, ok = KindOf(errors.New("plain"))
	be.True(t, !ok)

	labelled := Raise(KindType, NewSpan(1, 2), "expected int, found bool").Labelled("this should be a %s", "int")
	be.Equal(t, labelled.Label, "this should be a int")
	be.True(t, errors.Is(labelled, Raise(KindType, nil, "expected int, found bool")))
}
