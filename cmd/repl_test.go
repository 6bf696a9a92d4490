package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/nalgeon/be"
)

func TestSessionDefinitions(t *testing.T) {
	var out bytes.Buffer
	s := newSession(&out)

	be.True(t, s.feed("fn add(a: int, b: int) -> int { a + b }"))
	be.Equal(t, out.String(), "defined add\n")

	out.Reset()
	be.True(t, s.feed("fn main -> int { add(1, 2) }"))
	be.Equal(t, out.String(), "defined main\n")

	out.Reset()
	be.True(t, s.feed(":sigs"))
	be.Equal(t, out.String(), "private fn add(a: int, b: int) -> int\npublic fn main() -> int\n")
}

func TestSessionContinuation(t *testing.T) {
	var out bytes.Buffer
	s := newSession(&out)

	be.True(t, s.feed("fn main -> int {"))
	be.True(t, s.pending != "")
	be.Equal(t, out.String(), "")

	be.True(t, s.feed("  1 + 2"))
	be.True(t, s.feed("}"))
	be.Equal(t, s.pending, "")
	be.Equal(t, out.String(), "defined main\n")
}

func TestSessionErrors(t *testing.T) {
	var out bytes.Buffer
	s := newSession(&out)

	be.True(t, s.feed("fn main -> int { x }"))
	be.True(t, strings.Contains(out.String(), "variable `x` does not exist"))
	be.Equal(t, s.program, "")

	// a rejected definition leaves the session unchanged
	out.Reset()
	be.True(t, s.feed("fn main -> int { 1 }"))
	be.Equal(t, out.String(), "defined main\n")
}

func TestSessionCommands(t *testing.T) {
	var out bytes.Buffer
	s := newSession(&out)

	be.True(t, s.feed("fn main -> int { 1 }"))

	out.Reset()
	be.True(t, s.feed(":ir"))
	be.True(t, strings.Contains(out.String(), "public fn main() -> i64 {"))

	out.Reset()
	be.True(t, s.feed(":llvm"))
	be.True(t, strings.Contains(out.String(), "define external i64 @main()"))

	be.True(t, s.feed(":reset"))
	be.Equal(t, s.program, "")

	be.True(t, !s.feed(":quit"))
}
