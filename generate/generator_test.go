package generate

import (
	"strings"
	"testing"

	lqdir "github.com/lqd-lang/liquid/ir"
	"github.com/nalgeon/be"
)

func push(t *testing.T, g *Generator, op lqdir.Operation) lqdir.Value {
	t.Helper()

	v, _, err := g.PushInstruction(op)
	be.Err(t, err, nil)
	return v
}

func TestGenerateFunction(t *testing.T) {
	g := NewGenerator()

	puts := g.NewFunction("puts", lqdir.External, []lqdir.Param{{Name: "x", Type: lqdir.I64}}, lqdir.I64)
	div := g.NewFunction("div", lqdir.Private, []lqdir.Param{{Name: "a", Type: lqdir.U64}, {Name: "b", Type: lqdir.U64}}, lqdir.U64)
	main := g.NewFunction("main", lqdir.Public, nil, lqdir.U8)

	be.Err(t, g.SwitchToFunction(div), nil)
	b0, err := g.PushBlock()
	be.Err(t, err, nil)
	be.Err(t, g.SwitchToBlock(b0), nil)

	args, ok := g.FunctionArgs(div)
	be.True(t, ok)
	be.Equal(t, len(args), 2)

	a := push(t, g, lqdir.NewGetVar(lqdir.U64, args[0]))
	b := push(t, g, lqdir.NewGetVar(lqdir.U64, args[1]))
	q := push(t, g, lqdir.NewBinary(lqdir.OpDiv, lqdir.U64, a, b))
	push(t, g, lqdir.NewReturn(q))

	be.Err(t, g.SwitchToFunction(main), nil)
	b1, err := g.PushBlock()
	be.Err(t, err, nil)
	be.Err(t, g.SwitchToBlock(b1), nil)

	x, err := g.PushVariable("x", lqdir.I64)
	be.Err(t, err, nil)

	one := push(t, g, lqdir.NewIntegerValue(lqdir.I64, 1))
	two := push(t, g, lqdir.NewIntegerValue(lqdir.I64, 2))
	diff := push(t, g, lqdir.NewBinary(lqdir.OpSub, lqdir.I64, one, two))
	push(t, g, lqdir.NewSetVar(x, diff))
	push(t, g, lqdir.NewCall(puts, lqdir.I64, []lqdir.Value{diff}))
	lt := push(t, g, lqdir.NewBinary(lqdir.OpLt, lqdir.I64, one, two))
	push(t, g, lqdir.NewReturn(lt))

	be.Err(t, g.Verify(), nil)

	out := g.String()
	for _, want := range []string{
		"declare i64 @puts(",
		"define internal i64 @div(i64 %a, i64 %b)",
		"udiv i64",
		"define external i8 @main()",
		"sub i64 1, 2",
		"call i64 @puts(i64",
		"icmp slt i64 1, 2",
		"zext i1",
		"ret i8",
		"alloca i64",
	} {
		be.True(t, strings.Contains(out, want))
	}
}

func TestGenerateSignedness(t *testing.T) {
	tests := []struct {
		code lqdir.OpCode
		typ  lqdir.Type
		want string
	}{
		{lqdir.OpDiv, lqdir.I64, "sdiv i64"},
		{lqdir.OpDiv, lqdir.U64, "udiv i64"},
		{lqdir.OpGte, lqdir.I64, "icmp sge i64"},
		{lqdir.OpGte, lqdir.U64, "icmp uge i64"},
		{lqdir.OpEq, lqdir.U8, "icmp eq i8"},
	}

	for _, test := range tests {
		t.Run(test.want, func(t *testing.T) {
			g := NewGenerator()
			f := g.NewFunction("f", lqdir.Private, []lqdir.Param{{Name: "a", Type: test.typ}}, test.typ)

			be.Err(t, g.SwitchToFunction(f), nil)
			b, _ := g.PushBlock()
			be.Err(t, g.SwitchToBlock(b), nil)

			args, _ := g.FunctionArgs(f)
			lhs := push(t, g, lqdir.NewGetVar(test.typ, args[0]))
			rhs := push(t, g, lqdir.NewGetVar(test.typ, args[0]))
			push(t, g, lqdir.NewBinary(test.code, test.typ, lhs, rhs))
			push(t, g, lqdir.NewReturn())

			be.True(t, strings.Contains(g.String(), test.want))
		})
	}
}

func TestGenerateErrors(t *testing.T) {
	g := NewGenerator()

	_, err := g.PushBlock()
	be.Err(t, err, "no active function")

	ext := g.NewFunction("ext", lqdir.External, nil, lqdir.Void)
	be.Err(t, g.SwitchToFunction(ext), nil)
	_, err = g.PushBlock()
	be.Err(t, err, "cannot add a block to external function `ext`")

	f := g.NewFunction("f", lqdir.Private, []lqdir.Param{{Name: "a", Type: lqdir.I64}}, lqdir.Void)
	_, ok := g.FunctionArgs(f)
	be.True(t, !ok)

	be.Err(t, g.SwitchToFunction(f), nil)
	_, err = g.PushVariable("x", lqdir.I64)
	be.Err(t, err, "no entry block")

	b, _ := g.PushBlock()
	be.Err(t, g.SwitchToBlock(b), nil)

	_, _, err = g.PushInstruction(lqdir.NewBinary(lqdir.OpAdd, lqdir.I64, 0, 0))
	be.Err(t, err, "undefined value %0")

	_, _, err = g.PushInstruction(lqdir.NewGetVar(lqdir.I64, 5))
	be.Err(t, err, "undefined variable v5")

	be.Err(t, g.Verify(), "is not terminated")

	_, ok, err = g.PushInstruction(lqdir.NewCall(ext, lqdir.Void, nil))
	be.Err(t, err, nil)
	be.True(t, !ok)

	push(t, g, lqdir.NewReturn())
	_, _, err = g.PushInstruction(lqdir.NewReturn())
	be.Err(t, err, "already terminated")
}
