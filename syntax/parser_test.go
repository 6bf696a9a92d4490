package syntax

import (
	"testing"

	"github.com/lqd-lang/liquid/ast"
	"github.com/lqd-lang/liquid/report"
	"github.com/nalgeon/be"
)

func mustParse(t *testing.T, src string) *ast.Node {
	t.Helper()

	root, err := Parse(src)
	be.Err(t, err, nil)
	return root
}

func TestParseDump(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			"bare main",
			"fn main -> void {}",
			"(root (fn-def main (def-args) void))",
		},
		{
			"precedence",
			"fn f -> int { 1 + 2 * 3 }",
			"(root (fn-def f (def-args) int (expr (bool-expr (sum (product 1) + (product 2 * 3))))))",
		},
		{
			"left chain",
			"fn f(a: int, b: int) -> int { a - b - 1 }",
			"(root (fn-def f (def-args a int b int) int (expr (bool-expr (sum (product a) - (product b) - (product 1))))))",
		},
		{
			"comparison",
			"fn f -> bool { 1 < 2 }",
			"(root (fn-def f (def-args) bool (expr (bool-expr (sum (product 1)) < (sum (product 2))))))",
		},
		{
			"let and trailing semicolon",
			"fn f -> void { let x = true; }",
			"(root (fn-def f (def-args) void (expr (let x (expr (bool-expr (sum (product true)))))) (expr)))",
		},
		{
			"call and parens",
			"fn f -> int { g((1), x) }",
			"(root (fn-def f (def-args) int (expr (bool-expr (sum (product (fn-call g (call-args (expr (bool-expr (sum (product (expr (bool-expr (sum (product 1)))))))) (expr (bool-expr (sum (product x))))))))))))",
		},
		{
			"extern forms",
			"extern fn puts(s: int) -> int; extern { fn a -> int; fn b -> int { 1 } }",
			"(root (extern (fn-decl puts (def-args s int) int)) (extern (fn-decl a (def-args) int) (fn-def b (def-args) int (expr (bool-expr (sum (product 1)))))))",
		},
		{
			"if",
			"fn f -> void { if x == 1 { g() } }",
			"(root (fn-def f (def-args) void (expr (if (bool-expr (sum (product x)) == (sum (product 1))) (expr (bool-expr (sum (product (fn-call g (call-args))))))))))",
		},
		{
			"nested function",
			"fn f -> void { fn g -> int { 1 }; g() }",
			"(root (fn-def f (def-args) void (expr (fn-def g (def-args) int (expr (bool-expr (sum (product 1)))))) (expr (bool-expr (sum (product (fn-call g (call-args))))))))",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			root := mustParse(t, test.src)
			be.Equal(t, ast.Dump(root, test.src), test.want)
		})
	}
}

func TestParseSpans(t *testing.T) {
	src := "fn main -> void { f(true) }"
	root := mustParse(t, src)

	be.Equal(t, root.Start, 0)
	be.Equal(t, root.End, len(src))

	fn := root.Children[0]
	be.Equal(t, fn.Kind, ast.FnDef)
	be.Equal(t, fn.Text(src), src)

	// the omitted argument set is zero-width after the name
	be.Equal(t, fn.Children[1].Kind, ast.FnDefArgs)
	be.Equal(t, fn.Children[1].Start, 7)
	be.Equal(t, fn.Children[1].End, 7)

	call := fn.Children[3].Children[0].Children[0].Children[0].Children[0]
	be.Equal(t, call.Kind, ast.FnCall)
	be.Equal(t, call.Text(src), "f(true)")
	be.Equal(t, call.Children[1].Text(src), "(true)")
	be.Equal(t, call.Children[1].Children[0].Text(src), "true")
}

func TestParseChainsAreOdd(t *testing.T) {
	src := "fn f(a: int) -> bool { a * 2 / 3 + a - 1 >= (a + a) * 2 }"
	root := mustParse(t, src)

	var walk func(n *ast.Node)
	walk = func(n *ast.Node) {
		if n.Kind.IsChain() {
			be.Equal(t, len(n.Children)%2, 1)
			for i, child := range n.Children {
				be.Equal(t, child.Kind.IsOperator(), i%2 == 1)
			}
		}

		for _, child := range n.Children {
			walk(child)
		}
	}
	walk(root)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		kind report.ErrorKind
		msg  string
		at   int
	}{
		{"empty", "", report.KindSyntax, "unexpected end of file", 0},
		{"missing arrow", "fn main void {}", report.KindSyntax, "unexpected token: `void`", 8},
		{"unclosed body", "fn main -> void {", report.KindSyntax, "unexpected end of file", 17},
		{"missing separator", "fn f -> int { 1 2 }", report.KindSyntax, "unexpected token: `2`", 16},
		{"chained comparison", "fn f -> bool { 1 < 2 < 3 }", report.KindSyntax, "comparison operators cannot be chained", 21},
		{"reserved keyword", "fn f -> int { while }", report.KindSyntax, "unexpected token: `while`", 14},
		{"top level expression", "1 + 2", report.KindSyntax, "unexpected token: `1`", 0},
		{"empty statement", "fn f -> int { ; }", report.KindSyntax, "unexpected token: `;`", 14},
		{"declaration in body", "fn f -> int { fn g -> int; 1 }", report.KindUsage, "function declaration not allowed in function body", 14},
		{"lexical", "fn f -> int { 1 @ 2 }", report.KindLexical, "unexpected character `@` at offset 16", 16},
		{"trailing comma", "fn f(a: int,) -> int { a }", report.KindSyntax, "unexpected token: `)`", 12},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := Parse(test.src)
			be.Err(t, err, test.msg)

			var cerr *report.CompileError
			be.True(t, asCompileError(err, &cerr))
			be.Equal(t, cerr.Kind, test.kind)
			be.Equal(t, cerr.Span.Start, test.at)
		})
	}
}

func TestIsIncomplete(t *testing.T) {
	for _, src := range []string{"fn main -> void {", "extern {", "fn f(a: int", "fn f -> int { 1 +"} {
		_, err := Parse(src)
		be.True(t, IsIncomplete(err, src))
	}

	src := "fn f -> int { 1 2 }"
	_, err := Parse(src)
	be.True(t, !IsIncomplete(err, src))
	be.True(t, !IsIncomplete(nil, src))
}
