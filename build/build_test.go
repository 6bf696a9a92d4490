package build

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lqd-lang/liquid/ast"
	"github.com/lqd-lang/liquid/common"
	"github.com/lqd-lang/liquid/mdtest"
	"github.com/lqd-lang/liquid/report"
	"github.com/lqd-lang/liquid/types"
	"github.com/nalgeon/be"
)

func TestMarkdown(t *testing.T) {
	files, err := filepath.Glob("testdata/*.md")
	be.Err(t, err, nil)
	be.True(t, len(files) > 0)

	for _, file := range files {
		cases, err := mdtest.LoadFile(file)
		be.Err(t, err, nil)

		for _, tc := range cases {
			t.Run(filepath.Base(file)+"/"+tc.Name, func(t *testing.T) {
				for _, a := range tc.Assertions {
					runAssertion(t, tc, a)
				}
			})
		}
	}
}

func runAssertion(t *testing.T, tc mdtest.TestCase, a mdtest.Assertion) {
	t.Helper()

	src := report.NewSource("test.lqd", tc.Input)
	opts := Options{RequireMain: true, Target: common.TargetIR}

	switch a.Kind {
	case mdtest.AssertCST:
		an, err := Analyze(src, opts)
		be.Err(t, err, nil)
		be.Equal(t, ast.Dump(an.Root, tc.Input), strings.TrimSpace(a.Content))
	case mdtest.AssertIR, mdtest.AssertLLVM:
		if a.Kind == mdtest.AssertLLVM {
			opts.Target = common.TargetLLVM
		}

		res, err := Compile(src, opts)
		be.Err(t, err, nil)

		for _, line := range a.Lines() {
			if !strings.Contains(res.Text, line) {
				t.Errorf("line %d: output does not contain %q:\n%s", a.Line, line, res.Text)
			}
		}
	case mdtest.AssertCompileError:
		_, err := Compile(src, opts)
		be.Equal(t, describeError(err), strings.TrimSpace(a.Content))
	default:
		t.Fatalf("line %d: unsupported assertion %s", a.Line, a.Kind)
	}
}

// describeError renders an error as `line:col: kind: message`.
func describeError(err error) string {
	var cerr *report.CompileError
	if !errors.As(err, &cerr) {
		return fmt.Sprintf("not a compile error: %v", err)
	}

	if pos, ok := cerr.Position(); ok {
		return fmt.Sprintf("%d:%d: %s: %s", pos.Line+1, pos.Col+1, cerr.Kind, cerr.Message)
	}

	return fmt.Sprintf("%s: %s", cerr.Kind, cerr.Message)
}

// -----------------------------------------------------------------------------

type recorder struct {
	events []string
}

func (r *recorder) BeginStage(name string) {
	r.events = append(r.events, "begin "+name)
}

func (r *recorder) EndStage(name string, err error) {
	r.events = append(r.events, fmt.Sprintf("end %s %t", name, err == nil))
}

func TestCompileStages(t *testing.T) {
	rec := &recorder{}
	src := report.NewSource("main.lqd", "fn main -> void {}")

	_, err := Compile(src, Options{RequireMain: true, Observer: rec})
	be.Err(t, err, nil)
	be.Equal(t, rec.events, []string{
		"begin Parsing", "end Parsing true",
		"begin Resolving", "end Resolving true",
		"begin Checking main", "end Checking main true",
		"begin Type checking", "end Type checking true",
		"begin Lowering", "end Lowering true",
		"begin Verifying", "end Verifying true",
	})
}

func TestCompileStopsAtFirstFailure(t *testing.T) {
	rec := &recorder{}
	src := report.NewSource("main.lqd", "fn main -> int { true }")

	_, err := Compile(src, Options{Observer: rec})
	be.Err(t, err, "expected int, found bool")
	be.Equal(t, rec.events[len(rec.events)-1], "end Type checking false")

	var cerr *report.CompileError
	be.True(t, errors.As(err, &cerr))
	be.Equal(t, cerr.Source, src)
}

func TestCompileWithoutMain(t *testing.T) {
	src := report.NewSource("lib.lqd", "fn f -> int { 1 }")

	_, err := Compile(src, Options{RequireMain: true})
	be.Err(t, err, "missing main function")

	res, err := Compile(src, Options{})
	be.Err(t, err, nil)
	be.True(t, strings.Contains(res.Text, "private fn f() -> i64 {"))

	_, ok := res.Output.Functions["f"]
	be.True(t, ok)
}

func TestCompileTypeAliases(t *testing.T) {
	tt, err := types.NewTable(map[string]string{"i64": "int"})
	be.Err(t, err, nil)

	src := report.NewSource("main.lqd", "fn main -> i64 { 1 }")
	res, err := Compile(src, Options{Types: tt})
	be.Err(t, err, nil)

	main, ok := res.Table.Lookup("main")
	be.True(t, ok)
	be.Equal(t, main.Return, types.Int)

	_, err = Compile(src, Options{})
	be.Err(t, err, "unknown return type `i64`")
}

func TestAnalyzeKeepsBodies(t *testing.T) {
	src := report.NewSource("main.lqd", "fn main -> int { 1 + 2 }")

	an, err := Analyze(src, Options{RequireMain: true})
	be.Err(t, err, nil)

	main, _ := an.Table.Lookup("main")
	be.Equal(t, len(main.Body), 1)
}

func TestNewBackend(t *testing.T) {
	_, err := NewBackend("wasm", "main")
	be.Err(t, err, "`wasm` is not a valid target")

	for _, target := range []string{"", common.TargetIR, common.TargetLLVM} {
		b, err := NewBackend(target, "main")
		be.Err(t, err, nil)
		be.True(t, b != nil)
	}
}
