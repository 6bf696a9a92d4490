// Package build drives the compilation of a single lqd source: it composes
// the parsing, resolution, checking and lowering passes into one pipeline and
// selects the IR backend for the output target.
package build

import (
	"fmt"

	"github.com/lqd-lang/liquid/ast"
	"github.com/lqd-lang/liquid/common"
	"github.com/lqd-lang/liquid/generate"
	"github.com/lqd-lang/liquid/ir"
	"github.com/lqd-lang/liquid/lower"
	"github.com/lqd-lang/liquid/pass"
	"github.com/lqd-lang/liquid/report"
	"github.com/lqd-lang/liquid/resolve"
	"github.com/lqd-lang/liquid/syntax"
	"github.com/lqd-lang/liquid/types"
	"github.com/lqd-lang/liquid/walk"
)

// Options configures a compilation.
type Options struct {
	// Types is the type table used to resolve type names.  The builtin table
	// is used if it is nil.
	Types *types.Table

	// RequireMain indicates whether a missing main function is an error.
	RequireMain bool

	// Target is the output target.  It defaults to textual IR.
	Target string

	// Observer, if not nil, is notified as each stage begins and ends.
	Observer pass.Observer
}

// Analysis is the result of the front end: the syntax tree and the checked
// signature table.
type Analysis struct {
	Root  *ast.Node
	Table *resolve.Table
}

// Result is the result of a full compilation.
type Result struct {
	*Analysis

	// Output maps function names to their IR functions.
	Output *lower.Output

	// Text is the rendered output in the requested target format.
	Text string
}

// Backend is an IR builder which can render what it has built.
type Backend interface {
	ir.Builder

	// Verify checks that every function built is complete.
	Verify() error

	String() string
}

// NewBackend creates the IR backend for an output target.
func NewBackend(target, name string) (Backend, error) {
	switch target {
	case "", common.TargetIR:
		return ir.NewModuleBuilder(name), nil
	case common.TargetLLVM:
		g := generate.NewGenerator()
		g.Module().SourceFilename = name
		return g, nil
	default:
		return nil, fmt.Errorf("`%s` is not a valid target", target)
	}
}

// -----------------------------------------------------------------------------

// parseStage is the parsing pass as a pipeline stage.
var parseStage = pass.Stage[pass.None, *ast.Node]{
	Name: "Parsing",
	Fn: func(_ pass.None, src *report.Source) (*ast.Node, error) {
		return syntax.Parse(src.Text)
	},
}

// Analyze runs the front end over a source: parsing, signature collection,
// the main function check (if requested) and type checking.
func Analyze(src *report.Source, opts Options) (*Analysis, error) {
	r, an := analyze(src, opts)
	if err := r.Err(); err != nil {
		return nil, err
	}

	return an, nil
}

func analyze(src *report.Source, opts Options) (*pass.Runner[*resolve.Table, pass.None], *Analysis) {
	tt := opts.Types
	if tt == nil {
		tt = types.DefaultTable()
	}

	parsed := pass.Run(pass.New(src).Observe(opts.Observer), parseStage)
	root, _ := parsed.Result()

	resolved := pass.Run(parsed, resolve.Stage(tt))
	if opts.RequireMain {
		resolved = pass.Inject(resolved, resolve.MainCheck)
	}

	checked := pass.Inject(resolved, walk.Stage(tt))
	table, _ := checked.Result()

	return checked, &Analysis{Root: root, Table: table}
}

// Compile compiles a source to the requested target.
func Compile(src *report.Source, opts Options) (*Result, error) {
	backend, err := NewBackend(opts.Target, src.Name)
	if err != nil {
		return nil, err
	}

	tt := opts.Types
	if tt == nil {
		tt = types.DefaultTable()
		opts.Types = tt
	}

	checked, an := analyze(src, opts)

	lowered := pass.RunWithArg(pass.SetArg[*resolve.Table, pass.None, ir.Builder](checked, backend), lower.Stage(tt))
	lowered = pass.InjectWithArg(lowered, pass.ArgCheck[*lower.Output, ir.Builder]{
		Name: "Verifying",
		Fn: func(_ *lower.Output, _ ir.Builder, _ *report.Source) error {
			if err := backend.Verify(); err != nil {
				return report.RaiseICE(nil, "%s", err)
			}

			return nil
		},
	})

	out, err := lowered.Result()
	if err != nil {
		return nil, err
	}

	return &Result{Analysis: an, Output: out, Text: backend.String()}, nil
}
