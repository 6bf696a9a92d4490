package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/lqd-lang/liquid/ast"
	"github.com/lqd-lang/liquid/build"
	"github.com/lqd-lang/liquid/mods"
	"github.com/lqd-lang/liquid/report"

	"github.com/kr/pretty"
)

var errNoCommand = errors.New("missing command: run `lqdc -h` for usage")

// showPhases indicates whether the compilation phases are displayed as they
// run.  Phases are only displayed on terminals.
var showPhases bool

// Compiler represents the state of a single compilation of a project.
type Compiler struct {
	// proj is the project being compiled.
	proj *mods.Project

	// src is the entry source of the project.  It is nil until the source has
	// been read.
	src *report.Source
}

// NewCompiler creates a new compiler for a project.
func NewCompiler(proj *mods.Project) *Compiler {
	return &Compiler{proj: proj}
}

// Analyze runs the analysis phase of the compiler.
func (c *Compiler) Analyze() (*build.Analysis, bool) {
	if !c.readSource() {
		return nil, false
	}

	an, err := build.Analyze(c.src, c.options())
	if err != nil {
		reportError(err)
		return nil, false
	}

	return an, true
}

// Compile runs every phase of the compiler and writes the output file.
func (c *Compiler) Compile() bool {
	if !c.readSource() {
		return false
	}

	res, err := build.Compile(c.src, c.options())
	if err != nil {
		reportError(err)
		return false
	}

	if err := os.MkdirAll(filepath.Dir(c.proj.OutputPath), 0o755); err != nil {
		report.ReportStdError("output", err)
		return false
	}

	if err := os.WriteFile(c.proj.OutputPath, []byte(res.Text), 0o644); err != nil {
		report.ReportStdError("output", err)
		return false
	}

	return true
}

// readSource reads the entry source of the project.
func (c *Compiler) readSource() bool {
	buff, err := os.ReadFile(c.proj.EntryPath)
	if err != nil {
		report.ReportStdError("source", err)
		return false
	}

	// diagnostics refer to the source relative to the working directory
	name := c.proj.EntryPath
	if wd, err := os.Getwd(); err == nil {
		if rel, err := filepath.Rel(wd, name); err == nil {
			name = rel
		}
	}

	c.src = report.NewSource(filepath.ToSlash(name), string(buff))
	return true
}

func (c *Compiler) options() build.Options {
	opts := build.Options{
		Types:       c.proj.Types,
		RequireMain: c.proj.RequireMain,
		Target:      c.proj.Target,
	}

	if showPhases {
		opts.Observer = phaseObserver{}
	}

	return opts
}

// reportError reports an error produced by a compilation.
func reportError(err error) {
	if _, ok := report.KindOf(err); ok {
		report.ReportCompileError(err)
	} else {
		report.ReportStdError("compile", err)
	}
}

// -----------------------------------------------------------------------------

// phaseObserver displays the stages of a compilation as reporter phases.
type phaseObserver struct{}

func (phaseObserver) BeginStage(name string) {
	report.BeginPhase(name)
}

func (phaseObserver) EndStage(_ string, err error) {
	report.EndPhase(err == nil)
}

// -----------------------------------------------------------------------------

// signatureView is the displayed form of a function signature.
type signatureView struct {
	Name    string
	Linkage string
	Params  []string
	Return  string
}

// dumpSignatures displays the signature table of an analysis.
func dumpSignatures(an *build.Analysis) {
	var views []signatureView
	for _, sig := range an.Table.Signatures() {
		view := signatureView{
			Name:    sig.Name,
			Linkage: sig.Linkage.String(),
			Return:  sig.Return.String(),
		}

		for _, param := range sig.Params {
			view.Params = append(view.Params, fmt.Sprintf("%s: %s", param.Name, param.Type))
		}

		views = append(views, view)
	}

	report.ReportInfo("signatures", "%s", pretty.Sprint(views))
}

// dumpCST displays the syntax tree of an analysis.
func dumpCST(an *build.Analysis, src *report.Source) {
	report.ReportInfo("cst", "%s", ast.Dump(an.Root, src.Text))
}
