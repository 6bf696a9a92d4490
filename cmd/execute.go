// Package cmd implements the `lqdc` command line tool.
package cmd

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/lqd-lang/liquid/common"
	"github.com/lqd-lang/liquid/mods"
	"github.com/lqd-lang/liquid/report"

	"github.com/ComedicChimera/olive"
)

// Main is the entry point of the `lqdc` CLI.  It returns the process exit
// code.
func Main() int {
	// set up the argument parser and all its extended commands and arguments
	cli := olive.NewCLI("lqdc", "lqdc is the compiler for the lqd language", true)
	logLvlArg := cli.AddSelectorArg("loglevel", "ll", "the compiler log level", false, []string{"silent", "error", "warn", "verbose"})
	logLvlArg.SetDefaultValue("verbose")

	buildCmd := cli.AddSubcommand("build", "compile a source file or project", true)
	buildCmd.AddPrimaryArg("path", "the path to the source file or project directory", true)
	buildCmd.AddStringArg("output", "o", "the path of the output file", false)
	buildCmd.AddSelectorArg("target", "t", "the output target", false, []string{common.TargetIR, common.TargetLLVM})

	checkCmd := cli.AddSubcommand("check", "check a source file or project for errors", true)
	checkCmd.AddPrimaryArg("path", "the path to the source file or project directory", true)
	checkCmd.AddFlag("dump-cst", "cst", "print the syntax tree of the program")
	checkCmd.AddFlag("dump-sigs", "sigs", "print the function signatures of the program")

	cli.AddSubcommand("repl", "start an interactive session", false)
	cli.AddSubcommand("version", "print the lqd version", false)

	// run the argument parser
	result, err := olive.ParseArgs(cli, os.Args)
	if err != nil {
		report.ReportStdError("usage", err)
		return 2
	}

	logLevel := report.LogLevelFromName(result.Arguments["loglevel"].(string))
	report.InitReporter(logLevel, os.Stdout)
	if isTerminal(os.Stdout) {
		showPhases = true
	} else {
		report.DisableColor()
	}

	// process the inputed command line
	subcmdName, subResult, _ := result.Subcommand()
	switch subcmdName {
	case "build":
		return execBuildCommand(subResult)
	case "check":
		return execCheckCommand(subResult)
	case "repl":
		return execReplCommand()
	case "version":
		report.ReportInfo("lqd version", common.LqdVersion)
		return 0
	default:
		report.ReportStdError("usage", errNoCommand)
		return 2
	}
}

// execBuildCommand executes the build subcommand.
func execBuildCommand(result *olive.ArgParseResult) int {
	proj, ok := loadProject(result)
	if !ok {
		return 1
	}

	outputGiven := false
	if outArg, ok := result.Arguments["output"]; ok {
		proj.OutputPath, _ = filepath.Abs(outArg.(string))
		outputGiven = true
	}

	if targetArg, ok := result.Arguments["target"]; ok {
		proj.Target = targetArg.(string)

		// keep the default output name in line with the selected target
		if !outputGiven {
			ext := filepath.Ext(proj.OutputPath)
			proj.OutputPath = strings.TrimSuffix(proj.OutputPath, ext) + common.TargetExts[proj.Target]
		}
	}

	c := NewCompiler(proj)
	ok = c.Compile()

	if ok {
		report.ReportCompilationFinished(proj.OutputPath)
		return 0
	}

	report.ReportCompilationFinished("")
	return 1
}

// execCheckCommand executes the check subcommand.
func execCheckCommand(result *olive.ArgParseResult) int {
	proj, ok := loadProject(result)
	if !ok {
		return 1
	}

	c := NewCompiler(proj)
	an, ok := c.Analyze()
	if ok {
		if result.HasFlag("dump-cst") {
			dumpCST(an, c.src)
		}

		if result.HasFlag("dump-sigs") {
			dumpSignatures(an)
		}
	}

	report.ReportCompilationFinished("")
	if !ok {
		return 1
	}

	return 0
}

// loadProject loads the project named by the primary argument of a command.
func loadProject(result *olive.ArgParseResult) (*mods.Project, bool) {
	path, _ := result.PrimaryArg()

	proj, err := mods.Load(path)
	if err != nil {
		report.ReportStdError("project", err)
		return nil, false
	}

	return proj, true
}
