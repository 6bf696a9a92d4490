package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/lqd-lang/liquid/build"
	"github.com/lqd-lang/liquid/common"
	"github.com/lqd-lang/liquid/report"
	"github.com/lqd-lang/liquid/syntax"

	"github.com/peterh/liner"
)

const replSourceName = "<repl>"

const replHelp = `Enter function definitions and extern blocks to add them to the session.
Commands:
  :ir      print the session as lqd IR
  :llvm    print the session as LLVM assembly
  :sigs    print the signatures of the session
  :reset   discard every definition
  :quit    leave the REPL`

// execReplCommand runs the interactive REPL until the user quits.
func execReplCommand() int {
	line := liner.NewLiner()
	defer line.Close()

	line.SetCtrlCAborts(true)

	s := newSession(os.Stdout)
	fmt.Fprintf(os.Stdout, "lqd %s (type :help for help)\n", common.LqdVersion)

	for {
		prompt := "lqd> "
		if s.pending != "" {
			prompt = "...> "
		}

		input, err := line.Prompt(prompt)
		if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
			return 0
		} else if err != nil {
			report.ReportStdError("repl", err)
			return 1
		}

		if strings.TrimSpace(input) != "" {
			line.AppendHistory(input)
		}

		if !s.feed(input) {
			return 0
		}
	}
}

// session is the state of a REPL session: the definitions accepted so far
// and the lines of an unfinished definition.
type session struct {
	program string
	pending string

	// defined is the set of functions the user has been told about.
	defined map[string]struct{}

	out io.Writer
}

func newSession(out io.Writer) *session {
	return &session{defined: make(map[string]struct{}), out: out}
}

// feed processes a line of input.  It returns false when the session ends.
func (s *session) feed(input string) bool {
	if s.pending == "" {
		switch strings.TrimSpace(input) {
		case "":
			return true
		case ":quit", ":q":
			return false
		case ":help":
			fmt.Fprintln(s.out, replHelp)
			return true
		case ":reset":
			s.program = ""
			s.defined = make(map[string]struct{})
			return true
		case ":sigs":
			s.printSignatures()
			return true
		case ":ir":
			s.printTarget(common.TargetIR)
			return true
		case ":llvm":
			s.printTarget(common.TargetLLVM)
			return true
		}
	}

	candidate := s.program + s.pending + input + "\n"

	an, err := build.Analyze(report.NewSource(replSourceName, candidate), build.Options{})
	if err != nil {
		if syntax.IsIncomplete(err, candidate) {
			s.pending += input + "\n"
			return true
		}

		s.pending = ""
		fmt.Fprint(s.out, report.FormatError(err))
		return true
	}

	s.program = candidate
	s.pending = ""

	for _, sig := range an.Table.Signatures() {
		if _, ok := s.defined[sig.Name]; ok {
			continue
		}

		s.defined[sig.Name] = struct{}{}
		fmt.Fprintf(s.out, "defined %s\n", sig.Name)
	}

	return true
}

func (s *session) printSignatures() {
	an, err := build.Analyze(report.NewSource(replSourceName, s.program), build.Options{})
	if err != nil {
		fmt.Fprint(s.out, report.FormatError(err))
		return
	}

	for _, sig := range an.Table.Signatures() {
		params := make([]string, len(sig.Params))
		for i, param := range sig.Params {
			params[i] = fmt.Sprintf("%s: %s", param.Name, param.Type)
		}

		fmt.Fprintf(s.out, "%s fn %s(%s) -> %s\n", sig.Linkage, sig.Name, strings.Join(params, ", "), sig.Return)
	}
}

func (s *session) printTarget(target string) {
	res, err := build.Compile(report.NewSource(replSourceName, s.program), build.Options{Target: target})
	if err != nil {
		fmt.Fprint(s.out, report.FormatError(err))
		return
	}

	fmt.Fprint(s.out, res.Text)
}
