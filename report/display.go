package report

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/pterm/pterm"
)

var (
	SuccessColorFG = pterm.FgLightGreen
	SuccessStyleBG = pterm.NewStyle(pterm.BgLightGreen, pterm.FgBlack)
	WarnColorFG    = pterm.FgYellow
	WarnStyleBG    = pterm.NewStyle(pterm.BgYellow, pterm.FgBlack)
	ErrorColorFG   = pterm.FgRed
	ErrorStyleBG   = pterm.NewStyle(pterm.BgRed, pterm.FgWhite)
	InfoColorFG    = SuccessColorFG
	InfoStyleBG    = SuccessStyleBG
)

// FormatError renders an error as plain text: a `path:line:col: label: msg`
// header followed by the erroneous source text if the error carries a span and
// a source.
func FormatError(err error) string {
	return formatError(err, "error")
}

// formatError renders err with the given header label.  The label is passed
// through so that the reporter can substitute a styled version of it.
func formatError(err error, label string) string {
	var cerr *CompileError
	if !errors.As(err, &cerr) {
		return fmt.Sprintf("%s: %s\n", label, err)
	}

	if cerr.Source == nil {
		return fmt.Sprintf("%s: %s\n", label, cerr.Error())
	}

	pos, ok := cerr.Position()
	if !ok {
		return fmt.Sprintf("%s: %s: %s\n", cerr.Source.Name, label, cerr.Error())
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s:%d:%d: %s: %s\n", cerr.Source.Name, pos.Line+1, pos.Col+1, label, cerr.Error())
	b.WriteString(Excerpt(cerr.Source, cerr.Span, cerr.Label))
	return b.String()
}

// -----------------------------------------------------------------------------

// Excerpt renders the lines of source text covered by a span with the spanned
// text underlined by carets.  The label, if any, is placed after the carets on
// the last line.
func Excerpt(src *Source, span *TextSpan, label string) string {
	start := src.Position(span.Start)
	end := src.Position(span.End)

	// an end offset sitting at the very start of a line belongs to the
	// previous line
	if end.Line > start.Line && end.Col == 0 {
		end.Line--
		end.Col = len(src.Line(end.Line))
	}

	// collect and tab-expand all the source lines containing the span
	var rawLines, lines []string
	for ln := start.Line; ln <= end.Line; ln++ {
		raw := src.Line(ln)
		rawLines = append(rawLines, raw)
		lines = append(lines, expandTabs(raw))
	}

	// calculate the minimum line indentation of the non-empty lines
	minIndent := -1
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}

		indent := len(line) - len(strings.TrimLeft(line, " "))
		if minIndent == -1 || indent < minIndent {
			minIndent = indent
		}
	}
	if minIndent == -1 {
		minIndent = 0
	}

	lineNumLen := len(strconv.Itoa(end.Line + 1))

	var b strings.Builder
	for i, line := range lines {
		trimmed := ""
		if len(line) > minIndent {
			trimmed = line[minIndent:]
		}

		fmt.Fprintf(&b, "%-*d | %s\n", lineNumLen, start.Line+i+1, trimmed)

		// carets begin at the start column on the first line and continue from
		// the start of every later line
		caretStart := 0
		if i == 0 {
			caretStart = visualCol(rawLines[i], start.Col) - minIndent
		}

		// carets end at the end column on the last line and run to the end of
		// every earlier line
		caretEnd := len(line) - minIndent
		if i == len(lines)-1 {
			caretEnd = visualCol(rawLines[i], end.Col) - minIndent
		}

		if caretStart < 0 {
			caretStart = 0
		}

		caretCount := caretEnd - caretStart
		if caretCount < 1 {
			caretCount = 1
		}

		b.WriteString(strings.Repeat(" ", lineNumLen))
		b.WriteString(" | ")
		b.WriteString(strings.Repeat(" ", caretStart))
		b.WriteString(strings.Repeat("^", caretCount))

		if i == len(lines)-1 && label != "" {
			b.WriteString(" ")
			b.WriteString(label)
		}

		b.WriteString("\n")
	}

	return b.String()
}

// expandTabs replaces every tab with four spaces.
func expandTabs(line string) string {
	return strings.ReplaceAll(line, "\t", "    ")
}

// visualCol converts a byte column within a raw line into a column within the
// tab-expanded line.
func visualCol(raw string, col int) int {
	if col > len(raw) {
		col = len(raw)
	}

	return len(expandTabs(raw[:col]))
}

// -----------------------------------------------------------------------------

// displayCompileError displays a compile error with a styled label.
func (r *Reporter) displayCompileError(err error) {
	label := ErrorColorFG.Sprint("error")
	if IsInternal(err) {
		label = ErrorStyleBG.Sprint(" ICE ")
	}

	fmt.Fprintln(r.out, formatError(err, label))
}

// displayMessage displays a tagged message on a single line.
func (r *Reporter) displayMessage(style *pterm.Style, color pterm.Color, tag, msg string) {
	fmt.Fprintln(r.out, style.Sprint(tag)+" "+color.Sprint(msg))
}

// displayCompilationFinished displays the concluding message for compilation.
func (r *Reporter) displayCompilationFinished(outputPath string) {
	if r.errorCount == 0 {
		fmt.Fprint(r.out, SuccessColorFG.Sprint("All done! "))
	} else {
		fmt.Fprint(r.out, ErrorColorFG.Sprint("Oh no! "))
	}

	switch r.errorCount {
	case 1:
		fmt.Fprint(r.out, "(", ErrorColorFG.Sprint(1), " error)")
	default:
		color := SuccessColorFG
		if r.errorCount > 0 {
			color = ErrorColorFG
		}

		fmt.Fprint(r.out, "(", color.Sprint(r.errorCount), " errors)")
	}

	if r.errorCount == 0 && outputPath != "" {
		fmt.Fprint(r.out, " wrote ", InfoColorFG.Sprint(outputPath))
	}

	fmt.Fprintln(r.out)
}
