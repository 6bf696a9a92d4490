package report

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/pterm/pterm"
)

// Reporter is responsible for reporting errors, warnings, and other kinds of
// messages to the user during program execution.  The reporter respects the set
// log level and is synchronized: its methods can be safely called from multiple
// goroutines.
type Reporter struct {
	// The mutex used to synchonize different report calls.
	m sync.Mutex

	// The selected log level of the reporter.  This must be one of the
	// enumerated log levels below.
	logLevel int

	// out is where all messages are written.
	out io.Writer

	// The number of errors and warnings reported so far.
	errorCount, warningCount int

	// The spinner, name and start time of the current compilation phase.
	phaseSpinner   *pterm.SpinnerPrinter
	currentPhase   string
	phaseStartTime time.Time
}

// Enumeration of the different possible log levels.
const (
	LogLevelSilent  = iota // Displays no output.
	LogLevelError          // Displays only errors to the user.
	LogLevelWarn           // Displays only warnings and errors to the user.
	LogLevelVerbose        // Displays all compilation messages to the user (default).
)

// rep is the global reporter instance.
var rep = &Reporter{logLevel: LogLevelVerbose, out: os.Stdout}

// InitReporter initializes the global reporter to the given log level and
// output writer.  Any previously recorded counts are discarded.
func InitReporter(logLevel int, out io.Writer) {
	rep = &Reporter{logLevel: logLevel, out: out}
}

// LogLevelFromName converts a log level name to a log level.  Invalid names
// default to verbose.
func LogLevelFromName(name string) int {
	switch name {
	case "silent":
		return LogLevelSilent
	case "error":
		return LogLevelError
	case "warn":
		return LogLevelWarn
	default:
		return LogLevelVerbose
	}
}

// DisableColor turns off all terminal styling.
func DisableColor() {
	pterm.DisableColor()
}

// -----------------------------------------------------------------------------

// ReportCompileError reports an error produced by compilation.  Internal
// compiler errors are always displayed regardless of log level.
func ReportCompileError(err error) {
	rep.m.Lock()
	defer rep.m.Unlock()

	rep.errorCount++

	if rep.logLevel > LogLevelSilent || IsInternal(err) {
		rep.displayCompileError(err)
	}
}

// ReportStdError reports a non-compilation error (configuration, I/O, usage)
// under the given tag.
func ReportStdError(tag string, err error) {
	rep.m.Lock()
	defer rep.m.Unlock()

	rep.errorCount++

	if rep.logLevel > LogLevelSilent {
		rep.displayMessage(ErrorStyleBG, ErrorColorFG, tag, err.Error())
	}
}

// ReportWarning reports a warning under the given tag.
func ReportWarning(tag, msg string, args ...interface{}) {
	rep.m.Lock()
	defer rep.m.Unlock()

	rep.warningCount++

	if rep.logLevel >= LogLevelWarn {
		rep.displayMessage(WarnStyleBG, WarnColorFG, tag, fmt.Sprintf(msg, args...))
	}
}

// ReportInfo displays an informational message.  Info messages are displayed
// at every level but silent since they are usually explicitly requested.
func ReportInfo(tag, msg string, args ...interface{}) {
	rep.m.Lock()
	defer rep.m.Unlock()

	if rep.logLevel > LogLevelSilent {
		rep.displayMessage(InfoStyleBG, InfoColorFG, tag, fmt.Sprintf(msg, args...))
	}
}

// ReportCompilationFinished reports the concluding message for compilation.
func ReportCompilationFinished(outputPath string) {
	rep.m.Lock()
	defer rep.m.Unlock()

	if rep.logLevel >= LogLevelError {
		rep.displayCompilationFinished(outputPath)
	}
}

// AnyErrors returns whether or not any errors were reported.
func AnyErrors() bool {
	rep.m.Lock()
	defer rep.m.Unlock()

	return rep.errorCount > 0
}

// -----------------------------------------------------------------------------

const maxPhaseLength = len("Type checking")

// BeginPhase displays the beginning of a compilation phase.  Phases are only
// displayed at the verbose log level.
func BeginPhase(phase string) {
	rep.m.Lock()
	defer rep.m.Unlock()

	if rep.logLevel < LogLevelVerbose {
		return
	}

	rep.currentPhase = phase
	rep.phaseSpinner = pterm.DefaultSpinner.WithStyle(pterm.NewStyle(InfoColorFG))
	rep.phaseSpinner.SuccessPrinter = &pterm.PrefixPrinter{
		MessageStyle: pterm.NewStyle(pterm.FgDefault),
		Prefix: pterm.Prefix{
			Style: SuccessStyleBG,
			Text:  "Done",
		},
	}
	rep.phaseSpinner.FailPrinter = &pterm.PrefixPrinter{
		MessageStyle: pterm.NewStyle(pterm.FgDefault),
		Prefix: pterm.Prefix{
			Style: ErrorStyleBG,
			Text:  "Fail",
		},
	}

	rep.phaseSpinner.Start(phase + "..." + phasePadding(phase))
	rep.phaseStartTime = time.Now()
}

// EndPhase displays the end of the current compilation phase.
func EndPhase(success bool) {
	rep.m.Lock()
	defer rep.m.Unlock()

	if rep.phaseSpinner == nil {
		return
	}

	if success {
		rep.phaseSpinner.Success(
			rep.currentPhase+phasePadding(rep.currentPhase),
			fmt.Sprintf("(%.3fs)", time.Since(rep.phaseStartTime).Seconds()),
		)
	} else {
		rep.phaseSpinner.Fail(rep.currentPhase + phasePadding(rep.currentPhase))
	}

	rep.phaseSpinner = nil
}

func phasePadding(phase string) string {
	if len(phase) >= maxPhaseLength {
		return "  "
	}

	return strings.Repeat(" ", maxPhaseLength-len(phase)+2)
}
