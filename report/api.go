package report

import (
	"errors"
	"fmt"
	"os"

	"github.com/kr/pretty"
)

// ReportCompileError reports an error returned by a compilation phase.  The
// reprPath is the representative path of the file the error occurred in.
// Compile errors are displayed with their span and kind; any other error is
// displayed as a standard Go error.
func ReportCompileError(reprPath string, err error) {
	rep.m.Lock()
	defer rep.m.Unlock()

	rep.errorCount++

	if rep.logLevel > LogLevelSilent {
		displayEndPhase(false)

		var cerr *CompileError
		if errors.As(err, &cerr) {
			displayCompileMessage(cerr.Kind.String()+" Error", true, reprPath, cerr.Span, cerr.Message)
		} else {
			displayStdError(reprPath, err)
		}
	}
}

// ReportCompileWarning reports a compilation warning.
func ReportCompileWarning(reprPath string, span *TextSpan, message string) {
	rep.m.Lock()
	defer rep.m.Unlock()

	rep.warningCount++

	if rep.logLevel >= LogLevelWarn {
		displayCompileMessage("Warning", false, reprPath, span, message)
	}
}

// ReportICE reports an internal compiler error.  These are errors that
// specifically result for a bug or unexpected condition occurring with the
// compiler: they are not intended to ever happen.  These errors are always
// displayed regardless of log level.
func ReportICE(message string, args ...interface{}) {
	rep.m.Lock()
	defer rep.m.Unlock()

	displayEndPhase(false)
	displayICE(fmt.Sprintf(message, args...))

	os.Exit(-1)
}

// ReportFatal reports a fatal error.  These are errors that should cause all
// compilation to stop immediately.  However, they are expected errors that
// generally result from invalid configuration of some form: missing project
// file, unreadable output directory, etc.
func ReportFatal(message string, args ...interface{}) {
	if rep.logLevel > LogLevelSilent {
		rep.m.Lock()
		defer rep.m.Unlock()

		displayEndPhase(false)
		displayFatal(fmt.Sprintf(message, args...))
	}

	os.Exit(1)
}

// -----------------------------------------------------------------------------

// AnyErrors returns whether or not any errors were detected.
func AnyErrors() bool {
	rep.m.Lock()
	defer rep.m.Unlock()

	return rep.errorCount > 0
}

// -----------------------------------------------------------------------------
// Below are all the "aesthetic" reporting functions that will only run if the
// log level is to verbose.

// DisplayInfoMessage displays a tagged informational message.
func DisplayInfoMessage(tag, msg string) {
	if rep.logLevel == LogLevelVerbose {
		displayInfoMessage(tag, msg)
	}
}

// ReportCompileHeader reports the pre-compilation header.
func ReportCompileHeader(projectName, target string) {
	if rep.logLevel == LogLevelVerbose {
		displayCompileHeader(projectName, target)
	}
}

// ReportBeginPhase reports the beginning of a compilation phase.
func ReportBeginPhase(phase string) {
	if rep.logLevel == LogLevelVerbose {
		displayBeginPhase(phase)
	}
}

// ReportEndPhase reports the successful end of the current compilation phase.
func ReportEndPhase() {
	if rep.logLevel == LogLevelVerbose {
		displayEndPhase(!AnyErrors())
	}
}

// ReportCompilationFinished reports the concluding message for compilation.
func ReportCompilationFinished(outputPath string) {
	if rep.logLevel > LogLevelSilent {
		rep.m.Lock()
		defer rep.m.Unlock()

		displayCompilationFinished(rep.errorCount == 0, rep.errorCount, rep.warningCount, outputPath)
	}
}

// DumpValue pretty prints an arbitrary compiler data structure under a
// heading.  It is used for debug output and ignores the log level.
func DumpValue(heading string, v interface{}) {
	displayInfoMessage("Dump", heading)
	fmt.Println(pretty.Sprint(v))
}
