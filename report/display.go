package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/pterm/pterm"

	"plcc/common"
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

// displayInfoMessage prints an informational message to the user.
func displayInfoMessage(tag, msg string) {
	InfoStyleBG.Print(tag)
	InfoColorFG.Println(" " + msg)
}

const icePostlude = `This error was not supposed to happen: it is likely a bug in the compiler.`

// displayICE displays an internal compiler error message.
func displayICE(message string) {
	fmt.Print("\n")
	ErrorStyleBG.Print("Internal Compiler Error")
	ErrorColorFG.Println(" " + message)
	InfoColorFG.Println(icePostlude)
}

// displayFatal displays a fatal error message.
func displayFatal(message string) {
	fmt.Print("\n")
	ErrorStyleBG.Print("Fatal Error")
	ErrorColorFG.Println(" " + message)
}

// displayStdError displays a standard Go error.
func displayStdError(reprPath string, err error) {
	ErrorStyleBG.Print("Error")
	fmt.Print(" ")
	InfoColorFG.Print(reprPath)
	ErrorColorFG.Println(": " + err.Error())
}

// displayCompileMessage displays a compilation error or warning.  The label is
// the banner text: eg. "Lookup Error" or "Warning".
func displayCompileMessage(label string, isError bool, reprPath string, span *TextSpan, message string) {
	if isError {
		ErrorStyleBG.Print(label)
	} else {
		WarnStyleBG.Print(label)
	}

	fmt.Print(" ")
	InfoColorFG.Print(reprPath)

	if span != nil {
		fmt.Printf(":%d:%d", span.StartLine+1, span.StartCol+1)
	}

	fmt.Println(": " + message)
}

// -----------------------------------------------------------------------------

// displayCompileHeader displays the compiler information before starting
// compilation.
func displayCompileHeader(projectName, target string) {
	fmt.Print("plcc ")
	InfoColorFG.Print("v" + common.PlccVersion)
	fmt.Print(" -- project: ")
	InfoColorFG.Print(projectName)
	fmt.Print(" -- target: ")
	InfoColorFG.Println(target)
}

// phaseSpinner stores the current phase spinner
var phaseSpinner *pterm.SpinnerPrinter
var currentPhase string
var phaseStartTime time.Time

const maxPhaseLength = len("Generating")

// displayBeginPhase displays the beginning of a compilation phase.
func displayBeginPhase(phase string) {
	currentPhase = phase
	phaseText := phase + "..." + strings.Repeat(" ", maxPhaseLength-len(phase)+2)
	phaseSpinner = pterm.DefaultSpinner.WithStyle(pterm.NewStyle(InfoColorFG))

	phaseSpinner.SuccessPrinter = &pterm.PrefixPrinter{
		MessageStyle: pterm.NewStyle(pterm.FgDefault),
		Prefix: pterm.Prefix{
			Style: SuccessStyleBG,
			Text:  "Done",
		},
	}

	phaseSpinner.FailPrinter = &pterm.PrefixPrinter{
		MessageStyle: pterm.NewStyle(pterm.FgDefault),
		Prefix: pterm.Prefix{
			Style: ErrorStyleBG,
			Text:  "Fail",
		},
	}

	phaseSpinner.Start(phaseText)
	phaseStartTime = time.Now()
}

// displayEndPhase displays the end of a compilation phase.
func displayEndPhase(success bool) {
	if phaseSpinner != nil {
		if success {
			phaseSpinner.Success(
				currentPhase+strings.Repeat(" ", maxPhaseLength-len(currentPhase)+2),
				fmt.Sprintf("(%.3fs)", time.Since(phaseStartTime).Seconds()),
			)
		} else {
			phaseSpinner.Fail(currentPhase + strings.Repeat(" ", maxPhaseLength-len(currentPhase)+2))
		}

		phaseSpinner = nil
	}
}

// displayCompilationFinished displays a compilation finished message.
func displayCompilationFinished(success bool, errorCount, warningCount int, outputPath string) {
	fmt.Print("\n")

	if success {
		SuccessColorFG.Print("All done! ")
	} else {
		ErrorColorFG.Print("Oh no! ")
	}

	fmt.Print("(")

	switch errorCount {
	case 0:
		SuccessColorFG.Print(0)
		fmt.Print(" errors, ")
	case 1:
		ErrorColorFG.Print(1)
		fmt.Print(" error, ")
	default:
		ErrorColorFG.Print(errorCount)
		fmt.Print(" errors, ")
	}

	switch warningCount {
	case 0:
		SuccessColorFG.Print(0)
		fmt.Println(" warnings)")
	case 1:
		WarnColorFG.Print(1)
		fmt.Println(" warning)")
	default:
		WarnColorFG.Print(warningCount)
		fmt.Println(" warnings)")
	}

	if success && outputPath != "" {
		fmt.Print("output written to ")
		InfoColorFG.Println(outputPath)
	}
}
