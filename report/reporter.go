package report

import (
	"sync"
	"time"
)

// Reporter is responsible for reporting errors, warnings, and other kinds of
// messages to the user during program execution.  The reporter respects the set
// log level and is synchronized: its methods can be safely called from multiple
// goroutines.
type Reporter struct {
	// The mutex used to synchonize different error method calls.
	m *sync.Mutex

	// The selected log level of the reporter.  This must be one of the
	// enumerated log levels below.
	logLevel int

	// The number of errors and warnings reported so far.
	errorCount, warningCount int

	// When the reporter was initialized.
	startTime time.Time
}

// Enumeration of the different possible log levels.
const (
	LogLevelSilent  = iota // Displays no output.
	LogLevelError          // Displays only errors to the user.
	LogLevelWarn           // Displays only warnings and errors to the user.
	LogLevelVerbose        // Displays all compilation messages to the user (default).
)

// rep is the global reporter instance.
var rep = &Reporter{m: &sync.Mutex{}, logLevel: LogLevelVerbose, startTime: time.Now()}

// InitReporter initializes the global error reporter to the given log level.
func InitReporter(logLevel int) {
	rep = &Reporter{
		m:         &sync.Mutex{},
		logLevel:  logLevel,
		startTime: time.Now(),
	}
}

// ParseLogLevel converts a log level name to its enumerated value. Everything
// else (including invalid log levels) defaults to verbose.
func ParseLogLevel(name string) int {
	switch name {
	case "silent":
		return LogLevelSilent
	case "error":
		return LogLevelError
	case "warn", "warning":
		return LogLevelWarn
	default:
		return LogLevelVerbose
	}
}
