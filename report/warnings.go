package report

import "sync"

// WarningSink receives warnings produced by code that otherwise proceeds
// normally, such as array bounds which silently fold to zero.
type WarningSink interface {
	Warn(span *TextSpan, msg string)
}

// Warning is a single warning recorded by a WarningCollector.
type Warning struct {
	Span    *TextSpan
	Message string
}

// WarningCollector is a WarningSink which simply stores the warnings it
// receives.  It is safe for concurrent use.
type WarningCollector struct {
	m        sync.Mutex
	Warnings []Warning
}

func (wc *WarningCollector) Warn(span *TextSpan, msg string) {
	wc.m.Lock()
	defer wc.m.Unlock()

	wc.Warnings = append(wc.Warnings, Warning{Span: span, Message: msg})
}

// Len returns the number of collected warnings.
func (wc *WarningCollector) Len() int {
	wc.m.Lock()
	defer wc.m.Unlock()

	return len(wc.Warnings)
}

// fileSink forwards warnings to the global reporter.
type fileSink struct {
	reprPath string
}

// FileWarnings returns a sink which reports warnings through the global
// reporter, attributing them to the file with the given representative path.
func FileWarnings(reprPath string) WarningSink {
	return fileSink{reprPath: reprPath}
}

func (fs fileSink) Warn(span *TextSpan, msg string) {
	ReportCompileWarning(fs.reprPath, span, msg)
}

// discardSink drops every warning.
type discardSink struct{}

func (discardSink) Warn(*TextSpan, string) {}

// DiscardWarnings is a sink which ignores all warnings.
var DiscardWarnings WarningSink = discardSink{}
