package report

import (
	"fmt"
	"testing"
)

func TestRaiseFormatsMessage(t *testing.T) {
	span := &TextSpan{StartLine: 0, StartCol: 3, EndLine: 0, EndCol: 7}
	err := Raise(LookupFailure, span, "Unknown datatype '%s'", "FOO")

	if err.Error() != "Unknown datatype 'FOO'" {
		t.Fatalf("unexpected message: %q", err.Error())
	}
	if err.Span != span {
		t.Fatalf("expected span to be preserved")
	}
}

func TestIsKindUnwraps(t *testing.T) {
	err := fmt.Errorf("generating Point: %w", Raise(ShapeMismatch, nil, "expected range"))

	if !IsKind(err, ShapeMismatch) {
		t.Fatalf("expected wrapped shape mismatch to be detected")
	}
	if IsKind(err, LookupFailure) {
		t.Fatalf("shape mismatch reported as lookup failure")
	}
	if IsInternal(err) {
		t.Fatalf("compile error reported as internal")
	}
}

func TestInternalErrorMessage(t *testing.T) {
	err := fmt.Errorf("pass: %w", ICE("missing stub for `%s`", "Point"))

	if !IsInternal(err) {
		t.Fatalf("expected internal error")
	}
	if got := ICE("x").Error(); got != "internal compiler error: x" {
		t.Fatalf("unexpected ICE text: %q", got)
	}
}

func TestWarningCollector(t *testing.T) {
	wc := &WarningCollector{}
	var sink WarningSink = wc

	sink.Warn(nil, "first")
	sink.Warn(&TextSpan{StartCol: 2}, "second")

	if wc.Len() != 2 {
		t.Fatalf("expected 2 warnings, got %d", wc.Len())
	}
	if wc.Warnings[1].Message != "second" || wc.Warnings[1].Span.StartCol != 2 {
		t.Fatalf("unexpected warning: %+v", wc.Warnings[1])
	}

	// must not panic
	DiscardWarnings.Warn(nil, "ignored")
}

func TestParseLogLevel(t *testing.T) {
	cases := map[string]int{
		"silent":  LogLevelSilent,
		"error":   LogLevelError,
		"warn":    LogLevelWarn,
		"warning": LogLevelWarn,
		"verbose": LogLevelVerbose,
		"bogus":   LogLevelVerbose,
	}

	for name, want := range cases {
		if got := ParseLogLevel(name); got != want {
			t.Errorf("ParseLogLevel(%q) = %d, want %d", name, got, want)
		}
	}
}

func TestNewSpanOver(t *testing.T) {
	a := &TextSpan{StartLine: 1, StartCol: 2, EndLine: 1, EndCol: 4}
	b := &TextSpan{StartLine: 1, StartCol: 8, EndLine: 2, EndCol: 1}

	s := NewSpanOver(a, b)
	if s.StartCol != 2 || s.EndLine != 2 || s.EndCol != 1 {
		t.Fatalf("unexpected span: %+v", s)
	}
	if NewSpanOver(nil, b) != b || NewSpanOver(a, nil) != a {
		t.Fatalf("nil spans should defer to the other span")
	}
}
