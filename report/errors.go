package report

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a compile error.
type ErrorKind int

// Enumeration of the different kinds of compile errors.
const (
	// LookupFailure is a reference to a type name that is not in the index.
	LookupFailure ErrorKind = iota

	// ShapeMismatch is an expression that does not have the structure the
	// generator requires (eg. an array bound that is not a range).
	ShapeMismatch

	// InitializerError is an initializer expression that could not be lowered
	// to a constant of the expected type.
	InitializerError

	// Redefinition is a name declared more than once.
	Redefinition

	// ConfigError is an invalid project or manifest file.
	ConfigError

	// SyntaxError is malformed expression or type text.
	SyntaxError
)

func (k ErrorKind) String() string {
	switch k {
	case LookupFailure:
		return "Lookup"
	case ShapeMismatch:
		return "Shape"
	case InitializerError:
		return "Initializer"
	case Redefinition:
		return "Definition"
	case ConfigError:
		return "Config"
	case SyntaxError:
		return "Syntax"
	}

	return "Unknown"
}

// -----------------------------------------------------------------------------

// CompileError is a recoverable, user-facing compilation error.  It is returned
// up through the generators to the driver which decides how to report it.
type CompileError struct {
	// The kind of the error.
	Kind ErrorKind

	// The error message.
	Message string

	// The span over which the error occurs.  May be nil.
	Span *TextSpan
}

func (ce *CompileError) Error() string {
	return ce.Message
}

// Raise creates a new compile error.
func Raise(kind ErrorKind, span *TextSpan, msg string, args ...interface{}) *CompileError {
	return &CompileError{Kind: kind, Message: fmt.Sprintf(msg, args...), Span: span}
}

// IsKind returns whether err is or wraps a compile error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var cerr *CompileError
	if errors.As(err, &cerr) {
		return cerr.Kind == kind
	}

	return false
}

// WithSpan sets the span of err if it is a compile error with no span.  The
// error is returned for convenience.
func WithSpan(err error, span *TextSpan) error {
	var cerr *CompileError
	if errors.As(err, &cerr) && cerr.Span == nil {
		cerr.Span = span
	}

	return err
}

// -----------------------------------------------------------------------------

// InternalError is an error resulting from a bug in the compiler: typically a
// generator phase running out of order.  It is never caused by user input and
// compilation should not continue after one is encountered.
type InternalError struct {
	Message string
}

func (ie *InternalError) Error() string {
	return "internal compiler error: " + ie.Message
}

// ICE creates a new internal compiler error.
func ICE(msg string, args ...interface{}) *InternalError {
	return &InternalError{Message: fmt.Sprintf(msg, args...)}
}

// IsInternal returns whether err is or wraps an internal compiler error.
func IsInternal(err error) bool {
	var ierr *InternalError
	return errors.As(err, &ierr)
}
