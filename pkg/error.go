package pkg

// Sentinel errors for the toolconf packages.
// These errors can be tested using errors.Is for reliable error checking.
// Every one of them is fatal to the configure run that produced it.

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

var (
	// ErrUnknownArgument is returned when an invocation supplies an argument
	// name its function does not declare.
	ErrUnknownArgument = NewError("unknown argument")

	// ErrMissingRequired is returned when an invocation omits one or more
	// arguments its function declares as required.
	ErrMissingRequired = NewError("missing required arguments")

	// ErrDuplicateArgument is returned when an invocation supplies the same
	// argument name more than once.
	ErrDuplicateArgument = NewError("duplicate argument")

	// ErrUnknownFunction is returned when an invocation names a function that
	// is not registered.
	ErrUnknownFunction = NewError("unknown function")

	// ErrSyntax is returned when invocation text cannot be parsed.
	ErrSyntax = NewError("syntax error")

	// ErrToolNotFound is returned when a tool given by name cannot be found
	// on the search path.
	ErrToolNotFound = NewError("tool not found")

	// ErrToolNotExecutable is returned when a tool given by path does not
	// exist or is not executable.
	ErrToolNotExecutable = NewError("tool not found or not executable")

	// ErrRequiredToolMissing is returned when a required tool resolves to an
	// empty value.
	ErrRequiredToolMissing = NewError("required tool missing")

	// ErrBuiltinNotFound is returned when a tool is neither on the search
	// path nor recognized as a shell built-in.
	ErrBuiltinNotFound = NewError("tool not found on path or as shell built-in")

	// ErrProbeFailed is returned when a resolved tool fails its probe check.
	ErrProbeFailed = NewError("tool probe failed")

	// ErrInvalidValue is returned when an option or word list holds a value
	// outside of its legal set.
	ErrInvalidValue = NewError("invalid value")

	// ErrUnavailable is returned when a feature is explicitly enabled but is
	// not available.
	ErrUnavailable = NewError("feature unavailable")

	// ErrUnrecognizedOption is returned for command-line arguments that are
	// neither options nor variable assignments.
	ErrUnrecognizedOption = NewError("unrecognized option")

	// ErrReadManifest is returned when a manifest cannot be read or decoded.
	ErrReadManifest = NewError("failed to read manifest")

	// ErrWriteManifest is returned when a manifest cannot be written.
	ErrWriteManifest = NewError("failed to write manifest")

	// ErrReadConfig is returned when the CLI configuration file is invalid.
	ErrReadConfig = NewError("failed to read configuration")

	// ErrWriteConfig is returned when the CLI configuration file or its
	// directory cannot be written.
	ErrWriteConfig = NewError("failed to write configuration")

	// ErrWriteReport is returned when a run report cannot be written.
	ErrWriteReport = NewError("failed to write report")

	// ErrFileExists is returned when refusing to overwrite an existing file.
	ErrFileExists = NewError("file exists (use --force to overwrite)")

	// ErrInvalidFormat is returned when an unsupported output format is
	// requested.
	ErrInvalidFormat = NewError("invalid format")

	// ErrInternal is returned when an internal invariant is violated, such as
	// a malformed argument specification.
	ErrInternal = NewError("internal invariant violation")
)

// Error represents an error with optional structured logging attributes.
// It implements both error and slog.LogValuer interfaces.
type Error struct {
	msg   string
	err   error       // Wrapped error (for errors.Unwrap)
	attrs []slog.Attr // Attributes for structured logging
}

// NewError creates a new Error with a message.
func NewError(msg string) *Error {
	return &Error{msg: msg}
}

// WrapError wraps a standard error into an Error.
func WrapError(err error) *Error {
	ee := &Error{}
	if errors.As(err, &ee) {
		return ee
	}

	return &Error{err: err}
}

// Error implements the error interface.
func (e *Error) Error() string {
	// Build error message using the first available format,
	// depending on which fields are set:
	//
	//   1. "<msg>: <err>" // base and wrapped error both set
	//   2. "<msg>"        // wrapped error is nil
	//   3. "<err>"        // base error message is empty
	//   4. ""             // no fields are set
	part := make([]string, 0, 2)

	if e.msg != "" {
		part = append(part, e.msg)
	}

	if e.err != nil {
		part = append(part, e.err.Error())
	}

	return strings.Join(part, ": ")
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is an Error with the same base message, so that
// derived errors created by [Error.Wrap] and [Error.With] still match their
// sentinel.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || t.msg == "" {
		return false
	}

	return t.msg == e.msg
}

// LogValue implements slog.LogValuer for rich structured logging.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+2)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Attrs returns a copy of the structured logging attributes.
func (e *Error) Attrs() []slog.Attr {
	return append([]slog.Attr(nil), e.attrs...)
}

// Wrap creates a new Error wrapping another error.
func (e *Error) Wrap(err error) *Error {
	return &Error{
		msg:   e.msg,
		err:   err,
		attrs: e.attrs, // Share attrs
	}
}

// Wrapf creates a new Error wrapping a formatted cause.
func (e *Error) Wrapf(format string, args ...any) *Error {
	return e.Wrap(fmt.Errorf(format, args...))
}

// With adds attributes to the error for structured logging.
// This creates a new Error instance to maintain immutability.
func (e *Error) With(attrs ...slog.Attr) *Error {
	newAttrs := make([]slog.Attr, len(e.attrs)+len(attrs))
	copy(newAttrs, e.attrs)
	copy(newAttrs[len(e.attrs):], attrs)

	return &Error{
		msg:   e.msg,
		err:   e.err,
		attrs: newAttrs,
	}
}
