package errs

import (
	"errors"
	"fmt"
)

// Kind tags an error with its place in the detection failure taxonomy.
// Retryability and fatality decisions key off the kind, never the message.
type Kind string

const (
	// ParseFailure marks a malformed manifest or config file. Recoverable:
	// the owning analyzer degrades instead of failing the run.
	ParseFailure Kind = "parse_failure"

	// FileSystemFailure marks an unreadable or missing path. Recoverable
	// and retryable.
	FileSystemFailure Kind = "filesystem_failure"

	// DetectionFailure marks an analyzer whose internal logic failed. The
	// orchestrator drops that analyzer's contribution with a warning.
	DetectionFailure Kind = "detection_failure"

	// IntegrationFailure marks a required upstream call failing entirely.
	// Fatal for the run.
	IntegrationFailure Kind = "integration_failure"

	// ValidationFailure marks malformed input shape. Fatal, never retried.
	ValidationFailure Kind = "validation_failure"

	// ResourceExhaustion marks a hit iteration or size cap. Fatal.
	ResourceExhaustion Kind = "resource_exhaustion"
)

// Error is the typed error carried through the pipeline. Component and Path
// give enough context to log and to decide retryability at the orchestrator.
type Error struct {
	Kind      Kind
	Component string
	Path      string
	Err       error
}

func (e *Error) Error() string {
	switch {
	case e.Path != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s (%s): %v", e.Component, e.Kind, e.Path, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Component, e.Kind, e.Err)
	case e.Path != "":
		return fmt.Sprintf("%s: %s (%s)", e.Component, e.Kind, e.Path)
	default:
		return fmt.Sprintf("%s: %s", e.Component, e.Kind)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches on kind so callers can use errors.Is with a bare kind error.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return t.Kind == e.Kind
	}
	return false
}

// New creates a typed error with a formatted message
func New(kind Kind, component, format string, args ...any) *Error {
	return &Error{Kind: kind, Component: component, Err: fmt.Errorf(format, args...)}
}

// Wrap attaches a kind and component to an underlying error
func Wrap(kind Kind, component string, err error) *Error {
	return &Error{Kind: kind, Component: component, Err: err}
}

// WrapPath attaches a kind, component and file path to an underlying error
func WrapPath(kind Kind, component, path string, err error) *Error {
	return &Error{Kind: kind, Component: component, Path: path, Err: err}
}

// KindOf reports the kind of err, or the empty kind for untyped errors
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// Retryable reports whether the orchestrator may retry the failed operation.
// Only filesystem, parse and analyzer-internal failures qualify; everything
// else propagates immediately.
func Retryable(err error) bool {
	switch KindOf(err) {
	case FileSystemFailure, ParseFailure, DetectionFailure:
		return true
	default:
		return false
	}
}
