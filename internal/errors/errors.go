// Package errors provides structured error handling for seekr.
//
// Kinds follow spec.md §7: WorkspaceMissing, IndexMissing, IndexCorrupt,
// ParseError, EmbedderError, IoError, Cancelled.
package errors

import "fmt"

// Kind is one of the error kinds named in spec.md §7.
type Kind string

const (
	KindWorkspaceMissing Kind = "WorkspaceMissing"
	KindIndexMissing     Kind = "IndexMissing"
	KindIndexCorrupt     Kind = "IndexCorrupt"
	KindParseError       Kind = "ParseError"
	KindEmbedderError    Kind = "EmbedderError"
	KindIoError          Kind = "IoError"
	KindCancelled        Kind = "Cancelled"
)

// fatal reports whether a kind aborts the current run (local errors never
// abort, global errors do).
func (k Kind) fatal() bool {
	switch k {
	case KindIndexCorrupt, KindWorkspaceMissing, KindIndexMissing, KindCancelled:
		return true
	default:
		return false
	}
}

// SeekrError is the structured error type used across the engine.
type SeekrError struct {
	Kind      Kind
	Category  Category
	Severity  Severity
	Message   string
	Path      string // offending path, if any
	Cause     error
	Retryable bool
}

// Error implements the error interface.
func (e *SeekrError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Kind, e.Message, e.Path)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap supports errors.Is/As against the underlying cause.
func (e *SeekrError) Unwrap() error {
	return e.Cause
}

// Is matches SeekrErrors by Kind, so errors.Is(err, &SeekrError{Kind: X}) works.
func (e *SeekrError) Is(target error) bool {
	t, ok := target.(*SeekrError)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// New creates a SeekrError of the given kind.
func New(kind Kind, message string, cause error) *SeekrError {
	return &SeekrError{
		Kind:      kind,
		Category:  kind.Category(),
		Severity:  kind.Severity(),
		Message:   message,
		Cause:     cause,
		Retryable: kind == KindEmbedderError,
	}
}

// WithPath attaches the offending path and returns the error for chaining.
func (e *SeekrError) WithPath(path string) *SeekrError {
	e.Path = path
	return e
}

// IsFatal reports whether err should abort the current indexing run.
func IsFatal(err error) bool {
	var se *SeekrError
	if e, ok := err.(*SeekrError); ok {
		se = e
	} else {
		return false
	}
	return se.Kind.fatal()
}

func WorkspaceMissing(path string, cause error) *SeekrError {
	return New(KindWorkspaceMissing, "workspace root does not exist or is not a directory", cause).WithPath(path)
}

func IndexMissing(message string, cause error) *SeekrError {
	return New(KindIndexMissing, message, cause)
}

func IndexCorrupt(message string, cause error) *SeekrError {
	return New(KindIndexCorrupt, message, cause)
}

func ParseFailed(path string, cause error) *SeekrError {
	return New(KindParseError, "syntactic parser failed, falling back to sliding window", cause).WithPath(path)
}

func EmbedderFailed(message string, cause error) *SeekrError {
	return New(KindEmbedderError, message, cause)
}

func IoFailed(path string, cause error) *SeekrError {
	return New(KindIoError, "file I/O failed", cause).WithPath(path)
}

func Cancelled() *SeekrError {
	return New(KindCancelled, "operation cancelled", nil)
}
