// errors.go defines the public error taxonomy for the datamodel package.
package datamodel

import (
	"errors"
	"fmt"
)

// ErrorKind identifies which class of failure a LoadError or validation
// error represents. Kinds are part of the public contract: callers are
// expected to switch on them rather than on error strings.
type ErrorKind int

const (
	// InvalidEncoding means the input bytes are not valid UTF-8.
	InvalidEncoding ErrorKind = iota
	// InvalidSchema means the JSON failed to parse, or a required field
	// was missing or had the wrong type.
	InvalidSchema
	// UnsupportedVersion means the clip's major version is newer than
	// this implementation supports.
	UnsupportedVersion
	// InvariantViolation means the clip parsed but failed validation
	// (range, monotonicity, NaN, emphasis-vs-envelope).
	InvariantViolation
	// OutOfRange means a seek or truncation target falls outside the
	// clip's content.
	OutOfRange
)

func (k ErrorKind) String() string {
	switch k {
	case InvalidEncoding:
		return "InvalidEncoding"
	case InvalidSchema:
		return "InvalidSchema"
	case UnsupportedVersion:
		return "UnsupportedVersion"
	case InvariantViolation:
		return "InvariantViolation"
	case OutOfRange:
		return "OutOfRange"
	default:
		return "Unknown"
	}
}

// LoadError carries the human-readable context (which field, which index)
// required by the loader's failure modes.
type LoadError struct {
	Kind  ErrorKind
	Field string // e.g. "signals.continuous.envelopes.amplitude"
	Index int    // breakpoint index, or -1 if not applicable
	Err   error  // underlying cause, if any
}

func (e *LoadError) Error() string {
	loc := e.Field
	if e.Index >= 0 {
		loc = fmt.Sprintf("%s[%d]", e.Field, e.Index)
	}
	if e.Err != nil {
		if loc == "" {
			return fmt.Sprintf("%s: %v", e.Kind, e.Err)
		}
		return fmt.Sprintf("%s at %s: %v", e.Kind, loc, e.Err)
	}
	if loc == "" {
		return e.Kind.String()
	}
	return fmt.Sprintf("%s at %s", e.Kind, loc)
}

func (e *LoadError) Unwrap() error { return e.Err }

// newLoadError builds a LoadError with no specific breakpoint index.
func newLoadError(kind ErrorKind, field string, err error) *LoadError {
	return &LoadError{Kind: kind, Field: field, Index: -1, Err: err}
}

// newLoadErrorAt builds a LoadError pointing at a specific breakpoint index.
func newLoadErrorAt(kind ErrorKind, field string, index int, err error) *LoadError {
	return &LoadError{Kind: kind, Field: field, Index: index, Err: err}
}

// ErrOutOfRange is returned by TruncateBefore when no amplitude breakpoint
// remains at or after the truncation time.
var ErrOutOfRange = errors.New("datamodel: truncation target is out of range")
