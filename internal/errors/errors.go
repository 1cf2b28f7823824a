// Package errors provides the typed error taxonomy used across the analysis.
package errors

import (
	stderrors "errors"
	"fmt"
)

// Type identifies the category of error
type Type string

const (
	// TypeConfig indicates missing or invalid configuration.
	// Raised before any feed is opened.
	TypeConfig Type = "CONFIG_ERROR"

	// TypeSourceUnavailable indicates a feed could not be fully retrieved
	TypeSourceUnavailable Type = "SOURCE_UNAVAILABLE"

	// TypeNormalization indicates a record could not be mapped to a group key
	TypeNormalization Type = "NORMALIZATION_ERROR"

	// TypeInput indicates an invalid request or argument
	TypeInput Type = "INPUT_ERROR"

	// TypeInternal indicates an internal error
	TypeInternal Type = "INTERNAL_ERROR"
)

// Source names the feed an error originated from
type Source string

const (
	SourceInventory   Source = "inventory"
	SourceCommitments Source = "commitments"
)

// Error represents a domain error with context
type Error struct {
	Type    Type                   `json:"type"`
	Message string                 `json:"message"`
	Source  Source                 `json:"source,omitempty"`
	Cause   error                  `json:"-"`
	Context map[string]interface{} `json:"context,omitempty"`
}

// Error implements the error interface
func (e *Error) Error() string {
	prefix := fmt.Sprintf("[%s]", e.Type)
	if e.Source != "" {
		prefix = fmt.Sprintf("[%s/%s]", e.Type, e.Source)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s %s: %v", prefix, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s %s", prefix, e.Message)
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an *Error of the same type.
// This lets callers use errors.Is(err, errors.New(TypeConfig, "")).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Type == t.Type
}

// Detail returns the cause message, or the error message when there is no cause
func (e *Error) Detail() string {
	if e.Cause != nil {
		return e.Cause.Error()
	}
	return e.Message
}

// WithContext adds context to the error
func (e *Error) WithContext(key string, value interface{}) *Error {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// WithSource records which feed produced the error
func (e *Error) WithSource(source Source) *Error {
	e.Source = source
	return e
}

// New creates a new error
func New(errType Type, message string) *Error {
	return &Error{
		Type:    errType,
		Message: message,
	}
}

// Newf creates a new formatted error
func Newf(errType Type, format string, args ...interface{}) *Error {
	return &Error{
		Type:    errType,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap wraps an error with context
func Wrap(errType Type, message string, cause error) *Error {
	return &Error{
		Type:    errType,
		Message: message,
		Cause:   cause,
	}
}

// Wrapf wraps an error with formatted context
func Wrapf(errType Type, cause error, format string, args ...interface{}) *Error {
	return &Error{
		Type:    errType,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// As returns the first *Error in err's chain
func As(err error) (*Error, bool) {
	var e *Error
	if stderrors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// IsType checks if any error in the chain is of a specific type
func IsType(err error, t Type) bool {
	if e, ok := As(err); ok {
		return e.Type == t
	}
	return false
}

// Config creates a configuration error
func Config(message string) *Error {
	return New(TypeConfig, message)
}

// SourceUnavailable wraps a retrieval failure from one of the feeds
func SourceUnavailable(source Source, cause error) *Error {
	return Wrapf(TypeSourceUnavailable, cause, "%s feed could not be retrieved", source).WithSource(source)
}

// Normalization creates a normalization error for a single record
func Normalization(source Source, recordID, reason string) *Error {
	return New(TypeNormalization, reason).WithSource(source).WithContext("record", recordID)
}

// Input creates an input error
func Input(message string) *Error {
	return New(TypeInput, message)
}

// Internal creates an internal error
func Internal(message string, cause error) *Error {
	return Wrap(TypeInternal, message, cause)
}
