package oaserrors

import (
	"errors"
	"fmt"
)

// Sentinel errors for use with errors.Is().
var (
	// ErrParse indicates the source document could not be parsed.
	ErrParse = errors.New("parse error")

	// ErrReference indicates a reference resolution failure.
	ErrReference = errors.New("reference error")

	// ErrUnresolvedReference indicates a $ref whose target does not exist.
	ErrUnresolvedReference = errors.New("unresolved reference")

	// ErrSpec indicates a document defect that prevents generation.
	ErrSpec = errors.New("spec error")

	// ErrPagination indicates a paginated response no driver can walk.
	ErrPagination = errors.New("pagination error")

	// ErrConfig indicates an invalid configuration.
	ErrConfig = errors.New("configuration error")
)

// ParseError represents a failure to read or decode an OpenAPI document.
type ParseError struct {
	// Path is the file path, URL or source identifier
	Path string
	// Message describes the failure
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ParseError) Error() string {
	msg := "parse error"
	if e.Path != "" {
		msg += " in " + e.Path
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ParseError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}

// ReferenceError represents a $ref that could not be resolved.
type ReferenceError struct {
	// Ref is the reference string that failed to resolve
	Ref string
	// Kind is the component kind: "parameter", "schema", "response"
	Kind string
	// Unresolved is true when the target is absent from the registry
	Unresolved bool
	// Message provides additional context
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ReferenceError) Error() string {
	msg := "reference error"
	if e.Unresolved {
		msg = "unresolved reference"
	}
	if e.Kind != "" {
		msg += " to " + e.Kind
	}
	if e.Ref != "" {
		msg += ": " + e.Ref
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ReferenceError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
// Matches ErrReference, and ErrUnresolvedReference when Unresolved is set.
func (e *ReferenceError) Is(target error) bool {
	if target == ErrReference {
		return true
	}
	return target == ErrUnresolvedReference && e.Unresolved
}

// SpecError represents a document defect found while classifying or
// planning an operation.
type SpecError struct {
	// Method is the HTTP verb of the offending operation (may be empty)
	Method string
	// Path is the path template of the offending operation (may be empty)
	Path string
	// Message describes the defect
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *SpecError) Error() string {
	msg := "spec error"
	if e.Method != "" || e.Path != "" {
		msg += fmt.Sprintf(" at %s %s", e.Method, e.Path)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *SpecError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *SpecError) Is(target error) bool {
	return target == ErrSpec
}

// PaginationError reports a paginated response shape that none of the
// drivers permitted for the vendor can walk.
type PaginationError struct {
	// Vendor is the vendor profile name
	Vendor string
	// Property is the envelope property that identified the response as paginated
	Property string
	// Operation is the operation id being generated
	Operation string
}

// Error returns a human-readable error message.
func (e *PaginationError) Error() string {
	msg := fmt.Sprintf("must implement custom pagination function for %s %s", e.Vendor, e.Property)
	if e.Operation != "" {
		msg += " (operation " + e.Operation + ")"
	}
	return msg
}

// Is reports whether target matches this error type.
func (e *PaginationError) Is(target error) bool {
	return target == ErrPagination
}

// ConfigError represents an invalid configuration or input.
type ConfigError struct {
	// Option is the name of the problematic configuration option
	Option string
	// Value is the invalid value that was provided (may be nil)
	Value any
	// Message describes the configuration error
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ConfigError) Error() string {
	msg := "configuration error"
	if e.Option != "" {
		msg += " for " + e.Option
	}
	if e.Value != nil {
		msg += fmt.Sprintf(" (value: %v)", e.Value)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *ConfigError) Is(target error) bool {
	return target == ErrConfig
}
