// Package errors provides the error types shared by the parser core and its
// collaborators.
//
// Parsing has exactly two fatal kinds: FormatError (the document does not
// start with the OpenITI sentinel) and MalformedTagError (a strictly grouped
// tag such as a page marker cannot be decoded). Everything else is an
// ambient error used by the store, source loader and CLI.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common cases
var (
	// ErrFormat indicates the input is not an OpenITI mARkdown document
	ErrFormat = errors.New("not an OpenITI mARkdown document")
	// ErrMalformedTag indicates a tag whose internal groups cannot be parsed
	ErrMalformedTag = errors.New("malformed tag")
	// ErrNotFound indicates a resource was not found
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput indicates invalid input or validation failure
	ErrInvalidInput = errors.New("invalid input")
	// ErrUnsupported indicates an unsupported operation or format
	ErrUnsupported = errors.New("unsupported")
)

// Error kinds reported by Kind().
const (
	KindFormat       = "FormatError"
	KindMalformedTag = "MalformedTag"
)

// FormatError reports a missing or (in strict mode) inexact sentinel line.
type FormatError struct {
	Line    int    // 1-based line of the offending record, 0 for empty input
	Message string // Human-readable error message
}

func (e *FormatError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("format error at line %d: %s", e.Line, e.Message)
	}
	return fmt.Sprintf("format error: %s", e.Message)
}

func (e *FormatError) Unwrap() error {
	return ErrFormat
}

// Kind returns KindFormat.
func (e *FormatError) Kind() string { return KindFormat }

// MalformedTagError reports a tag token whose digit groups fail to parse.
type MalformedTagError struct {
	Line    int    // 1-based line number
	Tag     string // Tag marker (e.g., "PageV")
	Message string
}

func (e *MalformedTagError) Error() string {
	if e.Tag != "" {
		return fmt.Sprintf("malformed %s tag at line %d: %s", e.Tag, e.Line, e.Message)
	}
	return fmt.Sprintf("malformed tag at line %d: %s", e.Line, e.Message)
}

func (e *MalformedTagError) Unwrap() error {
	return ErrMalformedTag
}

// Kind returns KindMalformedTag.
func (e *MalformedTagError) Kind() string { return KindMalformedTag }

// NotFoundError represents a resource not found error with context
type NotFoundError struct {
	Resource string // Type of resource (e.g., "document", "metadata")
	ID       string // Identifier of the resource
	Err      error  // Underlying error, if any
}

func (e *NotFoundError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

func (e *NotFoundError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrNotFound
}

// ValidationError represents an input validation error with context
type ValidationError struct {
	Field   string // Field name that failed validation
	Value   string // Value that failed validation (may be redacted)
	Message string // Human-readable error message
	Err     error  // Underlying error, if any
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

func (e *ValidationError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrInvalidInput
}

// IOError represents an I/O operation error with context
type IOError struct {
	Operation string // Operation being performed (e.g., "read", "fetch", "open")
	Path      string // File path or URL involved
	Err       error  // Underlying error
}

func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("failed to %s %s: %v", e.Operation, e.Path, e.Err)
	}
	return fmt.Sprintf("failed to %s: %v", e.Operation, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// ParseError represents a parsing error in a collaborator format
// (XPath expressions, text URIs, release metadata).
type ParseError struct {
	Format  string // Format being parsed (e.g., "URI", "XPath")
	Path    string // Input or file path, if applicable
	Message string // Error details
	Err     error  // Underlying error, if any
}

func (e *ParseError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("failed to parse %s at %s: %s", e.Format, e.Path, e.Message)
	}
	return fmt.Sprintf("failed to parse %s: %s", e.Format, e.Message)
}

func (e *ParseError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrInvalidInput
}

// UnsupportedError represents an unsupported feature or format
type UnsupportedError struct {
	Feature string // Feature or format that is unsupported
	Reason  string // Why it's not supported
	Err     error  // Underlying error, if any
}

func (e *UnsupportedError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("unsupported %s: %s", e.Feature, e.Reason)
	}
	return fmt.Sprintf("unsupported %s", e.Feature)
}

func (e *UnsupportedError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrUnsupported
}

// Helper functions for creating common errors

// NewFormat creates a FormatError
func NewFormat(line int, message string) *FormatError {
	return &FormatError{
		Line:    line,
		Message: message,
	}
}

// NewMalformedTag creates a MalformedTagError
func NewMalformedTag(line int, tag, message string) *MalformedTagError {
	return &MalformedTagError{
		Line:    line,
		Tag:     tag,
		Message: message,
	}
}

// NewNotFound creates a NotFoundError
func NewNotFound(resource, id string) *NotFoundError {
	return &NotFoundError{
		Resource: resource,
		ID:       id,
	}
}

// NewValidation creates a ValidationError
func NewValidation(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

// NewIO creates an IOError
func NewIO(operation, path string, err error) *IOError {
	return &IOError{
		Operation: operation,
		Path:      path,
		Err:       err,
	}
}

// NewParse creates a ParseError
func NewParse(format, path, message string) *ParseError {
	return &ParseError{
		Format:  format,
		Path:    path,
		Message: message,
	}
}

// NewUnsupported creates an UnsupportedError
func NewUnsupported(feature, reason string) *UnsupportedError {
	return &UnsupportedError{
		Feature: feature,
		Reason:  reason,
	}
}

// LineOf returns the 1-based line carried by a fatal parse error, or 0.
func LineOf(err error) int {
	var fe *FormatError
	if errors.As(err, &fe) {
		return fe.Line
	}
	var me *MalformedTagError
	if errors.As(err, &me) {
		return me.Line
	}
	return 0
}

// Wrap adds context to an error. If err is nil, returns nil.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf adds formatted context to an error. If err is nil, returns nil.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	message := fmt.Sprintf(format, args...)
	return fmt.Errorf("%s: %w", message, err)
}

// Is wraps errors.Is for convenience
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As wraps errors.As for convenience
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
