package errors

import (
	"errors"
	"fmt"
	"time"
)

// Error types for the codebase audit system
type ErrorType string

const (
	// Analysis errors
	ErrorTypeParse            ErrorType = "parse"
	ErrorTypeUnresolvedImport ErrorType = "unresolved_import"
	ErrorTypeEmptyProject     ErrorType = "empty_project"

	// File errors
	ErrorTypeFileNotFound ErrorType = "file_not_found"
	ErrorTypeFileTooLarge ErrorType = "file_too_large"
	ErrorTypePermission   ErrorType = "permission"

	// Configuration errors
	ErrorTypeConfig ErrorType = "config"

	// Report errors
	ErrorTypeRender ErrorType = "render"
)

// ErrEmptyProject is matched by errors.Is against any EmptyProjectError
var ErrEmptyProject = errors.New("no source unit produced a valid module")

// ParseError represents a source unit that could not be parsed into a syntax tree
type ParseError struct {
	Type       ErrorType
	FilePath   string
	Line       int
	Column     int
	Token      string
	Underlying error
	Timestamp  time.Time
}

// NewParseError creates a new parse error
func NewParseError(path string, line, column int, token string, err error) *ParseError {
	return &ParseError{
		Type:       ErrorTypeParse,
		FilePath:   path,
		Line:       line,
		Column:     column,
		Token:      token,
		Underlying: err,
		Timestamp:  time.Now(),
	}
}

// WithPath sets the unit path on an error produced before the path was known
func (e *ParseError) WithPath(path string) *ParseError {
	e.FilePath = path
	return e
}

// Error implements the error interface
func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at %s:%d:%d (near token %q): %v",
		e.FilePath, e.Line, e.Column, e.Token, e.Underlying)
}

// Unwrap returns the underlying error
func (e *ParseError) Unwrap() error {
	return e.Underlying
}

// UnresolvedImportWarning represents an import that could not be mapped to a project module
type UnresolvedImportWarning struct {
	Type       ErrorType
	Module     string // importing module ID
	FilePath   string
	Statement  string // import as written
	Line       int
	Reason     string
	Suggestion string // closest known module, if any
}

// NewUnresolvedImportWarning creates a new unresolved import warning
func NewUnresolvedImportWarning(module, statement string, line int, reason string) *UnresolvedImportWarning {
	return &UnresolvedImportWarning{
		Type:      ErrorTypeUnresolvedImport,
		Module:    module,
		Statement: statement,
		Line:      line,
		Reason:    reason,
	}
}

// WithSuggestion attaches a "did you mean" candidate
func (w *UnresolvedImportWarning) WithSuggestion(s string) *UnresolvedImportWarning {
	w.Suggestion = s
	return w
}

// Error implements the error interface
func (w *UnresolvedImportWarning) Error() string {
	msg := fmt.Sprintf("unresolved import %q in %s (line %d): %s", w.Statement, w.Module, w.Line, w.Reason)
	if w.Suggestion != "" {
		msg += fmt.Sprintf(" (did you mean %q?)", w.Suggestion)
	}
	return msg
}

// EmptyProjectError is returned when zero source units produced a valid module
type EmptyProjectError struct {
	Type       ErrorType
	Root       string
	Units      int // units submitted
	ParseFails int
}

// NewEmptyProjectError creates a new empty project error
func NewEmptyProjectError(root string, units, parseFails int) *EmptyProjectError {
	return &EmptyProjectError{
		Type:       ErrorTypeEmptyProject,
		Root:       root,
		Units:      units,
		ParseFails: parseFails,
	}
}

// Error implements the error interface
func (e *EmptyProjectError) Error() string {
	return fmt.Sprintf("nothing to report for %s: %d source units, %d failed to parse",
		e.Root, e.Units, e.ParseFails)
}

// Is makes errors.Is(err, ErrEmptyProject) succeed
func (e *EmptyProjectError) Is(target error) bool {
	return target == ErrEmptyProject
}

// FileError represents a file-related error
type FileError struct {
	Type       ErrorType
	Path       string
	Operation  string
	Underlying error
	Timestamp  time.Time
}

// NewFileError creates a new file error
func NewFileError(op, path string, err error) *FileError {
	errorType := ErrorTypeFileNotFound
	if isPermissionError(err) {
		errorType = ErrorTypePermission
	}

	return &FileError{
		Type:       errorType,
		Path:       path,
		Operation:  op,
		Underlying: err,
		Timestamp:  time.Now(),
	}
}

// isPermissionError checks if the error is a permission error
func isPermissionError(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return errStr == "permission denied" || errStr == "access denied"
}

// Error implements the error interface
func (e *FileError) Error() string {
	return fmt.Sprintf("file %s failed for %s: %v", e.Operation, e.Path, e.Underlying)
}

// Unwrap returns the underlying error
func (e *FileError) Unwrap() error {
	return e.Underlying
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field      string
	Value      string
	Underlying error
	Timestamp  time.Time
}

// NewConfigError creates a new config error
func NewConfigError(field, value string, err error) *ConfigError {
	return &ConfigError{
		Field:      field,
		Value:      value,
		Underlying: err,
		Timestamp:  time.Now(),
	}
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error for field %s (value %s): %v", e.Field, e.Value, e.Underlying)
}

// Unwrap returns the underlying error
func (e *ConfigError) Unwrap() error {
	return e.Underlying
}

// RenderError represents a failure of an optional rendering capability
type RenderError struct {
	Type       ErrorType
	Renderer   string
	Underlying error
}

// NewRenderError creates a new render error
func NewRenderError(renderer string, err error) *RenderError {
	return &RenderError{Type: ErrorTypeRender, Renderer: renderer, Underlying: err}
}

// Error implements the error interface
func (e *RenderError) Error() string {
	return fmt.Sprintf("%s renderer failed: %v", e.Renderer, e.Underlying)
}

// Unwrap returns the underlying error
func (e *RenderError) Unwrap() error {
	return e.Underlying
}

// MultiError represents multiple errors
type MultiError struct {
	Errors []error
}

// NewMultiError creates a new multi-error
func NewMultiError(errs []error) *MultiError {
	// Filter out nil errors
	filtered := make([]error, 0, len(errs))
	for _, err := range errs {
		if err != nil {
			filtered = append(filtered, err)
		}
	}
	return &MultiError{Errors: filtered}
}

// ErrorOrNil returns nil when no errors were collected
func (e *MultiError) ErrorOrNil() error {
	if e == nil || len(e.Errors) == 0 {
		return nil
	}
	return e
}

// Error implements the error interface
func (e *MultiError) Error() string {
	if len(e.Errors) == 0 {
		return "no errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	return fmt.Sprintf("%d errors: %v", len(e.Errors), e.Errors)
}

// Unwrap returns all errors
func (e *MultiError) Unwrap() []error {
	return e.Errors
}
