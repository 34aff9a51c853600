// Package errors defines archmap's stable error codes and the rich error
// type rendered at the CLI boundary. Engine internals degrade to partial
// results instead of failing; the codes here cover the cases that do reach
// the user.
package errors

import (
	"fmt"
)

// ErrorCode represents stable error codes for all failure modes
type ErrorCode string

const (
	// ProjectNotFound indicates the project root does not exist or is not a directory
	ProjectNotFound ErrorCode = "PROJECT_NOT_FOUND"
	// FileNotIndexed indicates the requested file is not in the scanned file table
	FileNotIndexed ErrorCode = "FILE_NOT_INDEXED"
	// ConfigInvalid indicates the configuration failed validation
	ConfigInvalid ErrorCode = "CONFIG_INVALID"
	// CacheUnavailable indicates the cache directory could not be created or opened
	CacheUnavailable ErrorCode = "CACHE_UNAVAILABLE"
	// HistoryUnavailable indicates the build history database could not be opened
	HistoryUnavailable ErrorCode = "HISTORY_UNAVAILABLE"
	// SymbolMissing indicates no symbol could be derived from the given text
	SymbolMissing ErrorCode = "SYMBOL_MISSING"
	// InternalError indicates an unexpected error
	InternalError ErrorCode = "INTERNAL_ERROR"
)

// FixActionType represents the type of fix action
type FixActionType string

const (
	// RunCommand suggests running a command
	RunCommand FixActionType = "run-command"
	// OpenDocs suggests opening documentation
	OpenDocs FixActionType = "open-docs"
)

// FixAction represents a suggested fix for an error
type FixAction struct {
	Type        FixActionType `json:"type"`
	Command     string        `json:"command,omitempty"`
	Safe        bool          `json:"safe,omitempty"`
	Description string        `json:"description,omitempty"`
	URL         string        `json:"url,omitempty"`
}

// Error represents an archmap error with code, message, and suggestions
type Error struct {
	Code           ErrorCode   `json:"code"`
	Message        string      `json:"message"`
	Details        interface{} `json:"details,omitempty"`
	SuggestedFixes []FixAction `json:"suggestedFixes,omitempty"`
	cause          error       // Underlying error (not exported to JSON)
}

// New creates a new Error
func New(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap creates a new Error with an underlying cause
func Wrap(code ErrorCode, message string, cause error) *Error {
	return &Error{Code: code, Message: message, cause: cause}
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.cause
}

// WithDetails adds details to the error
func (e *Error) WithDetails(details interface{}) *Error {
	e.Details = details
	return e
}

// WithFixes adds suggested fixes to the error
func (e *Error) WithFixes(fixes ...FixAction) *Error {
	e.SuggestedFixes = append(e.SuggestedFixes, fixes...)
	return e
}

// IsCode reports whether err is an *Error carrying the given code.
func IsCode(err error, code ErrorCode) bool {
	if err == nil {
		return false
	}
	e, ok := err.(*Error)
	return ok && e.Code == code
}

// ErrorActions maps error codes to suggested fix actions
var ErrorActions = map[ErrorCode][]FixAction{
	FileNotIndexed: {
		{
			Type:        RunCommand,
			Command:     "archmap build",
			Safe:        true,
			Description: "Rebuild the file table; the file may be new or excluded by configuration",
		},
	},
	ConfigInvalid: {
		{
			Type:        RunCommand,
			Command:     "archmap init --force",
			Safe:        false,
			Description: "Rewrite .archmap/config.json with defaults",
		},
	},
	CacheUnavailable: {
		{
			Type:        RunCommand,
			Command:     "archmap cache clear",
			Safe:        true,
			Description: "Reset the context cache directory",
		},
	},
}

// GetSuggestedFixes returns suggested fixes for an error code
func GetSuggestedFixes(code ErrorCode) []FixAction {
	if fixes, ok := ErrorActions[code]; ok {
		return fixes
	}
	return nil
}
