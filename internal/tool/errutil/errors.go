// Package errutil defines the shared error vocabulary for all workspace tools.
// Every failure a tool can report carries a stable string code suitable for
// programmatic branching by the caller, paired with a prose message.
package errutil

import (
	"errors"
	"fmt"
	"os"
)

// Code identifies a failure kind. Codes are stable strings and part of the
// public contract; renaming one is a breaking change.
type Code string

const (
	// Workspace / path errors
	CodePathTraversal    Code = "path_traversal_attempt"
	CodeOutsideWorkspace Code = "path_outside_workspace"
	CodeSymlinkOutside   Code = "symlink_outside_workspace"
	CodeNotFound         Code = "not_found"
	CodeNotAFile         Code = "not_a_file"
	CodeNotADirectory    Code = "not_a_directory"
	CodePermissionDenied Code = "permission_denied"

	// Content errors
	CodeFileTooLarge   Code = "file_too_large"
	CodeIsBinary       Code = "is_binary"
	CodeLineOutOfRange Code = "line_out_of_range"

	// Write errors
	CodeWritesDisabled Code = "writes_disabled"
	CodeWriteTooLarge  Code = "write_too_large"
	CodeInvalidMode    Code = "invalid_mode"
	CodeFileExists     Code = "file_exists"

	// Edit errors
	CodeMatchNotFound     Code = "match_not_found"
	CodeMultipleMatches   Code = "multiple_matches"
	CodeEmptyExpectedText Code = "empty_expected_text"

	// Search errors
	CodeInvalidRegex Code = "invalid_regex"
	CodeRegexTimeout Code = "regex_timeout"

	// Request / infrastructure errors
	CodeInvalidArgument Code = "invalid_argument"
	CodeIO              Code = "io_error"
)

// ToolError is a structured tool failure. It implements error so it can flow
// through normal error returns and be wrapped with %w.
type ToolError struct {
	Code    Code
	Message string
}

// Error implements the error interface.
func (e *ToolError) Error() string {
	if e.Message == "" {
		return string(e.Code)
	}
	return string(e.Code) + ": " + e.Message
}

// New creates a ToolError with a formatted message.
func New(code Code, format string, args ...any) *ToolError {
	return &ToolError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// CodeOf extracts the error code from err. Errors that are not (and do not
// wrap) a ToolError are reported as CodeIO: the caller always receives a
// structured code, never a raw filesystem fault.
func CodeOf(err error) Code {
	var te *ToolError
	if errors.As(err, &te) {
		return te.Code
	}
	return CodeIO
}

// FromOSError maps a filesystem error to the taxonomy. Non-existence and
// permission failures get their dedicated codes; everything else is CodeIO.
func FromOSError(path string, err error) *ToolError {
	switch {
	case os.IsNotExist(err):
		return New(CodeNotFound, "path does not exist: %s", path)
	case os.IsPermission(err):
		return New(CodePermissionDenied, "permission denied: %s", path)
	default:
		return New(CodeIO, "filesystem error on %s: %v", path, err)
	}
}
