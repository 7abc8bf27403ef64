package core

// error_messages.go maps technical errors to user-facing messages with
// codes for support reference.
//
// # Error Codes Reference
//
// # Parse Errors (PARSE001-PARSE099)
//
//	PARSE001 - Empty input: The table has no rows
//	           Action: Check that the file contains the exported limit table
//	           Match: limits.ErrEmptyInput
//
//	PARSE002 - Invalid number: A metric cell is not a number
//	           Action: Fix the cell named in the error or add its text to the null values
//	           Match: *limits.InvalidValueError
//
//	PARSE003 - Invalid options: Parse options are incomplete
//	           Action: Provide a parametric marker, a key marker and non-empty metric labels
//	           Match: limits.ErrInvalidOptions
//
// # Source Errors (SRC001-SRC099)
//
//	SRC001 - Source unavailable: The file could not be read
//	SRC002 - Unsupported format: Only .csv, .txt, .xlsx and .xlsm files are read
//	SRC003 - Sheet not found: The requested worksheet does not exist
//
// # File Errors (FILE001-FILE099)
//
//	FILE001 - File too large
//	          Patterns: "file too large", "request body too large"
//	FILE004 - No file
//	          Patterns: "no file provided"
//
// # Comparison Errors (CMP001-CMP099)
//
//	CMP001 - System busy: Too many comparisons in progress
//	         Match: ErrTooManyComparisons
//
// # Request Errors (UPL004-UPL005)
//
//	UPL004 - Request cancelled (context.Canceled)
//	UPL005 - Request timeout (context.DeadlineExceeded)
//
// # Default Error (ERR000)
//
// Fallback when nothing matches. Check the logs for the technical error.
//
// # Matching
//
// Typed matches (errors.Is / errors.As) are tried first, in table order, so
// wrapped errors resolve to their most specific cause. The string patterns
// are then matched case-insensitively with strings.Contains; the first
// match wins.

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/JonMunkholm/limitdiff/internal/limits"
	"github.com/JonMunkholm/limitdiff/internal/source"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

type errorMatch struct {
	match func(error) bool
	msg   UserMessage
}

func is(target error) func(error) bool {
	return func(err error) bool { return errors.Is(err, target) }
}

// errorMatches is ordered specific before general: the source format and
// sheet errors are also ErrSourceUnavailable.
var errorMatches = []errorMatch{
	{
		match: is(limits.ErrEmptyInput),
		msg: UserMessage{
			Message: "The table has no rows",
			Action:  "Check that the file contains the exported limit table",
			Code:    "PARSE001",
		},
	},
	{
		match: func(err error) bool {
			var ive *limits.InvalidValueError
			return errors.As(err, &ive)
		},
		msg: UserMessage{
			Message: "A metric cell is not a number",
			Action:  "Fix the cell named in the error or add its text to the null values",
			Code:    "PARSE002",
		},
	},
	{
		match: is(limits.ErrInvalidOptions),
		msg: UserMessage{
			Message: "Parse options are incomplete",
			Action:  "Provide a parametric marker, a key marker and non-empty metric labels",
			Code:    "PARSE003",
		},
	},
	{
		match: is(source.ErrUnsupportedFormat),
		msg: UserMessage{
			Message: "Unsupported file format",
			Action:  "Upload a .csv, .txt, .xlsx or .xlsm file",
			Code:    "SRC002",
		},
	},
	{
		match: is(source.ErrSheetNotFound),
		msg: UserMessage{
			Message: "The requested worksheet does not exist",
			Action:  "Check the sheet name or leave it empty to use the first sheet",
			Code:    "SRC003",
		},
	},
	{
		match: is(source.ErrSourceUnavailable),
		msg: UserMessage{
			Message: "The file could not be read",
			Action:  "Check that the file exists and is a valid CSV or XLSX export",
			Code:    "SRC001",
		},
	},
	{
		match: is(ErrTooManyComparisons),
		msg: UserMessage{
			Message: "System is busy processing other comparisons",
			Action:  "Please wait a moment and try again",
			Code:    "CMP001",
		},
	},
	{
		match: is(context.Canceled),
		msg: UserMessage{
			Message: "Request was cancelled",
			Action:  "Please try again",
			Code:    "UPL004",
		},
	},
	{
		match: is(context.DeadlineExceeded),
		msg: UserMessage{
			Message: "Request timed out",
			Action:  "Try smaller files or check your connection",
			Code:    "UPL005",
		},
	},
}

type errorPattern struct {
	pattern string
	msg     UserMessage
}

var fileTooLarge = UserMessage{
	Message: "File exceeds the maximum size limit",
	Action:  "Export only the limit table or raise COMPARE_MAX_FILE_SIZE",
	Code:    "FILE001",
}

// errorPatterns catch errors that only carry text, mostly from net/http.
var errorPatterns = []errorPattern{
	{pattern: "file too large", msg: fileTooLarge},
	{pattern: "request body too large", msg: fileTooLarge},
	{
		pattern: "no file provided",
		msg: UserMessage{
			Message: "No file was selected",
			Action:  "Please select both the old and the new file",
			Code:    "FILE004",
		},
	},
	{
		pattern: "unknown report format",
		msg: UserMessage{
			Message: "The requested report format is not supported",
			Action:  "Use one of text, json, markdown, html or xlsx",
			Code:    "FMT001",
		},
	},
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "Request was cancelled",
			Action:  "Please try again",
			Code:    "UPL004",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "Request timed out",
			Action:  "Try smaller files or check your connection",
			Code:    "UPL005",
		},
	},
}

// defaultMessage is returned when nothing matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
//
//	_, err := limits.Parse(rows, opts)
//	msg := MapError(err)
//	// msg.Code == "PARSE002" for a bad metric cell
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	for _, em := range errorMatches {
		if em.match(err) {
			return em.msg
		}
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// FormatUserError creates a formatted error string for display.
// The format is: "Message (Code: XXX). Action"
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err maps to a specific message rather than
// the ERR000 fallback.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}

// UserError pairs a technical error with its user-facing message.
type UserError struct {
	Technical error       // Original technical error for logging
	User      UserMessage // User-friendly message for display
}

func (e *UserError) Error() string {
	return e.User.Message
}

func (e *UserError) Unwrap() error {
	return e.Technical
}

// NewUserError maps err to a UserError. Returns nil if err is nil.
func NewUserError(err error) *UserError {
	if err == nil {
		return nil
	}
	return &UserError{
		Technical: err,
		User:      MapError(err),
	}
}
