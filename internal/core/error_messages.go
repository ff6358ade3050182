// Package core provides the table logic for the standards explorer.
//
// # Error Codes Reference
//
// This file defines user-friendly error messages with codes for support reference.
// When users encounter errors, they can quote the error code to support staff
// for faster diagnosis.
//
// # Selection and Export Errors (SEL001-SEL099)
//
//	SEL001 - No rows selected: Export was requested with an empty selection
//	         Action: Select one or more rows and try again
//	         Patterns: "no rows selected"
//
// # View Errors (VIEW001-VIEW099)
//
//	VIEW001 - View expired: The page's view is unknown or was evicted
//	          Action: Reload the page
//	          Patterns: "view not found"
//
// # Record Errors (REC001-REC099)
//
//	REC001 - Record not found: No record with this code exists
//	         Action: Check the document code
//	         Patterns: "record not found"
//
// # Dataset Errors (DS001-DS099)
//
// Raised while loading the dataset at startup or through the export CLI:
//
//	DS001 - Duplicate id: Two records share a document code
//	DS002 - Missing id: A record has no document code
//	DS003 - Unsupported format: Dataset file extension is not recognized
//	DS004 - Unknown column: A CSV dataset header names no known column
//
// # Request Errors (REQ001-REQ099)
//
//	REQ001 - Invalid body: Request body could not be decoded
//	REQ002 - Cancelled: Request was cancelled ("context canceled")
//	REQ003 - Timeout: Request timed out ("context deadline exceeded")
//
// # Auth and Rate Limiting (AUTH001-AUTH099, RATE001-RATE099)
//
//	AUTH001 - Missing API key
//	AUTH002 - Invalid API key
//	RATE001 - Too many requests
//
// # Default Error (ERR000)
//
// Fallback when no specific pattern matches:
//
//	ERR000 - Unknown error: An unexpected error occurred
//	         Action: Please try again or contact support
//
// # Pattern Matching
//
// Error patterns are matched case-insensitively using strings.Contains.
// The first matching pattern wins, so more specific patterns should be
// defined before general ones.
package core

import (
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns maps technical error patterns (case-insensitive) to user messages.
// The first matching pattern wins, so order matters.
var errorPatterns = []errorPattern{
	// =========================================================================
	// Selection and Export (SEL001)
	// =========================================================================
	{
		pattern: "no rows selected",
		msg: UserMessage{
			Message: "No rows selected for export.",
			Action:  "Select one or more rows and try again",
			Code:    "SEL001",
		},
	},

	// =========================================================================
	// Views and Records (VIEW001, REC001)
	// =========================================================================
	{
		pattern: "view not found",
		msg: UserMessage{
			Message: "This page has expired",
			Action:  "Reload the page to continue",
			Code:    "VIEW001",
		},
	},
	{
		pattern: "record not found",
		msg: UserMessage{
			Message: "Record not found",
			Action:  "Check the document code",
			Code:    "REC001",
		},
	},

	// =========================================================================
	// Dataset (DS001-DS004)
	// =========================================================================
	{
		pattern: "duplicate record id",
		msg: UserMessage{
			Message: "Two records share the same document code",
			Action:  "Make every document code in the dataset unique",
			Code:    "DS001",
		},
	},
	{
		pattern: "missing record id",
		msg: UserMessage{
			Message: "A record has no document code",
			Action:  "Fill in the id column for every record",
			Code:    "DS002",
		},
	},
	{
		pattern: "unsupported dataset format",
		msg: UserMessage{
			Message: "Dataset file format is not supported",
			Action:  "Use a .yaml, .json, .toml, or .csv file (optionally .gz or .zst)",
			Code:    "DS003",
		},
	},
	{
		pattern: "unknown column",
		msg: UserMessage{
			Message: "Dataset header contains an unknown column",
			Action:  "Use the field names or header names of the table columns",
			Code:    "DS004",
		},
	},

	// =========================================================================
	// Requests (REQ001-REQ003)
	// =========================================================================
	{
		pattern: "invalid request body",
		msg: UserMessage{
			Message: "The request could not be read",
			Action:  "Check the request format and try again",
			Code:    "REQ001",
		},
	},
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "Request was cancelled",
			Action:  "Please try again",
			Code:    "REQ002",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "Request timed out",
			Action:  "Please try again",
			Code:    "REQ003",
		},
	},

	// =========================================================================
	// Auth and Rate Limiting (AUTH001-AUTH002, RATE001)
	// =========================================================================
	{
		pattern: "missing api key",
		msg: UserMessage{
			Message: "API key required",
			Action:  "Send an X-API-Key header",
			Code:    "AUTH001",
		},
	},
	{
		pattern: "invalid api key",
		msg: UserMessage{
			Message: "API key not accepted",
			Action:  "Check the configured API keys",
			Code:    "AUTH002",
		},
	},
	{
		pattern: "rate limit",
		msg: UserMessage{
			Message: "Too many requests",
			Action:  "Please wait a moment before trying again",
			Code:    "RATE001",
		},
	},
}

// defaultMessage is returned when no pattern matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// It searches through known error patterns (case-insensitive) and returns
// the first match. If no pattern matches, a generic fallback message with
// code ERR000 is returned.
//
// Example:
//
//	msg := MapError(ErrNoRowsSelected)
//	// msg.Code == "SEL001"
//	// msg.Message == "No rows selected for export."
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
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

// IsUserFacing checks if an error matches a known pattern and should be shown to users.
// Returns true if the error matches a specific pattern (not the generic ERR000 fallback).
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}

// UserError pairs a technical error with its user-friendly message.
// The original error is preserved for logging while providing a clean message for users.
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

// NewUserError creates a UserError by mapping a technical error to a user-friendly message.
// Returns nil if err is nil.
func NewUserError(err error) *UserError {
	if err == nil {
		return nil
	}
	return &UserError{
		Technical: err,
		User:      MapError(err),
	}
}
