package core

// # Error Codes Reference
//
// User-facing messages carry a code so operators can quote it when reporting
// a problem. Patterns are matched case-insensitively against the technical
// error text, first match wins.
//
// # Network Errors (NET001-NET099)
//
//	NET001 - Backend unreachable
//	         Patterns: "connection refused", "no such host"
//	NET002 - Backend too slow
//	         Patterns: "context deadline exceeded", "timeout"
//	NET003 - Request cancelled
//	         Patterns: "context canceled"
//
// # Backend Errors (API401-API599)
//
//	API401 - Not signed in           Patterns: "status 401"
//	API403 - Not allowed             Patterns: "status 403"
//	API404 - Record not found        Patterns: "status 404"
//	API409 - Conflicting change      Patterns: "status 409"
//	API500 - Backend failure         Patterns: "status 500", "status 502", "status 503", "status 504"
//
// # Board Errors
//
//	DATA001 - Unreadable response    Patterns: "invalid row data"
//	GRID001 - Unknown action         Patterns: "unknown control"
//	PAGE001 - Unknown page           Patterns: "unknown page"
//	RATE001 - Rate limited           Patterns: "rate limit"
//
// Anything else maps to ERR000.

import (
	"fmt"
	"strings"
)

type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

type errorPattern struct {
	pattern string
	msg     UserMessage
}

var errorPatterns = []errorPattern{
	// =========================================================================
	// Network Errors (NET001-NET003)
	// =========================================================================
	{
		pattern: "connection refused",
		msg: UserMessage{
			Message: "Unable to reach the backend",
			Action:  "Please try again in a few moments",
			Code:    "NET001",
		},
	},
	{
		pattern: "no such host",
		msg: UserMessage{
			Message: "Unable to reach the backend",
			Action:  "Check the BACKEND_URL setting",
			Code:    "NET001",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "The backend took too long to respond",
			Action:  "Please try again",
			Code:    "NET002",
		},
	},
	{
		pattern: "timeout",
		msg: UserMessage{
			Message: "The backend took too long to respond",
			Action:  "Please try again",
			Code:    "NET002",
		},
	},
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "Request was cancelled",
			Action:  "Please try again",
			Code:    "NET003",
		},
	},

	// =========================================================================
	// Backend Errors (API401-API500)
	// =========================================================================
	{
		pattern: "status 401",
		msg: UserMessage{
			Message: "You are not signed in to the backend",
			Action:  "Sign in and reload the page",
			Code:    "API401",
		},
	},
	{
		pattern: "status 403",
		msg: UserMessage{
			Message: "You are not allowed to do that",
			Action:  "Ask an admin for access",
			Code:    "API403",
		},
	},
	{
		pattern: "status 404",
		msg: UserMessage{
			Message: "Record not found",
			Action:  "Reload the page; the record may have been removed",
			Code:    "API404",
		},
	},
	{
		pattern: "status 409",
		msg: UserMessage{
			Message: "The record was changed by someone else",
			Action:  "Reload the page and try again",
			Code:    "API409",
		},
	},
	{
		pattern: "status 500",
		msg:     backendFailure,
	},
	{
		pattern: "status 502",
		msg:     backendFailure,
	},
	{
		pattern: "status 503",
		msg:     backendFailure,
	},
	{
		pattern: "status 504",
		msg:     backendFailure,
	},

	// =========================================================================
	// Board Errors
	// =========================================================================
	{
		pattern: "invalid row data",
		msg: UserMessage{
			Message: "The backend returned data the board cannot read",
			Action:  "Check that BACKEND_URL points at the API",
			Code:    "DATA001",
		},
	},
	{
		pattern: "unknown control",
		msg: UserMessage{
			Message: "That action is no longer available",
			Action:  "Reload the page and try again",
			Code:    "GRID001",
		},
	},
	{
		pattern: "stale row",
		msg: UserMessage{
			Message: "That row changed since the page was loaded",
			Action:  "Check the refreshed table and try again",
			Code:    "GRID002",
		},
	},
	{
		pattern: "unknown page",
		msg: UserMessage{
			Message: "Page not found",
			Action:  "Pick a page from the navigation",
			Code:    "PAGE001",
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

var backendFailure = UserMessage{
	Message: "The backend failed to handle the request",
	Action:  "Please try again later",
	Code:    "API500",
}

// defaultMessage is returned when no pattern matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// It searches the known patterns case-insensitively and returns the first
// match, or the ERR000 fallback.
//
// Example:
//
//	msg := MapError(errors.New("backend returned status 403 for POST /api/shift/toggleAdmin"))
//	// msg.Code == "API403"
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

// IsUserFacing reports whether err matches a specific pattern rather than
// the ERR000 fallback.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}
