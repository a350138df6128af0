// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"errors"
	"fmt"
)

// Process exit statuses.
const (
	ExitFailure    = 1
	ExitValidation = 2
)

// ErrorCategory tells [ExitCode] how to report a [ToolError].
type ErrorCategory string

const (
	// CategoryValidation marks bad input: an unknown flag or feature,
	// a malformed or inconsistent configuration.
	CategoryValidation ErrorCategory = "validation"

	// CategoryNotFound marks a missing build product, such as a
	// manifest or bindings file requested before any build ran.
	CategoryNotFound ErrorCategory = "not_found"
)

// ToolError attaches a category to an error. errors.Is and errors.As
// see through it.
type ToolError struct {
	Category ErrorCategory
	Err      error
}

func (e *ToolError) Error() string { return e.Err.Error() }
func (e *ToolError) Unwrap() error { return e.Err }

func categorized(category ErrorCategory, format string, args []any) *ToolError {
	return &ToolError{Category: category, Err: fmt.Errorf(format, args...)}
}

// Validation formats a [CategoryValidation] error.
func Validation(format string, args ...any) *ToolError {
	return categorized(CategoryValidation, format, args)
}

// NotFound formats a [CategoryNotFound] error.
func NotFound(format string, args ...any) *ToolError {
	return categorized(CategoryNotFound, format, args)
}

// ExitError ends the process with Code and no further message. The
// command has already written whatever the user needs to see.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string { return fmt.Sprintf("exit status %d", e.Code) }

// ExitCode picks the process exit status for err and whether main
// should print err. A nil error is status 0.
func ExitCode(err error) (code int, report bool) {
	var exit *ExitError
	var tool *ToolError
	switch {
	case err == nil:
		return 0, false
	case errors.As(err, &exit):
		return exit.Code, false
	case errors.As(err, &tool) && tool.Category == CategoryValidation:
		return ExitValidation, true
	default:
		return ExitFailure, true
	}
}
