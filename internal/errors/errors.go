// Package errors defines the failures git-changelog reports to its user.
// Each CLIError belongs to a category that decides the exit code, and
// carries hints that tell the user how to get past it.
package errors

import (
	"errors"
	"fmt"
)

// ErrorCategory groups failures by who has to act on them.
type ErrorCategory int

const (
	// Argument: the command line is wrong.
	Argument ErrorCategory = iota
	// Configuration: a config file, environment variable or catalog is wrong.
	Configuration
	// Repository: git cannot answer the history query.
	Repository
	// Input: commit input or version text cannot be read.
	Input
	// Runtime: anything else.
	Runtime
)

var categoryNames = [...]string{
	Argument:      "argument",
	Configuration: "configuration",
	Repository:    "repository",
	Input:         "input",
	Runtime:       "runtime",
}

func (c ErrorCategory) String() string {
	if c < 0 || int(c) >= len(categoryNames) {
		return "unknown"
	}
	return categoryNames[c]
}

// CLIError is a categorized failure with the hints printed below it.
type CLIError struct {
	Category ErrorCategory
	Message  string
	Usage    string // correct syntax, for argument errors
	Hints    []string
	Err      error
}

func (e *CLIError) Error() string {
	return e.Message
}

func (e *CLIError) Unwrap() error {
	return e.Err
}

// WithUsage sets the usage line shown with the error and returns e.
func (e *CLIError) WithUsage(usage string) *CLIError {
	e.Usage = usage
	return e
}

// New returns a CLIError without an underlying cause.
func New(category ErrorCategory, message string, hints ...string) *CLIError {
	return &CLIError{Category: category, Message: message, Hints: hints}
}

// Wrap categorizes err, keeping its message. A nil err stays nil.
func Wrap(err error, category ErrorCategory, hints ...string) *CLIError {
	if err == nil {
		return nil
	}
	return &CLIError{Category: category, Message: err.Error(), Hints: hints, Err: err}
}

// Annotate categorizes err under "message: err". A nil err stays nil.
func Annotate(err error, category ErrorCategory, message string, hints ...string) *CLIError {
	if err == nil {
		return nil
	}
	return &CLIError{
		Category: category,
		Message:  fmt.Sprintf("%s: %v", message, err),
		Hints:    hints,
		Err:      err,
	}
}

// As returns the first CLIError in err's chain, or nil.
func As(err error) *CLIError {
	var cliErr *CLIError
	if errors.As(err, &cliErr) {
		return cliErr
	}
	return nil
}
