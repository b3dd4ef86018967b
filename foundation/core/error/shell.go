// File: shell.go
// Title: Shell Outcome Constructors
// Description: Constructors and predicates for the three non-success
//              outcomes of a shell command line: ArgumentError,
//              ExecutionError and Quit.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial implementation

package error

import "fmt"

// ErrQuit is the distinguished quit signal. It is not a failure.
var ErrQuit = New("quit").WithCode(CodeShellQuit)

// Argument returns an ArgumentError: malformed, missing or ambiguous input
func Argument(format string, args ...interface{}) *Error {
	return New(fmt.Sprintf(format, args...)).WithCode(CodeShellArgument)
}

// Execution returns an ExecutionError: an internal or handler failure
func Execution(format string, args ...interface{}) *Error {
	return New(fmt.Sprintf(format, args...)).WithCode(CodeShellExecution)
}

// AsExecution converts any error into an ExecutionError. Quit and argument
// errors keep their classification.
func AsExecution(err error) error {
	if err == nil || IsQuit(err) || IsArgument(err) || IsExecution(err) {
		return err
	}
	return Wrap(err, "command failed").WithCode(CodeShellExecution)
}

// IsArgument reports whether err is an ArgumentError
func IsArgument(err error) bool {
	return HasCode(err, CodeShellArgument)
}

// IsExecution reports whether err is an ExecutionError
func IsExecution(err error) bool {
	return HasCode(err, CodeShellExecution)
}

// IsQuit reports whether err carries the quit signal
func IsQuit(err error) bool {
	return HasCode(err, CodeShellQuit)
}
