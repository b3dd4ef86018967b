// File: codes.go
// Title: Error Code Definitions
// Description: Defines the error codes used to classify shell outcomes and
//              collaborator faults (transport, parsing, configuration).
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-10-19
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with core error codes
// - 2026-10-19 v0.2.0: Replaced TCOL codes with shell and OWS codes

package error

// Code represents a structured error code for categorizing errors
type Code string

const (
	// Generic codes
	CodeUnknown      Code = "UNKNOWN"
	CodeInternal     Code = "INTERNAL"
	CodeNotFound     Code = "NOT_FOUND"
	CodeInvalidInput Code = "INVALID_INPUT"
	CodeTimeout      Code = "TIMEOUT"

	// Shell outcome taxonomy
	CodeShellArgument  Code = "SHELL_ARGUMENT"
	CodeShellExecution Code = "SHELL_EXECUTION"
	CodeShellQuit      Code = "SHELL_QUIT"

	// Scheduler collaborators
	CodeOWSNotConnected Code = "OWS_NOT_CONNECTED"
	CodeOWSRouting      Code = "OWS_ROUTING"
	CodeOWSNode         Code = "OWS_NODE"
	CodeOWSJob          Code = "OWS_JOB"
	CodeOWSProcessing   Code = "OWS_PROCESSING"
	CodeOWSParse        Code = "OWS_PARSE"

	// Service and network
	CodeConnectionFailed   Code = "CONNECTION_FAILED"
	CodeServiceUnavailable Code = "SERVICE_UNAVAILABLE"

	// Configuration
	CodeConfigError   Code = "CONFIG_ERROR"
	CodeInvalidConfig Code = "INVALID_CONFIG"
)

// String returns the string representation of the error code
func (c Code) String() string {
	return string(c)
}

// Category returns the high-level category of the error code
func (c Code) Category() string {
	switch c {
	case CodeShellArgument, CodeShellExecution, CodeShellQuit:
		return "shell"
	case CodeOWSNotConnected, CodeOWSRouting, CodeOWSNode, CodeOWSJob, CodeOWSProcessing, CodeOWSParse:
		return "ows"
	case CodeConnectionFailed, CodeServiceUnavailable, CodeTimeout:
		return "service"
	case CodeConfigError, CodeInvalidConfig:
		return "configuration"
	default:
		return "generic"
	}
}

// Kind returns the short label printed in front of collaborator faults,
// e.g. "ex::routing".
func (c Code) Kind() string {
	switch c {
	case CodeOWSRouting:
		return "ex::routing"
	case CodeOWSNode:
		return "ex::node"
	case CodeOWSJob:
		return "ex::job"
	case CodeOWSProcessing:
		return "ex_processing"
	default:
		return ""
	}
}
