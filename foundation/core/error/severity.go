// File: severity.go
// Title: Error Severity Levels
// Description: Defines severity levels for errors so that log output can be
//              prioritised.
// Author: msto63
// Version: v0.1.0
// Created: 2025-01-24
// Modified: 2026-10-19
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with severity levels

package error

// Severity represents the severity level of an error
type Severity int

const (
	// SeverityLow indicates bad user input
	SeverityLow Severity = iota

	// SeverityMedium indicates a failed operation that the session survives
	SeverityMedium

	// SeverityHigh indicates a broken collaborator (transport down, bad config)
	SeverityHigh

	// SeverityCritical indicates the process cannot continue
	SeverityCritical
)

// String returns the string representation of the severity level
func (s Severity) String() string {
	switch s {
	case SeverityLow:
		return "low"
	case SeverityMedium:
		return "medium"
	case SeverityHigh:
		return "high"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// GetSeverityFromCode determines appropriate severity level based on error code
func GetSeverityFromCode(code Code) Severity {
	switch code {
	case CodeShellArgument, CodeShellQuit, CodeInvalidInput, CodeNotFound, CodeOWSParse:
		return SeverityLow
	case CodeConnectionFailed, CodeServiceUnavailable, CodeConfigError, CodeInvalidConfig:
		return SeverityHigh
	default:
		return SeverityMedium
	}
}
