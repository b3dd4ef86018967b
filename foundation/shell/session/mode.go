// File: mode.go
// Title: Privilege Levels and Modes
// Description: Ordered privilege levels and the totally ordered mode set
//              (disconnected < exec < config < nested config depths).
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial implementation

package session

import "fmt"

// Privilege is an ordered access level
type Privilege int

const (
	Unprivileged Privilege = 0
	Privileged   Privilege = 15
)

// String returns the string representation of the privilege
func (p Privilege) String() string {
	switch p {
	case Unprivileged:
		return "unprivileged"
	case Privileged:
		return "privileged"
	default:
		return fmt.Sprintf("privilege-%d", int(p))
	}
}

// Mode is an execution context. Values above ModeConfig are nested
// configuration depths.
type Mode int

const (
	// ModeAny matches every mode when used as a command requirement
	ModeAny          Mode = -1
	ModeDisconnected Mode = 0
	ModeExec         Mode = 1
	ModeConfig       Mode = 2
)

// String returns the string representation of the mode
func (m Mode) String() string {
	switch {
	case m == ModeAny:
		return "any"
	case m == ModeDisconnected:
		return "disconnected"
	case m == ModeExec:
		return "exec"
	case m == ModeConfig:
		return "config"
	case m > ModeConfig:
		return fmt.Sprintf("config+%d", int(m-ModeConfig))
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// IsConfig reports whether m is the configuration mode or one of its
// nested depths
func (m Mode) IsConfig() bool {
	return m >= ModeConfig
}

// State is the input state of a session
type State int

const (
	// StateNormal reads command lines
	StateNormal State = iota
	// StateEnablePassword reads the enable password instead of a command
	StateEnablePassword
)

// String returns the string representation of the state
func (s State) String() string {
	switch s {
	case StateNormal:
		return "normal"
	case StateEnablePassword:
		return "enable-password"
	default:
		return "unknown"
	}
}

// View is the read-only part of a session that decides command visibility
type View interface {
	Privilege() Privilege
	Mode() Mode
}

// Permits reports whether a command requiring privilege p in mode m is
// visible under v
func Permits(v View, p Privilege, m Mode) bool {
	return p <= v.Privilege() && (m == ModeAny || m == v.Mode())
}
