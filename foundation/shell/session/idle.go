// File: idle.go
// Title: Idle Supervisor
// Description: Advisory inactivity countdown. The host calls Check from
//              its tick source; no timer runs on its own.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial implementation

package session

import (
	"time"

	mdwerror "github.com/msto63/owsh/foundation/core/error"
)

// IdleCallback runs when the idle timeout elapses. Returning an error that
// carries the quit code ends the session.
type IdleCallback func() error

// IdleSupervisor tracks the time since the last accepted command
type IdleSupervisor struct {
	timeout      time.Duration
	lastActivity time.Time
	callback     IdleCallback
	now          func() time.Time
}

// NewIdleSupervisor creates a supervisor; a zero timeout disables it
func NewIdleSupervisor(timeout time.Duration) *IdleSupervisor {
	s := &IdleSupervisor{
		timeout:  timeout,
		callback: defaultIdleCallback,
		now:      time.Now,
	}
	s.lastActivity = s.now()
	return s
}

func defaultIdleCallback() error {
	return mdwerror.ErrQuit
}

// SetTimeout changes the timeout and restarts the countdown
func (s *IdleSupervisor) SetTimeout(timeout time.Duration) {
	s.timeout = timeout
	s.lastActivity = s.now()
}

// Timeout returns the configured timeout
func (s *IdleSupervisor) Timeout() time.Duration { return s.timeout }

// SetCallback replaces the idle callback; nil restores the default, which
// signals session termination
func (s *IdleSupervisor) SetCallback(cb IdleCallback) {
	if cb == nil {
		cb = defaultIdleCallback
	}
	s.callback = cb
}

// SetClock replaces the time source
func (s *IdleSupervisor) SetClock(now func() time.Time) {
	s.now = now
	s.lastActivity = now()
}

// Touch records activity
func (s *IdleSupervisor) Touch() {
	s.lastActivity = s.now()
}

// LastActivity returns the time of the last recorded activity
func (s *IdleSupervisor) LastActivity() time.Time { return s.lastActivity }

// Check invokes the callback once the timeout has elapsed without
// activity. The countdown restarts afterwards, so a single idle period
// fires the callback exactly once.
func (s *IdleSupervisor) Check() error {
	if s.timeout <= 0 {
		return nil
	}
	now := s.now()
	if now.Sub(s.lastActivity) < s.timeout {
		return nil
	}
	s.lastActivity = now
	return s.callback()
}
