// File: session.go
// Title: Session State Machine
// Description: Tracks privilege level, mode nesting with per-depth
//              descriptions, the prompt, the input state and the opaque
//              embedder context. Transitions notify listeners.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial implementation

package session

import (
	"strings"

	"github.com/google/uuid"
)

// Listener is called after every privilege or mode change
type Listener func(s *Session)

// Session is the state of one shell run. It is not safe for concurrent
// use; the engine serialises access.
type Session struct {
	id         string
	privilege  Privilege
	mode       Mode
	descs      []string
	hostname   string
	promptBase string
	state      State

	history *History
	idle    *IdleSupervisor

	userContext interface{}
	listeners   []Listener
}

// New creates a session at unprivileged/disconnected with a history of
// the given capacity
func New(historySize int) *Session {
	return &Session{
		id:        uuid.NewString(),
		privilege: Unprivileged,
		mode:      ModeDisconnected,
		history:   NewHistory(historySize),
		idle:      NewIdleSupervisor(0),
	}
}

// ID returns the unique session identifier
func (s *Session) ID() string { return s.id }

// Privilege returns the current privilege level
func (s *Session) Privilege() Privilege { return s.privilege }

// Mode returns the current mode
func (s *Session) Mode() Mode { return s.mode }

// State returns the current input state
func (s *Session) State() State { return s.state }

// SetState switches the input state
func (s *Session) SetState(state State) { s.state = state }

// History returns the command history
func (s *Session) History() *History { return s.history }

// Idle returns the idle supervisor
func (s *Session) Idle() *IdleSupervisor { return s.idle }

// UserContext returns the embedder's opaque value
func (s *Session) UserContext() interface{} { return s.userContext }

// SetUserContext stores an opaque embedder value
func (s *Session) SetUserContext(v interface{}) { s.userContext = v }

// OnChange registers a listener for privilege and mode transitions
func (s *Session) OnChange(l Listener) {
	s.listeners = append(s.listeners, l)
}

// SetPrivilege changes the privilege level and returns the previous one
func (s *Session) SetPrivilege(p Privilege) Privilege {
	old := s.privilege
	if p != old {
		s.privilege = p
		s.notify()
	}
	return old
}

// SetMode switches to mode m. For configuration depths desc labels the
// prompt as "(config-desc)"; an empty desc gives "(config)". The previous
// mode is returned.
func (s *Session) SetMode(m Mode, desc string) Mode {
	old := s.mode
	if m == old && (!m.IsConfig() || s.currentDesc() == desc) {
		return old
	}

	s.mode = m
	if !m.IsConfig() {
		s.descs = nil
	} else {
		depth := int(m-ModeConfig) + 1
		for len(s.descs) < depth-1 {
			s.descs = append(s.descs, "")
		}
		s.descs = append(s.descs[:depth-1], desc)
	}
	s.notify()
	return old
}

// PushConfig enters the next configuration depth: exec and below go to
// ModeConfig, a configuration mode goes one level deeper
func (s *Session) PushConfig(desc string) Mode {
	next := ModeConfig
	if s.mode.IsConfig() {
		next = s.mode + 1
	}
	return s.SetMode(next, desc)
}

// PopConfig leaves one configuration depth. From ModeConfig it returns to
// ModeExec; outside configuration it does nothing and returns false.
func (s *Session) PopConfig() bool {
	switch {
	case s.mode > ModeConfig:
		desc := ""
		if depth := int(s.mode - ModeConfig); depth-1 < len(s.descs) {
			desc = s.descs[depth-1]
		}
		s.SetMode(s.mode-1, desc)
	case s.mode == ModeConfig:
		s.SetMode(ModeExec, "")
	default:
		return false
	}
	return true
}

// RestoreMode puts back a mode together with the description stack
// captured by ModeDescriptions, e.g. after a temporary SetMode
func (s *Session) RestoreMode(m Mode, descs []string) {
	s.mode = m
	if m.IsConfig() {
		s.descs = append([]string(nil), descs...)
	} else {
		s.descs = nil
	}
	s.notify()
}

// ModeDescriptions returns the description stack, outermost first
func (s *Session) ModeDescriptions() []string {
	return append([]string(nil), s.descs...)
}

// SetHostname sets the leading prompt component
func (s *Session) SetHostname(hostname string) { s.hostname = hostname }

// Hostname returns the leading prompt component
func (s *Session) Hostname() string { return s.hostname }

// SetPromptBase sets the text between the mode suffix and the privilege
// marker, e.g. "node1:prod"
func (s *Session) SetPromptBase(base string) { s.promptBase = base }

// Prompt composes hostname, mode suffix, prompt base and the privilege
// marker ('#' privileged, '>' otherwise) followed by a space
func (s *Session) Prompt() string {
	var b strings.Builder
	b.WriteString(s.hostname)
	b.WriteString(s.modeString())
	b.WriteString(s.promptBase)
	if s.privilege >= Privileged {
		b.WriteString("# ")
	} else {
		b.WriteString("> ")
	}
	return b.String()
}

func (s *Session) modeString() string {
	if !s.mode.IsConfig() {
		return ""
	}
	if desc := s.currentDesc(); desc != "" {
		return "(config-" + desc + ")"
	}
	return "(config)"
}

func (s *Session) currentDesc() string {
	if len(s.descs) == 0 {
		return ""
	}
	return s.descs[len(s.descs)-1]
}

func (s *Session) notify() {
	for _, l := range s.listeners {
		l(s)
	}
}
