// Package session holds the per-connection state of the shell: privilege
// level, mode nesting, prompt composition, command history and idle
// supervision.
//
// Package: session
// Title: Shell Session State
// Description: A Session is created once per interactive or batch run and
//              mutated by the built-in commands (enable, disable,
//              configure terminal, exit) and by embedder handlers. Every
//              privilege or mode transition notifies the registered
//              listeners so that derived state such as the command
//              prefix table can be recomputed.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial implementation
package session
