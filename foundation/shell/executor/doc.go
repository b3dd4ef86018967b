// Package executor resolves a tokenized command line against the command
// registry.
//
// Package: executor
// Title: Shell Command Dispatcher
// Description: Resolution walks the command tree one word per level. At
//              each level the siblings are scanned in registration order by
//              an ordered list of match strategies: a node in exactly the
//              current mode, then a node registered for any mode, then,
//              inside a nested configuration depth, a node of the baseline
//              configuration mode. The first strategy that yields a node
//              wins; within a strategy the first node registered wins. A
//              word ending in '?' turns the resolution into a help response.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial implementation
//
// Usage:
//
//	d := executor.New(reg, executor.Options{})
//	res, err := d.Resolve(sess, line.Command)
//	if err == nil && res.DropToConfig {
//		sess.SetMode(session.ModeConfig, "")
//		res, err = d.Resolve(sess, line.Command)
//	}
package executor
