// Package registry holds the shell's command tree and its prefix model.
//
// Package: registry
// Title: Shell Command Registry
// Description: Commands form a forest of nodes; a multi-word command such
//              as "get ready jobs" is a path of nested children. Each node
//              carries the privilege and mode it requires, optional help
//              text and an optional handler; a node without a handler is a
//              namespace. For every sibling set the registry keeps the
//              shortest unambiguous abbreviation of each node that is
//              visible to the current session, and recomputes it whenever
//              the tree changes or Rebuild is called after a privilege or
//              mode transition.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial implementation
//
// Registering the same name twice under one parent keeps both nodes; the
// first one registered wins every lookup.
package registry
