// File: handler.go
// Title: Command Handler Contract
// Description: The signature of command handlers and the call record they
//              receive from the dispatcher.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial implementation

package registry

import (
	"context"

	"github.com/msto63/owsh/foundation/shell/session"
)

// Printer is the output side available to a running handler. Printf and
// Print go through the command's filter chain; Errorf does not.
type Printer interface {
	Printf(format string, args ...interface{})
	Print(args ...interface{})
	Errorf(format string, args ...interface{})
}

// Call describes one handler invocation
type Call struct {
	// Command is the full name of the matched node, e.g. "get ready jobs"
	Command string
	// Args are the unconsumed words after the matched node
	Args []string
	// Node is the matched node
	Node *Node
	// Session is the running session
	Session *session.Session
	// Out receives the handler's output
	Out Printer
}

// Handler executes a command. A nil return is success; errors are
// classified by the shell taxonomy codes and anything unclassified is
// treated as an execution error.
type Handler func(ctx context.Context, call *Call) error
