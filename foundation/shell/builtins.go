// File: builtins.go
// Title: Built-in Commands
// Description: help, history, quit, exit, enable, disable and configure
//              terminal, registered into every engine.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial implementation

package shell

import (
	"context"

	mdwerror "github.com/msto63/owsh/foundation/core/error"
	mdwregistry "github.com/msto63/owsh/foundation/shell/registry"
	mdwsession "github.com/msto63/owsh/foundation/shell/session"
)

func (e *Engine) registerBuiltins() {
	const (
		u       = mdwsession.Unprivileged
		p       = mdwsession.Privileged
		anyMode = mdwsession.ModeAny
		exec    = mdwsession.ModeExec
	)

	builtins := []struct {
		name    string
		handler mdwregistry.Handler
		priv    mdwsession.Privilege
		mode    mdwsession.Mode
		help    string
	}{
		{"help", e.cmdHelp, u, anyMode, "Show available commands"},
		{"quit", e.cmdQuit, u, anyMode, "Disconnect"},
		{"exit", e.cmdExit, u, anyMode, "Exit from current mode"},
		{"history", e.cmdHistory, u, anyMode, "Show a list of previously run commands"},
		{"enable", e.cmdEnable, u, exec, "Turn on privileged commands"},
		{"disable", e.cmdDisable, p, exec, "Turn off privileged commands"},
	}

	for _, b := range builtins {
		if _, err := e.registry.Register(nil, b.name, b.handler, b.priv, b.mode, b.help, mdwregistry.NoArgs()); err != nil {
			e.logger.ErrorWithErr("built-in registration failed", err)
		}
	}

	configure, err := e.registry.Register(nil, "configure", nil, p, exec, "Enter configuration mode")
	if err == nil {
		_, err = e.registry.Register(configure, "terminal", e.cmdConfigureTerminal, p, exec, "Configure from the terminal", mdwregistry.NoArgs())
	}
	if err != nil {
		e.logger.ErrorWithErr("built-in registration failed", err)
	}
}

// cmdHelp lists every visible command with a handler by full name
func (e *Engine) cmdHelp(_ context.Context, call *mdwregistry.Call) error {
	call.Out.Printf("\nCommands available:\n")

	var walk func(nodes []*mdwregistry.Node)
	walk = func(nodes []*mdwregistry.Node) {
		for _, n := range nodes {
			if !n.VisibleTo(e.session) {
				continue
			}
			if !n.IsNamespace() {
				call.Out.Printf("  %-20s %s\n", n.FullName(), n.Help())
			}
			walk(n.Children())
		}
	}
	e.registry.Read(walk)
	return nil
}

func (e *Engine) cmdHistory(_ context.Context, call *mdwregistry.Call) error {
	call.Out.Printf("\nCommand history:\n")
	for i, line := range e.session.History().Entries() {
		call.Out.Printf("%3d. %s\n", i, line)
	}
	return nil
}

func (e *Engine) cmdQuit(context.Context, *mdwregistry.Call) error {
	e.session.SetPrivilege(mdwsession.Unprivileged)
	e.session.SetMode(mdwsession.ModeDisconnected, "")
	return mdwerror.ErrQuit
}

// cmdExit leaves a nested configuration depth for the configuration mode,
// the configuration mode for exec, and quits from exec or disconnected
func (e *Engine) cmdExit(ctx context.Context, call *mdwregistry.Call) error {
	switch mode := e.session.Mode(); {
	case mode > mdwsession.ModeConfig:
		e.session.SetMode(mdwsession.ModeConfig, "")
	case mode == mdwsession.ModeConfig:
		e.session.SetMode(mdwsession.ModeExec, "")
	default:
		return e.cmdQuit(ctx, call)
	}
	return nil
}

func (e *Engine) cmdEnable(context.Context, *mdwregistry.Call) error {
	if e.session.Privilege() >= mdwsession.Privileged {
		return nil
	}
	if e.enablePassword == "" && e.enableCallback == nil {
		e.session.SetPrivilege(mdwsession.Privileged)
		return nil
	}
	e.enableAttempts = 0
	e.session.SetState(mdwsession.StateEnablePassword)
	return nil
}

func (e *Engine) cmdDisable(context.Context, *mdwregistry.Call) error {
	e.session.SetPrivilege(mdwsession.Unprivileged)
	e.session.SetMode(mdwsession.ModeExec, "")
	return nil
}

func (e *Engine) cmdConfigureTerminal(context.Context, *mdwregistry.Call) error {
	e.session.SetMode(mdwsession.ModeConfig, "")
	return nil
}
