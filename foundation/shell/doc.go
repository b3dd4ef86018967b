// Package shell is an embeddable, line-oriented command shell in the
// style of a network device CLI.
//
// Package: shell
// Title: Interactive Command Shell Engine
// Description: The engine owns a session, a command registry and a
//              dispatcher. A line is tokenized, resolved to exactly one
//              handler by unambiguous prefix under the session's privilege
//              and mode, and executed with its output routed through the
//              filters given after '|'. Built-in commands cover help,
//              history, enable/disable, configure terminal, exit and quit.
//              Lines come from an interactive reader (Loop), a script
//              (File) or the embedder directly (HandleLine/RunCommand).
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
//	e := shell.New(shell.Options{Hostname: "owsh"})
//	e.Register(nil, "hello", func(ctx context.Context, call *registry.Call) error {
//		call.Out.Printf("hello %s\n", strings.Join(call.Args, " "))
//		return nil
//	}, session.Unprivileged, session.ModeExec, "Say hello")
//
//	rl, _ := readline.NewEx(&readline.Config{Prompt: e.Prompt(), AutoComplete: e.Completer()})
//	err := e.Loop(ctx, rl)
//
// An engine and its session serve one logical connection and are not safe
// for concurrent use, except that Loop serialises its reader's completion
// requests against command execution.
package shell
