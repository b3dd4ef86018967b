// File: engine.go
// Title: Shell Engine
// Description: Wires session, registry, dispatcher, filters and output
//              buffer together and executes single command lines.
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
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	mdwerror "github.com/msto63/owsh/foundation/core/error"
	mdwlog "github.com/msto63/owsh/foundation/core/log"
	mdwexecutor "github.com/msto63/owsh/foundation/shell/executor"
	mdwfilter "github.com/msto63/owsh/foundation/shell/filter"
	mdwparser "github.com/msto63/owsh/foundation/shell/parser"
	mdwregistry "github.com/msto63/owsh/foundation/shell/registry"
	mdwsession "github.com/msto63/owsh/foundation/shell/session"
)

const (
	// DefaultRegularInterval is the default period of Tick in Loop
	DefaultRegularInterval = time.Second

	// MaxEnableAttempts is the number of wrong enable passwords accepted
	// before the password prompt is abandoned
	MaxEnableAttempts = 3
)

// EnableCallback validates an enable password
type EnableCallback func(password string) bool

// RegularCallback runs on every Tick; a quit error ends Loop
type RegularCallback func(ctx context.Context) error

// Options configures an engine
type Options struct {
	Logger *mdwlog.Logger

	// Hostname is the leading prompt component
	Hostname string
	// Banner is printed when Loop starts
	Banner string
	// HistorySize defaults to session.DefaultHistorySize
	HistorySize int

	// Output receives filtered command output, default os.Stdout
	Output io.Writer
	// ErrOutput receives error messages, default os.Stderr
	ErrOutput io.Writer

	// EnablePassword, when set, is required by "enable"
	EnablePassword string
	// EnableCallback, when set, validates the enable password instead
	EnableCallback EnableCallback

	// IdleTimeout ends an interactive session after the given inactivity;
	// zero disables it
	IdleTimeout time.Duration
	// RegularInterval is the tick period of Loop
	RegularInterval time.Duration
}

// Engine is one shell instance
type Engine struct {
	session    *mdwsession.Session
	registry   *mdwregistry.Registry
	dispatcher *mdwexecutor.Dispatcher
	out        *output
	logger     *mdwlog.Logger

	banner          string
	enablePassword  string
	enableCallback  EnableCallback
	enableAttempts  int
	regular         RegularCallback
	regularInterval time.Duration

	// mutex serialises command execution against completion requests
	// coming from Loop's reader
	mutex sync.Mutex
}

// New creates an engine with the built-in commands registered
func New(opts Options) *Engine {
	if opts.Logger == nil {
		opts.Logger = mdwlog.GetDefault()
	}
	if opts.HistorySize <= 0 {
		opts.HistorySize = mdwsession.DefaultHistorySize
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.ErrOutput == nil {
		opts.ErrOutput = os.Stderr
	}
	if opts.RegularInterval < time.Second {
		opts.RegularInterval = DefaultRegularInterval
	}

	sess := mdwsession.New(opts.HistorySize)
	logger := opts.Logger.WithField("component", "shell").WithSession(sess.ID())

	reg := mdwregistry.New(mdwregistry.Options{View: sess, Logger: logger})

	e := &Engine{
		session:         sess,
		registry:        reg,
		dispatcher:      mdwexecutor.New(reg, mdwexecutor.Options{Logger: logger}),
		out:             &output{w: opts.Output, errW: opts.ErrOutput},
		logger:          logger,
		banner:          opts.Banner,
		enablePassword:  opts.EnablePassword,
		enableCallback:  opts.EnableCallback,
		regularInterval: opts.RegularInterval,
	}

	sess.SetHostname(opts.Hostname)
	sess.OnChange(func(s *mdwsession.Session) {
		reg.Rebuild()
		logger.Debug("session transition", mdwlog.Fields{
			"privilege": s.Privilege().String(),
			"mode":      s.Mode().String(),
		})
	})
	sess.Idle().SetCallback(e.idleTimeout)
	sess.Idle().SetTimeout(opts.IdleTimeout)

	e.registerBuiltins()

	logger.Debug("shell engine initialized", mdwlog.Fields{
		"historySize": opts.HistorySize,
		"idleTimeout": opts.IdleTimeout.String(),
		"hasPassword": opts.EnablePassword != "" || opts.EnableCallback != nil,
	})

	return e
}

// Session returns the engine's session
func (e *Engine) Session() *mdwsession.Session { return e.session }

// Registry returns the engine's command registry
func (e *Engine) Registry() *mdwregistry.Registry { return e.registry }

// Register adds a command under parent (nil for top level). A name with
// several words registers nested nodes, e.g. "ready jobs".
func (e *Engine) Register(parent *mdwregistry.Node, name string, handler mdwregistry.Handler, privilege mdwsession.Privilege, mode mdwsession.Mode, help string, opts ...mdwregistry.NodeOption) (*mdwregistry.Node, error) {
	return e.registry.RegisterPath(parent, name, handler, privilege, mode, help, opts...)
}

// Unregister removes the first top-level command named name
func (e *Engine) Unregister(name string) bool {
	return e.registry.Unregister(name)
}

// Close releases every registered command
func (e *Engine) Close() {
	e.registry.Clear()
}

// SetHostname sets the leading prompt component
func (e *Engine) SetHostname(hostname string) { e.session.SetHostname(hostname) }

// SetBanner sets the text printed when Loop starts
func (e *Engine) SetBanner(banner string) { e.banner = banner }

// SetEnablePassword sets the static enable password; empty disables it
func (e *Engine) SetEnablePassword(password string) { e.enablePassword = password }

// SetEnableCallback installs an enable password check
func (e *Engine) SetEnableCallback(cb EnableCallback) { e.enableCallback = cb }

// SetIdleTimeout configures the idle supervisor. A nil callback prints
// "Idle timeout" and ends the session.
func (e *Engine) SetIdleTimeout(timeout time.Duration, cb mdwsession.IdleCallback) {
	if cb == nil {
		cb = e.idleTimeout
	}
	e.session.Idle().SetCallback(cb)
	e.session.Idle().SetTimeout(timeout)
}

// SetRegular installs the callback run on every Tick
func (e *Engine) SetRegular(cb RegularCallback) { e.regular = cb }

// SetRegularInterval sets the tick period of Loop, at least one second
func (e *Engine) SetRegularInterval(interval time.Duration) {
	if interval < time.Second {
		interval = time.Second
	}
	e.regularInterval = interval
}

// SetPrintCallback routes every output line to cb instead of the output
// streams; nil restores the streams
func (e *Engine) SetPrintCallback(cb PrintCallback) { e.out.callback = cb }

// SetOutput replaces the output streams
func (e *Engine) SetOutput(w, errW io.Writer) {
	e.out.w = w
	e.out.errW = errW
}

// Prompt returns the prompt for the current input state
func (e *Engine) Prompt() string {
	if e.session.State() == mdwsession.StateEnablePassword {
		return "Password: "
	}
	return e.session.Prompt()
}

// Printf writes buffered, filtered output
func (e *Engine) Printf(format string, args ...interface{}) { e.out.printf(format, args...) }

// Print writes filtered output and completes the current line
func (e *Engine) Print(args ...interface{}) { e.out.print(args...) }

// Errorf writes an unfiltered message to the error stream
func (e *Engine) Errorf(format string, args ...interface{}) { e.out.errorf(format, args...) }

// HandleLine processes one line of interactive input. In the enable
// password state the line is the password; otherwise a non-blank line is
// recorded in the history, resets the idle countdown and is executed.
func (e *Engine) HandleLine(ctx context.Context, line string) error {
	if e.session.State() == mdwsession.StateEnablePassword {
		e.session.Idle().Touch()
		e.checkEnablePassword(line)
		return nil
	}

	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}
	e.session.History().Add(line)
	e.session.Idle().Touch()

	return e.RunCommand(ctx, line)
}

// RunCommand executes one command line. The returned error is nil on
// success, carries the quit code when the session should end, and is an
// argument or execution error otherwise; its message has already been
// printed.
func (e *Engine) RunCommand(ctx context.Context, raw string) error {
	raw = strings.TrimLeft(raw, " \t\r\n")
	if raw == "" {
		return nil
	}

	line := mdwparser.ParseLine(raw)

	res, err := e.dispatcher.Resolve(e.session, line.Command)
	if err == nil && res.DropToConfig {
		e.session.SetMode(mdwsession.ModeConfig, "")
		res, err = e.dispatcher.Resolve(e.session, line.Command)
	}
	if err != nil {
		return e.report(err)
	}

	if res.IsHelp {
		e.printHelp(res.Help)
		return nil
	}

	chain, help, err := mdwfilter.Build(line.Filters, mdwfilter.Options{Emit: e.out.emit, Logger: e.logger})
	if err != nil {
		return e.report(err)
	}
	if help != nil {
		for _, l := range help {
			e.out.emit(l)
		}
		return nil
	}

	e.out.chain = chain
	defer func() {
		e.out.flush()
		chain.Finish()
		e.out.chain = nil
	}()

	call := &mdwregistry.Call{
		Command: res.Node.FullName(),
		Args:    res.Args,
		Node:    res.Node,
		Session: e.session,
		Out:     e,
	}

	timer := e.logger.StartTimer("command").WithField("command", call.Command)
	err = mdwerror.AsExecution(e.invoke(ctx, call))
	if err != nil && !mdwerror.IsQuit(err) {
		timer.StopWithError(err)
	} else {
		timer.Stop()
	}

	if err != nil {
		e.out.flush()
		return e.report(err)
	}
	return nil
}

// invoke runs the handler, turning a panic into an execution error
func (e *Engine) invoke(ctx context.Context, call *mdwregistry.Call) (err error) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("command handler panicked", mdwlog.Fields{
				"command": call.Command,
				"panic":   fmt.Sprint(r),
			})
			err = mdwerror.Execution("Internal error processing %q", call.Command).
				WithDetail("panic", fmt.Sprint(r))
		}
	}()
	return call.Node.Handler()(ctx, call)
}

// report prints err unless it is the quit signal and returns it
func (e *Engine) report(err error) error {
	if mdwerror.IsQuit(err) {
		return err
	}
	e.Errorf("%s", err.Error())
	return err
}

func (e *Engine) printHelp(entries []mdwexecutor.HelpEntry) {
	for _, h := range entries {
		if h.Self {
			e.out.emit(fmt.Sprintf("%-20s %s", h.Name, h.Help))
			continue
		}
		e.out.emit(fmt.Sprintf("  %-20s %s", h.Name, h.Help))
	}
}

func (e *Engine) checkEnablePassword(password string) {
	allowed := false
	switch {
	case e.enableCallback != nil:
		allowed = e.enableCallback(password)
	case e.enablePassword != "":
		allowed = password == e.enablePassword
	}

	if allowed {
		e.enableAttempts = 0
		e.session.SetState(mdwsession.StateNormal)
		e.session.SetPrivilege(mdwsession.Privileged)
		return
	}

	e.enableAttempts++
	e.Errorf("Access denied")
	e.logger.Warn("enable password rejected", mdwlog.Fields{"attempt": e.enableAttempts})
	if e.enableAttempts >= MaxEnableAttempts {
		e.enableAttempts = 0
		e.session.SetState(mdwsession.StateNormal)
	}
}

func (e *Engine) idleTimeout() error {
	e.Errorf("Idle timeout")
	e.logger.Info("idle timeout", mdwlog.Fields{"timeout": e.session.Idle().Timeout().String()})
	return mdwerror.ErrQuit
}

// Tick runs the idle check and the regular callback. The host calls it
// periodically; a quit error means the session should end.
func (e *Engine) Tick(ctx context.Context) error {
	if err := e.session.Idle().Check(); err != nil {
		if mdwerror.IsQuit(err) {
			return err
		}
		e.logger.WarnWithErr("idle callback failed", err)
	}

	if e.regular != nil {
		if err := e.regular(ctx); err != nil {
			if mdwerror.IsQuit(err) {
				return err
			}
			e.logger.WarnWithErr("regular callback failed", err)
		}
	}
	return nil
}
