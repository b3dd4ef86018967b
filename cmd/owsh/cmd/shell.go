package cmd

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	mdwlog "github.com/msto63/owsh/foundation/core/log"
	mdwsession "github.com/msto63/owsh/foundation/shell/session"
)

func runShell(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, closer, err := setupLogging(cfg, "owsh")
	if err != nil {
		return err
	}
	defer closer.Close()

	setup, err := newShell(cfg, logger)
	if err != nil {
		return err
	}
	defer setup.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stdinBatch := len(args) == 1 && args[0] == "-"
	connectArgs := args
	if stdinBatch {
		connectArgs = nil
	}

	switch {
	case batchFile != "":
		f, err := os.Open(batchFile)
		if err != nil {
			return err
		}
		defer f.Close()
		return runBatch(ctx, setup, f, connectArgs)

	case stdinBatch || !term.IsTerminal(int(os.Stdin.Fd())):
		return runBatch(ctx, setup, os.Stdin, connectArgs)
	}

	// interactive: a failed connect is reported and the shell still starts
	if len(connectArgs) > 0 {
		setup.engine.RunCommand(ctx, "connect "+strings.Join(connectArgs, " "))
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          setup.engine.Prompt(),
		AutoComplete:    setup.engine.Completer(),
		HistoryLimit:    cfg.Shell.HistorySize,
		InterruptPrompt: "^C",
		EOFPrompt:       "quit",
	})
	if err != nil {
		return err
	}

	// shell output goes through readline so that it does not clobber the
	// line being edited
	setup.engine.SetOutput(rl.Stdout(), rl.Stderr())

	err = setup.engine.Loop(ctx, rl)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// runBatch executes commands from r at unprivileged level. With connection
// arguments the script runs connected, otherwise it starts disconnected
// and may connect itself.
func runBatch(ctx context.Context, setup *shellSetup, r io.Reader, connectArgs []string) error {
	mode := mdwsession.ModeDisconnected
	if len(connectArgs) > 0 {
		if err := setup.engine.RunCommand(ctx, "connect "+strings.Join(connectArgs, " ")); err != nil {
			return &exitError{code: 1}
		}
		mode = mdwsession.ModeExec
	}

	mdwlog.GetDefault().Debug("batch mode", mdwlog.Fields{"mode": mode.String()})
	return setup.engine.File(ctx, r, mdwsession.Unprivileged, mode)
}
