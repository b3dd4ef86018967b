// File: loop.go
// Title: Interactive Loop
// Description: Reads lines from a line editor, executes them and drives
//              the idle supervisor and regular callback from a ticker.
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
	"errors"
	"io"
	"sync"
	"time"

	"github.com/chzyer/readline"

	mdwerror "github.com/msto63/owsh/foundation/core/error"
	mdwlog "github.com/msto63/owsh/foundation/core/log"
	mdwsession "github.com/msto63/owsh/foundation/shell/session"
)

// LineReader is the line editor used by Loop; *readline.Instance
// satisfies it. Close must make a pending Readline or ReadPassword return.
type LineReader interface {
	Readline() (string, error)
	ReadPassword(prompt string) ([]byte, error)
	SetPrompt(prompt string)
	Close() error
}

type readRequest struct {
	prompt   string
	password bool
}

type readResult struct {
	line string
	err  error
}

// Loop runs the interactive session until quit, end of input or context
// cancellation. Lines are read on a separate goroutine so that Tick keeps
// running while the reader waits; every engine call happens under the
// engine mutex. Loop closes rd before returning. Interrupt (^C) discards
// the current line.
func (e *Engine) Loop(ctx context.Context, rd LineReader) error {
	requests := make(chan readRequest)
	results := make(chan readResult, 1)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for req := range requests {
			var res readResult
			if req.password {
				var b []byte
				b, res.err = rd.ReadPassword(req.prompt)
				res.line = string(b)
			} else {
				rd.SetPrompt(req.prompt)
				res.line, res.err = rd.Readline()
			}
			results <- res
		}
	}()

	defer func() {
		close(requests)
		rd.Close()
		wg.Wait()
	}()

	if e.banner != "" {
		e.out.emit(e.banner)
	}
	e.logger.Info("interactive session started", mdwlog.Fields{"prompt": e.session.Prompt()})

	ticker := time.NewTicker(e.regularInterval)
	defer ticker.Stop()

	request := func() {
		e.mutex.Lock()
		req := readRequest{
			prompt:   e.Prompt(),
			password: e.session.State() == mdwsession.StateEnablePassword,
		}
		e.mutex.Unlock()
		requests <- req
	}
	request()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case <-ticker.C:
			e.mutex.Lock()
			err := e.Tick(ctx)
			e.mutex.Unlock()
			if mdwerror.IsQuit(err) {
				e.logger.Info("interactive session ended", mdwlog.Fields{"reason": "tick"})
				return nil
			}

		case res := <-results:
			switch {
			case errors.Is(res.err, readline.ErrInterrupt):
				request()
				continue
			case errors.Is(res.err, io.EOF):
				e.logger.Info("interactive session ended", mdwlog.Fields{"reason": "eof"})
				return nil
			case res.err != nil:
				return mdwerror.Wrap(res.err, "failed to read input").WithCode(mdwerror.CodeShellExecution)
			}

			e.mutex.Lock()
			err := e.HandleLine(ctx, res.line)
			e.mutex.Unlock()
			if mdwerror.IsQuit(err) {
				e.logger.Info("interactive session ended", mdwlog.Fields{"reason": "quit"})
				return nil
			}
			request()
		}
	}
}
