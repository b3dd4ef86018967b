// File: file.go
// Title: Batch Mode
// Description: Runs the commands of a script or pipe under a temporary
//              privilege level and mode.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial implementation

package shell

import (
	"bufio"
	"context"
	"io"
	"strings"

	mdwerror "github.com/msto63/owsh/foundation/core/error"
	mdwlog "github.com/msto63/owsh/foundation/core/log"
	mdwsession "github.com/msto63/owsh/foundation/shell/session"
)

// MaxLineLength is the longest line File accepts
const MaxLineLength = 64 * 1024

// File executes every line of r at the given privilege and mode. Text from
// the first '#' is a comment, blank lines are skipped, and a "quit" line or
// a command returning the quit signal stops reading. The previous
// privilege and mode are restored afterwards. Command failures do not stop
// the script; only read errors and context cancellation are returned.
func (e *Engine) File(ctx context.Context, r io.Reader, privilege mdwsession.Privilege, mode mdwsession.Mode) error {
	oldDescs := e.session.ModeDescriptions()
	oldPrivilege := e.session.SetPrivilege(privilege)
	oldMode := e.session.SetMode(mode, "")
	defer func() {
		e.session.SetPrivilege(oldPrivilege)
		e.session.RestoreMode(oldMode, oldDescs)
	}()

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 4096), MaxLineLength)

	lines, failed := 0, 0
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}

		text := scanner.Text()
		if i := strings.IndexAny(text, "#\r\n"); i >= 0 {
			text = text[:i]
		}
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		if strings.EqualFold(text, "quit") {
			break
		}

		lines++
		err := e.RunCommand(ctx, text)
		if mdwerror.IsQuit(err) {
			break
		}
		if err != nil {
			failed++
		}
	}

	e.logger.Debug("batch finished", mdwlog.Fields{"commands": lines, "failed": failed})

	if err := scanner.Err(); err != nil {
		return mdwerror.Wrap(err, "failed to read commands").WithCode(mdwerror.CodeInvalidInput)
	}
	return nil
}
