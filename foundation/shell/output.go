// File: output.go
// Title: Output Buffer
// Description: Accumulates handler output, splits it into lines and routes
//              each completed line through the active filter chain to the
//              print callback or the output stream.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial implementation

package shell

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/msto63/owsh/foundation/shell/filter"
)

// PrintCallback receives every output line instead of the output stream
type PrintCallback func(line string)

type output struct {
	buf      bytes.Buffer
	chain    *filter.Chain
	w        io.Writer
	errW     io.Writer
	callback PrintCallback
}

// printf appends formatted text; a trailing fragment without newline is
// kept until a later call completes it
func (o *output) printf(format string, args ...interface{}) {
	fmt.Fprintf(&o.buf, format, args...)
	o.drain(true)
}

// print appends text and emits everything, the last fragment included
func (o *output) print(args ...interface{}) {
	fmt.Fprint(&o.buf, args...)
	o.drain(false)
}

// errorf writes an unfiltered message
func (o *output) errorf(format string, args ...interface{}) {
	text := fmt.Sprintf(format, args...)
	for _, line := range splitLines(text) {
		o.write(o.errW, line)
	}
}

// flush emits a pending fragment through the filters
func (o *output) flush() {
	o.drain(false)
}

// emit writes line unfiltered to the regular sink
func (o *output) emit(line string) {
	o.write(o.w, line)
}

func (o *output) drain(buffered bool) {
	for {
		data := o.buf.Bytes()
		i := bytes.IndexByte(data, '\n')
		if i < 0 {
			break
		}
		line := string(data[:i])
		o.buf.Next(i + 1)
		o.deliver(line)
	}

	if !buffered && o.buf.Len() > 0 {
		line := o.buf.String()
		o.buf.Reset()
		o.deliver(line)
	}
}

func (o *output) deliver(line string) {
	if !o.chain.Process(line) {
		return
	}
	o.write(o.w, line)
}

func (o *output) write(w io.Writer, line string) {
	if o.callback != nil {
		o.callback(line)
		return
	}
	if w == nil {
		return
	}
	fmt.Fprintln(w, line)
}

// splitLines splits text at newlines; a trailing newline does not start
// another line
func splitLines(text string) []string {
	lines := strings.Split(text, "\n")
	if len(lines) > 1 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
