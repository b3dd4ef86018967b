// File: filter.go
// Title: Filter Chain Construction
// Description: Builds a single-use filter chain from the pipe segments of
//              a command line and answers filter help requests.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial implementation

package filter

import (
	"fmt"
	"strings"

	mdwerror "github.com/msto63/owsh/foundation/core/error"
	mdwlog "github.com/msto63/owsh/foundation/core/log"
	"github.com/msto63/owsh/foundation/shell/parser"
)

// Filter post-processes output lines
type Filter interface {
	// Process reports whether line is kept
	Process(line string) bool
	// Finish signals the end of the stream; it is called exactly once
	Finish()
}

// Kind identifies a filter keyword
type Kind int

const (
	KindInclude Kind = iota
	KindExclude
	KindGrep
	KindEgrep
	KindBegin
	KindBetween
	KindCount
)

type keyword struct {
	name string
	kind Kind
	help string
}

// Resolution order for abbreviations.
var keywords = []keyword{
	{"include", KindInclude, "Include lines that match"},
	{"exclude", KindExclude, "Exclude lines that match"},
	{"grep", KindGrep, "Include lines that match regex (options: -v, -i, -e)"},
	{"egrep", KindEgrep, "Include lines that match extended regex"},
	{"begin", KindBegin, "Begin with lines that match"},
	{"between", KindBetween, "Between lines that match"},
	{"count", KindCount, "Count of lines"},
}

// Listing order for help.
var helpOrder = []Kind{KindBegin, KindBetween, KindCount, KindExclude, KindInclude, KindGrep, KindEgrep}

// String returns the keyword of the kind
func (k Kind) String() string {
	for _, kw := range keywords {
		if kw.kind == k {
			return kw.name
		}
	}
	return "unknown"
}

// Options configures Build
type Options struct {
	// Emit receives lines produced at end of stream, e.g. the count; they
	// bypass the remaining filters
	Emit func(line string)
	// Logger defaults to the package default logger
	Logger *mdwlog.Logger
}

// Chain is the ordered set of filters for one command line
type Chain struct {
	filters  []Filter
	kinds    []Kind
	emit     func(string)
	aborted  bool
	finished bool
}

// Process passes line through the filters in order and reports whether
// it survives all of them. An empty chain keeps everything.
func (c *Chain) Process(line string) bool {
	if c == nil {
		return true
	}
	for _, f := range c.filters {
		if !f.Process(line) {
			return false
		}
	}
	return true
}

// Finish ends the stream for every filter. Later calls do nothing.
func (c *Chain) Finish() {
	if c == nil || c.finished {
		return
	}
	c.finished = true
	for _, f := range c.filters {
		f.Finish()
	}
}

// Len returns the number of filters
func (c *Chain) Len() int {
	if c == nil {
		return 0
	}
	return len(c.filters)
}

// Kinds returns the filter kinds in chain order
func (c *Chain) Kinds() []Kind {
	if c == nil {
		return nil
	}
	return append([]Kind(nil), c.kinds...)
}

func (c *Chain) write(line string) {
	if c.aborted || c.emit == nil {
		return
	}
	c.emit(line)
}

// abort finishes the filters built so far without letting them emit
func (c *Chain) abort() {
	c.aborted = true
	c.Finish()
}

// Build creates the chain for segments, one per pipe. When a segment asks
// for help the chain is discarded and the help lines are returned instead.
// Construction errors are argument errors.
func Build(segments [][]parser.Token, opts Options) (*Chain, []string, error) {
	if opts.Logger == nil {
		opts.Logger = mdwlog.GetDefault()
	}
	logger := opts.Logger.WithField("component", "shell-filter")

	chain := &Chain{emit: opts.Emit}
	for _, seg := range segments {
		if len(seg) == 0 {
			chain.abort()
			return nil, nil, mdwerror.Argument("Missing filter")
		}

		if parser.IsHelpRequest(seg[len(seg)-1]) {
			chain.abort()
			help, err := segmentHelp(seg)
			return nil, help, err
		}

		f, kind, err := newFilter(chain, seg)
		if err != nil {
			chain.abort()
			logger.Debug("filter rejected", mdwlog.Fields{"segment": parser.Values(seg), "error": err.Error()})
			return nil, nil, err
		}
		chain.filters = append(chain.filters, f)
		chain.kinds = append(chain.kinds, kind)
	}

	if chain.Len() > 0 {
		logger.Debug("filter chain built", mdwlog.Fields{"filters": len(chain.filters)})
	}
	return chain, nil, nil
}

// lookup resolves an abbreviated keyword
func lookup(word string) (keyword, error) {
	if word == "" {
		return keyword{}, mdwerror.Argument("Invalid filter %q", word)
	}
	if word[0] == 'b' && len(word) < 3 {
		return keyword{}, mdwerror.Argument("Ambiguous filter %q (begin, between)", word)
	}
	if word == "e" {
		return keywords[KindEgrep], nil
	}
	for _, kw := range keywords {
		if strings.HasPrefix(kw.name, word) {
			return kw, nil
		}
	}
	return keyword{}, mdwerror.Argument("Invalid filter %q", word)
}

func newFilter(chain *Chain, seg []parser.Token) (Filter, Kind, error) {
	kw, err := lookup(seg[0].Value)
	if err != nil {
		return nil, 0, err
	}
	args := parser.Values(seg[1:])

	var f Filter
	switch kw.kind {
	case KindInclude, KindExclude:
		f, err = newSubstringFilter(args, kw.kind == KindExclude)
	case KindGrep, KindEgrep:
		f, err = newRegexFilter(args, kw.kind == KindEgrep)
	case KindBegin:
		f, err = newBeginFilter(args)
	case KindBetween:
		f, err = newBetweenFilter(args)
	case KindCount:
		f, err = newCountFilter(args, chain.write)
	}
	return f, kw.kind, err
}

// segmentHelp answers "| ?", "| inc?" and "| include ?"
func segmentHelp(seg []parser.Token) ([]string, error) {
	if len(seg) == 1 {
		prefix := strings.TrimSuffix(seg[0].Value, "?")
		var lines []string
		for _, k := range helpOrder {
			kw := keywords[k]
			if strings.HasPrefix(kw.name, prefix) {
				lines = append(lines, fmt.Sprintf("  %-20s %s", kw.name, kw.help))
			}
		}
		return lines, nil
	}

	kw, err := lookup(seg[0].Value)
	if err != nil {
		return nil, err
	}
	if kw.kind == KindCount {
		return []string{"  <cr>"}, nil
	}
	lines := []string{"  WORD"}
	if len(seg) > 2 {
		lines = append(lines, "  <cr>")
	}
	return lines, nil
}
