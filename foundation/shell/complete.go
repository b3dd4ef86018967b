// File: complete.go
// Title: Command Completion
// Description: Candidate words for the word under the cursor, and the
//              readline adapter built on them.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial implementation

package shell

import (
	"strings"
	"unicode"

	"github.com/chzyer/readline"

	mdwparser "github.com/msto63/owsh/foundation/shell/parser"
	mdwregistry "github.com/msto63/owsh/foundation/shell/registry"
	mdwstringx "github.com/msto63/owsh/foundation/utils/stringx"
)

var filterKeywords = []string{"begin", "between", "count", "exclude", "include", "grep", "egrep"}

// Complete returns the candidates for the last word of line. Preceding
// words must each select a visible command; after a trailing space every
// visible child is a candidate. After a pipe the filter keywords are
// offered.
func (e *Engine) Complete(line string) []string {
	parsed := mdwparser.ParseLine(strings.TrimLeftFunc(line, unicode.IsSpace))
	trailing := parsed.EndsWithSpace()

	if n := len(parsed.Filters); n > 0 {
		seg := parsed.Filters[n-1]
		var word string
		switch {
		case len(seg) == 0:
		case len(seg) == 1 && !trailing:
			word = seg[0].Value
		default:
			return nil
		}
		var out []string
		for _, kw := range filterKeywords {
			if strings.HasPrefix(kw, word) && len(word) < len(kw) {
				out = append(out, kw)
			}
		}
		return out
	}

	words := parsed.Words()
	if trailing {
		words = append(words, "")
	}
	if len(words) == 0 {
		words = []string{""}
	}

	var out []string
	e.registry.Read(func(roots []*mdwregistry.Node) {
		level := roots
		for _, w := range words[:len(words)-1] {
			next := e.selectVisible(level, w)
			if next == nil {
				return
			}
			level = next.Children()
		}

		last := words[len(words)-1]
		for _, n := range level {
			if n.VisibleTo(e.session) && mdwstringx.HasPrefixFold(n.Name(), last) {
				out = append(out, n.Name())
			}
		}
	})
	return out
}

func (e *Engine) selectVisible(level []*mdwregistry.Node, word string) *mdwregistry.Node {
	for _, n := range level {
		if n.VisibleTo(e.session) && n.Matches(word) {
			return n
		}
	}
	return nil
}

// Completer returns a readline completer backed by Complete
func (e *Engine) Completer() readline.AutoCompleter {
	return &completer{engine: e}
}

type completer struct {
	engine *Engine
}

// Do returns the completion suffixes for the word before pos
func (c *completer) Do(line []rune, pos int) ([][]rune, int) {
	text := string(line[:pos])

	c.engine.mutex.Lock()
	candidates := c.engine.Complete(text)
	c.engine.mutex.Unlock()

	word := text
	if i := strings.LastIndexFunc(text, func(r rune) bool { return unicode.IsSpace(r) || r == '|' }); i >= 0 {
		word = text[i+1:]
	}

	var out [][]rune
	for _, cand := range candidates {
		if len(cand) < len(word) {
			continue
		}
		out = append(out, []rune(cand[len(word):]+" "))
	}
	return out, len([]rune(word))
}
