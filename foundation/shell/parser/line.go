// File: line.go
// Title: Command Line Splitting
// Description: Splits a token stream into the command part and the
//              filter segments introduced by unquoted pipes.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial implementation

package parser

import "strings"

// Line is a parsed command line
type Line struct {
	Raw     string
	Command []Token
	// Filters holds one entry per pipe; an entry is empty when the pipe is
	// followed by nothing or by another pipe.
	Filters [][]Token
}

// ParseLine tokenizes raw and splits it at each pipe
func ParseLine(raw string) Line {
	line := Line{Raw: raw}

	current := &line.Command
	for _, tok := range NewLexer(raw).Tokens() {
		if tok.Type == TokenPipe {
			line.Filters = append(line.Filters, nil)
			current = &line.Filters[len(line.Filters)-1]
			continue
		}
		*current = append(*current, tok)
	}

	return line
}

// Words returns the command words
func (l Line) Words() []string {
	return Values(l.Command)
}

// IsEmpty reports whether the line holds no tokens at all
func (l Line) IsEmpty() bool {
	return len(l.Command) == 0 && len(l.Filters) == 0
}

// EndsWithSpace reports whether the raw line ends in whitespace, which
// completion treats as the start of a new, empty word.
func (l Line) EndsWithSpace() bool {
	return l.Raw == "" || strings.TrimRightFunc(l.Raw, isSpace) != l.Raw
}

// Values returns the token texts
func Values(tokens []Token) []string {
	if len(tokens) == 0 {
		return nil
	}
	values := make([]string, len(tokens))
	for i, tok := range tokens {
		values[i] = tok.Value
	}
	return values
}

// Tokenize returns the words of raw with pipes as "|" entries
func Tokenize(raw string) []string {
	return Values(NewLexer(raw).Tokens())
}

// IsHelpRequest reports whether tok asks for contextual help: an unquoted
// word ending in '?'
func IsHelpRequest(tok Token) bool {
	return tok.Type == TokenWord && !tok.Quoted && strings.HasSuffix(tok.Value, "?")
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '\v' || r == '\f'
}
