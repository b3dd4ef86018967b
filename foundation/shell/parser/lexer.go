// File: lexer.go
// Title: Shell Line Lexer
// Description: Converts a command line into a stream of word and pipe
//              tokens with byte positions for completion and error output.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial implementation

package parser

import (
	"fmt"
	"unicode"
	"unicode/utf8"
)

// TokenType represents the type of a lexical token
type TokenType int

const (
	TokenEOF  TokenType = iota
	TokenWord           // get, nodes, "quoted text"
	TokenPipe           // |
)

// String returns a string representation of the token type
func (tt TokenType) String() string {
	switch tt {
	case TokenEOF:
		return "EOF"
	case TokenWord:
		return "WORD"
	case TokenPipe:
		return "PIPE"
	default:
		return "UNKNOWN"
	}
}

// Token represents a lexical token with position information
type Token struct {
	Type     TokenType
	Value    string // word text with quotes stripped
	Position int    // byte offset of the first character in the input
	Quoted   bool   // the word was written inside quotes
}

// String returns a string representation of the token
func (t Token) String() string {
	if t.Type == TokenEOF {
		return "EOF"
	}
	return fmt.Sprintf("%s(%s)", t.Type, t.Value)
}

// Lexer performs lexical analysis of one command line
type Lexer struct {
	input    string
	position int
}

// NewLexer creates a new lexer for the given input
func NewLexer(input string) *Lexer {
	return &Lexer{input: input}
}

// NextToken returns the next token from the input. An unterminated quote
// runs to the end of the line.
func (l *Lexer) NextToken() Token {
	l.skipWhitespace()

	if l.position >= len(l.input) {
		return Token{Type: TokenEOF, Position: l.position}
	}

	start := l.position
	switch ch := l.input[l.position]; ch {
	case '|':
		l.position++
		return Token{Type: TokenPipe, Value: "|", Position: start}
	case '"', '\'':
		return l.readQuoted(ch)
	default:
		return l.readWord()
	}
}

// Tokens returns every token up to, not including, EOF
func (l *Lexer) Tokens() []Token {
	var tokens []Token
	for {
		tok := l.NextToken()
		if tok.Type == TokenEOF {
			return tokens
		}
		tokens = append(tokens, tok)
	}
}

func (l *Lexer) readQuoted(quote byte) Token {
	start := l.position
	l.position++ // opening quote

	end := l.position
	for end < len(l.input) && l.input[end] != quote {
		end++
	}

	tok := Token{Type: TokenWord, Value: l.input[l.position:end], Position: start, Quoted: true}
	l.position = end
	if l.position < len(l.input) {
		l.position++ // closing quote
	}
	return tok
}

// readWord reads until whitespace, a pipe or the start of a quoted section
func (l *Lexer) readWord() Token {
	start := l.position
	for l.position < len(l.input) {
		r, size := utf8.DecodeRuneInString(l.input[l.position:])
		if unicode.IsSpace(r) || r == '|' || r == '"' || r == '\'' {
			break
		}
		l.position += size
	}
	return Token{Type: TokenWord, Value: l.input[start:l.position], Position: start}
}

func (l *Lexer) skipWhitespace() {
	for l.position < len(l.input) {
		r, size := utf8.DecodeRuneInString(l.input[l.position:])
		if !unicode.IsSpace(r) {
			return
		}
		l.position += size
	}
}
