// Package parser tokenizes shell command lines.
//
// Package: parser
// Title: Shell Line Parser
// Description: Splits a raw input line into words. Runs of whitespace
//              separate words, matching single or double quotes group text
//              verbatim into one word, and an unquoted '|' is always a
//              token of its own. ParseLine additionally splits the token
//              stream into the command words and the filter segments that
//              follow each pipe.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial implementation
//
// Example:
//   line := parser.ParseLine(`get jobs | include "state: failed"`)
//   // line.Command -> [get jobs]
//   // line.Filters -> [[include state: failed]]
package parser
