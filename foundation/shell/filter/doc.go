// Package filter implements the output filters that may follow a command
// after a pipe, e.g. "get jobs | include running | count".
//
// Package: filter
// Title: Shell Output Filters
// Description: A chain is built from the pipe segments of one command line
//              before the handler runs, receives every output line in
//              order and is finished exactly once when the command ends.
//              A line dropped by one filter is not seen by the filters
//              after it.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial implementation
//
// Keywords may be abbreviated to any prefix ("inc", "ex", "bet"); "b" and
// "be" are ambiguous between begin and between.
//
//	include WORDS           keep lines containing WORDS
//	exclude WORDS           drop lines containing WORDS
//	grep [-v] [-i] [-e] RE  keep lines matching a basic regular expression
//	egrep [-v] [-i] [-e] RE keep lines matching an extended regular expression
//	begin WORDS             keep everything from the first line containing WORDS
//	between FROM TO         keep lines from FROM up to, not including, TO
//	count                   print only the number of non-blank lines
package filter
