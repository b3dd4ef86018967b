// Package stringx provides the small string helpers shared by the shell
// tokenizer, the prefix model, the output filters and the domain parsers.
//
// Package: stringx
// Title: String Utilities
// Description: Case-insensitive prefix arithmetic, blank tests, comment
//              stripping and whitespace removal. All functions are pure.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-10-19
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with core utilities
// - 2026-10-19 v0.2.0: Prefix and comment helpers for the shell
package stringx
