// File: history.go
// Title: Command History Ring
// Description: Fixed-capacity record of accepted command lines. A line
//              identical to the previous entry is not recorded again;
//              once full, the oldest entry is evicted.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial implementation

package session

// DefaultHistorySize is used when a non-positive capacity is requested
const DefaultHistorySize = 256

// History is a fixed-capacity ring of command lines
type History struct {
	entries  []string
	capacity int
}

// NewHistory creates an empty history
func NewHistory(capacity int) *History {
	if capacity <= 0 {
		capacity = DefaultHistorySize
	}
	return &History{capacity: capacity}
}

// Add records line and reports whether it was stored
func (h *History) Add(line string) bool {
	if n := len(h.entries); n > 0 && h.entries[n-1] == line {
		return false
	}
	if len(h.entries) == h.capacity {
		copy(h.entries, h.entries[1:])
		h.entries[len(h.entries)-1] = line
		return true
	}
	h.entries = append(h.entries, line)
	return true
}

// Entries returns the stored lines, oldest first
func (h *History) Entries() []string {
	return append([]string(nil), h.entries...)
}

// Len returns the number of stored lines
func (h *History) Len() int { return len(h.entries) }

// Capacity returns the maximum number of stored lines
func (h *History) Capacity() int { return h.capacity }

// Clear removes every entry
func (h *History) Clear() { h.entries = h.entries[:0] }
