package session

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestHistoryAdd(t *testing.T) {
	tests := []struct {
		name     string
		capacity int
		lines    []string
		want     []string
	}{
		{
			name:     "keeps order",
			capacity: 5,
			lines:    []string{"enable", "get nodes", "get jobs"},
			want:     []string{"enable", "get nodes", "get jobs"},
		},
		{
			name:     "suppresses duplicate of previous",
			capacity: 5,
			lines:    []string{"get nodes", "get nodes", "get jobs", "get nodes"},
			want:     []string{"get nodes", "get jobs", "get nodes"},
		},
		{
			name:     "duplicate must be character identical",
			capacity: 5,
			lines:    []string{"get nodes", "get  nodes"},
			want:     []string{"get nodes", "get  nodes"},
		},
		{
			name:     "evicts oldest when full",
			capacity: 3,
			lines:    []string{"a", "b", "c", "d", "e"},
			want:     []string{"c", "d", "e"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHistory(tt.capacity)
			for _, line := range tt.lines {
				h.Add(line)
			}
			if diff := cmp.Diff(tt.want, h.Entries()); diff != "" {
				t.Errorf("Entries() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestHistoryAddResult(t *testing.T) {
	h := NewHistory(2)
	if !h.Add("x") {
		t.Error("first Add() = false")
	}
	if h.Add("x") {
		t.Error("duplicate Add() = true")
	}
	h.Clear()
	if h.Len() != 0 {
		t.Errorf("Len() after Clear() = %d", h.Len())
	}
}

func TestHistoryEntriesIsCopy(t *testing.T) {
	h := NewHistory(2)
	h.Add("x")
	entries := h.Entries()
	entries[0] = "mutated"
	if h.Entries()[0] != "x" {
		t.Error("Entries() exposed internal storage")
	}
}
