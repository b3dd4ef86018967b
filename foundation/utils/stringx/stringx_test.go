// File: stringx_test.go
// Title: String Utility Tests
// Description: Table-driven tests for the string helpers.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-10-19
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation
// - 2026-10-19 v0.2.0: Prefix and comment helpers

package stringx

import "testing"

func TestIsBlank(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"", true},
		{"   ", true},
		{"\t\r\n", true},
		{" a ", false},
		{" x", false},
	}

	for _, tt := range tests {
		if got := IsBlank(tt.input); got != tt.want {
			t.Errorf("IsBlank(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestFirstNonBlank(t *testing.T) {
	if got := FirstNonBlank("", "  ", "router", "x"); got != "router" {
		t.Errorf("FirstNonBlank() = %q, want router", got)
	}
	if got := FirstNonBlank(" "); got != "" {
		t.Errorf("FirstNonBlank() = %q, want empty", got)
	}
}

func TestHasPrefixFold(t *testing.T) {
	tests := []struct {
		s, prefix string
		want      bool
	}{
		{"nodes", "NO", true},
		{"nodes", "", true},
		{"nodes", "nodesx", false},
		{"Enable", "en", true},
		{"exit", "en", false},
	}

	for _, tt := range tests {
		if got := HasPrefixFold(tt.s, tt.prefix); got != tt.want {
			t.Errorf("HasPrefixFold(%q, %q) = %v, want %v", tt.s, tt.prefix, got, tt.want)
		}
	}
}

func TestCommonPrefixFold(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"enable", "exit", 1},
		{"configure", "Connect", 3},
		{"get", "hello", 0},
		{"jobs", "jobs", 4},
		{"job", "jobs", 3},
		{"", "abc", 0},
	}

	for _, tt := range tests {
		if got := CommonPrefixFold(tt.a, tt.b); got != tt.want {
			t.Errorf("CommonPrefixFold(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestStripComment(t *testing.T) {
	tests := []struct {
		input, want string
	}{
		{"get nodes # all of them", "get nodes "},
		{"enable\r\n", "enable"},
		{"# only comment", ""},
		{"plain", "plain"},
	}

	for _, tt := range tests {
		if got := StripComment(tt.input, "#\r\n"); got != tt.want {
			t.Errorf("StripComment(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestRemoveSpaces(t *testing.T) {
	if got := RemoveSpaces(" weight = 10\t"); got != "weight=10" {
		t.Errorf("RemoveSpaces() = %q, want weight=10", got)
	}
}

func TestIsDigits(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"8080", true},
		{"", false},
		{"80a", false},
		{"-1", false},
	}

	for _, tt := range tests {
		if got := IsDigits(tt.input); got != tt.want {
			t.Errorf("IsDigits(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}
