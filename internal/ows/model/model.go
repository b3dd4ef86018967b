package model

import (
	"fmt"
	"time"
)

// Endpoint addresses one node of one domain
type Endpoint struct {
	Domain string `json:"domain"`
	Name   string `json:"name"`
}

// IsZero reports whether neither domain nor name is set
func (e Endpoint) IsZero() bool { return e.Domain == "" && e.Name == "" }

// Routing carries the calling and target endpoints of every request
type Routing struct {
	Calling Endpoint `json:"calling"`
	Target  Endpoint `json:"target"`
}

// Hello is a node's self description
type Hello struct {
	Domain string `json:"domain"`
	Name   string `json:"name"`
	Master bool   `json:"master"`
}

// Resource is a named capacity offered by a node
type Resource struct {
	Name     string `json:"name"`
	Capacity int    `json:"capacity"`
}

// Node is a scheduler node
type Node struct {
	Domain    string     `json:"domain"`
	Name      string     `json:"name"`
	Weight    int        `json:"weight"`
	Jobs      []Job      `json:"jobs,omitempty"`
	Resources []Resource `json:"resources,omitempty"`
}

// Job is a scheduled job of a planning. StartTime is the earliest start as
// an offset from midnight; zero means no constraint.
type Job struct {
	Name      string        `json:"name"`
	Domain    string        `json:"domain"`
	NodeName  string        `json:"node_name"`
	CmdLine   string        `json:"cmd_line"`
	Weight    int           `json:"weight"`
	State     JobState      `json:"state"`
	StartTime time.Duration `json:"start_time"`
	Previous  []string      `json:"previous,omitempty"`
	Next      []string      `json:"next,omitempty"`
}

// FormatClock renders an offset from midnight as hh:mm
func FormatClock(d time.Duration) string {
	return fmt.Sprintf("%02d:%02d", int(d.Hours()), int(d.Minutes())%60)
}
