package model

import (
	"encoding/json"
	"strings"

	mdwerror "github.com/msto63/owsh/foundation/core/error"
)

// JobState is the lifecycle state of a job
type JobState int

const (
	JobStateUnknown JobState = iota
	JobStateWaiting
	JobStateRunning
	JobStateSucceeded
	JobStateFailed
)

var jobStateNames = map[JobState]string{
	JobStateUnknown:   "unknown",
	JobStateWaiting:   "waiting",
	JobStateRunning:   "running",
	JobStateSucceeded: "succeeded",
	JobStateFailed:    "failed",
}

// String returns the lower-case state name
func (s JobState) String() string {
	if name, ok := jobStateNames[s]; ok {
		return name
	}
	return "unknown"
}

// ParseJobState parses a state name, ignoring case. An unrecognised name
// yields JobStateUnknown and a parse error.
func ParseJobState(name string) (JobState, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for state, n := range jobStateNames {
		if n == name {
			return state, nil
		}
	}
	return JobStateUnknown, mdwerror.Newf("Invalid job state %q", name).
		WithCode(mdwerror.CodeOWSParse).
		WithDetail("valid", "waiting, running, succeeded, failed, unknown")
}

// MarshalJSON encodes the state by name
func (s JobState) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON decodes a state name
func (s *JobState) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	state, err := ParseJobState(name)
	if err != nil {
		return err
	}
	*s = state
	return nil
}
