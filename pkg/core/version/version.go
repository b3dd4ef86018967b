// ============================================================================
// owsh - Open Workload Scheduler shell
// ============================================================================
//
// Package:     version
// Description: Build metadata, overridable through -ldflags
// Author:      msto63
// Created:     2026-10-19
// License:     MIT
// ============================================================================

package version

import (
	"fmt"
	"runtime"
)

// Build metadata, set with
// -ldflags "-X github.com/msto63/owsh/pkg/core/version.Version=..."
var (
	Version   = "0.1.0"
	Commit    = "unknown"
	BuildDate = "unknown"
)

// Protocol is the version of the ows.Scheduler service contract
const Protocol = "1"

// Info describes the running binary
type Info struct {
	Program   string `json:"program"`
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildDate string `json:"build_date"`
	Protocol  string `json:"protocol"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}

// Get returns the build metadata for program
func Get(program string) Info {
	return Info{
		Program:   program,
		Version:   Version,
		Commit:    Commit,
		BuildDate: BuildDate,
		Protocol:  Protocol,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
}

// String formats the metadata as a single line
func (i Info) String() string {
	return fmt.Sprintf("%s %s (commit %s, built %s, protocol %s, %s %s)",
		i.Program, i.Version, i.Commit, i.BuildDate, i.Protocol, i.GoVersion, i.Platform)
}
