// Package buildinfo surfaces version information about the executable
// artifact, injected at link time or recovered from the embedded Go build
// metadata.
package buildinfo

import (
	"fmt"
	"runtime/debug"
)

// BuildInfo holds version information about the build of an executable
// artifact.
type BuildInfo struct {
	Version    string
	CommitHash string
	BuildDate  string
}

// New assembles the build info from linker-injected values, falling back
// to the VCS metadata embedded by the Go toolchain.
func New(version, commitHash, buildDate string) BuildInfo {
	info := BuildInfo{Version: version, CommitHash: commitHash, BuildDate: buildDate}

	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if info.CommitHash == "" || info.CommitHash == "n/a" {
				info.CommitHash = s.Value
			}
		case "vcs.time":
			if info.BuildDate == "" || info.BuildDate == "<unknown>" {
				info.BuildDate = s.Value
			}
		}
	}
	return info
}

// String returns the build info as a string.
func (i BuildInfo) String() string {
	return fmt.Sprintf("version %s (%s) built on %s", i.Version, i.CommitHash, i.BuildDate)
}
