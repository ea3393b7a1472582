package core

import (
	"fmt"
	"runtime/debug"
)

// Build information, set via ldflags:
//
//	go build -ldflags "-X canvasmode/core.Version=$(git describe --tags --always)" .
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// VersionInfo returns "VERSION (built TIME, commit HASH)".
// When GitCommit was not injected, the VCS revision recorded by the Go toolchain is used.
func VersionInfo() string {
	return fmt.Sprintf("%s (built %s, commit %s)", Version, BuildTime, gitCommit(debug.ReadBuildInfo))
}

func gitCommit(readBuildInfo func() (*debug.BuildInfo, bool)) string {
	if GitCommit != "unknown" && GitCommit != "" {
		return GitCommit
	}
	info, ok := readBuildInfo()
	if !ok {
		return "unknown"
	}
	for _, s := range info.Settings {
		if s.Key == "vcs.revision" && s.Value != "" {
			if len(s.Value) > 7 {
				return s.Value[:7]
			}
			return s.Value
		}
	}
	return "unknown"
}
