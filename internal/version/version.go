// Package version holds build metadata injected with -ldflags. Values left
// unset fall back to what the Go toolchain stamped into the binary.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

var (
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

// String returns the version line printed by --version, for example
// "v0.3.0 (commit 1a2b3c4, built 2026-01-02T15:04:05Z, go1.25.4 linux/amd64)".
func String() string {
	commit, built := stamped()
	return fmt.Sprintf("%s (commit %s, built %s, %s %s/%s)",
		Version, commit, built, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}

// stamped prefers the ldflags values and falls back to the VCS settings of
// the build
func stamped() (commit, built string) {
	commit, built = Commit, BuildDate
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return commit, built
	}

	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			if commit == "unknown" && s.Value != "" {
				commit = shortRevision(s.Value)
			}
		case "vcs.time":
			if built == "unknown" && s.Value != "" {
				built = s.Value
			}
		}
	}
	return commit, built
}

func shortRevision(rev string) string {
	if len(rev) > 7 {
		return rev[:7]
	}
	return rev
}
