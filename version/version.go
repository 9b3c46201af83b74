// Package version holds build metadata, set at link time via -ldflags.
package version

import "runtime"

var (
	// GitRelease is the release tag of this build.
	GitRelease = "dev"

	// GitCommit is the commit hash of this build.
	GitCommit = "unknown"

	// GitCommitDate is the commit date of this build.
	GitCommitDate = "unknown"

	// GoInfo is the Go toolchain used for this build.
	GoInfo = runtime.Version()
)
