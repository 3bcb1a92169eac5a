// Package version reports the build version, taken from ldflags when set
// and from VCS build info otherwise.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

var (
	Version string // Set via ldflags.

	Revision  = getRevision()
	GoVersion = runtime.Version()
)

// Get returns the release version, falling back to the VCS revision.
func Get() string {
	if Version != "" {
		return Version
	}

	return Revision
}

// Detail returns the version with build metadata, for --version output.
func Detail() string {
	return fmt.Sprintf("%s (%s, %s/%s)", Get(), GoVersion, runtime.GOOS, runtime.GOARCH)
}

func getRevision() string {
	rev := "unknown"

	buildInfo, ok := debug.ReadBuildInfo()
	if !ok {
		return rev
	}

	modified := false

	for _, v := range buildInfo.Settings {
		switch v.Key {
		case "vcs.revision":
			if len(v.Value) > 7 {
				rev = v.Value[:7]
			} else {
				rev = v.Value
			}

		case "vcs.modified":
			if v.Value == "true" {
				modified = true
			}
		}
	}

	if modified {
		return rev + "-dirty"
	}

	return rev
}
