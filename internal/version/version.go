// Package version holds the build information shown by the editor and
// its command line tools.
package version

import "fmt"

// Set with -ldflags "-X line-editor/internal/version.Version=..." and so on.
var (
	Version   = "0.1.0"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// String formats the build information on one line.
func String() string {
	return fmt.Sprintf("%s (built %s, commit %s)", Version, BuildTime, GitCommit)
}
